package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Events    EventsConfig    `mapstructure:"events"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Undo      UndoConfig      `mapstructure:"undo"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Environment  string `mapstructure:"environment"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// AssistantConfig holds defaults for the AI command pipeline. The provider
// API key is always supplied by the caller per request and never stored here.
type AssistantConfig struct {
	DefaultProvider string `mapstructure:"default_provider"`
	DefaultModel    string `mapstructure:"default_model"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	MaxRetries      int    `mapstructure:"max_retries"`
	MaxCommandChars int    `mapstructure:"max_command_chars"`
}

type EventsConfig struct {
	BufferSize      int `mapstructure:"buffer_size"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"`
}

type RateLimitConfig struct {
	RequestsPerHour int  `mapstructure:"requests_per_hour"`
	Enabled         bool `mapstructure:"enabled"`
}

type UndoConfig struct {
	SnapshotTTL     int `mapstructure:"snapshot_ttl"`
	CleanupInterval int `mapstructure:"cleanup_interval"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set defaults
	setDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "binhoard")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)

	viper.SetDefault("assistant.default_provider", "openai")
	viper.SetDefault("assistant.default_model", "gpt-4o-mini")
	viper.SetDefault("assistant.request_timeout", 30)
	viper.SetDefault("assistant.max_retries", 3)
	viper.SetDefault("assistant.max_command_chars", 5000)

	viper.SetDefault("events.buffer_size", 1000)
	viper.SetDefault("events.shutdown_timeout", 30)

	viper.SetDefault("ratelimit.requests_per_hour", 60)
	viper.SetDefault("ratelimit.enabled", true)

	// snapshots live for an hour, swept every ten minutes
	viper.SetDefault("undo.snapshot_ttl", 3600)
	viper.SetDefault("undo.cleanup_interval", 600)
}
