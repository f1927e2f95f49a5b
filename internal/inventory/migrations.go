package inventory

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations performs auto-migration for all inventory tables
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Area{},
		&Bin{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate inventory tables: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates performance indexes for inventory tables
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_bins_location_id ON bins(location_id)",
		"CREATE INDEX IF NOT EXISTS idx_bins_area_id ON bins(area_id)",
		"CREATE INDEX IF NOT EXISTS idx_bins_name ON bins(name)",
		"CREATE INDEX IF NOT EXISTS idx_areas_location_id ON areas(location_id)",
		"CREATE INDEX IF NOT EXISTS idx_areas_name ON areas(name)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create inventory index: %w", err)
		}
	}

	return nil
}
