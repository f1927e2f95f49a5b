package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"binhoard-api/internal/config"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Gateway issues one chat-style request per call, uniform across the
// supported provider variants, and normalizes success and failure shapes.
type Gateway interface {
	// Complete sends a prompt (optionally with image payloads) and returns
	// the provider's raw text response
	Complete(ctx context.Context, cfg ProviderConfig, req CompletionRequest) (string, error)

	// TestConnection exercises authentication and model validity with a
	// degenerate request, returning success or failure only
	TestConnection(ctx context.Context, cfg ProviderConfig) error
}

// CompletionRequest describes one provider call
type CompletionRequest struct {
	System       string
	User         string
	Images       []ImagePayload
	JSONResponse bool
	MaxTokens    int
	Temperature  float64
}

// chatRequest is the OpenAI-compatible wire request
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatMessage content is either a plain string or a list of typed parts
// (text + image_url) when image payloads are attached
type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the OpenAI-compatible wire response
type chatResponse struct {
	Choices []chatChoice   `json:"choices"`
	Error   *providerError `json:"error,omitempty"`
}

type chatChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type providerError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// Base URLs for the hosted provider variants; the custom variant uses the
// caller-supplied endpoint.
const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// openAIGateway implements Gateway over the OpenAI-compatible chat
// completions protocol shared by all three provider variants
type openAIGateway struct {
	httpClient *http.Client
	logger     *zap.Logger
	maxRetries int
}

// NewGateway creates a provider gateway using the configured timeouts
func NewGateway(cfg config.AssistantConfig, logger *zap.Logger) Gateway {
	return &openAIGateway{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		logger:     logger,
		maxRetries: cfg.MaxRetries,
	}
}

// Complete implements the Gateway interface
func (g *openAIGateway) Complete(ctx context.Context, cfg ProviderConfig, req CompletionRequest) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	g.logger.Info("Calling AI provider",
		zap.String("provider", string(cfg.Provider)),
		zap.String("model", cfg.Model),
		zap.Bool("json_response", req.JSONResponse),
		zap.Int("image_count", len(req.Images)))

	wireReq := g.buildWireRequest(cfg, req)

	var response string
	operation := func() error {
		var err error
		response, err = g.callAPI(ctx, cfg, wireReq)
		if err != nil {
			if IsRetryable(err) {
				g.logger.Warn("Retryable provider error, will retry",
					zap.String("kind", ErrorKindOf(err)))
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(g.newBackoff(), ctx))
	if err != nil {
		// backoff.Permanent unwraps itself; coerce whatever is left
		gwErr := CoerceGatewayError(err)
		g.logger.Error("Provider call failed",
			zap.String("provider", string(cfg.Provider)),
			zap.String("kind", gwErr.Kind))
		return "", gwErr
	}

	return response, nil
}

// TestConnection implements the Gateway interface
func (g *openAIGateway) TestConnection(ctx context.Context, cfg ProviderConfig) error {
	_, err := g.Complete(ctx, cfg, CompletionRequest{
		User:      "ping",
		MaxTokens: 1,
	})
	if err != nil {
		return err
	}
	return nil
}

// newBackoff creates a fresh retry strategy per call
func (g *openAIGateway) newBackoff() backoff.BackOff {
	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = 1 * time.Second
	strategy.MaxInterval = 30 * time.Second
	strategy.MaxElapsedTime = 2 * time.Minute
	strategy.Multiplier = 2.0

	return backoff.WithMaxRetries(strategy, uint64(g.maxRetries))
}

// buildWireRequest assembles the OpenAI-compatible request body
func (g *openAIGateway) buildWireRequest(cfg ProviderConfig, req CompletionRequest) chatRequest {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}

	if len(req.Images) > 0 {
		parts := make([]contentPart, 0, len(req.Images)+1)
		if req.User != "" {
			parts = append(parts, contentPart{Type: "text", Text: req.User})
		}
		for _, img := range req.Images {
			parts = append(parts, contentPart{
				Type: "image_url",
				ImageURL: &imageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", img.MimeType, img.Data),
				},
			})
		}
		messages = append(messages, chatMessage{Role: "user", Content: parts})
	} else {
		messages = append(messages, chatMessage{Role: "user", Content: req.User})
	}

	wireReq := chatRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONResponse {
		wireReq.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	return wireReq
}

// endpointFor resolves the chat completions URL for a provider variant
func endpointFor(cfg ProviderConfig) string {
	var base string
	switch cfg.Provider {
	case ProviderOpenAI:
		base = openAIBaseURL
	case ProviderOpenRouter:
		base = openRouterBaseURL
	default:
		base = strings.TrimSuffix(cfg.EndpointURL, "/")
	}
	return base + "/chat/completions"
}

// callAPI makes the actual HTTP request and normalizes the outcome
func (g *openAIGateway) callAPI(ctx context.Context, cfg ProviderConfig, req chatRequest) (string, error) {
	requestBody, err := json.Marshal(req)
	if err != nil {
		return "", NewGatewayError(ErrorKindInvalidResponse, 0, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointFor(cfg), bytes.NewBuffer(requestBody))
	if err != nil {
		return "", NewGatewayError(ErrorKindNetworkError, 0, "failed to create HTTP request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", NewGatewayError(ErrorKindNetworkError, 0, "provider request failed", err)
	}
	defer httpResp.Body.Close()

	responseBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", NewGatewayError(ErrorKindNetworkError, 0, "failed to read provider response", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", g.handleHTTPError(httpResp.StatusCode, responseBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(responseBody, &chatResp); err != nil {
		return "", NewGatewayError(ErrorKindInvalidResponse, httpResp.StatusCode, "provider response did not parse", err)
	}

	if chatResp.Error != nil {
		return "", NewGatewayError(ErrorKindProviderError, httpResp.StatusCode, chatResp.Error.Message, nil)
	}

	if len(chatResp.Choices) == 0 {
		return "", NewGatewayError(ErrorKindInvalidResponse, httpResp.StatusCode, "provider returned no choices", nil)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// handleHTTPError coerces every non-2xx response into exactly one of the
// six error kinds
func (g *openAIGateway) handleHTTPError(statusCode int, responseBody []byte) error {
	detail := "provider returned an error"
	modelMissing := false

	var chatResp chatResponse
	if err := json.Unmarshal(responseBody, &chatResp); err == nil && chatResp.Error != nil {
		detail = chatResp.Error.Message
		if code, ok := chatResp.Error.Code.(string); ok && code == "model_not_found" {
			modelMissing = true
		}
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewGatewayError(ErrorKindInvalidKey, statusCode, detail, nil)
	case statusCode == http.StatusNotFound || modelMissing:
		return NewGatewayError(ErrorKindModelNotFound, statusCode, detail, nil)
	case statusCode == http.StatusTooManyRequests:
		return NewGatewayError(ErrorKindRateLimited, statusCode, detail, nil)
	default:
		return NewGatewayError(ErrorKindProviderError, statusCode, detail, nil)
	}
}
