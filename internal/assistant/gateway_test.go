package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"binhoard-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestGateway(t *testing.T, maxRetries int) Gateway {
	t.Helper()
	return NewGateway(config.AssistantConfig{
		RequestTimeout: 5,
		MaxRetries:     maxRetries,
	}, zaptest.NewLogger(t))
}

func customConfig(endpoint string) ProviderConfig {
	return ProviderConfig{
		Provider:    ProviderCustom,
		Model:       "local-model",
		EndpointURL: endpoint,
	}
}

func chatCompletionBody(content string) string {
	return `{"choices": [{"message": {"content": ` + mustJSON(content) + `}, "finish_reason": "stop"}]}`
}

func mustJSON(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func TestGateway_Complete_Success(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionBody(`{"actions": []}`)))
	}))
	defer server.Close()

	gateway := newTestGateway(t, 0)
	response, err := gateway.Complete(context.Background(), customConfig(server.URL), CompletionRequest{
		System:       "you are a test",
		User:         "hello",
		JSONResponse: true,
		Temperature:  0.1,
		MaxTokens:    2048,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"actions": []}`, response)

	// wire request carried the full shape
	assert.Equal(t, "local-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	assert.Equal(t, 2048, captured.MaxTokens)
}

func TestGateway_Complete_BearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		w.Write([]byte(chatCompletionBody("ok")))
	}))
	defer server.Close()

	cfg := customConfig(server.URL)
	cfg.APIKey = "secret-key"

	gateway := newTestGateway(t, 0)
	_, err := gateway.Complete(context.Background(), cfg, CompletionRequest{User: "hello"})
	require.NoError(t, err)
}

func TestGateway_Complete_ImagePartsAsDataURLs(t *testing.T) {
	var rawBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		w.Write([]byte(chatCompletionBody("ok")))
	}))
	defer server.Close()

	gateway := newTestGateway(t, 0)
	_, err := gateway.Complete(context.Background(), customConfig(server.URL), CompletionRequest{
		User: "what is in this bin?",
		Images: []ImagePayload{
			{Data: "aGVsbG8=", MimeType: "image/jpeg"},
		},
	})
	require.NoError(t, err)

	messages := rawBody["messages"].([]any)
	require.Len(t, messages, 1)
	parts := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)

	textPart := parts[0].(map[string]any)
	assert.Equal(t, "text", textPart["type"])

	imagePart := parts[1].(map[string]any)
	assert.Equal(t, "image_url", imagePart["type"])
	url := imagePart["image_url"].(map[string]any)["url"].(string)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", url)
}

func TestGateway_Complete_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		body         string
		expectedKind string
	}{
		{"401 maps to invalid key", http.StatusUnauthorized, `{"error": {"message": "bad key"}}`, ErrorKindInvalidKey},
		{"403 maps to invalid key", http.StatusForbidden, `{"error": {"message": "forbidden"}}`, ErrorKindInvalidKey},
		{"404 maps to model not found", http.StatusNotFound, `{"error": {"message": "no such model"}}`, ErrorKindModelNotFound},
		{"model_not_found code maps regardless of status", http.StatusBadRequest, `{"error": {"message": "gone", "code": "model_not_found"}}`, ErrorKindModelNotFound},
		{"429 maps to rate limited", http.StatusTooManyRequests, `{"error": {"message": "slow down"}}`, ErrorKindRateLimited},
		{"500 maps to provider error", http.StatusInternalServerError, `{"error": {"message": "boom"}}`, ErrorKindProviderError},
		{"502 maps to provider error", http.StatusBadGateway, ``, ErrorKindProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gateway := newTestGateway(t, 0)
			_, err := gateway.Complete(context.Background(), customConfig(server.URL), CompletionRequest{User: "hello"})

			require.Error(t, err)
			assert.Equal(t, tt.expectedKind, ErrorKindOf(err), "every failure must map to exactly one kind")
		})
	}
}

func TestGateway_Complete_NetworkErrorKind(t *testing.T) {
	gateway := newTestGateway(t, 0)

	// nothing listens here
	_, err := gateway.Complete(context.Background(), customConfig("http://127.0.0.1:1"), CompletionRequest{User: "hello"})

	require.Error(t, err)
	assert.Equal(t, ErrorKindNetworkError, ErrorKindOf(err))
}

func TestGateway_Complete_MalformedResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`this is not json`))
	}))
	defer server.Close()

	gateway := newTestGateway(t, 0)
	_, err := gateway.Complete(context.Background(), customConfig(server.URL), CompletionRequest{User: "hello"})

	require.Error(t, err)
	assert.Equal(t, ErrorKindInvalidResponse, ErrorKindOf(err))
}

func TestGateway_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	gateway := newTestGateway(t, 0)
	_, err := gateway.Complete(context.Background(), customConfig(server.URL), CompletionRequest{User: "hello"})

	require.Error(t, err)
	assert.Equal(t, ErrorKindInvalidResponse, ErrorKindOf(err))
}

func TestGateway_Complete_RetriesTemporaryErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(chatCompletionBody("recovered")))
	}))
	defer server.Close()

	gateway := newTestGateway(t, 2)
	response, err := gateway.Complete(context.Background(), customConfig(server.URL), CompletionRequest{User: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "recovered", response)
	assert.Equal(t, 2, attempts)
}

func TestGateway_Complete_DoesNotRetryPermanentErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "bad key"}}`))
	}))
	defer server.Close()

	gateway := newTestGateway(t, 3)
	_, err := gateway.Complete(context.Background(), customConfig(server.URL), CompletionRequest{User: "hello"})

	require.Error(t, err)
	assert.Equal(t, ErrorKindInvalidKey, ErrorKindOf(err))
	assert.Equal(t, 1, attempts)
}

func TestGateway_Complete_InvalidConfigRejectedBeforeCall(t *testing.T) {
	gateway := newTestGateway(t, 0)

	_, err := gateway.Complete(context.Background(), ProviderConfig{Provider: ProviderOpenAI, Model: "gpt-4o-mini"}, CompletionRequest{User: "hello"})
	require.Error(t, err)
}

func TestGateway_TestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1, req.MaxTokens)
		w.Write([]byte(chatCompletionBody("pong")))
	}))
	defer server.Close()

	gateway := newTestGateway(t, 0)
	assert.NoError(t, gateway.TestConnection(context.Background(), customConfig(server.URL)))
}

func TestGateway_TestConnection_SurfacesFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	gateway := newTestGateway(t, 0)
	err := gateway.TestConnection(context.Background(), customConfig(server.URL))
	require.Error(t, err)
	assert.Equal(t, ErrorKindInvalidKey, ErrorKindOf(err))
}

func TestEndpointFor(t *testing.T) {
	assert.Equal(t, "https://api.openai.com/v1/chat/completions",
		endpointFor(ProviderConfig{Provider: ProviderOpenAI}))
	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions",
		endpointFor(ProviderConfig{Provider: ProviderOpenRouter}))
	assert.Equal(t, "http://localhost:11434/v1/chat/completions",
		endpointFor(ProviderConfig{Provider: ProviderCustom, EndpointURL: "http://localhost:11434/v1/"}))
}
