package assistant

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// Interpreter turns free text plus an inventory snapshot into a raw action
// list by orchestrating the prompt builder and the provider gateway
type Interpreter struct {
	gateway Gateway
	logger  *zap.Logger
}

// NewInterpreter creates a new Interpreter instance
func NewInterpreter(gateway Gateway, logger *zap.Logger) *Interpreter {
	return &Interpreter{
		gateway: gateway,
		logger:  logger,
	}
}

// rawInterpretation is the top-level shape expected back from the model.
// Actions stay raw so a single malformed element cannot sink the rest.
type rawInterpretation struct {
	Actions        []json.RawMessage `json:"actions"`
	Interpretation string            `json:"interpretation"`
}

// Interpret runs one interpretation request. A top-level parse failure or a
// missing actions array fails with INVALID_RESPONSE; individually malformed
// actions are dropped silently. An empty action list is a valid result.
func (i *Interpreter) Interpret(ctx context.Context, cfg ProviderConfig, text string, cmdCtx CommandContext, promptOverride string) (*InterpretationResult, error) {
	systemPrompt, err := BuildCommandPrompt(cmdCtx, promptOverride)
	if err != nil {
		return nil, NewGatewayError(ErrorKindInvalidResponse, 0, "failed to build prompt", err)
	}

	responseText, err := i.gateway.Complete(ctx, cfg, CompletionRequest{
		System:       systemPrompt,
		User:         text,
		JSONResponse: true,
		Temperature:  0.1, // low temperature for consistent structured output
		MaxTokens:    2048,
	})
	if err != nil {
		return nil, err
	}

	jsonStr := extractJSON(responseText)

	var raw rawInterpretation
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		i.logger.Warn("Interpretation response did not parse as JSON",
			zap.Error(err))
		return nil, NewGatewayError(ErrorKindInvalidResponse, 0, "model response was not valid action JSON", err)
	}

	if raw.Actions == nil {
		return nil, NewGatewayError(ErrorKindInvalidResponse, 0, "model response missing actions array", nil)
	}

	actions := make([]Action, 0, len(raw.Actions))
	dropped := 0
	for _, rawAction := range raw.Actions {
		var action Action
		if err := json.Unmarshal(rawAction, &action); err != nil {
			dropped++
			i.logger.Debug("Dropping unparseable action", zap.Error(err))
			continue
		}
		if err := action.Validate(); err != nil {
			dropped++
			i.logger.Debug("Dropping malformed action",
				zap.String("type", string(action.Type)),
				zap.Error(err))
			continue
		}
		actions = append(actions, action)
	}

	if dropped > 0 {
		i.logger.Info("Dropped malformed actions from interpretation",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(actions)))
	}

	return &InterpretationResult{
		Actions:        actions,
		Interpretation: raw.Interpretation,
	}, nil
}

// parseJSONPayload extracts and decodes a single JSON object of the given
// shape from free-form response text
func parseJSONPayload[T any](responseText string) (*T, error) {
	jsonStr := extractJSON(responseText)

	var payload T
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, NewGatewayError(ErrorKindInvalidResponse, 0, "model response was not valid JSON", err)
	}
	return &payload, nil
}

// extractJSON extracts the first JSON object from response text that might
// contain surrounding content
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return text
	}

	braceCount := 0
	for i := start; i < len(text); i++ {
		if text[i] == '{' {
			braceCount++
		} else if text[i] == '}' {
			braceCount--
			if braceCount == 0 {
				return text[start : i+1]
			}
		}
	}

	return text[start:]
}
