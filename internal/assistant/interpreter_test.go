package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testProviderConfig() ProviderConfig {
	return ProviderConfig{
		Provider: ProviderOpenAI,
		APIKey:   "test-key",
		Model:    "gpt-4o-mini",
	}
}

func TestInterpreter_Interpret_HappyPath(t *testing.T) {
	gateway := NewMockGateway(`{
		"actions": [
			{"type": "add_items", "bin_name": "Tools", "items": ["wrench"]},
			{"type": "set_color", "bin_name": "Tools", "color": "red"}
		],
		"interpretation": "Add a wrench to Tools and make it red"
	}`)
	interpreter := NewInterpreter(gateway, zaptest.NewLogger(t))

	result, err := interpreter.Interpret(context.Background(), testProviderConfig(), "add a wrench to tools and make it red", snapshotFixture(), "")
	require.NoError(t, err)

	require.Len(t, result.Actions, 2)
	assert.Equal(t, ActionAddItems, result.Actions[0].Type)
	assert.Equal(t, []string{"wrench"}, result.Actions[0].Items)
	assert.Equal(t, ActionSetColor, result.Actions[1].Type)
	assert.Equal(t, "Add a wrench to Tools and make it red", result.Interpretation)

	// prompt carried the snapshot, request demanded JSON
	require.Len(t, gateway.Requests, 1)
	assert.True(t, gateway.Requests[0].JSONResponse)
	assert.Contains(t, gateway.Requests[0].System, `"Tools"`)
	assert.Equal(t, "add a wrench to tools and make it red", gateway.Requests[0].User)
}

func TestInterpreter_Interpret_DropsMalformedActions(t *testing.T) {
	// one valid action, one with an unknown type, one missing its items
	gateway := NewMockGateway(`{
		"actions": [
			{"type": "add_items", "bin_name": "Tools", "items": ["wrench"]},
			{"type": "merge_bins", "bin_name": "Tools"},
			{"type": "remove_items", "bin_name": "Tools"}
		],
		"interpretation": "mixed bag"
	}`)
	interpreter := NewInterpreter(gateway, zaptest.NewLogger(t))

	result, err := interpreter.Interpret(context.Background(), testProviderConfig(), "do things", snapshotFixture(), "")
	require.NoError(t, err)

	require.Len(t, result.Actions, 1)
	assert.Equal(t, ActionAddItems, result.Actions[0].Type)
}

func TestInterpreter_Interpret_EmptyActionsIsValid(t *testing.T) {
	gateway := NewMockGateway(`{"actions": [], "interpretation": "nothing matched your bins"}`)
	interpreter := NewInterpreter(gateway, zaptest.NewLogger(t))

	result, err := interpreter.Interpret(context.Background(), testProviderConfig(), "gibberish", snapshotFixture(), "")
	require.NoError(t, err)

	assert.Empty(t, result.Actions)
	assert.Equal(t, "nothing matched your bins", result.Interpretation)
}

func TestInterpreter_Interpret_TopLevelGarbage(t *testing.T) {
	gateway := NewMockGateway(`I am sorry, I cannot help with that.`)
	interpreter := NewInterpreter(gateway, zaptest.NewLogger(t))

	_, err := interpreter.Interpret(context.Background(), testProviderConfig(), "add a wrench", snapshotFixture(), "")
	require.Error(t, err)
	assert.Equal(t, ErrorKindInvalidResponse, ErrorKindOf(err))
}

func TestInterpreter_Interpret_MissingActionsArray(t *testing.T) {
	gateway := NewMockGateway(`{"interpretation": "I understood but forgot the actions"}`)
	interpreter := NewInterpreter(gateway, zaptest.NewLogger(t))

	_, err := interpreter.Interpret(context.Background(), testProviderConfig(), "add a wrench", snapshotFixture(), "")
	require.Error(t, err)
	assert.Equal(t, ErrorKindInvalidResponse, ErrorKindOf(err))
}

func TestInterpreter_Interpret_GatewayErrorPassesThrough(t *testing.T) {
	gateway := &MockGateway{Err: NewGatewayError(ErrorKindRateLimited, 429, "slow down", nil)}
	interpreter := NewInterpreter(gateway, zaptest.NewLogger(t))

	_, err := interpreter.Interpret(context.Background(), testProviderConfig(), "add a wrench", snapshotFixture(), "")
	require.Error(t, err)
	assert.Equal(t, ErrorKindRateLimited, ErrorKindOf(err))
}

func TestInterpreter_Interpret_JSONWrappedInProse(t *testing.T) {
	gateway := NewMockGateway("Here is your plan:\n```json\n" +
		`{"actions": [{"type": "delete_bin", "bin_name": "Old Box"}], "interpretation": "Delete Old Box"}` +
		"\n```\nLet me know!")
	interpreter := NewInterpreter(gateway, zaptest.NewLogger(t))

	result, err := interpreter.Interpret(context.Background(), testProviderConfig(), "delete the old box", snapshotFixture(), "")
	require.NoError(t, err)

	require.Len(t, result.Actions, 1)
	assert.Equal(t, ActionDeleteBin, result.Actions[0].Type)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"surrounded by prose", `sure! {"a": {"b": 2}} done`, `{"a": {"b": 2}}`},
		{"no object at all", `no json here`, `no json here`},
		{"unbalanced braces", `{"a": 1`, `{"a": 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSON(tt.input))
		})
	}
}
