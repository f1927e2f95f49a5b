package events

import (
	"time"

	"github.com/google/uuid"
)

// Event represents the base event structure with common fields
type Event struct {
	CorrelationID string    `json:"correlation_id" validate:"required"`
	Timestamp     time.Time `json:"timestamp" validate:"required"`
}

// NewEvent creates a new base event with generated correlation ID
func NewEvent() Event {
	return Event{
		CorrelationID: uuid.New().String(),
		Timestamp:     time.Now(),
	}
}

// CommandInterpreted represents an event when the assistant has turned free
// text into a resolved action list
type CommandInterpreted struct {
	Event
	UserID         string `json:"user_id" validate:"required"`
	LocationID     string `json:"location_id" validate:"required"`
	ActionCount    int    `json:"action_count"`
	Interpretation string `json:"interpretation"`
}

// ActionExecuted represents an event when a single approved action has been
// attempted against the inventory store
type ActionExecuted struct {
	Event
	UserID     string `json:"user_id" validate:"required"`
	LocationID string `json:"location_id" validate:"required"`
	ActionType string `json:"action_type" validate:"required"`
	BinID      string `json:"bin_id,omitempty"`
	Succeeded  bool   `json:"succeeded"`
	Error      string `json:"error,omitempty"`
}

// ExecutionCompleted represents an event when a command run has attempted
// all approved actions
type ExecutionCompleted struct {
	Event
	UserID     string `json:"user_id" validate:"required"`
	LocationID string `json:"location_id" validate:"required"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
}

// InventoryChanged is the UI refresh signal emitted after any store mutation
type InventoryChanged struct {
	Event
	LocationID string `json:"location_id" validate:"required"`
	BinID      string `json:"bin_id,omitempty"`
	Change     string `json:"change" validate:"required"`
}

// Event topics constants
const (
	TopicCommandInterpreted = "assistant.command.interpreted"
	TopicActionExecuted     = "assistant.action.executed"
	TopicExecutionCompleted = "assistant.execution.completed"
	TopicInventoryChanged   = "inventory.changed"
)
