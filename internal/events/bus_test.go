package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(zaptest.NewLogger(t))
	defer bus.Close()

	var mu sync.Mutex
	var received []InventoryChanged

	handler := func(event InventoryChanged) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
	}
	require.NoError(t, bus.Subscribe(TopicInventoryChanged, handler))

	event := InventoryChanged{
		Event:      NewEvent(),
		LocationID: "loc-1",
		BinID:      "bin-1",
		Change:     "updated",
	}
	require.NoError(t, bus.Publish(TopicInventoryChanged, event))

	// delivery is synchronous for non-async subscriptions
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "bin-1", received[0].BinID)
	assert.Equal(t, "updated", received[0].Change)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(zaptest.NewLogger(t))
	defer bus.Close()

	calls := 0
	handler := func(event InventoryChanged) { calls++ }

	require.NoError(t, bus.Subscribe(TopicInventoryChanged, handler))
	require.NoError(t, bus.Unsubscribe(TopicInventoryChanged, handler))
	require.NoError(t, bus.Publish(TopicInventoryChanged, InventoryChanged{Event: NewEvent()}))

	assert.Zero(t, calls)
}

func TestEventBus_ClosedRejectsPublish(t *testing.T) {
	bus := NewEventBus(zaptest.NewLogger(t))
	require.NoError(t, bus.Close())

	assert.Error(t, bus.Publish(TopicInventoryChanged, InventoryChanged{Event: NewEvent()}))
	assert.Error(t, bus.Subscribe(TopicInventoryChanged, func(InventoryChanged) {}))

	// closing twice is harmless
	assert.NoError(t, bus.Close())
}

func TestNewEvent(t *testing.T) {
	event := NewEvent()
	assert.NotEmpty(t, event.CorrelationID)
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Second)

	assert.NotEqual(t, event.CorrelationID, NewEvent().CorrelationID)
}
