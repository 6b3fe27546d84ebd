package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/productivity-service/pkg/errors"
)

var pickStart = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

func newOpenEvent(t *testing.T) *PickEvent {
	t.Helper()
	event, err := NewPickEvent("order-1", "worker-1", "item-1", "loc-1", 3, pickStart)
	require.NoError(t, err)
	return event
}

func TestNewPickEvent(t *testing.T) {
	t.Run("creates an open event", func(t *testing.T) {
		event, err := NewPickEvent("order-1", "worker-1", "item-1", "loc-1", 3, pickStart)

		require.NoError(t, err)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, "order-1", event.OrderID)
		assert.Equal(t, "worker-1", event.WorkerID)
		assert.Equal(t, "item-1", event.ItemID)
		assert.Equal(t, "loc-1", event.LocationID)
		assert.Equal(t, 3, event.Quantity)
		assert.Equal(t, pickStart, event.StartedAt)
		assert.Nil(t, event.CompletedAt)
		assert.False(t, event.ShortPick)
		assert.False(t, event.IsCompleted())
	})

	tests := []struct {
		name       string
		orderID    string
		workerID   string
		itemID     string
		locationID string
		quantity   int
		startedAt  time.Time
		wantField  string
	}{
		{"missing order reference", "", "worker-1", "item-1", "loc-1", 3, pickStart, "orderId"},
		{"missing worker reference", "order-1", "", "item-1", "loc-1", 3, pickStart, "workerId"},
		{"missing item reference", "order-1", "worker-1", "", "loc-1", 3, pickStart, "itemId"},
		{"missing location reference", "order-1", "worker-1", "item-1", "", 3, pickStart, "locationId"},
		{"zero quantity", "order-1", "worker-1", "item-1", "loc-1", 0, pickStart, "quantity"},
		{"negative quantity", "order-1", "worker-1", "item-1", "loc-1", -2, pickStart, "quantity"},
		{"zero start timestamp", "order-1", "worker-1", "item-1", "loc-1", 3, time.Time{}, "startedAt"},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := NewPickEvent(tt.orderID, tt.workerID, tt.itemID, tt.locationID, tt.quantity, tt.startedAt)
			requireValidationError(t, err, tt.wantField)
		})
	}
}

func TestNewPickEventWithID(t *testing.T) {
	t.Run("carries the external identity", func(t *testing.T) {
		event, err := NewPickEventWithID("pick-9f2", "order-1", "worker-1", "item-1", "loc-1", 1, pickStart)

		require.NoError(t, err)
		assert.Equal(t, "pick-9f2", event.ID)
	})

	t.Run("rejects empty identity", func(t *testing.T) {
		_, err := NewPickEventWithID("", "order-1", "worker-1", "item-1", "loc-1", 1, pickStart)
		requireValidationError(t, err, "id")
	})
}

func TestPickEvent_Complete(t *testing.T) {
	t.Run("finalizes an open event", func(t *testing.T) {
		event := newOpenEvent(t)
		completedAt := pickStart.Add(45 * time.Second)

		err := event.Complete(completedAt, true)

		require.NoError(t, err)
		require.NotNil(t, event.CompletedAt)
		assert.Equal(t, completedAt, *event.CompletedAt)
		assert.True(t, event.ShortPick)
		assert.True(t, event.IsCompleted())
	})

	t.Run("allows zero-duration completion", func(t *testing.T) {
		event := newOpenEvent(t)

		err := event.Complete(pickStart, false)

		require.NoError(t, err)
		assert.True(t, event.IsCompleted())
	})

	t.Run("finalized event is frozen", func(t *testing.T) {
		event := newOpenEvent(t)
		require.NoError(t, event.Complete(pickStart.Add(time.Minute), false))

		err := event.Complete(pickStart.Add(2*time.Minute), true)

		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeConflict, appErr.Code)
		assert.Equal(t, pickStart.Add(time.Minute), *event.CompletedAt, "first completion preserved")
		assert.False(t, event.ShortPick, "short flag unchanged by rejected completion")
	})

	t.Run("surfaces an end before start, never clamps", func(t *testing.T) {
		event := newOpenEvent(t)

		err := event.Complete(pickStart.Add(-time.Second), false)

		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeInvalidInterval, appErr.Code)
		assert.Equal(t, event.ID, appErr.Details["event_id"])
		assert.Nil(t, event.CompletedAt, "event stays open after rejection")
	})
}
