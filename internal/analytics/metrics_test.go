package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
)

var baseStart = time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

func openEvent(t *testing.T, workerID string) *domain.PickEvent {
	t.Helper()
	event, err := domain.NewPickEvent("order-1", workerID, "item-1", "loc-1", 1, baseStart)
	require.NoError(t, err)
	return event
}

func eventWithDuration(t *testing.T, workerID string, quantity int, seconds float64) *domain.PickEvent {
	t.Helper()
	event, err := domain.NewPickEvent("order-1", workerID, "item-1", "loc-1", quantity, baseStart)
	require.NoError(t, err)
	require.NoError(t, event.Complete(baseStart.Add(time.Duration(seconds*float64(time.Second))), false))
	return event
}

func TestDurationSeconds(t *testing.T) {
	t.Run("nil for an open event", func(t *testing.T) {
		d, err := DurationSeconds(openEvent(t, "worker-1"))

		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("exact seconds for a completed event", func(t *testing.T) {
		event := eventWithDuration(t, "worker-1", 1, 90.5)

		d, err := DurationSeconds(event)

		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, 90.5, *d)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		event := eventWithDuration(t, "worker-1", 1, 42)

		first, err := DurationSeconds(event)
		require.NoError(t, err)
		second, err := DurationSeconds(event)
		require.NoError(t, err)

		assert.Equal(t, *first, *second)
	})

	t.Run("zero duration is valid", func(t *testing.T) {
		event := eventWithDuration(t, "worker-1", 1, 0)

		d, err := DurationSeconds(event)

		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, 0.0, *d)
	})

	t.Run("end before start surfaces INVALID_INTERVAL", func(t *testing.T) {
		// Bypass Complete's guard to simulate bad data arriving from the store.
		event := openEvent(t, "worker-1")
		bad := baseStart.Add(-time.Second)
		event.CompletedAt = &bad

		_, err := DurationSeconds(event)

		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeInvalidInterval, appErr.Code)
		assert.Equal(t, event.ID, appErr.Details["event_id"])
	})
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{2.344, 2.34},
		{2.346, 2.35},
		{133.333333, 133.33},
		{-1.567, -1.57},
		{90.5, 90.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestRound2Ptr(t *testing.T) {
	assert.Nil(t, Round2Ptr(nil))

	v := 12.3456
	rounded := Round2Ptr(&v)
	require.NotNil(t, rounded)
	assert.Equal(t, 12.35, *rounded)
	assert.Equal(t, 12.3456, v, "input value untouched")
}

func TestSummarizeValues(t *testing.T) {
	t.Run("empty series yields zero count and nil statistics", func(t *testing.T) {
		stats := SummarizeValues(nil)

		assert.Equal(t, 0, stats.Count)
		assert.Nil(t, stats.Avg)
		assert.Nil(t, stats.Min)
		assert.Nil(t, stats.Max)
	})

	t.Run("single value", func(t *testing.T) {
		stats := SummarizeValues([]float64{42})

		assert.Equal(t, 1, stats.Count)
		assert.Equal(t, 42.0, *stats.Avg)
		assert.Equal(t, 42.0, *stats.Min)
		assert.Equal(t, 42.0, *stats.Max)
	})

	t.Run("multiple values", func(t *testing.T) {
		stats := SummarizeValues([]float64{30, 10, 20})

		assert.Equal(t, 3, stats.Count)
		assert.Equal(t, 20.0, *stats.Avg)
		assert.Equal(t, 10.0, *stats.Min)
		assert.Equal(t, 30.0, *stats.Max)
	})
}
