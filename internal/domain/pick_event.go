package domain

import (
	"strconv"
	"time"

	"github.com/wms-platform/productivity-service/pkg/errors"
)

// PickEvent is the central fact record: one worker picking one item from
// one location for one order. Events are created open (no end timestamp),
// completed exactly once, then frozen. Corrections are new compensating
// records, never in-place mutation.
type PickEvent struct {
	Record      `bson:",inline"`
	OrderID     string     `bson:"orderId" json:"orderId"`
	WorkerID    string     `bson:"workerId" json:"workerId"`
	ItemID      string     `bson:"itemId" json:"itemId"`
	LocationID  string     `bson:"locationId" json:"locationId"`
	Quantity    int        `bson:"quantity" json:"quantity"`
	StartedAt   time.Time  `bson:"startedAt" json:"startedAt"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	ShortPick   bool       `bson:"shortPick" json:"shortPick"`
}

// NewPickEvent creates a new open pick event with field validation.
// Referential integrity against the catalog is the event store's concern
// at append time.
func NewPickEvent(orderID, workerID, itemID, locationID string, quantity int, startedAt time.Time) (*PickEvent, error) {
	if orderID == "" {
		return nil, errors.ErrValidationField("orderId", orderID)
	}
	if workerID == "" {
		return nil, errors.ErrValidationField("workerId", workerID)
	}
	if itemID == "" {
		return nil, errors.ErrValidationField("itemId", itemID)
	}
	if locationID == "" {
		return nil, errors.ErrValidationField("locationId", locationID)
	}
	if quantity <= 0 {
		return nil, errors.ErrValidationField("quantity", strconv.Itoa(quantity))
	}
	if startedAt.IsZero() {
		return nil, errors.ErrValidationField("startedAt", "")
	}

	return &PickEvent{
		Record:     NewRecord(),
		OrderID:    orderID,
		WorkerID:   workerID,
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   quantity,
		StartedAt:  startedAt,
	}, nil
}

// NewPickEventWithID creates a new open pick event carrying an external
// identity, used when ingesting picks recorded by an upstream system.
func NewPickEventWithID(id, orderID, workerID, itemID, locationID string, quantity int, startedAt time.Time) (*PickEvent, error) {
	if id == "" {
		return nil, errors.ErrValidationField("id", id)
	}

	event, err := NewPickEvent(orderID, workerID, itemID, locationID, quantity, startedAt)
	if err != nil {
		return nil, err
	}
	event.ID = id
	return event, nil
}

// IsCompleted reports whether the event has been finalized.
func (e *PickEvent) IsCompleted() bool {
	return e.CompletedAt != nil
}

// Complete finalizes the event with its end timestamp and short-pick flag.
// A finalized event is frozen: completing it again fails, and an end
// timestamp before the start timestamp is surfaced, never clamped.
func (e *PickEvent) Complete(at time.Time, short bool) error {
	if e.IsCompleted() {
		return errors.ErrConflict("pick event already completed").
			WithDetail("event_id", e.ID)
	}
	if at.Before(e.StartedAt) {
		return errors.ErrInvalidInterval(e.ID)
	}

	completedAt := at
	e.CompletedAt = &completedAt
	e.ShortPick = short
	e.Touch()
	return nil
}
