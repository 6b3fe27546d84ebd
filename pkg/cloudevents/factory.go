package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventFactory creates CloudEvents for productivity domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new WMSCloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *WMSCloudEvent {
	return &WMSCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}
}

// CreatePickRecordedEvent creates a PickRecorded event
func (f *EventFactory) CreatePickRecordedEvent(
	ctx context.Context,
	pickID string,
	orderID string,
	workerID string,
	itemID string,
	locationID string,
	quantity int,
	startedAt time.Time,
) *WMSCloudEvent {
	data := PickRecordedData{
		PickID:     pickID,
		OrderID:    orderID,
		WorkerID:   workerID,
		ItemID:     itemID,
		LocationID: locationID,
		Quantity:   quantity,
		StartedAt:  startedAt,
	}
	event := f.CreateEvent(ctx, PickRecorded, "pick/"+pickID, data)
	event.OrderID = orderID
	return event
}

// CreatePickCompletedEvent creates a PickCompleted event
func (f *EventFactory) CreatePickCompletedEvent(
	ctx context.Context,
	pickID string,
	workerID string,
	completedAt time.Time,
	shortPick bool,
) *WMSCloudEvent {
	data := PickCompletedData{
		PickID:      pickID,
		WorkerID:    workerID,
		CompletedAt: completedAt,
		ShortPick:   shortPick,
	}
	return f.CreateEvent(ctx, PickCompleted, "pick/"+pickID, data)
}
