// Package ingestion consumes picking CloudEvents and replays them onto
// the pick event log. Payloads carry warehouse business codes, which are
// resolved to catalog IDs before the append. A conflicting append means
// the message was delivered before, so it is acknowledged without effect.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/cloudevents"
	"github.com/wms-platform/productivity-service/pkg/contracts/asyncapi"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/kafka"
	"github.com/wms-platform/productivity-service/pkg/logging"
	"github.com/wms-platform/productivity-service/pkg/metrics"
)

// Ingest outcomes recorded on the events_ingested_total counter.
const (
	statusAppended  = "appended"
	statusRejected  = "rejected"
	statusDuplicate = "duplicate"
)

// Subscriber registers event handlers by topic and event type. The
// platform kafka consumer satisfies it.
type Subscriber interface {
	Subscribe(topic string, eventType string, handler kafka.EventHandler)
}

// EventPublisher publishes productivity CloudEvents to the event bus.
// The instrumented kafka producer satisfies it.
type EventPublisher interface {
	PublishEventAsync(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent, callback func(error))
}

// Config carries the collaborators of the ingestion handler. Publisher
// and event factory may be nil, in which case ingested picks are not
// re-announced on the productivity topic.
type Config struct {
	Store        domain.EventStore
	Workers      domain.WorkerRepository
	Items        domain.ItemRepository
	Locations    domain.LocationRepository
	Orders       domain.OrderRepository
	Validator    *asyncapi.EventValidator
	Publisher    EventPublisher
	EventFactory *cloudevents.EventFactory
	Metrics      *metrics.Metrics
	Logger       *logging.Logger
	ConsumeTopic string
	PublishTopic string
}

// Handler ingests picking events into the pick event log.
//
// Failures fall in two classes. Permanent ones (contract violations,
// unresolvable references, frozen events) are counted and swallowed so
// the message commits. Transient ones propagate to the consumer, which
// leaves the message uncommitted for redelivery.
type Handler struct {
	store        domain.EventStore
	workers      domain.WorkerRepository
	items        domain.ItemRepository
	locations    domain.LocationRepository
	orders       domain.OrderRepository
	validator    *asyncapi.EventValidator
	publisher    EventPublisher
	eventFactory *cloudevents.EventFactory
	metrics      *metrics.Metrics
	logger       *logging.Logger
	consumeTopic string
	publishTopic string
}

// NewHandler creates a new ingestion Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		store:        cfg.Store,
		workers:      cfg.Workers,
		items:        cfg.Items,
		locations:    cfg.Locations,
		orders:       cfg.Orders,
		validator:    cfg.Validator,
		publisher:    cfg.Publisher,
		eventFactory: cfg.EventFactory,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		consumeTopic: cfg.ConsumeTopic,
		publishTopic: cfg.PublishTopic,
	}
}

// Register subscribes the handler to the picking event types it ingests.
func (h *Handler) Register(subscriber Subscriber) {
	subscriber.Subscribe(h.consumeTopic, cloudevents.ItemPicked, h.HandleItemPicked)
	subscriber.Subscribe(h.consumeTopic, cloudevents.PickTaskCompleted, h.HandlePickTaskCompleted)
}

// HandleItemPicked appends one pick announced by the picking service.
// Events carrying a completion time land on the log already completed.
func (h *Handler) HandleItemPicked(ctx context.Context, event *cloudevents.WMSCloudEvent) error {
	if err := h.validator.ValidateEventData(event.Type, event.Data); err != nil {
		h.reject(ctx, event, err)
		return nil
	}

	var data cloudevents.ItemPickedData
	if err := decodeData(event.Data, &data); err != nil {
		h.reject(ctx, event, err)
		return nil
	}

	refs, err := h.resolveReferences(ctx, &data)
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			h.reject(ctx, event, err)
			return nil
		}
		return err
	}

	pick, err := domain.NewPickEventWithID(data.PickID, refs.orderID, refs.workerID,
		refs.itemID, refs.locationID, data.Quantity, data.StartedAt)
	if err != nil {
		h.reject(ctx, event, err)
		return nil
	}
	if data.CompletedAt != nil {
		if err := pick.Complete(*data.CompletedAt, data.ShortPick); err != nil {
			h.reject(ctx, event, err)
			return nil
		}
	}

	if _, err := h.store.Append(ctx, pick); err != nil {
		appErr, ok := errors.AsAppError(err)
		switch {
		case ok && appErr.Code == errors.CodeConflict:
			h.duplicate(ctx, event, pick.ID)
			return nil
		case ok:
			h.reject(ctx, event, err)
			return nil
		default:
			return fmt.Errorf("failed to append pick event: %w", err)
		}
	}

	if h.metrics != nil {
		h.metrics.RecordEventIngested(h.consumeTopic, statusAppended)
		h.metrics.RecordPickRecorded("kafka")
		if pick.IsCompleted() {
			h.metrics.RecordPickCompleted(pick.ShortPick)
		}
	}
	h.logger.WithContext(ctx).Info("Ingested pick",
		"pickId", pick.ID, "workerId", pick.WorkerID, "completed", pick.IsCompleted())

	h.publishRecorded(ctx, pick)
	h.publishCompleted(ctx, pick)
	return nil
}

// HandlePickTaskCompleted finalizes a pick announced earlier without a
// completion time. The picking service never replays the announcement,
// so a completion for an unknown pick is permanent and rejected rather
// than retried.
func (h *Handler) HandlePickTaskCompleted(ctx context.Context, event *cloudevents.WMSCloudEvent) error {
	if err := h.validator.ValidateEventData(event.Type, event.Data); err != nil {
		h.reject(ctx, event, err)
		return nil
	}

	var data cloudevents.PickTaskCompletedData
	if err := decodeData(event.Data, &data); err != nil {
		h.reject(ctx, event, err)
		return nil
	}

	pick, err := h.store.FindByID(ctx, data.PickID)
	if err != nil {
		return fmt.Errorf("failed to get pick event: %w", err)
	}
	if pick == nil {
		h.reject(ctx, event, errors.ErrNotFoundWithID("pick event", data.PickID))
		return nil
	}

	if err := pick.Complete(data.CompletedAt, data.ShortPick); err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.Code == errors.CodeConflict {
			h.duplicate(ctx, event, pick.ID)
		} else {
			h.reject(ctx, event, err)
		}
		return nil
	}

	if err := h.store.Update(ctx, pick); err != nil {
		appErr, ok := errors.AsAppError(err)
		switch {
		case ok && appErr.Code == errors.CodeConflict:
			// Lost the race against another delivery of the same completion.
			h.duplicate(ctx, event, pick.ID)
			return nil
		case ok:
			h.reject(ctx, event, err)
			return nil
		default:
			return fmt.Errorf("failed to update pick event: %w", err)
		}
	}

	if h.metrics != nil {
		h.metrics.RecordEventIngested(h.consumeTopic, statusAppended)
		h.metrics.RecordPickCompleted(pick.ShortPick)
	}
	h.logger.WithContext(ctx).Info("Ingested pick completion",
		"pickId", pick.ID, "shortPick", pick.ShortPick)

	h.publishCompleted(ctx, pick)
	return nil
}

type pickRefs struct {
	orderID    string
	workerID   string
	itemID     string
	locationID string
}

// resolveReferences maps the payload business codes onto catalog IDs.
// A code with no catalog entry is a validation error naming the field.
func (h *Handler) resolveReferences(ctx context.Context, data *cloudevents.ItemPickedData) (*pickRefs, error) {
	order, err := h.orders.FindByNumber(ctx, data.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve orderNumber: %w", err)
	}
	if order == nil {
		return nil, errors.ErrValidationField("orderNumber", data.OrderNumber)
	}

	worker, err := h.workers.FindByEmployeeCode(ctx, data.EmployeeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employeeCode: %w", err)
	}
	if worker == nil {
		return nil, errors.ErrValidationField("employeeCode", data.EmployeeCode)
	}

	item, err := h.items.FindBySKU(ctx, data.SKU)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sku: %w", err)
	}
	if item == nil {
		return nil, errors.ErrValidationField("sku", data.SKU)
	}

	location, err := h.locations.FindByCode(ctx, data.LocationCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve locationCode: %w", err)
	}
	if location == nil {
		return nil, errors.ErrValidationField("locationCode", data.LocationCode)
	}

	return &pickRefs{
		orderID:    order.ID,
		workerID:   worker.ID,
		itemID:     item.ID,
		locationID: location.ID,
	}, nil
}

func (h *Handler) reject(ctx context.Context, event *cloudevents.WMSCloudEvent, err error) {
	if h.metrics != nil {
		h.metrics.RecordEventIngested(h.consumeTopic, statusRejected)
	}
	h.logger.WithContext(ctx).WithError(err).Warn("Rejected picking event",
		"eventType", event.Type, "eventId", event.ID)
}

func (h *Handler) duplicate(ctx context.Context, event *cloudevents.WMSCloudEvent, pickID string) {
	if h.metrics != nil {
		h.metrics.RecordEventIngested(h.consumeTopic, statusDuplicate)
	}
	h.logger.WithContext(ctx).Debug("Skipped already-applied picking event",
		"eventType", event.Type, "pickId", pickID)
}

func (h *Handler) publishRecorded(ctx context.Context, pick *domain.PickEvent) {
	if h.publisher == nil || h.eventFactory == nil {
		return
	}

	ce := h.eventFactory.CreatePickRecordedEvent(ctx, pick.ID, pick.OrderID, pick.WorkerID,
		pick.ItemID, pick.LocationID, pick.Quantity, pick.StartedAt)

	h.publisher.PublishEventAsync(ctx, h.publishTopic, ce, func(err error) {
		if err != nil {
			h.logger.WithError(err).Warn("Failed to publish pick recorded event", "pickId", pick.ID)
		}
	})
}

func (h *Handler) publishCompleted(ctx context.Context, pick *domain.PickEvent) {
	if h.publisher == nil || h.eventFactory == nil || pick.CompletedAt == nil {
		return
	}

	ce := h.eventFactory.CreatePickCompletedEvent(ctx, pick.ID, pick.WorkerID, *pick.CompletedAt, pick.ShortPick)

	h.publisher.PublishEventAsync(ctx, h.publishTopic, ce, func(err error) {
		if err != nil {
			h.logger.WithError(err).Warn("Failed to publish pick completed event", "pickId", pick.ID)
		}
	})
}

// decodeData round-trips the raw CloudEvent data through JSON into the
// typed payload, the same normalization the contract validator applies.
func decodeData(data interface{}, v interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode event data: %w", err)
	}
	return nil
}
