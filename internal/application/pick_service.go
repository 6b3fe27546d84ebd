package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/api"
	"github.com/wms-platform/productivity-service/pkg/cloudevents"
	"github.com/wms-platform/productivity-service/pkg/errors"
	"github.com/wms-platform/productivity-service/pkg/logging"
	"github.com/wms-platform/productivity-service/pkg/metrics"
)

// EventPublisher publishes productivity CloudEvents to the event bus.
// The instrumented kafka producer satisfies it.
type EventPublisher interface {
	PublishEventAsync(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent, callback func(error))
}

// PickService handles the pick event lifecycle: recording open picks,
// finalizing them, and querying the event store. Successful writes emit
// productivity CloudEvents fire-and-forget.
type PickService struct {
	store        domain.EventStore
	publisher    EventPublisher
	eventFactory *cloudevents.EventFactory
	metrics      *metrics.Metrics
	logger       *logging.Logger
	topic        string
}

// NewPickService creates a new PickService. Publisher and event factory
// may be nil, in which case no events are emitted.
func NewPickService(
	store domain.EventStore,
	publisher EventPublisher,
	eventFactory *cloudevents.EventFactory,
	m *metrics.Metrics,
	logger *logging.Logger,
	topic string,
) *PickService {
	return &PickService{
		store:        store,
		publisher:    publisher,
		eventFactory: eventFactory,
		metrics:      m,
		logger:       logger,
		topic:        topic,
	}
}

// RecordPick appends a new open pick event. The event store validates
// that every referenced entity resolves in the catalog.
func (s *PickService) RecordPick(ctx context.Context, cmd RecordPickCommand) (*PickEventDTO, error) {
	startedAt := time.Now().UTC()
	if cmd.StartedAt != nil {
		startedAt = cmd.StartedAt.UTC()
	}

	event, err := domain.NewPickEvent(cmd.OrderID, cmd.WorkerID, cmd.ItemID, cmd.LocationID, cmd.Quantity, startedAt)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Append(ctx, event); err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return nil, err
		}
		s.logger.WithError(err).Error("Failed to append pick event", "pickId", event.ID)
		return nil, fmt.Errorf("failed to append pick event: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordPickRecorded("api")
	}
	s.logger.Info("Recorded pick", "pickId", event.ID, "orderId", event.OrderID, "workerId", event.WorkerID)

	s.publishRecorded(ctx, event)
	return ToPickEventDTO(event), nil
}

// CompletePick finalizes an open pick event with its end timestamp and
// short-pick flag. Completed events are frozen.
func (s *PickService) CompletePick(ctx context.Context, cmd CompletePickCommand) (*PickEventDTO, error) {
	event, err := s.store.FindByID(ctx, cmd.PickID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pick event: %w", err)
	}
	if event == nil {
		return nil, errors.ErrNotFoundWithID("pick event", cmd.PickID)
	}

	completedAt := time.Now().UTC()
	if cmd.CompletedAt != nil {
		completedAt = cmd.CompletedAt.UTC()
	}

	if err := event.Complete(completedAt, cmd.ShortPick); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, event); err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return nil, err
		}
		s.logger.WithError(err).Error("Failed to update pick event", "pickId", cmd.PickID)
		return nil, fmt.Errorf("failed to update pick event: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordPickCompleted(event.ShortPick)
	}
	s.logger.Info("Completed pick", "pickId", event.ID, "shortPick", event.ShortPick)

	s.publishCompleted(ctx, event)
	return ToPickEventDTO(event), nil
}

// GetPick retrieves a pick event by ID
func (s *PickService) GetPick(ctx context.Context, pickID string) (*PickEventDTO, error) {
	event, err := s.store.FindByID(ctx, pickID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pick event: %w", err)
	}
	if event == nil {
		return nil, errors.ErrNotFoundWithID("pick event", pickID)
	}
	return ToPickEventDTO(event), nil
}

// QueryPicks retrieves one page of pick events matching the filter. The
// store returns an unordered snapshot; the page is ordered by start time.
func (s *PickService) QueryPicks(ctx context.Context, query QueryPicksQuery) (*api.PageResponse[PickEventDTO], error) {
	filter := domain.EventFilter{
		From:          query.From,
		To:            query.To,
		WorkerIDs:     query.WorkerIDs,
		ZoneIDs:       query.ZoneIDs,
		ItemIDs:       query.ItemIDs,
		CompletedOnly: query.CompletedOnly,
	}

	events, err := s.store.Query(ctx, filter)
	if err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to query pick events: %w", err)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].StartedAt.Equal(events[j].StartedAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].StartedAt.Before(events[j].StartedAt)
	})

	page := normalizePage(query.Pagination)
	total := int64(len(events))

	start := page.GetOffset()
	if start > total {
		start = total
	}
	end := start + page.GetLimit()
	if end > total {
		end = total
	}

	resp := api.NewPageResponse(ToPickEventDTOs(events[start:end]), page.Page, page.PageSize, total)
	return &resp, nil
}

func (s *PickService) publishRecorded(ctx context.Context, event *domain.PickEvent) {
	if s.publisher == nil || s.eventFactory == nil {
		return
	}

	ce := s.eventFactory.CreatePickRecordedEvent(ctx, event.ID, event.OrderID, event.WorkerID,
		event.ItemID, event.LocationID, event.Quantity, event.StartedAt)

	s.publisher.PublishEventAsync(ctx, s.topic, ce, func(err error) {
		if err != nil {
			s.logger.WithError(err).Warn("Failed to publish pick recorded event", "pickId", event.ID)
		}
	})
}

func (s *PickService) publishCompleted(ctx context.Context, event *domain.PickEvent) {
	if s.publisher == nil || s.eventFactory == nil || event.CompletedAt == nil {
		return
	}

	ce := s.eventFactory.CreatePickCompletedEvent(ctx, event.ID, event.WorkerID, *event.CompletedAt, event.ShortPick)

	s.publisher.PublishEventAsync(ctx, s.topic, ce, func(err error) {
		if err != nil {
			s.logger.WithError(err).Warn("Failed to publish pick completed event", "pickId", event.ID)
		}
	})
}
