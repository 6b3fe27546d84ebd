package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
)

// EventStore is an in-memory domain.EventStore. Appends validate every
// referenced entity against the catalog; stored events are frozen once
// completed.
type EventStore struct {
	mu      sync.RWMutex
	catalog domain.Catalog
	events  map[string]*domain.PickEvent
}

// NewEventStore creates an empty EventStore validating against catalog.
func NewEventStore(catalog domain.Catalog) *EventStore {
	return &EventStore{
		catalog: catalog,
		events:  make(map[string]*domain.PickEvent),
	}
}

func copyEvent(event *domain.PickEvent) *domain.PickEvent {
	c := *event
	if event.CompletedAt != nil {
		at := *event.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

func (s *EventStore) Append(ctx context.Context, event *domain.PickEvent) (string, error) {
	if err := s.validateReferences(ctx, event); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[event.ID]; exists {
		return "", errors.ErrConflict("pick event already exists").WithDetail("eventId", event.ID)
	}

	s.events[event.ID] = copyEvent(event)
	return event.ID, nil
}

func (s *EventStore) FindByID(_ context.Context, eventID string) (*domain.PickEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if event, ok := s.events[eventID]; ok {
		return copyEvent(event), nil
	}
	return nil, nil
}

func (s *EventStore) Update(_ context.Context, event *domain.PickEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.events[event.ID]
	if !exists {
		return errors.ErrNotFoundWithID("pick event", event.ID)
	}
	if current.IsCompleted() {
		return errors.ErrConflict("pick event is already completed").WithDetail("eventId", event.ID)
	}

	s.events[event.ID] = copyEvent(event)
	return nil
}

func (s *EventStore) Query(ctx context.Context, filter domain.EventFilter) ([]*domain.PickEvent, error) {
	// Zone constraints resolve to a location set outside the lock; an
	// unknown zone yields an empty set, which matches nothing.
	var zoneLocations map[string]struct{}
	if len(filter.ZoneIDs) > 0 {
		locationIDs, err := s.catalog.LocationIDsForZones(ctx, filter.ZoneIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve zone locations: %w", err)
		}
		zoneLocations = make(map[string]struct{}, len(locationIDs))
		for _, id := range locationIDs {
			zoneLocations[id] = struct{}{}
		}
	}
	workers := toSet(filter.WorkerIDs)
	items := toSet(filter.ItemIDs)

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domain.PickEvent, 0)
	for _, event := range s.events {
		if !matchesFilter(event, filter, workers, items, zoneLocations) {
			continue
		}
		matched = append(matched, copyEvent(event))
	}
	return matched, nil
}

func (s *EventStore) validateReferences(ctx context.Context, event *domain.PickEvent) error {
	checks := []struct {
		field  string
		value  string
		exists func(context.Context, string) (bool, error)
	}{
		{"orderId", event.OrderID, s.catalog.OrderExists},
		{"workerId", event.WorkerID, s.catalog.WorkerExists},
		{"itemId", event.ItemID, s.catalog.ItemExists},
		{"locationId", event.LocationID, s.catalog.LocationExists},
	}
	for _, check := range checks {
		exists, err := check.exists(ctx, check.value)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", check.field, err)
		}
		if !exists {
			return errors.ErrValidationField(check.field, check.value)
		}
	}
	return nil
}

// matchesFilter applies the filter to one event. Time bounds are
// inclusive and compare completion times, so any bounded window matches
// completed events only. Nil sets mean the dimension is unconstrained.
func matchesFilter(event *domain.PickEvent, filter domain.EventFilter, workers, items, zoneLocations map[string]struct{}) bool {
	bounded := filter.From != nil || filter.To != nil
	if (bounded || filter.CompletedOnly) && !event.IsCompleted() {
		return false
	}
	if filter.From != nil && event.CompletedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && event.CompletedAt.After(*filter.To) {
		return false
	}
	if workers != nil {
		if _, ok := workers[event.WorkerID]; !ok {
			return false
		}
	}
	if items != nil {
		if _, ok := items[event.ItemID]; !ok {
			return false
		}
	}
	if zoneLocations != nil {
		if _, ok := zoneLocations[event.LocationID]; !ok {
			return false
		}
	}
	return true
}
