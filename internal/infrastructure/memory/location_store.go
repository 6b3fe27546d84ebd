package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
)

// LocationStore is an in-memory domain.LocationRepository.
type LocationStore struct {
	mu        sync.RWMutex
	locations map[string]*domain.BinLocation
}

// NewLocationStore creates an empty LocationStore.
func NewLocationStore() *LocationStore {
	return &LocationStore{locations: make(map[string]*domain.BinLocation)}
}

func copyLocation(location *domain.BinLocation) *domain.BinLocation {
	c := *location
	return &c
}

func (s *LocationStore) Save(_ context.Context, location *domain.BinLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.locations[location.ID]; exists {
		return errors.ErrConflict("location already exists").WithDetail("locationId", location.ID)
	}
	for _, existing := range s.locations {
		if existing.Code == location.Code {
			return errors.ErrConflict("location with this code already exists").
				WithDetail("code", location.Code)
		}
	}

	s.locations[location.ID] = copyLocation(location)
	return nil
}

func (s *LocationStore) Update(_ context.Context, location *domain.BinLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.locations[location.ID]; !exists {
		return errors.ErrNotFoundWithID("location", location.ID)
	}

	s.locations[location.ID] = copyLocation(location)
	return nil
}

func (s *LocationStore) FindByID(_ context.Context, id string) (*domain.BinLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if location, ok := s.locations[id]; ok {
		return copyLocation(location), nil
	}
	return nil, nil
}

func (s *LocationStore) FindByCode(_ context.Context, code string) (*domain.BinLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, location := range s.locations {
		if location.Code == code {
			return copyLocation(location), nil
		}
	}
	return nil, nil
}

func (s *LocationStore) FindByIDs(_ context.Context, ids []string) ([]*domain.BinLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]*domain.BinLocation, 0, len(ids))
	for _, id := range ids {
		if location, ok := s.locations[id]; ok {
			found = append(found, copyLocation(location))
		}
	}
	return found, nil
}

func (s *LocationStore) FindAll(_ context.Context, limit, offset int64) ([]*domain.BinLocation, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.BinLocation, 0, len(s.locations))
	for _, location := range s.locations {
		all = append(all, copyLocation(location))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := int64(len(all))
	start, end := pageBounds(total, limit, offset)
	return all[start:end], total, nil
}

// findByZones returns the IDs of all locations in any of the given zones.
func (s *LocationStore) findByZones(zoneIDs map[string]struct{}) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, location := range s.locations {
		if _, ok := zoneIDs[location.ZoneID]; ok {
			ids = append(ids, location.ID)
		}
	}
	return ids
}
