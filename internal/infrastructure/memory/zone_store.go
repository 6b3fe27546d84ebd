package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
)

// ZoneStore is an in-memory domain.ZoneRepository.
type ZoneStore struct {
	mu    sync.RWMutex
	zones map[string]*domain.Zone
}

// NewZoneStore creates an empty ZoneStore.
func NewZoneStore() *ZoneStore {
	return &ZoneStore{zones: make(map[string]*domain.Zone)}
}

func copyZone(zone *domain.Zone) *domain.Zone {
	c := *zone
	return &c
}

func (s *ZoneStore) Save(_ context.Context, zone *domain.Zone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.zones[zone.ID]; exists {
		return errors.ErrConflict("zone already exists").WithDetail("zoneId", zone.ID)
	}
	for _, existing := range s.zones {
		if existing.Code == zone.Code {
			return errors.ErrConflict("zone with this code already exists").
				WithDetail("code", zone.Code)
		}
	}

	s.zones[zone.ID] = copyZone(zone)
	return nil
}

func (s *ZoneStore) FindByID(_ context.Context, id string) (*domain.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if zone, ok := s.zones[id]; ok {
		return copyZone(zone), nil
	}
	return nil, nil
}

func (s *ZoneStore) FindByCode(_ context.Context, code string) (*domain.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, zone := range s.zones {
		if zone.Code == code {
			return copyZone(zone), nil
		}
	}
	return nil, nil
}

func (s *ZoneStore) FindByIDs(_ context.Context, ids []string) ([]*domain.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]*domain.Zone, 0, len(ids))
	for _, id := range ids {
		if zone, ok := s.zones[id]; ok {
			found = append(found, copyZone(zone))
		}
	}
	return found, nil
}

func (s *ZoneStore) FindAll(_ context.Context, limit, offset int64) ([]*domain.Zone, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Zone, 0, len(s.zones))
	for _, zone := range s.zones {
		all = append(all, copyZone(zone))
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
