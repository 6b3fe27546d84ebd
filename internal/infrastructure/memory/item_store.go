package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
)

// ItemStore is an in-memory domain.ItemRepository.
type ItemStore struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
}

// NewItemStore creates an empty ItemStore.
func NewItemStore() *ItemStore {
	return &ItemStore{items: make(map[string]*domain.Item)}
}

func copyItem(item *domain.Item) *domain.Item {
	c := *item
	return &c
}

func (s *ItemStore) Save(_ context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return errors.ErrConflict("item already exists").WithDetail("itemId", item.ID)
	}
	for _, existing := range s.items {
		if existing.SKU == item.SKU {
			return errors.ErrConflict("item with this sku already exists").
				WithDetail("sku", item.SKU)
		}
	}

	s.items[item.ID] = copyItem(item)
	return nil
}

func (s *ItemStore) Update(_ context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; !exists {
		return errors.ErrNotFoundWithID("item", item.ID)
	}

	s.items[item.ID] = copyItem(item)
	return nil
}

func (s *ItemStore) FindByID(_ context.Context, id string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, ok := s.items[id]; ok {
		return copyItem(item), nil
	}
	return nil, nil
}

func (s *ItemStore) FindBySKU(_ context.Context, sku string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.SKU == sku {
			return copyItem(item), nil
		}
	}
	return nil, nil
}

func (s *ItemStore) FindByIDs(_ context.Context, ids []string) ([]*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]*domain.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			found = append(found, copyItem(item))
		}
	}
	return found, nil
}

func (s *ItemStore) FindAll(_ context.Context, limit, offset int64) ([]*domain.Item, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Item, 0, len(s.items))
	for _, item := range s.items {
		all = append(all, copyItem(item))
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
