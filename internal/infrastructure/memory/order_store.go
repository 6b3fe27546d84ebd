package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
)

// OrderStore is an in-memory domain.OrderRepository.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]*domain.Order)}
}

func copyOrder(order *domain.Order) *domain.Order {
	c := *order
	return &c
}

func (s *OrderStore) Save(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return errors.ErrConflict("order already exists").WithDetail("orderId", order.ID)
	}
	for _, existing := range s.orders {
		if existing.Number == order.Number {
			return errors.ErrConflict("order with this number already exists").
				WithDetail("number", order.Number)
		}
	}

	s.orders[order.ID] = copyOrder(order)
	return nil
}

func (s *OrderStore) Update(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; !exists {
		return errors.ErrNotFoundWithID("order", order.ID)
	}

	s.orders[order.ID] = copyOrder(order)
	return nil
}

func (s *OrderStore) FindByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if order, ok := s.orders[id]; ok {
		return copyOrder(order), nil
	}
	return nil, nil
}

func (s *OrderStore) FindByNumber(_ context.Context, number string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, order := range s.orders {
		if order.Number == number {
			return copyOrder(order), nil
		}
	}
	return nil, nil
}

func (s *OrderStore) FindAll(_ context.Context, limit, offset int64) ([]*domain.Order, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		all = append(all, copyOrder(order))
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
