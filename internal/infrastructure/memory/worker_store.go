package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wms-platform/productivity-service/internal/domain"
	"github.com/wms-platform/productivity-service/pkg/errors"
)

// WorkerStore is an in-memory domain.WorkerRepository.
type WorkerStore struct {
	mu      sync.RWMutex
	workers map[string]*domain.Worker
}

// NewWorkerStore creates an empty WorkerStore.
func NewWorkerStore() *WorkerStore {
	return &WorkerStore{workers: make(map[string]*domain.Worker)}
}

func copyWorker(worker *domain.Worker) *domain.Worker {
	c := *worker
	if worker.HourlyRate != nil {
		rate := *worker.HourlyRate
		c.HourlyRate = &rate
	}
	return &c
}

func (s *WorkerStore) Save(_ context.Context, worker *domain.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workers[worker.ID]; exists {
		return errors.ErrConflict("worker already exists").WithDetail("workerId", worker.ID)
	}
	for _, existing := range s.workers {
		if existing.EmployeeCode == worker.EmployeeCode {
			return errors.ErrConflict("worker with this employee code already exists").
				WithDetail("employeeCode", worker.EmployeeCode)
		}
	}

	s.workers[worker.ID] = copyWorker(worker)
	return nil
}

func (s *WorkerStore) Update(_ context.Context, worker *domain.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workers[worker.ID]; !exists {
		return errors.ErrNotFoundWithID("worker", worker.ID)
	}

	s.workers[worker.ID] = copyWorker(worker)
	return nil
}

func (s *WorkerStore) FindByID(_ context.Context, id string) (*domain.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if worker, ok := s.workers[id]; ok {
		return copyWorker(worker), nil
	}
	return nil, nil
}

func (s *WorkerStore) FindByEmployeeCode(_ context.Context, code string) (*domain.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, worker := range s.workers {
		if worker.EmployeeCode == code {
			return copyWorker(worker), nil
		}
	}
	return nil, nil
}

func (s *WorkerStore) FindByIDs(_ context.Context, ids []string) ([]*domain.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]*domain.Worker, 0, len(ids))
	for _, id := range ids {
		if worker, ok := s.workers[id]; ok {
			found = append(found, copyWorker(worker))
		}
	}
	return found, nil
}

func (s *WorkerStore) FindAll(_ context.Context, limit, offset int64) ([]*domain.Worker, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Worker, 0, len(s.workers))
	for _, worker := range s.workers {
		all = append(all, copyWorker(worker))
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
