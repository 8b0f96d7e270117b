package task

import (
	"context"
	"sync"
	"time"

	domain "github.com/example/task-management-app/domain/task"
	"github.com/google/uuid"
)

// MemoryStore keeps tasks in process memory. Each operation holds the
// lock for its full duration, so writes are atomic per owner+id. A
// cancelled context fails the call before any state is touched.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
	order []string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]*domain.Task),
	}
}

// Insert stores a new OPEN task for ownerID.
func (s *MemoryStore) Insert(ctx context.Context, title, description, ownerID string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      domain.StatusOpen,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)

	cp := *t
	return &cp, nil
}

// ListByOwner returns the owner's tasks in insertion order.
func (s *MemoryStore) ListByOwner(ctx context.Context, ownerID string, filter domain.Filter) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Task, 0)
	for _, id := range s.order {
		t := s.tasks[id]
		if t.OwnerID != ownerID || !filter.Matches(t) {
			continue
		}
		cp := *t
		result = append(result, &cp)
	}
	return result, nil
}

// FindOne returns the task only when both id and owner match.
func (s *MemoryStore) FindOne(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// Save writes the mutable fields of an existing task. The stored owner is kept.
func (s *MemoryStore) Save(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[t.ID]
	if !ok || existing.OwnerID != t.OwnerID {
		return nil, domain.ErrNotFound
	}

	existing.Title = t.Title
	existing.Description = t.Description
	existing.Status = t.Status
	existing.UpdatedAt = time.Now()

	cp := *existing
	return &cp, nil
}

// DeleteByIDAndOwner removes the task if the owner matches.
func (s *MemoryStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return 0, nil
	}

	delete(s.tasks, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return 1, nil
}
