package task

import (
	"context"

	domain "github.com/example/task-management-app/domain/task"
)

// DeleteResult acknowledges a successful delete.
type DeleteResult struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Service applies owner scoping and not-found rules on top of a Store.
// Every operation takes the owner explicitly.
type Service struct {
	store Store
}

// NewService creates a new Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create stores a new OPEN task. Title and description are validated by the caller.
func (s *Service) Create(ctx context.Context, title, description, ownerID string) (*domain.Task, error) {
	return s.store.Insert(ctx, title, description, ownerID)
}

// List returns the owner's tasks. A nil filter behaves like an empty one.
func (s *Service) List(ctx context.Context, ownerID string, filter *domain.Filter) ([]*domain.Task, error) {
	if filter == nil || filter.IsEmpty() {
		return s.store.ListByOwner(ctx, ownerID, domain.Filter{})
	}
	return s.store.ListByOwner(ctx, ownerID, *filter)
}

// GetByID returns the task or ErrNotFound, whether the id is unknown or
// owned by someone else.
func (s *Service) GetByID(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	t, err := s.store.FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// UpdateStatus moves the task to status. Any transition is allowed,
// including to the current status.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status, ownerID string) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	t, err := s.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	t.Status = status
	return s.store.Save(ctx, t)
}

// Delete removes the task. Zero affected rows means ErrNotFound.
func (s *Service) Delete(ctx context.Context, id, ownerID string) (DeleteResult, error) {
	affected, err := s.store.DeleteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return DeleteResult{}, err
	}
	if affected == 0 {
		return DeleteResult{}, domain.ErrNotFound
	}
	return DeleteResult{
		Status:  200,
		Message: "Deleted successfully",
	}, nil
}
