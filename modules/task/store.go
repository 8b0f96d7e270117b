package task

import (
	"context"

	domain "github.com/example/task-management-app/domain/task"
)

// Store is the persistence gateway for tasks. Every read and write except
// Insert is constrained by owner inside the query itself, so a task held
// by another owner is indistinguishable from one that does not exist.
type Store interface {
	Insert(ctx context.Context, title, description, ownerID string) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID string, filter domain.Filter) ([]*domain.Task, error)
	FindOne(ctx context.Context, id, ownerID string) (*domain.Task, error)
	Save(ctx context.Context, t *domain.Task) (*domain.Task, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error)
}

// storeLifecycle is implemented by stores that hold external connections.
type storeLifecycle interface {
	Ping(ctx context.Context) error
	Close() error
}

// matchSearch keeps the rows matching filter's search text. It never
// returns nil.
func matchSearch(rows []*domain.Task, filter domain.Filter) []*domain.Task {
	result := make([]*domain.Task, 0, len(rows))
	for _, t := range rows {
		if filter.Matches(t) {
			result = append(result, t)
		}
	}
	return result
}
