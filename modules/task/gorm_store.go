package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/task-management-app/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore persists tasks through GORM.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a store on an open GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// OpenSQLite opens (or creates) a SQLite database and migrates the task schema.
func OpenSQLite(path string, debug bool) (*GormStore, error) {
	logMode := logger.Silent
	if debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := NewGormStore(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate creates or updates the tasks table.
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Insert creates a new OPEN task for ownerID.
func (s *GormStore) Insert(ctx context.Context, title, description, ownerID string) (*domain.Task, error) {
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

	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return t, nil
}

// ListByOwner returns the owner's tasks ordered by creation time then id.
// Owner and status are filtered in SQL. The search is applied in Go because
// SQLite folds case for ASCII only.
func (s *GormStore) ListByOwner(ctx context.Context, ownerID string, filter domain.Filter) ([]*domain.Task, error) {
	q := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []*domain.Task
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return matchSearch(rows, filter), nil
}

// FindOne returns the task matching both id and owner.
func (s *GormStore) FindOne(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	var t domain.Task
	err := s.db.WithContext(ctx).First(&t, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// Save updates title, description and status. owner_id is part of the
// WHERE clause and is never written.
func (s *GormStore) Save(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	t.UpdatedAt = time.Now()

	result := s.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", t.ID, t.OwnerID).
		Updates(map[string]any{
			"title":       t.Title,
			"description": t.Description,
			"status":      t.Status,
			"updated_at":  t.UpdatedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// DeleteByIDAndOwner deletes the task if the owner matches.
func (s *GormStore) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Task{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete task: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Ping checks the underlying connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
