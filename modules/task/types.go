package task

import (
	"context"
	"time"

	domain "github.com/example/task-management-app/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

// ListTasksRequest is the request for listing the owner's tasks.
// Empty Status or Search means the filter is absent.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
	Status  string `json:"status,omitempty"`
	Search  string `json:"search,omitempty"`
}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	TaskID  string `json:"task_id"`
	OwnerID string `json:"owner_id"`
}

// UpdateTaskStatusRequest is the request for changing a task's status.
type UpdateTaskStatusRequest struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	OwnerID string `json:"owner_id"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID  string `json:"task_id"`
	OwnerID string `json:"owner_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// TaskResponse is the wire form of a task. The owner is not included.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPort defines the task operations available to other modules.
// Errors keep their domain classification (see domain/task.CodeOf).
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error)
	GetTask(ctx context.Context, taskID, ownerID string) (*TaskResponse, error)
	UpdateTaskStatus(ctx context.Context, req *UpdateTaskStatusRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID, ownerID string) (*DeleteTaskResponse, error)
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
