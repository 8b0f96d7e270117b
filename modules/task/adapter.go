package task

import (
	"context"
	"encoding/json"

	domain "github.com/example/task-management-app/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter implements TaskPort over the task module's service container.
// Failures are passed through domain.FromRemote so callers can branch on
// the error code after the round trip.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// CreateTask creates a task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-task",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, domain.FromRemote(err)
	}
	return &resp, nil
}

// ListTasks lists the owner's tasks via the list-tasks service.
func (a *taskAdapter) ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-tasks",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, domain.FromRemote(err)
	}
	return &resp, nil
}

// GetTask retrieves one of the owner's tasks via the get-task service.
func (a *taskAdapter) GetTask(ctx context.Context, taskID, ownerID string) (*TaskResponse, error) {
	req := GetTaskRequest{TaskID: taskID, OwnerID: ownerID}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, domain.FromRemote(err)
	}
	return &resp, nil
}

// UpdateTaskStatus changes a task's status via the update-task-status service.
func (a *taskAdapter) UpdateTaskStatus(ctx context.Context, req *UpdateTaskStatusRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update-task-status",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, domain.FromRemote(err)
	}
	return &resp, nil
}

// DeleteTask deletes one of the owner's tasks via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, taskID, ownerID string) (*DeleteTaskResponse, error) {
	req := DeleteTaskRequest{TaskID: taskID, OwnerID: ownerID}
	var resp DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, domain.FromRemote(err)
	}
	return &resp, nil
}
