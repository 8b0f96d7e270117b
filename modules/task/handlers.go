package task

import (
	"context"
	"log"
	"time"

	domain "github.com/example/task-management-app/domain/task"
	"github.com/example/task-management-app/events"
	"github.com/go-monolith/mono"
)

// createTask handles the create-task service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" {
		return TaskResponse{}, domain.ErrOwnerRequired
	}
	if req.Title == "" {
		return TaskResponse{}, domain.ErrTitleRequired
	}
	if req.Description == "" {
		return TaskResponse{}, domain.ErrDescriptionRequired
	}

	t, err := m.service.Create(ctx, req.Title, req.Description, req.OwnerID)
	if err != nil {
		return TaskResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID,
			OwnerID:   t.OwnerID,
			Title:     t.Title,
			CreatedAt: t.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", t.ID, err)
		}
	}

	return toTaskResponse(t), nil
}

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if req.OwnerID == "" {
		return ListTasksResponse{}, domain.ErrOwnerRequired
	}

	filter, err := domain.ParseFilter(req.Status, req.Search)
	if err != nil {
		return ListTasksResponse{}, err
	}

	tasks, err := m.service.List(ctx, req.OwnerID, &filter)
	if err != nil {
		return ListTasksResponse{}, err
	}

	response := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, t := range tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(t))
	}
	return response, nil
}

// getTask handles the get-task service request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if err := requireIDs(req.TaskID, req.OwnerID); err != nil {
		return TaskResponse{}, err
	}

	t, err := m.service.GetByID(ctx, req.TaskID, req.OwnerID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// updateTaskStatus handles the update-task-status service request.
func (m *TaskModule) updateTaskStatus(ctx context.Context, req UpdateTaskStatusRequest, _ *mono.Msg) (TaskResponse, error) {
	if err := requireIDs(req.TaskID, req.OwnerID); err != nil {
		return TaskResponse{}, err
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return TaskResponse{}, err
	}

	t, err := m.service.UpdateStatus(ctx, req.TaskID, status, req.OwnerID)
	if err != nil {
		return TaskResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TaskStatusChangedEvent{
			TaskID:    t.ID,
			OwnerID:   t.OwnerID,
			Status:    string(t.Status),
			ChangedAt: t.UpdatedAt,
		}
		if err := events.TaskStatusChangedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskStatusChanged event for task %s: %v", t.ID, err)
		}
	}

	return toTaskResponse(t), nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := requireIDs(req.TaskID, req.OwnerID); err != nil {
		return DeleteTaskResponse{}, err
	}

	result, err := m.service.Delete(ctx, req.TaskID, req.OwnerID)
	if err != nil {
		return DeleteTaskResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			OwnerID:   req.OwnerID,
			DeletedAt: time.Now(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", req.TaskID, err)
		}
	}

	return DeleteTaskResponse{
		Status:  result.Status,
		Message: result.Message,
	}, nil
}

func requireIDs(taskID, ownerID string) error {
	if ownerID == "" {
		return domain.ErrOwnerRequired
	}
	if taskID == "" {
		return domain.ErrIDRequired
	}
	return nil
}
