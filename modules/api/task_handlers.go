package api

import (
	"github.com/example/task-management-app/modules/task"
	"github.com/gofiber/fiber/v2"
)

// CreateTask handles POST /api/v1/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	resp, err := h.tasks.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     claims.UserID,
	})
	if err != nil {
		return respondTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(resp))
}

// ListTasks handles GET /api/v1/tasks?status=&search=.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.tasks.ListTasks(c.UserContext(), &task.ListTasksRequest{
		OwnerID: claims.UserID,
		Status:  c.Query("status"),
		Search:  c.Query("search"),
	})
	if err != nil {
		return respondTaskError(c, err)
	}

	tasks := make([]TaskResponse, 0, len(resp.Tasks))
	for i := range resp.Tasks {
		tasks = append(tasks, toTaskResponse(&resp.Tasks[i]))
	}
	return c.JSON(ListTasksResponse{
		Tasks: tasks,
		Total: resp.Total,
	})
}

// GetTask handles GET /api/v1/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.tasks.GetTask(c.UserContext(), c.Params("id"), claims.UserID)
	if err != nil {
		return respondTaskError(c, err)
	}
	return c.JSON(toTaskResponse(resp))
}

// UpdateTaskStatus handles PATCH /api/v1/tasks/:id/status.
func (h *Handlers) UpdateTaskStatus(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	resp, err := h.tasks.UpdateTaskStatus(c.UserContext(), &task.UpdateTaskStatusRequest{
		TaskID:  c.Params("id"),
		Status:  req.Status,
		OwnerID: claims.UserID,
	})
	if err != nil {
		return respondTaskError(c, err)
	}
	return c.JSON(toTaskResponse(resp))
}

// DeleteTask handles DELETE /api/v1/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.tasks.DeleteTask(c.UserContext(), c.Params("id"), claims.UserID)
	if err != nil {
		return respondTaskError(c, err)
	}
	return c.Status(resp.Status).JSON(DeleteResponse{
		Status:  resp.Status,
		Message: resp.Message,
	})
}

func toTaskResponse(t *task.TaskResponse) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
