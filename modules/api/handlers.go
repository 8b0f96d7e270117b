package api

import (
	"log"

	"github.com/example/task-management-app/modules/activity"
	"github.com/example/task-management-app/modules/auth"
	"github.com/example/task-management-app/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth     auth.AuthPort
	tasks    task.TaskPort
	activity activity.ActivityPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, activityPort activity.ActivityPort) *Handlers {
	return &Handlers{
		auth:     authPort,
		tasks:    taskPort,
		activity: activityPort,
	}
}

// SignUp handles POST /api/v1/auth/signup.
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	req, ok := parseCredentials(c)
	if !ok {
		return nil
	}

	resp, err := h.auth.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        resp.ID,
		Username:  resp.Username,
		CreatedAt: resp.CreatedAt,
	})
}

// SignIn handles POST /api/v1/auth/signin.
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	req, ok := parseCredentials(c)
	if !ok {
		return nil
	}

	resp, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondAuthError(c, err)
	}

	return c.JSON(TokenResponse(*resp))
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}
	if req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Refresh token is required",
		})
	}

	resp, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return respondAuthError(c, err)
	}

	return c.JSON(TokenResponse(*resp))
}

// ListActivity handles GET /api/v1/activity.
func (h *Handlers) ListActivity(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.activity.ListActivity(c.UserContext(), claims.UserID)
	if err != nil {
		log.Printf("[api] Failed to list activity: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to retrieve activity",
		})
	}
	return c.JSON(resp)
}

// parseCredentials writes a 400 response and reports false when the body is unusable.
func parseCredentials(c *fiber.Ctx) (CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
		return req, false
	}
	if req.Username == "" || req.Password == "" {
		c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Username and password are required",
		})
		return req, false
	}
	return req, true
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}
