package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	taskdomain "github.com/example/task-management-app/domain/task"
	domain "github.com/example/task-management-app/domain/user"
	"github.com/example/task-management-app/modules/activity"
	"github.com/example/task-management-app/modules/auth"
	"github.com/example/task-management-app/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTaskPort struct {
	createFunc       func(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error)
	listFunc         func(ctx context.Context, req *task.ListTasksRequest) (*task.ListTasksResponse, error)
	getFunc          func(ctx context.Context, taskID, ownerID string) (*task.TaskResponse, error)
	updateStatusFunc func(ctx context.Context, req *task.UpdateTaskStatusRequest) (*task.TaskResponse, error)
	deleteFunc       func(ctx context.Context, taskID, ownerID string) (*task.DeleteTaskResponse, error)
}

func (m *mockTaskPort) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) ListTasks(ctx context.Context, req *task.ListTasksRequest) (*task.ListTasksResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) GetTask(ctx context.Context, taskID, ownerID string) (*task.TaskResponse, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, taskID, ownerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) UpdateTaskStatus(ctx context.Context, req *task.UpdateTaskStatusRequest) (*task.TaskResponse, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) DeleteTask(ctx context.Context, taskID, ownerID string) (*task.DeleteTaskResponse, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, taskID, ownerID)
	}
	return nil, errors.New("not implemented")
}

type mockActivityPort struct {
	listFunc func(ctx context.Context, ownerID string) (*activity.ListActivityResponse, error)
}

func (m *mockActivityPort) ListActivity(ctx context.Context, ownerID string) (*activity.ListActivityResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, ownerID)
	}
	return nil, errors.New("not implemented")
}

// signedIn accepts the token "alice-token" as user-alice.
func signedIn() *mockAuthPort {
	return &mockAuthPort{
		validateTokenFunc: func(_ context.Context, token string) (*domain.Claims, error) {
			if token != "alice-token" {
				return nil, auth.ErrInvalidToken
			}
			return &domain.Claims{UserID: "user-alice", Username: "alice"}, nil
		},
	}
}

func newTestApp(authPort *mockAuthPort, tasks *mockTaskPort, feed *mockActivityPort) *fiber.App {
	return newApp(NewHandlers(authPort, tasks, feed), authPort, 0)
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer alice-token")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func sampleTask(id, status string) *task.TaskResponse {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &task.TaskResponse{
		ID:          id,
		Title:       "Write report",
		Description: "Quarterly numbers",
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateTask_UsesCallerAsOwner(t *testing.T) {
	var got *task.CreateTaskRequest
	tasks := &mockTaskPort{
		createFunc: func(_ context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
			got = req
			return sampleTask("t1", "OPEN"), nil
		},
	}
	app := newTestApp(signedIn(), tasks, &mockActivityPort{})

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/tasks",
		`{"title":"Write report","description":"Quarterly numbers"}`)

	assert.Equal(t, http.StatusCreated, status)
	require.NotNil(t, got)
	assert.Equal(t, "user-alice", got.OwnerID)
	assert.Equal(t, "Write report", got.Title)

	var resp TaskResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "t1", resp.ID)
	assert.Equal(t, "OPEN", resp.Status)
	assert.NotContains(t, string(body), "owner")
}

func TestListTasks_PassesFilterFromQuery(t *testing.T) {
	var got *task.ListTasksRequest
	tasks := &mockTaskPort{
		listFunc: func(_ context.Context, req *task.ListTasksRequest) (*task.ListTasksResponse, error) {
			got = req
			return &task.ListTasksResponse{
				Tasks: []task.TaskResponse{*sampleTask("t1", "DONE")},
				Total: 1,
			}, nil
		},
	}
	app := newTestApp(signedIn(), tasks, &mockActivityPort{})

	status, body := doRequest(t, app, http.MethodGet, "/api/v1/tasks?status=DONE&search=report", "")

	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, got)
	assert.Equal(t, "user-alice", got.OwnerID)
	assert.Equal(t, "DONE", got.Status)
	assert.Equal(t, "report", got.Search)

	var resp ListTasksResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "t1", resp.Tasks[0].ID)
}

func TestListTasks_EmptyResultIsArray(t *testing.T) {
	tasks := &mockTaskPort{
		listFunc: func(_ context.Context, _ *task.ListTasksRequest) (*task.ListTasksResponse, error) {
			return &task.ListTasksResponse{}, nil
		},
	}
	app := newTestApp(signedIn(), tasks, &mockActivityPort{})

	status, body := doRequest(t, app, http.MethodGet, "/api/v1/tasks", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"tasks":[]`)
}

func TestTaskErrors_MapToStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not found",
			err:        taskdomain.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `"not_found"`,
		},
		{
			name:       "not found after request-reply hop",
			err:        taskdomain.FromRemote(fmt.Errorf("get-task service call failed: %s", taskdomain.ErrNotFound.Error())),
			wantStatus: http.StatusNotFound,
			wantBody:   `"not_found"`,
		},
		{
			name:       "invalid status",
			err:        taskdomain.ErrInvalidStatus,
			wantStatus: http.StatusBadRequest,
			wantBody:   `OPEN, IN_PROGRESS, DONE`,
		},
		{
			name:       "wrapped validation error",
			err:        fmt.Errorf("update-task-status: %w", taskdomain.ErrTitleRequired),
			wantStatus: http.StatusBadRequest,
			wantBody:   `"title is required"`,
		},
		{
			name:       "unclassified error",
			err:        errors.New("nats: timeout"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"internal_error"`,
		},
		{
			name:       "storage failure",
			err:        taskdomain.NewInternalError("failed to save task", errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"internal_error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := &mockTaskPort{
				updateStatusFunc: func(_ context.Context, _ *task.UpdateTaskStatusRequest) (*task.TaskResponse, error) {
					return nil, tt.err
				},
			}
			app := newTestApp(signedIn(), tasks, &mockActivityPort{})

			status, body := doRequest(t, app, http.MethodPatch, "/api/v1/tasks/t1/status", `{"status":"DONE"}`)

			assert.Equal(t, tt.wantStatus, status)
			assert.Contains(t, string(body), tt.wantBody)
			assert.NotContains(t, string(body), "disk full")
		})
	}
}

func TestUpdateTaskStatus_PassesPathAndOwner(t *testing.T) {
	var got *task.UpdateTaskStatusRequest
	tasks := &mockTaskPort{
		updateStatusFunc: func(_ context.Context, req *task.UpdateTaskStatusRequest) (*task.TaskResponse, error) {
			got = req
			return sampleTask(req.TaskID, req.Status), nil
		},
	}
	app := newTestApp(signedIn(), tasks, &mockActivityPort{})

	status, _ := doRequest(t, app, http.MethodPatch, "/api/v1/tasks/t42/status", `{"status":"IN_PROGRESS"}`)

	assert.Equal(t, http.StatusOK, status)
	require.NotNil(t, got)
	assert.Equal(t, "t42", got.TaskID)
	assert.Equal(t, "IN_PROGRESS", got.Status)
	assert.Equal(t, "user-alice", got.OwnerID)
}

func TestGetTask(t *testing.T) {
	tasks := &mockTaskPort{
		getFunc: func(_ context.Context, taskID, ownerID string) (*task.TaskResponse, error) {
			if taskID == "t1" && ownerID == "user-alice" {
				return sampleTask("t1", "OPEN"), nil
			}
			return nil, taskdomain.ErrNotFound
		},
	}
	app := newTestApp(signedIn(), tasks, &mockActivityPort{})

	status, _ := doRequest(t, app, http.MethodGet, "/api/v1/tasks/t1", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodGet, "/api/v1/tasks/t2", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteTask(t *testing.T) {
	tasks := &mockTaskPort{
		deleteFunc: func(_ context.Context, taskID, ownerID string) (*task.DeleteTaskResponse, error) {
			if taskID != "t1" || ownerID != "user-alice" {
				return nil, taskdomain.ErrNotFound
			}
			return &task.DeleteTaskResponse{Status: http.StatusOK, Message: "Deleted successfully"}, nil
		},
	}
	app := newTestApp(signedIn(), tasks, &mockActivityPort{})

	status, body := doRequest(t, app, http.MethodDelete, "/api/v1/tasks/t1", "")
	assert.Equal(t, http.StatusOK, status)

	var resp DeleteResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "Deleted successfully", resp.Message)

	status, _ = doRequest(t, app, http.MethodDelete, "/api/v1/tasks/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTaskRoutes_RequireToken(t *testing.T) {
	app := newTestApp(signedIn(), &mockTaskPort{}, &mockActivityPort{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer someone-else")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListActivity(t *testing.T) {
	feed := &mockActivityPort{
		listFunc: func(_ context.Context, ownerID string) (*activity.ListActivityResponse, error) {
			assert.Equal(t, "user-alice", ownerID)
			return &activity.ListActivityResponse{
				Entries: []activity.Entry{{TaskID: "t1", Kind: "created", Message: "Task created"}},
				Total:   1,
			}, nil
		},
	}
	app := newTestApp(signedIn(), &mockTaskPort{}, feed)

	status, body := doRequest(t, app, http.MethodGet, "/api/v1/activity", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"task_id":"t1"`)
}

func TestSignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "created", body: `{"username":"alice","password":"password123"}`, wantStatus: http.StatusCreated},
		{name: "missing password", body: `{"username":"alice"}`, wantStatus: http.StatusBadRequest},
		{name: "duplicate", body: `{"username":"alice","password":"password123"}`, err: auth.ErrUserExists, wantStatus: http.StatusConflict},
		{name: "weak password", body: `{"username":"alice","password":"short"}`, err: auth.ErrWeakPassword, wantStatus: http.StatusBadRequest},
		{name: "bad username", body: `{"username":"a!","password":"password123"}`, err: auth.ErrInvalidUsername, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authPort := &mockAuthPort{
				registerFunc: func(_ context.Context, username, _ string) (*auth.RegisterResponse, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &auth.RegisterResponse{ID: "user-alice", Username: username}, nil
				},
			}
			app := newTestApp(authPort, &mockTaskPort{}, &mockActivityPort{})

			status, _ := doRequest(t, app, http.MethodPost, "/api/v1/auth/signup", tt.body)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestSignIn(t *testing.T) {
	authPort := &mockAuthPort{
		loginFunc: func(_ context.Context, username, password string) (*auth.TokenResponse, error) {
			if username != "alice" || password != "password123" {
				return nil, fmt.Errorf("login service call failed: %w", auth.ErrInvalidCredentials)
			}
			return &auth.TokenResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    1800,
				TokenType:    "Bearer",
			}, nil
		},
	}
	app := newTestApp(authPort, &mockTaskPort{}, &mockActivityPort{})

	status, body := doRequest(t, app, http.MethodPost, "/api/v1/auth/signin", `{"username":"alice","password":"password123"}`)
	assert.Equal(t, http.StatusOK, status)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/auth/signin", `{"username":"alice","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRefresh(t *testing.T) {
	authPort := &mockAuthPort{
		refreshFunc: func(_ context.Context, refreshToken string) (*auth.TokenResponse, error) {
			if refreshToken != "good" {
				return nil, auth.ErrInvalidToken
			}
			return &auth.TokenResponse{AccessToken: "new-access", TokenType: "Bearer"}, nil
		},
	}
	app := newTestApp(authPort, &mockTaskPort{}, &mockActivityPort{})

	status, _ := doRequest(t, app, http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token":"good"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/v1/auth/refresh", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(signedIn(), &mockTaskPort{}, &mockActivityPort{})

	status, body := doRequest(t, app, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"healthy"`)
}
