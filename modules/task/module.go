package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/task-management-app/events"
	"github.com/example/task-management-app/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Store drivers accepted by Config.Driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and configures the task store.
type Config struct {
	Driver      string
	DBPath      string
	DatabaseURL string
	DBDebug     bool
	// Cache enables the Redis read-through layer when RedisAddr is set.
	Cache cache.Config
}

// DefaultConfig returns a SQLite-backed configuration without caching.
func DefaultConfig() Config {
	return Config{
		Driver: DriverSQLite,
		DBPath: "tasks.db",
	}
}

// TaskModule provides owner-scoped task services.
type TaskModule struct {
	config   Config
	store    Store
	service  *Service
	eventBus mono.EventBus
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a TaskModule that opens its store on Start.
func NewModule(config Config) *TaskModule {
	return &TaskModule{config: config}
}

// NewModuleWithStore creates a TaskModule on an already opened store.
func NewModuleWithStore(store Store) *TaskModule {
	return &TaskModule{
		config:  Config{Driver: DriverMemory},
		store:   store,
		service: NewService(store),
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetEventBus receives the event bus from the framework.
func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskStatusChangedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task-status", json.Unmarshal, json.Marshal, m.updateTaskStatus,
	); err != nil {
		return fmt.Errorf("failed to register update-task-status service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	log.Printf("[task] Registered services: create-task, list-tasks, get-task, update-task-status, delete-task")
	return nil
}

// Start opens the configured store.
func (m *TaskModule) Start(ctx context.Context) error {
	if m.store == nil {
		store, err := m.openStore(ctx)
		if err != nil {
			return err
		}
		m.store = store
		m.service = NewService(store)
	}

	if m.eventBus == nil {
		log.Println("[task] Warning: eventBus not set, events will not be published")
	}
	log.Printf("[task] Module started (driver: %s)", m.config.Driver)
	return nil
}

// Stop closes the store.
func (m *TaskModule) Stop(_ context.Context) error {
	if lc, ok := m.store.(storeLifecycle); ok {
		if err := lc.Close(); err != nil {
			log.Printf("[task] Error closing store: %v", err)
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health reports store and cache reachability.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "store not initialized",
		}
	}

	details := map[string]any{
		"driver": m.config.Driver,
	}
	if cs, ok := m.store.(*CachedStore); ok {
		details["cache"] = cs.Stats()
	}

	if lc, ok := m.store.(storeLifecycle); ok {
		if err := lc.Ping(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("store ping failed: %v", err),
				Details: details,
			}
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

func (m *TaskModule) openStore(ctx context.Context) (Store, error) {
	var store Store
	switch m.config.Driver {
	case DriverMemory:
		store = NewMemoryStore()
	case DriverSQLite, "":
		s, err := OpenSQLite(m.config.DBPath, m.config.DBDebug)
		if err != nil {
			return nil, err
		}
		store = s
	case DriverPostgres:
		s, err := OpenPostgres(ctx, m.config.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown task store driver: %q", m.config.Driver)
	}

	if m.config.Cache.RedisAddr == "" {
		return store, nil
	}

	c, err := cache.Connect(ctx, m.config.Cache)
	if err != nil {
		log.Printf("[task] Warning: cache disabled: %v", err)
		return store, nil
	}
	log.Printf("[task] Redis cache enabled (addr: %s, ttl: %s)", m.config.Cache.RedisAddr, m.config.Cache.TTL)
	return NewCachedStore(store, c), nil
}
