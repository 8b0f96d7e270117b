package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	activitymod "github.com/example/task-management-app/modules/activity"
	apimod "github.com/example/task-management-app/modules/api"
	authmod "github.com/example/task-management-app/modules/auth"
	"github.com/example/task-management-app/modules/cache"
	taskmod "github.com/example/task-management-app/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment, optionally seeded from .env
	_ = godotenv.Load(".env")

	httpPort := getEnvInt("HTTP_PORT", 3000)
	dbDebug := getEnvBool("DB_DEBUG", false)

	taskConfig := taskmod.DefaultConfig()
	taskConfig.Driver = getEnv("TASK_STORE_DRIVER", taskConfig.Driver)
	taskConfig.DBPath = getEnv("DB_PATH", taskConfig.DBPath)
	taskConfig.DatabaseURL = getEnv("DATABASE_URL", "")
	taskConfig.DBDebug = dbDebug
	taskConfig.Cache = cache.Config{
		RedisAddr: getEnv("REDIS_ADDR", ""),
		Prefix:    getEnv("CACHE_PREFIX", "task:"),
		TTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
	}

	authConfig := authmod.DefaultConfig()
	authConfig.DBPath = getEnv("AUTH_DB_PATH", authConfig.DBPath)
	authConfig.DBDebug = dbDebug
	authConfig.BcryptCost = getEnvInt("BCRYPT_COST", authConfig.BcryptCost)
	authConfig.JWT.SecretKey = getEnv("JWT_SECRET_KEY", authConfig.JWT.SecretKey)
	authConfig.JWT.Issuer = getEnv("JWT_ISSUER", authConfig.JWT.Issuer)
	authConfig.JWT.AccessTokenDuration = getEnvDuration("JWT_ACCESS_TTL", authConfig.JWT.AccessTokenDuration)
	authConfig.JWT.RefreshTokenDuration = getEnvDuration("JWT_REFRESH_TTL", authConfig.JWT.RefreshTokenDuration)

	activityLimit := getEnvInt("ACTIVITY_LIMIT", 100)

	logLevel := mono.LogLevelInfo
	if strings.EqualFold(getEnv("LOG_LEVEL", "info"), "error") {
		logLevel = mono.LogLevelError
	}

	log.Println("=== Task Management App ===")
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Task store: %s", taskConfig.Driver)
	if taskConfig.Cache.RedisAddr != "" {
		log.Printf("Redis cache: %s (ttl %s, prefix %s)", taskConfig.Cache.RedisAddr, taskConfig.Cache.TTL, taskConfig.Cache.Prefix)
	} else {
		log.Println("Redis cache: disabled")
	}
	if authConfig.JWT.SecretKey == authmod.DefaultJWTConfig().SecretKey {
		log.Println("Warning: JWT_SECRET_KEY not set, using development secret")
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Independent modules first, then dependent modules
	app.Register(authmod.NewModule(authConfig))
	app.Register(taskmod.NewModule(taskConfig))
	app.Register(activitymod.NewModule(activityLimit))
	app.Register(apimod.NewModule(httpPort))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(httpPort)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/signup       - Create an account")
	log.Println("  POST   /api/v1/auth/signin       - Sign in and get tokens")
	log.Println("  POST   /api/v1/auth/refresh      - Refresh access token")
	log.Println("  GET    /health                   - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  POST   /api/v1/tasks             - Create a task")
	log.Println("  GET    /api/v1/tasks             - List tasks (?status=&search=)")
	log.Println("  GET    /api/v1/tasks/:id         - Get a task")
	log.Println("  PATCH  /api/v1/tasks/:id/status  - Change task status")
	log.Println("  DELETE /api/v1/tasks/:id         - Delete a task")
	log.Println("  GET    /api/v1/activity          - Recent task activity")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns environment variable or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}
