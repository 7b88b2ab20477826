// Package testContainers starts the postgres and redis instances used by store tests.
package testContainers

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/KotFed0t/trade_journal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgUser     = "postgres"
	pgPassword = "postgres"
	pgDbName   = "trade_journal"
)

var (
	pgOnce sync.Once
	pgHost string
	pgPort int
	pgErr  error

	redisOnce sync.Once
	redisHost string
	redisPort int
	redisErr  error
)

// Postgres fills cfg.Postgres with a shared container, one per test process.
// The test is skipped when docker is not reachable or -short is set.
func Postgres(t *testing.T, cfg *config.Config) {
	t.Helper()
	skipWithoutDocker(t)

	pgOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDbName,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(60 * time.Second),
		}
		pgHost, pgPort, pgErr = start(req, "5432/tcp")
	})

	if pgErr != nil {
		t.Fatalf("postgres container failed: %v", pgErr)
	}

	cfg.Postgres.Host = pgHost
	cfg.Postgres.Port = pgPort
	cfg.Postgres.User = pgUser
	cfg.Postgres.Password = pgPassword
	cfg.Postgres.DbName = pgDbName
	cfg.Postgres.MaxOpenConns = 5
	cfg.Postgres.MaxIdleConns = 2
	cfg.Postgres.MigrationDir = migrationDir()
}

// Redis fills cfg.Redis with a shared container, one per test process.
func Redis(t *testing.T, cfg *config.Config) {
	t.Helper()
	skipWithoutDocker(t)

	redisOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("6379/tcp"),
				wait.ForLog("Ready to accept connections"),
			).WithDeadline(30 * time.Second),
		}
		redisHost, redisPort, redisErr = start(req, "6379/tcp")
	})

	if redisErr != nil {
		t.Fatalf("redis container failed: %v", redisErr)
	}

	cfg.Redis.Enabled = true
	cfg.Redis.Host = redisHost
	cfg.Redis.Port = redisPort
}

func skipWithoutDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("container tests are skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// start runs the container for the rest of the process; ryuk removes it afterwards.
func start(req testcontainers.ContainerRequest, port string) (string, int, error) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", 0, fmt.Errorf("start %s container: %w", req.Image, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return "", 0, fmt.Errorf("get %s host: %w", req.Image, err)
	}

	mappedPort, err := container.MappedPort(ctx, port)
	if err != nil {
		_ = container.Terminate(ctx)
		return "", 0, fmt.Errorf("get %s port: %w", req.Image, err)
	}

	p, err := strconv.Atoi(mappedPort.Port())
	if err != nil {
		_ = container.Terminate(ctx)
		return "", 0, err
	}

	return host, p, nil
}

func migrationDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "migrations")
}
