package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	containerStartTimeout = 60 * time.Second

	postgresPort     = "5432"
	postgresUser     = "test"
	postgresPassword = "test"
	postgresDatabase = "materrax_test"

	redisPort = "6379"
)

// PostgresDSN returns PG_TEST_DSN when set, otherwise starts a disposable
// PostgreSQL container. The test is skipped in short mode or when no
// container runtime is reachable.
func PostgresDSN(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if dsn := os.Getenv("PG_TEST_DSN"); dsn != "" {
		return dsn
	}

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{postgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDatabase,
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForExposedPort(),
		),
	}

	ctx, cancel := context.WithTimeout(context.Background(), containerStartTimeout)
	defer cancel()

	container := startContainer(ctx, t, req)
	mappedPort, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, containerHost(ctx, t, container), mappedPort.Port(), postgresDatabase)
}

// RedisURL returns REDIS_TEST_URL when set, otherwise starts a disposable
// Redis container. Skips like PostgresDSN.
func RedisURL(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if url := os.Getenv("REDIS_TEST_URL"); url != "" {
		return url
	}

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{redisPort + "/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), containerStartTimeout)
	defer cancel()

	container := startContainer(ctx, t, req)
	mappedPort, err := container.MappedPort(ctx, redisPort)
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return fmt.Sprintf("redis://%s:%s/0", containerHost(ctx, t, container), mappedPort.Port())
}

func startContainer(ctx context.Context, t *testing.T, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Container runtime unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	})

	return container
}

func containerHost(ctx context.Context, t *testing.T, container testcontainers.Container) string {
	t.Helper()

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	return host
}
