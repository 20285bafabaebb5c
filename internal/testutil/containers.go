package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/localnerve/storefront/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabase = "storefront_test"
	testUser     = "storefront"
	testPassword = "storefront_password"
)

// requireImage skips the test unless containers are wanted and the image variable is set
func requireImage(t *testing.T, envVar string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}
	image := os.Getenv(envVar)
	if image == "" {
		t.Skipf("Skipping container test, %s is not set", envVar)
	}
	return image
}

// RunPostgres starts a postgres module container and returns a config pointing at it
func RunPostgres(ctx context.Context, image string) (testcontainers.Container, *config.Config, error) {
	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testUser),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return container, nil, fmt.Errorf("failed to start postgres: %w", err)
	}

	cfg, err := mappedConfig(ctx, container, "postgres", "5432/tcp")
	return container, cfg, err
}

// RunMariaDB starts a generic MariaDB container and returns a config pointing at it
func RunMariaDB(ctx context.Context, image string) (testcontainers.Container, *config.Config, error) {
	tcpDbPort, err := nat.NewPort("tcp", "3306")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create db port: %w", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpDbPort)},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": testPassword,
				"MARIADB_DATABASE":      testDatabase,
				"MARIADB_USER":          testUser,
				"MARIADB_PASSWORD":      testPassword,
			},
			WaitingFor: wait.ForListeningPort(tcpDbPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return container, nil, fmt.Errorf("failed to start mariadb: %w", err)
	}

	cfg, err := mappedConfig(ctx, container, "mariadb", tcpDbPort)
	return container, cfg, err
}

// RunRedis starts a redis module container and returns its host:port address
func RunRedis(ctx context.Context, image string) (testcontainers.Container, string, error) {
	container, err := tcredis.Run(ctx, image)
	if err != nil {
		return container, "", fmt.Errorf("failed to start redis: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		return container, "", fmt.Errorf("failed to get redis connection string: %w", err)
	}
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return container, "", fmt.Errorf("failed to parse redis connection string: %w", err)
	}
	return container, opts.Addr, nil
}

// StartPostgres runs the container named by POSTGRES_IMAGE for the life of the test
func StartPostgres(t *testing.T) *config.Config {
	t.Helper()
	image := requireImage(t, "POSTGRES_IMAGE")

	container, cfg, err := RunPostgres(context.Background(), image)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

// StartMariaDB runs the container named by MARIADB_IMAGE for the life of the test
func StartMariaDB(t *testing.T) *config.Config {
	t.Helper()
	image := requireImage(t, "MARIADB_IMAGE")

	container, cfg, err := RunMariaDB(context.Background(), image)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

// StartRedis runs the container named by REDIS_IMAGE for the life of the test
func StartRedis(t *testing.T) string {
	t.Helper()
	image := requireImage(t, "REDIS_IMAGE")

	container, addr, err := RunRedis(context.Background(), image)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatal(err)
	}
	return addr
}

func mappedConfig(ctx context.Context, container testcontainers.Container, dbType string, port nat.Port) (*config.Config, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s host: %w", dbType, err)
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s port: %w", dbType, err)
	}

	return &config.Config{
		Env:               "test",
		LogLevel:          "info",
		DBLogLevel:        "silent",
		DBType:            dbType,
		DBHost:            host,
		DBPort:            mapped.Port(),
		DBDatabase:        testDatabase,
		DBUser:            testUser,
		DBPassword:        testPassword,
		DBConnectionLimit: 5,
		JWTSecret:         "integration-secret",
		JWTExpiresIn:      time.Hour,
		CacheTTL:          time.Minute,
	}, nil
}
