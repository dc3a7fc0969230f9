// Package dbtest starts a throwaway PostgreSQL for store tests.
package dbtest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"notely/internal/db"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// Open returns a gorm handle to a migrated database shared by the whole test
// binary. The test is skipped when no container runtime is reachable.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("dbtest: skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(func() {
		sharedDSN, initErr = start()
	})
	if initErr != nil {
		t.Skipf("dbtest: postgres unavailable: %v", initErr)
	}

	gdb, err := db.Connect(sharedDSN, zerolog.Nop())
	if err != nil {
		t.Fatalf("dbtest: connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func start() (dsn string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("container runtime: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "notely",
			"POSTGRES_PASSWORD": "notely",
			"POSTGRES_DB":       "notely",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("mapped port: %w", err)
	}

	dsn = fmt.Sprintf("postgres://notely:notely@%s:%s/notely?sslmode=disable", host, port.Port())
	if err := db.Migrate(ctx, dsn); err != nil {
		return "", err
	}
	return dsn, nil
}
