// Package testutil starts throwaway PostgreSQL containers for integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/trentd187/sports-academy/internal/config"
	"github.com/trentd187/sports-academy/internal/database"
)

// TestDatabase is a migrated and seeded database running in a container.
type TestDatabase struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
	URL       string
}

// SetupTestDatabase starts postgres:16-alpine, applies the embedded migrations and
// loads the seed dataset. Container and pool are released through t.Cleanup.
// Tests calling this are skipped under -short.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("academy_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"test":      "sports-academy",
			"test-name": t.Name(),
			"timestamp": time.Now().Format("20060102-150405"),
		}),
	)
	require.NoError(t, err)

	tdb := &TestDatabase{Container: container}
	t.Cleanup(func() { tdb.cleanup(t) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	tdb.URL = url

	require.NoError(t, database.RunMigrations(url))

	db, err := database.Connect(ctx, &config.Config{
		DatabaseURL:     url,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)
	tdb.DB = db

	require.NoError(t, database.Reset(ctx, db))
	return tdb
}

func (td *TestDatabase) cleanup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if td.DB != nil {
		if err := database.Close(td.DB); err != nil {
			t.Logf("failed to close test pool: %v", err)
		}
	}
	if td.Container != nil {
		if err := td.Container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate test container: %v", err)
		}
	}
}
