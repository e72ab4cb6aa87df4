package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trentd187/sports-academy/internal/database"
	"github.com/trentd187/sports-academy/internal/models"
	"github.com/trentd187/sports-academy/internal/testutil"
)

func count(t *testing.T, tdb *testutil.TestDatabase, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, tdb.DB.Model(model).Count(&n).Error)
	return n
}

func TestReset_SeedsDemoData(t *testing.T) {
	tdb := testutil.SetupTestDatabase(t)

	assert.Equal(t, int64(7), count(t, tdb, &models.User{}))
	assert.Equal(t, int64(5), count(t, tdb, &models.Game{}))
	assert.Equal(t, int64(4), count(t, tdb, &models.Player{}))
	assert.Equal(t, int64(2), count(t, tdb, &models.Coach{}))
	assert.Equal(t, int64(2), count(t, tdb, &models.Batch{}))
	assert.Equal(t, int64(3), count(t, tdb, &models.TrainingSession{}))
	assert.Equal(t, int64(3), count(t, tdb, &models.Attendance{}))
	assert.Equal(t, int64(5), count(t, tdb, &models.Payment{}))
	assert.Equal(t, int64(4), count(t, tdb, &models.PerformanceNote{}))
	assert.Equal(t, int64(4), count(t, tdb, &models.PlayerGame{}))

	// Every player profile belongs to a distinct player account.
	var owners []models.UserRole
	require.NoError(t, tdb.DB.Table("players").
		Joins("JOIN users ON users.id = players.user_id").
		Pluck("users.role", &owners).Error)
	for _, role := range owners {
		assert.Equal(t, models.UserRolePlayer, role)
	}
}

func TestReset_DiscardsChanges(t *testing.T) {
	tdb := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, tdb.DB.Create(&models.Game{Name: "Squash"}).Error)
	require.NoError(t, tdb.DB.Where("id = ?", 1).Delete(&models.Payment{}).Error)

	require.NoError(t, database.Reset(ctx, tdb.DB))

	assert.Equal(t, int64(5), count(t, tdb, &models.Game{}))
	assert.Equal(t, int64(5), count(t, tdb, &models.Payment{}))

	// Sequences restart, so the next game takes id 6.
	g := models.Game{Name: "Squash"}
	require.NoError(t, tdb.DB.Create(&g).Error)
	assert.Equal(t, uint(6), g.ID)
}

func TestSchema_RestrictsGuardedDeletes(t *testing.T) {
	tdb := testutil.SetupTestDatabase(t)

	// Badminton has a batch, the batch has sessions, session 1 has attendance.
	assert.Error(t, tdb.DB.Exec("DELETE FROM games WHERE id = 1").Error)
	assert.Error(t, tdb.DB.Exec("DELETE FROM batches WHERE id = 1").Error)
	assert.Error(t, tdb.DB.Exec("DELETE FROM training_sessions WHERE id = 1").Error)

	// Session 2 has no attendance and can go.
	assert.NoError(t, tdb.DB.Exec("DELETE FROM training_sessions WHERE id = 2").Error)
}

func TestMigrateStatusAndDown(t *testing.T) {
	tdb := testutil.SetupTestDatabase(t)

	require.NoError(t, database.MigrateStatus(tdb.URL))
	require.Error(t, database.MigrateDown(tdb.URL, 0))
	require.NoError(t, database.MigrateDown(tdb.URL, 1))
	require.NoError(t, database.MigrateUp(tdb.URL))
	require.NoError(t, database.MigrateUp(tdb.URL))
}

func TestPing(t *testing.T) {
	tdb := testutil.SetupTestDatabase(t)
	assert.NoError(t, database.Ping(context.Background(), tdb.DB))
}
