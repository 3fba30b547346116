package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/hallpass/internal/shared/infrastructure/migrations"
)

func TestFiles(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		files, err := migrations.Files(driver)
		require.NoError(t, err)
		assert.Equal(t, []string{
			driver.String() + "/001_schedule.up.sql",
			driver.String() + "/002_tally.up.sql",
		}, files)
	}
}

func TestRun_SQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := database.Open(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "hallpass.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	require.NoError(t, migrations.Run(ctx, conn))

	var groups int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM tally_counters`).Scan(&groups))
	assert.Equal(t, 2, groups)

	var days int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM schedule_days`).Scan(&days))
	assert.Equal(t, 0, days)
}
