package db_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-match/internal/db"
	"github.com/oggyb/swipe-match/internal/testutil"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "swipe.db?_foreign_keys=on", db.SQLiteDSN("swipe.db"))
	assert.Equal(t, "file:swipe.db?cache=shared&_foreign_keys=on", db.SQLiteDSN("file:swipe.db?cache=shared"))
	assert.Equal(t, "swipe.db?_foreign_keys=on", db.SQLiteDSN("swipe.db?_foreign_keys=on"))
	assert.Equal(t, "swipe.db?_fk=1", db.SQLiteDSN("swipe.db?_fk=1"))
}

func TestNewDBEnablesForeignKeysOnEveryConnection(t *testing.T) {
	const conns = 4

	cfg := testutil.Config()
	cfg.DB.Driver = "sqlite"
	cfg.DB.DSN = filepath.Join(t.TempDir(), "swipe.db")
	cfg.DB.MaxOpenConns = conns

	database, err := db.NewDB(cfg)
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	held := make([]*sql.Conn, 0, conns)
	t.Cleanup(func() {
		for _, c := range held {
			_ = c.Close()
		}
	})
	for i := 0; i < conns; i++ {
		c, err := sqlDB.Conn(ctx)
		require.NoError(t, err)
		held = append(held, c)

		var on int
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on))
		assert.Equal(t, 1, on, "connection %d", i)
	}
}
