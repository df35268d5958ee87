package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hopdb.sqlite")

	db, err := OpenAndMigrate(Config{Path: path})
	require.NoError(t, err)
	defer db.Close()

	// applying the schema twice is harmless
	require.NoError(t, Migrate(db))

	for _, table := range []string{"runs", "source_hops", "hops"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("HOPDB_DB_PATH", "")
	assert.Equal(t, DefaultPath, DefaultConfig().Path)

	t.Setenv("HOPDB_DB_PATH", "/tmp/x.sqlite")
	assert.Equal(t, "/tmp/x.sqlite", DefaultConfig().Path)
}

func TestOpenAppliesPragmasToEveryConnection(t *testing.T) {
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "hopdb.sqlite"), BusyTimeout: 2 * time.Second})
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(3)

	// hold two connections so the third query opens a fresh one
	c1, err := db.Conn(t.Context())
	require.NoError(t, err)
	defer c1.Close()
	c2, err := db.Conn(t.Context())
	require.NoError(t, err)
	defer c2.Close()

	var fk, timeout int
	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	require.NoError(t, db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, 1, fk)
	assert.Equal(t, 2000, timeout)
	assert.Equal(t, "wal", mode)
}
