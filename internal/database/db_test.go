package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	db, err := New(Config{Path: path, Profile: ProfileCache, Name: "cache"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path())
	assert.Equal(t, ProfileCache, db.Profile())
	assert.Equal(t, "cache", db.Name())

	require.NoError(t, db.Migrate())
	// Applying the schema twice is harmless.
	require.NoError(t, db.Migrate())

	for _, table := range []string{"fmp_profile", "fmp_historical"} {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}

	assert.NoError(t, db.QuickCheck(context.Background()))
	assert.NoError(t, db.WALCheckpoint(""))

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageSize, int64(0))
}

func TestNew_DefaultsToStandardProfile(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "std.db"), Name: "std"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, ProfileStandard, db.Profile())
}

func TestBuildConnectionString(t *testing.T) {
	cache := buildConnectionString("/tmp/cache.db", ProfileCache)
	assert.Contains(t, cache, "/tmp/cache.db?_pragma=journal_mode(WAL)")
	assert.Contains(t, cache, "synchronous(OFF)")

	standard := buildConnectionString("/tmp/std.db", ProfileStandard)
	assert.Contains(t, standard, "synchronous(NORMAL)")

	memory := buildConnectionString("file:test?mode=memory", ProfileCache)
	assert.Contains(t, memory, "file:test?mode=memory&_pragma=journal_mode(WAL)")
}
