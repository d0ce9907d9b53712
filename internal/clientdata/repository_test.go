package clientdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/advisor/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(database.CacheSchema)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func TestStore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	data := map[string]interface{}{
		"companyName": "Apple Inc.",
		"price":       190.5,
	}

	err := repo.Store(ctx, TableFMPProfile, "AAPL", data, TTLCompanyProfile)
	require.NoError(t, err)

	var storedData string
	var expiresAt int64
	err = db.QueryRow("SELECT data, expires_at FROM fmp_profile WHERE symbol = ?", "AAPL").Scan(&storedData, &expiresAt)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(storedData), &parsed))
	assert.Equal(t, "Apple Inc.", parsed["companyName"])

	expectedExpires := time.Now().Add(TTLCompanyProfile).Unix()
	assert.InDelta(t, expectedExpires, expiresAt, 5)
}

func TestStoreUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, TableFMPHistorical, "AAPL:1260", map[string]string{"version": "1"}, time.Hour))
	require.NoError(t, repo.Store(ctx, TableFMPHistorical, "AAPL:1260", map[string]string{"version": "2"}, time.Hour))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM fmp_historical WHERE series = ?", "AAPL:1260").Scan(&count))
	assert.Equal(t, 1, count)

	result, err := repo.GetIfFresh(ctx, TableFMPHistorical, "AAPL:1260")
	require.NoError(t, err)
	require.NotNil(t, result)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(result, &parsed))
	assert.Equal(t, "2", parsed["version"])
}

func TestGetIfFresh_Expired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	expiredAt := time.Now().Add(-time.Hour).Unix()
	_, err := db.Exec("INSERT INTO fmp_profile (symbol, data, expires_at) VALUES (?, ?, ?)", "KO", `{"price":60}`, expiredAt)
	require.NoError(t, err)

	fresh, err := repo.GetIfFresh(ctx, TableFMPProfile, "KO")
	require.NoError(t, err)
	assert.Nil(t, fresh)

	stale, err := repo.Get(ctx, TableFMPProfile, "KO")
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":60}`, string(stale))
}

func TestGetIfFresh_UsesClock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, TableFMPProfile, "PG", map[string]int{"v": 1}, time.Hour))

	repo.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	data, err := repo.GetIfFresh(ctx, TableFMPProfile, "PG")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestGet_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	data, err := repo.Get(context.Background(), TableFMPProfile, "MISSING")
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = repo.GetIfFresh(context.Background(), TableFMPProfile, "MISSING")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, TableFMPProfile, "JNJ", map[string]int{"v": 1}, time.Hour))
	require.NoError(t, repo.Delete(ctx, TableFMPProfile, "JNJ"))

	data, err := repo.Get(ctx, TableFMPProfile, "JNJ")
	require.NoError(t, err)
	assert.Nil(t, data)

	// Deleting a missing key is not an error.
	assert.NoError(t, repo.Delete(ctx, TableFMPProfile, "JNJ"))
}

func TestDeleteAllExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	now := time.Now()
	insertExpiredAndFresh(t, db, TableFMPProfile, now.Add(-time.Hour).Unix(), now.Add(time.Hour).Unix())
	insertExpiredAndFresh(t, db, TableFMPHistorical, now.Add(-time.Hour).Unix(), now.Add(time.Hour).Unix())

	results, err := repo.DeleteAllExpired(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{
		TableFMPProfile:    1,
		TableFMPHistorical: 1,
	}, results)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM fmp_profile").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestGetKeyColumn(t *testing.T) {
	assert.Equal(t, "symbol", getKeyColumn(TableFMPProfile))
	assert.Equal(t, "series", getKeyColumn(TableFMPHistorical))
}

func TestInvalidTableName(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	table := "fmp_profile; DROP TABLE fmp_profile"

	assert.Error(t, repo.Store(ctx, table, "AAPL", "{}", time.Hour))
	_, err := repo.GetIfFresh(ctx, table, "AAPL")
	assert.Error(t, err)
	_, err = repo.Get(ctx, table, "AAPL")
	assert.Error(t, err)
	assert.Error(t, repo.Delete(ctx, table, "AAPL"))
	_, err = repo.DeleteExpired(ctx, table)
	assert.Error(t, err)
}

// insertExpiredAndFresh inserts one expired and one fresh entry.
func insertExpiredAndFresh(t *testing.T, db *sql.DB, table string, expiredAt, freshAt int64) {
	t.Helper()

	keyCol := getKeyColumn(table)
	_, err := db.Exec(
		"INSERT INTO "+table+" ("+keyCol+", data, expires_at) VALUES (?, ?, ?)",
		"EXPIRED", `{"status":"expired"}`, expiredAt,
	)
	require.NoError(t, err)

	_, err = db.Exec(
		"INSERT INTO "+table+" ("+keyCol+", data, expires_at) VALUES (?, ?, ?)",
		"FRESH", `{"status":"fresh"}`, freshAt,
	)
	require.NoError(t, err)
}
