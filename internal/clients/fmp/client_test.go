package fmp

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/advisor/internal/clientdata"
	"github.com/aristath/advisor/internal/database"
)

const profileJSON = `[{"symbol":"AAPL","companyName":"Apple Inc.","sector":"Technology","price":190.5,"beta":1.24,"lastDiv":0.96}]`

const historicalJSON = `{"symbol":"AAPL","historical":[
	{"date":"2024-01-05","close":181.18},
	{"date":"2024-01-04","close":181.91},
	{"date":"2024-01-03","close":184.25}
]}`

func newTestCache(t *testing.T) *clientdata.Repository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(database.CacheSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return clientdata.NewRepository(db)
}

func TestGetCompanyProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/profile/AAPL", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Write([]byte(profileJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", nil, zerolog.Nop())

	profile, err := client.GetCompanyProfile(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", profile.Symbol)
	assert.Equal(t, "Apple Inc.", profile.Name)
	assert.Equal(t, "Technology", profile.Sector)
	assert.Equal(t, 190.5, profile.Price)
	assert.Equal(t, 1.24, profile.Beta)
	assert.Equal(t, 0.96, profile.LastDividend)
}

func TestGetCompanyProfile_EmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", nil, zerolog.Nop())

	_, err := client.GetCompanyProfile(context.Background(), "NOPE")
	assert.Error(t, err)
}

func TestGetHistoricalPrices_OldestFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/historical-price-full/AAPL", r.URL.Path)
		assert.Equal(t, "1260", r.URL.Query().Get("timeseries"))
		w.Write([]byte(historicalJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", nil, zerolog.Nop())

	closes, err := client.GetHistoricalPrices(context.Background(), "AAPL", 1260)
	require.NoError(t, err)
	require.Len(t, closes, 3)

	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), closes[0].Date)
	assert.Equal(t, 184.25, closes[0].Close)
	assert.Equal(t, 181.18, closes[2].Close)
}

func TestGetHistoricalPrices_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "empty history", status: http.StatusOK, body: `{"symbol":"AAPL","historical":[]}`},
		{name: "error payload", status: http.StatusOK, body: `{"Error Message":"Invalid API KEY."}`},
		{name: "malformed json", status: http.StatusOK, body: `{"historical":`},
		{name: "bad date", status: http.StatusOK, body: `{"historical":[{"date":"05/01/2024","close":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "test-key", nil, zerolog.Nop())

			_, err := client.GetHistoricalPrices(context.Background(), "AAPL", 1260)
			assert.Error(t, err)
		})
	}
}

func TestMissingAPIKey(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil, zerolog.Nop())

	_, err := client.GetCompanyProfile(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
	_, err = client.GetHistoricalPrices(context.Background(), "AAPL", 1260)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", nil, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetCompanyProfile(ctx, "AAPL")
	assert.Error(t, err)
}

func TestCache_FreshHitSkipsAPI(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(profileJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", newTestCache(t), zerolog.Nop())

	first, err := client.GetCompanyProfile(context.Background(), "AAPL")
	require.NoError(t, err)
	second, err := client.GetCompanyProfile(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_StaleFallbackOnAPIFailure(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	stale := []profileResponse{{Symbol: "KO", CompanyName: "Coca-Cola", Sector: "Consumer Defensive", Price: 60, Beta: 0.6, LastDiv: 1.9}}
	require.NoError(t, cache.Store(ctx, clientdata.TableFMPProfile, "KO", stale, -time.Hour))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", cache, zerolog.Nop())

	profile, err := client.GetCompanyProfile(ctx, "KO")
	require.NoError(t, err)
	assert.Equal(t, "Coca-Cola", profile.Name)
	assert.Equal(t, 0.6, profile.Beta)
}

func TestCache_HistoryKeyIncludesLookback(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(historicalJSON))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", newTestCache(t), zerolog.Nop())

	_, err := client.GetHistoricalPrices(context.Background(), "AAPL", 1260)
	require.NoError(t, err)
	_, err = client.GetHistoricalPrices(context.Background(), "AAPL", 1260)
	require.NoError(t, err)
	_, err = client.GetHistoricalPrices(context.Background(), "AAPL", 252)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
