// Package fmp provides a Financial Modeling Prep market data client.
package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/clientdata"
	"github.com/aristath/advisor/internal/modules/portfolio"
)

// DefaultBaseURL is the public Financial Modeling Prep API.
const DefaultBaseURL = "https://financialmodelingprep.com"

// ErrMissingAPIKey is returned by every call when no API key is configured.
var ErrMissingAPIKey = errors.New("financial API key is not configured")

var _ portfolio.MarketDataProvider = (*Client)(nil)

// Client for financialmodelingprep.com
type Client struct {
	baseURL   string
	apiKey    string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new Financial Modeling Prep client.
// cacheRepo is optional - if nil, caching is disabled
func NewClient(baseURL, apiKey string, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.With().Str("client", "fmp").Logger(),
		cacheRepo: cacheRepo,
	}
}

// profileResponse is one element of the /profile response.
type profileResponse struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Sector      string  `json:"sector"`
	Price       float64 `json:"price"`
	Beta        float64 `json:"beta"`
	LastDiv     float64 `json:"lastDiv"`
}

type historicalPoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type historicalResponse struct {
	Symbol     string            `json:"symbol"`
	Historical []historicalPoint `json:"historical"`
}

// GetCompanyProfile fetches a company profile with cache.
// If the API fails, returns stale cached data if available.
func (c *Client) GetCompanyProfile(ctx context.Context, symbol string) (*portfolio.CompanyProfile, error) {
	var profiles []profileResponse
	err := c.getCached(ctx, clientdata.TableFMPProfile, symbol, clientdata.TTLCompanyProfile,
		"/api/v3/profile/"+url.PathEscape(symbol), nil, &profiles,
		func() error {
			if len(profiles) == 0 {
				return fmt.Errorf("no profile returned for %s", symbol)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	p := profiles[0]
	return &portfolio.CompanyProfile{
		Symbol:       symbol,
		Name:         p.CompanyName,
		Sector:       p.Sector,
		Price:        p.Price,
		Beta:         p.Beta,
		LastDividend: p.LastDiv,
	}, nil
}

// GetHistoricalPrices fetches up to lookbackDays daily closes, oldest first.
func (c *Client) GetHistoricalPrices(ctx context.Context, symbol string, lookbackDays int) ([]portfolio.DailyClose, error) {
	if lookbackDays <= 0 {
		return nil, fmt.Errorf("lookback must be positive, got %d", lookbackDays)
	}

	var resp historicalResponse
	key := symbol + ":" + strconv.Itoa(lookbackDays)
	query := url.Values{"timeseries": {strconv.Itoa(lookbackDays)}}
	err := c.getCached(ctx, clientdata.TableFMPHistorical, key, clientdata.TTLHistorical,
		"/api/v3/historical-price-full/"+url.PathEscape(symbol), query, &resp,
		func() error {
			if len(resp.Historical) == 0 {
				return fmt.Errorf("no price history returned for %s", symbol)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	return toDailyCloses(resp.Historical)
}

// toDailyCloses parses the points and orders them oldest first. The API
// returns newest first.
func toDailyCloses(points []historicalPoint) ([]portfolio.DailyClose, error) {
	closes := make([]portfolio.DailyClose, 0, len(points))
	for _, p := range points {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", p.Date, err)
		}
		closes = append(closes, portfolio.DailyClose{Date: date, Close: p.Close})
	}

	sort.SliceStable(closes, func(i, j int) bool {
		return closes[i].Date.Before(closes[j].Date)
	})
	return closes, nil
}

// getCached decodes a fresh cache entry into out, or fetches from the API.
// validate rejects decoded payloads that must not be served or cached.
// When the API fails, stale cached data is used as a fallback.
func (c *Client) getCached(
	ctx context.Context,
	table, key string,
	ttl time.Duration,
	path string,
	query url.Values,
	out interface{},
	validate func() error,
) error {
	if c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh(ctx, table, key)
		if err == nil && data != nil {
			if err := json.Unmarshal(data, out); err == nil && validate() == nil {
				c.log.Debug().Str("table", table).Str("key", key).Msg("Cache hit")
				return nil
			}
		}
	}

	err := c.getJSON(ctx, path, query, out)
	if err == nil {
		err = validate()
	}
	if err != nil {
		if c.getStale(ctx, table, key, out) && validate() == nil {
			c.log.Warn().
				Err(err).
				Str("table", table).
				Str("key", key).
				Msg("API failed, using stale cached data")
			return nil
		}
		return err
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(ctx, table, key, out, ttl); err != nil {
			c.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Failed to cache response")
		}
	}

	return nil
}

// getStale decodes cached data even if expired.
func (c *Client) getStale(ctx context.Context, table, key string, out interface{}) bool {
	if c.cacheRepo == nil {
		return false
	}

	data, err := c.cacheRepo.Get(ctx, table, key)
	if err != nil || data == nil {
		return false
	}

	return json.Unmarshal(data, out) == nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("apikey", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.log.Debug().Str("path", path).Msg("Fetching market data")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
