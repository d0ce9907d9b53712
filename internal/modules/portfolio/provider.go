package portfolio

import (
	"context"
	"fmt"
	"time"
)

// CompanyProfile is the subset of a company profile the assembler needs.
type CompanyProfile struct {
	Symbol       string
	Name         string
	Sector       string
	Price        float64
	Beta         float64
	LastDividend float64 // annual dividend per share
}

// DailyClose is one dated close price.
type DailyClose struct {
	Date  time.Time
	Close float64
}

// MarketDataProvider supplies company profiles and daily price history.
// Implementations must return history oldest first and honour ctx.
type MarketDataProvider interface {
	GetCompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error)
	GetHistoricalPrices(ctx context.Context, symbol string, lookbackDays int) ([]DailyClose, error)
}

// Provider operations, as recorded in ProviderUnavailableError.Op.
const (
	OpProfile = "profile"
	OpHistory = "history"
)

// ProviderUnavailableError wraps a failed, timed out or empty provider call.
type ProviderUnavailableError struct {
	Symbol string
	Op     string
	Err    error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("market data unavailable for %s (%s): %v", e.Symbol, e.Op, e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}
