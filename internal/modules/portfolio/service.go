// Package portfolio assembles a recommended portfolio for a questionnaire
// answer set: risk profile, allocation, per-instrument market summaries and
// their correlation matrix.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/modules/allocation"
	"github.com/aristath/advisor/internal/modules/correlation"
	"github.com/aristath/advisor/internal/modules/questionnaire"
	"github.com/aristath/advisor/pkg/formulas"
)

const (
	// DefaultFetchTimeout bounds the market data calls for one instrument.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultLookbackDays is five years of trading days.
	DefaultLookbackDays = formulas.TradingDaysPerYear * 5
)

// Options tunes market data fetching.
type Options struct {
	FetchTimeout time.Duration
	LookbackDays int
}

// DefaultOptions returns the default fetch options.
func DefaultOptions() Options {
	return Options{
		FetchTimeout: DefaultFetchTimeout,
		LookbackDays: DefaultLookbackDays,
	}
}

// Service assembles portfolio recommendations.
//
// Market data for the profile's instruments is fetched concurrently, one
// goroutine per instrument. A failed, empty or timed out fetch never fails
// the request: the affected instrument is filled with placeholder data and
// the result is flagged. The only error Assemble returns for a well-formed
// table is an invalid answer set.
type Service struct {
	scorer   *questionnaire.Scorer
	table    *allocation.Table
	provider MarketDataProvider
	engine   *correlation.Engine
	opts     Options
	log      zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(
	scorer *questionnaire.Scorer,
	table *allocation.Table,
	provider MarketDataProvider,
	engine *correlation.Engine,
	opts Options,
	log zerolog.Logger,
) *Service {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = DefaultLookbackDays
	}
	return &Service{
		scorer:   scorer,
		table:    table,
		provider: provider,
		engine:   engine,
		opts:     opts,
		log:      log.With().Str("service", "portfolio").Logger(),
	}
}

// Questions returns the questionnaire the service scores against.
func (s *Service) Questions() []questionnaire.Question {
	return s.scorer.Questions()
}

// instrumentOutcome is the result of one instrument fetch.
type instrumentOutcome struct {
	record InstrumentRecord
	errs   []error
}

// Assemble scores the answers and builds the full recommendation.
func (s *Service) Assemble(ctx context.Context, answers questionnaire.AnswerSet) (*PortfolioResult, error) {
	profile, err := s.scorer.ScoreProfile(answers)
	if err != nil {
		return nil, err
	}

	entry, err := s.table.Lookup(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profile table: %w", err)
	}

	start := time.Now()
	outcomes := s.fetchAll(ctx, entry.Symbols)

	records := make([]InstrumentRecord, len(outcomes))
	series := make([]correlation.Series, len(outcomes))
	quality := DataQuality{Warnings: make([]string, 0)}
	for i, outcome := range outcomes {
		records[i] = outcome.record
		series[i] = correlation.Series{
			Symbol: outcome.record.Symbol,
			Prices: outcome.record.HistoricalPrices,
		}
		if outcome.record.Synthetic {
			quality.UsingSyntheticData = true
		}
		for _, e := range outcome.errs {
			quality.Warnings = append(quality.Warnings, e.Error())
		}
	}

	matrix := s.engine.BuildMatrix(series)
	if matrix.Reason != "" {
		quality.Warnings = append(quality.Warnings, "correlation: "+matrix.Reason)
	}

	s.log.Info().
		Str("risk_profile", string(profile)).
		Strs("symbols", entry.Symbols).
		Bool("synthetic_data", quality.UsingSyntheticData).
		Bool("correlation_fallback", matrix.Fallback).
		Dur("duration", time.Since(start)).
		Msg("Assembled portfolio")

	return &PortfolioResult{
		RiskProfile:        profile,
		Allocation:         entry.Allocation,
		Recommendations:    records,
		CorrelationMatrix:  matrix.Values,
		CorrelationSymbols: matrix.Symbols,
		DataQuality:        quality,
	}, nil
}

// fetchAll fetches every symbol concurrently and waits for all of them.
// Each goroutine writes only its own slot.
func (s *Service) fetchAll(ctx context.Context, symbols []string) []instrumentOutcome {
	outcomes := make([]instrumentOutcome, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.log.Error().
						Str("symbol", symbol).
						Interface("panic", r).
						Msg("Market data fetch panicked, using synthetic data")
					outcomes[i] = instrumentOutcome{
						record: SyntheticRecord(symbol),
						errs:   []error{fmt.Errorf("market data fetch for %s failed: %v", symbol, r)},
					}
				}
			}()
			outcomes[i] = s.fetchInstrument(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	return outcomes
}

// fetchContext derives the context for one instrument fetch. Request
// cancellation is ignored so every fetch ends in a value or a fallback, but
// an earlier request deadline still applies.
func (s *Service) fetchContext(parent context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(parent)
	if deadline, ok := parent.Deadline(); ok && time.Until(deadline) < s.opts.FetchTimeout {
		return context.WithDeadline(base, deadline)
	}
	return context.WithTimeout(base, s.opts.FetchTimeout)
}

func (s *Service) fetchInstrument(ctx context.Context, symbol string) instrumentOutcome {
	fetchCtx, cancel := s.fetchContext(ctx)
	defer cancel()

	profile, err := s.provider.GetCompanyProfile(fetchCtx, symbol)
	if err == nil && profile == nil {
		err = errors.New("empty company profile")
	}
	if err != nil {
		perr := &ProviderUnavailableError{Symbol: symbol, Op: OpProfile, Err: err}
		s.log.Warn().Err(perr).Str("symbol", symbol).Msg("Company profile unavailable, using synthetic data")
		return instrumentOutcome{record: SyntheticRecord(symbol), errs: []error{perr}}
	}

	record := recordFromProfile(symbol, profile)

	history, err := s.provider.GetHistoricalPrices(fetchCtx, symbol, s.opts.LookbackDays)
	if err == nil {
		err = ValidateHistory(history)
	}
	if err != nil {
		perr := &ProviderUnavailableError{Symbol: symbol, Op: OpHistory, Err: err}
		s.log.Warn().Err(perr).Str("symbol", symbol).Msg("Price history unavailable, using synthetic curve")
		record.HistoricalPrices = SyntheticPrices(DisplayPoints)
		record.PriceChange5Y = 0
		record.Synthetic = true
		return instrumentOutcome{record: record, errs: []error{perr}}
	}

	closes := Closes(history)
	record.PriceChange5Y = formulas.RoundTo(formulas.PercentChange(closes), 2)
	record.HistoricalPrices = DisplaySeries(closes, DisplayPoints)
	record.Volatility = seriesVolatility(record.HistoricalPrices)

	s.log.Debug().
		Str("symbol", symbol).
		Int("points", len(closes)).
		Float64("price_change_5y", record.PriceChange5Y).
		Msg("Fetched instrument data")

	return instrumentOutcome{record: record}
}

// recordFromProfile maps a company profile onto a record, applying defaults
// for missing fields. Symbol is always the requested one.
func recordFromProfile(symbol string, p *CompanyProfile) InstrumentRecord {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = symbol
	}
	sector := strings.TrimSpace(p.Sector)
	if sector == "" {
		sector = UnknownSector
	}
	beta := p.Beta
	if beta == 0 {
		beta = 1.0
	}
	var dividendYield float64
	if p.Price > 0 {
		dividendYield = formulas.RoundTo(p.LastDividend/p.Price*100, 2)
	}

	return InstrumentRecord{
		Symbol:        symbol,
		Name:          name,
		Sector:        sector,
		CurrentPrice:  p.Price,
		Beta:          beta,
		DividendYield: dividendYield,
	}
}
