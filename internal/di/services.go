package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/clients/fmp"
	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/modules/allocation"
	"github.com/aristath/advisor/internal/modules/correlation"
	"github.com/aristath/advisor/internal/modules/portfolio"
	"github.com/aristath/advisor/internal/modules/questionnaire"
	"github.com/aristath/advisor/internal/modules/report"
)

// InitializeServices creates clients and services in dependency order
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	// Profile table: built-in unless a YAML file overrides it
	table := allocation.DefaultTable()
	if cfg.ProfileTablePath != "" {
		loaded, err := allocation.LoadTable(cfg.ProfileTablePath)
		if err != nil {
			return fmt.Errorf("failed to load profile table: %w", err)
		}
		table = loaded
		log.Info().Str("path", cfg.ProfileTablePath).Msg("Loaded profile table")
	}
	container.ProfileTable = table

	// Market data client. Without an API key every call fails and the
	// portfolio service falls back to synthetic data.
	container.FMPClient = fmp.NewClient(cfg.FMPBaseURL, cfg.FinancialAPIKey, container.ClientDataRepo, log)
	if cfg.FinancialAPIKey == "" {
		log.Warn().Msg("FINANCIAL_API_KEY not set, recommendations will use synthetic data")
	}

	container.Scorer = questionnaire.NewDefaultScorer()
	container.CorrelationEngine = correlation.NewEngine(log)
	container.PortfolioService = portfolio.NewService(
		container.Scorer,
		container.ProfileTable,
		container.FMPClient,
		container.CorrelationEngine,
		portfolio.Options{
			FetchTimeout: cfg.FetchTimeout,
			LookbackDays: cfg.LookbackDays,
		},
		log,
	)

	// Report writer: Gemini when a key is configured, template otherwise
	var primary report.Writer
	if cfg.GeminiAPIKey != "" {
		generator, err := report.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to create Gemini client, reports will use the template")
		} else {
			primary = report.NewGenAIWriter(generator, log)
		}
	}
	container.ReportService = report.NewService(primary, log)

	return nil
}
