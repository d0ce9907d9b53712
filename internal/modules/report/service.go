package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/aristath/advisor/internal/modules/portfolio"
)

// Report is a generated portfolio report.
type Report struct {
	ID          string    `json:"id"`
	Markdown    string    `json:"markdown"`
	HTML        string    `json:"html"`
	Filename    string    `json:"filename"`
	Source      string    `json:"source"` // writer that produced the body
	Insights    Insights  `json:"insights"`
	GeneratedAt time.Time `json:"generated_at"`
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts Markdown to HTML.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Service generates reports. The primary writer is optional; the template
// writer is always available as fallback.
type Service struct {
	primary  Writer
	fallback *TemplateWriter
	log      zerolog.Logger
}

// NewService creates a new report service. primary may be nil.
func NewService(primary Writer, log zerolog.Logger) *Service {
	return &Service{
		primary:  primary,
		fallback: NewTemplateWriter(),
		log:      log.With().Str("service", "report").Logger(),
	}
}

// Generate writes a report for result. Failures of the primary writer fall
// back to the template; only a template failure is returned.
func (s *Service) Generate(ctx context.Context, result *portfolio.PortfolioResult) (*Report, error) {
	if result == nil {
		return nil, errors.New("portfolio result is required")
	}

	insights := BuildInsights(result)

	body, source := "", ""
	if s.primary != nil {
		text, err := s.primary.Write(ctx, result, insights)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("writer", s.primary.Name()).
				Msg("Report writer failed, falling back to template")
		} else {
			body, source = text, s.primary.Name()
		}
	}
	if body == "" {
		text, err := s.fallback.Write(ctx, result, insights)
		if err != nil {
			return nil, fmt.Errorf("failed to generate report: %w", err)
		}
		body, source = text, s.fallback.Name()
	}

	html, err := RenderHTML(body)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	s.log.Info().
		Str("report_id", id).
		Str("source", source).
		Str("risk_profile", string(result.RiskProfile)).
		Msg("Generated report")

	return &Report{
		ID:          id,
		Markdown:    body,
		HTML:        html,
		Filename:    fmt.Sprintf("investment_report_%s_%s.md", result.RiskProfile, now.Format("20060102")),
		Source:      source,
		Insights:    insights,
		GeneratedAt: now,
	}, nil
}
