// Package handlers provides HTTP handlers for questionnaires, portfolio
// recommendations and reports.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/advisor/internal/modules/portfolio"
	"github.com/aristath/advisor/internal/modules/questionnaire"
	"github.com/aristath/advisor/internal/modules/report"
)

const maxBodyBytes = 1 << 20

// Assembler builds portfolio recommendations.
type Assembler interface {
	Questions() []questionnaire.Question
	Assemble(ctx context.Context, answers questionnaire.AnswerSet) (*portfolio.PortfolioResult, error)
}

// ReportGenerator writes reports for assembled portfolios.
type ReportGenerator interface {
	Generate(ctx context.Context, result *portfolio.PortfolioResult) (*report.Report, error)
}

// Handler handles portfolio HTTP requests
type Handler struct {
	assembler Assembler
	reports   ReportGenerator
	log       zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(assembler Assembler, reports ReportGenerator, log zerolog.Logger) *Handler {
	return &Handler{
		assembler: assembler,
		reports:   reports,
		log:       log.With().Str("handler", "portfolio").Logger(),
	}
}

// PortfolioRequest is the body of POST /portfolio.
type PortfolioRequest struct {
	Answers questionnaire.AnswerSet `json:"answers"`
	Amount  *decimal.Decimal        `json:"amount,omitempty"`
}

// ReportRequest is the body of POST /report. portfolioData is accepted as
// an alias of portfolio.
type ReportRequest struct {
	Portfolio     *portfolio.PortfolioResult `json:"portfolio"`
	PortfolioData *portfolio.PortfolioResult `json:"portfolioData"`
}

// HandleGetQuestionnaire returns the question set
func (h *Handler) HandleGetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"questions": h.assembler.Questions(),
		},
	})
}

// HandleCreatePortfolio scores the answers and returns the recommendation
func (h *Handler) HandleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	result, ok := h.assemble(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// HandleCreatePortfolioReport assembles the portfolio and its report in one call
func (h *Handler) HandleCreatePortfolioReport(w http.ResponseWriter, r *http.Request) {
	result, ok := h.assemble(w, r)
	if !ok {
		return
	}

	rep, err := h.reports.Generate(r.Context(), result)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate report")
		h.writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
		"report":  rep,
	})
}

// HandleCreateReport writes a report for a previously assembled portfolio
func (h *Handler) HandleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := req.Portfolio
	if result == nil {
		result = req.PortfolioData
	}
	if result == nil || len(result.Recommendations) == 0 {
		h.writeError(w, http.StatusBadRequest, "portfolio data is required")
		return
	}

	rep, err := h.reports.Generate(r.Context(), result)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate report")
		h.writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  rep,
	})
}

// assemble decodes a PortfolioRequest and runs the assembler. It writes the
// error response itself and reports whether the caller may continue.
func (h *Handler) assemble(w http.ResponseWriter, r *http.Request) (*portfolio.PortfolioResult, bool) {
	var req PortfolioRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		h.writeError(w, http.StatusBadRequest, "amount must be non-negative")
		return nil, false
	}

	result, err := h.assembler.Assemble(r.Context(), req.Answers)
	if err != nil {
		var invalid *questionnaire.InvalidAnswerError
		if errors.As(err, &invalid) {
			h.writeError(w, http.StatusBadRequest, invalid.Error())
			return nil, false
		}
		h.log.Error().Err(err).Msg("Failed to assemble portfolio")
		h.writeError(w, http.StatusInternalServerError, "failed to assemble portfolio")
		return nil, false
	}

	if req.Amount != nil {
		amounts, err := result.Allocation.Split(*req.Amount)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		result.Amounts = &amounts
	}

	return result, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeJSON encodes before writing the status so an encoding failure is
// reported as a 500 instead of a truncated success.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
		status = http.StatusInternalServerError
		body = []byte(`{"success":false,"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.log.Debug().Err(err).Msg("Failed to write response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
