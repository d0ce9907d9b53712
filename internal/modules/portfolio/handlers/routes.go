package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/questionnaire", h.HandleGetQuestionnaire) // Question set

	r.Route("/portfolio", func(r chi.Router) {
		r.Post("/", h.HandleCreatePortfolio)             // Risk profile, allocation, instruments, correlation
		r.Post("/report", h.HandleCreatePortfolioReport) // Same plus the report
	})

	r.Post("/report", h.HandleCreateReport) // Report for an existing result
}
