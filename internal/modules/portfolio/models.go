package portfolio

import (
	"github.com/aristath/advisor/internal/modules/allocation"
	"github.com/aristath/advisor/internal/modules/questionnaire"
)

// InstrumentRecord is the per-symbol market summary shown to the user.
type InstrumentRecord struct {
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name"`
	Sector           string    `json:"sector"`
	CurrentPrice     float64   `json:"current_price"`
	Beta             float64   `json:"beta"`
	DividendYield    float64   `json:"dividend_yield"`    // percent
	PriceChange5Y    float64   `json:"price_change_5y"`   // percent over the full history
	Volatility       float64   `json:"volatility"`        // annualised, of the displayed series
	HistoricalPrices []float64 `json:"historical_prices"` // oldest first, at most DisplayPoints
	Synthetic        bool      `json:"synthetic"`         // true when any part is placeholder data
}

// DataQuality tells the presentation layer whether placeholder data was used.
type DataQuality struct {
	UsingSyntheticData bool     `json:"using_synthetic_data"`
	Warnings           []string `json:"warnings"`
}

// PortfolioResult is the assembled recommendation for one answer set.
type PortfolioResult struct {
	RiskProfile        questionnaire.RiskProfile `json:"risk_profile"`
	Allocation         allocation.Allocation     `json:"allocation"`
	Recommendations    []InstrumentRecord        `json:"recommendations"`
	CorrelationMatrix  [][]float64               `json:"correlation_matrix"`
	CorrelationSymbols []string                  `json:"correlation_symbols"`
	DataQuality        DataQuality               `json:"data_quality"`
	Amounts            *allocation.Amounts       `json:"amounts,omitempty"`
}
