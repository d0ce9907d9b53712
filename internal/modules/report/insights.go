// Package report turns an assembled portfolio into a human-readable
// Markdown/HTML report.
package report

import (
	"fmt"
	"strings"

	"github.com/aristath/advisor/internal/modules/correlation"
	"github.com/aristath/advisor/internal/modules/portfolio"
	"github.com/aristath/advisor/pkg/formulas"
)

// TrendLength is the SMA window used for the price trend.
const TrendLength = 20

// Volatility bands derived from beta.
const (
	VolatilityLow    = "low"
	VolatilityMedium = "medium"
	VolatilityHigh   = "high"
)

// Dividend bands derived from the yield in percent.
const (
	DividendNone   = "none"
	DividendLow    = "low"
	DividendMedium = "medium"
	DividendHigh   = "high"
)

// Growth bands derived from the 5 year price change in percent.
const (
	GrowthModerate    = "moderate"
	GrowthGood        = "good"
	GrowthExceptional = "exceptional"
)

// Trend of the last close relative to its moving average.
const (
	TrendAbove   = "above"
	TrendBelow   = "below"
	TrendUnknown = "unknown"
)

// companyNotes holds short descriptions of the default instruments.
var companyNotes = map[string]string{
	"JNJ":  "Johnson & Johnson is a stable healthcare company with a long dividend history. Its low beta points to lower volatility than the market.",
	"PG":   "Procter & Gamble makes consumer staples, which tends to hold up during economic downturns.",
	"KO":   "The Coca-Cola Company is one of the largest beverage makers worldwide, known for stability and regular dividends.",
	"AAPL": "Apple is a technology leader with a strong brand and a loyal customer base. A moderate beta and steady growth suit a moderate risk profile.",
	"MSFT": "Microsoft is a diversified software company spanning cloud services, operating systems and productivity applications.",
	"JPM":  "JPMorgan Chase is one of the largest US banks with diversified investment and commercial banking operations.",
	"NVDA": "NVIDIA leads in graphics processors and AI hardware. A high beta and strong five-year growth reflect high potential and matching risk.",
	"TSLA": "Tesla builds electric vehicles and energy storage. A high beta and no dividend indicate high risk with potentially high returns.",
	"AMD":  "Advanced Micro Devices designs semiconductors and processors. A high beta and strong five-year growth reflect high potential and matching risk.",
}

// InstrumentInsight is the qualitative reading of one instrument.
type InstrumentInsight struct {
	Symbol          string   `json:"symbol"`
	VolatilityBand  string   `json:"volatility_band"`
	DividendBand    string   `json:"dividend_band"`
	GrowthBand      string   `json:"growth_band"`
	Trend           string   `json:"trend"`
	SMA             *float64 `json:"sma,omitempty"`
	DistanceFromSMA *float64 `json:"distance_from_sma,omitempty"`
	Note            string   `json:"note,omitempty"`
}

// Insights is the qualitative reading of a whole portfolio.
type Insights struct {
	Instruments      []InstrumentInsight `json:"instruments"`
	HighCorrelations []correlation.Pair  `json:"high_correlations"`
	AverageBeta      float64             `json:"average_beta"`
	Diversification  string              `json:"diversification"`
}

// VolatilityBand classifies beta: <0.8 low, <1.2 medium, otherwise high.
func VolatilityBand(beta float64) string {
	switch {
	case beta < 0.8:
		return VolatilityLow
	case beta < 1.2:
		return VolatilityMedium
	default:
		return VolatilityHigh
	}
}

// DividendBand classifies a dividend yield in percent.
func DividendBand(yield float64) string {
	switch {
	case yield == 0:
		return DividendNone
	case yield < 1:
		return DividendLow
	case yield < 3:
		return DividendMedium
	default:
		return DividendHigh
	}
}

// GrowthBand classifies a 5 year price change in percent.
func GrowthBand(change float64) string {
	switch {
	case change < 30:
		return GrowthModerate
	case change < 100:
		return GrowthGood
	default:
		return GrowthExceptional
	}
}

// BuildInsights derives insights from a result. It is a pure function.
func BuildInsights(result *portfolio.PortfolioResult) Insights {
	insights := Insights{
		Instruments:      make([]InstrumentInsight, 0, len(result.Recommendations)),
		HighCorrelations: make([]correlation.Pair, 0),
	}

	var betaSum float64
	for _, rec := range result.Recommendations {
		insight := InstrumentInsight{
			Symbol:         rec.Symbol,
			VolatilityBand: VolatilityBand(rec.Beta),
			DividendBand:   DividendBand(rec.DividendYield),
			GrowthBand:     GrowthBand(rec.PriceChange5Y),
			Trend:          TrendUnknown,
			Note:           companyNotes[rec.Symbol],
		}
		if sma := formulas.SimpleMovingAverage(rec.HistoricalPrices, TrendLength); sma != nil {
			rounded := formulas.RoundTo(*sma, 2)
			insight.SMA = &rounded
			if distance := formulas.DistanceFromSMA(rec.HistoricalPrices, TrendLength); distance != nil {
				d := formulas.RoundTo(*distance, 4)
				insight.DistanceFromSMA = &d
				if *distance >= 0 {
					insight.Trend = TrendAbove
				} else {
					insight.Trend = TrendBelow
				}
			}
		}
		betaSum += rec.Beta
		insights.Instruments = append(insights.Instruments, insight)
	}
	if n := len(result.Recommendations); n > 0 {
		insights.AverageBeta = formulas.RoundTo(betaSum/float64(n), 2)
	}

	if isSquare(result.CorrelationMatrix, len(result.CorrelationSymbols)) {
		m := correlation.Matrix{
			Symbols: result.CorrelationSymbols,
			Values:  result.CorrelationMatrix,
		}
		insights.HighCorrelations = correlation.HighCorrelationPairs(m, correlation.HighCorrelationThreshold)
	}
	insights.Diversification = diversificationNote(insights.HighCorrelations)

	return insights
}

func diversificationNote(pairs []correlation.Pair) string {
	var positive []string
	for _, p := range pairs {
		if p.Correlation > 0 {
			positive = append(positive, fmt.Sprintf("%s/%s", p.Symbol1, p.Symbol2))
		}
	}
	if len(positive) == 0 {
		return "No pair of holdings is strongly correlated; the selection is reasonably diversified."
	}
	return fmt.Sprintf("Strongly correlated holdings (%s) tend to move together, which reduces diversification.",
		strings.Join(positive, ", "))
}

func isSquare(values [][]float64, n int) bool {
	if len(values) != n {
		return false
	}
	for _, row := range values {
		if len(row) != n {
			return false
		}
	}
	return true
}
