package portfolio

import "math"

const (
	// DisplayPoints is the number of most recent closes kept for display.
	DisplayPoints = 60

	// SyntheticPrice is the current price of a placeholder record.
	SyntheticPrice = 100.0

	// UnknownSector labels instruments whose sector is not known.
	UnknownSector = "Unknown"
)

// SyntheticPrices returns a deterministic placeholder price curve:
//
//	p[i] = 100 + sin(i/10)*20 + i/2
func SyntheticPrices(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	prices := make([]float64, n)
	for i := range prices {
		x := float64(i)
		prices[i] = 100 + math.Sin(x/10)*20 + x/2
	}
	return prices
}

// SyntheticRecord returns a complete placeholder record for symbol.
func SyntheticRecord(symbol string) InstrumentRecord {
	return InstrumentRecord{
		Symbol:           symbol,
		Name:             symbol,
		Sector:           UnknownSector,
		CurrentPrice:     SyntheticPrice,
		Beta:             1.0,
		DividendYield:    0,
		PriceChange5Y:    0,
		HistoricalPrices: SyntheticPrices(DisplayPoints),
		Synthetic:        true,
	}
}
