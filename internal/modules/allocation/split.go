package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amounts is a notional amount split along an Allocation.
type Amounts struct {
	Total  decimal.Decimal `json:"total"`
	Stocks decimal.Decimal `json:"stocks"`
	Bonds  decimal.Decimal `json:"bonds"`
	Cash   decimal.Decimal `json:"cash"`
}

var hundred = decimal.NewFromInt(100)

// Split divides amount into stocks, bonds and cash, rounded to cents.
// Cash absorbs the rounding residue so the parts always sum to the amount.
func (a Allocation) Split(amount decimal.Decimal) (Amounts, error) {
	if amount.IsNegative() {
		return Amounts{}, fmt.Errorf("amount must be non-negative, got %s", amount.String())
	}

	stocks := amount.Mul(decimal.NewFromInt(int64(a.Stocks))).Div(hundred).Round(2)
	bonds := amount.Mul(decimal.NewFromInt(int64(a.Bonds))).Div(hundred).Round(2)
	cash := amount.Sub(stocks).Sub(bonds)

	return Amounts{
		Total:  amount,
		Stocks: stocks,
		Bonds:  bonds,
		Cash:   cash,
	}, nil
}
