package ledger

import "github.com/shopspring/decimal"

var (
	highTierFloor = decimal.NewFromInt(5000)
	midTierFloor  = decimal.NewFromInt(1000)

	highTierRate = decimal.RequireFromString("0.07")
	midTierRate  = decimal.RequireFromString("0.085")
	baseRate     = decimal.RequireFromString("0.10")
)

// Split is a budget divided into platform fee and worker payout.
type Split struct {
	Rate decimal.Decimal `json:"rate"`
	Fee  decimal.Decimal `json:"fee"`
	Net  decimal.Decimal `json:"net"`
}

// CommissionRate returns the platform rate for a budget: 7% above 5000,
// 8.5% from 1000 to 5000 inclusive, 10% below 1000.
func CommissionRate(budget decimal.Decimal) decimal.Decimal {
	switch {
	case budget.GreaterThan(highTierFloor):
		return highTierRate
	case budget.GreaterThanOrEqual(midTierFloor):
		return midTierRate
	default:
		return baseRate
	}
}

// Commission splits budget into fee and net. Fee is rounded to 2 places; net
// absorbs the remainder so fee+net always equals budget.
func Commission(budget decimal.Decimal) Split {
	rate := CommissionRate(budget)
	fee := budget.Mul(rate).Round(2)
	return Split{
		Rate: rate,
		Fee:  fee,
		Net:  budget.Sub(fee),
	}
}
