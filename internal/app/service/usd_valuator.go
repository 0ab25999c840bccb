package service

import "github.com/shopspring/decimal"

const (
	usdPlaces          = 2
	aggregateUSDPlaces = 0
)

// ToUSD values balance at the unit price, rounded half away from zero to
// cents. A missing price counts as zero.
func ToUSD(balance decimal.Decimal, price decimal.NullDecimal) decimal.Decimal {
	return value(balance, price).Round(usdPlaces)
}

// ToAggregateUSD values balance like ToUSD but rounds to whole units, for totals.
func ToAggregateUSD(balance decimal.Decimal, price decimal.NullDecimal) decimal.Decimal {
	return value(balance, price).Round(aggregateUSDPlaces)
}

func value(balance decimal.Decimal, price decimal.NullDecimal) decimal.Decimal {
	if !price.Valid {
		return decimal.Zero
	}
	return balance.Mul(price.Decimal)
}
