package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// BalanceQuote is the balance of a token on one network together with its valuation.
type BalanceQuote struct {
	TokenID          string          `json:"tokenId"`
	NetworkID        NetworkID       `json:"networkId"`
	Address          string          `json:"address,omitempty"`
	ChecksumAddress  string          `json:"checksumAddress,omitempty"`
	Decimals         int             `json:"decimals"`
	Raw              *big.Int        `json:"-"`
	RawBalance       string          `json:"rawBalance"`
	Balance          decimal.Decimal `json:"balance"`
	FormattedBalance string          `json:"formattedBalance"`
	PriceUSD         decimal.Decimal `json:"priceUSD"`
	ValueUSD         decimal.Decimal `json:"valueUSD"`
	AggregateUSD     decimal.Decimal `json:"aggregateUSD"`
}
