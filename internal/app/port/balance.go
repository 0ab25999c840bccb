package port

import (
	"math/big"

	"token_balance/internal/domain/entity"
)

// BalanceStore holds raw token balances keyed by lower-cased token address and network.
// It is owned and refreshed outside of the balance lookups that read it.
type BalanceStore interface {
	// Get returns the raw balance and false when the store has no entry.
	Get(addressLower string, network entity.NetworkID) (*big.Int, bool)
}
