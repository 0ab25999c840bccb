package entity

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// TokenTypeERC20 is the type tag of ERC20 tokens.
const TokenTypeERC20 = "ERC20"

// MaxDecimals is the largest decimal precision a token may declare.
const MaxDecimals = 36

// Token is a catalog entry for a token deployed on one or more networks.
// Addresses are fixed at construction. Only the USD price changes over time.
type Token struct {
	ID        string
	Addresses AddressBook
	Decimals  *int
	Icon      string
	Type      string

	mu  sync.RWMutex
	usd decimal.NullDecimal
}

// NewToken builds a Token and copies the address map so later changes
// to the caller's map do not leak into the token.
func NewToken(id string, addresses map[NetworkID]string, decimals *int, usd decimal.NullDecimal) *Token {
	var dec *int
	if decimals != nil {
		d := *decimals
		dec = &d
	}
	return &Token{
		ID:        id,
		Addresses: NewAddressBook(addresses),
		Decimals:  dec,
		Type:      TokenTypeERC20,
		usd:       usd,
	}
}

// USD returns the current unit price. Invalid means no price is known.
func (t *Token) USD() decimal.NullDecimal {
	if t == nil {
		return decimal.NullDecimal{}
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.usd
}

// SetUSD replaces the unit price.
func (t *Token) SetUSD(price decimal.NullDecimal) {
	t.mu.Lock()
	t.usd = price
	t.mu.Unlock()
}

// Precision returns the validated decimal precision of the token.
func (t *Token) Precision() (int, error) {
	if t == nil {
		return 0, ErrDecimalsMissing
	}
	if t.Decimals == nil {
		return 0, fmt.Errorf("token %q: %w", t.ID, ErrDecimalsMissing)
	}
	d := *t.Decimals
	if d < 0 || d > MaxDecimals {
		return 0, fmt.Errorf("token %q has decimals %d: %w", t.ID, d, ErrDecimalsInvalid)
	}
	return d, nil
}

// IconURL returns the path of the token icon, or an empty string when the token has none.
func (t *Token) IconURL() string {
	if t.Icon == "" {
		return ""
	}
	return "/token-icons/" + t.Icon
}
