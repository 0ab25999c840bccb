package port

import (
	"context"

	"token_balance/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// TokenProvider defines the interface for accessing the token catalog.
type TokenProvider interface {
	// GetTokens returns all tokens of the catalog ordered by id.
	GetTokens(ctx context.Context) ([]*entity.Token, error)

	// GetToken returns the token with the given id.
	GetToken(ctx context.Context, id string) (*entity.Token, bool, error)

	// UpdatePrice replaces the USD unit price of a token.
	UpdatePrice(ctx context.Context, id string, price decimal.NullDecimal) error
}
