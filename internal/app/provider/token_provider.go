package provider

import (
	"context"
	"fmt"
	"sync"

	"token_balance/internal/app/port"
	"token_balance/internal/domain/entity"
	"token_balance/internal/pkg/metrics"

	"github.com/shopspring/decimal"
)

// CatalogLoader loads the token catalog.
type CatalogLoader interface {
	LoadTokens(ctx context.Context) ([]*entity.Token, error)
}

type tokenProviderImpl struct {
	loader CatalogLoader
	logger port.Logger

	mu     sync.Mutex
	tokens []*entity.Token
	byID   map[string]*entity.Token
}

// NewTokenProvider creates a new TokenProvider.
func NewTokenProvider(loader CatalogLoader, logger port.Logger) port.TokenProvider {
	return &tokenProviderImpl{
		loader: loader,
		logger: logger,
	}
}

// load reads the catalog on first use and caches it afterwards.
func (p *tokenProviderImpl) load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.byID != nil {
		return nil
	}

	p.logger.Debug("Loading token catalog")
	tokens, err := p.loader.LoadTokens(ctx)
	if err != nil {
		p.logger.Error("Failed to load token catalog", "error", err)
		return err
	}

	byID := make(map[string]*entity.Token, len(tokens))
	for _, token := range tokens {
		byID[token.ID] = token
	}
	p.tokens = tokens
	p.byID = byID
	p.logger.Info("Token catalog loaded and cached successfully", "count", len(tokens))
	return nil
}

// GetTokens returns the cached catalog.
func (p *tokenProviderImpl) GetTokens(ctx context.Context) ([]*entity.Token, error) {
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	out := make([]*entity.Token, len(p.tokens))
	copy(out, p.tokens)
	return out, nil
}

// GetToken returns a token by id.
func (p *tokenProviderImpl) GetToken(ctx context.Context, id string) (*entity.Token, bool, error) {
	if err := p.load(ctx); err != nil {
		return nil, false, err
	}
	token, ok := p.byID[id]
	return token, ok, nil
}

// UpdatePrice sets the USD unit price of a token. An invalid price clears it.
func (p *tokenProviderImpl) UpdatePrice(ctx context.Context, id string, price decimal.NullDecimal) error {
	token, ok, err := p.GetToken(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("token %q not found", id)
	}
	token.SetUSD(price)
	metrics.PriceUpdates.Inc()
	p.logger.Debug("Token price updated", "token", id, "usd", price.Decimal.String(), "valid", price.Valid)
	return nil
}
