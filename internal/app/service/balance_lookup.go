package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"token_balance/internal/app/port"
	"token_balance/internal/domain/entity"
	"token_balance/internal/pkg/metrics"
	"token_balance/internal/pkg/utils"

	"github.com/shopspring/decimal"
)

// FormattedBalancePlaces is the number of fractional digits of formatted balances.
const FormattedBalancePlaces = 3

// ErrNoContractFetcher is returned by GetContract when no fetcher is configured.
var ErrNoContractFetcher = errors.New("contract fetcher not configured")

// BalanceLookup answers balance and valuation questions for catalog tokens
// from the current snapshot of a BalanceStore.
type BalanceLookup struct {
	store    port.BalanceStore
	networks port.NetworkDefinitionProvider
	fetcher  port.ContractFetcher
	resolver *AddressResolver
	logger   port.Logger
}

// NewBalanceLookup creates a new BalanceLookup. networks and fetcher may be nil
// when contract objects are not needed.
func NewBalanceLookup(
	store port.BalanceStore,
	networks port.NetworkDefinitionProvider,
	fetcher port.ContractFetcher,
	logger port.Logger,
) *BalanceLookup {
	return &BalanceLookup{
		store:    store,
		networks: networks,
		fetcher:  fetcher,
		resolver: NewAddressResolver(logger),
		logger:   logger,
	}
}

// Resolver returns the address resolver shared by all lookups.
func (s *BalanceLookup) Resolver() *AddressResolver {
	return s.resolver
}

// resolve is the single address resolution step behind every lookup.
// An entry holding an empty address counts as unresolved.
func (s *BalanceLookup) resolve(nc port.NetworkContext, token *entity.Token, networkID entity.NetworkID) (entity.NetworkID, string, bool) {
	effective, address, ok := s.resolver.ResolveAddress(nc, token, networkID)
	if !ok || address == "" {
		return effective, "", false
	}
	return effective, address, true
}

// raw reads the stored balance of an already resolved address. Missing entries read as zero.
func (s *BalanceLookup) raw(address string, network entity.NetworkID) *big.Int {
	value, ok := s.store.Get(strings.ToLower(address), network)
	if !ok || value == nil {
		metrics.BalanceLookups.WithLabelValues(metrics.LookupStoreMiss).Inc()
		return new(big.Int)
	}
	metrics.BalanceLookups.WithLabelValues(metrics.LookupResolved).Inc()
	return new(big.Int).Set(value)
}

// GetFullBalance returns the raw integer-unit balance of token on networkID,
// or zero when the address cannot be resolved or the store has no entry.
func (s *BalanceLookup) GetFullBalance(nc port.NetworkContext, token *entity.Token, networkID entity.NetworkID) *big.Int {
	effective, address, ok := s.resolve(nc, token, networkID)
	if !ok {
		metrics.BalanceLookups.WithLabelValues(metrics.LookupUnresolved).Inc()
		return new(big.Int)
	}
	return s.raw(address, effective)
}

// GetBalance returns the human-scale balance of token on networkID.
// Unresolvable addresses and missing store entries yield exact zero; only an
// invalid decimal precision on the token is reported as an error.
func (s *BalanceLookup) GetBalance(nc port.NetworkContext, token *entity.Token, networkID entity.NetworkID) (decimal.Decimal, error) {
	if token == nil {
		return decimal.Zero, nil
	}
	decimals, err := token.Precision()
	if err != nil {
		metrics.BalanceLookups.WithLabelValues(metrics.LookupConfigError).Inc()
		s.logger.Error("Token has invalid decimals", "token", token.ID, "error", err)
		return decimal.Zero, err
	}

	raw := s.GetFullBalance(nc, token, networkID)
	if raw.Sign() == 0 {
		return decimal.Zero, nil
	}
	return utils.RawToHuman(raw, decimals)
}

// GetFormattedBalance returns the balance with a fixed number of fractional digits.
func (s *BalanceLookup) GetFormattedBalance(nc port.NetworkContext, token *entity.Token, networkID entity.NetworkID, places int32) (string, error) {
	balance, err := s.GetBalance(nc, token, networkID)
	if err != nil {
		return "", err
	}
	return utils.FormatAmount(balance, places), nil
}

// GetUSDBalance values the balance at the token's current price, rounded to cents.
func (s *BalanceLookup) GetUSDBalance(nc port.NetworkContext, token *entity.Token, networkID entity.NetworkID) (decimal.Decimal, error) {
	balance, err := s.GetBalance(nc, token, networkID)
	if err != nil {
		return decimal.Zero, err
	}
	return ToUSD(balance, token.USD()), nil
}

// GetAggregateUSDBalance values the balance rounded to whole dollars.
func (s *BalanceLookup) GetAggregateUSDBalance(nc port.NetworkContext, token *entity.Token, networkID entity.NetworkID) (decimal.Decimal, error) {
	balance, err := s.GetBalance(nc, token, networkID)
	if err != nil {
		return decimal.Zero, err
	}
	return ToAggregateUSD(balance, token.USD()), nil
}

// ConvertBalanceToAmount converts a user-entered amount of token into raw units,
// truncating anything below one unit.
func (s *BalanceLookup) ConvertBalanceToAmount(token *entity.Token, amount decimal.Decimal) (*big.Int, error) {
	decimals, err := token.Precision()
	if err != nil {
		return nil, err
	}
	return utils.HumanToRaw(amount, decimals)
}

// GetContract resolves the token address and asks the fetcher for a contract
// object. It returns nil without error when the address cannot be resolved.
func (s *BalanceLookup) GetContract(ctx context.Context, nc port.NetworkContext, token *entity.Token, networkID entity.NetworkID) (port.Contract, error) {
	effective, address, ok := s.resolve(nc, token, networkID)
	if !ok {
		return nil, nil
	}
	if s.fetcher == nil {
		return nil, ErrNoContractFetcher
	}

	network := entity.Network{ID: effective}
	if s.networks != nil {
		if def, found := s.networks.GetNetworkDefinition(effective); found {
			network = def
		}
	}

	contract, err := s.fetcher.Fetch(ctx, address, network)
	if err != nil {
		return nil, fmt.Errorf("fetch contract of %s on %s: %w", token.ID, effective, err)
	}
	return contract, nil
}

// Quote collects the address, balances and valuation of token on networkID.
func (s *BalanceLookup) Quote(nc port.NetworkContext, token *entity.Token, networkID entity.NetworkID) (entity.BalanceQuote, error) {
	decimals, err := token.Precision()
	if err != nil {
		metrics.BalanceLookups.WithLabelValues(metrics.LookupConfigError).Inc()
		return entity.BalanceQuote{}, err
	}

	quote := entity.BalanceQuote{
		TokenID:  token.ID,
		Decimals: decimals,
		Raw:      new(big.Int),
		Balance:  decimal.Zero,
	}

	effective, address, ok := s.resolve(nc, token, networkID)
	quote.NetworkID = effective
	if ok {
		quote.Address = address
		quote.ChecksumAddress, _ = Checksum(address)
		quote.Raw = s.raw(address, effective)
	} else {
		metrics.BalanceLookups.WithLabelValues(metrics.LookupUnresolved).Inc()
	}

	quote.Balance, err = utils.RawToHuman(quote.Raw, decimals)
	if err != nil {
		return entity.BalanceQuote{}, err
	}

	price := token.USD()
	if price.Valid {
		quote.PriceUSD = price.Decimal
	}
	quote.RawBalance = quote.Raw.String()
	quote.FormattedBalance = utils.FormatAmount(quote.Balance, FormattedBalancePlaces)
	quote.ValueUSD = ToUSD(quote.Balance, price)
	quote.AggregateUSD = ToAggregateUSD(quote.Balance, price)
	return quote, nil
}
