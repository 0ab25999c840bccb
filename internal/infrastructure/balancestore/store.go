package balancestore

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"token_balance/internal/app/port"
	"token_balance/internal/domain/entity"
	"token_balance/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store is an in-memory snapshot of raw token balances. Entries never expire;
// the feeder that owns the data overwrites them.
type Store struct {
	cache  *cache.Cache
	logger port.Logger
}

var _ port.BalanceStore = (*Store)(nil)

// New creates an empty Store.
func New(logger port.Logger) *Store {
	return &Store{
		cache:  cache.New(cache.NoExpiration, 0),
		logger: logger,
	}
}

func key(addressLower string, network entity.NetworkID) string {
	return string(network) + "/" + addressLower
}

// Get implements port.BalanceStore. The address must already be lower-cased.
func (s *Store) Get(addressLower string, network entity.NetworkID) (*big.Int, bool) {
	v, ok := s.cache.Get(key(addressLower, network))
	if !ok {
		return nil, false
	}
	raw, ok := v.(*big.Int)
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(raw), true
}

// Set stores the raw balance of a token address on a network.
func (s *Store) Set(address string, network entity.NetworkID, raw *big.Int) error {
	if raw == nil || raw.Sign() < 0 {
		return fmt.Errorf("raw balance must be a non-negative integer")
	}
	s.cache.Set(key(strings.ToLower(address), network), new(big.Int).Set(raw), cache.NoExpiration)
	metrics.StoredBalances.Set(float64(s.cache.ItemCount()))
	return nil
}

// Delete removes the balance of a token address on a network.
func (s *Store) Delete(address string, network entity.NetworkID) {
	s.cache.Delete(key(strings.ToLower(address), network))
	metrics.StoredBalances.Set(float64(s.cache.ItemCount()))
}

// Len returns the number of stored balances.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// seedEntry is one raw balance in a seed file.
type seedEntry struct {
	Network string `json:"network"`
	Address string `json:"address"`
	Raw     string `json:"raw"`
}

// LoadSeed fills the store from a JSON file holding a list of
// {"network", "address", "raw"} objects. Raw values are base-10 integers.
func (s *Store) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read balance seed %s: %w", path, err)
	}

	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to unmarshal balance seed %s: %w", path, err)
	}

	for i, e := range entries {
		network, err := entity.ParseNetworkID(e.Network)
		if err != nil {
			return fmt.Errorf("balance seed entry %d: %w", i, err)
		}
		raw, ok := new(big.Int).SetString(e.Raw, 10)
		if !ok {
			return fmt.Errorf("balance seed entry %d: raw balance %q is not an integer", i, e.Raw)
		}
		if err := s.Set(e.Address, network, raw); err != nil {
			return fmt.Errorf("balance seed entry %d: %w", i, err)
		}
	}
	s.logger.Info("Balance seed loaded", "path", path, "count", len(entries))
	return nil
}
