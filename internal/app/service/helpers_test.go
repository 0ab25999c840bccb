package service

import (
	"context"
	"math/big"

	"token_balance/internal/app/port"
	"token_balance/internal/domain/entity"

	"github.com/shopspring/decimal"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type storeKey struct {
	address string
	network entity.NetworkID
}

type mapStore map[storeKey]*big.Int

func (m mapStore) Get(addressLower string, network entity.NetworkID) (*big.Int, bool) {
	v, ok := m[storeKey{addressLower, network}]
	return v, ok
}

type selection struct {
	network *entity.Network
}

func (s selection) SelectedNetwork() (entity.Network, bool) {
	if s.network == nil {
		return entity.Network{}, false
	}
	return *s.network, true
}

func selected(id entity.NetworkID) port.NetworkContext {
	return selection{network: &entity.Network{ID: id}}
}

type fakeContract struct {
	address string
	network entity.Network
}

func (c fakeContract) Address() string         { return c.address }
func (c fakeContract) Network() entity.Network { return c.network }

type fakeFetcher struct {
	calls int
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, address string, network entity.Network) (port.Contract, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return fakeContract{address: address, network: network}, nil
}

type fakeNetworks map[entity.NetworkID]entity.Network

func (f fakeNetworks) GetAllNetworkDefinitions() []entity.Network {
	out := make([]entity.Network, 0, len(f))
	for _, n := range f {
		out = append(out, n)
	}
	return out
}

func (f fakeNetworks) GetNetworkDefinition(id entity.NetworkID) (entity.Network, bool) {
	n, ok := f[id]
	return n, ok
}

const (
	daiMainnet = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	daiPolygon = "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063"
)

func intPtr(v int) *int { return &v }

func newDAI(price string) *entity.Token {
	usd := decimal.NullDecimal{}
	if price != "" {
		usd = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	return entity.NewToken("dai", map[entity.NetworkID]string{
		"1":   daiMainnet,
		"137": daiPolygon,
	}, intPtr(18), usd)
}

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad big int " + s)
	}
	return v
}
