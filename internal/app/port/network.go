package port

import (
	"context"

	"token_balance/internal/domain/entity"
)

// NetworkContext exposes the currently selected network, if any.
type NetworkContext interface {
	// SelectedNetwork returns the selected network and false when nothing is selected.
	SelectedNetwork() (entity.Network, bool)
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all configured networks.
	GetAllNetworkDefinitions() []entity.Network

	// GetNetworkDefinition returns the network with the given id.
	GetNetworkDefinition(id entity.NetworkID) (entity.Network, bool)
}

// Contract is a live contract object for a token on one network.
type Contract interface {
	Address() string
	Network() entity.Network
}

// ContractFetcher produces contract objects for a token address on a network.
type ContractFetcher interface {
	Fetch(ctx context.Context, address string, network entity.Network) (Contract, error)
}
