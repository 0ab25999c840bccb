package networkdefinition

import (
	"fmt"
	"strconv"
	"strings"

	"token_balance/internal/app/port"
	"token_balance/internal/domain/entity"
	"token_balance/internal/infrastructure/configloader"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	activeNetworks []entity.Network
	byID           map[entity.NetworkID]entity.Network
}

var _ port.NetworkDefinitionProvider = (*NetworkDefinitionProvider)(nil)

// Predefined network definitions, keyed by their decimal chain id.
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.Network{ID: "1", Name: "Ethereum Mainnet", ChainID: 1, RPCURL: "https://ethereum-rpc.publicnode.com"}
	Optimism = entity.Network{ID: "10", Name: "OP Mainnet", ChainID: 10, RPCURL: "https://optimism.publicnode.com"}
	BSC      = entity.Network{ID: "56", Name: "BNB Smart Chain", ChainID: 56, RPCURL: "https://bsc.publicnode.com"}
	Gnosis   = entity.Network{ID: "100", Name: "Gnosis Chain", ChainID: 100, RPCURL: "https://gnosis.publicnode.com"}
	Polygon  = entity.Network{ID: "137", Name: "Polygon PoS", ChainID: 137, RPCURL: "https://polygon-rpc.com/"}
	Base     = entity.Network{ID: "8453", Name: "Base", ChainID: 8453, RPCURL: "https://base.publicnode.com"}
	Arbitrum = entity.Network{ID: "42161", Name: "Arbitrum One", ChainID: 42161, RPCURL: "https://arbitrum-one.publicnode.com"}
)

// knownOrder lists the predefined networks in chain id order.
var knownOrder = []entity.Network{Ethereum, Optimism, BSC, Gnosis, Polygon, Base, Arbitrum}

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[entity.NetworkID]entity.Network{
	Ethereum.ID: Ethereum,
	Optimism.ID: Optimism,
	BSC.ID:      BSC,
	Gnosis.ID:   Gnosis,
	Polygon.ID:  Polygon,
	Base.ID:     Base,
	Arbitrum.ID: Arbitrum,
}

// NewNetworkDefinitionProvider creates a provider for the configured networks.
// Fields left empty in the configuration are filled from the matching
// predefined network. With no configured networks every predefined network is active.
func NewNetworkDefinitionProvider(log port.Logger, configured []configloader.NetworkConfig) (*NetworkDefinitionProvider, error) {
	p := &NetworkDefinitionProvider{
		logger: log,
		byID:   make(map[entity.NetworkID]entity.Network),
	}

	if len(configured) == 0 {
		for _, def := range knownOrder {
			p.add(def)
		}
		p.logger.Info("No networks configured, using predefined networks", "count", len(p.activeNetworks))
		return p, nil
	}

	for i, nc := range configured {
		id, err := entity.ParseNetworkID(nc.ID)
		if err != nil {
			return nil, fmt.Errorf("networks[%d]: %w", i, err)
		}
		def := entity.Network{ID: id, Name: nc.Name, ChainID: nc.ChainID, RPCURL: nc.RPCURL}

		known, ok := allKnownDefinitions[id]
		if !ok && def.ChainID != 0 {
			known, ok = allKnownDefinitions[entity.NetworkID(strconv.FormatUint(def.ChainID, 10))]
		}
		if ok {
			if def.Name == "" {
				def.Name = known.Name
			}
			if def.ChainID == 0 {
				def.ChainID = known.ChainID
			}
			if def.RPCURL == "" {
				def.RPCURL = known.RPCURL
			}
		}
		if def.Name == "" {
			def.Name = strings.ToUpper(string(id))
		}
		p.add(def)
		p.logger.Debug("Network activated", "id", def.ID, "name", def.Name, "chain_id", def.ChainID)
	}

	p.logger.Info("NetworkDefinitionProvider initialized", "active_networks", len(p.activeNetworks))
	return p, nil
}

func (p *NetworkDefinitionProvider) add(def entity.Network) {
	if _, exists := p.byID[def.ID]; exists {
		return
	}
	p.byID[def.ID] = def
	p.activeNetworks = append(p.activeNetworks, def)
}

// GetAllNetworkDefinitions returns the list of active network definitions.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.Network {
	if p == nil {
		return []entity.Network{}
	}
	defsCopy := make([]entity.Network, len(p.activeNetworks))
	copy(defsCopy, p.activeNetworks)
	return defsCopy
}

// GetNetworkDefinition returns an active network definition by id.
func (p *NetworkDefinitionProvider) GetNetworkDefinition(id entity.NetworkID) (entity.Network, bool) {
	if p == nil {
		return entity.Network{}, false
	}
	def, ok := p.byID[id]
	return def, ok
}

// GetNetworkDefinitionByChainID returns an active network definition by chain id.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.Network, bool) {
	if p == nil {
		return entity.Network{}, false
	}
	for _, def := range p.activeNetworks {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.Network{}, false
}
