package networkdefinition

import (
	"token_balance/internal/app/port"
	"token_balance/internal/domain/entity"
)

// StaticContext is a NetworkContext with a fixed selection.
type StaticContext struct {
	network  entity.Network
	selected bool
}

var _ port.NetworkContext = StaticContext{}

// NoSelection returns a context without a selected network.
func NoSelection() StaticContext {
	return StaticContext{}
}

// Select returns a context with network selected.
func Select(network entity.Network) StaticContext {
	return StaticContext{network: network, selected: network.ID != ""}
}

// SelectedNetwork implements port.NetworkContext.
func (c StaticContext) SelectedNetwork() (entity.Network, bool) {
	return c.network, c.selected
}

// SelectByID returns a context selecting the network with the given id.
// Unknown or empty ids give a context without selection.
func (p *NetworkDefinitionProvider) SelectByID(id entity.NetworkID) StaticContext {
	if id == "" {
		return NoSelection()
	}
	def, ok := p.GetNetworkDefinition(id)
	if !ok {
		p.logger.Warn("Selected network is not active, no network selected", "network", id)
		return NoSelection()
	}
	return Select(def)
}
