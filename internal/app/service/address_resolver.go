package service

import (
	"token_balance/internal/app/port"
	"token_balance/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// AddressResolver selects the contract address of a token for a network.
type AddressResolver struct {
	logger port.Logger
}

// NewAddressResolver creates a new AddressResolver.
func NewAddressResolver(logger port.Logger) *AddressResolver {
	return &AddressResolver{logger: logger}
}

// ResolveAddress returns the stored address of token on networkID. An empty
// networkID falls back to the network selected in nc. The effective network id
// is returned with the address; ok is false when there is no selection or the
// token has no entry for the network. The stored string is returned as is.
func (r *AddressResolver) ResolveAddress(nc port.NetworkContext, token *entity.Token, networkID entity.NetworkID) (entity.NetworkID, string, bool) {
	if token == nil {
		return "", "", false
	}

	effective := networkID
	if effective == "" {
		if nc == nil {
			return "", "", false
		}
		selected, ok := nc.SelectedNetwork()
		if !ok || selected.ID == "" {
			r.logger.Debug("No network selected, token address unresolved", "token", token.ID)
			return "", "", false
		}
		effective = selected.ID
	}

	address, ok := token.Addresses.Lookup(effective)
	if !ok {
		r.logger.Debug("Token not deployed on network", "token", token.ID, "network", effective)
		return effective, "", false
	}
	return effective, address, true
}

// ChecksumAddress resolves the token address and returns its EIP-55 form.
func (r *AddressResolver) ChecksumAddress(nc port.NetworkContext, token *entity.Token, networkID entity.NetworkID) (string, bool) {
	_, address, ok := r.ResolveAddress(nc, token, networkID)
	if !ok {
		return "", false
	}
	return Checksum(address)
}

// Checksum returns the EIP-55 mixed-case form of a hex address.
// Empty or malformed input yields false.
func Checksum(address string) (string, bool) {
	if address == "" || !common.IsHexAddress(address) {
		return "", false
	}
	return common.HexToAddress(address).Hex(), true
}
