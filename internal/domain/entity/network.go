package entity

import (
	"fmt"
	"strings"
)

// NetworkID identifies the ledger an address and balance apply to.
type NetworkID string

// ParseNetworkID validates a raw network identifier.
func ParseNetworkID(raw string) (NetworkID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("network id is empty: %w", ErrConfiguration)
	}
	if strings.ContainsAny(id, " \t\n/") {
		return "", fmt.Errorf("network id %q contains invalid characters: %w", raw, ErrConfiguration)
	}
	return NetworkID(id), nil
}

// String implements fmt.Stringer.
func (id NetworkID) String() string {
	return string(id)
}

// Network holds the configuration for a specific blockchain network.
type Network struct {
	ID      NetworkID `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	ChainID uint64    `json:"chainId" yaml:"chainId"`
	RPCURL  string    `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty"`
}
