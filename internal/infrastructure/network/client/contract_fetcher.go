package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"token_balance/internal/app/port"
	"token_balance/internal/domain/entity"
	"token_balance/internal/pkg/erc20"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20.ABI))
		if err != nil {
			// The ABI is a compile-time constant.
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
	})
}

// ERC20Contract is a bound ERC20 contract on one network.
type ERC20Contract struct {
	address common.Address
	network entity.Network
	bound   *bind.BoundContract
}

var _ port.Contract = (*ERC20Contract)(nil)

// Address returns the checksummed contract address.
func (c *ERC20Contract) Address() string {
	return c.address.Hex()
}

// Network returns the network the contract is bound on.
func (c *ERC20Contract) Network() entity.Network {
	return c.network
}

// Bound returns the go-ethereum bound contract for calls and transactions.
func (c *ERC20Contract) Bound() *bind.BoundContract {
	return c.bound
}

// PackTransfer packs transfer(to, amount) with amount in raw units.
func (c *ERC20Contract) PackTransfer(to string, amount *big.Int) ([]byte, error) {
	return erc20.TransferCallData(to, amount)
}

// evmContractFetcher implements port.ContractFetcher on top of ethclient.
// It keeps one client per network and one contract object per address.
type evmContractFetcher struct {
	mu                sync.Mutex
	clients           map[entity.NetworkID]*ethclient.Client
	contracts         map[string]*ERC20Contract
	connectionTimeout time.Duration
	logger            *zap.Logger
}

// NewEVMContractFetcher creates a new contract fetcher.
func NewEVMContractFetcher(connectionTimeout time.Duration, logger *zap.Logger) port.ContractFetcher {
	initParsedERC20ABI()
	return &evmContractFetcher{
		clients:           make(map[entity.NetworkID]*ethclient.Client),
		contracts:         make(map[string]*ERC20Contract),
		connectionTimeout: connectionTimeout,
		logger:            logger.Named("ContractFetcher"),
	}
}

// Fetch returns the ERC20 contract object for address on network.
func (f *evmContractFetcher) Fetch(ctx context.Context, address string, network entity.Network) (port.Contract, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid contract address %q", address)
	}
	contractAddr := common.HexToAddress(address)
	key := string(network.ID) + "/" + strings.ToLower(contractAddr.Hex())

	f.mu.Lock()
	defer f.mu.Unlock()

	if contract, ok := f.contracts[key]; ok {
		return contract, nil
	}

	client, err := f.client(ctx, network)
	if err != nil {
		return nil, err
	}

	contract := &ERC20Contract{
		address: contractAddr,
		network: network,
		bound:   bind.NewBoundContract(contractAddr, parsedERC20ABI, client, client, client),
	}
	f.contracts[key] = contract
	f.logger.Debug("Bound ERC20 contract",
		zap.String("network", string(network.ID)),
		zap.String("address", contract.Address()))
	return contract, nil
}

// client returns the cached client of network, dialing it on first use. Callers hold f.mu.
func (f *evmContractFetcher) client(ctx context.Context, network entity.Network) (*ethclient.Client, error) {
	if c, ok := f.clients[network.ID]; ok {
		return c, nil
	}
	if network.RPCURL == "" {
		return nil, fmt.Errorf("network %s has no RPC URL", network.ID)
	}

	dialCtx, cancel := context.WithTimeout(ctx, f.connectionTimeout)
	defer cancel()

	f.logger.Info("Creating new EVM client", zap.String("network", string(network.ID)), zap.String("rpc", network.RPCURL))
	c, err := ethclient.DialContext(dialCtx, network.RPCURL)
	if err != nil {
		f.logger.Error("Failed to create EVM client", zap.String("network", string(network.ID)), zap.Error(err))
		return nil, fmt.Errorf("failed to connect to RPC %s for network %s: %w", network.RPCURL, network.ID, err)
	}
	f.clients[network.ID] = c
	return c, nil
}
