// Package erc20 builds low-level ERC20 call data.
package erc20

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
)

const (
	// BalanceOfSelector is the method id of balanceOf(address).
	BalanceOfSelector = "0x70a08231"
	// TransferSelector is the method id of transfer(address,uint256).
	TransferSelector = "0xa9059cbb"
)

// ABI is the minimal ERC20 ABI covering the calls built here.
const ABI = `[
{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"}
]`

var (
	balanceOfID = hexutil.MustDecode(BalanceOfSelector)
	transferID  = hexutil.MustDecode(TransferSelector)
)

func parseAddress(addr string) (common.Address, error) {
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("invalid address %q", addr)
	}
	return common.HexToAddress(strings.TrimSpace(addr)), nil
}

// BalanceOfCallData returns the call data of balanceOf(owner).
func BalanceOfCallData(owner string) ([]byte, error) {
	addr, err := parseAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("balanceOf owner: %w", err)
	}
	data := make([]byte, 0, 4+32)
	data = append(data, balanceOfID...)
	data = append(data, common.LeftPadBytes(addr.Bytes(), 32)...)
	return data, nil
}

// TransferCallData returns the call data of transfer(to, amount) where amount
// is in raw token units.
func TransferCallData(to string, amount *big.Int) ([]byte, error) {
	addr, err := parseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("transfer recipient: %w", err)
	}
	if amount == nil || amount.Sign() < 0 {
		return nil, fmt.Errorf("transfer amount must be a non-negative integer")
	}
	if amount.Cmp(math.MaxBig256) > 0 {
		return nil, fmt.Errorf("transfer amount %s overflows uint256", amount)
	}
	data := make([]byte, 0, 4+64)
	data = append(data, transferID...)
	data = append(data, common.LeftPadBytes(addr.Bytes(), 32)...)
	data = append(data, math.U256Bytes(new(big.Int).Set(amount))...)
	return data, nil
}
