package restapi

import (
	"errors"
	"math/big"
	"net/http"
	"strings"

	"token_balance/internal/app/port"
	"token_balance/internal/app/service"
	"token_balance/internal/domain/entity"
	"token_balance/internal/pkg/erc20"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BalanceWriter accepts raw balances pushed by the balance feeder.
type BalanceWriter interface {
	Set(address string, network entity.NetworkID, raw *big.Int) error
}

type errorResponse struct {
	Error string `json:"error"`
}

// TokenResponse is the API form of a catalog token.
type TokenResponse struct {
	ID        string                      `json:"id"`
	Type      string                      `json:"type"`
	Decimals  *int                        `json:"decimals"`
	Icon      string                      `json:"icon,omitempty"`
	USD       decimal.NullDecimal         `json:"usd"`
	Addresses map[entity.NetworkID]string `json:"addresses"`
}

// TransferCallDataResponse holds an unsigned ERC20 transfer call.
type TransferCallDataResponse struct {
	TokenID   string           `json:"tokenId"`
	NetworkID entity.NetworkID `json:"networkId"`
	To        string           `json:"to"`
	Recipient string           `json:"recipient"`
	RawAmount string           `json:"rawAmount"`
	Data      string           `json:"data"`
}

// ContractResponse describes a resolved token contract.
type ContractResponse struct {
	TokenID string         `json:"tokenId"`
	Address string         `json:"address"`
	Network entity.Network `json:"network"`
}

type priceRequest struct {
	USD decimal.NullDecimal `json:"usd"`
}

type balanceRequest struct {
	Raw string `json:"raw"`
}

// TokenHandler serves token, balance and price requests.
type TokenHandler struct {
	tokens    port.TokenProvider
	lookup    *service.BalanceLookup
	balances  BalanceWriter
	networks  port.NetworkDefinitionProvider
	selection port.NetworkContext
	logger    port.Logger
}

// NewTokenHandler creates a new TokenHandler. selection is the network used
// when a request names none.
func NewTokenHandler(
	tokens port.TokenProvider,
	lookup *service.BalanceLookup,
	balances BalanceWriter,
	networks port.NetworkDefinitionProvider,
	selection port.NetworkContext,
	logger port.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokens:    tokens,
		lookup:    lookup,
		balances:  balances,
		networks:  networks,
		selection: selection,
		logger:    logger,
	}
}

// ListNetworksHandler returns the active networks.
func (h *TokenHandler) ListNetworksHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"networks": h.networks.GetAllNetworkDefinitions()})
}

// ListTokensHandler returns the token catalog.
func (h *TokenHandler) ListTokensHandler(c *gin.Context) {
	tokens, err := h.tokens.GetTokens(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get tokens", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "token catalog unavailable"})
		return
	}

	out := make([]TokenResponse, 0, len(tokens))
	for _, t := range tokens {
		addresses := make(map[entity.NetworkID]string, t.Addresses.Len())
		for _, id := range t.Addresses.Networks() {
			addresses[id], _ = t.Addresses.Lookup(id)
		}
		out = append(out, TokenResponse{
			ID:        t.ID,
			Type:      t.Type,
			Decimals:  t.Decimals,
			Icon:      t.IconURL(),
			USD:       t.USD(),
			Addresses: addresses,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tokens": out})
}

// GetBalanceHandler returns the balance quote of a token on the requested
// network, or on the selected network when ?network= is absent.
func (h *TokenHandler) GetBalanceHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	networkID, ok := networkQuery(c)
	if !ok {
		return
	}

	quote, err := h.lookup.Quote(h.selection, token, networkID)
	if err != nil {
		h.configurationError(c, token, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetContractHandler returns the contract object of a token on a network.
func (h *TokenHandler) GetContractHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	networkID, ok := networkQuery(c)
	if !ok {
		return
	}

	contract, err := h.lookup.GetContract(c.Request.Context(), h.selection, token, networkID)
	if err != nil {
		h.logger.Error("Failed to fetch contract", "token", token.ID, "error", err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	if contract == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "token has no address on this network"})
		return
	}
	c.JSON(http.StatusOK, ContractResponse{
		TokenID: token.ID,
		Address: contract.Address(),
		Network: contract.Network(),
	})
}

// TransferCallDataHandler builds transfer call data for ?to= and a human ?amount=.
func (h *TokenHandler) TransferCallDataHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}
	networkID, ok := networkQuery(c)
	if !ok {
		return
	}

	recipient, ok := service.Checksum(c.Query("to"))
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid recipient address"})
		return
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || amount.IsNegative() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "amount must be a non-negative decimal"})
		return
	}

	resolver := h.lookup.Resolver()
	effective, _, _ := resolver.ResolveAddress(h.selection, token, networkID)
	contractAddress, ok := resolver.ChecksumAddress(h.selection, token, networkID)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "token has no valid address on this network"})
		return
	}

	raw, err := h.lookup.ConvertBalanceToAmount(token, amount)
	if err != nil {
		h.configurationError(c, token, err)
		return
	}
	data, err := erc20.TransferCallData(recipient, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, TransferCallDataResponse{
		TokenID:   token.ID,
		NetworkID: effective,
		To:        contractAddress,
		Recipient: recipient,
		RawAmount: raw.String(),
		Data:      hexutil.Encode(data),
	})
}

// UpdatePriceHandler replaces the USD unit price of a token. A null price clears it.
func (h *TokenHandler) UpdatePriceHandler(c *gin.Context) {
	token, ok := h.token(c)
	if !ok {
		return
	}

	var req priceRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid price body"})
		return
	}
	if req.USD.Valid && req.USD.Decimal.IsNegative() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "price must not be negative"})
		return
	}

	if err := h.tokens.UpdatePrice(c.Request.Context(), token.ID, req.USD); err != nil {
		h.logger.Error("Failed to update price", "token", token.ID, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// PutBalanceHandler stores the raw balance of an address on a network.
func (h *TokenHandler) PutBalanceHandler(c *gin.Context) {
	networkID, err := entity.ParseNetworkID(c.Param("network"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	address := strings.TrimSpace(c.Param("address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "address is required"})
		return
	}

	var req balanceRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid balance body"})
		return
	}
	raw, ok := new(big.Int).SetString(req.Raw, 10)
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "raw must be a base-10 integer"})
		return
	}
	if err := h.balances.Set(address, networkID, raw); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// token loads the token named by the :id parameter, writing the error response itself.
func (h *TokenHandler) token(c *gin.Context) (*entity.Token, bool) {
	id := c.Param("id")
	token, found, err := h.tokens.GetToken(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get token", "token", id, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "token catalog unavailable"})
		return nil, false
	}
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Error: "token not found"})
		return nil, false
	}
	return token, true
}

func (h *TokenHandler) configurationError(c *gin.Context, token *entity.Token, err error) {
	if errors.Is(err, entity.ErrConfiguration) {
		h.logger.Warn("Token is misconfigured", "token", token.ID, "error", err)
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	h.logger.Error("Token request failed", "token", token.ID, "error", err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// networkQuery parses ?network=. An absent value means the selected network.
func networkQuery(c *gin.Context) (entity.NetworkID, bool) {
	raw := c.Query("network")
	if raw == "" {
		return "", true
	}
	id, err := entity.ParseNetworkID(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return "", false
	}
	return id, true
}
