package restapi

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"token_balance/internal/app/port"
	"token_balance/internal/app/provider"
	"token_balance/internal/app/service"
	"token_balance/internal/domain/entity"
	"token_balance/internal/infrastructure/balancestore"
	"token_balance/internal/infrastructure/configloader"
	networkdefinition "token_balance/internal/infrastructure/network/definition"
	"token_balance/internal/infrastructure/tokenloader"
	"token_balance/internal/pkg/erc20"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

const (
	daiMainnet = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	daiPolygon = "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063"
	recipient  = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
)

const catalog = `[
  {"id": "dai", "addresses": {"1": "0x6B175474E89094C44Da98b954EedeAC495271d0F", "137": "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063"}, "decimals": 18, "usd": "2", "icon": "dai.svg"},
  {"id": "usdc", "addresses": {"1": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "10": ""}, "decimals": 6}
]`

type staticCatalog struct{}

func (staticCatalog) LoadTokens(context.Context) ([]*entity.Token, error) {
	return tokenloader.Decode([]byte(catalog))
}

type fakeContract struct {
	address string
	network entity.Network
}

func (c fakeContract) Address() string         { return c.address }
func (c fakeContract) Network() entity.Network { return c.network }

type fakeFetcher struct{ err error }

func (f fakeFetcher) Fetch(_ context.Context, address string, network entity.Network) (port.Contract, error) {
	if f.err != nil {
		return nil, f.err
	}
	return fakeContract{address: address, network: network}, nil
}

type fixture struct {
	router *gin.Engine
	store  *balancestore.Store
	tokens port.TokenProvider
}

func newFixture(t *testing.T, fetcher port.ContractFetcher, limit float64) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	networks, err := networkdefinition.NewNetworkDefinitionProvider(nopLogger{}, []configloader.NetworkConfig{
		{ID: "1"}, {ID: "10"}, {ID: "137"},
	})
	require.NoError(t, err)

	store := balancestore.New(nopLogger{})
	tokens := provider.NewTokenProvider(staticCatalog{}, nopLogger{})
	lookup := service.NewBalanceLookup(store, networks, fetcher, nopLogger{})
	h := NewTokenHandler(tokens, lookup, store, networks, networks.SelectByID("1"), nopLogger{})

	router := SetupRouter(h, configloader.ServerConfig{RateLimitPerSecond: limit, RateLimitBurst: 1}, nil)
	return fixture{router: router, store: store, tokens: tokens}
}

func (f fixture) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestListTokens(t *testing.T) {
	f := newFixture(t, nil, 0)

	w := f.do(http.MethodGet, "/api/v1/tokens", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tokens []TokenResponse `json:"tokens"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Tokens, 2)
	assert.Equal(t, "dai", resp.Tokens[0].ID)
	assert.Equal(t, "/token-icons/dai.svg", resp.Tokens[0].Icon)
	assert.Equal(t, daiPolygon, resp.Tokens[0].Addresses["137"])
	assert.Equal(t, entity.TokenTypeERC20, resp.Tokens[1].Type)
	assert.False(t, resp.Tokens[1].USD.Valid)
}

func TestListNetworks(t *testing.T) {
	f := newFixture(t, nil, 0)

	w := f.do(http.MethodGet, "/api/v1/networks", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Networks []entity.Network `json:"networks"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Networks, 3)
	assert.Equal(t, "Ethereum Mainnet", resp.Networks[0].Name)
}

func TestGetBalance(t *testing.T) {
	f := newFixture(t, nil, 0)
	raw, _ := new(big.Int).SetString("12345000000000000000", 10)
	require.NoError(t, f.store.Set(daiMainnet, "1", raw))

	t.Run("selected network", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/tokens/dai/balance", "")
		require.Equal(t, http.StatusOK, w.Code)

		var quote entity.BalanceQuote
		decode(t, w, &quote)
		assert.Equal(t, entity.NetworkID("1"), quote.NetworkID)
		assert.Equal(t, daiMainnet, quote.ChecksumAddress)
		assert.Equal(t, "12345000000000000000", quote.RawBalance)
		assert.Equal(t, "12.345", quote.FormattedBalance)
		assert.Equal(t, "24.69", quote.ValueUSD.String())
		assert.Equal(t, "25", quote.AggregateUSD.String())
	})

	t.Run("explicit network without entry", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/tokens/dai/balance?network=137", "")
		require.Equal(t, http.StatusOK, w.Code)

		var quote entity.BalanceQuote
		decode(t, w, &quote)
		assert.Equal(t, entity.NetworkID("137"), quote.NetworkID)
		assert.Equal(t, "0", quote.RawBalance)
		assert.True(t, quote.Balance.IsZero())
	})

	t.Run("unknown token", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/tokens/nope/balance", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad network", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/tokens/dai/balance?network=a%20b", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPutBalanceThenRead(t *testing.T) {
	f := newFixture(t, nil, 0)

	w := f.do(http.MethodPut, "/api/v1/balances/137/"+daiPolygon, `{"raw": "1500000000000000000"}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	raw, ok := f.store.Get(strings.ToLower(daiPolygon), "137")
	require.True(t, ok)
	assert.Equal(t, "1500000000000000000", raw.String())

	w = f.do(http.MethodGet, "/api/v1/tokens/dai/balance?network=137", "")
	require.Equal(t, http.StatusOK, w.Code)
	var quote entity.BalanceQuote
	decode(t, w, &quote)
	assert.Equal(t, "1.500", quote.FormattedBalance)

	for _, body := range []string{`{"raw": "-1"}`, `{"raw": "1.5"}`, `not json`} {
		w = f.do(http.MethodPut, "/api/v1/balances/137/"+daiPolygon, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestUpdatePrice(t *testing.T) {
	f := newFixture(t, nil, 0)

	w := f.do(http.MethodPut, "/api/v1/tokens/usdc/price", `{"usd": "0.9998"}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	token, ok, err := f.tokens.GetToken(context.Background(), "usdc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, token.USD().Valid)
	assert.Equal(t, "0.9998", token.USD().Decimal.String())

	w = f.do(http.MethodPut, "/api/v1/tokens/usdc/price", `{"usd": null}`)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, token.USD().Valid)

	w = f.do(http.MethodPut, "/api/v1/tokens/usdc/price", `{"usd": "-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPut, "/api/v1/tokens/nope/price", `{"usd": "1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransferCallData(t *testing.T) {
	f := newFixture(t, nil, 0)

	w := f.do(http.MethodGet, "/api/v1/tokens/usdc/calldata/transfer?to="+strings.ToLower(recipient)+"&amount=1.2345678", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp TransferCallDataResponse
	decode(t, w, &resp)
	assert.Equal(t, entity.NetworkID("1"), resp.NetworkID)
	assert.Equal(t, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", resp.To)
	assert.Equal(t, recipient, resp.Recipient)
	assert.Equal(t, "1234567", resp.RawAmount)
	assert.True(t, strings.HasPrefix(resp.Data, erc20.TransferSelector))
	assert.Len(t, resp.Data, 2+2*(4+32+32))

	cases := map[string]int{
		"/api/v1/tokens/usdc/calldata/transfer?to=0x12&amount=1":                         http.StatusBadRequest,
		"/api/v1/tokens/usdc/calldata/transfer?to=" + recipient + "&amount=-1":           http.StatusBadRequest,
		"/api/v1/tokens/usdc/calldata/transfer?to=" + recipient + "&amount=x":            http.StatusBadRequest,
		"/api/v1/tokens/usdc/calldata/transfer?to=" + recipient + "&amount=1&network=10": http.StatusNotFound,
		"/api/v1/tokens/dai/calldata/transfer?to=" + recipient + "&amount=1&network=56":  http.StatusNotFound,
	}
	for path, status := range cases {
		assert.Equal(t, status, f.do(http.MethodGet, path, "").Code, path)
	}
}

func TestGetContract(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		f := newFixture(t, fakeFetcher{}, 0)
		w := f.do(http.MethodGet, "/api/v1/tokens/dai/contract?network=137", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp ContractResponse
		decode(t, w, &resp)
		assert.Equal(t, daiPolygon, resp.Address)
		assert.Equal(t, "Polygon PoS", resp.Network.Name)
	})

	t.Run("unresolved", func(t *testing.T) {
		f := newFixture(t, fakeFetcher{}, 0)
		w := f.do(http.MethodGet, "/api/v1/tokens/usdc/contract?network=10", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("fetcher failure", func(t *testing.T) {
		f := newFixture(t, fakeFetcher{err: errors.New("dial failed")}, 0)
		w := f.do(http.MethodGet, "/api/v1/tokens/dai/contract", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, nil, 0.001)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/networks", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodGet, "/api/v1/networks", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health", "").Code)
}
