package tokenloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"token_balance/internal/app/port"
	"token_balance/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// catalogEntry is the on-disk form of a token.
type catalogEntry struct {
	ID        string              `json:"id"`
	Addresses map[string]string   `json:"addresses"`
	Decimals  *jsoniter.Number    `json:"decimals"`
	USD       decimal.NullDecimal `json:"usd"`
	Icon      string              `json:"icon"`
	Type      string              `json:"type"`
}

// CatalogLoader loads token catalogs from files and http(s) URLs.
type CatalogLoader struct {
	sources []string
	timeout time.Duration
	client  *fasthttp.Client
	logger  port.Logger
}

// NewCatalogLoader creates a new CatalogLoader.
func NewCatalogLoader(sources []string, timeout time.Duration, logger port.Logger) *CatalogLoader {
	return &CatalogLoader{
		sources: sources,
		timeout: timeout,
		client:  &fasthttp.Client{Name: "token_balance"},
		logger:  logger,
	}
}

// LoadTokens reads every source concurrently and returns the tokens ordered by id.
// Any malformed entry, including a missing or invalid decimal precision, fails the load.
func (l *CatalogLoader) LoadTokens(ctx context.Context) ([]*entity.Token, error) {
	perSource := make([][]*entity.Token, len(l.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, source := range l.sources {
		i, source := i, source
		g.Go(func() error {
			data, err := l.read(gctx, source)
			if err != nil {
				return err
			}
			tokens, err := Decode(data)
			if err != nil {
				return fmt.Errorf("catalog %s: %w", source, err)
			}
			perSource[i] = tokens
			l.logger.Info("Token catalog loaded", "source", source, "count", len(tokens))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	var all []*entity.Token
	for i, tokens := range perSource {
		for _, token := range tokens {
			if prev, dup := seen[token.ID]; dup {
				return nil, fmt.Errorf("token %q defined in both %s and %s: %w", token.ID, prev, l.sources[i], entity.ErrConfiguration)
			}
			seen[token.ID] = l.sources[i]
			all = append(all, token)
		}
	}
	sort.Slice(all, func(a, b int) bool { return all[a].ID < all[b].ID })
	return all, nil
}

func (l *CatalogLoader) read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetch(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read token catalog %s: %w", source, err)
	}
	return data, nil
}

func (l *CatalogLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = l.client.DoDeadline(req, resp, deadline)
	} else {
		err = l.client.DoTimeout(req, resp, l.timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token catalog %s: %w", url, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("token catalog request to %s failed with status %d", url, resp.StatusCode())
	}

	body := resp.Body()
	data := make([]byte, len(body))
	copy(data, body)
	return data, nil
}

// Decode parses a JSON token catalog.
func Decode(data []byte) ([]*entity.Token, error) {
	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token catalog: %w", err)
	}

	tokens := make([]*entity.Token, 0, len(entries))
	ids := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		token, err := e.toToken()
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.ID, err)
		}
		if _, dup := ids[token.ID]; dup {
			return nil, fmt.Errorf("entry %d: duplicate token id %q: %w", i, token.ID, entity.ErrConfiguration)
		}
		ids[token.ID] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

func (e catalogEntry) toToken() (*entity.Token, error) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return nil, fmt.Errorf("token id is required: %w", entity.ErrConfiguration)
	}

	decimals, err := parseDecimals(e.Decimals)
	if err != nil {
		return nil, err
	}

	addresses := make(map[entity.NetworkID]string, len(e.Addresses))
	for rawID, addr := range e.Addresses {
		networkID, err := entity.ParseNetworkID(rawID)
		if err != nil {
			return nil, err
		}
		addresses[networkID] = addr
	}

	token := entity.NewToken(id, addresses, &decimals, e.USD)
	token.Icon = e.Icon
	if e.Type != "" {
		token.Type = e.Type
	}
	return token, nil
}

func parseDecimals(n *jsoniter.Number) (int, error) {
	if n == nil {
		return 0, entity.ErrDecimalsMissing
	}
	d, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, fmt.Errorf("decimals %q is not an integer: %w", n.String(), entity.ErrDecimalsInvalid)
	}
	if d < 0 || d > entity.MaxDecimals {
		return 0, fmt.Errorf("decimals %d outside [0, %d]: %w", d, entity.MaxDecimals, entity.ErrDecimalsInvalid)
	}
	return d, nil
}

// IsConfigurationError reports whether err came from a malformed catalog entry.
func IsConfigurationError(err error) bool {
	return errors.Is(err, entity.ErrConfiguration)
}
