package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alpha-scanner/internal/config"
	"github.com/alpha-scanner/internal/types"
)

// DexScreenerClient resolves a token's trading pairs via the DexScreener
// aggregation index. The API requires no key.
type DexScreenerClient struct {
	baseURL string
	client  *http.Client
}

// dexToken is one side of a trading pair.
type dexToken struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
}

// dexLiquidity holds the pair's reported liquidity. Pointer on the pair to
// handle nulls in the response.
type dexLiquidity struct {
	USD float64 `json:"usd"`
}

// dexPair represents a single trading pair from DexScreener.
type dexPair struct {
	ChainID     string        `json:"chainId"`
	PairAddress string        `json:"pairAddress"`
	Liquidity   *dexLiquidity `json:"liquidity"`
	BaseToken   dexToken      `json:"baseToken"`
	QuoteToken  dexToken      `json:"quoteToken"`
}

// dexPairsResponse represents the token pair lookup response.
type dexPairsResponse struct {
	Pairs []dexPair `json:"pairs"`
}

// NewDexScreenerClient creates a new DexScreener API client
func NewDexScreenerClient(cfg *config.DexScreenerConfig) *DexScreenerClient {
	return &DexScreenerClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ResolveMainPair returns the highest-liquidity Ethereum pair for a token,
// plus the token's display symbol and name. No pair on Ethereum yields a
// zero PairInfo, not an error. Ties on liquidity keep the first pair in
// source order.
func (c *DexScreenerClient) ResolveMainPair(ctx context.Context, tokenAddress string) (types.PairInfo, error) {
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, tokenAddress)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return types.PairInfo{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return types.PairInfo{}, fmt.Errorf("failed to query pair index: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.PairInfo{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return types.PairInfo{}, fmt.Errorf("pair index HTTP error: %d", resp.StatusCode)
	}

	var parsed dexPairsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return types.PairInfo{}, fmt.Errorf("failed to parse pair index response: %w", err)
	}

	var best *dexPair
	for i := range parsed.Pairs {
		pair := &parsed.Pairs[i]
		if pair.ChainID != string(types.ChainEthereum) {
			continue
		}
		if best == nil || liquidityUSD(pair) > liquidityUSD(best) {
			best = pair
		}
	}
	if best == nil {
		return types.PairInfo{}, nil
	}

	info := types.PairInfo{
		PairAddress: types.NormalizeAddress(best.PairAddress),
	}

	// Symbol and name come from whichever side of the pair is the queried
	// token; the quote side is used when the base side doesn't match.
	if types.NormalizeAddress(best.BaseToken.Address) == types.NormalizeAddress(tokenAddress) {
		info.TokenSymbol = best.BaseToken.Symbol
		info.TokenName = best.BaseToken.Name
	} else {
		info.TokenSymbol = best.QuoteToken.Symbol
		info.TokenName = best.QuoteToken.Name
	}
	if info.TokenName == "" {
		info.TokenName = "Unknown"
	}

	return info, nil
}

func liquidityUSD(p *dexPair) float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.USD
}
