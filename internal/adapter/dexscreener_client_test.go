package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alpha-scanner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dexTestToken = "0x2222222222222222222222222222222222222222"

func newDexScreenerTestClient(handler http.HandlerFunc) (*DexScreenerClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewDexScreenerClient(&config.DexScreenerConfig{BaseURL: server.URL})
	return client, server
}

func TestResolveMainPairPicksHighestLiquidityEthereumPair(t *testing.T) {
	client, server := newDexScreenerTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/tokens/"+dexTestToken, r.URL.Path)
		w.Write([]byte(`{"pairs": [
			{"chainId": "bsc", "pairAddress": "0xBBB1",
			 "liquidity": {"usd": 900000},
			 "baseToken": {"address": "` + dexTestToken + `", "symbol": "PEPE", "name": "Pepe"}},
			{"chainId": "ethereum", "pairAddress": "0xEEE1",
			 "liquidity": {"usd": 50000},
			 "baseToken": {"address": "` + dexTestToken + `", "symbol": "PEPE", "name": "Pepe"}},
			{"chainId": "ethereum", "pairAddress": "0xEEE2",
			 "liquidity": {"usd": 120000},
			 "baseToken": {"address": "` + dexTestToken + `", "symbol": "PEPE", "name": "Pepe"}}
		]}`))
	})
	defer server.Close()

	pair, err := client.ResolveMainPair(context.Background(), dexTestToken)

	require.NoError(t, err)
	assert.Equal(t, "0xeee2", pair.PairAddress)
	assert.Equal(t, "PEPE", pair.TokenSymbol)
	assert.Equal(t, "Pepe", pair.TokenName)
}

func TestResolveMainPairTieKeepsFirst(t *testing.T) {
	client, server := newDexScreenerTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [
			{"chainId": "ethereum", "pairAddress": "0xEEE1",
			 "liquidity": {"usd": 100000},
			 "baseToken": {"address": "` + dexTestToken + `", "symbol": "PEPE", "name": "Pepe"}},
			{"chainId": "ethereum", "pairAddress": "0xEEE2",
			 "liquidity": {"usd": 100000},
			 "baseToken": {"address": "` + dexTestToken + `", "symbol": "PEPE", "name": "Pepe"}}
		]}`))
	})
	defer server.Close()

	pair, err := client.ResolveMainPair(context.Background(), dexTestToken)

	require.NoError(t, err)
	assert.Equal(t, "0xeee1", pair.PairAddress)
}

func TestResolveMainPairQuoteSideToken(t *testing.T) {
	// The queried token sits on the quote side of the pair.
	client, server := newDexScreenerTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [
			{"chainId": "ethereum", "pairAddress": "0xEEE1",
			 "liquidity": {"usd": 100000},
			 "baseToken": {"address": "0x9999999999999999999999999999999999999999", "symbol": "WETH", "name": "Wrapped Ether"},
			 "quoteToken": {"address": "` + dexTestToken + `", "symbol": "PEPE", "name": "Pepe"}}
		]}`))
	})
	defer server.Close()

	pair, err := client.ResolveMainPair(context.Background(), dexTestToken)

	require.NoError(t, err)
	assert.Equal(t, "PEPE", pair.TokenSymbol)
	assert.Equal(t, "Pepe", pair.TokenName)
}

func TestResolveMainPairDefaultsUnknownName(t *testing.T) {
	client, server := newDexScreenerTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [
			{"chainId": "ethereum", "pairAddress": "0xEEE1",
			 "baseToken": {"address": "` + dexTestToken + `", "symbol": "PEPE"}}
		]}`))
	})
	defer server.Close()

	pair, err := client.ResolveMainPair(context.Background(), dexTestToken)

	require.NoError(t, err)
	assert.Equal(t, "Unknown", pair.TokenName)
}

func TestResolveMainPairNoEthereumPairs(t *testing.T) {
	client, server := newDexScreenerTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [
			{"chainId": "solana", "pairAddress": "SoL1",
			 "liquidity": {"usd": 900000},
			 "baseToken": {"address": "` + dexTestToken + `", "symbol": "PEPE", "name": "Pepe"}}
		]}`))
	})
	defer server.Close()

	pair, err := client.ResolveMainPair(context.Background(), dexTestToken)

	require.NoError(t, err, "an unlisted token is not an error")
	assert.False(t, pair.Resolved())
}

func TestResolveMainPairNullPairs(t *testing.T) {
	client, server := newDexScreenerTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": null}`))
	})
	defer server.Close()

	pair, err := client.ResolveMainPair(context.Background(), dexTestToken)

	require.NoError(t, err)
	assert.False(t, pair.Resolved())
}

func TestResolveMainPairHTTPError(t *testing.T) {
	client, server := newDexScreenerTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.ResolveMainPair(context.Background(), dexTestToken)

	assert.ErrorContains(t, err, "pair index HTTP error: 500")
}

func TestResolveMainPairMissingLiquidityTreatedAsZero(t *testing.T) {
	client, server := newDexScreenerTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [
			{"chainId": "ethereum", "pairAddress": "0xEEE1",
			 "baseToken": {"address": "` + dexTestToken + `", "symbol": "PEPE", "name": "Pepe"}},
			{"chainId": "ethereum", "pairAddress": "0xEEE2",
			 "liquidity": {"usd": 1},
			 "baseToken": {"address": "` + dexTestToken + `", "symbol": "PEPE", "name": "Pepe"}}
		]}`))
	})
	defer server.Close()

	pair, err := client.ResolveMainPair(context.Background(), dexTestToken)

	require.NoError(t, err)
	assert.Equal(t, "0xeee2", pair.PairAddress)
}
