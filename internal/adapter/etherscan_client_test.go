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

func newEtherscanTestClient(transferLimit int, handler http.HandlerFunc) (*EtherscanClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewEtherscanClient(&config.EtherscanConfig{
		APIKey:            "test-key",
		BaseURL:           server.URL,
		RequestsPerSecond: 1000, // don't throttle tests
	}, transferLimit)
	return client, server
}

func TestFetchTokenTransfersRequestShape(t *testing.T) {
	client, server := newEtherscanTestClient(200, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "account", q.Get("module"))
		assert.Equal(t, "tokentx", q.Get("action"))
		assert.Equal(t, "0xabc", q.Get("contractaddress"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "200", q.Get("offset"))
		assert.Equal(t, "asc", q.Get("sort"))
		assert.Equal(t, "test-key", q.Get("apikey"))

		w.Write([]byte(`{"status": "1", "message": "OK", "result": [
			{"hash": "0xh1", "from": "0xf1", "to": "0xt1", "value": "1000", "timeStamp": "1700000000"},
			{"hash": "0xh2", "from": "0xf2", "to": "0xt2", "value": "2000", "timeStamp": "1700000100"}
		]}`))
	})
	defer server.Close()

	transfers, err := client.FetchTokenTransfers(context.Background(), "0xabc")

	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, "0xf1", transfers[0].From)
	assert.Equal(t, "0xt1", transfers[0].To)
	assert.Equal(t, "0xt2", transfers[1].To)
}

func TestFetchTokenTransfersCarriesUpstreamMessage(t *testing.T) {
	client, server := newEtherscanTestClient(200, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "0", "message": "No transactions found", "result": []}`))
	})
	defer server.Close()

	_, err := client.FetchTokenTransfers(context.Background(), "0xabc")

	assert.ErrorContains(t, err, "etherscan error: No transactions found")
}

func TestFetchTokenTransfersDefaultsUnknownError(t *testing.T) {
	client, server := newEtherscanTestClient(200, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "0", "result": []}`))
	})
	defer server.Close()

	_, err := client.FetchTokenTransfers(context.Background(), "0xabc")

	assert.ErrorContains(t, err, "etherscan error: Unknown error")
}

func TestFetchTokenTransfersStringResult(t *testing.T) {
	// Rate-limit responses put a bare string where the array belongs.
	client, server := newEtherscanTestClient(200, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "0", "message": "NOTOK", "result": "Max rate limit reached"}`))
	})
	defer server.Close()

	_, err := client.FetchTokenTransfers(context.Background(), "0xabc")

	require.Error(t, err)
	assert.ErrorContains(t, err, "NOTOK")
}

func TestFetchTokenTransfersHTTPError(t *testing.T) {
	client, server := newEtherscanTestClient(200, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := client.FetchTokenTransfers(context.Background(), "0xabc")

	assert.ErrorContains(t, err, "HTTP error: 502")
}

func TestIsContractVerifiedSource(t *testing.T) {
	client, server := newEtherscanTestClient(200, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "contract", q.Get("module"))
		assert.Equal(t, "getsourcecode", q.Get("action"))
		assert.Equal(t, "0xdef", q.Get("address"))

		w.Write([]byte(`{"status": "1", "message": "OK", "result": [
			{"SourceCode": "pragma solidity ^0.8.0; contract Token {}", "ContractName": "Token"}
		]}`))
	})
	defer server.Close()

	isContract, err := client.IsContract(context.Background(), "0xdef")

	require.NoError(t, err)
	assert.True(t, isContract)
}

func TestIsContractEmptySourceIsWallet(t *testing.T) {
	// EOAs come back with status "1" and an empty SourceCode.
	client, server := newEtherscanTestClient(200, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "1", "message": "OK", "result": [
			{"SourceCode": "", "ContractName": ""}
		]}`))
	})
	defer server.Close()

	isContract, err := client.IsContract(context.Background(), "0xdef")

	require.NoError(t, err)
	assert.False(t, isContract)
}

func TestIsContractNonSuccessStatusIsWallet(t *testing.T) {
	client, server := newEtherscanTestClient(200, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "0", "message": "NOTOK", "result": "Invalid Address format"}`))
	})
	defer server.Close()

	isContract, err := client.IsContract(context.Background(), "0xdef")

	require.NoError(t, err)
	assert.False(t, isContract)
}

func TestIsContractHTTPError(t *testing.T) {
	client, server := newEtherscanTestClient(200, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer server.Close()

	_, err := client.IsContract(context.Background(), "0xdef")

	assert.Error(t, err)
}
