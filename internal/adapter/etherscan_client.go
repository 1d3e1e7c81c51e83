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
	"golang.org/x/time/rate"
)

// EtherscanClient fetches token transfer history and contract source-code
// presence from the Etherscan API. Requests are throttled to the free tier
// limit; there is no retry policy, each call is single-shot.
type EtherscanClient struct {
	apiKey        string
	baseURL       string
	transferLimit int
	client        *http.Client
	limiter       *rate.Limiter
}

// etherscanEnvelope is the common response wrapper. Result is kept raw
// because the API returns a string instead of an array on some failures.
type etherscanEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// etherscanSource is one entry of a getsourcecode result.
type etherscanSource struct {
	SourceCode   string `json:"SourceCode"`
	ContractName string `json:"ContractName"`
}

// NewEtherscanClient creates a new Etherscan API client
func NewEtherscanClient(cfg *config.EtherscanConfig, transferLimit int) *EtherscanClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 3.0 // free tier
	}
	return &EtherscanClient{
		apiKey:        cfg.APIKey,
		baseURL:       cfg.BaseURL,
		transferLimit: transferLimit,
		client:        &http.Client{Timeout: 30 * time.Second},
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// FetchTokenTransfers returns the earliest transferLimit transfer events
// for a token contract, in ascending chronological order. A non-success
// status from the API is an error carrying the API's own message; that
// includes the "No transactions found" response, which the upstream
// reports with status "0".
func (c *EtherscanClient) FetchTokenTransfers(ctx context.Context, tokenAddress string) ([]types.TransferEvent, error) {
	url := fmt.Sprintf("%s?module=account&action=tokentx&contractaddress=%s&page=1&offset=%d&sort=asc&apikey=%s",
		c.baseURL, tokenAddress, c.transferLimit, c.apiKey)

	envelope, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	if envelope.Status != "1" {
		message := envelope.Message
		if message == "" {
			message = "Unknown error"
		}
		return nil, fmt.Errorf("etherscan error: %s", message)
	}

	var transfers []types.TransferEvent
	if err := json.Unmarshal(envelope.Result, &transfers); err != nil {
		return nil, fmt.Errorf("failed to parse transfers: %w", err)
	}

	return transfers, nil
}

// IsContract reports whether non-empty verified source code exists for the
// address. Callers treat any error as "not a contract" so that a flaky
// lookup never excludes a wallet from the buyer list.
func (c *EtherscanClient) IsContract(ctx context.Context, address string) (bool, error) {
	url := fmt.Sprintf("%s?module=contract&action=getsourcecode&address=%s&apikey=%s",
		c.baseURL, address, c.apiKey)

	envelope, err := c.doRequest(ctx, url)
	if err != nil {
		return false, err
	}

	if envelope.Status != "1" {
		return false, nil
	}

	var sources []etherscanSource
	if err := json.Unmarshal(envelope.Result, &sources); err != nil {
		return false, fmt.Errorf("failed to parse source code result: %w", err)
	}

	return len(sources) > 0 && sources[0].SourceCode != "", nil
}

// doRequest performs a throttled single-shot GET and decodes the envelope.
func (c *EtherscanClient) doRequest(ctx context.Context, url string) (*etherscanEnvelope, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttle wait cancelled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, string(body))
	}

	var envelope etherscanEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Some failure responses carry a bare string in result; normalize it to
	// an empty array so callers always unmarshal the same shape.
	if len(envelope.Result) > 0 && envelope.Result[0] == '"' {
		envelope.Result = json.RawMessage("[]")
	}

	return &envelope, nil
}
