package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alpha-scanner/internal/config"
	"github.com/alpha-scanner/internal/types"
)

// SyveClient fetches per-token wallet performance records from the Syve
// portfolio analytics API.
type SyveClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// syvePerformanceResponse wraps the latest-performance-per-token result.
type syvePerformanceResponse struct {
	Data []types.TokenPerformanceRecord `json:"data"`
}

// NewSyveClient creates a new Syve API client
func NewSyveClient(cfg *config.SyveConfig) *SyveClient {
	return &SyveClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchPerformancePerToken returns the wallet's raw per-token performance
// records. Unrealized-only and totals rows are excluded at the source.
func (c *SyveClient) FetchPerformancePerToken(ctx context.Context, walletAddress string) ([]types.TokenPerformanceRecord, error) {
	params := url.Values{}
	params.Set("wallet_address", walletAddress)
	params.Set("key", c.apiKey)
	params.Set("exclude_unrealized", "true")
	params.Set("total_exclude", "true")

	endpoint := fmt.Sprintf("%s/v1/wallet-api/latest-performance-per-token?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("portfolio API HTTP error: %d", resp.StatusCode)
	}

	var parsed syvePerformanceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse performance response: %w", err)
	}

	return parsed.Data, nil
}
