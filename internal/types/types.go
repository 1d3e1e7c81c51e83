// Package types provides common type definitions for the alpha buyer scanner.
package types

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ChainID represents supported blockchain networks
type ChainID string

const (
	// ChainEthereum represents the Ethereum mainnet
	ChainEthereum ChainID = "ethereum"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// IsValidAddress reports whether s is a 0x-prefixed 40-hex-digit address.
// Checksum casing is not required; addresses are normalized to lowercase
// everywhere downstream.
func IsValidAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// NormalizeAddress lowercases an address for comparison and storage.
func NormalizeAddress(s string) string {
	return strings.ToLower(s)
}

// PairInfo identifies a token's canonical trading pair on Ethereum.
// Empty PairAddress means no pair exists on the target chain; that is a
// valid outcome, not an error.
type PairInfo struct {
	PairAddress string `json:"pairAddress,omitempty"`
	TokenSymbol string `json:"tokenSymbol,omitempty"`
	TokenName   string `json:"tokenName,omitempty"`
}

// Resolved reports whether a trading pair was found.
func (p PairInfo) Resolved() bool {
	return p.PairAddress != ""
}

// TransferEvent represents an ERC20 token transfer from the ledger index.
// The scan pipeline only consumes From and To; the remaining fields are
// carried through untouched.
type TransferEvent struct {
	Hash            string `json:"hash"`
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	ContractAddress string `json:"contractAddress"`
	TokenName       string `json:"tokenName"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
}

// TokenPerformanceRecord holds a wallet's trading performance for a single
// token, as reported by the portfolio analytics source. Read-only input.
type TokenPerformanceRecord struct {
	TokenSymbol          string  `json:"token_symbol"`
	TotalInvestment      float64 `json:"total_investment"`
	TotalValue           float64 `json:"total_value"`
	TotalProfit          float64 `json:"total_profit"`
	RealizedProfit       float64 `json:"realized_profit"`
	RealizedValue        float64 `json:"realized_value"`
	RealizedInvestment   float64 `json:"realized_investment"`
	UnrealizedProfit     float64 `json:"unrealized_profit"`
	UnrealizedValue      float64 `json:"unrealized_value"`
	UnrealizedInvestment float64 `json:"unrealized_investment"`
	TotalTrades          int64   `json:"total_trades"`
	TotalBuys            int64   `json:"total_buys"`
	TotalSells           int64   `json:"total_sells"`
	TotalBuyVolume       float64 `json:"total_buy_volume"`
	TotalSellVolume      float64 `json:"total_sell_volume"`
	FirstTradeTimestamp  int64   `json:"first_trade_timestamp"`
	LastTradeTimestamp   int64   `json:"last_trade_timestamp"`
}

// WalletPerformanceSummary aggregates a wallet's filtered per-token records
// into one wallet-level view. Recomputed fresh on every request; never
// cached or persisted.
type WalletPerformanceSummary struct {
	WalletAddress        string  `json:"wallet_address"`
	PNL                  float64 `json:"pnl"`
	TotalProfit          float64 `json:"total_profit"`
	TotalValue           float64 `json:"total_value"`
	TotalInvestment      float64 `json:"total_investment"`
	TotalReturn          float64 `json:"total_return"`
	RealizedProfit       float64 `json:"realized_profit"`
	RealizedValue        float64 `json:"realized_value"`
	RealizedInvestment   float64 `json:"realized_investment"`
	RealizedReturn       float64 `json:"realized_return"`
	UnrealizedProfit     float64 `json:"unrealized_profit"`
	UnrealizedValue      float64 `json:"unrealized_value"`
	UnrealizedInvestment float64 `json:"unrealized_investment"`
	UnrealizedReturn     float64 `json:"unrealized_return"`
	TotalTrades          int64   `json:"total_trades"`
	TotalBuys            int64   `json:"total_buys"`
	TotalSells           int64   `json:"total_sells"`
	TotalBuyVolume       float64 `json:"total_buy_volume"`
	TotalSellVolume      float64 `json:"total_sell_volume"`
	TotalTokensTraded    int     `json:"total_tokens_traded"`
	WinRate              float64 `json:"win_rate"`
	FirstTradeTimestamp  *int64  `json:"first_trade_timestamp"`
	LastTradeTimestamp   *int64  `json:"last_trade_timestamp"`
}

// ClassifiedWallet is a single page entry: a buyer wallet with its alpha
// label and win rate percentage.
type ClassifiedWallet struct {
	Wallet  string  `json:"wallet"`
	IsAlpha bool    `json:"isAlpha"`
	WinRate float64 `json:"winRate"`
}

// ScanPage is one page of classified buyer wallets plus the stateless
// pagination cursor for the next call.
type ScanPage struct {
	TokenSymbol string             `json:"tokenSymbol,omitempty"`
	TokenName   string             `json:"tokenName,omitempty"`
	Wallets     []ClassifiedWallet `json:"wallets"`
	NextOffset  int                `json:"nextOffset"`
	HasMore     bool               `json:"hasMore"`
}
