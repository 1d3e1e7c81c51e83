package service

import (
	"context"
	"math"

	"github.com/alpha-scanner/internal/types"
)

// PerformanceSource provides raw per-token performance records for a wallet.
type PerformanceSource interface {
	FetchPerformancePerToken(ctx context.Context, walletAddress string) ([]types.TokenPerformanceRecord, error)
}

// maxReasonableValue is the sanity bound on per-record profit and value
// fields. Records at or beyond it are treated as corrupted source data.
const maxReasonableValue = 1e6

// excludedSymbols are major/blue-chip tokens that carry no alpha signal and
// whose volume would dominate the aggregates.
var excludedSymbols = map[string]struct{}{
	"BTC": {}, "ETH": {}, "USDT": {}, "BNB": {}, "SOL": {}, "USDC": {},
	"XRP": {}, "TON": {}, "DOGE": {}, "ADA": {}, "TRX": {}, "AVAX": {},
	"SHIB": {}, "WBTC": {}, "DOT": {}, "LINK": {}, "BCH": {}, "NEAR": {},
	"UNI": {}, "LTC": {}, "DAI": {}, "FDUSD": {},
}

// PerformanceAggregator condenses a wallet's raw per-token records into a
// single bounded, outlier-filtered summary.
type PerformanceAggregator struct {
	source PerformanceSource
}

// NewPerformanceAggregator creates a performance aggregator
func NewPerformanceAggregator(source PerformanceSource) *PerformanceAggregator {
	return &PerformanceAggregator{source: source}
}

// Aggregate fetches, filters and sums the wallet's per-token records.
// A nil summary with nil error means no records survived filtering; the
// caller skips the wallet instead of reporting a zero-activity one.
func (a *PerformanceAggregator) Aggregate(ctx context.Context, walletAddress string) (*types.WalletPerformanceSummary, error) {
	records, err := a.FilteredRecords(ctx, walletAddress)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	summary := &types.WalletPerformanceSummary{
		WalletAddress:     walletAddress,
		TotalTokensTraded: len(records),
	}

	wins := 0
	var firstTs, lastTs *int64
	for _, rec := range records {
		summary.TotalInvestment += rec.TotalInvestment
		summary.TotalProfit += rec.TotalProfit
		summary.TotalValue += rec.TotalValue
		summary.RealizedProfit += rec.RealizedProfit
		summary.RealizedValue += rec.RealizedValue
		summary.RealizedInvestment += rec.RealizedInvestment
		summary.UnrealizedProfit += rec.UnrealizedProfit
		summary.UnrealizedValue += rec.UnrealizedValue
		summary.UnrealizedInvestment += rec.UnrealizedInvestment
		summary.TotalTrades += rec.TotalTrades
		summary.TotalBuys += rec.TotalBuys
		summary.TotalSells += rec.TotalSells
		summary.TotalBuyVolume += rec.TotalBuyVolume
		summary.TotalSellVolume += rec.TotalSellVolume

		if rec.TotalProfit > 0 {
			wins++
		}
		if ts := rec.FirstTradeTimestamp; ts != 0 && (firstTs == nil || ts < *firstTs) {
			v := ts
			firstTs = &v
		}
		if ts := rec.LastTradeTimestamp; ts != 0 && (lastTs == nil || ts > *lastTs) {
			v := ts
			lastTs = &v
		}
	}

	summary.PNL = summary.TotalProfit
	summary.WinRate = float64(wins) / float64(len(records))
	summary.FirstTradeTimestamp = firstTs
	summary.LastTradeTimestamp = lastTs

	// Returns divide by total investment across the board; realized and
	// unrealized investments are summed for reporting only.
	if summary.TotalInvestment > 0 {
		summary.TotalReturn = summary.TotalProfit / summary.TotalInvestment * 100
		summary.RealizedReturn = summary.RealizedProfit / summary.TotalInvestment * 100
		summary.UnrealizedReturn = summary.UnrealizedProfit / summary.TotalInvestment * 100
	}

	return summary, nil
}

// FilteredRecords fetches the wallet's records and applies normalization
// plus the exclusion, activity and sanity-bound filters. This is the same
// filter chain the aggregation uses, exposed for per-token views.
func (a *PerformanceAggregator) FilteredRecords(ctx context.Context, walletAddress string) ([]types.TokenPerformanceRecord, error) {
	raw, err := a.source.FetchPerformancePerToken(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	filtered := make([]types.TokenPerformanceRecord, 0, len(raw))
	for _, rec := range raw {
		rec = normalizeRecord(rec)
		if !keepRecord(rec) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered, nil
}

// keepRecord applies the per-record admission filters on a normalized
// record: excluded blue-chip symbols, no-activity records, and records
// with any profit or value field outside the sanity bound.
func keepRecord(rec types.TokenPerformanceRecord) bool {
	if _, excluded := excludedSymbols[rec.TokenSymbol]; excluded {
		return false
	}

	hasActivity := rec.TotalInvestment > 0 || rec.TotalBuys > 0
	if !hasActivity {
		return false
	}

	withinBounds := math.Abs(rec.TotalProfit) < maxReasonableValue &&
		math.Abs(rec.TotalValue) < maxReasonableValue &&
		math.Abs(rec.RealizedProfit) < maxReasonableValue &&
		math.Abs(rec.UnrealizedProfit) < maxReasonableValue

	return withinBounds
}

// normalizeRecord maps non-finite numeric fields to zero, once per record,
// before any filtering or arithmetic. Every float field gets the same
// treatment so no field can silently diverge.
func normalizeRecord(rec types.TokenPerformanceRecord) types.TokenPerformanceRecord {
	rec.TotalInvestment = finiteOrZero(rec.TotalInvestment)
	rec.TotalValue = finiteOrZero(rec.TotalValue)
	rec.TotalProfit = finiteOrZero(rec.TotalProfit)
	rec.RealizedProfit = finiteOrZero(rec.RealizedProfit)
	rec.RealizedValue = finiteOrZero(rec.RealizedValue)
	rec.RealizedInvestment = finiteOrZero(rec.RealizedInvestment)
	rec.UnrealizedProfit = finiteOrZero(rec.UnrealizedProfit)
	rec.UnrealizedValue = finiteOrZero(rec.UnrealizedValue)
	rec.UnrealizedInvestment = finiteOrZero(rec.UnrealizedInvestment)
	rec.TotalBuyVolume = finiteOrZero(rec.TotalBuyVolume)
	rec.TotalSellVolume = finiteOrZero(rec.TotalSellVolume)
	return rec
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
