package service

import (
	"context"
	"sync"

	apperrors "github.com/alpha-scanner/internal/errors"
	"github.com/alpha-scanner/internal/logging"
	"github.com/alpha-scanner/internal/types"
)

// PairIndex resolves a token's canonical trading pair.
type PairIndex interface {
	ResolveMainPair(ctx context.Context, tokenAddress string) (types.PairInfo, error)
}

// TransferLedger provides a token's earliest transfer events.
type TransferLedger interface {
	FetchTokenTransfers(ctx context.Context, tokenAddress string) ([]types.TransferEvent, error)
}

// BuyerSnapshot is a resolved pair plus the buyer list extracted from one
// external-data snapshot of the token's transfer history.
type BuyerSnapshot struct {
	Pair   types.PairInfo `json:"pair"`
	Buyers []string       `json:"buyers"`
}

// SnapshotCache optionally holds buyer snapshots between paginated calls so
// pages of one logical session see a consistent buyer list. A nil cache
// means every call recomputes from live data.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, tokenAddress string) (*BuyerSnapshot, bool, error)
	SetSnapshot(ctx context.Context, tokenAddress string, snapshot *BuyerSnapshot) error
}

// ScanService orchestrates the two-stage pipeline: buyer discovery for a
// token, then per-wallet performance aggregation and alpha classification
// for one page of buyers.
type ScanService struct {
	pairs             PairIndex
	ledger            TransferLedger
	extractor         *BuyerExtractor
	aggregator        *PerformanceAggregator
	classifier        *AlphaClassifier
	cache             SnapshotCache // nil disables snapshot caching
	pageSize          int
	walletConcurrency int
}

// ScanServiceConfig holds the collaborators and tuning for a ScanService.
type ScanServiceConfig struct {
	Pairs             PairIndex
	Ledger            TransferLedger
	Extractor         *BuyerExtractor
	Aggregator        *PerformanceAggregator
	Classifier        *AlphaClassifier
	Cache             SnapshotCache
	PageSize          int
	WalletConcurrency int
}

// NewScanService creates a scan service
func NewScanService(cfg *ScanServiceConfig) *ScanService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	concurrency := cfg.WalletConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &ScanService{
		pairs:             cfg.Pairs,
		ledger:            cfg.Ledger,
		extractor:         cfg.Extractor,
		aggregator:        cfg.Aggregator,
		classifier:        cfg.Classifier,
		cache:             cfg.Cache,
		pageSize:          pageSize,
		walletConcurrency: concurrency,
	}
}

// Scan returns one page of classified early buyers of the token.
//
// The token address is validated before any external call. A token with no
// Ethereum pair yields an empty page with the caller's offset echoed back.
// Pair resolution and transfer ingestion failures abort the whole call;
// failures while aggregating or classifying a single wallet drop only that
// wallet from the page.
func (s *ScanService) Scan(ctx context.Context, tokenAddress string, offset int) (*types.ScanPage, error) {
	tokenAddress = types.NormalizeAddress(tokenAddress)
	if !types.IsValidAddress(tokenAddress) {
		return nil, apperrors.NewInvalidAddressError(tokenAddress)
	}

	snapshot, err := s.buyerSnapshot(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}

	page := &types.ScanPage{
		TokenSymbol: snapshot.Pair.TokenSymbol,
		TokenName:   snapshot.Pair.TokenName,
		Wallets:     []types.ClassifiedWallet{},
		NextOffset:  offset,
	}
	if !snapshot.Pair.Resolved() {
		return page, nil
	}

	wallets, nextOffset, hasMore := PageOfBuyers(snapshot.Buyers, offset, s.pageSize)
	page.Wallets = s.classifyWallets(ctx, wallets)
	page.NextOffset = nextOffset
	page.HasMore = hasMore

	return page, nil
}

// Aggregate returns the wallet's aggregated performance summary, or nil
// when no records survive filtering.
func (s *ScanService) Aggregate(ctx context.Context, walletAddress string) (*types.WalletPerformanceSummary, error) {
	walletAddress = types.NormalizeAddress(walletAddress)
	if !types.IsValidAddress(walletAddress) {
		return nil, apperrors.NewInvalidAddressError(walletAddress)
	}

	summary, err := s.aggregator.Aggregate(ctx, walletAddress)
	if err != nil {
		return nil, apperrors.NewUpstreamError(apperrors.SourcePortfolioAPI, err.Error(), err)
	}
	return summary, nil
}

// WalletTokens returns the wallet's filtered per-token performance records.
func (s *ScanService) WalletTokens(ctx context.Context, walletAddress string) ([]types.TokenPerformanceRecord, error) {
	walletAddress = types.NormalizeAddress(walletAddress)
	if !types.IsValidAddress(walletAddress) {
		return nil, apperrors.NewInvalidAddressError(walletAddress)
	}

	records, err := s.aggregator.FilteredRecords(ctx, walletAddress)
	if err != nil {
		return nil, apperrors.NewUpstreamError(apperrors.SourcePortfolioAPI, err.Error(), err)
	}
	return records, nil
}

// buyerSnapshot resolves the pair and extracts the buyer list, reusing a
// cached snapshot when one exists so consecutive pages of a session share
// one view of the transfer history.
func (s *ScanService) buyerSnapshot(ctx context.Context, tokenAddress string) (*BuyerSnapshot, error) {
	logger := logging.FromContext(ctx)

	if s.cache != nil {
		snapshot, ok, err := s.cache.GetSnapshot(ctx, tokenAddress)
		if err != nil {
			logger.WithError(err).Warn("snapshot cache read failed")
		} else if ok {
			return snapshot, nil
		}
	}

	pair, err := s.pairs.ResolveMainPair(ctx, tokenAddress)
	if err != nil {
		return nil, apperrors.NewUpstreamError(apperrors.SourcePairIndex, err.Error(), err)
	}
	if !pair.Resolved() {
		return &BuyerSnapshot{Pair: pair}, nil
	}

	transfers, err := s.ledger.FetchTokenTransfers(ctx, tokenAddress)
	if err != nil {
		return nil, apperrors.NewUpstreamError(apperrors.SourceTransferLedger, err.Error(), err)
	}

	snapshot := &BuyerSnapshot{
		Pair:   pair,
		Buyers: s.extractor.Extract(ctx, transfers, pair.PairAddress),
	}

	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, tokenAddress, snapshot); err != nil {
			logger.WithError(err).Warn("snapshot cache write failed")
		}
	}

	logger.WithFields(map[string]interface{}{
		"token":  tokenAddress,
		"pair":   pair.PairAddress,
		"buyers": len(snapshot.Buyers),
	}).Debug("buyer snapshot computed")

	return snapshot, nil
}

// classifyWallets aggregates and classifies the page's wallets with bounded
// concurrency, preserving page order in the output. A wallet whose
// aggregation fails, that has no surviving records, or that falls below the
// freshness threshold is dropped without failing the page.
func (s *ScanService) classifyWallets(ctx context.Context, wallets []string) []types.ClassifiedWallet {
	classified := make([]*types.ClassifiedWallet, len(wallets))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.walletConcurrency)

	for i, wallet := range wallets {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, wallet string) {
			defer wg.Done()
			defer func() { <-sem }()

			summary, err := s.aggregator.Aggregate(ctx, wallet)
			if err != nil {
				logging.FromContext(ctx).WithField("wallet", wallet).WithError(err).
					Debug("wallet aggregation failed, dropping from page")
				return
			}
			if result, ok := s.classifier.Classify(wallet, summary); ok {
				classified[i] = &result
			}
		}(i, wallet)
	}
	wg.Wait()

	results := make([]types.ClassifiedWallet, 0, len(wallets))
	for _, entry := range classified {
		if entry != nil {
			results = append(results, *entry)
		}
	}
	return results
}
