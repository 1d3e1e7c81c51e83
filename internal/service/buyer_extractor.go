package service

import (
	"context"
	"sync"

	"github.com/alpha-scanner/internal/logging"
	"github.com/alpha-scanner/internal/types"
)

// ContractChecker reports whether an address has verified contract code.
type ContractChecker interface {
	IsContract(ctx context.Context, address string) (bool, error)
}

// BuyerExtractor turns a token's transfer history into an ordered,
// deduplicated list of wallets that bought directly from the trading pair.
type BuyerExtractor struct {
	checker     ContractChecker
	maxBuyers   int
	concurrency int
}

// NewBuyerExtractor creates a buyer extractor. concurrency bounds the number
// of contract-code lookups in flight at once.
func NewBuyerExtractor(checker ContractChecker, maxBuyers, concurrency int) *BuyerExtractor {
	if maxBuyers <= 0 {
		maxBuyers = 200
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BuyerExtractor{
		checker:     checker,
		maxBuyers:   maxBuyers,
		concurrency: concurrency,
	}
}

// Extract walks the transfer sequence in order and collects recipients of
// transfers sent by the pair address. Candidates are deduplicated by
// lowercased address on first encounter, contract accounts are excluded,
// and the result is capped at maxBuyers.
//
// Contract checks run concurrently under the configured bound, but the
// buyer list keeps first-encounter order regardless of which check finishes
// first. A failed check counts as "not a contract": a flaky code lookup
// must not silently drop a real wallet.
func (e *BuyerExtractor) Extract(ctx context.Context, transfers []types.TransferEvent, pairAddress string) []string {
	candidates := e.orderedCandidates(transfers, pairAddress)
	if len(candidates) == 0 {
		return []string{}
	}

	isContract := e.checkCandidates(ctx, candidates)

	buyers := make([]string, 0, e.maxBuyers)
	for i, candidate := range candidates {
		if isContract[i] {
			continue
		}
		buyers = append(buyers, candidate)
		if len(buyers) == e.maxBuyers {
			break
		}
	}
	return buyers
}

// orderedCandidates returns the distinct recipients of pair-sent transfers
// in first-encounter order. The seen set covers contract addresses too, so
// a candidate is only ever checked once.
func (e *BuyerExtractor) orderedCandidates(transfers []types.TransferEvent, pairAddress string) []string {
	var candidates []string
	seen := make(map[string]struct{})

	for _, tx := range transfers {
		if types.NormalizeAddress(tx.From) != pairAddress {
			continue
		}
		to := types.NormalizeAddress(tx.To)
		if _, ok := seen[to]; ok {
			continue
		}
		seen[to] = struct{}{}
		candidates = append(candidates, to)
	}

	return candidates
}

// checkCandidates runs contract-code lookups with bounded concurrency and
// returns results aligned to the candidate order.
func (e *BuyerExtractor) checkCandidates(ctx context.Context, candidates []string) []bool {
	isContract := make([]bool, len(candidates))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.concurrency)

	for i, candidate := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, candidate string) {
			defer wg.Done()
			defer func() { <-sem }()

			contract, err := e.checker.IsContract(ctx, candidate)
			if err != nil {
				logging.FromContext(ctx).WithField("address", candidate).WithError(err).
					Debug("contract check failed, treating as wallet")
				return
			}
			isContract[i] = contract
		}(i, candidate)
	}

	wg.Wait()
	return isContract
}
