package service

import "github.com/alpha-scanner/internal/types"

// Classification thresholds. A wallet below the fresh-wallet threshold has
// too little history to judge and is excluded from output entirely rather
// than marked non-alpha.
const (
	freshWalletTradeThreshold = 5
	alphaMinWinRate           = 0.5
	alphaMinProfit            = 1000.0
	alphaMinTrades            = 20
)

// AlphaClassifier applies the fixed alpha heuristic to an aggregated
// wallet summary.
type AlphaClassifier struct{}

// NewAlphaClassifier creates an alpha classifier
func NewAlphaClassifier() *AlphaClassifier {
	return &AlphaClassifier{}
}

// Classify labels a wallet from its summary. The second return value is
// false when the wallet must be excluded: no summary survived aggregation,
// or the wallet is too fresh to judge. WinRate is emitted as a percentage
// whether or not the wallet qualifies as alpha.
func (c *AlphaClassifier) Classify(wallet string, summary *types.WalletPerformanceSummary) (types.ClassifiedWallet, bool) {
	if summary == nil || summary.TotalTrades < freshWalletTradeThreshold {
		return types.ClassifiedWallet{}, false
	}

	isAlpha := summary.WinRate >= alphaMinWinRate &&
		summary.TotalProfit > alphaMinProfit &&
		summary.TotalTrades >= alphaMinTrades

	return types.ClassifiedWallet{
		Wallet:  wallet,
		IsAlpha: isAlpha,
		WinRate: toPercent(summary.WinRate),
	}, true
}

// toPercent converts a fraction to a percentage, mapping non-finite input
// to zero.
func toPercent(v float64) float64 {
	return finiteOrZero(v) * 100
}
