package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alpha-scanner/internal/types"
	"github.com/stretchr/testify/assert"
)

const testPair = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// fakeChecker reports configured addresses as contracts and records which
// addresses were checked. Safe for concurrent use.
type fakeChecker struct {
	mu        sync.Mutex
	contracts map[string]bool
	failing   map[string]bool
	checked   []string
}

func newFakeChecker() *fakeChecker {
	return &fakeChecker{
		contracts: make(map[string]bool),
		failing:   make(map[string]bool),
	}
}

func (f *fakeChecker) IsContract(_ context.Context, address string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, address)
	if f.failing[address] {
		return false, fmt.Errorf("etherscan unavailable")
	}
	return f.contracts[address], nil
}

func (f *fakeChecker) checkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.checked)
}

func transferFrom(from, to string) types.TransferEvent {
	return types.TransferEvent{From: from, To: to}
}

func TestExtractKeepsEncounterOrder(t *testing.T) {
	transfers := []types.TransferEvent{
		transferFrom(testPair, "0xC3"),
		transferFrom(testPair, "0xA1"),
		transferFrom("0xother", "0xZZ"), // not from the pair, ignored
		transferFrom(testPair, "0xB2"),
	}

	extractor := NewBuyerExtractor(newFakeChecker(), 200, 4)
	buyers := extractor.Extract(context.Background(), transfers, testPair)

	assert.Equal(t, []string{"0xc3", "0xa1", "0xb2"}, buyers)
}

func TestExtractDeduplicatesCaseInsensitive(t *testing.T) {
	transfers := []types.TransferEvent{
		transferFrom(testPair, "0xAbC"),
		transferFrom(testPair, "0xabc"),
		transferFrom(testPair, "0xABC"),
	}

	checker := newFakeChecker()
	extractor := NewBuyerExtractor(checker, 200, 4)
	buyers := extractor.Extract(context.Background(), transfers, testPair)

	assert.Equal(t, []string{"0xabc"}, buyers)
	assert.Equal(t, 1, checker.checkCount(), "duplicate candidates must be checked once")
}

func TestExtractExcludesContracts(t *testing.T) {
	transfers := []types.TransferEvent{
		transferFrom(testPair, "0x01"),
		transferFrom(testPair, "0x02"),
		transferFrom(testPair, "0x03"),
	}

	checker := newFakeChecker()
	checker.contracts["0x02"] = true

	extractor := NewBuyerExtractor(checker, 200, 4)
	buyers := extractor.Extract(context.Background(), transfers, testPair)

	assert.Equal(t, []string{"0x01", "0x03"}, buyers)
}

func TestExtractFailedCheckDegradesToWallet(t *testing.T) {
	transfers := []types.TransferEvent{
		transferFrom(testPair, "0x01"),
		transferFrom(testPair, "0x02"),
	}

	checker := newFakeChecker()
	checker.failing["0x01"] = true

	extractor := NewBuyerExtractor(checker, 200, 4)
	buyers := extractor.Extract(context.Background(), transfers, testPair)

	// A flaky code lookup must include, never exclude.
	assert.Equal(t, []string{"0x01", "0x02"}, buyers)
}

func TestExtractCapsBuyerList(t *testing.T) {
	var transfers []types.TransferEvent
	for i := 0; i < 10; i++ {
		transfers = append(transfers, transferFrom(testPair, fmt.Sprintf("0x%02d", i)))
	}

	extractor := NewBuyerExtractor(newFakeChecker(), 3, 4)
	buyers := extractor.Extract(context.Background(), transfers, testPair)

	assert.Equal(t, []string{"0x00", "0x01", "0x02"}, buyers)
}

func TestExtractCapCountsOnlyWallets(t *testing.T) {
	checker := newFakeChecker()
	checker.contracts["0x00"] = true

	var transfers []types.TransferEvent
	for i := 0; i < 5; i++ {
		transfers = append(transfers, transferFrom(testPair, fmt.Sprintf("0x%02d", i)))
	}

	extractor := NewBuyerExtractor(checker, 3, 4)
	buyers := extractor.Extract(context.Background(), transfers, testPair)

	// The contract at position 0 doesn't consume a slot.
	assert.Equal(t, []string{"0x01", "0x02", "0x03"}, buyers)
}

func TestExtractNoCandidates(t *testing.T) {
	transfers := []types.TransferEvent{
		transferFrom("0xsomeone", "0xelse"),
	}

	checker := newFakeChecker()
	extractor := NewBuyerExtractor(checker, 200, 4)
	buyers := extractor.Extract(context.Background(), transfers, testPair)

	assert.Empty(t, buyers)
	assert.Zero(t, checker.checkCount())
}

func TestExtractOrderStableUnderConcurrency(t *testing.T) {
	var transfers []types.TransferEvent
	want := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		addr := fmt.Sprintf("0x%040x", i+1)
		transfers = append(transfers, transferFrom(testPair, addr))
		want = append(want, addr)
	}

	// High concurrency so completion order scrambles; output order must not.
	extractor := NewBuyerExtractor(newFakeChecker(), 200, 16)
	buyers := extractor.Extract(context.Background(), transfers, testPair)

	assert.Equal(t, want, buyers)
}
