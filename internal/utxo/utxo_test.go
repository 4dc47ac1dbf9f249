package utxo

import (
	"testing"

	"github.com/xmrcore/walletcore/internal/common"
)

func flatFee(perInput common.Amount) FeeEstimator {
	return func(nInputs, nOutputs int) common.Amount {
		total := common.NewAmount(0)
		for i := 0; i < nInputs; i++ {
			total = total.Add(perInput)
		}
		return total
	}
}

func candidate(amount uint64, height uint64) Candidate {
	return Candidate{Amount: common.NewAmount(amount), BlockHeight: height}
}

func TestSelectSmallestFirstAccumulatesAscending(t *testing.T) {
	candidates := []Candidate{
		candidate(5, 100),
		candidate(1, 100),
		candidate(3, 100),
		candidate(10, 100),
	}
	sel, err := Select(candidates, 200, 0, common.NewAmount(6), SmallestFirst, MaxInputs, flatFee(common.NewAmount(0)))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel == nil {
		t.Fatalf("expected a selection, got nil")
	}
	// ascending: 1, 3, 5 sums to 9 >= 6, stopping at 3 inputs.
	if len(sel.Inputs) != 3 {
		t.Fatalf("expected 3 inputs, got %d", len(sel.Inputs))
	}
	if want := uint64(9); func() uint64 { v, _ := sel.Total.Uint64(); return v }() != want {
		t.Fatalf("total = %s, want %d", sel.Total, want)
	}
}

func TestSelectReturnsNilOnInsufficientFunds(t *testing.T) {
	candidates := []Candidate{candidate(1, 100)}
	sel, err := Select(candidates, 200, 0, common.NewAmount(1000), SmallestFirst, MaxInputs, flatFee(common.NewAmount(0)))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel != nil {
		t.Fatalf("expected nil selection for insufficient funds, got %+v", sel)
	}
}

func TestFilterExcludesUnconfirmedFrozenAndSpent(t *testing.T) {
	candidates := []Candidate{
		candidate(5, 0),   // unconfirmed
		{Amount: common.NewAmount(5), BlockHeight: 100, Frozen: true},
		{Amount: common.NewAmount(5), BlockHeight: 100, Spent: true},
		candidate(5, 195), // not enough confirmations yet at height 200
		candidate(5, 100), // spendable
	}
	sel, err := Select(candidates, 200, 0, common.NewAmount(5), SmallestFirst, MaxInputs, flatFee(common.NewAmount(0)))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel == nil || len(sel.Inputs) != 1 {
		t.Fatalf("expected exactly 1 spendable candidate selected, got %+v", sel)
	}
	if sel.Inputs[0].BlockHeight != 100 {
		t.Fatalf("wrong candidate selected: %+v", sel.Inputs[0])
	}
}

func TestSweepAllProducesNilWhenFeeExceedsTotal(t *testing.T) {
	candidates := []Candidate{candidate(1, 100)}
	sel, err := SweepAll(candidates, 200, 0, MaxInputs, flatFee(common.NewAmount(5)))
	if err != nil {
		t.Fatalf("SweepAll: %v", err)
	}
	if sel != nil {
		t.Fatalf("expected nil when fee exceeds total, got %+v", sel)
	}
}

func TestSweepAllSelectsLargestCandidates(t *testing.T) {
	candidates := []Candidate{candidate(1, 100), candidate(9, 100), candidate(5, 100)}
	sel, err := SweepAll(candidates, 200, 0, 2, flatFee(common.NewAmount(0)))
	if err != nil {
		t.Fatalf("SweepAll: %v", err)
	}
	if sel == nil || len(sel.Inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %+v", sel)
	}
	if got, _ := sel.Total.Uint64(); got != 14 {
		t.Fatalf("total = %d, want 14", got)
	}
}

func TestUnlockedTreatsSmallValuesAsHeight(t *testing.T) {
	if !Unlocked(150, 150, 0) {
		t.Fatalf("expected height-form unlock_time of 150 to be unlocked at height 150")
	}
	if Unlocked(150, 149, 0) {
		t.Fatalf("expected height-form unlock_time of 150 to still be locked at height 149")
	}
}

func TestUnlockedTreatsLargeValuesAsTimestamp(t *testing.T) {
	future := int64(UnlockTimeTimestampThreshold) + 1_000_000
	if Unlocked(uint64(future), 10_000_000, future-1) {
		t.Fatalf("expected timestamp-form unlock_time to still be locked before it arrives")
	}
	if !Unlocked(uint64(future), 10_000_000, future) {
		t.Fatalf("expected timestamp-form unlock_time to be unlocked once currentTime reaches it")
	}
}

func TestUnlockedZeroIsAlwaysUnlocked(t *testing.T) {
	if !Unlocked(0, 0, 0) {
		t.Fatalf("expected zero unlock_time to always be unlocked")
	}
}

func TestFilterSpendableRespectsTimestampUnlockTime(t *testing.T) {
	lockedTimestamp := uint64(UnlockTimeTimestampThreshold) + 5000
	candidates := []Candidate{
		{Amount: common.NewAmount(7), BlockHeight: 100, UnlockTime: lockedTimestamp},
		{Amount: common.NewAmount(7), BlockHeight: 100, UnlockTime: lockedTimestamp - 1},
	}

	// Before the timestamp arrives, only the already-past unlock_time
	// candidate is spendable.
	sel, err := Select(candidates, 200, int64(lockedTimestamp)-1, common.NewAmount(1), SmallestFirst, MaxInputs, flatFee(common.NewAmount(0)))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel == nil || len(sel.Inputs) != 1 || sel.Inputs[0].UnlockTime != lockedTimestamp-1 {
		t.Fatalf("expected only the unlocked-by-timestamp candidate selected, got %+v", sel)
	}

	// Once currentTime reaches the larger unlock_time, both are
	// spendable. Before this fix, a timestamp-form unlock_time (always
	// far larger than any real block height) was compared against
	// currentHeight and so could never unlock.
	sel, err = Select(candidates, 200, int64(lockedTimestamp), common.NewAmount(1), SmallestFirst, MaxInputs, flatFee(common.NewAmount(0)))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel == nil || len(sel.Inputs) != 1 {
		t.Fatalf("expected a selection, got %+v", sel)
	}
}
