// Copyright 2023 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package utxo selects spendable outputs for a transaction (spec.md
// §4.6). Selection never errors on insufficient funds: it returns a nil
// *Selection so callers can retry with a different Strategy.
package utxo

import (
	"math/rand"
	"sort"

	"github.com/xmrcore/walletcore/internal/common"
	"github.com/xmrcore/walletcore/internal/curve"
	"github.com/xmrcore/walletcore/internal/scanner"
)

// MinConfirmations is the protocol-minimum confirmation depth a
// candidate output must clear before it is spendable.
const MinConfirmations = 10

// MaxInputs is the protocol-maximum number of inputs a transaction may
// spend.
const MaxInputs = 16

// UnlockTimeTimestampThreshold is the boundary real Monero uses to
// decide how to interpret an output's unlock_time (spec.md's Glossary
// entry for unlock_time): values below it are a block height, values
// at or above it are a Unix timestamp.
const UnlockTimeTimestampThreshold = 500_000_000

// Unlocked reports whether unlockTime has passed: a zero unlockTime is
// always unlocked, a value below UnlockTimeTimestampThreshold is
// compared against currentHeight, and anything else is compared
// against currentTime (Unix seconds).
func Unlocked(unlockTime, currentHeight uint64, currentTime int64) bool {
	if unlockTime == 0 {
		return true
	}
	if unlockTime < UnlockTimeTimestampThreshold {
		return currentHeight >= unlockTime
	}
	return currentTime >= int64(unlockTime)
}

// Candidate is a stored output as presented to the selector: enough of
// spec.md §3's StoredOutput fields to filter and rank it.
type Candidate struct {
	KeyImage    curve.Point32
	OutPubKey   curve.Point32
	Amount      common.Amount
	GlobalIndex uint64
	BlockHeight uint64 // 0 means still in the mempool (unconfirmed)
	Owner       scanner.SubaddressIndex
	Spent       bool
	Frozen      bool
	UnlockTime  uint64
}

// Strategy selects the order in which spendable candidates are
// considered by the greedy accumulation loop.
type Strategy int

const (
	SmallestFirst Strategy = iota
	LargestFirst
	ClosestMatch
	Random
)

// FeeEstimator computes the fee for a candidate transaction shape. The
// wallet domain's default implementation is
// fee_per_byte * (overhead + n_in*input_size + n_out*output_size)
// (spec.md §4.6); it is injected here so callers can plug in a
// daemon-sourced fee_per_byte.
type FeeEstimator func(nInputs, nOutputs int) common.Amount

// Selection is the result of a successful Select or SweepAll call.
type Selection struct {
	Inputs []Candidate
	Total  common.Amount
	Fee    common.Amount
}

// Select filters candidates for spendability at currentHeight and
// currentTime (Unix seconds, for timestamp-form unlock_time), orders
// them per strategy, and greedily accumulates inputs (up to maxInputs)
// until the total covers target plus the estimated fee. It returns nil
// (not an error) if no combination of available candidates suffices.
func Select(candidates []Candidate, currentHeight uint64, currentTime int64, target common.Amount, strategy Strategy, maxInputs int, estimateFee FeeEstimator) (*Selection, error) {
	if maxInputs <= 0 || maxInputs > MaxInputs {
		maxInputs = MaxInputs
	}

	spendable := filterSpendable(candidates, currentHeight, currentTime)
	ordered := orderByStrategy(spendable, target, strategy)

	var picked []Candidate
	total := common.NewAmount(0)
	for _, c := range ordered {
		if len(picked) >= maxInputs {
			break
		}
		picked = append(picked, c)
		total = total.Add(c.Amount)

		fee := estimateFee(len(picked), 2)
		need := target.Add(fee)
		if total.Cmp(need) >= 0 {
			return &Selection{Inputs: picked, Total: total, Fee: fee}, nil
		}
	}
	return nil, nil
}

// SweepAll selects up to maxInputs of the largest spendable candidates
// and produces a single-output selection whose amount is total minus
// fee. It returns nil if that amount would be zero or negative.
func SweepAll(candidates []Candidate, currentHeight uint64, currentTime int64, maxInputs int, estimateFee FeeEstimator) (*Selection, error) {
	if maxInputs <= 0 || maxInputs > MaxInputs {
		maxInputs = MaxInputs
	}

	spendable := filterSpendable(candidates, currentHeight, currentTime)
	sort.Slice(spendable, func(i, j int) bool {
		return spendable[i].Amount.Cmp(spendable[j].Amount) > 0
	})
	if len(spendable) > maxInputs {
		spendable = spendable[:maxInputs]
	}

	total := common.NewAmount(0)
	for _, c := range spendable {
		total = total.Add(c.Amount)
	}
	fee := estimateFee(len(spendable), 1)
	remainder, err := total.Sub(fee)
	if err != nil || remainder.IsZero() {
		return nil, nil
	}
	return &Selection{Inputs: spendable, Total: total, Fee: fee}, nil
}

func filterSpendable(candidates []Candidate, currentHeight uint64, currentTime int64) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if c.Spent || c.Frozen {
			continue
		}
		if c.BlockHeight == 0 {
			continue // unconfirmed
		}
		if currentHeight < c.BlockHeight || currentHeight-c.BlockHeight < MinConfirmations {
			continue
		}
		if !Unlocked(c.UnlockTime, currentHeight, currentTime) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func orderByStrategy(candidates []Candidate, target common.Amount, strategy Strategy) []Candidate {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)

	switch strategy {
	case SmallestFirst:
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].Amount.Cmp(ordered[j].Amount) < 0
		})
	case LargestFirst:
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].Amount.Cmp(ordered[j].Amount) > 0
		})
	case ClosestMatch:
		sort.Slice(ordered, func(i, j int) bool {
			return absDiff(ordered[i].Amount, target).Cmp(absDiff(ordered[j].Amount, target)) < 0
		})
	case Random:
		rand.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}
	return ordered
}

func absDiff(a, target common.Amount) common.Amount {
	if a.Cmp(target) >= 0 {
		d, _ := a.Sub(target)
		return d
	}
	d, _ := target.Sub(a)
	return d
}
