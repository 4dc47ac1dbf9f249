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

// Package decoy samples ring-member decoys over the output-age
// distribution real Monero spends follow (spec.md §4.7), so a real
// spend cannot be distinguished from its decoys by recency.
package decoy

import (
	"errors"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// RingSize is the protocol-fixed ring size (1 real output + 15 decoys).
const RingSize = 16

// DefaultMinDecoyAge is the default minimum confirmation depth a decoy
// candidate must have.
const DefaultMinDecoyAge = 10

// blocksPerDay approximates Monero's ~2-minute block time.
const blocksPerDay = 720

// gammaShape and gammaScale are the reference age-distribution
// parameters (spec.md §4.7). gonum's distuv.Gamma parameterizes by rate
// (Beta = 1/scale) rather than scale.
const (
	gammaShape = 19.28
	gammaScale = 1.0 / 1.61
)

// ErrInsufficientDecoys is returned when neither gamma sampling nor the
// uniform fallback can assemble a full ring.
var ErrInsufficientDecoys = errors.New("decoy: insufficient decoys available")

// OutputDistribution maps a block height to the cumulative count of
// RingCT outputs through that height, inclusive. Implementations are
// ultimately backed by a daemon RPC (spec.md §4.7).
type OutputDistribution interface {
	CumulativeOutputsAt(height uint64) uint64
}

// SelectRing samples RingSize-1 decoy global indices for a spend whose
// real output is at realGlobalIndex, and returns the full ring
// (decoys + the real index) sorted ascending by global index. rng
// supplies randomness for both the age distribution and the uniform
// fallback; callers that need determinism (tests) can pass a
// seeded *rand.Rand.
func SelectRing(realGlobalIndex uint64, currentHeight uint64, dist OutputDistribution, minDecoyAge uint64, attemptCap int, rng *rand.Rand) ([]uint64, error) {
	if minDecoyAge == 0 {
		minDecoyAge = DefaultMinDecoyAge
	}
	if attemptCap <= 0 {
		attemptCap = 100
	}

	cutoffHeight := uint64(0)
	if currentHeight > minDecoyAge {
		cutoffHeight = currentHeight - minDecoyAge
	}
	cutoffCount := dist.CumulativeOutputsAt(cutoffHeight)

	need := RingSize - 1
	seen := map[uint64]bool{realGlobalIndex: true}
	var decoys []uint64

	gamma := distuv.Gamma{Alpha: gammaShape, Beta: 1 / gammaScale, Src: rng}

	for attempts := 0; len(decoys) < need && attempts < attemptCap; attempts++ {
		ageDays := gamma.Rand()
		ageBlocks := uint64(ageDays*blocksPerDay + 0.5)
		if ageBlocks > currentHeight {
			continue
		}
		targetHeight := currentHeight - ageBlocks
		if targetHeight > cutoffHeight {
			continue
		}

		var cumPrev uint64
		if targetHeight > 0 {
			cumPrev = dist.CumulativeOutputsAt(targetHeight - 1)
		}
		cumAt := dist.CumulativeOutputsAt(targetHeight)
		if cumAt <= cumPrev {
			continue
		}
		idx := cumPrev + uint64(rng.Int63n(int64(cumAt-cumPrev)))
		if seen[idx] {
			continue
		}
		seen[idx] = true
		decoys = append(decoys, idx)
	}

	if len(decoys) < need && cutoffCount > 0 {
		for attempts := 0; len(decoys) < need && attempts < attemptCap; attempts++ {
			idx := uint64(rng.Int63n(int64(cutoffCount)))
			if seen[idx] {
				continue
			}
			seen[idx] = true
			decoys = append(decoys, idx)
		}
	}

	if len(decoys) < need {
		return nil, ErrInsufficientDecoys
	}

	ring := append(decoys, realGlobalIndex)
	sort.Slice(ring, func(i, j int) bool { return ring[i] < ring[j] })
	return ring, nil
}
