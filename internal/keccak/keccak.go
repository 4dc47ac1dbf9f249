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

// Package keccak wraps the original (pre-FIPS-202) Keccak-256 permutation
// that every Monero hash relies on. It is NOT SHA3-256: Monero uses
// Keccak's original `10*1` multi-rate padding, not FIPS 202's `0110*1`
// domain-separated padding, so golang.org/x/crypto/sha3's
// NewLegacyKeccak256 constructor is used rather than sha3.New256.
package keccak

import (
	"golang.org/x/crypto/sha3"
)

// Sum256 returns the 32-byte legacy Keccak-256 digest of data.
func Sum256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// VarInt encodes v using the base-128 little-endian varint scheme used
// throughout Monero's wire format (spec.md §6.1) and as an input to
// several hash domains (e.g. the view-tag and amount-recovery hashes,
// which append varint(output_index)).
func VarInt(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}
