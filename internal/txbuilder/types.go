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

// Package txbuilder assembles and (de)serializes Monero transactions:
// stealth one-time output keys, Pedersen commitments, ring assembly
// with delta-encoded key offsets, and the canonical binary wire format
// (spec.md §4.8, §6.1).
package txbuilder

import (
	"github.com/xmrcore/walletcore/internal/curve"
)

// RingCT signature-envelope types (spec.md §6.1's per_output_ecdh note).
// Only the three "new" types (8-byte encrypted-amount ecdh entries) are
// produced by Build; older types are accepted by Deserialize for
// completeness.
const (
	RCTTypeFull           = 2
	RCTTypeBulletproof     = 3
	RCTTypeBulletproof2    = 4
	RCTTypeCLSAG           = 5
	RCTTypeBulletproofPlus = 6
)

func usesShortEcdh(rctType byte) bool {
	return rctType == RCTTypeBulletproof2 || rctType == RCTTypeCLSAG || rctType == RCTTypeBulletproofPlus
}

const (
	txInToKeyTag = 0x02
	txInGenTag   = 0xFF

	txOutToKeyTag    = 0x02
	txOutToTaggedKey = 0x03

	extraTagPubKey           = 0x01
	extraTagNonce            = 0x02
	extraTagAdditionalPubKeys = 0x04

	encryptedPaymentIDNonceTag = 0x01
	encryptedPaymentIDLen      = 9 // tag byte + 8-byte masked payment id
)

// Input is a transaction input spending one key image against a ring
// of decoy/real outputs, identified by ascending-sorted, delta-encoded
// global indices (spec.md §3 "Transaction", §6.1).
type Input struct {
	KeyOffsetDeltas []uint64 // first entry absolute, rest relative deltas
	KeyImage        curve.Point32
}

// Output is a transaction output: a one-time public key and, for
// RingCT outputs with view tags, the 1-byte fast-scan tag.
type Output struct {
	PubKey     curve.Point32
	ViewTag    byte
	HasViewTag bool
}

// RCTSignature is the RingCT envelope attached to a version>=2,
// non-coinbase transaction.
type RCTSignature struct {
	Type uint8
	Fee  uint64

	// EncryptedAmounts holds the 8-byte ecdh entries for the "new" RCT
	// types (Bulletproof2/CLSAG/BulletproofPlus). Populated when
	// usesShortEcdh(Type).
	EncryptedAmounts [][8]byte
	// LegacyMasks/LegacyAmounts hold the older 32-byte mask/amount ecdh
	// pair, populated only when !usesShortEcdh(Type).
	LegacyMasks   [][32]byte
	LegacyAmounts [][32]byte

	Commitments []curve.Point32

	RangeProof PlaceholderRangeProof
	CLSAGs     []PlaceholderCLSAG
}

// PlaceholderRangeProof stands in for a sound Bulletproofs+ range
// proof. The wire framing around it (a length-prefixed byte blob) is
// byte-exact; the contents are not a cryptographically valid proof.
// Integrators targeting mainnet acceptance must substitute a real
// prover.
type PlaceholderRangeProof struct {
	Data []byte
}

// PlaceholderCLSAG stands in for a sound per-input CLSAG ring
// signature, with the same framing caveat as PlaceholderRangeProof.
type PlaceholderCLSAG struct {
	Data []byte
}

// Transaction is a fully assembled Monero transaction, ready for
// canonical serialization (spec.md §6.1).
type Transaction struct {
	Version    uint64
	UnlockTime uint64
	Inputs     []Input
	Outputs    []Output
	Extra      []byte
	RCT        *RCTSignature // nil iff Version < 2 (pre-RingCT, not produced by Build)
}
