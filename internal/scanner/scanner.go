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

// Package scanner recognizes which outputs in a transaction belong to a
// wallet, driven entirely by the private view key (spec.md §4.5). It
// holds no state of its own: every call takes a subaddress table and
// returns a fresh slice of recognized outputs to the caller, which owns
// persisting them.
package scanner

import (
	"encoding/binary"

	"github.com/xmrcore/walletcore/internal/curve"
	"github.com/xmrcore/walletcore/internal/keccak"
)

// SubaddressTable maps a subaddress's public spend key to its (major,
// minor) index pair, precomputed by the caller for a configured
// (M_max, m_max) range.
type SubaddressTable map[curve.Point32]SubaddressIndex

// SubaddressIndex is a (major, minor) account/address pair.
type SubaddressIndex struct {
	Major uint32
	Minor uint32
}

// Output is one output slot of a transaction as presented to the
// scanner: its one-time public key, its position within the
// transaction, an optional view tag, and — for RingCT transactions —
// the data needed to recover the amount and commitment mask.
type Output struct {
	Index         int
	OneTimeKey    curve.Point32
	HasViewTag    bool
	ViewTag       byte
	AdditionalKey *curve.Point32 // R_i, when the tx carries additional pubkeys for this output
	EncryptedAmt  [8]byte
	Commitment    curve.Point32
	HasRingCT     bool
}

// Recognized is an output the scanner determined belongs to the
// wallet.
type Recognized struct {
	Index      int
	OneTimeKey curve.Point32
	Owner      SubaddressIndex
	Amount     uint64
	Mask       curve.Scalar32
	// SharedSecretScalar is Hs(aR ‖ varint(index)), exported so a
	// caller holding the owning subaddress's private spend key can
	// recombine the output's one-time private key (and from it, the
	// key image) via keychain.DeriveOneTimePrivateKey.
	SharedSecretScalar curve.Scalar32
}

// Scan inspects every output in outs against tx public key R, private
// view key a, and table, returning the subset of
// outputs owned by the wallet. Outputs are processed independently;
// one malformed candidate (e.g. an invalid curve point) is skipped
// rather than aborting the whole scan.
func Scan(r curve.Point32, privView curve.Scalar32, table SubaddressTable, outs []Output) ([]Recognized, error) {
	var out []Recognized
	for _, o := range outs {
		rec, ok, err := scanOne(r, privView, table, o)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func scanOne(r curve.Point32, privView curve.Scalar32, table SubaddressTable, o Output) (Recognized, bool, error) {
	txPub := r
	if o.AdditionalKey != nil {
		txPub = *o.AdditionalKey
	}

	s, err := curve.ScalarMult(privView, txPub)
	if err != nil {
		// Malformed tx public key: not a fault, just not our output.
		return Recognized{}, false, nil
	}

	idxVarint := keccak.VarInt(uint64(o.Index))

	if o.HasViewTag {
		tagHash := keccak.Sum256([]byte("view_tag"), s[:], idxVarint)
		if tagHash[0] != o.ViewTag {
			return Recognized{}, false, nil
		}
	}

	hs := curve.ScalarReduce32(keccak.Sum256(s[:], idxVarint))
	hsG, err := curve.ScalarMultBase(hs)
	if err != nil {
		return Recognized{}, false, nil
	}
	d, err := curve.PointSub(o.OneTimeKey, hsG)
	if err != nil {
		return Recognized{}, false, nil
	}

	owner, ok := table[d]
	if !ok {
		return Recognized{}, false, nil
	}

	rec := Recognized{Index: o.Index, OneTimeKey: o.OneTimeKey, Owner: owner, SharedSecretScalar: hs}
	if !o.HasRingCT {
		return rec, true, nil
	}

	amountMask := keccak.Sum256([]byte("amount"), s[:], idxVarint)
	var encAmt, maskedAmt [8]byte
	copy(encAmt[:], amountMask[:8])
	for i := range maskedAmt {
		maskedAmt[i] = o.EncryptedAmt[i] ^ encAmt[i]
	}
	rec.Amount = binary.LittleEndian.Uint64(maskedAmt[:])
	rec.Mask = curve.ScalarReduce32(keccak.Sum256([]byte("commitment_mask"), s[:], idxVarint))

	if !verifyCommitment(rec.Amount, rec.Mask, o.Commitment) {
		return Recognized{}, false, nil
	}
	return rec, true, nil
}

// verifyCommitment reports whether the recovered (amount, mask)
// reproduces the Pedersen commitment amount*H + mask*G attached to the
// output (spec.md §4.5 step 6).
func verifyCommitment(amount uint64, mask curve.Scalar32, commitment curve.Point32) bool {
	var amountScalar curve.Scalar32
	binary.LittleEndian.PutUint64(amountScalar[:8], amount)

	amountH, err := curve.ScalarMult(amountScalar, curve.PedersenH)
	if err != nil {
		return false
	}
	maskG, err := curve.ScalarMultBase(mask)
	if err != nil {
		return false
	}
	recomputed, err := curve.PointAdd(maskG, amountH)
	if err != nil {
		return false
	}
	return recomputed == commitment
}

