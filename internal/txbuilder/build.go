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

package txbuilder

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"

	"github.com/xmrcore/walletcore/internal/common"
	"github.com/xmrcore/walletcore/internal/curve"
	"github.com/xmrcore/walletcore/internal/decoy"
	"github.com/xmrcore/walletcore/internal/keccak"
	"github.com/xmrcore/walletcore/internal/utxo"
)

// ErrNoDestinations is returned by Build when called with an empty
// destination list.
var ErrNoDestinations = errors.New("txbuilder: at least one destination is required")

// ErrInsufficientFunds is returned by Build when the UTXO selector
// cannot cover the requested destinations plus fee from the supplied
// candidates.
var ErrInsufficientFunds = errors.New("txbuilder: insufficient spendable funds")

// txVersion is the version Build emits; version 2
// transactions always carry a RingCT signature (spec.md §6.1).
const txVersion = 2

// Destination is one payment output: the recipient's public key pair
// and the amount to send. IsSubaddress marks recipients whose address
// was a subaddress, which Build gives a dedicated per-output tx key to
// avoid the "burning bug" that a shared r would otherwise create
// (spec.md §3 "Subaddress", §4.8).
type Destination struct {
	PubSpend     curve.Point32
	PubView      curve.Point32
	Amount       common.Amount
	IsSubaddress bool
}

// BuildRequest bundles everything Build needs to assemble a
// transaction (spec.md §4.8).
type BuildRequest struct {
	Candidates    []utxo.Candidate
	CurrentHeight uint64
	// CurrentTime is Unix seconds, used to evaluate a candidate's
	// unlock_time when it is a timestamp rather than a height.
	CurrentTime int64
	Destinations []Destination

	// ChangeSpend/ChangeView receive any leftover amount after fee.
	// Required even when no change is expected, since the exact fee
	// (and therefore whether change is nonzero) isn't known until
	// after selection.
	ChangeSpend         curve.Point32
	ChangeView          curve.Point32
	ChangeIsSubaddress  bool

	// PaymentID, when set, is encrypted against the first
	// destination's shared secret and carried in extra as an
	// integrated-address nonce.
	PaymentID *[8]byte

	RCTType     uint8
	Strategy    utxo.Strategy
	MaxInputs   int
	EstimateFee utxo.FeeEstimator

	Dist        decoy.OutputDistribution
	MinDecoyAge uint64
	DecoyRng    *rand.Rand
}

// BuildResult is everything a caller needs to submit, persist, and
// display the assembled transaction (spec.md §4.8 step 8).
type BuildResult struct {
	Tx     Transaction
	Blob   []byte
	Hash   [32]byte
	Fee    common.Amount
	Change common.Amount
	// Rings holds, per input in the same order as Tx.Inputs, the full
	// sorted ring of global output indices (real + decoys).
	Rings [][]uint64
}

type plannedOutput struct {
	pubSpend     curve.Point32
	pubView      curve.Point32
	amount       common.Amount
	isSubaddress bool
	isChange     bool
}

// Build implements the transaction-assembly algorithm of spec.md
// §4.8: select inputs, assemble decoy rings, derive stealth one-time
// output keys and Pedersen commitments, frame the extra field, and
// serialize the canonical binary blob.
func Build(req BuildRequest) (*BuildResult, error) {
	if len(req.Destinations) == 0 {
		return nil, ErrNoDestinations
	}

	target := common.NewAmount(0)
	for _, d := range req.Destinations {
		target = target.Add(d.Amount)
	}

	sel, err := utxo.Select(req.Candidates, req.CurrentHeight, req.CurrentTime, target, req.Strategy, req.MaxInputs, req.EstimateFee)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: select inputs: %w", err)
	}
	if sel == nil {
		return nil, ErrInsufficientFunds
	}

	spent, err := sel.Total.Sub(target)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: total did not cover target (selector invariant violated): %w", err)
	}
	change, err := spent.Sub(sel.Fee)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: total did not cover fee (selector invariant violated): %w", err)
	}

	outputs := make([]plannedOutput, 0, len(req.Destinations)+1)
	for _, d := range req.Destinations {
		outputs = append(outputs, plannedOutput{pubSpend: d.PubSpend, pubView: d.PubView, amount: d.Amount, isSubaddress: d.IsSubaddress})
	}
	if !change.IsZero() {
		outputs = append(outputs, plannedOutput{pubSpend: req.ChangeSpend, pubView: req.ChangeView, amount: change, isSubaddress: req.ChangeIsSubaddress, isChange: true})
	}

	inputs, rings, err := buildInputs(sel.Inputs, req.CurrentHeight, req.Dist, req.MinDecoyAge, req.DecoyRng)
	if err != nil {
		return nil, err
	}

	txOutputs, rct, extra, err := buildOutputsAndSignature(outputs, req.RCTType, req.PaymentID)
	if err != nil {
		return nil, err
	}
	rct.Fee = mustUint64(sel.Fee)
	// A production prover attaches one sound CLSAG ring signature per
	// input; the placeholder here only reserves its framing slot so the
	// blob's non-proof structure is byte-exact (spec.md §4.8, §9).
	for range inputs {
		rct.CLSAGs = append(rct.CLSAGs, PlaceholderCLSAG{Data: make([]byte, 0)})
	}

	tx := Transaction{
		Version:    txVersion,
		UnlockTime: 0,
		Inputs:     inputs,
		Outputs:    txOutputs,
		Extra:      extra,
		RCT:        rct,
	}

	blob := tx.Serialize()
	hash := keccak.Sum256(blob)

	return &BuildResult{
		Tx:     tx,
		Blob:   blob,
		Hash:   hash,
		Fee:    sel.Fee,
		Change: change,
		Rings:  rings,
	}, nil
}

func buildInputs(candidates []utxo.Candidate, currentHeight uint64, dist decoy.OutputDistribution, minDecoyAge uint64, rng *rand.Rand) ([]Input, [][]uint64, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(cryptoSeed()))
	}

	inputs := make([]Input, 0, len(candidates))
	rings := make([][]uint64, 0, len(candidates))
	for _, c := range candidates {
		ring, err := decoy.SelectRing(c.GlobalIndex, currentHeight, dist, minDecoyAge, 0, rng)
		if err != nil {
			return nil, nil, fmt.Errorf("txbuilder: select decoy ring for input %d: %w", c.GlobalIndex, err)
		}
		inputs = append(inputs, Input{KeyOffsetDeltas: deltaEncode(ring), KeyImage: c.KeyImage})
		rings = append(rings, ring)
	}
	return inputs, rings, nil
}

// deltaEncode converts an ascending-sorted ring of global indices into
// the wire representation: the first member absolute, each subsequent
// member the difference from its predecessor (spec.md §4.8 step 2).
func deltaEncode(ring []uint64) []uint64 {
	out := make([]uint64, len(ring))
	var prev uint64
	for i, v := range ring {
		if i == 0 {
			out[i] = v
		} else {
			out[i] = v - prev
		}
		prev = v
	}
	return out
}

func buildOutputsAndSignature(outputs []plannedOutput, rctType uint8, rawPaymentID *[8]byte) ([]Output, *RCTSignature, []byte, error) {
	r, err := randomScalar()
	if err != nil {
		return nil, nil, nil, err
	}
	txPubKey, err := curve.ScalarMultBase(r)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("txbuilder: derive tx public key: %w", err)
	}

	txOutputs := make([]Output, 0, len(outputs))
	additional := make([]curve.Point32, 0, len(outputs))
	anySubaddress := false

	rct := &RCTSignature{Type: rctType}
	var encryptedPaymentID *[8]byte

	for j, o := range outputs {
		var sharedSecret curve.Point32
		var additionalKey curve.Point32

		if o.isSubaddress {
			anySubaddress = true
			rj, err := randomScalar()
			if err != nil {
				return nil, nil, nil, err
			}
			sharedSecret, err = curve.ScalarMult(rj, o.pubView)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("txbuilder: output %d shared secret: %w", j, err)
			}
			additionalKey, err = curve.ScalarMult(rj, o.pubSpend)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("txbuilder: output %d additional pubkey: %w", j, err)
			}
		} else {
			sharedSecret, err = curve.ScalarMult(r, o.pubView)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("txbuilder: output %d shared secret: %w", j, err)
			}
			additionalKey = txPubKey
		}
		additional = append(additional, additionalKey)

		idxVarint := keccak.VarInt(uint64(j))
		h := curve.ScalarReduce32(keccak.Sum256(sharedSecret[:], idxVarint))
		hG, err := curve.ScalarMultBase(h)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("txbuilder: output %d one-time key: %w", j, err)
		}
		oneTimeKey, err := curve.PointAdd(hG, o.pubSpend)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("txbuilder: output %d one-time key: %w", j, err)
		}

		viewTagHash := keccak.Sum256([]byte("view_tag"), sharedSecret[:], idxVarint)

		txOutputs = append(txOutputs, Output{PubKey: oneTimeKey, HasViewTag: true, ViewTag: viewTagHash[0]})

		amount, ok := o.amount.Uint64()
		if !ok {
			return nil, nil, nil, fmt.Errorf("txbuilder: output %d amount exceeds 64 bits", j)
		}
		var amountBytes [8]byte
		binary.LittleEndian.PutUint64(amountBytes[:], amount)
		amountMaskHash := keccak.Sum256([]byte("amount"), sharedSecret[:], idxVarint)
		var encAmt [8]byte
		for i := range encAmt {
			encAmt[i] = amountBytes[i] ^ amountMaskHash[i]
		}
		rct.EncryptedAmounts = append(rct.EncryptedAmounts, encAmt)

		mask := curve.ScalarReduce32(keccak.Sum256([]byte("commitment_mask"), sharedSecret[:], idxVarint))
		maskG, err := curve.ScalarMultBase(mask)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("txbuilder: output %d commitment mask: %w", j, err)
		}
		var amountScalar curve.Scalar32
		binary.LittleEndian.PutUint64(amountScalar[:8], amount)
		amountH, err := curve.ScalarMult(amountScalar, curve.PedersenH)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("txbuilder: output %d commitment: %w", j, err)
		}
		commitment, err := curve.PointAdd(maskG, amountH)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("txbuilder: output %d commitment: %w", j, err)
		}
		rct.Commitments = append(rct.Commitments, commitment)

		if !o.isChange && rawPaymentID != nil && encryptedPaymentID == nil {
			enc := EncryptPaymentID(sharedSecret, *rawPaymentID)
			encryptedPaymentID = &enc
		}
	}

	var extraAdditional []curve.Point32
	if anySubaddress {
		extraAdditional = additional
	}
	extra := buildExtra(txPubKey, extraAdditional, encryptedPaymentID)

	return txOutputs, rct, extra, nil
}

func keccakPIDMask(sharedSecret curve.Point32) [8]byte {
	h := keccak.Sum256([]byte("PID"), sharedSecret[:])
	var out [8]byte
	copy(out[:], h[:8])
	return out
}

func randomScalar() (curve.Scalar32, error) {
	var wide [64]byte
	if _, err := crand.Read(wide[:]); err != nil {
		return curve.Scalar32{}, fmt.Errorf("txbuilder: generate random scalar: %w", err)
	}
	return curve.ScalarReduce(wide), nil
}

// cryptoSeed draws a math/rand seed from the CSPRNG, used only when a
// caller doesn't supply its own decoy-selection *rand.Rand.
func cryptoSeed() int64 {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]))
}

func mustUint64(a common.Amount) uint64 {
	v, ok := a.Uint64()
	if !ok {
		panic("txbuilder: fee exceeds 64 bits")
	}
	return v
}
