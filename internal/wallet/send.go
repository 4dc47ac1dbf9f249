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

package wallet

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/xmrcore/walletcore/internal/address"
	"github.com/xmrcore/walletcore/internal/common"
	"github.com/xmrcore/walletcore/internal/daemon"
	"github.com/xmrcore/walletcore/internal/keychain"
	"github.com/xmrcore/walletcore/internal/storage"
	"github.com/xmrcore/walletcore/internal/txbuilder"
	"github.com/xmrcore/walletcore/internal/utxo"
)

// Fee-estimation shape constants (spec.md §4.6's
// fee_per_byte*(overhead+n_in*input_size+n_out*output_size) formula).
// These approximate a CLSAG/Bulletproof+ ring-16 transaction's weight
// contribution per input and per output; they are a planning estimate
// only, not a consensus rule — the daemon's own relay check has the
// final word.
const (
	txOverheadBytes = 600
	perInputBytes   = 1500
	perOutputBytes  = 180
)

// ErrNoCandidates is returned by Send when the wallet has no spendable
// outputs for the requested account.
var ErrNoCandidates = errors.New("wallet: no spendable outputs")

// ErrUnknownAddress wraps an address.Decode failure encountered while
// resolving a SendRequest.
var ErrUnknownAddress = errors.New("wallet: invalid destination address")

// SendDestination is one payment the caller wants included in a
// transaction.
type SendDestination struct {
	Address string
	Amount  common.Amount
}

// SendRequest bundles everything Send needs beyond the wallet's own
// state.
type SendRequest struct {
	Account      uint32
	Destinations []SendDestination
	PaymentID    *[8]byte
	Strategy     utxo.Strategy
	Sweep        bool // ignore Destinations[0].Amount and send everything

	RCTType     uint8
	MinDecoyAge uint64

	// Relay, when true, submits the assembled transaction to the
	// daemon and records it; when false, Send only builds and returns
	// the result (for ExportUnsigned's offline-signing path).
	Relay bool
}

// SendResult is everything Send produces: the assembled transaction
// plus, when req.Relay was set, the daemon's verdict.
type SendResult struct {
	Build *txbuilder.BuildResult
	Relay *daemon.SendRawTransactionResult
}

// builtSend is the shared core Send and ExportUnsigned both run:
// resolve destinations, select inputs, assemble the transaction. It
// never submits anything.
type builtSend struct {
	built   *txbuilder.BuildResult
	spent   []utxo.Candidate
	debited common.Amount
}

// Send assembles a transaction spending from account per req (spec.md
// §4.6 selection, §4.7 decoys, §4.8 assembly), optionally submitting
// and recording it. A caller doing offline signing instead should call
// ExportUnsigned, which shares this same assembly path but requires no
// private spend key.
func (w *Wallet) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if w.ViewOnly() {
		return nil, ErrNoSpendKey
	}
	result, err := w.sendUnchecked(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &SendResult{Build: result.built}
	if !req.Relay {
		return out, nil
	}

	relayRes, err := w.submit(ctx, result.built, result.spent, req.Account, result.debited)
	if err != nil {
		return out, err
	}
	out.Relay = &relayRes
	return out, nil
}

// sendUnchecked runs the selection/assembly path without the
// ViewOnly/Relay gating Send applies, so ExportUnsigned can reuse it
// against a watch-only wallet.
func (w *Wallet) sendUnchecked(ctx context.Context, req SendRequest) (*builtSend, error) {
	if len(req.Destinations) == 0 {
		return nil, txbuilder.ErrNoDestinations
	}

	w.mu.RLock()
	keys := w.keys
	network := w.network
	d := w.d
	w.mu.RUnlock()

	dests, err := resolveDestinations(req.Destinations, network)
	if err != nil {
		return nil, err
	}

	candidates, err := w.candidatesForSpend(int(req.Account))
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	currentHeight := w.SyncHeight()
	currentTime := time.Now().Unix()

	fee, err := d.GetFeeEstimate(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet: fetch fee estimate: %w", err)
	}
	estimateFee := func(nInputs, nOutputs int) common.Amount {
		bytes := txOverheadBytes + nInputs*perInputBytes + nOutputs*perOutputBytes
		return common.NewAmount(fee.FeePerByte * uint64(bytes))
	}

	target := common.NewAmount(0)
	for _, dd := range dests {
		target = target.Add(dd.Amount)
	}

	var selection *utxo.Selection
	if req.Sweep {
		selection, err = utxo.SweepAll(candidates, currentHeight, currentTime, utxo.MaxInputs, estimateFee)
	} else {
		selection, err = utxo.Select(candidates, currentHeight, currentTime, target, req.Strategy, utxo.MaxInputs, estimateFee)
	}
	if err != nil {
		return nil, fmt.Errorf("wallet: select inputs: %w", err)
	}
	if selection == nil {
		return nil, txbuilder.ErrInsufficientFunds
	}
	buildFee := estimateFee
	if req.Sweep {
		// Build re-runs selection over these inputs; price it for the
		// single sweep output so the remainder plus fee equals the total.
		buildFee = func(nInputs, _ int) common.Amount { return estimateFee(nInputs, 1) }
		remainder, err := selection.Total.Sub(selection.Fee)
		if err != nil {
			return nil, txbuilder.ErrInsufficientFunds
		}
		dests[0].Amount = remainder
		req.Destinations[0].Amount = remainder
		target = remainder
	}

	changeSub, err := keychain.DeriveSubaddress(keys, req.Account, 0)
	if err != nil {
		return nil, fmt.Errorf("wallet: derive change subaddress: %w", err)
	}

	dist, err := d.GetOutputDistribution(ctx, currentHeight)
	if err != nil {
		return nil, fmt.Errorf("wallet: fetch output distribution: %w", err)
	}

	rctType := req.RCTType
	if rctType == 0 {
		rctType = txbuilder.RCTTypeBulletproofPlus
	}
	rng, err := seededRand()
	if err != nil {
		return nil, err
	}

	built, err := txbuilder.Build(txbuilder.BuildRequest{
		Candidates:         selection.Inputs,
		CurrentHeight:      currentHeight,
		CurrentTime:        currentTime,
		Destinations:       dests,
		ChangeSpend:        changeSub.PubSpend,
		ChangeView:         changeSub.PubView,
		ChangeIsSubaddress: req.Account != 0,
		PaymentID:          req.PaymentID,
		RCTType:            rctType,
		Strategy:           req.Strategy,
		MaxInputs:          utxo.MaxInputs,
		EstimateFee:        buildFee,
		Dist:               distributionAdapter{dist},
		MinDecoyAge:        req.MinDecoyAge,
		DecoyRng:           rng,
	})
	if err != nil {
		return nil, err
	}

	return &builtSend{built: built, spent: selection.Inputs, debited: target.Add(built.Fee)}, nil
}

// submit relays built to the daemon and, on acceptance, marks spent
// the candidates it consumed and records the outgoing transaction
// (spec.md §4.8 step 8, §3's StoredTransaction lifecycle).
func (w *Wallet) submit(ctx context.Context, built *txbuilder.BuildResult, spent []utxo.Candidate, major uint32, debited common.Amount) (daemon.SendRawTransactionResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	res, err := w.d.SendRawTransaction(ctx, built.Blob)
	if err != nil {
		return daemon.SendRawTransactionResult{}, fmt.Errorf("wallet: relay transaction: %w", err)
	}
	if !res.Accepted {
		return res, fmt.Errorf("wallet: transaction rejected: %s", res.Reason)
	}

	hashHex := hex.EncodeToString(built.Hash[:])
	netAmount := "-" + debited.String()

	tx := storage.StoredTransaction{
		HashHex:   hashHex,
		Fee:       built.Fee.String(),
		Direction: storage.DirectionOut,
		Major:     major,
		NetAmount: netAmount,
	}
	if err := w.store.PutTransaction(tx); err != nil {
		return res, fmt.Errorf("wallet: record sent transaction: %w", err)
	}

	for _, c := range spent {
		o, err := w.store.GetOutput(hex.EncodeToString(c.KeyImage[:]))
		if err != nil {
			continue
		}
		o.Spent = true
		o.SpendingTxHashHex = hashHex
		if err := w.store.PutOutput(o); err != nil {
			return res, fmt.Errorf("wallet: mark output spent: %w", err)
		}
	}

	return res, nil
}

func resolveDestinations(in []SendDestination, network address.Network) ([]txbuilder.Destination, error) {
	out := make([]txbuilder.Destination, 0, len(in))
	for _, d := range in {
		addr, err := address.Decode(d.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnknownAddress, d.Address, err)
		}
		if addr.Network != network {
			return nil, fmt.Errorf("%w: %s: wrong network", ErrUnknownAddress, d.Address)
		}
		out = append(out, txbuilder.Destination{
			PubSpend:     addr.PubSpend,
			PubView:      addr.PubView,
			Amount:       d.Amount,
			IsSubaddress: addr.Kind == address.Subaddress,
		})
	}
	return out, nil
}

// distributionAdapter satisfies decoy.OutputDistribution over a single
// fetched daemon.OutputDistribution curve.
type distributionAdapter struct {
	dist daemon.OutputDistribution
}

func (a distributionAdapter) CumulativeOutputsAt(height uint64) uint64 {
	if len(a.dist.Counts) == 0 {
		return 0
	}
	if height < a.dist.StartHeight {
		return 0
	}
	offset := height - a.dist.StartHeight
	if offset >= uint64(len(a.dist.Counts)) {
		offset = uint64(len(a.dist.Counts) - 1)
	}
	return a.dist.Counts[offset]
}

// seededRand returns a *rand.Rand seeded from crypto/rand, for the
// non-cryptographic gamma sampling decoy.SelectRing performs (spec.md
// §4.7's age distribution does not need a CSPRNG, only the underlying
// decoy global-index draw already routes through it).
func seededRand() (*rand.Rand, error) {
	var seedBytes [8]byte
	if _, err := crand.Read(seedBytes[:]); err != nil {
		return nil, fmt.Errorf("wallet: seed decoy rng: %w", err)
	}
	seed := int64(binary.BigEndian.Uint64(seedBytes[:]))
	if seed < 0 {
		seed = -seed
	}
	return rand.New(rand.NewSource(seed)), nil
}
