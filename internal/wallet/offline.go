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
	"encoding/hex"
	"fmt"

	"github.com/xmrcore/walletcore/internal/common"
	"github.com/xmrcore/walletcore/internal/daemon"
	"github.com/xmrcore/walletcore/internal/offline"
	"github.com/xmrcore/walletcore/internal/storage"
	"github.com/xmrcore/walletcore/internal/utxo"
)

// PendingExport is the watch-only side's memory of an
// ExportUnsigned call: everything FinalizeSigned needs to reconcile
// and apply the eventual SignedTxExport (spec.md §4.9). The caller is
// responsible for keeping it alive between the two calls; it carries
// no secret material.
type PendingExport struct {
	Candidates []utxo.Candidate
	Account    uint32
	Debited    common.Amount
}

// ExportUnsigned builds a transaction exactly as Send would (selection,
// decoys, assembly) but stops short of relaying it, returning the
// portable envelope an air-gapped signer needs plus the bookkeeping
// FinalizeSigned will require once the signed half comes back. The
// private spend key is not required: a watch-only wallet (req against
// a view-only Wallet) can prepare the export, and only the offline
// signer needs to hold the spend key.
func (w *Wallet) ExportUnsigned(ctx context.Context, req SendRequest) (*offline.UnsignedTxExport, *PendingExport, error) {
	req.Relay = false
	result, err := w.sendUnchecked(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	w.mu.RLock()
	d := w.d
	w.mu.RUnlock()

	inputs := make([]offline.UnsignedInput, 0, len(result.spent))
	for i, c := range result.built.Tx.Inputs {
		ring := result.built.Rings[i]
		members, err := d.GetOuts(ctx, ringRequests(ring))
		if err != nil {
			return nil, nil, fmt.Errorf("wallet: fetch ring members for input %d: %w", i, err)
		}
		pubkeys := make([]string, len(members))
		commitments := make([]string, len(members))
		realIdx := -1
		for j, m := range members {
			pubkeys[j] = m.PubKeyHex
			commitments[j] = m.CommitmentHex
			if ring[j] == result.spent[i].GlobalIndex {
				realIdx = j
			}
		}
		if realIdx < 0 {
			return nil, nil, fmt.Errorf("wallet: real output %d missing from its own ring", result.spent[i].GlobalIndex)
		}
		inputs = append(inputs, offline.UnsignedInput{
			RealGlobalIndex:    result.spent[i].GlobalIndex,
			RealIndexInRing:    realIdx,
			RingPubkeysHex:     pubkeys,
			RingCommitmentsHex: commitments,
			KeyImageHex:        hex.EncodeToString(c.KeyImage[:]),
		})
	}

	outputs := make([]offline.UnsignedOutput, 0, len(result.built.Tx.Outputs))
	for i, commitment := range result.built.Tx.RCT.Commitments {
		amount := ""
		if i < len(req.Destinations) {
			amount = req.Destinations[i].Amount.String()
		} else {
			amount = result.built.Change.String()
		}
		outputs = append(outputs, offline.UnsignedOutput{
			Index:         i,
			Amount:        amount,
			CommitmentHex: hex.EncodeToString(commitment[:]),
			// MaskHex is intentionally left for the offline signer to
			// re-derive from the tx prefix and its own view key, rather
			// than carrying a commitment-mask secret through the
			// watch-only wallet before it's needed (spec.md §4.9).
		})
	}

	unsigned := offline.NewUnsignedTxExport(
		result.built.Tx.SerializePrefix(),
		result.built.Tx.PrefixHash(),
		inputs,
		outputs,
		result.built.Tx.RCT.Type,
		result.built.Fee.String(),
		result.built.Change.String(),
	)

	pending := &PendingExport{
		Candidates: result.spent,
		Account:    req.Account,
		Debited:    result.debited,
	}
	return &unsigned, pending, nil
}

// FinalizeSigned validates signed against the unsigned export it
// answers, then relays the resulting blob and records the spend
// exactly as a direct Send would have (spec.md §4.9's online-side
// reconciliation step).
func (w *Wallet) FinalizeSigned(ctx context.Context, unsigned offline.UnsignedTxExport, signed offline.SignedTxExport, pending *PendingExport) (daemon.SendRawTransactionResult, error) {
	if err := offline.Reconcile(unsigned, signed); err != nil {
		return daemon.SendRawTransactionResult{}, err
	}
	blob, err := offline.DecodeBlob(signed.TxBlobHex)
	if err != nil {
		return daemon.SendRawTransactionResult{}, err
	}
	hash, err := offline.DecodeTxHash(signed.TxHashHex)
	if err != nil {
		return daemon.SendRawTransactionResult{}, fmt.Errorf("wallet: decode signed tx hash: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	res, err := w.d.SendRawTransaction(ctx, blob)
	if err != nil {
		return daemon.SendRawTransactionResult{}, fmt.Errorf("wallet: relay signed transaction: %w", err)
	}
	if !res.Accepted {
		return res, fmt.Errorf("wallet: transaction rejected: %s", res.Reason)
	}

	hashHex := hex.EncodeToString(hash[:])
	tx := storage.StoredTransaction{
		HashHex:   hashHex,
		Fee:       signed.Fee,
		Direction: storage.DirectionOut,
		Major:     pending.Account,
		NetAmount: "-" + pending.Debited.String(),
	}
	if err := w.store.PutTransaction(tx); err != nil {
		return res, fmt.Errorf("wallet: record signed transaction: %w", err)
	}
	for _, c := range pending.Candidates {
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

func ringRequests(ring []uint64) []daemon.OutputRequest {
	out := make([]daemon.OutputRequest, len(ring))
	for i, idx := range ring {
		out[i] = daemon.OutputRequest{GlobalIndex: idx}
	}
	return out
}
