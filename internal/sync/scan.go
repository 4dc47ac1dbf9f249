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

package sync

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/xmrcore/walletcore/internal/common"
	"github.com/xmrcore/walletcore/internal/curve"
	"github.com/xmrcore/walletcore/internal/keychain"
	"github.com/xmrcore/walletcore/internal/scanner"
	"github.com/xmrcore/walletcore/internal/storage"
	"github.com/xmrcore/walletcore/internal/txbuilder"
)

// processBlock fetches block height, resolves its transactions'
// blobs, scans each for owned outputs, marks any outputs spent by the
// block's inputs, and advances the persisted sync cursor. Output-spent
// bookkeeping is persisted before EventBlockProcessed fires, honoring
// spec.md §5's ordering guarantee.
func (m *Manager) processBlock(ctx context.Context, height uint64) error {
	blk, err := m.d.GetBlock(ctx, height)
	if err != nil {
		return fmt.Errorf("sync: fetching block %d: %w", height, err)
	}

	blobs, err := m.d.GetTransactions(ctx, blk.TxHashesHex)
	if err != nil {
		return fmt.Errorf("sync: fetching transactions for block %d: %w", height, err)
	}

	for _, blob := range blobs {
		tx, err := txbuilder.Deserialize(blob)
		if err != nil {
			// Coinbase and malformed blobs aren't scannable; skip rather
			// than fail the whole block.
			continue
		}
		if err := m.scanTransaction(height, tx); err != nil {
			return err
		}
	}

	if err := m.cache.PutBlockHash(height, blk.Hash); err != nil {
		return err
	}
	if err := m.store.SetSyncHeight(height); err != nil {
		return err
	}
	m.emit(Event{Kind: EventBlockProcessed, Height: height})
	return nil
}

// scanTransaction recognizes tx's own outputs and marks any already
// known output spent by tx's inputs.
func (m *Manager) scanTransaction(height uint64, tx *txbuilder.Transaction) error {
	txHash := tx.Hash()
	txHashHex := hex.EncodeToString(txHash[:])

	txPub, outs, err := convertOutputs(tx)
	if err == nil && txPub != (curve.Point32{}) {
		recognized, err := scanner.Scan(txPub, m.keys.PrivView, m.table, outs)
		if err != nil {
			return fmt.Errorf("sync: scanning tx %s: %w", txHashHex, err)
		}
		m.getRecorder().IncOutputsScanned(len(outs))
		m.getRecorder().IncOutputsRecognized(len(recognized))
		for _, rec := range recognized {
			if err := m.storeRecognizedOutput(height, txHash, txHashHex, tx.UnlockTime, rec); err != nil {
				return err
			}
		}
	}

	for _, in := range tx.Inputs {
		kiHex := hex.EncodeToString(in.KeyImage[:])
		out, err := m.store.GetOutput(kiHex)
		if err != nil {
			continue // not one of ours
		}
		if out.Spent {
			continue
		}
		out.Spent = true
		out.SpendingTxHashHex = txHashHex
		if err := m.store.PutOutput(out); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) storeRecognizedOutput(height uint64, txHash [32]byte, txHashHex string, unlockTime uint64, rec scanner.Recognized) error {
	keyImage, err := m.keyImageFor(txHash, rec)
	if err != nil {
		return err
	}

	out := storage.StoredOutput{
		KeyImageHex:  hex.EncodeToString(keyImage[:]),
		OutPubKeyHex: hex.EncodeToString(rec.OneTimeKey[:]),
		Amount:       common.NewAmount(rec.Amount).String(),
		TxHashHex:    txHashHex,
		LocalIndex:   rec.Index,
		Height:       height,
		Major:        rec.Owner.Major,
		Minor:        rec.Owner.Minor,
		UnlockTime:   unlockTime,
	}
	return m.store.PutOutput(out)
}

// keyImageFor computes the real key image when m.keys holds a private
// spend key, or a deterministic placeholder for a view-only wallet
// (spec.md §9's design note; such outputs must be excluded from spend
// candidates until a signing wallet supplies the real key image).
func (m *Manager) keyImageFor(txHash [32]byte, rec scanner.Recognized) (curve.Point32, error) {
	if m.keys.ViewOnly() {
		return keychain.PlaceholderKeyImage(txHash, rec.Index), nil
	}

	subSpend, err := keychain.DeriveSubaddressSpendKey(m.keys, rec.Owner.Major, rec.Owner.Minor)
	if err != nil {
		return curve.Point32{}, fmt.Errorf("sync: subaddress spend key: %w", err)
	}
	onetimePriv, err := keychain.DeriveOneTimePrivateKey(subSpend, rec.SharedSecretScalar)
	if err != nil {
		return curve.Point32{}, fmt.Errorf("sync: one-time private key: %w", err)
	}
	keyImage, err := keychain.DeriveKeyImage(onetimePriv, rec.OneTimeKey)
	if err != nil {
		return curve.Point32{}, fmt.Errorf("sync: key image: %w", err)
	}
	return keyImage, nil
}

// convertOutputs adapts a deserialized transaction's outputs into the
// scanner's input shape. Pre-RingCT transactions (RCT == nil) carry
// their amount in cleartext in a format this package doesn't model;
// their outputs are still offered to the scanner so a one-time key
// match is recognized, just without amount recovery.
func convertOutputs(tx *txbuilder.Transaction) (curve.Point32, []scanner.Output, error) {
	extra, err := txbuilder.ParseExtra(tx.Extra)
	if err != nil {
		return curve.Point32{}, nil, fmt.Errorf("sync: parsing tx extra: %w", err)
	}
	if extra.TxPubKey == nil {
		return curve.Point32{}, nil, nil
	}

	outs := make([]scanner.Output, 0, len(tx.Outputs))
	for i, o := range tx.Outputs {
		so := scanner.Output{
			Index:      i,
			OneTimeKey: o.PubKey,
			HasViewTag: o.HasViewTag,
			ViewTag:    o.ViewTag,
		}
		if i < len(extra.AdditionalPubKeys) {
			ap := extra.AdditionalPubKeys[i]
			so.AdditionalKey = &ap
		}
		if tx.RCT != nil && isShortEcdhType(tx.RCT.Type) &&
			i < len(tx.RCT.EncryptedAmounts) && i < len(tx.RCT.Commitments) {
			so.HasRingCT = true
			so.EncryptedAmt = tx.RCT.EncryptedAmounts[i]
			so.Commitment = tx.RCT.Commitments[i]
		}
		outs = append(outs, so)
	}
	return *extra.TxPubKey, outs, nil
}

func isShortEcdhType(rctType uint8) bool {
	switch rctType {
	case txbuilder.RCTTypeBulletproof2, txbuilder.RCTTypeCLSAG, txbuilder.RCTTypeBulletproofPlus:
		return true
	default:
		return false
	}
}
