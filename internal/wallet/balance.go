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
	"fmt"
	"time"

	"github.com/xmrcore/walletcore/internal/common"
	"github.com/xmrcore/walletcore/internal/storage"
	"github.com/xmrcore/walletcore/internal/utxo"
)

// Balance is a wallet's total and spendable holdings as of the last
// persisted sync height.
type Balance struct {
	Total     common.Amount
	Unlocked  common.Amount
	Pending   common.Amount // confirmed but under MinConfirmations or still locked by unlock_time
	Mempool   common.Amount // unconfirmed
}

// Balance sums every unspent, unfrozen output the wallet holds,
// optionally restricted to one account (pass -1 for all accounts).
func (w *Wallet) Balance(account int) (Balance, error) {
	w.mu.RLock()
	height := w.store.SyncHeight()
	outputs := w.store.ListOutputs()
	w.mu.RUnlock()

	now := time.Now().Unix()

	var bal Balance
	bal.Total = common.NewAmount(0)
	bal.Unlocked = common.NewAmount(0)
	bal.Pending = common.NewAmount(0)
	bal.Mempool = common.NewAmount(0)

	for _, o := range outputs {
		if o.Spent || o.Frozen {
			continue
		}
		if account >= 0 && uint32(account) != o.Major {
			continue
		}
		amt, err := common.ParseAmount(o.Amount)
		if err != nil {
			return Balance{}, fmt.Errorf("wallet: corrupt stored amount for %s: %w", o.KeyImageHex, err)
		}
		bal.Total = bal.Total.Add(amt)

		switch {
		case o.Height == 0:
			bal.Mempool = bal.Mempool.Add(amt)
		case height < o.Height || height-o.Height < utxo.MinConfirmations || !utxo.Unlocked(o.UnlockTime, height, now):
			bal.Pending = bal.Pending.Add(amt)
		default:
			bal.Unlocked = bal.Unlocked.Add(amt)
		}
	}
	return bal, nil
}

// OutputInfo is a StoredOutput rendered with its amount decoded.
type OutputInfo struct {
	storage.StoredOutput
	Amount common.Amount
}

// ListOutputs returns every output the wallet has recognized, spent or
// not.
func (w *Wallet) ListOutputs() ([]OutputInfo, error) {
	w.mu.RLock()
	outputs := w.store.ListOutputs()
	w.mu.RUnlock()

	out := make([]OutputInfo, 0, len(outputs))
	for _, o := range outputs {
		amt, err := common.ParseAmount(o.Amount)
		if err != nil {
			return nil, fmt.Errorf("wallet: corrupt stored amount for %s: %w", o.KeyImageHex, err)
		}
		out = append(out, OutputInfo{StoredOutput: o, Amount: amt})
	}
	return out, nil
}

// ListTransactions returns every transaction the wallet has recorded,
// incoming and outgoing.
func (w *Wallet) ListTransactions() []storage.StoredTransaction {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.store.ListTransactions()
}

// TxNote returns the note attached to a recorded transaction, if any.
func (w *Wallet) TxNote(hashHex string) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.store.GetTxNote(hashHex)
}

// SetTxNote attaches or replaces a transaction's note.
func (w *Wallet) SetTxNote(hashHex, note string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.PutTxNote(hashHex, note)
}

// candidatesForSpend converts the wallet's stored, unspent outputs
// into utxo.Candidate values for the selector.
func (w *Wallet) candidatesForSpend(account int) ([]utxo.Candidate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []utxo.Candidate
	for _, o := range w.store.ListOutputs() {
		if o.Spent || o.Frozen {
			continue
		}
		if account >= 0 && uint32(account) != o.Major {
			continue
		}
		amt, err := common.ParseAmount(o.Amount)
		if err != nil {
			return nil, fmt.Errorf("wallet: corrupt stored amount for %s: %w", o.KeyImageHex, err)
		}
		var keyImage, outPub [32]byte
		if err := decodeHexInto(keyImage[:], o.KeyImageHex); err != nil {
			return nil, fmt.Errorf("wallet: decode key image: %w", err)
		}
		if err := decodeHexInto(outPub[:], o.OutPubKeyHex); err != nil {
			return nil, fmt.Errorf("wallet: decode output public key: %w", err)
		}
		out = append(out, utxo.Candidate{
			KeyImage:    keyImage,
			OutPubKey:   outPub,
			Amount:      amt,
			GlobalIndex: o.GlobalIndex,
			BlockHeight: o.Height,
			Owner:       scannerIndex(o.Major, o.Minor),
			Spent:       o.Spent,
			Frozen:      o.Frozen,
			UnlockTime:  o.UnlockTime,
		})
	}
	return out, nil
}
