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

	"github.com/xmrcore/walletcore/internal/address"
	"github.com/xmrcore/walletcore/internal/keychain"
	"github.com/xmrcore/walletcore/internal/scanner"
	"github.com/xmrcore/walletcore/internal/storage"
)

// PrimaryAddress renders the wallet's (0,0) address.
func (w *Wallet) PrimaryAddress() (string, error) {
	return w.Address(0, 0)
}

// Address derives and renders the (major, minor) subaddress. (0,0)
// renders as a Standard address; any other pair renders as a
// Subaddress (spec.md §4.3).
func (w *Wallet) Address(major, minor uint32) (string, error) {
	w.mu.RLock()
	keys := w.keys
	network := w.network
	w.mu.RUnlock()

	sub, err := keychain.DeriveSubaddress(keys, major, minor)
	if err != nil {
		return "", fmt.Errorf("wallet: derive address %d/%d: %w", major, minor, err)
	}
	kind := address.Standard
	if major != 0 || minor != 0 {
		kind = address.Subaddress
	}
	return address.Encode(address.Address{
		Network:  network,
		Kind:     kind,
		PubSpend: sub.PubSpend,
		PubView:  sub.PubView,
	}), nil
}

// AccountInfo mirrors storage.Account for callers outside this package
// that should not depend on the storage schema directly.
type AccountInfo struct {
	Index            uint32
	Label            string
	SubaddressLabels []string
}

// ListAccounts returns every account the wallet tracks, ordered by
// index.
func (w *Wallet) ListAccounts() []AccountInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]AccountInfo, 0, len(w.accounts))
	for _, a := range w.accounts {
		out = append(out, AccountInfo{Index: a.Index, Label: a.Label, SubaddressLabels: append([]string(nil), a.SubaddressLabels...)})
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Index < out[i].Index {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

// CreateAccount adds a new account under the next unused major index,
// seeded with one subaddress labeled label, and rebuilds the wallet's
// own subaddress table to include it. The Sync Manager keeps the table
// it was constructed with, also across StopSync/StartSync, so it does
// not recognize outputs to the new account until the wallet is
// reopened.
func (w *Wallet) CreateAccount(label string) (AccountInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var next uint32
	for idx := range w.accounts {
		if idx >= next {
			next = idx + 1
		}
	}
	return w.addSubaddressLocked(next, storage.Account{
		Index:            next,
		Label:            label,
		SubaddressLabels: []string{label},
	})
}

// AddSubaddress appends a new minor index to an existing account,
// labeled label.
func (w *Wallet) AddSubaddress(major uint32, label string) (uint32, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.accounts[major]
	if !ok {
		return 0, ErrUnknownAccount
	}
	a.SubaddressLabels = append(a.SubaddressLabels, label)
	minor := uint32(len(a.SubaddressLabels) - 1)
	if _, err := w.addSubaddressLocked(major, a); err != nil {
		return 0, err
	}
	return minor, nil
}

// addSubaddressLocked persists a (new or updated) account and rebuilds
// the in-memory subaddress table. Caller must hold w.mu for writing.
func (w *Wallet) addSubaddressLocked(index uint32, a storage.Account) (AccountInfo, error) {
	if err := w.store.PutAccount(a); err != nil {
		return AccountInfo{}, fmt.Errorf("wallet: persist account %d: %w", index, err)
	}
	w.accounts[index] = a

	accounts := make([]storage.Account, 0, len(w.accounts))
	for _, acct := range w.accounts {
		accounts = append(accounts, acct)
	}
	table, err := buildTable(w.keys, accounts)
	if err != nil {
		return AccountInfo{}, err
	}
	w.table = table

	return AccountInfo{Index: a.Index, Label: a.Label, SubaddressLabels: append([]string(nil), a.SubaddressLabels...)}, nil
}

// subaddressIndex looks up which account/subaddress owns pubSpend, if
// any.
func (w *Wallet) subaddressIndex(pubSpend [32]byte) (scanner.SubaddressIndex, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	idx, ok := w.table[pubSpend]
	return idx, ok
}
