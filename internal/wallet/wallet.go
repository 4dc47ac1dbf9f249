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

// Package wallet is the top-level collaborator every cmd entrypoint
// constructs: it wires keychain, storage, daemon, and sync into a
// single handle and exposes the operations spec.md's GLOSSARY groups
// under "Wallet" (create, restore, balance, send, offline export).
// Every dependency arrives through New/Create/Restore/Open rather than
// a package-level global (spec.md §9's dependency-injection note).
package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/xmrcore/walletcore/internal/address"
	"github.com/xmrcore/walletcore/internal/config"
	"github.com/xmrcore/walletcore/internal/daemon"
	"github.com/xmrcore/walletcore/internal/keychain"
	"github.com/xmrcore/walletcore/internal/scanner"
	"github.com/xmrcore/walletcore/internal/storage"
	"github.com/xmrcore/walletcore/internal/synccache"
	syncmgr "github.com/xmrcore/walletcore/internal/sync"
)

// primaryAccountLabel and primarySubaddressLabel seed a freshly created
// wallet's account 0.
const (
	primaryAccountLabel    = "Primary account"
	primarySubaddressLabel = "Primary address"
)

// spendKeyAAD and viewKeyAAD domain-separate the two private scalars'
// inner AEAD seals from one another (spec.md §4.10).
var (
	spendKeyAAD = []byte("walletcore-spend-key-v1")
	viewKeyAAD  = []byte("walletcore-view-key-v1")
)

// ErrNoSpendKey is returned by operations that need the private spend
// key against a wallet opened view-only.
var ErrNoSpendKey = errors.New("wallet: no private spend key available (view-only wallet)")

// ErrAccountExists is returned by CreateAccount for an index already in
// use.
var ErrAccountExists = errors.New("wallet: account index already exists")

// ErrUnknownAccount is returned when an operation names an account
// index the wallet has no record of.
var ErrUnknownAccount = errors.New("wallet: unknown account")

// Wallet bundles one opened keychain with its storage, daemon, and sync
// collaborators. All exported methods are safe for concurrent use.
type Wallet struct {
	mu sync.RWMutex

	keys    keychain.Keys
	network address.Network

	store *storage.Storage
	cache *synccache.Cache
	d     daemon.Daemon

	cfg *config.Config

	table    scanner.SubaddressTable
	accounts map[uint32]storage.Account

	mgr *syncmgr.Manager
}

// New wires an already-opened Storage, Cache, and Daemon into a Wallet,
// rebuilding the subaddress table from the wallet file's accounts (or
// seeding account 0 if the document is empty) and constructing its
// Sync Manager. rec, if non-nil, receives the Sync Manager's
// operational counters (spec.md §9's recorder note); pass nil when no
// metrics collaborator is wired.
func New(store *storage.Storage, cache *synccache.Cache, d daemon.Daemon, keys keychain.Keys, network address.Network, cfg *config.Config, rec syncmgr.Recorder) (*Wallet, error) {
	w := &Wallet{
		keys:     keys,
		network:  network,
		store:    store,
		cache:    cache,
		d:        d,
		cfg:      cfg,
		accounts: make(map[uint32]storage.Account),
	}

	accounts := store.ListAccounts()
	if len(accounts) == 0 {
		primary := storage.Account{
			Index:            0,
			Label:            primaryAccountLabel,
			SubaddressLabels: []string{primarySubaddressLabel},
		}
		if err := store.PutAccount(primary); err != nil {
			return nil, fmt.Errorf("wallet: seed primary account: %w", err)
		}
		accounts = []storage.Account{primary}
	}
	for _, a := range accounts {
		w.accounts[a.Index] = a
	}
	table, err := buildTable(keys, accounts)
	if err != nil {
		return nil, err
	}
	w.table = table

	w.mgr = syncmgr.New(d, store, cache, w.table, keys, cfg.Sync)
	if rec != nil {
		w.mgr.SetRecorder(rec)
	}
	return w, nil
}

// buildTable derives every (major, minor) subaddress named by accounts
// into a scanner.SubaddressTable keyed by public spend key (spec.md
// §4.5's scan-time lookup).
func buildTable(keys keychain.Keys, accounts []storage.Account) (scanner.SubaddressTable, error) {
	table := make(scanner.SubaddressTable)
	for _, a := range accounts {
		n := len(a.SubaddressLabels)
		if n == 0 {
			n = 1
		}
		for minor := 0; minor < n; minor++ {
			sub, err := keychain.DeriveSubaddress(keys, a.Index, uint32(minor))
			if err != nil {
				return nil, fmt.Errorf("wallet: derive subaddress %d/%d: %w", a.Index, minor, err)
			}
			table[sub.PubSpend] = scanner.SubaddressIndex{Major: a.Index, Minor: uint32(minor)}
		}
	}
	return table, nil
}

// Create initializes a brand-new encrypted wallet file at path under
// password, generating a fresh seed. The returned seed is shown to the
// caller exactly once (spec.md §4.1's 25-word backup requirement);
// Create does not retain a copy beyond returning it.
func Create(path string, password []byte, network address.Network, d daemon.Daemon, cfg *config.Config, rec syncmgr.Recorder) (*Wallet, [32]byte, error) {
	seed, err := keychain.GenerateSeed()
	if err != nil {
		return nil, [32]byte{}, err
	}
	w, err := createFromSeed(path, password, seed, network, d, cfg, rec, 0)
	if err != nil {
		return nil, [32]byte{}, err
	}
	return w, seed, nil
}

// Restore recreates a wallet from its 25-word mnemonic, persisting
// restoreHeight as the initial sync cursor so the Sync Manager does not
// rescan blocks confirmed before the wallet's birth (spec.md §4.1's
// restore-height note).
func Restore(path string, password []byte, mnemonicPhrase string, network address.Network, d daemon.Daemon, cfg *config.Config, rec syncmgr.Recorder, restoreHeight uint64) (*Wallet, error) {
	seed, _, err := keychain.FromMnemonic(mnemonicPhrase)
	if err != nil {
		return nil, fmt.Errorf("wallet: restore: %w", err)
	}
	return createFromSeed(path, password, seed, network, d, cfg, rec, restoreHeight)
}

func createFromSeed(path string, password []byte, seed [32]byte, network address.Network, d daemon.Daemon, cfg *config.Config, rec syncmgr.Recorder, restoreHeight uint64) (*Wallet, error) {
	keys, err := keychain.FromSeed(seed)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(path, password, true)
	if err != nil {
		return nil, err
	}
	if err := sealKeys(store, keys); err != nil {
		store.Close()
		return nil, err
	}
	if restoreHeight > 0 {
		if err := store.SetSyncHeight(restoreHeight); err != nil {
			store.Close()
			return nil, err
		}
	}

	cache, err := synccache.Open(cfg.Storage.CacheDirectory)
	if err != nil {
		store.Close()
		return nil, err
	}

	w, err := New(store, cache, d, keys, network, cfg, rec)
	if err != nil {
		cache.Close()
		store.Close()
		return nil, err
	}
	return w, nil
}

// Open decrypts an existing wallet file at path under password. If the
// stored keys carry no sealed spend scalar, the wallet opens view-only
// (spec.md §3's view-only note).
func Open(path string, password []byte, network address.Network, d daemon.Daemon, cfg *config.Config, rec syncmgr.Recorder) (*Wallet, error) {
	store, err := storage.Open(path, password, false)
	if err != nil {
		return nil, err
	}
	keys, err := unsealKeys(store)
	if err != nil {
		store.Close()
		return nil, err
	}

	cache, err := synccache.Open(cfg.Storage.CacheDirectory)
	if err != nil {
		store.Close()
		return nil, err
	}

	w, err := New(store, cache, d, keys, network, cfg, rec)
	if err != nil {
		cache.Close()
		store.Close()
		return nil, err
	}
	return w, nil
}

// sealKeys encrypts keys' private scalars into store's EncryptedKeys
// record. A view-only keychain (PrivSpend is the zero scalar) omits
// EncryptedSpendHex/SpendNonceHex entirely.
func sealKeys(store *storage.Storage, keys keychain.Keys) error {
	var rec storage.EncryptedKeys
	rec.PubSpendHex = hex.EncodeToString(keys.PubSpend[:])
	rec.PubViewHex = hex.EncodeToString(keys.PubView[:])

	viewNonce, viewCipher, err := store.Seal(viewKeyAAD, keys.PrivView[:])
	if err != nil {
		return fmt.Errorf("wallet: seal view key: %w", err)
	}
	rec.ViewNonceHex = viewNonce
	rec.EncryptedViewHex = viewCipher

	if !keys.ViewOnly() {
		spendNonce, spendCipher, err := store.Seal(spendKeyAAD, keys.PrivSpend[:])
		if err != nil {
			return fmt.Errorf("wallet: seal spend key: %w", err)
		}
		rec.SpendNonceHex = spendNonce
		rec.EncryptedSpendHex = spendCipher
	}

	return store.PutKeys(rec)
}

// unsealKeys reverses sealKeys, reconstructing a Keys value (view-only
// when the record carries no sealed spend scalar).
func unsealKeys(store *storage.Storage) (keychain.Keys, error) {
	rec := store.GetKeys()

	viewPlain, err := store.Unseal(rec.ViewNonceHex, rec.EncryptedViewHex, viewKeyAAD)
	if err != nil {
		return keychain.Keys{}, fmt.Errorf("wallet: unseal view key: %w", err)
	}
	pubSpend, err := hex.DecodeString(rec.PubSpendHex)
	if err != nil {
		return keychain.Keys{}, fmt.Errorf("wallet: decode public spend key: %w", err)
	}
	pubView, err := hex.DecodeString(rec.PubViewHex)
	if err != nil {
		return keychain.Keys{}, fmt.Errorf("wallet: decode public view key: %w", err)
	}

	keys := keychain.Keys{}
	copy(keys.PrivView[:], viewPlain)
	copy(keys.PubSpend[:], pubSpend)
	copy(keys.PubView[:], pubView)

	if rec.EncryptedSpendHex != "" {
		spendPlain, err := store.Unseal(rec.SpendNonceHex, rec.EncryptedSpendHex, spendKeyAAD)
		if err != nil {
			return keychain.Keys{}, fmt.Errorf("wallet: unseal spend key: %w", err)
		}
		copy(keys.PrivSpend[:], spendPlain)
	}
	return keys, nil
}

// ViewOnly reports whether this wallet holds a private spend key.
func (w *Wallet) ViewOnly() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.keys.ViewOnly()
}

// Close stops any running sync loop and releases the underlying
// storage file and cache.
func (w *Wallet) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mgr.Stop()
	cacheErr := w.cache.Close()
	storeErr := w.store.Close()
	if storeErr != nil {
		return storeErr
	}
	return cacheErr
}

// StartSync begins background block synchronization.
func (w *Wallet) StartSync(ctx context.Context) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	w.mgr.Start(ctx)
}

// StopSync halts the background sync loop and blocks until it has
// stopped.
func (w *Wallet) StopSync() {
	w.mu.RLock()
	defer w.mu.RUnlock()
	w.mgr.Stop()
}

// SyncState reports the Sync Manager's current state.
func (w *Wallet) SyncState() syncmgr.State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.mgr.State()
}

// SyncEvents returns the Sync Manager's event channel (spec.md §4.11's
// progress/reorg/error notifications).
func (w *Wallet) SyncEvents() <-chan syncmgr.Event {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.mgr.Events()
}

// SyncHeight returns the last persisted sync cursor.
func (w *Wallet) SyncHeight() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.store.SyncHeight()
}
