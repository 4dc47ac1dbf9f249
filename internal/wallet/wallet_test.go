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
	"path/filepath"
	"testing"
	"time"

	"github.com/xmrcore/walletcore/internal/address"
	"github.com/xmrcore/walletcore/internal/common"
	"github.com/xmrcore/walletcore/internal/config"
	"github.com/xmrcore/walletcore/internal/daemon"
	"github.com/xmrcore/walletcore/internal/keychain"
	"github.com/xmrcore/walletcore/internal/storage"
	"github.com/xmrcore/walletcore/internal/utxo"
)

// fakeDaemon is an in-memory daemon.Daemon double, enough to drive
// Send/ExportUnsigned without a real node.
type fakeDaemon struct {
	tip      uint64
	feePerKB uint64
	dist     daemon.OutputDistribution
	sendOK   bool
	sendErr  error
}

func newFakeDaemon(tip uint64) *fakeDaemon {
	counts := make([]uint64, tip+1)
	for i := range counts {
		counts[i] = uint64(i+1) * 500
	}
	return &fakeDaemon{
		tip:      tip,
		feePerKB: 20000,
		dist:     daemon.OutputDistribution{StartHeight: 0, Counts: counts},
		sendOK:   true,
	}
}

func (f *fakeDaemon) GetInfo(ctx context.Context) (daemon.Info, error) {
	return daemon.Info{Height: f.tip}, nil
}
func (f *fakeDaemon) GetHeight(ctx context.Context) (uint64, error) { return f.tip, nil }
func (f *fakeDaemon) GetBlock(ctx context.Context, height uint64) (daemon.Block, error) {
	return daemon.Block{Height: height}, nil
}
func (f *fakeDaemon) GetTransactions(ctx context.Context, hashesHex []string) ([][]byte, error) {
	return nil, nil
}
func (f *fakeDaemon) GetFeeEstimate(ctx context.Context) (daemon.FeeEstimate, error) {
	return daemon.FeeEstimate{FeePerByte: f.feePerKB}, nil
}
func (f *fakeDaemon) GetTransactionPool(ctx context.Context) ([]daemon.PoolTransaction, error) {
	return nil, nil
}
func (f *fakeDaemon) GetOuts(ctx context.Context, reqs []daemon.OutputRequest) ([]daemon.RingMember, error) {
	out := make([]daemon.RingMember, len(reqs))
	for i, r := range reqs {
		var fake [32]byte
		fake[0] = byte(r.GlobalIndex)
		fake[1] = byte(r.GlobalIndex >> 8)
		out[i] = daemon.RingMember{
			GlobalIndex:   r.GlobalIndex,
			PubKeyHex:     hex.EncodeToString(fake[:]),
			CommitmentHex: hex.EncodeToString(fake[:]),
			Height:        0,
			Unlocked:      true,
		}
	}
	return out, nil
}
func (f *fakeDaemon) GetOutputDistribution(ctx context.Context, toHeight uint64) (daemon.OutputDistribution, error) {
	return f.dist, nil
}
func (f *fakeDaemon) SendRawTransaction(ctx context.Context, blob []byte) (daemon.SendRawTransactionResult, error) {
	if f.sendErr != nil {
		return daemon.SendRawTransactionResult{}, f.sendErr
	}
	return daemon.SendRawTransactionResult{Accepted: f.sendOK}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.CacheDirectory = filepath.Join(t.TempDir(), "cache")
	cfg.Sync.MaxRetries = 1
	cfg.Sync.BatchSize = 10
	return cfg
}

func mustCreate(t *testing.T, d daemon.Daemon) (*Wallet, [32]byte) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wallet.keys")
	w, seed, err := Create(path, []byte("hunter2"), address.Stagenet, d, testConfig(t), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, seed
}

func TestCreateDerivesPrimaryAddress(t *testing.T) {
	w, _ := mustCreate(t, newFakeDaemon(1000))

	addr, err := w.PrimaryAddress()
	if err != nil {
		t.Fatalf("PrimaryAddress: %v", err)
	}
	decoded, err := address.Decode(addr)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Network != address.Stagenet || decoded.Kind != address.Standard {
		t.Fatalf("unexpected address: %+v", decoded)
	}
}

func TestOpenRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.keys")
	d := newFakeDaemon(100)
	cfg := testConfig(t)

	w1, _, err := Create(path, []byte("correct horse"), address.Mainnet, d, cfg, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	addr1, _ := w1.PrimaryAddress()
	if err := w1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	w2, err := Open(path, []byte("correct horse"), address.Mainnet, d, cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer w2.Close()
	addr2, _ := w2.PrimaryAddress()
	if addr1 != addr2 {
		t.Fatalf("address changed across reopen: %s != %s", addr1, addr2)
	}

	if _, err := Open(path, []byte("wrong password"), address.Mainnet, d, cfg, nil); err != storage.ErrWrongPassword {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestRestoreFromMnemonic(t *testing.T) {
	d := newFakeDaemon(100)
	cfg := testConfig(t)

	path1 := filepath.Join(t.TempDir(), "a.keys")
	w1, seed, err := Create(path1, []byte("pw"), address.Mainnet, d, cfg, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	addr1, _ := w1.PrimaryAddress()
	w1.Close()

	phrase := keychain.Mnemonic(seed)
	path2 := filepath.Join(t.TempDir(), "b.keys")
	w2, err := Restore(path2, []byte("pw2"), phrase, address.Mainnet, d, cfg, nil, 500)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	defer w2.Close()

	addr2, _ := w2.PrimaryAddress()
	if addr1 != addr2 {
		t.Fatalf("restored address mismatch: %s != %s", addr1, addr2)
	}
	if w2.SyncHeight() != 500 {
		t.Fatalf("expected restore height 500, got %d", w2.SyncHeight())
	}
}

func TestCreateAccountAddsDistinctAddress(t *testing.T) {
	w, _ := mustCreate(t, newFakeDaemon(100))

	primary, _ := w.PrimaryAddress()
	acct, err := w.CreateAccount("savings")
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if acct.Index != 1 {
		t.Fatalf("expected account index 1, got %d", acct.Index)
	}
	addr, err := w.Address(acct.Index, 0)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	if addr == primary {
		t.Fatalf("new account address collided with primary")
	}
	decoded, err := address.Decode(addr)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != address.Subaddress {
		t.Fatalf("expected Subaddress kind, got %v", decoded.Kind)
	}
}

func TestBalanceBucketsByConfirmation(t *testing.T) {
	w, _ := mustCreate(t, newFakeDaemon(1000))
	if err := w.store.SetSyncHeight(1000); err != nil {
		t.Fatalf("SetSyncHeight: %v", err)
	}

	seedOutput(t, w, "aa", "1000000000000", 990, 0, false) // unlocked (10 confirmations back)
	seedOutput(t, w, "bb", "2000000000000", 995, 0, false) // pending (too fresh)
	seedOutput(t, w, "cc", "3000000000000", 0, 0, false)   // mempool
	seedOutput(t, w, "dd", "4000000000000", 900, 0, true)  // spent, excluded

	bal, err := w.Balance(-1)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if bal.Total.String() != "6000000000000" {
		t.Fatalf("unexpected total: %s", bal.Total.String())
	}
	if bal.Unlocked.String() != "1000000000000" {
		t.Fatalf("unexpected unlocked: %s", bal.Unlocked.String())
	}
	if bal.Pending.String() != "2000000000000" {
		t.Fatalf("unexpected pending: %s", bal.Pending.String())
	}
	if bal.Mempool.String() != "3000000000000" {
		t.Fatalf("unexpected mempool: %s", bal.Mempool.String())
	}
}

func seedOutput(t *testing.T, w *Wallet, keyImageHex, amount string, height uint64, globalIndex uint64, spent bool) {
	t.Helper()
	seedOutputUnlockTime(t, w, keyImageHex, amount, height, globalIndex, spent, 0)
}

func seedOutputUnlockTime(t *testing.T, w *Wallet, keyImageHex, amount string, height uint64, globalIndex uint64, spent bool, unlockTime uint64) {
	t.Helper()
	var ki, pk [32]byte
	copy(ki[:], mustHex(t, keyImageHex+"00000000000000000000000000000000000000000000000000000000"))
	pk = ki
	out := storage.StoredOutput{
		KeyImageHex:  hex.EncodeToString(ki[:]),
		OutPubKeyHex: hex.EncodeToString(pk[:]),
		Amount:       amount,
		GlobalIndex:  globalIndex,
		Height:       height,
		Spent:        spent,
		UnlockTime:   unlockTime,
	}
	if err := w.store.PutOutput(out); err != nil {
		t.Fatalf("seed output: %v", err)
	}
}

// TestBalanceUnlockTimeAsTimestamp covers spec.md's Glossary distinction
// between a height-form and timestamp-form unlock_time: a value at or
// above utxo.UnlockTimeTimestampThreshold is real-world Unix seconds,
// not a block height, and must be compared against wall-clock time.
// Before this, any timestamp-form unlock_time (always far larger than
// any real height) was compared against the sync height and so could
// never unlock.
func TestBalanceUnlockTimeAsTimestamp(t *testing.T) {
	w, _ := mustCreate(t, newFakeDaemon(1000))
	if err := w.store.SetSyncHeight(1000); err != nil {
		t.Fatalf("SetSyncHeight: %v", err)
	}

	past := uint64(time.Now().Add(-time.Hour).Unix())
	future := uint64(time.Now().Add(time.Hour).Unix())
	if past < utxo.UnlockTimeTimestampThreshold || future < utxo.UnlockTimeTimestampThreshold {
		t.Fatalf("test timestamps must exceed UnlockTimeTimestampThreshold")
	}

	seedOutputUnlockTime(t, w, "ee", "1000000000000", 900, 0, false, past)   // past timestamp: unlocked
	seedOutputUnlockTime(t, w, "ff", "2000000000000", 900, 0, false, future) // future timestamp: still locked

	bal, err := w.Balance(-1)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if bal.Unlocked.String() != "1000000000000" {
		t.Fatalf("unexpected unlocked: %s", bal.Unlocked.String())
	}
	if bal.Pending.String() != "2000000000000" {
		t.Fatalf("unexpected pending: %s", bal.Pending.String())
	}
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex decode %q: %v", s, err)
	}
	return b
}

func TestSendNoCandidates(t *testing.T) {
	w, _ := mustCreate(t, newFakeDaemon(1000))
	addr, _ := w.PrimaryAddress()

	_, err := w.Send(context.Background(), SendRequest{
		Account:      0,
		Destinations: []SendDestination{{Address: addr, Amount: common.NewAmount(1)}},
	})
	if err != ErrNoCandidates {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestSendBuildsAndRelays(t *testing.T) {
	w, _ := mustCreate(t, newFakeDaemon(1000))
	if err := w.store.SetSyncHeight(1000); err != nil {
		t.Fatalf("SetSyncHeight: %v", err)
	}
	seedOutput(t, w, "ee", "50000000000000", 900, 1000, false)

	destAddr, _ := w.PrimaryAddress()
	result, err := w.Send(context.Background(), SendRequest{
		Account: 0,
		Destinations: []SendDestination{
			{Address: destAddr, Amount: common.NewAmount(1_000_000_000_000)},
		},
		Relay: true,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result.Relay == nil || !result.Relay.Accepted {
		t.Fatalf("expected accepted relay result, got %+v", result.Relay)
	}

	outputs, err := w.ListOutputs()
	if err != nil {
		t.Fatalf("ListOutputs: %v", err)
	}
	if len(outputs) != 1 || !outputs[0].Spent {
		t.Fatalf("expected the spent input marked, got %+v", outputs)
	}

	txs := w.ListTransactions()
	if len(txs) != 1 || txs[0].Direction != storage.DirectionOut {
		t.Fatalf("expected one recorded outgoing transaction, got %+v", txs)
	}
}

func TestSendViewOnlyRejected(t *testing.T) {
	d := newFakeDaemon(100)
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "wallet.keys")

	w, _, err := Create(path, []byte("pw"), address.Mainnet, d, cfg, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	keys := w.keys
	w.Close()

	viewOnlyKeys := keychain.ViewOnlyKeys(keys)
	vw := &Wallet{keys: viewOnlyKeys, network: address.Mainnet, d: d, cfg: cfg}
	_, err = vw.Send(context.Background(), SendRequest{
		Destinations: []SendDestination{{Address: "x", Amount: common.NewAmount(1)}},
	})
	if err != ErrNoSpendKey {
		t.Fatalf("expected ErrNoSpendKey, got %v", err)
	}
}

func TestAddressBookRejectsWrongNetwork(t *testing.T) {
	w, _ := mustCreate(t, newFakeDaemon(100))
	mainnetAddr := address.Encode(address.Address{Network: address.Mainnet, Kind: address.Standard})
	if _, err := w.AddAddressBookEntry(mainnetAddr, "friend"); err == nil {
		t.Fatalf("expected wrong-network rejection")
	}

	sameNetAddr, _ := w.PrimaryAddress()
	id, err := w.AddAddressBookEntry(sameNetAddr, "me")
	if err != nil {
		t.Fatalf("AddAddressBookEntry: %v", err)
	}
	entries := w.ListAddressBook()
	if len(entries) != 1 || entries[0].ID != id {
		t.Fatalf("unexpected address book state: %+v", entries)
	}
}
