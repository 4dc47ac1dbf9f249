package sync

import (
	"context"
	"encoding/hex"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/xmrcore/walletcore/internal/common"
	"github.com/xmrcore/walletcore/internal/config"
	"github.com/xmrcore/walletcore/internal/curve"
	"github.com/xmrcore/walletcore/internal/daemon"
	"github.com/xmrcore/walletcore/internal/keychain"
	"github.com/xmrcore/walletcore/internal/scanner"
	"github.com/xmrcore/walletcore/internal/storage"
	"github.com/xmrcore/walletcore/internal/synccache"
	"github.com/xmrcore/walletcore/internal/txbuilder"
	"github.com/xmrcore/walletcore/internal/utxo"
)

// fakeDaemon is an in-memory daemon.Daemon double keyed by block
// height, enough to drive the sync loop without a real node.
type fakeDaemon struct {
	tip    uint64
	blocks map[uint64]daemon.Block
	txs    map[string][]byte
}

func newFakeDaemon() *fakeDaemon {
	return &fakeDaemon{blocks: map[uint64]daemon.Block{}, txs: map[string][]byte{}}
}

func blockHash(height uint64, salt byte) [32]byte {
	var h [32]byte
	h[0] = salt
	h[1] = byte(height)
	h[2] = byte(height >> 8)
	return h
}

func (f *fakeDaemon) putBlock(height uint64, salt byte, txHashesHex []string) {
	f.blocks[height] = daemon.Block{
		Height:      height,
		Hash:        blockHash(height, salt),
		TxHashesHex: txHashesHex,
	}
	if height > f.tip {
		f.tip = height
	}
}

func (f *fakeDaemon) GetInfo(ctx context.Context) (daemon.Info, error) {
	return daemon.Info{Height: f.tip}, nil
}

func (f *fakeDaemon) GetHeight(ctx context.Context) (uint64, error) { return f.tip, nil }

func (f *fakeDaemon) GetBlock(ctx context.Context, height uint64) (daemon.Block, error) {
	return f.blocks[height], nil
}

func (f *fakeDaemon) GetTransactions(ctx context.Context, hashesHex []string) ([][]byte, error) {
	out := make([][]byte, 0, len(hashesHex))
	for _, h := range hashesHex {
		if blob, ok := f.txs[h]; ok {
			out = append(out, blob)
		}
	}
	return out, nil
}

func (f *fakeDaemon) GetFeeEstimate(ctx context.Context) (daemon.FeeEstimate, error) {
	return daemon.FeeEstimate{}, nil
}

func (f *fakeDaemon) GetTransactionPool(ctx context.Context) ([]daemon.PoolTransaction, error) {
	return nil, nil
}

func (f *fakeDaemon) GetOuts(ctx context.Context, reqs []daemon.OutputRequest) ([]daemon.RingMember, error) {
	return nil, nil
}

func (f *fakeDaemon) GetOutputDistribution(ctx context.Context, toHeight uint64) (daemon.OutputDistribution, error) {
	return daemon.OutputDistribution{}, nil
}

func (f *fakeDaemon) SendRawTransaction(ctx context.Context, blob []byte) (daemon.SendRawTransactionResult, error) {
	return daemon.SendRawTransactionResult{}, nil
}

func keypair(seedByte byte) (priv curve.Scalar32, pub curve.Point32) {
	priv[0] = seedByte
	pub, _ = curve.ScalarMultBase(priv)
	return priv, pub
}

func flatFee(nIn, nOut int) common.Amount {
	return common.NewAmount(uint64(10_000*(nIn+nOut)) + 50_000)
}

type flatDistribution struct{ perBlock uint64 }

func (d flatDistribution) CumulativeOutputsAt(height uint64) uint64 {
	return (height + 1) * d.perBlock
}

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	st, err := storage.Open(filepath.Join(t.TempDir(), "wallet.keys"), []byte("hunter2"), true)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestCache(t *testing.T) *synccache.Cache {
	t.Helper()
	c, err := synccache.Open(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("synccache.Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// buildIncomingTx assembles a real, scannable RingCT transaction
// paying amount to recipient's primary address, the same way
// internal/txbuilder's own tests do.
func buildIncomingTx(t *testing.T, recipient keychain.Keys, amount uint64, seed int64) *txbuilder.Transaction {
	t.Helper()
	_, changePubView := keypair(0xa1)
	_, changePubSpend := keypair(0xa2)

	var keyImage curve.Point32
	keyImage[0] = 0xee

	candidate := utxo.Candidate{
		KeyImage:    keyImage,
		Amount:      common.NewAmount(amount * 2),
		GlobalIndex: 500_000,
		BlockHeight: 10,
	}

	req := txbuilder.BuildRequest{
		Candidates:    []utxo.Candidate{candidate},
		CurrentHeight: 200,
		Destinations: []txbuilder.Destination{
			{PubSpend: recipient.PubSpend, PubView: recipient.PubView, Amount: common.NewAmount(amount)},
		},
		ChangeSpend: changePubSpend,
		ChangeView:  changePubView,
		RCTType:     txbuilder.RCTTypeCLSAG,
		Strategy:    utxo.SmallestFirst,
		EstimateFee: flatFee,
		Dist:        flatDistribution{perBlock: 1000},
		DecoyRng:    rand.New(rand.NewSource(seed)),
	}

	result, err := txbuilder.Build(req)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	tx, err := txbuilder.Deserialize(result.Blob)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	return tx
}

func newManager(t *testing.T, d daemon.Daemon, st *storage.Storage, cache *synccache.Cache, keys keychain.Keys, table scanner.SubaddressTable) *Manager {
	t.Helper()
	return New(d, st, cache, table, keys, config.SyncConfig{
		BatchSize:      10,
		MaxRetries:     0,
		ReorgScanDepth: 100,
	})
}

func TestSyncOnceRecognizesIncomingOutputAndAdvancesHeight(t *testing.T) {
	seed := [32]byte{1, 2, 3}
	keys, err := keychain.FromSeed(seed)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	table := scanner.SubaddressTable{keys.PubSpend: {Major: 0, Minor: 0}}

	tx := buildIncomingTx(t, keys, 1_000_000_000_000, 42)
	txHash := tx.Hash()
	txHashHex := hex.EncodeToString(txHash[:])

	d := newFakeDaemon()
	d.txs[txHashHex] = tx.Serialize()
	d.putBlock(1, 0x01, []string{txHashHex})

	st := newTestStorage(t)
	cache := newTestCache(t)
	mgr := newManager(t, d, st, cache, keys, table)

	if err := mgr.syncOnce(context.Background()); err != nil {
		t.Fatalf("syncOnce: %v", err)
	}

	if st.SyncHeight() != 1 {
		t.Fatalf("sync height = %d, want 1", st.SyncHeight())
	}
	outputs := st.ListOutputs()
	if len(outputs) != 1 {
		t.Fatalf("expected 1 recognized output, got %d", len(outputs))
	}
	if outputs[0].Amount != "1000000000000" {
		t.Fatalf("stored amount = %q, want 1000000000000", outputs[0].Amount)
	}
	if outputs[0].Spent {
		t.Fatalf("freshly recognized output should not be spent")
	}
}

func TestSyncOnceMarksOutputSpentByLaterInput(t *testing.T) {
	seed := [32]byte{9, 9, 9}
	keys, err := keychain.FromSeed(seed)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	table := scanner.SubaddressTable{keys.PubSpend: {Major: 0, Minor: 0}}

	incoming := buildIncomingTx(t, keys, 2_000_000_000_000, 7)
	incomingHash := incoming.Hash()
	incomingHashHex := hex.EncodeToString(incomingHash[:])

	d := newFakeDaemon()
	d.txs[incomingHashHex] = incoming.Serialize()
	d.putBlock(1, 0x01, []string{incomingHashHex})

	st := newTestStorage(t)
	cache := newTestCache(t)
	mgr := newManager(t, d, st, cache, keys, table)

	if err := mgr.syncOnce(context.Background()); err != nil {
		t.Fatalf("syncOnce (block 1): %v", err)
	}
	outputs := st.ListOutputs()
	if len(outputs) != 1 {
		t.Fatalf("expected 1 recognized output, got %d", len(outputs))
	}
	keyImageHex := outputs[0].KeyImageHex

	keyImageBytes, err := hex.DecodeString(keyImageHex)
	if err != nil {
		t.Fatalf("decode key image: %v", err)
	}
	var ki curve.Point32
	copy(ki[:], keyImageBytes)

	_, spenderPub := keypair(0xbb)
	spendingTx := &txbuilder.Transaction{
		Version:    1,
		UnlockTime: 0,
		Inputs:     []txbuilder.Input{{KeyOffsetDeltas: []uint64{1}, KeyImage: ki}},
		Outputs:    nil,
		Extra:      append([]byte{0x01}, spenderPub[:]...),
	}
	spendingHash := spendingTx.Hash()
	spendingHashHex := hex.EncodeToString(spendingHash[:])
	d.txs[spendingHashHex] = spendingTx.Serialize()
	d.putBlock(2, 0x02, []string{spendingHashHex})

	if err := mgr.syncOnce(context.Background()); err != nil {
		t.Fatalf("syncOnce (block 2): %v", err)
	}

	out, err := st.GetOutput(keyImageHex)
	if err != nil {
		t.Fatalf("GetOutput: %v", err)
	}
	if !out.Spent {
		t.Fatalf("expected output to be marked spent")
	}
	if out.SpendingTxHashHex != spendingHashHex {
		t.Fatalf("SpendingTxHashHex = %q, want %q", out.SpendingTxHashHex, spendingHashHex)
	}
}

func TestReconcileReorgRollsBackToForkPoint(t *testing.T) {
	d := newFakeDaemon()
	for h := uint64(100); h <= 110; h++ {
		d.putBlock(h, 0x10, nil)
	}

	st := newTestStorage(t)
	cache := newTestCache(t)
	for h := uint64(100); h <= 110; h++ {
		if err := cache.PutBlockHash(h, d.blocks[h].Hash); err != nil {
			t.Fatalf("PutBlockHash: %v", err)
		}
	}
	if err := st.SetSyncHeight(110); err != nil {
		t.Fatalf("SetSyncHeight: %v", err)
	}

	// Simulate the daemon's chain having reorganized at height 108: its
	// hash (and everything cached at or above it) no longer matches
	// what was persisted.
	forked := d.blocks[108]
	forked.Hash[31] ^= 0xff
	d.blocks[108] = forked

	seed := [32]byte{5}
	keys, err := keychain.FromSeed(seed)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	table := scanner.SubaddressTable{keys.PubSpend: {Major: 0, Minor: 0}}
	mgr := newManager(t, d, st, cache, keys, table)

	if err := mgr.reconcileReorg(context.Background()); err != nil {
		t.Fatalf("reconcileReorg: %v", err)
	}

	select {
	case ev := <-mgr.Events():
		if ev.Kind != EventReorgDetected {
			t.Fatalf("expected EventReorgDetected, got %v", ev.Kind)
		}
		if ev.ForkPoint != 108 || ev.PriorHeight != 110 {
			t.Fatalf("ForkPoint/PriorHeight = %d/%d, want 108/110", ev.ForkPoint, ev.PriorHeight)
		}
	default:
		t.Fatalf("expected a ReorgDetected event")
	}

	if st.SyncHeight() != 107 {
		t.Fatalf("sync height after rollback = %d, want 107", st.SyncHeight())
	}
	if _, err := cache.GetBlockHash(108); err == nil {
		t.Fatalf("expected cached hash at 108 to be discarded")
	}
	if _, err := cache.GetBlockHash(107); err != nil {
		t.Fatalf("expected cached hash at 107 to survive: %v", err)
	}
}

func TestStopBeforeStartIsANoOp(t *testing.T) {
	d := newFakeDaemon()
	seed := [32]byte{2}
	keys, err := keychain.FromSeed(seed)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	table := scanner.SubaddressTable{keys.PubSpend: {Major: 0, Minor: 0}}

	st := newTestStorage(t)
	cache := newTestCache(t)
	mgr := newManager(t, d, st, cache, keys, table)

	mgr.Stop() // must return immediately, not block
	if got := mgr.State(); got != StateIdle {
		t.Fatalf("state = %v, want %v", got, StateIdle)
	}
}

func TestStartReachesSyncedAgainstACaughtUpDaemon(t *testing.T) {
	d := newFakeDaemon()
	d.putBlock(1, 0x01, nil)

	seed := [32]byte{2}
	keys, err := keychain.FromSeed(seed)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	table := scanner.SubaddressTable{keys.PubSpend: {Major: 0, Minor: 0}}

	st := newTestStorage(t)
	cache := newTestCache(t)
	mgr := newManager(t, d, st, cache, keys, table)

	mgr.Start(context.Background())
	deadline := time.After(2 * time.Second)
	for mgr.State() != StateSynced {
		select {
		case <-deadline:
			t.Fatalf("manager never reached Synced, state = %v", mgr.State())
		case <-time.After(time.Millisecond):
		}
	}
	mgr.Stop()
}

