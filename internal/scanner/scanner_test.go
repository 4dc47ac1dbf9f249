package scanner

import (
	"encoding/binary"
	"testing"

	"github.com/xmrcore/walletcore/internal/curve"
	"github.com/xmrcore/walletcore/internal/keccak"
)

func testKeys(t *testing.T, seedByte byte) (privView curve.Scalar32, r curve.Point32, rScalar curve.Scalar32) {
	t.Helper()
	var rs curve.Scalar32
	rs[0] = seedByte
	rPoint, err := curve.ScalarMultBase(rs)
	if err != nil {
		t.Fatalf("ScalarMultBase: %v", err)
	}
	var pv curve.Scalar32
	pv[0] = seedByte + 1
	return pv, rPoint, rs
}

func buildOutput(t *testing.T, privView curve.Scalar32, r curve.Point32, d curve.Point32, index int) Output {
	t.Helper()
	s, err := curve.ScalarMult(privView, r)
	if err != nil {
		t.Fatalf("ScalarMult: %v", err)
	}
	idx := keccak.VarInt(uint64(index))
	hs := curve.ScalarReduce32(keccak.Sum256(s[:], idx))
	hsG, err := curve.ScalarMultBase(hs)
	if err != nil {
		t.Fatalf("ScalarMultBase: %v", err)
	}
	p, err := curve.PointAdd(hsG, d)
	if err != nil {
		t.Fatalf("PointAdd: %v", err)
	}
	return Output{Index: index, OneTimeKey: p}
}

func TestScanRecognizesOwnedOutput(t *testing.T) {
	privView, r, _ := testKeys(t, 10)

	var spendScalar curve.Scalar32
	spendScalar[0] = 5
	subSpend, err := curve.ScalarMultBase(spendScalar)
	if err != nil {
		t.Fatalf("ScalarMultBase: %v", err)
	}

	table := SubaddressTable{subSpend: SubaddressIndex{Major: 1, Minor: 5}}
	out := buildOutput(t, privView, r, subSpend, 0)

	got, err := Scan(r, privView, table, []Output{out})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 recognized output, got %d", len(got))
	}
	if got[0].Owner != (SubaddressIndex{Major: 1, Minor: 5}) {
		t.Fatalf("wrong owner: %+v", got[0].Owner)
	}
}

func TestScanSkipsUnownedOutput(t *testing.T) {
	privView, r, _ := testKeys(t, 20)

	var unrelated curve.Scalar32
	unrelated[0] = 99
	unrelatedSpend, err := curve.ScalarMultBase(unrelated)
	if err != nil {
		t.Fatalf("ScalarMultBase: %v", err)
	}

	out := buildOutput(t, privView, r, unrelatedSpend, 0)
	// table has no entry for unrelatedSpend's corresponding D.
	table := SubaddressTable{}

	got, err := Scan(r, privView, table, []Output{out})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 recognized outputs, got %d", len(got))
	}
}

func TestScanRejectsWrongViewTag(t *testing.T) {
	privView, r, _ := testKeys(t, 30)

	var spendScalar curve.Scalar32
	spendScalar[0] = 3
	subSpend, err := curve.ScalarMultBase(spendScalar)
	if err != nil {
		t.Fatalf("ScalarMultBase: %v", err)
	}

	table := SubaddressTable{subSpend: SubaddressIndex{Major: 0, Minor: 1}}
	out := buildOutput(t, privView, r, subSpend, 0)
	out.HasViewTag = true
	out.ViewTag = 0xFF // guaranteed wrong with overwhelming probability

	got, err := Scan(r, privView, table, []Output{out})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected the wrong view tag to reject the output, got %d matches", len(got))
	}
}

func TestScanRecoversRingCTAmount(t *testing.T) {
	privView, r, _ := testKeys(t, 40)

	var spendScalar curve.Scalar32
	spendScalar[0] = 8
	subSpend, err := curve.ScalarMultBase(spendScalar)
	if err != nil {
		t.Fatalf("ScalarMultBase: %v", err)
	}
	table := SubaddressTable{subSpend: SubaddressIndex{Major: 2, Minor: 0}}
	out := buildOutput(t, privView, r, subSpend, 0)
	out.HasRingCT = true

	s, err := curve.ScalarMult(privView, r)
	if err != nil {
		t.Fatalf("ScalarMult: %v", err)
	}
	idx := keccak.VarInt(0)
	const wantAmount uint64 = 123456789
	amountMaskHash := keccak.Sum256([]byte("amount"), s[:], idx)
	var amountBytes [8]byte
	binary.LittleEndian.PutUint64(amountBytes[:], wantAmount)
	for i := range out.EncryptedAmt {
		out.EncryptedAmt[i] = amountBytes[i] ^ amountMaskHash[i]
	}

	mask := curve.ScalarReduce32(keccak.Sum256([]byte("commitment_mask"), s[:], idx))
	maskG, err := curve.ScalarMultBase(mask)
	if err != nil {
		t.Fatalf("ScalarMultBase: %v", err)
	}
	var amountScalar curve.Scalar32
	binary.LittleEndian.PutUint64(amountScalar[:8], wantAmount)
	amountH, err := curve.ScalarMult(amountScalar, curve.PedersenH)
	if err != nil {
		t.Fatalf("ScalarMult: %v", err)
	}
	commitment, err := curve.PointAdd(maskG, amountH)
	if err != nil {
		t.Fatalf("PointAdd: %v", err)
	}
	out.Commitment = commitment

	got, err := Scan(r, privView, table, []Output{out})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 recognized output, got %d", len(got))
	}
	if got[0].Amount != wantAmount {
		t.Fatalf("recovered amount = %d, want %d", got[0].Amount, wantAmount)
	}
}
