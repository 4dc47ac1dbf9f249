package txbuilder

import (
	"bytes"
	"testing"

	"github.com/xmrcore/walletcore/internal/curve"
)

func sampleTransaction() Transaction {
	var ki, pk1, pk2, commit1, commit2 curve.Point32
	ki[0] = 0x11
	pk1[0] = 0x22
	pk2[0] = 0x33
	commit1[0] = 0x44
	commit2[0] = 0x55

	return Transaction{
		Version:    2,
		UnlockTime: 0,
		Inputs: []Input{
			{KeyOffsetDeltas: []uint64{1000, 50, 200}, KeyImage: ki},
		},
		Outputs: []Output{
			{PubKey: pk1, HasViewTag: true, ViewTag: 0x07},
			{PubKey: pk2, HasViewTag: true, ViewTag: 0x9a},
		},
		Extra: buildExtra(pk1, nil, nil),
		RCT: &RCTSignature{
			Type:             RCTTypeCLSAG,
			Fee:              12345,
			EncryptedAmounts: [][8]byte{{1, 2, 3, 4, 5, 6, 7, 8}, {9, 9, 9, 9, 9, 9, 9, 9}},
			Commitments:      []curve.Point32{commit1, commit2},
			RangeProof:       PlaceholderRangeProof{Data: []byte{0xde, 0xad}},
			CLSAGs:           []PlaceholderCLSAG{{Data: []byte{0xbe, 0xef}}},
		},
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	tx := sampleTransaction()
	blob := tx.Serialize()

	got, err := Deserialize(blob)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if got.Version != tx.Version || got.UnlockTime != tx.UnlockTime {
		t.Fatalf("header mismatch: %+v vs %+v", got, tx)
	}
	if len(got.Inputs) != 1 || got.Inputs[0].KeyImage != tx.Inputs[0].KeyImage {
		t.Fatalf("input mismatch: %+v", got.Inputs)
	}
	for i, d := range tx.Inputs[0].KeyOffsetDeltas {
		if got.Inputs[0].KeyOffsetDeltas[i] != d {
			t.Fatalf("offset delta %d mismatch: got %d want %d", i, got.Inputs[0].KeyOffsetDeltas[i], d)
		}
	}
	if len(got.Outputs) != len(tx.Outputs) {
		t.Fatalf("output count mismatch: %d vs %d", len(got.Outputs), len(tx.Outputs))
	}
	for i, o := range tx.Outputs {
		if got.Outputs[i].PubKey != o.PubKey || got.Outputs[i].ViewTag != o.ViewTag {
			t.Fatalf("output %d mismatch: got %+v want %+v", i, got.Outputs[i], o)
		}
	}
	if !bytes.Equal(got.Extra, tx.Extra) {
		t.Fatalf("extra mismatch: %x vs %x", got.Extra, tx.Extra)
	}
	if got.RCT == nil {
		t.Fatalf("expected rct signature to round-trip, got nil")
	}
	if got.RCT.Type != tx.RCT.Type || got.RCT.Fee != tx.RCT.Fee {
		t.Fatalf("rct header mismatch: %+v vs %+v", got.RCT, tx.RCT)
	}
	for i := range tx.RCT.EncryptedAmounts {
		if got.RCT.EncryptedAmounts[i] != tx.RCT.EncryptedAmounts[i] {
			t.Fatalf("ecdh %d mismatch", i)
		}
	}
	for i := range tx.RCT.Commitments {
		if got.RCT.Commitments[i] != tx.RCT.Commitments[i] {
			t.Fatalf("commitment %d mismatch", i)
		}
	}
	if !bytes.Equal(got.RCT.RangeProof.Data, tx.RCT.RangeProof.Data) {
		t.Fatalf("range proof mismatch")
	}

	blob2 := got.Serialize()
	if !bytes.Equal(blob, blob2) {
		t.Fatalf("re-serialization is not byte-exact: %x vs %x", blob2, blob)
	}
}

func TestDeserializeRejectsCoinbase(t *testing.T) {
	var buf bytes.Buffer
	writeVarInt(&buf, 2) // version
	writeVarInt(&buf, 0) // unlock_time
	writeVarInt(&buf, 1) // n_in
	buf.WriteByte(txInGenTag)
	writeVarInt(&buf, 100) // height

	_, err := Deserialize(buf.Bytes())
	if err != ErrCoinbaseUnsupported {
		t.Fatalf("expected ErrCoinbaseUnsupported, got %v", err)
	}
}

func TestDeserializeRejectsTruncatedBlob(t *testing.T) {
	tx := sampleTransaction()
	blob := tx.Serialize()
	_, err := Deserialize(blob[:len(blob)-10])
	if err == nil {
		t.Fatalf("expected an error decoding a truncated blob")
	}
}

func TestParseExtraRecoversPubKeyAndAdditional(t *testing.T) {
	var primary, add1, add2 curve.Point32
	primary[0] = 0x01
	add1[0] = 0x02
	add2[0] = 0x03

	extra := buildExtra(primary, []curve.Point32{add1, add2}, nil)
	fields, err := ParseExtra(extra)
	if err != nil {
		t.Fatalf("ParseExtra: %v", err)
	}
	if fields.TxPubKey == nil || *fields.TxPubKey != primary {
		t.Fatalf("tx pubkey mismatch: %+v", fields.TxPubKey)
	}
	if len(fields.AdditionalPubKeys) != 2 || fields.AdditionalPubKeys[0] != add1 || fields.AdditionalPubKeys[1] != add2 {
		t.Fatalf("additional pubkeys mismatch: %+v", fields.AdditionalPubKeys)
	}
}

func TestParseExtraRecoversEncryptedPaymentID(t *testing.T) {
	var primary curve.Point32
	primary[0] = 0x01
	pid := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}

	extra := buildExtra(primary, nil, &pid)
	fields, err := ParseExtra(extra)
	if err != nil {
		t.Fatalf("ParseExtra: %v", err)
	}
	if fields.EncryptedPaymentID == nil || *fields.EncryptedPaymentID != pid {
		t.Fatalf("encrypted payment id mismatch: %+v", fields.EncryptedPaymentID)
	}
}

func TestEncryptDecryptPaymentIDRoundTrip(t *testing.T) {
	var shared curve.Point32
	shared[0] = 0xab
	pid := [8]byte{9, 8, 7, 6, 5, 4, 3, 2}

	enc := EncryptPaymentID(shared, pid)
	if enc == pid {
		t.Fatalf("encrypted payment id should differ from plaintext")
	}
	dec := DecryptPaymentID(shared, enc)
	if dec != pid {
		t.Fatalf("decrypt(encrypt(pid)) = %x, want %x", dec, pid)
	}
}
