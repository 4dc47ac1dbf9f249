package base58

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
		bytes.Repeat([]byte{0xAB}, 8),
		bytes.Repeat([]byte{0xCD}, 69), // matches a standard Monero address payload length
	}
	for _, data := range cases {
		enc := Encode(data)
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v", enc, err)
		}
		if !bytes.Equal(dec, data) {
			t.Fatalf("round trip mismatch: got %x want %x", dec, data)
		}
	}
}

func TestDecodeRejectsInvalidTrailingBlockLength(t *testing.T) {
	// 4 valid-alphabet characters: 4 has no entry in the decode table
	// {0,2,3,5,6,7,9,10,11} (see DESIGN.md for why this implementation's
	// length-10 behavior differs from spec.md §8's boundary example).
	s := "1111"
	if _, err := Decode(s); err != ErrFormat {
		t.Fatalf("expected ErrFormat for length-4 trailing block, got %v", err)
	}
}

func TestDecodeAcceptsAllValidTrailingBlockLengths(t *testing.T) {
	for n := 1; n <= 7; n++ {
		data := bytes.Repeat([]byte{0x42}, n)
		enc := Encode(data)
		if _, err := Decode(enc); err != nil {
			t.Fatalf("Decode rejected a valid %d-byte trailing block (encoded len %d): %v", n, len(enc), err)
		}
	}
}

func TestDecodeRejectsUnknownCharacters(t *testing.T) {
	if _, err := Decode("0OIl"); err != ErrFormat {
		t.Fatalf("expected ErrFormat for non-alphabet characters, got %v", err)
	}
}
