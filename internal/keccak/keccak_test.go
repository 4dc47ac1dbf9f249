package keccak

import (
	"encoding/hex"
	"testing"
)

func TestSum256KnownVector(t *testing.T) {
	// Legacy Keccak-256 of the empty string (NOT the FIPS-202 SHA3-256
	// value, which differs due to the padding change spec.md §4.2 calls out).
	want := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a47"
	got := Sum256(nil)
	if hex.EncodeToString(got[:]) != want {
		t.Fatalf("Sum256(empty) = %x, want %s", got, want)
	}
}

func TestSum256MultiArgConcatenates(t *testing.T) {
	a := Sum256([]byte("hello"), []byte("world"))
	b := Sum256([]byte("helloworld"))
	if a != b {
		t.Fatalf("Sum256 variadic args did not concatenate: %x vs %x", a, b)
	}
}

func TestVarIntRoundTripShape(t *testing.T) {
	cases := map[uint64][]byte{
		0:   {0x00},
		1:   {0x01},
		127: {0x7f},
		128: {0x80, 0x01},
		300: {0xac, 0x02},
	}
	for in, want := range cases {
		got := VarInt(in)
		if len(got) != len(want) {
			t.Fatalf("VarInt(%d) = %x, want %x", in, got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("VarInt(%d) = %x, want %x", in, got, want)
			}
		}
	}
}
