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

// Package address encodes and decodes Monero's Base58 address format
// (spec.md §3 "Address", §4.3 "Address Codec").
package address

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/xmrcore/walletcore/internal/base58"
	"github.com/xmrcore/walletcore/internal/keccak"
)

// Network selects which prefix table row an address is framed under.
type Network int

const (
	Mainnet Network = iota
	Stagenet
	Testnet
)

// Kind distinguishes a standard address from a subaddress or an
// integrated (payment-ID-carrying) address.
type Kind int

const (
	Standard Kind = iota
	Subaddress
	Integrated
)

// prefixes[net][kind] is the single-byte network/type tag (spec.md §4.3).
var prefixes = [3][3]byte{
	Mainnet:  {Standard: 18, Subaddress: 42, Integrated: 19},
	Stagenet: {Standard: 24, Subaddress: 36, Integrated: 25},
	Testnet:  {Standard: 53, Subaddress: 63, Integrated: 54},
}

var prefixLookup map[byte]struct {
	Network Network
	Kind    Kind
}

func init() {
	prefixLookup = make(map[byte]struct {
		Network Network
		Kind    Kind
	})
	for net := Mainnet; net <= Testnet; net++ {
		for kind := Standard; kind <= Integrated; kind++ {
			prefixLookup[prefixes[net][kind]] = struct {
				Network Network
				Kind    Kind
			}{net, kind}
		}
	}
}

// ErrChecksum is returned when an address's trailing 4-byte checksum
// does not match its prefix and payload.
var ErrChecksum = errors.New("address: checksum mismatch")

// ErrUnknownPrefix is returned when the leading byte does not match any
// known network/kind combination.
var ErrUnknownPrefix = errors.New("address: unknown network/type prefix")

// ErrPayloadLength is returned when a decoded payload's length doesn't
// match what its kind requires.
var ErrPayloadLength = errors.New("address: unexpected payload length")

// Address is a decoded Monero address: a public spend/view key pair,
// optionally carrying an 8-byte payment ID when Kind == Integrated.
type Address struct {
	Network   Network
	Kind      Kind
	PubSpend  [32]byte
	PubView   [32]byte
	PaymentID [8]byte // valid only when Kind == Integrated
}

// Encode renders a into its Base58 string form.
func Encode(a Address) string {
	payload := make([]byte, 0, 72)
	payload = append(payload, a.PubSpend[:]...)
	payload = append(payload, a.PubView[:]...)
	if a.Kind == Integrated {
		payload = append(payload, a.PaymentID[:]...)
	}

	prefix := prefixes[a.Network][a.Kind]
	framed := make([]byte, 0, 1+len(payload)+4)
	framed = append(framed, prefix)
	framed = append(framed, payload...)

	sum := keccak.Sum256(framed)
	framed = append(framed, sum[:4]...)
	return base58.Encode(framed)
}

// Decode parses and validates a Base58 address string, verifying its
// checksum in constant time before returning.
func Decode(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("address: decode: %w", err)
	}
	if len(raw) < 1+32+32+4 {
		return Address{}, ErrPayloadLength
	}

	body, checksum := raw[:len(raw)-4], raw[len(raw)-4:]
	want := keccak.Sum256(body)
	if subtle.ConstantTimeCompare(checksum, want[:4]) != 1 {
		return Address{}, ErrChecksum
	}

	prefix := body[0]
	meta, ok := prefixLookup[prefix]
	if !ok {
		return Address{}, ErrUnknownPrefix
	}

	payload := body[1:]
	wantLen := 64
	if meta.Kind == Integrated {
		wantLen = 72
	}
	if len(payload) != wantLen {
		return Address{}, ErrPayloadLength
	}

	var out Address
	out.Network = meta.Network
	out.Kind = meta.Kind
	copy(out.PubSpend[:], payload[0:32])
	copy(out.PubView[:], payload[32:64])
	if meta.Kind == Integrated {
		copy(out.PaymentID[:], payload[64:72])
	}
	return out, nil
}
