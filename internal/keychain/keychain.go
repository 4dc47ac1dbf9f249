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

// Package keychain derives a wallet's key material from a 32-byte seed
// and implements Monero's subaddress derivation (spec.md §3 "Keypair",
// "Subaddress"; §4.4 "Keychain"). It holds no back-pointer to any
// storage or sync collaborator: callers pass Keys by value to whatever
// components need them.
package keychain

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/xmrcore/walletcore/internal/curve"
	"github.com/xmrcore/walletcore/internal/keccak"
	"github.com/xmrcore/walletcore/internal/mnemonic"
)

// ErrViewOnly is returned by operations that need the private spend
// key when called against a view-only keychain.
var ErrViewOnly = errors.New("keychain: view-only keychain has no private spend key")

// subAddrDomain is the domain-separation prefix for subaddress spend-key
// derivation (spec.md §3).
var subAddrDomain = []byte("SubAddr\x00")

// Keys holds the four key-tree values a wallet needs: the two private
// scalars and their corresponding public points. PrivSpend is the zero
// scalar for a view-only keychain (see ViewOnly).
type Keys struct {
	PrivSpend curve.Scalar32
	PrivView  curve.Scalar32
	PubSpend  curve.Point32
	PubView   curve.Point32
}

// ViewOnly reports whether this keychain can scan for outputs but not
// spend them.
func (k Keys) ViewOnly() bool {
	return k.PrivSpend == (curve.Scalar32{})
}

// FromSeed derives the full keychain from a 32-byte seed: private spend
// is scalar_reduce(seed‖0^32), private view is
// scalar_reduce(keccak256(priv_spend)‖0^32), and the public keys are
// their respective base-point multiples (spec.md §4.4).
func FromSeed(seed [32]byte) (Keys, error) {
	privSpend := curve.ScalarReduce32(seed)
	privView := curve.ScalarReduce32(keccak.Sum256(privSpend[:]))

	pubSpend, err := curve.ScalarMultBase(privSpend)
	if err != nil {
		return Keys{}, fmt.Errorf("keychain: derive public spend key: %w", err)
	}
	pubView, err := curve.ScalarMultBase(privView)
	if err != nil {
		return Keys{}, fmt.Errorf("keychain: derive public view key: %w", err)
	}
	return Keys{
		PrivSpend: privSpend,
		PrivView:  privView,
		PubSpend:  pubSpend,
		PubView:   pubView,
	}, nil
}

// GenerateSeed returns 32 cryptographically random bytes suitable for
// FromSeed.
func GenerateSeed() ([32]byte, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return seed, fmt.Errorf("keychain: generate seed: %w", err)
	}
	return seed, nil
}

// Mnemonic renders seed as its 25-word representation.
func Mnemonic(seed [32]byte) string {
	return mnemonic.Encode(seed)
}

// FromMnemonic restores a seed and its derived keychain from a 25-word
// phrase.
func FromMnemonic(phrase string) ([32]byte, Keys, error) {
	seed, err := mnemonic.Decode(phrase)
	if err != nil {
		return seed, Keys{}, fmt.Errorf("keychain: restore from mnemonic: %w", err)
	}
	keys, err := FromSeed(seed)
	if err != nil {
		return seed, Keys{}, err
	}
	return seed, keys, nil
}

// ViewOnlyKeys strips the private spend key, leaving a keychain capable
// of recognizing incoming outputs but not spending them (spec.md §3
// "private view key is derived... making view-only wallets possible").
func ViewOnlyKeys(k Keys) Keys {
	k.PrivSpend = curve.Scalar32{}
	return k
}

// Subaddress is the public pair a (major, minor) account index derives
// to. For (0,0) it equals the primary address and MUST bypass
// derivation entirely (spec.md §4.4).
type Subaddress struct {
	Major    uint32
	Minor    uint32
	PubSpend curve.Point32
	PubView  curve.Point32
}

// DeriveSubaddress computes the subaddress key pair for (major, minor)
// against keychain k:
//
//	D = keccak256("SubAddr\0" ‖ priv_view ‖ M_le32 ‖ m_le32) · G + B
//	C = priv_view · D
//
// (spec.md §3 "Subaddress"). (0,0) returns the primary keys unchanged.
func DeriveSubaddress(k Keys, major, minor uint32) (Subaddress, error) {
	if major == 0 && minor == 0 {
		return Subaddress{PubSpend: k.PubSpend, PubView: k.PubView}, nil
	}

	var idx [8]byte
	binary.LittleEndian.PutUint32(idx[0:4], major)
	binary.LittleEndian.PutUint32(idx[4:8], minor)

	h := keccak.Sum256(subAddrDomain, k.PrivView[:], idx[:])
	m := curve.ScalarReduce32(h)

	mG, err := curve.ScalarMultBase(m)
	if err != nil {
		return Subaddress{}, fmt.Errorf("keychain: subaddress spend point: %w", err)
	}
	d, err := curve.PointAdd(mG, k.PubSpend)
	if err != nil {
		return Subaddress{}, fmt.Errorf("keychain: subaddress spend point: %w", err)
	}
	c, err := curve.ScalarMult(k.PrivView, d)
	if err != nil {
		return Subaddress{}, fmt.Errorf("keychain: subaddress view point: %w", err)
	}
	return Subaddress{Major: major, Minor: minor, PubSpend: d, PubView: c}, nil
}

// DeriveSubaddressSpendKey returns the private spend scalar owning
// subaddress (major, minor): priv_spend + m, where m is the same
// subaddress scalar DeriveSubaddress folds into the public spend key.
// (0,0) returns the primary private spend key unchanged.
func DeriveSubaddressSpendKey(k Keys, major, minor uint32) (curve.Scalar32, error) {
	if k.ViewOnly() {
		return curve.Scalar32{}, ErrViewOnly
	}
	if major == 0 && minor == 0 {
		return k.PrivSpend, nil
	}
	var idx [8]byte
	binary.LittleEndian.PutUint32(idx[0:4], major)
	binary.LittleEndian.PutUint32(idx[4:8], minor)
	h := keccak.Sum256(subAddrDomain, k.PrivView[:], idx[:])
	m := curve.ScalarReduce32(h)
	sum, err := curve.ScalarAdd(k.PrivSpend, m)
	if err != nil {
		return curve.Scalar32{}, fmt.Errorf("keychain: subaddress spend key: %w", err)
	}
	return sum, nil
}

// DeriveOneTimePrivateKey recombines a recognized output's one-time
// private key from the scanned shared secret and the owning
// subaddress's private spend key: x = Hs(aR ‖ idx) + subaddr_priv_spend
// (spec.md §4.5's scan formula, inverted). sharedSecretScalar is
// scalar_reduce(keccak256(shared_secret ‖ varint(output_index))), the
// same "hs" the scanner derives internally.
func DeriveOneTimePrivateKey(subaddrPrivSpend, sharedSecretScalar curve.Scalar32) (curve.Scalar32, error) {
	x, err := curve.ScalarAdd(sharedSecretScalar, subaddrPrivSpend)
	if err != nil {
		return curve.Scalar32{}, fmt.Errorf("keychain: one-time private key: %w", err)
	}
	return x, nil
}

// DeriveKeyImage computes the key image x·hash_to_point(P) for a
// one-time keypair (x, P) (spec.md §4.1's glossary entry, consumed by
// the Sync Manager's spent-output detection and by transaction
// building).
func DeriveKeyImage(onetimePriv curve.Scalar32, onetimePub curve.Point32) (curve.Point32, error) {
	hp := curve.HashToPoint(keccak.Sum256(onetimePub[:]))
	ki, err := curve.ScalarMult(onetimePriv, hp)
	if err != nil {
		return curve.Point32{}, fmt.Errorf("keychain: key image: %w", err)
	}
	return ki, nil
}

// PlaceholderKeyImage returns a deterministic stand-in key image for
// an output imported into a view-only wallet before the real key
// image is supplied by the offline/signing wallet (spec.md §9's design
// note). Outputs carrying a placeholder MUST be rejected as spend
// candidates until the real key image replaces it.
func PlaceholderKeyImage(txHash [32]byte, outputIndex int) curve.Point32 {
	sum := keccak.Sum256(txHash[:], keccak.VarInt(uint64(outputIndex)))
	var p curve.Point32
	copy(p[:], sum[:])
	return p
}
