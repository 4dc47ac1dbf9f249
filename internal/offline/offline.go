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

// Package offline defines the two portable, versioned JSON containers
// that carry a transaction between a watch-only online wallet and an
// air-gapped signer (spec.md §4.9).
package offline

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xmrcore/walletcore/internal/curve"
)

// envelopeVersion is the only version either container currently
// supports.
const envelopeVersion = 1

// ErrUnsupportedVersion is returned when decoding a container whose
// version field isn't one this build understands.
var ErrUnsupportedVersion = errors.New("offline: unsupported envelope version")

// ErrMismatch is returned by Reconcile when a SignedTxExport doesn't
// correspond to the UnsignedTxExport it claims to answer.
var ErrMismatch = errors.New("offline: signed export does not match unsigned export")

// UnsignedInput is one input of an UnsignedTxExport: enough of the
// selected ring for an offline signer to reconstruct the CLSAG without
// talking to a daemon.
type UnsignedInput struct {
	RealGlobalIndex    uint64   `json:"real_global_index"`
	RealIndexInRing    int      `json:"real_index_in_ring"`
	RingPubkeysHex     []string `json:"ring_pubkeys_hex"`
	RingCommitmentsHex []string `json:"ring_commitments_hex"`
	KeyImageHex        string   `json:"key_image_hex"`
}

// UnsignedOutput is one output of an UnsignedTxExport.
type UnsignedOutput struct {
	Index         int    `json:"index"`
	Amount        string `json:"amount"`
	MaskHex       string `json:"mask_hex"`
	CommitmentHex string `json:"commitment_hex"`
}

// UnsignedTxExport is everything an offline signer needs to produce a
// signature for a transaction it did not itself assemble (spec.md
// §4.9).
type UnsignedTxExport struct {
	Version       int              `json:"version"`
	TxPrefixHex   string           `json:"tx_prefix_hex"`
	PrefixHashHex string           `json:"prefix_hash_hex"`
	Inputs        []UnsignedInput  `json:"inputs"`
	Outputs       []UnsignedOutput `json:"outputs"`
	RCTType       uint8            `json:"rct_type"`
	Fee           string           `json:"fee"`
	Change        string           `json:"change"`
}

// SignedTxExport is the offline signer's response: a complete,
// relayable transaction blob plus the key images the online wallet
// must mark spent (spec.md §4.9).
type SignedTxExport struct {
	Version      int      `json:"version"`
	TxBlobHex    string   `json:"tx_blob_hex"`
	TxHashHex    string   `json:"tx_hash_hex"`
	KeyImagesHex []string `json:"key_images_hex"`
	Fee          string   `json:"fee"`
}

// MarshalUnsigned renders e as JSON.
func MarshalUnsigned(e UnsignedTxExport) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("offline: marshal unsigned export: %w", err)
	}
	return data, nil
}

// UnmarshalUnsigned parses an UnsignedTxExport and validates its
// version field.
func UnmarshalUnsigned(data []byte) (UnsignedTxExport, error) {
	var e UnsignedTxExport
	if err := json.Unmarshal(data, &e); err != nil {
		return UnsignedTxExport{}, fmt.Errorf("offline: unmarshal unsigned export: %w", err)
	}
	if e.Version != envelopeVersion {
		return UnsignedTxExport{}, fmt.Errorf("%w: got %d", ErrUnsupportedVersion, e.Version)
	}
	return e, nil
}

// MarshalSigned renders e as JSON.
func MarshalSigned(e SignedTxExport) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("offline: marshal signed export: %w", err)
	}
	return data, nil
}

// UnmarshalSigned parses a SignedTxExport and validates its version
// field.
func UnmarshalSigned(data []byte) (SignedTxExport, error) {
	var e SignedTxExport
	if err := json.Unmarshal(data, &e); err != nil {
		return SignedTxExport{}, fmt.Errorf("offline: unmarshal signed export: %w", err)
	}
	if e.Version != envelopeVersion {
		return SignedTxExport{}, fmt.Errorf("%w: got %d", ErrUnsupportedVersion, e.Version)
	}
	return e, nil
}

// NewUnsignedTxExport frames an UnsignedTxExport at the current
// envelope version.
func NewUnsignedTxExport(txPrefix []byte, prefixHash [32]byte, inputs []UnsignedInput, outputs []UnsignedOutput, rctType uint8, fee, change string) UnsignedTxExport {
	return UnsignedTxExport{
		Version:       envelopeVersion,
		TxPrefixHex:   hex.EncodeToString(txPrefix),
		PrefixHashHex: hex.EncodeToString(prefixHash[:]),
		Inputs:        inputs,
		Outputs:       outputs,
		RCTType:       rctType,
		Fee:           fee,
		Change:        change,
	}
}

// NewSignedTxExport frames a SignedTxExport at the current envelope
// version.
func NewSignedTxExport(blob []byte, hash [32]byte, keyImages []curve.Point32, fee string) SignedTxExport {
	hexImages := make([]string, len(keyImages))
	for i, ki := range keyImages {
		hexImages[i] = hex.EncodeToString(ki[:])
	}
	return SignedTxExport{
		Version:      envelopeVersion,
		TxBlobHex:    hex.EncodeToString(blob),
		TxHashHex:    hex.EncodeToString(hash[:]),
		KeyImagesHex: hexImages,
		Fee:          fee,
	}
}

// Reconcile validates that signed answers unsigned: same fee, and a
// key image reported per unsigned input. The online wallet calls this
// before trusting a SignedTxExport enough to mark its inputs spent and
// relay the blob.
func Reconcile(unsigned UnsignedTxExport, signed SignedTxExport) error {
	if signed.Fee != unsigned.Fee {
		return fmt.Errorf("%w: fee %s != %s", ErrMismatch, signed.Fee, unsigned.Fee)
	}
	if len(signed.KeyImagesHex) != len(unsigned.Inputs) {
		return fmt.Errorf("%w: %d key images for %d inputs", ErrMismatch, len(signed.KeyImagesHex), len(unsigned.Inputs))
	}
	for i, in := range unsigned.Inputs {
		if signed.KeyImagesHex[i] != in.KeyImageHex {
			return fmt.Errorf("%w: input %d key image changed", ErrMismatch, i)
		}
	}
	return nil
}

// DecodeKeyImage parses a signed export's key-image hex string.
func DecodeKeyImage(hexStr string) (curve.Point32, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return curve.Point32{}, fmt.Errorf("offline: decode key image: %w", err)
	}
	if len(b) != 32 {
		return curve.Point32{}, fmt.Errorf("offline: key image must be 32 bytes, got %d", len(b))
	}
	var out curve.Point32
	copy(out[:], b)
	return out, nil
}

// DecodeTxHash parses a signed export's transaction hash hex string.
func DecodeTxHash(hexStr string) ([32]byte, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return [32]byte{}, fmt.Errorf("offline: decode tx hash: %w", err)
	}
	if len(b) != 32 {
		return [32]byte{}, fmt.Errorf("offline: tx hash must be 32 bytes, got %d", len(b))
	}
	var out [32]byte
	copy(out[:], b)
	return out, nil
}

// DecodeBlob parses a signed export's transaction blob hex string.
func DecodeBlob(hexStr string) ([]byte, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("offline: decode tx blob: %w", err)
	}
	return b, nil
}
