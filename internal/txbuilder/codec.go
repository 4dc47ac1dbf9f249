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

package txbuilder

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xmrcore/walletcore/internal/curve"
	"github.com/xmrcore/walletcore/internal/keccak"
)

// ErrCoinbaseUnsupported is returned by Deserialize for a txin_gen
// (coinbase) transaction; this package only builds and parses ordinary
// RingCT transfers.
var ErrCoinbaseUnsupported = errors.New("txbuilder: coinbase transactions are not supported")

// Hash returns keccak256 of tx's canonical serialization. Real Monero
// transaction IDs are computed over a hash tree of prefix/rct/prunable
// sections rather than the flat blob; this is a simplified stand-in
// consistent with PlaceholderRangeProof/PlaceholderCLSAG not being
// cryptographically sound either, and is sufficient as a stable
// lookup key within this wallet.
func (tx *Transaction) Hash() [32]byte {
	return keccak.Sum256(tx.Serialize())
}

// Serialize renders tx into Monero's canonical binary format
// (spec.md §6.1).
func (tx *Transaction) Serialize() []byte {
	var buf bytes.Buffer
	tx.writePrefix(&buf)
	if tx.RCT != nil {
		serializeRCT(&buf, tx.RCT, len(tx.Outputs))
	}
	return buf.Bytes()
}

// SerializePrefix renders just the version/unlock_time/vin/vout/extra
// section tx's offline-signing export carries: everything an
// air-gapped signer needs to reconstruct the ring and derive per-input
// CLSAGs without the (not-yet-produced) RCT signature section.
func (tx *Transaction) SerializePrefix() []byte {
	var buf bytes.Buffer
	tx.writePrefix(&buf)
	return buf.Bytes()
}

// PrefixHash returns keccak256 of tx's prefix serialization, the value
// an offline signer authenticates against (spec.md §4.9).
func (tx *Transaction) PrefixHash() [32]byte {
	return keccak.Sum256(tx.SerializePrefix())
}

func (tx *Transaction) writePrefix(buf *bytes.Buffer) {
	writeVarInt(buf, tx.Version)
	writeVarInt(buf, tx.UnlockTime)

	writeVarInt(buf, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf.WriteByte(txInToKeyTag)
		writeVarInt(buf, 0) // amount is always 0 for RingCT inputs
		writeVarInt(buf, uint64(len(in.KeyOffsetDeltas)))
		for _, d := range in.KeyOffsetDeltas {
			writeVarInt(buf, d)
		}
		buf.Write(in.KeyImage[:])
	}

	writeVarInt(buf, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		writeVarInt(buf, 0) // amount is always 0 for RingCT outputs
		if out.HasViewTag {
			buf.WriteByte(txOutToTaggedKey)
			buf.Write(out.PubKey[:])
			buf.WriteByte(out.ViewTag)
		} else {
			buf.WriteByte(txOutToKeyTag)
			buf.Write(out.PubKey[:])
		}
	}

	writeVarInt(buf, uint64(len(tx.Extra)))
	buf.Write(tx.Extra)
}

func serializeRCT(buf *bytes.Buffer, r *RCTSignature, nOut int) {
	buf.WriteByte(r.Type)
	writeVarInt(buf, r.Fee)

	if usesShortEcdh(r.Type) {
		for _, e := range r.EncryptedAmounts {
			buf.Write(e[:])
		}
	} else {
		for i := range r.LegacyMasks {
			buf.Write(r.LegacyMasks[i][:])
			buf.Write(r.LegacyAmounts[i][:])
		}
	}

	for _, c := range r.Commitments {
		buf.Write(c[:])
	}

	writeVarInt(buf, uint64(len(r.RangeProof.Data)))
	buf.Write(r.RangeProof.Data)

	writeVarInt(buf, uint64(len(r.CLSAGs)))
	for _, c := range r.CLSAGs {
		writeVarInt(buf, uint64(len(c.Data)))
		buf.Write(c.Data)
	}
}

// Deserialize parses a canonical transaction blob (spec.md §6.1).
func Deserialize(blob []byte) (*Transaction, error) {
	r := bytes.NewReader(blob)

	version, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: version: %s", ErrMalformed, err)
	}
	unlockTime, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: unlock_time: %s", ErrMalformed, err)
	}

	nIn, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: n_in: %s", ErrMalformed, err)
	}
	inputs := make([]Input, 0, nIn)
	for i := uint64(0); i < nIn; i++ {
		tag, err := readByte(r)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d tag: %s", ErrMalformed, i, err)
		}
		if tag == txInGenTag {
			return nil, ErrCoinbaseUnsupported
		}
		if tag != txInToKeyTag {
			return nil, fmt.Errorf("%w: input %d: unknown tag 0x%02x", ErrMalformed, i, tag)
		}
		if _, err := readVarInt(r); err != nil { // amount, always 0
			return nil, fmt.Errorf("%w: input %d amount: %s", ErrMalformed, i, err)
		}
		nOffsets, err := readVarInt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d n_offsets: %s", ErrMalformed, i, err)
		}
		deltas := make([]uint64, nOffsets)
		for j := range deltas {
			deltas[j], err = readVarInt(r)
			if err != nil {
				return nil, fmt.Errorf("%w: input %d offset %d: %s", ErrMalformed, i, j, err)
			}
		}
		kiBytes, err := readBytes(r, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: input %d key image: %s", ErrMalformed, i, err)
		}
		var ki curve.Point32
		copy(ki[:], kiBytes)
		inputs = append(inputs, Input{KeyOffsetDeltas: deltas, KeyImage: ki})
	}

	nOut, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: n_out: %s", ErrMalformed, err)
	}
	outputs := make([]Output, 0, nOut)
	for i := uint64(0); i < nOut; i++ {
		if _, err := readVarInt(r); err != nil { // amount, always 0
			return nil, fmt.Errorf("%w: output %d amount: %s", ErrMalformed, i, err)
		}
		tag, err := readByte(r)
		if err != nil {
			return nil, fmt.Errorf("%w: output %d tag: %s", ErrMalformed, i, err)
		}
		pkBytes, err := readBytes(r, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: output %d pubkey: %s", ErrMalformed, i, err)
		}
		var pk curve.Point32
		copy(pk[:], pkBytes)

		switch tag {
		case txOutToTaggedKey:
			vt, err := readByte(r)
			if err != nil {
				return nil, fmt.Errorf("%w: output %d view tag: %s", ErrMalformed, i, err)
			}
			outputs = append(outputs, Output{PubKey: pk, HasViewTag: true, ViewTag: vt})
		case txOutToKeyTag:
			outputs = append(outputs, Output{PubKey: pk})
		default:
			return nil, fmt.Errorf("%w: output %d: unknown tag 0x%02x", ErrMalformed, i, tag)
		}
	}

	extraLen, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: extra_len: %s", ErrMalformed, err)
	}
	extra, err := readBytes(r, int(extraLen))
	if err != nil {
		return nil, fmt.Errorf("%w: extra: %s", ErrMalformed, err)
	}

	tx := &Transaction{
		Version:    version,
		UnlockTime: unlockTime,
		Inputs:     inputs,
		Outputs:    outputs,
		Extra:      extra,
	}

	if version >= 2 {
		rct, err := deserializeRCT(r, len(outputs))
		if err != nil {
			return nil, err
		}
		tx.RCT = rct
	}

	return tx, nil
}

func deserializeRCT(r *bytes.Reader, nOut int) (*RCTSignature, error) {
	rctType, err := readByte(r)
	if err != nil {
		return nil, fmt.Errorf("%w: rct type: %s", ErrMalformed, err)
	}
	fee, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: rct fee: %s", ErrMalformed, err)
	}

	rct := &RCTSignature{Type: rctType, Fee: fee}

	if usesShortEcdh(rctType) {
		for i := 0; i < nOut; i++ {
			b, err := readBytes(r, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: rct ecdh %d: %s", ErrMalformed, i, err)
			}
			var e [8]byte
			copy(e[:], b)
			rct.EncryptedAmounts = append(rct.EncryptedAmounts, e)
		}
	} else {
		for i := 0; i < nOut; i++ {
			maskBytes, err := readBytes(r, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: rct mask %d: %s", ErrMalformed, i, err)
			}
			amtBytes, err := readBytes(r, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: rct amount %d: %s", ErrMalformed, i, err)
			}
			var mask, amt [32]byte
			copy(mask[:], maskBytes)
			copy(amt[:], amtBytes)
			rct.LegacyMasks = append(rct.LegacyMasks, mask)
			rct.LegacyAmounts = append(rct.LegacyAmounts, amt)
		}
	}

	for i := 0; i < nOut; i++ {
		cBytes, err := readBytes(r, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: rct commitment %d: %s", ErrMalformed, i, err)
		}
		var c curve.Point32
		copy(c[:], cBytes)
		rct.Commitments = append(rct.Commitments, c)
	}

	rpLen, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: range proof length: %s", ErrMalformed, err)
	}
	rpData, err := readBytes(r, int(rpLen))
	if err != nil {
		return nil, fmt.Errorf("%w: range proof: %s", ErrMalformed, err)
	}
	rct.RangeProof = PlaceholderRangeProof{Data: rpData}

	nCLSAG, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: clsag count: %s", ErrMalformed, err)
	}
	for i := uint64(0); i < nCLSAG; i++ {
		l, err := readVarInt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: clsag %d length: %s", ErrMalformed, i, err)
		}
		d, err := readBytes(r, int(l))
		if err != nil {
			return nil, fmt.Errorf("%w: clsag %d: %s", ErrMalformed, i, err)
		}
		rct.CLSAGs = append(rct.CLSAGs, PlaceholderCLSAG{Data: d})
	}

	return rct, nil
}
