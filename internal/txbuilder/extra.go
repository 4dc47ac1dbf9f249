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
	"fmt"

	"github.com/xmrcore/walletcore/internal/curve"
)

// ExtraFields is the decoded form of a transaction's extra TLV stream
// (spec.md §4.8 step 6, §6.1).
type ExtraFields struct {
	TxPubKey           *curve.Point32
	AdditionalPubKeys  []curve.Point32
	EncryptedPaymentID *[8]byte
}

// buildExtra assembles the tagged TLV stream: 0x01‖R, an optional
// 0x04‖count‖additional_pubkeys* when any output needed a per-output tx
// key, and an optional 0x02‖9‖0x01‖encrypted_payment_id nonce.
func buildExtra(txPubKey curve.Point32, additional []curve.Point32, encryptedPaymentID *[8]byte) []byte {
	var buf bytes.Buffer

	buf.WriteByte(extraTagPubKey)
	buf.Write(txPubKey[:])

	if len(additional) > 0 {
		buf.WriteByte(extraTagAdditionalPubKeys)
		writeVarInt(&buf, uint64(len(additional)))
		for _, p := range additional {
			buf.Write(p[:])
		}
	}

	if encryptedPaymentID != nil {
		buf.WriteByte(extraTagNonce)
		writeVarInt(&buf, encryptedPaymentIDLen)
		buf.WriteByte(encryptedPaymentIDNonceTag)
		buf.Write(encryptedPaymentID[:])
	}

	return buf.Bytes()
}

// ParseExtra decodes a transaction's extra field, recovering the values
// a scanner needs to recognize its outputs: the tx public key, any
// additional per-output public keys, and an encrypted payment ID.
// An unrecognized tag is not rejected: parsing stops there and the
// fields decoded before it are returned, and nothing after it is read.
func ParseExtra(extra []byte) (ExtraFields, error) {
	var out ExtraFields
	r := bytes.NewReader(extra)

	for r.Len() > 0 {
		tag, err := readByte(r)
		if err != nil {
			return out, err
		}
		switch tag {
		case extraTagPubKey:
			b, err := readBytes(r, 32)
			if err != nil {
				return out, fmt.Errorf("%w: tx pubkey: %s", ErrMalformed, err)
			}
			var p curve.Point32
			copy(p[:], b)
			out.TxPubKey = &p

		case extraTagAdditionalPubKeys:
			n, err := readVarInt(r)
			if err != nil {
				return out, err
			}
			keys := make([]curve.Point32, 0, n)
			for i := uint64(0); i < n; i++ {
				b, err := readBytes(r, 32)
				if err != nil {
					return out, fmt.Errorf("%w: additional pubkey %d: %s", ErrMalformed, i, err)
				}
				var p curve.Point32
				copy(p[:], b)
				keys = append(keys, p)
			}
			out.AdditionalPubKeys = keys

		case extraTagNonce:
			n, err := readVarInt(r)
			if err != nil {
				return out, err
			}
			nonce, err := readBytes(r, int(n))
			if err != nil {
				return out, fmt.Errorf("%w: nonce: %s", ErrMalformed, err)
			}
			if len(nonce) == encryptedPaymentIDLen && nonce[0] == encryptedPaymentIDNonceTag {
				var pid [8]byte
				copy(pid[:], nonce[1:])
				out.EncryptedPaymentID = &pid
			}

		default:
			// Unknown tag: per-field length is not guaranteed for
			// arbitrary tags, so stop rather than misparse the rest.
			return out, nil
		}
	}
	return out, nil
}

// EncryptPaymentID masks an 8-byte payment ID with the recipient's
// ECDH shared secret, matching the reference "encrypted_payment_id"
// scheme: mask = keccak256("PID" ‖ S)[0:8] (spec.md §4.8, §9 decided).
func EncryptPaymentID(sharedSecret curve.Point32, paymentID [8]byte) [8]byte {
	mask := keccakPIDMask(sharedSecret)
	var out [8]byte
	for i := range out {
		out[i] = paymentID[i] ^ mask[i]
	}
	return out
}

// DecryptPaymentID reverses EncryptPaymentID; XOR is its own inverse.
func DecryptPaymentID(sharedSecret curve.Point32, encrypted [8]byte) [8]byte {
	return EncryptPaymentID(sharedSecret, encrypted)
}
