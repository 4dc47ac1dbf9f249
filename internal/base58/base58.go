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

// Package base58 implements Monero's block-encoded Base58 variant
// (spec.md §4.3). Unlike Bitcoin-style Base58, which treats the whole
// input as one big integer, Monero encodes fixed 8-byte blocks into
// 11-character blocks, with a short table governing the final partial
// block. That asymmetry is why no off-the-shelf Base58 package is reused
// here (see DESIGN.md).
package base58

import (
	"errors"
	"math/big"
)

const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const fullBlockSize = 8
const fullEncodedBlockSize = 11

// encodedBlockSizes[n] is the encoded length of a trailing block of n
// raw bytes, for n in [1,7]. Index 0 is unused (no partial block).
var encodedBlockSizes = [...]int{0, 2, 3, 5, 6, 7, 9, 10}

// ErrFormat is returned for malformed Base58 input: unknown alphabet
// characters, a trailing-block length that doesn't appear in the decode
// size table, or a checksum mismatch at a higher layer.
var ErrFormat = errors.New("base58: format error")

var (
	alphabetIndex [256]int8
	bigRadix      = big.NewInt(58)
)

func init() {
	for i := range alphabetIndex {
		alphabetIndex[i] = -1
	}
	for i, c := range alphabet {
		alphabetIndex[byte(c)] = int8(i)
	}
}

// decodedBlockSizeForEncoded inverts encodedBlockSizes; returns (n, true),
// n being the decoded size, if encodedLen is a valid encoded-block
// length, and (0, false) otherwise.
func decodedBlockSizeForEncoded(encodedLen int) (int, bool) {
	if encodedLen == fullEncodedBlockSize {
		return fullBlockSize, true
	}
	for n, sz := range encodedBlockSizes {
		if sz == encodedLen && n != 0 {
			return n, true
		}
	}
	return 0, false
}

// Encode returns the Monero block-encoded Base58 representation of data.
func Encode(data []byte) string {
	var out []byte
	for len(data) >= fullBlockSize {
		out = append(out, encodeBlock(data[:fullBlockSize], fullEncodedBlockSize)...)
		data = data[fullBlockSize:]
	}
	if len(data) > 0 {
		out = append(out, encodeBlock(data, encodedBlockSizes[len(data)])...)
	}
	return string(out)
}

func encodeBlock(block []byte, encodedSize int) []byte {
	num := new(big.Int).SetBytes(block)
	out := make([]byte, encodedSize)
	mod := new(big.Int)
	for i := encodedSize - 1; i >= 0; i-- {
		num.DivMod(num, bigRadix, mod)
		out[i] = alphabet[mod.Int64()]
	}
	return out
}

// Decode reverses Encode, validating block sizing and alphabet per
// spec.md §4.3. A string whose trailing block length doesn't appear in
// the decode table (1, 4 or 8 characters) is rejected with ErrFormat; a
// 10-character trailing block is valid and decodes to 7 bytes.
func Decode(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if alphabetIndex[s[i]] < 0 {
			return nil, ErrFormat
		}
	}
	var out []byte
	for len(s) >= fullEncodedBlockSize {
		block, err := decodeBlock(s[:fullEncodedBlockSize], fullBlockSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
		s = s[fullEncodedBlockSize:]
	}
	if len(s) > 0 {
		decodedSize, ok := decodedBlockSizeForEncoded(len(s))
		if !ok {
			return nil, ErrFormat
		}
		block, err := decodeBlock(s, decodedSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	return out, nil
}

func decodeBlock(s string, decodedSize int) ([]byte, error) {
	num := new(big.Int)
	for i := 0; i < len(s); i++ {
		idx := alphabetIndex[s[i]]
		if idx < 0 {
			return nil, ErrFormat
		}
		num.Mul(num, bigRadix)
		num.Add(num, big.NewInt(int64(idx)))
	}
	raw := num.Bytes()
	if len(raw) > decodedSize {
		// The encoded block represents a value too large to fit in
		// decodedSize bytes: not a valid Monero Base58 block.
		return nil, ErrFormat
	}
	out := make([]byte, decodedSize)
	copy(out[decodedSize-len(raw):], raw)
	return out, nil
}
