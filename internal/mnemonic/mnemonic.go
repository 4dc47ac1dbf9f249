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

// Package mnemonic implements the 25-word Electrum-style encoding of a
// 32-byte seed (spec.md §3 "Mnemonic", §4.4). It is a distinct scheme
// from BIP-39: no PBKDF2 stretching, a 1626-word list rather than 2048,
// and a CRC32 checksum word instead of a checksum embedded in the
// entropy bits.
package mnemonic

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"strings"
)

const (
	listSize      = 1626
	seedSize      = 32
	chunkCount    = seedSize / 4 // 8 four-byte little-endian chunks
	entropyWords  = chunkCount * 3
	totalWords    = entropyWords + 1
	checksumChars = 3
)

// ErrWordCount is returned when a mnemonic does not have exactly 25
// words.
var ErrWordCount = errors.New("mnemonic: expected 25 words")

// ErrUnknownWord is returned when a mnemonic contains a word that is not
// in the list.
var ErrUnknownWord = errors.New("mnemonic: unknown word")

// ErrChecksum is returned when the 25th word does not match the
// checksum computed over the first 24.
var ErrChecksum = errors.New("mnemonic: checksum mismatch")

// Encode renders a 32-byte seed as a whitespace-separated 25-word
// mnemonic.
func Encode(seed [32]byte) string {
	words := make([]string, 0, totalWords)
	for c := 0; c < chunkCount; c++ {
		x := binary.LittleEndian.Uint32(seed[c*4 : c*4+4])
		w1 := x % listSize
		w2 := (x/listSize + w1) % listSize
		w3 := (x/listSize/listSize + w2) % listSize
		words = append(words, wordlist[w1], wordlist[w2], wordlist[w3])
	}
	words = append(words, wordlist[checksumIndex(words)])
	return strings.Join(words, " ")
}

// Decode parses a 25-word mnemonic back into its 32-byte seed,
// validating the checksum word. Decode fails with ErrWordCount,
// ErrUnknownWord, or ErrChecksum as appropriate; it never returns a
// partially-decoded seed on error.
func Decode(phrase string) ([32]byte, error) {
	var seed [32]byte
	fields := strings.Fields(phrase)
	if len(fields) != totalWords {
		return seed, ErrWordCount
	}
	entropy := fields[:entropyWords]
	indices := make([]uint32, entropyWords)
	for i, w := range entropy {
		idx, ok := wordIndex[w]
		if !ok {
			return seed, ErrUnknownWord
		}
		indices[i] = idx
	}
	want := wordlist[checksumIndex(entropy)]
	if fields[entropyWords] != want {
		return seed, ErrChecksum
	}
	for c := 0; c < chunkCount; c++ {
		w1, w2, w3 := indices[c*3], indices[c*3+1], indices[c*3+2]
		a := w1
		b := (w2 + listSize - w1%listSize) % listSize
		d := (w3 + listSize - w2%listSize) % listSize
		x := a + listSize*b + listSize*listSize*d
		binary.LittleEndian.PutUint32(seed[c*4:c*4+4], x)
	}
	return seed, nil
}

// Validate reports whether phrase is a well-formed, checksum-correct
// mnemonic without returning the decoded seed.
func Validate(phrase string) bool {
	_, err := Decode(phrase)
	return err == nil
}

// checksumIndex computes the CRC32-derived index (mod 24) described in
// spec.md §4.4: it hashes the concatenation of the first
// checksumChars characters of each of the 24 entropy words.
func checksumIndex(words []string) uint32 {
	var sb strings.Builder
	for _, w := range words {
		if len(w) < checksumChars {
			sb.WriteString(w)
			continue
		}
		sb.WriteString(w[:checksumChars])
	}
	sum := crc32.ChecksumIEEE([]byte(sb.String()))
	return sum % uint32(len(words))
}
