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
	"io"

	"github.com/xmrcore/walletcore/internal/keccak"
)

// ErrMalformed is returned by Deserialize for a blob that does not
// parse as a well-formed transaction (spec.md §6.1).
var ErrMalformed = errors.New("txbuilder: malformed transaction blob")

func writeVarInt(buf *bytes.Buffer, v uint64) {
	buf.Write(keccak.VarInt(v))
}

func readVarInt(r *bytes.Reader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: varint: %s", ErrMalformed, err)
		}
		if shift >= 64 {
			return 0, fmt.Errorf("%w: varint overflow", ErrMalformed)
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

func readBytes(r *bytes.Reader, n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("%w: short read: %s", ErrMalformed, err)
	}
	return out, nil
}

func readByte(r *bytes.Reader) (byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	return b, nil
}
