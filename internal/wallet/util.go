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

package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/xmrcore/walletcore/internal/scanner"
)

// decodeHexInto decodes s into dst, requiring an exact length match.
func decodeHexInto(dst []byte, s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return fmt.Errorf("wallet: expected %d bytes, got %d", len(dst), len(b))
	}
	copy(dst, b)
	return nil
}

// scannerIndex is a small constructor to keep call sites terse.
func scannerIndex(major, minor uint32) scanner.SubaddressIndex {
	return scanner.SubaddressIndex{Major: major, Minor: minor}
}
