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

// Package common holds small value types shared across wallet packages.
package common

import (
	"errors"
	"fmt"
	"math/big"
)

// AtomicUnitsPerXMR is 10^12, the number of piconero atomic units in one
// XMR (spec.md GLOSSARY "Atomic unit").
const AtomicUnitsPerXMR = 1_000_000_000_000

// ErrNegativeAmount is returned by operations that would produce a
// negative Amount; Monero amounts are unsigned.
var ErrNegativeAmount = errors.New("common: amount cannot be negative")

// Amount is an arbitrary-precision count of atomic units (piconero).
// Totals across many outputs can exceed a 64-bit unsigned integer
// (spec.md §9 "Big integers"), so this wraps math/big.Int rather than
// uint64; on the wire and on disk amounts are decimal strings (spec.md
// §4.10, §6.3).
type Amount struct {
	v big.Int
}

// NewAmount constructs an Amount from a uint64 atomic-unit count.
func NewAmount(atomicUnits uint64) Amount {
	var a Amount
	a.v.SetUint64(atomicUnits)
	return a
}

// ParseAmount parses a decimal-string atomic-unit count, as used in the
// on-disk wallet document and the offline-signing envelopes.
func ParseAmount(s string) (Amount, error) {
	var a Amount
	if _, ok := a.v.SetString(s, 10); !ok {
		return Amount{}, fmt.Errorf("common: invalid amount %q", s)
	}
	if a.v.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return a, nil
}

// String returns the decimal atomic-unit representation.
func (a Amount) String() string {
	return a.v.String()
}

// Uint64 returns the amount as a uint64 and true, or 0 and false if the
// value does not fit in 64 bits.
func (a Amount) Uint64() (uint64, bool) {
	if !a.v.IsUint64() {
		return 0, false
	}
	return a.v.Uint64(), true
}

// Add returns a+b.
func (a Amount) Add(b Amount) Amount {
	var out Amount
	out.v.Add(&a.v, &b.v)
	return out
}

// Sub returns a-b. Returns ErrNegativeAmount if the result would be
// negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	var out Amount
	out.v.Sub(&a.v, &b.v)
	if out.v.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return out, nil
}

// Cmp returns -1, 0, or 1 as a is less than, equal to, or greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.v.Sign() == 0
}

// XMR returns the amount as a human-readable "X.YYYYYYYYYYYY" string of
// whole XMR with twelve fractional digits and no unit suffix. It is for
// display only; all arithmetic must use the atomic-unit representation.
func (a Amount) XMR() string {
	whole := new(big.Int).Div(&a.v, big.NewInt(AtomicUnitsPerXMR))
	frac := new(big.Int).Mod(&a.v, big.NewInt(AtomicUnitsPerXMR))
	return fmt.Sprintf("%s.%012s", whole.String(), frac.String())
}
