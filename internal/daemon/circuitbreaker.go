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

package daemon

import (
	"errors"
	"sync"
	"time"
)

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// ErrCircuitOpen is returned instead of calling through when the
// circuit breaker is open (spec.md §6.2's {closed, open, half-open}
// transport wrapper).
var ErrCircuitOpen = errors.New("daemon: circuit breaker is open")

// circuitBreaker trips to open after failureThreshold consecutive
// failures, then allows one trial call after openDuration has
// elapsed (half-open); a trial success closes it, a trial failure
// reopens it for another openDuration.
type circuitBreaker struct {
	mu               sync.Mutex
	state            breakerState
	failureThreshold int
	openDuration     time.Duration
	consecutiveFails int
	openedAt         time.Time
}

func newCircuitBreaker(failureThreshold int, openDuration time.Duration) *circuitBreaker {
	return &circuitBreaker{
		state:            breakerClosed,
		failureThreshold: failureThreshold,
		openDuration:     openDuration,
	}
}

// allow reports whether a call may proceed, transitioning open→half-open
// once openDuration has elapsed.
func (b *circuitBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case breakerClosed:
		return true
	case breakerOpen:
		if time.Since(b.openedAt) >= b.openDuration {
			b.state = breakerHalfOpen
			return true
		}
		return false
	case breakerHalfOpen:
		return true
	default:
		return true
	}
}

func (b *circuitBreaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = breakerClosed
	b.consecutiveFails = 0
}

func (b *circuitBreaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == breakerHalfOpen {
		b.state = breakerOpen
		b.openedAt = time.Now()
		return
	}
	b.consecutiveFails++
	if b.consecutiveFails >= b.failureThreshold {
		b.state = breakerOpen
		b.openedAt = time.Now()
	}
}
