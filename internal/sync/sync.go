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

// Package sync drives the wallet's blockchain sync state machine
// (spec.md §4.11): Idle -> Syncing -> {Synced, Error}, with Error
// returning to Syncing on a bounded, delayed auto-retry. It is
// grounded on the shape of a cursor-driven chain-follower: a tracked
// position, registered event callbacks, and a periodic status
// update, generalized here to poll a daemon.Daemon instead of
// following a pipeline, and to persist its cursor through
// internal/storage and internal/synccache instead of a single local
// database.
package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xmrcore/walletcore/internal/config"
	"github.com/xmrcore/walletcore/internal/daemon"
	"github.com/xmrcore/walletcore/internal/keychain"
	"github.com/xmrcore/walletcore/internal/logging"
	"github.com/xmrcore/walletcore/internal/scanner"
	"github.com/xmrcore/walletcore/internal/storage"
	"github.com/xmrcore/walletcore/internal/synccache"
)

// State is one of the Sync Manager's four states.
type State int

const (
	StateIdle State = iota
	StateSyncing
	StateSynced
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSyncing:
		return "syncing"
	case StateSynced:
		return "synced"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var errStopped = errors.New("sync: stopped")

// Recorder receives the Sync Manager's operational counters. It is
// satisfied by *metrics.Metrics without this package importing
// internal/metrics; a nil Recorder (the default) makes every call a
// no-op.
type Recorder interface {
	SetState(state string)
	SetHeight(height, tip uint64)
	IncOutputsScanned(n int)
	IncOutputsRecognized(n int)
	IncReorgsDetected()
	IncSyncErrors()
}

type noopRecorder struct{}

func (noopRecorder) SetState(string)          {}
func (noopRecorder) SetHeight(uint64, uint64) {}
func (noopRecorder) IncOutputsScanned(int)     {}
func (noopRecorder) IncOutputsRecognized(int)  {}
func (noopRecorder) IncReorgsDetected()        {}
func (noopRecorder) IncSyncErrors()            {}

// EventKind distinguishes the events emitted on a Manager's event
// channel.
type EventKind int

const (
	EventProgress EventKind = iota
	EventBlockProcessed
	EventReorgDetected
	EventSynced
	EventError
)

// Event is one notification out of the Sync Manager. Fields not
// meaningful for Kind are left zero. Events are emitted in strict
// ascending height order, and a block's output-spent bookkeeping is
// persisted before its EventBlockProcessed fires (spec.md §5).
type Event struct {
	Kind        EventKind
	Height      uint64
	Tip         uint64
	ForkPoint   uint64
	PriorHeight uint64
	Err         error
}

// Manager owns the sync loop for one wallet. It holds no back-pointer
// into a larger wallet type (spec.md §9's dependency-injection note):
// callers pass it whatever collaborators it needs and read progress
// off Events.
type Manager struct {
	d     daemon.Daemon
	store *storage.Storage
	cache *synccache.Cache
	table scanner.SubaddressTable
	keys  keychain.Keys
	cfg   config.SyncConfig
	rec   Recorder

	mu      sync.Mutex
	state   State
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	events chan Event
}

// New constructs a Manager. table must cover every subaddress index
// the wallet watches; keys may be view-only, in which case recognized
// outputs are stored with a placeholder key image (spec.md §9).
func New(d daemon.Daemon, store *storage.Storage, cache *synccache.Cache, table scanner.SubaddressTable, keys keychain.Keys, cfg config.SyncConfig) *Manager {
	return &Manager{
		d:      d,
		store:  store,
		cache:  cache,
		table:  table,
		keys:   keys,
		cfg:    cfg,
		rec:    noopRecorder{},
		state:  StateIdle,
		events: make(chan Event, 64),
	}
}

// SetRecorder wires rec to receive this Manager's operational
// counters. A nil rec restores the no-op default.
func (m *Manager) SetRecorder(rec Recorder) {
	if rec == nil {
		rec = noopRecorder{}
	}
	m.mu.Lock()
	m.rec = rec
	m.mu.Unlock()
}

// State returns the manager's current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Events returns the channel events are published on. The channel is
// buffered but not unbounded; a caller that stops draining it will
// eventually stall the sync loop rather than lose ordering.
func (m *Manager) Events() <-chan Event {
	return m.events
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	rec := m.rec
	m.mu.Unlock()
	rec.SetState(s.String())
}

func (m *Manager) emit(e Event) {
	m.events <- e
}

func (m *Manager) getRecorder() Recorder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec
}

// Start begins the sync loop in a background goroutine. It is a no-op
// if already running.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	go m.run(ctx)
}

// Stop signals the sync loop to return to Idle and blocks until it
// has. Safe to call from any state, including while not running.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)
	<-doneCh
}

func (m *Manager) run(ctx context.Context) {
	logger := logging.GetLogger()
	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		close(m.doneCh)
	}()

	m.setState(StateSyncing)
	attempts := uint(0)
	for {
		err := m.syncOnce(ctx)
		if err == nil {
			return
		}
		if errors.Is(err, errStopped) {
			m.setState(StateIdle)
			return
		}
		if ctx.Err() != nil {
			m.setState(StateIdle)
			return
		}

		m.setState(StateError)
		m.getRecorder().IncSyncErrors()
		logger.Warnw("sync: attempt failed", "error", err, "attempt", attempts)
		m.emit(Event{Kind: EventError, Err: err})

		if !m.cfg.AutoRetry || attempts >= m.cfg.MaxRetries {
			return
		}
		attempts++

		delay := time.Duration(m.cfg.RetryDelayMillis) * time.Millisecond
		select {
		case <-time.After(delay):
		case <-m.stopCh:
			m.setState(StateIdle)
			return
		case <-ctx.Done():
			m.setState(StateIdle)
			return
		}
		m.setState(StateSyncing)
	}
}

// syncOnce runs one full pass: a reorg check, then forward catch-up
// to the daemon's current tip. A nil return means it reached Synced;
// any other return (including errStopped) unwinds run's retry loop.
func (m *Manager) syncOnce(ctx context.Context) error {
	if err := m.checkStop(); err != nil {
		return err
	}

	if err := m.reconcileReorg(ctx); err != nil {
		return err
	}

	height := m.store.SyncHeight()
	info, err := m.d.GetInfo(ctx)
	if err != nil {
		return err
	}
	tip := info.Height

	for height < tip {
		if err := m.checkStop(); err != nil {
			return err
		}

		batchEnd := height + uint64(m.cfg.BatchSize)
		if batchEnd > tip {
			batchEnd = tip
		}
		for h := height + 1; h <= batchEnd; h++ {
			if err := m.checkStop(); err != nil {
				return err
			}
			if err := m.processBlock(ctx, h); err != nil {
				return err
			}
			height = h
			m.getRecorder().SetHeight(height, tip)
			m.emit(Event{Kind: EventProgress, Height: height, Tip: tip})
		}

		info, err = m.d.GetInfo(ctx)
		if err != nil {
			return err
		}
		tip = info.Height

		if m.cfg.ThrottleMillis > 0 {
			select {
			case <-time.After(time.Duration(m.cfg.ThrottleMillis) * time.Millisecond):
			case <-m.stopCh:
				return errStopped
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	m.setState(StateSynced)
	m.emit(Event{Kind: EventSynced, Height: tip})
	return nil
}

func (m *Manager) checkStop() error {
	select {
	case <-m.stopCh:
		return errStopped
	default:
		return nil
	}
}
