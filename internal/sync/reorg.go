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

package sync

import (
	"context"
	"errors"

	"github.com/xmrcore/walletcore/internal/synccache"
)

// reconcileReorg validates the wallet's already-persisted heights
// against the daemon's current view before any forward catch-up runs
// (spec.md §4.11). It walks ascending from the oldest height still
// within ReorgScanDepth of the persisted sync height up to that
// height, looking for the first (lowest) height whose daemon-reported
// hash disagrees with the cached one. The first disagreement found is
// the fork point: everything at or above it is discarded and resynced.
func (m *Manager) reconcileReorg(ctx context.Context) error {
	syncedHeight := m.store.SyncHeight()
	if syncedHeight == 0 {
		return nil
	}

	depth := uint64(m.cfg.ReorgScanDepth)
	low := uint64(0)
	if syncedHeight > depth {
		low = syncedHeight - depth + 1
	}

	for h := low; h <= syncedHeight; h++ {
		if err := m.checkStop(); err != nil {
			return err
		}

		cached, err := m.cache.GetBlockHash(h)
		if errors.Is(err, synccache.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		blk, err := m.d.GetBlock(ctx, h)
		if err != nil {
			return err
		}
		if blk.Hash == cached {
			continue
		}

		forkPoint := h
		priorHeight := syncedHeight

		rollbackTo := uint64(0)
		if forkPoint > 0 {
			rollbackTo = forkPoint - 1
		}
		if err := m.store.RollbackTo(rollbackTo); err != nil {
			return err
		}
		if err := m.cache.DeleteBlockHashesFrom(forkPoint); err != nil {
			return err
		}

		m.getRecorder().IncReorgsDetected()
		m.emit(Event{Kind: EventReorgDetected, ForkPoint: forkPoint, PriorHeight: priorHeight})
		return nil
	}

	return nil
}
