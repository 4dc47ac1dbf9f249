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

// Package synccache is a disposable local cache the sync manager
// (spec.md §4.11) uses to remember block hashes by height, for its
// reorg check. It also offers a keyed store for raw daemon responses,
// which internal/sync does not use. Unlike
// internal/storage, nothing here is password-encrypted or
// authoritative: deleting the cache directory only costs a resync.
package synccache

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/xmrcore/walletcore/internal/logging"
)

const (
	blockHashPrefix      = "blockhash_"
	daemonResponsePrefix = "daemonrsp_"
)

// ErrNotFound is returned when a cache lookup misses.
var ErrNotFound = errors.New("synccache: not found")

// Cache is a badger-backed key/value store for sync-manager bookkeeping.
type Cache struct {
	db *badger.DB
}

// Open opens (creating if necessary) the cache at dir.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(newBadgerLogger()).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("synccache: opening %s: %w", dir, err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func heightKey(height uint64) []byte {
	key := make([]byte, len(blockHashPrefix)+8)
	copy(key, blockHashPrefix)
	binary.BigEndian.PutUint64(key[len(blockHashPrefix):], height)
	return key
}

// PutBlockHash records the block hash observed at height.
func (c *Cache) PutBlockHash(height uint64, hash [32]byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(heightKey(height), hash[:])
	})
}

// GetBlockHash returns the cached block hash at height, or ErrNotFound
// if the sync manager has not recorded one.
func (c *Cache) GetBlockHash(height uint64) ([32]byte, error) {
	var hash [32]byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(heightKey(height))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(v []byte) error {
			copy(hash[:], v)
			return nil
		})
	})
	if err != nil {
		return hash, err
	}
	return hash, nil
}

// DeleteBlockHashesFrom discards every cached block hash at height or
// above, used to unwind the cache to a common ancestor once a reorg is
// detected (spec.md §4.11's rollback behavior).
func (c *Cache) DeleteBlockHashesFrom(height uint64) error {
	return c.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(blockHashPrefix)})
		defer it.Close()
		from := heightKey(height)
		var toDelete [][]byte
		for it.Seek(from); it.ValidForPrefix([]byte(blockHashPrefix)); it.Next() {
			key := it.Item().KeyCopy(nil)
			toDelete = append(toDelete, key)
		}
		for _, key := range toDelete {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// PutDaemonResponse memoizes a raw daemon response body under an
// arbitrary caller-chosen cache key (e.g. a request method plus
// parameter hash).
func (c *Cache) PutDaemonResponse(key string, body []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(daemonResponsePrefix+key), body)
	})
}

// GetDaemonResponse returns a memoized daemon response, or ErrNotFound.
func (c *Cache) GetDaemonResponse(key string) ([]byte, error) {
	var body []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(daemonResponsePrefix + key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(v []byte) error {
			body = append([]byte{}, v...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// badgerLogger adapts our sugared logger to badger's expected Logger
// interface, matching the teacher's BadgerLogger adapter pattern.
type badgerLogger struct {
	sugared interface {
		Debugf(string, ...any)
		Infof(string, ...any)
		Warnf(string, ...any)
		Errorf(string, ...any)
	}
}

func newBadgerLogger() *badgerLogger {
	return &badgerLogger{sugared: logging.GetLogger()}
}

func (b *badgerLogger) Errorf(msg string, args ...any)   { b.sugared.Errorf(msg, args...) }
func (b *badgerLogger) Warningf(msg string, args ...any) { b.sugared.Warnf(msg, args...) }
func (b *badgerLogger) Infof(msg string, args ...any)    { b.sugared.Infof(msg, args...) }
func (b *badgerLogger) Debugf(msg string, args ...any)   { b.sugared.Debugf(msg, args...) }
