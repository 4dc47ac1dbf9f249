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

// Package storage is the single-file, password-encrypted wallet store
// (spec.md §4.10, §6.3). The whole wallet state lives as one versioned
// JSON document, sealed with ChaCha20-Poly1305 under an Argon2id key
// and rewritten atomically on every mutation.
package storage

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xmrcore/walletcore/internal/aead"
)

// fileAAD domain-separates the wallet file's AEAD tag from any other
// ciphertext this module might one day seal.
var fileAAD = []byte("walletcore-wallet-v1")

// ErrWrongPassword is returned by Open and ChangePassword when the
// supplied password fails to authenticate the wallet file.
var ErrWrongPassword = errors.New("storage: wrong password")

// ErrClosed is returned by any operation attempted after Close.
var ErrClosed = errors.New("storage: closed")

// ErrNotFound is returned by a Get for an identifier with no record.
var ErrNotFound = errors.New("storage: not found")

// Storage is a single open wallet file. All methods are safe for
// concurrent use.
type Storage struct {
	mu     sync.Mutex
	path   string
	salt   [aead.SaltSize]byte
	key    [aead.KeySize]byte
	doc    document
	closed bool

	lockFile *os.File

	heightSubs map[chan uint64]struct{}
}

// Open decrypts path under password and returns a ready Storage. If
// path does not exist and create is true, a fresh empty wallet
// document is initialized and immediately persisted; if it does not
// exist and create is false, an error is returned.
func Open(path string, password []byte, create bool) (*Storage, error) {
	lockFile, err := acquireLock(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if !create {
			releaseLock(lockFile)
			return nil, fmt.Errorf("storage: open %s: %w", path, err)
		}
		return createNew(path, password, lockFile)
	}
	if err != nil {
		releaseLock(lockFile)
		return nil, fmt.Errorf("storage: reading %s: %w", path, err)
	}

	if len(raw) < aead.SaltSize+aead.NonceSize {
		releaseLock(lockFile)
		return nil, fmt.Errorf("storage: %s: truncated wallet file", path)
	}
	var salt [aead.SaltSize]byte
	copy(salt[:], raw[:aead.SaltSize])
	var nonce [aead.NonceSize]byte
	copy(nonce[:], raw[aead.SaltSize:aead.SaltSize+aead.NonceSize])
	sealed := raw[aead.SaltSize+aead.NonceSize:]

	key := aead.DeriveKey(password, salt)
	plaintext, err := aead.Open(key, nonce, fileAAD, sealed)
	if err != nil {
		releaseLock(lockFile)
		return nil, ErrWrongPassword
	}

	var doc document
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		releaseLock(lockFile)
		return nil, fmt.Errorf("storage: %s: corrupt document: %w", path, err)
	}

	return &Storage{
		path:       path,
		salt:       salt,
		key:        key,
		doc:        doc,
		lockFile:   lockFile,
		heightSubs: make(map[chan uint64]struct{}),
	}, nil
}

func createNew(path string, password []byte, lockFile *os.File) (*Storage, error) {
	salt, err := aead.NewSalt()
	if err != nil {
		releaseLock(lockFile)
		return nil, err
	}
	s := &Storage{
		path:       path,
		salt:       salt,
		key:        aead.DeriveKey(password, salt),
		doc:        newDocument(),
		lockFile:   lockFile,
		heightSubs: make(map[chan uint64]struct{}),
	}
	if err := s.save(); err != nil {
		releaseLock(lockFile)
		return nil, err
	}
	return s, nil
}

// Close zeroes the in-memory key material and closes any open
// sync-height subscriptions. The Storage must not be used afterward.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	for ch := range s.heightSubs {
		close(ch)
		delete(s.heightSubs, ch)
	}
	for i := range s.key {
		s.key[i] = 0
	}
	s.closed = true
	return releaseLock(s.lockFile)
}

// ChangePassword re-authenticates with oldPassword, then re-seals the
// wallet file under a freshly derived key from newPassword and a fresh
// salt.
func (s *Storage) ChangePassword(oldPassword, newPassword []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if aead.DeriveKey(oldPassword, s.salt) != s.key {
		return ErrWrongPassword
	}
	newSalt, err := aead.NewSalt()
	if err != nil {
		return err
	}
	oldSalt, oldKey := s.salt, s.key
	s.salt = newSalt
	s.key = aead.DeriveKey(newPassword, newSalt)
	if err := s.save(); err != nil {
		s.salt, s.key = oldSalt, oldKey
		return err
	}
	return nil
}

// save re-serializes the current document, seals it under a fresh
// nonce, and atomically replaces the file on disk: write to a fresh
// temp file named <base>.tmp-* beside path, fsync, rename over path
// (spec.md §4.10's atomicity
// requirement). Caller must hold s.mu.
func (s *Storage) save() error {
	plaintext, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("storage: encoding document: %w", err)
	}
	nonce, err := aead.NewNonce()
	if err != nil {
		return err
	}
	sealed, err := aead.Seal(s.key, nonce, fileAAD, plaintext)
	if err != nil {
		return err
	}

	blob := make([]byte, 0, aead.SaltSize+aead.NonceSize+len(sealed))
	blob = append(blob, s.salt[:]...)
	blob = append(blob, nonce[:]...)
	blob = append(blob, sealed...)

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("storage: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: renaming into place: %w", err)
	}
	return nil
}

// Seal encrypts plaintext under the wallet file's own derived key with a
// fresh nonce, authenticating aad. It is the inner AEAD layer
// EncryptedKeys' EncryptedSpendHex/EncryptedViewHex fields use (spec.md
// §4.10): the private scalars get their own nonce beneath the
// whole-file seal rather than relying on the document encryption alone.
func (s *Storage) Seal(aad, plaintext []byte) (nonceHex, ciphertextHex string, err error) {
	s.mu.Lock()
	key := s.key
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return "", "", ErrClosed
	}
	nonce, err := aead.NewNonce()
	if err != nil {
		return "", "", err
	}
	sealed, err := aead.Seal(key, nonce, aad, plaintext)
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(nonce[:]), hex.EncodeToString(sealed), nil
}

// Unseal reverses Seal, authenticating aad against the wallet file's
// own derived key.
func (s *Storage) Unseal(nonceHex, ciphertextHex string, aad []byte) ([]byte, error) {
	s.mu.Lock()
	key := s.key
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	nonceBytes, err := hex.DecodeString(nonceHex)
	if err != nil {
		return nil, fmt.Errorf("storage: decode nonce: %w", err)
	}
	if len(nonceBytes) != aead.NonceSize {
		return nil, fmt.Errorf("storage: nonce must be %d bytes, got %d", aead.NonceSize, len(nonceBytes))
	}
	var nonce [aead.NonceSize]byte
	copy(nonce[:], nonceBytes)
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, fmt.Errorf("storage: decode ciphertext: %w", err)
	}
	plaintext, err := aead.Open(key, nonce, aad, ciphertext)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// SyncHeight returns the last persisted sync height.
func (s *Storage) SyncHeight() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.SyncHeight
}

// SetSyncHeight persists a new sync height and notifies every current
// subscriber. Callers are expected to pass monotonically
// non-decreasing heights except when rolling back for a reorg
// (spec.md §3's StoredTransaction lifecycle note).
func (s *Storage) SetSyncHeight(height uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.doc.SyncHeight = height
	if err := s.save(); err != nil {
		return err
	}
	s.broadcastHeight(height)
	return nil
}

// SubscribeSyncHeight returns a channel that receives subsequently
// committed sync heights, replaying the last-observed value
// immediately on subscribe. The channel buffers one value: a reader
// that falls behind sees only the latest height, not every one. The returned func unsubscribes and
// closes the channel; callers must call it to avoid leaking the
// subscription.
func (s *Storage) SubscribeSyncHeight() (<-chan uint64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan uint64, 1)
	ch <- s.doc.SyncHeight
	s.heightSubs[ch] = struct{}{}
	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.heightSubs[ch]; ok {
			delete(s.heightSubs, ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

// broadcastHeight sends height to every subscriber, keeping only the
// latest value buffered per channel. Caller must hold s.mu.
func (s *Storage) broadcastHeight(height uint64) {
	for ch := range s.heightSubs {
		select {
		case ch <- height:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- height
		}
	}
}
