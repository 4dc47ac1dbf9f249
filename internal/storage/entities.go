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

package storage

// Typed get/put/delete/list operations for each wallet entity
// (spec.md §4.10). Every mutating call rewrites and re-seals the whole
// document; wallets are small enough that this is the simplest correct
// choice rather than a performance concern.

// PutKeys sets the wallet's encrypted key material.
func (s *Storage) PutKeys(keys EncryptedKeys) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.doc.Keys = keys
	return s.save()
}

// GetKeys returns the wallet's encrypted key material.
func (s *Storage) GetKeys() EncryptedKeys {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Keys
}

// PutOutput inserts or replaces a StoredOutput keyed by its key image.
func (s *Storage) PutOutput(o StoredOutput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.doc.Outputs[o.KeyImageHex] = o
	return s.save()
}

// GetOutput looks up a StoredOutput by key image hex.
func (s *Storage) GetOutput(keyImageHex string) (StoredOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.doc.Outputs[keyImageHex]
	if !ok {
		return StoredOutput{}, ErrNotFound
	}
	return o, nil
}

// DeleteOutput removes a StoredOutput by key image hex. Per spec.md
// §3's lifecycle note, this is meant for explicit pruning only;
// spending an output should instead set its Spent/SpendingTxHashHex
// fields via PutOutput.
func (s *Storage) DeleteOutput(keyImageHex string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.doc.Outputs, keyImageHex)
	return s.save()
}

// ListOutputs returns every known output in unspecified order.
func (s *Storage) ListOutputs() []StoredOutput {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredOutput, 0, len(s.doc.Outputs))
	for _, o := range s.doc.Outputs {
		out = append(out, o)
	}
	return out
}

// PutTransaction inserts or replaces a StoredTransaction keyed by its
// hash.
func (s *Storage) PutTransaction(tx StoredTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.doc.Transactions[tx.HashHex] = tx
	return s.save()
}

// GetTransaction looks up a StoredTransaction by hash hex.
func (s *Storage) GetTransaction(hashHex string) (StoredTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.doc.Transactions[hashHex]
	if !ok {
		return StoredTransaction{}, ErrNotFound
	}
	return tx, nil
}

// DeleteTransaction removes a StoredTransaction by hash hex.
func (s *Storage) DeleteTransaction(hashHex string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.doc.Transactions, hashHex)
	return s.save()
}

// ListTransactions returns every known transaction in unspecified
// order.
func (s *Storage) ListTransactions() []StoredTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredTransaction, 0, len(s.doc.Transactions))
	for _, tx := range s.doc.Transactions {
		out = append(out, tx)
	}
	return out
}

// PutAccount inserts or replaces an Account by index.
func (s *Storage) PutAccount(a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for i, existing := range s.doc.Accounts {
		if existing.Index == a.Index {
			s.doc.Accounts[i] = a
			return s.save()
		}
	}
	s.doc.Accounts = append(s.doc.Accounts, a)
	return s.save()
}

// ListAccounts returns every account, ordered by index as inserted.
func (s *Storage) ListAccounts() []Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Account, len(s.doc.Accounts))
	copy(out, s.doc.Accounts)
	return out
}

// AddAddressBookEntry appends a new entry under the next monotonic ID
// and returns it.
func (s *Storage) AddAddressBookEntry(address, label string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	id := s.doc.NextBookID
	s.doc.NextBookID++
	s.doc.AddressBook = append(s.doc.AddressBook, AddressBookEntry{
		ID:      id,
		Address: address,
		Label:   label,
	})
	if err := s.save(); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteAddressBookEntry removes the entry with the given ID.
func (s *Storage) DeleteAddressBookEntry(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for i, e := range s.doc.AddressBook {
		if e.ID == id {
			s.doc.AddressBook = append(s.doc.AddressBook[:i], s.doc.AddressBook[i+1:]...)
			return s.save()
		}
	}
	return ErrNotFound
}

// ListAddressBook returns every saved address book entry.
func (s *Storage) ListAddressBook() []AddressBookEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AddressBookEntry, len(s.doc.AddressBook))
	copy(out, s.doc.AddressBook)
	return out
}

// RollbackTo discards every confirmed output and transaction recorded
// above height and resets the sync height to it (spec.md §4.11's
// `rollback_to` call on a detected reorg's fork point). Mempool
// entries (height 0 / nil height) are untouched since they were never
// part of the rolled-back chain.
func (s *Storage) RollbackTo(height uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for ki, o := range s.doc.Outputs {
		if o.Height > height {
			delete(s.doc.Outputs, ki)
		}
	}
	for hash, tx := range s.doc.Transactions {
		if tx.Height != nil && *tx.Height > height {
			delete(s.doc.Transactions, hash)
		}
	}
	s.doc.SyncHeight = height
	if err := s.save(); err != nil {
		return err
	}
	s.broadcastHeight(height)
	return nil
}

// PutTxNote attaches a free-text note to a transaction hash.
func (s *Storage) PutTxNote(hashHex, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.doc.TxNotes[hashHex] = note
	return s.save()
}

// GetTxNote returns the note attached to a transaction hash, if any.
func (s *Storage) GetTxNote(hashHex string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.doc.TxNotes[hashHex]
	if !ok {
		return "", ErrNotFound
	}
	return note, nil
}

// DeleteTxNote removes the note attached to a transaction hash.
func (s *Storage) DeleteTxNote(hashHex string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.doc.TxNotes, hashHex)
	return s.save()
}
