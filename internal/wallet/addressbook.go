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
	"fmt"

	"github.com/xmrcore/walletcore/internal/address"
	"github.com/xmrcore/walletcore/internal/storage"
)

// AddAddressBookEntry validates addr against the wallet's network
// before saving it under label, returning its assigned ID.
func (w *Wallet) AddAddressBookEntry(addr, label string) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	decoded, err := address.Decode(addr)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrUnknownAddress, addr, err)
	}
	if decoded.Network != w.network {
		return 0, fmt.Errorf("%w: %s: wrong network", ErrUnknownAddress, addr)
	}
	return w.store.AddAddressBookEntry(addr, label)
}

// DeleteAddressBookEntry removes a saved entry by ID.
func (w *Wallet) DeleteAddressBookEntry(id uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.DeleteAddressBookEntry(id)
}

// ListAddressBook returns every saved recipient entry.
func (w *Wallet) ListAddressBook() []storage.AddressBookEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.store.ListAddressBook()
}
