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

// documentVersion is the only plaintext document schema version this
// build writes or reads.
const documentVersion = 1

// document is the versioned structured plaintext a wallet file decrypts
// to (spec.md §4.10, §6.3): hex-encoded byte fields, decimal-string
// integers, keyed by the entity's natural identifier.
type document struct {
	Version     int                          `json:"version"`
	Keys        EncryptedKeys                `json:"keys"`
	SyncHeight  uint64                       `json:"sync_height"`
	Outputs     map[string]StoredOutput      `json:"outputs"`      // key image hex
	Transactions map[string]StoredTransaction `json:"transactions"` // tx hash hex
	Accounts    []Account                    `json:"accounts"`
	AddressBook []AddressBookEntry           `json:"address_book"`
	TxNotes     map[string]string            `json:"tx_notes"` // tx hash hex -> note
	NextBookID  uint64                       `json:"next_book_id"`
}

func newDocument() document {
	return document{
		Version:      documentVersion,
		Outputs:      make(map[string]StoredOutput),
		Transactions: make(map[string]StoredTransaction),
		TxNotes:      make(map[string]string),
		NextBookID:   1,
	}
}

// EncryptedKeys is the wallet's key material as stored on disk: the
// private spend/view keys sealed under their own nonce (a second,
// inner AEAD layer beneath the whole-file seal, matching spec.md §3's
// EncryptedKeys entity), alongside the public keys in the clear so a
// view-only export can omit the spend ciphertext without re-deriving
// anything.
type EncryptedKeys struct {
	EncryptedSpendHex string `json:"encrypted_spend_hex,omitempty"`
	EncryptedViewHex  string `json:"encrypted_view_hex"`
	SpendNonceHex     string `json:"spend_nonce_hex,omitempty"`
	ViewNonceHex      string `json:"view_nonce_hex"`
	PubSpendHex       string `json:"pub_spend_hex"`
	PubViewHex        string `json:"pub_view_hex"`
}

// StoredOutput is a recognized, wallet-owned transaction output
// (spec.md §3 "StoredOutput (UTXO)").
type StoredOutput struct {
	KeyImageHex       string `json:"key_image_hex"`
	OutPubKeyHex      string `json:"out_pubkey_hex"`
	Amount            string `json:"amount"` // decimal atomic units
	GlobalIndex       uint64 `json:"global_index"`
	TxHashHex         string `json:"tx_hash_hex"`
	LocalIndex        int    `json:"local_index"`
	Height            uint64 `json:"height"` // 0 means unconfirmed (mempool)
	Major             uint32 `json:"major"`
	Minor             uint32 `json:"minor"`
	Spent             bool   `json:"spent"`
	SpendingTxHashHex string `json:"spending_tx_hash_hex,omitempty"`
	Frozen            bool   `json:"frozen"`
	UnlockTime        uint64 `json:"unlock_time"`
}

// Direction distinguishes an incoming transfer from an outgoing spend
// in a StoredTransaction.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
)

// StoredTransaction is a transaction the wallet has observed, either
// as a recognized incoming transfer or one it built and sent (spec.md
// §3 "StoredTransaction").
type StoredTransaction struct {
	HashHex      string    `json:"hash_hex"`
	Height       *uint64   `json:"height,omitempty"` // nil means still in the mempool
	Timestamp    int64     `json:"timestamp"`
	Fee          string    `json:"fee"`
	Direction    Direction `json:"direction"`
	Major        uint32    `json:"major"`
	Minors       []uint32  `json:"minors"`
	NetAmount    string    `json:"net_amount"` // signed decimal atomic units
	PaymentIDHex string    `json:"payment_id_hex,omitempty"`
	Note         string    `json:"note,omitempty"`
}

// Account groups subaddresses under a major index and a caller-chosen
// label, with per-subaddress labels ordered by minor index (spec.md §3
// "Account").
type Account struct {
	Index            uint32   `json:"index"`
	Label            string   `json:"label"`
	SubaddressLabels []string `json:"subaddress_labels"`
}

// AddressBookEntry is a saved recipient address under a monotonically
// increasing ID.
type AddressBookEntry struct {
	ID      uint64 `json:"id"`
	Address string `json:"address"`
	Label   string `json:"label"`
}
