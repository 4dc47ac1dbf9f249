package storage

import (
	"path/filepath"
	"testing"
)

func TestOpenCreateCloseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.wallet")
	password := []byte("hunter2")

	s, err := Open(path, password, true)
	if err != nil {
		t.Fatalf("Open(create): %v", err)
	}
	if err := s.PutKeys(EncryptedKeys{PubSpendHex: "ab", PubViewHex: "cd"}); err != nil {
		t.Fatalf("PutKeys: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path, password, false)
	if err != nil {
		t.Fatalf("Open(reopen): %v", err)
	}
	defer reopened.Close()

	keys := reopened.GetKeys()
	if keys.PubSpendHex != "ab" || keys.PubViewHex != "cd" {
		t.Fatalf("unexpected keys after reopen: %+v", keys)
	}
}

func TestOpenRejectsWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.wallet")

	s, err := Open(path, []byte("correct-password"), true)
	if err != nil {
		t.Fatalf("Open(create): %v", err)
	}
	s.Close()

	if _, err := Open(path, []byte("wrong-password"), false); err != ErrWrongPassword {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestOpenMissingFileWithoutCreateFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.wallet")
	if _, err := Open(path, []byte("x"), false); err == nil {
		t.Fatalf("expected an error opening a nonexistent wallet without create")
	}
}

func TestChangePasswordThenReopenWithNewPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.wallet")
	s, err := Open(path, []byte("old-password"), true)
	if err != nil {
		t.Fatalf("Open(create): %v", err)
	}
	if err := s.ChangePassword([]byte("old-password"), []byte("new-password")); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	s.Close()

	if _, err := Open(path, []byte("old-password"), false); err != ErrWrongPassword {
		t.Fatalf("expected old password to be rejected after change, got %v", err)
	}
	reopened, err := Open(path, []byte("new-password"), false)
	if err != nil {
		t.Fatalf("Open with new password: %v", err)
	}
	reopened.Close()
}

func TestChangePasswordRejectsWrongOldPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.wallet")
	s, err := Open(path, []byte("old-password"), true)
	if err != nil {
		t.Fatalf("Open(create): %v", err)
	}
	defer s.Close()

	if err := s.ChangePassword([]byte("not-the-old-password"), []byte("new")); err != ErrWrongPassword {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
}

func TestOutputCRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.wallet")
	s, err := Open(path, []byte("pw"), true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	out := StoredOutput{KeyImageHex: "ki1", Amount: "100", GlobalIndex: 5}
	if err := s.PutOutput(out); err != nil {
		t.Fatalf("PutOutput: %v", err)
	}
	got, err := s.GetOutput("ki1")
	if err != nil {
		t.Fatalf("GetOutput: %v", err)
	}
	if got.Amount != "100" {
		t.Fatalf("unexpected amount: %s", got.Amount)
	}
	if len(s.ListOutputs()) != 1 {
		t.Fatalf("expected one output")
	}
	if err := s.DeleteOutput("ki1"); err != nil {
		t.Fatalf("DeleteOutput: %v", err)
	}
	if _, err := s.GetOutput("ki1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestAddressBookMonotonicIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.wallet")
	s, err := Open(path, []byte("pw"), true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	id1, err := s.AddAddressBookEntry("addr1", "alice")
	if err != nil {
		t.Fatalf("AddAddressBookEntry: %v", err)
	}
	id2, err := s.AddAddressBookEntry("addr2", "bob")
	if err != nil {
		t.Fatalf("AddAddressBookEntry: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("expected monotonically increasing IDs, got %d then %d", id1, id2)
	}
	if len(s.ListAddressBook()) != 2 {
		t.Fatalf("expected two entries")
	}
	if err := s.DeleteAddressBookEntry(id1); err != nil {
		t.Fatalf("DeleteAddressBookEntry: %v", err)
	}
	if len(s.ListAddressBook()) != 1 {
		t.Fatalf("expected one entry after delete")
	}
}

func TestSyncHeightSubscribeReplaysLastValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.wallet")
	s, err := Open(path, []byte("pw"), true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.SetSyncHeight(42); err != nil {
		t.Fatalf("SetSyncHeight: %v", err)
	}

	ch, unsubscribe := s.SubscribeSyncHeight()
	defer unsubscribe()

	if got := <-ch; got != 42 {
		t.Fatalf("expected replayed height 42, got %d", got)
	}

	if err := s.SetSyncHeight(43); err != nil {
		t.Fatalf("SetSyncHeight: %v", err)
	}
	if got := <-ch; got != 43 {
		t.Fatalf("expected 43 after commit, got %d", got)
	}

	if s.SyncHeight() != 43 {
		t.Fatalf("expected SyncHeight() to report 43")
	}
}

func TestTxNoteCRUD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.wallet")
	s, err := Open(path, []byte("pw"), true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.PutTxNote("txhash1", "paid rent"); err != nil {
		t.Fatalf("PutTxNote: %v", err)
	}
	note, err := s.GetTxNote("txhash1")
	if err != nil {
		t.Fatalf("GetTxNote: %v", err)
	}
	if note != "paid rent" {
		t.Fatalf("unexpected note: %s", note)
	}
	if err := s.DeleteTxNote("txhash1"); err != nil {
		t.Fatalf("DeleteTxNote: %v", err)
	}
	if _, err := s.GetTxNote("txhash1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
