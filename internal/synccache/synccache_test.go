package synccache

import "testing"

func TestBlockHashPutGet(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	var hash [32]byte
	hash[0] = 0xAB
	if err := c.PutBlockHash(100, hash); err != nil {
		t.Fatalf("PutBlockHash: %v", err)
	}
	got, err := c.GetBlockHash(100)
	if err != nil {
		t.Fatalf("GetBlockHash: %v", err)
	}
	if got != hash {
		t.Fatalf("hash mismatch: got %x want %x", got, hash)
	}

	if _, err := c.GetBlockHash(101); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBlockHashesFromUnwindsTail(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	for h := uint64(1); h <= 5; h++ {
		var hash [32]byte
		hash[0] = byte(h)
		if err := c.PutBlockHash(h, hash); err != nil {
			t.Fatalf("PutBlockHash(%d): %v", h, err)
		}
	}

	if err := c.DeleteBlockHashesFrom(3); err != nil {
		t.Fatalf("DeleteBlockHashesFrom: %v", err)
	}

	for h := uint64(1); h < 3; h++ {
		if _, err := c.GetBlockHash(h); err != nil {
			t.Fatalf("expected height %d to survive rollback, got %v", h, err)
		}
	}
	for h := uint64(3); h <= 5; h++ {
		if _, err := c.GetBlockHash(h); err != ErrNotFound {
			t.Fatalf("expected height %d to be discarded, got %v", h, err)
		}
	}
}

func TestDaemonResponseMemoization(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if _, err := c.GetDaemonResponse("get_info"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound before any put, got %v", err)
	}
	if err := c.PutDaemonResponse("get_info", []byte(`{"height":123}`)); err != nil {
		t.Fatalf("PutDaemonResponse: %v", err)
	}
	body, err := c.GetDaemonResponse("get_info")
	if err != nil {
		t.Fatalf("GetDaemonResponse: %v", err)
	}
	if string(body) != `{"height":123}` {
		t.Fatalf("unexpected body: %s", body)
	}
}
