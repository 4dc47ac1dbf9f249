package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Method != "get_info" {
			t.Fatalf("unexpected method: %s", req.Method)
		}
		json.NewEncoder(w).Encode(rpcResponse{
			ID:     req.ID,
			Result: json.RawMessage(`{"height":1234,"target_height":1234,"top_block_hash":"ab","nettype":"mainnet"}`),
		})
	}))
	defer srv.Close()

	d := NewHTTPDaemon(srv.URL, 5*time.Second)
	info, err := d.GetInfo(context.Background())
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}
	if info.Height != 1234 || info.NetworkType != "mainnet" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestRPCErrorIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(rpcResponse{
			Error: &rpcError{Code: -1, Message: "no such method"},
		})
	}))
	defer srv.Close()

	d := NewHTTPDaemon(srv.URL, 5*time.Second, WithMaxRetries(3))
	if _, err := d.GetInfo(context.Background()); err == nil {
		t.Fatalf("expected an error")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one call for a permanent RPC error, got %d", calls)
	}
}

func TestServerErrorIsRetriedThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(rpcResponse{
			ID:     req.ID,
			Result: json.RawMessage(`{"height":1,"target_height":1,"top_block_hash":"","nettype":"mainnet"}`),
		})
	}))
	defer srv.Close()

	d := NewHTTPDaemon(srv.URL, 5*time.Second, WithMaxRetries(5))
	if _, err := d.GetInfo(context.Background()); err != nil {
		t.Fatalf("expected eventual success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestSendRawTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send_raw_transaction" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "OK"})
	}))
	defer srv.Close()

	d := NewHTTPDaemon(srv.URL, 5*time.Second)
	result, err := d.SendRawTransaction(context.Background(), []byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("SendRawTransaction: %v", err)
	}
	if !result.Accepted {
		t.Fatalf("expected acceptance, got %+v", result)
	}
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewHTTPDaemon(srv.URL, 5*time.Second, WithMaxRetries(0), WithCircuitBreaker(2, time.Minute))
	for i := 0; i < 2; i++ {
		if _, err := d.GetInfo(context.Background()); err == nil {
			t.Fatalf("expected failure on call %d", i)
		}
	}
	if _, err := d.GetInfo(context.Background()); err != ErrCircuitOpen {
		t.Fatalf("expected ErrCircuitOpen once the threshold trips, got %v", err)
	}
}
