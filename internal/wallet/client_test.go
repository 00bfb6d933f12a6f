package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// rpcServer answers each method from the results map and records the
// decoded requests it saw.
func rpcServer(t *testing.T, results map[string]string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var seen []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		seen = append(seen, req)

		method, _ := req["method"].(string)
		result, ok := results[method]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":` + result + `}`))
	}))
	t.Cleanup(server.Close)
	return server, &seen
}

func TestHeight(t *testing.T) {
	server, seen := rpcServer(t, map[string]string{"block_height": "123456"})
	client := NewClient(server.URL)

	height, err := client.Height(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if height != 123456 {
		t.Errorf("height = %d, want 123456", height)
	}

	req := (*seen)[0]
	if req["jsonrpc"] != "2.0" {
		t.Errorf("jsonrpc = %v, want 2.0", req["jsonrpc"])
	}
	if _, ok := req["id"].(string); !ok {
		t.Errorf("id = %v, want a string", req["id"])
	}
	if _, ok := req["params"]; ok {
		t.Errorf("params present on a no-param call: %v", req["params"])
	}
}

func TestList(t *testing.T) {
	server, _ := rpcServer(t, map[string]string{"wallet_list": `["addr1","addr2"]`})
	client := NewClient(server.URL)

	addresses, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(addresses) != 2 || addresses[0] != "addr1" {
		t.Errorf("addresses = %v", addresses)
	}
}

func TestCreateSendsPassword(t *testing.T) {
	server, seen := rpcServer(t, map[string]string{"wallet_create": `"new-addr"`})
	client := NewClient(server.URL)

	address, err := client.Create(context.Background(), "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if address != "new-addr" {
		t.Errorf("address = %q, want new-addr", address)
	}

	params := (*seen)[0]["params"].(map[string]any)
	if params["password"] != "hunter2" {
		t.Errorf("params = %v", params)
	}
}

func TestUnlockAndLock(t *testing.T) {
	server, seen := rpcServer(t, map[string]string{
		"wallet_unlock": "true",
		"wallet_lock":   "true",
	})
	client := NewClient(server.URL)

	ok, err := client.Unlock(context.Background(), "addr1", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("unlock returned false")
	}

	ok, err = client.Lock(context.Background(), "addr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("lock returned false")
	}

	unlockParams := (*seen)[0]["params"].(map[string]any)
	if unlockParams["address"] != "addr1" || unlockParams["password"] != "hunter2" {
		t.Errorf("unlock params = %v", unlockParams)
	}
	lockParams := (*seen)[1]["params"].(map[string]any)
	if lockParams["address"] != "addr1" {
		t.Errorf("lock params = %v", lockParams)
	}
}

func TestPayReturnsHash(t *testing.T) {
	server, seen := rpcServer(t, map[string]string{"wallet_pay": `{"hash":"txn-hash"}`})
	client := NewClient(server.URL)

	hash, err := client.Pay(context.Background(), "addr1", "addr2", 250000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash != "txn-hash" {
		t.Errorf("hash = %q, want txn-hash", hash)
	}

	params := (*seen)[0]["params"].(map[string]any)
	if params["payee"] != "addr2" || params["bones"] != float64(250000000) {
		t.Errorf("pay params = %v", params)
	}
}

func TestPendingTransactionStatus(t *testing.T) {
	server, _ := rpcServer(t, map[string]string{"pending_transaction_status": `"cleared"`})
	client := NewClient(server.URL)

	status, err := client.PendingTransactionStatus(context.Background(), "txn-hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != "cleared" {
		t.Errorf("status = %q, want cleared", status)
	}
}

func TestRPCErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":"1","error":{"code":-32601,"message":"method not found"}}`))
	}))
	defer server.Close()
	client := NewClient(server.URL)

	_, err := client.Height(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}

	var rpcErr *rpcError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("error = %v, want *rpcError", err)
	}
	if rpcErr.Code != -32601 {
		t.Errorf("code = %d, want -32601", rpcErr.Code)
	}
}

func TestBadStatusSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	client := NewClient(server.URL)

	if _, err := client.List(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}
