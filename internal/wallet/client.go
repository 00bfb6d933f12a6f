// Package wallet talks to a local helium wallet daemon over JSON-RPC 2.0.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// Client posts JSON-RPC requests to a wallet daemon endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      strconv.FormatUint(rand.Uint64(), 10),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("calling %s: unexpected status %d", method, resp.StatusCode)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("calling %s: %w", method, envelope.Error)
	}

	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}

// Height returns the wallet daemon's view of the chain height.
func (c *Client) Height(ctx context.Context) (uint64, error) {
	var height uint64
	if err := c.call(ctx, "block_height", nil, &height); err != nil {
		return 0, err
	}
	return height, nil
}

// List returns the addresses of the wallets known to the daemon.
func (c *Client) List(ctx context.Context) ([]string, error) {
	var addresses []string
	if err := c.call(ctx, "wallet_list", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// Create makes a new wallet protected by password and returns its address.
func (c *Client) Create(ctx context.Context, password string) (string, error) {
	params := struct {
		Password string `json:"password"`
	}{Password: password}

	var address string
	if err := c.call(ctx, "wallet_create", params, &address); err != nil {
		return "", err
	}
	return address, nil
}

// Unlock decrypts the wallet's signing key in the daemon's memory.
func (c *Client) Unlock(ctx context.Context, address, password string) (bool, error) {
	params := struct {
		Address  string `json:"address"`
		Password string `json:"password"`
	}{Address: address, Password: password}

	var ok bool
	if err := c.call(ctx, "wallet_unlock", params, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Lock discards the wallet's decrypted signing key.
func (c *Client) Lock(ctx context.Context, address string) (bool, error) {
	params := struct {
		Address string `json:"address"`
	}{Address: address}

	var ok bool
	if err := c.call(ctx, "wallet_lock", params, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Pay submits a payment of bones from address to payee. The wallet must be
// unlocked. Returns the pending transaction hash.
func (c *Client) Pay(ctx context.Context, address, payee string, bones uint64) (string, error) {
	params := struct {
		Address string `json:"address"`
		Payee   string `json:"payee"`
		Bones   uint64 `json:"bones"`
	}{Address: address, Payee: payee, Bones: bones}

	var result struct {
		Hash string `json:"hash"`
	}
	if err := c.call(ctx, "wallet_pay", params, &result); err != nil {
		return "", err
	}
	return result.Hash, nil
}

// PendingTransactionStatus reports the daemon's status string for a
// previously submitted transaction hash.
func (c *Client) PendingTransactionStatus(ctx context.Context, hash string) (string, error) {
	params := struct {
		Hash string `json:"hash"`
	}{Hash: hash}

	var status string
	if err := c.call(ctx, "pending_transaction_status", params, &status); err != nil {
		return "", err
	}
	return status, nil
}
