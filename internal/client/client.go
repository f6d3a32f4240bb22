// Package client provides a Go SDK for talking to the distributed KV
// store through its router.
//
// Instead of writing raw HTTP requests everywhere, the SDK wraps them
// behind a clean Go API:
//
//	c := client.New(cfg)
//	c.Init(ctx, cfg.ServerList)
//	c.Put(ctx, "key", "value")
//	c.Get(ctx, "key")
//
// It hides HTTP details, JSON encoding/decoding, and error translation,
// and validates keys/values against the wire grammar (internal/validate)
// before ever reaching the network.
package client

import (
	"bytes"
	"context"
	"distributed-kvstore/internal/validate"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to exactly one router. The router is responsible for
// locating a key's coordinator and forwarding the RPC — the SDK itself
// implements none of the replication or consistent-hashing logic.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client pointed at cfg's router.
func New(cfg Config) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("http://%s:%d", cfg.LBHost, cfg.LBPort),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type statusResponse struct {
	Code int `json:"code"`
}

// Init hands the router a server list and has it build the hash ring
// and push routing tables to every node. Returns 0 on success, -1
// otherwise.
func (c *Client) Init(ctx context.Context, serverList []string) (int, error) {
	body, _ := json.Marshal(struct {
		ServerList []string `json:"server_list"`
	}{ServerList: serverList})

	resp, err := c.post(ctx, "/rpc/init", body)
	if err != nil {
		return -1, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return -1, err
	}
	var result statusResponse
	return result.Code, json.NewDecoder(resp.Body).Decode(&result)
}

// Destroy clears the router's ring and routing tables.
func (c *Client) Destroy(ctx context.Context) (int, error) {
	resp, err := c.post(ctx, "/rpc/destroy", nil)
	if err != nil {
		return -1, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return -1, err
	}
	var result statusResponse
	return result.Code, json.NewDecoder(resp.Body).Decode(&result)
}

// getResponse mirrors internal/router.getResponse — kept as a
// separate type since the two packages never import one another.
type getResponse struct {
	Value *string `json:"value,omitempty"`
	Code  int     `json:"code"`
}

// Get fetches key via the router. Returns (value, code) where code is
// 0 found, 1 not found, -1 failure.
func (c *Client) Get(ctx context.Context, key string) (*string, int, error) {
	if err := validate.Key(key); err != nil {
		return nil, -1, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/rpc/get/%s", c.baseURL, key), nil)
	if err != nil {
		return nil, -1, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, -1, fmt.Errorf("get request failed: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, -1, err
	}

	var result getResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, -1, err
	}
	return result.Value, result.Code, nil
}

// Put stores key=value via the router. Returns the put status code: 0
// existed, 1 created, -1 failure.
func (c *Client) Put(ctx context.Context, key, value string) (int, error) {
	if err := validate.Key(key); err != nil {
		return -1, err
	}
	if err := validate.Value(value); err != nil {
		return -1, err
	}

	body, _ := json.Marshal(struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}{Key: key, Value: value})

	resp, err := c.post(ctx, "/rpc/put", body)
	if err != nil {
		return -1, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return -1, err
	}
	var result statusResponse
	return result.Code, json.NewDecoder(resp.Body).Decode(&result)
}

// ToggleServer flips a node's simulated liveness flag — a test hook.
func (c *Client) ToggleServer(ctx context.Context, host string, port int) error {
	body, _ := json.Marshal(struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}{Host: host, Port: port})

	resp, err := c.post(ctx, "/rpc/toggle_server", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", path, err)
	}
	return resp, nil
}

// APIError carries the HTTP status and error message from the router.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// checkStatus converts HTTP error responses into Go errors: 2xx is
// success, anything else is parsed as {"error": "..."} if possible.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	var apiErr struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &apiErr)
	msg := apiErr.Error
	if msg == "" {
		msg = string(body)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
