package nodeclient

import (
	"bytes"
	"context"
	"distributed-kvstore/internal/ringhash"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls another node's RPC surface over HTTP. One Client talks
// to every node in the cluster — the target address is a parameter of
// each call rather than baked into the Client, so a single *http.Client
// (and its connection pool) is reused across every peer instead of
// allocating one client per peer.
type Client struct {
	http *http.Client
}

// New creates a Client. Liveness probes are bounded to ~500ms
// internally; ordinary RPCs use the Client's longer default timeout.
func New() *Client {
	return &Client{http: &http.Client{Timeout: 5 * time.Second}}
}

func url(addr ringhash.NodeAddr, path string) string {
	return fmt.Sprintf("http://%s%s", addr.String(), path)
}

func (c *Client) postJSON(ctx context.Context, addr ringhash.NodeAddr, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url(addr, path), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("node %s: HTTP %d", addr, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) getJSON(ctx context.Context, addr ringhash.NodeAddr, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url(addr, path), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("node %s: HTTP %d", addr, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Ping performs a liveness probe with a short ~500ms timeout so a down
// node never stalls the caller.
func (c *Client) Ping(ctx context.Context, addr ringhash.NodeAddr) bool {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	var resp PingResponse
	if err := c.getJSON(ctx, addr, "/rpc/ping", &resp); err != nil {
		return false
	}
	return resp.Active
}

// ToggleActive flips the remote node's active flag (test hook).
func (c *Client) ToggleActive(ctx context.Context, addr ringhash.NodeAddr) error {
	return c.postJSON(ctx, addr, "/rpc/toggle_active", struct{}{}, nil)
}

// SetRoutingTable pushes a routing table to a node (called by the router at init).
func (c *Client) SetRoutingTable(ctx context.Context, addr ringhash.NodeAddr, table ringhash.RoutingTable) error {
	return c.postJSON(ctx, addr, "/rpc/routing_table", SetRoutingTableRequest{Table: table}, nil)
}

// Put sends a direct or hinted put to a replica. hint is nil for a
// direct write to an intended replica, non-nil when the target is a
// substitute accepting a hint on behalf of hint.
func (c *Client) Put(ctx context.Context, addr ringhash.NodeAddr, key, data string, hint *ringhash.NodeAddr) (int, error) {
	req := PutRequest{Key: key, Data: data}
	if hint != nil {
		req.HasHint = true
		req.HintHost = hint.Host
		req.HintPort = hint.Port
	}
	var resp PutResponse
	if err := c.postJSON(ctx, addr, "/rpc/put", req, &resp); err != nil {
		return -1, err
	}
	return resp.Code, nil
}

// Fetch reads a key from a replica's primary store (isPrimary) or
// hinted-replica store (!isPrimary).
func (c *Client) Fetch(ctx context.Context, addr ringhash.NodeAddr, key string, isPrimary bool) (*string, error) {
	path := fmt.Sprintf("/rpc/fetch/%s?primary=%t", key, isPrimary)
	var resp FetchResponse
	if err := c.getJSON(ctx, addr, path, &resp); err != nil {
		return nil, err
	}
	if !resp.Found {
		return nil, nil
	}
	return resp.Value, nil
}

// CoordinatorPut invokes the coordinator-write protocol on addr (the
// first live preference-list entry).
func (c *Client) CoordinatorPut(ctx context.Context, addr ringhash.NodeAddr, key, data string, prefList []ringhash.NodeAddr) (int, error) {
	req := CoordinatorPutRequest{Key: key, Data: data, PreferenceList: prefList}
	var resp CoordinatorPutResponse
	if err := c.postJSON(ctx, addr, "/rpc/coordinator_put", req, &resp); err != nil {
		return -1, err
	}
	return resp.Code, nil
}

// Get invokes the coordinator-read protocol on addr.
func (c *Client) Get(ctx context.Context, addr ringhash.NodeAddr, key string, prefList []ringhash.NodeAddr) (*string, int, error) {
	req := GetRequest{Key: key, PreferenceList: prefList}
	var resp GetResponse
	if err := c.postJSON(ctx, addr, "/rpc/get", req, &resp); err != nil {
		return nil, -1, err
	}
	return resp.Value, resp.Code, nil
}
