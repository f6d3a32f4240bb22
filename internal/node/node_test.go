package node

import (
	"distributed-kvstore/internal/nodeclient"
	"distributed-kvstore/internal/ringhash"
	"testing"
)

func newTestNode(t *testing.T) *Node {
	t.Helper()
	nd, err := New(Config{DataDir: t.TempDir(), N: 3, W: 2, R: 2}, nodeclient.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := nd.SetRoutingTable(ringhash.RoutingTable{{{Host: "127.0.0.1", Port: 9001}}}); err != nil {
		t.Fatalf("SetRoutingTable: %v", err)
	}
	t.Cleanup(nd.Close)
	return nd
}

func TestNodePut(t *testing.T) {
	t.Run("new key is created", func(t *testing.T) {
		nd := newTestNode(t)
		result := nd.Put("k1", "v1", nil)
		if result.Kind != KindOK || result.Existed {
			t.Fatalf("expected created, got %+v", result)
		}
	})

	t.Run("existing key is updated", func(t *testing.T) {
		nd := newTestNode(t)
		nd.Put("k1", "v1", nil)
		result := nd.Put("k1", "v2", nil)
		if result.Kind != KindOK || !result.Existed {
			t.Fatalf("expected updated, got %+v", result)
		}
		value, ok := nd.Fetch("k1", true)
		if !ok || value == nil || *value != "v2" {
			t.Fatalf("expected v2, got %v (ok=%v)", value, ok)
		}
	})

	t.Run("inactive node rejects put", func(t *testing.T) {
		nd := newTestNode(t)
		nd.ToggleActive()
		result := nd.Put("k1", "v1", nil)
		if result.Kind != KindInactive {
			t.Fatalf("expected inactive, got %+v", result)
		}
	})

	t.Run("hinted put does not touch the primary store", func(t *testing.T) {
		nd := newTestNode(t)
		hint := ringhash.NodeAddr{Host: "127.0.0.1", Port: 9099}
		nd.Put("k1", "v1", &hint)

		if _, ok := nd.Fetch("k1", true); ok {
			t.Fatalf("hinted write should not appear in the primary store")
		}
		value, ok := nd.Fetch("k1", false)
		if !ok || value == nil || *value != "v1" {
			t.Fatalf("expected hinted value v1, got %v (ok=%v)", value, ok)
		}
	})
}

func TestNodeFetch(t *testing.T) {
	t.Run("absent key returns not-found", func(t *testing.T) {
		nd := newTestNode(t)
		value, ok := nd.Fetch("missing", true)
		if ok || value != nil {
			t.Fatalf("expected (nil, false), got (%v, %v)", value, ok)
		}
	})
}

func TestNodeToggleActive(t *testing.T) {
	nd := newTestNode(t)
	if !nd.Ping() {
		t.Fatalf("node should start active")
	}
	nd.ToggleActive()
	if nd.Ping() {
		t.Fatalf("expected inactive after toggle")
	}
	nd.ToggleActive()
	if !nd.Ping() {
		t.Fatalf("expected active after second toggle")
	}
}

func TestResultStatusCodes(t *testing.T) {
	cases := []struct {
		name    string
		result  Result
		wantPut int
		wantGet int
	}{
		{"created", Result{Kind: KindOK, Existed: false}, 1, 0},
		{"updated", Result{Kind: KindOK, Existed: true}, 0, 0},
		{"not found", Result{Kind: KindNotFound}, -1, 1},
		{"quorum fail", Result{Kind: KindQuorumFail}, -1, -1},
		{"inactive", Result{Kind: KindInactive}, -2, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.result.PutStatusCode(); got != tc.wantPut {
				t.Errorf("PutStatusCode() = %d, want %d", got, tc.wantPut)
			}
			if got := tc.result.GetStatusCode(); got != tc.wantGet {
				t.Errorf("GetStatusCode() = %d, want %d", got, tc.wantGet)
			}
		})
	}
}
