package router

import (
	"context"
	"distributed-kvstore/internal/node"
	"distributed-kvstore/internal/nodeclient"
	"distributed-kvstore/internal/ringhash"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// startTestNode runs a real storage node behind an httptest server,
// exercising the router against the same HTTP surface it drives in
// production — an integration test in the style of
// internal/node/coordinator_test.go's testCluster, one layer up.
func startTestNode(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	nd, err := node.New(node.Config{DataDir: t.TempDir(), N: 3, W: 2, R: 2}, nodeclient.New())
	if err != nil {
		t.Fatalf("node.New: %v", err)
	}
	engine := gin.New()
	node.NewTransport(nd).Register(engine)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	t.Cleanup(nd.Close)

	return strings.TrimPrefix(srv.URL, "http://")
}

func newTestService(t *testing.T, serverCount int) (*Service, []string) {
	t.Helper()
	servers := make([]string, serverCount)
	for i := range servers {
		servers[i] = startTestNode(t)
	}

	svc, err := New(Config{VNodes: 4, N: 3}, nodeclient.New())
	if err != nil {
		t.Fatalf("router.New: %v", err)
	}
	return svc, servers
}

func TestServiceInitGetPut(t *testing.T) {
	svc, serverList := newTestService(t, 3)
	addrs, err := ParseServerList(serverList)
	if err != nil {
		t.Fatalf("ParseServerList: %v", err)
	}

	ctx := context.Background()
	if code := svc.Init(ctx, addrs); code != 0 {
		t.Fatalf("Init() = %d, want 0", code)
	}

	if code := svc.Put(ctx, "k1", "v1"); code != 1 {
		t.Fatalf("Put() (create) = %d, want 1", code)
	}

	value, code := svc.Get(ctx, "k1")
	if code != 0 || value == nil || *value != "v1" {
		t.Fatalf("Get() = (%v, %d), want (\"v1\", 0)", value, code)
	}

	if code := svc.Put(ctx, "k1", "v2"); code != 0 {
		t.Fatalf("Put() (update) = %d, want 0", code)
	}
}

func TestServiceGetBeforeInit(t *testing.T) {
	svc, _ := newTestService(t, 1)
	_, code := svc.Get(context.Background(), "anything")
	if code != -1 {
		t.Fatalf("Get() before Init = %d, want -1", code)
	}
}

func TestServiceDestroy(t *testing.T) {
	svc, serverList := newTestService(t, 1)
	addrs, err := ParseServerList(serverList)
	if err != nil {
		t.Fatalf("ParseServerList: %v", err)
	}
	ctx := context.Background()
	svc.Init(ctx, addrs)

	if code := svc.Destroy(); code != 0 {
		t.Fatalf("Destroy() = %d, want 0", code)
	}
	if _, code := svc.Get(ctx, "k"); code != -1 {
		t.Fatalf("Get() after Destroy = %d, want -1", code)
	}
}

func TestParseServerList(t *testing.T) {
	t.Run("valid entries", func(t *testing.T) {
		addrs, err := ParseServerList([]string{"localhost:9001", "localhost:9002"})
		if err != nil {
			t.Fatalf("ParseServerList: %v", err)
		}
		if len(addrs) != 2 || addrs[0].Port != 9001 || addrs[1].Port != 9002 {
			t.Fatalf("unexpected parse result: %+v", addrs)
		}
	})

	t.Run("missing port is rejected", func(t *testing.T) {
		if _, err := ParseServerList([]string{"localhost"}); err == nil {
			t.Fatal("expected error for missing port")
		}
	})

	t.Run("non-numeric port is rejected", func(t *testing.T) {
		if _, err := ParseServerList([]string{"localhost:abc"}); err == nil {
			t.Fatal("expected error for non-numeric port")
		}
	})
}

func TestBuildTranslator(t *testing.T) {
	trans, err := buildTranslator(map[string]string{"localhost:9001": "172.16.238.11:9001"})
	if err != nil {
		t.Fatalf("buildTranslator: %v", err)
	}
	got := trans.Translate(ringhash.NodeAddr{Host: "localhost", Port: 9001})
	if got.Host != "172.16.238.11" {
		t.Fatalf("Translate() = %+v, want rewritten host", got)
	}
}
