// cmd/node is the main entrypoint for a storage node.
//
// Configuration is entirely via flags so a single binary can serve any
// node in the cluster; the node learns its own address and place in
// the ring from the routing table the router pushes at init, not from
// a flag.
//
// Example — 3-node cluster:
//
//	./node --addr :9001 --data-dir /tmp/kvstore/n1
//	./node --addr :9002 --data-dir /tmp/kvstore/n2
//	./node --addr :9003 --data-dir /tmp/kvstore/n3
package main

import (
	"context"
	"distributed-kvstore/internal/httpx"
	"distributed-kvstore/internal/node"
	"distributed-kvstore/internal/nodeclient"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	addr := flag.String("addr", ":9001", "Listen address (host:port)")
	dataDir := flag.String("data-dir", "/tmp/kvstore-node", "Directory for the node's backup file")
	n := flag.Int("n", 3, "Replication factor (N)")
	w := flag.Int("w", 2, "Write quorum (W)")
	r := flag.Int("r", 2, "Read quorum (R)")
	flag.Parse()

	if *w+*r <= *n {
		log.Fatalf("FATAL: W(%d) + R(%d) must be > N(%d) for quorum overlap", *w, *r, *n)
	}

	cfg := node.Config{DataDir: *dataDir, N: *n, W: *w, R: *r}
	peers := nodeclient.New()

	nd, err := node.New(cfg, peers)
	if err != nil {
		log.Fatalf("start node: %v", err)
	}
	defer nd.Close()

	ctx, cancelHandoff := context.WithCancel(context.Background())
	go nd.RunHandoffWorker(ctx)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(httpx.Logger(), httpx.Recovery())

	node.NewTransport(nd).Register(engine)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "active": nd.Ping()})
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("node listening on %s (N=%d W=%d R=%d)", *addr, *n, *w, *r)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down node")
	cancelHandoff()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
