// cmd/router is the main entrypoint for the router (load-balancer)
// tier: it owns the consistent-hash ring and preference-list
// computation, and forwards client requests to the storage node that
// should coordinate them.
//
// Example:
//
//	./router --addr :9000 --config router.yaml
package main

import (
	"context"
	"distributed-kvstore/internal/httpx"
	"distributed-kvstore/internal/nodeclient"
	"distributed-kvstore/internal/router"
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
	addr := flag.String("addr", ":9000", "Listen address (host:port)")
	configPath := flag.String("config", "router.yaml", "Path to router config YAML")
	flag.Parse()

	cfg, err := router.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load router config: %v", err)
	}

	peers := nodeclient.New()
	svc, err := router.New(cfg, peers)
	if err != nil {
		log.Fatalf("start router: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(httpx.Logger(), httpx.Recovery())

	router.NewTransport(svc).Register(engine)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("router listening on %s (N=%d vNodes=%d)", *addr, cfg.N, cfg.VNodes)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down router")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
