// Package router implements the router (load-balancer) tier:
// stateless beyond the ring and per-node routing tables built at init,
// it walks a key's preference list to find a live coordinator and
// forwards the client's get/put to it.
package router

import (
	"context"
	"distributed-kvstore/internal/nodeclient"
	"distributed-kvstore/internal/ringhash"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Service is the router's runtime state. One Service is created per
// router process; it is safe for concurrent use, guarded by a single
// mutex. Unlike a storage node, the router has no reentrancy
// requirement, since it never calls back into its own locked methods.
type Service struct {
	mu sync.Mutex

	vnodes int
	n      int
	seed   string
	trans  *ringhash.Translator

	ring        *ringhash.Ring
	tables      map[ringhash.NodeAddr]ringhash.RoutingTable
	initialized bool

	peers *nodeclient.Client
}

// New creates a Service from router config. It does not build a ring —
// that happens on Init.
func New(cfg Config, peers *nodeclient.Client) (*Service, error) {
	trans, err := buildTranslator(cfg.AddressMap)
	if err != nil {
		return nil, err
	}
	return &Service{
		vnodes: cfg.VNodes,
		n:      cfg.N,
		seed:   cfg.HashSeed,
		trans:  trans,
		peers:  peers,
	}, nil
}

func buildTranslator(addressMap map[string]string) (*ringhash.Translator, error) {
	if len(addressMap) == 0 {
		return &ringhash.Translator{}, nil
	}
	out := make(map[string]ringhash.NodeAddr, len(addressMap))
	for from, to := range addressMap {
		host, portStr, ok := strings.Cut(to, ":")
		if !ok {
			return nil, fmt.Errorf("addressMap value %q: expected host:port", to)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("addressMap value %q: %w", to, err)
		}
		out[from] = ringhash.NodeAddr{Host: host, Port: port}
	}
	return &ringhash.Translator{AddressMap: out}, nil
}

// Init builds the ring from servers, computes each physical node's
// routing table, and pushes a (translated) table to each node. Returns
// 0 on success, -1 if any node rejects its table push.
func (s *Service) Init(ctx context.Context, servers []ringhash.NodeAddr) int {
	s.mu.Lock()
	ring := ringhash.Build(servers, s.vnodes, s.seed)
	tables := ringhash.BuildRoutingTables(ring)
	s.mu.Unlock()

	ok := true
	for node, tbl := range tables {
		translatedAddr := s.trans.Translate(node)
		translatedTbl := s.trans.TranslateTable(tbl)
		if err := s.peers.SetRoutingTable(ctx, translatedAddr, translatedTbl); err != nil {
			ok = false
		}
	}
	if !ok {
		return -1
	}

	s.mu.Lock()
	s.ring = ring
	s.tables = tables
	s.initialized = true
	s.mu.Unlock()
	return 0
}

// Destroy clears the ring and routing tables (the Service keeps no
// separate server list). Always succeeds.
func (s *Service) Destroy() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring = nil
	s.tables = nil
	s.initialized = false
	return 0
}

// preferenceList returns the cached preference list for key's
// coordinator vnode, or nil if the router hasn't been initialized.
func (s *Service) preferenceList(key string) []ringhash.NodeAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return nil
	}
	vnode := s.ring.Coordinator(key)
	return s.tables[vnode.Node][vnode.Index]
}

// translateList applies the router's address translator to every
// entry of a preference list before it is embedded in an RPC.
func (s *Service) translateList(list []ringhash.NodeAddr) []ringhash.NodeAddr {
	out := make([]ringhash.NodeAddr, len(list))
	for i, addr := range list {
		out[i] = s.trans.Translate(addr)
	}
	return out
}

// firstLiveWithinN walks the first N entries of prefList, probing
// liveness in order, and returns the first reachable one — the
// coordinator-selection walk shared by Get and Put.
func (s *Service) firstLiveWithinN(ctx context.Context, prefList []ringhash.NodeAddr) (ringhash.NodeAddr, bool) {
	limit := s.n
	if limit > len(prefList) {
		limit = len(prefList)
	}
	for i := 0; i < limit; i++ {
		addr := s.trans.Translate(prefList[i])
		if s.peers.Ping(ctx, addr) {
			return addr, true
		}
	}
	return ringhash.NodeAddr{}, false
}

// Get forwards to the first live node in key's preference list.
// Returns (nil, -1) if none respond.
func (s *Service) Get(ctx context.Context, key string) (*string, int) {
	prefList := s.preferenceList(key)
	if prefList == nil {
		return nil, -1
	}

	coordinator, ok := s.firstLiveWithinN(ctx, prefList)
	if !ok {
		return nil, -1
	}

	value, code, err := s.peers.Get(ctx, coordinator, key, s.translateList(prefList))
	if err != nil {
		return nil, -1
	}
	return value, code
}

// Put forwards to the first live node in key's preference list.
func (s *Service) Put(ctx context.Context, key, value string) int {
	prefList := s.preferenceList(key)
	if prefList == nil {
		return -1
	}

	coordinator, ok := s.firstLiveWithinN(ctx, prefList)
	if !ok {
		return -1
	}

	code, err := s.peers.CoordinatorPut(ctx, coordinator, key, value, s.translateList(prefList))
	if err != nil {
		return -1
	}
	return code
}

// ToggleServer flips a node's simulated liveness flag — a test hook.
func (s *Service) ToggleServer(ctx context.Context, addr ringhash.NodeAddr) error {
	return s.peers.ToggleActive(ctx, s.trans.Translate(addr))
}
