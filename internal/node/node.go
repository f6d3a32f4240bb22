package node

import (
	"distributed-kvstore/internal/nodeclient"
	"distributed-kvstore/internal/ringhash"
	"fmt"
	"sync"
)

// Node owns one physical storage node's state: its local KV map, its
// hinted-replica map, the active/inactive simulated-liveness flag, and
// the routing table pushed to it by the router at init. A single
// sync.Mutex protects all four. Go's Mutex is not reentrant, so the
// coordinator path (which performs what is logically a local "put"
// while already holding the lock) calls the unexported *Locked helpers
// directly instead of re-entering Put.
type Node struct {
	mu sync.Mutex

	cfg    Config
	self   ringhash.NodeAddr
	table  ringhash.RoutingTable
	active bool
	seq    uint64

	store  map[string]value
	hinted map[string]hintedValue

	backup *backupFile
	peers  *nodeclient.Client
}

// New creates a Node, loading any existing backup file from cfg.DataDir.
func New(cfg Config, peers *nodeclient.Client) (*Node, error) {
	backup, err := newBackupFile(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open backup file: %w", err)
	}
	store, err := backup.load()
	if err != nil {
		return nil, fmt.Errorf("load backup file: %w", err)
	}

	return &Node{
		cfg:    cfg,
		active: true,
		store:  store,
		hinted: make(map[string]hintedValue),
		backup: backup,
		peers:  peers,
	}, nil
}

// Close flushes and closes the node's backup file. Call on shutdown.
func (n *Node) Close() {
	n.backup.close()
}

// SetRoutingTable installs the per-vnode routing table pushed by the
// router and learns the node's own address from table[0][0].
func (n *Node) SetRoutingTable(table ringhash.RoutingTable) error {
	if len(table) == 0 || len(table[0]) == 0 {
		return fmt.Errorf("routing table is empty")
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.table = table
	n.self = table[0][0]
	return nil
}

// RoutingTable returns the node's own routing table. The coordinator
// protocol in coordinator.go does not read it: it locates itself within
// an incoming preference list via Self.
func (n *Node) RoutingTable() ringhash.RoutingTable {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.table
}

// Self returns the node's own address, learned via SetRoutingTable.
func (n *Node) Self() ringhash.NodeAddr {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.self
}

// Config returns the node's static N/W/R configuration.
func (n *Node) Config() Config {
	return n.cfg
}

// Ping reports the simulated liveness flag.
func (n *Node) Ping() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

// ToggleActive flips the simulated liveness flag — a test hook for
// exercising quorum failure and hinted handoff.
func (n *Node) ToggleActive() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = !n.active
}

// Put stores key=data, or — if hint is non-nil — records it as a
// hinted replica intended for hint. Returns KindInactive if the node's
// active flag is false.
func (n *Node) Put(key, data string, hint *ringhash.NodeAddr) Result {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.active {
		return Result{Kind: KindInactive}
	}
	existed := n.putLocked(key, data, hint)
	return Result{Kind: KindOK, Existed: existed}
}

// putLocked assumes n.mu is already held. It is the single code path
// both Put and CoordinatorPut funnel through, so the active/inactive
// check stays Put's responsibility — putLocked itself has no opinion
// about liveness, since the coordinator always writes locally
// unconditionally, even though it obviously just answered its own
// liveness probe affirmatively.
func (n *Node) putLocked(key, data string, hint *ringhash.NodeAddr) (existed bool) {
	n.seq++
	v := Version{Coordinator: n.self.String(), Seq: n.seq}

	if hint != nil {
		_, existed = n.hinted[key]
		n.hinted[key] = hintedValue{
			Data:     data,
			Intended: hintedTarget{Host: hint.Host, Port: hint.Port},
			Version:  v,
		}
		return existed
	}

	_, existed = n.store[key]
	n.store[key] = value{Data: data, Version: v}
	n.backup.asyncPersist(n.store)
	return existed
}

// existsLocked reports whether key is present in the local store —
// used by CoordinatorPut for its "exists" pre-existence check, which is
// computed against the coordinator's own local store only, never
// against replica responses.
func (n *Node) existsLocked(key string) bool {
	_, ok := n.store[key]
	return ok
}

// Fetch returns the value for key from the primary store (isPrimary)
// or the hinted-replica store (!isPrimary).
func (n *Node) Fetch(key string, isPrimary bool) (*string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fetchLocked(key, isPrimary)
}

func (n *Node) fetchLocked(key string, isPrimary bool) (*string, bool) {
	if isPrimary {
		v, ok := n.store[key]
		if !ok {
			return nil, false
		}
		data := v.Data
		return &data, true
	}
	hv, ok := n.hinted[key]
	if !ok {
		return nil, false
	}
	data := hv.Data
	return &data, true
}
