package node

import (
	"context"
	"distributed-kvstore/internal/ringhash"
	"log"
	"time"
)

// RunHandoffWorker runs the hinted-handoff background loop until ctx
// is cancelled. Call it once per node, in its own goroutine, from
// cmd/node's main. Every 10 seconds it checks which intended targets
// of currently-held hints are reachable and, for each reachable one,
// delivers and drops the hints addressed to it.
func (n *Node) RunHandoffWorker(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.runHandoffCycle(ctx)
		}
	}
}

func (n *Node) runHandoffCycle(ctx context.Context) {
	targets := n.pendingHintTargets()
	for _, target := range targets {
		if !n.peers.Ping(ctx, target) {
			continue
		}
		n.deliverHints(ctx, target)
	}
}

// pendingHintTargets snapshots the distinct intended targets currently
// referenced by hinted replicas, under the lock.
func (n *Node) pendingHintTargets() []ringhash.NodeAddr {
	n.mu.Lock()
	defer n.mu.Unlock()

	seen := make(map[hintedTarget]bool)
	var targets []ringhash.NodeAddr
	for _, hv := range n.hinted {
		if seen[hv.Intended] {
			continue
		}
		seen[hv.Intended] = true
		targets = append(targets, ringhash.NodeAddr{Host: hv.Intended.Host, Port: hv.Intended.Port})
	}
	return targets
}

// deliverHints forwards every hint addressed to target, dropping each
// one locally once the remote put succeeds. Errors on individual keys
// are logged and do not stop the rest of the cycle, nor the rest of
// the targets.
func (n *Node) deliverHints(ctx context.Context, target ringhash.NodeAddr) {
	n.mu.Lock()
	due := make(map[string]hintedValue)
	for k, hv := range n.hinted {
		if hv.Intended.Host == target.Host && hv.Intended.Port == target.Port {
			due[k] = hv
		}
	}
	n.mu.Unlock()

	for k, hv := range due {
		code, err := n.peers.Put(ctx, target, k, hv.Data, nil)
		if err != nil {
			log.Printf("handoff: forwarding %q to %s: %v", k, target, err)
			continue
		}
		if code != 0 && code != 1 {
			log.Printf("handoff: %s rejected %q with code %d", target, k, code)
			continue
		}

		n.mu.Lock()
		if current, ok := n.hinted[k]; ok && current == hv {
			delete(n.hinted, k)
		}
		n.mu.Unlock()
	}
}
