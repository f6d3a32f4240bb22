package node

import (
	"context"
	"distributed-kvstore/internal/ringhash"
)

// indexOf returns the index of addr within list, or -1.
func indexOf(list []ringhash.NodeAddr, addr ringhash.NodeAddr) int {
	for i, a := range list {
		if a == addr {
			return i
		}
	}
	return -1
}

// CoordinatorPut runs the sloppy-quorum write protocol. It is invoked
// on the first live node in prefList — the caller (the node's own
// /rpc/coordinator_put handler, reached via the router) is trusted to
// have already established that via liveness probing; this method does
// not re-verify that n is actually first-live.
//
// Replication fans out concurrently across goroutines, collecting acks
// on a buffered channel so slow or dead replicas never block the
// coordinator past the W threshold.
func (n *Node) CoordinatorPut(ctx context.Context, key, data string, prefList []ringhash.NodeAddr) Result {
	me := n.Self()
	cfg := n.Config()

	i0 := indexOf(prefList, me)
	if i0 < 0 {
		i0 = 0
	}

	// Step 2: exists is the coordinator's own pre-existence check at
	// entry, computed before any write.
	n.mu.Lock()
	exists := n.existsLocked(key)
	n.mu.Unlock()

	// Step 3: probe the remainder of the preference list.
	type probe struct {
		idx  int
		addr ringhash.NodeAddr
		up   bool
	}
	probes := make([]probe, 0, len(prefList)-i0-1)
	for i := i0 + 1; i < len(prefList); i++ {
		probes = append(probes, probe{idx: i, addr: prefList[i], up: n.peers.Ping(ctx, prefList[i])})
	}

	upCount := 0
	for _, p := range probes {
		if p.up {
			upCount++
		}
	}

	// Step 4.
	if upCount+1 < cfg.W {
		return Result{Kind: KindQuorumFail}
	}

	// Step 5: write locally — as an intended replica if the
	// coordinator is itself within the first N preference-list
	// positions, otherwise as a hint for the head of the failed-head
	// queue (the coordinator only got here because its own
	// predecessors in the preference list are down).
	n.mu.Lock()
	if i0 <= cfg.N-1 {
		n.putLocked(key, data, nil)
	} else {
		target := prefList[0]
		n.putLocked(key, data, &target)
	}
	n.mu.Unlock()

	// Step 6: schedule one replication task per live successor,
	// substituting failed-head entries once intended-replica slots run
	// out, until active_count (the running count of distinct nodes
	// holding — or about to hold — the value, starting at 1 for the
	// coordinator's own local write) reaches N. The failed-head queue
	// starts with positions [0, i0) — presumed dead since the router
	// only reached `me` because they failed liveness probes — and
	// grows as probing below finds intended replicas (position < N)
	// that are themselves down, so substitutes pick up hints for every
	// down intended replica, not just the ones ahead of the
	// coordinator.
	type task struct {
		addr ringhash.NodeAddr
		hint *ringhash.NodeAddr
	}
	var tasks []task
	activeCount := 1
	fh := append([]ringhash.NodeAddr(nil), prefList[:i0]...)
	for _, p := range probes {
		switch {
		case p.idx < cfg.N && !p.up:
			fh = append(fh, p.addr)
		case activeCount >= cfg.N:
			// N replicas' worth of writes already scheduled
		case p.idx < cfg.N && p.up:
			tasks = append(tasks, task{addr: p.addr})
			activeCount++
		case p.up && len(fh) > 0:
			target := fh[0]
			fh = fh[1:]
			tasks = append(tasks, task{addr: p.addr, hint: &target})
			activeCount++
		}
	}

	// Step 7: fan out concurrently; local write already counts as one
	// success. Early-return once W acks are in — late replies still
	// land (the channel is large enough that no goroutine blocks) but
	// no longer affect the returned status.
	success := 1
	required := cfg.W

	results := make(chan bool, len(tasks))
	for _, t := range tasks {
		go func(t task) {
			code, err := n.peers.Put(context.Background(), t.addr, key, data, t.hint)
			results <- err == nil && (code == 0 || code == 1)
		}(t)
	}

	remaining := len(tasks)
	for remaining > 0 {
		if <-results {
			success++
		}
		remaining--
		if success >= required {
			break
		}
	}

	// Step 8.
	if success >= required {
		return Result{Kind: KindOK, Existed: exists}
	}
	return Result{Kind: KindQuorumFail}
}

// tallyKey lets the null value participate in the get-protocol vote as
// its own distinct candidate, alongside every observed non-null value.
type tallyKey struct {
	isNull bool
	value  string
}

// Get runs the coordinator-read protocol.
//
// Known quirk, preserved intentionally: null participates in the
// majority vote like any other value. If a
// bare majority of probed replicas haven't yet received a recent
// write, a stale null can out-vote the single replica holding the
// correct value, and Get reports NotFound even though the data exists
// on a replica. This is not fixed here — raising R to require
// non-null majorities is the documented mitigation, left to the
// deployment's quorum configuration rather than baked into this code.
func (n *Node) Get(ctx context.Context, key string, prefList []ringhash.NodeAddr) Result {
	me := n.Self()
	cfg := n.Config()

	i0 := indexOf(prefList, me)
	if i0 < 0 {
		i0 = 0
	}

	outputs := make([]*string, 0, cfg.N)
	local, _ := n.Fetch(key, true)
	outputs = append(outputs, local)

	for i := i0 + 1; i < len(prefList) && len(outputs) < cfg.N; i++ {
		addr := prefList[i]
		if !n.peers.Ping(ctx, addr) {
			continue
		}
		v, err := n.peers.Fetch(ctx, addr, key, i < cfg.N)
		if err != nil {
			continue
		}
		outputs = append(outputs, v)
	}

	counts := make(map[tallyKey]int)
	var order []tallyKey
	for _, v := range outputs {
		var k tallyKey
		if v == nil {
			k = tallyKey{isNull: true}
		} else {
			k = tallyKey{value: *v}
		}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	var winner tallyKey
	winnerCount := 0
	for _, k := range order {
		if counts[k] > winnerCount {
			winner = k
			winnerCount = counts[k]
		}
	}

	if winner.isNull {
		return Result{Kind: KindNotFound}
	}
	if winnerCount >= cfg.R {
		val := winner.value
		return Result{Kind: KindOK, Value: &val}
	}
	return Result{Kind: KindQuorumFail}
}
