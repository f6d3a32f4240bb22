package ringhash

import "sort"

// entry is one (ring point, vnode) pair kept in sorted order.
type entry struct {
	pos   point
	vnode VNodeID
}

// Ring is the sorted sequence of ring points built from a server list at
// `init`. It never mutates after construction: cluster membership is
// fixed for the lifetime of a deployment, so this type is build-once,
// read-many rather than supporting incremental add/remove.
type Ring struct {
	vnodes  int
	seed    string
	entries []entry // sorted ascending by pos
}

// Build constructs a ring from the initial server list. On collision
// (two vnode ids hashing to the same point — vanishingly rare with
// MD5) the later insertion wins: servers are processed in the given
// order and for each vnode index in order, so "later" is deterministic
// for a fixed input.
func Build(servers []NodeAddr, vnodes int, seed string) *Ring {
	r := &Ring{vnodes: vnodes, seed: seed}
	byPoint := make(map[point]VNodeID)
	for _, srv := range servers {
		for i := 0; i < vnodes; i++ {
			p := hashVNode(srv, i, seed)
			byPoint[p] = VNodeID{Node: srv, Index: i}
		}
	}
	r.entries = make([]entry, 0, len(byPoint))
	for p, v := range byPoint {
		r.entries = append(r.entries, entry{pos: p, vnode: v})
	}
	sort.Slice(r.entries, func(i, j int) bool { return r.entries[i].pos.less(r.entries[j].pos) })
	return r
}

// VNodeCount returns the number of ring entries (physical nodes × vnodes).
func (r *Ring) VNodeCount() int { return len(r.entries) }

// search returns the index of the least entry whose point is >= pos,
// wrapping to 0 if none exists (clockwise wrap-around).
func (r *Ring) search(pos point) int {
	idx := sort.Search(len(r.entries), func(i int) bool {
		return !r.entries[i].pos.less(pos)
	})
	if idx == len(r.entries) {
		idx = 0
	}
	return idx
}

// Coordinator returns the vnode whose position is the first clockwise
// from hash(key) — the key's coordinator vnode.
func (r *Ring) Coordinator(key string) VNodeID {
	idx := r.search(hashKey(key))
	return r.entries[idx].vnode
}

// PreferenceList returns the ordered, deduplicated sequence of distinct
// physical nodes obtained by walking the ring clockwise from hash(key).
// Its length equals the number of distinct physical nodes in the
// cluster.
func (r *Ring) PreferenceList(key string) []NodeAddr {
	if len(r.entries) == 0 {
		return nil
	}
	idx := r.search(hashKey(key))
	return r.walk(idx)
}

// walk collects distinct physical nodes starting at ring index `from`,
// proceeding clockwise (with wrap-around) until every distinct physical
// node present in the ring has been seen exactly once.
func (r *Ring) walk(from int) []NodeAddr {
	seen := make(map[NodeAddr]bool)
	var out []NodeAddr
	n := len(r.entries)
	for i := 0; i < n; i++ {
		v := r.entries[(from+i)%n].vnode
		if !seen[v.Node] {
			seen[v.Node] = true
			out = append(out, v.Node)
		}
	}
	return out
}

// Nodes returns every distinct physical node present in the ring, in no
// particular order beyond first-seen-from-index-0.
func (r *Ring) Nodes() []NodeAddr {
	return r.walk(0)
}
