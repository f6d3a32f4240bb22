package ringhash

// RoutingTable is the per-vnode preference-list table stored on a
// physical node: RoutingTable[vnodeIndex] is the ordered, deduplicated
// list of distinct physical nodes starting at that vnode's own
// position. table[0][0] is always the node's own address — a node
// derives its own identity from that entry when it receives the table
// via set_routing_table.
type RoutingTable [][]NodeAddr

// BuildRoutingTables constructs one RoutingTable per physical node in
// the ring. Each entry in a node's table begins with that node's own
// address followed by every other distinct physical node in clockwise
// preference order, enumerating every distinct node rather than
// truncating at any particular replication factor — callers bound by N
// slice the table themselves.
func BuildRoutingTables(r *Ring) map[NodeAddr]RoutingTable {
	tables := make(map[NodeAddr]RoutingTable)
	for i, e := range r.entries {
		node := e.vnode.Node
		tbl, ok := tables[node]
		if !ok {
			tbl = make(RoutingTable, r.vnodes)
			tables[node] = tbl
		}
		tbl[e.vnode.Index] = r.walk(i)
	}
	return tables
}

// Translator rewrites a logical (host, port) address into a deployment
// address — e.g. a container-internal IP — before it is shared with a
// node or embedded in a preference list sent over RPC. The identity
// translator (nil Translator, or an empty AddressMap) is the default.
type Translator struct {
	// AddressMap rewrites exact "host:port" strings. Built from the
	// router config's addressMap section.
	AddressMap map[string]NodeAddr
}

// Translate rewrites addr if a mapping exists for it, otherwise returns
// addr unchanged.
func (t *Translator) Translate(addr NodeAddr) NodeAddr {
	if t == nil || t.AddressMap == nil {
		return addr
	}
	if mapped, ok := t.AddressMap[addr.String()]; ok {
		return mapped
	}
	return addr
}

// TranslateTable applies Translate to every address in a routing table,
// returning a new table (the original is left untouched).
func (t *Translator) TranslateTable(tbl RoutingTable) RoutingTable {
	out := make(RoutingTable, len(tbl))
	for i, list := range tbl {
		translated := make([]NodeAddr, len(list))
		for j, addr := range list {
			translated[j] = t.Translate(addr)
		}
		out[i] = translated
	}
	return out
}
