// Package ringhash implements consistent hashing with virtual nodes:
// mapping physical nodes and keys onto a 128-bit ring and deriving, for
// each physical node, the per-vnode preference-list table it needs to
// act as a coordinator.
package ringhash

import (
	"crypto/md5"
	"fmt"
)

// NodeAddr is a physical node's (host, port) address. Equality is exact.
type NodeAddr struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (n NodeAddr) String() string {
	return fmt.Sprintf("%s:%d", n.Host, n.Port)
}

// VNodeID identifies one virtual node owned by a physical node.
type VNodeID struct {
	Node  NodeAddr `json:"node"`
	Index int      `json:"index"`
}

// point is a 128-bit ring position. MD5 is used, not for its
// cryptographic properties, but because every deployment hashing the
// same "{host}_{port}_{vnode}" string must land on the same ring
// position — any hash stable across processes would do.
type point [md5.Size]byte

// less gives points a total order so the ring can be sorted and binary
// searched; points are compared as big-endian 128-bit unsigned integers.
func (p point) less(other point) bool {
	for i := range p {
		if p[i] != other[i] {
			return p[i] < other[i]
		}
	}
	return false
}

// hashVNode computes the ring point for a given vnode, optionally
// salted with a configured seed (see the router's hashSeed config):
// placement stays reproducible across restarts since any salt is
// configured rather than generated at runtime.
func hashVNode(n NodeAddr, vnodeIndex int, seed string) point {
	s := fmt.Sprintf("%s_%d_%d", n.Host, n.Port, vnodeIndex)
	if seed != "" {
		s = s + "_" + seed
	}
	return point(md5.Sum([]byte(s)))
}

// hashKey computes the ring point for a key. Keys are never salted —
// only vnode placement is affected by hashSeed.
func hashKey(key string) point {
	return point(md5.Sum([]byte(key)))
}
