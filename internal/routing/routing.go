package routing

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// KeySpace is the numeric range of valid leading characters: 'z' - '0'.
const KeySpace = 'z' - '0'

// Owner maps a key's first character to an owning worker id in [0, n). Keys
// whose first byte sorts below '0' are defined to map to node 0 — the
// system is not expected to receive such keys
func Owner(key string, n int) int {
	if len(key) == 0 {
		return 0
	}
	c := int(key[0])
	if c < '0' {
		return 0
	}
	band := KeySpace / n
	owner := (c - '0') / band
	if owner >= n {
		owner = n - 1
	}
	return owner
}

// Node describes one entry of the routing table: a worker's id and the
// loopback port it listens on. The listening file descriptor itself is a
// supervisor-side resource (the listen_fd) and is not part of this
// broadcastable, process-crossing value.
type Node struct {
	ID   int
	Port int
}

// Table is the immutable routing table broadcast to every worker before it
// starts serving. It is read-only after construction and therefore safe
// for lock-free concurrent reads from every handler goroutine.
type Table struct {
	nodes []Node
}

// NewTable builds a routing table from nodes, whose IDs must be contiguous
// from 0 in any order; the table keeps them sorted by ID. A defensive copy
// is kept so the caller's
// slice can be reused or mutated afterward without affecting the table.
func NewTable(nodes []Node) (*Table, error) {
	cp := slices.Clone(nodes)
	slices.SortFunc(cp, func(a, b Node) int { return a.ID - b.ID })
	for i, n := range cp {
		if n.ID != i {
			return nil, fmt.Errorf("routing: node ids must be contiguous from 0, got id %d at position %d", n.ID, i)
		}
	}
	return &Table{nodes: cp}, nil
}

// Len returns the number of nodes (N) in the table.
func (t *Table) Len() int {
	return len(t.nodes)
}

// Owner returns the id of the node that owns key, using this table's size.
func (t *Table) Owner(key string) int {
	return Owner(key, len(t.nodes))
}

// Port returns the listen port for the node with the given id.
func (t *Table) Port(id int) (int, bool) {
	if id < 0 || id >= len(t.nodes) {
		return 0, false
	}
	return t.nodes[id].Port, true
}
