package mcts

import (
	"sync"

	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/zobrist"
)

// Table is the content-addressed transposition table: nodes are found by
// the zobrist hash of the board they represent, never by a parent/child
// pointer graph. A Table is safe for concurrent use by the
// parallel search variant: the map itself is guarded by a RWMutex, and
// each Node additionally guards its own statistics so bandit reads and
// backprop writes from different workers never race.
type Table struct {
	mu       sync.RWMutex
	capacity int
	entries  map[zobrist.Hash]*Node
}

// NewTable returns an empty table that stops admitting new nodes once it
// holds capacity entries. A full table
// still answers lookups for nodes already in it; boards that would
// create new entries are simply evaluated as repeated leaves instead.
func NewTable(capacity int) *Table {
	return &Table{capacity: capacity, entries: make(map[zobrist.Hash]*Node)}
}

// Get returns the node for b's current zobrist hash, if one exists.
func (t *Table) Get(b *board.Board) (*Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.entries[b.Zobrist]
	return n, ok
}

// GetOrCreate returns the existing node for b's hash, or expands and
// inserts a new one via newNode if the table has not reached capacity.
// ok is false only when the table is full and no existing entry covers
// b — the caller should treat b as an unexpanded leaf for this
// iteration.
func (t *Table) GetOrCreate(b *board.Board, newNode func() *Node) (node *Node, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n, exists := t.entries[b.Zobrist]; exists {
		return n, true
	}
	if len(t.entries) >= t.capacity {
		return nil, false
	}
	n := newNode()
	t.entries[b.Zobrist] = n
	return n, true
}

// Len returns the number of nodes currently held.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
