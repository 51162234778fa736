// Package mcts is the search driver: selection descends a
// zobrist-keyed transposition table using one bandit per alive snake,
// expansion creates the first unseen node on the path, simulation rolls
// out and scores with the flood-fill evaluator, and backprop folds the
// reward into every bandit visited along the way.
package mcts

import (
	"sync"

	"github.com/arcsnake/mcts-engine/internal/bandit"
	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/engine"
	"github.com/arcsnake/mcts-engine/internal/geom"
)

// Node is one MCTS tree node: a visit count and one bandit per snake
// that was alive when the node was first expanded. Nodes never hold a board or
// child pointers — they live in a Table keyed by zobrist hash, and the
// driver re-derives the board for a node by replaying the path from the
// root on its own clone.
type Node struct {
	mu sync.Mutex

	Visits float64
	// AliveIdx[k] is the index into board.Snakes that Agents[k] picks
	// moves for.
	AliveIdx []int
	Agents   []bandit.Bandit
}

// NewBanditFunc constructs a fresh bandit for one agent, restricted to
// its legal moves. Supplied by Config so UCB and Thompson sampling (and
// any future variant) share the same driver.
type NewBanditFunc func(legal []geom.Direction) bandit.Bandit

// NewNode expands b into a Node: one bandit per alive snake, each
// masked to that snake's legal moves.
func NewNode(b *board.Board, newBandit NewBanditFunc, wrap bool) *Node {
	n := &Node{}
	for i, s := range b.Snakes {
		if !s.IsAlive() {
			continue
		}
		legal := engine.Legal(b, i, wrap)
		n.AliveIdx = append(n.AliveIdx, i)
		n.Agents = append(n.Agents, newBandit(legal))
	}
	return n
}

// SelectJointAction asks every agent's bandit to pick an arm and returns
// a full per-snake action vector (dead snakes get a placeholder the
// engine ignores).
func (n *Node) SelectJointAction(numSnakes int) []geom.Direction {
	n.mu.Lock()
	defer n.mu.Unlock()
	actions := make([]geom.Direction, numSnakes)
	for k, snakeIdx := range n.AliveIdx {
		actions[snakeIdx] = n.Agents[k].Select(n.Visits)
	}
	return actions
}

// Backpropagate folds one simulation's per-snake reward into every
// agent's bandit for the arm it picked this iteration, and increments
// the node's visit count.
func (n *Node) Backpropagate(actions []geom.Direction, rewards []float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Visits++
	for k, snakeIdx := range n.AliveIdx {
		n.Agents[k].Backpropagate(actions[snakeIdx], rewards[snakeIdx])
	}
}

// FinalAction returns, for the given snake (by its index into
// board.Snakes, i.e. a value in AliveIdx), the arm its bandit's Final
// picks. ok is false if snakeIdx was not
// alive when this node was expanded.
func (n *Node) FinalAction(snakeIdx int) (dir geom.Direction, ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for k, idx := range n.AliveIdx {
		if idx == snakeIdx {
			return n.Agents[k].Final(), true
		}
	}
	return geom.Up, false
}

// VisitsFor returns the visit count each of the four arms of the given
// snake's bandit has accumulated (illegal arms report 0), for
// diagnostics; the driver reports it as Result.RootVisits.
func (n *Node) VisitsFor(snakeIdx int) (map[geom.Direction]float64, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for k, idx := range n.AliveIdx {
		if idx != snakeIdx {
			continue
		}
		out := make(map[geom.Direction]float64, 4)
		for _, d := range geom.AllDirections {
			out[d] = n.Agents[k].Visits(d)
		}
		return out, true
	}
	return nil, false
}
