package mcts

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/engine"
	"github.com/arcsnake/mcts-engine/internal/floodfill"
	"github.com/arcsnake/mcts-engine/internal/geom"
)

// Config holds the per-search tuning parameters: exactly one of
// Iterations or SearchTime should be set (the caller decides which
// budget governs the search), the rest tune the rollout and tree shape.
type Config struct {
	TableCapacity  int
	Iterations     int           // 0: unbounded, governed by SearchTime/ctx instead.
	SearchTime     time.Duration // 0: unbounded, governed by Iterations/ctx instead.
	RolloutCutoff  int
	DrawReward     float64
	MaxSelectDepth int
	NewBandit      NewBanditFunc
	Settings       engine.Settings

	// Table, if set, is reused instead of allocating a fresh transposition
	// table for this search — the caller's way of keeping node statistics
	// alive across moves of the same game (a persistent session).
	Table *Table
}

// Result is what the driver reports once the budget is spent: the
// most-visited arm at the root.
type Result struct {
	Move       geom.Direction
	Iterations int
	RootVisits map[geom.Direction]float64
}

// Search runs the sequential, single-threaded-cooperative MCTS variant
// and returns mySnakeIdx's chosen move once ctx is done, the
// iteration budget is spent, or SearchTime elapses — whichever comes
// first.
func Search(ctx context.Context, root *board.Board, mySnakeIdx int, cfg Config, rng *rand.Rand) Result {
	table := cfg.Table
	if table == nil {
		table = NewTable(cfg.TableCapacity)
	}
	rootNode, _ := table.GetOrCreate(root, func() *Node { return NewNode(root, cfg.NewBandit, cfg.Settings.Wrap) })

	ctx, cancel := withSearchTime(ctx, cfg.SearchTime)
	defer cancel()

	iterations := 0
loop:
	for cfg.Iterations <= 0 || iterations < cfg.Iterations {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		runIteration(table, root, cfg, rng)
		iterations++
	}

	return finalize(rootNode, root, mySnakeIdx, iterations, cfg.Settings.Wrap)
}

// SearchParallel runs numWorkers goroutines against one shared
// transposition table: each worker runs its
// own selection/rollout pipeline against its own board clone and RNG,
// synchronizing only through each Node's own mutex.
func SearchParallel(ctx context.Context, root *board.Board, mySnakeIdx int, cfg Config, numWorkers int, seed int64) Result {
	table := cfg.Table
	if table == nil {
		table = NewTable(cfg.TableCapacity)
	}
	rootNode, _ := table.GetOrCreate(root, func() *Node { return NewNode(root, cfg.NewBandit, cfg.Settings.Wrap) })

	ctx, cancel := withSearchTime(ctx, cfg.SearchTime)
	defer cancel()

	var iterations int64
	budget := int64(cfg.Iterations)

	done := make(chan struct{})
	for w := 0; w < numWorkers; w++ {
		go func(workerSeed int64) {
			rng := rand.New(rand.NewSource(workerSeed))
			for {
				select {
				case <-ctx.Done():
					done <- struct{}{}
					return
				default:
				}
				// Reserve an iteration before running it, so concurrent
				// workers cannot overshoot the budget.
				if budget > 0 && atomic.AddInt64(&iterations, 1) > budget {
					atomic.AddInt64(&iterations, -1)
					done <- struct{}{}
					return
				}
				runIteration(table, root, cfg, rng)
				if budget <= 0 {
					atomic.AddInt64(&iterations, 1)
				}
			}
		}(seed + int64(w)*2654435761)
	}
	for w := 0; w < numWorkers; w++ {
		<-done
	}

	return finalize(rootNode, root, mySnakeIdx, int(atomic.LoadInt64(&iterations)), cfg.Settings.Wrap)
}

func withSearchTime(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func finalize(rootNode *Node, root *board.Board, mySnakeIdx, iterations int, wrap bool) Result {
	move, ok := rootNode.FinalAction(mySnakeIdx)
	if !ok {
		legal := engine.Legal(root, mySnakeIdx, wrap)
		if len(legal) > 0 {
			move = legal[0]
		} else {
			move = geom.Up
		}
	}
	visits, _ := rootNode.VisitsFor(mySnakeIdx)
	return Result{Move: move, Iterations: iterations, RootVisits: visits}
}

type pathStep struct {
	node    *Node
	actions []geom.Direction
}

// runIteration performs one full selection/expansion/simulation/backprop
// cycle against a fresh clone of root.
func runIteration(table *Table, root *board.Board, cfg Config, rng *rand.Rand) {
	current := root.Clone()
	node := mustGet(table, current)

	var path []pathStep
	depth := 0
	for !current.IsTerminal && depth < cfg.MaxSelectDepth {
		actions := node.SelectJointAction(len(current.Snakes))
		path = append(path, pathStep{node: node, actions: actions})
		engine.Advance(current, cfg.Settings, actions, rng)
		depth++

		next, exists := table.Get(current)
		if !exists {
			break
		}
		node = next
	}

	if !current.IsTerminal && depth < cfg.MaxSelectDepth {
		if expanded, ok := table.GetOrCreate(current, func() *Node { return NewNode(current, cfg.NewBandit, cfg.Settings.Wrap) }); ok {
			node = expanded
		}
	}

	rewards := simulate(current, cfg, rng)

	for _, step := range path {
		step.node.Backpropagate(step.actions, rewards)
	}
}

// mustGet fetches the node for a board already known to be in the
// table (the root, inserted by the caller before the loop starts).
func mustGet(table *Table, b *board.Board) *Node {
	n, _ := table.Get(b)
	return n
}

// simulate rolls out from the leaf board up to RolloutCutoff steps of
// uniformly random legal moves, then scores with flood-fill, weighting
// each snake's reward by its share of total alive length.
func simulate(leaf *board.Board, cfg Config, rng *rand.Rand) []float64 {
	sim := leaf.Clone()
	for step := 0; step < cfg.RolloutCutoff && !sim.IsTerminal; step++ {
		actions := randomLegalActions(sim, cfg.Settings.Wrap, rng)
		engine.Advance(sim, cfg.Settings, actions, rng)
	}

	rewards := make([]float64, len(sim.Snakes))
	if sim.AliveCount() == 0 {
		for i := range rewards {
			rewards[i] = cfg.DrawReward
		}
		return rewards
	}

	values := floodfill.Evaluate(sim)
	totalLength := 0
	for _, s := range sim.Snakes {
		if s.IsAlive() {
			totalLength += len(s.Body)
		}
	}
	for i, s := range sim.Snakes {
		if !s.IsAlive() || totalLength == 0 {
			continue
		}
		weight := float64(len(s.Body)) / float64(totalLength)
		rewards[i] = values[i] * weight
	}
	return rewards
}

func randomLegalActions(b *board.Board, wrap bool, rng *rand.Rand) []geom.Direction {
	actions := make([]geom.Direction, len(b.Snakes))
	for i, s := range b.Snakes {
		if !s.IsAlive() {
			continue
		}
		legal := engine.Legal(b, i, wrap)
		if len(legal) == 0 {
			actions[i] = geom.Up
			continue
		}
		actions[i] = legal[rng.Intn(len(legal))]
	}
	return actions
}
