package mcts

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arcsnake/mcts-engine/internal/bandit"
	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/engine"
	"github.com/arcsnake/mcts-engine/internal/geom"
	"github.com/arcsnake/mcts-engine/internal/zobrist"
)

func init() {
	zobrist.Seed(11)
}

func testConfig(iterations int) Config {
	return Config{
		TableCapacity:  10000,
		Iterations:     iterations,
		RolloutCutoff:  10,
		DrawReward:     0.01,
		MaxSelectDepth: 20,
		NewBandit:      func(legal []geom.Direction) bandit.Bandit { return bandit.NewUCB(legal) },
		Settings: engine.Settings{
			FoodSpawner:      engine.NoFoodSpawner,
			SafeZoneShrinker: engine.NoopSafeZoneShrinker,
		},
	}
}

func twoSnakeBoard() *board.Board {
	snakes := []board.Snake{
		{ID: "me", Health: 100, Body: []geom.Point{{5, 5}, {5, 4}, {5, 3}}},
		{ID: "them", Health: 100, Body: []geom.Point{{2, 8}, {2, 7}, {2, 6}}},
	}
	return board.New(0, nil, nil, geom.Point{}, geom.FullBoard(), snakes, false)
}

func TestSearchReturnsALegalMove(t *testing.T) {
	b := twoSnakeBoard()
	cfg := testConfig(200)
	rng := rand.New(rand.NewSource(5))

	result := Search(context.Background(), b, 0, cfg, rng)

	legal := engine.Legal(b, 0, false)
	assert.Contains(t, legal, result.Move)
	assert.Equal(t, 200, result.Iterations)
}

func TestSearchRespectsContextCancellation(t *testing.T) {
	b := twoSnakeBoard()
	cfg := testConfig(0) // unbounded, governed entirely by ctx
	rng := rand.New(rand.NewSource(5))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result := Search(ctx, b, 0, cfg, rng)
	assert.GreaterOrEqual(t, result.Iterations, 0)
}

func TestSearchNearWallAvoidsTheWallCrash(t *testing.T) {
	// "me" sits on the left wall: Left is an immediate wall crash and
	// Right runs into its own neck at (1,5), leaving Up and Down open. The
	// search must never commit to the wall crash.
	snakes := []board.Snake{
		{ID: "me", Health: 100, Body: []geom.Point{{0, 5}, {1, 5}, {1, 6}}},
		{ID: "them", Health: 100, Body: []geom.Point{{9, 9}, {9, 8}, {9, 7}}},
	}
	b := board.New(0, nil, nil, geom.Point{}, geom.FullBoard(), snakes, false)
	cfg := testConfig(300)
	rng := rand.New(rand.NewSource(5))

	result := Search(context.Background(), b, 0, cfg, rng)
	assert.NotEqual(t, geom.Left, result.Move)
}

func TestSearchParallelMatchesSequentialLegalMoveSet(t *testing.T) {
	b := twoSnakeBoard()
	cfg := testConfig(100)

	result := SearchParallel(context.Background(), b, 0, cfg, 4, 42)

	legal := engine.Legal(b, 0, false)
	assert.Contains(t, legal, result.Move)
	assert.Equal(t, 100, result.Iterations)
}

func TestSearchUsesPersistentTableAcrossCalls(t *testing.T) {
	b := twoSnakeBoard()
	table := NewTable(10000)
	cfg := testConfig(50)
	cfg.Table = table
	rng := rand.New(rand.NewSource(5))

	Search(context.Background(), b, 0, cfg, rng)
	assert.Greater(t, table.Len(), 0)

	firstLen := table.Len()
	Search(context.Background(), b, 0, cfg, rng)
	assert.GreaterOrEqual(t, table.Len(), firstLen, "reusing the table across calls should keep accumulating, not reset")
}
