package bandit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcsnake/mcts-engine/internal/geom"
)

func TestUCBPrefersUnvisitedArmsFirst(t *testing.T) {
	legal := []geom.Direction{geom.Up, geom.Down, geom.Left, geom.Right}
	u := NewUCB(legal)

	seen := make(map[geom.Direction]bool)
	for i := 0; i < 4; i++ {
		arm := u.Select(float64(i))
		assert.False(t, seen[arm], "each arm should be tried once before any repeats")
		seen[arm] = true
		u.Backpropagate(arm, 0.5)
	}
	assert.Len(t, seen, 4)
}

func TestUCBRestrictsToLegalArms(t *testing.T) {
	legal := []geom.Direction{geom.Up}
	u := NewUCB(legal)
	for i := 0; i < 5; i++ {
		arm := u.Select(float64(i))
		assert.Equal(t, geom.Up, arm)
		u.Backpropagate(arm, 1)
	}
}

func TestUCBFinalPicksMostVisited(t *testing.T) {
	u := NewUCB([]geom.Direction{geom.Up, geom.Down})
	u.Backpropagate(geom.Up, 1)
	u.Backpropagate(geom.Up, 1)
	u.Backpropagate(geom.Down, 0)
	assert.Equal(t, geom.Up, u.Final())
}

func TestThompsonVisitsCountsUpdates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	th := NewThompson([]geom.Direction{geom.Up, geom.Down}, rng)
	assert.Equal(t, 0.0, th.Visits(geom.Up))

	th.Backpropagate(geom.Up, 1)
	assert.Equal(t, 1.0, th.Visits(geom.Up))

	th.Backpropagate(geom.Up, 0)
	assert.Equal(t, 2.0, th.Visits(geom.Up))
}

func TestThompsonFinalPicksHighestPosteriorMean(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	th := NewThompson([]geom.Direction{geom.Up, geom.Down}, rng)
	for i := 0; i < 20; i++ {
		th.Backpropagate(geom.Up, 1)
	}
	for i := 0; i < 20; i++ {
		th.Backpropagate(geom.Down, 0)
	}
	assert.Equal(t, geom.Up, th.Final())
}

func TestThompsonSelectOnlyReturnsLegalArms(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	th := NewThompson([]geom.Direction{geom.Left}, rng)
	for i := 0; i < 10; i++ {
		assert.Equal(t, geom.Left, th.Select(0))
	}
}
