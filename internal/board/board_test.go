package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcsnake/mcts-engine/internal/geom"
	"github.com/arcsnake/mcts-engine/internal/zobrist"
)

func newTestBoard() *Board {
	snakes := []Snake{
		{ID: "a", Name: "Alice", Health: 100, Body: []geom.Point{{X: 5, Y: 5}, {X: 5, Y: 4}, {X: 5, Y: 3}}},
		{ID: "b", Name: "Bob", Health: 90, Body: []geom.Point{{X: 2, Y: 2}, {X: 2, Y: 1}}},
	}
	foods := []geom.Point{{X: 8, Y: 8}}
	return New(10, foods, nil, geom.Point{}, geom.FullBoard(), snakes, false)
}

func TestNewComputesZobristFromScratch(t *testing.T) {
	zobrist.Seed(1)
	b := newTestBoard()
	assert.Equal(t, RecomputeZobrist(b), b.Zobrist)
}

func TestNewPlacesBodiesAndFoodOnGrid(t *testing.T) {
	b := newTestBoard()
	assert.Equal(t, BodyPart, b.Objects.At(geom.Point{X: 5, Y: 5}))
	assert.Equal(t, BodyPart, b.Objects.At(geom.Point{X: 2, Y: 1}))
	assert.Equal(t, Food, b.Objects.At(geom.Point{X: 8, Y: 8}))
	assert.Equal(t, Empty, b.Objects.At(geom.Point{X: 0, Y: 0}))
}

func TestCloneIsIndependent(t *testing.T) {
	b := newTestBoard()
	c := b.Clone()

	c.Snakes[0].Health = 1
	c.Snakes[0].Body[0] = geom.Point{X: 9, Y: 9}
	c.Foods[0] = geom.Point{X: 0, Y: 0}

	assert.Equal(t, 100, b.Snakes[0].Health)
	assert.Equal(t, geom.Point{X: 5, Y: 5}, b.Snakes[0].Body[0])
	assert.Equal(t, geom.Point{X: 8, Y: 8}, b.Foods[0])

	c.Objects.SetEmptyOnBody(geom.Point{X: 2, Y: 1})
	assert.Equal(t, BodyPart, b.Objects.At(geom.Point{X: 2, Y: 1}))
}

func TestAliveCountAndTerminal(t *testing.T) {
	b := newTestBoard()
	assert.Equal(t, 2, b.AliveCount())
	assert.False(t, b.IsTerminal)

	b.Snakes[1].Health = 0
	assert.Equal(t, 1, b.AliveCount())
}

func TestSnakeTailStaticAfterEating(t *testing.T) {
	s := Snake{Health: 100, Body: []geom.Point{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}, {X: 1, Y: 3}}}
	assert.True(t, s.TailStatic())

	s2 := Snake{Health: 100, Body: []geom.Point{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}}}
	assert.False(t, s2.TailStatic())
}

func TestGridSampleEmptyAndEachEmpty(t *testing.T) {
	g := NewGrid()
	assert.Equal(t, geom.Width*geom.Height, g.NumEmpty())

	g.SetBodyOnEmpty(geom.Point{X: 0, Y: 0})
	assert.Equal(t, geom.Width*geom.Height-1, g.NumEmpty())

	count := 0
	g.EachEmpty(func(geom.Point) { count++ })
	assert.Equal(t, g.NumEmpty(), count)

	g.SetEmptyOnBody(geom.Point{X: 0, Y: 0})
	assert.Equal(t, geom.Width*geom.Height, g.NumEmpty())
}
