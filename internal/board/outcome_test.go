package board

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcsnake/mcts-engine/internal/geom"
)

func snakeAt(health int, p geom.Point) Snake {
	return Snake{Health: health, Body: []geom.Point{p}}
}

func TestDescribeOutcomes(t *testing.T) {
	testCases := []struct {
		Description string
		Snakes      []Snake
		YouIdx      int
		WantOutcome Outcome
	}{
		{
			Description: "you are the sole survivor",
			Snakes:      []Snake{snakeAt(50, geom.Point{1, 1}), snakeAt(0, geom.Point{2, 2})},
			YouIdx:      0,
			WantOutcome: Win,
		},
		{
			Description: "you died, opponent lives",
			Snakes:      []Snake{snakeAt(0, geom.Point{1, 1}), snakeAt(50, geom.Point{2, 2})},
			YouIdx:      0,
			WantOutcome: Loss,
		},
		{
			Description: "everyone died",
			Snakes:      []Snake{snakeAt(0, geom.Point{1, 1}), snakeAt(0, geom.Point{2, 2})},
			YouIdx:      0,
			WantOutcome: Draw,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			b := &Board{Snakes: tc.Snakes}
			outcome, reason := Describe(b, tc.YouIdx)
			assert.Equal(t, tc.WantOutcome, outcome)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "win", Win.String())
	assert.Equal(t, "draw", Draw.String())
	assert.Equal(t, "loss", Loss.String())
}
