// Package zobrist maintains the 64-bit incremental board hash used to key
// the MCTS transposition table. The random tables are process-wide
// immutable state, initialized once at package load (see engine.Advance in
// internal/engine for the incremental update discipline).
package zobrist

import (
	"math/rand"

	"github.com/arcsnake/mcts-engine/internal/geom"
)

// MaxSnakes bounds the per-cell, per-snake table dimension. The engine only
// plays two-snake games (spec Non-goals), so the table has exactly two
// seats; a snake index of 2 or more is out of range.
const MaxSnakes = 2

// bodySlots indexes the per-cell, per-snake table: one slot per compass
// direction "pointing towards the head", plus one slot for the head itself
// (which has no parent segment to point towards).
const bodySlots = 5

// headSlot is the bodySlots index used for a snake's head cell.
const headSlot = 4

var (
	bodyLink [geom.Width][geom.Height][MaxSnakes][bodySlots]uint64
	food     [geom.Width][geom.Height]uint64
	turnSeed uint64
)

func init() {
	Seed(rand.Int63())
}

// Seed reinitializes every random table from the given seed. Tests call
// this directly for reproducibility; production leaves the
// crypto/math-seeded package init value in place.
func Seed(seed int64) {
	r := rand.New(rand.NewSource(seed))
	for x := 0; x < geom.Width; x++ {
		for y := 0; y < geom.Height; y++ {
			for s := 0; s < MaxSnakes; s++ {
				for slot := 0; slot < bodySlots; slot++ {
					bodyLink[x][y][s][slot] = r.Uint64()
				}
			}
			food[x][y] = r.Uint64()
		}
	}
	turnSeed = r.Uint64()
}

func slotFor(d geom.Direction) int {
	if d == geom.None {
		return headSlot
	}
	return int(d)
}

// Hash is the 64-bit board identity. The zero value is the starting point
// the XOR updates build on; a full board hash always includes the turn
// stir, so even an empty board at turn 0 does not hash to zero.
type Hash uint64

// XORHead toggles the contribution of a snake's head occupying p. A head
// that has left the board (a wall crash without wrap) contributes nothing.
func (h Hash) XORHead(p geom.Point, snake int) Hash {
	if !p.InBounds() {
		return h
	}
	return h ^ Hash(bodyLink[p.X][p.Y][snake][headSlot])
}

// XORBodyLink toggles the contribution of a non-head body segment at p
// whose link points toward its parent segment via direction d.
func (h Hash) XORBodyLink(p geom.Point, snake int, d geom.Direction) Hash {
	return h ^ Hash(bodyLink[p.X][p.Y][snake][slotFor(d)])
}

// XORFood toggles the contribution of a food piece at p.
func (h Hash) XORFood(p geom.Point) Hash {
	return h ^ Hash(food[p.X][p.Y])
}

// mix is a splitmix64 avalanche step, used to turn a turn counter into a
// table-free pseudo-random stir contribution.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// XORTurn toggles the per-turn stir contribution for the given turn
// number. Called once to remove the old turn's stir and once to add the
// new one, per the rule pipeline's "turn stir" step.
func (h Hash) XORTurn(turn int) Hash {
	return h ^ Hash(mix(turnSeed^uint64(turn)))
}
