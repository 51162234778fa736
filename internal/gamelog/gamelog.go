// Package gamelog implements the bit-packed action/food encoder and
// rewinder: a finished game becomes a compact byte stream
// that replaying through the plain simulator reproduces turn-for-turn,
// byte-for-byte, including the object grid and zobrist hash.
//
// There is no bit-vector library among this repository's dependencies,
// so the codec is hand-rolled on top of a small LSB-first BitWriter/
// BitReader (bitstream.go) rather than reaching for one.
package gamelog

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand"

	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/engine"
	"github.com/arcsnake/mcts-engine/internal/geom"
)

// replayRNG is never consulted by the deterministic food spawner or the
// no-op safe-zone shrinker used during Rewind; it exists only because
// Advance's signature takes one.
var replayRNG = rand.New(rand.NewSource(0))

// Sketch is the fixed preamble: everything board.New needs to
// reconstruct the game's starting Board.
type Sketch struct {
	Turn        int
	Foods       []geom.Point
	Hazards     []geom.Point
	HazardStart geom.Point
	SafeZone    geom.Rectangle
	Snakes      []board.Snake
}

// Board reconstructs the initial Board the recorded turns were played
// from.
func (s Sketch) Board(wrap bool) *board.Board {
	return board.New(s.Turn, s.Foods, s.Hazards, s.HazardStart, s.SafeZone, s.Snakes, wrap)
}

// GameLog is a finished game's persisted record. Actions and Food are the packed bit streams; Turns is
// the number of recorded steps, needed since the streams' bit lengths
// alone don't reveal where one turn's bits end (a turn with fewer alive
// snakes emits fewer action bits than one with more).
type GameLog struct {
	Initial Sketch
	Actions []byte
	Food    []byte
	Turns   int
	Tags    []string
	// Wrap records which boundary ruleset the recorded game was played
	// under, so Rewind advances the replay the same way.
	Wrap bool
}

// Recorder accumulates one game's turns into a GameLog as they're
// played, one call to RecordTurn per simulator step.
type Recorder struct {
	actions BitWriter
	food    BitWriter
	turns   int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// RecordTurn appends one turn's action bits: 2 bits per snake that was
// alive in `before` (in board order). The turn's food bits are written
// separately by RecordFood.
func (r *Recorder) RecordTurn(before *board.Board, actions []geom.Direction) {
	for i, s := range before.Snakes {
		if !s.IsAlive() {
			continue
		}
		r.actions.WriteBits(uint32(actions[i]), 2)
	}
	r.turns++
}

// RecordFood must be called once per turn, after RecordTurn, with the
// board immediately before and immediately after that turn's Advance.
// Split from RecordTurn because the food diff can only be read off the
// post-step board.
func (r *Recorder) RecordFood(before, after *board.Board) {
	spawned := diffFood(before, after)
	if spawned == nil {
		r.food.WriteBits(0, 1)
		return
	}
	r.food.WriteBits(1, 1)
	r.food.WriteBits(uint32(spawned.X), 4)
	r.food.WriteBits(uint32(spawned.Y), 4)
}

func diffFood(before, after *board.Board) *geom.Point {
	seen := make(map[geom.Point]bool, len(before.Foods))
	for _, p := range before.Foods {
		seen[p] = true
	}
	for _, p := range after.Foods {
		if !seen[p] {
			q := p
			return &q
		}
	}
	return nil
}

// Finish bundles the recorded turns into a GameLog.
func (r *Recorder) Finish(initial Sketch, tags []string, wrap bool) GameLog {
	return GameLog{
		Initial: initial,
		Actions: r.actions.Bytes(),
		Food:    r.food.Bytes(),
		Turns:   r.turns,
		Tags:    append([]string(nil), tags...),
		Wrap:    wrap,
	}
}

// Marshal serializes a GameLog for persistence. There's no wire-format
// requirement beyond round-tripping through Unmarshal, so this is a thin
// gob wrapper rather than a bespoke format on top of the already-packed
// Actions/Food streams.
func Marshal(log GameLog) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(log); err != nil {
		return nil, fmt.Errorf("encode game log: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal is the inverse of Marshal.
func Unmarshal(data []byte) (GameLog, error) {
	var log GameLog
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&log); err != nil {
		return GameLog{}, fmt.Errorf("decode game log: %w", err)
	}
	return log, nil
}

// Rewind decodes and replays a GameLog through the plain simulator,
// returning the full sequence of boards from the initial sketch through
// the last recorded turn. Food is placed deterministically from the
// decoded bits (NewDeterministicFoodSpawner); the safe zone is never
// shrunk during replay (NoopSafeZoneShrinker) — the log stores only the
// initial hazards and safe zone, so exact reproduction holds only for
// games in which neither changed after the first recorded board.
func Rewind(log GameLog) []*board.Board {
	current := log.Initial.Board(log.Wrap)
	boards := make([]*board.Board, 0, log.Turns+1)
	boards = append(boards, current)

	actionsR := NewBitReader(log.Actions)
	foodR := NewBitReader(log.Food)

	for t := 0; t < log.Turns; t++ {
		actions := make([]geom.Direction, len(current.Snakes))
		for i, s := range current.Snakes {
			if !s.IsAlive() {
				continue
			}
			actions[i] = geom.Direction(actionsR.ReadBits(2))
		}

		var spawn *geom.Point
		if foodR.ReadBits(1) == 1 {
			x := int(foodR.ReadBits(4))
			y := int(foodR.ReadBits(4))
			p := geom.Point{X: x, Y: y}
			spawn = &p
		}

		settings := engine.Settings{
			FoodSpawner:      engine.NewDeterministicFoodSpawner(spawn),
			SafeZoneShrinker: engine.NoopSafeZoneShrinker,
			Wrap:             log.Wrap,
		}

		next := current.Clone()
		engine.Advance(next, settings, actions, replayRNG)
		boards = append(boards, next)
		current = next
	}

	return boards
}
