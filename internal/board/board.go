// Package board holds the compact game-state representation: snakes,
// food, hazards, the safe zone and the incrementally-hashed object grid.
// A Board is mutated only by the engine package; everything else treats
// it as a value cloned per MCTS iteration.
package board

import (
	"github.com/arcsnake/mcts-engine/internal/geom"
	"github.com/arcsnake/mcts-engine/internal/zobrist"
)

// MaxSnakes is the compile-time cap on simultaneous snakes in the hot
// path.
const MaxSnakes = zobrist.MaxSnakes

// Snake is one player: a health counter and a head-first body. ID and
// Name are carried for the HTTP/log layers only — no invariant in this
// package or the engine ever consults them.
type Snake struct {
	ID     string
	Name   string
	Health int
	Body   []geom.Point
}

// Head returns the snake's head position. Callers must ensure the body is
// non-empty. A snake that died in the engine keeps its last Body (only
// its grid cells and hash contribution are cleared) and is told apart by
// its Health, so check IsAlive before treating Head as a live position.
func (s Snake) Head() geom.Point {
	return s.Body[0]
}

// Tail returns the snake's tail position.
func (s Snake) Tail() geom.Point {
	return s.Body[len(s.Body)-1]
}

// IsAlive reports whether the snake still occupies the board.
func (s Snake) IsAlive() bool {
	return s.Health > 0 && len(s.Body) > 0
}

// TailStatic reports whether the snake's last two body cells are the
// same point — i.e. the tail will not vacate its cell next step because
// it is still digesting a just-eaten food. A move onto the tail is only
// legal when this is false.
func (s Snake) TailStatic() bool {
	n := len(s.Body)
	return n >= 2 && s.Body[n-1] == s.Body[n-2]
}

func (s Snake) clone() Snake {
	return Snake{ID: s.ID, Name: s.Name, Health: s.Health, Body: append([]geom.Point(nil), s.Body...)}
}

// Board is the full game state the simulator advances and the MCTS
// driver searches over.
type Board struct {
	Turn        int
	Foods       []geom.Point
	Snakes      []Snake
	Hazard      [geom.Width * geom.Height]bool
	HazardStart geom.Point
	SafeZone    geom.Rectangle
	Objects     *Grid
	Zobrist     zobrist.Hash
	IsTerminal  bool

	// Wrap records whether this board is played under the toroidal
	// ruleset variant, so RecomputeZobrist can recognize a body link
	// that straddles the board edge the same way Advance's incremental
	// update does.
	Wrap bool
}

// New builds a Board from API-shaped fields (the adapter in internal/api
// is responsible for translating inbound JSON into these), computing the
// object grid and the Zobrist hash from scratch.
func New(turn int, foods []geom.Point, hazards []geom.Point, hazardStart geom.Point, safeZone geom.Rectangle, snakes []Snake, wrap bool) *Board {
	b := &Board{
		Turn:        turn,
		Foods:       append([]geom.Point(nil), foods...),
		Snakes:      make([]Snake, len(snakes)),
		HazardStart: hazardStart,
		SafeZone:    safeZone,
		Objects:     NewGrid(),
		Wrap:        wrap,
	}
	for i, s := range snakes {
		b.Snakes[i] = s.clone()
	}
	for _, p := range hazards {
		b.Hazard[p.Index()] = true
	}

	for i, s := range b.Snakes {
		if !s.IsAlive() {
			continue
		}
		for j, p := range s.Body {
			if j > 0 && p == s.Body[j-1] {
				continue // duplicate tail segment, already marked
			}
			if b.Objects.At(p) == Empty {
				b.Objects.SetBodyOnEmpty(p)
			}
			_ = i
		}
	}
	for _, p := range b.Foods {
		if b.Objects.At(p) == Empty {
			b.Objects.SetFoodOnEmpty(p)
		}
	}

	b.Zobrist = RecomputeZobrist(b)
	b.IsTerminal = computeTerminal(b)
	return b
}

// Clone returns a deep copy. The MCTS driver clones the board on every
// iteration so search never mutates a caller's root board.
func (b *Board) Clone() *Board {
	c := &Board{
		Turn:        b.Turn,
		Foods:       append([]geom.Point(nil), b.Foods...),
		Snakes:      make([]Snake, len(b.Snakes)),
		Hazard:      b.Hazard,
		HazardStart: b.HazardStart,
		SafeZone:    b.SafeZone,
		Objects:     b.Objects.Clone(),
		Zobrist:     b.Zobrist,
		IsTerminal:  b.IsTerminal,
		Wrap:        b.Wrap,
	}
	for i, s := range b.Snakes {
		c.Snakes[i] = s.clone()
	}
	return c
}

// AliveCount returns the number of snakes currently alive.
func (b *Board) AliveCount() int {
	n := 0
	for _, s := range b.Snakes {
		if s.IsAlive() {
			n++
		}
	}
	return n
}

func computeTerminal(b *Board) bool {
	return b.AliveCount() < 2
}

// RecomputeZobrist computes the Zobrist hash of b from scratch, ignoring
// b.Zobrist entirely. It is the ground truth the engine's incremental
// updates must always agree with after every Advance.
//
// A body segment contributes to the hash only if it is not a duplicate
// of its predecessor: the tail-duplication used to grow a snake after
// eating places two deque entries on the same cell, and since the object
// grid already counts that cell once, hashing it twice would make two
// boards that differ only in whether growth "just happened" collide
// less often instead of more — so the duplicate is skipped, and the
// engine's incremental update never touches it either (see engine.go).
func RecomputeZobrist(b *Board) zobrist.Hash {
	h := zobrist.Hash(0)
	h = h.XORTurn(b.Turn)
	for i, s := range b.Snakes {
		if !s.IsAlive() {
			continue
		}
		for j, p := range s.Body {
			if j > 0 && p == s.Body[j-1] {
				continue
			}
			if j == 0 {
				h = h.XORHead(p, i)
				continue
			}
			dir, ok := geom.DirectionBetween(p, s.Body[j-1], b.Wrap)
			if !ok {
				continue
			}
			h = h.XORBodyLink(p, i, dir)
		}
	}
	for _, p := range b.Foods {
		h = h.XORFood(p)
	}
	return h
}
