// Package engine implements the deterministic turn-advance simulator:
// the Battle Royale rule pipeline, run against an internal/board.Board
// and its incrementally-maintained Zobrist hash and object grid.
//
// The simulator never throws: callers are expected to only ever call
// Advance on a non-terminal board with one legal-shaped action per alive
// snake.
package engine

import (
	"math/rand"

	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/geom"
)

// HazardDamage is the health lost per turn for a snake whose head sits in
// a hazard cell, unless it just ate.
const HazardDamage = 14

// StartingHealth is the health a snake is reset to after eating.
const StartingHealth = 100

// FoodSpawner may append at most one food to the board, touching only
// board.Foods and the corresponding grid cell. `excluded` lists the cells
// this turn's new heads occupy, so food never spawns underneath a head
// that hasn't been written to the grid yet.
type FoodSpawner func(b *board.Board, rng *rand.Rand, excluded map[geom.Point]bool)

// SafeZoneShrinker may shrink board.SafeZone by one side.
type SafeZoneShrinker func(b *board.Board, rng *rand.Rand)

// Settings bundles the two callbacks the simulator invokes at fixed
// points in the rule pipeline, plus the board-boundary ruleset variant.
type Settings struct {
	FoodSpawner      FoodSpawner
	SafeZoneShrinker SafeZoneShrinker

	// Wrap selects the toroidal variant: a head that moves off one edge
	// re-enters at the opposite edge instead of dying. False gives the
	// standard Battle Royale boundary-death rule.
	Wrap bool
}

// NoFoodSpawner never spawns food.
func NoFoodSpawner(*board.Board, *rand.Rand, map[geom.Point]bool) {}

// NoopSafeZoneShrinker never shrinks the safe zone.
func NoopSafeZoneShrinker(*board.Board, *rand.Rand) {}

// StandardFoodSpawner spawns at most one food per turn: guaranteed if the
// board currently has none, otherwise with a 20% chance, matching the
// official Battlesnake ruleset's default food-spawn settings.
func StandardFoodSpawner(b *board.Board, rng *rand.Rand, excluded map[geom.Point]bool) {
	if len(b.Foods) >= 1 && rng.Intn(100) >= 20 {
		return
	}
	spawnOneFood(b, rng, excluded)
}

func spawnOneFood(b *board.Board, rng *rand.Rand, excluded map[geom.Point]bool) {
	var candidates []geom.Point
	b.Objects.EachEmpty(func(p geom.Point) {
		if excluded[p] {
			return
		}
		candidates = append(candidates, p)
	})
	if len(candidates) == 0 {
		return
	}
	p := candidates[rng.Intn(len(candidates))]
	placeFood(b, p)
}

func placeFood(b *board.Board, p geom.Point) {
	b.Objects.SetFoodOnEmpty(p)
	b.Foods = append(b.Foods, p)
	b.Zobrist = b.Zobrist.XORFood(p)
}

// NewDeterministicFoodSpawner returns a spawner that places food at
// exactly the given point (or nowhere, if p is nil), regardless of the
// exclusion set or random chance. Used by the game-log rewinder to
// reproduce a recorded turn's food placement exactly.
func NewDeterministicFoodSpawner(p *geom.Point) FoodSpawner {
	return func(b *board.Board, rng *rand.Rand, excluded map[geom.Point]bool) {
		if p == nil {
			return
		}
		if b.Objects.At(*p) != board.Empty {
			return
		}
		placeFood(b, *p)
	}
}

// StandardSafeZoneShrinker shrinks one randomly chosen side of the safe
// zone every 20 turns, matching the Battle Royale ruleset.
func StandardSafeZoneShrinker(b *board.Board, rng *rand.Rand) {
	if b.SafeZone.Empty() || b.Turn == 0 || b.Turn%20 != 0 {
		return
	}
	switch geom.AllDirections[rng.Intn(4)] {
	case geom.Left:
		b.SafeZone.P0.X++
	case geom.Up:
		b.SafeZone.P1.Y--
	case geom.Right:
		b.SafeZone.P1.X--
	case geom.Down:
		b.SafeZone.P0.Y++
	}
}

// Legal returns the legal directions for snakeIdx: in bounds (or, under
// the toroidal variant, always in bounds once wrapped), and not an
// immediate crash into a body part that will still be there next step.
// Head-to-head risk is left to the bandit/search to weigh, not excluded
// here — the simulator resolves it after the fact.
func Legal(b *board.Board, snakeIdx int, wrap bool) []geom.Direction {
	var out []geom.Direction
	s := b.Snakes[snakeIdx]
	head := s.Head()
	for _, d := range geom.AllDirections {
		target := head.Add(d)
		if wrap {
			target = target.Wrapped()
		} else if !target.InBounds() {
			continue
		}
		if isBlocked(b, snakeIdx, target) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// isBlocked reports whether moving snakeIdx's head onto target would be
// an immediate, unconditional crash: landing on a body part that will
// still occupy the cell next step. A cell holding the tail of any alive
// snake whose tail is about to vacate (Snake.TailStatic is false) is NOT
// blocked; a cell occupied by any other body part, or by a tail that
// will not vacate because the snake just ate, is blocked. Food and Empty
// cells are never blocked. Head-to-head risk is left to the bandit/search
// to weigh, not excluded here (the simulator resolves it after the
// fact).
func isBlocked(b *board.Board, snakeIdx int, target geom.Point) bool {
	if b.Objects.At(target) != board.BodyPart {
		return false
	}
	for _, other := range b.Snakes {
		if other.IsAlive() && other.Head() == target {
			return true
		}
	}
	for _, other := range b.Snakes {
		if other.IsAlive() && other.Tail() == target {
			return other.TailStatic()
		}
	}
	return true
}

type moveState struct {
	oldHead      geom.Point
	oldTail      geom.Point
	tailParent   geom.Point
	hadTailDup   bool
	hadTailLink  bool
	newHead      geom.Point
	snapshot     board.Object
	outOfBounds  bool
}

// Advance applies one joint action to b, mutating it in place per the
// rule pipeline. actions must have one entry per snake in b.Snakes;
// entries for dead snakes are ignored.
func Advance(b *board.Board, settings Settings, actions []geom.Direction, rng *rand.Rand) {
	// Step 1: turn stir.
	b.Zobrist = b.Zobrist.XORTurn(b.Turn)
	b.Turn++
	b.Zobrist = b.Zobrist.XORTurn(b.Turn)

	n := len(b.Snakes)
	states := make([]moveState, n)
	aliveAtStart := make([]bool, n)

	// Step 2: move heads.
	for i := 0; i < n; i++ {
		s := &b.Snakes[i]
		if !s.IsAlive() {
			continue
		}
		aliveAtStart[i] = true
		st := &states[i]
		st.oldHead = s.Head()
		st.hadTailDup = s.TailStatic()
		st.oldTail = s.Tail()
		if len(s.Body) >= 2 {
			st.tailParent = s.Body[len(s.Body)-2]
			_, st.hadTailLink = geom.DirectionBetween(st.oldTail, st.tailParent, settings.Wrap)
		}

		dir := actions[i]
		st.newHead = st.oldHead.Add(dir)
		if settings.Wrap {
			st.newHead = st.newHead.Wrapped()
		}

		// Zobrist: old head loses its head-slot, gains a neck link
		// pointing towards the new head; new head gains a head-slot.
		b.Zobrist = b.Zobrist.XORHead(st.oldHead, i)
		b.Zobrist = b.Zobrist.XORHead(st.newHead, i)
		b.Zobrist = b.Zobrist.XORBodyLink(st.oldHead, i, dir)

		s.Body = append([]geom.Point{st.newHead}, s.Body...)
		s.Health--
		s.Body = s.Body[:len(s.Body)-1] // pop old tail

		if !st.hadTailDup {
			b.Objects.SetEmptyOnBody(st.oldTail)
			if st.hadTailLink {
				dirTail, _ := geom.DirectionBetween(st.oldTail, st.tailParent, settings.Wrap)
				b.Zobrist = b.Zobrist.XORBodyLink(st.oldTail, i, dirTail)
			}
		}
	}

	// Step 3: snapshot objects under each new head, before any head is
	// written into the grid.
	for i := 0; i < n; i++ {
		if !aliveAtStart[i] {
			continue
		}
		st := &states[i]
		if !st.newHead.InBounds() {
			st.outOfBounds = true
			st.snapshot = board.BodyPart // treat like a wall crash
			continue
		}
		st.snapshot = b.Objects.At(st.newHead)
	}

	// Step 4: food consumption.
	var eaten []geom.Point
	for i := 0; i < n; i++ {
		if !aliveAtStart[i] || states[i].outOfBounds {
			continue
		}
		if states[i].snapshot != board.Food {
			continue
		}
		s := &b.Snakes[i]
		s.Health = StartingHealth
		s.Body = append(s.Body, s.Body[len(s.Body)-1]) // duplicate tail, no hash/grid change
		eaten = append(eaten, states[i].newHead)
	}
	for _, p := range eaten {
		for j, f := range b.Foods {
			if f == p {
				b.Foods = append(b.Foods[:j], b.Foods[j+1:]...)
				break
			}
		}
		b.Objects.SetEmptyOnFood(p)
		b.Zobrist = b.Zobrist.XORFood(p)
	}

	// Step 5: food spawn.
	excluded := make(map[geom.Point]bool, n)
	for i := 0; i < n; i++ {
		if aliveAtStart[i] && !states[i].outOfBounds {
			excluded[states[i].newHead] = true
		}
	}
	if settings.FoodSpawner != nil {
		settings.FoodSpawner(b, rng, excluded)
	}

	// Step 6: death resolution (health zero'd, grid/zobrist cleanup
	// deferred to step 9 — a single pass after hazard damage is
	// equivalent to two passes because nothing in steps 7 and 8 reads
	// the grid).
	for i := 0; i < n; i++ {
		if !aliveAtStart[i] {
			continue
		}
		st := &states[i]
		if st.outOfBounds {
			b.Snakes[i].Health = 0
			continue
		}
		if st.snapshot == board.BodyPart {
			b.Snakes[i].Health = 0
		}
	}
	for i := 0; i < n; i++ {
		if !aliveAtStart[i] || b.Snakes[i].Health <= 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if i == j || !aliveAtStart[j] || b.Snakes[j].Health <= 0 {
				continue
			}
			if states[i].newHead == states[j].newHead && len(b.Snakes[i].Body) <= len(b.Snakes[j].Body) {
				b.Snakes[i].Health = 0
				break
			}
		}
	}

	// Step 7: hazard damage, skipped for a snake that just ate this turn.
	for i := 0; i < n; i++ {
		if !aliveAtStart[i] || b.Snakes[i].Health <= 0 {
			continue
		}
		st := &states[i]
		if st.outOfBounds || st.snapshot == board.Food {
			continue
		}
		if b.Hazard[st.newHead.Index()] {
			b.Snakes[i].Health -= HazardDamage
		}
	}

	// Step 8: safe-zone shrink.
	if settings.SafeZoneShrinker != nil {
		settings.SafeZoneShrinker(b, rng)
	}

	// Step 9: unified cleanup of every snake that died this turn, by any
	// cause (collision, head-to-head, starvation, hazard damage).
	for i := 0; i < n; i++ {
		if !aliveAtStart[i] || b.Snakes[i].Health > 0 {
			continue
		}
		clearDeadSnake(b, i, states[i], settings.Wrap)
	}

	// Step 10: restore the heads of snakes still standing.
	for i := 0; i < n; i++ {
		if !aliveAtStart[i] || b.Snakes[i].Health <= 0 {
			continue
		}
		b.Objects.SetBodyOnEmpty(states[i].newHead)
	}

	// Step 11: terminality.
	b.IsTerminal = b.AliveCount() < 2
}

// clearDeadSnake removes a just-died snake's body from the grid and
// zobrist hash. The head cell is left untouched when the pre-move
// snapshot there was already a body part — that occupant (an enemy's
// neck, or the snake's own body) must not be erased by this snake's
// death.
func clearDeadSnake(b *board.Board, i int, st moveState, wrap bool) {
	body := b.Snakes[i].Body

	// Zobrist: every non-duplicate segment loses its contribution.
	for j, p := range body {
		if j > 0 && p == body[j-1] {
			continue
		}
		if j == 0 {
			b.Zobrist = b.Zobrist.XORHead(p, i)
			continue
		}
		dir, ok := geom.DirectionBetween(p, body[j-1], wrap)
		if !ok {
			continue
		}
		b.Zobrist = b.Zobrist.XORBodyLink(p, i, dir)
	}

	// Grid: clear every distinct cell the body occupies, skipping the
	// head cell if something else is legitimately still there.
	seen := make(map[geom.Point]bool, len(body))
	for j, p := range body {
		if seen[p] {
			continue
		}
		seen[p] = true
		if j == 0 {
			if !st.outOfBounds && st.snapshot == board.BodyPart {
				continue
			}
			if st.outOfBounds {
				continue // never written to the grid in the first place
			}
		}
		if b.Objects.At(p) == board.BodyPart {
			b.Objects.SetEmptyOnBody(p)
		}
	}
}
