package board

import (
	"math/rand"

	"github.com/arcsnake/mcts-engine/internal/geom"
)

// Object tags the occupant of a single board cell.
type Object uint8

const (
	Empty Object = iota
	BodyPart
	Food
)

// Grid is a W×H occupancy map with O(1) uniform sampling of empty cells,
// maintained via a dense empties list and a cell→list-position reverse
// index.
type Grid struct {
	cells   [geom.Width * geom.Height]Object
	empties []geom.Point
	reverse [geom.Width * geom.Height]int // valid only while cells[p] == Empty
}

// NewGrid returns an all-Empty grid with every cell in the empties list.
func NewGrid() *Grid {
	g := &Grid{}
	g.empties = make([]geom.Point, 0, geom.Width*geom.Height)
	for y := 0; y < geom.Height; y++ {
		for x := 0; x < geom.Width; x++ {
			p := geom.Point{X: x, Y: y}
			g.reverse[p.Index()] = len(g.empties)
			g.empties = append(g.empties, p)
		}
	}
	return g
}

// Clone returns a deep copy, suitable for the per-iteration board clones
// the MCTS driver makes.
func (g *Grid) Clone() *Grid {
	c := &Grid{cells: g.cells, reverse: g.reverse}
	c.empties = append([]geom.Point(nil), g.empties...)
	return c
}

// At returns the occupant of p.
func (g *Grid) At(p geom.Point) Object {
	return g.cells[p.Index()]
}

// NumEmpty returns the number of Empty cells.
func (g *Grid) NumEmpty() int {
	return len(g.empties)
}

// SetBodyOnEmpty transitions an Empty cell to BodyPart, swap-removing it
// from the empties list in O(1).
func (g *Grid) SetBodyOnEmpty(p geom.Point) {
	g.removeFromEmpties(p)
	g.cells[p.Index()] = BodyPart
}

// SetEmptyOnBody transitions a BodyPart cell back to Empty, appending it to
// the empties list.
func (g *Grid) SetEmptyOnBody(p geom.Point) {
	g.cells[p.Index()] = Empty
	g.reverse[p.Index()] = len(g.empties)
	g.empties = append(g.empties, p)
}

// SetFoodOnEmpty transitions an Empty cell to Food. Food also counts as
// non-empty but is not drawn from the empties list by spawning, so the
// cell is removed from it exactly like a body placement.
func (g *Grid) SetFoodOnEmpty(p geom.Point) {
	g.removeFromEmpties(p)
	g.cells[p.Index()] = Food
}

// SetEmptyOnFood transitions a Food cell back to Empty.
func (g *Grid) SetEmptyOnFood(p geom.Point) {
	g.cells[p.Index()] = Empty
	g.reverse[p.Index()] = len(g.empties)
	g.empties = append(g.empties, p)
}

func (g *Grid) removeFromEmpties(p geom.Point) {
	idx := g.reverse[p.Index()]
	last := len(g.empties) - 1
	moved := g.empties[last]
	g.empties[idx] = moved
	g.reverse[moved.Index()] = idx
	g.empties = g.empties[:last]
}

// SampleEmpty draws a uniformly random empty cell. Returns false if none
// remain.
func (g *Grid) SampleEmpty(rng *rand.Rand) (geom.Point, bool) {
	if len(g.empties) == 0 {
		return geom.Point{}, false
	}
	return g.empties[rng.Intn(len(g.empties))], true
}

// EachEmpty calls fn for every empty cell, in empties-list order. Used by
// deterministic food spawners that need to pick "the i-th empty cell"
// reproducibly for game-log replay.
func (g *Grid) EachEmpty(fn func(geom.Point)) {
	for _, p := range g.empties {
		fn(p)
	}
}
