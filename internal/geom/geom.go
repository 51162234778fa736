// Package geom holds the small coordinate and rectangle types shared by
// the board, engine and flood-fill packages.
package geom

// Width and Height are the compile-time board dimensions. The engine does
// not support other sizes (see spec Non-goals).
const (
	Width  = 11
	Height = 11
)

// Point is an integer coordinate on the W×H grid.
type Point struct {
	X int
	Y int
}

// Add returns p translated by the given direction's unit vector.
func (p Point) Add(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// InBounds reports whether p lies within [0,Width) x [0,Height).
func (p Point) InBounds() bool {
	return p.X >= 0 && p.X < Width && p.Y >= 0 && p.Y < Height
}

// Wrapped returns p with its coordinates reduced modulo Width/Height,
// the toroidal variant's replacement for the boundary-death rule: a
// point that left one edge re-enters at the opposite one.
func (p Point) Wrapped() Point {
	x := p.X % Width
	if x < 0 {
		x += Width
	}
	y := p.Y % Height
	if y < 0 {
		y += Height
	}
	return Point{X: x, Y: y}
}

// Index returns the row-major cell index used by flat grids.
func (p Point) Index() int {
	return p.Y*Width + p.X
}

// FromIndex is the inverse of Index.
func FromIndex(i int) Point {
	return Point{X: i % Width, Y: i / Width}
}

// Direction is one of the four compass moves.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
	// None marks "no incoming direction" — used for a snake's head, which
	// has no parent segment to point towards.
	None
)

// AllDirections enumerates the four legal moves, in a fixed order used
// wherever move iteration order matters (e.g. the order of Legal's result
// and the lowest-index tie-break of the bandits' Final).
var AllDirections = [4]Direction{Up, Right, Down, Left}

// Delta returns the unit vector for a direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// DirectionBetween returns the compass direction from `from` to `to`,
// assuming the two points are adjacent. Used to derive body-direction
// Zobrist links and to encode a move for the game log. When wrap is
// true, adjacency is also recognized across the board edge (a link
// straddling a toroidal wrap crossing), matching Point.Wrapped.
func DirectionBetween(from, to Point, wrap bool) (Direction, bool) {
	if d, ok := directionDelta(from, to); ok {
		return d, true
	}
	if !wrap {
		return None, false
	}
	for _, d := range AllDirections {
		if from.Add(d).Wrapped() == to {
			return d, true
		}
	}
	return None, false
}

func directionDelta(from, to Point) (Direction, bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	switch {
	case dx == 0 && dy == 1:
		return Up, true
	case dx == 0 && dy == -1:
		return Down, true
	case dx == 1 && dy == 0:
		return Right, true
	case dx == -1 && dy == 0:
		return Left, true
	default:
		return None, false
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Rectangle is the half-open region [P0.X,P1.X) x [P0.Y,P1.Y) used for the
// Battle Royale safe zone.
type Rectangle struct {
	P0 Point
	P1 Point
}

// Contains reports whether p lies inside the rectangle.
func (r Rectangle) Contains(p Point) bool {
	return r.P0.X <= p.X && p.X < r.P1.X && r.P0.Y <= p.Y && p.Y < r.P1.Y
}

// Empty reports whether the rectangle encloses no cells.
func (r Rectangle) Empty() bool {
	return r.P0.X >= r.P1.X || r.P0.Y >= r.P1.Y
}

// FullBoard is the safe zone that excludes nothing.
func FullBoard() Rectangle {
	return Rectangle{P0: Point{0, 0}, P1: Point{Width, Height}}
}
