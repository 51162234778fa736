// Package floodfill implements the territorial leaf-value evaluator used
// by the MCTS driver: a simultaneous BFS from every alive
// snake's head that accounts for how long each snake's own body still
// blocks a cell before it can be contested.
package floodfill

import (
	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/geom"
)

// Evaluate returns, for every snake in b.Snakes (dead or alive), the
// fraction of the W*H grid it uniquely controls. Dead snakes always get
// 0. Cells no snake can reach, and cells reached by two or more snakes
// at the same distance with no strict-largest winner, are neutral and
// count towards nobody.
func Evaluate(b *board.Board) []float64 {
	n := len(b.Snakes)
	rewards := make([]float64, n)

	tenure := tenureByCell(b)
	owned := make(map[geom.Point]int, geom.Width*geom.Height)
	length := make([]int, n)
	frontier := make([][]geom.Point, n)
	won := make([]int, n)

	anyAlive := false
	for i, s := range b.Snakes {
		if !s.IsAlive() {
			continue
		}
		anyAlive = true
		length[i] = len(s.Body)
		head := s.Head()
		owned[head] = i
		won[i]++
		frontier[i] = []geom.Point{head}
	}
	if !anyAlive {
		return rewards
	}

	for depth := 1; hasWork(frontier); depth++ {
		candidates := make(map[geom.Point][]int)
		seenThisDepth := make(map[geom.Point]map[int]bool)
		next := make([][]geom.Point, n)

		for i := 0; i < n; i++ {
			for _, p := range frontier[i] {
				for _, d := range geom.AllDirections {
					q := p.Add(d)
					if !q.InBounds() {
						continue
					}
					if _, taken := owned[q]; taken {
						continue
					}
					if t, blocked := tenure[q]; blocked && depth <= t {
						continue
					}
					if seenThisDepth[q] == nil {
						seenThisDepth[q] = make(map[int]bool)
					}
					if seenThisDepth[q][i] {
						continue
					}
					seenThisDepth[q][i] = true
					candidates[q] = append(candidates[q], i)
				}
			}
		}

		for cell, idxs := range candidates {
			winner, ok := strictLargest(idxs, length)
			if !ok {
				continue // tie: cell stays neutral, nobody's frontier advances through it
			}
			owned[cell] = winner
			won[winner]++
			next[winner] = append(next[winner], cell)
		}

		frontier = next
	}

	for i := range rewards {
		rewards[i] = float64(won[i]) / float64(geom.Width*geom.Height)
	}
	return rewards
}

func hasWork(frontier [][]geom.Point) bool {
	for _, f := range frontier {
		if len(f) > 0 {
			return true
		}
	}
	return false
}

// strictLargest returns the index (into the snakes slice) of the single
// snake among idxs with the greatest length, or ok=false if two or more
// tie for the lead.
func strictLargest(idxs []int, length []int) (winner int, ok bool) {
	best := -1
	bestLen := -1
	tied := false
	for _, i := range idxs {
		switch {
		case length[i] > bestLen:
			best, bestLen, tied = i, length[i], false
		case length[i] == bestLen:
			tied = true
		}
	}
	return best, !tied
}

// tenureByCell returns, for every cell currently occupied by some
// snake's body, the number of turns until that segment vacates: the
// tail itself is 0 (vacates on the very next move), each successive
// segment towards the head adds 1, and a duplicated tail pair (the
// snake just ate) collapses to a single entry since both copies vacate
// together.
func tenureByCell(b *board.Board) map[geom.Point]int {
	out := make(map[geom.Point]int, geom.Width*geom.Height)
	for _, s := range b.Snakes {
		if !s.IsAlive() {
			continue
		}
		body := s.Body
		pos := 0
		out[body[len(body)-1]] = 0
		for i := len(body) - 2; i >= 0; i-- {
			if body[i] == body[i+1] {
				continue // duplicate tail, shares the same tenure
			}
			pos++
			out[body[i]] = pos
		}
	}
	return out
}
