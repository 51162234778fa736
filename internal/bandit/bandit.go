// Package bandit implements the per-node arm-selection strategies the
// MCTS driver delegates to: a variance-regularized UCB and a
// Thompson-sampling variant, unified behind one Bandit interface so the
// driver never needs to know which is in play.
package bandit

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/arcsnake/mcts-engine/internal/geom"
)

// Bandit tracks per-arm statistics for one MCTS node's four compass
// moves and answers the two questions the driver asks of it: which arm
// to descend into during selection, and which arm to report once the
// search budget is spent.
type Bandit interface {
	// Select returns the arm to explore next, among those legal per
	// mask. UCB always prefers an arm with zero visits over a visited
	// one; Thompson picks the arm with the highest Beta sample.
	Select(nodeVisits float64) geom.Direction
	// Backpropagate folds one simulation's reward into arm's statistics.
	Backpropagate(arm geom.Direction, reward float64)
	// Final returns the arm the driver should commit to once the search
	// budget runs out: for UCB the most-visited arm, for Thompson the
	// arm with the highest posterior mean; ties go to the lowest index.
	Final() geom.Direction
	// Visits returns the visit count of the given arm.
	Visits(arm geom.Direction) float64
}

func legalArms(mask [4]bool) []geom.Direction {
	var out []geom.Direction
	for _, d := range geom.AllDirections {
		if mask[d] {
			out = append(out, d)
		}
	}
	return out
}

// maskFromLegal builds the fixed-size legality mask the bandits carry
// alongside their statistics, from the variable-length Legal() result.
func maskFromLegal(legal []geom.Direction) [4]bool {
	var mask [4]bool
	for _, d := range legal {
		mask[d] = true
	}
	return mask
}

// UCB is the variance-regularized upper-confidence-bound bandit, the
// engine's primary selection strategy.
type UCB struct {
	mask        [4]bool
	visits      [4]float64
	sumReward   [4]float64
	sumRewardSq [4]float64
}

// NewUCB returns a UCB bandit restricted to the given legal directions.
func NewUCB(legal []geom.Direction) *UCB {
	return &UCB{mask: maskFromLegal(legal)}
}

func (u *UCB) Visits(arm geom.Direction) float64 { return u.visits[arm] }

func (u *UCB) Select(nodeVisits float64) geom.Direction {
	lnN := math.Log(nodeVisits)
	best := geom.Up
	bestUCB := math.Inf(-1)
	for _, a := range legalArms(u.mask) {
		n := u.visits[a]
		if n == 0 {
			return a
		}
		q := u.sumReward[a] / n
		variance := u.sumRewardSq[a]/n - q*q
		regularized := math.Min(0.25, variance+math.Sqrt(2*lnN/n))
		score := q + math.Sqrt(regularized*lnN/n)
		if score > bestUCB {
			bestUCB = score
			best = a
		}
	}
	return best
}

func (u *UCB) Backpropagate(arm geom.Direction, reward float64) {
	u.visits[arm]++
	u.sumReward[arm] += reward
	u.sumRewardSq[arm] += reward * reward
}

func (u *UCB) Final() geom.Direction {
	best := geom.Up
	bestVisits := -1.0
	for _, a := range geom.AllDirections {
		if u.visits[a] > bestVisits {
			bestVisits = u.visits[a]
			best = a
		}
	}
	return best
}

// Thompson is the Beta-posterior Thompson-sampling bandit: each arm keeps a Beta(α,β) belief over "this arm
// wins", updated by treating reward==1 as a win and anything else as a
// loss.
type Thompson struct {
	mask  [4]bool
	alpha [4]float64
	beta  [4]float64
	rng   *rand.Rand
}

// NewThompson returns a Thompson-sampling bandit seeded with a uniform
// Beta(1,1) prior on every legal arm.
func NewThompson(legal []geom.Direction, rng *rand.Rand) *Thompson {
	t := &Thompson{mask: maskFromLegal(legal), rng: rng}
	for i := range t.alpha {
		t.alpha[i] = 1
		t.beta[i] = 1
	}
	return t
}

func (t *Thompson) Visits(arm geom.Direction) float64 {
	return t.alpha[arm] + t.beta[arm] - 2
}

func (t *Thompson) Select(float64) geom.Direction {
	best := geom.Up
	bestSample := -1.0
	for _, a := range legalArms(t.mask) {
		dist := distuv.Beta{Alpha: t.alpha[a], Beta: t.beta[a], Src: t.rng}
		sample := dist.Rand()
		if sample > bestSample {
			bestSample = sample
			best = a
		}
	}
	return best
}

func (t *Thompson) Backpropagate(arm geom.Direction, reward float64) {
	if reward == 1 {
		t.alpha[arm]++
	} else {
		t.beta[arm]++
	}
}

func (t *Thompson) Final() geom.Direction {
	best := geom.Up
	bestMean := -1.0
	for _, a := range geom.AllDirections {
		mean := t.alpha[a] / (t.alpha[a] + t.beta[a])
		if mean > bestMean {
			bestMean = mean
			best = a
		}
	}
	return best
}
