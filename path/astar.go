// Package path finds routes across a grid.Grid: cost-weighted A* and
// breadth-first traversal.
package path

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/gravitas-games/hexext/grid"
	"github.com/gravitas-games/hexext/hex"
)

var (
	// ErrNoPath is returned when the goal cannot be reached from start.
	ErrNoPath = errors.New("no path")
	// ErrNegativeCost is returned when a grid reports a negative step cost.
	ErrNegativeCost = errors.New("negative step cost")
	// ErrSearchLimit is returned when the expansion budget runs out first.
	ErrSearchLimit = errors.New("search limit exceeded")
)

// Path is an ordered list of cells from source to destination inclusive.
type Path []hex.Axial

// Cost sums the step costs of p under g.
func (p Path) Cost(g grid.Grid) int {
	total := 0
	for i := 1; i < len(p); i++ {
		total += g.Cost(p[i-1], p[i])
	}
	return total
}

// Result is a successful search outcome.
type Result struct {
	Path     Path
	Cost     int
	Expanded int // nodes popped from the open set
}

type options struct {
	maxExpansions int
	minStepCost   int
}

// Option tunes Find.
type Option func(*options)

// WithMaxExpansions caps how many cells Find may expand; 0 means no cap.
func WithMaxExpansions(n int) Option {
	return func(o *options) { o.maxExpansions = n }
}

// WithMinStepCost sets the cheapest step the grid can report. The heuristic
// is hex distance times this value, so it must not exceed the true minimum.
// Use 0 for grids with zero-cost steps.
func WithMinStepCost(c int) Option {
	return func(o *options) { o.minStepCost = c }
}

// Find computes the lowest-cost path from start to goal using A*.
// - start, goal: axial coordinates
// - g: passability and step costs; only passable neighbors are entered
// Returns a one-element path when start == goal, ErrNoPath when the goal
// is unreachable, and an error wrapping ErrNegativeCost if g reports one.
func Find(start, goal hex.Axial, g grid.Grid, opts ...Option) (Result, error) {
	o := options{minStepCost: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.minStepCost < 0 {
		return Result{}, fmt.Errorf("%w: minimum step cost %d", ErrNegativeCost, o.minStepCost)
	}
	if start == goal {
		return Result{Path: Path{start}}, nil
	}

	dist := HeuristicTo(goal)
	h := func(a hex.Axial) int { return dist(a) * o.minStepCost }

	open := &nodePQ{}
	heap.Init(open)
	var seq uint64
	push := func(a hex.Axial, cost int) {
		heap.Push(open, &pqNode{a: a, f: cost + h(a), seq: seq})
		seq++
	}

	gScore := map[hex.Axial]int{start: 0}
	came := map[hex.Axial]hex.Axial{}
	closed := map[hex.Axial]bool{}
	push(start, 0)

	expanded := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(*pqNode).a
		if closed[cur] {
			continue
		}
		closed[cur] = true
		expanded++

		if cur == goal {
			return Result{Path: reconstruct(came, start, goal), Cost: gScore[goal], Expanded: expanded}, nil
		}
		if o.maxExpansions > 0 && expanded >= o.maxExpansions {
			return Result{Expanded: expanded}, fmt.Errorf("%w: %d expansions", ErrSearchLimit, expanded)
		}

		for _, nb := range cur.Neighbors() {
			if closed[nb] || !g.Passable(nb) {
				continue
			}
			step := g.Cost(cur, nb)
			if step < 0 {
				return Result{Expanded: expanded}, fmt.Errorf("%w: %d from %v to %v", ErrNegativeCost, step, cur, nb)
			}
			tentative := gScore[cur] + step
			if old, ok := gScore[nb]; !ok || tentative < old {
				gScore[nb] = tentative
				came[nb] = cur
				push(nb, tentative)
			}
		}
	}
	return Result{Expanded: expanded}, ErrNoPath
}

func reconstruct(came map[hex.Axial]hex.Axial, start, goal hex.Axial) Path {
	p := Path{goal}
	for k := goal; k != start; {
		k = came[k]
		p = append(p, k)
	}
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// pqNode orders by f, then by insertion sequence so equal-priority
// nodes come out first-in first-out.
type pqNode struct {
	a   hex.Axial
	f   int
	seq uint64
}

type nodePQ []*pqNode

func (p nodePQ) Len() int { return len(p) }
func (p nodePQ) Less(i, j int) bool {
	if p[i].f != p[j].f {
		return p[i].f < p[j].f
	}
	return p[i].seq < p[j].seq
}
func (p nodePQ) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p *nodePQ) Push(x any)   { *p = append(*p, x.(*pqNode)) }
func (p *nodePQ) Pop() any {
	old := *p
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*p = old[:n-1]
	return x
}

// HeuristicTo returns the hex distance heuristic toward goal.
func HeuristicTo(goal hex.Axial) func(a hex.Axial) int {
	return func(a hex.Axial) int { return hex.DistanceAxial(a, goal) }
}
