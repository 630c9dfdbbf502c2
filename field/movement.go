package field

import (
	"container/heap"
	"fmt"

	"github.com/gravitas-games/hexext/grid"
	"github.com/gravitas-games/hexext/hex"
	"github.com/gravitas-games/hexext/path"
)

// MovementRange returns every cell reachable from origin with total step
// cost at most budget under g, in order of increasing cost (ties in
// discovery order). A negative step cost aborts with an error.
func MovementRange(origin hex.Axial, budget int, g grid.Grid) (Region, error) {
	if budget < 0 {
		return Region{}, fmt.Errorf("%w: %d", ErrNegativeBudget, budget)
	}
	reg := newRegion(0)
	best := map[hex.Axial]int{origin: 0}
	open := &costQueue{}
	var seq uint64
	heap.Push(open, costItem{a: origin, seq: seq})

	for open.Len() > 0 {
		it := heap.Pop(open).(costItem)
		if it.cost > best[it.a] || reg.Contains(it.a) {
			continue
		}
		reg.add(it.a)
		for _, nb := range it.a.Neighbors() {
			if reg.Contains(nb) || !g.Passable(nb) {
				continue
			}
			step := g.Cost(it.a, nb)
			if step < 0 {
				return Region{}, fmt.Errorf("%w: %d from %v to %v", path.ErrNegativeCost, step, it.a, nb)
			}
			c := it.cost + step
			if c > budget {
				continue
			}
			if old, ok := best[nb]; ok && old <= c {
				continue
			}
			best[nb] = c
			seq++
			heap.Push(open, costItem{a: nb, cost: c, seq: seq})
		}
	}
	return reg, nil
}

type costItem struct {
	a    hex.Axial
	cost int
	seq  uint64
}

type costQueue []costItem

func (q costQueue) Len() int { return len(q) }
func (q costQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}
func (q costQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *costQueue) Push(x any)   { *q = append(*q, x.(costItem)) }
func (q *costQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}
