// Package grid defines the query context the path and field algorithms read
// from, along with a terrain map implementation of it.
package grid

import "github.com/gravitas-games/hexext/hex"

// Grid answers the two questions a search asks about cells. Implementations
// must not change while a query is running.
type Grid interface {
	// Passable reports whether a walker may enter a.
	Passable(a hex.Axial) bool
	// Cost is the price of stepping from a cell to an adjacent passable cell.
	// Negative values violate the contract and abort searches.
	Cost(from, to hex.Axial) int
}

// Funcs adapts plain functions to Grid. A nil PassableFunc treats every cell
// as passable and a nil CostFunc charges 1 per step.
type Funcs struct {
	PassableFunc func(a hex.Axial) bool
	CostFunc     func(from, to hex.Axial) int
}

func (f Funcs) Passable(a hex.Axial) bool {
	if f.PassableFunc == nil {
		return true
	}
	return f.PassableFunc(a)
}

func (f Funcs) Cost(from, to hex.Axial) int {
	if f.CostFunc == nil {
		return 1
	}
	return f.CostFunc(from, to)
}

// Open returns an unbounded plane where every step costs 1.
func Open() Grid { return Funcs{} }

// Walls returns a unit-cost grid where the given cells are impassable.
func Walls(blocked ...hex.Axial) Grid {
	set := make(map[hex.Axial]bool, len(blocked))
	for _, a := range blocked {
		set[a] = true
	}
	return Funcs{PassableFunc: func(a hex.Axial) bool { return !set[a] }}
}

type bounded struct {
	Grid
	center hex.Axial
	radius int
}

// Bounded restricts g to the disc of the given radius around center.
func Bounded(g Grid, center hex.Axial, radius int) Grid {
	return bounded{Grid: g, center: center, radius: radius}
}

func (b bounded) Passable(a hex.Axial) bool {
	return hex.DistanceAxial(b.center, a) <= b.radius && b.Grid.Passable(a)
}
