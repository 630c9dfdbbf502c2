// Package field computes sets of cells around an origin: reachable regions
// bounded by obstructions and fields of view bounded by opacity.
package field

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gravitas-games/hexext/hex"
)

var (
	// ErrNegativeRadius is returned for a radius below zero.
	ErrNegativeRadius = errors.New("negative radius")
	// ErrNegativeBudget is returned for a movement budget below zero.
	ErrNegativeBudget = errors.New("negative budget")
	// ErrNegativeOpacity is returned when an opacity function reports a value below zero.
	ErrNegativeOpacity = errors.New("negative opacity")
)

// Obstruction decides which cells a flood fill may not enter.
type Obstruction interface {
	Blocked(a hex.Axial) bool
}

// ObstructionFunc adapts a function to Obstruction.
type ObstructionFunc func(a hex.Axial) bool

func (f ObstructionFunc) Blocked(a hex.Axial) bool { return f(a) }

// Region is an unordered set of cells that remembers discovery order so
// iteration is reproducible.
type Region struct {
	cells []hex.Axial
	index map[hex.Axial]struct{}
}

func newRegion(capacity int) Region {
	return Region{
		cells: make([]hex.Axial, 0, capacity),
		index: make(map[hex.Axial]struct{}, capacity),
	}
}

// add inserts a and reports whether it was new.
func (r *Region) add(a hex.Axial) bool {
	if _, ok := r.index[a]; ok {
		return false
	}
	r.index[a] = struct{}{}
	r.cells = append(r.cells, a)
	return true
}

// Contains reports membership.
func (r Region) Contains(a hex.Axial) bool {
	_, ok := r.index[a]
	return ok
}

// Len returns the number of cells.
func (r Region) Len() int { return len(r.cells) }

// Cells returns a copy of the cells in discovery order.
func (r Region) Cells() []hex.Axial {
	out := make([]hex.Axial, len(r.cells))
	copy(out, r.cells)
	return out
}

// Sorted returns a copy of the cells ordered by R, then Q.
func (r Region) Sorted() []hex.Axial {
	out := r.Cells()
	sort.Slice(out, func(i, j int) bool {
		if out[i].R != out[j].R {
			return out[i].R < out[j].R
		}
		return out[i].Q < out[j].Q
	})
	return out
}

// Reachable flood-fills from origin through unobstructed cells, taking at
// most radius steps, so no cell lies farther than radius from origin.
// Obstructed cells are left out of the region and not expanded. The origin
// is always included.
func Reachable(origin hex.Axial, radius int, obs Obstruction) (Region, error) {
	if radius < 0 {
		return Region{}, fmt.Errorf("%w: %d", ErrNegativeRadius, radius)
	}
	reg := newRegion(hex.DiskSize(radius))
	reg.add(origin)
	frontier := []hex.Axial{origin}
	for step := 0; step < radius && len(frontier) > 0; step++ {
		var next []hex.Axial
		for _, cur := range frontier {
			for _, nb := range cur.Neighbors() {
				if reg.Contains(nb) || obs.Blocked(nb) {
					continue
				}
				reg.add(nb)
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return reg, nil
}
