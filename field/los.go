package field

import (
	"fmt"

	"github.com/gravitas-games/hexext/hex"
)

// Opacity reports how much light a cell absorbs. Transparent cells should
// return 1; anything above the starting light fully blocks sight.
type Opacity interface {
	Opacity(a hex.Axial) int
}

// OpacityFunc adapts a function to Opacity.
type OpacityFunc func(a hex.Axial) int

func (f OpacityFunc) Opacity(a hex.Axial) int { return f(a) }

// noDir marks an unset direction in the cast state.
const noDir hex.Direction = -1

type castState struct {
	p               hex.Axial
	main, dir, prev hex.Direction
}

type caster struct {
	origin  hex.Axial
	reach   int
	opacity Opacity
	visit   func(hex.Axial)
	best    map[castState]int
	err     error
}

func (c *caster) inReach(a hex.Axial) bool {
	return hex.DistanceAxial(c.origin, a) <= c.reach
}

func (c *caster) mark(a hex.Axial) {
	if c.inReach(a) {
		c.visit(a)
	}
}

// cast follows one ray fan. main is the fan's heading, dir the step that
// led here and prev the step before it. A state reached again with no more
// light than before cannot reveal anything new and is skipped.
func (c *caster) cast(light int, p hex.Axial, main, dir, prev hex.Direction) {
	if c.err != nil || !c.inReach(p) {
		return
	}
	st := castState{p: p, main: main, dir: dir, prev: prev}
	if seen, ok := c.best[st]; ok && seen >= light {
		return
	}
	c.best[st] = light

	c.visit(p)
	op := c.opacity.Opacity(p)
	if op < 0 {
		c.err = fmt.Errorf("%w: %d at %v", ErrNegativeOpacity, op, p)
		return
	}
	if op >= light {
		return
	}
	light -= op

	var next []hex.Direction
	switch {
	case dir != noDir && prev != noDir:
		if main == dir {
			c.mark(p.Step(main.Rotate(hex.Right)))
			c.mark(p.Step(main.Rotate(hex.Left)))
		}
		if dir == prev {
			next = []hex.Direction{dir}
		} else {
			next = []hex.Direction{dir, prev}
		}
	case dir != noDir:
		if main == dir {
			c.mark(p.Step(main.Rotate(hex.Right)))
			c.mark(p.Step(main.Rotate(hex.Left)))
			next = []hex.Direction{dir, dir.Rotate(hex.Left), dir.Rotate(hex.Right)}
		} else {
			c.mark(p.Step(main))
			next = []hex.Direction{dir, main}
		}
	default:
		c.mark(p.Step(main))
		c.mark(p.Step(main.Rotate(hex.Left)))
		c.mark(p.Step(main.Rotate(hex.Right)))
		next = []hex.Direction{main, main.Rotate(hex.Left), main.Rotate(hex.Right)}
	}

	for _, d := range next {
		n := p.Step(d)
		if dir != noDir {
			c.cast(light, n, d, d, dir)
		} else {
			c.cast(light, n, main, d, noDir)
		}
	}
}

// LineOfSight casts light from origin along each of dirs and calls visit for
// every visible cell (cells may be reported more than once). Each visited
// cell's opacity is subtracted from the remaining light; a cell whose
// opacity is at least the remaining light is visible but ends the ray.
// Cells farther than light from origin are never visited.
func LineOfSight(origin hex.Axial, light int, dirs []hex.Direction, opacity Opacity, visit func(hex.Axial)) error {
	if light < 0 {
		return fmt.Errorf("%w: light %d", ErrNegativeRadius, light)
	}
	c := &caster{
		origin:  origin,
		reach:   light,
		opacity: opacity,
		visit:   visit,
		best:    make(map[castState]int),
	}
	for _, d := range dirs {
		c.cast(light, origin, d, noDir, noDir)
	}
	return c.err
}

// Visible returns the field of view from origin: every cell within radius
// that light reaches in all six directions, starting with radius+1 light.
// With opacity 1 everywhere this is the full disc.
func Visible(origin hex.Axial, radius int, opacity Opacity) (Region, error) {
	if radius < 0 {
		return Region{}, fmt.Errorf("%w: %d", ErrNegativeRadius, radius)
	}
	reg := newRegion(hex.DiskSize(radius))
	c := &caster{
		origin:  origin,
		reach:   radius,
		opacity: opacity,
		visit:   func(a hex.Axial) { reg.add(a) },
		best:    make(map[castState]int),
	}
	for _, d := range hex.AllDirections {
		c.cast(radius+1, origin, d, noDir, noDir)
	}
	if c.err != nil {
		return Region{}, c.err
	}
	return reg, nil
}
