package field

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gravitas-games/hexext/grid"
	"github.com/gravitas-games/hexext/hex"
	"github.com/gravitas-games/hexext/path"
)

func noWalls(hex.Axial) bool { return false }

func TestReachableOpenIsDisk(t *testing.T) {
	origin := hex.Axial{Q: 2, R: -3}
	for r := 0; r <= 5; r++ {
		reg, err := Reachable(origin, r, ObstructionFunc(noWalls))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reg.Len() != hex.DiskSize(r) {
			t.Fatalf("radius %d: %d cells, want %d", r, reg.Len(), hex.DiskSize(r))
		}
		for _, a := range reg.Cells() {
			if hex.DistanceAxial(origin, a) > r {
				t.Fatalf("cell %v beyond radius %d", a, r)
			}
		}
	}
}

func TestReachableRespectsWalls(t *testing.T) {
	m := grid.NewMap(6)
	// Enclose the origin's east neighbor.
	pocket := hex.Axial{Q: 3}
	for _, a := range hex.Ring(pocket, 1) {
		m.Set(a, grid.Mountain)
	}
	reg, err := Reachable(hex.Axial{}, 6, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Contains(pocket) {
		t.Fatalf("sealed cell %v should not be reachable", pocket)
	}
	for _, a := range hex.Ring(pocket, 1) {
		if reg.Contains(a) {
			t.Fatalf("blocked cell %v included", a)
		}
	}
	if !reg.Contains(hex.Axial{}) {
		t.Fatalf("origin missing")
	}
}

func TestReachableCountsSteps(t *testing.T) {
	// A wall forces a detour: (2,0) is 2 away but needs more steps.
	wall := map[hex.Axial]bool{{Q: 1, R: 0}: true, {Q: 1, R: -1}: true, {Q: 0, R: -1}: true, {Q: 2, R: -1}: true, {Q: 1, R: 1}: true, {Q: 0, R: 1}: true}
	reg, err := Reachable(hex.Axial{}, 2, ObstructionFunc(func(a hex.Axial) bool { return wall[a] }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Contains(hex.Axial{Q: 2, R: 0}) {
		t.Fatalf("(2,0) needs more than 2 steps around the wall")
	}
}

func TestReachableIncludesBlockedOrigin(t *testing.T) {
	everything := ObstructionFunc(func(hex.Axial) bool { return true })
	origin := hex.Axial{Q: -1, R: 2}
	reg, err := Reachable(origin, 3, everything)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Len() != 1 || !reg.Contains(origin) {
		t.Fatalf("expected only the origin, got %v", reg.Cells())
	}
}

func TestReachableNegativeRadius(t *testing.T) {
	if _, err := Reachable(hex.Axial{}, -1, ObstructionFunc(noWalls)); !errors.Is(err, ErrNegativeRadius) {
		t.Fatalf("expected ErrNegativeRadius, got %v", err)
	}
}

func TestRegionDeterministic(t *testing.T) {
	cfg := grid.DefaultGenConfig()
	cfg.Radius = 9
	cfg.Seed = 11
	m := grid.Generate(cfg)
	a, _ := Reachable(hex.Axial{}, 7, m)
	b, _ := Reachable(hex.Axial{}, 7, m)
	if !reflect.DeepEqual(a.Cells(), b.Cells()) {
		t.Fatalf("reachable order differs between runs")
	}
	va, _ := Visible(hex.Axial{}, 7, m)
	vb, _ := Visible(hex.Axial{}, 7, m)
	if !reflect.DeepEqual(va.Cells(), vb.Cells()) {
		t.Fatalf("visible order differs between runs")
	}
	sorted := va.Sorted()
	for i := 1; i < len(sorted); i++ {
		p, q := sorted[i-1], sorted[i]
		if p.R > q.R || (p.R == q.R && p.Q >= q.Q) {
			t.Fatalf("Sorted out of order at %d: %v %v", i, p, q)
		}
	}
}

func TestVisibleOpenFieldIsDisk(t *testing.T) {
	transparent := OpacityFunc(func(hex.Axial) int { return 1 })
	for r := 0; r <= 8; r++ {
		reg, err := Visible(hex.Axial{Q: -1, R: 4}, r, transparent)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reg.Len() != hex.DiskSize(r) {
			t.Fatalf("radius %d: %d visible, want %d", r, reg.Len(), hex.DiskSize(r))
		}
	}
}

func TestVisibleWallCastsShadow(t *testing.T) {
	wall := map[hex.Axial]bool{{Q: 2, R: 0}: true, {Q: 2, R: -1}: true, {Q: 1, R: 1}: true}
	op := OpacityFunc(func(a hex.Axial) int {
		if wall[a] {
			return 100
		}
		return 1
	})
	reg, err := Visible(hex.Axial{}, 5, op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reg.Contains(hex.Axial{Q: 2}) {
		t.Fatalf("the wall itself should be visible")
	}
	for _, hidden := range []hex.Axial{{Q: 3}, {Q: 4}} {
		if reg.Contains(hidden) {
			t.Fatalf("%v should be hidden behind the wall", hidden)
		}
	}
	if !reg.Contains(hex.Axial{Q: -4}) {
		t.Fatalf("open side should be visible")
	}
	for _, a := range reg.Cells() {
		if hex.DistanceAxial(hex.Axial{}, a) > 5 {
			t.Fatalf("cell %v beyond radius", a)
		}
	}
}

func TestVisibleNegativeOpacity(t *testing.T) {
	_, err := Visible(hex.Axial{}, 3, OpacityFunc(func(hex.Axial) int { return -1 }))
	if !errors.Is(err, ErrNegativeOpacity) {
		t.Fatalf("expected ErrNegativeOpacity, got %v", err)
	}
}

func TestLineOfSightSingleDirection(t *testing.T) {
	seen := map[hex.Axial]bool{}
	err := LineOfSight(hex.Axial{}, 4, []hex.Direction{hex.East},
		OpacityFunc(func(hex.Axial) int { return 1 }),
		func(a hex.Axial) { seen[a] = true })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !seen[hex.Axial{Q: 3}] {
		t.Fatalf("cell straight ahead should be visible")
	}
	if seen[hex.Axial{Q: -2}] {
		t.Fatalf("cell behind should not be visible in a single east fan")
	}
	for a := range seen {
		if hex.DistanceAxial(hex.Axial{}, a) > 4 {
			t.Fatalf("cell %v beyond light", a)
		}
	}
}

func TestMovementRange(t *testing.T) {
	m := grid.NewMap(5)
	m.Set(hex.Axial{Q: 1}, grid.Swamp) // cost 4
	reg, err := MovementRange(hex.Axial{}, 3, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Contains(hex.Axial{Q: 1}) {
		t.Fatalf("swamp costs more than the budget")
	}
	if !reg.Contains(hex.Axial{Q: 2}) {
		t.Fatalf("(2,0) reachable around the swamp for 3")
	}
	if !reg.Contains(hex.Axial{Q: -3}) || reg.Contains(hex.Axial{Q: -4}) {
		t.Fatalf("budget boundary wrong")
	}
	if reg.Cells()[0] != (hex.Axial{}) {
		t.Fatalf("origin should come first")
	}
}

func TestMovementRangeNegativeCost(t *testing.T) {
	g := grid.Funcs{CostFunc: func(_, to hex.Axial) int {
		if to == (hex.Axial{R: 1}) {
			return -2
		}
		return 1
	}}
	_, err := MovementRange(hex.Axial{}, 3, g)
	if !errors.Is(err, path.ErrNegativeCost) {
		t.Fatalf("expected ErrNegativeCost, got %v", err)
	}
}

func TestMovementRangeNegativeBudget(t *testing.T) {
	_, err := MovementRange(hex.Axial{}, -1, grid.Open())
	if !errors.Is(err, ErrNegativeBudget) {
		t.Fatalf("expected ErrNegativeBudget, got %v", err)
	}
}
