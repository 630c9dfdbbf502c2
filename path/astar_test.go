package path

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gravitas-games/hexext/grid"
	"github.com/gravitas-games/hexext/hex"
)

// dijkstra computes exact minimum costs from start over every reachable
// cell of m, scanning the whole frontier each round.
func dijkstra(m *grid.Map, start hex.Axial) map[hex.Axial]int {
	dist := map[hex.Axial]int{start: 0}
	done := map[hex.Axial]bool{}
	for {
		best, found := hex.Axial{}, false
		for a, d := range dist {
			if done[a] {
				continue
			}
			if !found || d < dist[best] {
				best, found = a, true
			}
		}
		if !found {
			return dist
		}
		done[best] = true
		for _, nb := range best.Neighbors() {
			if !m.Passable(nb) {
				continue
			}
			nd := dist[best] + m.Cost(best, nb)
			if old, ok := dist[nb]; !ok || nd < old {
				dist[nb] = nd
			}
		}
	}
}

func testMap() *grid.Map {
	cfg := grid.DefaultGenConfig()
	cfg.Radius = 7
	cfg.Seed = 7
	return grid.Generate(cfg)
}

func TestFindStartEqualsGoal(t *testing.T) {
	a := hex.Axial{Q: 2, R: -1}
	res, err := Find(a, a, grid.Walls(a))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Path) != 1 || res.Path[0] != a || res.Cost != 0 {
		t.Fatalf("expected single-element path, got %v cost %d", res.Path, res.Cost)
	}
}

func TestFindStraightLine(t *testing.T) {
	res, err := Find(hex.Axial{}, hex.Axial{Q: 4}, grid.Open())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Path{{Q: 0}, {Q: 1}, {Q: 2}, {Q: 3}, {Q: 4}}
	if !reflect.DeepEqual(res.Path, want) {
		t.Fatalf("path = %v, want %v", res.Path, want)
	}
	if res.Cost != 4 {
		t.Fatalf("cost = %d, want 4", res.Cost)
	}
}

func TestFindTieBreakFollowsInsertionOrder(t *testing.T) {
	// Each goal has two shortest paths. The first neighbor in
	// hex.Directions order is queued first and wins the tie.
	cases := []struct {
		goal hex.Axial
		want Path
	}{
		{hex.Axial{Q: 2, R: -1}, Path{{Q: 0, R: 0}, {Q: 1, R: 0}, {Q: 2, R: -1}}},
		{hex.Axial{Q: -2, R: 1}, Path{{Q: 0, R: 0}, {Q: -1, R: 0}, {Q: -2, R: 1}}},
	}
	for _, tc := range cases {
		res, err := Find(hex.Axial{}, tc.goal, grid.Open())
		if err != nil {
			t.Fatalf("goal %v: unexpected error: %v", tc.goal, err)
		}
		if !reflect.DeepEqual(res.Path, tc.want) {
			t.Fatalf("goal %v: path = %v, want %v", tc.goal, res.Path, tc.want)
		}
	}
}

func TestFindNoPath(t *testing.T) {
	goal := hex.Axial{Q: 3}
	ring := hex.Ring(goal, 1)
	g := grid.Bounded(grid.Walls(ring...), hex.Axial{}, 6)
	_, err := Find(hex.Axial{}, goal, g)
	if !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func TestFindImpassableGoal(t *testing.T) {
	goal := hex.Axial{Q: 2}
	g := grid.Bounded(grid.Walls(goal), hex.Axial{}, 4)
	if _, err := Find(hex.Axial{}, goal, g); !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func TestFindRejectsNegativeCost(t *testing.T) {
	g := grid.Funcs{CostFunc: func(_, to hex.Axial) int {
		if to == (hex.Axial{Q: 1}) {
			return -2
		}
		return 1
	}}
	_, err := Find(hex.Axial{}, hex.Axial{Q: 3}, g)
	if !errors.Is(err, ErrNegativeCost) {
		t.Fatalf("expected ErrNegativeCost, got %v", err)
	}
	if _, err := Find(hex.Axial{}, hex.Axial{Q: 1}, grid.Open(), WithMinStepCost(-1)); !errors.Is(err, ErrNegativeCost) {
		t.Fatalf("expected ErrNegativeCost for negative min step, got %v", err)
	}
}

func TestFindSearchLimit(t *testing.T) {
	_, err := Find(hex.Axial{}, hex.Axial{Q: 50}, grid.Walls(hex.Axial{Q: 1}), WithMaxExpansions(5))
	if !errors.Is(err, ErrSearchLimit) {
		t.Fatalf("expected ErrSearchLimit, got %v", err)
	}
}

func TestFindOptimalOnTerrain(t *testing.T) {
	m := testMap()
	var start hex.Axial
	if !m.Passable(start) {
		for _, a := range hex.Disk(hex.Axial{}, m.Radius) {
			if m.Passable(a) {
				start = a
				break
			}
		}
	}
	exact := dijkstra(m, start)
	checked := 0
	for _, goal := range hex.Disk(hex.Axial{}, m.Radius) {
		want, reachable := exact[goal]
		res, err := Find(start, goal, m)
		if !reachable {
			if !errors.Is(err, ErrNoPath) {
				t.Fatalf("goal %v unreachable but Find returned %v", goal, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Find(%v, %v): %v", start, goal, err)
		}
		if res.Cost != want {
			t.Fatalf("cost to %v = %d, want %d", goal, res.Cost, want)
		}
		if res.Path.Cost(m) != res.Cost {
			t.Fatalf("path cost %d disagrees with reported %d", res.Path.Cost(m), res.Cost)
		}
		if res.Path[0] != start || res.Path[len(res.Path)-1] != goal {
			t.Fatalf("path endpoints wrong: %v", res.Path)
		}
		for i := 1; i < len(res.Path); i++ {
			if hex.DistanceAxial(res.Path[i-1], res.Path[i]) != 1 {
				t.Fatalf("path not contiguous: %v", res.Path)
			}
		}
		checked++
	}
	if checked == 0 {
		t.Fatalf("no reachable goals checked")
	}
}

func TestFindDeterministic(t *testing.T) {
	m := testMap()
	goal := hex.Axial{Q: 5, R: -2}
	first, err1 := Find(hex.Axial{Q: -5, R: 2}, goal, m)
	for i := 0; i < 5; i++ {
		again, err2 := Find(hex.Axial{Q: -5, R: 2}, goal, m)
		if !errors.Is(err2, err1) || !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v/%v vs %v/%v", i, first, err1, again, err2)
		}
	}
}

func TestFindZeroCostSteps(t *testing.T) {
	// Free road along the r=1 row; Dijkstra mode must prefer it.
	g := grid.Funcs{CostFunc: func(_, to hex.Axial) int {
		if to.R == 1 {
			return 0
		}
		return 5
	}}
	bounded := grid.Bounded(g, hex.Axial{}, 6)
	res, err := Find(hex.Axial{Q: -3, R: 1}, hex.Axial{Q: 3, R: 1}, bounded, WithMinStepCost(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Cost != 0 {
		t.Fatalf("expected free route, cost %d path %v", res.Cost, res.Path)
	}
}
