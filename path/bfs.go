package path

import (
	"math/rand"

	"github.com/gravitas-games/hexext/hex"
)

type visited struct {
	prev hex.Axial
	dist int
}

// Traverser runs a breadth-first search from a start cell and yields the
// cells satisfying isDest in order of walk distance. Cells for which canPass
// is false are still offered to isDest but are never walked through.
type Traverser struct {
	visited map[hex.Axial]visited
	queue   []hex.Axial
	canPass func(hex.Axial) bool
	isDest  func(hex.Axial) bool
	start   hex.Axial
	maxDist int
}

// NewTraverser creates a Traverser rooted at start.
func NewTraverser(start hex.Axial, canPass, isDest func(hex.Axial) bool) *Traverser {
	return &Traverser{
		visited: map[hex.Axial]visited{start: {prev: start, dist: 0}},
		queue:   []hex.Axial{start},
		canPass: canPass,
		isDest:  isDest,
		start:   start,
		maxDist: -1,
	}
}

// SetMaxDistance stops expansion past d steps from start; negative means
// unbounded. Without a bound, Next on an infinite passable grid with no
// further destinations never returns.
func (t *Traverser) SetMaxDistance(d int) { t.maxDist = d }

// Next returns the next closest destination. It can be called repeatedly;
// false means the reachable area is exhausted.
func (t *Traverser) Next() (hex.Axial, bool) {
	for len(t.queue) > 0 {
		pos := t.queue[0]
		t.queue = t.queue[1:]

		// Expand before returning so later calls continue from here.
		if t.canPass(pos) {
			dist := t.visited[pos].dist + 1
			if t.maxDist < 0 || dist <= t.maxDist {
				for _, npos := range pos.Neighbors() {
					if _, seen := t.visited[npos]; seen {
						continue
					}
					t.visited[npos] = visited{prev: pos, dist: dist}
					t.queue = append(t.queue, npos)
				}
			}
		}

		if t.isDest(pos) {
			return pos, true
		}
	}
	return hex.Axial{}, false
}

// Backtrace returns the neighbor of pos one step closer to start. It
// returns start for start and false for cells not yet discovered.
func (t *Traverser) Backtrace(pos hex.Axial) (hex.Axial, bool) {
	v, ok := t.visited[pos]
	return v.prev, ok
}

// BacktraceLast walks back from pos and returns the neighbor of start that
// leads to it, i.e. the first step to take. It returns start for start.
func (t *Traverser) BacktraceLast(pos hex.Axial) (hex.Axial, bool) {
	for {
		v, ok := t.visited[pos]
		if !ok {
			return hex.Axial{}, false
		}
		if v.prev == t.start {
			return pos, true
		}
		pos = v.prev
	}
}

// Distance returns the walk distance from start to a discovered cell.
func (t *Traverser) Distance(pos hex.Axial) (int, bool) {
	v, ok := t.visited[pos]
	return v.dist, ok
}

// PathTo returns the discovered walk from start to pos, or nil.
func (t *Traverser) PathTo(pos hex.Axial) Path {
	v, ok := t.visited[pos]
	if !ok {
		return nil
	}
	p := make(Path, v.dist+1)
	for i := v.dist; i >= 0; i-- {
		p[i] = pos
		pos = t.visited[pos].prev
	}
	return p
}

// BFSPath finds a shortest unit-step path within the disc of radius R around
// center. A non-nil rng shuffles the neighbor order once to vary tie breaks;
// nil keeps the stable hex.Directions order. Returns nil if no path exists.
func BFSPath(center hex.Axial, R int, start, goal hex.Axial, rng *rand.Rand) Path {
	inDisc := func(a hex.Axial) bool { return hex.DistanceAxial(center, a) <= R }
	if !inDisc(start) || !inDisc(goal) {
		return nil
	}
	if start == goal {
		return Path{start}
	}
	order := []int{0, 1, 2, 3, 4, 5}
	if rng != nil {
		rng.Shuffle(6, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	prev := map[hex.Axial]hex.Axial{start: start}
	q := []hex.Axial{start}
	for len(q) > 0 {
		cur := q[0]
		q = q[1:]
		ns := cur.Neighbors()
		for _, idx := range order {
			nxt := ns[idx]
			if _, seen := prev[nxt]; seen || !inDisc(nxt) {
				continue
			}
			prev[nxt] = cur
			if nxt == goal {
				return reconstruct(prev, start, goal)
			}
			q = append(q, nxt)
		}
	}
	return nil
}
