package grid

import (
	"fmt"
	"strings"

	"github.com/gravitas-games/hexext/hex"
)

// Map is a hex-shaped terrain grid. Cells outside the map are impassable
// and fully opaque. A Map is read-only once built and safe to share
// between concurrent queries.
type Map struct {
	Radius int
	Seed   int64
	Cells  map[hex.Axial]Terrain
}

// NewMap creates a map of the given radius filled with plains.
func NewMap(radius int) *Map {
	m := &Map{
		Radius: radius,
		Cells:  make(map[hex.Axial]Terrain, hex.DiskSize(radius)),
	}
	for _, a := range hex.Disk(hex.Axial{}, radius) {
		m.Cells[a] = Plains
	}
	return m
}

// At returns the terrain at a and whether a is on the map.
func (m *Map) At(a hex.Axial) (Terrain, bool) {
	t, ok := m.Cells[a]
	return t, ok
}

// Set changes the terrain of a cell on the map; cells off the map are ignored.
func (m *Map) Set(a hex.Axial, t Terrain) {
	if m.InBounds(a) {
		m.Cells[a] = t
	}
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(a hex.Axial) bool {
	return hex.DistanceAxial(hex.Axial{}, a) <= m.Radius
}

// Passable implements Grid.
func (m *Map) Passable(a hex.Axial) bool {
	t, ok := m.Cells[a]
	return ok && t.MoveCost() != Impassable
}

// Cost implements Grid: entering a cell costs its terrain cost.
func (m *Map) Cost(_, to hex.Axial) int {
	t, ok := m.Cells[to]
	if !ok {
		return Impassable
	}
	return t.MoveCost()
}

// Blocked reports cells a flood fill may not enter.
func (m *Map) Blocked(a hex.Axial) bool { return !m.Passable(a) }

// Opacity reports how much sight a cell absorbs.
func (m *Map) Opacity(a hex.Axial) int {
	t, ok := m.Cells[a]
	if !ok {
		return Mountain.Opacity()
	}
	return t.Opacity()
}

// HexCount returns the number of cells in the map.
func (m *Map) HexCount() int { return len(m.Cells) }

// TerrainCounts returns how many cells hold each terrain.
func (m *Map) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, t := range m.Cells {
		counts[t]++
	}
	return counts
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, seed=%d, hexes=%d)", m.Radius, m.Seed, m.HexCount())
}

// Render draws the map as text, one row per r with half-cell indentation.
// Overlay glyphs replace terrain glyphs where present.
func (m *Map) Render(overlay map[hex.Axial]byte) string {
	var b strings.Builder
	R := m.Radius
	for r := -R; r <= R; r++ {
		qmin := max(-R, -r-R)
		qmax := min(R, -r+R)
		b.WriteString(strings.Repeat(" ", 2*qmin+r+2*R))
		for q := qmin; q <= qmax; q++ {
			a := hex.Axial{Q: q, R: r}
			g, ok := overlay[a]
			if !ok {
				g = m.Cells[a].Glyph()
			}
			b.WriteByte(g)
			if q < qmax {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
