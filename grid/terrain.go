package grid

import "fmt"

// Terrain types for hex cells.
type Terrain uint8

const (
	Plains Terrain = iota
	Forest
	Hills
	Swamp
	Mountain // impassable, blocks sight
	Water    // impassable, transparent
)

// Impassable is the cost reported for terrain a walker cannot enter.
const Impassable = -1

var terrainInfo = [...]struct {
	name    string
	glyph   byte
	cost    int
	opacity int
}{
	Plains:   {"plains", '.', 1, 1},
	Forest:   {"forest", 'f', 2, 2},
	Hills:    {"hills", 'h', 3, 1},
	Swamp:    {"swamp", 's', 4, 1},
	Mountain: {"mountain", '^', Impassable, 100},
	Water:    {"water", '~', Impassable, 1},
}

func (t Terrain) valid() bool { return int(t) < len(terrainInfo) }

func (t Terrain) String() string {
	if !t.valid() {
		return fmt.Sprintf("terrain(%d)", t)
	}
	return terrainInfo[t].name
}

// MoveCost is the cost of entering a cell of this terrain, or Impassable.
func (t Terrain) MoveCost() int {
	if !t.valid() {
		return Impassable
	}
	return terrainInfo[t].cost
}

// Opacity is how much line-of-sight light the terrain absorbs.
func (t Terrain) Opacity() int {
	if !t.valid() {
		return terrainInfo[Mountain].opacity
	}
	return terrainInfo[t].opacity
}

// Glyph is the character used by Render.
func (t Terrain) Glyph() byte {
	if !t.valid() {
		return '?'
	}
	return terrainInfo[t].glyph
}

// ParseTerrain maps a terrain name back to its value.
func ParseTerrain(name string) (Terrain, error) {
	for i, info := range terrainInfo {
		if info.name == name {
			return Terrain(i), nil
		}
	}
	return 0, fmt.Errorf("unknown terrain %q", name)
}
