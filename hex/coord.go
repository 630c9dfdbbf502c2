// Package hex provides the primitive hex-grid coordinate types the algorithm
// packages build on: axial and cube coordinates, the six directions, rotation,
// distance and neighbor enumeration.
package hex

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedCoord is returned when text cannot be parsed as an axial coordinate.
var ErrMalformedCoord = errors.New("malformed hex coordinate")

// Axial represents axial coordinates (q, r) for pointy-top orientation.
type Axial struct {
	Q int `json:"q" yaml:"q"`
	R int `json:"r" yaml:"r"`
}

// Cube represents cube coordinates (x, y, z) with x+y+z=0.
type Cube struct {
	X int
	Y int
	Z int
}

// Directions for axial neighbors in pointy-top orientation, indexed by Direction.
// Neighbor enumeration everywhere in this module follows this order.
var Directions = [6]Axial{
	{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {-1, +1}, {0, +1},
}

// Add returns a+b in axial space.
func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }

// Sub returns a-b in axial space.
func (a Axial) Sub(b Axial) Axial { return Axial{a.Q - b.Q, a.R - b.R} }

// Mul scales an axial vector by k.
func (a Axial) Mul(k int) Axial { return Axial{a.Q * k, a.R * k} }

// S returns the implicit third cube coordinate.
func (a Axial) S() int { return -a.Q - a.R }

// Step returns the neighbor of a in direction d.
func (a Axial) Step(d Direction) Axial { return a.Add(d.Offset()) }

// Neighbors returns the six adjacent coordinates in Directions order.
func (a Axial) Neighbors() [6]Axial {
	var out [6]Axial
	for i, d := range Directions {
		out[i] = a.Add(d)
	}
	return out
}

// DistanceTo returns the hex distance from a to b.
func (a Axial) DistanceTo(b Axial) int { return DistanceAxial(a, b) }

// String formats the coordinate as "q,r", the form ParseAxial accepts.
func (a Axial) String() string { return strconv.Itoa(a.Q) + "," + strconv.Itoa(a.R) }

// ToCube converts axial to cube.
func (a Axial) ToCube() Cube {
	x := a.Q
	z := a.R
	y := -x - z
	return Cube{X: x, Y: y, Z: z}
}

// ToAxial converts cube to axial.
func (c Cube) ToAxial() Axial { return Axial{Q: c.X, R: c.Z} }

// Valid reports whether the cube components sum to zero.
func (c Cube) Valid() bool { return c.X+c.Y+c.Z == 0 }

// DistanceAxial returns hex distance between two axial coords.
func DistanceAxial(a, b Axial) int {
	return DistanceCube(a.ToCube(), b.ToCube())
}

// DistanceCube returns hex distance between two cube coords.
func DistanceCube(a, b Cube) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	dz := abs(a.Z - b.Z)
	if dx > dy && dx > dz {
		return dx
	}
	if dy > dz {
		return dy
	}
	return dz
}

// ParseAxial parses "q,r" (spaces allowed around either number).
func ParseAxial(s string) (Axial, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Axial{}, fmt.Errorf("%w: %q", ErrMalformedCoord, s)
	}
	q, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Axial{}, fmt.Errorf("%w: %q", ErrMalformedCoord, s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Axial{}, fmt.Errorf("%w: %q", ErrMalformedCoord, s)
	}
	return Axial{Q: q, R: r}, nil
}

// AxialToPixel converts axial to pixel coordinates for pointy-top layout.
// size is the hex radius (corner to center) in pixels.
func AxialToPixel(a Axial, size float64) (x, y float64) {
	// pointy-top: x = size*sqrt(3)*(q + r/2); y = size*3/2*r
	x = size * math.Sqrt(3) * (float64(a.Q) + float64(a.R)/2.0)
	y = size * 1.5 * float64(a.R)
	return
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
