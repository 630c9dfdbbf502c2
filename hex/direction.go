package hex

// Direction indexes Directions, counter-clockwise starting from +Q.
type Direction int

const (
	East      Direction = iota // +Q
	NorthEast                  // +Q -R
	NorthWest                  // -R
	West                       // -Q
	SouthWest                  // -Q +R
	SouthEast                  // +R
)

// AllDirections lists every direction in enumeration order.
var AllDirections = [6]Direction{East, NorthEast, NorthWest, West, SouthWest, SouthEast}

// Angle is a rotation in 60 degree steps.
type Angle int

const (
	Forward Angle = 0
	Left    Angle = 1 // counter-clockwise
	Back    Angle = 3
	Right   Angle = 5 // clockwise
)

// Offset returns the axial unit vector for d.
func (d Direction) Offset() Axial { return Directions[d.normalize()] }

// Rotate turns d by a.
func (d Direction) Rotate(a Angle) Direction {
	return Direction(int(d) + int(a)).normalize()
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction { return d.Rotate(Back) }

func (d Direction) normalize() Direction {
	n := int(d) % 6
	if n < 0 {
		n += 6
	}
	return Direction(n)
}

func (d Direction) String() string {
	switch d.normalize() {
	case East:
		return "E"
	case NorthEast:
		return "NE"
	case NorthWest:
		return "NW"
	case West:
		return "W"
	case SouthWest:
		return "SW"
	default:
		return "SE"
	}
}

// DirectionTo returns the direction whose unit step from a lands on b, and
// false when b is not adjacent to a.
func DirectionTo(a, b Axial) (Direction, bool) {
	delta := b.Sub(a)
	for i, d := range Directions {
		if d == delta {
			return Direction(i), true
		}
	}
	return 0, false
}
