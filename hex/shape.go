package hex

// Ring returns the axial coordinates at exact distance k from center c,
// starting from direction 4 (south-west) and proceeding counter-clockwise.
// If k==0, returns [c].
func Ring(c Axial, k int) []Axial {
	if k == 0 {
		return []Axial{c}
	}
	if k < 0 {
		return nil
	}
	res := make([]Axial, 0, 6*k)
	cur := c.Add(Directions[SouthWest].Mul(k))
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			res = append(res, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return res
}

// Disk returns all axial coordinates at distance <= r from center c,
// ordered by q then r.
func Disk(c Axial, r int) []Axial {
	if r < 0 {
		return nil
	}
	res := make([]Axial, 0, DiskSize(r))
	for q := -r; q <= r; q++ {
		for r2 := max(-r, -q-r); r2 <= min(r, -q+r); r2++ {
			res = append(res, c.Add(Axial{q, r2}))
		}
	}
	return res
}

// DiskSize is the number of cells within distance r of a center.
func DiskSize(r int) int {
	if r < 0 {
		return 0
	}
	return 1 + 3*r*(r+1)
}

// Edge returns the R axial coordinates of the side-th segment (0..5) of
// Ring(c, R), in ring order. Segment s is the run that is walked in
// direction s. R == 0 yields [c] and a negative R yields nil.
func Edge(c Axial, R int, side int) []Axial {
	if R < 0 {
		return nil
	}
	if R == 0 {
		return []Axial{c}
	}
	ring := Ring(c, R)
	start := (((side % 6) + 6) % 6) * R
	seg := make([]Axial, R)
	copy(seg, ring[start:start+R])
	return seg
}

// Line returns the cells on the straight line from a to b inclusive,
// using cube rounding of evenly spaced samples.
func Line(a, b Axial) []Axial {
	n := DistanceAxial(a, b)
	out := make([]Axial, 0, n+1)
	if n == 0 {
		return append(out, a)
	}
	ac, bc := a.ToCube(), b.ToCube()
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		// Nudge off exact cell boundaries so ties round consistently.
		x := lerp(float64(ac.X)+1e-6, float64(bc.X)+1e-6, t)
		y := lerp(float64(ac.Y)+1e-6, float64(bc.Y)+1e-6, t)
		z := lerp(float64(ac.Z)-2e-6, float64(bc.Z)-2e-6, t)
		out = append(out, cubeRound(x, y, z).ToAxial())
	}
	return out
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func cubeRound(x, y, z float64) Cube {
	rx, ry, rz := roundHalf(x), roundHalf(y), roundHalf(z)
	dx := absf(float64(rx) - x)
	dy := absf(float64(ry) - y)
	dz := absf(float64(rz) - z)
	switch {
	case dx > dy && dx > dz:
		rx = -ry - rz
	case dy > dz:
		ry = -rx - rz
	default:
		rz = -rx - ry
	}
	return Cube{X: rx, Y: ry, Z: rz}
}

func roundHalf(f float64) int {
	if f < 0 {
		return -int(-f + 0.5)
	}
	return int(f + 0.5)
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
