package hex

import "testing"

func TestRingAndDisk(t *testing.T) {
	c := Axial{1, 1}
	for k := 0; k <= 4; k++ {
		ring := Ring(c, k)
		want := 6 * k
		if k == 0 {
			want = 1
		}
		if len(ring) != want {
			t.Fatalf("Ring(%d) has %d cells, want %d", k, len(ring), want)
		}
		for _, a := range ring {
			if DistanceAxial(c, a) != k {
				t.Fatalf("ring cell %v at distance %d, want %d", a, DistanceAxial(c, a), k)
			}
		}
		disk := Disk(c, k)
		if len(disk) != DiskSize(k) {
			t.Fatalf("Disk(%d) has %d cells, want %d", k, len(disk), DiskSize(k))
		}
	}
}

func TestEdgePartitionsRing(t *testing.T) {
	c := Axial{}
	R := 3
	seen := map[Axial]bool{}
	for s := 0; s < 6; s++ {
		edge := Edge(c, R, s)
		if len(edge) != R {
			t.Fatalf("side %d has %d cells", s, len(edge))
		}
		for _, a := range edge {
			if seen[a] {
				t.Fatalf("cell %v on two sides", a)
			}
			seen[a] = true
		}
	}
	if len(seen) != 6*R {
		t.Fatalf("edges cover %d cells, want %d", len(seen), 6*R)
	}
}

func TestShapesRejectNegativeSize(t *testing.T) {
	c := Axial{Q: 1, R: 1}
	if Ring(c, -1) != nil || Disk(c, -1) != nil || Edge(c, -1, 0) != nil {
		t.Fatalf("negative sizes should yield nil shapes")
	}
	if e := Edge(c, 0, 3); len(e) != 1 || e[0] != c {
		t.Fatalf("Edge of radius 0 = %v, want [%v]", e, c)
	}
}

func TestLine(t *testing.T) {
	a, b := Axial{0, 0}, Axial{4, -2}
	line := Line(a, b)
	if len(line) != DistanceAxial(a, b)+1 {
		t.Fatalf("line has %d cells", len(line))
	}
	if line[0] != a || line[len(line)-1] != b {
		t.Fatalf("line endpoints %v..%v", line[0], line[len(line)-1])
	}
	for i := 1; i < len(line); i++ {
		if DistanceAxial(line[i-1], line[i]) != 1 {
			t.Fatalf("line not contiguous at %d: %v", i, line)
		}
	}
}
