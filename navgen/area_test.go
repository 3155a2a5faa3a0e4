package navgen

import (
	"testing"
)

func walkableCount(chf *CompactHeightfield) int {
	n := 0
	for i := 0; i < chf.SpanCount; i++ {
		if chf.Areas[i] != NULL_AREA {
			n++
		}
	}
	return n
}

func TestErodeWalkableArea(t *testing.T) {
	cfg := testConfig(10, 10)
	chf := compactScene(t, cfg, flatQuadGeom())

	before := walkableCount(chf)
	if !ErodeWalkableArea(nil, 1, chf) {
		t.Fatalf("erosion failed")
	}
	after := walkableCount(chf)

	assertTrue(t, after > 0, "erosion by one cell must leave a walkable core")
	assertTrue(t, after < before, "erosion must shrink the walkable area")
}

func TestMarkBoxArea(t *testing.T) {
	cfg := testConfig(10, 10)
	chf := compactScene(t, cfg, flatQuadGeom())

	const mud = 5
	MarkBoxArea(nil, []float32{3, -1, 3}, []float32{6.5, 4, 6.5}, mud, chf)

	found := false
	for z := 0; z < chf.Height; z++ {
		for x := 0; x < chf.Width; x++ {
			c := &chf.Cells[x+z*chf.Width]
			for i := c.Index; i < c.Index+c.Count; i++ {
				inside := x >= 3 && x <= 6 && z >= 3 && z <= 6
				if chf.Areas[i] == mud {
					found = true
					assertTrue(t, inside, "marked span outside the box")
				} else if inside {
					t.Fatalf("span (%d,%d) inside the box was not marked", x, z)
				}
			}
		}
	}
	assertTrue(t, found, "the box should mark at least one span")
}

func TestMarkCylinderArea(t *testing.T) {
	cfg := testConfig(10, 10)
	chf := compactScene(t, cfg, flatQuadGeom())

	const water = 7
	MarkCylinderArea(nil, []float32{5, -1, 5}, 2, 4, water, chf)

	center := &chf.Cells[5+5*chf.Width]
	assertTrue(t, center.Count == 1, "center column should hold one open span")
	assertTrue(t, chf.Areas[center.Index] == water, "center span should be marked")

	corner := &chf.Cells[1+1*chf.Width]
	assertTrue(t, chf.Areas[corner.Index] != water, "corner span must stay unmarked")
}

func TestMarkConvexPolyArea(t *testing.T) {
	cfg := testConfig(10, 10)
	chf := compactScene(t, cfg, flatQuadGeom())

	const grass = 11
	poly := []float32{
		2, 0, 2,
		8, 0, 2,
		8, 0, 8,
		2, 0, 8,
	}
	MarkConvexPolyArea(nil, poly, 4, -1, 4, grass, chf)

	center := &chf.Cells[5+5*chf.Width]
	assertTrue(t, chf.Areas[center.Index] == grass, "span inside the polygon should be marked")

	edge := &chf.Cells[1+5*chf.Width]
	assertTrue(t, chf.Areas[edge.Index] != grass, "span outside the polygon must stay unmarked")
}

func TestMedianFilterSmoothsLoneArea(t *testing.T) {
	cfg := testConfig(10, 10)
	chf := compactScene(t, cfg, flatQuadGeom())

	// Flip a single interior span to a different area id; the median of its
	// neighborhood restores it.
	c := &chf.Cells[5+5*chf.Width]
	chf.Areas[c.Index] = 9

	if !MedianFilterWalkableArea(nil, chf) {
		t.Fatalf("median filter failed")
	}
	assertTrue(t, chf.Areas[c.Index] == WALKABLE_AREA, "lone area island should be smoothed away")
}

func TestOffsetPolySquare(t *testing.T) {
	square := []float32{
		0, 0, 0,
		4, 0, 0,
		4, 0, 4,
		0, 0, 4,
	}
	out := make([]float32, 4*2*3)
	n := OffsetPoly(square, 4, 1, out, 8)
	assertTrue(t, n >= 4, "offsetting a square should keep at least four vertices")

	// All offset vertices must lie outside the original square.
	for i := 0; i < n; i++ {
		x := out[i*3+0]
		z := out[i*3+2]
		outside := x < 0 || x > 4 || z < 0 || z > 4
		assertTrue(t, outside, "offset vertex should move outward")
	}
}

func TestPointInPoly(t *testing.T) {
	poly := []float32{
		0, 0, 0,
		4, 0, 0,
		4, 0, 4,
		0, 0, 4,
	}
	assertTrue(t, pointInPoly(4, poly, []float32{2, 0, 2}), "center point should be inside")
	assertTrue(t, !pointInPoly(4, poly, []float32{5, 0, 2}), "outside point should be outside")
}
