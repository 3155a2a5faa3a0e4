package navgen

import (
	"testing"
)

func TestRasterizeFlatQuad(t *testing.T) {
	cfg := testConfig(10, 10)
	hf := rasterizeScene(t, cfg, flatQuadGeom())

	checkColumnInvariants(t, hf)

	// Every cell of the 10x10 footprint gets exactly one walkable span.
	for z := 0; z < 10; z++ {
		for x := 0; x < 10; x++ {
			s := hf.Column(x, z)
			if s == nil {
				t.Fatalf("cell (%d,%d): no span", x, z)
			}
			assertTrue(t, hf.Next(s) == nil, "flat floor should produce one span per column")
			assertTrue(t, s.Area == WALKABLE_AREA, "flat floor should be walkable")
			// y=0 with bmin.y=-1 and ch=0.5 quantizes to [2,3).
			assertTrue(t, s.Smin == 2 && s.Smax == 3, "unexpected span quantization")
		}
	}
}

func TestRasterizeQuadOnCellBoundary(t *testing.T) {
	// A strip crossing the x=5 cell boundary fills the cells on both sides.
	cfg := testConfig(10, 10)
	geom := &Geometry{}
	appendQuad(geom, 4, 0, 6, 1, 0)
	hf := rasterizeScene(t, cfg, geom)

	assertTrue(t, hf.Column(4, 0) != nil, "cell left of the boundary should hold a span")
	assertTrue(t, hf.Column(5, 0) != nil, "cell right of the boundary should hold a span")
	assertTrue(t, hf.Column(3, 0) == nil, "cell outside the strip should stay empty")
	assertTrue(t, hf.Column(6, 0) == nil, "cell outside the strip should stay empty")
}

func TestRasterizeVerticalTriangleUnwalkable(t *testing.T) {
	// A wall in the xy-plane: its normal is perpendicular to +Y so the
	// spans it produces are never walkable, regardless of the slope limit.
	cfg := testConfig(10, 10)
	cfg.WalkableSlopeAngle = 89
	geom := &Geometry{
		Verts: []float32{
			2, 0, 2,
			8, 0, 2,
			8, 2, 2,
		},
		NVerts: 3,
		Tris:   []int{0, 1, 2},
		NTris:  1,
	}
	hf := rasterizeScene(t, cfg, geom)

	found := false
	for z := 0; z < 10; z++ {
		for x := 0; x < 10; x++ {
			for s := hf.Column(x, z); s != nil; s = hf.Next(s) {
				found = true
				assertTrue(t, s.Area == NULL_AREA, "vertical geometry must stay unwalkable")
			}
		}
	}
	assertTrue(t, found, "the wall should still rasterize into solid spans")
}

func TestRasterizeTriangleOutsideBounds(t *testing.T) {
	cfg := testConfig(10, 10)
	geom := &Geometry{}
	appendQuad(geom, 100, 100, 110, 110, 0)
	hf := rasterizeScene(t, cfg, geom)

	for z := 0; z < 10; z++ {
		for x := 0; x < 10; x++ {
			assertTrue(t, hf.Column(x, z) == nil, "out-of-bounds geometry must not produce spans")
		}
	}
}

func TestMarkWalkableTrianglesBySlope(t *testing.T) {
	// 60 degree ramp with a 45 degree limit.
	geom := &Geometry{
		Verts: []float32{
			0, 0, 0,
			10, 0, 0,
			10, 17.32, 10,
			0, 17.32, 10,
		},
		NVerts: 4,
		Tris:   []int{0, 1, 2, 0, 2, 3},
		NTris:  2,
	}
	triAreaIDs := make([]int, geom.NTris)
	MarkWalkableTriangles(45, geom.Verts, geom.NVerts, geom.Tris, geom.NTris, triAreaIDs)
	assertTrue(t, triAreaIDs[0] == NULL_AREA && triAreaIDs[1] == NULL_AREA,
		"steep triangles must not be marked walkable")

	flat := flatQuadGeom()
	flatAreas := make([]int, flat.NTris)
	MarkWalkableTriangles(45, flat.Verts, flat.NVerts, flat.Tris, flat.NTris, flatAreas)
	assertTrue(t, flatAreas[0] == WALKABLE_AREA && flatAreas[1] == WALKABLE_AREA,
		"flat triangles must be marked walkable")
}
