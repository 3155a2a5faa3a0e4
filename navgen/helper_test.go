package navgen

import (
	"testing"
)

func assertTrue(t *testing.T, value bool, msg string) {
	t.Helper()
	if !value {
		t.Errorf(msg)
	}
}

// appendQuad appends a horizontal rectangle [minX,maxX]x[minZ,maxZ] at
// height y to the soup as two triangles.
func appendQuad(geom *Geometry, minX, minZ, maxX, maxZ, y float32) {
	base := geom.NVerts
	geom.Verts = append(geom.Verts,
		minX, y, minZ,
		maxX, y, minZ,
		maxX, y, maxZ,
		minX, y, maxZ,
	)
	geom.NVerts += 4
	geom.Tris = append(geom.Tris,
		base, base+1, base+2,
		base, base+2, base+3,
	)
	geom.NTris += 2
}

// flatQuadGeom is the canonical 10x10 floor at y=0.
func flatQuadGeom() *Geometry {
	geom := &Geometry{}
	appendQuad(geom, 0, 0, 10, 10, 0)
	return geom
}

// testConfig builds a configuration for a [0,sizeX]x[0,sizeZ] scene with
// cs=1, ch=0.5 and the canonical test agent (height 1.5, climb 0.5).
func testConfig(sizeX, sizeZ int) *Config {
	cfg := &Config{
		Width:                  sizeX,
		Height:                 sizeZ,
		Cs:                     1,
		Ch:                     0.5,
		Bmin:                   [3]float32{0, -1, 0},
		Bmax:                   [3]float32{float32(sizeX), 4, float32(sizeZ)},
		WalkableSlopeAngle:     45,
		WalkableHeight:         3,
		WalkableClimb:          1,
		WalkableRadius:         0,
		MaxEdgeLen:             0,
		MaxSimplificationError: 1.3,
		MinRegionArea:          0,
		MergeRegionArea:        0,
		MaxVertsPerPoly:        6,
	}
	return cfg
}

// rasterizeScene builds a solid heightfield from the geometry using the
// configuration's grid and slope settings.
func rasterizeScene(t *testing.T, cfg *Config, geom *Geometry) *Heightfield {
	t.Helper()
	hf := NewHeightfield(cfg.Width, cfg.Height, cfg.Bmin[:], cfg.Bmax[:], cfg.Cs, cfg.Ch)
	triAreaIDs := make([]int, geom.NTris)
	MarkWalkableTriangles(cfg.WalkableSlopeAngle, geom.Verts, geom.NVerts, geom.Tris, geom.NTris, triAreaIDs)
	if !RasterizeTriangles(nil, geom.Verts, geom.NVerts, geom.Tris, triAreaIDs, geom.NTris, hf, cfg.WalkableClimb) {
		t.Fatalf("rasterization failed")
	}
	return hf
}

// compactScene runs rasterization, the walkability filters and compaction.
func compactScene(t *testing.T, cfg *Config, geom *Geometry) *CompactHeightfield {
	t.Helper()
	hf := rasterizeScene(t, cfg, geom)
	FilterLowHangingWalkableObstacles(nil, cfg.WalkableClimb, hf)
	FilterLedgeSpans(nil, cfg.WalkableHeight, cfg.WalkableClimb, hf)
	FilterWalkableLowHeightSpans(nil, cfg.WalkableHeight, hf)
	chf := &CompactHeightfield{}
	if !BuildCompactHeightfield(nil, cfg.WalkableHeight, cfg.WalkableClimb, hf, chf) {
		t.Fatalf("compaction failed")
	}
	return chf
}

// regionIDs returns the set of non-border region ids present in the field.
func regionIDs(chf *CompactHeightfield) map[int]bool {
	ids := map[int]bool{}
	for i := 0; i < chf.SpanCount; i++ {
		reg := chf.Spans[i].Reg
		if reg != 0 && (reg&BORDER_REG) == 0 {
			ids[reg] = true
		}
	}
	return ids
}

// checkColumnInvariants verifies that spans within each column are sorted,
// disjoint and at least one cell tall.
func checkColumnInvariants(t *testing.T, hf *Heightfield) {
	t.Helper()
	for z := 0; z < hf.Height; z++ {
		for x := 0; x < hf.Width; x++ {
			prevMax := -1
			for s := hf.Column(x, z); s != nil; s = hf.Next(s) {
				if s.Smax-s.Smin < 1 {
					t.Fatalf("column (%d,%d): span [%d,%d) shorter than one cell", x, z, s.Smin, s.Smax)
				}
				if s.Smin < prevMax {
					t.Fatalf("column (%d,%d): spans overlap or are out of order", x, z)
				}
				prevMax = s.Smax
			}
		}
	}
}
