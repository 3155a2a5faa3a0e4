package navgen

import (
	"testing"
)

// columnAreas snapshots (smin, smax, area) triplets for the whole field.
func columnAreas(hf *Heightfield) []int {
	var snapshot []int
	for z := 0; z < hf.Height; z++ {
		for x := 0; x < hf.Width; x++ {
			for s := hf.Column(x, z); s != nil; s = hf.Next(s) {
				snapshot = append(snapshot, s.Smin, s.Smax, s.Area)
			}
		}
	}
	return snapshot
}

func TestFilterLowHangingWalkableObstacles(t *testing.T) {
	hf := NewHeightfield(3, 3, []float32{0, 0, 0}, []float32{3, 8, 3}, 1, 1)

	// Walkable ground with an unwalkable curb span above it whose top is
	// within climb range. The spans do not touch, so AddSpan keeps them apart.
	hf.AddSpan(1, 1, 0, 2, WALKABLE_AREA, 1)
	hf.AddSpan(1, 1, 3, 4, NULL_AREA, 1)

	FilterLowHangingWalkableObstacles(nil, 2, hf)

	s := hf.Column(1, 1)
	curb := hf.Next(s)
	assertTrue(t, curb.Area == WALKABLE_AREA, "curb within climb range should become walkable")

	// A second unwalkable span higher up, also within climb of the curb,
	// must not be promoted through the curb.
	hf.AddSpan(2, 1, 0, 2, WALKABLE_AREA, 1)
	hf.AddSpan(2, 1, 3, 4, NULL_AREA, 1)
	hf.AddSpan(2, 1, 5, 6, NULL_AREA, 1)

	FilterLowHangingWalkableObstacles(nil, 2, hf)
	tall := hf.Next(hf.Next(hf.Column(2, 1)))
	assertTrue(t, tall.Area == NULL_AREA, "promotion must not propagate past an obstacle")
}

func TestFilterLedgeSpans(t *testing.T) {
	cfg := testConfig(10, 10)
	hf := rasterizeScene(t, cfg, flatQuadGeom())

	FilterLedgeSpans(nil, cfg.WalkableHeight, cfg.WalkableClimb, hf)

	// The quad's outermost ring drops to the void and must be rejected;
	// the interior stays walkable.
	for z := 0; z < 10; z++ {
		for x := 0; x < 10; x++ {
			s := hf.Column(x, z)
			border := x == 0 || z == 0 || x == 9 || z == 9
			if border {
				assertTrue(t, s.Area == NULL_AREA, "ledge spans must be rejected")
			} else {
				assertTrue(t, s.Area == WALKABLE_AREA, "interior spans must stay walkable")
			}
		}
	}
}

func TestFilterWalkableLowHeightSpans(t *testing.T) {
	hf := NewHeightfield(2, 2, []float32{0, 0, 0}, []float32{2, 8, 2}, 1, 1)

	// Ground with a ceiling two cells above: clearance 2 < walkableHeight 3.
	hf.AddSpan(0, 0, 0, 2, WALKABLE_AREA, 1)
	hf.AddSpan(0, 0, 4, 6, NULL_AREA, 1)
	// Ground with no ceiling.
	hf.AddSpan(1, 0, 0, 2, WALKABLE_AREA, 1)

	FilterWalkableLowHeightSpans(nil, 3, hf)

	assertTrue(t, hf.Column(0, 0).Area == NULL_AREA, "cramped span must be rejected")
	assertTrue(t, hf.Column(1, 0).Area == WALKABLE_AREA, "open span must stay walkable")
}

func TestFiltersAreIdempotent(t *testing.T) {
	cfg := testConfig(12, 12)
	geom := &Geometry{}
	appendQuad(geom, 0, 0, 10, 10, 0)
	appendQuad(geom, 2, 2, 8, 8, 2)

	runFilters := func(hf *Heightfield) {
		FilterLowHangingWalkableObstacles(nil, cfg.WalkableClimb, hf)
		FilterLedgeSpans(nil, cfg.WalkableHeight, cfg.WalkableClimb, hf)
		FilterWalkableLowHeightSpans(nil, cfg.WalkableHeight, hf)
	}

	hf := rasterizeScene(t, cfg, geom)
	runFilters(hf)
	once := columnAreas(hf)

	runFilters(hf)
	twice := columnAreas(hf)

	assertTrue(t, len(once) == len(twice), "filtering must not add or drop spans")
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("filters are not idempotent at snapshot index %d", i)
		}
	}
}
