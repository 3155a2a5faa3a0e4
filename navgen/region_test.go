package navgen

import (
	"testing"

	"voxnav/common"
)

func TestDistanceFieldFlatQuad(t *testing.T) {
	cfg := testConfig(10, 10)
	chf := compactScene(t, cfg, flatQuadGeom())

	if !BuildDistanceField(nil, chf) {
		t.Fatalf("distance field failed")
	}
	assertTrue(t, chf.MaxDistance > 0, "interior spans must have positive distance")
	assertTrue(t, len(chf.Dist) == chf.SpanCount, "distance array must cover all spans")

	// The center of the walkable core is the farthest from any boundary.
	centerIdx := chf.Cells[5+5*chf.Width].Index
	edgeIdx := chf.Cells[1+1*chf.Width].Index
	assertTrue(t, chf.Dist[centerIdx] > chf.Dist[edgeIdx], "distance must grow toward the interior")
}

func TestBuildRegionsFlatQuad(t *testing.T) {
	cfg := testConfig(10, 10)
	chf := compactScene(t, cfg, flatQuadGeom())

	if !BuildDistanceField(nil, chf) {
		t.Fatalf("distance field failed")
	}
	if !BuildRegions(nil, chf, 0, cfg.MinRegionArea, cfg.MergeRegionArea) {
		t.Fatalf("region build failed")
	}

	assertTrue(t, len(regionIDs(chf)) == 1, "a flat quad must form exactly one region")

	// Region labeling covers every walkable span.
	for i := 0; i < chf.SpanCount; i++ {
		if chf.Areas[i] != NULL_AREA {
			assertTrue(t, chf.Spans[i].Reg != 0, "walkable span left without a region")
		}
	}
}

func TestBuildRegionsConnectivity(t *testing.T) {
	cfg := testConfig(10, 10)
	chf := compactScene(t, cfg, flatQuadGeom())

	if !BuildDistanceField(nil, chf) {
		t.Fatalf("distance field failed")
	}
	if !BuildRegions(nil, chf, 0, cfg.MinRegionArea, cfg.MergeRegionArea) {
		t.Fatalf("region build failed")
	}

	// Two spans with the same region id must be 4-connected through spans
	// of that region: flood from one seed covers the whole id.
	for id := range regionIDs(chf) {
		seen := make([]bool, chf.SpanCount)
		var stack []int
		total := 0
		for z := 0; z < chf.Height && len(stack) == 0; z++ {
			for x := 0; x < chf.Width && len(stack) == 0; x++ {
				c := &chf.Cells[x+z*chf.Width]
				for i := c.Index; i < c.Index+c.Count; i++ {
					if chf.Spans[i].Reg == id {
						stack = append(stack, x, z, i)
						seen[i] = true
						break
					}
				}
			}
		}
		for i := 0; i < chf.SpanCount; i++ {
			if chf.Spans[i].Reg == id {
				total++
			}
		}
		covered := 0
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			z := stack[len(stack)-2]
			x := stack[len(stack)-3]
			stack = stack[:len(stack)-3]
			covered++
			s := &chf.Spans[i]
			for dir := 0; dir < 4; dir++ {
				if GetCon(s, dir) == NOT_CONNECTED {
					continue
				}
				ax := x + common.GetDirOffsetX(dir)
				az := z + common.GetDirOffsetZ(dir)
				ai := chf.Cells[ax+az*chf.Width].Index + GetCon(s, dir)
				if !seen[ai] && chf.Spans[ai].Reg == id {
					seen[ai] = true
					stack = append(stack, ax, az, ai)
				}
			}
		}
		assertTrue(t, covered == total, "region spans must be 4-connected")
	}
}

func TestTwoLevelsFormTwoRegions(t *testing.T) {
	cfg := testConfig(12, 12)
	geom := &Geometry{}
	appendQuad(geom, 0, 0, 10, 10, 0)
	appendQuad(geom, 2, 2, 8, 8, 2)
	chf := compactScene(t, cfg, geom)

	if !BuildDistanceField(nil, chf) {
		t.Fatalf("distance field failed")
	}
	if !BuildRegions(nil, chf, 0, 0, 0) {
		t.Fatalf("region build failed")
	}

	assertTrue(t, len(regionIDs(chf)) == 2, "two stacked floors must form two regions")
}

func TestStaircaseClimb(t *testing.T) {
	buildStairs := func(climb int) *CompactHeightfield {
		geom := &Geometry{}
		for i := 0; i < 5; i++ {
			appendQuad(geom, float32(i*4), 0, float32((i+1)*4), 8, 0.4*float32(i))
		}
		cfg := testConfig(20, 8)
		// Shift the grid origin so that no step top falls exactly on a
		// cell boundary.
		cfg.Bmin[1] = -0.45
		cfg.WalkableClimb = climb
		return compactScene(t, cfg, geom)
	}

	// With the grid origin at y=-0.45, steps rising by 0.4 quantize one cell
	// apart (tops at cells 1..5); with climb 1 the whole staircase is one
	// surface.
	chf := buildStairs(1)
	if !BuildRegionsMonotone(nil, chf, 0, 0, 0) {
		t.Fatalf("region build failed")
	}
	assertTrue(t, len(regionIDs(chf)) == 1, "climbable staircase must form one region")

	// With climb 0 each step is isolated.
	chf = buildStairs(0)
	if !BuildRegionsMonotone(nil, chf, 0, 0, 0) {
		t.Fatalf("region build failed")
	}
	assertTrue(t, len(regionIDs(chf)) == 5, "unclimbable staircase must form five regions")
}

func TestMinRegionAreaFiltersIslands(t *testing.T) {
	cfg := testConfig(16, 16)
	geom := &Geometry{}
	appendQuad(geom, 0, 0, 10, 10, 0)
	// A tiny separate island.
	appendQuad(geom, 12, 0, 15, 3, 0)
	chf := compactScene(t, cfg, geom)

	if !BuildDistanceField(nil, chf) {
		t.Fatalf("distance field failed")
	}
	// The island core is 1 cell; demand at least 4.
	if !BuildRegions(nil, chf, 0, 4, 0) {
		t.Fatalf("region build failed")
	}

	assertTrue(t, len(regionIDs(chf)) == 1, "small islands must be filtered out")
}

func TestBuildRegionsMonotoneFlatQuad(t *testing.T) {
	cfg := testConfig(10, 10)
	chf := compactScene(t, cfg, flatQuadGeom())

	if !BuildRegionsMonotone(nil, chf, 0, 0, 0) {
		t.Fatalf("monotone region build failed")
	}
	assertTrue(t, len(regionIDs(chf)) >= 1, "monotone partitioning must label the surface")
	for i := 0; i < chf.SpanCount; i++ {
		if chf.Areas[i] != NULL_AREA {
			assertTrue(t, chf.Spans[i].Reg != 0, "walkable span left without a region")
		}
	}
}
