package navgen

import (
	"bytes"
	"testing"

	"voxnav/common"
)

func TestConfigCheck(t *testing.T) {
	ctx := NewBuildContext(nil)

	good := testConfig(10, 10)
	assertTrue(t, good.Check(ctx), "valid configuration must pass")

	bad := testConfig(10, 10)
	bad.WalkableHeight = 2
	assertTrue(t, !bad.Check(ctx), "walkable height below 3 must fail")

	bad = testConfig(10, 10)
	bad.Bmax[0] = bad.Bmin[0]
	assertTrue(t, !bad.Check(ctx), "degenerate bounds must fail")

	bad = testConfig(10, 10)
	bad.WalkableSlopeAngle = 90
	assertTrue(t, !bad.Check(ctx), "slope angle of 90 must fail")

	bad = testConfig(10, 10)
	bad.MaxVertsPerPoly = 2
	assertTrue(t, !bad.Check(ctx), "nvp below 3 must fail")

	result, ok := BuildPolyMeshFromGeometry(ctx, bad, flatQuadGeom(), nil)
	assertTrue(t, !ok && result == nil, "the pipeline must reject a bad configuration")
}

func TestCalcBoundsAndGridSize(t *testing.T) {
	verts := []float32{
		1, 2, 3,
		0, 2, 6,
	}
	bmin := make([]float32, 3)
	bmax := make([]float32, 3)
	CalcBounds(verts, 2, bmin, bmax)
	assertTrue(t, bmin[0] == 0 && bmin[1] == 2 && bmin[2] == 3, "bmin of two vertices")
	assertTrue(t, bmax[0] == 1 && bmax[1] == 2 && bmax[2] == 6, "bmax of two vertices")

	var width, height int
	CalcGridSize(bmin, bmax, 1.5, &width, &height)
	assertTrue(t, width == 1, "grid width")
	assertTrue(t, height == 2, "grid height")
}

func TestBuildDeterminism(t *testing.T) {
	run := func() []byte {
		cfg := testConfig(14, 14)
		geom := &Geometry{}
		appendQuad(geom, 0, 0, 12, 12, 0)
		appendQuad(geom, 3, 3, 9, 9, 2)
		result := buildScene(t, cfg, geom, &BuildOptions{ContourFlags: CONTOUR_TESS_WALL_EDGES})
		return result.Mesh.ToBin()
	}

	first := run()
	second := run()
	assertTrue(t, bytes.Equal(first, second), "identical inputs must produce byte-identical meshes")
}

func TestKeepIntermediateResults(t *testing.T) {
	cfg := testConfig(10, 10)

	result := buildScene(t, cfg, flatQuadGeom(), &BuildOptions{KeepIntermediateResults: true})
	assertTrue(t, result.Heightfield != nil, "retention flag must keep the solid heightfield")
	assertTrue(t, result.ContourSet != nil, "retention flag must keep the contour set")
	assertTrue(t, result.CompactHF != nil, "the compact field is always returned")

	result = buildScene(t, cfg, flatQuadGeom(), nil)
	assertTrue(t, result.Heightfield == nil, "intermediates must be dropped by default")
	assertTrue(t, result.ContourSet == nil, "intermediates must be dropped by default")
}

func TestDetailBuilderHook(t *testing.T) {
	cfg := testConfig(10, 10)
	called := false
	opts := &BuildOptions{
		DetailBuilder: func(ctx *BuildContext, pmesh *PolyMesh, chf *CompactHeightfield, sampleDist, sampleMaxError float32) bool {
			called = true
			return pmesh != nil && chf != nil
		},
	}
	buildScene(t, cfg, flatQuadGeom(), opts)
	assertTrue(t, called, "the detail mesh hook must run after polygonization")
}

// seamVerts collects the z-coordinates of mesh vertices lying on the given
// grid x coordinate.
func seamVerts(mesh *PolyMesh, x int) map[int]bool {
	out := map[int]bool{}
	for i := 0; i < mesh.NVerts; i++ {
		v := common.GetVert3(mesh.Verts, i)
		if v[0] == x {
			out[v[2]] = true
		}
	}
	return out
}

func TestTileSeamVerticesMatch(t *testing.T) {
	// A 20x10 floor split into two 10x10 tiles along x=10, each built
	// independently with a two-cell border of shared geometry.
	geom := &Geometry{}
	appendQuad(geom, 0, 0, 20, 10, 0)

	const borderSize = 2
	tileCfg := func(originX float32) *Config {
		cfg := testConfig(10+borderSize*2, 10+borderSize*2)
		cfg.BorderSize = borderSize
		cfg.TileSize = 10
		cfg.Bmin[0] = originX - borderSize
		cfg.Bmin[2] = -borderSize
		cfg.Bmax[0] = originX + 10 + borderSize
		cfg.Bmax[2] = 10 + borderSize
		return cfg
	}

	meshA := buildScene(t, tileCfg(0), geom, nil).Mesh
	meshB := buildScene(t, tileCfg(10), geom, nil).Mesh

	// Tile A's +x edge and tile B's -x edge are the same world line.
	seamA := seamVerts(meshA, 10)
	seamB := seamVerts(meshB, 0)

	assertTrue(t, len(seamA) > 0, "tile A should emit seam vertices")
	assertTrue(t, len(seamA) == len(seamB), "seam vertex counts must match")
	for z := range seamA {
		assertTrue(t, seamB[z], "seam vertices must agree between tiles")
	}
}

func TestBuildContextTimers(t *testing.T) {
	ctx := NewBuildContext(nil)
	cfg := testConfig(10, 10)
	buildScene2 := func() {
		if _, ok := BuildPolyMeshFromGeometry(ctx, cfg, flatQuadGeom(), nil); !ok {
			t.Fatalf("build failed")
		}
	}
	buildScene2()
	assertTrue(t, ctx.AccumulatedTime(TimerTotal) >= 0, "total timer must accumulate")
	assertTrue(t, ctx.AccumulatedTime(TimerRasterizeTriangles) >= 0, "stage timer must accumulate")

	ctx.EnableTimer(false)
	assertTrue(t, ctx.AccumulatedTime(TimerTotal) == -1, "disabled timers must report -1")

	var nilCtx *BuildContext
	nilCtx.Progressf("no-op")
	nilCtx.StartTimer(TimerTotal)
	nilCtx.StopTimer(TimerTotal)
	assertTrue(t, nilCtx.AccumulatedTime(TimerTotal) == -1, "a nil context must be inert")
}
