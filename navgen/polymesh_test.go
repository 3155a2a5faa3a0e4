package navgen

import (
	"testing"

	"voxnav/common"
)

func buildScene(t *testing.T, cfg *Config, geom *Geometry, opts *BuildOptions) *BuildResult {
	t.Helper()
	result, ok := BuildPolyMeshFromGeometry(nil, cfg, geom, opts)
	if !ok {
		t.Fatalf("pipeline build failed")
	}
	return result
}

// checkConvexity verifies each polygon's xz-projection is convex.
func checkConvexity(t *testing.T, mesh *PolyMesh) {
	t.Helper()
	nvp := mesh.Nvp
	for i := 0; i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		for j := 0; j < nv; j++ {
			a := common.GetVert3(mesh.Verts, p[j])
			b := common.GetVert3(mesh.Verts, p[(j+1)%nv])
			c := common.GetVert3(mesh.Verts, p[(j+2)%nv])
			cross := (b[0]-a[0])*(c[2]-a[2]) - (c[0]-a[0])*(b[2]-a[2])
			if cross > 0 {
				t.Fatalf("poly %d has a reflex corner at vertex %d", i, j)
			}
		}
	}
}

// checkAdjacency verifies cross-polygon adjacency reciprocates.
func checkAdjacency(t *testing.T, mesh *PolyMesh) {
	t.Helper()
	nvp := mesh.Nvp
	for i := 0; i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		for j := 0; j < nv; j++ {
			nei := p[nvp+j]
			if nei == MESH_NULL_IDX || nei&0x8000 != 0 {
				continue
			}
			q := mesh.Polys[nei*nvp*2:]
			qv := countPolyVerts(q, nvp)
			back := false
			for k := 0; k < qv; k++ {
				if q[nvp+k] == i {
					back = true
				}
			}
			assertTrue(t, back, "polygon adjacency must reciprocate")
		}
	}
}

func TestFlatQuadPolyMesh(t *testing.T) {
	cfg := testConfig(10, 10)
	result := buildScene(t, cfg, flatQuadGeom(), nil)
	mesh := result.Mesh

	// The walkable core of the quad collapses into a single convex polygon
	// when nvp allows quads.
	assertTrue(t, mesh.NPolys == 1, "a square surface should produce one polygon")
	assertTrue(t, mesh.NVerts == 4, "a square surface should keep four corners")
	checkConvexity(t, mesh)
	checkAdjacency(t, mesh)
	assertTrue(t, mesh.Regs[0] != 0, "polygon must inherit its region id")
	assertTrue(t, mesh.Areas[0] == WALKABLE_AREA, "polygon must inherit its area id")
}

func TestFlatQuadTrianglesOnly(t *testing.T) {
	cfg := testConfig(10, 10)
	cfg.MaxVertsPerPoly = 3
	result := buildScene(t, cfg, flatQuadGeom(), nil)
	mesh := result.Mesh

	assertTrue(t, mesh.NPolys == 2, "nvp=3 should keep the two triangles")
	checkConvexity(t, mesh)
	checkAdjacency(t, mesh)
}

func TestEmptySoupProducesEmptyMesh(t *testing.T) {
	cfg := testConfig(4, 4)
	result := buildScene(t, cfg, &Geometry{}, nil)
	assertTrue(t, result.Mesh.NPolys == 0, "empty soup must yield zero polygons")
	assertTrue(t, result.Mesh.NVerts == 0, "empty soup must yield zero vertices")
}

func TestSteepSlopeProducesEmptyMesh(t *testing.T) {
	cfg := testConfig(10, 10)
	cfg.Bmax[1] = 20
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
	result := buildScene(t, cfg, geom, nil)
	assertTrue(t, result.Mesh.NPolys == 0, "a 60 degree slope has no walkable surface")
}

func TestFloorWithHole(t *testing.T) {
	cfg := testConfig(14, 14)
	geom := &Geometry{}
	// A 14x14 floor with a 4x4 hole in the middle, stitched from four strips.
	appendQuad(geom, 0, 0, 5, 14, 0)
	appendQuad(geom, 9, 0, 14, 14, 0)
	appendQuad(geom, 5, 0, 9, 5, 0)
	appendQuad(geom, 5, 9, 9, 14, 0)

	result := buildScene(t, cfg, geom, &BuildOptions{KeepIntermediateResults: true})
	mesh := result.Mesh

	assertTrue(t, mesh.NPolys > 0, "the annulus must polygonize")
	checkConvexity(t, mesh)
	checkAdjacency(t, mesh)

	// No polygon may reach into the hole: every polygon centroid stays
	// outside the hole's walkable-eroded extent.
	nvp := mesh.Nvp
	for i := 0; i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		cx, cz := 0, 0
		for j := 0; j < nv; j++ {
			v := common.GetVert3(mesh.Verts, p[j])
			cx += v[0]
			cz += v[2]
		}
		cx /= nv
		cz /= nv
		inHole := cx >= 6 && cx <= 8 && cz >= 6 && cz <= 8
		assertTrue(t, !inHole, "no polygon may cover the hole")
	}
}

func TestPolyMeshVertexDedup(t *testing.T) {
	cfg := testConfig(12, 12)
	geom := &Geometry{}
	appendQuad(geom, 0, 0, 10, 10, 0)
	result := buildScene(t, cfg, geom, nil)
	mesh := result.Mesh

	// No two stored vertices may coincide.
	seen := map[[3]int]bool{}
	for i := 0; i < mesh.NVerts; i++ {
		v := common.GetVert3(mesh.Verts, i)
		key := [3]int{v[0], v[1], v[2]}
		assertTrue(t, !seen[key], "vertices must be deduplicated")
		seen[key] = true
	}
}

func TestMergePolyMeshes(t *testing.T) {
	cfg := testConfig(10, 10)
	a := buildScene(t, cfg, flatQuadGeom(), nil).Mesh
	b := buildScene(t, cfg, flatQuadGeom(), nil).Mesh

	merged := &PolyMesh{}
	if !MergePolyMeshes(nil, []*PolyMesh{a, b}, merged) {
		t.Fatalf("merge failed")
	}
	// Identical tiles weld onto the same vertices.
	assertTrue(t, merged.NVerts == a.NVerts, "coincident vertices must weld")
	assertTrue(t, merged.NPolys == a.NPolys+b.NPolys, "merged mesh must keep all polygons")
}
