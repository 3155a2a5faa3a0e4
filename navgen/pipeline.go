package navgen

import (
	"math"
)

// / Partitioning algorithms for region building.
type PartitionType int

const (
	PartitionWatershed PartitionType = iota
	PartitionMonotone
)

// / Axis-aligned box volume used to override span area ids.
type BoxVolume struct {
	Bmin [3]float32
	Bmax [3]float32
	Area int
}

// / Y-axis aligned cylinder volume used to override span area ids.
type CylinderVolume struct {
	Pos    [3]float32
	Radius float32
	Height float32
	Area   int
}

// / Convex polygon volume in the xz-plane extruded over a y range, used to
// / override span area ids.
type ConvexVolume struct {
	Verts      []float32 ///< The polygon vertices. [(x, y, z) * #NVerts]
	NVerts     int
	Hmin, Hmax float32
	Area       int
}

// / Input geometry for a build: an indexed triangle soup in world units.
// / Either triangle winding is accepted; walkability uses absolute slope.
type Geometry struct {
	Verts []float32 ///< The mesh vertices. [(x, y, z) * #NVerts]
	NVerts int
	Tris  []int ///< The triangle vertex indices. [(a, b, c) * #NTris]
	NTris int
}

// / Hook for the detail mesh builder that samples accurate heights for the
// / polygons of a built mesh. The detail mesher is an external collaborator;
// / a nil builder skips the step.
type DetailMeshBuilder func(ctx *BuildContext, pmesh *PolyMesh, chf *CompactHeightfield, sampleDist, sampleMaxError float32) bool

// / Options controlling the single-region build pipeline.
type BuildOptions struct {
	/// Partitioning algorithm used for region building.
	Partition PartitionType

	/// Contour tessellation flags (CONTOUR_TESS_WALL_EDGES, CONTOUR_TESS_AREA_EDGES).
	ContourFlags int

	/// Retain the solid heightfield and contour set on the result instead of
	/// releasing them as soon as the next stage has consumed them.
	KeepIntermediateResults bool

	/// Apply the median filter to the walkable area before building regions.
	FilterMedianArea bool

	/// Area volumes stamped into the compact heightfield before region building.
	BoxVolumes      []BoxVolume
	CylinderVolumes []CylinderVolume
	ConvexVolumes   []ConvexVolume

	/// Optional detail mesh hook, run after polygonization.
	DetailBuilder DetailMeshBuilder
}

// / The result of a pipeline build. Intermediate fields are nil unless
// / KeepIntermediateResults was set.
type BuildResult struct {
	Mesh        *PolyMesh
	CompactHF   *CompactHeightfield
	Heightfield *Heightfield
	ContourSet  *ContourSet
}

// / Runs the full build pipeline over the given geometry: rasterization,
// / walkability filtering, compaction, area shaping, distance field, region
// / partitioning, contour tracing and polygonization.
// /
// / The configuration is validated first; contract violations fail the build
// / before any stage runs. Returns (nil, false) when any stage fails.
func BuildPolyMeshFromGeometry(ctx *BuildContext, cfg *Config, geom *Geometry, opts *BuildOptions) (*BuildResult, bool) {
	if opts == nil {
		opts = &BuildOptions{}
	}
	if !cfg.Check(ctx) {
		return nil, false
	}

	ctx.ResetTimers()
	ctx.StartTimer(TimerTotal)
	defer ctx.StopTimer(TimerTotal)

	ctx.Progressf("build: %d x %d cells, %d verts, %d tris", cfg.Width, cfg.Height, geom.NVerts, geom.NTris)

	//
	// Step 1. Rasterize input polygon soup.
	//

	heightfield := NewHeightfield(cfg.Width, cfg.Height, cfg.Bmin[:], cfg.Bmax[:], cfg.Cs, cfg.Ch)

	// Find triangles which are walkable based on their slope and rasterize
	// them. If your input data is multiple meshes, you can transform them
	// here, calculate the are type for each of the meshes and rasterize them.
	triAreaIDs := make([]int, geom.NTris)
	MarkWalkableTriangles(cfg.WalkableSlopeAngle, geom.Verts, geom.NVerts, geom.Tris, geom.NTris, triAreaIDs)
	if !RasterizeTriangles(ctx, geom.Verts, geom.NVerts, geom.Tris, triAreaIDs, geom.NTris, heightfield, cfg.WalkableClimb) {
		ctx.Errorf("build: could not rasterize triangles")
		return nil, false
	}

	//
	// Step 2. Filter walkable surfaces.
	//

	// Once all geometry is rasterized, we do initial pass of filtering to
	// remove unwanted overhangs caused by the conservative rasterization
	// as well as filter spans where the character cannot possibly stand.
	FilterLowHangingWalkableObstacles(ctx, cfg.WalkableClimb, heightfield)
	FilterLedgeSpans(ctx, cfg.WalkableHeight, cfg.WalkableClimb, heightfield)
	FilterWalkableLowHeightSpans(ctx, cfg.WalkableHeight, heightfield)

	//
	// Step 3. Partition walkable surface to simple regions.
	//

	// Compact the heightfield so that it is faster to handle from now on.
	// This will result more cache coherent data as well as the neighbours
	// between walkable cells will be calculated.
	chf := &CompactHeightfield{}
	if !BuildCompactHeightfield(ctx, cfg.WalkableHeight, cfg.WalkableClimb, heightfield, chf) {
		ctx.Errorf("build: could not build compact heightfield")
		return nil, false
	}

	if !opts.KeepIntermediateResults {
		heightfield = nil
	}

	// Erode the walkable area by agent radius.
	if cfg.WalkableRadius > 0 {
		if !ErodeWalkableArea(ctx, cfg.WalkableRadius, chf) {
			ctx.Errorf("build: could not erode walkable area")
			return nil, false
		}
	}

	// Mark area volumes.
	for i := range opts.BoxVolumes {
		v := &opts.BoxVolumes[i]
		MarkBoxArea(ctx, v.Bmin[:], v.Bmax[:], v.Area, chf)
	}
	for i := range opts.CylinderVolumes {
		v := &opts.CylinderVolumes[i]
		MarkCylinderArea(ctx, v.Pos[:], v.Radius, v.Height, v.Area, chf)
	}
	for i := range opts.ConvexVolumes {
		v := &opts.ConvexVolumes[i]
		MarkConvexPolyArea(ctx, v.Verts, v.NVerts, v.Hmin, v.Hmax, v.Area, chf)
	}

	if opts.FilterMedianArea {
		if !MedianFilterWalkableArea(ctx, chf) {
			ctx.Errorf("build: could not apply median filter")
			return nil, false
		}
	}

	switch opts.Partition {
	case PartitionWatershed:
		// Prepare for region partitioning, by calculating distance field
		// along the walkable surface.
		if !BuildDistanceField(ctx, chf) {
			ctx.Errorf("build: could not build distance field")
			return nil, false
		}
		// Partition the walkable surface into simple regions without holes.
		if !BuildRegions(ctx, chf, cfg.BorderSize, cfg.MinRegionArea, cfg.MergeRegionArea) {
			ctx.Errorf("build: could not build watershed regions")
			return nil, false
		}
	case PartitionMonotone:
		// Partition the walkable surface into simple regions without holes.
		// Monotone partitioning does not need the distance field.
		if !BuildRegionsMonotone(ctx, chf, cfg.BorderSize, cfg.MinRegionArea, cfg.MergeRegionArea) {
			ctx.Errorf("build: could not build monotone regions")
			return nil, false
		}
	default:
		ctx.Errorf("build: unknown partition type %d", opts.Partition)
		return nil, false
	}

	//
	// Step 4. Trace and simplify region contours.
	//

	cset := &ContourSet{}
	if !BuildContours(ctx, chf, cfg.MaxSimplificationError, cfg.MaxEdgeLen, cset, opts.ContourFlags) {
		ctx.Errorf("build: could not create contours")
		return nil, false
	}

	//
	// Step 5. Build polygons mesh from contours.
	//

	mesh := &PolyMesh{}
	if !BuildPolyMesh(ctx, cset, cfg.MaxVertsPerPoly, mesh) {
		ctx.Errorf("build: could not triangulate contours")
		return nil, false
	}

	//
	// Step 6. Create detail mesh which allows to access approximate height
	// on each polygon (external collaborator).
	//

	if opts.DetailBuilder != nil {
		if !opts.DetailBuilder(ctx, mesh, chf, cfg.DetailSampleDist, cfg.DetailSampleMaxError) {
			ctx.Errorf("build: could not build detail mesh")
			return nil, false
		}
	}

	result := &BuildResult{Mesh: mesh, CompactHF: chf}
	if opts.KeepIntermediateResults {
		result.Heightfield = heightfield
		result.ContourSet = cset
	}

	ctx.Progressf("build: %d verts, %d polys", mesh.NVerts, mesh.NPolys)

	return result, true
}

// / Derives a grid-quantized configuration from agent parameters in world
// / units, the way the demo samples do before kicking off a build.
// /
// / @param[in]	cellSize		The xz-plane cell size. [Limit: > 0] [Units: wu]
// / @param[in]	cellHeight		The y-axis cell size. [Limit: > 0] [Units: wu]
// / @param[in]	agentHeight		Minimum height where the agent can still walk. [Units: wu]
// / @param[in]	agentRadius		Radius of the agent. [Units: wu]
// / @param[in]	agentMaxClimb	Maximum height between grid cells the agent can climb. [Units: wu]
func NewConfig(cellSize, cellHeight, agentHeight, agentRadius, agentMaxClimb float32,
	minBounds, maxBounds []float32) *Config {

	cfg := &Config{
		Cs:                     cellSize,
		Ch:                     cellHeight,
		WalkableSlopeAngle:     45,
		WalkableHeight:         int(math.Ceil(float64(agentHeight / cellHeight))),
		WalkableClimb:          int(math.Floor(float64(agentMaxClimb / cellHeight))),
		WalkableRadius:         int(math.Ceil(float64(agentRadius / cellSize))),
		MaxEdgeLen:             int(12.0 / cellSize),
		MaxSimplificationError: 1.3,
		MinRegionArea:          8 * 8,
		MergeRegionArea:        20 * 20,
		MaxVertsPerPoly:        6,
		DetailSampleDist:       6 * cellSize,
		DetailSampleMaxError:   cellHeight,
	}
	if cfg.WalkableHeight < 3 {
		cfg.WalkableHeight = 3
	}
	copy(cfg.Bmin[:], minBounds)
	copy(cfg.Bmax[:], maxBounds)
	CalcGridSize(cfg.Bmin[:], cfg.Bmax[:], cfg.Cs, &cfg.Width, &cfg.Height)
	return cfg
}
