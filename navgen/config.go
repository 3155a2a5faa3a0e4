package navgen

import (
	"math"

	"voxnav/common"
)

const (
	/// The number of spans allocated per pool page.
	SPANS_PER_POOL = 2048
	/// Defines the number of bits allocated to span smin and smax.
	SPAN_HEIGHT_BITS = 13
	/// Defines the maximum value for span smin and smax.
	SPAN_MAX_HEIGHT = (1 << SPAN_HEIGHT_BITS) - 1
	/// Represents the null area. A data element with this value is
	/// considered un-walkable.
	NULL_AREA = 0
	/// The default area id used to indicate a walkable surface. This is
	/// also the maximum allowed area id.
	WALKABLE_AREA = 63
	/// The value returned by GetCon if the specified direction is not connected.
	NOT_CONNECTED = 0x3f
	/// An value which indicates an invalid index within a poly mesh.
	MESH_NULL_IDX = 0xffff
	/// Heightfield border flag. Region ids with this bit set belong to the
	/// non-navigable border of the field.
	BORDER_REG = 0x8000
	/// Border vertex flag carried on raw contour vertices that touch the
	/// tile border. The vertices will later be removed to match the
	/// segments and vertices at tile boundaries.
	BORDER_VERTEX = 0x10000
	/// Area border flag carried on raw contour vertices where the walked
	/// edge separates two area ids.
	AREA_BORDER = 0x20000
	/// Applied to the region id field of contour vertices to extract the
	/// region id.
	CONTOUR_REG_MASK = 0xffff
)

// / Contour build flags.
const (
	/// Tessellate solid (impassable) edges during contour simplification.
	CONTOUR_TESS_WALL_EDGES = 0x01
	/// Tessellate edges between areas during contour simplification.
	CONTOUR_TESS_AREA_EDGES = 0x02
)

// / Specifies a configuration to use when performing builds.
type Config struct {
	/// The width of the field along the x-axis. [Limit: >= 0] [Units: vx]
	Width int

	/// The height of the field along the z-axis. [Limit: >= 0] [Units: vx]
	Height int

	/// The width/height size of tile's on the xz-plane. [Limit: >= 0] [Units: vx]
	TileSize int

	/// The size of the non-navigable border around the heightfield. [Limit: >=0] [Units: vx]
	BorderSize int

	/// The xz-plane cell size to use for fields. [Limit: > 0] [Units: wu]
	Cs float32

	/// The y-axis cell size to use for fields. [Limit: > 0] [Units: wu]
	Ch float32

	/// The minimum bounds of the field's AABB. [(x, y, z)] [Units: wu]
	Bmin [3]float32

	/// The maximum bounds of the field's AABB. [(x, y, z)] [Units: wu]
	Bmax [3]float32

	/// The maximum slope that is considered walkable. [Limits: 0 <= value < 90] [Units: Degrees]
	WalkableSlopeAngle float32

	/// Minimum floor to 'ceiling' height that will still allow the floor area to
	/// be considered walkable. [Limit: >= 3] [Units: vx]
	WalkableHeight int

	/// Maximum ledge height that is considered to still be traversable. [Limit: >=0] [Units: vx]
	WalkableClimb int

	/// The distance to erode/shrink the walkable area of the heightfield away from
	/// obstructions. [Limit: >=0] [Units: vx]
	WalkableRadius int

	/// The maximum allowed length for contour edges along the border of the mesh. [Limit: >=0] [Units: vx]
	MaxEdgeLen int

	/// The maximum distance a simplified contour's border edges should deviate
	/// the original raw contour. [Limit: >=0] [Units: wu]
	MaxSimplificationError float32

	/// The minimum number of cells allowed to form isolated island areas. [Limit: >=0] [Units: vx]
	MinRegionArea int

	/// Any regions with a span count smaller than this value will, if possible,
	/// be merged with larger regions. [Limit: >=0] [Units: vx]
	MergeRegionArea int

	/// The maximum number of vertices allowed for polygons generated during the
	/// contour to polygon conversion process. [Limit: >= 3]
	MaxVertsPerPoly int

	/// Sets the sampling distance to use when generating the detail mesh.
	/// (For height detail only.) [Limits: 0 or >= 0.9] [Units: wu]
	DetailSampleDist float32

	/// The maximum distance the detail mesh surface should deviate from heightfield
	/// data. (For height detail only.) [Limit: >=0] [Units: wu]
	DetailSampleMaxError float32
}

// / Validates the configuration contract. Violations are reported through
// / the context error log and fail the build before any stage runs.
func (cfg *Config) Check(ctx *BuildContext) bool {
	if cfg.Cs <= 0 || cfg.Ch <= 0 {
		ctx.Errorf("config: cell size %v and cell height %v must be positive", cfg.Cs, cfg.Ch)
		return false
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		ctx.Errorf("config: grid size %dx%d must be positive", cfg.Width, cfg.Height)
		return false
	}
	for axis := 0; axis < 3; axis++ {
		if cfg.Bmax[axis] <= cfg.Bmin[axis] {
			ctx.Errorf("config: bmax must exceed bmin on every axis")
			return false
		}
	}
	if cfg.WalkableSlopeAngle < 0 || cfg.WalkableSlopeAngle >= 90 {
		ctx.Errorf("config: walkable slope angle %v out of range [0, 90)", cfg.WalkableSlopeAngle)
		return false
	}
	if cfg.WalkableHeight < 3 {
		ctx.Errorf("config: walkable height %d below minimum of 3", cfg.WalkableHeight)
		return false
	}
	if cfg.WalkableClimb < 0 || cfg.WalkableRadius < 0 {
		ctx.Errorf("config: walkable climb and radius must not be negative")
		return false
	}
	if cfg.MaxVertsPerPoly < 3 {
		ctx.Errorf("config: max verts per poly %d below minimum of 3", cfg.MaxVertsPerPoly)
		return false
	}
	if cfg.MaxEdgeLen < 0 || cfg.MaxSimplificationError < 0 ||
		cfg.MinRegionArea < 0 || cfg.MergeRegionArea < 0 {
		ctx.Errorf("config: contour and region limits must not be negative")
		return false
	}
	if cfg.DetailSampleDist != 0 && cfg.DetailSampleDist < 0.9 {
		ctx.Errorf("config: detail sample dist must be 0 or >= 0.9")
		return false
	}
	return true
}

// / Calculates the bounding box of an array of vertices.
// / @param[in]	verts		An array of vertices. [(x, y, z) * @p numVerts]
// / @param[in]	numVerts	The number of vertices in the @p verts array.
// / @param[out]	minBounds	The minimum bounds of the AABB. [(x, y, z)] [Units: wu]
// / @param[out]	maxBounds	The maximum bounds of the AABB. [(x, y, z)] [Units: wu]
func CalcBounds(verts []float32, numVerts int, minBounds, maxBounds []float32) {
	copy(minBounds, verts[:3])
	copy(maxBounds, verts[:3])
	for i := 1; i < numVerts; i++ {
		v := common.GetVert3(verts, i)
		common.Vmin(minBounds, v)
		common.Vmax(maxBounds, v)
	}
}

// / Calculates the grid size based on the bounding box and grid cell size.
// / @param[in]	minBounds	The minimum bounds of the AABB. [(x, y, z)] [Units: wu]
// / @param[in]	maxBounds	The maximum bounds of the AABB. [(x, y, z)] [Units: wu]
// / @param[in]	cellSize	The xz-plane cell size. [Limit: > 0] [Units: wu]
// / @param[out]	sizeX		The width along the x-axis. [Limit: >= 0] [Units: vx]
// / @param[out]	sizeZ		The height along the z-axis. [Limit: >= 0] [Units: vx]
func CalcGridSize(minBounds, maxBounds []float32, cellSize float32, sizeX, sizeZ *int) {
	*sizeX = int((maxBounds[0]-minBounds[0])/cellSize + 0.5)
	*sizeZ = int((maxBounds[2]-minBounds[2])/cellSize + 0.5)
}

func calcTriNormal(v0, v1, v2, faceNormal []float32) {
	e0 := make([]float32, 3)
	e1 := make([]float32, 3)
	common.Vsub(e0, v1, v0)
	common.Vsub(e1, v2, v0)
	common.Vcross(faceNormal, e0, e1)
	common.Vnormalize(faceNormal)
}

// / Sets the area id of all triangles with a slope below the specified value
// / to #WALKABLE_AREA.
// /
// / Only sets the area id's for the walkable triangles. Does not alter the
// / area id's for un-walkable triangles.
// /
// / @param[in]	walkableSlopeAngle	The maximum slope that is considered walkable. [Units: Degrees]
// / @param[in]	verts				The vertices. [(x, y, z) * @p numVerts]
// / @param[in]	numVerts			The number of vertices.
// / @param[in]	tris				The triangle vertex indices. [(vertA, vertB, vertC) * @p numTris]
// / @param[in]	numTris				The number of triangles.
// / @param[out]	triAreaIDs			The triangle area ids. [Length: >= @p numTris]
func MarkWalkableTriangles(walkableSlopeAngle float32,
	verts []float32, numVerts int,
	tris []int, numTris int,
	triAreaIDs []int) {

	walkableThr := float32(math.Cos(float64(walkableSlopeAngle) / 180.0 * math.Pi))

	norm := make([]float32, 3)
	for i := 0; i < numTris; i++ {
		tri := tris[i*3 : i*3+3]
		calcTriNormal(common.GetVert3(verts, tri[0]), common.GetVert3(verts, tri[1]), common.GetVert3(verts, tri[2]), norm)
		// Check if the face is walkable.
		if common.Abs(norm[1]) > walkableThr {
			triAreaIDs[i] = WALKABLE_AREA
		}
	}
}

// / Sets the area id of all triangles with a slope greater than or equal to
// / the specified value to #NULL_AREA. The inverse of MarkWalkableTriangles.
func ClearUnwalkableTriangles(walkableSlopeAngle float32,
	verts []float32, numVerts int,
	tris []int, numTris int,
	triAreaIDs []int) {

	walkableLimitY := float32(math.Cos(float64(walkableSlopeAngle) / 180.0 * math.Pi))

	faceNormal := make([]float32, 3)
	for i := 0; i < numTris; i++ {
		tri := tris[i*3 : i*3+3]
		calcTriNormal(common.GetVert3(verts, tri[0]), common.GetVert3(verts, tri[1]), common.GetVert3(verts, tri[2]), faceNormal)
		if common.Abs(faceNormal[1]) <= walkableLimitY {
			triAreaIDs[i] = NULL_AREA
		}
	}
}
