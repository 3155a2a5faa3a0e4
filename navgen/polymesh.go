package navgen

import (
	"voxnav/common"
)

const vertexBucketCount = 1 << 12

// / Represents a polygon mesh suitable for use in building a navigation mesh.
// /
// / Each polygon is stored as two runs of #Nvp indices: the first run holds
// / the polygon's vertices (#MESH_NULL_IDX for unused slots), the second run
// / holds the index of the neighbor polygon across each edge
// / (#MESH_NULL_IDX when the edge is a border).
type PolyMesh struct {
	Verts        []int      ///< The mesh vertices. [Form: (x, y, z) * #NVerts]
	Polys        []int      ///< Polygon and neighbor data. [Length: #MaxPolys * 2 * #Nvp]
	Regs         []int      ///< The region id assigned to each polygon. [Length: #MaxPolys]
	Flags        []int      ///< The user defined flags for each polygon. [Length: #MaxPolys]
	Areas        []int      ///< The area id assigned to each polygon. [Length: #MaxPolys]
	NVerts       int        ///< The number of vertices.
	NPolys       int        ///< The number of polygons.
	MaxPolys     int        ///< The number of allocated polygons.
	Nvp          int        ///< The maximum number of vertices per polygon.
	Bmin         [3]float32 ///< The minimum bounds in world space. [(x, y, z)]
	Bmax         [3]float32 ///< The maximum bounds in world space. [(x, y, z)]
	Cs           float32    ///< The size of each cell. (On the xz-plane.)
	Ch           float32    ///< The height of each cell. (The minimum increment along the y-axis.)
	BorderSize   int        ///< The AABB border size used to generate the source data from which the mesh was derived.
	MaxEdgeError float32    ///< The max error of the polygon edges in the mesh.
}

type meshEdge struct {
	vert     [2]int
	polyEdge [2]int
	poly     [2]int
}

func buildMeshAdjacency(polys []int, npolys, nverts, vertsPerPoly int) bool {
	// Based on code by Eric Lengyel from:
	// https://web.archive.org/web/20080704083314/http://www.terathon.com/code/edges.php

	maxEdgeCount := npolys * vertsPerPoly
	firstEdge := make([]int, nverts+maxEdgeCount)
	nextEdge := firstEdge[nverts:]
	edgeCount := 0
	edges := make([]meshEdge, maxEdgeCount)

	for i := 0; i < nverts; i++ {
		firstEdge[i] = MESH_NULL_IDX
	}

	for i := 0; i < npolys; i++ {
		t := polys[i*vertsPerPoly*2:]
		for j := 0; j < vertsPerPoly; j++ {
			if t[j] == MESH_NULL_IDX {
				break
			}
			v0 := t[j]
			v1 := t[0]
			if j+1 < vertsPerPoly && t[j+1] != MESH_NULL_IDX {
				v1 = t[j+1]
			}
			if v0 < v1 {
				edge := &edges[edgeCount]
				edge.vert[0] = v0
				edge.vert[1] = v1
				edge.poly[0] = i
				edge.polyEdge[0] = j
				edge.poly[1] = i
				edge.polyEdge[1] = 0
				// Insert edge
				nextEdge[edgeCount] = firstEdge[v0]
				firstEdge[v0] = edgeCount
				edgeCount++
			}
		}
	}

	for i := 0; i < npolys; i++ {
		t := polys[i*vertsPerPoly*2:]
		for j := 0; j < vertsPerPoly; j++ {
			if t[j] == MESH_NULL_IDX {
				break
			}
			v0 := t[j]
			v1 := t[0]
			if j+1 < vertsPerPoly && t[j+1] != MESH_NULL_IDX {
				v1 = t[j+1]
			}
			if v0 > v1 {
				for e := firstEdge[v1]; e != MESH_NULL_IDX; e = nextEdge[e] {
					edge := &edges[e]
					if edge.vert[1] == v0 && edge.poly[0] == edge.poly[1] {
						edge.poly[1] = i
						edge.polyEdge[1] = j
						break
					}
				}
			}
		}
	}

	// Store adjacency
	for i := 0; i < edgeCount; i++ {
		e := &edges[i]
		if e.poly[0] != e.poly[1] {
			p0 := polys[e.poly[0]*vertsPerPoly*2:]
			p1 := polys[e.poly[1]*vertsPerPoly*2:]
			p0[vertsPerPoly+e.polyEdge[0]] = e.poly[1]
			p1[vertsPerPoly+e.polyEdge[1]] = e.poly[0]
		}
	}
	return true
}

func computeVertexHash(x, y, z int) int {
	const h1 = 0x8da6b343 // Large multiplicative constants;
	const h2 = 0xd8163841 // here arbitrarily chosen primes
	const h3 = 0xcb1ab31f
	n := h1*x + h2*y + h3*z
	return n & (vertexBucketCount - 1)
}

func addVertex(x, y, z int, verts []int, firstVert, nextVert []int, nv *int) int {
	bucket := computeVertexHash(x, 0, z)
	i := firstVert[bucket]

	for i != -1 {
		v := common.GetVert3(verts, i)
		if v[0] == x && common.Abs(v[1]-y) <= 2 && v[2] == z {
			return i
		}
		i = nextVert[i]
	}

	// Could not find, create new.
	i = *nv
	*nv++
	v := common.GetVert3(verts, i)
	v[0] = x
	v[1] = y
	v[2] = z
	nextVert[i] = firstVert[bucket]
	firstVert[bucket] = i

	return i
}

func countPolyVerts(p []int, nvp int) int {
	for i := 0; i < nvp; i++ {
		if p[i] == MESH_NULL_IDX {
			return i
		}
	}
	return nvp
}

func uleft(a, b, c []int) bool {
	return (b[0]-a[0])*(c[2]-a[2])-(c[0]-a[0])*(b[2]-a[2]) < 0
}

// / Returns the squared length of the shared edge if merging polygons pa and
// / pb is legal (combined vertex count fits nvp and the joined corners stay
// / convex), or -1 when the merge is not possible. The shared edge indices
// / are returned for the caller to perform the merge.
func getPolyMergeValue(pa, pb, verts []int, nvp int) (v, ea, eb int) {
	na := countPolyVerts(pa, nvp)
	nb := countPolyVerts(pb, nvp)

	// If the merged polygon would be too big, do not merge.
	if na+nb-2 > nvp {
		return -1, -1, -1
	}

	// Check if the polygons share an edge.
	ea = -1
	eb = -1

	for i := 0; i < na; i++ {
		va0 := pa[i]
		va1 := pa[(i+1)%na]
		if va0 > va1 {
			va0, va1 = va1, va0
		}
		for j := 0; j < nb; j++ {
			vb0 := pb[j]
			vb1 := pb[(j+1)%nb]
			if vb0 > vb1 {
				vb0, vb1 = vb1, vb0
			}
			if va0 == vb0 && va1 == vb1 {
				ea = i
				eb = j
				break
			}
		}
	}

	// No common edge, cannot merge.
	if ea == -1 || eb == -1 {
		return -1, -1, -1
	}

	// Check to see if the merged polygon would be convex.
	va := pa[(ea+na-1)%na]
	vb := pa[ea]
	vc := pb[(eb+2)%nb]
	if !uleft(common.GetVert3(verts, va), common.GetVert3(verts, vb), common.GetVert3(verts, vc)) {
		return -1, -1, -1
	}

	va = pb[(eb+nb-1)%nb]
	vb = pb[eb]
	vc = pa[(ea+2)%na]
	if !uleft(common.GetVert3(verts, va), common.GetVert3(verts, vb), common.GetVert3(verts, vc)) {
		return -1, -1, -1
	}

	va = pa[ea]
	vb = pa[(ea+1)%na]

	dx := verts[va*3+0] - verts[vb*3+0]
	dy := verts[va*3+2] - verts[vb*3+2]

	return dx*dx + dy*dy, ea, eb
}

func mergePolyVerts(pa, pb []int, ea, eb int, tmp []int, nvp int) {
	na := countPolyVerts(pa, nvp)
	nb := countPolyVerts(pb, nvp)

	for i := 0; i < nvp; i++ {
		tmp[i] = MESH_NULL_IDX
	}
	// Merge polygons.
	n := 0
	// Add pa
	for i := 0; i < na-1; i++ {
		tmp[n] = pa[(ea+1+i)%na]
		n++
	}
	// Add pb
	for i := 0; i < nb-1; i++ {
		tmp[n] = pb[(eb+1+i)%nb]
		n++
	}
	copy(pa[:nvp], tmp[:nvp])
}

func pushFront(v int, arr []int, an *int) {
	*an++
	for i := *an - 1; i > 0; i-- {
		arr[i] = arr[i-1]
	}
	arr[0] = v
}

func pushBack(v int, arr []int, an *int) {
	arr[*an] = v
	*an++
}

func canRemoveVertex(mesh *PolyMesh, rem int) bool {
	nvp := mesh.Nvp

	// Count number of polygons to remove.
	numTouchedVerts := 0
	numRemainingEdges := 0
	for i := 0; i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		numRemoved := 0
		numVerts := 0
		for j := 0; j < nv; j++ {
			if p[j] == rem {
				numTouchedVerts++
				numRemoved++
			}
			numVerts++
		}
		if numRemoved > 0 {
			numRemainingEdges += numVerts - (numRemoved + 1)
		}
	}

	// There would be too few edges remaining to create a polygon.
	// This can happen for example when a tip of a triangle is marked
	// as deletion, but there are no other polys that share the vertex.
	// In this case, the vertex should not be removed.
	if numRemainingEdges <= 2 {
		return false
	}

	// Find edges which share the removed vertex.
	maxEdges := numTouchedVerts * 2
	nedges := 0
	edges := make([]int, maxEdges*3)

	for i := 0; i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)

		// Collect edges which touch the removed vertex.
		for j, k := 0, nv-1; j < nv; k, j = j, j+1 {
			if p[j] == rem || p[k] == rem {
				// Arrange edge so that a=rem.
				a := p[j]
				b := p[k]
				if b == rem {
					a, b = b, a
				}

				// Check if the edge exists.
				exists := false
				for m := 0; m < nedges; m++ {
					e := edges[m*3 : m*3+3]
					if e[1] == b {
						// Exists, increment vertex share count.
						e[2]++
						exists = true
					}
				}
				// Add new edge.
				if !exists {
					edges[nedges*3+0] = a
					edges[nedges*3+1] = b
					edges[nedges*3+2] = 1
					nedges++
				}
			}
		}
	}

	// There should be no more than 2 open edges.
	// This catches the case that two non-adjacent polygons
	// share the removed vertex. In that case, do not remove the vertex.
	numOpenEdges := 0
	for i := 0; i < nedges; i++ {
		if edges[i*3+2] < 2 {
			numOpenEdges++
		}
	}
	return numOpenEdges <= 2
}

func removeVertex(ctx *BuildContext, mesh *PolyMesh, rem, maxTris int) bool {
	nvp := mesh.Nvp

	// Count number of polygons to remove.
	numRemovedVerts := 0
	for i := 0; i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		for j := 0; j < nv; j++ {
			if p[j] == rem {
				numRemovedVerts++
			}
		}
	}

	nedges := 0
	edges := make([]int, numRemovedVerts*nvp*4)
	nhole := 0
	hole := make([]int, numRemovedVerts*nvp)
	nhreg := 0
	hreg := make([]int, numRemovedVerts*nvp)
	nharea := 0
	harea := make([]int, numRemovedVerts*nvp)

	for i := 0; i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		hasRem := false
		for j := 0; j < nv; j++ {
			if p[j] == rem {
				hasRem = true
			}
		}
		if !hasRem {
			continue
		}

		// Collect edges which do not touch the removed vertex.
		for j, k := 0, nv-1; j < nv; k, j = j, j+1 {
			if p[j] != rem && p[k] != rem {
				edges[nedges*4+0] = p[k]
				edges[nedges*4+1] = p[j]
				edges[nedges*4+2] = mesh.Regs[i]
				edges[nedges*4+3] = mesh.Areas[i]
				nedges++
			}
		}
		// Remove the polygon.
		p2 := mesh.Polys[(mesh.NPolys-1)*nvp*2:]
		if i != mesh.NPolys-1 {
			copy(p[:nvp], p2[:nvp])
		}
		for j := nvp; j < nvp*2; j++ {
			p[j] = MESH_NULL_IDX
		}
		mesh.Regs[i] = mesh.Regs[mesh.NPolys-1]
		mesh.Areas[i] = mesh.Areas[mesh.NPolys-1]
		mesh.NPolys--
		i--
	}

	// Remove vertex.
	for i := rem; i < mesh.NVerts-1; i++ {
		mesh.Verts[i*3+0] = mesh.Verts[(i+1)*3+0]
		mesh.Verts[i*3+1] = mesh.Verts[(i+1)*3+1]
		mesh.Verts[i*3+2] = mesh.Verts[(i+1)*3+2]
	}
	mesh.NVerts--

	// Adjust indices to match the removed vertex layout.
	for i := 0; i < mesh.NPolys; i++ {
		p := mesh.Polys[i*nvp*2:]
		nv := countPolyVerts(p, nvp)
		for j := 0; j < nv; j++ {
			if p[j] > rem {
				p[j]--
			}
		}
	}
	for i := 0; i < nedges; i++ {
		if edges[i*4+0] > rem {
			edges[i*4+0]--
		}
		if edges[i*4+1] > rem {
			edges[i*4+1]--
		}
	}

	if nedges == 0 {
		return true
	}

	// Start with one vertex, keep appending connected
	// segments to the start and end of the hole.
	pushBack(edges[0], hole, &nhole)
	pushBack(edges[2], hreg, &nhreg)
	pushBack(edges[3], harea, &nharea)

	for nedges > 0 {
		match := false

		for i := 0; i < nedges; i++ {
			ea := edges[i*4+0]
			eb := edges[i*4+1]
			r := edges[i*4+2]
			a := edges[i*4+3]
			add := false
			if hole[0] == eb {
				// The segment matches the beginning of the hole boundary.
				pushFront(ea, hole, &nhole)
				pushFront(r, hreg, &nhreg)
				pushFront(a, harea, &nharea)
				add = true
			} else if hole[nhole-1] == ea {
				// The segment matches the end of the hole boundary.
				pushBack(eb, hole, &nhole)
				pushBack(r, hreg, &nhreg)
				pushBack(a, harea, &nharea)
				add = true
			}
			if add {
				// The edge segment was added, remove it.
				edges[i*4+0] = edges[(nedges-1)*4+0]
				edges[i*4+1] = edges[(nedges-1)*4+1]
				edges[i*4+2] = edges[(nedges-1)*4+2]
				edges[i*4+3] = edges[(nedges-1)*4+3]
				nedges--
				match = true
				i--
			}
		}

		if !match {
			break
		}
	}

	tverts := make([]int, nhole*4)
	thole := make([]int, nhole)

	// Generate temp vertex array for triangulation.
	for i := 0; i < nhole; i++ {
		pi := hole[i]
		tverts[i*4+0] = mesh.Verts[pi*3+0]
		tverts[i*4+1] = mesh.Verts[pi*3+1]
		tverts[i*4+2] = mesh.Verts[pi*3+2]
		tverts[i*4+3] = 0
		thole[i] = i
	}

	// Triangulate the hole.
	tris := make([]int, nhole*3)
	ntris := triangulate(nhole, tverts, thole, tris)
	if ntris < 0 {
		ntris = -ntris
		ctx.Warningf("removeVertex: hole triangulation error")
	}

	// Merge the hole triangles back to polygons.
	polys := make([]int, (ntris+1)*nvp)
	pregs := make([]int, ntris)
	pareas := make([]int, ntris)
	tmpPoly := polys[ntris*nvp:]

	// Build initial polygons.
	npolys := 0
	for i := range polys[:ntris*nvp] {
		polys[i] = MESH_NULL_IDX
	}
	for j := 0; j < ntris; j++ {
		t := tris[j*3 : j*3+3]
		if t[0] != t[1] && t[0] != t[2] && t[1] != t[2] {
			polys[npolys*nvp+0] = hole[t[0]]
			polys[npolys*nvp+1] = hole[t[1]]
			polys[npolys*nvp+2] = hole[t[2]]

			// If this polygon covers multiple region types then mark it as such.
			if hreg[t[0]] != hreg[t[1]] || hreg[t[1]] != hreg[t[2]] {
				pregs[npolys] = multipleRegs
			} else {
				pregs[npolys] = hreg[t[0]]
			}
			pareas[npolys] = harea[t[0]]
			npolys++
		}
	}
	if npolys == 0 {
		return true
	}

	// Merge polygons.
	if nvp > 3 {
		for {
			// Find best polygons to merge.
			bestMergeVal := 0
			bestPa, bestPb, bestEa, bestEb := 0, 0, 0, 0

			for j := 0; j < npolys-1; j++ {
				pj := polys[j*nvp:]
				for k := j + 1; k < npolys; k++ {
					pk := polys[k*nvp:]
					v, ea, eb := getPolyMergeValue(pj, pk, mesh.Verts, nvp)
					if v > bestMergeVal {
						bestMergeVal = v
						bestPa = j
						bestPb = k
						bestEa = ea
						bestEb = eb
					}
				}
			}

			if bestMergeVal <= 0 {
				// Could not merge any polygons, stop.
				break
			}

			// Found best, merge.
			pa := polys[bestPa*nvp:]
			pb := polys[bestPb*nvp:]
			mergePolyVerts(pa, pb, bestEa, bestEb, tmpPoly, nvp)
			if pregs[bestPa] != pregs[bestPb] {
				pregs[bestPa] = multipleRegs
			}
			last := polys[(npolys-1)*nvp:]
			if bestPb != npolys-1 {
				copy(pb[:nvp], last[:nvp])
			}
			pregs[bestPb] = pregs[npolys-1]
			pareas[bestPb] = pareas[npolys-1]
			npolys--
		}
	}

	// Store polygons.
	for i := 0; i < npolys; i++ {
		if mesh.NPolys >= maxTris {
			break
		}
		p := mesh.Polys[mesh.NPolys*nvp*2:]
		for j := 0; j < nvp*2; j++ {
			p[j] = MESH_NULL_IDX
		}
		for j := 0; j < nvp; j++ {
			p[j] = polys[i*nvp+j]
		}
		mesh.Regs[mesh.NPolys] = pregs[i]
		mesh.Areas[mesh.NPolys] = pareas[i]
		mesh.NPolys++
		if mesh.NPolys > maxTris {
			ctx.Errorf("removeVertex: too many polygons %d (max: %d)", mesh.NPolys, maxTris)
			return false
		}
	}

	return true
}

// Region id given to polygons spanning several regions after a vertex removal.
const multipleRegs = 0

func triangulate(n int, verts, indices, tris []int) int {
	ntris := 0
	dst := 0

	// The last bit of the index is used to indicate if the vertex can be removed.
	for i := 0; i < n; i++ {
		i1 := next(i, n)
		i2 := next(i1, n)
		if diagonal(i, i2, n, verts, indices) {
			indices[i1] |= 0x80000000
		}
	}

	for n > 3 {
		minLen := -1
		mini := -1
		for i := 0; i < n; i++ {
			i1 := next(i, n)
			if indices[i1]&0x80000000 != 0 {
				p0 := getVert4(verts, indices[i]&0x0fffffff)
				p2 := getVert4(verts, indices[next(i1, n)]&0x0fffffff)

				dx := p2[0] - p0[0]
				dy := p2[2] - p0[2]
				length := dx*dx + dy*dy

				if minLen < 0 || length < minLen {
					minLen = length
					mini = i
				}
			}
		}

		if mini == -1 {
			// We might get here because the contour has overlapping segments, like this:
			//
			//  A o-o=====o---o B
			//   /  |C   D|    \.
			//  o   o     o     o
			//  :   :     :     :
			// We'll try to recover by loosing up the inCone test a bit so that a diagonal
			// like A-B or C-D can be found and we can continue.
			minLen = -1
			mini = -1
			for i := 0; i < n; i++ {
				i1 := next(i, n)
				i2 := next(i1, n)
				if diagonalLoose(i, i2, n, verts, indices) {
					p0 := getVert4(verts, indices[i]&0x0fffffff)
					p2 := getVert4(verts, indices[next(i2, n)]&0x0fffffff)
					dx := p2[0] - p0[0]
					dy := p2[2] - p0[2]
					length := dx*dx + dy*dy

					if minLen < 0 || length < minLen {
						minLen = length
						mini = i
					}
				}
			}
			if mini == -1 {
				// The contour is messed up. This sometimes happens
				// if the contour simplification is too aggressive.
				return -ntris
			}
		}

		i := mini
		i1 := next(i, n)
		i2 := next(i1, n)

		tris[dst] = indices[i] & 0x0fffffff
		dst++
		tris[dst] = indices[i1] & 0x0fffffff
		dst++
		tris[dst] = indices[i2] & 0x0fffffff
		dst++
		ntris++

		// Removes P[i1] by copying P[i+1]...P[n-1] left one index.
		n--
		for k := i1; k < n; k++ {
			indices[k] = indices[k+1]
		}

		if i1 >= n {
			i1 = 0
		}
		i = prev(i1, n)

		// Update diagonal flags.
		if diagonal(prev(i, n), i1, n, verts, indices) {
			indices[i] |= 0x80000000
		} else {
			indices[i] &= 0x0fffffff
		}
		if diagonal(i, next(i1, n), n, verts, indices) {
			indices[i1] |= 0x80000000
		} else {
			indices[i1] &= 0x0fffffff
		}
	}

	// Append the remaining triangle.
	tris[dst] = indices[0] & 0x0fffffff
	dst++
	tris[dst] = indices[1] & 0x0fffffff
	dst++
	tris[dst] = indices[2] & 0x0fffffff
	dst++
	ntris++

	return ntris
}

// / Builds a polygon mesh from the provided contours.
// /
// / @note If the mesh data is to be used to construct a navigation mesh,
// / then the upper limit must be restricted to <= #MESH_NULL_IDX vertices.
// /
// / @param[in]	cset	A fully built contour set.
// / @param[in]	nvp		The maximum number of vertices allowed for polygons generated during the contour to polygon conversion process. [Limit: >= 3]
// / @param[out]	mesh	The resulting polygon mesh.
func BuildPolyMesh(ctx *BuildContext, cset *ContourSet, nvp int, mesh *PolyMesh) bool {
	ctx.StartTimer(TimerBuildPolyMesh)
	defer ctx.StopTimer(TimerBuildPolyMesh)

	copy(mesh.Bmin[:], cset.Bmin[:])
	copy(mesh.Bmax[:], cset.Bmax[:])
	mesh.Cs = cset.Cs
	mesh.Ch = cset.Ch
	mesh.BorderSize = cset.BorderSize
	mesh.MaxEdgeError = cset.MaxError

	maxVertices := 0
	maxTris := 0
	maxVertsPerCont := 0
	for i := 0; i < cset.NConts; i++ {
		// Skip null contours.
		if cset.Conts[i].NVerts < 3 {
			continue
		}
		maxVertices += cset.Conts[i].NVerts
		maxTris += cset.Conts[i].NVerts - 2
		maxVertsPerCont = common.Max(maxVertsPerCont, cset.Conts[i].NVerts)
	}

	if maxVertices >= 0xfffe {
		ctx.Errorf("BuildPolyMesh: too many vertices %d", maxVertices)
		return false
	}

	if maxVertices == 0 {
		// Empty contour set, produce an empty mesh.
		mesh.Nvp = nvp
		return true
	}

	vflags := make([]int, maxVertices)

	mesh.Verts = make([]int, maxVertices*3)
	mesh.Polys = make([]int, maxTris*nvp*2)
	for i := range mesh.Polys {
		mesh.Polys[i] = MESH_NULL_IDX
	}
	mesh.Regs = make([]int, maxTris)
	mesh.Areas = make([]int, maxTris)

	mesh.NVerts = 0
	mesh.NPolys = 0
	mesh.Nvp = nvp
	mesh.MaxPolys = maxTris

	nextVert := make([]int, maxVertices)
	firstVert := make([]int, vertexBucketCount)
	for i := range firstVert {
		firstVert[i] = -1
	}

	indices := make([]int, maxVertsPerCont)
	tris := make([]int, maxVertsPerCont*3)
	polys := make([]int, (maxVertsPerCont+1)*nvp)
	tmpPoly := polys[maxVertsPerCont*nvp:]

	for i := 0; i < cset.NConts; i++ {
		cont := cset.Conts[i]

		// Skip null contours.
		if cont.NVerts < 3 {
			continue
		}

		// Triangulate contour.
		for j := 0; j < cont.NVerts; j++ {
			indices[j] = j
		}
		ntris := triangulate(cont.NVerts, cont.Verts, indices[:cont.NVerts], tris)
		if ntris <= 0 {
			// Bad triangulation, should not happen.
			ctx.Warningf("BuildPolyMesh: bad triangulation contour %d", i)
			ntris = -ntris
		}

		// Add and merge vertices.
		for j := 0; j < cont.NVerts; j++ {
			v := getVert4(cont.Verts, j)
			indices[j] = addVertex(v[0], v[1], v[2], mesh.Verts, firstVert, nextVert, &mesh.NVerts)
			if v[3]&BORDER_VERTEX != 0 {
				// This vertex should be removed.
				vflags[indices[j]] = 1
			}
		}

		// Build initial polygons.
		npolys := 0
		for j := range polys[:maxVertsPerCont*nvp] {
			polys[j] = MESH_NULL_IDX
		}
		for j := 0; j < ntris; j++ {
			t := tris[j*3 : j*3+3]
			if t[0] != t[1] && t[0] != t[2] && t[1] != t[2] {
				polys[npolys*nvp+0] = indices[t[0]]
				polys[npolys*nvp+1] = indices[t[1]]
				polys[npolys*nvp+2] = indices[t[2]]
				npolys++
			}
		}
		if npolys == 0 {
			continue
		}

		// Merge polygons.
		if nvp > 3 {
			for {
				// Find best polygons to merge.
				bestMergeVal := 0
				bestPa, bestPb, bestEa, bestEb := 0, 0, 0, 0

				for j := 0; j < npolys-1; j++ {
					pj := polys[j*nvp:]
					for k := j + 1; k < npolys; k++ {
						pk := polys[k*nvp:]
						v, ea, eb := getPolyMergeValue(pj, pk, mesh.Verts, nvp)
						if v > bestMergeVal {
							bestMergeVal = v
							bestPa = j
							bestPb = k
							bestEa = ea
							bestEb = eb
						}
					}
				}

				if bestMergeVal <= 0 {
					// Could not merge any polygons, stop.
					break
				}

				// Found best, merge.
				pa := polys[bestPa*nvp:]
				pb := polys[bestPb*nvp:]
				mergePolyVerts(pa, pb, bestEa, bestEb, tmpPoly, nvp)
				last := polys[(npolys-1)*nvp:]
				if bestPb != npolys-1 {
					copy(pb[:nvp], last[:nvp])
				}
				npolys--
			}
		}

		// Store polygons.
		for j := 0; j < npolys; j++ {
			p := mesh.Polys[mesh.NPolys*nvp*2:]
			for k := 0; k < nvp; k++ {
				p[k] = polys[j*nvp+k]
			}
			mesh.Regs[mesh.NPolys] = cont.Reg
			mesh.Areas[mesh.NPolys] = cont.Area
			mesh.NPolys++
			if mesh.NPolys > maxTris {
				ctx.Errorf("BuildPolyMesh: too many polygons %d (max: %d)", mesh.NPolys, maxTris)
				return false
			}
		}
	}

	// Remove edge vertices.
	for i := 0; i < mesh.NVerts; i++ {
		if vflags[i] != 0 {
			if !canRemoveVertex(mesh, i) {
				continue
			}
			if !removeVertex(ctx, mesh, i, maxTris) {
				// Failed to remove vertex.
				ctx.Errorf("BuildPolyMesh: failed to remove edge vertex %d", i)
				return false
			}
			// Remove vertex.
			// Note: mesh.NVerts is already decremented inside removeVertex()!
			// Fixup vertex flags.
			for j := i; j < mesh.NVerts; j++ {
				vflags[j] = vflags[j+1]
			}
			i--
		}
	}

	// Calculate adjacency.
	if !buildMeshAdjacency(mesh.Polys, mesh.NPolys, mesh.NVerts, nvp) {
		ctx.Errorf("BuildPolyMesh: adjacency failed")
		return false
	}

	// Find portal edges.
	if mesh.BorderSize > 0 {
		w := cset.Width
		h := cset.Height
		for i := 0; i < mesh.NPolys; i++ {
			p := mesh.Polys[i*2*nvp:]
			for j := 0; j < nvp; j++ {
				if p[j] == MESH_NULL_IDX {
					break
				}
				// Skip connected edges.
				if p[nvp+j] != MESH_NULL_IDX {
					continue
				}
				nj := j + 1
				if nj >= nvp || p[nj] == MESH_NULL_IDX {
					nj = 0
				}
				va := common.GetVert3(mesh.Verts, p[j])
				vb := common.GetVert3(mesh.Verts, p[nj])

				if va[0] == 0 && vb[0] == 0 {
					p[nvp+j] = 0x8000 | 0
				} else if va[2] == h && vb[2] == h {
					p[nvp+j] = 0x8000 | 1
				} else if va[0] == w && vb[0] == w {
					p[nvp+j] = 0x8000 | 2
				} else if va[2] == 0 && vb[2] == 0 {
					p[nvp+j] = 0x8000 | 3
				}
			}
		}
	}

	// Just allocate the mesh flags array. The user is resposible to fill it.
	mesh.Flags = make([]int, mesh.NPolys)

	if mesh.NVerts > MESH_NULL_IDX {
		ctx.Errorf("BuildPolyMesh: the resulting mesh has too many vertices %d (max %d)", mesh.NVerts, MESH_NULL_IDX)
		return false
	}
	if mesh.NPolys > MESH_NULL_IDX {
		ctx.Errorf("BuildPolyMesh: the resulting mesh has too many polygons %d (max %d)", mesh.NPolys, MESH_NULL_IDX)
		return false
	}

	return true
}

// / Merges multiple polygon meshes into a single mesh.
// /
// / The source meshes must share cell sizes; vertices within merge distance
// / are welded through the same hash used during polygonization.
func MergePolyMeshes(ctx *BuildContext, meshes []*PolyMesh, mesh *PolyMesh) bool {
	if len(meshes) == 0 {
		return true
	}

	ctx.StartTimer(TimerMergePolyMesh)
	defer ctx.StopTimer(TimerMergePolyMesh)

	mesh.Nvp = meshes[0].Nvp
	mesh.Cs = meshes[0].Cs
	mesh.Ch = meshes[0].Ch
	copy(mesh.Bmin[:], meshes[0].Bmin[:])
	copy(mesh.Bmax[:], meshes[0].Bmax[:])

	maxVerts := 0
	maxPolys := 0
	maxVertsPerMesh := 0
	for _, m := range meshes {
		common.Vmin(mesh.Bmin[:], m.Bmin[:])
		common.Vmax(mesh.Bmax[:], m.Bmax[:])
		maxVertsPerMesh = common.Max(maxVertsPerMesh, m.NVerts)
		maxVerts += m.NVerts
		maxPolys += m.NPolys
	}

	mesh.NVerts = 0
	mesh.Verts = make([]int, maxVerts*3)
	mesh.NPolys = 0
	mesh.MaxPolys = maxPolys
	mesh.Polys = make([]int, maxPolys*2*mesh.Nvp)
	for i := range mesh.Polys {
		mesh.Polys[i] = MESH_NULL_IDX
	}
	mesh.Regs = make([]int, maxPolys)
	mesh.Areas = make([]int, maxPolys)
	mesh.Flags = make([]int, maxPolys)

	nextVert := make([]int, maxVerts)
	firstVert := make([]int, vertexBucketCount)
	for i := range firstVert {
		firstVert[i] = -1
	}
	vremap := make([]int, maxVertsPerMesh)

	for _, pmesh := range meshes {
		ox := int((pmesh.Bmin[0]-mesh.Bmin[0])/mesh.Cs + 0.5)
		oz := int((pmesh.Bmin[2]-mesh.Bmin[2])/mesh.Cs + 0.5)

		for j := 0; j < pmesh.NVerts; j++ {
			v := common.GetVert3(pmesh.Verts, j)
			vremap[j] = addVertex(v[0]+ox, v[1], v[2]+oz, mesh.Verts, firstVert, nextVert, &mesh.NVerts)
		}

		for j := 0; j < pmesh.NPolys; j++ {
			tgt := mesh.Polys[mesh.NPolys*2*mesh.Nvp:]
			src := pmesh.Polys[j*2*mesh.Nvp:]
			mesh.Regs[mesh.NPolys] = pmesh.Regs[j]
			mesh.Areas[mesh.NPolys] = pmesh.Areas[j]
			mesh.Flags[mesh.NPolys] = pmesh.Flags[j]
			mesh.NPolys++
			for k := 0; k < mesh.Nvp; k++ {
				if src[k] == MESH_NULL_IDX {
					break
				}
				tgt[k] = vremap[src[k]]
			}
		}
	}

	// Calculate adjacency.
	if !buildMeshAdjacency(mesh.Polys, mesh.NPolys, mesh.NVerts, mesh.Nvp) {
		ctx.Errorf("MergePolyMeshes: adjacency failed")
		return false
	}

	if mesh.NVerts > MESH_NULL_IDX {
		ctx.Errorf("MergePolyMeshes: the resulting mesh has too many vertices %d (max %d)", mesh.NVerts, MESH_NULL_IDX)
		return false
	}
	if mesh.NPolys > MESH_NULL_IDX {
		ctx.Errorf("MergePolyMeshes: the resulting mesh has too many polygons %d (max %d)", mesh.NPolys, MESH_NULL_IDX)
		return false
	}

	return true
}
