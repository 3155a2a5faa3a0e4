package navgen

import (
	"sort"

	"voxnav/common"
)

// / Represents a simple, non-overlapping contour in field space.
type Contour struct {
	Verts   []int ///< Simplified contour vertex and connection data. [Size: 4 * #NVerts]
	NVerts  int   ///< The number of vertices in the simplified contour.
	RVerts  []int ///< Raw contour vertex and connection data. [Size: 4 * #NRVerts]
	NRVerts int   ///< The number of vertices in the raw contour.
	Reg     int   ///< The region id of the contour.
	Area    int   ///< The area id of the contour.
}

// / Represents a group of related contours.
type ContourSet struct {
	Conts      []*Contour ///< An array of the contours in the set.
	NConts     int        ///< The number of contours in the set.
	Bmin       [3]float32 ///< The minimum bounds in world space. [(x, y, z)]
	Bmax       [3]float32 ///< The maximum bounds in world space. [(x, y, z)]
	Cs         float32    ///< The size of each cell. (On the xz-plane.)
	Ch         float32    ///< The height of each cell. (The minimum increment along the y-axis.)
	Width      int        ///< The width of the set. (Along the x-axis in cell units.)
	Height     int        ///< The height of the set. (Along the z-axis in cell units.)
	BorderSize int        ///< The AABB border size used to generate the source data from which the contours were derived.
	MaxError   float32    ///< The max edge error that this contour set was simplified with.
}

func contourInCone(i, n int, verts, pj []int) bool {
	pi := getVert4(verts, i)
	pi1 := getVert4(verts, next(i, n))
	pin1 := getVert4(verts, prev(i, n))

	// If P[i] is a convex vertex [ i+1 left or on (i-1,i) ].
	if leftOn(pin1, pi, pi1) {
		return left(pi, pj, pin1) && left(pj, pi, pi1)
	}
	// Assume (i-1,i,i+1) not collinear.
	// else P[i] is reflex.
	return !(leftOn(pi, pj, pi1) && leftOn(pj, pi, pin1))
}

func intersectSegContour(d0, d1 []int, i, n int, verts []int) bool {
	// For each edge (k,k+1) of P.
	for k := 0; k < n; k++ {
		k1 := next(k, n)
		// Skip edges incident to i.
		if i == k || i == k1 {
			continue
		}
		p0 := getVert4(verts, k)
		p1 := getVert4(verts, k1)
		if vequal(d0, p0) || vequal(d1, p0) || vequal(d0, p1) || vequal(d1, p1) {
			continue
		}
		if intersect(d0, d1, p0, p1) {
			return true
		}
	}
	return false
}

func getCornerHeight(x, y, i, dir int, chf *CompactHeightfield, isBorderVertex *bool) int {
	s := &chf.Spans[i]
	ch := s.Y
	dirp := (dir + 1) & 0x3

	var regs [4]int

	// Combine region and area codes in order to prevent
	// border vertices which are in between two areas to be removed.
	regs[0] = chf.Spans[i].Reg | (chf.Areas[i] << 16)

	if GetCon(s, dir) != NOT_CONNECTED {
		ax := x + common.GetDirOffsetX(dir)
		ay := y + common.GetDirOffsetZ(dir)
		ai := chf.Cells[ax+ay*chf.Width].Index + GetCon(s, dir)
		as := &chf.Spans[ai]
		ch = common.Max(ch, as.Y)
		regs[1] = chf.Spans[ai].Reg | (chf.Areas[ai] << 16)
		if GetCon(as, dirp) != NOT_CONNECTED {
			ax2 := ax + common.GetDirOffsetX(dirp)
			ay2 := ay + common.GetDirOffsetZ(dirp)
			ai2 := chf.Cells[ax2+ay2*chf.Width].Index + GetCon(as, dirp)
			as2 := &chf.Spans[ai2]
			ch = common.Max(ch, as2.Y)
			regs[2] = chf.Spans[ai2].Reg | (chf.Areas[ai2] << 16)
		}
	}
	if GetCon(s, dirp) != NOT_CONNECTED {
		ax := x + common.GetDirOffsetX(dirp)
		ay := y + common.GetDirOffsetZ(dirp)
		ai := chf.Cells[ax+ay*chf.Width].Index + GetCon(s, dirp)
		as := &chf.Spans[ai]
		ch = common.Max(ch, as.Y)
		regs[3] = chf.Spans[ai].Reg | (chf.Areas[ai] << 16)
		if GetCon(as, dir) != NOT_CONNECTED {
			ax2 := ax + common.GetDirOffsetX(dir)
			ay2 := ay + common.GetDirOffsetZ(dir)
			ai2 := chf.Cells[ax2+ay2*chf.Width].Index + GetCon(as, dir)
			as2 := &chf.Spans[ai2]
			ch = common.Max(ch, as2.Y)
			regs[2] = chf.Spans[ai2].Reg | (chf.Areas[ai2] << 16)
		}
	}

	// Check if the vertex is special edge vertex, these vertices will be removed later.
	for j := 0; j < 4; j++ {
		a := j
		b := (j + 1) & 0x3
		c := (j + 2) & 0x3
		d := (j + 3) & 0x3

		// The vertex is a border vertex there are two same exterior cells in a row,
		// followed by two interior cells and none of the regions are out of bounds.
		twoSameExts := (regs[a]&regs[b]&BORDER_REG) != 0 && regs[a] == regs[b]
		twoInts := ((regs[c] | regs[d]) & BORDER_REG) == 0
		intsSameArea := (regs[c] >> 16) == (regs[d] >> 16)
		noZeros := regs[a] != 0 && regs[b] != 0 && regs[c] != 0 && regs[d] != 0
		if twoSameExts && twoInts && intsSameArea && noZeros {
			*isBorderVertex = true
			break
		}
	}

	return ch
}

func walkContour(x, y, i int, chf *CompactHeightfield, flags []int, points *[]int) {
	// Choose the first non-connected edge.
	dir := 0
	for (flags[i] & (1 << dir)) == 0 {
		dir++
	}

	startDir := dir
	starti := i

	area := chf.Areas[i]

	for iter := 0; iter < 40000; iter++ {
		if flags[i]&(1<<dir) != 0 {
			// Choose the edge corner.
			isBorderVertex := false
			isAreaBorder := false
			px := x
			py := getCornerHeight(x, y, i, dir, chf, &isBorderVertex)
			pz := y
			switch dir {
			case 0:
				pz++
			case 1:
				px++
				pz++
			case 2:
				px++
			}
			r := 0
			s := &chf.Spans[i]
			if GetCon(s, dir) != NOT_CONNECTED {
				ax := x + common.GetDirOffsetX(dir)
				ay := y + common.GetDirOffsetZ(dir)
				ai := chf.Cells[ax+ay*chf.Width].Index + GetCon(s, dir)
				r = chf.Spans[ai].Reg
				if area != chf.Areas[ai] {
					isAreaBorder = true
				}
			}
			if isBorderVertex {
				r |= BORDER_VERTEX
			}
			if isAreaBorder {
				r |= AREA_BORDER
			}

			*points = append(*points, px, py, pz, r)

			flags[i] &^= 1 << dir // Remove visited edges
			dir = (dir + 1) & 0x3 // Rotate CW
		} else {
			ni := -1
			nx := x + common.GetDirOffsetX(dir)
			ny := y + common.GetDirOffsetZ(dir)
			s := &chf.Spans[i]
			if GetCon(s, dir) != NOT_CONNECTED {
				ni = chf.Cells[nx+ny*chf.Width].Index + GetCon(s, dir)
			}
			if ni == -1 {
				// Should not happen.
				return
			}
			x = nx
			y = ny
			i = ni
			dir = (dir + 3) & 0x3 // Rotate CCW
		}

		if starti == i && startDir == dir {
			break
		}
	}
}

func distancePtSeg(x, z, px, pz, qx, qz int) float64 {
	pqx := float64(qx - px)
	pqz := float64(qz - pz)
	dx := float64(x - px)
	dz := float64(z - pz)
	d := pqx*pqx + pqz*pqz
	t := pqx*dx + pqz*dz
	if d > 0 {
		t /= d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	dx = float64(px) + t*pqx - float64(x)
	dz = float64(pz) + t*pqz - float64(z)

	return dx*dx + dz*dz
}

func simplifyContour(points []int, simplified *[]int, maxError float32, maxEdgeLen, buildFlags int) {
	// Add initial points.
	hasConnections := false
	for i := 0; i < len(points); i += 4 {
		if (points[i+3] & CONTOUR_REG_MASK) != 0 {
			hasConnections = true
			break
		}
	}

	if hasConnections {
		// The contour has some portals to other regions.
		// Add a new point to every location where the region changes.
		for i, ni := 0, len(points)/4; i < ni; i++ {
			ii := (i + 1) % ni
			differentRegs := (points[i*4+3] & CONTOUR_REG_MASK) != (points[ii*4+3] & CONTOUR_REG_MASK)
			areaBorders := (points[i*4+3] & AREA_BORDER) != (points[ii*4+3] & AREA_BORDER)
			if differentRegs || areaBorders {
				*simplified = append(*simplified, points[i*4+0], points[i*4+1], points[i*4+2], i)
			}
		}
	}

	if len(*simplified) == 0 {
		// If there is no connections at all,
		// create some initial points for the simplification process.
		// Find lower-left and upper-right vertices of the contour.
		llx := points[0]
		lly := points[1]
		llz := points[2]
		lli := 0
		urx := points[0]
		ury := points[1]
		urz := points[2]
		uri := 0
		for i := 0; i < len(points); i += 4 {
			x := points[i+0]
			y := points[i+1]
			z := points[i+2]
			if x < llx || (x == llx && z < llz) {
				llx = x
				lly = y
				llz = z
				lli = i / 4
			}
			if x > urx || (x == urx && z > urz) {
				urx = x
				ury = y
				urz = z
				uri = i / 4
			}
		}
		*simplified = append(*simplified, llx, lly, llz, lli)
		*simplified = append(*simplified, urx, ury, urz, uri)
	}

	// Add points until all raw points are within
	// error tolerance to the simplified shape.
	pn := len(points) / 4
	for i := 0; i < len(*simplified)/4; {
		ii := (i + 1) % (len(*simplified) / 4)

		ax := (*simplified)[i*4+0]
		az := (*simplified)[i*4+2]
		ai := (*simplified)[i*4+3]

		bx := (*simplified)[ii*4+0]
		bz := (*simplified)[ii*4+2]
		bi := (*simplified)[ii*4+3]

		// Find maximum deviation from the segment.
		maxd := float64(0)
		maxi := -1
		var ci, cinc, endi int

		// Traverse the segment in lexilogical order so that the
		// max deviation is calculated similarly when traversing
		// opposite segments.
		if bx > ax || (bx == ax && bz > az) {
			cinc = 1
			ci = (ai + cinc) % pn
			endi = bi
		} else {
			cinc = pn - 1
			ci = (bi + cinc) % pn
			endi = ai
			ax, bx = bx, ax
			az, bz = bz, az
		}

		// Tessellate only outer edges or edges between areas.
		if (points[ci*4+3]&CONTOUR_REG_MASK) == 0 || (points[ci*4+3]&AREA_BORDER) != 0 {
			for ci != endi {
				d := distancePtSeg(points[ci*4+0], points[ci*4+2], ax, az, bx, bz)
				if d > maxd {
					maxd = d
					maxi = ci
				}
				ci = (ci + cinc) % pn
			}
		}

		// If the max deviation is larger than accepted error,
		// add new point, else continue to next segment.
		if maxi != -1 && maxd > float64(maxError)*float64(maxError) {
			// Add the point.
			*simplified = append(*simplified, 0, 0, 0, 0)
			s := *simplified
			copy(s[(i+2)*4:], s[(i+1)*4:len(s)-4])
			s[(i+1)*4+0] = points[maxi*4+0]
			s[(i+1)*4+1] = points[maxi*4+1]
			s[(i+1)*4+2] = points[maxi*4+2]
			s[(i+1)*4+3] = maxi
		} else {
			i++
		}
	}

	// Split too long edges.
	if maxEdgeLen > 0 && (buildFlags&(CONTOUR_TESS_WALL_EDGES|CONTOUR_TESS_AREA_EDGES)) != 0 {
		for i := 0; i < len(*simplified)/4; {
			ii := (i + 1) % (len(*simplified) / 4)

			ax := (*simplified)[i*4+0]
			az := (*simplified)[i*4+2]
			ai := (*simplified)[i*4+3]

			bx := (*simplified)[ii*4+0]
			bz := (*simplified)[ii*4+2]
			bi := (*simplified)[ii*4+3]

			// Find maximum deviation from the segment.
			maxi := -1
			ci := (ai + 1) % pn

			// Tessellate only outer edges or edges between areas.
			tess := false
			// Wall edges.
			if (buildFlags&CONTOUR_TESS_WALL_EDGES) != 0 && (points[ci*4+3]&CONTOUR_REG_MASK) == 0 {
				tess = true
			}
			// Edges between areas.
			if (buildFlags&CONTOUR_TESS_AREA_EDGES) != 0 && (points[ci*4+3]&AREA_BORDER) != 0 {
				tess = true
			}

			if tess {
				dx := bx - ax
				dz := bz - az
				if dx*dx+dz*dz > maxEdgeLen*maxEdgeLen {
					// Round based on the segments in lexilogical order so that the
					// max tesselation is consistent regardless in which direction
					// segments are traversed.
					n := bi - ai
					if bi < ai {
						n = bi + pn - ai
					}
					if n > 1 {
						if bx > ax || (bx == ax && bz > az) {
							maxi = (ai + n/2) % pn
						} else {
							maxi = (ai + (n+1)/2) % pn
						}
					}
				}
			}

			// If the max deviation is larger than accepted error,
			// add new point, else continue to next segment.
			if maxi != -1 {
				// Add the point.
				*simplified = append(*simplified, 0, 0, 0, 0)
				s := *simplified
				copy(s[(i+2)*4:], s[(i+1)*4:len(s)-4])
				s[(i+1)*4+0] = points[maxi*4+0]
				s[(i+1)*4+1] = points[maxi*4+1]
				s[(i+1)*4+2] = points[maxi*4+2]
				s[(i+1)*4+3] = maxi
			} else {
				i++
			}
		}
	}

	for i := 0; i < len(*simplified)/4; i++ {
		// The edge vertex flag is taken from the current raw point,
		// and the neighbor region is taken from the next raw point.
		ai := ((*simplified)[i*4+3] + 1) % pn
		bi := (*simplified)[i*4+3]
		(*simplified)[i*4+3] = (points[ai*4+3] & (CONTOUR_REG_MASK | AREA_BORDER)) | (points[bi*4+3] & BORDER_VERTEX)
	}
}

func calcAreaOfPolygon2D(verts []int, nverts int) int {
	area := 0
	for i, j := 0, nverts-1; i < nverts; j, i = i, i+1 {
		vi := getVert4(verts, i)
		vj := getVert4(verts, j)
		area += vi[0]*vj[2] - vj[0]*vi[2]
	}
	return (area + 1) / 2
}

func removeDegenerateSegments(simplified *[]int) {
	// Remove adjacent vertices which are equal on xz-plane,
	// or else the triangulator will get confused.
	npts := len(*simplified) / 4
	for i := 0; i < npts; i++ {
		ni := next(i, npts)
		if vequal(getVert4(*simplified, i), getVert4(*simplified, ni)) {
			// Degenerate segment, remove.
			*simplified = append((*simplified)[:i*4], (*simplified)[(i+1)*4:]...)
			npts--
		}
	}
}

func mergeContours(ca, cb *Contour, ia, ib int) bool {
	maxVerts := ca.NVerts + cb.NVerts + 2
	verts := make([]int, 0, maxVerts*4)

	// Copy contour A.
	for i := 0; i <= ca.NVerts; i++ {
		src := getVert4(ca.Verts, (ia+i)%ca.NVerts)
		verts = append(verts, src[0], src[1], src[2], src[3])
	}

	// Copy contour B.
	for i := 0; i <= cb.NVerts; i++ {
		src := getVert4(cb.Verts, (ib+i)%cb.NVerts)
		verts = append(verts, src[0], src[1], src[2], src[3])
	}

	ca.Verts = verts
	ca.NVerts = len(verts) / 4

	cb.Verts = nil
	cb.NVerts = 0

	return true
}

type contourHole struct {
	contour              *Contour
	minx, minz, leftmost int
}

type contourRegion struct {
	outline *Contour
	holes   []*contourHole
	nholes  int
}

type potentialDiagonal struct {
	vert int
	dist int
}

// Finds the lowest leftmost vertex of a contour.
func findLeftMostVertex(contour *Contour, minx, minz, leftmost *int) {
	*minx = contour.Verts[0]
	*minz = contour.Verts[2]
	*leftmost = 0
	for i := 1; i < contour.NVerts; i++ {
		x := contour.Verts[i*4+0]
		z := contour.Verts[i*4+2]
		if x < *minx || (x == *minx && z < *minz) {
			*minx = x
			*minz = z
			*leftmost = i
		}
	}
}

func mergeRegionHoles(ctx *BuildContext, region *contourRegion) {
	// Sort holes from left to right.
	for i := 0; i < region.nholes; i++ {
		findLeftMostVertex(region.holes[i].contour, &region.holes[i].minx, &region.holes[i].minz, &region.holes[i].leftmost)
	}
	holes := region.holes[:region.nholes]
	sort.SliceStable(holes, func(i, j int) bool {
		if holes[i].minx == holes[j].minx {
			return holes[i].minz < holes[j].minz
		}
		return holes[i].minx < holes[j].minx
	})

	maxVerts := region.outline.NVerts
	for i := 0; i < region.nholes; i++ {
		maxVerts += region.holes[i].contour.NVerts
	}

	diags := make([]potentialDiagonal, 0, maxVerts)

	outline := region.outline

	// Merge holes into the outline one by one.
	for i := 0; i < region.nholes; i++ {
		hole := region.holes[i].contour

		index := -1
		bestVertex := region.holes[i].leftmost
		for iter := 0; iter < hole.NVerts; iter++ {
			// Find potential diagonals.
			// The 'best' vertex must be in the cone described by 3 consecutive vertices of the outline.
			// ..o j-1
			//   |
			//   |   * best
			//   |
			// j o-----o j+1
			//         :
			diags = diags[:0]
			corner := getVert4(hole.Verts, bestVertex)
			for j := 0; j < outline.NVerts; j++ {
				if contourInCone(j, outline.NVerts, outline.Verts, corner) {
					dx := outline.Verts[j*4+0] - corner[0]
					dz := outline.Verts[j*4+2] - corner[2]
					diags = append(diags, potentialDiagonal{vert: j, dist: dx*dx + dz*dz})
				}
			}
			// Sort potential diagonals by distance, we want to make the connection as short as possible.
			sort.SliceStable(diags, func(a, b int) bool {
				return diags[a].dist < diags[b].dist
			})

			// Find a diagonal that is not intersecting the outline nor the remaining holes.
			index = -1
			for j := range diags {
				pt := getVert4(outline.Verts, diags[j].vert)
				intersects := intersectSegContour(pt, corner, diags[j].vert, outline.NVerts, outline.Verts)
				for k := i; k < region.nholes && !intersects; k++ {
					intersects = intersects || intersectSegContour(pt, corner, -1, region.holes[k].contour.NVerts, region.holes[k].contour.Verts)
				}
				if !intersects {
					index = diags[j].vert
					break
				}
			}
			// If found non-intersecting diagonal, stop looking.
			if index != -1 {
				break
			}
			// All the potential diagonals for the current vertex were
			// intersecting, try next vertex.
			bestVertex = (bestVertex + 1) % hole.NVerts
		}

		if index == -1 {
			ctx.Warningf("mergeRegionHoles: failed to find merge points for %p and %p", region.outline, hole)
			continue
		}
		if !mergeContours(region.outline, hole, index, bestVertex) {
			ctx.Warningf("mergeRegionHoles: failed to merge contours %p and %p", region.outline, hole)
			continue
		}
	}
}

// / Builds a contour set from the region outlines in the provided compact
// / heightfield.
// /
// / The raw contours will match the region outlines exactly. The
// / @p maxError and @p maxEdgeLen parameters control how closely the
// / simplified contours will match the raw contours.
// /
// / Simplified contours are generated such that the vertices for portals
// / between areas match up. (They are considered mandatory vertices.)
// /
// / Setting @p maxEdgeLen to zero will disable the edge length feature.
func BuildContours(ctx *BuildContext, chf *CompactHeightfield,
	maxError float32, maxEdgeLen int, cset *ContourSet, buildFlags int) bool {

	ctx.StartTimer(TimerBuildContours)
	defer ctx.StopTimer(TimerBuildContours)

	w := chf.Width
	h := chf.Height
	borderSize := chf.BorderSize

	copy(cset.Bmin[:], chf.Bmin[:])
	copy(cset.Bmax[:], chf.Bmax[:])
	if borderSize > 0 {
		// If the heightfield was built with bordersize, remove the offset.
		pad := float32(borderSize) * chf.Cs
		cset.Bmin[0] += pad
		cset.Bmin[2] += pad
		cset.Bmax[0] -= pad
		cset.Bmax[2] -= pad
	}
	cset.Cs = chf.Cs
	cset.Ch = chf.Ch
	cset.Width = chf.Width - chf.BorderSize*2
	cset.Height = chf.Height - chf.BorderSize*2
	cset.BorderSize = chf.BorderSize
	cset.MaxError = maxError

	cset.Conts = nil
	cset.NConts = 0

	flags := make([]int, chf.SpanCount)

	// Mark boundaries.
	ctx.StartTimer(TimerBuildContoursTrace)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				res := 0
				s := &chf.Spans[i]
				if s.Reg == 0 || (s.Reg&BORDER_REG) != 0 {
					flags[i] = 0
					continue
				}
				for dir := 0; dir < 4; dir++ {
					r := 0
					if GetCon(s, dir) != NOT_CONNECTED {
						ax := x + common.GetDirOffsetX(dir)
						ay := y + common.GetDirOffsetZ(dir)
						ai := chf.Cells[ax+ay*w].Index + GetCon(s, dir)
						r = chf.Spans[ai].Reg
					}
					if r == s.Reg {
						res |= 1 << dir
					}
				}
				flags[i] = res ^ 0xf // Inverse, mark non connected edges.
			}
		}
	}
	ctx.StopTimer(TimerBuildContoursTrace)

	verts := make([]int, 0, 256)
	simplified := make([]int, 0, 64)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				if flags[i] == 0 || flags[i] == 0xf {
					flags[i] = 0
					continue
				}
				reg := chf.Spans[i].Reg
				if reg == 0 || (reg&BORDER_REG) != 0 {
					continue
				}
				area := chf.Areas[i]

				verts = verts[:0]
				simplified = simplified[:0]

				ctx.StartTimer(TimerBuildContoursTrace)
				walkContour(x, y, i, chf, flags, &verts)
				ctx.StopTimer(TimerBuildContoursTrace)

				ctx.StartTimer(TimerBuildContoursSimplify)
				simplifyContour(verts, &simplified, maxError, maxEdgeLen, buildFlags)
				removeDegenerateSegments(&simplified)
				ctx.StopTimer(TimerBuildContoursSimplify)

				// Create contour.
				if len(simplified)/4 >= 3 {
					cont := &Contour{
						NVerts: len(simplified) / 4,
						Verts:  make([]int, len(simplified)),
						Reg:    reg,
						Area:   area,
					}
					copy(cont.Verts, simplified)
					if borderSize > 0 {
						// If the heightfield was built with bordersize, remove the offset.
						for j := 0; j < cont.NVerts; j++ {
							cont.Verts[j*4+0] -= borderSize
							cont.Verts[j*4+2] -= borderSize
						}
					}

					cont.NRVerts = len(verts) / 4
					cont.RVerts = make([]int, len(verts))
					copy(cont.RVerts, verts)
					if borderSize > 0 {
						for j := 0; j < cont.NRVerts; j++ {
							cont.RVerts[j*4+0] -= borderSize
							cont.RVerts[j*4+2] -= borderSize
						}
					}

					cset.Conts = append(cset.Conts, cont)
					cset.NConts++
				}
			}
		}
	}

	// Merge holes if needed.
	if cset.NConts > 0 {
		// Calculate winding of all polygons.
		winding := make([]int, cset.NConts)
		nholes := 0
		for i := 0; i < cset.NConts; i++ {
			cont := cset.Conts[i]
			// If the contour is wound backwards, it is a hole.
			winding[i] = 1
			if calcAreaOfPolygon2D(cont.Verts, cont.NVerts) < 0 {
				winding[i] = -1
				nholes++
			}
		}

		if nholes > 0 {
			// Collect outline contour and holes contours per region.
			// We assume that there is one outline and multiple holes.
			nregions := chf.MaxRegions + 1
			regions := make([]contourRegion, nregions)
			holes := make([]*contourHole, cset.NConts)
			for i := range holes {
				holes[i] = &contourHole{}
			}

			for i := 0; i < cset.NConts; i++ {
				cont := cset.Conts[i]
				// Positively wound contours are outlines, negative holes.
				if winding[i] > 0 {
					if regions[cont.Reg].outline != nil {
						ctx.Errorf("BuildContours: multiple outlines for region %d", cont.Reg)
					}
					regions[cont.Reg].outline = cont
				} else {
					regions[cont.Reg].nholes++
				}
			}
			index := 0
			for i := 0; i < nregions; i++ {
				if regions[i].nholes > 0 {
					regions[i].holes = holes[index:]
					index += regions[i].nholes
					regions[i].nholes = 0
				}
			}
			for i := 0; i < cset.NConts; i++ {
				cont := cset.Conts[i]
				reg := &regions[cont.Reg]
				if winding[i] < 0 {
					reg.holes[reg.nholes].contour = cont
					reg.nholes++
				}
			}

			// Finally merge each region's holes into the outline.
			for i := 0; i < nregions; i++ {
				reg := &regions[i]
				if reg.nholes == 0 {
					continue
				}
				if reg.outline != nil {
					mergeRegionHoles(ctx, reg)
				} else {
					// The region does not have an outline.
					// This can happen if the contour becomes self-overlapping
					// because of too aggressive simplification settings.
					ctx.Errorf("BuildContours: bad outline for region %d, contour simplification is likely too aggressive", i)
				}
			}
		}
	}

	return true
}
