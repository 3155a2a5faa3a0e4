package navgen

import (
	"math"
	"sort"

	"voxnav/common"
)

const areaEpsilon = 1e-6

// / Checks if a point is contained within a polygon on the xz-plane, using
// / the standard ray-edge crossing test.
// /
// / @param[in]	numVerts	Number of vertices in the polygon
// / @param[in]	verts		The polygon vertices
// / @param[in]	point		The point to check
// / @returns true if the point lies within the polygon, false otherwise.
func pointInPoly(numVerts int, verts []float32, point []float32) bool {
	inPoly := false
	for i, j := 0, numVerts-1; i < numVerts; j, i = i, i+1 {
		vi := common.GetVert3(verts, i)
		vj := common.GetVert3(verts, j)
		if (vi[2] > point[2]) == (vj[2] > point[2]) {
			continue
		}
		if point[0] >= (vj[0]-vi[0])*(point[2]-vi[2])/(vj[2]-vi[2])+vi[0] {
			continue
		}
		inPoly = !inPoly
	}
	return inPoly
}

// / Erodes the walkable area within the heightfield by the specified radius.
// /
// / Basically, any spans that are closer to a boundary or obstruction than
// / the specified radius are marked as un-walkable.
// /
// / This method is usually called immediately after the heightfield has been
// / built.
// /
// / @param[in]		erosionRadius	The radius of erosion. [Limits: 0 < value < 255] [Units: vx]
// / @param[in,out]	chf				The populated compact heightfield to erode.
func ErodeWalkableArea(ctx *BuildContext, erosionRadius int, chf *CompactHeightfield) bool {
	ctx.StartTimer(TimerErodeArea)
	defer ctx.StopTimer(TimerErodeArea)

	xSize := chf.Width
	zSize := chf.Height
	zStride := xSize // For readability

	distanceToBoundary := make([]int, chf.SpanCount)
	for i := range distanceToBoundary {
		distanceToBoundary[i] = 0xff
	}

	// Mark boundary cells.
	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			cell := &chf.Cells[x+z*zStride]
			for spanIndex, maxSpanIndex := cell.Index, cell.Index+cell.Count; spanIndex < maxSpanIndex; spanIndex++ {
				if chf.Areas[spanIndex] == NULL_AREA {
					distanceToBoundary[spanIndex] = 0
					continue
				}
				span := &chf.Spans[spanIndex]

				// Check that there is a non-null adjacent span in each of the 4 cardinal directions.
				neighborCount := 0
				for direction := 0; direction < 4; direction++ {
					neighborConnection := GetCon(span, direction)
					if neighborConnection == NOT_CONNECTED {
						break
					}
					neighborX := x + common.GetDirOffsetX(direction)
					neighborZ := z + common.GetDirOffsetZ(direction)
					neighborSpanIndex := chf.Cells[neighborX+neighborZ*zStride].Index + neighborConnection
					if chf.Areas[neighborSpanIndex] == NULL_AREA {
						break
					}
					neighborCount++
				}

				// At least one missing neighbor, so this is a boundary cell.
				if neighborCount != 4 {
					distanceToBoundary[spanIndex] = 0
				}
			}
		}
	}

	// Pass 1
	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			cell := &chf.Cells[x+z*zStride]
			for spanIndex, maxSpanIndex := cell.Index, cell.Index+cell.Count; spanIndex < maxSpanIndex; spanIndex++ {
				span := &chf.Spans[spanIndex]

				if GetCon(span, 0) != NOT_CONNECTED {
					// (-1,0)
					aX := x + common.GetDirOffsetX(0)
					aZ := z + common.GetDirOffsetZ(0)
					aIndex := chf.Cells[aX+aZ*zStride].Index + GetCon(span, 0)
					aSpan := &chf.Spans[aIndex]
					newDistance := common.Min(distanceToBoundary[aIndex]+2, 255)
					if newDistance < distanceToBoundary[spanIndex] {
						distanceToBoundary[spanIndex] = newDistance
					}

					// (-1,-1)
					if GetCon(aSpan, 3) != NOT_CONNECTED {
						bX := aX + common.GetDirOffsetX(3)
						bZ := aZ + common.GetDirOffsetZ(3)
						bIndex := chf.Cells[bX+bZ*zStride].Index + GetCon(aSpan, 3)
						newDistance = common.Min(distanceToBoundary[bIndex]+3, 255)
						if newDistance < distanceToBoundary[spanIndex] {
							distanceToBoundary[spanIndex] = newDistance
						}
					}
				}
				if GetCon(span, 3) != NOT_CONNECTED {
					// (0,-1)
					aX := x + common.GetDirOffsetX(3)
					aZ := z + common.GetDirOffsetZ(3)
					aIndex := chf.Cells[aX+aZ*zStride].Index + GetCon(span, 3)
					aSpan := &chf.Spans[aIndex]
					newDistance := common.Min(distanceToBoundary[aIndex]+2, 255)
					if newDistance < distanceToBoundary[spanIndex] {
						distanceToBoundary[spanIndex] = newDistance
					}

					// (1,-1)
					if GetCon(aSpan, 2) != NOT_CONNECTED {
						bX := aX + common.GetDirOffsetX(2)
						bZ := aZ + common.GetDirOffsetZ(2)
						bIndex := chf.Cells[bX+bZ*zStride].Index + GetCon(aSpan, 2)
						newDistance := common.Min(distanceToBoundary[bIndex]+3, 255)
						if newDistance < distanceToBoundary[spanIndex] {
							distanceToBoundary[spanIndex] = newDistance
						}
					}
				}
			}
		}
	}

	// Pass 2
	for z := zSize - 1; z >= 0; z-- {
		for x := xSize - 1; x >= 0; x-- {
			cell := &chf.Cells[x+z*zStride]
			for spanIndex, maxSpanIndex := cell.Index, cell.Index+cell.Count; spanIndex < maxSpanIndex; spanIndex++ {
				span := &chf.Spans[spanIndex]

				if GetCon(span, 2) != NOT_CONNECTED {
					// (1,0)
					aX := x + common.GetDirOffsetX(2)
					aZ := z + common.GetDirOffsetZ(2)
					aIndex := chf.Cells[aX+aZ*zStride].Index + GetCon(span, 2)
					aSpan := &chf.Spans[aIndex]
					newDistance := common.Min(distanceToBoundary[aIndex]+2, 255)
					if newDistance < distanceToBoundary[spanIndex] {
						distanceToBoundary[spanIndex] = newDistance
					}

					// (1,1)
					if GetCon(aSpan, 1) != NOT_CONNECTED {
						bX := aX + common.GetDirOffsetX(1)
						bZ := aZ + common.GetDirOffsetZ(1)
						bIndex := chf.Cells[bX+bZ*zStride].Index + GetCon(aSpan, 1)
						newDistance = common.Min(distanceToBoundary[bIndex]+3, 255)
						if newDistance < distanceToBoundary[spanIndex] {
							distanceToBoundary[spanIndex] = newDistance
						}
					}
				}
				if GetCon(span, 1) != NOT_CONNECTED {
					// (0,1)
					aX := x + common.GetDirOffsetX(1)
					aZ := z + common.GetDirOffsetZ(1)
					aIndex := chf.Cells[aX+aZ*zStride].Index + GetCon(span, 1)
					aSpan := &chf.Spans[aIndex]
					newDistance := common.Min(distanceToBoundary[aIndex]+2, 255)
					if newDistance < distanceToBoundary[spanIndex] {
						distanceToBoundary[spanIndex] = newDistance
					}

					// (-1,1)
					if GetCon(aSpan, 0) != NOT_CONNECTED {
						bX := aX + common.GetDirOffsetX(0)
						bZ := aZ + common.GetDirOffsetZ(0)
						bIndex := chf.Cells[bX+bZ*zStride].Index + GetCon(aSpan, 0)
						newDistance := common.Min(distanceToBoundary[bIndex]+3, 255)
						if newDistance < distanceToBoundary[spanIndex] {
							distanceToBoundary[spanIndex] = newDistance
						}
					}
				}
			}
		}
	}

	minBoundaryDistance := erosionRadius * 2
	for spanIndex := 0; spanIndex < chf.SpanCount; spanIndex++ {
		if distanceToBoundary[spanIndex] < minBoundaryDistance {
			chf.Areas[spanIndex] = NULL_AREA
		}
	}
	return true
}

// / Applies a median filter to walkable area types (based on area id),
// / removing noise.
// /
// / This filter is usually applied after applying area id's using functions
// / such as MarkBoxArea, MarkConvexPolyArea, and MarkCylinderArea.
func MedianFilterWalkableArea(ctx *BuildContext, chf *CompactHeightfield) bool {
	ctx.StartTimer(TimerMedianArea)
	defer ctx.StopTimer(TimerMedianArea)

	xSize := chf.Width
	zSize := chf.Height
	zStride := xSize // For readability

	areas := make([]int, chf.SpanCount)
	for i := range areas {
		areas[i] = 0xff
	}

	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			cell := &chf.Cells[x+z*zStride]
			for spanIndex, maxSpanIndex := cell.Index, cell.Index+cell.Count; spanIndex < maxSpanIndex; spanIndex++ {
				span := &chf.Spans[spanIndex]
				if chf.Areas[spanIndex] == NULL_AREA {
					areas[spanIndex] = chf.Areas[spanIndex]
					continue
				}

				var neighborAreas [9]int
				for neighborIndex := 0; neighborIndex < 9; neighborIndex++ {
					neighborAreas[neighborIndex] = chf.Areas[spanIndex]
				}

				for dir := 0; dir < 4; dir++ {
					if GetCon(span, dir) == NOT_CONNECTED {
						continue
					}

					aX := x + common.GetDirOffsetX(dir)
					aZ := z + common.GetDirOffsetZ(dir)
					aIndex := chf.Cells[aX+aZ*zStride].Index + GetCon(span, dir)
					if chf.Areas[aIndex] != NULL_AREA {
						neighborAreas[dir*2+0] = chf.Areas[aIndex]
					}

					aSpan := &chf.Spans[aIndex]
					dir2 := (dir + 1) & 0x3
					neighborConnection2 := GetCon(aSpan, dir2)
					if neighborConnection2 != NOT_CONNECTED {
						bX := aX + common.GetDirOffsetX(dir2)
						bZ := aZ + common.GetDirOffsetZ(dir2)
						bIndex := chf.Cells[bX+bZ*zStride].Index + neighborConnection2
						if chf.Areas[bIndex] != NULL_AREA {
							neighborAreas[dir*2+1] = chf.Areas[bIndex]
						}
					}
				}
				sort.Ints(neighborAreas[:])
				areas[spanIndex] = neighborAreas[4]
			}
		}
	}
	chf.Areas = areas
	return true
}

// / Applies the area id to all spans within the specified bounding box (AABB).
// /
// / The method does nothing if the AABB lies completely outside of the
// / heightfield.
func MarkBoxArea(ctx *BuildContext, boxMinBounds, boxMaxBounds []float32, areaID int, chf *CompactHeightfield) {
	ctx.StartTimer(TimerMarkBoxArea)
	defer ctx.StopTimer(TimerMarkBoxArea)

	xSize := chf.Width
	zSize := chf.Height
	zStride := xSize // For readability

	// Find the footprint of the box area in grid cell coordinates.
	minX := int((boxMinBounds[0] - chf.Bmin[0]) / chf.Cs)
	minY := int((boxMinBounds[1] - chf.Bmin[1]) / chf.Ch)
	minZ := int((boxMinBounds[2] - chf.Bmin[2]) / chf.Cs)
	maxX := int((boxMaxBounds[0] - chf.Bmin[0]) / chf.Cs)
	maxY := int((boxMaxBounds[1] - chf.Bmin[1]) / chf.Ch)
	maxZ := int((boxMaxBounds[2] - chf.Bmin[2]) / chf.Cs)

	// Early-out if the box is outside the bounds of the grid.
	if maxX < 0 || minX >= xSize || maxZ < 0 || minZ >= zSize {
		return
	}

	// Clamp relevant bound coordinates to the grid.
	minX = common.Clamp(minX, 0, xSize-1)
	maxX = common.Clamp(maxX, 0, xSize-1)
	minZ = common.Clamp(minZ, 0, zSize-1)
	maxZ = common.Clamp(maxZ, 0, zSize-1)

	// Mark relevant cells.
	for z := minZ; z <= maxZ; z++ {
		for x := minX; x <= maxX; x++ {
			cell := &chf.Cells[x+z*zStride]
			for spanIndex, maxSpanIndex := cell.Index, cell.Index+cell.Count; spanIndex < maxSpanIndex; spanIndex++ {
				span := &chf.Spans[spanIndex]

				// Skip if the span is outside the box extents.
				if span.Y < minY || span.Y > maxY {
					continue
				}

				// Skip if the span has been removed.
				if chf.Areas[spanIndex] == NULL_AREA {
					continue
				}

				chf.Areas[spanIndex] = areaID
			}
		}
	}
}

// / Applies the area id to the all spans within the specified convex polygon.
// /
// / The y-values of the polygon vertices are ignored. So the polygon is
// / effectively projected onto the xz-plane, and extruded over [minY, maxY].
func MarkConvexPolyArea(ctx *BuildContext, verts []float32, numVerts int,
	minY, maxY float32, areaID int, chf *CompactHeightfield) {

	ctx.StartTimer(TimerMarkConvexPolyArea)
	defer ctx.StopTimer(TimerMarkConvexPolyArea)

	xSize := chf.Width
	zSize := chf.Height
	zStride := xSize // For readability

	// Compute the bounding box of the polygon.
	bmin := make([]float32, 3)
	bmax := make([]float32, 3)
	copy(bmin, verts[:3])
	copy(bmax, verts[:3])
	for i := 1; i < numVerts; i++ {
		common.Vmin(bmin, common.GetVert3(verts, i))
		common.Vmax(bmax, common.GetVert3(verts, i))
	}
	bmin[1] = minY
	bmax[1] = maxY

	// Compute the grid footprint of the polygon.
	minx := int((bmin[0] - chf.Bmin[0]) / chf.Cs)
	miny := int((bmin[1] - chf.Bmin[1]) / chf.Ch)
	minz := int((bmin[2] - chf.Bmin[2]) / chf.Cs)
	maxx := int((bmax[0] - chf.Bmin[0]) / chf.Cs)
	maxy := int((bmax[1] - chf.Bmin[1]) / chf.Ch)
	maxz := int((bmax[2] - chf.Bmin[2]) / chf.Cs)

	// Early-out if the polygon lies entirely outside the grid.
	if maxx < 0 || minx >= xSize || maxz < 0 || minz >= zSize {
		return
	}

	// Clamp the polygon footprint to the grid.
	minx = common.Clamp(minx, 0, xSize-1)
	maxx = common.Clamp(maxx, 0, xSize-1)
	minz = common.Clamp(minz, 0, zSize-1)
	maxz = common.Clamp(maxz, 0, zSize-1)

	for z := minz; z <= maxz; z++ {
		for x := minx; x <= maxx; x++ {
			cell := &chf.Cells[x+z*zStride]
			for spanIndex, maxSpanIndex := cell.Index, cell.Index+cell.Count; spanIndex < maxSpanIndex; spanIndex++ {
				span := &chf.Spans[spanIndex]

				// Skip if span is removed.
				if chf.Areas[spanIndex] == NULL_AREA {
					continue
				}

				// Skip if y extents don't overlap.
				if span.Y < miny || span.Y > maxy {
					continue
				}

				point := []float32{
					chf.Bmin[0] + (float32(x)+0.5)*chf.Cs,
					0,
					chf.Bmin[2] + (float32(z)+0.5)*chf.Cs,
				}

				if pointInPoly(numVerts, verts, point) {
					chf.Areas[spanIndex] = areaID
				}
			}
		}
	}
}

// / Applies the area id to all spans within the specified y-axis-aligned
// / cylinder.
func MarkCylinderArea(ctx *BuildContext, position []float32, radius, height float32,
	areaID int, chf *CompactHeightfield) {

	ctx.StartTimer(TimerMarkCylinderArea)
	defer ctx.StopTimer(TimerMarkCylinderArea)

	xSize := chf.Width
	zSize := chf.Height
	zStride := xSize // For readability

	// Compute the bounding box of the cylinder.
	cylinderBBMin := []float32{position[0] - radius, position[1], position[2] - radius}
	cylinderBBMax := []float32{position[0] + radius, position[1] + height, position[2] + radius}

	// Compute the grid footprint of the cylinder.
	minx := int((cylinderBBMin[0] - chf.Bmin[0]) / chf.Cs)
	miny := int((cylinderBBMin[1] - chf.Bmin[1]) / chf.Ch)
	minz := int((cylinderBBMin[2] - chf.Bmin[2]) / chf.Cs)
	maxx := int((cylinderBBMax[0] - chf.Bmin[0]) / chf.Cs)
	maxy := int((cylinderBBMax[1] - chf.Bmin[1]) / chf.Ch)
	maxz := int((cylinderBBMax[2] - chf.Bmin[2]) / chf.Cs)

	// Early-out if the cylinder is completely outside the grid bounds.
	if maxx < 0 || minx >= xSize || maxz < 0 || minz >= zSize {
		return
	}

	// Clamp the cylinder bounds to the grid.
	minx = common.Clamp(minx, 0, xSize-1)
	maxx = common.Clamp(maxx, 0, xSize-1)
	minz = common.Clamp(minz, 0, zSize-1)
	maxz = common.Clamp(maxz, 0, zSize-1)

	radiusSq := radius * radius

	for z := minz; z <= maxz; z++ {
		for x := minx; x <= maxx; x++ {
			cell := &chf.Cells[x+z*zStride]

			cellX := chf.Bmin[0] + (float32(x)+0.5)*chf.Cs
			cellZ := chf.Bmin[2] + (float32(z)+0.5)*chf.Cs
			deltaX := cellX - position[0]
			deltaZ := cellZ - position[2]

			// Skip this column if it's too far from the center point of the cylinder.
			if common.Sqr(deltaX)+common.Sqr(deltaZ) >= radiusSq {
				continue
			}

			// Mark all overlapping spans.
			for spanIndex, maxSpanIndex := cell.Index, cell.Index+cell.Count; spanIndex < maxSpanIndex; spanIndex++ {
				span := &chf.Spans[spanIndex]

				// Skip if span is removed.
				if chf.Areas[spanIndex] == NULL_AREA {
					continue
				}

				// Mark if y extents overlap.
				if span.Y >= miny && span.Y <= maxy {
					chf.Areas[spanIndex] = areaID
				}
			}
		}
	}
}

// / Normalizes the vector if the length is greater than zero.
// / If the magnitude is zero, the vector is unchanged.
func safeNormalize(v []float32) {
	sqMag := common.Sqr(v[0]) + common.Sqr(v[1]) + common.Sqr(v[2])
	if sqMag > areaEpsilon {
		inverseMag := 1.0 / float32(math.Sqrt(float64(sqMag)))
		v[0] *= inverseMag
		v[1] *= inverseMag
		v[2] *= inverseMag
	}
}

// / Expands a convex polygon along its vertex normals by the given offset
// / amount. Inserts extra vertices to bevel sharp corners.
// /
// / Helper function to offset convex polygons for MarkConvexPolyArea.
// /
// / @param[in]	verts		The vertices of the polygon. [Form: (x, y, z) * @p numVerts]
// / @param[in]	numVerts	The number of vertices in the polygon.
// / @param[in]	offset		How much to offset the polygon by. [Units: wu]
// / @param[out]	outVerts	The offset vertices. [Form: (x, y, z) * return value]
// / @param[in]	maxOutVerts	The max number of vertices that can be stored to @p outVerts.
// / @returns Number of vertices in the offset polygon or 0 if too few vertices in @p outVerts.
func OffsetPoly(verts []float32, numVerts int, offset float32, outVerts []float32, maxOutVerts int) int {
	// Defines the limit at which a miter becomes a bevel.
	const miterLimit float32 = 1.20
	numOutVerts := 0

	for vertIndex := 0; vertIndex < numVerts; vertIndex++ {
		// Grab three vertices of the polygon.
		vertIndexA := (vertIndex + numVerts - 1) % numVerts
		vertIndexB := vertIndex
		vertIndexC := (vertIndex + 1) % numVerts
		vertA := common.GetVert3(verts, vertIndexA)
		vertB := common.GetVert3(verts, vertIndexB)
		vertC := common.GetVert3(verts, vertIndexC)

		// From A to B on the x/z plane.
		prevSegmentDir := make([]float32, 3)
		common.Vsub(prevSegmentDir, vertB, vertA)
		prevSegmentDir[1] = 0 // Squash onto x/z plane.
		safeNormalize(prevSegmentDir)

		// From B to C on the x/z plane.
		currSegmentDir := make([]float32, 3)
		common.Vsub(currSegmentDir, vertC, vertB)
		currSegmentDir[1] = 0 // Squash onto x/z plane.
		safeNormalize(currSegmentDir)

		// The y component of the cross product of the two normalized segment directions.
		cross := currSegmentDir[0]*prevSegmentDir[2] - prevSegmentDir[0]*currSegmentDir[2]

		// CCW perpendicular vector to AB. The segment normal.
		prevSegmentNormX := -prevSegmentDir[2]
		prevSegmentNormZ := prevSegmentDir[0]

		// CCW perpendicular vector to BC. The segment normal.
		currSegmentNormX := -currSegmentDir[2]
		currSegmentNormZ := currSegmentDir[0]

		// Average the two segment normals to get the proportional miter offset for B.
		// This isn't normalized because it's defining the distance and direction
		// the corner will need to be adjusted proportionally to the edge offsets
		// to properly miter the adjoining edges.
		cornerMiterX := (prevSegmentNormX + currSegmentNormX) * 0.5
		cornerMiterZ := (prevSegmentNormZ + currSegmentNormZ) * 0.5
		cornerMiterSqMag := common.Sqr(cornerMiterX) + common.Sqr(cornerMiterZ)

		// If the magnitude of the segment normal average is less than about .69444,
		// the corner is an acute enough angle that the result should be beveled.
		bevel := cornerMiterSqMag*miterLimit*miterLimit < 1.0

		// Scale the corner miter so it's proportional to how much the corner
		// should be offset compared to the edges.
		if cornerMiterSqMag > areaEpsilon {
			scale := 1.0 / cornerMiterSqMag
			cornerMiterX *= scale
			cornerMiterZ *= scale
		}

		if bevel && cross < 0.0 {
			// The corner is convex and an acute enough angle, generate a bevel.
			if numOutVerts+2 > maxOutVerts {
				return 0
			}

			// Generate two bevel vertices at a distances from B proportional to the
			// angle between the two segments. Move each bevel vertex out proportional
			// to the given offset.
			d := (1.0 - (prevSegmentDir[0]*currSegmentDir[0] + prevSegmentDir[2]*currSegmentDir[2])) * 0.5

			outVerts[numOutVerts*3+0] = vertB[0] + (-prevSegmentNormX+prevSegmentDir[0]*d)*offset
			outVerts[numOutVerts*3+1] = vertB[1]
			outVerts[numOutVerts*3+2] = vertB[2] + (-prevSegmentNormZ+prevSegmentDir[2]*d)*offset
			numOutVerts++

			outVerts[numOutVerts*3+0] = vertB[0] + (-currSegmentNormX-currSegmentDir[0]*d)*offset
			outVerts[numOutVerts*3+1] = vertB[1]
			outVerts[numOutVerts*3+2] = vertB[2] + (-currSegmentNormZ-currSegmentDir[2]*d)*offset
			numOutVerts++
		} else {
			if numOutVerts+1 > maxOutVerts {
				return 0
			}

			// Move B along the miter direction by the specified offset.
			outVerts[numOutVerts*3+0] = vertB[0] - cornerMiterX*offset
			outVerts[numOutVerts*3+1] = vertB[1]
			outVerts[numOutVerts*3+2] = vertB[2] - cornerMiterZ*offset
			numOutVerts++
		}
	}

	return numOutVerts
}
