package navgen

import (
	"math"

	"voxnav/common"
)

type axis int

const (
	axisX axis = 0
	axisY axis = 1
	axisZ axis = 2
)

// / Check whether two bounding boxes overlap.
func overlapBounds(aMin, aMax, bMin, bMax []float32) bool {
	return aMin[0] <= bMax[0] && aMax[0] >= bMin[0] &&
		aMin[1] <= bMax[1] && aMax[1] >= bMin[1] &&
		aMin[2] <= bMax[2] && aMax[2] >= bMin[2]
}

// / Divides a convex polygon of max 12 vertices into two convex polygons
// / across a separating axis.
// /
// / @param[in]	inVerts			The input polygon vertices
// / @param[in]	inVertsCount	The number of input polygon vertices
// / @param[out]	outVerts1		Resulting polygon 1's vertices
// / @param[out]	outVerts1Count	The number of resulting polygon 1 vertices
// / @param[out]	outVerts2		Resulting polygon 2's vertices
// / @param[out]	outVerts2Count	The number of resulting polygon 2 vertices
// / @param[in]	axisOffset		The offset along the specified axis
// / @param[in]	ax				The separating axis
func dividePoly(inVerts []float32, inVertsCount int,
	outVerts1 []float32, outVerts1Count *int,
	outVerts2 []float32, outVerts2Count *int,
	axisOffset float32, ax axis) {

	// How far positive or negative away from the separating axis is each vertex.
	var inVertAxisDelta [12]float32
	for inVert := 0; inVert < inVertsCount; inVert++ {
		inVertAxisDelta[inVert] = axisOffset - inVerts[inVert*3+int(ax)]
	}

	poly1Vert := 0
	poly2Vert := 0
	inVertB := inVertsCount - 1
	for inVertA := 0; inVertA < inVertsCount; inVertA++ {
		// If the two vertices are on the same side of the separating axis.
		sameSide := (inVertAxisDelta[inVertA] >= 0) == (inVertAxisDelta[inVertB] >= 0)

		if !sameSide {
			s := inVertAxisDelta[inVertB] / (inVertAxisDelta[inVertB] - inVertAxisDelta[inVertA])
			outVerts1[poly1Vert*3+0] = inVerts[inVertB*3+0] + (inVerts[inVertA*3+0]-inVerts[inVertB*3+0])*s
			outVerts1[poly1Vert*3+1] = inVerts[inVertB*3+1] + (inVerts[inVertA*3+1]-inVerts[inVertB*3+1])*s
			outVerts1[poly1Vert*3+2] = inVerts[inVertB*3+2] + (inVerts[inVertA*3+2]-inVerts[inVertB*3+2])*s
			copy(common.GetVert3(outVerts2, poly2Vert), common.GetVert3(outVerts1, poly1Vert))
			poly1Vert++
			poly2Vert++

			// Add the inVertA point to the right polygon. Do NOT add points
			// that are on the dividing line since these were already added
			// above.
			if inVertAxisDelta[inVertA] > 0 {
				copy(common.GetVert3(outVerts1, poly1Vert), common.GetVert3(inVerts, inVertA))
				poly1Vert++
			} else if inVertAxisDelta[inVertA] < 0 {
				copy(common.GetVert3(outVerts2, poly2Vert), common.GetVert3(inVerts, inVertA))
				poly2Vert++
			}
		} else {
			// Add the inVertA point to the right polygon. Addition is done
			// even for points on the dividing line.
			if inVertAxisDelta[inVertA] >= 0 {
				copy(common.GetVert3(outVerts1, poly1Vert), common.GetVert3(inVerts, inVertA))
				poly1Vert++
				if inVertAxisDelta[inVertA] != 0 {
					inVertB = inVertA
					continue
				}
			}
			copy(common.GetVert3(outVerts2, poly2Vert), common.GetVert3(inVerts, inVertA))
			poly2Vert++
		}
		inVertB = inVertA
	}

	*outVerts1Count = poly1Vert
	*outVerts2Count = poly2Vert
}

// / Rasterize a single triangle to the heightfield.
// /
// / This code is extremely hot, so much care should be given to maintaining
// / maximum perf here.
func rasterizeTri(v0, v1, v2 []float32,
	areaID int, heightfield *Heightfield,
	heightfieldBBMin, heightfieldBBMax []float32,
	cellSize, inverseCellSize, inverseCellHeight float32,
	flagMergeThreshold int) bool {

	// Calculate the bounding box of the triangle.
	triBBMin := make([]float32, 3)
	copy(triBBMin, v0)
	common.Vmin(triBBMin, v1)
	common.Vmin(triBBMin, v2)

	triBBMax := make([]float32, 3)
	copy(triBBMax, v0)
	common.Vmax(triBBMax, v1)
	common.Vmax(triBBMax, v2)

	// If the triangle does not touch the bounding box of the heightfield, skip the triangle.
	if !overlapBounds(triBBMin, triBBMax, heightfieldBBMin, heightfieldBBMax) {
		return true
	}

	w := heightfield.Width
	h := heightfield.Height
	by := heightfieldBBMax[1] - heightfieldBBMin[1]

	// Calculate the footprint of the triangle on the grid's z-axis.
	z0 := int((triBBMin[2] - heightfieldBBMin[2]) * inverseCellSize)
	z1 := int((triBBMax[2] - heightfieldBBMin[2]) * inverseCellSize)

	// use -1 rather than 0 to cut the polygon properly at the start of the tile
	z0 = common.Clamp(z0, -1, h-1)
	z1 = common.Clamp(z1, 0, h-1)

	// Clip the triangle into all grid cells it touches.
	buf := make([]float32, 7*3*4)
	in := buf
	inRow := buf[7*3:]
	p1 := inRow[7*3:]
	p2 := p1[7*3:]

	copy(in, v0)
	copy(in[1*3:], v1)
	copy(in[2*3:], v2)
	nvRow := 0
	nvIn := 3

	for z := z0; z <= z1; z++ {
		// Clip polygon to row. Store the remaining polygon as well.
		cellZ := heightfieldBBMin[2] + float32(z)*cellSize
		dividePoly(in, nvIn, inRow, &nvRow, p1, &nvIn, cellZ+cellSize, axisZ)
		in, p1 = p1, in

		if nvRow < 3 {
			continue
		}
		if z < 0 {
			continue
		}

		// Find x-axis bounds of the row.
		minX := inRow[0]
		maxX := inRow[0]
		for vert := 1; vert < nvRow; vert++ {
			minX = common.Min(minX, inRow[vert*3])
			maxX = common.Max(maxX, inRow[vert*3])
		}
		x0 := int((minX - heightfieldBBMin[0]) * inverseCellSize)
		x1 := int((maxX - heightfieldBBMin[0]) * inverseCellSize)
		if x1 < 0 || x0 >= w {
			continue
		}
		x0 = common.Clamp(x0, -1, w-1)
		x1 = common.Clamp(x1, 0, w-1)

		nv := 0
		nv2 := nvRow

		for x := x0; x <= x1; x++ {
			// Clip polygon to column. Store the remaining polygon as well.
			cx := heightfieldBBMin[0] + float32(x)*cellSize
			dividePoly(inRow, nv2, p1, &nv, p2, &nv2, cx+cellSize, axisX)
			inRow, p2 = p2, inRow

			if nv < 3 {
				continue
			}
			if x < 0 {
				continue
			}

			// Calculate min and max of the span.
			spanMin := p1[1]
			spanMax := p1[1]
			for vert := 1; vert < nv; vert++ {
				spanMin = common.Min(spanMin, p1[vert*3+1])
				spanMax = common.Max(spanMax, p1[vert*3+1])
			}
			spanMin -= heightfieldBBMin[1]
			spanMax -= heightfieldBBMin[1]

			// Skip the span if it's completely outside the heightfield bounding box.
			if spanMax < 0.0 {
				continue
			}
			if spanMin > by {
				continue
			}

			// Clamp the span to the heightfield bounding box.
			if spanMin < 0.0 {
				spanMin = 0
			}
			if spanMax > by {
				spanMax = by
			}

			// Snap the span to the heightfield height grid.
			spanMinCellIndex := common.Clamp(int(math.Floor(float64(spanMin*inverseCellHeight))), 0, SPAN_MAX_HEIGHT)
			spanMaxCellIndex := common.Clamp(int(math.Ceil(float64(spanMax*inverseCellHeight))), spanMinCellIndex+1, SPAN_MAX_HEIGHT)

			if !heightfield.AddSpan(x, z, spanMinCellIndex, spanMaxCellIndex, areaID, flagMergeThreshold) {
				return false
			}
		}
	}

	return true
}

// / Rasterizes a single triangle into the specified heightfield.
// /
// / Calling this for each triangle in turn is less efficient than calling
// / RasterizeTriangles for the whole soup.
// /
// / Spans will only be added for triangles that overlap the heightfield grid.
func RasterizeTriangle(ctx *BuildContext, v0, v1, v2 []float32,
	areaID int, heightfield *Heightfield, flagMergeThreshold int) bool {

	ctx.StartTimer(TimerRasterizeTriangles)
	defer ctx.StopTimer(TimerRasterizeTriangles)

	inverseCellSize := 1.0 / heightfield.Cs
	inverseCellHeight := 1.0 / heightfield.Ch
	if !rasterizeTri(v0, v1, v2, areaID, heightfield, heightfield.Bmin[:], heightfield.Bmax[:], heightfield.Cs, inverseCellSize, inverseCellHeight, flagMergeThreshold) {
		ctx.Errorf("RasterizeTriangle: out of memory")
		return false
	}
	return true
}

// / Rasterizes an indexed triangle mesh into the specified heightfield.
// /
// / Spans will only be added for triangles that overlap the heightfield grid.
// /
// / @param[in]	verts				The vertices. [(x, y, z) * @p numVerts]
// / @param[in]	numVerts			The number of vertices. (unused)
// / @param[in]	tris				The triangle indices. [(vertA, vertB, vertC) * @p numTris]
// / @param[in]	triAreaIDs			The area ids of the triangles. [Limit: <= #WALKABLE_AREA] [Size: @p numTris]
// / @param[in]	numTris				The number of triangles.
// / @param[in]	heightfield			An initialized heightfield.
// / @param[in]	flagMergeThreshold	The distance where the walkable flag is favored over the non-walkable flag. [Limit: >= 0] [Units: vx]
func RasterizeTriangles(ctx *BuildContext, verts []float32, numVerts int,
	tris []int, triAreaIDs []int, numTris int,
	heightfield *Heightfield, flagMergeThreshold int) bool {

	ctx.StartTimer(TimerRasterizeTriangles)
	defer ctx.StopTimer(TimerRasterizeTriangles)

	inverseCellSize := 1.0 / heightfield.Cs
	inverseCellHeight := 1.0 / heightfield.Ch
	for triIndex := 0; triIndex < numTris; triIndex++ {
		v0 := common.GetVert3(verts, tris[triIndex*3+0])
		v1 := common.GetVert3(verts, tris[triIndex*3+1])
		v2 := common.GetVert3(verts, tris[triIndex*3+2])
		if !rasterizeTri(v0, v1, v2, triAreaIDs[triIndex], heightfield, heightfield.Bmin[:], heightfield.Bmax[:], heightfield.Cs, inverseCellSize, inverseCellHeight, flagMergeThreshold) {
			ctx.Errorf("RasterizeTriangles: out of memory")
			return false
		}
	}
	return true
}
