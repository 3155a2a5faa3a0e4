package navgen

import (
	"voxnav/common"
)

// / Provides information on the content of a cell column in a compact heightfield.
type CompactCell struct {
	Index int ///< Index to the first span in the column.
	Count int ///< Number of spans in the column.
}

// / Represents a span of unobstructed space within a compact heightfield.
type CompactSpan struct {
	Y   int ///< The lower extent of the span. (Measured from the heightfield's base.)
	Reg int ///< The id of the region the span belongs to. (Or zero if not in a region.)
	Con int ///< Packed neighbor connection data.
	H   int ///< The height of the span. (Measured from #Y.)
}

// / A compact, static heightfield representing unobstructed space.
// /
// / The spans of a compact heightfield cover the open space above the solid
// / spans of a regular heightfield. Each span carries up to four neighbor
// / links, one per cardinal direction, packed into six bits each.
type CompactHeightfield struct {
	Width          int           ///< The width of the heightfield. (Along the x-axis in cell units.)
	Height         int           ///< The height of the heightfield. (Along the z-axis in cell units.)
	SpanCount      int           ///< The number of spans in the heightfield.
	WalkableHeight int           ///< The walkable height used during the build of the field.
	WalkableClimb  int           ///< The walkable climb used during the build of the field.
	BorderSize     int           ///< The AABB border size used during the build of the field.
	MaxDistance    int           ///< The maximum distance value of any span within the field.
	MaxRegions     int           ///< The maximum region id of any span within the field.
	Bmin           [3]float32    ///< The minimum bounds in world space. [(x, y, z)]
	Bmax           [3]float32    ///< The maximum bounds in world space. [(x, y, z)]
	Cs             float32       ///< The size of each cell. (On the xz-plane.)
	Ch             float32       ///< The height of each cell. (The minimum increment along the y-axis.)
	Cells          []CompactCell ///< Array of cells. [Size: #Width*#Height]
	Spans          []CompactSpan ///< Array of spans. [Size: #SpanCount]
	Dist           []int         ///< Array containing border distance data. [Size: #SpanCount]
	Areas          []int         ///< Array containing area id data. [Size: #SpanCount]
}

// / Sets the neighbor connection data for the specified direction.
func SetCon(span *CompactSpan, direction, neighborIndex int) {
	shift := direction * 6
	con := span.Con
	span.Con = (con &^ (0x3f << shift)) | ((neighborIndex & 0x3f) << shift)
}

// / Gets neighbor connection data for the specified direction.
// / @return The neighbor connection data for the specified direction, or
// / #NOT_CONNECTED if there is no connection.
func GetCon(span *CompactSpan, direction int) int {
	shift := direction * 6
	return (span.Con >> shift) & 0x3f
}

// / Builds a compact heightfield representing open space, from a heightfield
// / representing solid space.
// /
// / This is just the beginning of the process of fully building a compact
// / heightfield. Various filters and other processes are applied to the
// / result before it is used in contour and mesh building.
// /
// / @param[in]	walkableHeight	Minimum floor to 'ceiling' height that will still allow the floor area to be considered walkable. [Limit: >= 3] [Units: vx]
// / @param[in]	walkableClimb	Maximum ledge height that is considered to still be traversable. [Limit: >=0] [Units: vx]
// / @param[in]	heightfield		The heightfield to be compacted.
// / @param[out]	chf				The resulting compact heightfield.
func BuildCompactHeightfield(ctx *BuildContext, walkableHeight, walkableClimb int,
	heightfield *Heightfield, chf *CompactHeightfield) bool {

	ctx.StartTimer(TimerBuildCompactHeightfield)
	defer ctx.StopTimer(TimerBuildCompactHeightfield)

	xSize := heightfield.Width
	zSize := heightfield.Height
	spanCount := heightfield.walkableSpanCount()

	// Fill in header.
	chf.Width = xSize
	chf.Height = zSize
	chf.SpanCount = spanCount
	chf.WalkableHeight = walkableHeight
	chf.WalkableClimb = walkableClimb
	chf.MaxRegions = 0
	copy(chf.Bmin[:], heightfield.Bmin[:])
	copy(chf.Bmax[:], heightfield.Bmax[:])
	chf.Bmax[1] += float32(walkableHeight) * heightfield.Ch
	chf.Cs = heightfield.Cs
	chf.Ch = heightfield.Ch
	chf.Cells = make([]CompactCell, xSize*zSize)
	chf.Spans = make([]CompactSpan, spanCount)
	chf.Areas = make([]int, spanCount)
	for i := range chf.Areas {
		chf.Areas[i] = NULL_AREA
	}

	// Fill in cells and spans.
	currentCellIndex := 0
	numColumns := xSize * zSize
	for columnIndex := 0; columnIndex < numColumns; columnIndex++ {
		span := heightfield.spanAt(heightfield.columns[columnIndex])

		// If there are no spans at this cell, just leave the data to index=0, count=0.
		if span == nil {
			continue
		}

		cell := &chf.Cells[columnIndex]
		cell.Index = currentCellIndex
		cell.Count = 0

		for ; span != nil; span = heightfield.Next(span) {
			if span.Area == NULL_AREA {
				continue
			}
			bot := span.Smax
			top := maxHeight
			if next := heightfield.Next(span); next != nil {
				top = next.Smin
			}
			chf.Spans[currentCellIndex].Y = common.Clamp(bot, 0, 0xffff)
			chf.Spans[currentCellIndex].H = common.Clamp(top-bot, 0, 0xff)
			chf.Areas[currentCellIndex] = span.Area
			currentCellIndex++
			cell.Count++
		}
	}

	// Find neighbor connections.
	const maxLayers = NOT_CONNECTED - 1
	maxLayerIndex := 0
	zStride := xSize // for readability
	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			cell := &chf.Cells[x+z*zStride]
			for i, ni := cell.Index, cell.Index+cell.Count; i < ni; i++ {
				span := &chf.Spans[i]

				for dir := 0; dir < 4; dir++ {
					SetCon(span, dir, NOT_CONNECTED)
					neighborX := x + common.GetDirOffsetX(dir)
					neighborZ := z + common.GetDirOffsetZ(dir)
					// First check that the neighbor cell is in bounds.
					if neighborX < 0 || neighborZ < 0 || neighborX >= xSize || neighborZ >= zSize {
						continue
					}

					// Iterate over all neighbor spans and check if any of
					// them is accessible from the current cell.
					neighborCell := &chf.Cells[neighborX+neighborZ*zStride]
					for k, nk := neighborCell.Index, neighborCell.Index+neighborCell.Count; k < nk; k++ {
						neighborSpan := &chf.Spans[k]
						bot := common.Max(span.Y, neighborSpan.Y)
						top := common.Min(span.Y+span.H, neighborSpan.Y+neighborSpan.H)

						// Check that the gap between the spans is walkable,
						// and that the climb height between the gaps is not too high.
						if (top-bot) >= walkableHeight && common.Abs(neighborSpan.Y-span.Y) <= walkableClimb {
							// Mark direction as walkable.
							layerIndex := k - neighborCell.Index
							if layerIndex < 0 || layerIndex > maxLayers {
								maxLayerIndex = common.Max(maxLayerIndex, layerIndex)
								continue
							}
							SetCon(span, dir, layerIndex)
							break
						}
					}
				}
			}
		}
	}

	if maxLayerIndex > maxLayers {
		ctx.Warningf("BuildCompactHeightfield: heightfield has too many layers %d (max: %d)", maxLayerIndex, maxLayers)
	}

	return true
}
