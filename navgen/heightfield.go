package navgen

import (
	"voxnav/common"
)

// / Index of a span node within the heightfield's pool pages.
type spanIndex int32

const nullSpan spanIndex = -1

// / A span of obstructed space within a heightfield column.
// /
// / The span limits are measured from the heightfield's base in cell height
// / units. Spans within a column are kept sorted by Smin and never overlap.
type Span struct {
	Smin int ///< The lower limit of the span. [Limit: < #Smax]
	Smax int ///< The upper limit of the span. [Limit: <= #SPAN_MAX_HEIGHT]
	Area int ///< The area id assigned to the span.

	next spanIndex ///< The next span higher up in the column.
}

// / A fixed-size page of span nodes. Pages are only ever appended, so a
// / spanIndex stays valid for the lifetime of the heightfield.
type spanPool struct {
	items [SPANS_PER_POOL]Span
}

// / A dynamic heightfield representing obstructed space.
// /
// / Span storage is an arena of pool pages addressed by 32-bit indices with
// / an intrusive free list, grown one page at a time on exhaustion.
type Heightfield struct {
	Width  int        ///< The width of the heightfield. (Along the x-axis in cell units.)
	Height int        ///< The height of the heightfield. (Along the z-axis in cell units.)
	Bmin   [3]float32 ///< The minimum bounds in world space. [(x, y, z)]
	Bmax   [3]float32 ///< The maximum bounds in world space. [(x, y, z)]
	Cs     float32    ///< The size of each cell. (On the xz-plane.)
	Ch     float32    ///< The height of each cell. (The minimum increment along the y-axis.)

	columns  []spanIndex ///< Head span per column. [Size: Width*Height]
	pools    []*spanPool
	freelist spanIndex
}

// / Initializes a new heightfield covering the given grid and bounds.
func NewHeightfield(sizeX, sizeZ int, minBounds, maxBounds []float32, cellSize, cellHeight float32) *Heightfield {
	heightfield := &Heightfield{
		Width:    sizeX,
		Height:   sizeZ,
		Cs:       cellSize,
		Ch:       cellHeight,
		columns:  make([]spanIndex, sizeX*sizeZ),
		freelist: nullSpan,
	}
	copy(heightfield.Bmin[:], minBounds)
	copy(heightfield.Bmax[:], maxBounds)
	for i := range heightfield.columns {
		heightfield.columns[i] = nullSpan
	}
	return heightfield
}

func (hf *Heightfield) span(index spanIndex) *Span {
	return &hf.pools[index/SPANS_PER_POOL].items[index%SPANS_PER_POOL]
}

// / Returns the head span of the column, or nil for an empty column.
func (hf *Heightfield) Column(x, z int) *Span {
	return hf.spanAt(hf.columns[x+z*hf.Width])
}

// / Returns the span following s in its column, or nil at the column top.
func (hf *Heightfield) Next(s *Span) *Span {
	return hf.spanAt(s.next)
}

func (hf *Heightfield) spanAt(index spanIndex) *Span {
	if index == nullSpan {
		return nil
	}
	return hf.span(index)
}

// / Allocates a span node, growing the arena by one pool page when the free
// / list is exhausted. Pool growth is never fatal.
func (hf *Heightfield) allocSpan() spanIndex {
	if hf.freelist == nullSpan {
		pool := &spanPool{}
		base := spanIndex(len(hf.pools) * SPANS_PER_POOL)
		hf.pools = append(hf.pools, pool)

		// Chain the new page onto the free list.
		for i := SPANS_PER_POOL - 1; i >= 0; i-- {
			pool.items[i].next = hf.freelist
			hf.freelist = base + spanIndex(i)
		}
	}
	index := hf.freelist
	hf.freelist = hf.span(index).next
	return index
}

// / Returns the span node to the free list for re-use.
func (hf *Heightfield) freeSpan(index spanIndex) {
	span := hf.span(index)
	span.next = hf.freelist
	hf.freelist = index
}

// / Returns the number of spans contained in the heightfield that have a
// / walkable area assigned to them.
func (hf *Heightfield) walkableSpanCount() int {
	spanCount := 0
	for columnIndex := 0; columnIndex < hf.Width*hf.Height; columnIndex++ {
		for si := hf.columns[columnIndex]; si != nullSpan; si = hf.span(si).next {
			if hf.span(si).Area != NULL_AREA {
				spanCount++
			}
		}
	}
	return spanCount
}

// / Adds a span to the heightfield. If the new span overlaps existing spans,
// / it will merge the new span with the existing ones.
// /
// / The span addition can be set to favor flags. If the span is merged to
// / another span and the new smax is within @p flagMergeThreshold units
// / from the existing span, the span flags are merged.
// /
// / @param[in]	x					The new span's column cell x index
// / @param[in]	z					The new span's column cell z index
// / @param[in]	spanMin				The new span's minimum cell index
// / @param[in]	spanMax				The new span's maximum cell index
// / @param[in]	areaID				The new span's area type ID
// / @param[in]	flagMergeThreshold	How close two spans' maximum extents need to be to merge area type IDs
func (hf *Heightfield) AddSpan(x, z int, spanMin, spanMax, areaID, flagMergeThreshold int) bool {
	newIndex := hf.allocSpan()
	newSpan := hf.span(newIndex)
	newSpan.Smin = spanMin
	newSpan.Smax = spanMax
	newSpan.Area = areaID
	newSpan.next = nullSpan

	columnIndex := x + z*hf.Width
	previousIndex := nullSpan
	currentIndex := hf.columns[columnIndex]

	// Insert the new span, possibly merging it with existing spans.
	for currentIndex != nullSpan {
		currentSpan := hf.span(currentIndex)
		if currentSpan.Smin > newSpan.Smax {
			// Current span is completely after the new span, break.
			break
		}

		if currentSpan.Smax < newSpan.Smin {
			// Current span is completely before the new span. Keep going.
			previousIndex = currentIndex
			currentIndex = currentSpan.next
			continue
		}

		// The new span overlaps with an existing span. Merge them.
		if currentSpan.Smin < newSpan.Smin {
			newSpan.Smin = currentSpan.Smin
		}
		if currentSpan.Smax > newSpan.Smax {
			newSpan.Smax = currentSpan.Smax
		}

		// Merge flags.
		if common.Abs(newSpan.Smax-currentSpan.Smax) <= flagMergeThreshold {
			// Higher area ID numbers indicate higher resolution priority.
			newSpan.Area = common.Max(newSpan.Area, currentSpan.Area)
		}

		// Remove the current span since it's now merged with newSpan.
		// Keep going because there might be other overlapping spans that
		// also need to be merged.
		next := currentSpan.next
		hf.freeSpan(currentIndex)
		if previousIndex != nullSpan {
			hf.span(previousIndex).next = next
		} else {
			hf.columns[columnIndex] = next
		}
		currentIndex = next
	}

	// Insert new span after prev.
	if previousIndex != nullSpan {
		newSpan.next = hf.span(previousIndex).next
		hf.span(previousIndex).next = newIndex
	} else {
		// This span should go before the others in the list.
		newSpan.next = hf.columns[columnIndex]
		hf.columns[columnIndex] = newIndex
	}
	return true
}
