package navgen

import (
	"voxnav/common"
)

const nullNei = 0xffff

type levelStackEntry struct {
	x     int
	y     int
	index int
}

func floodRegion(x, y, i, level, r int,
	chf *CompactHeightfield, srcReg, srcDist []int, stack *[]levelStackEntry) bool {
	w := chf.Width

	area := chf.Areas[i]

	// Flood fill mark region.
	*stack = (*stack)[:0]
	*stack = append(*stack, levelStackEntry{x, y, i})
	srcReg[i] = r
	srcDist[i] = 0

	lev := 0
	if level >= 2 {
		lev = level - 2
	}
	count := 0

	for len(*stack) > 0 {
		back := (*stack)[len(*stack)-1]
		*stack = (*stack)[:len(*stack)-1]
		cx := back.x
		cy := back.y
		ci := back.index

		cs := &chf.Spans[ci]

		// Check if any of the neighbors already have a valid region set.
		ar := 0
		for dir := 0; dir < 4; dir++ {
			// 8 connected
			if GetCon(cs, dir) != NOT_CONNECTED {
				ax := cx + common.GetDirOffsetX(dir)
				ay := cy + common.GetDirOffsetZ(dir)
				ai := chf.Cells[ax+ay*w].Index + GetCon(cs, dir)
				if chf.Areas[ai] != area {
					continue
				}

				nr := srcReg[ai]
				if nr&BORDER_REG != 0 {
					// Do not take borders into account.
					continue
				}
				if nr != 0 && nr != r {
					ar = nr
					break
				}

				as := &chf.Spans[ai]
				dir2 := (dir + 1) & 0x3
				if GetCon(as, dir2) != NOT_CONNECTED {
					ax2 := ax + common.GetDirOffsetX(dir2)
					ay2 := ay + common.GetDirOffsetZ(dir2)
					ai2 := chf.Cells[ax2+ay2*w].Index + GetCon(as, dir2)
					if chf.Areas[ai2] != area {
						continue
					}

					nr2 := srcReg[ai2]
					if nr2 != 0 && nr2 != r {
						ar = nr2
						break
					}
				}
			}
		}
		if ar != 0 {
			srcReg[ci] = 0
			continue
		}

		count++

		// Expand neighbors.
		for dir := 0; dir < 4; dir++ {
			if GetCon(cs, dir) != NOT_CONNECTED {
				ax := cx + common.GetDirOffsetX(dir)
				ay := cy + common.GetDirOffsetZ(dir)
				ai := chf.Cells[ax+ay*w].Index + GetCon(cs, dir)
				if chf.Areas[ai] != area {
					continue
				}
				if chf.Dist[ai] >= lev && srcReg[ai] == 0 {
					srcReg[ai] = r
					srcDist[ai] = 0
					*stack = append(*stack, levelStackEntry{ax, ay, ai})
				}
			}
		}
	}

	return count > 0
}

// Entry of the region table that has been changed during region expansion.
type dirtyEntry struct {
	index     int
	region    int
	distance2 int
}

func expandRegions(maxIter, level int, chf *CompactHeightfield,
	srcReg, srcDist []int, stack *[]levelStackEntry, fillStack bool) {
	w := chf.Width
	h := chf.Height

	if fillStack {
		// Find cells revealed by the raised level.
		*stack = (*stack)[:0]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := &chf.Cells[x+y*w]
				for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
					if chf.Dist[i] >= level && srcReg[i] == 0 && chf.Areas[i] != NULL_AREA {
						*stack = append(*stack, levelStackEntry{x, y, i})
					}
				}
			}
		}
	} else {
		// Use cells in the input stack, mark all cells which already have a region.
		for j := range *stack {
			if srcReg[(*stack)[j].index] != 0 {
				(*stack)[j].index = -1
			}
		}
	}

	var dirtyEntries []dirtyEntry
	iter := 0
	for len(*stack) > 0 {
		failed := 0
		dirtyEntries = dirtyEntries[:0]

		for j := range *stack {
			x := (*stack)[j].x
			y := (*stack)[j].y
			i := (*stack)[j].index
			if i < 0 {
				failed++
				continue
			}

			r := srcReg[i]
			d2 := 0xffff
			area := chf.Areas[i]
			s := &chf.Spans[i]
			for dir := 0; dir < 4; dir++ {
				if GetCon(s, dir) == NOT_CONNECTED {
					continue
				}
				ax := x + common.GetDirOffsetX(dir)
				ay := y + common.GetDirOffsetZ(dir)
				ai := chf.Cells[ax+ay*w].Index + GetCon(s, dir)
				if chf.Areas[ai] != area {
					continue
				}
				if srcReg[ai] > 0 && (srcReg[ai]&BORDER_REG) == 0 {
					if srcDist[ai]+2 < d2 {
						r = srcReg[ai]
						d2 = srcDist[ai] + 2
					}
				}
			}
			if r > 0 {
				(*stack)[j].index = -1 // mark as used
				dirtyEntries = append(dirtyEntries, dirtyEntry{i, r, d2})
			} else {
				failed++
			}
		}

		// Copy entries that differ between src and dst to keep them in sync.
		for _, e := range dirtyEntries {
			srcReg[e.index] = e.region
			srcDist[e.index] = e.distance2
		}

		if failed == len(*stack) {
			break
		}

		if level > 0 {
			iter++
			if iter >= maxIter {
				break
			}
		}
	}
}

func sortCellsByLevel(startLevel int, chf *CompactHeightfield, srcReg []int,
	nbStacks int, stacks [][]levelStackEntry, loglevelsPerStack int) {

	w := chf.Width
	h := chf.Height
	startLevel = startLevel >> loglevelsPerStack

	for j := 0; j < nbStacks; j++ {
		stacks[j] = stacks[j][:0]
	}

	// Put all cells in the level range into the appropriate stacks.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				if chf.Areas[i] == NULL_AREA || srcReg[i] != 0 {
					continue
				}

				level := chf.Dist[i] >> loglevelsPerStack
				sId := startLevel - level
				if sId >= nbStacks {
					continue
				}
				if sId < 0 {
					sId = 0
				}

				stacks[sId] = append(stacks[sId], levelStackEntry{x, y, i})
			}
		}
	}
}

func appendStacks(srcStack []levelStackEntry, dstStack *[]levelStackEntry, srcReg []int) {
	for j := range srcStack {
		i := srcStack[j].index
		if i < 0 || srcReg[i] != 0 {
			continue
		}
		*dstStack = append(*dstStack, srcStack[j])
	}
}

type region struct {
	spanCount        int // Number of spans belonging to this region.
	id               int // ID of the region.
	areaType         int // Area type.
	remap            bool
	visited          bool
	overlap          bool
	connectsToBorder bool
	ymin, ymax       int
	connections      []int
	floors           []int
}

func newRegion(i int) *region {
	return &region{
		id:   i,
		ymin: 0xffff,
	}
}

func removeAdjacentNeighbors(reg *region) {
	// Remove adjacent duplicates.
	for i := 0; i < len(reg.connections) && len(reg.connections) > 1; {
		ni := (i + 1) % len(reg.connections)
		if reg.connections[i] == reg.connections[ni] {
			reg.connections = append(reg.connections[:i], reg.connections[i+1:]...)
		} else {
			i++
		}
	}
}

func replaceNeighbor(reg *region, oldId, newId int) {
	neiChanged := false
	for i := range reg.connections {
		if reg.connections[i] == oldId {
			reg.connections[i] = newId
			neiChanged = true
		}
	}
	for i := range reg.floors {
		if reg.floors[i] == oldId {
			reg.floors[i] = newId
		}
	}
	if neiChanged {
		removeAdjacentNeighbors(reg)
	}
}

func canMergeWithRegion(rega, regb *region) bool {
	if rega.areaType != regb.areaType {
		return false
	}
	n := 0
	for i := range rega.connections {
		if rega.connections[i] == regb.id {
			n++
		}
	}
	if n > 1 {
		return false
	}
	for i := range rega.floors {
		if rega.floors[i] == regb.id {
			return false
		}
	}
	return true
}

func addUniqueFloorRegion(reg *region, n int) {
	for _, f := range reg.floors {
		if f == n {
			return
		}
	}
	reg.floors = append(reg.floors, n)
}

func mergeRegions(rega, regb *region) bool {
	aid := rega.id
	bid := regb.id

	// Duplicate current neighborhood.
	acon := make([]int, len(rega.connections))
	copy(acon, rega.connections)
	bcon := regb.connections

	// Find insertion point on A.
	insa := -1
	for i := range acon {
		if acon[i] == bid {
			insa = i
			break
		}
	}
	if insa == -1 {
		return false
	}

	// Find insertion point on B.
	insb := -1
	for i := range bcon {
		if bcon[i] == aid {
			insb = i
			break
		}
	}
	if insb == -1 {
		return false
	}

	// Merge neighbors.
	rega.connections = rega.connections[:0]
	for i, ni := 0, len(acon); i < ni-1; i++ {
		rega.connections = append(rega.connections, acon[(insa+1+i)%ni])
	}
	for i, ni := 0, len(bcon); i < ni-1; i++ {
		rega.connections = append(rega.connections, bcon[(insb+1+i)%ni])
	}
	removeAdjacentNeighbors(rega)

	for _, f := range regb.floors {
		addUniqueFloorRegion(rega, f)
	}

	rega.spanCount += regb.spanCount
	regb.spanCount = 0
	regb.connections = regb.connections[:0]

	return true
}

func isRegionConnectedToBorder(reg *region) bool {
	// Region is connected to border if one of the neighbors is null id.
	for _, c := range reg.connections {
		if c == 0 {
			return true
		}
	}
	return false
}

func isSolidEdge(chf *CompactHeightfield, srcReg []int, x, y, i, dir int) bool {
	s := &chf.Spans[i]
	r := 0
	if GetCon(s, dir) != NOT_CONNECTED {
		ax := x + common.GetDirOffsetX(dir)
		ay := y + common.GetDirOffsetZ(dir)
		ai := chf.Cells[ax+ay*chf.Width].Index + GetCon(s, dir)
		r = srcReg[ai]
	}
	return r != srcReg[i]
}

func regionWalkContour(x, y, i, dir int, chf *CompactHeightfield, srcReg []int, cont *[]int) {
	startDir := dir
	starti := i

	ss := &chf.Spans[i]
	curReg := 0
	if GetCon(ss, dir) != NOT_CONNECTED {
		ax := x + common.GetDirOffsetX(dir)
		ay := y + common.GetDirOffsetZ(dir)
		ai := chf.Cells[ax+ay*chf.Width].Index + GetCon(ss, dir)
		curReg = srcReg[ai]
	}
	*cont = append(*cont, curReg)

	for iter := 0; iter < 40000; iter++ {
		s := &chf.Spans[i]

		if isSolidEdge(chf, srcReg, x, y, i, dir) {
			// Choose the edge corner.
			r := 0
			if GetCon(s, dir) != NOT_CONNECTED {
				ax := x + common.GetDirOffsetX(dir)
				ay := y + common.GetDirOffsetZ(dir)
				ai := chf.Cells[ax+ay*chf.Width].Index + GetCon(s, dir)
				r = srcReg[ai]
			}
			if r != curReg {
				curReg = r
				*cont = append(*cont, curReg)
			}

			dir = (dir + 1) & 0x3 // Rotate CW
		} else {
			ni := -1
			nx := x + common.GetDirOffsetX(dir)
			ny := y + common.GetDirOffsetZ(dir)
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

	// Remove adjacent duplicates.
	if len(*cont) > 1 {
		for j := 0; j < len(*cont); {
			nj := (j + 1) % len(*cont)
			if (*cont)[j] == (*cont)[nj] {
				*cont = append((*cont)[:j], (*cont)[j+1:]...)
			} else {
				j++
			}
		}
	}
}

func mergeAndFilterRegions(ctx *BuildContext, minRegionArea, mergeRegionSize int,
	maxRegionId *int, chf *CompactHeightfield, srcReg []int, overlaps *[]int) bool {
	w := chf.Width
	h := chf.Height

	nreg := *maxRegionId + 1
	regions := make([]*region, 0, nreg)

	// Construct regions.
	for i := 0; i < nreg; i++ {
		regions = append(regions, newRegion(i))
	}

	// Find edge of a region and find connections around the contour.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				r := srcReg[i]
				if r == 0 || r >= nreg {
					continue
				}

				reg := regions[r]
				reg.spanCount++

				// Update floors.
				for j := c.Index; j < ni; j++ {
					if i == j {
						continue
					}
					floorId := srcReg[j]
					if floorId == 0 || floorId >= nreg {
						continue
					}
					if floorId == r {
						reg.overlap = true
					}
					addUniqueFloorRegion(reg, floorId)
				}

				// Have found contour.
				if len(reg.connections) > 0 {
					continue
				}

				reg.areaType = chf.Areas[i]

				// Check if this cell is next to a border.
				ndir := -1
				for dir := 0; dir < 4; dir++ {
					if isSolidEdge(chf, srcReg, x, y, i, dir) {
						ndir = dir
						break
					}
				}

				if ndir != -1 {
					// The cell is at border.
					// Walk around the contour to find all the neighbors.
					regionWalkContour(x, y, i, ndir, chf, srcReg, &reg.connections)
				}
			}
		}
	}

	// Remove too small regions.
	stack := make([]int, 0, 32)
	trace := make([]int, 0, 32)
	for i := 0; i < nreg; i++ {
		reg := regions[i]
		if reg.id == 0 || (reg.id&BORDER_REG) != 0 {
			continue
		}
		if reg.spanCount == 0 {
			continue
		}
		if reg.visited {
			continue
		}

		// Count the total size of all the connected regions.
		// Also keep track of the regions connects to a tile border.
		connectsToBorder := false
		spanCount := 0
		stack = stack[:0]
		trace = trace[:0]

		reg.visited = true
		stack = append(stack, i)

		for len(stack) > 0 {
			// Pop
			ri := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			creg := regions[ri]

			spanCount += creg.spanCount
			trace = append(trace, ri)

			for _, connection := range creg.connections {
				if connection&BORDER_REG != 0 {
					connectsToBorder = true
					continue
				}
				neireg := regions[connection]
				if neireg.visited {
					continue
				}
				if neireg.id == 0 || (neireg.id&BORDER_REG) != 0 {
					continue
				}
				// Visit
				stack = append(stack, neireg.id)
				neireg.visited = true
			}
		}

		// If the accumulated regions size is too small, remove it.
		// Do not remove areas which connect to tile borders as their size
		// cannot be estimated correctly and removing them can potentially
		// remove necessary areas.
		if spanCount < minRegionArea && !connectsToBorder {
			// Kill all visited regions.
			for _, t := range trace {
				regions[t].spanCount = 0
				regions[t].id = 0
			}
		}
	}

	// Merge too small regions to neighbor regions.
	for {
		mergeCount := 0
		for i := 0; i < nreg; i++ {
			reg := regions[i]
			if reg.id == 0 || (reg.id&BORDER_REG) != 0 {
				continue
			}
			if reg.overlap {
				continue
			}
			if reg.spanCount == 0 {
				continue
			}

			// Check to see if the region should be merged.
			if reg.spanCount > mergeRegionSize && isRegionConnectedToBorder(reg) {
				continue
			}

			// Small region with more than 1 connection.
			// Or region which is not connected to a border at all.
			// Find smallest neighbor region that connects to this one.
			// Ties on span count resolve to the smaller region id so that
			// repeated builds stay deterministic.
			smallest := 0xfffffff
			mergeId := reg.id
			for _, connection := range reg.connections {
				if connection&BORDER_REG != 0 {
					continue
				}
				mreg := regions[connection]
				if mreg.id == 0 || (mreg.id&BORDER_REG) != 0 || mreg.overlap {
					continue
				}
				if (mreg.spanCount < smallest || (mreg.spanCount == smallest && mreg.id < mergeId)) &&
					canMergeWithRegion(reg, mreg) &&
					canMergeWithRegion(mreg, reg) {
					smallest = mreg.spanCount
					mergeId = mreg.id
				}
			}
			// Found new id.
			if mergeId != reg.id {
				oldId := reg.id
				target := regions[mergeId]

				// Merge neighbors.
				if mergeRegions(target, reg) {
					// Fixup regions pointing to current region.
					for j := 0; j < nreg; j++ {
						if regions[j].id == 0 || (regions[j].id&BORDER_REG) != 0 {
							continue
						}
						// If another region was already merged into current
						// region change the nid of the previous region too.
						if regions[j].id == oldId {
							regions[j].id = mergeId
						}
						// Replace the current region with the new one if the
						// current region is neighbor.
						replaceNeighbor(regions[j], oldId, mergeId)
					}
					mergeCount++
				}
			}
		}
		if mergeCount == 0 {
			break
		}
	}

	// Compress region Ids.
	for i := 0; i < nreg; i++ {
		regions[i].remap = false
		if regions[i].id == 0 {
			continue // Skip nil regions.
		}
		if regions[i].id&BORDER_REG != 0 {
			continue // Skip external regions.
		}
		regions[i].remap = true
	}

	regIdGen := 0
	for i := 0; i < nreg; i++ {
		if !regions[i].remap {
			continue
		}
		oldId := regions[i].id
		regIdGen++
		newId := regIdGen
		for j := i; j < nreg; j++ {
			if regions[j].id == oldId {
				regions[j].id = newId
				regions[j].remap = false
			}
		}
	}
	*maxRegionId = regIdGen

	// Remap regions.
	for i := 0; i < chf.SpanCount; i++ {
		if (srcReg[i] & BORDER_REG) == 0 {
			srcReg[i] = regions[srcReg[i]].id
		}
	}

	// Return regions that we found to be overlapping.
	for i := 0; i < nreg; i++ {
		if regions[i].overlap {
			*overlaps = append(*overlaps, regions[i].id)
		}
	}

	return true
}

func paintRectRegion(minx, maxx, miny, maxy, regId int, chf *CompactHeightfield, srcReg []int) {
	w := chf.Width
	for y := miny; y < maxy; y++ {
		for x := minx; x < maxx; x++ {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				if chf.Areas[i] != NULL_AREA {
					srcReg[i] = regId
				}
			}
		}
	}
}

type sweepSpan struct {
	rid int // row id
	id  int // region id
	ns  int // number samples
	nei int // neighbor id
}

// / Builds region data for the heightfield using simple monotone partitioning.
// /
// / Non-null regions will consist of connected, non-overlapping walkable
// / spans that form a single contour. Contours will form simple polygons.
// /
// / If multiple regions form an area that is smaller than @p minRegionArea,
// / then all spans will be re-assigned to the zero (null) region.
// /
// / Partitioning can result in smaller than necessary regions.
// / @p mergeRegionArea helps reduce unnecessarily small regions.
// /
// / The region data will be available via the CompactHeightfield MaxRegions
// / and CompactSpan Reg fields.
// /
// / Monotone partitioning does not read the distance field, so
// / #BuildDistanceField is not needed before calling this.
func BuildRegionsMonotone(ctx *BuildContext, chf *CompactHeightfield,
	borderSize, minRegionArea, mergeRegionArea int) bool {

	ctx.StartTimer(TimerBuildRegions)
	defer ctx.StopTimer(TimerBuildRegions)

	w := chf.Width
	h := chf.Height
	id := 1
	srcReg := make([]int, chf.SpanCount)

	nsweeps := common.Max(chf.Width, chf.Height)
	sweeps := make([]sweepSpan, nsweeps)

	// Mark border regions.
	if borderSize > 0 {
		// Make sure border will not overflow.
		bw := common.Min(w, borderSize)
		bh := common.Min(h, borderSize)
		// Paint regions
		paintRectRegion(0, bw, 0, h, id|BORDER_REG, chf, srcReg)
		id++
		paintRectRegion(w-bw, w, 0, h, id|BORDER_REG, chf, srcReg)
		id++
		paintRectRegion(0, w, 0, bh, id|BORDER_REG, chf, srcReg)
		id++
		paintRectRegion(0, w, h-bh, h, id|BORDER_REG, chf, srcReg)
		id++
	}

	chf.BorderSize = borderSize

	prev := make([]int, 256)

	// Sweep one line at a time.
	for y := borderSize; y < h-borderSize; y++ {
		// Collect spans from this row.
		if len(prev) < id+1 {
			prev = make([]int, id+1)
		}
		for i := 0; i < id; i++ {
			prev[i] = 0
		}
		rid := 1

		for x := borderSize; x < w-borderSize; x++ {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				s := &chf.Spans[i]
				if chf.Areas[i] == NULL_AREA {
					continue
				}

				// -x
				previd := 0
				if GetCon(s, 0) != NOT_CONNECTED {
					ax := x + common.GetDirOffsetX(0)
					ay := y + common.GetDirOffsetZ(0)
					ai := chf.Cells[ax+ay*w].Index + GetCon(s, 0)
					if (srcReg[ai]&BORDER_REG) == 0 && chf.Areas[i] == chf.Areas[ai] {
						previd = srcReg[ai]
					}
				}

				if previd == 0 {
					previd = rid
					rid++
					sweeps[previd].rid = previd
					sweeps[previd].ns = 0
					sweeps[previd].nei = 0
				}

				// -y
				if GetCon(s, 3) != NOT_CONNECTED {
					ax := x + common.GetDirOffsetX(3)
					ay := y + common.GetDirOffsetZ(3)
					ai := chf.Cells[ax+ay*w].Index + GetCon(s, 3)
					if srcReg[ai] > 0 && (srcReg[ai]&BORDER_REG) == 0 && chf.Areas[i] == chf.Areas[ai] {
						nr := srcReg[ai]
						if sweeps[previd].nei == 0 || sweeps[previd].nei == nr {
							sweeps[previd].nei = nr
							sweeps[previd].ns++
							prev[nr]++
						} else {
							sweeps[previd].nei = nullNei
						}
					}
				}

				srcReg[i] = previd
			}
		}

		// Create unique ID.
		for i := 1; i < rid; i++ {
			if sweeps[i].nei != nullNei && sweeps[i].nei != 0 && prev[sweeps[i].nei] == sweeps[i].ns {
				sweeps[i].id = sweeps[i].nei
			} else {
				sweeps[i].id = id
				id++
			}
		}

		// Remap IDs
		for x := borderSize; x < w-borderSize; x++ {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				if srcReg[i] > 0 && srcReg[i] < rid {
					srcReg[i] = sweeps[srcReg[i]].id
				}
			}
		}
	}

	// Merge regions and filter out small regions.
	var overlaps []int
	chf.MaxRegions = id
	if !mergeAndFilterRegions(ctx, minRegionArea, mergeRegionArea, &chf.MaxRegions, chf, srcReg, &overlaps) {
		return false
	}

	// Monotone partitioning does not generate overlapping regions.

	// Store the result out.
	for i := 0; i < chf.SpanCount; i++ {
		chf.Spans[i].Reg = srcReg[i]
	}

	return true
}

// / Builds region data for the heightfield using watershed partitioning.
// /
// / Non-null regions will consist of connected, non-overlapping walkable
// / spans that form a single contour. Contours will form simple polygons.
// /
// / If multiple regions form an area that is smaller than @p minRegionArea,
// / then all spans will be re-assigned to the zero (null) region.
// /
// / Watershed partitioning can result in smaller than necessary regions,
// / especially in diagonal corridors. @p mergeRegionArea helps reduce
// / unnecessarily small regions.
// /
// / The region data will be available via the CompactHeightfield MaxRegions
// / and CompactSpan Reg fields.
// /
// / @warning The distance field must be created using #BuildDistanceField
// / before attempting to build regions.
func BuildRegions(ctx *BuildContext, chf *CompactHeightfield,
	borderSize, minRegionArea, mergeRegionArea int) bool {

	ctx.StartTimer(TimerBuildRegions)
	defer ctx.StopTimer(TimerBuildRegions)

	w := chf.Width
	h := chf.Height
	buf := make([]int, chf.SpanCount*2)

	ctx.StartTimer(TimerBuildRegionsWatershed)

	const logNbStacks = 3
	const nbStacks = 1 << logNbStacks
	lvlStacks := make([][]levelStackEntry, nbStacks)
	for i := range lvlStacks {
		lvlStacks[i] = make([]levelStackEntry, 0, 256)
	}
	stack := make([]levelStackEntry, 0, 256)

	srcReg := buf[:chf.SpanCount]
	srcDist := buf[chf.SpanCount:]

	regionId := 1
	level := (chf.MaxDistance + 1) &^ 1

	// TODO: Figure better formula, expandIters defines how much the
	// watershed "overflows" and simplifies the regions. Tying it to
	// agent radius was usually good indication how greedy it could be.
	// const int expandIters = 4 + walkableRadius * 2
	const expandIters = 8

	if borderSize > 0 {
		// Make sure border will not overflow.
		bw := common.Min(w, borderSize)
		bh := common.Min(h, borderSize)

		// Paint regions
		paintRectRegion(0, bw, 0, h, regionId|BORDER_REG, chf, srcReg)
		regionId++
		paintRectRegion(w-bw, w, 0, h, regionId|BORDER_REG, chf, srcReg)
		regionId++
		paintRectRegion(0, w, 0, bh, regionId|BORDER_REG, chf, srcReg)
		regionId++
		paintRectRegion(0, w, h-bh, h, regionId|BORDER_REG, chf, srcReg)
		regionId++
	}

	chf.BorderSize = borderSize

	sId := -1
	for level > 0 {
		if level >= 2 {
			level -= 2
		} else {
			level = 0
		}
		sId = (sId + 1) & (nbStacks - 1)

		if sId == 0 {
			sortCellsByLevel(level, chf, srcReg, nbStacks, lvlStacks, 1)
		} else {
			// Copy left overs from last level.
			appendStacks(lvlStacks[sId-1], &lvlStacks[sId], srcReg)
		}

		// Expand current regions until no empty connected cells found.
		ctx.StartTimer(TimerBuildRegionsExpand)
		expandRegions(expandIters, level, chf, srcReg, srcDist, &lvlStacks[sId], false)
		ctx.StopTimer(TimerBuildRegionsExpand)

		// Mark new regions with IDs.
		ctx.StartTimer(TimerBuildRegionsFlood)
		for j := range lvlStacks[sId] {
			current := lvlStacks[sId][j]
			x := current.x
			y := current.y
			i := current.index
			if i >= 0 && srcReg[i] == 0 {
				if floodRegion(x, y, i, level, regionId, chf, srcReg, srcDist, &stack) {
					if regionId == 0xffff {
						ctx.Errorf("BuildRegions: region id overflow")
						ctx.StopTimer(TimerBuildRegionsFlood)
						ctx.StopTimer(TimerBuildRegionsWatershed)
						return false
					}
					regionId++
				}
			}
		}
		ctx.StopTimer(TimerBuildRegionsFlood)
	}

	// Expand current regions until no empty connected cells found.
	ctx.StartTimer(TimerBuildRegionsExpand)
	expandRegions(expandIters*8, 0, chf, srcReg, srcDist, &stack, true)
	ctx.StopTimer(TimerBuildRegionsExpand)

	ctx.StopTimer(TimerBuildRegionsWatershed)

	// Merge regions and filter out small regions.
	ctx.StartTimer(TimerBuildRegionsFilter)
	var overlaps []int
	chf.MaxRegions = regionId
	if !mergeAndFilterRegions(ctx, minRegionArea, mergeRegionArea, &chf.MaxRegions, chf, srcReg, &overlaps) {
		ctx.StopTimer(TimerBuildRegionsFilter)
		return false
	}

	// If overlapping regions were found during merging, split those regions.
	if len(overlaps) > 0 {
		ctx.Errorf("BuildRegions: %d overlapping regions", len(overlaps))
	}
	ctx.StopTimer(TimerBuildRegionsFilter)

	// Write the result out.
	for i := 0; i < chf.SpanCount; i++ {
		chf.Spans[i].Reg = srcReg[i]
	}

	return true
}
