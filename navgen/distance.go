package navgen

import (
	"voxnav/common"
)

func calculateDistanceField(chf *CompactHeightfield, src []int, maxDist *int) {
	w := chf.Width
	h := chf.Height

	// Init distance and points.
	for i := 0; i < chf.SpanCount; i++ {
		src[i] = 0xffff
	}

	// Mark boundary cells.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				s := &chf.Spans[i]
				area := chf.Areas[i]

				nc := 0
				for dir := 0; dir < 4; dir++ {
					if GetCon(s, dir) != NOT_CONNECTED {
						ax := x + common.GetDirOffsetX(dir)
						ay := y + common.GetDirOffsetZ(dir)
						ai := chf.Cells[ax+ay*w].Index + GetCon(s, dir)
						if area == chf.Areas[ai] {
							nc++
						}
					}
				}
				if nc != 4 {
					src[i] = 0
				}
			}
		}
	}

	// Pass 1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				s := &chf.Spans[i]

				if GetCon(s, 0) != NOT_CONNECTED {
					// (-1,0)
					ax := x + common.GetDirOffsetX(0)
					ay := y + common.GetDirOffsetZ(0)
					ai := chf.Cells[ax+ay*w].Index + GetCon(s, 0)
					as := &chf.Spans[ai]
					if src[ai]+2 < src[i] {
						src[i] = src[ai] + 2
					}

					// (-1,-1)
					if GetCon(as, 3) != NOT_CONNECTED {
						aax := ax + common.GetDirOffsetX(3)
						aay := ay + common.GetDirOffsetZ(3)
						aai := chf.Cells[aax+aay*w].Index + GetCon(as, 3)
						if src[aai]+3 < src[i] {
							src[i] = src[aai] + 3
						}
					}
				}
				if GetCon(s, 3) != NOT_CONNECTED {
					// (0,-1)
					ax := x + common.GetDirOffsetX(3)
					ay := y + common.GetDirOffsetZ(3)
					ai := chf.Cells[ax+ay*w].Index + GetCon(s, 3)
					as := &chf.Spans[ai]
					if src[ai]+2 < src[i] {
						src[i] = src[ai] + 2
					}

					// (1,-1)
					if GetCon(as, 2) != NOT_CONNECTED {
						aax := ax + common.GetDirOffsetX(2)
						aay := ay + common.GetDirOffsetZ(2)
						aai := chf.Cells[aax+aay*w].Index + GetCon(as, 2)
						if src[aai]+3 < src[i] {
							src[i] = src[aai] + 3
						}
					}
				}
			}
		}
	}

	// Pass 2
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				s := &chf.Spans[i]

				if GetCon(s, 2) != NOT_CONNECTED {
					// (1,0)
					ax := x + common.GetDirOffsetX(2)
					ay := y + common.GetDirOffsetZ(2)
					ai := chf.Cells[ax+ay*w].Index + GetCon(s, 2)
					as := &chf.Spans[ai]
					if src[ai]+2 < src[i] {
						src[i] = src[ai] + 2
					}

					// (1,1)
					if GetCon(as, 1) != NOT_CONNECTED {
						aax := ax + common.GetDirOffsetX(1)
						aay := ay + common.GetDirOffsetZ(1)
						aai := chf.Cells[aax+aay*w].Index + GetCon(as, 1)
						if src[aai]+3 < src[i] {
							src[i] = src[aai] + 3
						}
					}
				}
				if GetCon(s, 1) != NOT_CONNECTED {
					// (0,1)
					ax := x + common.GetDirOffsetX(1)
					ay := y + common.GetDirOffsetZ(1)
					ai := chf.Cells[ax+ay*w].Index + GetCon(s, 1)
					as := &chf.Spans[ai]
					if src[ai]+2 < src[i] {
						src[i] = src[ai] + 2
					}

					// (-1,1)
					if GetCon(as, 0) != NOT_CONNECTED {
						aax := ax + common.GetDirOffsetX(0)
						aay := ay + common.GetDirOffsetZ(0)
						aai := chf.Cells[aax+aay*w].Index + GetCon(as, 0)
						if src[aai]+3 < src[i] {
							src[i] = src[aai] + 3
						}
					}
				}
			}
		}
	}

	*maxDist = 0
	for i := 0; i < chf.SpanCount; i++ {
		*maxDist = common.Max(src[i], *maxDist)
	}
}

func boxBlur(chf *CompactHeightfield, thr int, src, dst []int) []int {
	w := chf.Width
	h := chf.Height

	thr *= 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := &chf.Cells[x+y*w]
			for i, ni := c.Index, c.Index+c.Count; i < ni; i++ {
				s := &chf.Spans[i]
				cd := src[i]
				if cd <= thr {
					dst[i] = cd
					continue
				}

				d := cd
				for dir := 0; dir < 4; dir++ {
					if GetCon(s, dir) != NOT_CONNECTED {
						ax := x + common.GetDirOffsetX(dir)
						ay := y + common.GetDirOffsetZ(dir)
						ai := chf.Cells[ax+ay*w].Index + GetCon(s, dir)
						d += src[ai]

						as := &chf.Spans[ai]
						dir2 := (dir + 1) & 0x3
						if GetCon(as, dir2) != NOT_CONNECTED {
							ax2 := ax + common.GetDirOffsetX(dir2)
							ay2 := ay + common.GetDirOffsetZ(dir2)
							ai2 := chf.Cells[ax2+ay2*w].Index + GetCon(as, dir2)
							d += src[ai2]
						} else {
							d += cd
						}
					} else {
						d += cd * 2
					}
				}
				dst[i] = (d + 5) / 9
			}
		}
	}
	return dst
}

// / Builds the distance field for the specified compact heightfield.
// /
// / This is usually the second to the last step in creating a fully built
// / compact heightfield. This step is required before regions are built
// / using #BuildRegions or #BuildRegionsMonotone.
// /
// / After this step, the distance data is available via the
// / CompactHeightfield MaxDistance and Dist fields.
func BuildDistanceField(ctx *BuildContext, chf *CompactHeightfield) bool {
	ctx.StartTimer(TimerBuildDistanceField)
	defer ctx.StopTimer(TimerBuildDistanceField)

	src := make([]int, chf.SpanCount)
	dst := make([]int, chf.SpanCount)

	maxDist := 0
	ctx.StartTimer(TimerBuildDistanceFieldDist)
	calculateDistanceField(chf, src, &maxDist)
	ctx.StopTimer(TimerBuildDistanceFieldDist)
	chf.MaxDistance = maxDist

	// Blur and store distance.
	ctx.StartTimer(TimerBuildDistanceFieldBlur)
	chf.Dist = boxBlur(chf, 1, src, dst)
	ctx.StopTimer(TimerBuildDistanceFieldBlur)

	return true
}
