package navgen

import (
	"voxnav/common"
)

// Spans are capped to this ceiling when a column has no span above them.
const maxHeight = 0xffff

// / Marks non-walkable spans as walkable if their maximum is within
// / @p walkableClimb of the span below them.
// /
// / This removes small obstacles and rasterization artifacts that the agent
// / would be able to walk over such as curbs, and also allows agents to move
// / up terraced structures like stairs.
// /
// / Obstacle spans are marked walkable if: obstacleSpan.Smax - walkableSpan.Smax <= walkableClimb
func FilterLowHangingWalkableObstacles(ctx *BuildContext, walkableClimb int, heightfield *Heightfield) {
	ctx.StartTimer(TimerFilterLowObstacles)
	defer ctx.StopTimer(TimerFilterLowObstacles)

	xSize := heightfield.Width
	zSize := heightfield.Height

	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			var previousSpan *Span
			previousWasWalkable := false
			previousArea := NULL_AREA

			for span := heightfield.Column(x, z); span != nil; span = heightfield.Next(span) {
				walkable := span.Area != NULL_AREA
				// If current span is not walkable, but there is walkable
				// span just below it, mark the span above it walkable too.
				if !walkable && previousWasWalkable {
					if common.Abs(span.Smax-previousSpan.Smax) <= walkableClimb {
						span.Area = previousArea
					}
				}
				// Copy walkable flag so that it cannot propagate
				// past multiple non-walkable objects.
				previousWasWalkable = walkable
				previousArea = span.Area
				previousSpan = span
			}
		}
	}
}

// / Marks spans that are ledges as not-walkable.
// /
// / A ledge is a span with one or more neighbors whose maximum is further
// / away than @p walkableClimb from the current span's maximum. This method
// / removes the impact of the overestimation of conservative voxelization so
// / the resulting mesh will not have regions hanging in the air over ledges.
func FilterLedgeSpans(ctx *BuildContext, walkableHeight, walkableClimb int, heightfield *Heightfield) {
	ctx.StartTimer(TimerFilterBorder)
	defer ctx.StopTimer(TimerFilterBorder)

	xSize := heightfield.Width
	zSize := heightfield.Height

	// Mark spans that are adjacent to a ledge as unwalkable..
	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			for span := heightfield.Column(x, z); span != nil; span = heightfield.Next(span) {
				// Skip non-walkable spans.
				if span.Area == NULL_AREA {
					continue
				}

				bot := span.Smax
				top := maxHeight
				if next := heightfield.Next(span); next != nil {
					top = next.Smin
				}

				// Find neighbors' minimum height.
				minNeighborHeight := maxHeight

				// Min and max height of accessible neighbors.
				accessibleNeighborMinHeight := span.Smax
				accessibleNeighborMaxHeight := span.Smax

				for direction := 0; direction < 4; direction++ {
					dx := x + common.GetDirOffsetX(direction)
					dz := z + common.GetDirOffsetZ(direction)
					// Skip neighbors which are out of bounds.
					if dx < 0 || dz < 0 || dx >= xSize || dz >= zSize {
						minNeighborHeight = common.Min(minNeighborHeight, -walkableClimb-bot)
						continue
					}

					// The gap from minus infinity up to the first neighbor span.
					neighborBot := -walkableClimb
					neighborTop := maxHeight
					if firstNeighbor := heightfield.Column(dx, dz); firstNeighbor != nil {
						neighborTop = firstNeighbor.Smin
					}
					// Skip neighbor if the gap between the spans is too small.
					if common.Min(top, neighborTop)-common.Max(bot, neighborBot) > walkableHeight {
						minNeighborHeight = common.Min(minNeighborHeight, neighborBot-bot)
					}

					// Rest of the spans.
					for neighborSpan := heightfield.Column(dx, dz); neighborSpan != nil; neighborSpan = heightfield.Next(neighborSpan) {
						neighborBot = neighborSpan.Smax
						neighborTop = maxHeight
						if next := heightfield.Next(neighborSpan); next != nil {
							neighborTop = next.Smin
						}

						// Skip neighbor if the gap between the spans is too small.
						if common.Min(top, neighborTop)-common.Max(bot, neighborBot) > walkableHeight {
							minNeighborHeight = common.Min(minNeighborHeight, neighborBot-bot)

							// Find min/max accessible neighbor height.
							if common.Abs(neighborBot-bot) <= walkableClimb {
								accessibleNeighborMinHeight = common.Min(accessibleNeighborMinHeight, neighborBot)
								accessibleNeighborMaxHeight = common.Max(accessibleNeighborMaxHeight, neighborBot)
							}
						}
					}
				}

				if minNeighborHeight < -walkableClimb {
					// The current span is close to a ledge if the drop to any
					// neighbor span is greater than the walkableClimb.
					span.Area = NULL_AREA
				} else if (accessibleNeighborMaxHeight - accessibleNeighborMinHeight) > walkableClimb {
					// If the difference between all neighbors is too large,
					// we are at steep slope, mark the span as ledge.
					span.Area = NULL_AREA
				}
			}
		}
	}
}

// / Marks walkable spans as not walkable if the clearance above the span is
// / less than the specified walkableHeight.
// /
// / For this filter, the clearance above the span is the distance from the
// / span's maximum to the minimum of the next higher span in the same column.
// / If there is no higher span in the column, the clearance is computed as
// / the distance from the top of the span to the maximum heightfield height.
func FilterWalkableLowHeightSpans(ctx *BuildContext, walkableHeight int, heightfield *Heightfield) {
	ctx.StartTimer(TimerFilterWalkable)
	defer ctx.StopTimer(TimerFilterWalkable)

	xSize := heightfield.Width
	zSize := heightfield.Height

	// Remove walkable flag from spans which do not have enough
	// space above them for the agent to stand there.
	for z := 0; z < zSize; z++ {
		for x := 0; x < xSize; x++ {
			for span := heightfield.Column(x, z); span != nil; span = heightfield.Next(span) {
				bot := span.Smax
				top := maxHeight
				if next := heightfield.Next(span); next != nil {
					top = next.Smin
				}
				if (top - bot) < walkableHeight {
					span.Area = NULL_AREA
				}
			}
		}
	}
}
