package navgen

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// / Build log categories.
type LogCategory int

const (
	LogProgress LogCategory = 1 + iota ///< A progress log entry.
	LogWarning                         ///< A warning log entry.
	LogError                           ///< An error log entry.
)

// / Build performance timer labels.
type TimerLabel int

const (
	/// The user defined total time of the build.
	TimerTotal TimerLabel = iota
	/// A user defined build time.
	TimerTemp
	/// The time to rasterize the triangles.
	TimerRasterizeTriangles
	/// The time to build the compact heightfield.
	TimerBuildCompactHeightfield
	/// The total time to build the contours.
	TimerBuildContours
	/// The time to trace the boundaries of the contours.
	TimerBuildContoursTrace
	/// The time to simplify the contours.
	TimerBuildContoursSimplify
	/// The time to filter ledge spans.
	TimerFilterBorder
	/// The time to filter low height spans.
	TimerFilterWalkable
	/// The time to apply the median filter.
	TimerMedianArea
	/// The time to filter low obstacles.
	TimerFilterLowObstacles
	/// The time to build the polygon mesh.
	TimerBuildPolyMesh
	/// The time to merge polygon meshes.
	TimerMergePolyMesh
	/// The time to erode the walkable area.
	TimerErodeArea
	/// The time to mark a box area.
	TimerMarkBoxArea
	/// The time to mark a cylinder area.
	TimerMarkCylinderArea
	/// The time to mark a convex polygon area.
	TimerMarkConvexPolyArea
	/// The total time to build the distance field.
	TimerBuildDistanceField
	/// The time to build the distances of the distance field.
	TimerBuildDistanceFieldDist
	/// The time to blur the distance field.
	TimerBuildDistanceFieldBlur
	/// The total time to build the regions.
	TimerBuildRegions
	/// The time to apply the watershed algorithm.
	TimerBuildRegionsWatershed
	/// The time to expand regions while applying the watershed algorithm.
	TimerBuildRegionsExpand
	/// The time to flood regions while applying the watershed algorithm.
	TimerBuildRegionsFlood
	/// The time to filter out small regions.
	TimerBuildRegionsFilter

	timerLabelMax
)

// / Provides an interface for optional logging and performance tracking of
// / the build process.
// /
// / All stage entry points accept a context; a nil context disables both
// / logging and timing, and every method is safe to call on it.
type BuildContext struct {
	logEnabled   bool
	timerEnabled bool

	logger *zap.Logger

	accTime   [timerLabelMax]time.Duration
	startTime [timerLabelMax]time.Time
}

// / Creates a context backed by the given zap logger. Pass nil to create a
// / context that only accumulates timers.
func NewBuildContext(logger *zap.Logger) *BuildContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuildContext{
		logEnabled:   true,
		timerEnabled: true,
		logger:       logger,
	}
}

// / Enables or disables logging.
func (ctx *BuildContext) EnableLog(enabled bool) {
	if ctx == nil {
		return
	}
	ctx.logEnabled = enabled
}

// / Enables or disables the performance timers.
func (ctx *BuildContext) EnableTimer(enabled bool) {
	if ctx == nil {
		return
	}
	ctx.timerEnabled = enabled
}

// / Logs a message with the given category.
func (ctx *BuildContext) Log(category LogCategory, format string, args ...any) {
	if ctx == nil || !ctx.logEnabled {
		return
	}
	msg := fmt.Sprintf(format, args...)
	switch category {
	case LogProgress:
		ctx.logger.Info(msg)
	case LogWarning:
		ctx.logger.Warn(msg)
	case LogError:
		ctx.logger.Error(msg)
	}
}

func (ctx *BuildContext) Progressf(format string, args ...any) {
	ctx.Log(LogProgress, format, args...)
}

func (ctx *BuildContext) Warningf(format string, args ...any) {
	ctx.Log(LogWarning, format, args...)
}

func (ctx *BuildContext) Errorf(format string, args ...any) {
	ctx.Log(LogError, format, args...)
}

// / Clears all accumulated timers.
func (ctx *BuildContext) ResetTimers() {
	if ctx == nil {
		return
	}
	for i := range ctx.accTime {
		ctx.accTime[i] = 0
	}
}

// / Starts the timer for the given label.
func (ctx *BuildContext) StartTimer(label TimerLabel) {
	if ctx == nil || !ctx.timerEnabled {
		return
	}
	ctx.startTime[label] = time.Now()
}

// / Stops the timer for the given label and accumulates the elapsed time.
func (ctx *BuildContext) StopTimer(label TimerLabel) {
	if ctx == nil || !ctx.timerEnabled {
		return
	}
	ctx.accTime[label] += time.Since(ctx.startTime[label])
}

// / Returns the accumulated time for the label, or -1 when the timers are
// / disabled.
func (ctx *BuildContext) AccumulatedTime(label TimerLabel) time.Duration {
	if ctx == nil || !ctx.timerEnabled {
		return -1
	}
	return ctx.accTime[label]
}
