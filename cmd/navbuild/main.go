package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"voxnav/navgen"
)

const VERSION = "0.1.0"

func newLogger(logFile string) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zapcore.InfoLevel,
	)
	if logFile == "" {
		return zap.New(consoleCore)
	}

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	})
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileSink, zapcore.InfoLevel)
	return zap.New(zapcore.NewTee(consoleCore, fileCore))
}

func buildCmd() *cobra.Command {
	var (
		meshPath   string
		configFile string
		outPath    string
		format     string
		partition  string
		logFile    string
	)
	c := &cobra.Command{
		Use:   "build",
		Short: "build a navigation poly mesh from a triangle mesh",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logFile)
			defer logger.Sync()

			settings, err := loadSettings(configFile)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			geom, err := loadObjMesh(meshPath)
			if err != nil {
				return fmt.Errorf("load mesh: %w", err)
			}

			bmin, bmax := meshBounds(geom)
			cfg := navgen.NewConfig(settings.CellSize, settings.CellHeight,
				settings.AgentHeight, settings.AgentRadius, settings.AgentMaxClimb,
				bmin[:], bmax[:])
			cfg.WalkableSlopeAngle = settings.AgentMaxSlope
			cfg.MaxEdgeLen = int(settings.EdgeMaxLen / settings.CellSize)
			cfg.MaxSimplificationError = settings.EdgeMaxError
			cfg.MinRegionArea = int(settings.RegionMinSize * settings.RegionMinSize)
			cfg.MergeRegionArea = int(settings.RegionMergeSize * settings.RegionMergeSize)
			cfg.MaxVertsPerPoly = settings.VertsPerPoly
			cfg.TileSize = settings.TileSize
			cfg.BorderSize = settings.BorderSize
			cfg.DetailSampleDist = 0
			if settings.DetailSampleDist >= 0.9 {
				cfg.DetailSampleDist = settings.CellSize * settings.DetailSampleDist
			}
			cfg.DetailSampleMaxError = settings.CellHeight * settings.DetailSampleMaxError

			opts := &navgen.BuildOptions{
				ContourFlags: navgen.CONTOUR_TESS_WALL_EDGES,
			}
			switch partition {
			case "watershed":
				opts.Partition = navgen.PartitionWatershed
			case "monotone":
				opts.Partition = navgen.PartitionMonotone
			default:
				return fmt.Errorf("unknown partition type %q", partition)
			}

			ctx := navgen.NewBuildContext(logger)
			result, ok := navgen.BuildPolyMeshFromGeometry(ctx, cfg, geom, opts)
			if !ok {
				return fmt.Errorf("build failed")
			}

			var data []byte
			switch format {
			case "bin":
				data = result.Mesh.ToBin()
			case "msgpack":
				data, err = result.Mesh.ToMsgpack()
				if err != nil {
					return fmt.Errorf("encode mesh: %w", err)
				}
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			total := ctx.AccumulatedTime(navgen.TimerTotal)
			logger.Info("navmesh built",
				zap.String("out", outPath),
				zap.Int("verts", result.Mesh.NVerts),
				zap.Int("polys", result.Mesh.NPolys),
				zap.Float64("buildTimeMs", math.Round(float64(total.Microseconds()))/1000),
			)
			return nil
		},
	}
	c.Flags().StringVar(&meshPath, "mesh", "", "input mesh (wavefront obj)")
	c.Flags().StringVar(&configFile, "config", "", "build settings file (hjson)")
	c.Flags().StringVar(&outPath, "out", "navmesh.bin", "output file")
	c.Flags().StringVar(&format, "format", "bin", "output format: bin|msgpack")
	c.Flags().StringVar(&partition, "partition", "watershed", "region partitioning: watershed|monotone")
	c.Flags().StringVar(&logFile, "log-file", "", "also write logs to this rotating file")
	c.MarkFlagRequired("mesh")
	return c
}

func main() {
	root := &cobra.Command{
		Use:     "navbuild",
		Short:   "navigation mesh build toolkit",
		Version: VERSION,
	}
	root.AddCommand(buildCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
