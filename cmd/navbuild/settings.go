package main

import (
	"os"

	"github.com/hjson/hjson-go/v4"
)

// BuildSettings is the hjson document accepted by --config. World-unit
// agent parameters are quantized to voxel units against the cell sizes.
type BuildSettings struct {
	CellSize   float32 `json:"cellSize"`
	CellHeight float32 `json:"cellHeight"`

	AgentHeight   float32 `json:"agentHeight"`
	AgentRadius   float32 `json:"agentRadius"`
	AgentMaxClimb float32 `json:"agentMaxClimb"`
	AgentMaxSlope float32 `json:"agentMaxSlope"`

	RegionMinSize   float32 `json:"regionMinSize"`
	RegionMergeSize float32 `json:"regionMergeSize"`

	EdgeMaxLen   float32 `json:"edgeMaxLen"`
	EdgeMaxError float32 `json:"edgeMaxError"`
	VertsPerPoly int     `json:"vertsPerPoly"`

	DetailSampleDist     float32 `json:"detailSampleDist"`
	DetailSampleMaxError float32 `json:"detailSampleMaxError"`

	TileSize   int `json:"tileSize"`
	BorderSize int `json:"borderSize"`
}

// defaultSettings mirrors the demo sample defaults.
func defaultSettings() *BuildSettings {
	return &BuildSettings{
		CellSize:             0.3,
		CellHeight:           0.2,
		AgentHeight:          2.0,
		AgentRadius:          0.6,
		AgentMaxClimb:        0.9,
		AgentMaxSlope:        45.0,
		RegionMinSize:        8,
		RegionMergeSize:      20,
		EdgeMaxLen:           12,
		EdgeMaxError:         1.3,
		VertsPerPoly:         6,
		DetailSampleDist:     6,
		DetailSampleMaxError: 1,
	}
}

func loadSettings(path string) (*BuildSettings, error) {
	settings := defaultSettings()
	if path == "" {
		return settings, nil
	}
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := hjson.Unmarshal(fileData, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
