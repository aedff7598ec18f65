/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package slicer manages slicing parameters and drives the external
// slicer CLI.
package slicer

import (
	"fmt"
	"strings"
)

type QualityLevel string

const (
	QualityDraft    QualityLevel = "draft"    // fast, lower quality (0.28mm)
	QualityStandard QualityLevel = "standard" // balanced (0.20mm)
	QualityQuality  QualityLevel = "quality"  // higher quality (0.16mm)
	QualityFine     QualityLevel = "fine"     // fine detail (0.12mm)
	QualityUltra    QualityLevel = "ultra"    // maximum quality (0.08mm)
)

type InfillPattern string

const (
	InfillGrid          InfillPattern = "grid"
	InfillGyroid        InfillPattern = "gyroid"
	InfillHoneycomb     InfillPattern = "honeycomb"
	InfillCubic         InfillPattern = "cubic"
	InfillLine          InfillPattern = "line"
	InfillRectilinear   InfillPattern = "rectilinear"
	InfillTriangles     InfillPattern = "triangles"
	InfillAdaptiveCubic InfillPattern = "adaptivecubic"
)

type SupportType string

const (
	SupportNone    SupportType = "none"
	SupportNormal  SupportType = "normal"
	SupportTree    SupportType = "tree"
	SupportOrganic SupportType = "organic"
)

type BedType string

const (
	BedCoolPlate        BedType = "Cool Plate"
	BedEngineeringPlate BedType = "Engineering Plate"
	BedHighTempPlate    BedType = "High Temp Plate"
	BedTexturedPEI      BedType = "Textured PEI Plate"
)

// Parameters is a complete slicing parameter set. Field names map to
// the slicer's configuration options.
type Parameters struct {
	LayerHeight        float64 `json:"layer_height"`
	InitialLayerHeight float64 `json:"initial_layer_height"`

	WallLoops         int     `json:"wall_loops"`
	WallThickness     float64 `json:"wall_thickness"`
	TopShellLayers    int     `json:"top_shell_layers"`
	BottomShellLayers int     `json:"bottom_shell_layers"`

	SparseInfillDensity float64       `json:"sparse_infill_density"` // percent
	SparseInfillPattern InfillPattern `json:"sparse_infill_pattern"`

	OuterWallSpeed    float64 `json:"outer_wall_speed"`
	InnerWallSpeed    float64 `json:"inner_wall_speed"`
	SparseInfillSpeed float64 `json:"sparse_infill_speed"`
	TravelSpeed       float64 `json:"travel_speed"`
	InitialLayerSpeed float64 `json:"initial_layer_speed"`

	NozzleTemperature             int `json:"nozzle_temperature"`
	NozzleTemperatureInitialLayer int `json:"nozzle_temperature_initial_layer"`
	BedTemperature                int `json:"bed_temperature"`
	BedTemperatureInitialLayer    int `json:"bed_temperature_initial_layer"`

	SupportType           SupportType `json:"support_type"`
	SupportThresholdAngle int         `json:"support_threshold_angle"`

	BedType BedType `json:"bed_type"`

	BrimWidth float64 `json:"brim_width"` // 0 = disabled
	BrimType  string  `json:"brim_type"`

	RetractionLength float64 `json:"retraction_length"`
	RetractionSpeed  float64 `json:"retraction_speed"`
	ZHop             float64 `json:"z_hop"`

	SeamPosition string `json:"seam_position"`
	Ironing      bool   `json:"ironing"`

	FilamentType    string  `json:"filament_type"`
	FilamentDensity float64 `json:"filament_density"` // g/cm³
	FilamentCost    float64 `json:"filament_cost"`    // per kg
}

// DefaultParameters returns the baseline parameter set for a 0.4mm
// nozzle and PLA.
func DefaultParameters() Parameters {
	return Parameters{
		LayerHeight:        0.20,
		InitialLayerHeight: 0.20,

		WallLoops:         2,
		WallThickness:     0.8,
		TopShellLayers:    4,
		BottomShellLayers: 4,

		SparseInfillDensity: 15.0,
		SparseInfillPattern: InfillGyroid,

		OuterWallSpeed:    60.0,
		InnerWallSpeed:    80.0,
		SparseInfillSpeed: 150.0,
		TravelSpeed:       300.0,
		InitialLayerSpeed: 30.0,

		NozzleTemperature:             220,
		NozzleTemperatureInitialLayer: 220,
		BedTemperature:                60,
		BedTemperatureInitialLayer:    60,

		SupportType:           SupportNone,
		SupportThresholdAngle: 45,

		BedType: BedCoolPlate,

		BrimType: "outer_only",

		RetractionLength: 0.8,
		RetractionSpeed:  30.0,
		ZHop:             0.4,

		SeamPosition: "aligned",

		FilamentType:    "PLA",
		FilamentDensity: 1.24,
		FilamentCost:    25.0,
	}
}

// CLIArgs converts the parameter set to slicer CLI arguments.
func (p *Parameters) CLIArgs() []string {
	args := []string{
		fmt.Sprintf("--layer-height=%g", p.LayerHeight),
		fmt.Sprintf("--first-layer-height=%g", p.InitialLayerHeight),
		fmt.Sprintf("--wall-loops=%d", p.WallLoops),
		fmt.Sprintf("--top-shell-layers=%d", p.TopShellLayers),
		fmt.Sprintf("--bottom-shell-layers=%d", p.BottomShellLayers),
		fmt.Sprintf("--sparse-infill-density=%g", p.SparseInfillDensity),
		fmt.Sprintf("--sparse-infill-pattern=%s", p.SparseInfillPattern),
		fmt.Sprintf("--curr-bed-type=%s", p.BedType),
	}
	if p.SupportType != SupportNone && p.SupportType != "" {
		args = append(args, fmt.Sprintf("--support-type=%s", p.SupportType))
	}
	return args
}

// Validate checks the parameter set against the nozzle geometry.
func (p *Parameters) Validate(nozzleDiameter float64) error {
	var issues []string
	if nozzleDiameter > 0 && p.LayerHeight > 0.75*nozzleDiameter {
		issues = append(issues, fmt.Sprintf(
			"layer height %.2f exceeds 75%% of nozzle diameter %.1f", p.LayerHeight, nozzleDiameter))
	}
	if p.InitialLayerHeight > 0 && p.InitialLayerHeight < p.LayerHeight {
		issues = append(issues, fmt.Sprintf(
			"initial layer height %.2f is below layer height %.2f", p.InitialLayerHeight, p.LayerHeight))
	}
	if p.SparseInfillDensity < 0 || p.SparseInfillDensity > 100 {
		issues = append(issues, fmt.Sprintf(
			"infill density %.0f%% out of range", p.SparseInfillDensity))
	}
	if p.WallLoops < 1 {
		issues = append(issues, "wall loops must be at least 1")
	}
	if len(issues) > 0 {
		return fmt.Errorf("invalid parameters: %s", strings.Join(issues, "; "))
	}
	return nil
}

// Preset is a named parameter preset for reuse.
type Preset struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
	Tags        []string   `json:"tags"`
}

func tubeSqueezerStandard() Preset {
	p := DefaultParameters()
	p.WallLoops = 3
	p.SparseInfillDensity = 20.0
	p.SparseInfillPattern = InfillGyroid
	p.BrimWidth = 5.0
	return Preset{
		Name:        "tube_squeezer_standard",
		Description: "Standard settings for tube squeezers - good balance of strength and speed",
		Parameters:  p,
		Tags:        []string{"tube_squeezer", "functional", "strength"},
	}
}

func tubeSqueezerStrong() Preset {
	p := DefaultParameters()
	p.WallLoops = 4
	p.SparseInfillDensity = 30.0
	p.SparseInfillPattern = InfillCubic
	p.BrimWidth = 8.0
	p.OuterWallSpeed = 50.0
	return Preset{
		Name:        "tube_squeezer_strong",
		Description: "Heavy-duty settings for larger tube squeezers (lotion bottles, etc.)",
		Parameters:  p,
		Tags:        []string{"tube_squeezer", "functional", "heavy_duty", "strength"},
	}
}

func draftPreset() Preset {
	p := DefaultParameters()
	p.LayerHeight = 0.28
	p.WallLoops = 2
	p.SparseInfillDensity = 10.0
	p.SparseInfillPattern = InfillGrid
	p.OuterWallSpeed = 80.0
	p.InnerWallSpeed = 100.0
	return Preset{
		Name:        "draft",
		Description: "Fast draft quality for testing fit and dimensions",
		Parameters:  p,
		Tags:        []string{"draft", "fast", "testing"},
	}
}

func qualityPreset() Preset {
	p := DefaultParameters()
	p.LayerHeight = 0.12
	p.WallLoops = 3
	p.SparseInfillDensity = 20.0
	p.SparseInfillPattern = InfillGyroid
	p.OuterWallSpeed = 40.0
	p.InnerWallSpeed = 60.0
	return Preset{
		Name:        "quality",
		Description: "High quality for final prints with fine detail",
		Parameters:  p,
		Tags:        []string{"quality", "detail", "final"},
	}
}

var presetOrder = []string{
	"tube_squeezer_standard", "tube_squeezer_strong", "draft", "quality",
}

// GetPreset returns a built-in preset by name.
func GetPreset(name string) (Preset, error) {
	switch name {
	case "tube_squeezer_standard":
		return tubeSqueezerStandard(), nil
	case "tube_squeezer_strong":
		return tubeSqueezerStrong(), nil
	case "draft":
		return draftPreset(), nil
	case "quality":
		return qualityPreset(), nil
	}
	return Preset{}, fmt.Errorf("unknown preset %q. Available: %s",
		name, strings.Join(presetOrder, ", "))
}

// ListPresets returns all built-in presets in stable order.
func ListPresets() []Preset {
	presets := make([]Preset, 0, len(presetOrder))
	for _, name := range presetOrder {
		p, _ := GetPreset(name)
		presets = append(presets, p)
	}
	return presets
}

// AdjustForScale adapts parameters after the model was scaled. Larger
// models get more walls and infill; much smaller models get finer layers.
func AdjustForScale(params Parameters, scaleFactor float64) Parameters {
	adjusted := params
	switch {
	case scaleFactor > 2.0:
		adjusted.WallLoops = maxInt(params.WallLoops, 4)
		adjusted.SparseInfillDensity = minFloat(params.SparseInfillDensity+10, 40)
		adjusted.BrimWidth = maxFloat(params.BrimWidth, 8.0)
	case scaleFactor > 1.5:
		adjusted.WallLoops = maxInt(params.WallLoops, 3)
		adjusted.SparseInfillDensity = minFloat(params.SparseInfillDensity+5, 30)
		adjusted.BrimWidth = maxFloat(params.BrimWidth, 5.0)
	case scaleFactor < 0.5:
		adjusted.LayerHeight = minFloat(params.LayerHeight, 0.16)
	}
	return adjusted
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
