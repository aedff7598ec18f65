/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package wizard

import (
	"fmt"
	"math"
	"strings"

	"github.com/hunter-stradley/vibe-print/pkg/materials"
	"github.com/hunter-stradley/vibe-print/pkg/slicer"
)

// QualityPreset is a print quality level for novice users.
type QualityPreset string

const (
	QualityDraft    QualityPreset = "draft"
	QualityStandard QualityPreset = "standard"
	QualityQuality  QualityPreset = "quality"
	QualityUltra    QualityPreset = "ultra"
)

// PrintUseCase is what the print is for; it shifts the recommended
// settings toward strength, looks, or speed.
type PrintUseCase string

const (
	UseFunctional PrintUseCase = "functional"
	UseDecorative PrintUseCase = "decorative"
	UsePrototype  PrintUseCase = "prototype"
	UseGift       PrintUseCase = "gift"
)

type qualitySettings struct {
	layerHeightRatio float64 // fraction of nozzle diameter
	wallLoops        int
	infillDensity    int
	speedFactor      float64
	description      string
}

var qualityTable = map[QualityPreset]qualitySettings{
	QualityDraft:    {0.70, 2, 15, 1.2, "Fast printing, visible layer lines"},
	QualityStandard: {0.50, 3, 20, 1.0, "Balanced speed and quality"},
	QualityQuality:  {0.35, 4, 25, 0.8, "Better surface finish, slower"},
	QualityUltra:    {0.25, 5, 30, 0.6, "Best quality, much slower"},
}

// SlicingSuggestion is one proposed slicing parameter change.
type SlicingSuggestion struct {
	Parameter      string      `json:"parameter"`
	CurrentValue   interface{} `json:"current_value"`
	SuggestedValue interface{} `json:"suggested_value"`
	Reason         string      `json:"reason"`
	Impact         string      `json:"impact"`
	Priority       string      `json:"priority"`
}

// SlicingReview is the complete parameter review.
type SlicingReview struct {
	QualityPreset       QualityPreset       `json:"quality_preset"`
	EstimatedTimeChange string              `json:"estimated_time_change"`
	Suggestions         []SlicingSuggestion `json:"suggestions"`
	Warnings            []string            `json:"warnings"`
	MaterialNotes       []string            `json:"material_notes"`
}

// ReviewSlicingParameters checks a parameter set against the material,
// nozzle, quality level, and intended use.
func ReviewSlicingParameters(params slicer.Parameters, material string, nozzleDiameter float64, useCase PrintUseCase, quality QualityPreset) *SlicingReview {
	if nozzleDiameter <= 0 {
		nozzleDiameter = 0.4
	}
	settings, ok := qualityTable[quality]
	if !ok {
		quality = QualityStandard
		settings = qualityTable[quality]
	}
	profile := materials.GetFilamentProfile(material)

	review := &SlicingReview{
		QualityPreset: quality,
		Suggestions:   []SlicingSuggestion{},
		Warnings:      []string{},
		MaterialNotes: materialNotes(profile),
	}

	reviewLayerHeight(review, params, nozzleDiameter, settings)
	reviewTemperatures(review, params, profile)
	reviewSpeeds(review, params, profile, nozzleDiameter, settings)
	reviewInfill(review, params, useCase, settings)
	reviewWalls(review, params, useCase, settings)
	reviewAdhesion(review, params, profile)

	review.EstimatedTimeChange = estimateTimeChange(settings.speedFactor)
	return review
}

func reviewLayerHeight(review *SlicingReview, params slicer.Parameters, nozzleDiameter float64, settings qualitySettings) {
	optimal := snapLayerHeight(nozzleDiameter * settings.layerHeightRatio)
	if math.Abs(params.LayerHeight-optimal) > 0.04 {
		direction, impact := "thicker", "Faster printing"
		if params.LayerHeight > optimal {
			direction, impact = "thinner", "Better surface finish"
		}
		review.Suggestions = append(review.Suggestions, SlicingSuggestion{
			Parameter:      "layer_height",
			CurrentValue:   fmt.Sprintf("%gmm", params.LayerHeight),
			SuggestedValue: fmt.Sprintf("%gmm", optimal),
			Reason:         fmt.Sprintf("For %s, %s layers work better", strings.ToLower(settings.description), direction),
			Impact:         impact,
			Priority:       PriorityRecommended,
		})
	}
	if params.LayerHeight > nozzleDiameter*0.75 {
		review.Warnings = append(review.Warnings, fmt.Sprintf(
			"Layer height (%gmm) exceeds 75%% of nozzle diameter. May cause adhesion issues.",
			params.LayerHeight))
	}
}

func reviewTemperatures(review *SlicingReview, params slicer.Parameters, profile *materials.FilamentProfile) {
	if profile == nil {
		return
	}
	if params.NozzleTemperature > 0 {
		if params.NozzleTemperature < profile.NozzleTemp.Min {
			review.Suggestions = append(review.Suggestions, SlicingSuggestion{
				Parameter:      "nozzle_temperature",
				CurrentValue:   fmt.Sprintf("%d°C", params.NozzleTemperature),
				SuggestedValue: fmt.Sprintf("%d°C", profile.NozzleTemp.Optimal),
				Reason:         fmt.Sprintf("%s needs at least %d°C", profile.Name, profile.NozzleTemp.Min),
				Impact:         "Better layer adhesion, fewer clogs",
				Priority:       PriorityCritical,
			})
		} else if params.NozzleTemperature > profile.NozzleTemp.Max {
			review.Suggestions = append(review.Suggestions, SlicingSuggestion{
				Parameter:      "nozzle_temperature",
				CurrentValue:   fmt.Sprintf("%d°C", params.NozzleTemperature),
				SuggestedValue: fmt.Sprintf("%d°C", profile.NozzleTemp.Optimal),
				Reason:         fmt.Sprintf("%s may degrade above %d°C", profile.Name, profile.NozzleTemp.Max),
				Impact:         "Prevents stringing and degradation",
				Priority:       PriorityCritical,
			})
		}
	}
	if params.BedTemperature > 0 && params.BedTemperature < profile.BedTemp.Min {
		review.Suggestions = append(review.Suggestions, SlicingSuggestion{
			Parameter:      "bed_temperature",
			CurrentValue:   fmt.Sprintf("%d°C", params.BedTemperature),
			SuggestedValue: fmt.Sprintf("%d°C", profile.BedTemp.Optimal),
			Reason:         fmt.Sprintf("%s may not stick below %d°C", profile.Name, profile.BedTemp.Min),
			Impact:         "Better first layer adhesion",
			Priority:       PriorityCritical,
		})
	}
}

func reviewSpeeds(review *SlicingReview, params slicer.Parameters, profile *materials.FilamentProfile, nozzleDiameter float64, settings qualitySettings) {
	if profile == nil {
		return
	}
	maxSpeed := profile.MaxPrintSpeed * settings.speedFactor
	if params.OuterWallSpeed > maxSpeed {
		review.Suggestions = append(review.Suggestions, SlicingSuggestion{
			Parameter:      "outer_wall_speed",
			CurrentValue:   fmt.Sprintf("%gmm/s", params.OuterWallSpeed),
			SuggestedValue: fmt.Sprintf("%dmm/s", int(maxSpeed)),
			Reason:         fmt.Sprintf("%s prints best at lower speeds for quality", profile.Name),
			Impact:         "Better surface finish, fewer artifacts",
			Priority:       PriorityRecommended,
		})
	}
	if profile.IsFlexible() && params.OuterWallSpeed > 30 {
		review.Suggestions = append(review.Suggestions, SlicingSuggestion{
			Parameter:      "outer_wall_speed",
			CurrentValue:   fmt.Sprintf("%gmm/s", params.OuterWallSpeed),
			SuggestedValue: "25-30mm/s",
			Reason:         "Flexible filaments need slow speeds to prevent jamming",
			Impact:         "Prevents extruder jams and poor quality",
			Priority:       PriorityCritical,
		})
	}

	lineWidth := nozzleDiameter * 1.1
	volumetric := params.LayerHeight * lineWidth * params.OuterWallSpeed
	if volumetric > profile.MaxVolumetricFlow {
		safeSpeed := profile.MaxVolumetricFlow / (params.LayerHeight * lineWidth)
		review.Suggestions = append(review.Suggestions, SlicingSuggestion{
			Parameter:      "outer_wall_speed",
			CurrentValue:   fmt.Sprintf("%gmm/s", params.OuterWallSpeed),
			SuggestedValue: fmt.Sprintf("%dmm/s", int(safeSpeed)),
			Reason:         fmt.Sprintf("Exceeds max flow rate (%gmm³/s)", profile.MaxVolumetricFlow),
			Impact:         "Prevents under-extrusion",
			Priority:       PriorityCritical,
		})
	}
}

// wallTarget applies the use-case wall adjustment to the preset count.
func wallTarget(base int, useCase PrintUseCase) int {
	switch useCase {
	case UseFunctional, UseGift:
		if base < 4 {
			return 4
		}
	case UsePrototype:
		return 2
	}
	return base
}

// infillTarget applies the use-case infill adjustment to the preset density.
func infillTarget(base int, useCase PrintUseCase) int {
	switch useCase {
	case UseFunctional:
		if base < 25 {
			return 25
		}
	case UseDecorative:
		if base > 15 {
			return 15
		}
	case UsePrototype:
		if base > 10 {
			return 10
		}
	}
	return base
}

func reviewInfill(review *SlicingReview, params slicer.Parameters, useCase PrintUseCase, settings qualitySettings) {
	target := infillTarget(settings.infillDensity, useCase)

	if math.Abs(params.SparseInfillDensity-float64(target)) > 5 {
		direction, impact := "less", "Faster print"
		if params.SparseInfillDensity < float64(target) {
			direction, impact = "more", "Stronger part"
		}
		review.Suggestions = append(review.Suggestions, SlicingSuggestion{
			Parameter:      "sparse_infill_density",
			CurrentValue:   fmt.Sprintf("%g%%", params.SparseInfillDensity),
			SuggestedValue: fmt.Sprintf("%d%%", target),
			Reason:         fmt.Sprintf("For %s use, %s infill is recommended", useCase, direction),
			Impact:         impact,
			Priority:       PriorityRecommended,
		})
	}

	if useCase == UseFunctional {
		switch params.SparseInfillPattern {
		case slicer.InfillGyroid, slicer.InfillCubic, slicer.InfillHoneycomb:
		default:
			review.Suggestions = append(review.Suggestions, SlicingSuggestion{
				Parameter:      "sparse_infill_pattern",
				CurrentValue:   string(params.SparseInfillPattern),
				SuggestedValue: "gyroid",
				Reason:         "Gyroid or cubic infill is stronger for functional parts",
				Impact:         "Better strength in all directions",
				Priority:       PriorityOptional,
			})
		}
	}
}

func reviewWalls(review *SlicingReview, params slicer.Parameters, useCase PrintUseCase, settings qualitySettings) {
	target := wallTarget(settings.wallLoops, useCase)
	if params.WallLoops < target {
		review.Suggestions = append(review.Suggestions, SlicingSuggestion{
			Parameter:      "wall_loops",
			CurrentValue:   params.WallLoops,
			SuggestedValue: target,
			Reason:         fmt.Sprintf("More walls = stronger part for %s use", useCase),
			Impact:         "Increased strength and durability",
			Priority:       PriorityRecommended,
		})
	}
}

var warpProneMaterials = []string{"PC", "ABS", "Nylon", "PA"}

func reviewAdhesion(review *SlicingReview, params slicer.Parameters, profile *materials.FilamentProfile) {
	if profile == nil {
		return
	}
	warpProne := false
	for _, m := range warpProneMaterials {
		if strings.Contains(profile.Name, m) {
			warpProne = true
			break
		}
	}
	if warpProne && params.BrimWidth < 5 {
		review.Suggestions = append(review.Suggestions, SlicingSuggestion{
			Parameter:      "brim_width",
			CurrentValue:   fmt.Sprintf("%gmm", params.BrimWidth),
			SuggestedValue: "8mm",
			Reason:         fmt.Sprintf("%s is prone to warping", profile.Name),
			Impact:         "Prevents corners from lifting",
			Priority:       PriorityRecommended,
		})
	}
	if params.InitialLayerSpeed > 30 {
		review.Suggestions = append(review.Suggestions, SlicingSuggestion{
			Parameter:      "initial_layer_speed",
			CurrentValue:   fmt.Sprintf("%gmm/s", params.InitialLayerSpeed),
			SuggestedValue: "20-25mm/s",
			Reason:         "Slower first layer improves adhesion",
			Impact:         "Better stick to bed, fewer failed starts",
			Priority:       PriorityRecommended,
		})
	}
}

func materialNotes(profile *materials.FilamentProfile) []string {
	notes := []string{}
	if profile == nil {
		return notes
	}
	if profile.IsFlexible() {
		notes = append(notes,
			"TPU is flexible - print slowly (25-35mm/s max)",
			"Direct drive recommended - may struggle with bowden",
			"Disable retraction or use very short retracts (0.5mm)",
			"TPU 95A is NOT compatible with AMS - feed directly")
	}
	if strings.Contains(profile.Name, "PC") {
		notes = append(notes,
			"PC warps easily - use enclosed printer if possible",
			"Keep parts small when printing on an open-frame printer",
			"Use wide brim (8-10mm) for better adhesion",
			"High bed temp required - ensure bed is level")
	}
	if profile.MaterialType == materials.FilamentPETG {
		notes = append(notes,
			"PETG likes to string - tune retraction carefully",
			"Prints glossy - good for visual parts",
			"Z-hop helps prevent nozzle hitting printed parts")
	}
	if !profile.AMSCompatible {
		notes = append(notes,
			fmt.Sprintf("%s is NOT compatible with AMS - feed directly to extruder", profile.Name))
	}
	return notes
}

func estimateTimeChange(speedFactor float64) string {
	switch {
	case speedFactor < 0.8:
		return "Significantly longer (+30-50%)"
	case speedFactor < 1.0:
		return "Slightly longer (+10-20%)"
	case speedFactor > 1.1:
		return "Faster (-15-25%)"
	default:
		return "Similar time"
	}
}

func snapLayerHeight(h float64) float64 {
	return math.Round(h/0.04) * 0.04
}

// RecommendedSettings builds the suggested slicing parameter map for a
// material, nozzle, quality level, and use case.
func RecommendedSettings(material string, nozzleDiameter float64, quality QualityPreset, useCase PrintUseCase) map[string]interface{} {
	if nozzleDiameter <= 0 {
		nozzleDiameter = 0.4
	}
	settings, ok := qualityTable[quality]
	if !ok {
		settings = qualityTable[QualityStandard]
	}
	profile := materials.GetFilamentProfile(material)

	out := map[string]interface{}{}
	layerHeight := snapLayerHeight(nozzleDiameter * settings.layerHeightRatio)
	out["layer_height"] = layerHeight

	out["wall_loops"] = wallTarget(settings.wallLoops, useCase)
	out["sparse_infill_density"] = infillTarget(settings.infillDensity, useCase)

	if useCase == UseFunctional {
		out["sparse_infill_pattern"] = "gyroid"
	} else {
		out["sparse_infill_pattern"] = "grid"
	}

	if profile != nil {
		out["nozzle_temp"] = profile.NozzleTemp.Optimal
		out["bed_temp"] = profile.BedTemp.Optimal

		maxSpeed := profile.MaxPrintSpeed * settings.speedFactor
		out["outer_wall_speed"] = minInt(int(maxSpeed*0.6), 80)
		out["inner_wall_speed"] = minInt(int(maxSpeed*0.8), 120)
		out["infill_speed"] = minInt(int(maxSpeed), 150)

		out["retraction_length"] = profile.RetractionLength
		out["retraction_speed"] = profile.RetractionSpeed
	}

	out["initial_layer_speed"] = 25
	out["initial_layer_height"] = math.Round(layerHeight*1.2*100) / 100

	out["brim_width"] = 5
	if profile != nil {
		for _, m := range []string{"PC", "ABS", "Nylon"} {
			if strings.Contains(profile.Name, m) {
				out["brim_width"] = 8
				break
			}
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
