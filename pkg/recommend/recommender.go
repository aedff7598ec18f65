/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package recommend derives parameter adjustments from observed defects
// and print history, using fixed troubleshooting heuristics.
package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/hunter-stradley/vibe-print/pkg/slicer"
)

// Recommendation is one suggested parameter adjustment. Priority 1 is
// the most urgent.
type Recommendation struct {
	Parameter      string  `json:"parameter"`
	CurrentValue   float64 `json:"current_value"`
	SuggestedValue float64 `json:"suggested_value"`
	Reason         string  `json:"reason"`
	Confidence     float64 `json:"confidence"`
	Priority       int     `json:"priority"`
}

// HistoryEntry is the slice of an iteration record the recommender
// learns from.
type HistoryEntry struct {
	Status       string
	QualityScore *float64
	Parameters   map[string]interface{}
}

type adjustment struct {
	parameter string
	delta     float64
	reason    string
}

// defectAdjustments maps a defect type to its ordered parameter deltas.
var defectAdjustments = map[string][]adjustment{
	"layer_shift": {
		{"outer_wall_speed", -10, "Reduce outer wall speed to minimize vibration"},
		{"inner_wall_speed", -15, "Reduce inner wall speed"},
		{"travel_speed", -50, "Reduce travel speed to minimize jerky movements"},
	},
	"stringing": {
		{"retraction_length", +0.5, "Increase retraction to reduce oozing"},
		{"retraction_speed", +5, "Increase retraction speed"},
		{"nozzle_temperature", -5, "Lower temperature reduces oozing"},
		{"travel_speed", +20, "Faster travel gives less time to ooze"},
	},
	"warping": {
		{"bed_temperature", +5, "Higher bed temp improves adhesion"},
		{"bed_temperature_initial_layer", +10, "Higher initial bed temp"},
		{"brim_width", +5, "Larger brim for better adhesion"},
		{"initial_layer_speed", -10, "Slower first layer for better adhesion"},
	},
	"blob": {
		{"retraction_length", +0.3, "More retraction at seams"},
		{"outer_wall_speed", -5, "Slower walls for cleaner seams"},
	},
	"under_extrusion": {
		{"nozzle_temperature", +10, "Higher temp for better flow"},
		{"sparse_infill_speed", -20, "Slower infill to ensure full extrusion"},
	},
	"over_extrusion": {
		{"nozzle_temperature", -5, "Lower temp to reduce flow"},
	},
	"poor_adhesion": {
		{"bed_temperature_initial_layer", +10, "Higher bed temp for adhesion"},
		{"initial_layer_height", +0.05, "Thicker first layer squishes better"},
		{"initial_layer_speed", -10, "Slower first layer"},
		{"brim_width", +8, "Add substantial brim"},
	},
	"spaghetti": {
		{"brim_width", +10, "Significant brim needed"},
		{"initial_layer_speed", -15, "Much slower first layer"},
		{"bed_temperature_initial_layer", +15, "Higher bed temp"},
		{"initial_layer_height", +0.1, "Thicker first layer"},
	},
}

type limit struct{ min, max float64 }

var parameterLimits = map[string]limit{
	"outer_wall_speed":              {20, 150},
	"inner_wall_speed":              {30, 200},
	"sparse_infill_speed":           {50, 300},
	"travel_speed":                  {100, 500},
	"nozzle_temperature":            {180, 280},
	"bed_temperature":               {40, 110},
	"bed_temperature_initial_layer": {40, 110},
	"retraction_length":             {0.2, 5.0},
	"retraction_speed":              {20, 80},
	"brim_width":                    {0, 20},
	"initial_layer_speed":           {10, 50},
	"initial_layer_height":          {0.1, 0.4},
	"layer_height":                  {0.08, 0.32},
}

var defectPriorities = map[string]int{
	"spaghetti":       1,
	"layer_shift":     1,
	"poor_adhesion":   1,
	"warping":         2,
	"under_extrusion": 2,
	"over_extrusion":  3,
	"stringing":       3,
	"blob":            4,
}

func applyLimits(param string, value float64) float64 {
	l, ok := parameterLimits[param]
	if !ok {
		return value
	}
	return math.Max(l.min, math.Min(l.max, value))
}

func defectPriority(defect string) int {
	if p, ok := defectPriorities[defect]; ok {
		return p
	}
	return 5
}

// Recommendations produces parameter adjustments for the observed
// defects, a low quality score, and what the best historical print used.
// At most one recommendation per parameter; defect-driven ones win.
// Results are sorted by priority ascending, confidence descending.
func Recommendations(params slicer.Parameters, defects []string, qualityScore *float64, history []HistoryEntry) []Recommendation {
	var recommendations []Recommendation
	seen := map[string]bool{}

	for _, defect := range defects {
		for _, adj := range defectAdjustments[defect] {
			if seen[adj.parameter] {
				continue
			}
			seen[adj.parameter] = true

			current, ok := paramValue(&params, adj.parameter)
			if !ok {
				continue
			}
			recommendations = append(recommendations, Recommendation{
				Parameter:      adj.parameter,
				CurrentValue:   current,
				SuggestedValue: applyLimits(adj.parameter, current+adj.delta),
				Reason:         fmt.Sprintf("%s (addressing %s)", adj.reason, defect),
				Confidence:     0.7,
				Priority:       defectPriority(defect),
			})
		}
	}

	if qualityScore != nil && *qualityScore < 50 {
		if !seen["outer_wall_speed"] {
			recommendations = append(recommendations, Recommendation{
				Parameter:      "outer_wall_speed",
				CurrentValue:   params.OuterWallSpeed,
				SuggestedValue: math.Max(30, params.OuterWallSpeed*0.7),
				Reason:         "Significantly reduce speed for better quality",
				Confidence:     0.6,
				Priority:       2,
			})
		}
	}

	for _, rec := range learnFromHistory(params, history) {
		if !seen[rec.Parameter] {
			recommendations = append(recommendations, rec)
			seen[rec.Parameter] = true
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Priority != recommendations[j].Priority {
			return recommendations[i].Priority < recommendations[j].Priority
		}
		return recommendations[i].Confidence > recommendations[j].Confidence
	})
	return recommendations
}

// learnFromHistory compares current parameters to the best past print
// (completed with quality above 80) and suggests its values.
func learnFromHistory(params slicer.Parameters, history []HistoryEntry) []Recommendation {
	var best *HistoryEntry
	for i := range history {
		e := &history[i]
		if e.Status != "completed" || e.QualityScore == nil || *e.QualityScore <= 80 || e.Parameters == nil {
			continue
		}
		if best == nil || *e.QualityScore > *best.QualityScore {
			best = e
		}
	}
	if best == nil {
		return nil
	}

	compareParams := []string{
		"layer_height", "wall_loops", "sparse_infill_density", "outer_wall_speed",
	}

	var recommendations []Recommendation
	for _, param := range compareParams {
		current, ok := paramValue(&params, param)
		if !ok {
			continue
		}
		bestValue, ok := numberFrom(best.Parameters[param])
		if !ok || current == bestValue {
			continue
		}
		recommendations = append(recommendations, Recommendation{
			Parameter:      param,
			CurrentValue:   current,
			SuggestedValue: bestValue,
			Reason:         fmt.Sprintf("Value used in successful print (quality: %.0f%%)", *best.QualityScore),
			Confidence:     0.5,
			Priority:       3,
		})
	}
	return recommendations
}

// Apply writes the top maxChanges recommendations into a copy of params.
func Apply(params slicer.Parameters, recommendations []Recommendation, maxChanges int) slicer.Parameters {
	applied := params
	for i, rec := range recommendations {
		if i >= maxChanges {
			break
		}
		setParamValue(&applied, rec.Parameter, rec.SuggestedValue)
	}
	return applied
}

func numberFrom(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func paramValue(p *slicer.Parameters, name string) (float64, bool) {
	switch name {
	case "layer_height":
		return p.LayerHeight, true
	case "initial_layer_height":
		return p.InitialLayerHeight, true
	case "wall_loops":
		return float64(p.WallLoops), true
	case "sparse_infill_density":
		return p.SparseInfillDensity, true
	case "outer_wall_speed":
		return p.OuterWallSpeed, true
	case "inner_wall_speed":
		return p.InnerWallSpeed, true
	case "sparse_infill_speed":
		return p.SparseInfillSpeed, true
	case "travel_speed":
		return p.TravelSpeed, true
	case "initial_layer_speed":
		return p.InitialLayerSpeed, true
	case "nozzle_temperature":
		return float64(p.NozzleTemperature), true
	case "bed_temperature":
		return float64(p.BedTemperature), true
	case "bed_temperature_initial_layer":
		return float64(p.BedTemperatureInitialLayer), true
	case "retraction_length":
		return p.RetractionLength, true
	case "retraction_speed":
		return p.RetractionSpeed, true
	case "brim_width":
		return p.BrimWidth, true
	}
	return 0, false
}

func setParamValue(p *slicer.Parameters, name string, value float64) {
	switch name {
	case "layer_height":
		p.LayerHeight = value
	case "initial_layer_height":
		p.InitialLayerHeight = value
	case "wall_loops":
		p.WallLoops = int(value)
	case "sparse_infill_density":
		p.SparseInfillDensity = value
	case "outer_wall_speed":
		p.OuterWallSpeed = value
	case "inner_wall_speed":
		p.InnerWallSpeed = value
	case "sparse_infill_speed":
		p.SparseInfillSpeed = value
	case "travel_speed":
		p.TravelSpeed = value
	case "initial_layer_speed":
		p.InitialLayerSpeed = value
	case "nozzle_temperature":
		p.NozzleTemperature = int(value)
	case "bed_temperature":
		p.BedTemperature = int(value)
	case "bed_temperature_initial_layer":
		p.BedTemperatureInitialLayer = int(value)
	case "retraction_length":
		p.RetractionLength = value
	case "retraction_speed":
		p.RetractionSpeed = value
	case "brim_width":
		p.BrimWidth = value
	}
}
