/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunter-stradley/vibe-print/pkg/slicer"
)

func floatPtr(v float64) *float64 { return &v }

func TestRecommendationsForStringing(t *testing.T) {
	params := slicer.DefaultParameters()
	recs := Recommendations(params, []string{"stringing"}, nil, nil)

	require.NotEmpty(t, recs)
	byParam := map[string]Recommendation{}
	for _, r := range recs {
		byParam[r.Parameter] = r
	}

	retraction, ok := byParam["retraction_length"]
	require.True(t, ok)
	assert.InDelta(t, 1.3, retraction.SuggestedValue, 1e-9)
	assert.Equal(t, 3, retraction.Priority)

	temp, ok := byParam["nozzle_temperature"]
	require.True(t, ok)
	assert.Equal(t, float64(215), temp.SuggestedValue)
}

func TestRecommendationsDeduplicateAcrossDefects(t *testing.T) {
	params := slicer.DefaultParameters()
	// both warping and poor_adhesion touch bed_temperature_initial_layer
	recs := Recommendations(params, []string{"warping", "poor_adhesion"}, nil, nil)

	count := 0
	for _, r := range recs {
		if r.Parameter == "bed_temperature_initial_layer" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRecommendationsRespectLimits(t *testing.T) {
	params := slicer.DefaultParameters()
	params.RetractionLength = 4.8
	recs := Recommendations(params, []string{"stringing"}, nil, nil)

	for _, r := range recs {
		if r.Parameter == "retraction_length" {
			assert.LessOrEqual(t, r.SuggestedValue, 5.0)
		}
	}
}

func TestRecommendationsLowQualityScore(t *testing.T) {
	params := slicer.DefaultParameters()
	recs := Recommendations(params, nil, floatPtr(40), nil)

	require.Len(t, recs, 1)
	assert.Equal(t, "outer_wall_speed", recs[0].Parameter)
	assert.InDelta(t, 42, recs[0].SuggestedValue, 1e-9) // 60 * 0.7
}

func TestRecommendationsFromHistory(t *testing.T) {
	params := slicer.DefaultParameters()
	history := []HistoryEntry{
		{Status: "failed", QualityScore: floatPtr(95), Parameters: map[string]interface{}{"wall_loops": 5}},
		{Status: "completed", QualityScore: floatPtr(70), Parameters: map[string]interface{}{"wall_loops": 6}},
		{
			Status:       "completed",
			QualityScore: floatPtr(92),
			Parameters: map[string]interface{}{
				"wall_loops":            4,
				"sparse_infill_density": 15.0, // same as current, no rec
			},
		},
	}
	recs := Recommendations(params, nil, nil, history)

	require.Len(t, recs, 1)
	assert.Equal(t, "wall_loops", recs[0].Parameter)
	assert.Equal(t, float64(4), recs[0].SuggestedValue)
	assert.Contains(t, recs[0].Reason, "92")
}

func TestRecommendationsSortedByPriority(t *testing.T) {
	params := slicer.DefaultParameters()
	recs := Recommendations(params, []string{"stringing", "spaghetti"}, nil, nil)

	require.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority, recs[i].Priority)
	}
	// spaghetti outranks stringing
	assert.Equal(t, 1, recs[0].Priority)
}

func TestApply(t *testing.T) {
	params := slicer.DefaultParameters()
	recs := []Recommendation{
		{Parameter: "outer_wall_speed", SuggestedValue: 45},
		{Parameter: "retraction_length", SuggestedValue: 1.2},
		{Parameter: "wall_loops", SuggestedValue: 4},
	}

	applied := Apply(params, recs, 2)
	assert.Equal(t, float64(45), applied.OuterWallSpeed)
	assert.Equal(t, 1.2, applied.RetractionLength)
	// third change was beyond maxChanges
	assert.Equal(t, params.WallLoops, applied.WallLoops)
	// input untouched
	assert.Equal(t, float64(60), params.OuterWallSpeed)
}

func TestSuggestions(t *testing.T) {
	suggestions := Suggestions([]string{"stringing", "warping", "stringing"})
	assert.Contains(t, suggestions, "Increase retraction distance (try +0.5mm)")
	assert.Contains(t, suggestions, "Use enclosure if available")

	// duplicated defects must not duplicate advice
	count := 0
	for _, s := range suggestions {
		if s == "Increase retraction distance (try +0.5mm)" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	assert.Empty(t, Suggestions(nil))
	assert.Empty(t, Suggestions([]string{"unknown_defect"}))
}
