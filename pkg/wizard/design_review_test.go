/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewDesignClean(t *testing.T) {
	review := ReviewDesign(map[string]interface{}{
		"wall_thickness": 2.5,
		"clearance":      0.3,
		"corner_radius":  1.0,
	}, "a desk organizer", "", 0.4)

	assert.Equal(t, "good", review.OverallStatus)
	assert.Zero(t, review.CriticalIssues)
	assert.Zero(t, review.Recommendations)
	assert.Contains(t, review.Summary, "looks great")

	require.Len(t, review.Checkpoints, 5)
	for _, cp := range review.Checkpoints {
		assert.True(t, cp.Passed, cp.Name)
	}
}

func TestReviewDesignThinWalls(t *testing.T) {
	review := ReviewDesign(map[string]interface{}{
		"wall_thickness": 0.6,
		"corner_radius":  1.0,
	}, "", "", 0.4)

	assert.Equal(t, "needs_attention", review.OverallStatus)
	assert.Equal(t, 1, review.CriticalIssues)

	require.NotEmpty(t, review.Suggestions)
	s := review.Suggestions[0]
	assert.Equal(t, "Wall thickness too thin", s.Title)
	assert.Equal(t, PriorityCritical, s.Priority)
	assert.Equal(t, 1.2, s.SuggestedValue)
	assert.True(t, s.AutoFixable)

	// the dimension checkpoint fails, the rest pass
	assert.False(t, review.Checkpoints[0].Passed)
	assert.True(t, review.Checkpoints[1].Passed)
}

func TestReviewDesignClearance(t *testing.T) {
	review := ReviewDesign(map[string]interface{}{
		"clearance":     0.1,
		"corner_radius": 1.0,
	}, "", "", 0.4)
	require.Len(t, review.Suggestions, 1)
	assert.Equal(t, "Clearance too tight", review.Suggestions[0].Title)
	assert.Equal(t, 0.3, review.Suggestions[0].SuggestedValue)

	review = ReviewDesign(map[string]interface{}{
		"clearance":     2.5,
		"corner_radius": 1.0,
	}, "", "", 0.4)
	require.Len(t, review.Suggestions, 1)
	assert.Equal(t, PriorityOptional, review.Suggestions[0].Priority)
}

func TestReviewDesignSmallFeatures(t *testing.T) {
	review := ReviewDesign(map[string]interface{}{
		"hole_diameter": 0.3,
		"corner_radius": 1.0,
	}, "", "", 0.4)

	require.Len(t, review.Suggestions, 1)
	assert.Contains(t, review.Suggestions[0].Title, "hole_diameter")
	assert.Equal(t, PriorityCritical, review.Suggestions[0].Priority)
	assert.InDelta(t, 0.6, review.Suggestions[0].SuggestedValue.(float64), 1e-9)
}

func TestReviewDesignHeavyDutyUse(t *testing.T) {
	review := ReviewDesign(map[string]interface{}{
		"wall_thickness": 2.0,
		"corner_radius":  1.0,
	}, "heavy duty tube squeezer", "", 0.4)

	assert.Equal(t, "good", review.OverallStatus)
	assert.Equal(t, 1, review.Recommendations)
	require.Len(t, review.Suggestions, 1)
	assert.Contains(t, review.Suggestions[0].Title, "thicker walls")
	assert.Equal(t, 3.0, review.Suggestions[0].SuggestedValue)
}

func TestReviewDesignNarrowHandle(t *testing.T) {
	review := ReviewDesign(map[string]interface{}{
		"handle_width":  8.0,
		"corner_radius": 1.0,
	}, "", "", 0.4)
	require.Len(t, review.Suggestions, 1)
	assert.Equal(t, "Handle may be too narrow", review.Suggestions[0].Title)
}

func TestReviewDesignMissingCornerRadius(t *testing.T) {
	review := ReviewDesign(map[string]interface{}{
		"wall_thickness": 2.0,
	}, "", "", 0.4)
	require.Len(t, review.Suggestions, 1)
	assert.Equal(t, "Add corner radius for strength", review.Suggestions[0].Title)
	assert.Equal(t, PriorityRecommended, review.Suggestions[0].Priority)
}

func TestReviewDesignTallThinPart(t *testing.T) {
	review := ReviewDesign(map[string]interface{}{
		"height":        120.0,
		"width":         15.0,
		"corner_radius": 1.0,
	}, "", "", 0.4)
	require.Len(t, review.Suggestions, 1)
	assert.Contains(t, review.Suggestions[0].Title, "may need support")
}

func TestReviewDesignFlexibleMaterial(t *testing.T) {
	review := ReviewDesign(map[string]interface{}{
		"wall_thickness": 1.2,
		"corner_radius":  1.0,
	}, "", "generic_tpu", 0.4)

	found := false
	for _, s := range review.Suggestions {
		if s.Title == "TPU needs thicker walls" {
			found = true
			assert.Equal(t, 2.5, s.SuggestedValue)
		}
	}
	assert.True(t, found)
}

func TestReviewDesignPolycarbonate(t *testing.T) {
	review := ReviewDesign(map[string]interface{}{
		"wall_thickness": 3.0,
		"corner_radius":  1.0,
	}, "", "prusa_pc", 0.4)

	require.Len(t, review.Suggestions, 1)
	assert.Equal(t, "Polycarbonate properties", review.Suggestions[0].Title)
	assert.Equal(t, PriorityOptional, review.Suggestions[0].Priority)
	// optional notes do not flip the status
	assert.Equal(t, "good", review.OverallStatus)
}

func TestApplySuggestion(t *testing.T) {
	params := map[string]interface{}{"wall_thickness": 0.6}
	s := DesignSuggestion{
		AutoFixable:    true,
		FixParameter:   "wall_thickness",
		SuggestedValue: 1.2,
	}

	updated := ApplySuggestion(params, s)
	assert.Equal(t, 1.2, updated["wall_thickness"])
	assert.Equal(t, 0.6, params["wall_thickness"])

	// non-fixable suggestions leave the map alone
	same := ApplySuggestion(params, DesignSuggestion{AutoFixable: false})
	assert.Equal(t, params, same)
}

func TestApplyAllCritical(t *testing.T) {
	params := map[string]interface{}{
		"wall_thickness": 0.6,
		"clearance":      0.1,
		"corner_radius":  1.0,
	}
	review := ReviewDesign(params, "", "", 0.4)
	require.Equal(t, 2, review.CriticalIssues)

	updated, applied := ApplyAllCritical(params, review.Suggestions)
	assert.Len(t, applied, 2)
	assert.Equal(t, 1.2, updated["wall_thickness"])
	assert.Equal(t, 0.3, updated["clearance"])
	assert.Equal(t, 0.6, params["wall_thickness"])

	// the fixed design now passes
	again := ReviewDesign(updated, "", "", 0.4)
	assert.Zero(t, again.CriticalIssues)
}
