/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package optimizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeUnknownMaterial(t *testing.T) {
	params := map[string]interface{}{"nozzle_temp": 220}
	result := Optimize(params, "unobtainium", 0.4, 25)

	assert.Equal(t, params, result.Optimized)
	assert.Empty(t, result.Changes)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Unknown material")
}

func TestOptimizeFillsMissingTemperatures(t *testing.T) {
	result := Optimize(map[string]interface{}{}, "bambu_pla", 0.4, 25)

	assert.Equal(t, float64(220), result.Optimized["nozzle_temp"])
	assert.Equal(t, float64(55), result.Optimized["bed_temp"])

	var params []string
	for _, c := range result.Changes {
		params = append(params, c.Parameter)
	}
	assert.Contains(t, params, "nozzle_temp")
	assert.Contains(t, params, "bed_temp")
}

func TestOptimizeCorrectsOutOfRangeTemps(t *testing.T) {
	params := map[string]interface{}{
		"nozzle_temp": 180.0, // below PLA minimum of 190
		"bed_temp":    55.0,
	}
	result := Optimize(params, "bambu_pla", 0.4, 25)
	assert.Equal(t, float64(220), result.Optimized["nozzle_temp"])
	// original map must not be mutated
	assert.Equal(t, 180.0, params["nozzle_temp"])
}

func TestOptimizeSpeedsForTPU(t *testing.T) {
	params := map[string]interface{}{
		"nozzle_temp":      230.0,
		"bed_temp":         45.0,
		"outer_wall_speed": 100.0,
		"inner_wall_speed": 120.0,
		"infill_speed":     150.0,
	}
	result := Optimize(params, "generic_tpu", 0.4, 25)

	// TPU max speed is 40mm/s: outer capped at 50%, inner at 70%
	assert.Equal(t, float64(40), result.Optimized["infill_speed"])
	outer, ok := result.Optimized["outer_wall_speed"].(float64)
	require.True(t, ok)
	assert.LessOrEqual(t, outer, float64(20))
	inner := result.Optimized["inner_wall_speed"].(float64)
	assert.LessOrEqual(t, inner, float64(28))
}

func TestOptimizeVolumetricFlowCap(t *testing.T) {
	// 0.3 * 0.44 * 100 = 13.2mm³/s, above TPU's 3.2 limit
	params := map[string]interface{}{
		"nozzle_temp":      230.0,
		"bed_temp":         45.0,
		"layer_height":     0.3,
		"outer_wall_speed": 100.0,
	}
	result := Optimize(params, "generic_tpu", 0.4, 25)

	outer := result.Optimized["outer_wall_speed"].(float64)
	flow := 0.3 * 0.44 * outer
	assert.LessOrEqual(t, flow, 3.2)
}

func TestOptimizeIdempotent(t *testing.T) {
	params := map[string]interface{}{
		"nozzle_temp":      245.0,
		"bed_temp":         80.0,
		"outer_wall_speed": 60.0,
		"layer_height":     0.2,
	}
	first := Optimize(params, "bambu_petg", 0.4, 25)
	second := Optimize(first.Optimized, "bambu_petg", 0.4, 25)

	assert.Equal(t, first.Optimized, second.Optimized)
	assert.Empty(t, second.Changes)
}

func TestOptimizePCOpenFrame(t *testing.T) {
	params := map[string]interface{}{
		"nozzle_temp": 275.0,
		"bed_temp":    110.0,
		"fan_speed":   100.0,
	}
	result := Optimize(params, "prusa_pc", 0.4, 25)

	assert.Equal(t, true, result.Optimized["enable_draft_shield"])
	assert.Equal(t, float64(20), result.Optimized["fan_speed"])
	assert.Equal(t, float64(10), result.Optimized["brim_width"])

	foundWarpWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "warp") || strings.Contains(w, "open frame") {
			foundWarpWarning = true
		}
	}
	assert.True(t, foundWarpWarning)
}

func TestOptimizeColdRoomBedBump(t *testing.T) {
	params := map[string]interface{}{
		"nozzle_temp": 275.0,
		"bed_temp":    100.0, // at PC minimum
	}
	result := Optimize(params, "prusa_pc", 0.4, 15)

	assert.Equal(t, float64(105), result.Optimized["bed_temp"])

	// a comfortable room leaves the bed alone
	result = Optimize(params, "prusa_pc", 0.4, 25)
	assert.Equal(t, float64(100), result.Optimized["bed_temp"])
}

func TestOptimizePETGZHop(t *testing.T) {
	params := map[string]interface{}{
		"nozzle_temp": 245.0,
		"bed_temp":    80.0,
	}
	result := Optimize(params, "bambu_petg", 0.4, 25)
	assert.Equal(t, true, result.Optimized["z_hop_enabled"])
	assert.Equal(t, 0.4, result.Optimized["z_hop_height"])
}

func TestMaterialCompatibility(t *testing.T) {
	design := map[string]interface{}{
		"wall_thickness_mm": 1.0,
		"heat_resistant":    true,
	}
	results := MaterialCompatibility(design, []string{"bambu_pla", "generic_tpu", "prusa_pc", "nope"})

	require.Len(t, results, 4)
	assert.False(t, results["bambu_pla"].Compatible)
	assert.Contains(t, results["bambu_pla"].Issues, "PLA is not heat resistant")

	assert.False(t, results["generic_tpu"].Compatible)
	assert.Contains(t, results["generic_tpu"].Issues, "Wall thickness too thin for flexible filament")

	assert.True(t, results["prusa_pc"].Compatible)
	assert.Equal(t, "Prusament PC Blend", results["prusa_pc"].MaterialName)

	assert.False(t, results["nope"].Compatible)
	assert.Equal(t, "Unknown material", results["nope"].Reason)
}
