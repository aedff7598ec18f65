/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package materials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFilamentProfile(t *testing.T) {
	tests := []struct {
		name     string
		lookup   string
		expected string
	}{
		{
			name:     "canonical key",
			lookup:   "bambu_pla",
			expected: "Bambu Basic PLA",
		},
		{
			name:     "display name with spaces",
			lookup:   "Bambu Basic PLA",
			expected: "Bambu Basic PLA",
		},
		{
			name:     "dashes normalize to underscores",
			lookup:   "prusa-pc-blend",
			expected: "Prusament PC Blend",
		},
		{
			name:     "short alias",
			lookup:   "tpu",
			expected: "Generic TPU 95A",
		},
		{
			name:     "petg alias",
			lookup:   "PETG",
			expected: "Generic PETG",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := GetFilamentProfile(tt.lookup)
			require.NotNil(t, profile)
			assert.Equal(t, tt.expected, profile.Name)
		})
	}

	assert.Nil(t, GetFilamentProfile("unobtainium"))
}

func TestFilamentProfileProperties(t *testing.T) {
	tpu := GetFilamentProfile("generic_tpu")
	require.NotNil(t, tpu)
	assert.True(t, tpu.IsFlexible())
	assert.False(t, tpu.IsAbrasive())
	assert.False(t, tpu.AMSCompatible)

	pla := GetFilamentProfile("bambu_pla")
	require.NotNil(t, pla)
	assert.False(t, pla.IsFlexible())
	assert.Equal(t, 220, pla.NozzleTemp.Optimal)
	assert.Equal(t, 55, pla.BedTemp.Optimal)
}

func TestFirstLayerTemps(t *testing.T) {
	pc := GetFilamentProfile("prusa_pc")
	require.NotNil(t, pc)
	// explicit first layer overrides
	assert.Equal(t, 280, pc.FirstLayerNozzleTemp())
	assert.Equal(t, 115, pc.FirstLayerBedTemp())

	pla := GetFilamentProfile("bambu_pla")
	require.NotNil(t, pla)
	// fallback: optimal nozzle, optimal+5 bed
	assert.Equal(t, 220, pla.FirstLayerNozzleTemp())
	assert.Equal(t, 60, pla.FirstLayerBedTemp())
}

func TestSlicerParams(t *testing.T) {
	petg := GetFilamentProfile("bambu_petg")
	require.NotNil(t, petg)
	params := petg.SlicerParams()
	assert.Equal(t, 245, params["nozzle_temperature"])
	assert.Equal(t, 80, params["bed_temperature"])
	assert.Equal(t, 85, params["bed_temperature_initial_layer"])
	assert.Equal(t, 0.6, params["retraction_length"])
}

func TestDesignRecommendations(t *testing.T) {
	tpu := GetFilamentProfile("generic_tpu")
	require.NotNil(t, tpu)
	recs := tpu.DesignRecommendations()
	assert.Contains(t, recs, "Reduce infill to 15-25% for flexibility")
	assert.Contains(t, recs, "Use direct extruder feed (no AMS)")

	pc := GetFilamentProfile("prusa_pc")
	require.NotNil(t, pc)
	recs = pc.DesignRecommendations()
	assert.Contains(t, recs, "Use brim (8mm+) for bed adhesion")
}

func TestListFilamentProfiles(t *testing.T) {
	profiles := ListFilamentProfiles()
	require.Len(t, profiles, 5)
	assert.Equal(t, "Bambu Basic PLA", profiles[0].Name)
	assert.Equal(t, "Generic TPU 95A", profiles[4].Name)

	// aliases must not produce duplicates
	seen := map[string]bool{}
	for _, p := range profiles {
		assert.False(t, seen[p.Name], "duplicate profile %s", p.Name)
		seen[p.Name] = true
		assert.NotEmpty(t, p.UseCases)
	}
}

func TestSuggestFilaments(t *testing.T) {
	tests := []struct {
		name     string
		needs    FilamentNeeds
		expected []string
	}{
		{
			name:     "flexibility wins over everything",
			needs:    FilamentNeeds{Flexibility: true, Strength: true, HeatResistance: true},
			expected: []string{"generic_tpu"},
		},
		{
			name:     "heat plus strength",
			needs:    FilamentNeeds{HeatResistance: true, Strength: true},
			expected: []string{"prusa_pc"},
		},
		{
			name:     "outdoor strength",
			needs:    FilamentNeeds{Outdoor: true, Strength: true},
			expected: []string{"bambu_petg", "prusa_pc"},
		},
		{
			name:     "water resistance",
			needs:    FilamentNeeds{WaterResistance: true},
			expected: []string{"bambu_petg", "generic_petg"},
		},
		{
			name:     "no special needs",
			needs:    FilamentNeeds{},
			expected: []string{"bambu_pla"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestFilaments(tt.needs))
		})
	}
}
