/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package slicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()
	assert.Equal(t, 0.20, p.LayerHeight)
	assert.Equal(t, 2, p.WallLoops)
	assert.Equal(t, InfillGyroid, p.SparseInfillPattern)
	assert.Equal(t, 220, p.NozzleTemperature)
	assert.NoError(t, p.Validate(0.4))
}

func TestParametersValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Parameters)
		errPart  string
		valid    bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Parameters) {},
			valid:  true,
		},
		{
			name:    "layer height above 75% of nozzle",
			mutate:  func(p *Parameters) { p.LayerHeight = 0.35 },
			errPart: "75%",
		},
		{
			name:    "initial layer thinner than layer",
			mutate:  func(p *Parameters) { p.InitialLayerHeight = 0.1 },
			errPart: "initial layer height",
		},
		{
			name:    "infill out of range",
			mutate:  func(p *Parameters) { p.SparseInfillDensity = 120 },
			errPart: "infill density",
		},
		{
			name:    "zero walls",
			mutate:  func(p *Parameters) { p.WallLoops = 0 },
			errPart: "wall loops",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			err := p.Validate(0.4)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestCLIArgs(t *testing.T) {
	p := DefaultParameters()
	args := p.CLIArgs()
	assert.Contains(t, args, "--layer-height=0.2")
	assert.Contains(t, args, "--sparse-infill-pattern=gyroid")
	// no support flag when supports are off
	for _, a := range args {
		assert.NotContains(t, a, "--support-type")
	}

	p.SupportType = SupportTree
	args = p.CLIArgs()
	assert.Contains(t, args, "--support-type=tree")
}

func TestGetPreset(t *testing.T) {
	preset, err := GetPreset("tube_squeezer_strong")
	require.NoError(t, err)
	assert.Equal(t, 4, preset.Parameters.WallLoops)
	assert.Equal(t, 30.0, preset.Parameters.SparseInfillDensity)
	assert.Equal(t, InfillCubic, preset.Parameters.SparseInfillPattern)

	_, err = GetPreset("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
	assert.Contains(t, err.Error(), "tube_squeezer_standard")
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	require.Len(t, presets, 4)
	assert.Equal(t, "tube_squeezer_standard", presets[0].Name)
	assert.Equal(t, "tube_squeezer_strong", presets[1].Name)
	assert.Equal(t, "draft", presets[2].Name)
	assert.Equal(t, "quality", presets[3].Name)
}

func TestAdjustForScale(t *testing.T) {
	base := DefaultParameters()

	big := AdjustForScale(base, 2.6)
	assert.Equal(t, 4, big.WallLoops)
	assert.Equal(t, 25.0, big.SparseInfillDensity)
	assert.Equal(t, 8.0, big.BrimWidth)

	medium := AdjustForScale(base, 1.8)
	assert.Equal(t, 3, medium.WallLoops)
	assert.Equal(t, 20.0, medium.SparseInfillDensity)

	small := AdjustForScale(base, 0.4)
	assert.Equal(t, 0.16, small.LayerHeight)

	unchanged := AdjustForScale(base, 1.0)
	assert.Equal(t, base, unchanged)
}
