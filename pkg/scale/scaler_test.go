/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package scale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
)

func newTestScaler(t *testing.T, dims Dimensions) (*Scaler, string) {
	t.Helper()
	dir := t.TempDir()
	model := filepath.Join(dir, "tube_squeezer.stl")
	require.NoError(t, os.WriteFile(model, []byte("solid squeezer\nendsolid squeezer\n"), 0o644))

	scaler, err := NewScaler(filepath.Join(dir, "out"), &FixedDimensionTransformer{Dims: dims})
	require.NoError(t, err)
	return scaler, model
}

func TestScaleUniform(t *testing.T) {
	scaler, model := newTestScaler(t, Dimensions{Width: 76, Depth: 18, Height: 70})

	result, err := scaler.ScaleUniform(model, 1.3, "")
	require.NoError(t, err)
	assert.Equal(t, 1.3, result.ScaleFactor)
	assert.Equal(t, 130.0, result.ScalePercentage)
	assert.True(t, result.UniformScale)
	assert.Equal(t, Dimensions{Width: 98.8, Depth: 23.4, Height: 91}, result.ScaledDimensions)
	assert.Contains(t, filepath.Base(result.ScaledPath), "_scaled_1.30")

	// the scaled copy exists
	_, err = os.Stat(result.ScaledPath)
	assert.NoError(t, err)
}

func TestScaleUniformBadFactor(t *testing.T) {
	scaler, model := newTestScaler(t, Dimensions{Width: 10, Depth: 10, Height: 10})
	_, err := scaler.ScaleUniform(model, 0, "")
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))
}

func TestScaleUniformMissingFile(t *testing.T) {
	scaler, _ := newTestScaler(t, Dimensions{Width: 10, Depth: 10, Height: 10})
	_, err := scaler.ScaleUniform("/no/such/model.stl", 1.5, "")
	require.Error(t, err)
	assert.True(t, commonerrors.IsNotFound(err))
}

func TestScaleToDimension(t *testing.T) {
	scaler, model := newTestScaler(t, Dimensions{Width: 100, Depth: 50, Height: 20})

	// aspect ratio kept: the smallest per-axis factor wins
	result, err := scaler.ScaleToDimension(model, 200, 75, 0, true, "")
	require.NoError(t, err)
	assert.True(t, result.UniformScale)
	assert.Equal(t, 1.5, result.ScaleFactor)
	assert.Equal(t, Dimensions{Width: 150, Depth: 75, Height: 30}, result.ScaledDimensions)

	// independent per-axis scaling
	result, err = scaler.ScaleToDimension(model, 200, 75, 0, false, "stretched.stl")
	require.NoError(t, err)
	assert.False(t, result.UniformScale)
	assert.Equal(t, Dimensions{Width: 200, Depth: 75, Height: 20}, result.ScaledDimensions)
	assert.Equal(t, "stretched.stl", filepath.Base(result.ScaledPath))
}

func TestScaleForTubeSqueezer(t *testing.T) {
	scaler, model := newTestScaler(t, Dimensions{Width: 76, Depth: 18, Height: 70})

	// toothpaste tube to lotion bottle
	result, err := scaler.ScaleForTubeSqueezer(model, 10, 26, "")
	require.NoError(t, err)
	assert.Equal(t, 2.6, result.ScaleFactor)
	assert.Contains(t, filepath.Base(result.ScaledPath), "_26mm")

	joined := ""
	for _, note := range result.AdjustmentsMade {
		joined += note + "\n"
	}
	assert.Contains(t, joined, "wall thickness")
	assert.Contains(t, joined, "build plate")
	assert.Contains(t, joined, "10mm to 26mm")
}

func TestTubeSqueezerFactor(t *testing.T) {
	factor, err := TubeSqueezerFactor(10, 26)
	require.NoError(t, err)
	assert.Equal(t, 2.6, factor)

	_, err = TubeSqueezerFactor(0, 26)
	assert.Error(t, err)
}

func TestTubeSqueezerFactorFromSlot(t *testing.T) {
	// default clearance of 1mm
	factor, err := TubeSqueezerFactorFromSlot(12, 26, 0)
	require.NoError(t, err)
	assert.InDelta(t, 27.0/12.0, factor, 1e-9)

	factor, err = TubeSqueezerFactorFromSlot(12, 26, 2)
	require.NoError(t, err)
	assert.InDelta(t, 28.0/12.0, factor, 1e-9)

	_, err = TubeSqueezerFactorFromSlot(0, 26, 1)
	assert.Error(t, err)
}

func TestStructuralAdjustments(t *testing.T) {
	assert.Empty(t, StructuralAdjustments(1.0))
	assert.Len(t, StructuralAdjustments(1.8), 1)
	assert.Len(t, StructuralAdjustments(2.6), 2)
	assert.Len(t, StructuralAdjustments(0.4), 1)
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"65mm", 65, false},
		{"65", 65, false},
		{"6.5 cm", 65, false},
		{"2.5 inches", 63.5, false},
		{"1 in", 25.4, false},
		{`3"`, 76.2, false},
		{"26 millimeters", 26, false},
		{"big", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDimension(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestCopyTransformerDimensions(t *testing.T) {
	tr := &CopyTransformer{KnownDimensions: map[string]Dimensions{
		"/models/tube.stl": {Width: 76, Depth: 18, Height: 70},
	}}

	dims, err := tr.Dimensions("/models/tube.stl")
	require.NoError(t, err)
	assert.Equal(t, 76.0, dims.Width)

	_, err = tr.Dimensions("/models/unknown.stl")
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))
}
