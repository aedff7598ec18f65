/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescriptionHeavyDuty(t *testing.T) {
	intent := ParseDescription("heavy duty clip for a 65mm diameter bottle, needs grip")

	assert.Equal(t, StrengthHeavy, intent.Strength)
	assert.Equal(t, FitTight, intent.FitType)
	assert.Equal(t, SizeMedium, intent.SizeCategory)
	assert.Equal(t, 65.0, intent.Dimensions["diameter"])
	assert.True(t, intent.NeedsGrip)
	assert.False(t, intent.NeedsFlex)

	// derived parameters follow the parsed categories
	assert.Equal(t, 3.0, intent.WallThicknessMM)
	assert.Equal(t, 0.15, intent.ClearanceMM)
	assert.Equal(t, 30, intent.InfillPercent)
	assert.Equal(t, 0.2, intent.LayerHeightMM)

	assert.Empty(t, intent.ClarifyingQuestions)
	assert.Equal(t, 1.0, intent.Confidence)
}

func TestParseDescriptionVague(t *testing.T) {
	intent := ParseDescription("a phone stand")

	assert.Equal(t, StrengthMedium, intent.Strength)
	assert.Equal(t, FitSnug, intent.FitType)
	assert.Empty(t, intent.Dimensions)

	// missing dimensions and fit both prompt a question
	require.Len(t, intent.ClarifyingQuestions, 2)
	assert.InDelta(t, 0.7, intent.Confidence, 1e-9)
}

func TestParseDescriptionFlexible(t *testing.T) {
	intent := ParseDescription("flexible phone grip, soft and rubbery")

	assert.True(t, intent.NeedsFlex)
	assert.True(t, intent.NeedsGrip)
	assert.Equal(t, []string{"TPU 95A", "TPU"}, intent.SuggestedMaterials)
}

func TestParseDescriptionWaterproof(t *testing.T) {
	intent := ParseDescription("waterproof soap holder for the bathroom")
	assert.True(t, intent.Waterproof)
	assert.Equal(t, []string{"PETG", "ASA"}, intent.SuggestedMaterials)
}

func TestParseDescriptionHeatResistant(t *testing.T) {
	intent := ParseDescription("a sturdy hook that can handle dishwasher heat")
	assert.True(t, intent.HeatResistant)
	assert.Equal(t, []string{"PC", "PETG", "ABS"}, intent.SuggestedMaterials)
}

func TestParseDescriptionDefaultMaterials(t *testing.T) {
	intent := ParseDescription("a simple desk organizer, 120mm wide")
	assert.Equal(t, []string{"PLA", "Bambu Basic PLA"}, intent.SuggestedMaterials)
}

func TestDimensionExtraction(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
		want float64
	}{
		{"value then unit then name", "a bracket 40mm wide", "width", 40},
		{"named dimension", "width of 55mm", "width", 55},
		{"named with colon", "height: 30mm", "height", 30},
		{"about", "about 45mm across", "primary", 45},
		{"inches named", "2 inches wide", "width", 50.8},
		{"inches bare", "roughly 1.5 inches", "primary", 38.1},
		{"bare mm", "a 26mm tube", "primary", 26},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := ParseDescription(tt.text)
			got, ok := intent.Dimensions[tt.key]
			require.True(t, ok, "dimension %q missing: %v", tt.key, intent.Dimensions)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDimensionSkipsNozzleAndLayer(t *testing.T) {
	intent := ParseDescription("print with a 0.4mm nozzle")
	_, ok := intent.Dimensions["primary"]
	assert.False(t, ok)
}

func TestSizeCategoryFromPrimaryDimension(t *testing.T) {
	tests := []struct {
		text string
		want SizeCategory
	}{
		{"a 15mm cap", SizeTiny},
		{"a 26mm tube", SizeSmall},
		{"a 100mm bracket", SizeMedium},
		{"a 200mm shelf", SizeLarge},
		{"a 300mm panel", SizeHuge},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDescription(tt.text).SizeCategory)
		})
	}
}

func TestSizeCategoryFromWords(t *testing.T) {
	assert.Equal(t, SizeTiny, ParseDescription("a keychain charm").SizeCategory)
	assert.Equal(t, SizeHuge, ParseDescription("a massive vase").SizeCategory)
}

func TestConflictingStrengthAndFlex(t *testing.T) {
	intent := ParseDescription("heavy duty but flexible strap, 80mm long")
	require.NotEmpty(t, intent.ClarifyingQuestions)
	assert.Contains(t, intent.ClarifyingQuestions[0], "which is more important")
}
