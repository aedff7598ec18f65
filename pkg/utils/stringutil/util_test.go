/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercase passthrough", "bambu_pla", "bambu_pla"},
		{"spaces", "Bambu Basic PLA", "bambu_basic_pla"},
		{"hyphens", "bambu-pla", "bambu_pla"},
		{"surrounding whitespace", "  Generic TPU 95A  ", "generic_tpu_95a"},
		{"mixed", " Prusament-PC Blend ", "prusament_pc_blend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.input))
		})
	}
}

func TestStrCaseEqual(t *testing.T) {
	assert.True(t, StrCaseEqual("PETG", "petg"))
	assert.False(t, StrCaseEqual("PETG", "pla"))
}

func TestIsNumber(t *testing.T) {
	assert.True(t, IsNumber("42"))
	assert.True(t, IsNumber("-7"))
	assert.False(t, IsNumber("0.4"))
	assert.False(t, IsNumber("abc"))
	assert.False(t, IsNumber(""))
}

func TestConvertToString(t *testing.T) {
	assert.Equal(t, "hello", ConvertToString("hello"))
	assert.Equal(t, "42", ConvertToString(42))
	assert.Equal(t, "0.400000", ConvertToString(0.4))
	assert.Equal(t, "true", ConvertToString(true))
	assert.Equal(t, "", ConvertToString(struct{}{}))
}

func TestSplit(t *testing.T) {
	assert.Nil(t, Split("", ","))
	assert.Equal(t, []string{"a", "b", "c"}, Split("a, b ,c", ","))
	assert.Equal(t, []string{"a", "b"}, Split("a,,b,", ","))
}
