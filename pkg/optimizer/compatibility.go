/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package optimizer

import (
	"strings"

	"github.com/hunter-stradley/vibe-print/pkg/materials"
)

// Compatibility reports how well a design fits one material.
type Compatibility struct {
	Compatible      bool     `json:"compatible"`
	MaterialName    string   `json:"material_name,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	PrintNotes      string   `json:"print_notes,omitempty"`
}

// MaterialCompatibility checks design parameters against each named
// material.
func MaterialCompatibility(designParams map[string]interface{}, materialNames []string) map[string]Compatibility {
	results := make(map[string]Compatibility, len(materialNames))

	for _, name := range materialNames {
		profile := materials.GetFilamentProfile(name)
		if profile == nil {
			results[name] = Compatibility{Compatible: false, Reason: "Unknown material"}
			continue
		}

		var issues, recommendations []string

		wall := 2.0
		if v, ok := designParams["wall_thickness_mm"].(float64); ok {
			wall = v
		}
		if profile.IsFlexible() && wall < 1.5 {
			issues = append(issues, "Wall thickness too thin for flexible filament")
			recommendations = append(recommendations, "Increase wall thickness to at least 2mm")
		}

		if heatResistant, _ := designParams["heat_resistant"].(bool); heatResistant {
			if profile.MaterialType == materials.FilamentPLA {
				issues = append(issues, "PLA is not heat resistant")
				recommendations = append(recommendations, "Use PETG or PC instead")
			}
		}

		if waterproof, _ := designParams["waterproof"].(bool); waterproof {
			if profile.MaterialType == materials.FilamentPLA {
				issues = append(issues, "PLA is not waterproof long-term")
				recommendations = append(recommendations, "Use PETG or ASA instead")
			}
		}

		results[name] = Compatibility{
			Compatible:      len(issues) == 0,
			MaterialName:    profile.Name,
			Issues:          issues,
			Recommendations: recommendations,
			PrintNotes:      strings.Join(profile.Notes, " | "),
		}
	}
	return results
}
