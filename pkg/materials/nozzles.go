/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package materials

import (
	"fmt"
	"math"
)

type NozzleType string

const (
	NozzleStainlessSteel NozzleType = "stainless_steel"
	NozzleHardenedSteel  NozzleType = "hardened_steel"
)

// NozzleProfile describes one nozzle configuration.
//
// Stock options for the target printer:
//   - 0.2mm: stainless steel only (fine detail)
//   - 0.4mm: stainless steel (default) or hardened steel
//   - 0.6mm: hardened steel only (faster printing)
//   - 0.8mm: hardened steel only (fast/draft)
type NozzleProfile struct {
	Diameter   float64    `json:"diameter_mm"`
	NozzleType NozzleType `json:"type"`

	MinLayerHeight     float64 `json:"min_layer_height"`
	OptimalLayerHeight float64 `json:"optimal_layer_height"`
	MaxLayerHeight     float64 `json:"max_layer_height"`

	// SpeedMultiplier is relative to the 0.4mm baseline.
	SpeedMultiplier float64 `json:"speed_multiplier"`

	// AbrasiveSafe reports whether CF/GF filaments can be printed.
	AbrasiveSafe bool `json:"abrasive_safe"`

	BestFor  []string `json:"best_for"`
	AvoidFor []string `json:"avoid_for"`
}

// LayerHeights returns the layer height recommendation per quality level.
func (n *NozzleProfile) LayerHeights() map[string]float64 {
	return map[string]float64{
		"fine":     n.MinLayerHeight,
		"standard": n.OptimalLayerHeight,
		"draft":    n.MaxLayerHeight,
	}
}

var (
	nozzle02SS = &NozzleProfile{
		Diameter:           0.2,
		NozzleType:         NozzleStainlessSteel,
		MinLayerHeight:     0.04,
		OptimalLayerHeight: 0.08,
		MaxLayerHeight:     0.12,
		SpeedMultiplier:    0.5,
		BestFor: []string{
			"Fine text and lettering",
			"Miniatures and figurines",
			"High-detail decorative items",
			"Thin-walled parts",
		},
		AvoidFor: []string{
			"Large prints (very slow)",
			"Functional/structural parts",
			"Abrasive filaments (CF/GF)",
		},
	}

	nozzle04SS = &NozzleProfile{
		Diameter:           0.4,
		NozzleType:         NozzleStainlessSteel,
		MinLayerHeight:     0.08,
		OptimalLayerHeight: 0.20,
		MaxLayerHeight:     0.28,
		SpeedMultiplier:    1.0,
		BestFor: []string{
			"General purpose printing",
			"Good balance of speed and detail",
			"Most PLA, PETG, TPU prints",
			"Functional prototypes",
		},
		AvoidFor: []string{
			"Carbon fiber filaments",
			"Glass fiber filaments",
			"Glow-in-the-dark filaments",
		},
	}

	nozzle04HS = &NozzleProfile{
		Diameter:           0.4,
		NozzleType:         NozzleHardenedSteel,
		MinLayerHeight:     0.08,
		OptimalLayerHeight: 0.20,
		MaxLayerHeight:     0.28,
		SpeedMultiplier:    1.0,
		AbrasiveSafe:       true,
		BestFor: []string{
			"Abrasive filaments (CF, GF)",
			"Glow-in-the-dark filaments",
			"Long-term heavy use",
			"When you don't want to swap nozzles",
		},
		AvoidFor: []string{
			"Highest thermal conductivity needed",
		},
	}

	nozzle06HS = &NozzleProfile{
		Diameter:           0.6,
		NozzleType:         NozzleHardenedSteel,
		MinLayerHeight:     0.12,
		OptimalLayerHeight: 0.30,
		MaxLayerHeight:     0.42,
		SpeedMultiplier:    1.5,
		AbrasiveSafe:       true,
		BestFor: []string{
			"Faster prints with acceptable detail",
			"Larger functional parts",
			"Vases and containers",
			"Carbon fiber filaments (less clog risk)",
			"Structural parts that don't need fine detail",
		},
		AvoidFor: []string{
			"Fine text or small details",
			"Miniatures",
			"Parts requiring thin walls < 0.6mm",
		},
	}

	nozzle08HS = &NozzleProfile{
		Diameter:           0.8,
		NozzleType:         NozzleHardenedSteel,
		MinLayerHeight:     0.20,
		OptimalLayerHeight: 0.40,
		MaxLayerHeight:     0.56,
		SpeedMultiplier:    2.0,
		AbrasiveSafe:       true,
		BestFor: []string{
			"Draft/test prints",
			"Very large parts",
			"Speed is priority over detail",
			"Thick-walled sturdy parts",
			"Industrial prototypes",
		},
		AvoidFor: []string{
			"Any fine detail work",
			"Small parts",
			"Decorative items",
			"Parts with thin features",
		},
	}
)

var nozzleProfiles = map[string]*NozzleProfile{
	"0.2":    nozzle02SS,
	"0.2_ss": nozzle02SS,
	"0.4":    nozzle04SS, // default
	"0.4_ss": nozzle04SS,
	"0.4_hs": nozzle04HS,
	"0.6":    nozzle06HS,
	"0.6_hs": nozzle06HS,
	"0.8":    nozzle08HS,
	"0.8_hs": nozzle08HS,
}

// GetNozzleProfile returns the profile for a diameter and metallurgy,
// or nil when no such nozzle exists.
func GetNozzleProfile(diameter float64, hardened bool) *NozzleProfile {
	key := fmt.Sprintf("%.1f", diameter)
	if hardened && diameter >= 0.4 {
		key += "_hs"
	} else if diameter == 0.4 {
		key += "_ss"
	}
	return nozzleProfiles[key]
}

// RecommendNozzle picks a nozzle for the given requirements and returns
// the profile together with a one-line explanation.
//
// partSize is "small", "medium" or "large"; detailNeeded is "fine",
// "standard" or "low".
func RecommendNozzle(partSize, detailNeeded string, materialAbrasive, speedPriority bool) (*NozzleProfile, string) {
	// abrasive materials require hardened steel
	if materialAbrasive {
		if detailNeeded == "fine" {
			return nozzle04HS, "0.4mm hardened steel for abrasive materials with good detail"
		}
		if speedPriority || partSize == "large" {
			return nozzle06HS, "0.6mm hardened steel for faster abrasive printing with less clog risk"
		}
		return nozzle04HS, "0.4mm hardened steel for balanced abrasive material printing"
	}

	if detailNeeded == "fine" {
		if partSize == "small" {
			return nozzle02SS, "0.2mm for maximum detail on small parts"
		}
		return nozzle04SS, "0.4mm with fine layer heights for good detail"
	}

	if speedPriority {
		if partSize == "large" {
			return nozzle08HS, "0.8mm for fastest large prints"
		}
		return nozzle06HS, "0.6mm for faster printing with acceptable detail"
	}

	return nozzle04SS, "0.4mm stainless steel - best all-around choice"
}

// LayerHeightForQuality returns the layer height for a quality level
// ("fine", "standard", "draft"), snapped to the nearest 0.04mm.
func LayerHeightForQuality(nozzleDiameter float64, quality string) float64 {
	// rule of thumb: layer height = 25-75% of nozzle diameter
	ratios := map[string]float64{
		"fine":     0.25,
		"standard": 0.50,
		"draft":    0.70,
	}
	ratio, ok := ratios[quality]
	if !ok {
		ratio = 0.50
	}
	layerHeight := nozzleDiameter * ratio
	return math.Round(layerHeight/0.04) * 0.04
}
