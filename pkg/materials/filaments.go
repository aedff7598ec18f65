/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package materials holds the filament and nozzle knowledge base.
// Profiles are sourced from vendor documentation and community testing,
// tuned for an open-frame desktop printer.
package materials

import (
	"github.com/hunter-stradley/vibe-print/pkg/utils/stringutil"
)

type FilamentType string

const (
	FilamentPLA    FilamentType = "PLA"
	FilamentPETG   FilamentType = "PETG"
	FilamentPC     FilamentType = "PC"
	FilamentTPU    FilamentType = "TPU"
	FilamentABS    FilamentType = "ABS"
	FilamentASA    FilamentType = "ASA"
	FilamentNylon  FilamentType = "NYLON"
	FilamentPLACF  FilamentType = "PLA-CF"
	FilamentPETGCF FilamentType = "PETG-CF"
)

type FlexRating string

const (
	FlexRigid     FlexRating = "rigid"
	FlexSemiRigid FlexRating = "semi_rigid"
	FlexSemiFlex  FlexRating = "semi_flex"
	FlexFlexible  FlexRating = "flexible"
)

// TemperatureRange is a temperature window with its optimal value, in °C.
type TemperatureRange struct {
	Min     int `json:"min"`
	Optimal int `json:"optimal"`
	Max     int `json:"max"`
}

// FilamentProfile is a complete filament profile with printing parameters.
// Temperatures in °C, speeds in mm/s, distances in mm.
type FilamentProfile struct {
	Name         string       `json:"name"`
	Brand        string       `json:"brand"`
	MaterialType FilamentType `json:"material_type"`

	Density  float64 `json:"density"`  // g/cm³
	Diameter float64 `json:"diameter"` // mm

	NozzleTemp           TemperatureRange `json:"nozzle_temp"`
	NozzleTempFirstLayer int              `json:"nozzle_temp_first_layer,omitempty"` // 0 means same as optimal
	BedTemp              TemperatureRange `json:"bed_temp"`
	BedTempFirstLayer    int              `json:"bed_temp_first_layer,omitempty"`
	MaxHotendTemp        int              `json:"max_hotend_temp"`

	MaxPrintSpeed     float64 `json:"max_print_speed"`
	RecommendedSpeed  float64 `json:"recommended_speed"`
	FirstLayerSpeed   float64 `json:"first_layer_speed"`
	MaxVolumetricFlow float64 `json:"max_volumetric_flow"` // mm³/s

	RetractionLength float64 `json:"retraction_length"`
	RetractionSpeed  float64 `json:"retraction_speed"`

	FanMinSpeed    int `json:"fan_min_speed"` // percent
	FanMaxSpeed    int `json:"fan_max_speed"`
	FanFirstLayers int `json:"fan_first_layers"` // layers before fan kicks in

	FlexRating       FlexRating `json:"flex_rating"`
	ImpactResistance string     `json:"impact_resistance"` // low, medium, high
	HeatResistance   int        `json:"heat_resistance"`   // °C before deformation
	UVResistance     bool       `json:"uv_resistance"`
	WaterResistance  bool       `json:"water_resistance"`
	FoodSafe         bool       `json:"food_safe"`

	RequiresEnclosure      bool   `json:"requires_enclosure"`
	RequiresHardenedNozzle bool   `json:"requires_hardened_nozzle"`
	AMSCompatible          bool   `json:"ams_compatible"`
	BedAdhesion            string `json:"bed_adhesion"`       // poor, fair, good, excellent
	WarpingTendency        string `json:"warping_tendency"`   // none, low, medium, high
	StringingTendency      string `json:"stringing_tendency"` // none, low, medium, high

	Notes     []string `json:"notes"`
	CostPerKg float64  `json:"cost_per_kg"`
}

// IsFlexible reports whether the material is flexible (TPU, TPE).
func (p *FilamentProfile) IsFlexible() bool {
	return p.FlexRating == FlexFlexible || p.FlexRating == FlexSemiFlex
}

// IsAbrasive reports whether the material requires a hardened nozzle (CF, GF).
func (p *FilamentProfile) IsAbrasive() bool {
	return p.RequiresHardenedNozzle
}

// FirstLayerNozzleTemp returns the first layer nozzle temperature,
// falling back to the optimal temperature.
func (p *FilamentProfile) FirstLayerNozzleTemp() int {
	if p.NozzleTempFirstLayer > 0 {
		return p.NozzleTempFirstLayer
	}
	return p.NozzleTemp.Optimal
}

// FirstLayerBedTemp returns the first layer bed temperature, falling
// back to optimal+5.
func (p *FilamentProfile) FirstLayerBedTemp() int {
	if p.BedTempFirstLayer > 0 {
		return p.BedTempFirstLayer
	}
	return p.BedTemp.Optimal + 5
}

// SlicerParams returns the profile values keyed by slicer parameter name.
func (p *FilamentProfile) SlicerParams() map[string]interface{} {
	return map[string]interface{}{
		"nozzle_temperature":               p.NozzleTemp.Optimal,
		"nozzle_temperature_initial_layer": p.FirstLayerNozzleTemp(),
		"bed_temperature":                  p.BedTemp.Optimal,
		"bed_temperature_initial_layer":    p.FirstLayerBedTemp(),
		"fan_min_speed":                    p.FanMinSpeed,
		"fan_max_speed":                    p.FanMaxSpeed,
		"retraction_length":                p.RetractionLength,
		"retraction_speed":                 p.RetractionSpeed,
	}
}

// DesignRecommendations returns design advice derived from material properties.
func (p *FilamentProfile) DesignRecommendations() []string {
	var recs []string

	if p.IsFlexible() {
		recs = append(recs,
			"Reduce infill to 15-25% for flexibility",
			"Use 2-3 wall loops for TPU",
			"Avoid thin walls < 1.2mm")
	}
	if p.WarpingTendency == "medium" || p.WarpingTendency == "high" {
		recs = append(recs,
			"Use brim (8mm+) for bed adhesion",
			"Avoid large flat surfaces or add mouse ears")
	}
	if p.StringingTendency == "medium" || p.StringingTendency == "high" {
		recs = append(recs,
			"Minimize travel moves between parts",
			"Print one object at a time if possible")
	}
	if p.ImpactResistance == "low" {
		recs = append(recs,
			"Increase wall loops to 4+ for strength",
			"Use 30%+ infill for load-bearing parts")
	}
	if p.MaterialType == FilamentTPU {
		recs = append(recs,
			"Disable dynamic flow calibration",
			"Use direct extruder feed (no AMS)")
	}
	if p.RequiresEnclosure {
		recs = append(recs,
			"This material works best with an enclosed printer",
			"Consider smaller parts to reduce warping")
	}
	return recs
}

var (
	bambuPLA = &FilamentProfile{
		Name:         "Bambu Basic PLA",
		Brand:        "Bambu Lab",
		MaterialType: FilamentPLA,
		Density:      1.24,
		Diameter:     1.75,

		NozzleTemp:    TemperatureRange{Min: 190, Optimal: 220, Max: 230},
		BedTemp:       TemperatureRange{Min: 45, Optimal: 55, Max: 65},
		MaxHotendTemp: 300,

		MaxPrintSpeed:     300.0,
		RecommendedSpeed:  150.0,
		FirstLayerSpeed:   30.0,
		MaxVolumetricFlow: 21.0,

		RetractionLength: 0.8,
		RetractionSpeed:  30.0,

		FanMinSpeed:    80,
		FanMaxSpeed:    100,
		FanFirstLayers: 1,

		FlexRating:       FlexRigid,
		ImpactResistance: "medium",
		HeatResistance:   55,

		AMSCompatible:     true,
		BedAdhesion:       "excellent",
		WarpingTendency:   "none",
		StringingTendency: "low",

		Notes: []string{
			"Great all-around filament for most prints",
			"Easy to print, minimal tuning needed",
			"Good for functional prototypes and decorative items",
			"Can use Cool Plate or Engineering Plate",
		},
		CostPerKg: 25.0,
	}

	bambuPETGTranslucent = &FilamentProfile{
		Name:         "Bambu PETG Translucent",
		Brand:        "Bambu Lab",
		MaterialType: FilamentPETG,
		Density:      1.27,
		Diameter:     1.75,

		NozzleTemp:        TemperatureRange{Min: 230, Optimal: 245, Max: 260},
		BedTemp:           TemperatureRange{Min: 70, Optimal: 80, Max: 90},
		BedTempFirstLayer: 85,
		MaxHotendTemp:     300,

		MaxPrintSpeed:     200.0,
		RecommendedSpeed:  80.0,
		FirstLayerSpeed:   25.0,
		MaxVolumetricFlow: 12.0,

		RetractionLength: 0.6,
		RetractionSpeed:  25.0,

		FanMinSpeed:    50,
		FanMaxSpeed:    80,
		FanFirstLayers: 3,

		FlexRating:       FlexRigid,
		ImpactResistance: "high",
		HeatResistance:   75,
		UVResistance:     true,
		WaterResistance:  true,

		AMSCompatible:     true,
		BedAdhesion:       "good",
		WarpingTendency:   "low",
		StringingTendency: "high",

		Notes: []string{
			"Higher impact resistance than PLA",
			"Prone to stringing - tune retraction carefully",
			"Translucent effect works well with internal lighting",
			"Use Engineering Plate with glue stick for best adhesion",
			"Let cool completely before removing from bed",
		},
		CostPerKg: 30.0,
	}

	prusaPCBlend = &FilamentProfile{
		Name:         "Prusament PC Blend",
		Brand:        "Prusa",
		MaterialType: FilamentPC,
		Density:      1.20,
		Diameter:     1.75,

		NozzleTemp:           TemperatureRange{Min: 265, Optimal: 275, Max: 285},
		NozzleTempFirstLayer: 280,
		BedTemp:              TemperatureRange{Min: 100, Optimal: 110, Max: 115},
		BedTempFirstLayer:    115,
		MaxHotendTemp:        300,

		MaxPrintSpeed:     150.0,
		RecommendedSpeed:  60.0,
		FirstLayerSpeed:   20.0,
		MaxVolumetricFlow: 8.0,

		RetractionLength: 0.6,
		RetractionSpeed:  25.0,

		FanMinSpeed:    0,
		FanMaxSpeed:    30,
		FanFirstLayers: 5,

		FlexRating:       FlexRigid,
		ImpactResistance: "high",
		HeatResistance:   110,
		UVResistance:     true,
		WaterResistance:  true,

		AMSCompatible:     true,
		BedAdhesion:       "fair",
		WarpingTendency:   "medium",
		StringingTendency: "low",

		Notes: []string{
			"Open-frame printers can print PC Blend but with limitations",
			"Use textured PEI plate with glue stick",
			"Smaller parts work better on open-frame printers",
			"Keep ambient temp > 18°C to avoid thermal runaway",
			"May have some warping on larger parts (>10cm)",
			"Add 4mm+ brim for parts larger than 5cm",
			"Excellent strength and heat resistance",
		},
		CostPerKg: 45.0,
	}

	genericPETG = &FilamentProfile{
		Name:         "Generic PETG",
		Brand:        "Generic",
		MaterialType: FilamentPETG,
		Density:      1.27,
		Diameter:     1.75,

		NozzleTemp:    TemperatureRange{Min: 220, Optimal: 240, Max: 260},
		BedTemp:       TemperatureRange{Min: 70, Optimal: 80, Max: 90},
		MaxHotendTemp: 300,

		MaxPrintSpeed:     150.0,
		RecommendedSpeed:  60.0,
		FirstLayerSpeed:   20.0,
		MaxVolumetricFlow: 10.0,

		RetractionLength: 0.8,
		RetractionSpeed:  25.0,

		FanMinSpeed:    30,
		FanMaxSpeed:    70,
		FanFirstLayers: 3,

		FlexRating:       FlexRigid,
		ImpactResistance: "high",
		HeatResistance:   70,
		UVResistance:     true,
		WaterResistance:  true,

		AMSCompatible:     true,
		BedAdhesion:       "good",
		WarpingTendency:   "low",
		StringingTendency: "high",

		Notes: []string{
			"Third-party PETG may need temperature tuning",
			"Start at 235°C and adjust in 5°C increments",
			"Significant stringing is normal - use post-processing",
			"Print temperature tower to find optimal settings",
		},
		CostPerKg: 25.0,
	}

	genericTPU95A = &FilamentProfile{
		Name:         "Generic TPU 95A",
		Brand:        "Generic",
		MaterialType: FilamentTPU,
		Density:      1.21,
		Diameter:     1.75,

		NozzleTemp:    TemperatureRange{Min: 210, Optimal: 230, Max: 240},
		BedTemp:       TemperatureRange{Min: 30, Optimal: 45, Max: 60},
		MaxHotendTemp: 300,

		MaxPrintSpeed:     40.0,
		RecommendedSpeed:  25.0,
		FirstLayerSpeed:   15.0,
		MaxVolumetricFlow: 3.2,

		RetractionLength: 0.5,
		RetractionSpeed:  20.0,

		FanMinSpeed:    50,
		FanMaxSpeed:    80,
		FanFirstLayers: 2,

		FlexRating:       FlexSemiFlex,
		ImpactResistance: "high",
		HeatResistance:   80,
		UVResistance:     true,
		WaterResistance:  true,

		AMSCompatible:     false,
		BedAdhesion:       "good",
		WarpingTendency:   "none",
		StringingTendency: "high",

		Notes: []string{
			"Do NOT use with AMS - feed directly",
			"Disable dynamic flow calibration",
			"Print one object at a time to minimize travel",
			"Use low retraction (0.5mm) and slow speed (20mm/s)",
			"Max volumetric flow is 3.2 mm³/s for generic TPU",
			"Avoid excessive travel moves",
			"95A is semi-flexible, good for phone cases, grips",
		},
		CostPerKg: 35.0,
	}
)

// filamentProfiles maps alias keys to profiles. Several aliases resolve
// to the same profile.
var filamentProfiles = map[string]*FilamentProfile{
	"bambu_pla":              bambuPLA,
	"bambu_basic_pla":        bambuPLA,
	"bambu_petg":             bambuPETGTranslucent,
	"bambu_petg_translucent": bambuPETGTranslucent,
	"prusa_pc":               prusaPCBlend,
	"prusa_pc_blend":         prusaPCBlend,
	"prusament_pc":           prusaPCBlend,
	"generic_petg":           genericPETG,
	"petg":                   genericPETG,
	"generic_tpu":            genericTPU95A,
	"tpu_95a":                genericTPU95A,
	"tpu":                    genericTPU95A,
}

// GetFilamentProfile looks up a filament profile by name. The name is
// normalized, so "Bambu PLA", "bambu-pla" and "bambu_pla" all resolve.
func GetFilamentProfile(name string) *FilamentProfile {
	return filamentProfiles[stringutil.NormalizeKey(name)]
}

// FilamentSummary is a catalogue entry for one filament profile.
type FilamentSummary struct {
	Name     string   `json:"name"`
	Brand    string   `json:"brand"`
	Type     string   `json:"type"`
	UseCases []string `json:"use_cases"`
}

// filamentListOrder fixes the catalogue order; map iteration is random.
var filamentListOrder = []*FilamentProfile{
	bambuPLA, bambuPETGTranslucent, prusaPCBlend, genericPETG, genericTPU95A,
}

// ListFilamentProfiles lists all profiles, deduplicated by name.
func ListFilamentProfiles() []FilamentSummary {
	seen := map[string]bool{}
	var profiles []FilamentSummary
	for _, profile := range filamentListOrder {
		if seen[profile.Name] {
			continue
		}
		seen[profile.Name] = true
		profiles = append(profiles, FilamentSummary{
			Name:     profile.Name,
			Brand:    profile.Brand,
			Type:     string(profile.MaterialType),
			UseCases: useCases(profile),
		})
	}
	return profiles
}

func useCases(profile *FilamentProfile) []string {
	switch profile.MaterialType {
	case FilamentPLA:
		return []string{"Prototypes", "Decorative items", "Low-stress parts", "General purpose"}
	case FilamentPETG:
		return []string{"Functional parts", "Outdoor use", "Water-resistant items", "Food containers (check food-safe)"}
	case FilamentPC:
		return []string{"High-strength parts", "Heat-resistant items", "Mechanical components", "Protective gear"}
	case FilamentTPU:
		return []string{"Phone cases", "Gaskets/seals", "Flexible hinges", "Shoe insoles", "Grips"}
	}
	return nil
}

// FilamentNeeds captures functional requirements for filament selection.
type FilamentNeeds struct {
	Strength        bool
	Flexibility     bool
	HeatResistance  bool
	Outdoor         bool
	WaterResistance bool
}

// SuggestFilaments returns registry keys of filaments matching the
// needs, most suitable first. Flexibility excludes everything else.
func SuggestFilaments(needs FilamentNeeds) []string {
	if needs.Flexibility {
		return []string{"generic_tpu"}
	}
	switch {
	case needs.HeatResistance && needs.Strength:
		return []string{"prusa_pc"}
	case needs.Outdoor && needs.Strength:
		return []string{"bambu_petg", "prusa_pc"}
	case needs.WaterResistance:
		return []string{"bambu_petg", "generic_petg"}
	case needs.Strength:
		return []string{"bambu_petg", "prusa_pc"}
	default:
		return []string{"bambu_pla"}
	}
}
