/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package optimizer adjusts slicing and design parameters for a
// material's properties. Optimize is a pure function over a parameter
// map; running it on its own output is a no-op.
package optimizer

import (
	"fmt"
	"math"

	"github.com/hunter-stradley/vibe-print/pkg/materials"
)

// Change records one parameter adjustment.
type Change struct {
	Parameter string      `json:"parameter"`
	OldValue  interface{} `json:"old_value"`
	NewValue  interface{} `json:"new_value"`
	Reason    string      `json:"reason"`
}

// Result is the outcome of one optimization pass.
type Result struct {
	Original  map[string]interface{} `json:"original"`
	Optimized map[string]interface{} `json:"optimized"`
	Changes   []Change               `json:"changes"`
	Warnings  []string               `json:"warnings"`
	Notes     []string               `json:"notes"`
}

type optimizer struct {
	params   map[string]interface{}
	changes  []Change
	warnings []string
	notes    []string
}

// Optimize adjusts params for the given material. Rules run in a fixed
// order: temperatures, speeds, retraction, cooling, adhesion, structure,
// material specifics. Unknown materials leave the map untouched and emit
// a warning.
func Optimize(params map[string]interface{}, material string, nozzleDiameter, ambientTemp float64) Result {
	original := copyParams(params)
	if nozzleDiameter == 0 {
		nozzleDiameter = 0.4
	}

	o := &optimizer{params: copyParams(params)}

	profile := materials.GetFilamentProfile(material)
	if profile == nil {
		o.warnings = append(o.warnings, fmt.Sprintf("Unknown material '%s', using defaults", material))
		return Result{
			Original:  original,
			Optimized: o.params,
			Changes:   []Change{},
			Warnings:  o.warnings,
			Notes:     o.notes,
		}
	}

	o.optimizeTemperatures(profile)
	o.optimizeSpeeds(profile, nozzleDiameter)
	o.optimizeRetraction(profile)
	o.optimizeCooling(profile)
	o.optimizeAdhesion(profile)
	o.optimizeStructure(profile)
	o.applyMaterialSpecifics(profile, ambientTemp)

	if o.changes == nil {
		o.changes = []Change{}
	}
	return Result{
		Original:  original,
		Optimized: o.params,
		Changes:   o.changes,
		Warnings:  o.warnings,
		Notes:     o.notes,
	}
}

func copyParams(params map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

func (o *optimizer) number(key string) (float64, bool) {
	v, ok := o.params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func (o *optimizer) numberOr(key string, def float64) float64 {
	if v, ok := o.number(key); ok {
		return v
	}
	return def
}

func (o *optimizer) boolOr(key string, def bool) bool {
	if v, ok := o.params[key].(bool); ok {
		return v
	}
	return def
}

func (o *optimizer) recordChange(param string, oldValue, newValue interface{}, reason string) {
	if oldValue == newValue {
		return
	}
	o.changes = append(o.changes, Change{
		Parameter: param,
		OldValue:  oldValue,
		NewValue:  newValue,
		Reason:    reason,
	})
}

func (o *optimizer) optimizeTemperatures(material *materials.FilamentProfile) {
	if oldTemp, ok := o.number("nozzle_temp"); ok {
		if oldTemp < float64(material.NozzleTemp.Min) {
			o.params["nozzle_temp"] = float64(material.NozzleTemp.Optimal)
			o.recordChange("nozzle_temp", oldTemp, float64(material.NozzleTemp.Optimal),
				fmt.Sprintf("%s requires at least %d°C", material.Name, material.NozzleTemp.Min))
		} else if oldTemp > float64(material.NozzleTemp.Max) {
			o.params["nozzle_temp"] = float64(material.NozzleTemp.Optimal)
			o.recordChange("nozzle_temp", oldTemp, float64(material.NozzleTemp.Optimal),
				fmt.Sprintf("%s degrades above %d°C", material.Name, material.NozzleTemp.Max))
		}
	} else {
		o.params["nozzle_temp"] = float64(material.NozzleTemp.Optimal)
		o.recordChange("nozzle_temp", nil, float64(material.NozzleTemp.Optimal),
			fmt.Sprintf("Set optimal temperature for %s", material.Name))
	}

	if oldTemp, ok := o.number("bed_temp"); ok {
		if oldTemp < float64(material.BedTemp.Min) {
			o.params["bed_temp"] = float64(material.BedTemp.Optimal)
			o.recordChange("bed_temp", oldTemp, float64(material.BedTemp.Optimal),
				fmt.Sprintf("%s needs bed at least %d°C", material.Name, material.BedTemp.Min))
		}
	} else {
		o.params["bed_temp"] = float64(material.BedTemp.Optimal)
		o.recordChange("bed_temp", nil, float64(material.BedTemp.Optimal),
			fmt.Sprintf("Set optimal bed temperature for %s", material.Name))
	}
}

func (o *optimizer) optimizeSpeeds(material *materials.FilamentProfile, nozzleDiameter float64) {
	maxSpeed := material.MaxPrintSpeed

	if oldSpeed, ok := o.number("outer_wall_speed"); ok {
		// outer walls should be slower for quality
		optimalOuter := math.Min(oldSpeed, maxSpeed*0.5)
		if oldSpeed > optimalOuter {
			o.params["outer_wall_speed"] = math.Trunc(optimalOuter)
			o.recordChange("outer_wall_speed", oldSpeed, math.Trunc(optimalOuter),
				fmt.Sprintf("%s prints better at slower outer wall speeds", material.Name))
		}
	}

	if oldSpeed, ok := o.number("inner_wall_speed"); ok {
		optimalInner := math.Min(oldSpeed, maxSpeed*0.7)
		if oldSpeed > optimalInner {
			o.params["inner_wall_speed"] = math.Trunc(optimalInner)
			o.recordChange("inner_wall_speed", oldSpeed, math.Trunc(optimalInner),
				fmt.Sprintf("Reduced for %s quality", material.Name))
		}
	}

	if oldSpeed, ok := o.number("infill_speed"); ok {
		optimalInfill := math.Min(oldSpeed, maxSpeed)
		if oldSpeed > optimalInfill {
			o.params["infill_speed"] = math.Trunc(optimalInfill)
			o.recordChange("infill_speed", oldSpeed, math.Trunc(optimalInfill),
				fmt.Sprintf("%s max speed is %gmm/s", material.Name, maxSpeed))
		}
	}

	layerHeight := o.numberOr("layer_height", 0.2)
	lineWidth := o.numberOr("line_width", nozzleDiameter*1.1)
	outerSpeed := o.numberOr("outer_wall_speed", 50)

	volumetric := layerHeight * lineWidth * outerSpeed
	if volumetric > material.MaxVolumetricFlow {
		safeSpeed := material.MaxVolumetricFlow / (layerHeight * lineWidth)
		// cap at the outer wall quality ceiling so the result is stable
		newSpeed := math.Trunc(math.Min(safeSpeed*0.9, maxSpeed*0.5))
		o.params["outer_wall_speed"] = newSpeed
		o.recordChange("outer_wall_speed", outerSpeed, newSpeed,
			fmt.Sprintf("Reduced to stay within %gmm³/s flow limit", material.MaxVolumetricFlow))
		o.notes = append(o.notes,
			fmt.Sprintf("Volumetric flow limited to %gmm³/s for %s", material.MaxVolumetricFlow, material.Name))
	}
}

func (o *optimizer) optimizeRetraction(material *materials.FilamentProfile) {
	oldLength := o.numberOr("retraction_length", 0.8)
	if math.Abs(oldLength-material.RetractionLength) > 0.2 {
		o.params["retraction_length"] = material.RetractionLength
		o.recordChange("retraction_length", oldLength, material.RetractionLength,
			fmt.Sprintf("Optimal retraction for %s", material.Name))
	}

	oldSpeed := o.numberOr("retraction_speed", 30)
	if math.Abs(oldSpeed-material.RetractionSpeed) > 5 {
		o.params["retraction_speed"] = material.RetractionSpeed
		o.recordChange("retraction_speed", oldSpeed, material.RetractionSpeed,
			fmt.Sprintf("Optimal retraction speed for %s", material.Name))
	}

	if material.IsFlexible() {
		if o.numberOr("retraction_length", 0) > 1.0 {
			o.params["retraction_length"] = 0.5
			o.recordChange("retraction_length", oldLength, 0.5,
				"Flexible filaments need minimal retraction to prevent jams")
		}
		o.notes = append(o.notes, "TPU: Reduce or disable retraction to prevent jams")
	}
}

func (o *optimizer) optimizeCooling(material *materials.FilamentProfile) {
	oldFan := o.numberOr("fan_speed", 100)

	switch material.MaterialType {
	case materials.FilamentPLA:
		// PLA likes cooling
		if oldFan < 80 {
			o.params["fan_speed"] = float64(100)
			o.recordChange("fan_speed", oldFan, float64(100), "PLA benefits from high cooling")
		}
	case materials.FilamentPETG:
		if oldFan > 60 {
			o.params["fan_speed"] = float64(50)
			o.recordChange("fan_speed", oldFan, float64(50),
				"PETG needs moderate cooling to prevent brittleness")
		}
	case materials.FilamentPC:
		if oldFan > 30 {
			o.params["fan_speed"] = float64(20)
			o.params["fan_min_layer_time"] = float64(15)
			o.recordChange("fan_speed", oldFan, float64(20),
				"PC needs minimal cooling to prevent cracking")
			o.notes = append(o.notes, "PC: Keep fan low to prevent layer separation")
		}
	case materials.FilamentTPU:
		newFan := math.Min(oldFan, 50)
		o.params["fan_speed"] = newFan
		if oldFan != newFan {
			o.recordChange("fan_speed", oldFan, newFan, "TPU works best with moderate cooling")
		}
	}
}

func (o *optimizer) optimizeAdhesion(material *materials.FilamentProfile) {
	warpProne := material.MaterialType == materials.FilamentPC ||
		material.MaterialType == materials.FilamentABS
	oldBrim := o.numberOr("brim_width", 5)

	if warpProne && oldBrim < 8 {
		o.params["brim_width"] = float64(10)
		o.recordChange("brim_width", oldBrim, float64(10),
			fmt.Sprintf("%s is prone to warping - larger brim helps", material.Name))
		o.warnings = append(o.warnings, fmt.Sprintf(
			"%s tends to warp. Use brim, ensure bed is level, and consider enclosure if available.",
			material.Name))
	}

	oldFirst := o.numberOr("initial_layer_speed", 30)
	if oldFirst > 25 {
		o.params["initial_layer_speed"] = float64(20)
		o.recordChange("initial_layer_speed", oldFirst, float64(20),
			"Slower first layer improves adhesion")
	}

	// thicker first layer squishes into the bed
	oldHeight := o.numberOr("initial_layer_height", 0.2)
	layerHeight := o.numberOr("layer_height", 0.2)
	optimalFirst := layerHeight * 1.2
	if math.Abs(oldHeight-optimalFirst) > 0.02 {
		rounded := math.Round(optimalFirst*100) / 100
		o.params["initial_layer_height"] = rounded
		o.recordChange("initial_layer_height", oldHeight, rounded,
			"Slightly thicker first layer improves bed adhesion")
	}
}

func (o *optimizer) optimizeStructure(material *materials.FilamentProfile) {
	if !material.IsFlexible() {
		return
	}
	oldWalls := o.numberOr("wall_loops", 3)
	if oldWalls < 3 {
		o.params["wall_loops"] = float64(3)
		o.recordChange("wall_loops", oldWalls, float64(3),
			"Flexible materials benefit from more walls")
	}
	oldInfill := o.numberOr("sparse_infill_density", 20)
	if oldInfill > 25 {
		o.notes = append(o.notes, fmt.Sprintf(
			"Current infill is %g%%. Lower infill (10-20%%) makes TPU more flexible.", oldInfill))
	}
}

func (o *optimizer) applyMaterialSpecifics(material *materials.FilamentProfile, ambientTemp float64) {
	if !material.AMSCompatible {
		o.warnings = append(o.warnings, fmt.Sprintf(
			"%s is NOT compatible with AMS. Feed filament directly to the extruder.", material.Name))
	}

	if material.MaterialType == materials.FilamentPC {
		o.warnings = append(o.warnings,
			"Polycarbonate prints best in an enclosed printer. "+
				"This printer is open frame - keep parts small and use draft shield.")
		oldShield := o.boolOr("enable_draft_shield", false)
		o.params["enable_draft_shield"] = true
		o.recordChange("enable_draft_shield", oldShield, true,
			"Draft shield helps PC on open frame printers")
	}

	if ambientTemp < 18 {
		o.notes = append(o.notes, fmt.Sprintf(
			"Room is cold (%g°C). Consider +5°C bed temp and using enclosure/draft shield for better adhesion.",
			ambientTemp))
		// bump beds sitting near the material minimum; already-raised beds stay put
		if bed, ok := o.number("bed_temp"); ok && bed < float64(material.BedTemp.Min)+5 {
			bumped := math.Min(bed+5, float64(material.BedTemp.Max))
			if bumped != bed {
				o.params["bed_temp"] = bumped
				o.recordChange("bed_temp", bed, bumped,
					"Cold room: raised bed temperature for adhesion")
			}
		}
	}

	if material.MaterialType == materials.FilamentPETG {
		o.notes = append(o.notes,
			"PETG tends to string. Tune retraction and consider lowering temp by 5-10°C if stringing occurs.")
		if !o.boolOr("z_hop_enabled", false) {
			o.params["z_hop_enabled"] = true
			o.params["z_hop_height"] = 0.4
			o.recordChange("z_hop_enabled", false, true,
				"Z-hop helps PETG avoid nozzle hitting printed parts")
		}
	}
}
