/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package recommend

// Suggestions maps detected defects to human-readable improvement steps.
func Suggestions(defects []string) []string {
	defectSet := map[string]bool{}
	for _, d := range defects {
		defectSet[d] = true
	}

	var suggestions []string
	if defectSet["layer_shift"] {
		suggestions = append(suggestions,
			"Check belt tension and mechanical stability",
			"Reduce print speed",
			"Ensure printer is on stable surface")
	}
	if defectSet["stringing"] {
		suggestions = append(suggestions,
			"Increase retraction distance (try +0.5mm)",
			"Increase retraction speed (try +10mm/s)",
			"Lower nozzle temperature (try -5°C)")
	}
	if defectSet["warping"] {
		suggestions = append(suggestions,
			"Increase bed temperature (try +5°C)",
			"Add or increase brim width",
			"Use enclosure if available",
			"Slow down first layer")
	}
	if defectSet["blob"] {
		suggestions = append(suggestions,
			"Enable coasting in slicer",
			"Reduce extrusion multiplier slightly",
			"Adjust seam position")
	}
	if defectSet["spaghetti"] {
		suggestions = append(suggestions,
			"Check bed adhesion - clean and level bed",
			"Increase first layer height",
			"Slow down first layer significantly",
			"Use brim or raft for better adhesion")
	}
	if defectSet["under_extrusion"] {
		suggestions = append(suggestions,
			"Increase flow rate/extrusion multiplier",
			"Check for clogged nozzle",
			"Increase nozzle temperature")
	}
	if defectSet["over_extrusion"] {
		suggestions = append(suggestions,
			"Decrease flow rate/extrusion multiplier",
			"Calibrate E-steps")
	}
	return suggestions
}
