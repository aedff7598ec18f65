/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package wizard

import (
	"fmt"
	"strings"

	"github.com/hunter-stradley/vibe-print/pkg/materials"
)

// Suggestion priorities.
const (
	PriorityCritical    = "critical"
	PriorityRecommended = "recommended"
	PriorityOptional    = "optional"
)

// Suggestion categories.
const (
	CategoryDimensions   = "dimensions"
	CategoryStructure    = "structure"
	CategoryPrintability = "printability"
	CategoryMaterial     = "material"
	CategoryAesthetics   = "aesthetics"
)

// DesignSuggestion is one piece of design feedback, written for
// someone new to printing.
type DesignSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`

	CurrentValue   interface{} `json:"current_value,omitempty"`
	SuggestedValue interface{} `json:"suggested_value,omitempty"`

	WhyItMatters string `json:"why_it_matters"`
	IfIgnored    string `json:"if_ignored"`

	AutoFixable  bool   `json:"auto_fixable"`
	FixParameter string `json:"-"`
}

// DesignCheckpoint groups the suggestions of one review pass.
type DesignCheckpoint struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Passed      bool               `json:"passed"`
	Suggestions []DesignSuggestion `json:"suggestions"`
}

// DesignReview is the complete result of reviewing design parameters.
type DesignReview struct {
	OverallStatus   string             `json:"overall_status"` // good | needs_attention
	Summary         string             `json:"summary"`
	Checkpoints     []DesignCheckpoint `json:"checkpoints"`
	Suggestions     []DesignSuggestion `json:"suggestions"`
	CriticalIssues  int                `json:"critical_issues"`
	Recommendations int                `json:"recommendations"`
	AutoFixable     int                `json:"auto_fixable"`
}

// ReviewDesign analyzes design parameters and produces friendly,
// deterministic feedback. Same inputs always produce the same review.
func ReviewDesign(params map[string]interface{}, intendedUse, material string, nozzleDiameter float64) *DesignReview {
	if nozzleDiameter <= 0 {
		nozzleDiameter = 0.4
	}
	var profile *materials.FilamentProfile
	if material != "" {
		profile = materials.GetFilamentProfile(material)
	}

	review := &DesignReview{}
	review.addCheckpoint("Dimension Check", "Verify dimensions are printable",
		checkDimensions(params, nozzleDiameter))
	review.addCheckpoint("Structural Review", "Check strength and durability",
		checkStructure(params, intendedUse))
	review.addCheckpoint("Printability Check", "Verify design will print reliably",
		checkPrintability(params))
	review.addCheckpoint("Material Compatibility", "Check material-specific requirements",
		checkMaterial(params, profile))
	review.addCheckpoint("Aesthetics Review", "Optional aesthetic improvements", nil)

	for _, s := range review.Suggestions {
		switch s.Priority {
		case PriorityCritical:
			review.CriticalIssues++
		case PriorityRecommended:
			review.Recommendations++
		}
		if s.AutoFixable {
			review.AutoFixable++
		}
	}
	review.OverallStatus = "good"
	if review.CriticalIssues > 0 {
		review.OverallStatus = "needs_attention"
	}
	review.Summary = reviewSummary(review.CriticalIssues, review.Recommendations)
	return review
}

func (r *DesignReview) addCheckpoint(name, description string, suggestions []DesignSuggestion) {
	passed := true
	for _, s := range suggestions {
		if s.Priority == PriorityCritical {
			passed = false
		}
	}
	if suggestions == nil {
		suggestions = []DesignSuggestion{}
	}
	r.Suggestions = append(r.Suggestions, suggestions...)
	r.Checkpoints = append(r.Checkpoints, DesignCheckpoint{
		Name:        name,
		Description: description,
		Passed:      passed,
		Suggestions: suggestions,
	})
}

func paramNumber(params map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		switch v := params[key].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	return 0
}

func checkDimensions(params map[string]interface{}, nozzleDiameter float64) []DesignSuggestion {
	var suggestions []DesignSuggestion

	wallThickness := paramNumber(params, "wall_thickness", "wall_thickness_mm")
	if wallThickness > 0 {
		// at least two perimeters
		minWall := nozzleDiameter * 2
		if minWall < 0.8 {
			minWall = 0.8
		}
		if wallThickness < minWall {
			suggested := minWall
			if suggested < 1.2 {
				suggested = 1.2
			}
			suggestions = append(suggestions, DesignSuggestion{
				Title:          "Wall thickness too thin",
				Description:    fmt.Sprintf("Your wall thickness of %gmm may be too thin for reliable printing.", wallThickness),
				Category:       CategoryDimensions,
				Priority:       PriorityCritical,
				CurrentValue:   wallThickness,
				SuggestedValue: suggested,
				WhyItMatters: fmt.Sprintf(
					"Thin walls are fragile and may not print properly. With a %gmm nozzle, you need at least %gmm for two solid perimeters.",
					nozzleDiameter, minWall),
				IfIgnored:    "Part may have gaps, be fragile, or fail to print.",
				AutoFixable:  true,
				FixParameter: "wall_thickness",
			})
		}
	}

	clearance := paramNumber(params, "clearance", "clearance_mm")
	if clearance > 0 && clearance < 0.2 {
		suggestions = append(suggestions, DesignSuggestion{
			Title:          "Clearance too tight",
			Description:    fmt.Sprintf("Your clearance of %gmm may cause parts to fuse together.", clearance),
			Category:       CategoryDimensions,
			Priority:       PriorityCritical,
			CurrentValue:   clearance,
			SuggestedValue: 0.3,
			WhyItMatters:   "3D printers have slight inaccuracies. Parts with less than 0.2mm clearance often fuse together or don't fit.",
			IfIgnored:      "Parts may not fit together or be impossible to separate.",
			AutoFixable:    true,
			FixParameter:   "clearance",
		})
	}
	if clearance > 2.0 {
		suggestions = append(suggestions, DesignSuggestion{
			Title:        "Large clearance - verify fit type",
			Description:  fmt.Sprintf("Your clearance of %gmm will create a loose fit.", clearance),
			Category:     CategoryDimensions,
			Priority:     PriorityOptional,
			CurrentValue: clearance,
			WhyItMatters: "Large clearance means the parts will be loose. This is fine for sliding fits but may be too loose for snug fits.",
			IfIgnored:    "Part may be looser than intended.",
		})
	}

	for _, key := range []string{"hole_diameter", "slot_width", "feature_size"} {
		size := paramNumber(params, key)
		if _, present := params[key]; !present || size >= nozzleDiameter {
			continue
		}
		suggestions = append(suggestions, DesignSuggestion{
			Title:          fmt.Sprintf("Feature may be too small: %s", key),
			Description:    fmt.Sprintf("The %s of %gmm is smaller than your nozzle diameter.", key, size),
			Category:       CategoryDimensions,
			Priority:       PriorityCritical,
			CurrentValue:   size,
			SuggestedValue: nozzleDiameter * 1.5,
			WhyItMatters: fmt.Sprintf(
				"Your %gmm nozzle can't reliably print features smaller than %gmm. The feature may not appear or will be very rough.",
				nozzleDiameter, nozzleDiameter),
			IfIgnored:    "Feature may not print or look very rough.",
			AutoFixable:  true,
			FixParameter: key,
		})
	}
	return suggestions
}

var heavyDutyKeywords = []string{"heavy", "strong", "force", "load", "squeeze", "grip", "hold"}

func checkStructure(params map[string]interface{}, intendedUse string) []DesignSuggestion {
	var suggestions []DesignSuggestion
	use := strings.ToLower(intendedUse)

	needsStrength := false
	for _, kw := range heavyDutyKeywords {
		if strings.Contains(use, kw) {
			needsStrength = true
			break
		}
	}

	if needsStrength {
		wallThickness := paramNumber(params, "wall_thickness", "wall_thickness_mm")
		if wallThickness == 0 {
			wallThickness = 2.0
		}
		if wallThickness < 2.5 {
			suggestions = append(suggestions, DesignSuggestion{
				Title:          "Consider thicker walls for heavy use",
				Description:    "For heavy-duty applications, thicker walls add strength.",
				Category:       CategoryStructure,
				Priority:       PriorityRecommended,
				CurrentValue:   wallThickness,
				SuggestedValue: 3.0,
				WhyItMatters:   "Based on your description mentioning heavy-duty use, thicker walls (2.5-3mm) will significantly improve strength and durability under load.",
				IfIgnored:      "Part may crack or break under heavy use.",
				AutoFixable:    true,
				FixParameter:   "wall_thickness",
			})
		}
	}

	handleWidth := paramNumber(params, "handle_width", "handle_width_mm")
	if handleWidth > 0 && handleWidth < 12 {
		suggestions = append(suggestions, DesignSuggestion{
			Title:          "Handle may be too narrow",
			Description:    "Narrow handles are uncomfortable to grip.",
			Category:       CategoryStructure,
			Priority:       PriorityRecommended,
			CurrentValue:   handleWidth,
			SuggestedValue: 15.0,
			WhyItMatters:   "Handles narrower than 12mm can be uncomfortable, especially when applying force. 15-20mm is more ergonomic.",
			IfIgnored:      "Handle may be uncomfortable during use.",
			AutoFixable:    true,
			FixParameter:   "handle_width",
		})
	}

	if gripSet, present := params["add_grip_texture"]; needsStrength && present {
		if grip, ok := gripSet.(bool); ok && !grip {
			suggestions = append(suggestions, DesignSuggestion{
				Title:          "Consider adding grip texture",
				Description:    "Grip texture improves handling for heavy-duty use.",
				Category:       CategoryStructure,
				Priority:       PriorityOptional,
				CurrentValue:   false,
				SuggestedValue: true,
				WhyItMatters:   "For parts you'll grip firmly, adding texture helps prevent slipping, especially with wet or oily hands.",
				IfIgnored:      "Part may be slippery when gripping.",
				AutoFixable:    true,
				FixParameter:   "add_grip_texture",
			})
		}
	}
	return suggestions
}

func checkPrintability(params map[string]interface{}) []DesignSuggestion {
	var suggestions []DesignSuggestion

	cornerRadius := paramNumber(params, "corner_radius", "corner_radius_mm")
	if cornerRadius == 0 {
		suggestions = append(suggestions, DesignSuggestion{
			Title:          "Add corner radius for strength",
			Description:    "Sharp internal corners are stress concentrators.",
			Category:       CategoryPrintability,
			Priority:       PriorityRecommended,
			CurrentValue:   0,
			SuggestedValue: 1.0,
			WhyItMatters:   "Sharp internal corners concentrate stress and can crack. A small radius (1-2mm) significantly improves strength and prints more cleanly.",
			IfIgnored:      "Part may crack at corners under stress.",
			AutoFixable:    true,
			FixParameter:   "corner_radius",
		})
	}

	height := paramNumber(params, "height")
	width := paramNumber(params, "width")
	if height > 0 && width > 0 {
		aspect := height / width
		if aspect > 5 {
			suggestions = append(suggestions, DesignSuggestion{
				Title:          "Tall/thin part may need support",
				Description:    fmt.Sprintf("Part is %.1fx taller than wide - may tip during printing.", aspect),
				Category:       CategoryPrintability,
				Priority:       PriorityRecommended,
				CurrentValue:   fmt.Sprintf("%gh x %gw", height, width),
				SuggestedValue: "Consider splitting or adding base",
				WhyItMatters:   "Very tall, thin parts can wobble or tip during printing. Consider printing in a different orientation or adding a temporary base for stability.",
				IfIgnored:      "Print may fail if part tips over.",
			})
		}
	}
	return suggestions
}

func checkMaterial(params map[string]interface{}, profile *materials.FilamentProfile) []DesignSuggestion {
	if profile == nil {
		return nil
	}
	var suggestions []DesignSuggestion

	if profile.IsFlexible() {
		wallThickness := paramNumber(params, "wall_thickness", "wall_thickness_mm")
		if wallThickness == 0 {
			wallThickness = 2.0
		}
		if wallThickness < 1.5 {
			suggestions = append(suggestions, DesignSuggestion{
				Title:          "TPU needs thicker walls",
				Description:    "Flexible materials need extra wall thickness.",
				Category:       CategoryMaterial,
				Priority:       PriorityRecommended,
				CurrentValue:   wallThickness,
				SuggestedValue: 2.5,
				WhyItMatters:   "TPU is flexible, so thin walls will be very floppy. For a functional part, use at least 2mm walls.",
				IfIgnored:      "Part will be very flexible/floppy.",
				AutoFixable:    true,
				FixParameter:   "wall_thickness",
			})
		}
	}

	if strings.Contains(profile.Name, "PC") || profile.MaterialType == materials.FilamentPC {
		suggestions = append(suggestions, DesignSuggestion{
			Title:        "Polycarbonate properties",
			Description:  "PC is strong but requires careful printing.",
			Category:     CategoryMaterial,
			Priority:     PriorityOptional,
			WhyItMatters: "Polycarbonate is heat-resistant and strong, but prone to warping. Keep the design compact, use a brim, and ensure good bed adhesion.",
			IfIgnored:    "Large PC parts may warp.",
		})
	}
	return suggestions
}

func reviewSummary(critical, recommended int) string {
	if critical == 0 && recommended == 0 {
		return "Your design looks great! No issues detected."
	}
	var parts []string
	if critical > 0 {
		parts = append(parts, fmt.Sprintf("%d issue(s) that should be fixed before printing", critical))
	}
	if recommended > 0 {
		parts = append(parts, fmt.Sprintf("%d suggestion(s) to improve quality", recommended))
	}
	return "Design review found: " + strings.Join(parts, " and ") + "."
}

// ApplySuggestion writes an auto-fixable suggestion into a copy of the
// parameters.
func ApplySuggestion(params map[string]interface{}, s DesignSuggestion) map[string]interface{} {
	if !s.AutoFixable || s.FixParameter == "" {
		return params
	}
	updated := make(map[string]interface{}, len(params))
	for k, v := range params {
		updated[k] = v
	}
	updated[s.FixParameter] = s.SuggestedValue
	return updated
}

// ApplyAllCritical applies every critical auto-fixable suggestion and
// returns the updated parameters and the titles applied.
func ApplyAllCritical(params map[string]interface{}, suggestions []DesignSuggestion) (map[string]interface{}, []string) {
	updated := make(map[string]interface{}, len(params))
	for k, v := range params {
		updated[k] = v
	}
	var applied []string
	for _, s := range suggestions {
		if s.Priority == PriorityCritical && s.AutoFixable && s.FixParameter != "" {
			updated[s.FixParameter] = s.SuggestedValue
			applied = append(applied, s.Title)
		}
	}
	return updated, applied
}
