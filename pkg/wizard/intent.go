/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package wizard guides a user from a plain-language request to a
// confirmed, sliceable set of print parameters.
package wizard

import (
	"regexp"
	"strconv"
	"strings"
)

// StrengthLevel is the strength requirement parsed from a description.
type StrengthLevel string

const (
	StrengthLight   StrengthLevel = "light"
	StrengthMedium  StrengthLevel = "medium"
	StrengthHeavy   StrengthLevel = "heavy"
	StrengthExtreme StrengthLevel = "extreme"
)

// FitType is how parts should fit together.
type FitType string

const (
	FitPress   FitType = "press"
	FitTight   FitType = "tight"
	FitSnug    FitType = "snug"
	FitSliding FitType = "sliding"
	FitLoose   FitType = "loose"
)

// SizeCategory is the relative size of the object.
type SizeCategory string

const (
	SizeTiny   SizeCategory = "tiny"   // under 20mm
	SizeSmall  SizeCategory = "small"  // 20-50mm
	SizeMedium SizeCategory = "medium" // 50-150mm
	SizeLarge  SizeCategory = "large"  // 150-250mm
	SizeHuge   SizeCategory = "huge"   // over 250mm
)

// ParsedIntent is the structured interpretation of a description.
type ParsedIntent struct {
	Strength     StrengthLevel `json:"strength"`
	FitType      FitType       `json:"fit_type"`
	SizeCategory SizeCategory  `json:"size_category"`

	Dimensions map[string]float64 `json:"dimensions"`

	WallThicknessMM float64 `json:"wall_thickness_mm"`
	ClearanceMM     float64 `json:"clearance_mm"`
	InfillPercent   int     `json:"infill_percent"`
	LayerHeightMM   float64 `json:"layer_height_mm"`

	SuggestedMaterials []string `json:"suggested_materials"`

	NeedsGrip     bool `json:"needs_grip"`
	NeedsFlex     bool `json:"needs_flex"`
	Waterproof    bool `json:"waterproof"`
	HeatResistant bool `json:"heat_resistant"`

	Confidence          float64  `json:"confidence"`
	ClarifyingQuestions []string `json:"clarifying_questions"`
}

var strengthTerms = []struct {
	level StrengthLevel
	terms []string
}{
	{StrengthLight, []string{
		"light", "decorative", "display", "gentle", "delicate",
		"thin", "minimal", "basic", "simple"}},
	{StrengthMedium, []string{
		"normal", "standard", "everyday", "regular", "typical",
		"moderate", "balanced"}},
	{StrengthHeavy, []string{
		"heavy", "strong", "sturdy", "robust", "durable",
		"tough", "solid", "heavy-duty", "heavy duty", "rugged",
		"industrial", "reinforced", "thick"}},
	{StrengthExtreme, []string{
		"extreme", "maximum", "industrial-grade", "unbreakable",
		"bulletproof", "indestructible", "super strong"}},
}

var fitTerms = []struct {
	fit   FitType
	terms []string
}{
	{FitPress, []string{
		"press fit", "press-fit", "permanent", "force", "forced",
		"interference", "won't come off", "stays put forever"}},
	{FitTight, []string{
		"tight", "snug fit", "secure", "grip", "grips",
		"firm", "holds", "doesn't move", "friction fit"}},
	{FitSnug, []string{
		"snug", "comfortable", "nice fit", "good fit",
		"stays in place", "adjustable", "removable"}},
	{FitSliding, []string{
		"sliding", "slides", "moves", "glides", "smooth",
		"easy to move", "adjusts", "repositioning"}},
	{FitLoose, []string{
		"loose", "easy", "falls off", "drops in", "quick",
		"quick release", "easy on off", "easy to remove"}},
}

var sizeTerms = []struct {
	size  SizeCategory
	terms []string
}{
	{SizeTiny, []string{
		"tiny", "miniature", "micro", "mini", "very small",
		"keychain", "earring", "button"}},
	{SizeSmall, []string{
		"small", "compact", "little", "pocket", "palm-sized",
		"handheld", "portable"}},
	{SizeMedium, []string{
		"medium", "normal", "standard", "average", "regular",
		"typical", "moderate"}},
	{SizeLarge, []string{
		"large", "big", "sizeable", "substantial", "hefty"}},
	{SizeHuge, []string{
		"huge", "massive", "giant", "oversized", "extra large",
		"xl", "xxl"}},
}

var featureTerms = map[string][]string{
	"needs_grip": {
		"grip", "texture", "textured", "ridges", "ridged",
		"non-slip", "non slip", "grippy", "handle", "ergonomic"},
	"needs_flex": {
		"flexible", "bendy", "flex", "soft", "rubbery",
		"elastic", "spring", "bouncy"},
	"waterproof": {
		"waterproof", "water-proof", "watertight", "water tight",
		"sealed", "bathroom", "outdoor", "wet"},
	"heat_resistant": {
		"heat", "hot", "temperature", "oven", "microwave",
		"dishwasher", "boiling", "steam"},
}

var materialSuggestions = map[string][]string{
	"waterproof":     {"PETG", "ASA"},
	"heat_resistant": {"PC", "PETG", "ABS"},
	"needs_flex":     {"TPU 95A", "TPU"},
	"general":        {"PLA", "Bambu Basic PLA"},
}

// dimension extraction patterns, tried in order
var (
	dimWithUnitRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mm\s*(diameter|wide|width|long|length|tall|height|thick|deep|depth)`)
	dimNamedRe     = regexp.MustCompile(`(?i)(diameter|width|length|height|thickness|depth)\s*(?:of|is|:)?\s*(\d+(?:\.\d+)?)\s*mm`)
	dimAboutRe     = regexp.MustCompile(`(?i)about\s+(\d+(?:\.\d+)?)\s*mm`)
	dimInchRe      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*inch(?:es)?\s*(diameter|wide|width|long|length|tall|height)?`)
	dimBareRe      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mm\b`)
	dimBareSkipRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*mm\s*(?:nozzle|layer|thick)`)
	dimApproxRe    = regexp.MustCompile(`[~≈]\s*(\d+(?:\.\d+)?)\s*mm`)
	dimNameAliases = map[string]string{
		"wide": "width", "long": "length", "tall": "height",
		"thick": "thickness", "deep": "depth",
	}
)

func canonicalDimName(name string) string {
	name = strings.ToLower(name)
	if alias, ok := dimNameAliases[name]; ok {
		return alias
	}
	return name
}

// ParseDescription interprets a plain-language print request.
func ParseDescription(description string) *ParsedIntent {
	text := strings.ToLower(description)
	intent := &ParsedIntent{
		Strength:            StrengthMedium,
		FitType:             FitSnug,
		SizeCategory:        SizeMedium,
		Dimensions:          map[string]float64{},
		WallThicknessMM:     2.0,
		ClearanceMM:         0.3,
		InfillPercent:       20,
		LayerHeightMM:       0.2,
		Confidence:          0.8,
		ClarifyingQuestions: []string{},
	}

	extractDimensions(text, intent)
	extractStrength(text, intent)
	extractFitType(text, intent)
	extractSize(text, intent)
	extractFeatures(text, intent)
	suggestMaterials(intent)
	deriveParameters(intent)
	generateQuestions(text, intent)
	return intent
}

func extractDimensions(text string, intent *ParsedIntent) {
	for _, m := range dimWithUnitRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			intent.Dimensions[canonicalDimName(m[2])] = v
		}
	}
	for _, m := range dimNamedRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			intent.Dimensions[canonicalDimName(m[1])] = v
		}
	}
	for _, m := range dimAboutRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			intent.Dimensions["primary"] = v
		}
	}
	for _, m := range dimInchRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			name := "primary"
			if m[2] != "" {
				name = canonicalDimName(m[2])
			}
			intent.Dimensions[name] = v * 25.4
		}
	}
	// bare "65mm" counts as primary unless followed by nozzle/layer/thick
	skipped := map[string]bool{}
	for _, m := range dimBareSkipRe.FindAllStringSubmatch(text, -1) {
		skipped[m[1]] = true
	}
	for _, m := range dimBareRe.FindAllStringSubmatch(text, -1) {
		if skipped[m[1]] {
			continue
		}
		if _, ok := intent.Dimensions["primary"]; ok {
			break
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			intent.Dimensions["primary"] = v
		}
	}
	for _, m := range dimApproxRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			intent.Dimensions["primary"] = v
		}
	}

	if primary, ok := intent.Dimensions["primary"]; ok {
		switch {
		case primary < 20:
			intent.SizeCategory = SizeTiny
		case primary < 50:
			intent.SizeCategory = SizeSmall
		case primary < 150:
			intent.SizeCategory = SizeMedium
		case primary < 250:
			intent.SizeCategory = SizeLarge
		default:
			intent.SizeCategory = SizeHuge
		}
	}
}

func wordSet(text string) map[string]bool {
	words := map[string]bool{}
	for _, w := range strings.Fields(text) {
		words[w] = true
	}
	return words
}

func extractStrength(text string, intent *ParsedIntent) {
	words := wordSet(text)
	for _, entry := range strengthTerms {
		for _, term := range entry.terms {
			if strings.Contains(term, " ") {
				if strings.Contains(text, term) {
					intent.Strength = entry.level
					return
				}
			} else if words[term] {
				intent.Strength = entry.level
				return
			}
		}
	}
}

func extractFitType(text string, intent *ParsedIntent) {
	// multi-word phrases win over single words
	for _, entry := range fitTerms {
		for _, term := range entry.terms {
			if strings.Contains(term, " ") && strings.Contains(text, term) {
				intent.FitType = entry.fit
				return
			}
		}
	}
	words := wordSet(text)
	for _, entry := range fitTerms {
		for _, term := range entry.terms {
			if !strings.Contains(term, " ") && words[term] {
				intent.FitType = entry.fit
				return
			}
		}
	}
}

func extractSize(text string, intent *ParsedIntent) {
	if len(intent.Dimensions) > 0 {
		return
	}
	words := wordSet(text)
	for _, entry := range sizeTerms {
		for _, term := range entry.terms {
			if strings.Contains(term, " ") {
				if strings.Contains(text, term) {
					intent.SizeCategory = entry.size
					return
				}
			} else if words[term] {
				intent.SizeCategory = entry.size
				return
			}
		}
	}
}

func extractFeatures(text string, intent *ParsedIntent) {
	has := func(feature string) bool {
		for _, term := range featureTerms[feature] {
			if strings.Contains(text, term) {
				return true
			}
		}
		return false
	}
	intent.NeedsGrip = has("needs_grip")
	intent.NeedsFlex = has("needs_flex")
	intent.Waterproof = has("waterproof")
	intent.HeatResistant = has("heat_resistant")
}

func suggestMaterials(intent *ParsedIntent) {
	switch {
	case intent.NeedsFlex:
		intent.SuggestedMaterials = append([]string{}, materialSuggestions["needs_flex"]...)
	case intent.Waterproof:
		intent.SuggestedMaterials = append([]string{}, materialSuggestions["waterproof"]...)
	case intent.HeatResistant:
		intent.SuggestedMaterials = append([]string{}, materialSuggestions["heat_resistant"]...)
	default:
		intent.SuggestedMaterials = append([]string{}, materialSuggestions["general"]...)
	}
}

// Parameter tables mapping parsed categories to concrete values.
var (
	wallThicknessForStrength = map[StrengthLevel]float64{
		StrengthLight: 1.2, StrengthMedium: 2.0, StrengthHeavy: 3.0, StrengthExtreme: 4.0,
	}
	clearanceForFit = map[FitType]float64{
		FitPress: 0.0, FitTight: 0.15, FitSnug: 0.3, FitSliding: 0.5, FitLoose: 1.0,
	}
	infillForStrength = map[StrengthLevel]int{
		StrengthLight: 15, StrengthMedium: 20, StrengthHeavy: 30, StrengthExtreme: 50,
	}
	layerHeightForSize = map[SizeCategory]float64{
		SizeTiny: 0.12, SizeSmall: 0.16, SizeMedium: 0.20, SizeLarge: 0.24, SizeHuge: 0.28,
	}
)

func deriveParameters(intent *ParsedIntent) {
	intent.WallThicknessMM = wallThicknessForStrength[intent.Strength]
	intent.ClearanceMM = clearanceForFit[intent.FitType]
	intent.InfillPercent = infillForStrength[intent.Strength]
	intent.LayerHeightMM = layerHeightForSize[intent.SizeCategory]
}

func generateQuestions(text string, intent *ParsedIntent) {
	var questions []string
	if len(intent.Dimensions) == 0 {
		questions = append(questions,
			"What are the dimensions? (e.g., '65mm diameter' or 'about 2 inches wide')")
	}
	if intent.Strength == StrengthHeavy && intent.NeedsFlex {
		questions = append(questions,
			"You mentioned both 'heavy duty' and 'flexible' - which is more important?")
	}
	if !strings.Contains(text, "fit") && intent.FitType == FitSnug {
		questions = append(questions,
			"How should it fit? (snug/tight for staying in place, loose for easy removal)")
	}
	if questions != nil {
		intent.ClarifyingQuestions = questions
	}
	intent.Confidence = 1.0 - float64(len(questions))*0.15
	if intent.Confidence < 0.5 {
		intent.Confidence = 0.5
	}
}
