/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package vision analyzes camera frames for common print defects.
package vision

import (
	"time"
)

// DefectType identifies a detectable print defect.
type DefectType string

const (
	DefectLayerShift      DefectType = "layer_shift"
	DefectStringing       DefectType = "stringing"
	DefectWarping         DefectType = "warping"
	DefectBlob            DefectType = "blob"
	DefectUnderExtrusion  DefectType = "under_extrusion"
	DefectOverExtrusion   DefectType = "over_extrusion"
	DefectPoorAdhesion    DefectType = "poor_adhesion"
	DefectSpaghetti       DefectType = "spaghetti"
	DefectNozzleClog      DefectType = "nozzle_clog"
	DefectLayerSeparation DefectType = "layer_separation"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Location is a detection bounding box.
type Location struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Defect is one detected print defect.
type Defect struct {
	Type         DefectType `json:"type"`
	Severity     Severity   `json:"severity"`
	Confidence   float64    `json:"confidence"`
	Description  string     `json:"description"`
	Location     *Location  `json:"location,omitempty"`
	SuggestedFix string     `json:"suggested_fix,omitempty"`
}

// DetectionResult is the outcome of analyzing one frame.
type DetectionResult struct {
	Timestamp         time.Time `json:"timestamp"`
	FrameAnalyzed     bool      `json:"frame_analyzed"`
	Defects           []Defect  `json:"defects"`
	PrintQualityScore float64   `json:"print_quality_score"`
	AnalysisNotes     []string  `json:"analysis_notes"`
}

// HasCriticalDefects reports whether any critical defect was found.
func (r *DetectionResult) HasCriticalDefects() bool {
	for _, d := range r.Defects {
		if d.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// ShouldPause reports whether the print should be paused based on this
// frame alone.
func (r *DetectionResult) ShouldPause() bool {
	return r.HasCriticalDefects() || r.PrintQualityScore < 30
}

// DefectNames returns the defect type names, in detection order.
func (r *DetectionResult) DefectNames() []string {
	names := make([]string, 0, len(r.Defects))
	for _, d := range r.Defects {
		names = append(names, string(d.Type))
	}
	return names
}

// Config holds the detector thresholds. The defaults match field-tuned
// values; individual thresholds can be overridden for a given camera.
type Config struct {
	// edge map
	EdgeLowThreshold  float64
	EdgeHighThreshold float64

	// spaghetti
	SpaghettiMinContourArea  int
	SpaghettiMaxContourArea  int
	SpaghettiContourCount    int
	SpaghettiMinCentroids    int
	SpaghettiSpreadFraction  float64
	SpaghettiConfidenceScale float64

	// layer shift
	LayerShiftSigma     float64
	LayerShiftPositions int

	// stringing
	StringingThreshold    uint8
	StringingMinLineLen   int
	StringingMaxLineGap   int
	StringingLineCount    int
	StringingScaleDivisor float64

	// warping
	WarpingMinArea   int
	WarpingAxisRatio float64

	// blobs
	BlobMinArea        int
	BlobMaxArea        int
	BlobMinCircularity float64
	BlobMinSolidity    float64
	BlobCount          int

	// motion
	MotionDiffThreshold uint8
	MotionStalledRatio  float64
	MotionFailureRatio  float64
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		EdgeLowThreshold:  50,
		EdgeHighThreshold: 150,

		SpaghettiMinContourArea:  10,
		SpaghettiMaxContourArea:  500,
		SpaghettiContourCount:    100,
		SpaghettiMinCentroids:    10,
		SpaghettiSpreadFraction:  0.3,
		SpaghettiConfidenceScale: 200,

		LayerShiftSigma:     2,
		LayerShiftPositions: 5,

		StringingThreshold:    30,
		StringingMinLineLen:   20,
		StringingMaxLineGap:   5,
		StringingLineCount:    10,
		StringingScaleDivisor: 30,

		WarpingMinArea:   100,
		WarpingAxisRatio: 3,

		BlobMinArea:        20,
		BlobMaxArea:        500,
		BlobMinCircularity: 0.5,
		BlobMinSolidity:    0.5,
		BlobCount:          5,

		MotionDiffThreshold: 30,
		MotionStalledRatio:  0.001,
		MotionFailureRatio:  0.3,
	}
}
