/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesAnalyzedTotal counts frames run through the defect analyzer.
	FramesAnalyzedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vibe_print",
			Subsystem: "monitor",
			Name:      "frames_analyzed_total",
			Help:      "Total number of camera frames analyzed",
		},
		[]string{"status"},
	)

	// DefectsDetectedTotal counts defects by type and severity.
	DefectsDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vibe_print",
			Subsystem: "monitor",
			Name:      "defects_detected_total",
			Help:      "Total number of print defects detected",
		},
		[]string{"type", "severity"},
	)

	// PausesTriggeredTotal counts automatic print pauses.
	PausesTriggeredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vibe_print",
			Subsystem: "monitor",
			Name:      "pauses_triggered_total",
			Help:      "Total number of automatic print pauses",
		},
	)

	// PrintQualityScore is the score of the most recent analyzed frame.
	PrintQualityScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vibe_print",
			Subsystem: "monitor",
			Name:      "print_quality_score",
			Help:      "Quality score (0-100) of the most recent analyzed frame",
		},
	)
)
