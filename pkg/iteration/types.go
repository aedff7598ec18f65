/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package iteration persists print attempts and their outcomes.
package iteration

import (
	"time"
)

// Iteration states.
const (
	StatusPending   = "pending"
	StatusPrinting  = "printing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Record is one print attempt. It round-trips through JSON unchanged.
type Record struct {
	IterationID string    `json:"iteration_id"`
	ModelName   string    `json:"model_name"`
	ModelPath   string    `json:"model_path"`
	CreatedAt   time.Time `json:"created_at"`

	OriginalDimensions map[string]float64 `json:"original_dimensions,omitempty"`
	ScaleFactor        *float64           `json:"scale_factor,omitempty"`
	ScaledDimensions   map[string]float64 `json:"scaled_dimensions,omitempty"`

	Parameters map[string]interface{} `json:"parameters,omitempty"`
	PresetName string                 `json:"preset_name,omitempty"`

	Status           string     `json:"status"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	PrintTimeMinutes *int       `json:"print_time_minutes,omitempty"`

	QualityScore    *float64 `json:"quality_score,omitempty"`
	DefectsDetected []string `json:"defects_detected"`
	DefectCount     int      `json:"defect_count"`

	Notes                  string   `json:"notes"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
}

// CreateOptions carries the optional fields of a new record.
type CreateOptions struct {
	ScaleFactor        *float64
	OriginalDimensions map[string]float64
	ScaledDimensions   map[string]float64
	Parameters         map[string]interface{}
	PresetName         string
}

// Outcome is the terminal result of a print attempt.
type Outcome struct {
	Status           string
	QualityScore     *float64
	Defects          []string
	Notes            string
	PrintTimeMinutes *int
}

// Statistics summarizes a model's print history.
type Statistics struct {
	ModelName           string         `json:"model_name"`
	TotalAttempts       int            `json:"total_attempts"`
	Completed           int            `json:"completed"`
	Failed              int            `json:"failed"`
	SuccessRate         float64        `json:"success_rate"`
	AverageQualityScore *float64       `json:"average_quality_score,omitempty"`
	BestQualityScore    *float64       `json:"best_quality_score,omitempty"`
	CommonDefects       map[string]int `json:"common_defects"`
	LatestIteration     *Record        `json:"latest_iteration,omitempty"`
}
