/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/iteration"
)

const defaultIterationLimit = 20

// CreateIteration records a new print attempt.
// POST /api/v1/iterations
func (h *Handler) CreateIteration(c *gin.Context) {
	handle(c, h.createIteration)
}

// ListIterations lists print attempts, optionally by model.
// GET /api/v1/iterations
func (h *Handler) ListIterations(c *gin.Context) {
	handle(c, h.listIterations)
}

// GetIteration returns one print attempt.
// GET /api/v1/iterations/:id
func (h *Handler) GetIteration(c *gin.Context) {
	handle(c, h.getIteration)
}

// RecordOutcome stores the terminal result of a print attempt.
// POST /api/v1/iterations/:id/outcome
func (h *Handler) RecordOutcome(c *gin.Context) {
	handle(c, h.recordOutcome)
}

// ModelStatistics summarizes a model's print history.
// GET /api/v1/models/:name/statistics
func (h *Handler) ModelStatistics(c *gin.Context) {
	handle(c, h.modelStatistics)
}

type createIterationRequest struct {
	ModelName          string                 `json:"model_name"`
	ModelPath          string                 `json:"model_path"`
	ScaleFactor        *float64               `json:"scale_factor"`
	OriginalDimensions map[string]float64     `json:"original_dimensions"`
	ScaledDimensions   map[string]float64     `json:"scaled_dimensions"`
	Parameters         map[string]interface{} `json:"parameters"`
	PresetName         string                 `json:"preset_name"`
}

func (h *Handler) createIteration(c *gin.Context) (interface{}, error) {
	var req createIterationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	modelName := strings.TrimSpace(req.ModelName)
	if modelName == "" {
		return nil, commonerrors.NewBadRequest("model_name is required")
	}
	return h.Store.Create(c.Request.Context(), modelName, strings.TrimSpace(req.ModelPath),
		iteration.CreateOptions{
			ScaleFactor:        req.ScaleFactor,
			OriginalDimensions: req.OriginalDimensions,
			ScaledDimensions:   req.ScaledDimensions,
			Parameters:         req.Parameters,
			PresetName:         strings.TrimSpace(req.PresetName),
		})
}

func (h *Handler) listIterations(c *gin.Context) (interface{}, error) {
	limit := defaultIterationLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, commonerrors.NewBadRequest("limit must be a positive integer")
		}
		limit = n
	}

	var (
		records []*iteration.Record
		err     error
	)
	if model := strings.TrimSpace(c.Query("model")); model != "" {
		records, err = h.Store.ListForModel(c.Request.Context(), model, limit)
	} else {
		records, err = h.Store.ListRecent(c.Request.Context(), limit)
	}
	if err != nil {
		return nil, err
	}
	return gin.H{"iterations": records}, nil
}

func (h *Handler) getIteration(c *gin.Context) (interface{}, error) {
	return h.Store.Get(c.Request.Context(), c.Param("id"))
}

type recordOutcomeRequest struct {
	Status           string   `json:"status"`
	QualityScore     *float64 `json:"quality_score"`
	Defects          []string `json:"defects"`
	Notes            string   `json:"notes"`
	PrintTimeMinutes *int     `json:"print_time_minutes"`
}

func (h *Handler) recordOutcome(c *gin.Context) (interface{}, error) {
	var req recordOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	status := strings.TrimSpace(req.Status)
	switch status {
	case iteration.StatusCompleted, iteration.StatusFailed, iteration.StatusCancelled:
	default:
		return nil, commonerrors.NewBadRequest(fmt.Sprintf(
			"status must be %s, %s or %s",
			iteration.StatusCompleted, iteration.StatusFailed, iteration.StatusCancelled))
	}
	return h.Store.RecordOutcome(c.Request.Context(), c.Param("id"), iteration.Outcome{
		Status:           status,
		QualityScore:     req.QualityScore,
		Defects:          req.Defects,
		Notes:            strings.TrimSpace(req.Notes),
		PrintTimeMinutes: req.PrintTimeMinutes,
	})
}

func (h *Handler) modelStatistics(c *gin.Context) (interface{}, error) {
	return h.Store.Statistics(c.Request.Context(), c.Param("name"))
}
