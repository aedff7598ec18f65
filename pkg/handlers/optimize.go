/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/optimizer"
	"github.com/hunter-stradley/vibe-print/pkg/recommend"
	"github.com/hunter-stradley/vibe-print/pkg/slicer"
)

// OptimizeParameters adjusts slicing parameters for a material.
// POST /api/v1/optimize
func (h *Handler) OptimizeParameters(c *gin.Context) {
	handle(c, h.optimizeParameters)
}

// MaterialCompatibility scores candidate materials for a design.
// POST /api/v1/materials/compatibility
func (h *Handler) MaterialCompatibility(c *gin.Context) {
	handle(c, h.materialCompatibility)
}

// Recommendations derives parameter adjustments from observed defects.
// POST /api/v1/recommendations
func (h *Handler) Recommendations(c *gin.Context) {
	handle(c, h.recommendations)
}

type optimizeRequest struct {
	Parameters     map[string]interface{} `json:"parameters"`
	Material       string                 `json:"material"`
	NozzleDiameter float64                `json:"nozzle_diameter"`
	AmbientTempC   float64                `json:"ambient_temp_c"`
}

func (h *Handler) optimizeParameters(c *gin.Context) (interface{}, error) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	if strings.TrimSpace(req.Material) == "" {
		return nil, commonerrors.NewBadRequest("material is required")
	}
	if req.Parameters == nil {
		req.Parameters = map[string]interface{}{}
	}
	if req.AmbientTempC == 0 {
		req.AmbientTempC = 25
	}
	result := optimizer.Optimize(req.Parameters, strings.TrimSpace(req.Material), req.NozzleDiameter, req.AmbientTempC)
	return result, nil
}

type compatibilityRequest struct {
	DesignParams map[string]interface{} `json:"design_params"`
	Materials    []string               `json:"materials"`
}

func (h *Handler) materialCompatibility(c *gin.Context) (interface{}, error) {
	var req compatibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	if len(req.Materials) == 0 {
		return nil, commonerrors.NewBadRequest("at least one material is required")
	}
	return gin.H{"compatibility": optimizer.MaterialCompatibility(req.DesignParams, req.Materials)}, nil
}

type recommendationsRequest struct {
	Parameters   slicer.Parameters `json:"parameters"`
	Defects      []string          `json:"defects"`
	QualityScore *float64          `json:"quality_score"`
	ModelName    string            `json:"model_name"`
}

func (h *Handler) recommendations(c *gin.Context) (interface{}, error) {
	var req recommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}

	// print history feeds the learning pass when a model name is given
	var history []recommend.HistoryEntry
	if req.ModelName != "" && h.Store != nil {
		records, err := h.Store.ListForModel(c.Request.Context(), strings.TrimSpace(req.ModelName), 10)
		if err == nil {
			for _, r := range records {
				history = append(history, recommend.HistoryEntry{
					Status:       r.Status,
					QualityScore: r.QualityScore,
					Parameters:   r.Parameters,
				})
			}
		}
	}

	recommendations := recommend.Recommendations(req.Parameters, req.Defects, req.QualityScore, history)
	return gin.H{
		"recommendations": recommendations,
		"suggestions":     recommend.Suggestions(req.Defects),
	}, nil
}
