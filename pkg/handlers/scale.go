/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/scale"
)

// ScaleUniform scales a model by a single factor.
// POST /api/v1/scale/uniform
func (h *Handler) ScaleUniform(c *gin.Context) {
	handle(c, h.scaleUniform)
}

// ScaleToDimension scales a model to target dimensions.
// POST /api/v1/scale/dimension
func (h *Handler) ScaleToDimension(c *gin.Context) {
	handle(c, h.scaleToDimension)
}

// ScaleForTubeSqueezer adapts a tube squeezer to a new diameter.
// POST /api/v1/scale/tube-squeezer
func (h *Handler) ScaleForTubeSqueezer(c *gin.Context) {
	handle(c, h.scaleForTubeSqueezer)
}

// ParseDimensionString converts a dimension string to millimeters.
// POST /api/v1/scale/parse-dimension
func (h *Handler) ParseDimensionString(c *gin.Context) {
	handle(c, h.parseDimension)
}

type scaleUniformRequest struct {
	ModelPath  string  `json:"model_path"`
	Factor     float64 `json:"factor"`
	OutputName string  `json:"output_name"`
}

func (h *Handler) scaleUniform(c *gin.Context) (interface{}, error) {
	var req scaleUniformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	return h.Scaler.ScaleUniform(strings.TrimSpace(req.ModelPath), req.Factor, strings.TrimSpace(req.OutputName))
}

type scaleDimensionRequest struct {
	ModelPath           string  `json:"model_path"`
	TargetWidth         float64 `json:"target_width"`
	TargetDepth         float64 `json:"target_depth"`
	TargetHeight        float64 `json:"target_height"`
	MaintainAspectRatio bool    `json:"maintain_aspect_ratio"`
	OutputName          string  `json:"output_name"`
}

func (h *Handler) scaleToDimension(c *gin.Context) (interface{}, error) {
	var req scaleDimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	if req.TargetWidth <= 0 && req.TargetDepth <= 0 && req.TargetHeight <= 0 {
		return nil, commonerrors.NewBadRequest("at least one target dimension is required")
	}
	return h.Scaler.ScaleToDimension(strings.TrimSpace(req.ModelPath),
		req.TargetWidth, req.TargetDepth, req.TargetHeight,
		req.MaintainAspectRatio, strings.TrimSpace(req.OutputName))
}

type tubeSqueezerRequest struct {
	ModelPath          string  `json:"model_path"`
	OriginalDiameterMM float64 `json:"original_diameter_mm"`
	TargetDiameterMM   float64 `json:"target_diameter_mm"`
	OutputName         string  `json:"output_name"`
}

func (h *Handler) scaleForTubeSqueezer(c *gin.Context) (interface{}, error) {
	var req tubeSqueezerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	return h.Scaler.ScaleForTubeSqueezer(strings.TrimSpace(req.ModelPath),
		req.OriginalDiameterMM, req.TargetDiameterMM, strings.TrimSpace(req.OutputName))
}

type parseDimensionRequest struct {
	Value string `json:"value"`
}

func (h *Handler) parseDimension(c *gin.Context) (interface{}, error) {
	var req parseDimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	mm, err := scale.ParseDimension(req.Value)
	if err != nil {
		return nil, err
	}
	return gin.H{"value": req.Value, "millimeters": mm}, nil
}
