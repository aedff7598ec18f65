/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/slicer"
)

// SlicerStatus reports whether the slicer binary is usable.
// GET /api/v1/slicer/status
func (h *Handler) SlicerStatus(c *gin.Context) {
	handle(c, h.slicerStatus)
}

// ValidateModel checks a model file before slicing.
// POST /api/v1/slicer/validate
func (h *Handler) ValidateModel(c *gin.Context) {
	handle(c, h.validateModel)
}

// SliceModel slices a model into a printable 3MF.
// POST /api/v1/slicer/slice
func (h *Handler) SliceModel(c *gin.Context) {
	handle(c, h.sliceModel)
}

// ListPresets lists the named parameter presets.
// GET /api/v1/slicer/presets
func (h *Handler) ListPresets(c *gin.Context) {
	handle(c, h.listPresets)
}

// GetPreset returns one named preset.
// GET /api/v1/slicer/presets/:name
func (h *Handler) GetPreset(c *gin.Context) {
	handle(c, h.getPreset)
}

func (h *Handler) requireSlicer() error {
	if h.Slicer == nil {
		return commonerrors.NewSlicerNotAvailable("slicer is not configured")
	}
	return nil
}

func (h *Handler) slicerStatus(c *gin.Context) (interface{}, error) {
	if err := h.requireSlicer(); err != nil {
		return nil, err
	}
	available, message := h.Slicer.IsAvailable(c.Request.Context())
	return gin.H{"available": available, "message": message}, nil
}

type validateModelRequest struct {
	ModelPath string `json:"model_path"`
}

func (h *Handler) validateModel(c *gin.Context) (interface{}, error) {
	if err := h.requireSlicer(); err != nil {
		return nil, err
	}
	var req validateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	return h.Slicer.ValidateModel(c.Request.Context(), strings.TrimSpace(req.ModelPath)), nil
}

type sliceModelRequest struct {
	ModelPath   string             `json:"model_path"`
	Parameters  *slicer.Parameters `json:"parameters"`
	Preset      string             `json:"preset"`
	OutputName  string             `json:"output_name"`
	AutoOrient  *bool              `json:"auto_orient"`
	AutoArrange *bool              `json:"auto_arrange"`
}

func (h *Handler) sliceModel(c *gin.Context) (interface{}, error) {
	if err := h.requireSlicer(); err != nil {
		return nil, err
	}
	var req sliceModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}

	params := req.Parameters
	if req.Preset != "" {
		preset, err := slicer.GetPreset(strings.TrimSpace(req.Preset))
		if err != nil {
			return nil, commonerrors.NewBadRequest(err.Error())
		}
		params = &preset.Parameters
	}
	if params == nil {
		defaults := slicer.DefaultParameters()
		params = &defaults
	}

	opts := slicer.DefaultSliceOptions()
	opts.OutputName = strings.TrimSpace(req.OutputName)
	if req.AutoOrient != nil {
		opts.AutoOrient = *req.AutoOrient
	}
	if req.AutoArrange != nil {
		opts.AutoArrange = *req.AutoArrange
	}

	return h.Slicer.SliceModel(c.Request.Context(), strings.TrimSpace(req.ModelPath), params, opts), nil
}

func (h *Handler) listPresets(_ *gin.Context) (interface{}, error) {
	return gin.H{"presets": slicer.ListPresets()}, nil
}

func (h *Handler) getPreset(c *gin.Context) (interface{}, error) {
	preset, err := slicer.GetPreset(c.Param("name"))
	if err != nil {
		return nil, commonerrors.NewNotFound("preset", c.Param("name"))
	}
	return preset, nil
}
