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
	"github.com/hunter-stradley/vibe-print/pkg/wizard"
)

// ParseDescription parses a plain-language project description.
// POST /api/v1/parse-description
func (h *Handler) ParseDescription(c *gin.Context) {
	handle(c, h.parseDescription)
}

// DesignReview reviews design parameters.
// POST /api/v1/design-review
func (h *Handler) DesignReview(c *gin.Context) {
	handle(c, h.designReview)
}

// SlicingReview reviews slicing parameters.
// POST /api/v1/slicing-review
func (h *Handler) SlicingReview(c *gin.Context) {
	handle(c, h.slicingReview)
}

// RecommendedSlicingSettings builds the recipe settings.
// POST /api/v1/recommended-settings
func (h *Handler) RecommendedSlicingSettings(c *gin.Context) {
	handle(c, h.recommendedSettings)
}

// CreateWorkflow starts a guided workflow.
// POST /api/v1/workflows
func (h *Handler) CreateWorkflow(c *gin.Context) {
	handle(c, h.createWorkflow)
}

// ListWorkflows lists active workflows.
// GET /api/v1/workflows
func (h *Handler) ListWorkflows(c *gin.Context) {
	handle(c, h.listWorkflows)
}

// GetWorkflow returns one workflow's full state.
// GET /api/v1/workflows/:id
func (h *Handler) GetWorkflow(c *gin.Context) {
	handle(c, h.getWorkflow)
}

// GetCurrentCheckpoint returns the checkpoint awaiting input.
// GET /api/v1/workflows/:id/checkpoint
func (h *Handler) GetCurrentCheckpoint(c *gin.Context) {
	handle(c, h.getCurrentCheckpoint)
}

// ApproveCheckpoint approves the current checkpoint and advances.
// POST /api/v1/workflows/:id/approve
func (h *Handler) ApproveCheckpoint(c *gin.Context) {
	handle(c, h.approveCheckpoint)
}

// DeleteWorkflow removes a workflow.
// DELETE /api/v1/workflows/:id
func (h *Handler) DeleteWorkflow(c *gin.Context) {
	handle(c, h.deleteWorkflow)
}

type descriptionRequest struct {
	Description string `json:"description"`
}

func (h *Handler) parseDescription(c *gin.Context) (interface{}, error) {
	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, commonerrors.NewBadRequest("description is required")
	}
	return wizard.ParseDescription(description), nil
}

type designReviewRequest struct {
	Parameters     map[string]interface{} `json:"parameters"`
	IntendedUse    string                 `json:"intended_use"`
	Material       string                 `json:"material"`
	NozzleDiameter float64                `json:"nozzle_diameter"`
}

func (h *Handler) designReview(c *gin.Context) (interface{}, error) {
	var req designReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	if req.Parameters == nil {
		req.Parameters = map[string]interface{}{}
	}
	return wizard.ReviewDesign(req.Parameters, strings.TrimSpace(req.IntendedUse),
		strings.TrimSpace(req.Material), req.NozzleDiameter), nil
}

type slicingReviewRequest struct {
	Parameters     slicer.Parameters `json:"parameters"`
	Material       string            `json:"material"`
	NozzleDiameter float64           `json:"nozzle_diameter"`
	UseCase        string            `json:"use_case"`
	Quality        string            `json:"quality"`
}

func (h *Handler) slicingReview(c *gin.Context) (interface{}, error) {
	var req slicingReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	return wizard.ReviewSlicingParameters(req.Parameters, strings.TrimSpace(req.Material),
		req.NozzleDiameter, wizard.PrintUseCase(req.UseCase), wizard.QualityPreset(req.Quality)), nil
}

type recommendedSettingsRequest struct {
	Material       string  `json:"material"`
	NozzleDiameter float64 `json:"nozzle_diameter"`
	Quality        string  `json:"quality"`
	UseCase        string  `json:"use_case"`
}

func (h *Handler) recommendedSettings(c *gin.Context) (interface{}, error) {
	var req recommendedSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	if strings.TrimSpace(req.Material) == "" {
		return nil, commonerrors.NewBadRequest("material is required")
	}
	settings := wizard.RecommendedSettings(strings.TrimSpace(req.Material), req.NozzleDiameter,
		wizard.QualityPreset(req.Quality), wizard.PrintUseCase(req.UseCase))
	return gin.H{"settings": settings}, nil
}

func (h *Handler) createWorkflow(c *gin.Context) (interface{}, error) {
	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	w := h.Workflows.Create(strings.TrimSpace(req.Description))
	return w.StateSummary(), nil
}

func (h *Handler) listWorkflows(_ *gin.Context) (interface{}, error) {
	return gin.H{"workflows": h.Workflows.List()}, nil
}

func (h *Handler) getWorkflow(c *gin.Context) (interface{}, error) {
	w, err := h.Workflows.Get(c.Param("id"))
	if err != nil {
		return nil, err
	}
	return w.State(), nil
}

func (h *Handler) getCurrentCheckpoint(c *gin.Context) (interface{}, error) {
	w, err := h.Workflows.Get(c.Param("id"))
	if err != nil {
		return nil, err
	}
	checkpoint := w.CurrentCheckpoint()
	if checkpoint == nil {
		return nil, commonerrors.NewNotFound("checkpoint", "current")
	}
	return checkpoint, nil
}

type approveRequest struct {
	Answers map[string]interface{} `json:"answers"`
}

func (h *Handler) approveCheckpoint(c *gin.Context) (interface{}, error) {
	w, err := h.Workflows.Get(c.Param("id"))
	if err != nil {
		return nil, err
	}
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	checkpoint, err := w.Approve(req.Answers)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"checkpoint": checkpoint,
		"summary":    w.StateSummary(),
	}, nil
}

func (h *Handler) deleteWorkflow(c *gin.Context) (interface{}, error) {
	if err := h.Workflows.Delete(c.Param("id")); err != nil {
		return nil, err
	}
	return gin.H{"deleted": c.Param("id")}, nil
}
