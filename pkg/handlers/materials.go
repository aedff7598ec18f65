/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/materials"
)

// ListMaterials lists the filament catalogue.
// GET /api/v1/materials
func (h *Handler) ListMaterials(c *gin.Context) {
	handle(c, h.listMaterials)
}

// GetMaterial returns one filament profile.
// GET /api/v1/materials/:name
func (h *Handler) GetMaterial(c *gin.Context) {
	handle(c, h.getMaterial)
}

// SuggestMaterials suggests filaments for a set of needs.
// POST /api/v1/materials/suggest
func (h *Handler) SuggestMaterials(c *gin.Context) {
	handle(c, h.suggestMaterials)
}

// ListNozzles lists the nozzle catalogue.
// GET /api/v1/nozzles
func (h *Handler) ListNozzles(c *gin.Context) {
	handle(c, h.listNozzles)
}

// RecommendNozzle picks a nozzle for the given requirements.
// POST /api/v1/nozzles/recommend
func (h *Handler) RecommendNozzle(c *gin.Context) {
	handle(c, h.recommendNozzle)
}

func (h *Handler) listMaterials(_ *gin.Context) (interface{}, error) {
	return gin.H{"materials": materials.ListFilamentProfiles()}, nil
}

func (h *Handler) getMaterial(c *gin.Context) (interface{}, error) {
	name := strings.TrimSpace(c.Param("name"))
	profile := materials.GetFilamentProfile(name)
	if profile == nil {
		return nil, commonerrors.NewNotFound("material", name)
	}
	return gin.H{
		"profile":                profile,
		"slicer_params":          profile.SlicerParams(),
		"design_recommendations": profile.DesignRecommendations(),
	}, nil
}

type suggestMaterialsRequest struct {
	Strength        bool `json:"strength"`
	Flexibility     bool `json:"flexibility"`
	HeatResistance  bool `json:"heat_resistance"`
	Outdoor         bool `json:"outdoor"`
	WaterResistance bool `json:"water_resistance"`
}

func (h *Handler) suggestMaterials(c *gin.Context) (interface{}, error) {
	var req suggestMaterialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	keys := materials.SuggestFilaments(materials.FilamentNeeds{
		Strength:        req.Strength,
		Flexibility:     req.Flexibility,
		HeatResistance:  req.HeatResistance,
		Outdoor:         req.Outdoor,
		WaterResistance: req.WaterResistance,
	})
	suggestions := make([]interface{}, 0, len(keys))
	for _, key := range keys {
		if profile := materials.GetFilamentProfile(key); profile != nil {
			suggestions = append(suggestions, gin.H{"key": key, "name": profile.Name})
		}
	}
	return gin.H{"suggestions": suggestions}, nil
}

// nozzleCatalogue is the stock lineup exposed over the API.
var nozzleCatalogue = []struct {
	diameter float64
	hardened bool
}{
	{0.2, false}, {0.4, false}, {0.4, true}, {0.6, true}, {0.8, true},
}

func (h *Handler) listNozzles(_ *gin.Context) (interface{}, error) {
	var nozzles []*materials.NozzleProfile
	for _, entry := range nozzleCatalogue {
		if profile := materials.GetNozzleProfile(entry.diameter, entry.hardened); profile != nil {
			nozzles = append(nozzles, profile)
		}
	}
	return gin.H{"nozzles": nozzles}, nil
}

type recommendNozzleRequest struct {
	PartSize      string `json:"part_size"`
	DetailNeeded  string `json:"detail_needed"`
	Material      string `json:"material"`
	SpeedPriority bool   `json:"speed_priority"`
}

func (h *Handler) recommendNozzle(c *gin.Context) (interface{}, error) {
	var req recommendNozzleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	if req.PartSize == "" {
		req.PartSize = "medium"
	}
	if req.DetailNeeded == "" {
		req.DetailNeeded = "standard"
	}
	abrasive := false
	if profile := materials.GetFilamentProfile(strings.TrimSpace(req.Material)); profile != nil {
		abrasive = profile.IsAbrasive()
	}
	profile, reason := materials.RecommendNozzle(
		strings.TrimSpace(req.PartSize), strings.TrimSpace(req.DetailNeeded), abrasive, req.SpeedPriority)
	return gin.H{"nozzle": profile, "reason": reason}, nil
}
