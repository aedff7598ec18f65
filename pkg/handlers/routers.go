/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
)

const apiRootPath = "/api/v1"

// InitHttpHandlers builds the gin engine with all routes registered.
func InitHttpHandlers(h *Handler) *gin.Engine {
	engine := gin.New()
	engine.Use(Logger(), gin.Recovery())
	engine.NoRoute(func(c *gin.Context) {
		AbortWithApiError(c, commonerrors.NewNotFoundWithMessage(c.Request.RequestURI+" not found"))
	})

	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/ws/printer/status", h.PrinterStatusStream)

	InitRouters(engine, h)
	return engine
}

// InitRouters registers the /api/v1 routes.
func InitRouters(e *gin.Engine, h *Handler) {
	group := e.Group(apiRootPath)
	{
		// material knowledge base
		group.GET("materials", h.ListMaterials)
		group.GET("materials/:name", h.GetMaterial)
		group.POST("materials/suggest", h.SuggestMaterials)
		group.GET("nozzles", h.ListNozzles)
		group.POST("nozzles/recommend", h.RecommendNozzle)

		// parameter optimizer and recommender
		group.POST("optimize", h.OptimizeParameters)
		group.POST("materials/compatibility", h.MaterialCompatibility)
		group.POST("recommendations", h.Recommendations)

		// wizard
		group.POST("parse-description", h.ParseDescription)
		group.POST("design-review", h.DesignReview)
		group.POST("slicing-review", h.SlicingReview)
		group.POST("recommended-settings", h.RecommendedSlicingSettings)

		// guided workflows
		group.POST("workflows", h.CreateWorkflow)
		group.GET("workflows", h.ListWorkflows)
		group.GET("workflows/:id", h.GetWorkflow)
		group.GET("workflows/:id/checkpoint", h.GetCurrentCheckpoint)
		group.POST("workflows/:id/approve", h.ApproveCheckpoint)
		group.DELETE("workflows/:id", h.DeleteWorkflow)

		// scaling
		group.POST("scale/uniform", h.ScaleUniform)
		group.POST("scale/dimension", h.ScaleToDimension)
		group.POST("scale/tube-squeezer", h.ScaleForTubeSqueezer)
		group.POST("scale/parse-dimension", h.ParseDimensionString)

		// slicer
		group.GET("slicer/status", h.SlicerStatus)
		group.POST("slicer/validate", h.ValidateModel)
		group.POST("slicer/slice", h.SliceModel)
		group.GET("slicer/presets", h.ListPresets)
		group.GET("slicer/presets/:name", h.GetPreset)

		// printer
		group.POST("printer/connect", h.ConnectPrinter)
		group.POST("printer/disconnect", h.DisconnectPrinter)
		group.GET("printer/status", h.PrinterStatus)
		group.POST("printer/print", h.SubmitPrint)
		group.POST("printer/pause", h.PausePrint)
		group.POST("printer/resume", h.ResumePrint)
		group.POST("printer/stop", h.StopPrint)
		group.POST("printer/speed", h.SetSpeedLevel)
		group.POST("printer/fan", h.SetFanSpeed)
		group.POST("printer/gcode", h.SendGcode)
		group.GET("printer/job", h.CurrentJob)

		// camera and vision
		group.POST("camera/capture", h.CaptureFrame)
		group.GET("camera/frames", h.RecentFrames)
		group.POST("camera/stream/start", h.StartStream)
		group.POST("camera/stream/stop", h.StopStream)
		group.POST("vision/analyze", h.AnalyzeFrame)
		group.GET("monitor/status", h.MonitorStatus)

		// iteration store
		group.POST("iterations", h.CreateIteration)
		group.GET("iterations", h.ListIterations)
		group.GET("iterations/:id", h.GetIteration)
		group.POST("iterations/:id/outcome", h.RecordOutcome)
		group.GET("models/:name/statistics", h.ModelStatistics)
	}
}
