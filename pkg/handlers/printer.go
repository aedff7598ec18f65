/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/printer"
)

const connectTimeout = 10 * time.Second

// ConnectPrinter establishes the MQTT link to the printer.
// POST /api/v1/printer/connect
func (h *Handler) ConnectPrinter(c *gin.Context) {
	handle(c, h.connectPrinter)
}

// DisconnectPrinter tears the MQTT link down.
// POST /api/v1/printer/disconnect
func (h *Handler) DisconnectPrinter(c *gin.Context) {
	handle(c, h.disconnectPrinter)
}

// PrinterStatus returns the latest printer status.
// GET /api/v1/printer/status
func (h *Handler) PrinterStatus(c *gin.Context) {
	handle(c, h.printerStatus)
}

// SubmitPrint submits a 3MF file for printing.
// POST /api/v1/printer/print
func (h *Handler) SubmitPrint(c *gin.Context) {
	handle(c, h.submitPrint)
}

// PausePrint pauses the running job.
// POST /api/v1/printer/pause
func (h *Handler) PausePrint(c *gin.Context) {
	handle(c, h.pausePrint)
}

// ResumePrint resumes a paused job.
// POST /api/v1/printer/resume
func (h *Handler) ResumePrint(c *gin.Context) {
	handle(c, h.resumePrint)
}

// StopPrint cancels the running job.
// POST /api/v1/printer/stop
func (h *Handler) StopPrint(c *gin.Context) {
	handle(c, h.stopPrint)
}

// SetSpeedLevel changes the print speed level (1-4).
// POST /api/v1/printer/speed
func (h *Handler) SetSpeedLevel(c *gin.Context) {
	handle(c, h.setSpeedLevel)
}

// SetFanSpeed changes the part cooling fan speed.
// POST /api/v1/printer/fan
func (h *Handler) SetFanSpeed(c *gin.Context) {
	handle(c, h.setFanSpeed)
}

// SendGcode sends a raw G-code line.
// POST /api/v1/printer/gcode
func (h *Handler) SendGcode(c *gin.Context) {
	handle(c, h.sendGcode)
}

// CurrentJob returns the tracked print job.
// GET /api/v1/printer/job
func (h *Handler) CurrentJob(c *gin.Context) {
	handle(c, h.currentJob)
}

func (h *Handler) requirePrinter() error {
	if h.Controller == nil {
		return commonerrors.NewPrinterNotConnected(
			"printer is not configured; set VIBE_PRINTER_HOST, VIBE_ACCESS_CODE and VIBE_SERIAL")
	}
	return nil
}

func (h *Handler) connectPrinter(_ *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	if err := h.Controller.Connect(connectTimeout); err != nil {
		return nil, err
	}
	return gin.H{"connected": true}, nil
}

func (h *Handler) disconnectPrinter(_ *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	h.Controller.Disconnect()
	return gin.H{"connected": false}, nil
}

func (h *Handler) printerStatus(c *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	if !h.Controller.IsConnected() {
		return nil, commonerrors.NewPrinterNotConnected("printer is not connected")
	}
	// refresh=true forces a round trip, otherwise the cached status is fine
	if c.Query("refresh") == "true" {
		status, err := h.Controller.RefreshStatus()
		if err != nil {
			return nil, err
		}
		return status, nil
	}
	status := h.Controller.CurrentStatus()
	if status == nil {
		return h.Controller.RefreshStatus()
	}
	return status, nil
}

type submitPrintRequest struct {
	FilePath             string `json:"file_path"`
	UseAMS               *bool  `json:"use_ams"`
	AMSMapping           []int  `json:"ams_mapping"`
	BedLeveling          *bool  `json:"bed_leveling"`
	FlowCalibration      *bool  `json:"flow_calibration"`
	VibrationCalibration *bool  `json:"vibration_calibration"`
	LayerInspect         *bool  `json:"layer_inspect"`
	Timelapse            *bool  `json:"timelapse"`
}

func (h *Handler) submitPrint(c *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	var req submitPrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}

	opts := printer.DefaultSubmitOptions()
	if req.UseAMS != nil {
		opts.UseAMS = *req.UseAMS
	}
	if len(req.AMSMapping) > 0 {
		opts.AMSMapping = req.AMSMapping
	}
	if req.BedLeveling != nil {
		opts.BedLeveling = *req.BedLeveling
	}
	if req.FlowCalibration != nil {
		opts.FlowCalibration = *req.FlowCalibration
	}
	if req.VibrationCalibration != nil {
		opts.VibrationCalibration = *req.VibrationCalibration
	}
	if req.LayerInspect != nil {
		opts.LayerInspect = *req.LayerInspect
	}
	if req.Timelapse != nil {
		opts.Timelapse = *req.Timelapse
	}

	job, err := h.Controller.Submit(strings.TrimSpace(req.FilePath), opts)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (h *Handler) pausePrint(_ *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	if err := h.Controller.Pause(); err != nil {
		return nil, err
	}
	return gin.H{"paused": true}, nil
}

func (h *Handler) resumePrint(_ *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	if err := h.Controller.Resume(); err != nil {
		return nil, err
	}
	return gin.H{"resumed": true}, nil
}

func (h *Handler) stopPrint(_ *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	if err := h.Controller.Stop(); err != nil {
		return nil, err
	}
	return gin.H{"stopped": true}, nil
}

type speedLevelRequest struct {
	Level int `json:"level"`
}

func (h *Handler) setSpeedLevel(c *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	var req speedLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	if err := h.Controller.SetSpeedLevel(req.Level); err != nil {
		return nil, err
	}
	return gin.H{"speed_level": req.Level}, nil
}

type fanSpeedRequest struct {
	Percent int `json:"percent"`
}

func (h *Handler) setFanSpeed(c *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	var req fanSpeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	if err := h.Controller.SetFanSpeed(req.Percent); err != nil {
		return nil, err
	}
	return gin.H{"fan_percent": req.Percent}, nil
}

type gcodeRequest struct {
	Gcode string `json:"gcode"`
}

func (h *Handler) sendGcode(c *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	var req gcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}
	gcode := strings.TrimSpace(req.Gcode)
	if gcode == "" {
		return nil, commonerrors.NewBadRequest("gcode is required")
	}
	if err := h.Controller.SendGcode(gcode); err != nil {
		return nil, err
	}
	return gin.H{"sent": gcode}, nil
}

func (h *Handler) currentJob(_ *gin.Context) (interface{}, error) {
	if err := h.requirePrinter(); err != nil {
		return nil, err
	}
	job := h.Controller.CurrentJob()
	if job == nil {
		return nil, commonerrors.NewNotFound("job", "current")
	}
	return job, nil
}
