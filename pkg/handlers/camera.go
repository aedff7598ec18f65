/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package handlers

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/utils/timeutil"
)

// CaptureFrame grabs one frame from the printer camera.
// POST /api/v1/camera/capture
func (h *Handler) CaptureFrame(c *gin.Context) {
	handle(c, h.captureFrame)
}

// RecentFrames lists metadata of the buffered frames.
// GET /api/v1/camera/frames
func (h *Handler) RecentFrames(c *gin.Context) {
	handle(c, h.recentFrames)
}

// AnalyzeFrame runs defect detection on an uploaded or captured frame.
// POST /api/v1/vision/analyze
func (h *Handler) AnalyzeFrame(c *gin.Context) {
	handle(c, h.analyzeFrame)
}

// StartStream starts the background capture loop feeding the frame
// buffer.
// POST /api/v1/camera/stream/start
func (h *Handler) StartStream(c *gin.Context) {
	handle(c, h.startStream)
}

// StopStream stops the background capture loop.
// POST /api/v1/camera/stream/stop
func (h *Handler) StopStream(c *gin.Context) {
	handle(c, h.stopStream)
}

// MonitorStatus reports the monitor loop state.
// GET /api/v1/monitor/status
func (h *Handler) MonitorStatus(c *gin.Context) {
	handle(c, h.monitorStatus)
}

func (h *Handler) requireCamera() error {
	if h.Camera == nil {
		return commonerrors.NewCameraNotOpen("camera is not configured")
	}
	return nil
}

func (h *Handler) captureFrame(c *gin.Context) (interface{}, error) {
	if err := h.requireCamera(); err != nil {
		return nil, err
	}
	frame, err := h.Camera.CaptureFrame(c.Request.Context())
	if err != nil {
		return nil, err
	}
	rsp := gin.H{
		"timestamp":    timeutil.FormatRFC3339(&frame.Timestamp),
		"frame_number": frame.Number,
		"width":        frame.Width,
		"height":       frame.Height,
		"size_bytes":   len(frame.Data),
	}
	if c.Query("include_data") == "true" {
		rsp["data_base64"] = frame.ToBase64()
	}
	return rsp, nil
}

func (h *Handler) recentFrames(c *gin.Context) (interface{}, error) {
	if err := h.requireCamera(); err != nil {
		return nil, err
	}
	count := 10
	if v := c.Query("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, commonerrors.NewBadRequest("count must be a positive integer")
		}
		count = n
	}
	frames := h.Camera.Buffer().Recent(count)
	items := make([]gin.H, 0, len(frames))
	for _, f := range frames {
		items = append(items, gin.H{
			"timestamp":    timeutil.FormatRFC3339(&f.Timestamp),
			"frame_number": f.Number,
			"width":        f.Width,
			"height":       f.Height,
			"size_bytes":   len(f.Data),
		})
	}
	return gin.H{
		"frames":    items,
		"buffered":  h.Camera.Buffer().Count(),
		"streaming": h.Camera.Streaming(),
	}, nil
}

type startStreamRequest struct {
	IntervalSeconds float64 `json:"interval_seconds"`
}

func (h *Handler) startStream(c *gin.Context) (interface{}, error) {
	if err := h.requireCamera(); err != nil {
		return nil, err
	}
	var req startStreamRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
		}
	}
	if req.IntervalSeconds < 0 {
		return nil, commonerrors.NewBadRequest("interval_seconds must not be negative")
	}
	interval := time.Duration(req.IntervalSeconds * float64(time.Second))
	if err := h.Camera.StartStream(interval); err != nil {
		return nil, err
	}
	return gin.H{"streaming": true}, nil
}

func (h *Handler) stopStream(_ *gin.Context) (interface{}, error) {
	if err := h.requireCamera(); err != nil {
		return nil, err
	}
	h.Camera.StopStream()
	return gin.H{"streaming": false}, nil
}

type analyzeFrameRequest struct {
	// DataBase64 is an optional client-supplied JPEG/PNG. With no data
	// a fresh frame is captured from the camera.
	DataBase64 string `json:"data_base64"`
}

func (h *Handler) analyzeFrame(c *gin.Context) (interface{}, error) {
	if h.Analyzer == nil {
		return nil, commonerrors.NewInternalError("vision analyzer is not configured")
	}
	var req analyzeFrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid request: %v", err))
	}

	var data []byte
	if req.DataBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.DataBase64)
		if err != nil {
			return nil, commonerrors.NewBadRequest(fmt.Sprintf("invalid base64 data: %v", err))
		}
		data = decoded
	} else {
		if err := h.requireCamera(); err != nil {
			return nil, err
		}
		frame, err := h.Camera.CaptureFrame(c.Request.Context())
		if err != nil {
			return nil, err
		}
		data = frame.Data
	}

	return h.Analyzer.AnalyzeFrame(data), nil
}

func (h *Handler) monitorStatus(_ *gin.Context) (interface{}, error) {
	if h.Monitor == nil {
		return gin.H{"running": false}, nil
	}
	rsp := gin.H{
		"running":      h.Monitor.Running(),
		"pause_events": h.Monitor.PauseEvents(),
	}
	if last := h.Monitor.LastResult(); last != nil {
		rsp["last_result"] = last
	}
	return rsp, nil
}
