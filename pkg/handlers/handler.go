/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package handlers exposes the printing toolchain over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/hunter-stradley/vibe-print/pkg/camera"
	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/iteration"
	"github.com/hunter-stradley/vibe-print/pkg/monitor"
	"github.com/hunter-stradley/vibe-print/pkg/printer"
	"github.com/hunter-stradley/vibe-print/pkg/scale"
	"github.com/hunter-stradley/vibe-print/pkg/slicer"
	"github.com/hunter-stradley/vibe-print/pkg/vision"
	"github.com/hunter-stradley/vibe-print/pkg/wizard"
)

const jsonContentType = "application/json; charset=utf-8"

// Handler carries every component the API routes reach into. Optional
// components (printer, camera, slicer) may be nil; their routes answer
// with a coded error instead.
type Handler struct {
	Store      iteration.Interface
	Controller *printer.Controller
	Camera     *camera.Session
	Analyzer   *vision.Analyzer
	Monitor    *monitor.Monitor
	Workflows  *wizard.Manager
	Slicer     *slicer.CLI
	Scaler     *scale.Scaler
}

type handleFunc func(c *gin.Context) (interface{}, error)

// handle runs fn and renders either its response or the error envelope.
func handle(c *gin.Context, fn handleFunc) {
	response, err := fn(c)
	if err != nil {
		AbortWithApiError(c, err)
		return
	}
	code := http.StatusOK
	if c.Writer.Status() > 0 {
		code = c.Writer.Status()
	}
	switch responseType := response.(type) {
	case []byte:
		c.Data(code, jsonContentType, responseType)
	case string:
		c.Data(code, jsonContentType, []byte(responseType))
	default:
		c.JSON(code, responseType)
	}
}

// ApiError is the unified error response: HTTP code, error code, message.
type ApiError struct {
	HttpCode     int    `json:"-"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func (err *ApiError) Error() string {
	return err.ErrorMessage
}

// AbortWithApiError converts err into the standard envelope and aborts
// the request.
func AbortWithApiError(c *gin.Context, err error) {
	_ = c.Error(err)
	rsp := convertToErrResponse(err)
	c.AbortWithStatusJSON(rsp.HttpCode, rsp)
}

func convertToErrResponse(err error) ApiError {
	var result *ApiError
	if errors.As(err, &result) {
		return *result
	}
	var statusErr *commonerrors.StatusError
	if !errors.As(err, &statusErr) {
		statusErr = commonerrors.NewInternalError(err.Error())
	}
	return ApiError{
		HttpCode:     statusErr.HttpCode,
		ErrorCode:    statusErr.Reason,
		ErrorMessage: statusErr.Message,
	}
}

// Logger is the request log middleware.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			klog.Errorf("%s %s -> %d (%s) %v",
				c.Request.Method, c.Request.URL.Path, status, latency, c.Errors.Errors())
		} else {
			klog.V(2).Infof("%s %s -> %d (%s)",
				c.Request.Method, c.Request.URL.Path, status, latency)
		}
	}
}
