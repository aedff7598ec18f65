/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package handlers

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"k8s.io/klog/v2"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/printer"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// PrinterStatusStream pushes each printer status update over a websocket.
// GET /ws/printer/status
func (h *Handler) PrinterStatusStream(c *gin.Context) {
	if h.Controller == nil {
		AbortWithApiError(c, commonerrors.NewPrinterNotConnected("printer is not configured"))
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		klog.Errorf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Status updates land here from the MQTT callback. An in-flight
	// dispatch can outlive deregistration, so the callback also checks
	// closed before sending.
	updates := make(chan *printer.Status, 16)
	var closed atomic.Bool
	callbackName := fmt.Sprintf("ws-%s", uuid.NewString()[:8])
	h.Controller.RegisterStatusCallback(callbackName, func(status *printer.Status) {
		if closed.Load() {
			return
		}
		select {
		case updates <- status:
		default:
			// slow consumer, drop the update
		}
	})
	defer func() {
		closed.Store(true)
		h.Controller.UnregisterStatusCallback(callbackName)
	}()

	if status := h.Controller.CurrentStatus(); status != nil {
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(status); err != nil {
			return
		}
	}

	// Drain client frames so close and pong frames are processed.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case status := <-updates:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(status); err != nil {
				klog.V(4).Infof("websocket write failed, closing stream: %v", err)
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readerDone:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
