/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package server assembles the orchestration components and runs the
// HTTP API on top of them.
package server

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/hunter-stradley/vibe-print/pkg/camera"
	"github.com/hunter-stradley/vibe-print/pkg/config"
	"github.com/hunter-stradley/vibe-print/pkg/handlers"
	"github.com/hunter-stradley/vibe-print/pkg/iteration"
	"github.com/hunter-stradley/vibe-print/pkg/monitor"
	"github.com/hunter-stradley/vibe-print/pkg/notify"
	"github.com/hunter-stradley/vibe-print/pkg/printer"
	"github.com/hunter-stradley/vibe-print/pkg/scale"
	"github.com/hunter-stradley/vibe-print/pkg/slicer"
	"github.com/hunter-stradley/vibe-print/pkg/utils/httpserver"
	"github.com/hunter-stradley/vibe-print/pkg/vision"
	"github.com/hunter-stradley/vibe-print/pkg/wizard"
)

const gracefulStopTimeout = 10 * time.Second

type Server struct {
	handler    *handlers.Handler
	store      iteration.Interface
	monitor    *monitor.Monitor
	httpServer *http.Server
	isInited   bool
}

func NewServer(configPath string) (*Server, error) {
	s := &Server{}
	if err := s.init(configPath); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) init(configPath string) error {
	gin.SetMode(gin.ReleaseMode)

	if err := config.LoadConfig(configPath); err != nil {
		klog.ErrorS(err, "failed to load config")
		return err
	}

	store, err := iteration.NewClient(config.GetDatabasePath())
	if err != nil {
		klog.ErrorS(err, "failed to open iteration store")
		return err
	}
	s.store = store

	h := &handlers.Handler{
		Store:     store,
		Workflows: wizard.NewManager(),
	}

	scaler, err := scale.NewScaler(config.GetTempDir(), nil)
	if err != nil {
		klog.ErrorS(err, "failed to init scaler")
		return err
	}
	h.Scaler = scaler

	if config.GetSlicerPath() != "" {
		h.Slicer = slicer.NewCLI(config.GetSlicerPath(), config.GetSlicerProfilesDir(), config.GetTempDir())
	}

	analyzer := vision.NewAnalyzer(vision.DefaultConfig())
	h.Analyzer = analyzer

	// Printer, camera and monitor only come up with printer credentials.
	if config.GetPrinterHost() != "" && config.GetAccessCode() != "" && config.GetSerial() != "" {
		session := printer.NewSession(config.GetPrinterHost(), config.GetAccessCode(),
			config.GetSerial(), config.GetMQTTPort())
		h.Controller = printer.NewController(session)

		h.Camera = camera.NewSession(config.GetPrinterHost(), config.GetAccessCode(),
			config.GetCameraPort(), camera.NewFFmpegTransport())

		interval := time.Duration(config.GetCameraCaptureInterval() * float64(time.Second))
		s.monitor = monitor.New(h.Camera, analyzer, h.Controller, monitor.Options{
			Interval:  interval,
			AutoPause: true,
		})
		h.Monitor = s.monitor

		s.setupNotifications(h)
	} else {
		klog.Infof("printer credentials not configured, running in offline mode")
	}

	s.handler = h
	s.isInited = true
	return nil
}

func (s *Server) setupNotifications(h *handlers.Handler) {
	notifier := notify.NewNotifier(notify.FromAppConfig())
	if !notifier.Enabled() {
		return
	}
	// Status updates repeat while the job state stays the same, so only
	// the first update in each state sends mail.
	var lastNotified string
	h.Controller.RegisterStatusCallback("job-notify", func(_ *printer.Status) {
		job := h.Controller.CurrentJob()
		if job == nil {
			return
		}
		key := job.JobID + "/" + job.Status
		if key == lastNotified {
			return
		}
		lastNotified = key
		if err := notifier.NotifyJobEvent(job); err != nil {
			klog.V(2).Infof("job notification skipped: %v", err)
		}
	})
	s.monitor.OnDetection(func(result *vision.DetectionResult) {
		if !result.ShouldPause() {
			return
		}
		fileName := ""
		if job := h.Controller.CurrentJob(); job != nil {
			fileName = job.FileName
		}
		if err := notifier.NotifyDefects(fileName, result.PrintQualityScore, result.DefectNames()); err != nil {
			klog.V(2).Infof("defect notification skipped: %v", err)
		}
	})
}

func (s *Server) Start() {
	if !s.isInited {
		klog.Errorf("please init the server first")
		return
	}
	gin.EnableJsonDecoderDisallowUnknownFields()

	engine := handlers.InitHttpHandlers(s.handler)
	if config.GetEnableProfiling() {
		mux := http.NewServeMux()
		httpserver.EnableMuxProfile(mux)
		engine.Any("/debug/pprof/*path", gin.WrapH(mux))
	}

	s.httpServer = &http.Server{
		Addr:    config.GetListenAddress(),
		Handler: engine,
	}

	if s.monitor != nil {
		if err := s.monitor.Start(); err != nil {
			klog.ErrorS(err, "failed to start print monitor")
		}
	}

	klog.Infof("starting api server on %s", config.GetListenAddress())
	stopCh := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		close(stopCh)
	}()

	if err := httpserver.Run(stopCh, gracefulStopTimeout, s.httpServer); err != nil {
		klog.ErrorS(err, "http server shutdown reported errors")
	}
	s.shutdown()
}

func (s *Server) shutdown() {
	if s.monitor != nil && s.monitor.Running() {
		s.monitor.Stop()
	}
	if s.handler.Camera != nil {
		s.handler.Camera.StopStream()
	}
	if s.handler.Controller != nil && s.handler.Controller.IsConnected() {
		s.handler.Controller.Disconnect()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			klog.ErrorS(err, "failed to close iteration store")
		}
	}
	klog.Infof("api server stopped")
}
