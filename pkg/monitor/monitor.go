/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package monitor runs the periodic capture-and-analyze loop that
// watches an active print and pauses it on critical defects.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"

	"github.com/hunter-stradley/vibe-print/pkg/camera"
	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/vision"
)

// FrameSource provides camera frames.
type FrameSource interface {
	CaptureFrame(ctx context.Context) (*camera.CapturedFrame, error)
}

// FrameAnalyzer runs defect detection on a frame.
type FrameAnalyzer interface {
	AnalyzeFrame(data []byte) *vision.DetectionResult
}

// PauseController pauses the running print job.
type PauseController interface {
	Pause() error
}

// PauseEvent records one automatic pause.
type PauseEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
	Defects   []string  `json:"defects"`
}

// Options configures a Monitor.
type Options struct {
	// Interval between captures. Zero means the 5s default.
	Interval time.Duration
	// AutoPause enables pausing the print when analysis says so.
	AutoPause bool
}

const defaultInterval = 5 * time.Second

// Monitor drives the capture loop. One Monitor watches one printer.
type Monitor struct {
	source     FrameSource
	analyzer   FrameAnalyzer
	controller PauseController
	interval   time.Duration
	autoPause  bool

	mu          sync.Mutex
	job         *cron.Cron
	lastResult  *vision.DetectionResult
	pauseEvents []PauseEvent
	callbacks   []func(*vision.DetectionResult)
}

func New(source FrameSource, analyzer FrameAnalyzer, controller PauseController, opts Options) *Monitor {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Monitor{
		source:     source,
		analyzer:   analyzer,
		controller: controller,
		interval:   interval,
		autoPause:  opts.AutoPause,
	}
}

// OnDetection registers a callback invoked after every analyzed frame.
// Must be called before Start.
func (m *Monitor) OnDetection(fn func(*vision.DetectionResult)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Start begins the capture loop.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.job != nil {
		return commonerrors.NewBadRequest("monitor is already running")
	}
	job := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	if _, err := job.AddFunc(fmt.Sprintf("@every %s", m.interval), m.tick); err != nil {
		return commonerrors.NewInternalError(fmt.Sprintf("failed to schedule monitor: %v", err))
	}
	job.Start()
	m.job = job
	klog.Infof("print monitor started, interval %s", m.interval)
	return nil
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	job := m.job
	m.job = nil
	m.mu.Unlock()
	if job == nil {
		return
	}
	<-job.Stop().Done()
	klog.Info("print monitor stopped")
}

// Running reports whether the loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.job != nil
}

func (m *Monitor) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval*2)
	defer cancel()

	frame, err := m.source.CaptureFrame(ctx)
	if err != nil {
		FramesAnalyzedTotal.WithLabelValues("capture_failed").Inc()
		klog.V(2).Infof("monitor capture failed: %v", err)
		return
	}

	result := m.analyzer.AnalyzeFrame(frame.Data)
	m.record(result)

	if !result.FrameAnalyzed {
		FramesAnalyzedTotal.WithLabelValues("decode_failed").Inc()
		return
	}
	FramesAnalyzedTotal.WithLabelValues("ok").Inc()
	PrintQualityScore.Set(result.PrintQualityScore)
	for _, d := range result.Defects {
		DefectsDetectedTotal.WithLabelValues(string(d.Type), string(d.Severity)).Inc()
	}

	if result.ShouldPause() && m.autoPause && m.controller != nil {
		klog.Warningf("critical defects detected (score %.0f): %v, pausing print",
			result.PrintQualityScore, result.DefectNames())
		if err := m.controller.Pause(); err != nil {
			klog.ErrorS(err, "failed to pause print after defect detection")
		} else {
			PausesTriggeredTotal.Inc()
			m.recordPause(result)
		}
	}
}

func (m *Monitor) record(result *vision.DetectionResult) {
	m.mu.Lock()
	m.lastResult = result
	callbacks := make([]func(*vision.DetectionResult), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, fn := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					klog.Errorf("detection callback panicked: %v", r)
				}
			}()
			fn(result)
		}()
	}
}

func (m *Monitor) recordPause(result *vision.DetectionResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseEvents = append(m.pauseEvents, PauseEvent{
		Timestamp: result.Timestamp,
		Score:     result.PrintQualityScore,
		Defects:   result.DefectNames(),
	})
}

// LastResult returns the most recent analysis, or nil.
func (m *Monitor) LastResult() *vision.DetectionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastResult
}

// PauseEvents returns a copy of the recorded automatic pauses.
func (m *Monitor) PauseEvents() []PauseEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]PauseEvent, len(m.pauseEvents))
	copy(events, m.pauseEvents)
	return events
}
