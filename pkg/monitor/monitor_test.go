/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunter-stradley/vibe-print/pkg/camera"
	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/vision"
)

type fakeSource struct {
	frame *camera.CapturedFrame
	err   error
}

func (s *fakeSource) CaptureFrame(ctx context.Context) (*camera.CapturedFrame, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.frame, nil
}

type fakeAnalyzer struct {
	result *vision.DetectionResult
}

func (a *fakeAnalyzer) AnalyzeFrame(data []byte) *vision.DetectionResult {
	return a.result
}

type fakePauser struct {
	paused int
	err    error
}

func (p *fakePauser) Pause() error {
	p.paused++
	return p.err
}

func healthyResult() *vision.DetectionResult {
	return &vision.DetectionResult{
		Timestamp:         time.Now().UTC(),
		FrameAnalyzed:     true,
		PrintQualityScore: 95,
	}
}

func criticalResult() *vision.DetectionResult {
	return &vision.DetectionResult{
		Timestamp:         time.Now().UTC(),
		FrameAnalyzed:     true,
		PrintQualityScore: 20,
		Defects: []vision.Defect{{
			Type:       vision.DefectSpaghetti,
			Severity:   vision.SeverityCritical,
			Confidence: 0.9,
		}},
	}
}

func newTestMonitor(source FrameSource, analyzer FrameAnalyzer, pauser PauseController, autoPause bool) *Monitor {
	return New(source, analyzer, pauser, Options{Interval: time.Second, AutoPause: autoPause})
}

func TestTickHealthyFrame(t *testing.T) {
	source := &fakeSource{frame: &camera.CapturedFrame{Data: []byte("frame")}}
	pauser := &fakePauser{}
	m := newTestMonitor(source, &fakeAnalyzer{result: healthyResult()}, pauser, true)

	m.tick()

	require.NotNil(t, m.LastResult())
	assert.Equal(t, 95.0, m.LastResult().PrintQualityScore)
	assert.Zero(t, pauser.paused)
	assert.Empty(t, m.PauseEvents())
}

func TestTickAutoPausesOnCriticalDefect(t *testing.T) {
	source := &fakeSource{frame: &camera.CapturedFrame{Data: []byte("frame")}}
	pauser := &fakePauser{}
	m := newTestMonitor(source, &fakeAnalyzer{result: criticalResult()}, pauser, true)

	m.tick()

	assert.Equal(t, 1, pauser.paused)
	events := m.PauseEvents()
	require.Len(t, events, 1)
	assert.Equal(t, 20.0, events[0].Score)
	assert.Equal(t, []string{"spaghetti"}, events[0].Defects)
}

func TestTickAutoPauseDisabled(t *testing.T) {
	source := &fakeSource{frame: &camera.CapturedFrame{Data: []byte("frame")}}
	pauser := &fakePauser{}
	m := newTestMonitor(source, &fakeAnalyzer{result: criticalResult()}, pauser, false)

	m.tick()

	assert.Zero(t, pauser.paused)
	assert.Empty(t, m.PauseEvents())
	// the analysis is still recorded
	assert.NotNil(t, m.LastResult())
}

func TestTickPauseFailureNotRecorded(t *testing.T) {
	source := &fakeSource{frame: &camera.CapturedFrame{Data: []byte("frame")}}
	pauser := &fakePauser{err: assert.AnError}
	m := newTestMonitor(source, &fakeAnalyzer{result: criticalResult()}, pauser, true)

	m.tick()

	assert.Equal(t, 1, pauser.paused)
	assert.Empty(t, m.PauseEvents())
}

func TestTickCaptureFailure(t *testing.T) {
	source := &fakeSource{err: assert.AnError}
	m := newTestMonitor(source, &fakeAnalyzer{result: healthyResult()}, &fakePauser{}, true)

	m.tick()
	assert.Nil(t, m.LastResult())
}

func TestTickUndecodableFrame(t *testing.T) {
	source := &fakeSource{frame: &camera.CapturedFrame{Data: []byte("noise")}}
	result := &vision.DetectionResult{
		Timestamp:         time.Now().UTC(),
		FrameAnalyzed:     false,
		PrintQualityScore: 100,
	}
	pauser := &fakePauser{}
	m := newTestMonitor(source, &fakeAnalyzer{result: result}, pauser, true)

	m.tick()

	// undecodable frames never trigger pauses but are still recorded
	assert.Zero(t, pauser.paused)
	assert.NotNil(t, m.LastResult())
}

func TestOnDetectionCallbacks(t *testing.T) {
	source := &fakeSource{frame: &camera.CapturedFrame{Data: []byte("frame")}}
	m := newTestMonitor(source, &fakeAnalyzer{result: healthyResult()}, &fakePauser{}, true)

	var seen []*vision.DetectionResult
	m.OnDetection(func(r *vision.DetectionResult) {
		seen = append(seen, r)
	})
	// a panicking callback must not break the loop
	m.OnDetection(func(r *vision.DetectionResult) {
		panic("boom")
	})

	m.tick()
	m.tick()
	require.Len(t, seen, 2)
	assert.Equal(t, 95.0, seen[0].PrintQualityScore)
}

func TestStartStop(t *testing.T) {
	source := &fakeSource{frame: &camera.CapturedFrame{Data: []byte("frame")}}
	m := newTestMonitor(source, &fakeAnalyzer{result: healthyResult()}, &fakePauser{}, false)

	assert.False(t, m.Running())
	require.NoError(t, m.Start())
	assert.True(t, m.Running())

	err := m.Start()
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))

	m.Stop()
	assert.False(t, m.Running())

	// stopping twice is a no-op
	m.Stop()

	// the monitor can be restarted after a stop
	require.NoError(t, m.Start())
	m.Stop()
}
