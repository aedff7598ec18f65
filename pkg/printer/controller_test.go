/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package printer

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
)

func newTestController() *Controller {
	return NewController(NewSession("printer.local", "code", "SERIAL", 0))
}

func runningReport(percent float64) map[string]interface{} {
	return map[string]interface{}{
		"print": map[string]interface{}{
			"gcode_state": "RUNNING",
			"mc_percent":  percent,
		},
	}
}

func TestHandleReportJobTransitions(t *testing.T) {
	c := newTestController()
	c.job = &Job{JobID: "ab12cd34", Status: JobPending}

	c.handleReport(runningReport(15))
	job := c.CurrentJob()
	assert.Equal(t, JobPrinting, job.Status)
	assert.Equal(t, 15.0, job.ProgressPercent)
	require.NotNil(t, job.StartedAt)
	startedAt := job.StartedAt

	c.handleReport(runningReport(60))
	assert.Equal(t, 60.0, c.CurrentJob().ProgressPercent)
	assert.Equal(t, startedAt, c.CurrentJob().StartedAt)

	c.handleReport(map[string]interface{}{
		"print": map[string]interface{}{"gcode_state": "FINISH"},
	})
	job = c.CurrentJob()
	assert.Equal(t, JobCompleted, job.Status)
	assert.Equal(t, 100.0, job.ProgressPercent)
	assert.NotNil(t, job.CompletedAt)
}

func TestHandleReportJobFailure(t *testing.T) {
	c := newTestController()
	c.job = &Job{JobID: "ab12cd34", Status: JobPrinting}

	c.handleReport(map[string]interface{}{
		"print": map[string]interface{}{
			"gcode_state": "FAILED",
			"print_error": 50348044,
		},
	})
	job := c.CurrentJob()
	assert.Equal(t, JobFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "50348044")
}

func TestHandleReportWithoutJob(t *testing.T) {
	c := newTestController()
	c.handleReport(runningReport(30))
	assert.Nil(t, c.CurrentJob())
	require.NotNil(t, c.CurrentStatus())
	assert.Equal(t, StatePrinting, c.CurrentStatus().State)
}

func TestStatusCallbacks(t *testing.T) {
	c := newTestController()

	var seen []*Status
	c.RegisterStatusCallback("collector", func(status *Status) {
		seen = append(seen, status)
	})
	// a panicking callback must not break report handling
	c.RegisterStatusCallback("bomb", func(status *Status) {
		panic("boom")
	})

	c.handleReport(runningReport(10))
	c.handleReport(runningReport(20))
	require.Len(t, seen, 2)
	assert.Equal(t, 20.0, seen[1].Progress.Percentage)
}

func TestStatusCallbackUnregister(t *testing.T) {
	c := newTestController()

	calls := 0
	c.RegisterStatusCallback("collector", func(status *Status) {
		calls++
	})
	c.handleReport(runningReport(10))
	require.Equal(t, 1, calls)

	c.UnregisterStatusCallback("collector")
	c.handleReport(runningReport(20))
	assert.Equal(t, 1, calls)

	// unregistering twice is a no-op
	c.UnregisterStatusCallback("collector")
}

func TestTerminalJobIgnoresLateReports(t *testing.T) {
	c := newTestController()
	c.job = &Job{JobID: "ab12cd34", Status: JobCompleted, ProgressPercent: 100}

	// a stale RUNNING report after completion must not revive the job
	c.handleReport(runningReport(50))
	job := c.CurrentJob()
	assert.Equal(t, JobCompleted, job.Status)
	assert.Equal(t, 100.0, job.ProgressPercent)
	assert.Nil(t, job.StartedAt)

	c.job = &Job{JobID: "ab12cd34", Status: JobFailed, ErrorMessage: "Print error code: 7"}
	c.handleReport(map[string]interface{}{
		"print": map[string]interface{}{"gcode_state": "FINISH"},
	})
	job = c.CurrentJob()
	assert.Equal(t, JobFailed, job.Status)
	assert.Equal(t, "Print error code: 7", job.ErrorMessage)

	// the status cache itself still follows the reports
	require.NotNil(t, c.CurrentStatus())
	assert.Equal(t, StateFinished, c.CurrentStatus().State)
}

func TestTerminalJobRejectsControl(t *testing.T) {
	c := newTestController()
	c.job = &Job{JobID: "ab12cd34", Status: JobCompleted, ProgressPercent: 100}

	err := c.Pause()
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))

	err = c.Stop()
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))

	job := c.CurrentJob()
	assert.Equal(t, JobCompleted, job.Status)
	assert.Nil(t, job.CompletedAt)
}

func TestSubmitValidation(t *testing.T) {
	c := newTestController()

	_, err := c.Submit("/no/such/file.3mf", DefaultSubmitOptions())
	require.Error(t, err)
	assert.True(t, commonerrors.IsNotFound(err))

	stl := filepath.Join(t.TempDir(), "part.stl")
	require.NoError(t, os.WriteFile(stl, []byte("solid"), 0o644))
	_, err = c.Submit(stl, DefaultSubmitOptions())
	require.Error(t, err)
	assert.Equal(t, commonerrors.UnsupportedFile, commonerrors.GetErrorCode(err))
}

func TestPauseResumeStopRequireJob(t *testing.T) {
	c := newTestController()

	err := c.Pause()
	require.Error(t, err)
	assert.True(t, commonerrors.IsNotFound(err))

	err = c.Resume()
	require.Error(t, err)
	assert.True(t, commonerrors.IsNotFound(err))

	err = c.Stop()
	require.Error(t, err)
	assert.True(t, commonerrors.IsNotFound(err))
}

func TestResumeRequiresPausedJob(t *testing.T) {
	c := newTestController()
	c.job = &Job{JobID: "ab12cd34", Status: JobPrinting}

	err := c.Resume()
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))
}

func TestControlValidation(t *testing.T) {
	c := newTestController()

	err := c.SetSpeedLevel(0)
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))

	err = c.SetSpeedLevel(5)
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))

	err = c.SetFanSpeed(150)
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))

	// valid values reach the session, which is not connected
	err = c.SetSpeedLevel(2)
	require.Error(t, err)
	assert.Equal(t, commonerrors.PrinterNotConnected, commonerrors.GetErrorCode(err))
}

func TestJobSummary(t *testing.T) {
	c := newTestController()
	assert.Empty(t, c.JobSummary())

	c.job = &Job{FileName: "tube_squeezer.3mf", Status: JobPrinting, ProgressPercent: 42.5}
	c.status = &Status{Progress: Progress{TimeRemainingMinutes: 85}}

	summary := c.JobSummary()
	assert.Contains(t, summary, "Job: tube_squeezer.3mf")
	assert.Contains(t, summary, "Status: PRINTING")
	assert.Contains(t, summary, "Progress: 42.5%")
	assert.Contains(t, summary, "~85 min")
}

func TestSessionTopics(t *testing.T) {
	s := NewSession("printer.local", "code", "01ABCDEF", 0)
	assert.Equal(t, "device/01ABCDEF/report", s.ReportTopic())
	assert.Equal(t, "device/01ABCDEF/request", s.RequestTopic())
	assert.False(t, s.IsConnected())
}

func TestSessionReportDispatch(t *testing.T) {
	s := NewSession("printer.local", "code", "SERIAL", 0)

	received := make(chan map[string]interface{}, 4)
	s.RegisterCallback("collector", func(report map[string]interface{}) {
		received <- report
	})

	s.deliver(map[string]interface{}{"print": map[string]interface{}{"mc_percent": 10.0}})
	select {
	case report := <-received:
		assert.NotNil(t, report["print"])
	case <-time.After(2 * time.Second):
		t.Fatal("report was not dispatched")
	}
	assert.NotNil(t, s.LastReport())
}

func TestSessionSlowSubscriberDoesNotStallOthers(t *testing.T) {
	s := NewSession("printer.local", "code", "SERIAL", 0)

	// this subscriber blocks forever on its first report
	block := make(chan struct{})
	defer close(block)
	s.RegisterCallback("stuck", func(report map[string]interface{}) {
		<-block
	})

	received := make(chan map[string]interface{}, 4)
	s.RegisterCallback("collector", func(report map[string]interface{}) {
		received <- report
	})

	for i := 0; i < 3; i++ {
		s.deliver(map[string]interface{}{"seq": i})
	}
	for i := 0; i < 3; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatalf("report %d never reached the healthy subscriber", i)
		}
	}
}

func TestSessionUnregisterStopsDispatch(t *testing.T) {
	s := NewSession("printer.local", "code", "SERIAL", 0)

	var mu sync.Mutex
	calls := 0
	s.RegisterCallback("collector", func(report map[string]interface{}) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	s.deliver(map[string]interface{}{"n": 1})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, 2*time.Second, 10*time.Millisecond)

	s.UnregisterCallback("collector")
	s.deliver(map[string]interface{}{"n": 2})
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestSendCommandNotConnected(t *testing.T) {
	s := NewSession("printer.local", "code", "SERIAL", 0)
	err := s.SendCommand("print", "pause", nil)
	require.Error(t, err)
	assert.Equal(t, commonerrors.PrinterNotConnected, commonerrors.GetErrorCode(err))
}

func TestConnectRequiresCredentials(t *testing.T) {
	s := NewSession("", "", "SERIAL", 0)
	err := s.Connect(0)
	require.Error(t, err)
	assert.Equal(t, commonerrors.BadRequest, commonerrors.GetErrorCode(err))
}
