/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package printer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
)

// Job states.
const (
	JobPending   = "pending"
	JobPrinting  = "printing"
	JobPaused    = "paused"
	JobCompleted = "completed"
	JobFailed    = "failed"
	JobCancelled = "cancelled"
)

// Job tracks one submitted print.
type Job struct {
	JobID           string     `json:"job_id"`
	FilePath        string     `json:"-"`
	FileName        string     `json:"file_name"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Status          string     `json:"status"`
	ProgressPercent float64    `json:"progress_percent"`
	ErrorMessage    string     `json:"error_message,omitempty"`
}

// IsTerminal reports whether the job reached a final state. Terminal
// jobs never transition again, even when stale reports arrive late.
func (j *Job) IsTerminal() bool {
	switch j.Status {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	}
	return false
}

// SubmitOptions are the calibration and AMS knobs of a print job.
type SubmitOptions struct {
	UseAMS               bool
	AMSMapping           []int
	BedLeveling          bool
	FlowCalibration      bool
	VibrationCalibration bool
	LayerInspect         bool
	Timelapse            bool
}

// DefaultSubmitOptions enables the standard pre-print calibrations.
func DefaultSubmitOptions() SubmitOptions {
	return SubmitOptions{
		BedLeveling:          true,
		FlowCalibration:      true,
		VibrationCalibration: true,
	}
}

// StatusCallback receives each parsed status update.
type StatusCallback func(status *Status)

// Controller is the high-level print interface over one MQTT session.
type Controller struct {
	session *Session

	mu              sync.Mutex
	status          *Status
	job             *Job
	statusCallbacks map[string]StatusCallback
}

func NewController(session *Session) *Controller {
	return &Controller{
		session:         session,
		statusCallbacks: map[string]StatusCallback{},
	}
}

func (c *Controller) IsConnected() bool {
	return c.session.IsConnected()
}

// Connect establishes the MQTT link and primes the cached status.
func (c *Controller) Connect(timeout time.Duration) error {
	c.session.RegisterCallback("status_update", c.handleReport)
	if err := c.session.Connect(timeout); err != nil {
		return err
	}
	if _, err := c.RefreshStatus(); err != nil {
		klog.V(2).Infof("initial status refresh failed: %v", err)
	}
	return nil
}

func (c *Controller) Disconnect() {
	c.session.UnregisterCallback("status_update")
	c.session.Disconnect()
}

func (c *Controller) handleReport(report map[string]interface{}) {
	status := StatusFromReport(report)

	c.mu.Lock()
	c.status = status
	job := c.job
	if job != nil && !job.IsTerminal() {
		switch status.State {
		case StatePrinting:
			job.ProgressPercent = status.Progress.Percentage
			job.Status = JobPrinting
			if job.StartedAt == nil {
				now := time.Now().UTC()
				job.StartedAt = &now
			}
		case StateFinished:
			job.Status = JobCompleted
			job.ProgressPercent = 100
			if job.CompletedAt == nil {
				now := time.Now().UTC()
				job.CompletedAt = &now
			}
		case StateFailed:
			job.Status = JobFailed
			job.ErrorMessage = fmt.Sprintf("Print error code: %d", status.PrintError)
		}
	}
	callbacks := make([]StatusCallback, 0, len(c.statusCallbacks))
	for _, cb := range c.statusCallbacks {
		callbacks = append(callbacks, cb)
	}
	c.mu.Unlock()

	for _, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					klog.Errorf("status callback panicked: %v", r)
				}
			}()
			cb(status)
		}()
	}
}

// RegisterStatusCallback adds a named callback invoked on every parsed
// status update, replacing any previous callback with the same name.
func (c *Controller) RegisterStatusCallback(name string, cb StatusCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusCallbacks[name] = cb
}

// UnregisterStatusCallback removes a named callback.
func (c *Controller) UnregisterStatusCallback(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.statusCallbacks, name)
}

// CurrentStatus returns the last parsed status, or nil before the
// first report.
func (c *Controller) CurrentStatus() *Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// CurrentJob returns the tracked job, or nil.
func (c *Controller) CurrentJob() *Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job
}

// RefreshStatus requests a full status push from the printer.
func (c *Controller) RefreshStatus() (*Status, error) {
	report, err := c.session.GetStatus()
	if err != nil {
		return nil, err
	}
	if report == nil {
		return c.CurrentStatus(), nil
	}
	status := StatusFromReport(report)
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
	return status, nil
}

// Submit sends a sliced 3MF to the printer for printing. The file must
// already be reachable by the printer; in LAN mode it is fetched over
// the printer's own FTP service.
func (c *Controller) Submit(filePath string, opts SubmitOptions) (*Job, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, commonerrors.NewNotFoundWithMessage(fmt.Sprintf("Print file not found: %s", filePath))
	}
	if strings.ToLower(filepath.Ext(filePath)) != ".3mf" {
		return nil, commonerrors.NewUnsupportedFile("Only 3MF files with embedded G-code are supported")
	}

	fileName := filepath.Base(filePath)
	job := &Job{
		JobID:       uuid.NewString()[:8],
		FilePath:    filePath,
		FileName:    fileName,
		SubmittedAt: time.Now().UTC(),
		Status:      JobPending,
	}

	amsMapping := opts.AMSMapping
	if len(amsMapping) == 0 {
		amsMapping = []int{0}
	}
	err := c.session.SendCommand("print", "project_file", map[string]interface{}{
		"param":          "Metadata/plate_1.gcode",
		"url":            fmt.Sprintf("ftp://%s/%s", c.session.Host(), fileName),
		"subtask_name":   strings.TrimSuffix(fileName, filepath.Ext(fileName)),
		"bed_leveling":   opts.BedLeveling,
		"flow_cali":      opts.FlowCalibration,
		"vibration_cali": opts.VibrationCalibration,
		"layer_inspect":  opts.LayerInspect,
		"timelapse":      opts.Timelapse,
		"use_ams":        opts.UseAMS,
		"ams_mapping":    amsMapping,
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.job = job
	c.mu.Unlock()
	klog.Infof("submitted print job %s (%s)", job.JobID, fileName)
	return job, nil
}

// Pause pauses the current print.
func (c *Controller) Pause() error {
	c.mu.Lock()
	job := c.job
	c.mu.Unlock()
	if job == nil {
		return commonerrors.NewNotFound("job", "current")
	}
	if job.IsTerminal() {
		return commonerrors.NewBadRequest(fmt.Sprintf("job is already %s", job.Status))
	}
	if err := c.session.SendCommand("print", "pause", nil); err != nil {
		return err
	}
	c.mu.Lock()
	job.Status = JobPaused
	c.mu.Unlock()
	return nil
}

// Resume resumes a paused print.
func (c *Controller) Resume() error {
	c.mu.Lock()
	job := c.job
	c.mu.Unlock()
	if job == nil {
		return commonerrors.NewNotFound("job", "current")
	}
	if job.Status != JobPaused {
		return commonerrors.NewBadRequest("no paused job to resume")
	}
	if err := c.session.SendCommand("print", "resume", nil); err != nil {
		return err
	}
	c.mu.Lock()
	job.Status = JobPrinting
	c.mu.Unlock()
	return nil
}

// Stop cancels the current print.
func (c *Controller) Stop() error {
	c.mu.Lock()
	job := c.job
	c.mu.Unlock()
	if job == nil {
		return commonerrors.NewNotFound("job", "current")
	}
	if job.IsTerminal() {
		return commonerrors.NewBadRequest(fmt.Sprintf("job is already %s", job.Status))
	}
	if err := c.session.SendCommand("print", "stop", nil); err != nil {
		return err
	}
	now := time.Now().UTC()
	c.mu.Lock()
	job.Status = JobCancelled
	job.CompletedAt = &now
	c.mu.Unlock()
	return nil
}

// SetSpeedLevel sets the print speed: 1=Silent, 2=Standard, 3=Sport,
// 4=Ludicrous.
func (c *Controller) SetSpeedLevel(level int) error {
	if level < 1 || level > 4 {
		return commonerrors.NewBadRequest("speed level must be 1-4")
	}
	return c.session.SendCommand("print", "print_speed", map[string]interface{}{
		"param": fmt.Sprintf("%d", level),
	})
}

// SetFanSpeed sets the part cooling fan, 0-100 percent.
func (c *Controller) SetFanSpeed(percent int) error {
	if percent < 0 || percent > 100 {
		return commonerrors.NewBadRequest("fan speed must be 0-100")
	}
	// fan takes 0-255
	return c.SendGcode(fmt.Sprintf("M106 P1 S%d", int(float64(percent)*2.55)))
}

// SendGcode sends one raw G-code line.
func (c *Controller) SendGcode(gcode string) error {
	return c.session.SendCommand("print", "gcode_line", map[string]interface{}{
		"param": gcode,
	})
}

// HomeAxes homes all axes.
func (c *Controller) HomeAxes() error {
	return c.SendGcode("G28")
}

// SetNozzleTemp sets the nozzle target temperature.
func (c *Controller) SetNozzleTemp(temp int) error {
	return c.SendGcode(fmt.Sprintf("M104 S%d", temp))
}

// SetBedTemp sets the bed target temperature.
func (c *Controller) SetBedTemp(temp int) error {
	return c.SendGcode(fmt.Sprintf("M140 S%d", temp))
}

// JobSummary renders the tracked job, or empty when there is none.
func (c *Controller) JobSummary() string {
	c.mu.Lock()
	job := c.job
	status := c.status
	c.mu.Unlock()
	if job == nil {
		return ""
	}
	lines := []string{
		fmt.Sprintf("Job: %s", job.FileName),
		fmt.Sprintf("Status: %s", strings.ToUpper(job.Status)),
		fmt.Sprintf("Progress: %.1f%%", job.ProgressPercent),
	}
	if status != nil && status.Progress.TimeRemainingMinutes > 0 {
		lines = append(lines, fmt.Sprintf("Time remaining: ~%d min", status.Progress.TimeRemainingMinutes))
	}
	return strings.Join(lines, "\n")
}
