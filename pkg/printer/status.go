/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package printer talks to the printer over its LAN MQTT interface.
package printer

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Printer operational states.
type State string

const (
	StateIdle      State = "idle"
	StatePrinting  State = "printing"
	StatePaused    State = "paused"
	StateFinished  State = "finished"
	StateFailed    State = "failed"
	StatePreparing State = "preparing"
	StateSlicing   State = "slicing"
	StateUnknown   State = "unknown"
)

// G-code execution states as reported by the printer.
type GcodeState string

const (
	GcodeIdle    GcodeState = "IDLE"
	GcodeRunning GcodeState = "RUNNING"
	GcodePause   GcodeState = "PAUSE"
	GcodeFinish  GcodeState = "FINISH"
	GcodeFailed  GcodeState = "FAILED"
	GcodeUnknown GcodeState = "UNKNOWN"
)

var gcodeToState = map[GcodeState]State{
	GcodeIdle:    StateIdle,
	GcodeRunning: StatePrinting,
	GcodePause:   StatePaused,
	GcodeFinish:  StateFinished,
	GcodeFailed:  StateFailed,
}

// TemperatureReading is one sensor's current and target temperature.
type TemperatureReading struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

// AtTarget reports whether the reading is within 2 degrees of target.
func (t TemperatureReading) AtTarget() bool {
	return math.Abs(t.Current-t.Target) <= 2.0
}

// Progress is the current print progress.
type Progress struct {
	Percentage           float64    `json:"percentage"`
	LayerCurrent         int        `json:"layer_current"`
	LayerTotal           int        `json:"layer_total"`
	TimeElapsedMinutes   int        `json:"time_elapsed_minutes"`
	TimeRemainingMinutes int        `json:"time_remaining_minutes"`
	GcodeState           GcodeState `json:"state"`
}

func (p Progress) IsPrinting() bool {
	return p.GcodeState == GcodeRunning
}

func (p Progress) IsFinished() bool {
	return p.GcodeState == GcodeFinish
}

// Status is a parsed printer status report.
type Status struct {
	Connected  bool      `json:"connected"`
	LastUpdate time.Time `json:"last_update"`

	State      State      `json:"state"`
	GcodeState GcodeState `json:"gcode_state"`

	NozzleTemp  *TemperatureReading `json:"nozzle_temp,omitempty"`
	BedTemp     *TemperatureReading `json:"bed_temp,omitempty"`
	ChamberTemp *float64            `json:"chamber_temp,omitempty"`

	Progress Progress `json:"progress"`

	GcodeFile   string `json:"gcode_file,omitempty"`
	SubtaskName string `json:"subtask_name,omitempty"`
	PrintType   string `json:"print_type,omitempty"`

	FanSpeedPercent int `json:"fan_speed_percent"`
	SpeedLevel      int `json:"speed_level"`
	WifiSignal      int `json:"wifi_signal"`

	PrintError    int `json:"print_error"`
	HwSwitchState int `json:"hw_switch_state"`

	RawReport map[string]interface{} `json:"-"`
}

func (s *Status) HasError() bool {
	return s.PrintError != 0
}

// StatusFromReport parses a raw MQTT status report. The printer only
// includes fields that changed, so every field is optional.
func StatusFromReport(report map[string]interface{}) *Status {
	status := &Status{
		Connected:  true,
		LastUpdate: time.Now().UTC(),
		State:      StateUnknown,
		GcodeState: GcodeUnknown,
		SpeedLevel: 1,
		RawReport:  report,
	}

	printData, _ := report["print"].(map[string]interface{})
	if printData == nil {
		return status
	}

	gcodeState := GcodeState(strField(printData, "gcode_state", string(GcodeUnknown)))
	switch gcodeState {
	case GcodeIdle, GcodeRunning, GcodePause, GcodeFinish, GcodeFailed:
		status.GcodeState = gcodeState
	}
	if mapped, ok := gcodeToState[status.GcodeState]; ok {
		status.State = mapped
	}

	if current, ok := numField(printData, "nozzle_temper"); ok {
		if target, ok := numField(printData, "nozzle_target_temper"); ok {
			status.NozzleTemp = &TemperatureReading{Current: current, Target: target}
		}
	}
	if current, ok := numField(printData, "bed_temper"); ok {
		if target, ok := numField(printData, "bed_target_temper"); ok {
			status.BedTemp = &TemperatureReading{Current: current, Target: target}
		}
	}
	if chamber, ok := numField(printData, "chamber_temper"); ok {
		status.ChamberTemp = &chamber
	}

	status.Progress = Progress{
		Percentage:           numFieldOr(printData, "mc_percent", 0),
		LayerCurrent:         intField(printData, "layer_num", 0),
		LayerTotal:           intField(printData, "total_layer_num", 0),
		TimeElapsedMinutes:   intField(printData, "mc_print_time", 0) / 60,
		TimeRemainingMinutes: intField(printData, "mc_remaining_time", 0),
		GcodeState:           status.GcodeState,
	}

	status.GcodeFile = strField(printData, "gcode_file", "")
	status.SubtaskName = strField(printData, "subtask_name", "")
	status.PrintType = strField(printData, "print_type", "")

	status.FanSpeedPercent = intField(printData, "cooling_fan_speed", 0)
	status.SpeedLevel = intField(printData, "spd_lvl", 1)
	status.WifiSignal = intField(printData, "wifi_signal", 0)

	status.PrintError = intField(printData, "print_error", 0)
	status.HwSwitchState = intField(printData, "hw_switch_state", 0)
	return status
}

// Summary renders a human-readable status description.
func (s *Status) Summary() string {
	lines := []string{fmt.Sprintf("Printer State: %s", strings.ToUpper(string(s.State)))}
	if s.NozzleTemp != nil {
		lines = append(lines, fmt.Sprintf("Nozzle: %.0f°C / %.0f°C", s.NozzleTemp.Current, s.NozzleTemp.Target))
	}
	if s.BedTemp != nil {
		lines = append(lines, fmt.Sprintf("Bed: %.0f°C / %.0f°C", s.BedTemp.Current, s.BedTemp.Target))
	}
	if s.State == StatePrinting {
		lines = append(lines,
			fmt.Sprintf("Progress: %.1f%%", s.Progress.Percentage),
			fmt.Sprintf("Layer: %d/%d", s.Progress.LayerCurrent, s.Progress.LayerTotal),
			fmt.Sprintf("Time remaining: ~%d min", s.Progress.TimeRemainingMinutes))
	}
	if s.SubtaskName != "" {
		lines = append(lines, fmt.Sprintf("Job: %s", s.SubtaskName))
	}
	if s.PrintError != 0 {
		lines = append(lines, fmt.Sprintf("Error code: %d", s.PrintError))
	}
	return strings.Join(lines, "\n")
}

func numField(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func numFieldOr(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := numField(m, key); ok {
		return v
	}
	return def
}

func intField(m map[string]interface{}, key string, def int) int {
	if v, ok := numField(m, key); ok {
		return int(v)
	}
	return def
}

func strField(m map[string]interface{}, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}
