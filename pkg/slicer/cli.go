/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package slicer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"k8s.io/klog/v2"
)

const sliceTimeout = 5 * time.Minute

var (
	timeRegex   = regexp.MustCompile(`(?i)(?:estimated|total)\s*(?:print\s*)?time[:\s]+(\d+)[:\s](\d+)`)
	lengthRegex = regexp.MustCompile(`(?i)filament[:\s]+(\d+\.?\d*)\s*(?:mm|m)`)
	gramsRegex  = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*g(?:rams)?`)
	layerRegex  = regexp.MustCompile(`(?i)(\d+)\s*layers?`)
)

// SliceResult is the outcome of one slicing invocation. Faults are
// reported in-band; estimate fields are nil when the slicer output did
// not carry them.
type SliceResult struct {
	Success      bool   `json:"success"`
	InputModel   string `json:"input_model"`
	Output3MF    string `json:"output_3mf,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	EstimatedTimeSeconds   *float64 `json:"estimated_time_seconds,omitempty"`
	EstimatedFilamentMM    *float64 `json:"estimated_filament_mm,omitempty"`
	EstimatedFilamentGrams *float64 `json:"estimated_filament_grams,omitempty"`
	LayerCount             *int     `json:"layer_count,omitempty"`

	ParametersUsed *Parameters `json:"parameters_used,omitempty"`
	CLIOutput      string      `json:"-"`
}

// SliceOptions control one SliceModel invocation.
type SliceOptions struct {
	OutputName  string
	AutoOrient  bool
	AutoArrange bool
}

// DefaultSliceOptions enables orientation and arrangement.
func DefaultSliceOptions() SliceOptions {
	return SliceOptions{AutoOrient: true, AutoArrange: true}
}

// CLI wraps the external slicer binary.
type CLI struct {
	executable  string
	profilesDir string
	outputDir   string
}

func NewCLI(executable, profilesDir, outputDir string) *CLI {
	return &CLI{
		executable:  executable,
		profilesDir: profilesDir,
		outputDir:   outputDir,
	}
}

// IsAvailable probes the slicer binary with a short bounded run.
func (c *CLI) IsAvailable(ctx context.Context) (bool, string) {
	if c.executable == "" {
		return false, "slicer path not configured"
	}
	if _, err := os.Stat(c.executable); err != nil {
		return false, fmt.Sprintf("slicer not found at %s", c.executable)
	}
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	out, err := exec.CommandContext(probeCtx, c.executable, "--help").CombinedOutput()
	if probeCtx.Err() == context.DeadlineExceeded {
		return false, "slicer CLI timed out"
	}
	if err == nil || strings.Contains(string(out), "Usage:") {
		return true, "slicer CLI is available"
	}
	return false, fmt.Sprintf("slicer returned error: %s", strings.TrimSpace(string(out)))
}

// SliceModel slices a model and exports a 3MF with embedded G-code.
// All faults come back in the result; SliceModel never panics and only
// returns an error for a nil receiver misuse.
func (c *CLI) SliceModel(ctx context.Context, modelPath string, params *Parameters, opts SliceOptions) SliceResult {
	if _, err := os.Stat(modelPath); err != nil {
		return SliceResult{
			Success:      false,
			InputModel:   modelPath,
			ErrorMessage: fmt.Sprintf("Model file not found: %s", modelPath),
		}
	}

	available, message := c.IsAvailable(ctx)
	if !available {
		return SliceResult{
			Success:      false,
			InputModel:   modelPath,
			ErrorMessage: message,
		}
	}

	if params == nil {
		p := DefaultParameters()
		params = &p
	}

	outputName := opts.OutputName
	if outputName == "" {
		outputName = strings.TrimSuffix(filepath.Base(modelPath), filepath.Ext(modelPath))
	}
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return SliceResult{
			Success:      false,
			InputModel:   modelPath,
			ErrorMessage: fmt.Sprintf("cannot create output dir: %v", err),
		}
	}
	output3MF := filepath.Join(c.outputDir, outputName+".3mf")

	var args []string
	if opts.AutoOrient {
		args = append(args, "--orient")
	}
	if opts.AutoArrange {
		args = append(args, "--arrange", "1")
	}
	args = append(args, params.CLIArgs()...)
	// --slice 0 slices all plates
	args = append(args, "--slice", "0")
	args = append(args, "--export-3mf", output3MF)
	// input model must be last
	args = append(args, modelPath)

	runCtx, cancel := context.WithTimeout(ctx, sliceTimeout)
	defer cancel()

	klog.Infof("slicing %s with %s", modelPath, c.executable)
	cmd := exec.CommandContext(runCtx, c.executable, args...)
	cmd.Dir = c.outputDir
	out, err := cmd.CombinedOutput()
	cliOutput := string(out)

	if runCtx.Err() == context.DeadlineExceeded {
		return SliceResult{
			Success:      false,
			InputModel:   modelPath,
			ErrorMessage: "Slicing timed out after 5 minutes",
			CLIOutput:    cliOutput,
		}
	}
	if err != nil {
		return SliceResult{
			Success:      false,
			InputModel:   modelPath,
			ErrorMessage: fmt.Sprintf("Slicing failed: %s", cliOutput),
			CLIOutput:    cliOutput,
		}
	}

	result := SliceResult{
		Success:        true,
		InputModel:     modelPath,
		Output3MF:      output3MF,
		ParametersUsed: params,
		CLIOutput:      cliOutput,
	}
	parseSlicerOutput(cliOutput, &result)

	// a zero exit without the exported file is still a failure
	if _, err := os.Stat(output3MF); err != nil {
		return SliceResult{
			Success:      false,
			InputModel:   modelPath,
			ErrorMessage: "Slicing completed but 3MF file not found",
			CLIOutput:    cliOutput,
		}
	}
	return result
}

// parseSlicerOutput scrapes estimates from the combined slicer output.
// Grams are only trusted when the line also mentions filament; bare
// gram figures elsewhere in the log are ignored.
func parseSlicerOutput(output string, result *SliceResult) {
	if m := timeRegex.FindStringSubmatch(output); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds := float64(hours*3600 + minutes*60)
		result.EstimatedTimeSeconds = &seconds
	}
	if m := lengthRegex.FindStringSubmatch(output); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			result.EstimatedFilamentMM = &v
		}
	}
	for _, line := range strings.Split(output, "\n") {
		lower := strings.ToLower(line)
		idx := strings.Index(lower, "filament")
		if idx < 0 {
			continue
		}
		if m := gramsRegex.FindStringSubmatch(line[idx:]); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				result.EstimatedFilamentGrams = &v
				break
			}
		}
	}
	if m := layerRegex.FindStringSubmatch(output); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			result.LayerCount = &v
		}
	}
}

// ModelValidation reports whether a model file looks sliceable.
type ModelValidation struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

var supportedModelFormats = map[string]bool{
	".stl": true, ".obj": true, ".3mf": true, ".step": true, ".stp": true,
}

// ValidateModel checks format and size without invoking the slicer.
func (c *CLI) ValidateModel(ctx context.Context, modelPath string) ModelValidation {
	info, err := os.Stat(modelPath)
	if err != nil {
		return ModelValidation{Valid: false, Issues: []string{fmt.Sprintf("File not found: %s", modelPath)}}
	}

	var issues []string
	suffix := strings.ToLower(filepath.Ext(modelPath))
	if !supportedModelFormats[suffix] {
		issues = append(issues, fmt.Sprintf("Unsupported file format: %s", suffix))
	}
	sizeMB := float64(info.Size()) / (1024 * 1024)
	if sizeMB > 100 {
		issues = append(issues, fmt.Sprintf("Large file (%.1fMB) may be slow to process", sizeMB))
	}
	if available, message := c.IsAvailable(ctx); !available {
		issues = append(issues, fmt.Sprintf("Cannot validate with slicer: %s", message))
	}
	return ModelValidation{Valid: len(issues) == 0, Issues: issues}
}

// ProfileInfo is one entry from the configured profiles directory.
type ProfileInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// AvailableProfiles lists profile JSON files from the profiles directory.
func (c *CLI) AvailableProfiles() []ProfileInfo {
	var profiles []ProfileInfo
	if c.profilesDir == "" {
		return profiles
	}
	entries, err := filepath.Glob(filepath.Join(c.profilesDir, "*.json"))
	if err != nil {
		return profiles
	}
	for _, path := range entries {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			continue
		}
		profileType := "unknown"
		if t, ok := doc["type"].(string); ok {
			profileType = t
		}
		profiles = append(profiles, ProfileInfo{
			Name: strings.TrimSuffix(filepath.Base(path), ".json"),
			Path: path,
			Type: profileType,
		})
	}
	return profiles
}
