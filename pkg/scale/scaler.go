/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package scale computes scale factors and dimensions for reprinting
// models at a different size.
package scale

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
)

// Dimensions is a bounding box in millimeters.
type Dimensions struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// Scaled returns the box multiplied per axis.
func (d Dimensions) Scaled(sx, sy, sz float64) Dimensions {
	return Dimensions{
		Width:  round2(d.Width * sx),
		Depth:  round2(d.Depth * sy),
		Height: round2(d.Height * sz),
	}
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%.1f×%.1f×%.1f mm", d.Width, d.Depth, d.Height)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Result describes one scaling operation.
type Result struct {
	OriginalPath       string     `json:"original_path"`
	ScaledPath         string     `json:"scaled_path"`
	ScaleFactor        float64    `json:"scale_factor"`
	ScalePercentage    float64    `json:"scale_percentage"`
	UniformScale       bool       `json:"uniform_scale"`
	OriginalDimensions Dimensions `json:"original_dimensions_mm"`
	ScaledDimensions   Dimensions `json:"scaled_dimensions_mm"`
	AdjustmentsMade    []string   `json:"adjustments_made"`
}

// TubeSqueezerFactor is the uniform factor that adapts a squeezer
// designed for one tube diameter to another.
func TubeSqueezerFactor(originalTubeDiameterMM, targetTubeDiameterMM float64) (float64, error) {
	if originalTubeDiameterMM <= 0 || targetTubeDiameterMM <= 0 {
		return 0, commonerrors.NewBadRequest("tube diameters must be positive")
	}
	return targetTubeDiameterMM / originalTubeDiameterMM, nil
}

// TubeSqueezerFactorFromSlot sizes the factor so the slot clears the
// target tube. The slot should end up slightly larger than the tube.
func TubeSqueezerFactorFromSlot(originalSlotWidthMM, targetTubeDiameterMM, clearanceMM float64) (float64, error) {
	if originalSlotWidthMM <= 0 || targetTubeDiameterMM <= 0 {
		return 0, commonerrors.NewBadRequest("slot width and tube diameter must be positive")
	}
	if clearanceMM <= 0 {
		clearanceMM = 1.0
	}
	return (targetTubeDiameterMM + clearanceMM) / originalSlotWidthMM, nil
}

// StructuralAdjustments returns advisory notes for a scale factor.
func StructuralAdjustments(factor float64) []string {
	var notes []string
	if factor > 1.5 {
		notes = append(notes,
			"Recommend increasing wall thickness in slicer by 20% for structural integrity")
	}
	if factor > 2.0 {
		notes = append(notes,
			"Large scale-up: verify the scaled model still fits the build plate")
	}
	if factor < 0.5 && factor > 0 {
		notes = append(notes,
			"Heavy scale-down: thin features may fall below printable size")
	}
	return notes
}

// MeshTransformer performs the actual mesh I/O. Mesh manipulation is
// an external concern; the stock transformer copies the file and lets
// the slicer apply the factor at slice time.
type MeshTransformer interface {
	Dimensions(path string) (Dimensions, error)
	Scale(inputPath, outputPath string, sx, sy, sz float64) error
}

// Scaler plans scaling operations and writes scaled outputs.
type Scaler struct {
	outputDir   string
	transformer MeshTransformer
}

func NewScaler(outputDir string, transformer MeshTransformer) (*Scaler, error) {
	if outputDir == "" {
		outputDir = filepath.Join(os.TempDir(), "vibe-print", "scaled")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, commonerrors.NewInternalError(fmt.Sprintf("failed to create output dir: %v", err))
	}
	if transformer == nil {
		transformer = &CopyTransformer{}
	}
	return &Scaler{outputDir: outputDir, transformer: transformer}, nil
}

// ScaleUniform applies one factor to all axes.
func (s *Scaler) ScaleUniform(inputPath string, factor float64, outputName string) (*Result, error) {
	if factor <= 0 {
		return nil, commonerrors.NewBadRequest("scale factor must be positive")
	}
	if outputName == "" {
		ext := filepath.Ext(inputPath)
		stem := strings.TrimSuffix(filepath.Base(inputPath), ext)
		outputName = fmt.Sprintf("%s_scaled_%.2f%s", stem, factor, ext)
	}
	return s.scale(inputPath, filepath.Join(s.outputDir, outputName), factor, factor, factor)
}

// ScaleToDimension scales to target dimensions. With
// maintainAspectRatio the smallest specified per-axis factor is applied
// uniformly so the model fits within all targets.
func (s *Scaler) ScaleToDimension(inputPath string, targetWidth, targetDepth, targetHeight float64, maintainAspectRatio bool, outputName string) (*Result, error) {
	current, err := s.transformer.Dimensions(inputPath)
	if err != nil {
		return nil, err
	}
	sx, sy, sz := 1.0, 1.0, 1.0
	var specified []float64
	if targetWidth > 0 {
		sx = targetWidth / current.Width
		specified = append(specified, sx)
	}
	if targetDepth > 0 {
		sy = targetDepth / current.Depth
		specified = append(specified, sy)
	}
	if targetHeight > 0 {
		sz = targetHeight / current.Height
		specified = append(specified, sz)
	}
	if maintainAspectRatio && len(specified) > 0 {
		uniform := specified[0]
		for _, f := range specified[1:] {
			uniform = math.Min(uniform, f)
		}
		sx, sy, sz = uniform, uniform, uniform
	}
	if outputName == "" {
		ext := filepath.Ext(inputPath)
		stem := strings.TrimSuffix(filepath.Base(inputPath), ext)
		outputName = fmt.Sprintf("%s_scaled%s", stem, ext)
	}
	return s.scale(inputPath, filepath.Join(s.outputDir, outputName), sx, sy, sz)
}

// ScaleForTubeSqueezer adapts a tube squeezer to a new tube or bottle
// diameter, the toothpaste-to-lotion-bottle case.
func (s *Scaler) ScaleForTubeSqueezer(inputPath string, originalTubeDiameterMM, targetTubeDiameterMM float64, outputName string) (*Result, error) {
	factor, err := TubeSqueezerFactor(originalTubeDiameterMM, targetTubeDiameterMM)
	if err != nil {
		return nil, err
	}
	if outputName == "" {
		ext := filepath.Ext(inputPath)
		stem := strings.TrimSuffix(filepath.Base(inputPath), ext)
		outputName = fmt.Sprintf("%s_%.0fmm%s", stem, targetTubeDiameterMM, ext)
	}
	result, err := s.scale(inputPath, filepath.Join(s.outputDir, outputName), factor, factor, factor)
	if err != nil {
		return nil, err
	}
	result.AdjustmentsMade = append(result.AdjustmentsMade, StructuralAdjustments(factor)...)
	result.AdjustmentsMade = append(result.AdjustmentsMade,
		fmt.Sprintf("Scaled from %gmm to %gmm tube diameter", originalTubeDiameterMM, targetTubeDiameterMM))
	return result, nil
}

func (s *Scaler) scale(inputPath, outputPath string, sx, sy, sz float64) (*Result, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return nil, commonerrors.NewNotFoundWithMessage(fmt.Sprintf("Input file not found: %s", inputPath))
	}
	orig, err := s.transformer.Dimensions(inputPath)
	if err != nil {
		return nil, err
	}
	if err := s.transformer.Scale(inputPath, outputPath, sx, sy, sz); err != nil {
		klog.ErrorS(err, "mesh scale failed", "input", inputPath)
		return nil, err
	}

	uniform := sx == sy && sy == sz
	factor := sx
	if !uniform {
		factor = (sx + sy + sz) / 3
	}
	return &Result{
		OriginalPath:       inputPath,
		ScaledPath:         outputPath,
		ScaleFactor:        math.Round(factor*10000) / 10000,
		ScalePercentage:    math.Round(factor*1000) / 10,
		UniformScale:       uniform,
		OriginalDimensions: orig,
		ScaledDimensions:   orig.Scaled(sx, sy, sz),
		AdjustmentsMade:    []string{},
	}, nil
}

var dimensionRe = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(mm|millimeters?|cm|in|inch|inches|")?\s*$`)

// ParseDimension converts a dimension string like "65mm", "6.5 cm" or
// "2.5 inches" to millimeters. A bare number is taken as millimeters.
func ParseDimension(s string) (float64, error) {
	m := dimensionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, commonerrors.NewBadRequest(fmt.Sprintf("cannot parse dimension %q", s))
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, commonerrors.NewBadRequest(fmt.Sprintf("cannot parse dimension %q", s))
	}
	switch strings.ToLower(m[2]) {
	case "", "mm", "millimeter", "millimeters":
		return value, nil
	case "cm":
		return value * 10, nil
	default:
		return value * 25.4, nil
	}
}
