/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Analyzer inspects camera frames for print defects. It keeps the
// previous frame for motion analysis, so a single Analyzer should be
// fed frames from a single camera stream.
type Analyzer struct {
	cfg Config

	mu        sync.Mutex
	prev      *grayPlane
	reference *grayPlane
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// SetReferenceFrame stores a known-good frame, typically captured right
// after the first layers complete.
func (a *Analyzer) SetReferenceFrame(data []byte) error {
	g, err := decodeGray(data)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.reference = g
	a.mu.Unlock()
	return nil
}

// AnalyzeFrame decodes an encoded frame and analyzes it.
func (a *Analyzer) AnalyzeFrame(data []byte) *DetectionResult {
	result := &DetectionResult{
		Timestamp:         time.Now().UTC(),
		Defects:           []Defect{},
		PrintQualityScore: 100,
		AnalysisNotes:     []string{},
	}
	g, err := decodeGray(data)
	if err != nil {
		klog.ErrorS(err, "failed to decode camera frame")
		result.AnalysisNotes = append(result.AnalysisNotes,
			fmt.Sprintf("Frame could not be decoded: %v", err))
		return result
	}
	a.analyze(g, result)
	return result
}

// AnalyzeImage analyzes an already-decoded frame.
func (a *Analyzer) AnalyzeImage(img image.Image) *DetectionResult {
	result := &DetectionResult{
		Timestamp:         time.Now().UTC(),
		Defects:           []Defect{},
		PrintQualityScore: 100,
		AnalysisNotes:     []string{},
	}
	a.analyze(toGray(img), result)
	return result
}

func decodeGray(data []byte) (*grayPlane, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toGray(img), nil
}

func (a *Analyzer) analyze(g *grayPlane, result *DetectionResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	result.FrameAnalyzed = true
	edges := edgeMap(g, a.cfg.EdgeLowThreshold, a.cfg.EdgeHighThreshold)

	if d := a.detectSpaghetti(g, edges); d != nil {
		result.Defects = append(result.Defects, *d)
	}
	if d := a.detectLayerShift(g); d != nil {
		result.Defects = append(result.Defects, *d)
	}
	if d := a.detectStringing(g); d != nil {
		result.Defects = append(result.Defects, *d)
	}
	if d := a.detectWarping(g); d != nil {
		result.Defects = append(result.Defects, *d)
	}
	if d := a.detectBlobs(edges); d != nil {
		result.Defects = append(result.Defects, *d)
	}
	if a.prev != nil {
		a.checkMotion(g, result)
	}
	a.prev = g

	result.PrintQualityScore = scoreFrame(result.Defects)
}

// scoreFrame starts at 100 and subtracts a severity-weighted penalty
// per defect, scaled by confidence. Floors at zero.
func scoreFrame(defects []Defect) float64 {
	score := 100.0
	for _, d := range defects {
		var weight float64
		switch d.Severity {
		case SeverityCritical:
			weight = 40
		case SeverityWarning:
			weight = 20
		default:
			weight = 5
		}
		score -= weight * d.Confidence
	}
	return math.Max(score, 0)
}

// detectSpaghetti looks for many small scattered edge fragments, the
// signature of detached filament piling up.
func (a *Analyzer) detectSpaghetti(g *grayPlane, edges *binaryPlane) *Defect {
	comps := connectedComponents(edges)
	var small []*component
	for _, c := range comps {
		if c.area >= a.cfg.SpaghettiMinContourArea && c.area <= a.cfg.SpaghettiMaxContourArea {
			small = append(small, c)
		}
	}
	if len(small) <= a.cfg.SpaghettiContourCount {
		return nil
	}
	if len(small) < a.cfg.SpaghettiMinCentroids {
		return nil
	}

	// fragments must be spread across the frame, not one noisy corner
	var minX, minY = math.MaxFloat64, math.MaxFloat64
	var maxX, maxY float64
	for _, c := range small {
		cx, cy := c.centroid()
		minX, maxX = math.Min(minX, cx), math.Max(maxX, cx)
		minY, maxY = math.Min(minY, cy), math.Max(maxY, cy)
	}
	if (maxX-minX) <= float64(g.w)*a.cfg.SpaghettiSpreadFraction ||
		(maxY-minY) <= float64(g.h)*a.cfg.SpaghettiSpreadFraction {
		return nil
	}

	return &Defect{
		Type:         DefectSpaghetti,
		Severity:     SeverityCritical,
		Confidence:   math.Min(0.9, float64(len(small))/a.cfg.SpaghettiConfidenceScale),
		Description:  "Possible spaghetti failure - scattered filament detected",
		SuggestedFix: "Pause print immediately and check - likely detachment from bed",
	}
}

// detectLayerShift sums vertical-edge energy per column and flags
// frames where many adjacent columns jump well beyond the average.
func (a *Analyzer) detectLayerShift(g *grayPlane) *Defect {
	gx, _ := sobel(g)
	colSums := make([]float64, g.w)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			colSums[x] += math.Abs(gx[y*g.w+x])
		}
	}
	diffs := make([]float64, 0, g.w-1)
	for x := 1; x < g.w; x++ {
		diffs = append(diffs, math.Abs(colSums[x]-colSums[x-1]))
	}
	mean, stddev := meanStddev(diffs)
	threshold := mean + a.cfg.LayerShiftSigma*stddev
	outliers := 0
	for _, d := range diffs {
		if d > threshold {
			outliers++
		}
	}
	if outliers <= a.cfg.LayerShiftPositions {
		return nil
	}
	return &Defect{
		Type:         DefectLayerShift,
		Severity:     SeverityWarning,
		Confidence:   0.6,
		Description:  "Possible layer shift detected - vertical misalignment",
		SuggestedFix: "Check belt tension and ensure printer is on stable surface",
	}
}

// detectStringing responds to thin near-vertical strands between
// features.
func (a *Analyzer) detectStringing(g *grayPlane) *Defect {
	thin := filterThinLines(g, a.cfg.StringingThreshold)
	n := verticalSegments(thin, a.cfg.StringingMinLineLen, a.cfg.StringingMaxLineGap)
	if n <= a.cfg.StringingLineCount {
		return nil
	}
	return &Defect{
		Type:         DefectStringing,
		Severity:     SeverityInfo,
		Confidence:   math.Min(0.8, float64(n)/a.cfg.StringingScaleDivisor),
		Description:  "Stringing detected - fine filament strands between features",
		SuggestedFix: "Increase retraction distance or lower nozzle temperature",
	}
}

// detectWarping looks at the bottom third of the frame for elongated
// near-horizontal curls where the part meets the bed.
func (a *Analyzer) detectWarping(g *grayPlane) *Defect {
	bottom := g.crop(g.h*2/3, g.h)
	edges := edgeMap(bottom, a.cfg.EdgeLowThreshold, a.cfg.EdgeHighThreshold)
	for _, c := range connectedComponents(edges) {
		if c.area < a.cfg.WarpingMinArea {
			continue
		}
		ratio, angle := c.orientation(edges)
		if ratio > a.cfg.WarpingAxisRatio && angle > 60 && angle < 120 {
			loc := c.bbox()
			loc.Y += g.h * 2 / 3
			return &Defect{
				Type:         DefectWarping,
				Severity:     SeverityWarning,
				Confidence:   0.5,
				Description:  "Possible warping - lifted edges detected at base",
				Location:     &loc,
				SuggestedFix: "Increase bed temperature and use brim/raft",
			}
		}
	}
	return nil
}

// detectBlobs counts small compact round regions on the part surface.
func (a *Analyzer) detectBlobs(edges *binaryPlane) *Defect {
	n := 0
	for _, c := range connectedComponents(edges) {
		if c.area < a.cfg.BlobMinArea || c.area > a.cfg.BlobMaxArea {
			continue
		}
		p := float64(c.perimeter(edges))
		if p == 0 {
			continue
		}
		circularity := 4 * math.Pi * float64(c.area) / (p * p)
		bb := c.bbox()
		solidity := float64(c.area) / float64(bb.Width*bb.Height)
		if circularity >= a.cfg.BlobMinCircularity && solidity >= a.cfg.BlobMinSolidity {
			n++
		}
	}
	if n <= a.cfg.BlobCount {
		return nil
	}
	return &Defect{
		Type:         DefectBlob,
		Severity:     SeverityInfo,
		Confidence:   math.Min(0.7, float64(n)/15),
		Description:  "Blobs or zits detected on surface",
		SuggestedFix: "Adjust retraction settings and seam position",
	}
}

// checkMotion compares against the previous frame. Near-zero change
// suggests a stall; a large sudden change suggests a failure event.
func (a *Analyzer) checkMotion(g *grayPlane, result *DetectionResult) {
	ratio := diffRatio(g, a.prev, a.cfg.MotionDiffThreshold)
	if ratio < a.cfg.MotionStalledRatio {
		result.AnalysisNotes = append(result.AnalysisNotes,
			"Very little motion detected - print may be stalled or complete")
		return
	}
	if ratio > a.cfg.MotionFailureRatio {
		result.Defects = append(result.Defects, Defect{
			Type:         DefectSpaghetti,
			Severity:     SeverityWarning,
			Confidence:   0.5,
			Description:  "Large sudden change in scene - possible print failure or detachment",
			SuggestedFix: "Check printer immediately",
		})
	}
}
