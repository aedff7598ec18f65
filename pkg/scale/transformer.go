/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package scale

import (
	"fmt"
	"io"
	"os"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
)

// CopyTransformer copies the mesh unchanged and leaves the geometric
// transform to the slicer, which accepts a scale factor at slice time.
// Dimensions must be supplied up front (from the model catalog or a
// prior analysis); the transformer has no mesh parser of its own.
type CopyTransformer struct {
	KnownDimensions map[string]Dimensions
}

func (t *CopyTransformer) Dimensions(path string) (Dimensions, error) {
	if dims, ok := t.KnownDimensions[path]; ok {
		return dims, nil
	}
	return Dimensions{}, commonerrors.NewBadRequest(
		fmt.Sprintf("dimensions for %s are not known; provide them when registering the model", path))
}

func (t *CopyTransformer) Scale(inputPath, outputPath string, sx, sy, sz float64) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return commonerrors.NewInternalError(fmt.Sprintf("failed to open model: %v", err))
	}
	defer in.Close()
	out, err := os.Create(outputPath)
	if err != nil {
		return commonerrors.NewInternalError(fmt.Sprintf("failed to create output: %v", err))
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return commonerrors.NewInternalError(fmt.Sprintf("failed to copy model: %v", err))
	}
	return nil
}

// FixedDimensionTransformer wraps another transformer with a single
// known bounding box, for models measured out of band.
type FixedDimensionTransformer struct {
	Dims  Dimensions
	Inner MeshTransformer
}

func (t *FixedDimensionTransformer) Dimensions(string) (Dimensions, error) {
	return t.Dims, nil
}

func (t *FixedDimensionTransformer) Scale(inputPath, outputPath string, sx, sy, sz float64) error {
	if t.Inner != nil {
		return t.Inner.Scale(inputPath, outputPath, sx, sy, sz)
	}
	return (&CopyTransformer{}).Scale(inputPath, outputPath, sx, sy, sz)
}
