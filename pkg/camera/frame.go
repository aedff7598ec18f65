/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

// Package camera captures frames from the printer's RTSPS camera feed.
package camera

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"
)

// CapturedFrame is one encoded camera frame with metadata.
type CapturedFrame struct {
	Data      []byte    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Number    int       `json:"frame_number"`
}

// Save writes the encoded frame to path.
func (f *CapturedFrame) Save(path string) error {
	return os.WriteFile(path, f.Data, 0o644)
}

// ToBase64 returns the frame encoded for embedding in JSON responses.
func (f *CapturedFrame) ToBase64() string {
	return base64.StdEncoding.EncodeToString(f.Data)
}

// Decode decodes the frame into an image for analysis.
func (f *CapturedFrame) Decode() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(f.Data))
	return img, err
}

func frameDimensions(data []byte) (w, h int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
