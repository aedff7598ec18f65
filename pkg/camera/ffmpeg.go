/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package camera

import (
	"context"
	"os/exec"

	"github.com/pkg/errors"
)

// Transport grabs one encoded frame from a stream endpoint.
type Transport interface {
	Grab(ctx context.Context, endpoint string) ([]byte, error)
}

// FFmpegTransport pulls single frames with the ffmpeg binary. The
// printer serves RTSPS with a self-signed certificate, which ffmpeg
// accepts over TCP transport.
type FFmpegTransport struct {
	Executable string
}

func NewFFmpegTransport() *FFmpegTransport {
	return &FFmpegTransport{Executable: "ffmpeg"}
}

func (t *FFmpegTransport) Grab(ctx context.Context, endpoint string) ([]byte, error) {
	exe := t.Executable
	if exe == "" {
		exe = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, exe,
		"-rtsp_transport", "tcp",
		"-i", endpoint,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-y",
		"pipe:1",
	)
	data, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, errors.Errorf("ffmpeg capture failed: %s", string(exitErr.Stderr))
		}
		return nil, errors.Wrap(err, "ffmpeg capture failed")
	}
	if len(data) == 0 {
		return nil, errors.New("ffmpeg produced no frame data")
	}
	return data, nil
}

// Available reports whether the ffmpeg binary can be found.
func (t *FFmpegTransport) Available() bool {
	exe := t.Executable
	if exe == "" {
		exe = "ffmpeg"
	}
	_, err := exec.LookPath(exe)
	return err == nil
}
