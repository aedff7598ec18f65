/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package camera

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"

	commonerrors "github.com/hunter-stradley/vibe-print/pkg/errors"
	"github.com/hunter-stradley/vibe-print/pkg/utils/channel"
	"github.com/hunter-stradley/vibe-print/pkg/utils/concurrent"
)

const (
	DefaultPort = 322

	captureTimeout = 30 * time.Second
)

// Session captures frames from one printer camera. The stream delivers
// roughly one frame per second, so captures are single-flight: a
// capture started while another is in progress fails fast with a
// CameraCaptureBusy error instead of queueing.
type Session struct {
	host       string
	accessCode string
	port       int
	transport  Transport

	capturing int32
	frameNum  int64

	mu        sync.Mutex
	lastFrame *CapturedFrame
	stream    *channel.Tomb

	buffer *FrameBuffer
}

func NewSession(host, accessCode string, port int, transport Transport) *Session {
	if port <= 0 {
		port = DefaultPort
	}
	if transport == nil {
		transport = NewFFmpegTransport()
	}
	return &Session{
		host:       host,
		accessCode: accessCode,
		port:       port,
		transport:  transport,
		buffer:     NewFrameBuffer(defaultBufferFrames),
	}
}

// Endpoint is the printer's RTSPS camera URL.
func (s *Session) Endpoint() string {
	return fmt.Sprintf("rtsps://bblp:%s@%s:%d/streaming/live/1", s.accessCode, s.host, s.port)
}

// IsAvailable reports whether the camera can be reached, with a
// human-readable explanation.
func (s *Session) IsAvailable() (bool, string) {
	if s.host == "" || s.accessCode == "" {
		return false, "Printer IP and access code required for camera access"
	}
	if t, ok := s.transport.(*FFmpegTransport); ok && !t.Available() {
		return false, "ffmpeg not found. Install ffmpeg to enable camera capture"
	}
	return true, "Camera stream should be available"
}

// CaptureFrame grabs one frame from the stream.
func (s *Session) CaptureFrame(ctx context.Context) (*CapturedFrame, error) {
	if s.host == "" || s.accessCode == "" {
		return nil, commonerrors.NewCameraNotOpen("printer IP and access code are not configured")
	}
	if !atomic.CompareAndSwapInt32(&s.capturing, 0, 1) {
		return nil, commonerrors.NewCameraCaptureBusy("a capture is already in progress")
	}
	defer atomic.StoreInt32(&s.capturing, 0)

	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()

	data, err := s.transport.Grab(ctx, s.Endpoint())
	if err != nil {
		klog.ErrorS(err, "camera capture failed", "host", s.host)
		return nil, commonerrors.NewCameraNotOpen(fmt.Sprintf("capture failed: %v", err))
	}

	w, h := frameDimensions(data)
	frame := &CapturedFrame{
		Data:      data,
		Timestamp: time.Now().UTC(),
		Width:     w,
		Height:    h,
		Number:    int(atomic.AddInt64(&s.frameNum, 1)),
	}

	s.mu.Lock()
	s.lastFrame = frame
	s.mu.Unlock()
	s.buffer.Add(frame)
	return frame, nil
}

// CaptureFrames grabs count frames, sleeping interval between grabs.
// Failed grabs are skipped rather than aborting the series.
func (s *Session) CaptureFrames(ctx context.Context, count int, interval time.Duration) ([]*CapturedFrame, error) {
	if count <= 0 {
		count = 5
	}
	if interval <= 0 {
		interval = time.Second
	}
	frames := make([]*CapturedFrame, 0, count)
	for i := 0; i < count; i++ {
		frame, err := s.CaptureFrame(ctx)
		if err != nil {
			klog.V(2).Infof("frame %d/%d capture failed: %v", i+1, count, err)
		} else {
			frames = append(frames, frame)
		}
		if i < count-1 {
			select {
			case <-ctx.Done():
				return frames, ctx.Err()
			case <-time.After(interval):
			}
		}
	}
	return frames, nil
}

// CaptureToFile captures count frames and writes them under outputPath.
// A single frame may target a file directly; otherwise outputPath is
// treated as a directory.
func (s *Session) CaptureToFile(ctx context.Context, outputPath string, count int) ([]string, error) {
	if count <= 0 {
		count = 1
	}
	ext := strings.ToLower(filepath.Ext(outputPath))
	isImagePath := ext == ".jpg" || ext == ".jpeg" || ext == ".png"

	if count == 1 && isImagePath {
		frame, err := s.CaptureFrame(ctx)
		if err != nil {
			return nil, err
		}
		if err := frame.Save(outputPath); err != nil {
			return nil, commonerrors.NewInternalError(fmt.Sprintf("failed to save frame: %v", err))
		}
		return []string{outputPath}, nil
	}

	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return nil, commonerrors.NewInternalError(fmt.Sprintf("failed to create output dir: %v", err))
	}
	frames, err := s.CaptureFrames(ctx, count, time.Second)
	if err != nil && len(frames) == 0 {
		return nil, err
	}
	// writes are independent, save the series concurrently
	saved := make([]string, len(frames))
	concurrent.ForEach(len(frames), func(i int) error {
		path := filepath.Join(outputPath, fmt.Sprintf("frame_%04d.jpg", frames[i].Number))
		if err := frames[i].Save(path); err != nil {
			klog.ErrorS(err, "failed to save frame", "path", path)
			return err
		}
		saved[i] = path
		return nil
	})
	paths := make([]string, 0, len(saved))
	for _, path := range saved {
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// StartStream launches a background loop that keeps the rolling buffer
// fed, one capture per interval. Capture failures are logged and the
// loop keeps going.
func (s *Session) StartStream(interval time.Duration) error {
	if s.host == "" || s.accessCode == "" {
		return commonerrors.NewCameraNotOpen("printer IP and access code are not configured")
	}
	if interval <= 0 {
		interval = time.Second
	}
	s.mu.Lock()
	if s.stream != nil {
		s.mu.Unlock()
		return commonerrors.NewBadRequest("camera stream is already running")
	}
	tomb := channel.NewTomb()
	s.stream = tomb
	s.mu.Unlock()

	go s.streamLoop(tomb, interval)
	klog.Infof("camera stream started, interval %s", interval)
	return nil
}

func (s *Session) streamLoop(tomb *channel.Tomb, interval time.Duration) {
	defer tomb.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-tomb.Stopping():
			return
		case <-ticker.C:
			if _, err := s.CaptureFrame(context.Background()); err != nil {
				klog.V(2).Infof("stream capture skipped: %v", err)
			}
		}
	}
}

// StopStream halts the capture loop and waits for it to exit. Safe to
// call when no stream is running.
func (s *Session) StopStream() {
	s.mu.Lock()
	tomb := s.stream
	s.stream = nil
	s.mu.Unlock()
	if tomb == nil {
		return
	}
	tomb.Stop()
	klog.Info("camera stream stopped")
}

// Streaming reports whether the capture loop is active.
func (s *Session) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

// LastFrame returns the most recently captured frame, or nil.
func (s *Session) LastFrame() *CapturedFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFrame
}

// Buffer exposes the rolling buffer of recent frames.
func (s *Session) Buffer() *FrameBuffer {
	return s.buffer
}
