/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package camera

import (
	"sync"
)

const defaultBufferFrames = 30

// FrameBuffer is a rolling buffer of recent frames, oldest dropped
// first. Safe for concurrent use.
type FrameBuffer struct {
	mu        sync.Mutex
	maxFrames int
	frames    []*CapturedFrame
}

func NewFrameBuffer(maxFrames int) *FrameBuffer {
	if maxFrames <= 0 {
		maxFrames = defaultBufferFrames
	}
	return &FrameBuffer{maxFrames: maxFrames}
}

func (b *FrameBuffer) Add(frame *CapturedFrame) {
	if frame == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, frame)
	if len(b.frames) > b.maxFrames {
		b.frames = b.frames[1:]
	}
}

// Recent returns up to count of the newest frames, oldest first.
func (b *FrameBuffer) Recent(count int) []*CapturedFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	if count <= 0 || count > len(b.frames) {
		count = len(b.frames)
	}
	out := make([]*CapturedFrame, count)
	copy(out, b.frames[len(b.frames)-count:])
	return out
}

func (b *FrameBuffer) All() []*CapturedFrame {
	return b.Recent(0)
}

func (b *FrameBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = nil
}

func (b *FrameBuffer) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}
