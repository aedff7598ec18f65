/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package channel

import (
	"sync"
)

// Tomb controls the lifecycle of one background goroutine. Stop is
// idempotent and blocks until the goroutine has called Done.
type Tomb struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewTomb creates a new tomb.
func NewTomb() *Tomb {
	return &Tomb{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Stop signals the goroutine to exit and waits for it.
func (t *Tomb) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	<-t.done
}

// Stopping is selected on by the goroutine to learn it should exit.
func (t *Tomb) Stopping() <-chan struct{} {
	return t.stop
}

// Done is called by the goroutine once it has fully stopped.
func (t *Tomb) Done() {
	close(t.done)
}

func (t *Tomb) IsStopped() bool {
	return IsChannelClosed(t.stop)
}
