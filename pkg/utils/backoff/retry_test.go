/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package backoff

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedRetrySucceedsEventually(t *testing.T) {
	attempts := 0
	err := FixedRetry(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestFixedRetryExhausted(t *testing.T) {
	attempts := 0
	sentinel := errors.New("always fails")
	err := FixedRetry(func() error {
		attempts++
		return sentinel
	}, 3, time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, sentinel, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryStopsOnPermanent(t *testing.T) {
	attempts := 0
	sentinel := errors.New("bad credentials")
	err := Retry(func() error {
		attempts++
		return Permanent(sentinel)
	}, 2*time.Second, 100*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, sentinel, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryTransientFailures(t *testing.T) {
	attempts := 0
	err := Retry(func() error {
		attempts++
		return errors.New("transient")
	}, time.Second, 300*time.Millisecond)
	require.Error(t, err)
	assert.GreaterOrEqual(t, attempts, 2)
}
