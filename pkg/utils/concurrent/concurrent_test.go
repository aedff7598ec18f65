/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package concurrent

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEach(t *testing.T) {
	values := make([]int, 8)
	succeeded, err := ForEach(len(values), func(i int) error {
		values[i] = i * i
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 8, succeeded)
	assert.Equal(t, 49, values[7])
}

func TestForEachPartialFailure(t *testing.T) {
	sentinel := errors.New("odd index")
	succeeded, err := ForEach(6, func(i int) error {
		if i%2 == 1 {
			return sentinel
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, sentinel, err)
	assert.Equal(t, 3, succeeded)
}

func TestForEachEmpty(t *testing.T) {
	var calls int64
	succeeded, err := ForEach(0, func(i int) error {
		atomic.AddInt64(&calls, 1)
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, succeeded)
	assert.Zero(t, atomic.LoadInt64(&calls))

	succeeded, err = ForEach(3, nil)
	require.NoError(t, err)
	assert.Zero(t, succeeded)
}
