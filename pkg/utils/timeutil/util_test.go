/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRFC3339(t *testing.T) {
	assert.Equal(t, "", FormatRFC3339(nil))

	var zero time.Time
	assert.Equal(t, "", FormatRFC3339(&zero))

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "2026-03-14T09:26:53", FormatRFC3339(&ts))
}

func TestParseRFC3339(t *testing.T) {
	ts, err := ParseRFC3339("")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	ts, err = ParseRFC3339("2026-03-14T09:26:53")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, time.March, ts.Month())
	assert.Equal(t, 53, ts.Second())

	_, err = ParseRFC3339("not a time")
	assert.Error(t, err)
}

func TestCvtMilliSecToTime(t *testing.T) {
	ts := CvtMilliSecToTime(1500)
	assert.Equal(t, int64(1), ts.Unix())
	assert.Equal(t, 500000000, ts.Nanosecond())
	assert.Equal(t, time.UTC, ts.Location())
}
