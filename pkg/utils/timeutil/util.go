/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package timeutil

import (
	"time"
)

const (
	TimeRFC3339Short = "2006-01-02T15:04:05"
	TimeRFC3339Milli = "2006-01-02T15:04:05.999Z"
)

func FormatRFC3339(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(TimeRFC3339Short)
}

func ParseRFC3339(timeStr string) (time.Time, error) {
	if timeStr == "" {
		return time.Time{}, nil
	}
	return time.Parse(TimeRFC3339Short, timeStr)
}

func CvtMilliSecToTime(milliseconds int64) time.Time {
	seconds := milliseconds / 1000
	nanoseconds := (milliseconds % 1000) * 1000000
	return time.Unix(seconds, nanoseconds).UTC()
}
