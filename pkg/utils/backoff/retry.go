/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package backoff

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Permanent marks err as non-retryable; Retry returns it immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

func Retry(f backoff.Operation, maxElapsedTime, maxInterval time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsedTime
	b.MaxInterval = maxInterval
	if err := backoff.Retry(f, b); err != nil {
		return err
	}
	return nil
}

// FixedRetry calls f up to count times with a fixed interval between
// attempts, stopping on the first success.
func FixedRetry(f backoff.Operation, count int, interval time.Duration) error {
	var err error
	for i := 0; i < count; i++ {
		err = f()
		if err == nil {
			return nil
		}
		if i < count-1 {
			time.Sleep(interval)
		}
	}
	return err
}
