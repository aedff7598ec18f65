/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package concurrent

import (
	"sync"
)

// ForEach runs fn(0..count-1) concurrently and waits for all calls. It
// returns the number of calls that succeeded and the first error
// observed, if any.
func ForEach(count int, fn func(i int) error) (int, error) {
	if count <= 0 || fn == nil {
		return 0, nil
	}
	var wg sync.WaitGroup
	wg.Add(count)
	errCh := make(chan error, count)

	for i := 0; i < count; i++ {
		go func(i int) {
			defer wg.Done()
			if err := fn(i); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	failures := len(errCh)
	if failures > 0 {
		return count - failures, <-errCh
	}
	return count, nil
}
