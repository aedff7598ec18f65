/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package channel

// IsChannelClosed reports whether ch has been closed without blocking.
func IsChannelClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
