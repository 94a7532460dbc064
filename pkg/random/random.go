package random

import (
	"math/rand"
	"time"
)

// Jitter applies ±percent randomization to a duration.
// Example: Jitter(time.Second, 20) returns a value in range [800ms, 1200ms]
func Jitter(d time.Duration, percent float64) time.Duration {
	if percent <= 0 || d <= 0 {
		return d
	}
	if percent > 100 {
		percent = 100
	}

	// Calculate variance
	variance := float64(d) * (percent / 100.0)

	// Generate random offset in range [-variance, +variance]
	offset := (rand.Float64()*2 - 1) * variance

	return d + time.Duration(offset)
}

// Backoff returns the jittered linear delay before the given retry attempt (1-based)
func Backoff(base time.Duration, attempt int, percent float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return Jitter(base*time.Duration(attempt), percent)
}
