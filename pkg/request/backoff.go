package request

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialDelay returns the backoff delay for a rate-limited attempt:
// base doubled per attempt, jittered by ±20% so that concurrent workers do
// not retry in lockstep, capped at max.
func ExponentialDelay(base, max time.Duration, attempt int) time.Duration {
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if delay > max {
		delay = max
	}

	// ±20% jitter
	jitter := 0.8 + rand.Float64()*0.4
	return time.Duration(float64(delay) * jitter)
}

// linearDelay returns the backoff delay for a transient failure: base scaled
// by the attempt number.
func linearDelay(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(attempt+1)
}
