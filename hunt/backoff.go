package hunt

import "time"

// recoveryDivisor shrinks the wait after anything other than rate limiting.
// Recovery is deliberately slower than escalation so one quiet stretch does
// not immediately hammer the API again.
const recoveryDivisor = 1.2

// Backoff holds the adaptive retry interval of a hunt. Rate limiting
// escalates the interval multiplicatively, every other outcome decays it
// back toward the minimum. The interval never leaves [min, max].
//
// Not safe for concurrent use; owned by a single Hunter.
type Backoff struct {
	wait   float64 // seconds
	min    float64
	max    float64
	factor float64
}

func NewBackoff(config Config) *Backoff {
	b := &Backoff{
		wait:   config.InitialInterval.Seconds(),
		min:    config.MinInterval.Seconds(),
		max:    config.MaxInterval.Seconds(),
		factor: config.BackoffFactor,
	}
	b.wait = b.clamp(b.wait)
	return b
}

// Adjust moves the interval according to the most recent failure category.
func (b *Backoff) Adjust(c Category) {
	if c == CategoryRateLimited {
		b.wait *= b.factor
	} else {
		b.wait /= recoveryDivisor
	}
	b.wait = b.clamp(b.wait)
}

// Seconds returns the current interval for reporting.
func (b *Backoff) Seconds() float64 { return b.wait }

// Delay returns the current interval as a sleepable duration.
func (b *Backoff) Delay() time.Duration {
	return time.Duration(b.wait * float64(time.Second))
}

func (b *Backoff) clamp(v float64) float64 {
	return max(b.min, min(v, b.max))
}
