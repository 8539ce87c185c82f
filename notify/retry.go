package notify

import "time"

// retry calls fn up to maxAttempts times with exponential backoff
// (100ms, 200ms, 400ms, ...). Returns the last error if all attempts fail.
func retry[T any](maxAttempts int, fn func() (T, error)) (result T, err error) {
	for i := range maxAttempts {
		if result, err = fn(); err == nil {
			return result, nil
		}
		if i < maxAttempts-1 {
			time.Sleep(time.Duration(100*(1<<i)) * time.Millisecond)
		}
	}
	return result, err
}
