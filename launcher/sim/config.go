package sim

import "log/slog"

type Config struct {
	// Logger to use
	Logger *slog.Logger
	// SucceedAfter is the attempt number from which launches succeed.
	// 0 means the simulator never hands out an instance.
	SucceedAfter int
	// RateLimitEvery makes every Nth attempt fail with TooManyRequests.
	// 0 disables simulated rate limiting.
	RateLimitEvery int
	// ErrorCode is the provider error code returned by failing attempts.
	// Defaults to OutOfHostCapacity. Set InternalError to exercise the
	// disguised capacity quirk.
	ErrorCode string
}
