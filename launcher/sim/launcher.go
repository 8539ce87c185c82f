package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/caphound/caphound/hunt"
)

// Launcher fakes the provider API for development and demos: attempts fail
// with configurable provider errors until a chosen attempt succeeds. No
// cloud account required.
type Launcher struct {
	log    *slog.Logger
	config Config

	mu       sync.Mutex
	attempts int
}

// Launcher implements hunt.Launcher
var _ hunt.Launcher = (*Launcher)(nil)

func NewLauncher(config Config) *Launcher {
	if config.ErrorCode == "" {
		config.ErrorCode = "OutOfHostCapacity"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Launcher{log: config.Logger, config: config}
}

func (l *Launcher) Launch(ctx context.Context, zone string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.Lock()
	l.attempts++
	attempt := l.attempts
	l.mu.Unlock()

	if l.config.SucceedAfter > 0 && attempt >= l.config.SucceedAfter {
		id := fmt.Sprintf("ocid1.instance.sim.%06d", attempt)
		l.log.Debug("simulated launch succeeded", "zone", zone, "attempt", attempt, "id", id)
		return id, nil
	}

	if l.config.RateLimitEvery > 0 && attempt%l.config.RateLimitEvery == 0 {
		return "", &hunt.LaunchError{Code: "TooManyRequests", Message: "simulated rate limit", Status: 429}
	}
	return "", &hunt.LaunchError{Code: l.config.ErrorCode, Message: failureMessage(l.config.ErrorCode, zone), Status: 500}
}

// failureMessage mimics the provider's wording for capacity errors so the
// classifier sees the same text it would in production, marker included.
func failureMessage(code, zone string) string {
	switch code {
	case "OutOfHostCapacity", "OutOfBareMetalCapacity", "OutOfCapacity", "InternalError":
		return fmt.Sprintf("Out of host capacity in %s.", zone)
	default:
		return fmt.Sprintf("simulated %s in %s", code, zone)
	}
}
