package hunt

import (
	"errors"
	"log/slog"
	"strings"
	"time"
)

type Config struct {
	Logger   *slog.Logger `json:"-"`
	Notifier Notifier     `json:"-"`
	Tracker  *Tracker     `json:"-"`

	// Zones are tried in order, in an endless cycle, until an instance is
	// obtained or the hunt is stopped.
	Zones []string `json:"zones"`

	InitialInterval time.Duration `json:"initial-interval"`
	MinInterval     time.Duration `json:"min-interval"`
	MaxInterval     time.Duration `json:"max-interval"`
	BackoffFactor   float64       `json:"backoff-factor"`

	// MaxConsecutiveErrors triggers the safety valve: after this many failed
	// attempts in a row the interval is force-adjusted and the count reset.
	MaxConsecutiveErrors int `json:"max-consecutive-errors"`

	// UpdateInterval is the number of attempts between periodic status
	// notifications.
	UpdateInterval int `json:"update-interval"`
}

func Validate(config Config) error {
	if len(config.Zones) == 0 {
		return errors.New("at least one zone is required")
	}
	for _, zone := range config.Zones {
		if strings.TrimSpace(zone) == "" {
			return errors.New("zones must not contain blank entries")
		}
	}
	if config.MinInterval <= 0 {
		return errors.New("min-interval must be greater than 0")
	}
	if config.MaxInterval < config.MinInterval {
		return errors.New("max-interval must not be less than min-interval")
	}
	if config.BackoffFactor <= 1 {
		return errors.New("backoff-factor must be greater than 1")
	}
	if config.MaxConsecutiveErrors <= 0 {
		return errors.New("max-consecutive-errors must be greater than 0")
	}
	if config.UpdateInterval <= 0 {
		return errors.New("update-interval must be greater than 0")
	}
	return nil
}
