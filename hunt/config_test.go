package hunt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateZonesRequired(t *testing.T) {
	err := Validate(Config{})
	assert.EqualError(t, err, "at least one zone is required")
}

func TestValidateZonesMustNotBeBlank(t *testing.T) {
	err := Validate(Config{Zones: []string{"AD-1", "  "}})
	assert.EqualError(t, err, "zones must not contain blank entries")
}

func TestValidateMinIntervalMustBePositive(t *testing.T) {
	err := Validate(Config{Zones: []string{"AD-1"}})
	assert.EqualError(t, err, "min-interval must be greater than 0")
}

func TestValidateMaxIntervalMustCoverMin(t *testing.T) {
	err := Validate(Config{
		Zones:       []string{"AD-1"},
		MinInterval: 2 * time.Second,
		MaxInterval: time.Second,
	})
	assert.EqualError(t, err, "max-interval must not be less than min-interval")
}

func TestValidateBackoffFactorMustExceedOne(t *testing.T) {
	err := Validate(Config{
		Zones:         []string{"AD-1"},
		MinInterval:   time.Second,
		MaxInterval:   time.Minute,
		BackoffFactor: 1,
	})
	assert.EqualError(t, err, "backoff-factor must be greater than 1")
}

func TestValidateMaxConsecutiveErrorsMustBePositive(t *testing.T) {
	err := Validate(Config{
		Zones:         []string{"AD-1"},
		MinInterval:   time.Second,
		MaxInterval:   time.Minute,
		BackoffFactor: 1.5,
	})
	assert.EqualError(t, err, "max-consecutive-errors must be greater than 0")
}

func TestValidateUpdateIntervalMustBePositive(t *testing.T) {
	err := Validate(Config{
		Zones:                []string{"AD-1"},
		MinInterval:          time.Second,
		MaxInterval:          time.Minute,
		BackoffFactor:        1.5,
		MaxConsecutiveErrors: 10,
	})
	assert.EqualError(t, err, "update-interval must be greater than 0")
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, Validate(newTestConfig()))
}
