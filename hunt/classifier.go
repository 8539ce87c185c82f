package hunt

import (
	"errors"
	"log/slog"
	"strings"
)

// Category is the normalized classification of a failed launch attempt.
// Raw provider error codes are collapsed into these buckets; everything
// downstream (pacing, statistics, notifications) works on categories only.
type Category string

const (
	CategoryOutOfCapacity        Category = "OutOfCapacity"
	CategoryDisguisedCapacity    Category = "DisguisedCapacity"
	CategoryInternalError        Category = "InternalError"
	CategoryRateLimited          Category = "RateLimited"
	CategoryQuotaExceeded        Category = "QuotaExceeded"
	CategoryInvalidConfiguration Category = "InvalidConfiguration"
	CategoryOther                Category = "Other"
	CategoryUnexpected           Category = "Unexpected"
)

// capacityMarker is the text OCI embeds in some InternalError responses that
// are really capacity shortages. Matched case-insensitively.
const capacityMarker = "out of host capacity"

// Classify maps a launch error to its category. Provider errors are matched
// on their error code; anything that is not a LaunchError is Unexpected.
func Classify(err error) Category {
	var launchErr *LaunchError
	if !errors.As(err, &launchErr) {
		return CategoryUnexpected
	}

	switch launchErr.Code {
	case "OutOfHostCapacity", "OutOfBareMetalCapacity", "OutOfCapacity":
		return CategoryOutOfCapacity
	case "InternalError":
		if strings.Contains(strings.ToLower(launchErr.Message), capacityMarker) {
			return CategoryDisguisedCapacity
		}
		return CategoryInternalError
	case "TooManyRequests":
		return CategoryRateLimited
	case "LimitExceeded":
		return CategoryQuotaExceeded
	case "InvalidParameter":
		return CategoryInvalidConfiguration
	default:
		return CategoryOther
	}
}

// IsCapacity reports whether the category means "no capacity right now".
// Disguised capacity is kept as a separate statistics key but is otherwise
// handled exactly like plain capacity exhaustion.
func (c Category) IsCapacity() bool {
	return c == CategoryOutOfCapacity || c == CategoryDisguisedCapacity
}

// categoryTraits is the single place deciding how the hunt reacts to each
// category. New categories get a row here, not another branch in the loop.
var categoryTraits = map[Category]traits{
	CategoryOutOfCapacity:        {Level: slog.LevelInfo},
	CategoryDisguisedCapacity:    {Level: slog.LevelInfo},
	CategoryInternalError:        {Level: slog.LevelWarn},
	CategoryRateLimited:          {Level: slog.LevelWarn},
	CategoryQuotaExceeded:        {Level: slog.LevelError, Alert: true},
	CategoryInvalidConfiguration: {Level: slog.LevelError, Alert: true},
	CategoryOther:                {Level: slog.LevelWarn},
	CategoryUnexpected:           {Level: slog.LevelError, Alert: true},
}

type traits struct {
	// Level is the log level for attempts failing with this category.
	Level slog.Level
	// Alert sends an immediate operator notification on top of the log entry.
	Alert bool
}

func (c Category) traits() traits {
	if t, ok := categoryTraits[c]; ok {
		return t
	}
	return traits{Level: slog.LevelWarn}
}
