package hunt

import (
	"context"
	"fmt"
)

// Launcher submits a single instance launch request to a cloud provider.
// Implementations live in launcher/oci and launcher/sim.
type Launcher interface {
	// Launch requests one instance in the given zone and returns the
	// provider's instance id. A provider-side rejection is returned as a
	// *LaunchError; any other error is treated as unexpected.
	Launch(ctx context.Context, zone string) (string, error)
}

// LaunchError is an error returned by the provider API, carrying the
// provider's own error code so it can be classified.
type LaunchError struct {
	Code    string
	Message string
	Status  int
}

func (e *LaunchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Code, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
