package oci

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

type Config struct {
	Logger *slog.Logger `json:"-"`

	// API signing identity
	Tenancy     string `json:"tenancy"`
	User        string `json:"user"`
	Fingerprint string `json:"fingerprint"`
	Region      string `json:"region"`
	// KeyFile is the path to the PEM private key of the API signing key.
	KeyFile    string `json:"key-file"`
	Passphrase string `json:"-"`

	// Instance placement and shape
	CompartmentID string  `json:"compartment-id"`
	Shape         string  `json:"shape"`
	OCPUs         float32 `json:"ocpus"`
	MemoryGB      float32 `json:"memory-gb"`

	// Exactly one of ImageID and BootVolumeID selects the instance source.
	ImageID          string `json:"image-id"`
	BootVolumeID     string `json:"boot-volume-id"`
	BootVolumeSizeGB int64  `json:"boot-volume-size-gb"`

	SubnetID       string `json:"subnet-id"`
	AssignPublicIP bool   `json:"assign-public-ip"`
	DisplayName    string `json:"display-name"`

	// SSHAuthorizedKeys is the authorized_keys content for the instance, or
	// "file:<path>" to read it from disk.
	SSHAuthorizedKeys string `json:"-"`
}

const (
	minBootVolumeGB  = 47
	armMaxOCPUs      = 4
	armMemoryPerOCPU = 6
	armMaxMemoryGB   = 24
)

func isArmShape(shape string) bool {
	return strings.Contains(shape, ".A1.")
}

func isFlexShape(shape string) bool {
	return strings.Contains(shape, "Flex")
}

func Validate(config Config) error {
	for _, required := range []struct{ name, value string }{
		{"tenancy", config.Tenancy},
		{"user", config.User},
		{"fingerprint", config.Fingerprint},
		{"region", config.Region},
		{"key-file", config.KeyFile},
		{"compartment-id", config.CompartmentID},
		{"shape", config.Shape},
		{"subnet-id", config.SubnetID},
	} {
		if required.value == "" {
			return fmt.Errorf("%s is required", required.name)
		}
	}
	if (config.ImageID == "") == (config.BootVolumeID == "") {
		return errors.New("exactly one of image-id or boot-volume-id must be set")
	}
	if isFlexShape(config.Shape) && !isArmShape(config.Shape) && (config.OCPUs <= 0 || config.MemoryGB <= 0) {
		return errors.New("ocpus and memory-gb are required for flex shapes")
	}
	return nil
}

// normalize applies provider minimums and the always-free A1 limits. Values
// outside those bounds are adjusted rather than rejected, with a warning.
func normalize(config Config, log *slog.Logger) Config {
	if config.DisplayName == "" {
		config.DisplayName = "caphound"
	}
	if config.BootVolumeID == "" {
		if config.BootVolumeSizeGB == 0 {
			config.BootVolumeSizeGB = minBootVolumeGB
		} else if config.BootVolumeSizeGB < minBootVolumeGB {
			log.Warn("boot volume size raised to the provider minimum", "requested", config.BootVolumeSizeGB, "minimum", minBootVolumeGB)
			config.BootVolumeSizeGB = minBootVolumeGB
		}
	}
	if isArmShape(config.Shape) {
		if config.OCPUs == 0 {
			config.OCPUs = armMaxOCPUs
		} else if config.OCPUs > armMaxOCPUs {
			log.Warn("ocpus clamped to the always-free maximum", "requested", config.OCPUs, "maximum", armMaxOCPUs)
			config.OCPUs = armMaxOCPUs
		}
		if config.MemoryGB == 0 {
			config.MemoryGB = config.OCPUs * armMemoryPerOCPU
		} else if config.MemoryGB > armMaxMemoryGB {
			log.Warn("memory clamped to the always-free maximum", "requested", config.MemoryGB, "maximum", armMaxMemoryGB)
			config.MemoryGB = armMaxMemoryGB
		}
	}
	return config
}
