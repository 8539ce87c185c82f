package oci

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Tenancy:       "ocid1.tenancy.oc1..aaa",
		User:          "ocid1.user.oc1..aaa",
		Fingerprint:   "aa:bb:cc:dd",
		Region:        "eu-zurich-1",
		KeyFile:       "/etc/caphound/api.pem",
		CompartmentID: "ocid1.compartment.oc1..aaa",
		Shape:         "VM.Standard.A1.Flex",
		ImageID:       "ocid1.image.oc1..aaa",
		SubnetID:      "ocid1.subnet.oc1..aaa",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestValidateTenancyRequired(t *testing.T) {
	config := validConfig()
	config.Tenancy = ""
	assert.EqualError(t, Validate(config), "tenancy is required")
}

func TestValidateSubnetRequired(t *testing.T) {
	config := validConfig()
	config.SubnetID = ""
	assert.EqualError(t, Validate(config), "subnet-id is required")
}

func TestValidateExactlyOneSource(t *testing.T) {
	config := validConfig()
	config.BootVolumeID = "ocid1.bootvolume.oc1..aaa"
	assert.EqualError(t, Validate(config), "exactly one of image-id or boot-volume-id must be set")

	config.ImageID = ""
	config.BootVolumeID = ""
	assert.EqualError(t, Validate(config), "exactly one of image-id or boot-volume-id must be set")
}

func TestValidateFlexShapeNeedsExplicitSize(t *testing.T) {
	config := validConfig()
	config.Shape = "VM.Standard.E4.Flex"
	assert.EqualError(t, Validate(config), "ocpus and memory-gb are required for flex shapes")
}

func TestValidateArmFlexSizeIsOptional(t *testing.T) {
	// The A1 shape gets always-free defaults in normalize.
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateAcceptsBootVolumeSource(t *testing.T) {
	config := validConfig()
	config.ImageID = ""
	config.BootVolumeID = "ocid1.bootvolume.oc1..aaa"
	assert.NoError(t, Validate(config))
}

func TestNormalizeDefaultsBootVolumeSize(t *testing.T) {
	config := normalize(validConfig(), testLogger())
	assert.Equal(t, int64(47), config.BootVolumeSizeGB)
}

func TestNormalizeRaisesBootVolumeToMinimum(t *testing.T) {
	config := validConfig()
	config.BootVolumeSizeGB = 30
	config = normalize(config, testLogger())
	assert.Equal(t, int64(47), config.BootVolumeSizeGB)
}

func TestNormalizeSkipsBootVolumeSizeForVolumeSource(t *testing.T) {
	config := validConfig()
	config.ImageID = ""
	config.BootVolumeID = "ocid1.bootvolume.oc1..aaa"
	config = normalize(config, testLogger())
	assert.Equal(t, int64(0), config.BootVolumeSizeGB)
}

func TestNormalizeArmDefaults(t *testing.T) {
	config := normalize(validConfig(), testLogger())
	assert.Equal(t, float32(4), config.OCPUs)
	assert.Equal(t, float32(24), config.MemoryGB)
}

func TestNormalizeArmClampsToAlwaysFreeLimits(t *testing.T) {
	config := validConfig()
	config.OCPUs = 8
	config.MemoryGB = 64
	config = normalize(config, testLogger())
	assert.Equal(t, float32(4), config.OCPUs)
	assert.Equal(t, float32(24), config.MemoryGB)
}

func TestNormalizeLeavesOtherShapesAlone(t *testing.T) {
	config := validConfig()
	config.Shape = "VM.Standard.E4.Flex"
	config.OCPUs = 8
	config.MemoryGB = 64
	config = normalize(config, testLogger())
	assert.Equal(t, float32(8), config.OCPUs)
	assert.Equal(t, float32(64), config.MemoryGB)
}

func TestNormalizeDefaultsDisplayName(t *testing.T) {
	config := normalize(validConfig(), testLogger())
	assert.Equal(t, "caphound", config.DisplayName)
}
