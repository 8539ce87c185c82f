package oci

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/caphound/caphound/hunt"
	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
)

// Launcher requests instances from the OCI compute API. Each Launch call is
// a single LaunchInstance request; retrying is the hunt's business, so the
// SDK's own retry machinery stays off.
type Launcher struct {
	log    *slog.Logger
	config Config
	client core.ComputeClient

	sshKeys string
}

// Launcher implements hunt.Launcher
var _ hunt.Launcher = (*Launcher)(nil)

func NewLauncher(config Config) (*Launcher, error) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	config = normalize(config, config.Logger)
	if err := Validate(config); err != nil {
		return nil, err
	}

	key, err := os.ReadFile(config.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read API signing key: %w", err)
	}
	var passphrase *string
	if config.Passphrase != "" {
		passphrase = common.String(config.Passphrase)
	}

	provider := common.NewRawConfigurationProvider(
		config.Tenancy, config.User, config.Region, config.Fingerprint, string(key), passphrase)
	client, err := core.NewComputeClientWithConfigurationProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}

	sshKeys, err := resolveSSHKeys(config.SSHAuthorizedKeys)
	if err != nil {
		return nil, err
	}

	return &Launcher{
		log:     config.Logger,
		config:  config,
		client:  client,
		sshKeys: sshKeys,
	}, nil
}

func (l *Launcher) Launch(ctx context.Context, zone string) (string, error) {
	l.log.Debug("Requesting instance", "zone", zone, "shape", l.config.Shape)

	details := core.LaunchInstanceDetails{
		AvailabilityDomain: common.String(zone),
		CompartmentId:      common.String(l.config.CompartmentID),
		Shape:              common.String(l.config.Shape),
		DisplayName:        common.String(l.config.DisplayName),
		SourceDetails:      l.sourceDetails(),
		CreateVnicDetails: &core.CreateVnicDetails{
			SubnetId:       common.String(l.config.SubnetID),
			AssignPublicIp: common.Bool(l.config.AssignPublicIP),
		},
	}
	if l.config.OCPUs > 0 {
		details.ShapeConfig = &core.LaunchInstanceShapeConfigDetails{
			Ocpus:       common.Float32(l.config.OCPUs),
			MemoryInGBs: common.Float32(l.config.MemoryGB),
		}
	}
	if l.sshKeys != "" {
		details.Metadata = map[string]string{"ssh_authorized_keys": l.sshKeys}
	}

	response, err := l.client.LaunchInstance(ctx, core.LaunchInstanceRequest{LaunchInstanceDetails: details})
	if err != nil {
		if serviceErr, ok := common.IsServiceError(err); ok {
			return "", &hunt.LaunchError{
				Code:    serviceErr.GetCode(),
				Message: serviceErr.GetMessage(),
				Status:  serviceErr.GetHTTPStatusCode(),
			}
		}
		return "", fmt.Errorf("launch request failed: %w", err)
	}
	return *response.Instance.Id, nil
}

func (l *Launcher) sourceDetails() core.InstanceSourceDetails {
	if l.config.BootVolumeID != "" {
		return core.InstanceSourceViaBootVolumeDetails{
			BootVolumeId: common.String(l.config.BootVolumeID),
		}
	}
	return core.InstanceSourceViaImageDetails{
		ImageId:             common.String(l.config.ImageID),
		BootVolumeSizeInGBs: common.Int64(l.config.BootVolumeSizeGB),
	}
}
