package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/caphound/caphound/server/flags"
	"github.com/spf13/viper"
)

// requiredOCIKeys are startup-fatal when missing; retrying cannot conjure
// credentials.
var requiredOCIKeys = []string{
	"oci.tenancy",
	"oci.user",
	"oci.fingerprint",
	"oci.region",
	"oci.key-file",
	"oci.compartment-id",
	"oci.shape",
	"oci.subnet-id",
}

// loadConfig reads the optional configuration file into viper and fails fast
// on anything the process could not run without. Flags and environment
// variables override file values.
func loadConfig() error {
	if path := viper.GetString(flags.Config); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		viper.SetConfigName("caphound")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/caphound")
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config file: %w", err)
			}
			// No config file is fine, flags and env cover everything.
		}
	}

	setDefaults()
	return validateConfig()
}

func setDefaults() {
	viper.SetDefault("hunt.initial-interval", time.Second)
	viper.SetDefault("hunt.min-interval", time.Second)
	viper.SetDefault("hunt.max-interval", time.Minute)
	viper.SetDefault("hunt.backoff-factor", 1.5)
	viper.SetDefault("hunt.max-consecutive-errors", 10)
	viper.SetDefault("hunt.update-interval", 10)
	viper.SetDefault("sim.succeed-after", 30)
	viper.SetDefault("oci.assign-public-ip", true)
	viper.SetDefault("api.enabled", true)
}

func validateConfig() error {
	if _, err := parseZones(); err != nil {
		return err
	}

	switch launcher := viper.GetString(flags.Launcher); launcher {
	case "sim":
	case "oci":
		for _, key := range requiredOCIKeys {
			if viper.GetString(key) == "" {
				return fmt.Errorf("%s is required", key)
			}
		}
	default:
		return fmt.Errorf("unknown launcher '%s'", launcher)
	}
	return nil
}

func parseZones() ([]string, error) {
	return zonesFromValue(viper.Get("zones"))
}

// zonesFromValue accepts a native list from the config file or a JSON array
// in a string, which is how an environment variable delivers it.
func zonesFromValue(value any) ([]string, error) {
	switch value := value.(type) {
	case nil:
		return nil, errors.New("zones is required")
	case []string:
		return value, nil
	case []any:
		zones := make([]string, 0, len(value))
		for _, item := range value {
			zone, ok := item.(string)
			if !ok {
				return nil, errors.New("zones must be a list of strings")
			}
			zones = append(zones, zone)
		}
		return zones, nil
	case string:
		var zones []string
		if err := json.Unmarshal([]byte(value), &zones); err != nil {
			return nil, errors.New("zones is not a valid JSON list")
		}
		return zones, nil
	default:
		return nil, errors.New("zones must be a list of strings")
	}
}

// safeConfig is the configuration subset exposed over the API. Credentials
// and tokens never appear here.
func safeConfig() map[string]any {
	zones, _ := parseZones()
	config := map[string]any{
		"launcher":   viper.GetString(flags.Launcher),
		"auto-start": viper.GetBool(flags.AutoStart),
		"zones":      zones,
		"hunt": map[string]any{
			"initial-interval":       viper.GetDuration("hunt.initial-interval").String(),
			"min-interval":           viper.GetDuration("hunt.min-interval").String(),
			"max-interval":           viper.GetDuration("hunt.max-interval").String(),
			"backoff-factor":         viper.GetFloat64("hunt.backoff-factor"),
			"max-consecutive-errors": viper.GetInt("hunt.max-consecutive-errors"),
			"update-interval":        viper.GetInt("hunt.update-interval"),
		},
		"telegram": map[string]any{
			"configured": viper.GetString("telegram.token") != "",
		},
	}
	if viper.GetString(flags.Launcher) == "oci" {
		config["oci"] = map[string]any{
			"region":              viper.GetString("oci.region"),
			"shape":               viper.GetString("oci.shape"),
			"ocpus":               viper.GetFloat64("oci.ocpus"),
			"memory-gb":           viper.GetFloat64("oci.memory-gb"),
			"display-name":        viper.GetString("oci.display-name"),
			"boot-volume-size-gb": viper.GetInt64("oci.boot-volume-size-gb"),
		}
	}
	return config
}
