package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/caphound/caphound/hunt"
	"github.com/caphound/caphound/launcher/oci"
	"github.com/caphound/caphound/launcher/sim"
	"github.com/caphound/caphound/notify"
	"github.com/caphound/caphound/server/flags"
	"github.com/caphound/caphound/server/log"
	"github.com/samber/lo"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/viper"
)

var controller *hunt.Controller
var tracker *hunt.Tracker

// createController assembles the hunt controller from the configuration:
// launcher, tracker, notifier and the hunt settings themselves. Hunt logs are
// fanned out to both the process log and the tracker's ring so the API serves
// recent activity without touching the log files.
func createController() error {
	launcher, err := createLauncher()
	if err != nil {
		return fmt.Errorf("unable to create launcher '%s': %w", viper.GetString(flags.Launcher), err)
	}

	tracker = hunt.NewTracker()
	huntLog := slog.New(slogmulti.Fanout(
		log.Base.Handler(),
		tracker.Ring().Handler(slog.LevelInfo),
	))

	zones, err := parseZones()
	if err != nil {
		return err
	}

	config := hunt.Config{
		Logger:               huntLog.With("component", "hunt"),
		Notifier:             createNotifier(huntLog.With("component", "notify")),
		Tracker:              tracker,
		Zones:                zones,
		InitialInterval:      viper.GetDuration("hunt.initial-interval"),
		MinInterval:          viper.GetDuration("hunt.min-interval"),
		MaxInterval:          viper.GetDuration("hunt.max-interval"),
		BackoffFactor:        viper.GetFloat64("hunt.backoff-factor"),
		MaxConsecutiveErrors: viper.GetInt("hunt.max-consecutive-errors"),
		UpdateInterval:       viper.GetInt("hunt.update-interval"),
	}
	if err := hunt.Validate(config); err != nil {
		return fmt.Errorf("invalid hunt configuration: %w", err)
	}

	controller = hunt.NewController(launcher, config)
	return nil
}

func createLauncher() (hunt.Launcher, error) {
	logger := log.Base.With("component", "launcher")

	switch l := viper.GetString(flags.Launcher); l {
	case "sim":
		config := sim.Config{
			Logger:         logger,
			SucceedAfter:   viper.GetInt("sim.succeed-after"),
			RateLimitEvery: viper.GetInt("sim.rate-limit-every"),
			ErrorCode:      viper.GetString("sim.error-code"),
		}
		logger.Debug("Launcher config", "launcher", l, "config", string(lo.Must(json.Marshal(config))))
		return sim.NewLauncher(config), nil

	case "oci":
		config := oci.Config{
			Logger:            logger,
			Tenancy:           viper.GetString("oci.tenancy"),
			User:              viper.GetString("oci.user"),
			Fingerprint:       viper.GetString("oci.fingerprint"),
			Region:            viper.GetString("oci.region"),
			KeyFile:           viper.GetString("oci.key-file"),
			Passphrase:        viper.GetString("oci.passphrase"),
			CompartmentID:     viper.GetString("oci.compartment-id"),
			Shape:             viper.GetString("oci.shape"),
			OCPUs:             float32(viper.GetFloat64("oci.ocpus")),
			MemoryGB:          float32(viper.GetFloat64("oci.memory-gb")),
			ImageID:           viper.GetString("oci.image-id"),
			BootVolumeID:      viper.GetString("oci.boot-volume-id"),
			BootVolumeSizeGB:  viper.GetInt64("oci.boot-volume-size-gb"),
			SubnetID:          viper.GetString("oci.subnet-id"),
			AssignPublicIP:    viper.GetBool("oci.assign-public-ip"),
			DisplayName:       viper.GetString("oci.display-name"),
			SSHAuthorizedKeys: viper.GetString("oci.ssh-authorized-keys"),
		}
		logger.Debug("Launcher config", "launcher", l, "config", string(lo.Must(json.Marshal(config))))
		return oci.NewLauncher(config)

	default:
		return nil, fmt.Errorf("unknown launcher")
	}
}

// createNotifier returns a Telegram notifier when a token and chat id are
// configured, and a no-op otherwise. A failure to reach Telegram degrades to
// the no-op as well: notifications are best-effort and must never prevent the
// hunt from starting.
func createNotifier(logger *slog.Logger) hunt.Notifier {
	token := viper.GetString("telegram.token")
	chatID := viper.GetInt64("telegram.chat-id")
	if token == "" || chatID == 0 {
		log.Info("Telegram notifications disabled")
		return hunt.NopNotifier{}
	}

	telegram, err := notify.NewTelegram(notify.TelegramConfig{
		Logger: logger,
		Token:  token,
		ChatID: chatID,
	})
	if err != nil {
		log.Warn("Telegram unreachable, continuing without notifications", "error", err)
		return hunt.NopNotifier{}
	}

	log.Info("Telegram notifications enabled", "chat-id", chatID)
	// The first message doubles as a boot-time connectivity check.
	telegram.Send(fmt.Sprintf("🟢 <b>Caphound %s online</b>", version))
	return telegram
}
