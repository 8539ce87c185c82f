package hunt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caphound/caphound/namegen"
)

// adjustEvery is the attempt cadence of the regular interval adjustment.
// Adjusting on every attempt would oscillate, so the interval only moves
// every few attempts plus whenever the safety valve fires.
const adjustEvery = 5

// Outcomes recorded when a hunt ends.
const (
	OutcomeSuccess     = "success"
	OutcomeStopped     = "stopped"
	OutcomeConfigError = "config-error"
)

// Hunter runs a single hunt: it cycles through the configured zones,
// requesting an instance in each until the provider hands one out, the
// context is canceled, or the configuration turns out to be unusable.
// Exactly one launch attempt is in flight at any time.
type Hunter struct {
	launcher Launcher
	config   Config
	log      *slog.Logger
	notifier Notifier
	tracker  *Tracker
	backoff  *Backoff
	run      string
}

// New creates a Hunter for one hunt episode. Each episode gets a fresh
// retry interval and a generated name used in logs and notifications.
func New(launcher Launcher, config Config) *Hunter {
	h := &Hunter{
		launcher: launcher,
		config:   config,
		log:      config.Logger,
		notifier: config.Notifier,
		tracker:  config.Tracker,
		backoff:  NewBackoff(config),
		run:      namegen.Get().String(),
	}
	if h.log == nil {
		h.log = slog.Default()
	}
	if h.notifier == nil {
		h.notifier = NopNotifier{}
	}
	if h.tracker == nil {
		h.tracker = NewTracker()
	}
	h.log = h.log.With("run", h.run)
	return h
}

// Name returns the generated name of this hunt episode.
func (h *Hunter) Name() string { return h.run }

// Run blocks until the hunt ends and returns the outcome. An invalid
// configuration is reported and the hunt never enters the running state.
func (h *Hunter) Run(ctx context.Context) string {
	if err := Validate(h.config); err != nil {
		h.log.Error("hunt not started, configuration is invalid", "error", err)
		h.notifier.Send(configErrorMessage(h.run, err))
		h.tracker.EndRun(OutcomeConfigError)
		return OutcomeConfigError
	}

	h.tracker.BeginRun()
	h.tracker.SetWaitSeconds(h.backoff.Seconds())
	h.log.Info("hunt started", "zones", h.config.Zones, "interval", h.backoff.Seconds())
	h.notifier.Send(startupMessage(h.run, h.config))

	outcome := h.cycle(ctx)

	h.tracker.EndRun(outcome)
	snapshot := h.tracker.Snapshot()
	h.log.Info("hunt ended", "outcome", outcome, "attempts", snapshot.TotalAttempts)
	h.notifier.Send(finalMessage(h.run, snapshot))
	return outcome
}

func (h *Hunter) cycle(ctx context.Context) string {
	for {
		for _, zone := range h.config.Zones {
			if ctx.Err() != nil {
				return OutcomeStopped
			}

			attempts := h.tracker.RecordAttempt(zone)
			if attempts%h.config.UpdateInterval == 0 {
				h.notifier.Update(statusMessage(h.run, h.tracker.Snapshot()))
			}
			h.log.Debug("launching instance", "zone", zone, "attempt", attempts)

			id, err := h.attempt(ctx, zone)
			if err == nil {
				h.tracker.RecordInstance(id)
				h.tracker.ResetConsecutive()
				h.log.Info("instance created", "zone", zone, "id", id, "attempts", attempts)
				h.notifier.Send(successMessage(h.run, zone, id, h.tracker.Snapshot()))
				return OutcomeSuccess
			}
			if ctx.Err() != nil {
				// Canceled mid-call; do not count the aborted attempt as a
				// provider failure.
				return OutcomeStopped
			}

			category := Classify(err)
			consecutive := h.tracker.RecordFailure(category, err.Error())
			t := category.traits()
			h.log.Log(ctx, t.Level, "launch attempt failed", "zone", zone, "category", string(category), "error", err)
			if t.Alert {
				h.notifier.Send(alertMessage(h.run, category, err.Error()))
			}

			// Safety valve: a long failure streak forces an adjustment now
			// instead of waiting for the regular cadence.
			if consecutive >= h.config.MaxConsecutiveErrors {
				h.adjust(category)
				h.tracker.ResetConsecutive()
				h.log.Warn("failure streak, adjusting interval", "streak", consecutive, "interval", h.backoff.Seconds())
			}

			if !h.sleep(ctx) {
				return OutcomeStopped
			}

			if attempts%adjustEvery == 0 {
				h.adjust(category)
			}
		}
	}
}

// attempt performs a single launch call. A panicking launcher is contained
// and surfaces as an ordinary error, the loop must outlive any provider SDK
// misbehavior.
func (h *Hunter) attempt(ctx context.Context, zone string) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("launcher panic: %v", r)
		}
	}()
	return h.launcher.Launch(ctx, zone)
}

func (h *Hunter) adjust(category Category) {
	h.backoff.Adjust(category)
	h.tracker.SetWaitSeconds(h.backoff.Seconds())
}

// sleep waits out the current retry interval, returning false when the hunt
// is stopped mid-sleep.
func (h *Hunter) sleep(ctx context.Context) bool {
	timer := time.NewTimer(h.backoff.Delay())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
