package hunt

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrAlreadyRunning is returned by Start while a hunt is in progress.
var ErrAlreadyRunning = errors.New("a hunt is already running")

// stopTimeout bounds how long Restart waits for the previous hunt to exit.
const stopTimeout = 10 * time.Second

// Controller serializes start, stop and restart commands around a single
// hunt goroutine. At most one hunt runs at a time, and a restart only starts
// the new one once the previous one has fully exited, so two hunts never
// race on the shared tracker.
type Controller struct {
	launcher Launcher
	config   Config
	log      *slog.Logger

	root       context.Context
	rootCancel context.CancelFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewController(launcher Launcher, config Config) *Controller {
	root, rootCancel := context.WithCancel(context.Background())
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		launcher:   launcher,
		config:     config,
		log:        log,
		root:       root,
		rootCancel: rootCancel,
	}
}

// Start launches a new hunt episode. It fails with ErrAlreadyRunning while
// a previous episode is still in progress.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start()
}

func (c *Controller) start() error {
	if c.running() {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(c.root)
	done := make(chan struct{})
	hunter := New(c.launcher, c.config)

	c.cancel = cancel
	c.done = done
	c.log.Info("starting hunt", "name", hunter.Name())
	go func() {
		defer close(done)
		defer cancel()
		hunter.Run(ctx)
	}()
	return nil
}

// Stop signals the current hunt to end and returns without waiting for it.
// Stopping when nothing runs is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Restart stops the current hunt, waits for it to fully exit, then starts a
// fresh episode. The wait is bounded; on timeout no new hunt is started and
// an error is returned.
func (c *Controller) Restart() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running() {
		c.cancel()
		select {
		case <-c.done:
		case <-time.After(stopTimeout):
			return errors.New("previous hunt did not stop in time")
		}
	}
	return c.start()
}

// Running reports whether a hunt is currently in progress.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running()
}

func (c *Controller) running() bool {
	if c.done == nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Shutdown cancels the running hunt as part of process teardown.
func (c *Controller) Shutdown() {
	c.rootCancel()
}

// Wait blocks until the current hunt, if any, has exited.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}
