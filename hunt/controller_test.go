package hunt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerRejectsStartWhileRunning(t *testing.T) {
	launcher := newMockLauncher(nil)
	controller := NewController(launcher, newTestConfig())
	defer func() {
		controller.Shutdown()
		controller.Wait()
	}()

	require.NoError(t, controller.Start())
	waitForLaunch(t, launcher)

	assert.True(t, controller.Running())
	assert.ErrorIs(t, controller.Start(), ErrAlreadyRunning)
}

func TestControllerStopIsIdempotent(t *testing.T) {
	launcher := newMockLauncher(nil)
	controller := NewController(launcher, newTestConfig())

	controller.Stop() // nothing running yet

	require.NoError(t, controller.Start())
	waitForLaunch(t, launcher)

	controller.Stop()
	controller.Wait()
	assert.False(t, controller.Running())

	controller.Stop() // already stopped
	assert.False(t, controller.Running())
}

func TestControllerRestartRunsAFreshEpisode(t *testing.T) {
	launcher := newMockLauncher(nil)
	tracker := NewTracker()
	config := newTestConfig()
	config.Tracker = tracker

	controller := NewController(launcher, config)
	defer func() {
		controller.Shutdown()
		controller.Wait()
	}()

	require.NoError(t, controller.Start())
	waitForLaunch(t, launcher)

	require.NoError(t, controller.Restart())
	waitForLaunch(t, launcher)
	assert.True(t, controller.Running())
	assert.Equal(t, StatusRunning, tracker.Snapshot().Status)
}

func TestControllerRestartStartsWhenStopped(t *testing.T) {
	launcher := newMockLauncher(nil)
	controller := NewController(launcher, newTestConfig())
	defer func() {
		controller.Shutdown()
		controller.Wait()
	}()

	require.NoError(t, controller.Restart())
	waitForLaunch(t, launcher)
	assert.True(t, controller.Running())
}

func TestControllerStartAgainAfterSuccess(t *testing.T) {
	launcher := newMockLauncher(func(_ context.Context, _ string, _ int) (string, error) {
		return "ocid1.instance.oc1..aaa", nil
	})
	controller := NewController(launcher, newTestConfig())

	require.NoError(t, controller.Start())
	controller.Wait()
	assert.False(t, controller.Running())

	require.NoError(t, controller.Start())
	controller.Wait()
}

func TestControllerShutdownStopsTheHunt(t *testing.T) {
	launcher := newMockLauncher(nil)
	tracker := NewTracker()
	config := newTestConfig()
	config.Tracker = tracker

	controller := NewController(launcher, config)
	require.NoError(t, controller.Start())
	waitForLaunch(t, launcher)

	controller.Shutdown()
	controller.Wait()
	assert.False(t, controller.Running())
	assert.Equal(t, StatusStopped, tracker.Snapshot().Status)
}
