package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caphound/caphound/hunt"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

type launcherFunc func(ctx context.Context, zone string) (string, error)

func (f launcherFunc) Launch(ctx context.Context, zone string) (string, error) {
	return f(ctx, zone)
}

// capacityLauncher fails every attempt, keeping the hunt running until it is
// stopped.
func capacityLauncher() hunt.Launcher {
	return launcherFunc(func(ctx context.Context, zone string) (string, error) {
		return "", &hunt.LaunchError{Code: "OutOfHostCapacity", Message: "Out of host capacity.", Status: http.StatusInternalServerError}
	})
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAPI(t *testing.T) (*apiServer, *hunt.Tracker) {
	t.Helper()

	tracker := hunt.NewTracker()
	config := hunt.Config{
		Logger:               testLogger(),
		Tracker:              tracker,
		Zones:                []string{"AD-1", "AD-2"},
		InitialInterval:      time.Millisecond,
		MinInterval:          time.Millisecond,
		MaxInterval:          50 * time.Millisecond,
		BackoffFactor:        1.5,
		MaxConsecutiveErrors: 10,
		UpdateInterval:       10,
	}
	controller := hunt.NewController(capacityLauncher(), config)
	t.Cleanup(func() {
		controller.Shutdown()
		controller.Wait()
	})

	return &apiServer{
		tracker:    tracker,
		controller: controller,
		log:        testLogger(),
		authToken:  "test-token",
	}, tracker
}

func doRequest(api *apiServer, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.routes().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var payload T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&payload))
	return payload
}

// --- Tests ---

func TestStatusEndpoint(t *testing.T) {
	api, tracker := newTestAPI(t)
	tracker.BeginRun()
	tracker.SetWaitSeconds(30)
	tracker.RecordAttempt("AD-1")
	tracker.RecordFailure(hunt.CategoryOutOfCapacity, "Out of host capacity.")

	w := doRequest(api, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	snapshot := decodeBody[hunt.Snapshot](t, w)
	assert.Equal(t, hunt.StatusRunning, snapshot.Status)
	assert.Equal(t, 1, snapshot.TotalAttempts)
	assert.Equal(t, "AD-1", snapshot.CurrentZone)
	assert.Equal(t, 30.0, snapshot.RetryIntervalSeconds)
	assert.Equal(t, 1, snapshot.Statistics.ErrorsByType["OutOfCapacity"])
}

func TestConfigEndpointHidesSecrets(t *testing.T) {
	api, _ := newTestAPI(t)
	viper.Set("zones", `["AD-1","AD-2"]`)
	viper.Set("telegram.token", "very-secret-token")
	viper.Set("api.token", "even-more-secret")

	w := doRequest(api, http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "AD-1")
	assert.Contains(t, body, `"configured":true`)
	assert.NotContains(t, body, "very-secret-token")
	assert.NotContains(t, body, "even-more-secret")
}

func TestControlRequiresToken(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doRequest(api, http.MethodPost, "/api/control/start", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or missing token")

	w = doRequest(api, http.MethodPost, "/api/control/start", "wrong-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestControlStartStop(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doRequest(api, http.MethodPost, "/api/control/start", "test-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "started"}, decodeBody[map[string]string](t, w))

	// A second start is rejected while the hunt runs.
	w = doRequest(api, http.MethodPost, "/api/control/start", "test-token")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already running")

	w = doRequest(api, http.MethodPost, "/api/control/stop", "test-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "stopped"}, decodeBody[map[string]string](t, w))
}

func TestControlStopWithoutHuntIsFine(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doRequest(api, http.MethodPost, "/api/control/stop", "test-token")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestControlRestart(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doRequest(api, http.MethodPost, "/api/control/restart", "test-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "restarted"}, decodeBody[map[string]string](t, w))
	assert.True(t, api.controller.Running())
}

func TestControlUnknownAction(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doRequest(api, http.MethodPost, "/api/control/selfdestruct", "test-token")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown action")
}

func TestHealthEndpoint(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doRequest(api, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, w))
}

func TestVersionEndpoint(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doRequest(api, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"version": "dev", "commit": "n/a"}, decodeBody[map[string]string](t, w))
}

func TestMetricsEndpoint(t *testing.T) {
	api, _ := newTestAPI(t)

	w := doRequest(api, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "caphound_launch_attempts_total")
}
