package main

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/caphound/caphound/hunt"
	"github.com/caphound/caphound/server/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

type contextKey string

const requestIDKey contextKey = "request-id"

// apiServer exposes hunt status and control over HTTP. Read endpoints are
// open, control endpoints require the bearer token.
type apiServer struct {
	tracker    *hunt.Tracker
	controller *hunt.Controller
	log        *slog.Logger
	authToken  string
}

func newAPIServer(tracker *hunt.Tracker, controller *hunt.Controller) *apiServer {
	token := viper.GetString("api.token")
	if token == "" {
		token = generateToken()
		log.Info("Generated API control token", "token", token)
	}

	return &apiServer{
		tracker:    tracker,
		controller: controller,
		log:        log.Base.With("component", "api"),
		authToken:  token,
	}
}

func generateToken() string {
	buf := make([]byte, 16)
	// crypto/rand.Read is documented to never fail
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func (s *apiServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/version", s.handleVersion)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.Handle("POST /api/control/{action}", s.requireAuth(http.HandlerFunc(s.handleControl)))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.withRequestID(s.withLogging(mux))
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version, "commit": commit})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *apiServer) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, safeConfig())
}

func (s *apiServer) handleControl(w http.ResponseWriter, r *http.Request) {
	switch action := r.PathValue("action"); action {
	case "start":
		if err := s.controller.Start(); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, hunt.ErrAlreadyRunning) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "started"})

	case "stop":
		s.controller.Stop()
		writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})

	case "restart":
		if err := s.controller.Restart(); err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "restarted"})

	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown action '%s'", action))
	}
}

// requireAuth guards an endpoint with the control token. The comparison is
// constant-time.
func (s *apiServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			writeError(w, http.StatusUnauthorized, errors.New("invalid or missing token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *apiServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *apiServer) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		s.log.Debug("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
			"request-id", r.Context().Value(requestIDKey),
		)
	})
}

// statusWriter remembers the response code for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
