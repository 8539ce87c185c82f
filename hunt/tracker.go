package hunt

import (
	"math"
	"sync"
	"time"
)

// Run status values reported by the tracker.
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
)

// Tracker records the state of the current hunt for the status API and the
// dashboard. Run-scoped fields are reset every time a hunt starts; the error
// statistics and the log ring accumulate for the lifetime of the process.
// Safe for concurrent use.
type Tracker struct {
	mu sync.RWMutex

	// run-scoped, reset by BeginRun
	status            string
	startedAt         time.Time
	endedAt           time.Time
	lastAttemptAt     time.Time
	totalAttempts     int
	currentZone       string
	waitSeconds       float64
	lastError         string
	consecutiveErrors int
	instances         []string
	lastOutcome       string

	// process-wide, never reset
	errorStats   map[Category]int
	allAttempts  int
	allInstances int
	ring         *LogRing
}

func NewTracker() *Tracker {
	return &Tracker{
		status:     StatusStopped,
		errorStats: make(map[Category]int),
		ring:       NewLogRing(DefaultLogCapacity),
	}
}

// BeginRun marks the start of a fresh hunt and clears all run-scoped state.
func (t *Tracker) BeginRun() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = StatusRunning
	t.startedAt = time.Now()
	t.endedAt = time.Time{}
	t.lastAttemptAt = time.Time{}
	t.totalAttempts = 0
	t.currentZone = ""
	t.lastError = ""
	t.consecutiveErrors = 0
	t.instances = nil
	t.lastOutcome = ""
	metricRunning.Set(1)
}

// EndRun marks the hunt as stopped and records how it ended.
func (t *Tracker) EndRun(outcome string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = StatusStopped
	t.endedAt = time.Now()
	t.lastOutcome = outcome
	metricRunning.Set(0)
}

// RecordAttempt notes a launch attempt against the given zone and returns the
// attempt count of the current run.
func (t *Tracker) RecordAttempt(zone string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalAttempts++
	t.allAttempts++
	t.lastAttemptAt = time.Now()
	t.currentZone = zone
	metricAttempts.Inc()
	return t.totalAttempts
}

// RecordFailure counts a failed attempt and returns the number of consecutive
// failures seen since the last reset.
func (t *Tracker) RecordFailure(category Category, message string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.errorStats[category]++
	t.lastError = message
	t.consecutiveErrors++
	metricErrors.WithLabelValues(string(category)).Inc()
	return t.consecutiveErrors
}

func (t *Tracker) ResetConsecutive() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.consecutiveErrors = 0
}

func (t *Tracker) RecordInstance(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.instances = append(t.instances, id)
	t.allInstances++
	metricInstances.Inc()
}

func (t *Tracker) SetWaitSeconds(s float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.waitSeconds = s
	metricInterval.Set(s)
}

func (t *Tracker) Ring() *LogRing {
	return t.ring
}

// Snapshot is a point-in-time view of the tracker, shaped for the status API.
type Snapshot struct {
	Status               string     `json:"status"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	UptimeSeconds        float64    `json:"uptime_seconds"`
	TotalAttempts        int        `json:"total_attempts"`
	LastAttemptAt        *time.Time `json:"last_attempt_at,omitempty"`
	CurrentZone          string     `json:"current_zone,omitempty"`
	RetryIntervalSeconds float64    `json:"retry_interval_seconds"`
	LastError            string     `json:"last_error,omitempty"`
	ConsecutiveErrors    int        `json:"consecutive_errors"`
	InstancesCreated     []string   `json:"instances_created"`
	LastOutcome          string     `json:"last_outcome,omitempty"`
	Logs                 []Entry    `json:"logs"`
	Statistics           Statistics `json:"statistics"`
}

// Statistics accumulate across runs for the lifetime of the process.
type Statistics struct {
	ErrorsByType map[string]int `json:"errors_by_type"`
	SuccessRate  float64        `json:"success_rate"`
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Snapshot{
		Status:               t.status,
		TotalAttempts:        t.totalAttempts,
		CurrentZone:          t.currentZone,
		RetryIntervalSeconds: t.waitSeconds,
		LastError:            t.lastError,
		ConsecutiveErrors:    t.consecutiveErrors,
		InstancesCreated:     append([]string{}, t.instances...),
		LastOutcome:          t.lastOutcome,
		Logs:                 t.ring.Entries(),
		Statistics: Statistics{
			ErrorsByType: make(map[string]int, len(t.errorStats)),
			SuccessRate:  successRate(t.allInstances, t.allAttempts),
		},
	}
	for category, n := range t.errorStats {
		s.Statistics.ErrorsByType[string(category)] = n
	}

	if !t.startedAt.IsZero() {
		startedAt := t.startedAt
		s.StartedAt = &startedAt
		switch {
		case t.status == StatusRunning:
			s.UptimeSeconds = time.Since(t.startedAt).Seconds()
		case !t.endedAt.IsZero():
			s.UptimeSeconds = t.endedAt.Sub(t.startedAt).Seconds()
		}
	}
	if !t.lastAttemptAt.IsZero() {
		lastAttemptAt := t.lastAttemptAt
		s.LastAttemptAt = &lastAttemptAt
	}
	return s
}

func successRate(instances, attempts int) float64 {
	if attempts == 0 {
		return 0
	}
	rate := float64(instances) / float64(attempts) * 100
	return math.Round(rate*100) / 100
}
