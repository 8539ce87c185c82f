package hunt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caphound_launch_attempts_total",
		Help: "Total launch attempts across all runs",
	})

	metricErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caphound_launch_errors_total",
		Help: "Launch errors by category",
	}, []string{"category"})

	metricInstances = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caphound_instances_created_total",
		Help: "Instances successfully created",
	})

	metricInterval = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "caphound_retry_interval_seconds",
		Help: "Current retry interval",
	})

	metricRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "caphound_hunt_running",
		Help: "1 while a hunt is running, 0 otherwise",
	})
)
