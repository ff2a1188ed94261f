package taskgraph

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics collects engine-level Prometheus instrumentation,
// namespaced "taskcycle_":
//
//  1. inflight_workers (gauge): workers currently in the Running or
//     Publishing state.
//  2. ready_queue_depth (gauge): nodes currently waiting in the ready
//     queue.
//  3. cycles_total (counter): completed cycles, labeled by run_id.
//  4. tasks_executed_total (counter): task invocations, labeled by
//     run_id and label.
//  5. task_duration_seconds (histogram): task body wall time, labeled by
//     run_id and label.
type PrometheusMetrics struct {
	inflightWorkers prometheus.Gauge
	readyQueueDepth prometheus.Gauge
	cyclesTotal     *prometheus.CounterVec
	tasksExecuted   *prometheus.CounterVec
	taskDuration    *prometheus.HistogramVec

	mu      sync.RWMutex
	enabled bool
}

// NewPrometheusMetrics registers the taskcycle metric set with registry
// (prometheus.DefaultRegisterer if nil) and returns the collector.
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &PrometheusMetrics{
		enabled: true,
		inflightWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskcycle",
			Name:      "inflight_workers",
			Help:      "Number of workers currently running or publishing a task",
		}),
		readyQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskcycle",
			Name:      "ready_queue_depth",
			Help:      "Number of nodes currently waiting in the ready queue",
		}),
		cyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskcycle",
			Name:      "cycles_total",
			Help:      "Completed cycles",
		}, []string{"run_id"}),
		tasksExecuted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskcycle",
			Name:      "tasks_executed_total",
			Help:      "Task invocations",
		}, []string{"run_id", "label"}),
		taskDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taskcycle",
			Name:      "task_duration_seconds",
			Help:      "Task body wall-clock duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"run_id", "label"}),
	}
}

func (pm *PrometheusMetrics) isEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

// SetInflightWorkers records the current count of non-idle workers.
func (pm *PrometheusMetrics) SetInflightWorkers(n int) {
	if !pm.isEnabled() {
		return
	}
	pm.inflightWorkers.Set(float64(n))
}

// SetReadyQueueDepth records the current ready-queue length.
func (pm *PrometheusMetrics) SetReadyQueueDepth(n int) {
	if !pm.isEnabled() {
		return
	}
	pm.readyQueueDepth.Set(float64(n))
}

// IncrementCycles records one completed cycle for runID.
func (pm *PrometheusMetrics) IncrementCycles(runID string) {
	if !pm.isEnabled() {
		return
	}
	pm.cyclesTotal.WithLabelValues(runID).Inc()
}

// RecordTaskExecution records one task invocation and its duration.
func (pm *PrometheusMetrics) RecordTaskExecution(runID, label string, d time.Duration) {
	if !pm.isEnabled() {
		return
	}
	pm.tasksExecuted.WithLabelValues(runID, label).Inc()
	pm.taskDuration.WithLabelValues(runID, label).Observe(d.Seconds())
}

// Disable suspends metric recording, useful in tests that reuse a
// registry across cases.
func (pm *PrometheusMetrics) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = false
}

// Enable resumes metric recording after Disable.
func (pm *PrometheusMetrics) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = true
}
