package taskgraph

import (
	"io"

	"github.com/taskcycle/taskcycle-go/taskgraph/emit"
	"github.com/taskcycle/taskcycle-go/taskgraph/store"
)

// Event is the observability record emitted for worker lifecycle
// transitions, task start/end, and cycle boundaries. It is an alias for
// emit.Event so callers configuring an Engine never need to import the
// emit subpackage directly just to read the type.
type Event = emit.Event

// Options is a plain struct for bulk configuration, usable on its own or
// mixed with functional Options per Option below (teacher's "struct + Option"
// composition, graph/options.go).
type Options struct {
	// PoolSize is P, the number of worker goroutines. Must be >= 1.
	PoolSize int

	// LoopCount is L, the number of cycles to run. Must be >= 1.
	LoopCount int

	// Jitter enables task_jitter: ±10% random perturbation of simulated
	// task duration. The engine does not itself introduce jitter into task
	// bodies (tasks are an external collaborator); instead
	// Engine.Jitter(d) is exposed for task bodies that want to honor the
	// flag.
	Jitter bool

	// PrintGraph dumps the topology once at startup via Graph.String.
	PrintGraph bool

	// LogLoops marks cycle boundaries in the configured Emitter.
	LogLoops bool

	// LogRunnerLifecycle logs worker create/start/exit.
	LogRunnerLifecycle bool

	// LogRunnerTask logs which worker ran which task.
	LogRunnerTask bool

	// LogExecTrace dumps the trace string at the end of each cycle.
	LogExecTrace bool

	// Emitter receives lifecycle/task/loop/trace events. Defaults to
	// emit.NewNullEmitter() if nil.
	Emitter emit.Emitter

	// Metrics, if non-nil, receives Prometheus instrumentation for the run.
	Metrics *PrometheusMetrics

	// TraceStore, if non-nil, receives a store.CycleRecord at the end of
	// every cycle for historical persistence/analysis.
	TraceStore store.TraceStore

	// Out is where PrintGraph writes the topology dump. Defaults to
	// os.Stdout if nil.
	Out io.Writer
}

// Option is a functional option for configuring an Engine, composable with
// the Options struct above (teacher's graph/options.go pattern:
// `Option func(*engineConfig) error`).
type Option func(*engineConfig) error

type engineConfig struct {
	opts Options
}

// WithOptions assigns a fully populated Options struct wholesale,
// overriding any options applied before it in the New() call (teacher's
// "struct + Option" composition, graph/options.go).
func WithOptions(o Options) Option {
	return func(cfg *engineConfig) error {
		cfg.opts = o
		return nil
	}
}

// WithPoolSize sets P, the number of worker goroutines.
func WithPoolSize(n int) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.PoolSize = n
		return nil
	}
}

// WithLoopCount sets L, the number of cycles to run.
func WithLoopCount(n int) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.LoopCount = n
		return nil
	}
}

// WithJitter enables task_jitter (see Options.Jitter).
func WithJitter(enabled bool) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.Jitter = enabled
		return nil
	}
}

// WithPrintGraph enables a one-time topology dump at startup.
func WithPrintGraph(enabled bool) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.PrintGraph = enabled
		return nil
	}
}

// WithLogging toggles all four logging flags (log_loops,
// log_runner_lifecycle, log_runner_task, log_exec_trace) at once.
func WithLogging(enabled bool) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.LogLoops = enabled
		cfg.opts.LogRunnerLifecycle = enabled
		cfg.opts.LogRunnerTask = enabled
		cfg.opts.LogExecTrace = enabled
		return nil
	}
}

// WithEmitter sets the observability sink. Defaults to a NullEmitter.
func WithEmitter(e emit.Emitter) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.Emitter = e
		return nil
	}
}

// WithMetrics enables Prometheus instrumentation for the run.
//
//	registry := prometheus.NewRegistry()
//	metrics := taskgraph.NewPrometheusMetrics(registry)
//	engine, _ := taskgraph.New(g, taskgraph.WithMetrics(metrics), ...)
func WithMetrics(m *PrometheusMetrics) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.Metrics = m
		return nil
	}
}

// WithTraceStore enables per-cycle history persistence.
func WithTraceStore(s store.TraceStore) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.TraceStore = s
		return nil
	}
}

// WithOutput sets the writer PrintGraph dumps the topology to.
func WithOutput(w io.Writer) Option {
	return func(cfg *engineConfig) error {
		cfg.opts.Out = w
		return nil
	}
}
