// Package emit provides pluggable observability sinks for the taskgraph
// engine: logging, structured events, and distributed tracing.
package emit

// Event represents one observability event emitted during graph
// execution: a worker lifecycle transition, a task start/end, a cycle
// boundary, or an end-of-cycle trace dump. It carries enough structured
// data that any sink (text log, JSON log, OpenTelemetry span) can render
// it without engine-specific knowledge.
type Event struct {
	// RunID identifies the engine run that produced this event.
	RunID string

	// Cycle is the 1-indexed loop number this event belongs to. Zero for
	// run-level events (startup, shutdown).
	Cycle int

	// WorkerID identifies which worker produced the event. Zero (and
	// meaningless) for cycle/run-level events.
	WorkerID int

	// Label identifies the node an event concerns, e.g. "A". Empty for
	// worker-lifecycle or cycle-boundary events.
	Label string

	// Msg is a short machine-matchable tag: "worker_start", "worker_exit",
	// "task_start", "task_end", "task_panic", "cycle_start", "cycle_end",
	// "trace", "store_error".
	Msg string

	// Meta carries event-specific structured data, e.g. {"trace": "AAaaZZ"}
	// for a "trace" event.
	Meta map[string]any
}
