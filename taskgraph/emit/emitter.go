// Package emit provides pluggable observability sinks for the taskgraph
// engine: logging, structured events, and distributed tracing.
package emit

import "context"

// Emitter receives observability events produced during graph execution:
// worker lifecycle transitions, task start/end markers, cycle boundaries,
// and end-of-cycle trace dumps.
//
// Implementations should be:
//   - Non-blocking: avoid slowing down the worker that calls Emit.
//   - Thread-safe: called concurrently by every worker in the pool.
//   - Resilient: never panic; a broken sink must not abort a run.
type Emitter interface {
	// Emit sends a single event to the configured backend. Emit must not
	// block the calling worker for long and must not panic.
	Emit(event Event)

	// EmitBatch sends multiple events in one operation, preserving order.
	// Used by sinks that prefer to persist or transmit a full cycle's
	// events at once (e.g. at a cycle boundary).
	EmitBatch(ctx context.Context, events []Event) error

	// Flush ensures all buffered events have reached the backend. Called
	// at engine shutdown; implementations should be safe to call more
	// than once.
	Flush(ctx context.Context) error
}
