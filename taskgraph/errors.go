// Package taskgraph provides a parallel task-graph runtime: a fixed DAG of
// tasks is executed repeatedly across a pool of worker goroutines, one
// cycle at a time, preserving the precedence order encoded by the graph.
package taskgraph

import (
	"errors"
	"fmt"
)

// ErrNilGraph is returned by New when the supplied graph is nil.
var ErrNilGraph = errors.New("taskgraph: nil graph")

// ErrNoSource is returned by Graph.Finalize when no node has zero parents.
var ErrNoSource = errors.New("taskgraph: graph has no source node")

// ErrMultipleSources is returned by Graph.Finalize when more than one node
// has zero parents.
var ErrMultipleSources = errors.New("taskgraph: graph has more than one source node")

// ErrNoSink is returned by Graph.Finalize when no node has zero children.
var ErrNoSink = errors.New("taskgraph: graph has no sink node")

// ErrMultipleSinks is returned by Graph.Finalize when more than one node
// has zero children.
var ErrMultipleSinks = errors.New("taskgraph: graph has more than one sink node")

// SetupError wraps a fatal failure encountered while constructing or
// starting an Engine: a nil or malformed graph or invalid options in New,
// or a failed print_graph dump at the start of Run. These occur only
// during construction/startup and are unrecoverable; the caller should
// abort with a diagnostic and a non-zero exit code.
type SetupError struct {
	Stage string // "graph", "options" or "print_graph"
	Cause error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("taskgraph: setup failed at %s: %v", e.Stage, e.Cause)
}

func (e *SetupError) Unwrap() error { return e.Cause }

// InvariantError indicates a logic invariant violation. The engine raises
// it in one place: when an arrival pushes a node's satisfied counter past
// its required in-degree, which indicates a bug in the engine. The ready
// queue and dispatch counts are not checked. Graph construction does not
// validate acyclicity, and a cyclic graph does not produce this error:
// nodes on a cycle never become ready, so Run does not return until its
// context is cancelled.
type InvariantError struct {
	Node string
	Msg  string
}

func (e *InvariantError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("taskgraph: invariant violated at node %q: %s", e.Node, e.Msg)
	}
	return fmt.Sprintf("taskgraph: invariant violated: %s", e.Msg)
}

// TaskPanicError wraps a recovered panic from a task body. A task that
// panics propagates to the worker; the engine emits a "task_panic" event,
// marks itself inactive, and broadcasts shutdown rather than letting the
// panic take down the whole process.
type TaskPanicError struct {
	Node     string
	Recovered any
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("taskgraph: task %q panicked: %v", e.Node, e.Recovered)
}
