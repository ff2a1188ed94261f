package taskgraph

import "sync"

// Task is the callable invoked when a node is dispatched: zero arguments,
// no return value, no error channel. The engine does not inspect task
// outcomes — a task that panics is recovered into a TaskPanicError and
// treated as a fatal engine condition.
type Task func()

// Node is a single unit of work in the graph. Its Label is an opaque
// identifier (one character in the reference graph, but semantically
// arbitrary). Required is the node's in-degree, fixed at construction by
// Graph.Link; the satisfied count is the number of parents that have
// completed in the current cycle, guarded by the node's own mutex so that
// concurrent arrivals from multiple parents race safely.
//
// Nodes are owned by the Graph that created them and live for the whole
// run; workers and the ready queue hold only non-owning pointers.
type Node struct {
	Label string
	Task  Task

	Required int // constant after Graph.Finalize
	Children []*Node
	Parents  []*Node

	mu        sync.Mutex
	satisfied int

	// canonicalIndex is this node's position in Graph.nodes, used for
	// stable-array bookkeeping (e.g. per-node max-satisfied instrumentation)
	// without a map lookup on the hot path.
	canonicalIndex int
}

// Satisfied returns the node's current satisfied-parent count. Intended
// for diagnostics and tests; not used on the hot path.
func (n *Node) Satisfied() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.satisfied
}

// arrive records one parent's completion and reports whether this arrival
// brought satisfied to Required — i.e. whether the caller is responsible
// for enqueueing n. The comparison happens under n's lock so "exactly one
// enqueue per completion event" holds even when multiple parents finish
// concurrently.
func (n *Node) arrive() (ready bool, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.satisfied++
	if n.satisfied > n.Required {
		return false, &InvariantError{Node: n.Label, Msg: "satisfied exceeded required"}
	}
	return n.satisfied == n.Required, nil
}

// reset zeroes the satisfied counter. Called by the one worker that just
// executed n, before that worker visits n's children: this is the "reset
// before publish" ordering that makes the next cycle's arrivals safe the
// instant the source is re-seeded.
func (n *Node) reset() {
	n.mu.Lock()
	n.satisfied = 0
	n.mu.Unlock()
}
