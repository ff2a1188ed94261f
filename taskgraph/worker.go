package taskgraph

import (
	"fmt"
	"sync"
	"time"
)

// runWorker is the body of one pool goroutine (C4). It signals readiness
// on barrier, then loops: Idle (blocked in popFrontBlocking) -> Running
// (invokeTask) -> Publishing (arrive on children, reset on self) -> Idle,
// until the ready queue is deactivated and drained.
func (e *Engine) runWorker(id int, barrier *sync.WaitGroup) {
	if e.opts.LogRunnerLifecycle {
		e.opts.Emitter.Emit(Event{RunID: e.runID, WorkerID: id, Msg: "worker_start"})
	}
	barrier.Done()

	for {
		n, ok := e.queue.popFrontBlocking()
		if !ok {
			break
		}
		if e.opts.Metrics != nil {
			e.opts.Metrics.SetReadyQueueDepth(e.queue.len())
		}
		e.runNode(id, n)
	}

	if e.opts.LogRunnerLifecycle {
		e.opts.Emitter.Emit(Event{RunID: e.runID, WorkerID: id, Msg: "worker_exit"})
	}
}

// runNode executes one node's Task and publishes the result to its
// children. Ordering is load-bearing: n's own satisfied
// counter is reset before any child is notified via arrive, so a racing
// worker that re-seeds the source for the next cycle can never observe a
// stale leftover count on a node that belongs to the cycle just finished.
func (e *Engine) runNode(id int, n *Node) {
	if e.opts.Metrics != nil {
		e.opts.Metrics.SetInflightWorkers(int(e.inflight.Add(1)))
	} else {
		e.inflight.Add(1)
	}
	defer func() {
		if e.opts.Metrics != nil {
			e.opts.Metrics.SetInflightWorkers(int(e.inflight.Add(-1)))
		} else {
			e.inflight.Add(-1)
		}
	}()

	// The source increments loopsDone only after its task body, so it
	// belongs to the cycle one past the current count.
	cycleNum := e.cycle.loopsDone
	if n == e.graph.Source {
		cycleNum++
	}

	e.trace.appendStart(n.Label)
	if e.opts.LogRunnerTask {
		e.opts.Emitter.Emit(Event{RunID: e.runID, Cycle: cycleNum, WorkerID: id, Label: n.Label, Msg: "task_start"})
	}

	start := time.Now()
	if !e.invokeTask(id, n, cycleNum) {
		return
	}
	dur := time.Since(start)

	e.trace.appendEnd(n.Label)
	if e.opts.LogRunnerTask {
		e.opts.Emitter.Emit(Event{RunID: e.runID, Cycle: cycleNum, WorkerID: id, Label: n.Label, Msg: "task_end",
			Meta: map[string]any{"duration_ms": dur.Milliseconds()}})
	}
	if e.opts.Metrics != nil {
		e.opts.Metrics.RecordTaskExecution(e.runID, n.Label, dur)
	}

	if n == e.graph.Source {
		e.cycle.onSourceRan()
	}

	// Reset before publish: n is done contributing to this cycle's
	// arrival counting before any child observes a completion.
	n.reset()

	if n == e.graph.Sink {
		e.onSinkComplete()
		return
	}

	for _, child := range n.Children {
		ready, err := child.arrive()
		if err != nil {
			e.fail(err)
			return
		}
		if ready {
			e.queue.pushBack(child)
			if e.opts.Metrics != nil {
				e.opts.Metrics.SetReadyQueueDepth(e.queue.len())
			}
		}
	}
}

// invokeTask runs n.Task with panic recovery and reports whether the task
// returned normally. A recovered panic is emitted as a "task_panic" event
// and becomes a fatal TaskPanicError delivered through Engine.fail: the
// engine does not attempt to resume the node or the cycle.
func (e *Engine) invokeTask(id int, n *Node, cycleNum int) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			e.opts.Emitter.Emit(Event{RunID: e.runID, Cycle: cycleNum, WorkerID: id, Label: n.Label,
				Msg: "task_panic", Meta: map[string]any{"error": fmt.Sprint(r)}})
			e.fail(&TaskPanicError{Node: n.Label, Recovered: r})
		}
	}()
	if n.Task != nil {
		n.Task()
	}
	return true
}
