package taskgraph

import (
	"context"
	"time"

	"github.com/taskcycle/taskcycle-go/taskgraph/store"
)

// cycleController holds the loop counters: loopsTarget is fixed at
// construction, loopsDone is written only by the worker executing the
// source task each cycle. Neither field needs its own mutex — the chain
// of node-mutex and queue-mutex unlock/lock pairs that carries a cycle
// from source to sink already establishes the happens-before edge a
// reader needs.
type cycleController struct {
	loopsTarget int
	loopsDone   int
	cycleStart  time.Time
}

func newCycleController(loopsTarget int) *cycleController {
	return &cycleController{loopsTarget: loopsTarget, cycleStart: time.Now()}
}

// onSourceRan is called once per cycle, immediately after the source
// task's body returns, by the worker that ran it — the sole writer of
// loopsDone.
func (c *cycleController) onSourceRan() {
	c.loopsDone++
}

// onSinkComplete runs the cycle controller logic: persist the completed
// cycle's trace, decide whether to restart or terminate, and
// either clear the trace and push the source back onto the ready queue,
// or shut the queue down (leaving the final cycle's trace in place).
// Called by the single worker that just finished the sink's task
// body and already reset the sink's own satisfied counter.
func (e *Engine) onSinkComplete() {
	now := time.Now()
	traceStr := e.trace.String()
	cycleNum := e.cycle.loopsDone

	if e.opts.TraceStore != nil {
		rec := store.CycleRecord{
			RunID:     e.runID,
			Cycle:     cycleNum,
			Trace:     traceStr,
			StartedAt: e.cycle.cycleStart,
			EndedAt:   now,
		}
		if err := e.opts.TraceStore.SaveCycle(context.Background(), rec); err != nil {
			e.opts.Emitter.Emit(Event{
				RunID: e.runID,
				Cycle: cycleNum,
				Msg:   "store_error",
				Meta:  map[string]any{"error": err.Error()},
			})
		}
	}

	if e.opts.LogExecTrace {
		e.opts.Emitter.Emit(Event{
			RunID: e.runID,
			Cycle: cycleNum,
			Msg:   "trace",
			Meta:  map[string]any{"trace": traceStr},
		})
	}
	if e.opts.Metrics != nil {
		e.opts.Metrics.IncrementCycles(e.runID)
	}
	if e.opts.LogLoops {
		e.opts.Emitter.Emit(Event{RunID: e.runID, Cycle: cycleNum, Msg: "cycle_end"})
	}

	cancelled := e.ctx != nil && e.ctx.Err() != nil
	if cycleNum >= e.cycle.loopsTarget || cancelled {
		e.queue.shutdown()
		return
	}

	e.trace.reset()
	e.cycle.cycleStart = time.Now()
	if e.opts.LogLoops {
		e.opts.Emitter.Emit(Event{RunID: e.runID, Cycle: cycleNum + 1, Msg: "cycle_start"})
	}
	e.queue.pushBack(e.graph.Source)
}
