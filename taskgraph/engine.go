package taskgraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/taskcycle/taskcycle-go/taskgraph/emit"
)

// Engine owns the immutable Graph plus every piece of mutable execution
// state for one run: the ready queue (C3), the per-cycle trace (C6), the
// cycle controller (C5), and the configuration resolved from New's
// options. A single Engine is good for exactly one Run call; construct a
// new Engine (same Graph, a fresh runID) to run again.
type Engine struct {
	graph *Graph
	opts  Options

	runID string
	queue *readyQueue
	trace *trace
	cycle *cycleController

	inflight atomic.Int64

	ctx      context.Context
	errOnce  sync.Once
	firstErr error
}

// New validates g, resolves opts against their defaults, and constructs an
// Engine ready to Run. It does not start any goroutines — that happens in
// Run — so New's only failure modes are the construction-time SetupError
// conditions: a nil graph, a topology that Graph.Finalize rejects, an
// Option that returns an error, or an out-of-range pool/loop count.
func New(g *Graph, options ...Option) (*Engine, error) {
	if g == nil {
		return nil, &SetupError{Stage: "graph", Cause: ErrNilGraph}
	}
	if err := g.Finalize(); err != nil {
		return nil, &SetupError{Stage: "graph", Cause: err}
	}

	cfg := &engineConfig{
		opts: Options{
			PoolSize:  1,
			LoopCount: 1,
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, &SetupError{Stage: "options", Cause: err}
		}
	}
	opts := cfg.opts

	if opts.PoolSize < 1 {
		return nil, &SetupError{Stage: "options", Cause: errors.New("taskgraph: PoolSize must be >= 1")}
	}
	if opts.LoopCount < 1 {
		return nil, &SetupError{Stage: "options", Cause: errors.New("taskgraph: LoopCount must be >= 1")}
	}
	if opts.Emitter == nil {
		opts.Emitter = emit.NewNullEmitter()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	runID := uuid.NewString()

	return &Engine{
		graph: g,
		opts:  opts,
		runID: runID,
		queue: newReadyQueue(),
		trace: newTrace(g.Len()),
		cycle: newCycleController(opts.LoopCount),
	}, nil
}

// RunID returns the identifier assigned to this Engine at construction,
// used to correlate emitted events, metrics labels, and stored
// CycleRecords across a single run.
func (e *Engine) RunID() string { return e.runID }

// LoopsCompleted returns the number of cycles the source node has run to
// completion so far. Safe to call after Run returns; the happens-before
// edge through the worker pool's join makes the final value visible to
// the caller without a dedicated mutex.
func (e *Engine) LoopsCompleted() int { return e.cycle.loopsDone }

// Jitter perturbs d by up to ±10% when Options.Jitter is enabled, and
// returns d unchanged otherwise. Task bodies that simulate work may call
// this to honor the task_jitter configuration flag; the engine itself
// never calls this on behalf of a task.
func (e *Engine) Jitter(d time.Duration) time.Duration {
	if !e.opts.Jitter || d <= 0 {
		return d
	}
	delta := time.Duration(jitterSource(d))
	return d + delta
}

// jitterSource draws a random perturbation in [-d/10, +d/10) from the
// goroutine-safe top-level math/rand/v2 generator, so repeated calls vary
// without needing a shared, mutex-guarded *rand.Rand on the hot path.
func jitterSource(d time.Duration) int64 {
	span := int64(d) / 5 // the ±10% window is 20% of d wide
	if span == 0 {
		return 0
	}
	return rand.Int64N(span) - span/2
}

// Run spawns the configured pool of workers, seeds the graph's source
// node, and blocks until every cycle configured by Options.LoopCount has
// completed, ctx is cancelled, or a task panics / an invariant is
// violated. It returns the first fatal error encountered, or nil on a
// clean run to completion.
//
// Run must be called at most once per Engine.
func (e *Engine) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e.ctx = ctx

	if e.opts.PrintGraph {
		if err := writeGraphDump(e.opts.Out, e.graph); err != nil {
			return &SetupError{Stage: "print_graph", Cause: err}
		}
	}

	var barrier sync.WaitGroup
	barrier.Add(e.opts.PoolSize)

	var pool sync.WaitGroup
	pool.Add(e.opts.PoolSize)
	for id := 1; id <= e.opts.PoolSize; id++ {
		go func(id int) {
			defer pool.Done()
			e.runWorker(id, &barrier)
		}(id)
	}
	barrier.Wait()

	if e.opts.LogLoops {
		e.opts.Emitter.Emit(Event{RunID: e.runID, Cycle: 1, Msg: "cycle_start"})
	}
	e.queue.pushBack(e.graph.Source)

	done := make(chan struct{})
	go func() {
		pool.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		e.fail(ctx.Err())
		<-done
	}

	return e.firstErr
}

// Close flushes the configured Emitter (always set; New defaults it) and
// closes the configured TraceStore if one was set, in that order. Each
// call repeats both steps, so a repeated Close succeeds only as far as
// the Emitter and TraceStore tolerate being flushed and closed again.
// Close needs an Engine returned by a successful New.
func (e *Engine) Close() error {
	var errs []error
	if e.opts.Emitter != nil {
		if err := e.opts.Emitter.Flush(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("flush emitter: %w", err))
		}
	}
	if e.opts.TraceStore != nil {
		if err := e.opts.TraceStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace store: %w", err))
		}
	}
	return errors.Join(errs...)
}

// fail records err as the run's terminal error (first writer wins) and
// shuts down the ready queue so every blocked worker unwinds. Safe to
// call concurrently from multiple workers; only the first call's error
// is retained.
func (e *Engine) fail(err error) {
	if err == nil {
		return
	}
	e.errOnce.Do(func() {
		e.firstErr = err
	})
	e.queue.shutdown()
}

// writeGraphDump renders g's topology to w via Graph.String, used by the
// print_graph startup toggle.
func writeGraphDump(w io.Writer, g *Graph) error {
	_, err := io.WriteString(w, g.String())
	return err
}
