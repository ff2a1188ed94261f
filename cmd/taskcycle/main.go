// Command taskcycle runs the reference task graph with configurable
// pool size, loop count, and observability sinks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskcycle/taskcycle-go/taskgraph"
	"github.com/taskcycle/taskcycle-go/taskgraph/emit"
	"github.com/taskcycle/taskcycle-go/taskgraph/store"
)

func main() {
	var (
		poolSize   = flag.Int("pool", 5, "number of worker goroutines")
		loopCount  = flag.Int("loops", 10, "number of cycles to run")
		jitter     = flag.Bool("jitter", false, "apply +/-10% jitter to simulated task durations")
		printGraph = flag.Bool("print-graph", false, "dump the topology before running")
		dotOut     = flag.String("dot", "", "write the topology as Graphviz DOT to this file and exit (use - for stdout)")
		jsonLog    = flag.Bool("json", false, "emit structured JSON logs instead of text")
		logAll     = flag.Bool("verbose", false, "log worker lifecycle, task dispatch, and per-cycle trace")
		sqlitePath = flag.String("sqlite", "", "persist per-cycle trace history to this SQLite file")
	)
	flag.Parse()

	g := buildReferenceGraph(*jitter)

	if *dotOut != "" {
		out := os.Stdout
		if *dotOut != "-" {
			f, err := os.Create(*dotOut)
			if err != nil {
				log.Fatalf("creating dot output file: %v", err)
			}
			defer f.Close()
			out = f
		}
		if err := g.WriteDOT(out); err != nil {
			log.Fatalf("writing dot output: %v", err)
		}
		return
	}

	opts := []taskgraph.Option{
		taskgraph.WithPoolSize(*poolSize),
		taskgraph.WithLoopCount(*loopCount),
		taskgraph.WithJitter(*jitter),
		taskgraph.WithPrintGraph(*printGraph),
		taskgraph.WithLogging(*logAll),
		taskgraph.WithEmitter(emit.NewLogEmitter(os.Stdout, *jsonLog)),
	}

	if *sqlitePath != "" {
		st, err := store.NewSQLiteStore(*sqlitePath)
		if err != nil {
			log.Fatalf("opening sqlite store: %v", err)
		}
		defer st.Close()
		opts = append(opts, taskgraph.WithTraceStore(st))
	}

	e, err := taskgraph.New(g, opts...)
	if err != nil {
		log.Fatalf("taskgraph.New: %v", err)
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := e.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
	fmt.Printf("completed %d loops (run %s)\n", e.LoopsCompleted(), e.RunID())
}

func buildReferenceGraph(jitter bool) *taskgraph.Graph {
	g := taskgraph.NewGraph()
	work := func(label string, base time.Duration) taskgraph.Task {
		return func() {
			d := base
			if jitter {
				d += time.Duration(rand.Int63n(int64(base/5)+1)) - base/10
				if d < 0 {
					d = 0
				}
			}
			time.Sleep(d)
		}
	}
	durations := map[string]time.Duration{
		"A": 0, "a": 5 * time.Millisecond, "b": 5 * time.Millisecond, "c": 5 * time.Millisecond,
		"1": 5 * time.Millisecond, "2": 5 * time.Millisecond, "3": 5 * time.Millisecond, "4": 5 * time.Millisecond,
		"i": 5 * time.Millisecond, "j": 5 * time.Millisecond, "k": 5 * time.Millisecond,
		"x": 5 * time.Millisecond, "y": 5 * time.Millisecond, "Z": 0,
	}
	for _, label := range []string{"A", "a", "b", "c", "1", "2", "3", "4", "i", "j", "k", "x", "y", "Z"} {
		g.NewNode(label, work(label, durations[label]))
	}
	link := func(from, to string) { g.Link(g.Find(from), g.Find(to)) }

	link("A", "a")
	link("A", "1")
	link("A", "i")

	link("a", "b")
	link("b", "c")
	link("c", "x")

	link("1", "2")
	link("1", "3")
	link("2", "4")
	link("3", "4")
	link("4", "x")

	link("i", "j")
	link("j", "k")
	link("k", "y")

	link("x", "Z")
	link("y", "Z")

	return g
}
