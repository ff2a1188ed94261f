package taskgraph

import "sync"

// readyQueue is the bounded-waits FIFO of nodes whose predecessors are all
// done (C3). It is guarded by a mutex and served by a condition variable,
// following the same Cond-over-mutex discipline as a dependency-counting
// ready queue (the "readyCond *sync.Cond" pattern): push appends and
// broadcasts, pop blocks on (length == 0 && active) and always re-checks
// its predicate after waking, since a broadcast wakes every waiter and a
// spurious wakeup must not be mistaken for real work.
//
// FIFO order is not required for correctness — only the DAG partial order
// is guaranteed — but it is a fairness property that makes traces
// reproducible up to worker-scheduler nondeterminism.
type readyQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*Node
	active bool
}

func newReadyQueue() *readyQueue {
	q := &readyQueue{active: true}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// pushBack appends n and wakes every blocked popFrontBlocking caller. The
// broadcast (not signal) is required because shutdown must wake all
// waiters, and an ordinary push while workers are already running is
// harmless — they simply observe length > 0 on their next check.
func (q *readyQueue) pushBack(n *Node) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
	q.cond.Broadcast()
}

// popFrontBlocking waits until a node is available or the queue has been
// deactivated, then returns the head node. ok is false only when the
// queue was deactivated with nothing left to drain — the caller should
// treat that as a shutdown signal and exit.
func (q *readyQueue) popFrontBlocking() (n *Node, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && q.active {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		// Woken because active went false and nothing was left to drain.
		return nil, false
	}
	n = q.items[0]
	q.items = q.items[1:]
	return n, true
}

// shutdown deactivates the queue and broadcasts so every blocked worker
// re-checks its predicate and exits. Called by the cycle controller on
// termination and by Engine.fail; calling it again after the queue is
// already inactive is harmless. Workers still drain nodes left in the
// queue before they exit.
func (q *readyQueue) shutdown() {
	q.mu.Lock()
	q.active = false
	q.mu.Unlock()
	q.cond.Broadcast()
}

// len reports the current queue depth. Used for metrics, not scheduling
// decisions.
func (q *readyQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
