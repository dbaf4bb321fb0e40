package engine

import (
	"sync"

	orderbookv1 "github.com/devaa4522/Vortex-Engine/internal/domain/orderbook/v1"
)

// CommandQueue is an unbounded FIFO of admission commands. Push never
// blocks; Pop blocks until a command arrives or the queue is closed.
type CommandQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*orderbookv1.Command
	closed bool
}

// NewCommandQueue creates an empty open queue.
func NewCommandQueue() *CommandQueue {
	q := &CommandQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a command. Pushing to a closed queue is a no-op.
func (q *CommandQueue) Push(cmd *orderbookv1.Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, cmd)
	q.cond.Signal()
}

// Pop removes and returns the oldest command, blocking while the queue is
// empty. It returns ok=false once the queue is closed and drained.
func (q *CommandQueue) Pop() (*orderbookv1.Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	cmd := q.items[0]
	q.items = q.items[1:]
	return cmd, true
}

// Len returns the number of queued commands.
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close wakes every blocked Pop. Queued commands remain poppable until
// drained.
func (q *CommandQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}
