// Package replication is the bounded, condition-variable-signaled FIFO
// the session/transaction layer hands committed log records to (spec.md
// §9 DESIGN NOTES, supplemented from
// original_source/sydney/Kernel/Admin/Admin/Replicator.h's Queue), and
// the (stubbed, out-of-scope) replica applier only consumes from it — the
// queue's push/pop/abort discipline is in scope, the apply logic is not.
package replication

import (
	"sync"
)

// LSN is a log sequence number, opaque to this package.
type LSN uint64

// LogRecord is an opaque committed log entry; the storage/log manager
// that produces its content is out of scope here (spec.md §1).
type LogRecord struct {
	Data []byte
}

// entry is one queued (LogRecord, LSN) pair, mirroring the original's
// ModPair<Trans::Log::Data*, Trans::Log::LSN>.
type entry struct {
	record LogRecord
	lsn    LSN
}

// Queue is a condition-variable-signaled FIFO bounded at capacity
// (Replicator.h's Queue, grounded on Go's sync.Cond instead of
// Os::CriticalSection + Os::Event). PushBack blocks while the queue is
// full; PopFront blocks while it is empty; Abort wakes every blocked
// waiter and makes all subsequent PopFront calls return immediately with
// ok=false.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items    []entry
	capacity int

	aborted bool
	refs    int
}

// New returns an empty queue bounded at capacity items; capacity <= 0
// means unbounded (PushBack never blocks).
func New(capacity int) *Queue {
	q := &Queue{capacity: capacity}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Attach increments the queue's reference count (Replicator::Queue::
// attach), used by multiple replica executors sharing one master's
// queue.
func (q *Queue) Attach() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.refs++
	return q.refs
}

// Detach decrements the reference count (Replicator::Queue::detach).
func (q *Queue) Detach() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.refs--
	return q.refs
}

// PushBack appends a (record, lsn) pair, blocking while the queue is at
// capacity. It is a no-op once the queue has been aborted.
func (q *Queue) PushBack(record LogRecord, lsn LSN) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.aborted {
		return
	}
	for q.capacity > 0 && len(q.items) >= q.capacity && !q.aborted {
		q.notFull.Wait()
	}
	if q.aborted {
		return
	}
	q.items = append(q.items, entry{record, lsn})
	q.notEmpty.Signal()
}

// PopFront removes and returns the oldest pair, blocking while the queue
// is empty. ok is false if the queue is empty and Abort has been called
// with nothing left to drain.
func (q *Queue) PopFront() (record LogRecord, lsn LSN, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.aborted {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		return LogRecord{}, 0, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	q.notFull.Signal()
	return e.record, e.lsn, true
}

// Abort wakes every blocked PushBack/PopFront waiter and marks the queue
// permanently drained-on-empty (Replicator::Queue::abort); already-queued
// entries are still delivered by PopFront before it starts returning
// ok=false.
func (q *Queue) Abort() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.aborted = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// IsAborted reports whether Abort has been called.
func (q *Queue) IsAborted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.aborted
}

// Len reports the number of pairs currently queued, for tests and
// diagnostics.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
