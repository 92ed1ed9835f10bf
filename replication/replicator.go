package replication

import "sync"

// Replicator owns one queue per slave database id, fanning Abort out to
// every queue it tracks (Replicator.h's addExecutor/delExecutor/abortAll,
// spec.md §9's "explicit Abort fan-out to every waiting consumer").
type Replicator struct {
	mu      sync.Mutex
	queues  map[int64]*Queue // slave database id -> its queue
	running bool
}

// NewReplicator returns a Replicator with no executors registered.
func NewReplicator() *Replicator {
	return &Replicator{queues: map[int64]*Queue{}}
}

// AddExecutor registers slaveDatabaseID with capacity bounded queue,
// returning it (Replicator::addExecutor).
func (r *Replicator) AddExecutor(slaveDatabaseID int64, capacity int) *Queue {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := New(capacity)
	r.queues[slaveDatabaseID] = q
	r.running = true
	return q
}

// DelExecutor aborts and removes slaveDatabaseID's queue
// (Replicator::delExecutor).
func (r *Replicator) DelExecutor(slaveDatabaseID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.queues[slaveDatabaseID]; ok {
		q.Abort()
		delete(r.queues, slaveDatabaseID)
	}
	r.running = len(r.queues) > 0
}

// AbortAll stops every registered executor (Replicator::abortAll).
func (r *Replicator) AbortAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.queues {
		q.Abort()
	}
	r.running = false
}

// IsRunning reports whether the replicator is running
// (Replicator::isRunning): true after AddExecutor, false after AbortAll
// (even though the aborted queues stay registered) or once DelExecutor
// removes the last queue.
func (r *Replicator) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Broadcast pushes (record, lsn) onto every registered queue, used when a
// transaction commits a log record that every slave must eventually
// apply.
func (r *Replicator) Broadcast(record LogRecord, lsn LSN) {
	r.mu.Lock()
	queues := make([]*Queue, 0, len(r.queues))
	for _, q := range r.queues {
		queues = append(queues, q)
	}
	r.mu.Unlock()

	for _, q := range queues {
		q.PushBack(record, lsn)
	}
}
