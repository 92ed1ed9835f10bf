package session

import "sync"

// availability is the process-wide session-id -> alive map spec.md §4.9
// describes: set to false on any unrecoverable error reported by a
// session, queried by the admission gate to fail fast on an
// already-poisoned session rather than letting it accept new work.
type availability struct {
	mu   sync.RWMutex
	bad  map[int64]bool
	down bool
}

var Availability = &availability{bad: map[int64]bool{}}

// MarkUnavailable flips a single session's entry to unavailable.
func (a *availability) MarkUnavailable(sessionID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bad[sessionID] = true
}

// IsAvailable reports whether sessionID is still usable: false once the
// server is shut down or the id has been marked unavailable, true
// otherwise, so an id absent from the map is available.
func (a *availability) IsAvailable(sessionID int64) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.down {
		return false
	}
	return !a.bad[sessionID]
}

// Forget drops a finished session's entry so the map doesn't grow
// unboundedly across a long-running server's lifetime.
func (a *availability) Forget(sessionID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.bad, sessionID)
}

// Shutdown flips the process-wide flag: spec.md §7's fatal-error path
// (memory-exhaust, unexpected) calls this once, after which every new
// admission fails with errs.ServerNotAvailable regardless of session id.
func (a *availability) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.down = true
}

func (a *availability) IsShutdown() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.down
}
