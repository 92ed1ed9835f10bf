// Package locator implements positioned, in-place access to a single
// large field value (e.g. a BLOB/CLOB column) without materializing it
// whole, grounded on Kernel/Execution/Operator/FileFetch.cpp's GetLocator
// variant and the Driver/FullText2 locator usage in the example pack.
package locator

import (
	"context"
	"fmt"
	"sync"
)

// Locator is a cursor onto one field's storage, obtained from a
// fileaccess.FileAccess via GetLocator. It is intentionally narrow: large
// values are read/written in spans rather than as one []byte.
type Locator interface {
	ID() int
	Length(ctx context.Context) (int64, error)
	Get(ctx context.Context, offset, length int64) ([]byte, error)
	Append(ctx context.Context, data []byte) error
	Truncate(ctx context.Context, length int64) error
	Replace(ctx context.Context, offset int64, data []byte) error
	// Unlatch releases the locator's hold on its underlying file access
	// handle. Callers should obtain one via WithUnlatch to guarantee this
	// runs even on an error path.
	Unlatch() error
}

// memLocator is the reference Locator used by the flat-file `record`
// fileaccess backend, and in tests. It guards its buffer with a mutex
// since a locator may be shared across goroutines within one worker fan-out
// (see worker package).
type memLocator struct {
	id  int
	mu  sync.Mutex
	buf []byte
	// unlatch, if set, is called exactly once by Unlatch.
	unlatch func() error
	done    bool
}

// New returns a Locator backed by an in-memory buffer. unlatch is invoked
// once when the locator is released; pass nil if nothing needs releasing.
func New(id int, initial []byte, unlatch func() error) Locator {
	buf := make([]byte, len(initial))
	copy(buf, initial)
	return &memLocator{id: id, buf: buf, unlatch: unlatch}
}

func (l *memLocator) ID() int { return l.id }

func (l *memLocator) Length(ctx context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return int64(len(l.buf)), nil
}

func (l *memLocator) Get(ctx context.Context, offset, length int64) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if offset < 0 || offset > int64(len(l.buf)) {
		return nil, fmt.Errorf("locator: offset %d out of range (len %d)", offset, len(l.buf))
	}
	end := offset + length
	if end > int64(len(l.buf)) {
		end = int64(len(l.buf))
	}
	out := make([]byte, end-offset)
	copy(out, l.buf[offset:end])
	return out, nil
}

func (l *memLocator) Append(ctx context.Context, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = append(l.buf, data...)
	return nil
}

func (l *memLocator) Truncate(ctx context.Context, length int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if length < 0 || length > int64(len(l.buf)) {
		return fmt.Errorf("locator: truncate length %d out of range (len %d)", length, len(l.buf))
	}
	l.buf = l.buf[:length]
	return nil
}

func (l *memLocator) Replace(ctx context.Context, offset int64, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if offset < 0 || offset+int64(len(data)) > int64(len(l.buf)) {
		return fmt.Errorf("locator: replace span [%d,%d) out of range (len %d)", offset, offset+int64(len(data)), len(l.buf))
	}
	copy(l.buf[offset:], data)
	return nil
}

func (l *memLocator) Unlatch() error {
	l.mu.Lock()
	already := l.done
	l.done = true
	fn := l.unlatch
	l.mu.Unlock()
	if already || fn == nil {
		return nil
	}
	return fn()
}

// WithUnlatch runs fn with loc and always calls loc.Unlatch afterward,
// RAII-style, regardless of whether fn returns an error — mirroring the
// AutoRecoverer pattern used elsewhere in this module for guaranteed
// release-on-scope-exit.
func WithUnlatch(loc Locator, fn func(Locator) error) error {
	err := fn(loc)
	if uerr := loc.Unlatch(); uerr != nil && err == nil {
		err = uerr
	}
	return err
}
