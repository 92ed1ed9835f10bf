package replication

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePushPop(t *testing.T) {
	q := New(0)
	q.PushBack(LogRecord{Data: []byte("a")}, 1)
	q.PushBack(LogRecord{Data: []byte("b")}, 2)

	rec, lsn, ok := q.PopFront()
	require.True(t, ok)
	assert.Equal(t, LSN(1), lsn)
	assert.Equal(t, []byte("a"), rec.Data)

	rec, lsn, ok = q.PopFront()
	require.True(t, ok)
	assert.Equal(t, LSN(2), lsn)
	assert.Equal(t, []byte("b"), rec.Data)
}

func TestQueuePopFrontBlocksUntilPush(t *testing.T) {
	q := New(0)
	done := make(chan struct{})
	var gotLSN LSN
	go func() {
		_, lsn, ok := q.PopFront()
		if ok {
			gotLSN = lsn
		}
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	q.PushBack(LogRecord{}, 42)

	select {
	case <-done:
		assert.Equal(t, LSN(42), gotLSN)
	case <-time.After(time.Second):
		t.Fatal("PopFront never returned")
	}
}

func TestQueueAbortUnblocksWaiters(t *testing.T) {
	q := New(0)
	done := make(chan bool)
	go func() {
		_, _, ok := q.PopFront()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Abort()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Abort never unblocked PopFront")
	}
	assert.True(t, q.IsAborted())
}

func TestReplicatorAbortAllFansOut(t *testing.T) {
	r := NewReplicator()
	q1 := r.AddExecutor(1, 0)
	q2 := r.AddExecutor(2, 0)
	assert.True(t, r.IsRunning())

	r.AbortAll()
	assert.True(t, q1.IsAborted())
	assert.True(t, q2.IsAborted())
	assert.False(t, r.IsRunning())
}

func TestReplicatorBroadcast(t *testing.T) {
	r := NewReplicator()
	q1 := r.AddExecutor(1, 0)
	q2 := r.AddExecutor(2, 0)

	r.Broadcast(LogRecord{Data: []byte("x")}, 7)

	_, lsn, ok := q1.PopFront()
	require.True(t, ok)
	assert.Equal(t, LSN(7), lsn)

	_, lsn, ok = q2.PopFront()
	require.True(t, ok)
	assert.Equal(t, LSN(7), lsn)
}
