package queue

import (
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := New()
	q.Enqueue(&Request{Peer: "a"})
	q.Enqueue(&Request{Peer: "b"})

	r1, ok := q.Dequeue(func() bool { return false })
	require.True(t, ok)
	assert.Equal(t, "a", r1.Peer)

	r2, ok := q.Dequeue(func() bool { return false })
	require.True(t, ok)
	assert.Equal(t, "b", r2.Peer)
}

func TestQueue_DequeueUnblocksOnShutdown(t *testing.T) {
	q := New()
	var shutdown atomic.Bool

	done := make(chan bool, 1)
	go func() {
		_, ok := q.Dequeue(shutdown.Load)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	shutdown.Store(true)
	q.Broadcast()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not unblock on shutdown broadcast")
	}
}

func TestQueue_DrainAndCloseClosesEveryConn(t *testing.T) {
	q := New()
	c1, s1 := net.Pipe()
	defer s1.Close()
	c2, s2 := net.Pipe()
	defer s2.Close()

	q.Enqueue(&Request{Peer: "a", Conn: c1})
	q.Enqueue(&Request{Peer: "b", Conn: c2})

	q.DrainAndClose()

	_, err := c1.Write([]byte("x"))
	assert.Error(t, err)
	_, err = c2.Write([]byte("x"))
	assert.Error(t, err)

	_, ok := q.Dequeue(func() bool { return true })
	assert.False(t, ok)
}
