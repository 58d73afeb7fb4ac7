package overseer

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_QueryAndShutdown(t *testing.T) {
	ln, err := Listen(0)
	require.NoError(t, err)

	srv := New(ln, 2)
	done := make(chan struct{})
	go func() {
		srv.Run()
		close(done)
	}()

	addr := ln.Addr().String()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)

	_, err = conn.Write([]byte("mem"))
	require.NoError(t, err)

	scanner := bufio.NewScanner(conn)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	assert.Empty(t, lines)

	srv.Shutdown()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down cleanly")
	}

	_, err = net.Dial("tcp", addr)
	assert.Error(t, err, "listener must be closed after shutdown")
}
