package overseer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/mitchelljqegan/process-overseer/internal/dispatch"
	"github.com/mitchelljqegan/process-overseer/internal/monitor"
	"github.com/mitchelljqegan/process-overseer/internal/queue"
	"github.com/mitchelljqegan/process-overseer/internal/shutdown"
	"github.com/mitchelljqegan/process-overseer/internal/supervisor"
)

// DefaultWorkers is the fixed worker-pool size; the source value is part
// of the contract for test determinism (§4.G), not a tuning knob.
const DefaultWorkers = 5

// Listen binds a TCP listener on port with SO_REUSEADDR and SO_REUSEPORT
// set, the Go equivalent of the source's listen_to(): a socket bound for
// address and port reuse. The listen backlog is not set here; it is the
// one net.ListenConfig.Listen picks (the system's somaxconn), not 10.
func Listen(port int) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			ctlErr := c.Control(func(fd uintptr) {
				if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
					sockErr = err
					return
				}
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if ctlErr != nil {
				return ctlErr
			}
			return sockErr
		},
	}
	return lc.Listen(context.Background(), "tcp4", fmt.Sprintf(":%d", port))
}

// Server is the overseer's lifecycle: accept loop, worker pool, queue and
// shutdown token, all scoped to one listener.
type Server struct {
	listener net.Listener
	queue    *queue.Queue
	shutdown *shutdown.Token
	stopSig  func()
	deps     dispatch.Deps
	workers  int
}

// New constructs a Server around an already-bound listener. It installs its
// own SIGINT handler via internal/shutdown.
func New(ln net.Listener, workers int) *Server {
	tok, stop := shutdown.New()
	store := monitor.New()
	return &Server{
		listener: ln,
		queue:    queue.New(),
		shutdown: tok,
		stopSig:  stop,
		deps:     dispatch.NewDeps(store, tok),
		workers:  workers,
	}
}

// Run starts the worker pool and the accept loop, then blocks until
// shutdown is observed, at which point it closes the listener, wakes every
// worker, joins them, and drains whatever is still queued. It returns once
// the overseer has fully quiesced.
func (s *Server) Run() {
	defer s.stopSig()

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker()
		}()
	}
	slog.Info("worker pool started", "workers", s.workers)

	go s.acceptLoop()
	slog.Info("listening", "addr", s.listener.Addr().String())

	<-s.shutdown.Done()
	slog.Info("shutdown observed, draining")

	s.listener.Close()
	s.queue.Broadcast()
	wg.Wait()
	s.queue.DrainAndClose()

	slog.Info("shutdown complete")
}

// Shutdown asserts the shutdown token programmatically. Production code
// relies on the SIGINT handler installed in New; this is exposed for
// tests and embedders that want to stop an overseer without a signal.
func (s *Server) Shutdown() {
	s.shutdown.Set()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Listener closed by the shutdown path; nothing left to accept.
			return
		}
		s.queue.Enqueue(&queue.Request{Peer: conn.RemoteAddr().String(), Conn: conn})
	}
}

func (s *Server) worker() {
	for {
		req, ok := s.queue.Dequeue(s.shutdown.IsSet)
		if !ok {
			return
		}
		if err := dispatch.Handle(req.Conn, req.Peer, s.deps); err != nil {
			var fatal *supervisor.FatalError
			if errors.As(err, &fatal) {
				slog.Error("fatal system error, aborting", "err", err)
				os.Exit(1)
			}
			slog.Warn("request handling failed", "peer", req.Peer, "err", err)
		}
	}
}
