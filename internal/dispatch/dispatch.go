package dispatch

import (
	"log/slog"
	"net"

	"golang.org/x/sys/unix"

	"github.com/mitchelljqegan/process-overseer/internal/logsink"
	"github.com/mitchelljqegan/process-overseer/internal/monitor"
	"github.com/mitchelljqegan/process-overseer/internal/procmem"
	"github.com/mitchelljqegan/process-overseer/internal/shutdown"
	"github.com/mitchelljqegan/process-overseer/internal/supervisor"
	"github.com/mitchelljqegan/process-overseer/internal/sysmem"
	"github.com/mitchelljqegan/process-overseer/internal/types"
	"github.com/mitchelljqegan/process-overseer/internal/wire"
)

// Deps bundles everything a dispatched request needs, shared across every
// connection the worker pool processes.
type Deps struct {
	Store    *monitor.Store
	Shutdown *shutdown.Token
	Stdout   *logsink.Sink // always stdout; the per-connection line is never redirected
	TotalRAM func() (types.Bytes, error)
}

// NewDeps wires the default collaborators: a real stdout sink and the real
// sysmem.TotalBytes reader.
func NewDeps(store *monitor.Store, tok *shutdown.Token) Deps {
	return Deps{
		Store:    store,
		Shutdown: tok,
		Stdout:   logsink.Stdout(),
		TotalRAM: sysmem.TotalBytes,
	}
}

// Handle reads exactly one request frame from conn, logs its arrival, and
// routes it. Query responses close conn themselves after writing; exec and
// memkill close it immediately, before doing any further work, matching
// §4.F.
func Handle(conn net.Conn, peer string, deps Deps) error {
	buf := make([]byte, wire.MaxFrameSize)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		conn.Close()
		return nil
	}
	raw := string(buf[:n])

	if err := deps.Stdout.Logf("%s - connection received from %s\n", procmem.Now(), peer); err != nil {
		conn.Close()
		return &supervisor.FatalError{Err: err}
	}

	req := wire.ParseRequest(raw)
	switch req.Kind {
	case wire.KindQuery:
		defer conn.Close()
		return handleQuery(conn, deps, req.Query)
	case wire.KindMemkill:
		conn.Close()
		return handleMemkill(deps, req.Memkill.Percent)
	default:
		conn.Close()
		return handleExec(deps, req.Exec)
	}
}

func handleQuery(conn net.Conn, deps Deps, q wire.QueryRequest) error {
	if q.HasPID {
		samples := deps.Store.QueryByPID(q.PID)
		lines := make([]wire.PidSample, len(samples))
		for i, s := range samples {
			lines[i] = wire.PidSample{When: s.When, Bytes: uint64(s.Bytes)}
		}
		return wire.WriteQueryByPID(conn, lines)
	}
	entries := deps.Store.QueryAll()
	lines := make([]wire.PidAggregate, len(entries))
	for i, e := range entries {
		lines[i] = wire.PidAggregate{PID: e.PID, Bytes: uint64(e.Bytes), Argv: e.Argv}
	}
	return wire.WriteQueryAll(conn, lines)
}

func handleExec(deps Deps, e wire.ExecRequest) error {
	sink, err := logsink.Open(e.LogFile)
	if err != nil {
		return &supervisor.FatalError{Err: err}
	}
	defer sink.Close()

	return supervisor.Run(deps.Shutdown, deps.Store, sink, supervisor.Config{
		OutFile:          e.OutFile,
		LogFile:          e.LogFile,
		SIGTERMGraceSecs: e.SIGTERMGraceSecs,
		Argv:             e.Argv,
	})
}

// handleMemkill sends SIGKILL to every pid whose most recent sample is at
// or above threshold_percent of total physical RAM - a ">=" comparison,
// per kill_all_percent in the original source, so a pid sitting exactly at
// the threshold is killed too.
func handleMemkill(deps Deps, percent float64) error {
	total, err := deps.TotalRAM()
	if err != nil {
		return err
	}
	threshold := percent / 100 * float64(total)
	slog.Info("memkill requested", "percent", percent, "total_ram", total.Humanized(), "threshold", types.Bytes(threshold).Humanized())

	for _, e := range deps.Store.QueryAll() {
		if float64(e.Bytes) >= threshold {
			slog.Warn("memkill killing process", "pid", e.PID, "usage", e.Bytes.Humanized())
			if err := unix.Kill(e.PID, unix.SIGKILL); err != nil {
				return err
			}
		}
	}
	return nil
}
