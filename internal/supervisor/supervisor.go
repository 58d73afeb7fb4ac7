package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/mitchelljqegan/process-overseer/internal/logsink"
	"github.com/mitchelljqegan/process-overseer/internal/monitor"
	"github.com/mitchelljqegan/process-overseer/internal/procmem"
	"github.com/mitchelljqegan/process-overseer/internal/shutdown"
)

const (
	tick             = 250 * time.Millisecond
	sigkillGraceSecs = 5
)

// Config describes one exec request.
type Config struct {
	OutFile          string
	LogFile          string
	SIGTERMGraceSecs int
	// Argv is the full argument vector; Argv[0] is the file to execute.
	Argv []string
}

// FatalError marks an unrecoverable OS-call failure (signal, wait, log
// I/O). Per the
// design's error policy, the overseer must abort on this, not retry or
// swallow it.
type FatalError struct{ Err error }

func (e *FatalError) Error() string { return "supervisor: " + e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// logFatal writes a log line through sink and turns a write failure into a
// *FatalError, per the fatal-log-I/O policy (§4.E/§7): a supervisor must
// never swallow a log write failure.
func logFatal(sink *logsink.Sink, format string, args ...any) error {
	if err := sink.Logf(format, args...); err != nil {
		return &FatalError{Err: fmt.Errorf("log write: %w", err)}
	}
	return nil
}

// Run spawns and supervises one child to completion, appending memory
// samples to store and writing the exact log lines §4.E mandates to sink.
// It returns nil on any outcome that is not fatal to the overseer itself -
// including the child failing to exec, which is logged, not propagated.
func Run(tok *shutdown.Token, store *monitor.Store, sink *logsink.Sink, cfg Config) error {
	argvJoined := strings.Join(cfg.Argv, " ")
	if err := logFatal(sink, "%s - attempting to execute %s\n", procmem.Now(), argvJoined); err != nil {
		return err
	}

	var file string
	var args []string
	if len(cfg.Argv) > 0 {
		file = cfg.Argv[0]
		args = cfg.Argv[1:]
	}

	cmd := exec.Command(file, args...)
	if cfg.OutFile != "" {
		f, err := os.OpenFile(cfg.OutFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			if logErr := logFatal(sink, "%s - could not execute %s\n", procmem.Now(), argvJoined); logErr != nil {
				return logErr
			}
			return nil
		}
		defer f.Close()
		cmd.Stdout = f
		cmd.Stderr = f
	}

	if err := cmd.Start(); err != nil {
		if logErr := logFatal(sink, "%s - could not execute %s\n", procmem.Now(), argvJoined); logErr != nil {
			return logErr
		}
		return nil
	}
	pid := cmd.Process.Pid
	if err := logFatal(sink, "%s - %s has been executed with pid %d\n", procmem.Now(), argvJoined, pid); err != nil {
		return err
	}

	type reaped struct {
		state *os.ProcessState
		err   error
	}
	waitCh := make(chan reaped, 1)
	go func() {
		err := cmd.Wait()
		waitCh <- reaped{state: cmd.ProcessState, err: err}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	execTicks := 0
	sigtermSent := false
	sigkillSent := false
	sigtermGraceTicks := cfg.SIGTERMGraceSecs * 4
	sigkillDeadlineTicks := (cfg.SIGTERMGraceSecs + sigkillGraceSecs) * 4

	signalChild := func(sig syscall.Signal) error {
		if err := cmd.Process.Signal(sig); err != nil {
			return &FatalError{Err: fmt.Errorf("signal %v to pid %d: %w", sig, pid, err)}
		}
		return nil
	}

	for {
		select {
		case r := <-waitCh:
			return onReaped(sink, store, pid, r.state, r.err)
		default:
		}

		if !sigtermSent {
			switch {
			case tok.IsSet():
				if !sigkillSent {
					if err := signalChild(syscall.SIGKILL); err != nil {
						return err
					}
					sigkillSent = true
				}
				<-ticker.C
			case execTicks < sigtermGraceTicks:
				execTicks++
				if execTicks%4 == 0 {
					sampleOnce(store, pid, argvJoined)
				}
				<-ticker.C
			default:
				if err := signalChild(syscall.SIGTERM); err != nil {
					return err
				}
				sigtermSent = true
				if err := logFatal(sink, "%s - sent SIGTERM to %d\n", procmem.Now(), pid); err != nil {
					return err
				}
			}
			continue
		}

		switch {
		case tok.IsSet():
			if !sigkillSent {
				if err := signalChild(syscall.SIGKILL); err != nil {
					return err
				}
				sigkillSent = true
			}
			<-ticker.C
		case execTicks < sigkillDeadlineTicks:
			execTicks++
			<-ticker.C
		case !sigkillSent:
			if err := signalChild(syscall.SIGKILL); err != nil {
				return err
			}
			sigkillSent = true
			if err := logFatal(sink, "%s - sent SIGKILL to %d\n", procmem.Now(), pid); err != nil {
				return err
			}
		default:
			<-ticker.C
		}
	}
}

// onReaped handles the single terminal transition: the child has been
// waited on successfully (exit or signal death both count). It purges the
// store and writes the one termination log line every path shares.
func onReaped(sink *logsink.Sink, store *monitor.Store, pid int, state *os.ProcessState, waitErr error) error {
	store.Purge(pid)

	if state == nil {
		return &FatalError{Err: fmt.Errorf("wait pid %d: %w", pid, waitErr)}
	}

	exitCode := 0
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Exited() {
		exitCode = ws.ExitStatus()
	}
	// A signal-terminated child reports status code 0: WEXITSTATUS applied
	// to a signal-death status is conventionally 0, which is exactly what
	// the worked example (scenario 1) shows for a SIGTERM-killed child.

	return logFatal(sink, "%s - %d has terminated with status code %d\n", procmem.Now(), pid, exitCode)
}

// sampleOnce probes the child's current anonymous memory usage and appends
// a sample. A probe failure (the child exited between the tick check and
// the probe) is a benign, silently-skipped tick - not an error.
func sampleOnce(store *monitor.Store, pid int, argvJoined string) {
	bytes, err := procmem.MemUsed(pid)
	if err != nil {
		return
	}
	store.Append(monitor.Sample{PID: pid, When: procmem.Now(), Argv: argvJoined, Bytes: bytes})
}
