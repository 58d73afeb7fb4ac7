// Package supervisor runs the child-process state machine: spawn, sample
// memory once per wall-clock second, escalate SIGTERM then SIGKILL on a
// fixed schedule, and react immediately to overseer shutdown.
//
// Go's os/exec removes one whole layer of the original design: there is no
// raw fork() to hand-signal success over a pipe, and there is no
// waitpid(WNOHANG) returning a stale, unwritten status buffer while the
// child is still alive. cmd.Start() either returns a real error (exec
// failed) or a live child; a background goroutine calling cmd.Wait() only
// ever delivers a result once the child has genuinely been reaped, signal
// death included. That collapses what the original treats as a three-way
// branch (running, reaped-exited, reaped-signaled) into two: still running (the ladder
// below applies) or reaped (log the outcome and return). See DESIGN.md for
// the full reasoning.
package supervisor
