package procmem

import "errors"

// ErrProbeGone indicates /proc/<pid>/maps could not be read, almost always
// because the process has already exited between the caller's liveness
// check and the probe.
var ErrProbeGone = errors.New("procmem: process memory map unavailable")
