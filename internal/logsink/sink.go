// Package logsink writes the byte-exact "TS - ...\n" lines the supervisor
// and dispatcher produce, to either stdout or an append-mode file.
//
// This is a distinct stream from the operator-facing log/slog output used
// elsewhere in the overseer: a test harness asserts on these bytes, so
// nothing else may share the destination.
package logsink

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Sink serializes writes to a single destination.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// Stdout returns a Sink that writes to os.Stdout.
func Stdout() *Sink {
	return &Sink{w: os.Stdout}
}

// Open returns a Sink appending to path, or Stdout() if path is empty.
func Open(path string) (*Sink, error) {
	if path == "" {
		return Stdout(), nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logsink: open %s: %w", path, err)
	}
	return &Sink{w: f, c: f}, nil
}

// Logf writes a formatted line and returns any write error. Callers are
// expected to include the trailing "\n" themselves, since the exact byte
// sequence is part of the wire contract. A non-nil return must be
// escalated by the caller rather than swallowed: log I/O failure is one
// of the OS-call failures the overseer treats as fatal.
func (s *Sink) Logf(format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, format, args...)
	return err
}

// Close releases the underlying file, if any. Closing a stdout sink is a no-op.
func (s *Sink) Close() error {
	if s.c == nil {
		return nil
	}
	return s.c.Close()
}
