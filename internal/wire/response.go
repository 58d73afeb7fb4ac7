package wire

import (
	"fmt"
	"io"
)

// PidSample is one line of a query-by-pid response.
type PidSample struct {
	When  string
	Bytes uint64
}

// PidAggregate is one line of a query-all response.
type PidAggregate struct {
	PID   int
	Bytes uint64
	Argv  string
}

// WriteQueryByPID writes "TIMESTAMP BYTES\n" for each sample, in order.
func WriteQueryByPID(w io.Writer, samples []PidSample) error {
	for _, s := range samples {
		if _, err := fmt.Fprintf(w, "%s %d\n", s.When, s.Bytes); err != nil {
			return err
		}
	}
	return nil
}

// WriteQueryAll writes "PID BYTES ARGV\n" for each aggregate entry.
func WriteQueryAll(w io.Writer, entries []PidAggregate) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%d %d %s\n", e.PID, e.Bytes, e.Argv); err != nil {
			return err
		}
	}
	return nil
}
