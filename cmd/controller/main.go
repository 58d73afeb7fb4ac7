// Command controller is the trivial client: validate arguments, dial the
// overseer, send one request frame, and (for "mem") print whatever comes
// back until the connection closes.
package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

const usageLine = "Usage: controller <address> <port> {[-o out_file] [-log log_file] [-t seconds] <file> [arg...] | mem [pid] | memkill <percent>}"

// ErrUsage is returned by validateArgs on any malformed invocation; main
// prints the usage line to stderr and exits non-zero for it.
var ErrUsage = errors.New("usage error")

func main() {
	// The wire format's own flags (-o, -log, -t) collide with pflag's
	// shorthand-bundle scanner ("-log" reads as "-l -o -g"), so pflag must
	// never see these args at all: parsing happens by hand in run and
	// validateArgs, exactly as the source's validate_args does.
	root := &cobra.Command{
		Use:                "controller",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
	}

	if err := root.Execute(); err != nil {
		if errors.Is(err, errHelpRequested) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, usageLine)
		os.Exit(1)
	}
}

var errHelpRequested = errors.New("help requested")

func run(args []string) error {
	if len(args) >= 1 && args[0] == "--help" {
		fmt.Fprintln(os.Stdout, usageLine)
		return errHelpRequested
	}

	showMem, err := validateArgs(args)
	if err != nil {
		return err
	}

	addr, port := args[0], args[1]
	frame := strings.Join(args[2:], " ")

	conn, err := net.Dial("tcp", net.JoinHostPort(addr, port))
	if err != nil {
		return fmt.Errorf("could not connect to overseer at %s %s: %w", addr, port, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(frame)); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	if showMem {
		if _, err := io.Copy(os.Stdout, conn); err != nil {
			return fmt.Errorf("receive: %w", err)
		}
	}
	return nil
}

// validateArgs checks the invocation against the shape described by
// usageLine and reports whether it was a "mem" query (the only command
// whose response the controller waits for and prints).
//
// This is deliberately stricter than internal/wire's permissive frame
// decoder: the controller is the trivial client half of the system, so
// its own argument validation is allowed - expected, even - to reject
// what it can't make sense of, rather than degrade gracefully.
func validateArgs(args []string) (showMem bool, err error) {
	if len(args) < 3 {
		return false, fmt.Errorf("%w: need address, port and a command", ErrUsage)
	}
	if !isNum(args[1]) {
		return false, fmt.Errorf("%w: port must be numeric", ErrUsage)
	}

	rest := args[2:]
	switch rest[0] {
	case "mem":
		if len(rest) > 2 {
			return false, fmt.Errorf("%w: mem takes at most one pid", ErrUsage)
		}
		if len(rest) == 2 && !isNum(rest[1]) {
			return false, fmt.Errorf("%w: mem pid must be numeric", ErrUsage)
		}
		return true, nil
	case "memkill":
		if len(rest) != 2 {
			return false, fmt.Errorf("%w: memkill requires exactly one percent argument", ErrUsage)
		}
		if _, err := strconv.ParseFloat(rest[1], 64); err != nil {
			return false, fmt.Errorf("%w: memkill percent must be numeric", ErrUsage)
		}
		return false, nil
	default:
		return false, validateExecPrefix(rest)
	}
}

// validateExecPrefix enforces the same ordered, each-at-most-once flag
// prefix the wire format documents: [-o OUT] [-log LOG] [-t SECS] FILE.
func validateExecPrefix(tokens []string) error {
	i := 0
	if i < len(tokens) && tokens[i] == "-o" {
		i++
		if i >= len(tokens) {
			return fmt.Errorf("%w: -o requires a file", ErrUsage)
		}
		i++
	}
	if i < len(tokens) && tokens[i] == "-log" {
		i++
		if i >= len(tokens) {
			return fmt.Errorf("%w: -log requires a file", ErrUsage)
		}
		i++
	}
	if i < len(tokens) && tokens[i] == "-t" {
		i++
		if i >= len(tokens) {
			return fmt.Errorf("%w: -t requires a non-negative integer seconds", ErrUsage)
		}
		secs, err := strconv.Atoi(tokens[i])
		if err != nil || secs < 0 {
			return fmt.Errorf("%w: -t requires a non-negative integer seconds", ErrUsage)
		}
		i++
	}
	if i >= len(tokens) {
		return fmt.Errorf("%w: missing file to execute", ErrUsage)
	}
	return nil
}

// isNum mirrors the source's is_num: every character must be a digit (no
// sign, no decimal point).
func isNum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
