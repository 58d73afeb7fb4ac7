// Command overseer is the long-running daemon: bind a port, accept
// controller connections, run each request through the fixed worker pool
// described in internal/overseer, and shut down cleanly on SIGINT.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mitchelljqegan/process-overseer/internal/overseer"
)

func main() {
	root := &cobra.Command{
		Use:           "overseer <port>",
		Short:         "Accept controller connections and supervise spawned processes",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(portArg string) error {
	port, err := strconv.Atoi(portArg)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", portArg)
	}

	ln, err := overseer.Listen(port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	srv := overseer.New(ln, overseer.DefaultWorkers)
	srv.Run()
	return nil
}
