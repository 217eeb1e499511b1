// Command reflow-bench stresses a synthetic reactive graph and reports
// throughput plus the runtime's Prometheus counters. It is a
// development tool for sizing graphs, not part of the library API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reflow-bench",
		Short: "Stress benchmark for the reflow reactive runtime",
		Long: `reflow-bench builds a synthetic reactive graph and hammers it
with concurrent writers.

The graph is a row of bindings feeding chains of computeds, with a
watcher on each chain tail. Writers mutate the bindings for the
configured duration; at the end the tool verifies that every chain
tail is consistent with its binding and dumps the collected
Prometheus metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reflow-bench %s (%s)\n", version, commit)
		},
	}
}
