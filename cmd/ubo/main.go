// Package main provides the ubo CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/ubo/internal/logging"
)

var version = "0.1.0"

func main() {
	defer logging.Recover("cli")

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "ubo",
		Short: "Beneficial ownership resolution",
		Long: `ubo: resolve who ultimately owns a company.

Loads person-to-company ownerships and company-to-company parentships
from CSV, SQLite, Postgres or Memgraph, then walks the ownership graph
to find linked companies, ancestors, descendants and beneficial owners.

Settings come from the environment (and ~/.ubo/.env), an optional YAML
file given with --config, and flags, in increasing precedence.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	a.bindFlags(rootCmd)

	rootCmd.AddGroup(
		&cobra.Group{ID: "query", Title: "Query:"},
		&cobra.Group{ID: "analysis", Title: "Analysis:"},
		&cobra.Group{ID: "data", Title: "Data:"},
	)

	for _, c := range queryCmds(a) {
		c.GroupID = "query"
		rootCmd.AddCommand(c)
	}

	resolve := resolveCmd(a)
	resolve.GroupID = "analysis"
	rootCmd.AddCommand(resolve)

	analyze := analyzeCmd(a)
	analyze.GroupID = "analysis"
	rootCmd.AddCommand(analyze)

	imp := importCmd(a)
	imp.GroupID = "data"
	rootCmd.AddCommand(imp)

	stats := statsCmd(a)
	stats.GroupID = "data"
	rootCmd.AddCommand(stats)

	return rootCmd
}
