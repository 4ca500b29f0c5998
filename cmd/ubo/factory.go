package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/joss/ubo/internal/logging"
)

// CommandFunc defines the function signature for command execution.
type CommandFunc func(cmd *cobra.Command, args []string) error

// CommandConfig holds configuration for creating standardized commands.
type CommandConfig struct {
	Use     string
	Short   string
	Long    string
	Example string
	Args    cobra.PositionalArgs
	Action  string
	RunFunc CommandFunc
}

// newCommand creates a command that logs its outcome, turns panics into
// errors and always releases the record source.
func newCommand(a *app, cfg CommandConfig) *cobra.Command {
	return &cobra.Command{
		Use:     cfg.Use,
		Short:   cfg.Short,
		Long:    cfg.Long,
		Example: cfg.Example,
		Args:    cfg.Args,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			start := time.Now()
			err := logging.NewRecoveryHandler("cli").WrapError(func() error {
				return cfg.RunFunc(cmd, args)
			})
			if err != nil {
				a.log.Error("command_failed", map[string]any{"command": cfg.Action}, err)
				return err
			}
			a.log.TimedEvent("command_done", start, map[string]any{"command": cfg.Action})
			return nil
		},
	}
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
