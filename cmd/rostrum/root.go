package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rostrum",
		Short: "Rostrum - leaderboard precompute pipeline",
		Long: `Rostrum turns raw model evaluation result files into the static
leaderboard documents a site serves directly.

It aggregates per-example records into ranked per-model rows for every
supported filter combination of every task, then writes one JSON
document per combination plus consolidated per-task views and an index.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newConsolidateCommand())
	cmd.AddCommand(newIndexCommand())
	cmd.AddCommand(newTasksCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newDoctorCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
