package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rostrum-dev/rostrum/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var useDefaults bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a rostrum project",
		Long: `Initialize a rostrum project: write a rostrum.yaml config and create
the data and output directories it names.

A guided wizard collects the paths, worker count, and task selection.
Use --defaults to skip the wizard and write the default configuration.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, useDefaults)
		},
	}

	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "Write the default configuration without prompting")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, useDefaults bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	// Create the root directory if it doesn't exist
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	answers := &wizard.Answers{}
	if !useDefaults {
		var err error
		answers, err = wizard.RunSetupWizard(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	configPath, err := wizard.WriteConfig(dir, answers)
	if err != nil {
		return err
	}

	cfg := answers.Config()
	dataDir := filepath.Join(dir, cfg.Paths.Data)
	outputDir := filepath.Join(dir, cfg.Paths.Output)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Initialized rostrum project:")                  //nolint:errcheck
	fmt.Fprintf(out, "  %s\n", configPath)                             //nolint:errcheck
	fmt.Fprintf(out, "  %s%c\n", dataDir, filepath.Separator)          //nolint:errcheck
	fmt.Fprintf(out, "  %s%c\n", outputDir, filepath.Separator)        //nolint:errcheck
	fmt.Fprintln(out)                                                  //nolint:errcheck
	fmt.Fprintf(out, "Drop raw result files under %s%c<task-id>%c and run 'rostrum run'.\n", //nolint:errcheck
		dataDir, filepath.Separator, filepath.Separator)

	return nil
}
