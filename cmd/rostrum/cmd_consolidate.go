package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rostrum-dev/rostrum/internal/artifacts"
	"github.com/rostrum-dev/rostrum/internal/canonical"
	"github.com/rostrum-dev/rostrum/internal/consolidate"
	"github.com/rostrum-dev/rostrum/internal/projectconfig"
)

var (
	consolidateOutDir  string
	consolidateTaskIDs []string
)

func newConsolidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Rebuild consolidated per-task views from existing artifacts",
		Long: `Rebuild the consolidated per-task view files from the combination
artifacts already present in the output directory.

The run command consolidates automatically; this command exists for
refreshing the views without recomputing every combination.`,
		RunE: consolidateCommandE,
	}

	cmd.Flags().StringVar(&consolidateOutDir, "output-dir", "", "Directory holding artifacts (default from rostrum.yaml)")
	cmd.Flags().StringArrayVar(&consolidateTaskIDs, "task", nil, "Task to consolidate (can be repeated, default: all)")

	return cmd
}

func consolidateCommandE(cmd *cobra.Command, args []string) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	outDir := cfg.Paths.Output
	if consolidateOutDir != "" {
		outDir = consolidateOutDir
	}

	if _, err := resolveTasks(consolidateTaskIDs); err != nil {
		return err
	}

	canon, err := canonical.New()
	if err != nil {
		return fmt.Errorf("failed to load canonicalization tables: %w", err)
	}

	store := artifacts.NewStore(outDir)
	written, err := consolidate.New(store, canon).Run(consolidateTaskIDs)
	if err != nil {
		if errors.Is(err, artifacts.ErrNoRunMetadata) {
			return fmt.Errorf("%w (run 'rostrum run' first)", err)
		}
		return fmt.Errorf("consolidation failed: %w", err)
	}

	w := cmd.OutOrStdout()
	for _, name := range written {
		fmt.Fprintf(w, "wrote %s\n", name) //nolint:errcheck
	}
	fmt.Fprintf(w, "\n%s %d consolidated file(s) written to %s\n", okColor("✓"), len(written), store.Root()) //nolint:errcheck

	return nil
}
