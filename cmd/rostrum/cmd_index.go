package main

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/rostrum-dev/rostrum/internal/artifacts"
	"github.com/rostrum-dev/rostrum/internal/pipeline"
	"github.com/rostrum-dev/rostrum/internal/projectconfig"
)

var indexOutDir string

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the artifact index from the output directory",
		Long: `Rebuild index.json from the artifacts actually present in the output
directory. Useful after pruning or hand-editing artifacts; the run
command writes the index automatically.`,
		RunE: indexCommandE,
	}

	cmd.Flags().StringVar(&indexOutDir, "output-dir", "", "Directory holding artifacts (default from rostrum.yaml)")

	return cmd
}

func indexCommandE(cmd *cobra.Command, args []string) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	outDir := cfg.Paths.Output
	if indexOutDir != "" {
		outDir = indexOutDir
	}

	store := artifacts.NewStore(outDir)
	idx, err := pipeline.BuildIndex(store, time.Now())
	if err != nil {
		if errors.Is(err, artifacts.ErrNoRunMetadata) {
			return fmt.Errorf("%w (run 'rostrum run' first)", err)
		}
		return fmt.Errorf("failed to build index: %w", err)
	}
	if err := store.WriteIndex(idx); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	taskIDs := make([]string, 0, len(idx.Tasks))
	for id := range idx.Tasks {
		taskIDs = append(taskIDs, id)
	}
	sort.Strings(taskIDs)

	w := cmd.OutOrStdout()
	total := 0
	for _, id := range taskIDs {
		entry := idx.Tasks[id]
		fmt.Fprintf(w, "%s %d artifact(s)\n", padRight(id, 28), len(entry.Artifacts)) //nolint:errcheck
		total += len(entry.Artifacts)
	}
	fmt.Fprintf(w, "\n%s indexed %d artifact(s) across %d task(s)\n", okColor("✓"), total, len(idx.Tasks)) //nolint:errcheck

	return nil
}
