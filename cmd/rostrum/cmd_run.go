package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rostrum-dev/rostrum/internal/aggregate"
	"github.com/rostrum-dev/rostrum/internal/artifacts"
	"github.com/rostrum-dev/rostrum/internal/canonical"
	"github.com/rostrum-dev/rostrum/internal/dataset"
	"github.com/rostrum-dev/rostrum/internal/pipeline"
	"github.com/rostrum-dev/rostrum/internal/projectconfig"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

var (
	runDataDir    string
	runOutDir     string
	runTaskIDs    []string
	runWorkers    int
	runDryRun     bool
	runNoProgress bool
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full precompute pipeline",
		Long: `Run the full precompute pipeline over the data directory.

Every filter combination of every selected task is aggregated, ranked,
and written as one JSON artifact, followed by consolidated per-task
views and the artifact index. An existing output directory is updated
in place.`,
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&runDataDir, "data-dir", "", "Directory holding raw result files (default from rostrum.yaml)")
	cmd.Flags().StringVar(&runOutDir, "output-dir", "", "Directory to write artifacts to (default from rostrum.yaml)")
	cmd.Flags().StringArrayVar(&runTaskIDs, "task", nil, "Task to precompute (can be repeated, default: all)")
	cmd.Flags().IntVar(&runWorkers, "workers", 0, "Number of concurrent combination workers (default from rostrum.yaml)")
	cmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Compute every combination but write nothing")
	cmd.Flags().BoolVar(&runNoProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	// CLI flags override config values
	dataDir := cfg.Paths.Data
	if runDataDir != "" {
		dataDir = runDataDir
	}
	outDir := cfg.Paths.Output
	if runOutDir != "" {
		outDir = runOutDir
	}
	workers := cfg.Run.Workers
	if runWorkers > 0 {
		workers = runWorkers
	}
	taskIDs := cfg.Run.Tasks
	if len(runTaskIDs) > 0 {
		taskIDs = runTaskIDs
	}

	selected, err := resolveTasks(taskIDs)
	if err != nil {
		return err
	}

	canon, err := canonical.New()
	if err != nil {
		return fmt.Errorf("failed to load canonicalization tables: %w", err)
	}

	store := artifacts.NewStore(outDir)
	loader := dataset.NewLoader(dataDir)

	opts := []pipeline.Option{
		pipeline.WithWorkers(workers),
		pipeline.WithDryRun(runDryRun),
	}
	if len(selected) > 0 {
		opts = append(opts, pipeline.WithTasks(selected))
	}
	runner := pipeline.New(loader, aggregate.New(canon), canon, store, opts...)

	if !runNoProgress && term.IsTerminal(int(os.Stderr.Fd())) {
		runner.OnProgress(newProgressReporter().listen)
	} else {
		runner.OnProgress(plainProgressListener)
	}

	fmt.Printf("Data directory:   %s\n", dataDir)
	fmt.Printf("Output directory: %s\n", outDir)
	fmt.Printf("Workers:          %d\n", workers)
	if len(selected) > 0 {
		ids := make([]string, 0, len(selected))
		for _, task := range selected {
			ids = append(ids, task.ID)
		}
		fmt.Printf("Tasks:            %s\n", strings.Join(ids, ", "))
	} else {
		fmt.Printf("Tasks:            all (%d)\n", len(tasks.All()))
	}
	if runDryRun {
		fmt.Println("Mode:             dry run (nothing will be written)")
	}
	fmt.Println()

	summary, err := runner.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	printRunSummary(os.Stdout, summary)

	// Return partial failure as error so main can map it to exit code 1
	if summary.Failed > 0 {
		return &PartialFailureError{
			Message: fmt.Sprintf("run completed with %d failed combination(s)", summary.Failed),
		}
	}

	return nil
}

// resolveTasks maps task IDs to descriptors. An empty list means no
// restriction, so callers can tell "all by default" from an explicit
// selection.
func resolveTasks(ids []string) ([]tasks.Descriptor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return tasks.Resolve(ids)
}

// plainProgressListener prints one line per task and per failure. It
// is the fallback when stderr is not a terminal.
func plainProgressListener(event pipeline.Event) {
	switch event.Type {
	case pipeline.EventTaskStart:
		fmt.Fprintf(os.Stderr, "precomputing %s (%d combinations)\n", event.Task, event.Total)
	case pipeline.EventCombinationDone:
		if event.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s/%s: %v\n", event.Task, event.Combination, event.Err)
		}
	}
}
