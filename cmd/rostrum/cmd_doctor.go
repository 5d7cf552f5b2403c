package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rostrum-dev/rostrum/internal/canonical"
	"github.com/rostrum-dev/rostrum/internal/dataset"
	"github.com/rostrum-dev/rostrum/internal/models"
	"github.com/rostrum-dev/rostrum/internal/projectconfig"
	"github.com/rostrum-dev/rostrum/internal/suggest"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

var (
	doctorDataDir string
	doctorTaskIDs []string
)

func newDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Report model spellings the alias table does not cover",
		Long: `Scan the raw result files for model names that are neither canonical,
aliased, nor excluded, and suggest close canonical names for each.

The report is advisory: suggestions are never applied automatically.
Fix a finding by adding an alias to the alias table or by correcting
the source file.`,
		RunE: doctorCommandE,
	}

	cmd.Flags().StringVar(&doctorDataDir, "data-dir", "", "Directory holding raw result files (default from rostrum.yaml)")
	cmd.Flags().StringArrayVar(&doctorTaskIDs, "task", nil, "Task to scan (can be repeated, default: all)")

	return cmd
}

func doctorCommandE(cmd *cobra.Command, args []string) error {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}
	dataDir := cfg.Paths.Data
	if doctorDataDir != "" {
		dataDir = doctorDataDir
	}

	selected, err := resolveTasks(doctorTaskIDs)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		selected = tasks.All()
	}

	canon, err := canonical.New()
	if err != nil {
		return fmt.Errorf("failed to load canonicalization tables: %w", err)
	}

	loader := dataset.NewLoader(dataDir)
	var records []models.RawRecord
	for _, task := range selected {
		taskRecords, err := loader.LoadTask(task)
		if err != nil {
			return fmt.Errorf("loading %s records: %w", task.ID, err)
		}
		records = append(records, taskRecords...)
	}

	w := cmd.OutOrStdout()
	findings := suggest.Scan(records, canon)
	if len(findings) == 0 {
		fmt.Fprintf(w, "%s scanned %d record(s), no unknown model spellings\n", okColor("✓"), len(records)) //nolint:errcheck
		return nil
	}

	fmt.Fprintf(w, "Found %d unknown model spelling(s) in %d record(s):\n\n", len(findings), len(records)) //nolint:errcheck
	for _, finding := range findings {
		fmt.Fprintf(w, "  %s (%d record(s))\n", finding.Model, finding.Records) //nolint:errcheck
		if len(finding.Candidates) == 0 {
			fmt.Fprintf(w, "      no close canonical name\n") //nolint:errcheck
			continue
		}
		names := make([]string, 0, len(finding.Candidates))
		for _, c := range finding.Candidates {
			names = append(names, fmt.Sprintf("%s (%.0f%%)", c.Name, c.Similarity*100))
		}
		fmt.Fprintf(w, "      did you mean: %s\n", strings.Join(names, ", ")) //nolint:errcheck
	}
	fmt.Fprintln(w, "\nAdd aliases for real models, or exclusions for scratch entries.") //nolint:errcheck

	return nil
}
