package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rostrum-dev/rostrum/internal/projectconfig"
	"github.com/rostrum-dev/rostrum/internal/validation"
)

var checkDataDir string

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate raw result files before a run",
		Long: `Validate every raw result file in the data directory against the
embedded JSON Schemas.

Problems that the pipeline would silently skip during a run (missing
model names, malformed metric values, unparseable lines) are reported
here as per-file findings instead. Exits 1 when any file has issues.`,
		RunE:          runCheck,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&checkDataDir, "data-dir", "", "Directory holding raw result files (default from rostrum.yaml)")
	cmd.Flags().String("format", "text", "Output format: text | json")

	return cmd
}

// --- JSON output structs ---

type checkJSONReport struct {
	Timestamp string           `json:"timestamp"`
	DataDir   string           `json:"dataDir"`
	Files     []fileJSONReport `json:"files"`
	Records   int              `json:"records"`
	Issues    int              `json:"issues"`
	Clean     bool             `json:"clean"`
}

type fileJSONReport struct {
	Path    string   `json:"path"`
	Records int      `json:"records"`
	Clean   bool     `json:"clean"`
	Issues  []string `json:"issues,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: expected text or json", format)
	}

	cfg, err := projectconfig.Load(".")
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}
	dataDir := cfg.Paths.Data
	if checkDataDir != "" {
		dataDir = checkDataDir
	}

	reports, err := validation.ValidateDataDir(dataDir)
	if err != nil {
		return fmt.Errorf("checking %s: %w", dataDir, err)
	}

	issueCount := 0
	for _, report := range reports {
		issueCount += len(report.Issues)
	}

	if format == "json" {
		if err := outputCheckJSON(cmd, dataDir, reports); err != nil {
			return err
		}
	} else {
		displayCheckReport(cmd.OutOrStdout(), dataDir, reports)
	}

	// Data violations map to exit code 1, not 2: the check itself ran fine
	if issueCount > 0 {
		return &PartialFailureError{
			Message: fmt.Sprintf("found %d issue(s) in %s", issueCount, dataDir),
		}
	}
	return nil
}

// outputCheckJSON marshals the file reports as JSON to the command's stdout.
func outputCheckJSON(cmd *cobra.Command, dataDir string, reports []validation.FileReport) error {
	jsonReport := checkJSONReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		DataDir:   dataDir,
		Files:     make([]fileJSONReport, 0, len(reports)),
		Clean:     true,
	}
	for _, r := range reports {
		jsonReport.Files = append(jsonReport.Files, fileJSONReport{
			Path:    r.Path,
			Records: r.Records,
			Clean:   r.Clean(),
			Issues:  r.Issues,
		})
		jsonReport.Records += r.Records
		jsonReport.Issues += len(r.Issues)
		if !r.Clean() {
			jsonReport.Clean = false
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}

type writer = interface{ Write([]byte) (int, error) }

// displayCheckReport renders the per-file findings as text.
//
//nolint:errcheck
func displayCheckReport(w writer, dataDir string, reports []validation.FileReport) {
	fmt.Fprintf(w, "\n🔍 Data Check: %s\n", dataDir)
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	if len(reports) == 0 {
		writeStatus(w, statusIcon("warning"), "no record files found")
		fmt.Fprintln(w)
		return
	}

	records, issues := 0, 0
	for _, report := range reports {
		records += report.Records
		issues += len(report.Issues)

		icon := statusIcon("ok")
		if !report.Clean() {
			icon = statusIcon("error")
		}
		fmt.Fprintf(w, "%s %s (%d record(s))\n", icon, report.Path, report.Records)
		for _, issue := range report.Issues {
			writeStatus(w, statusIcon("error"), issue)
		}
	}
	fmt.Fprintln(w)

	if issues == 0 {
		fmt.Fprintf(w, "%s %d file(s), %d record(s), no issues\n", statusIcon("ok"), len(reports), records)
	} else {
		fmt.Fprintf(w, "%s %d issue(s) across %d file(s)\n", statusIcon("error"), issues, len(reports))
	}
}

// writeStatus prints a status line: "   icon  message\n".
//
//nolint:errcheck
func writeStatus(w writer, icon, message string) {
	fmt.Fprintf(w, "   %s  %s\n", icon, message)
}

// statusIcon returns the standard 3-state icon for the given state.
func statusIcon(state string) string {
	switch state {
	case "ok":
		return "✅"
	case "warning":
		return "⚠️"
	case "error":
		return "❌"
	default:
		return "—"
	}
}
