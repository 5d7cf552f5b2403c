package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/schollz/progressbar/v3"

	"github.com/rostrum-dev/rostrum/internal/pipeline"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

var (
	okColor   = color.New(color.FgGreen).SprintFunc()
	failColor = color.New(color.FgRed).SprintFunc()
)

// progressReporter renders a single progress bar spanning every
// combination of a run. Pipeline listeners are called from multiple
// goroutines, so all state lives behind the mutex.
type progressReporter struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newProgressReporter() *progressReporter {
	return &progressReporter{}
}

func (p *progressReporter) listen(event pipeline.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.Type {
	case pipeline.EventRunStart:
		p.bar = newCombinationBar(event.Total)
	case pipeline.EventCombinationDone:
		if p.bar != nil {
			_ = p.bar.Add(1)
		}
		if event.Err != nil {
			fmt.Fprintf(os.Stderr, "\n✗ %s/%s: %v\n", event.Task, event.Combination, event.Err)
		}
	case pipeline.EventRunComplete:
		if p.bar != nil {
			_ = p.bar.Finish()
			fmt.Fprintln(os.Stderr)
		}
	}
}

func newCombinationBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Precomputing combinations"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("combos"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)
}

// printRunSummary renders the end-of-run report: a per-task table, a
// leaderboard preview per task, the consolidated files, and totals.
//
//nolint:errcheck
func printRunSummary(w io.Writer, summary *pipeline.RunSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("═", 56))
	fmt.Fprintln(w, " PRECOMPUTE RESULTS")
	fmt.Fprintln(w, strings.Repeat("═", 56))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s %s %s %s\n",
		padRight("Task", 28), padRight("Combos", 8), padRight("OK", 6), "Failed")
	fmt.Fprintln(w, strings.Repeat("─", 56))
	for _, ts := range summary.Tasks {
		failed := fmt.Sprintf("%d", ts.Failed)
		if ts.Failed > 0 {
			failed = failColor(failed)
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			padRight(truncateName(ts.Task, 28), 28),
			padRight(fmt.Sprintf("%d", ts.Total), 8),
			padRight(fmt.Sprintf("%d", ts.Succeeded), 6),
			failed)
	}
	fmt.Fprintln(w)

	for _, ts := range summary.Tasks {
		if len(ts.Preview) == 0 {
			continue
		}
		fmt.Fprintf(w, "Top models, %s:\n", ts.Task)
		scoreColumn := ""
		if task, ok := tasks.Lookup(ts.Task); ok {
			scoreColumn = task.PrimaryMetric(false)
		}
		for _, row := range ts.Preview {
			score := ""
			if scoreColumn != "" {
				score = row.Columns[scoreColumn]
			}
			fmt.Fprintf(w, "  %d. %s %s\n", row.Rank, padRight(truncateName(row.Model, 30), 30), score)
		}
		fmt.Fprintln(w)
	}

	if len(summary.Consolidated) > 0 {
		fmt.Fprintf(w, "Consolidated files: %d\n", len(summary.Consolidated))
	}
	fmt.Fprintf(w, "Combinations:       %d\n", summary.TotalCount)
	fmt.Fprintf(w, "Duration:           %s\n", formatDuration(summary.Duration))
	fmt.Fprintln(w)

	switch {
	case summary.DryRun:
		fmt.Fprintf(w, "Dry run: %d combination(s) enumerated, nothing written\n", summary.TotalCount)
	case summary.Failed > 0:
		fmt.Fprintf(w, "%s %d of %d combination(s) failed\n", failColor("✗"), summary.Failed, summary.TotalCount)
	default:
		fmt.Fprintf(w, "%s all %d combination(s) written\n", okColor("✓"), summary.Succeeded)
	}
}

// formatDuration trims sub-millisecond noise from run durations.
func formatDuration(d time.Duration) string {
	if d >= time.Second {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(time.Millisecond).String()
}

// truncateName shortens a name to maxLen runes, appending … when truncated.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
