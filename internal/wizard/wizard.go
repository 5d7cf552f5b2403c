// Package wizard implements the interactive project setup form behind
// rostrum init.
package wizard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/rostrum-dev/rostrum/internal/projectconfig"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

// Answers holds all fields collected during the interactive wizard.
type Answers struct {
	DataDir   string
	OutputDir string
	Workers   int
	Tasks     []string
}

// RunSetupWizard runs an interactive huh form to collect project
// settings, pre-populated with the configuration defaults.
func RunSetupWizard(in io.Reader, out io.Writer) (*Answers, error) {
	var (
		dataDir    = projectconfig.DefaultDataDir
		outputDir  = projectconfig.DefaultOutputDir
		workersRaw = strconv.Itoa(projectconfig.DefaultWorkers)
		tasksRaw   string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Data directory").
				Description("Where the raw result files live, one subdirectory per task").
				Placeholder(projectconfig.DefaultDataDir).
				Value(&dataDir).
				Validate(validateDirName),
			huh.NewInput().
				Title("Output directory").
				Description("Where precomputed leaderboard documents are written").
				Placeholder(projectconfig.DefaultOutputDir).
				Value(&outputDir).
				Validate(validateDirName),
			huh.NewInput().
				Title("Workers").
				Description("Concurrent combinations per task").
				Placeholder(strconv.Itoa(projectconfig.DefaultWorkers)).
				Value(&workersRaw).
				Validate(validateWorkers),
			huh.NewInput().
				Title("Tasks").
				Description("Comma-separated task ids to precompute (empty = all tasks)").
				Placeholder("code_generation, code_review").
				Value(&tasksRaw).
				Validate(validateTasks),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	workers, err := strconv.Atoi(strings.TrimSpace(workersRaw))
	if err != nil {
		return nil, fmt.Errorf("invalid worker count %q: %w", workersRaw, err)
	}

	return &Answers{
		DataDir:   strings.TrimSpace(dataDir),
		OutputDir: strings.TrimSpace(outputDir),
		Workers:   workers,
		Tasks:     splitAndTrim(tasksRaw),
	}, nil
}

// Config converts the collected answers into a ProjectConfig, with
// defaults filling anything left blank.
func (a *Answers) Config() *projectconfig.ProjectConfig {
	cfg := projectconfig.New()
	if a.DataDir != "" {
		cfg.Paths.Data = a.DataDir
	}
	if a.OutputDir != "" {
		cfg.Paths.Output = a.OutputDir
	}
	if a.Workers > 0 {
		cfg.Run.Workers = a.Workers
	}
	cfg.Run.Tasks = a.Tasks
	return cfg
}

// WriteConfig validates the answers and writes rostrum.yaml into dir.
// An existing config file is never overwritten.
func WriteConfig(dir string, a *Answers) (string, error) {
	path := filepath.Join(dir, projectconfig.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	cfg := a.Config()
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if err := cfg.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

func validateDirName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("directory is required")
	}
	return nil
}

func validateWorkers(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 1 || n > 64 {
		return fmt.Errorf("must be between 1 and 64")
	}
	return nil
}

func validateTasks(s string) error {
	for _, id := range splitAndTrim(s) {
		if _, ok := tasks.Lookup(id); !ok {
			return fmt.Errorf("unknown task %q", id)
		}
	}
	return nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
