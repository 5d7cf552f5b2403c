// Package projectconfig provides the ProjectConfig struct and loader for
// rostrum.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rostrum-dev/rostrum/internal/tasks"
)

// ConfigFileName is the project file the loader walks up looking for.
const ConfigFileName = "rostrum.yaml"

// Default values for project configuration. These are the single source
// of truth, New() references them and no other code should duplicate
// them.
const (
	DefaultDataDir   = "data"
	DefaultOutputDir = "output"

	DefaultWorkers = 4
)

// PathsConfig holds the data and output directory paths.
type PathsConfig struct {
	Data   string `yaml:"data,omitempty" validate:"required"`
	Output string `yaml:"output,omitempty" validate:"required"`
}

// RunConfig holds default pipeline run parameters.
type RunConfig struct {
	Workers int      `yaml:"workers,omitempty" validate:"min=1,max=64"`
	Tasks   []string `yaml:"tasks,omitempty" validate:"dive,taskid"`
}

// ProjectConfig is the top-level configuration loaded from rostrum.yaml.
type ProjectConfig struct {
	Paths PathsConfig `yaml:"paths,omitempty"`
	Run   RunConfig   `yaml:"run,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Data:   DefaultDataDir,
			Output: DefaultOutputDir,
		},
		Run: RunConfig{
			Workers: DefaultWorkers,
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("taskid", validateTaskIDTag); err != nil {
		panic(fmt.Sprintf("failed to register taskid validator: %v", err))
	}
	return v
}

// validateTaskIDTag reports whether a struct tag field names a known
// task.
func validateTaskIDTag(fl validator.FieldLevel) bool {
	_, ok := tasks.Lookup(fl.Field().String())
	return ok
}

// Validate checks the merged configuration against the struct tags.
func (c *ProjectConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Load finds rostrum.yaml by walking up from startDir (max 10 levels),
// unmarshals it, fills in missing fields with defaults, and validates
// the result. If no config file is found, returns defaults with a nil
// error. Real I/O errors (e.g. permission denied) are returned to the
// caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found, run on defaults
		}
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *ProjectConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ConfigFileName, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// findConfigFile walks up from dir looking for rostrum.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found.
// Propagates real I/O errors (e.g. permission denied) instead of
// silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Paths.Data != "" {
		dst.Paths.Data = src.Paths.Data
	}
	if src.Paths.Output != "" {
		dst.Paths.Output = src.Paths.Output
	}

	if src.Run.Workers != 0 {
		dst.Run.Workers = src.Run.Workers
	}
	if len(src.Run.Tasks) > 0 {
		dst.Run.Tasks = src.Run.Tasks
	}
}
