package projectconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assertEqual(t, "Paths.Data", "data", cfg.Paths.Data)
	assertEqual(t, "Paths.Output", "output", cfg.Paths.Output)
	assertEqualInt(t, "Run.Workers", 4, cfg.Run.Workers)
	if cfg.Run.Tasks != nil {
		t.Errorf("Run.Tasks = %v, want nil", cfg.Run.Tasks)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rostrum.yaml", `
paths:
  data: "raw-results"
  output: "public/leaderboard"
run:
  workers: 8
  tasks:
    - code_review
    - web_generation
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Paths.Data", "raw-results", cfg.Paths.Data)
	assertEqual(t, "Paths.Output", "public/leaderboard", cfg.Paths.Output)
	assertEqualInt(t, "Run.Workers", 8, cfg.Run.Workers)
	if len(cfg.Run.Tasks) != 2 || cfg.Run.Tasks[0] != "code_review" || cfg.Run.Tasks[1] != "web_generation" {
		t.Errorf("Run.Tasks = %v, want [code_review web_generation]", cfg.Run.Tasks)
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rostrum.yaml", `
run:
  workers: 2
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Overridden
	assertEqualInt(t, "Run.Workers", 2, cfg.Run.Workers)

	// Defaults preserved
	assertEqual(t, "Paths.Data", "data", cfg.Paths.Data)
	assertEqual(t, "Paths.Output", "output", cfg.Paths.Output)
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	defaults := New()
	assertEqual(t, "Paths.Data", defaults.Paths.Data, cfg.Paths.Data)
	assertEqual(t, "Paths.Output", defaults.Paths.Output, cfg.Paths.Output)
	assertEqualInt(t, "Run.Workers", defaults.Run.Workers, cfg.Run.Workers)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rostrum.yaml", `
run:
  workers: [not valid yaml
    this is broken
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for invalid YAML")
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rostrum.yaml", `
paths:
  data: "found-it"
`)

	child := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(child)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Paths.Data", "found-it", cfg.Paths.Data)
	// Other defaults still populated
	assertEqual(t, "Paths.Output", "output", cfg.Paths.Output)
}

func TestLoad_UnknownTaskRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rostrum.yaml", `
run:
  tasks:
    - no_such_task
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should reject unknown task ids")
	}
	if !strings.Contains(err.Error(), "taskid") {
		t.Errorf("error %q should mention the failing taskid validation", err)
	}
}

func TestLoad_NegativeWorkersRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rostrum.yaml", `
run:
  workers: -2
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should reject negative worker counts")
	}
}

func TestValidate_DefaultsPass(t *testing.T) {
	if err := New().Validate(); err != nil {
		t.Fatalf("Validate() on defaults: %v", err)
	}
}

func TestSave_Roundtrip(t *testing.T) {
	dir := t.TempDir()

	cfg := New()
	cfg.Paths.Output = "site/data"
	cfg.Run.Workers = 6
	cfg.Run.Tasks = []string{"code_generation"}

	if err := cfg.Save(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	assertEqual(t, "Paths.Output", "site/data", loaded.Paths.Output)
	assertEqualInt(t, "Run.Workers", 6, loaded.Run.Workers)
	if len(loaded.Run.Tasks) != 1 || loaded.Run.Tasks[0] != "code_generation" {
		t.Errorf("Run.Tasks = %v, want [code_generation]", loaded.Run.Tasks)
	}
}

// --- test helpers ---

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}
