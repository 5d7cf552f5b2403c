package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTasks_EmptySelectsAll(t *testing.T) {
	selected, err := resolveTasks(nil)
	require.NoError(t, err)
	assert.Nil(t, selected)
}

func TestResolveTasks_Valid(t *testing.T) {
	selected, err := resolveTasks([]string{"code_review", "web_generation"})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "code_review", selected[0].ID)
	assert.Equal(t, "web_generation", selected[1].ID)
}

func TestResolveTasks_Unknown(t *testing.T) {
	_, err := resolveTasks([]string{"code_review", "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown task "bogus"`)
	assert.Contains(t, err.Error(), "valid tasks: code_generation", "error must list the valid identifiers")
}

func TestRunCommand_UnknownTask(t *testing.T) {
	cmd := newRunCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--task", "no_such_task", "--no-progress"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown task "no_such_task"`)
}

func TestRunCommand_DryRunWritesNothing(t *testing.T) {
	dataDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "output")

	cmd := newRunCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"--data-dir", dataDir,
		"--output-dir", outDir,
		"--task", "code_review",
		"--dry-run",
		"--no-progress",
	})

	err := cmd.Execute()
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "combinations_metadata.json"))
	assert.True(t, os.IsNotExist(err), "dry run must not write metadata")
}

func TestRunCommand_WritesArtifacts(t *testing.T) {
	dataDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "output")

	// One record file so the unfiltered view has a row
	taskDir := filepath.Join(dataDir, "code_review")
	require.NoError(t, os.MkdirAll(taskDir, 0o755))
	record := `{"model_name": "GPT-4o", "metrics": {"llm_judge": {"GPT-4o": 4.5}}}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(taskDir, "results.jsonl"), []byte(record), 0o644))

	cmd := newRunCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"--data-dir", dataDir,
		"--output-dir", outDir,
		"--task", "code_review",
		"--workers", "2",
		"--no-progress",
	})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "combinations_metadata.json"))
	assert.FileExists(t, filepath.Join(outDir, "index.json"))
	assert.FileExists(t, filepath.Join(outDir, "code_review", "code_review.json"))
	assert.FileExists(t, filepath.Join(outDir, "consolidated", "code_review.json"))

	// code_review has three judge values plus the unfiltered view
	entries, err := os.ReadDir(filepath.Join(outDir, "code_review"))
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}
