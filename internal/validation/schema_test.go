package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/rostrum-dev/rostrum/internal/tasks"
)

const validRecordJSON = `{
  "model_name": "GPT-4o",
  "lang": "Python",
  "dataset": "HumanEval",
  "difficulty": "Easy",
  "prompt_category": ["Algorithms"],
  "metrics": {
    "pass@1": [1, 0, 1],
    "codebleu": 0.42,
    "llm_judge": {"GPT-4o": 4.5},
    "accuracy": "85.2%"
  }
}`

const invalidRecordJSON = `{
  "lang": "Python",
  "metrics": {"pass@1": true}
}`

const validDetectionJSON = `{
  "GPT-4o": {"knowledge": "Memory Safety", "P-C": 37.5, "P-V": 40.1, "accuracy": "85%"},
  "Claude-3.5-Sonnet": {"category": "Concurrency", "P-C": 22.0}
}`

const invalidDetectionJSON = `{"GPT-4o": "not an object"}`

func TestValidateRecordBytes_Valid(t *testing.T) {
	errs := ValidateRecordBytes([]byte(validRecordJSON))
	require.Empty(t, errs, "valid record should have no errors")
}

func TestValidateRecordBytes_Invalid(t *testing.T) {
	errs := ValidateRecordBytes([]byte(invalidRecordJSON))
	require.NotEmpty(t, errs, "invalid record should have errors")

	joined := joinErrs(errs)
	require.Contains(t, joined, "model_name")
	require.Contains(t, joined, "/metrics/pass@1")
}

func TestValidateRecordBytes_ParseError(t *testing.T) {
	errs := ValidateRecordBytes([]byte("{not json"))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "JSON parse error")
}

func TestValidateDetectionBytes_Valid(t *testing.T) {
	errs := ValidateDetectionBytes([]byte(validDetectionJSON))
	require.Empty(t, errs, "valid detection document should have no errors")
}

func TestValidateDetectionBytes_Invalid(t *testing.T) {
	errs := ValidateDetectionBytes([]byte(invalidDetectionJSON))
	require.NotEmpty(t, errs)
	require.Contains(t, joinErrs(errs), "/GPT-4o")
}

func TestValidateFile_JSONL(t *testing.T) {
	dir := t.TempDir()
	content := "{not json\n" +
		`{"model_name": "GPT-4o", "metrics": {"pass@1": [1]}}` + "\n" +
		"\n" +
		`{"lang": "Go"}` + "\n"
	path := filepath.Join(dir, "results.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	report, err := ValidateFile(path, tasks.FamilyPassRate)
	require.NoError(t, err)
	require.Equal(t, 3, report.Records, "blank lines are not records")
	require.Len(t, report.Issues, 2)
	require.Contains(t, report.Issues[0], "line 1: ")
	require.Contains(t, report.Issues[1], "line 4: ")
	require.Contains(t, report.Issues[1], "model_name")
}

func TestValidateFile_JSONArray(t *testing.T) {
	dir := t.TempDir()
	content := `[
  {"model_name": "GPT-4o", "metrics": {"pass@1": [1, 0]}},
  {"metrics": {}}
]`
	path := filepath.Join(dir, "results.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	report, err := ValidateFile(path, tasks.FamilyPassRate)
	require.NoError(t, err)
	require.Equal(t, 2, report.Records)
	require.Len(t, report.Issues, 1)
	require.Contains(t, report.Issues[0], "record 2: ")
}

func TestValidateFile_NestedDetection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cweval.json")
	require.NoError(t, os.WriteFile(path, []byte(validDetectionJSON), 0644))

	report, err := ValidateFile(path, tasks.FamilyClassification)
	require.NoError(t, err)
	require.True(t, report.Clean())
	require.Equal(t, 2, report.Records, "one record per model entry")
}

func TestValidateFile_NestedRejectedForFlatFamily(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")
	require.NoError(t, os.WriteFile(path, []byte(validDetectionJSON), 0644))

	report, err := ValidateFile(path, tasks.FamilyPassRate)
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	require.Contains(t, report.Issues[0], "expected an array of records")
}

func TestValidateFile_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.jsonl.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(`{"model_name": "GPT-4o", "metrics": {"pass@1": [1]}}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	report, err := ValidateFile(path, tasks.FamilyPassRate)
	require.NoError(t, err)
	require.True(t, report.Clean())
	require.Equal(t, 1, report.Records)
}

func TestValidateFile_NotFound(t *testing.T) {
	_, err := ValidateFile("/nonexistent/results.jsonl", tasks.FamilyPassRate)
	require.Error(t, err)
}

func TestValidateDataDir(t *testing.T) {
	dataDir := t.TempDir()

	genDir := filepath.Join(dataDir, "code_generation")
	require.NoError(t, os.MkdirAll(genDir, 0755))
	content := `{"model_name": "GPT-4o", "metrics": {"pass@1": [1]}}` + "\n" +
		`{"lang": "Go"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(genDir, "results.jsonl"), []byte(content), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(genDir, "notes.txt"), []byte("ignore me"), 0644))

	vulnDir := filepath.Join(dataDir, "vulnerability_detection")
	require.NoError(t, os.MkdirAll(vulnDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(vulnDir, "cweval.json"), []byte(validDetectionJSON), 0644))

	reports, err := ValidateDataDir(dataDir)
	require.NoError(t, err)
	require.Len(t, reports, 2, "only record files of known tasks are checked")

	byPath := make(map[string]FileReport, len(reports))
	for _, r := range reports {
		byPath[r.Path] = r
	}

	gen, ok := byPath["code_generation/results.jsonl"]
	require.True(t, ok, "report paths are relative and forward-slashed")
	require.Len(t, gen.Issues, 1)

	vuln, ok := byPath["vulnerability_detection/cweval.json"]
	require.True(t, ok)
	require.True(t, vuln.Clean())
}

func TestValidateDataDir_MissingDirsSkipped(t *testing.T) {
	reports, err := ValidateDataDir(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, reports)
}

func joinErrs(errs []string) string {
	result := ""
	for _, e := range errs {
		result += e + "\n"
	}
	return result
}
