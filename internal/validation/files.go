package validation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/rostrum-dev/rostrum/internal/tasks"
)

// maxLineBytes matches the loader's per-line bound so the checker
// accepts exactly what the pipeline will read.
const maxLineBytes = 4 * 1024 * 1024

// FileReport holds the findings for one record file.
type FileReport struct {
	Path    string   // forward-slashed, relative to the data directory
	Records int      // records inspected
	Issues  []string // empty when the file is clean
}

// Clean reports whether the file produced no findings.
func (r FileReport) Clean() bool { return len(r.Issues) == 0 }

// ValidateDataDir checks every record file of every known task under
// dataDir. Tasks without a data directory are skipped; the pipeline
// treats those as empty, not broken.
func ValidateDataDir(dataDir string) ([]FileReport, error) {
	var reports []FileReport
	for _, task := range tasks.All() {
		dir := filepath.Join(dataDir, task.ID)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading task data directory %s: %w", dir, err)
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() && isRecordFile(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			report, err := ValidateFile(filepath.Join(dir, name), task.Family)
			if err != nil {
				return nil, err
			}
			report.Path = path.Join(task.ID, name)
			reports = append(reports, report)
		}
	}
	return reports, nil
}

// ValidateFile checks one record file. The task family selects the
// accepted document shapes: classification tasks may use the nested
// model-keyed layout, every family accepts JSONL and JSON arrays.
func ValidateFile(fsPath string, family tasks.Family) (FileReport, error) {
	report := FileReport{Path: fsPath}

	f, err := os.Open(fsPath)
	if err != nil {
		return report, err
	}
	defer f.Close()

	var r io.Reader = f
	base := fsPath
	if strings.HasSuffix(fsPath, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return report, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
		base = strings.TrimSuffix(fsPath, ".gz")
	}

	if strings.HasSuffix(base, ".jsonl") {
		return checkLines(r, report)
	}
	return checkDocument(r, report, family)
}

func isRecordFile(name string) bool {
	base := strings.TrimSuffix(name, ".gz")
	return strings.HasSuffix(base, ".jsonl") || strings.HasSuffix(base, ".json")
}

func checkLines(r io.Reader, report FileReport) (FileReport, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		report.Records++
		prefix := fmt.Sprintf("line %d: ", lineNo)
		report.Issues = append(report.Issues, prefixIssues(prefix, ValidateRecordBytes([]byte(line)))...)
	}
	if err := scanner.Err(); err != nil {
		return report, fmt.Errorf("scanning %s: %w", report.Path, err)
	}
	return report, nil
}

func checkDocument(r io.Reader, report FileReport, family tasks.Family) (FileReport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return report, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		report.Issues = append(report.Issues, fmt.Sprintf("JSON parse error: %v", err))
		return report, nil
	}

	switch v := doc.(type) {
	case []any:
		for i, item := range v {
			report.Records++
			prefix := fmt.Sprintf("record %d: ", i+1)
			report.Issues = append(report.Issues, prefixIssues(prefix, validateAgainstSchema(recordSchema, item))...)
		}
	case map[string]any:
		if family != tasks.FamilyClassification {
			report.Issues = append(report.Issues, "/: expected an array of records")
			return report, nil
		}
		report.Records = len(v)
		report.Issues = append(report.Issues, validateAgainstSchema(detectionSchema, doc)...)
	default:
		report.Issues = append(report.Issues, "/: expected an array of records")
	}
	return report, nil
}

func prefixIssues(prefix string, issues []string) []string {
	out := make([]string, 0, len(issues))
	for _, msg := range issues {
		out = append(out, prefix+msg)
	}
	return out
}
