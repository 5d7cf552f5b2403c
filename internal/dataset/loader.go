// Package dataset reads per-task raw evaluation records from the data
// directory. Each task owns a subdirectory of line-delimited or
// whole-file JSON collections, optionally gzip-compressed. Malformed
// input is logged and skipped, never fatal: the pipeline aggregates
// whatever loads.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/rostrum-dev/rostrum/internal/models"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

// maxLineBytes bounds a single JSONL record. Web-generation records
// carry long metric bags but stay well under this.
const maxLineBytes = 4 * 1024 * 1024

// Loader reads raw records for tasks underneath one data directory.
type Loader struct {
	dataDir string
}

// NewLoader creates a Loader rooted at dataDir.
func NewLoader(dataDir string) *Loader {
	return &Loader{dataDir: dataDir}
}

// LoadTask reads every record file under <dataDir>/<task id>. A
// missing directory yields an empty record set with a warning. Files
// and lines that fail to parse are skipped with file/line context in
// the log.
func (l *Loader) LoadTask(task tasks.Descriptor) ([]models.RawRecord, error) {
	dir := filepath.Join(l.dataDir, task.ID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("task data directory missing", "task", task.ID, "dir", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("reading task data directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isRecordFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var records []models.RawRecord
	for _, name := range names {
		path := filepath.Join(dir, name)
		recs, err := l.loadFile(path, task)
		if err != nil {
			slog.Warn("skipping unreadable record file", "task", task.ID, "file", path, "error", err)
			continue
		}
		records = append(records, recs...)
	}
	return records, nil
}

// isRecordFile reports whether a filename looks like a record
// collection the loader understands.
func isRecordFile(name string) bool {
	base := strings.TrimSuffix(name, ".gz")
	return strings.HasSuffix(base, ".jsonl") || strings.HasSuffix(base, ".json")
}

func (l *Loader) loadFile(path string, task tasks.Descriptor) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	base := path
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
		base = strings.TrimSuffix(path, ".gz")
	}

	var records []models.RawRecord
	if strings.HasSuffix(base, ".jsonl") {
		records, err = decodeLines(r, path)
	} else {
		records, err = decodeDocument(r, path, task)
	}
	if err != nil {
		return nil, err
	}

	for i := range records {
		records[i].TaskID = task.ID
		normalizeMetrics(&records[i], task)
	}
	return records, nil
}

// decodeLines parses a record-per-line collection. A malformed line is
// logged with its position and skipped.
func decodeLines(r io.Reader, path string) ([]models.RawRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var records []models.RawRecord
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec models.RawRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			slog.Warn("skipping malformed record line", "file", path, "line", lineNo, "error", err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// decodeDocument parses a whole-file collection: a JSON array of
// records, or, for the classification family only, the nested
// {model: {metric: value}} object that is flattened into one record
// per model.
func decodeDocument(r io.Reader, path string, task tasks.Descriptor) ([]models.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if task.Family == tasks.FamilyClassification {
		if recs, ok := decodeNestedByModel(data); ok {
			return recs, nil
		}
		// Fall through: uniform array files are legal for this family
		// too.
	}

	var records []models.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// decodeNestedByModel flattens {"Model-A": {"f1_score": 0.91, ...}}
// into uniform records. Returns false when the document is not that
// shape (e.g. a plain array).
func decodeNestedByModel(data []byte) ([]models.RawRecord, bool) {
	var nested map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, false
	}

	names := make([]string, 0, len(nested))
	for name := range nested {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]models.RawRecord, 0, len(nested))
	for _, name := range names {
		bag := nested[name]
		rec := models.RawRecord{
			Model:   name,
			Metrics: make(map[string]models.MetricValue, len(bag)),
		}
		for field, raw := range bag {
			// A nested bag tags its rows with the privacy/security
			// axis under "knowledge" (older files say "category");
			// that is record metadata, not a metric.
			if field == "knowledge" || field == "category" {
				continue
			}
			var v models.MetricValue
			if err := json.Unmarshal(raw, &v); err != nil {
				continue
			}
			rec.Metrics[field] = v
		}
		rec.Knowledge = nestedString(bag, "knowledge", "category")
		records = append(records, rec)
	}
	return records, true
}

// nestedString decodes the first present string field among names.
func nestedString(bag map[string]json.RawMessage, names ...string) string {
	for _, name := range names {
		raw, ok := bag[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return ""
}

// normalizeMetrics applies the reader-boundary coercion rule: scalar
// metrics of the classification, similarity, and robustness families
// are mapped onto the 0-100 scale (percent strings as-is, fractions
// scaled by 100, larger values passed through). Sample lists and judge
// ratings keep their source scale; the aggregator owns those.
func normalizeMetrics(rec *models.RawRecord, task tasks.Descriptor) {
	switch task.Family {
	case tasks.FamilyClassification, tasks.FamilySimilarity, tasks.FamilyRobustness:
	default:
		return
	}
	for name, v := range rec.Metrics {
		rec.Metrics[name] = v.NormalizedPercent()
	}
}
