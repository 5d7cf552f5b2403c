// Package artifacts persists the pipeline's JSON documents under one
// output directory and reads them back for consolidation and
// indexing.
//
// Layout under the root:
//
//	combinations_metadata.json
//	index.json
//	<task>/<combination>.json
//	consolidated/<task>.json
//	consolidated/<task>_difficulty.json
package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rostrum-dev/rostrum/internal/models"
)

const (
	metadataFile    = "combinations_metadata.json"
	indexFile       = "index.json"
	consolidatedDir = "consolidated"
)

// ErrNoRunMetadata is returned when the combination metadata file does
// not exist, meaning no precompute run has completed here yet.
var ErrNoRunMetadata = errors.New("combination metadata not found")

// Store reads and writes pipeline documents rooted at one directory.
// Writes are idempotent: re-running a pipeline overwrites files in
// place.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir. The directory and any task
// subdirectories are created lazily on first write.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the output directory the store is rooted at.
func (s *Store) Root() string {
	return s.root
}

// ConsolidatedFilename is the file name of a per-task consolidated
// artifact for the given difficulty mode.
func ConsolidatedFilename(task string, showByDifficulty bool) string {
	if showByDifficulty {
		return task + "_difficulty.json"
	}
	return task + ".json"
}

// ArtifactRef is the index-facing relative path of one combination
// artifact, always forward-slashed.
func ArtifactRef(task, filename string) string {
	return path.Join(task, filename)
}

// WriteRunMetadata persists the combination metadata document.
func (s *Store) WriteRunMetadata(meta models.RunMetadata) error {
	return s.writeJSON(filepath.Join(s.root, metadataFile), meta)
}

// ReadRunMetadata loads the combination metadata document. A missing
// file yields ErrNoRunMetadata so callers can tell "never ran" from a
// broken file.
func (s *Store) ReadRunMetadata() (models.RunMetadata, error) {
	var meta models.RunMetadata
	data, err := os.ReadFile(filepath.Join(s.root, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return meta, fmt.Errorf("%w in %s", ErrNoRunMetadata, s.root)
		}
		return meta, fmt.Errorf("reading %s: %w", metadataFile, err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parsing %s: %w", metadataFile, err)
	}
	return meta, nil
}

// WriteArtifact persists one combination artifact under the task's
// subdirectory.
func (s *Store) WriteArtifact(filename string, artifact models.Artifact) error {
	return s.writeJSON(filepath.Join(s.root, artifact.Task, filename), artifact)
}

// ReadArtifact loads one combination artifact.
func (s *Store) ReadArtifact(task, filename string) (models.Artifact, error) {
	var artifact models.Artifact
	data, err := os.ReadFile(filepath.Join(s.root, task, filename))
	if err != nil {
		return artifact, err
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		return artifact, fmt.Errorf("parsing %s: %w", ArtifactRef(task, filename), err)
	}
	return artifact, nil
}

// ArtifactExists reports whether a combination artifact is on disk.
func (s *Store) ArtifactExists(task, filename string) bool {
	_, err := os.Stat(filepath.Join(s.root, task, filename))
	return err == nil
}

// WriteConsolidated persists one per-task consolidated artifact.
func (s *Store) WriteConsolidated(c models.ConsolidatedArtifact) error {
	name := ConsolidatedFilename(c.Task, c.ShowByDifficulty)
	return s.writeJSON(filepath.Join(s.root, consolidatedDir, name), c)
}

// WriteIndex persists the artifact index document.
func (s *Store) WriteIndex(idx models.Index) error {
	return s.writeJSON(filepath.Join(s.root, indexFile), idx)
}

func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
