// Package consolidate re-groups per-combination artifacts into one
// document per task and difficulty mode, keyed by canonical model, so
// a single read serves every precomputed view for every model.
package consolidate

import (
	"log/slog"
	"sort"
	"time"

	"github.com/rostrum-dev/rostrum/internal/artifacts"
	"github.com/rostrum-dev/rostrum/internal/canonical"
	"github.com/rostrum-dev/rostrum/internal/models"
)

// Consolidator runs the second pass over a completed precompute
// output directory.
type Consolidator struct {
	store *artifacts.Store
	canon *canonical.Canonicalizer
	now   func() time.Time
}

// New creates a Consolidator over the given artifact store.
func New(store *artifacts.Store, canon *canonical.Canonicalizer) *Consolidator {
	return &Consolidator{store: store, canon: canon, now: time.Now}
}

// Run consolidates every task the run metadata lists, restricted to
// the named tasks when only is non-empty. Missing combination
// metadata is fatal since there is nothing to consolidate; a missing
// or malformed artifact only drops that one combination. Returns the
// consolidated file names written.
func (c *Consolidator) Run(only []string) ([]string, error) {
	meta, err := c.store.ReadRunMetadata()
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(only))
	for _, id := range only {
		allowed[id] = struct{}{}
	}

	taskIDs := make([]string, 0, len(meta.Tasks))
	for id := range meta.Tasks {
		taskIDs = append(taskIDs, id)
	}
	sort.Strings(taskIDs)

	var written []string
	for _, id := range taskIDs {
		if len(allowed) > 0 {
			if _, ok := allowed[id]; !ok {
				continue
			}
		}
		for _, mode := range combinationModes(meta.Tasks[id].Combinations) {
			doc := c.build(id, mode, meta.Tasks[id].Combinations)
			if err := c.store.WriteConsolidated(doc); err != nil {
				return written, err
			}
			written = append(written, artifacts.ConsolidatedFilename(id, mode))
		}
	}
	return written, nil
}

// combinationModes returns the difficulty modes the combination list
// covers, plain view first.
func combinationModes(combos []models.CombinationDescriptor) []bool {
	modes := []bool{false}
	for _, combo := range combos {
		if combo.ShowByDifficulty {
			return append(modes, true)
		}
	}
	return modes
}

// build assembles one consolidated document from the mode's
// combination artifacts. Canonicalization and exclusion are applied
// again here: artifacts may predate an alias-table update.
func (c *Consolidator) build(taskID string, mode bool, combos []models.CombinationDescriptor) models.ConsolidatedArtifact {
	doc := models.ConsolidatedArtifact{
		Task:             taskID,
		ShowByDifficulty: mode,
		GeneratedAt:      c.now().UTC(),
		FilterMappings:   make(map[string]models.FilterSpec),
		Data:             make(map[string]models.ConsolidatedModel),
	}
	for _, combo := range combos {
		if combo.ShowByDifficulty != mode {
			continue
		}
		artifact, err := c.store.ReadArtifact(taskID, combo.Filename)
		if err != nil {
			slog.Warn("skipping combination during consolidation", "task", taskID, "file", combo.Filename, "error", err)
			continue
		}
		key := combo.Key()
		added := false
		for _, row := range artifact.Results {
			if c.canon.IsExcluded(row.Model) {
				continue
			}
			name := c.canon.Canonicalize(row.Model)
			perModel, ok := doc.Data[name]
			if !ok {
				perModel = make(models.ConsolidatedModel)
				doc.Data[name] = perModel
			}
			if _, taken := perModel[key]; taken {
				// Two artifact rows collapsing onto one canonical
				// model: the higher-ranked row came first.
				continue
			}
			perModel[key] = row.ColumnCopy()
			added = true
		}
		if added {
			doc.FilterMappings[key] = artifact.Filters
		}
	}
	return doc
}
