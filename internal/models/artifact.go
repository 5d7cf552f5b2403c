package models

import (
	"strings"
	"time"
)

// CombinationDescriptor names one point in a task's filter-combination
// space: the facet values chosen, the difficulty flag, and the
// artifact filename the precompute writer will use. The full set per
// task is generated once per run and persisted as metadata so the
// writer and the consolidator share one source of truth for which
// combinations should exist.
type CombinationDescriptor struct {
	Task             string     `json:"task"`
	Filters          FilterSpec `json:"filters"`
	ShowByDifficulty bool       `json:"showByDifficulty"`
	Filename         string     `json:"filename"`
}

// Key returns the combination key: the artifact filename without its
// extension. Consolidated artifacts are keyed by this value.
func (c CombinationDescriptor) Key() string {
	return strings.TrimSuffix(c.Filename, ".json")
}

// Artifact is one precomputed result file, the unit the serving layer
// reads per combination.
type Artifact struct {
	Task             string           `json:"task"`
	Filters          FilterSpec       `json:"filters"`
	ShowByDifficulty bool             `json:"showByDifficulty"`
	GeneratedAt      time.Time        `json:"generatedAt"`
	Results          []Row            `json:"results"`
	Metadata         ArtifactMetadata `json:"metadata"`
}

// ArtifactMetadata carries the row-count summary the UI uses to decide
// whether a combination has anything to show.
type ArtifactMetadata struct {
	ResultCount int  `json:"resultCount"`
	HasResults  bool `json:"hasResults"`
}

// RunMetadata is the combinations_metadata.json document: every
// combination descriptor per task plus counts, written before any
// aggregation happens.
type RunMetadata struct {
	GeneratedAt time.Time                   `json:"generatedAt"`
	TotalCount  int                         `json:"totalCount"`
	Tasks       map[string]TaskCombinations `json:"tasks"`
}

// TaskCombinations lists one task's combination space.
type TaskCombinations struct {
	Count        int                     `json:"count"`
	Combinations []CombinationDescriptor `json:"combinations"`
}

// Index is the index.json document: per task, the combination count
// and the relative path of every artifact that exists on disk, for
// O(1) discovery by the serving layer.
type Index struct {
	GeneratedAt time.Time            `json:"generatedAt"`
	Tasks       map[string]TaskIndex `json:"tasks"`
}

// TaskIndex summarizes one task's artifacts in the index.
type TaskIndex struct {
	CombinationCount int      `json:"combinationCount"`
	Artifacts        []string `json:"artifacts"`
}

// ConsolidatedArtifact is the per-task, per-difficulty-mode file that
// re-keys every combination's rows by canonical model, so one read
// yields every precomputed view for every model. Only combinations
// that produced at least one row appear: filterMappings never carries
// an empty-combination placeholder.
//
// Data maps canonical model -> combination key -> metric columns (the
// row body minus rank/model/model_url, which live in the keys).
type ConsolidatedArtifact struct {
	Task             string                       `json:"task"`
	ShowByDifficulty bool                         `json:"showByDifficulty"`
	GeneratedAt      time.Time                    `json:"generatedAt"`
	FilterMappings   map[string]FilterSpec        `json:"filterMappings"`
	Data             map[string]ConsolidatedModel `json:"data"`
}

// ConsolidatedModel maps combination key to that combination's metric
// columns for one model.
type ConsolidatedModel map[string]map[string]string
