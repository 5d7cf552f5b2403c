// Package filter applies declarative multi-facet filters to raw
// record collections. Facets AND-combine; an empty facet keeps all
// records. Matching is task-aware because the same conceptual facet
// lives in different record fields per task.
package filter

import (
	"strings"

	"github.com/rostrum-dev/rostrum/internal/models"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

// placeholderDomain is filler the upstream prediction runner emits
// when it has no real domain metadata. It never matches a knowledge
// filter value.
const placeholderDomain = "default"

// modalityAliases folds the language spellings the runners emit onto
// one token per language, so a "CPP" filter matches a record tagged
// "c++" and a "C#" filter matches "csharp".
var modalityAliases = map[string]string{
	"c++":        "cpp",
	"cpp":        "cpp",
	"c#":         "csharp",
	"csharp":     "csharp",
	"js":         "javascript",
	"javascript": "javascript",
	"ts":         "typescript",
	"typescript": "typescript",
	"golang":     "go",
	"go":         "go",
}

// domainAliases expands the abbreviated domain tags prediction records
// carry to their spelled-out filter values.
var domainAliases = map[string]string{
	"ds": "data structures",
	"dp": "dynamic programming",
	"ml": "math & logic",
}

// Apply returns the subset of records that satisfy every constrained
// facet of spec for the given task. The input slice is never mutated;
// an all-empty spec returns it unchanged. The llmJudges facet is not a
// record predicate and is ignored here (the aggregator consumes it).
func Apply(records []models.RawRecord, task tasks.Descriptor, spec models.FilterSpec) []models.RawRecord {
	if !spec.HasRecordFacets() {
		return records
	}

	matched := make([]models.RawRecord, 0, len(records))
	for _, rec := range records {
		if matchesSpec(rec, task, spec) {
			matched = append(matched, rec)
		}
	}
	return matched
}

func matchesSpec(rec models.RawRecord, task tasks.Descriptor, spec models.FilterSpec) bool {
	if !matchesFacet(spec.Dataset, rec, matchDataset) {
		return false
	}
	if !matchesFacet(spec.Modality, rec, matchModality) {
		return false
	}
	if !matchesKnowledge(spec.Knowledge, rec, task) {
		return false
	}
	if !matchesReasoning(spec.Reasoning, rec, task) {
		return false
	}
	if !matchesFacet(spec.Robustness, rec, matchRobustness) {
		return false
	}
	if !matchesFacet(spec.PrivacySecurity, rec, matchPrivacySecurity) {
		return false
	}
	if !matchesFacet(spec.Framework, rec, matchFramework) {
		return false
	}
	return true
}

// matchesFacet applies one facet: empty values is a no-op, otherwise
// at least one value must match.
func matchesFacet(values []string, rec models.RawRecord, match func(string, models.RawRecord) bool) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if match(v, rec) {
			return true
		}
	}
	return false
}

// matchDataset: case-insensitive substring, either direction.
func matchDataset(value string, rec models.RawRecord) bool {
	return containsFold(rec.Dataset, value)
}

// matchModality: case-insensitive exact with fixed language synonyms.
func matchModality(value string, rec models.RawRecord) bool {
	return normalizeModality(value) == normalizeModality(rec.Lang)
}

func matchRobustness(value string, rec models.RawRecord) bool {
	return strings.EqualFold(value, rec.Knowledge)
}

func matchPrivacySecurity(value string, rec models.RawRecord) bool {
	return containsFold(rec.Knowledge, value)
}

func matchFramework(value string, rec models.RawRecord) bool {
	return value == rec.Framework
}

// matchesKnowledge dispatches on the task's declared knowledge mode.
func matchesKnowledge(values []string, rec models.RawRecord, task tasks.Descriptor) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		switch task.KnowledgeMode {
		case tasks.KnowledgeSubTask:
			if strings.EqualFold(v, rec.SubTask) {
				return true
			}
		case tasks.KnowledgeDomain:
			if matchDomain(v, rec.Domain) {
				return true
			}
		default:
			if containsFold(rec.Knowledge, v) || containsFold(rec.Difficulty, v) {
				return true
			}
		}
	}
	return false
}

// matchDomain compares a knowledge filter value against a prediction
// record's domain, expanding fixed abbreviations on both sides. The
// "default" placeholder is filler, not metadata, and never matches.
func matchDomain(value, domain string) bool {
	if strings.EqualFold(domain, placeholderDomain) {
		return false
	}
	return normalizeDomain(value) == normalizeDomain(domain)
}

// matchesReasoning dispatches on the task's declared reasoning mode.
func matchesReasoning(values []string, rec models.RawRecord, task tasks.Descriptor) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if task.ReasoningMode == tasks.ReasoningMethod {
			if strings.EqualFold(v, rec.Method) {
				return true
			}
			continue
		}
		for _, tag := range rec.PromptCategory {
			if containsFold(tag, v) {
				return true
			}
		}
	}
	return false
}

func normalizeModality(s string) string {
	k := strings.ToLower(strings.TrimSpace(s))
	if folded, ok := modalityAliases[k]; ok {
		return folded
	}
	return k
}

func normalizeDomain(s string) string {
	k := strings.ToLower(strings.TrimSpace(s))
	if expanded, ok := domainAliases[k]; ok {
		return expanded
	}
	return k
}

// containsFold reports whether either string contains the other,
// case-insensitively. An empty side never matches: a record with a
// blank field does not satisfy a constrained facet.
func containsFold(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
