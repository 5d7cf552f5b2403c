package tasks

import (
	"slices"
	"strings"

	"github.com/rostrum-dev/rostrum/internal/models"
)

// Family identifies the aggregation rule set a task's metrics follow.
type Family string

const (
	// FamilyPassRate averages pass@k samples, scaled to 0-100.
	FamilyPassRate Family = "pass_rate"
	// FamilyLLMJudge averages 1-5 judge ratings, scaled by 20.
	FamilyLLMJudge Family = "llm_judge"
	// FamilyClassification passes through precomputed accuracy,
	// precision, recall, F1 and paired-prediction rates.
	FamilyClassification Family = "classification"
	// FamilySimilarity averages per-example similarity scores.
	FamilySimilarity Family = "similarity"
	// FamilyRobustness averages perturbation-robustness scores, which
	// arrive already percent-scaled and are never rescaled.
	FamilyRobustness Family = "robustness"
)

// KnowledgeMode selects which record field the knowledge facet reads.
// The same conceptual facet lives in different fields per task.
type KnowledgeMode string

const (
	// KnowledgeGeneric substring-matches record.knowledge or
	// record.difficulty.
	KnowledgeGeneric KnowledgeMode = "generic"
	// KnowledgeSubTask exact-matches the record's own task sub-tag
	// (web generation: Webpage, Chart, SVG).
	KnowledgeSubTask KnowledgeMode = "subtask"
	// KnowledgeDomain exact-matches record.domain with fixed
	// abbreviation synonyms, rejecting the "default" placeholder.
	KnowledgeDomain KnowledgeMode = "domain"
)

// ReasoningMode selects which record field the reasoning facet reads.
type ReasoningMode string

const (
	// ReasoningPromptCategory substring-matches any prompt_category tag.
	ReasoningPromptCategory ReasoningMode = "prompt_category"
	// ReasoningMethod exact-matches record.method (web generation).
	ReasoningMethod ReasoningMode = "method"
)

// PassAtK is the fixed pass-rate column triple.
var PassAtK = []string{"pass@1", "pass@3", "pass@5"}

// Descriptor declares one task: its aggregation family, its legal
// facet-value domains (declared data, never derived from raw records),
// and its metric columns. Adding a task means adding one registry
// entry.
type Descriptor struct {
	ID            string
	Family        Family
	HasDifficulty bool

	// Facet domains. An empty domain means the facet does not apply to
	// this task and contributes nothing to the combination space.
	Datasets        []string
	Modalities      []string
	Knowledge       []string
	Reasoning       []string
	Robustness      []string
	PrivacySecurity []string
	Judges          []string
	Frameworks      []string

	KnowledgeMode KnowledgeMode
	ReasoningMode ReasoningMode

	// Metrics is the column set in display order, difficulty-off.
	Metrics []string
	// TierMetrics is the subset split into easy/medium/hard columns
	// when difficulty mode is on. Metrics outside this subset (e.g.
	// CodeBLEU) keep a single overall column in difficulty mode.
	TierMetrics []string
	// Primary is the sort metric; difficulty mode sorts by the Easy
	// tier variant instead.
	Primary string
}

// TierColumn builds the per-tier column key, e.g. "easy_pass@1".
func TierColumn(tier, metric string) string {
	return strings.ToLower(tier) + "_" + metric
}

// Columns returns the metric column set for the given difficulty
// mode, in display order. The set is identical for every row of one
// result set.
func (d Descriptor) Columns(showByDifficulty bool) []string {
	if !showByDifficulty || !d.HasDifficulty {
		return slices.Clone(d.Metrics)
	}
	cols := make([]string, 0, len(models.DifficultyTiers)*len(d.TierMetrics)+len(d.Metrics))
	for _, tier := range models.DifficultyTiers {
		for _, m := range d.TierMetrics {
			cols = append(cols, TierColumn(tier, m))
		}
	}
	for _, m := range d.Metrics {
		if !slices.Contains(d.TierMetrics, m) {
			cols = append(cols, m)
		}
	}
	return cols
}

// PrimaryMetric returns the column the ranker sorts by.
func (d Descriptor) PrimaryMetric(showByDifficulty bool) string {
	if showByDifficulty && d.HasDifficulty && slices.Contains(d.TierMetrics, d.Primary) {
		return TierColumn(models.DifficultyTiers[0], d.Primary)
	}
	return d.Primary
}
