package tasks

import (
	"fmt"
	"strings"
)

// registry declares every supported task. Order here is display order
// for the tasks command and the run summary.
var registry = []Descriptor{
	{
		ID:            "code_generation",
		Family:        FamilyPassRate,
		HasDifficulty: true,
		Datasets:      []string{"HumanEval", "MBPP", "HackerRank", "CodeForces"},
		Modalities:    []string{"Python", "Java", "CPP", "C#", "JavaScript", "TypeScript", "Go"},
		Knowledge:     []string{"Algorithms", "Data Structures", "Math"},
		KnowledgeMode: KnowledgeGeneric,
		ReasoningMode: ReasoningPromptCategory,
		Metrics:       []string{"pass@1", "pass@3", "pass@5"},
		TierMetrics:   []string{"pass@1", "pass@3", "pass@5"},
		Primary:       "pass@1",
	},
	{
		ID:            "code_translation",
		Family:        FamilyPassRate,
		HasDifficulty: true,
		Modalities:    []string{"Python", "Java", "CPP", "C#"},
		KnowledgeMode: KnowledgeGeneric,
		ReasoningMode: ReasoningPromptCategory,
		Metrics:       []string{"pass@1", "pass@3", "pass@5", "codebleu"},
		TierMetrics:   []string{"pass@1", "pass@3", "pass@5"},
		Primary:       "pass@1",
	},
	{
		ID:            "code_summarization",
		Family:        FamilyLLMJudge,
		Modalities:    []string{"Python", "Java", "JavaScript"},
		Judges:        []string{"GPT-4o", "Claude-3.5-Sonnet", "Gemini-1.5-Pro"},
		KnowledgeMode: KnowledgeGeneric,
		ReasoningMode: ReasoningPromptCategory,
		Metrics:       []string{"llm_judge"},
		Primary:       "llm_judge",
	},
	{
		ID:            "code_review",
		Family:        FamilyLLMJudge,
		Judges:        []string{"GPT-4o", "Claude-3.5-Sonnet", "Gemini-1.5-Pro"},
		KnowledgeMode: KnowledgeGeneric,
		ReasoningMode: ReasoningPromptCategory,
		Metrics:       []string{"llm_judge"},
		Primary:       "llm_judge",
	},
	{
		ID:            "input_prediction",
		Family:        FamilyPassRate,
		HasDifficulty: true,
		Knowledge:     []string{"Math", "Strings", "Lists", "Logic", "Recursion"},
		KnowledgeMode: KnowledgeDomain,
		Reasoning:     []string{"Direct", "CoT"},
		ReasoningMode: ReasoningPromptCategory,
		Metrics:       []string{"pass@1", "pass@3", "pass@5"},
		TierMetrics:   []string{"pass@1", "pass@3", "pass@5"},
		Primary:       "pass@1",
	},
	{
		ID:            "output_prediction",
		Family:        FamilyPassRate,
		HasDifficulty: true,
		Knowledge:     []string{"Math", "Strings", "Lists", "Logic", "Recursion"},
		KnowledgeMode: KnowledgeDomain,
		Reasoning:     []string{"Direct", "CoT"},
		ReasoningMode: ReasoningPromptCategory,
		Metrics:       []string{"pass@1", "pass@3", "pass@5"},
		TierMetrics:   []string{"pass@1", "pass@3", "pass@5"},
		Primary:       "pass@1",
	},
	{
		ID:              "vulnerability_detection",
		Family:          FamilyClassification,
		PrivacySecurity: []string{"Privacy", "Security"},
		KnowledgeMode:   KnowledgeGeneric,
		ReasoningMode:   ReasoningPromptCategory,
		Metrics:         []string{"accuracy", "precision", "recall", "f1_score", "P-C", "P-V", "P-B", "P-R"},
		Primary:         "f1_score",
	},
	{
		ID:            "web_generation",
		Family:        FamilySimilarity,
		Knowledge:     []string{"Webpage", "Chart", "SVG"},
		KnowledgeMode: KnowledgeSubTask,
		Reasoning:     []string{"Direct", "CoT", "Self-Refine"},
		ReasoningMode: ReasoningMethod,
		Metrics:       []string{"clip", "ssim", "text_similarity", "position_similarity", "color_similarity"},
		Primary:       "clip",
	},
	{
		ID:            "interaction_to_code",
		Family:        FamilySimilarity,
		Frameworks:    []string{"React", "Vue", "Angular", "Vanilla"},
		KnowledgeMode: KnowledgeGeneric,
		ReasoningMode: ReasoningPromptCategory,
		Metrics:       []string{"clip", "ssim", "interaction_rate"},
		Primary:       "clip",
	},
	{
		ID:            "code_robustness",
		Family:        FamilyRobustness,
		Robustness:    []string{"Docstring", "Function", "Syntax", "Format"},
		KnowledgeMode: KnowledgeGeneric,
		ReasoningMode: ReasoningPromptCategory,
		Metrics:       []string{"nominal_pass@1", "perturbed_pass@1", "robust_score"},
		Primary:       "robust_score",
	},
}

// All returns every registered task descriptor in display order.
func All() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the descriptor for a task identifier.
func Lookup(id string) (Descriptor, bool) {
	for _, d := range registry {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Names returns every registered task identifier in display order.
func Names() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.ID
	}
	return names
}

// Resolve maps task names to descriptors, defaulting to the full
// registry when names is empty. An unknown name is a configuration
// error: it aborts before any I/O and the message lists the valid
// identifiers.
func Resolve(names []string) ([]Descriptor, error) {
	if len(names) == 0 {
		return All(), nil
	}
	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		d, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown task %q (valid tasks: %s)", name, strings.Join(Names(), ", "))
		}
		out = append(out, d)
	}
	return out, nil
}
