package models

// FilterSpec is the declarative multi-facet filter for one
// combination. An empty facet list means "no constraint on this
// facet", never "exclude all". Specs are immutable once constructed.
//
// llmJudges is carried here but is not a record-level predicate: the
// aggregator consumes it to restrict which per-judge scores
// contribute, so the filter engine passes records through unchanged
// for that facet.
type FilterSpec struct {
	Dataset         []string `json:"dataset,omitempty"`
	Modality        []string `json:"modality,omitempty"`
	Knowledge       []string `json:"knowledge,omitempty"`
	Reasoning       []string `json:"reasoning,omitempty"`
	Robustness      []string `json:"robustness,omitempty"`
	PrivacySecurity []string `json:"privacySecurity,omitempty"`
	LLMJudges       []string `json:"llmJudges,omitempty"`
	Framework       []string `json:"framework,omitempty"`
}

// IsZero reports whether every facet is unconstrained.
func (s FilterSpec) IsZero() bool {
	return len(s.Dataset) == 0 &&
		len(s.Modality) == 0 &&
		len(s.Knowledge) == 0 &&
		len(s.Reasoning) == 0 &&
		len(s.Robustness) == 0 &&
		len(s.PrivacySecurity) == 0 &&
		len(s.LLMJudges) == 0 &&
		len(s.Framework) == 0
}

// HasRecordFacets reports whether any record-level facet is
// constrained. llmJudges does not count: it never filters records.
func (s FilterSpec) HasRecordFacets() bool {
	return len(s.Dataset) > 0 ||
		len(s.Modality) > 0 ||
		len(s.Knowledge) > 0 ||
		len(s.Reasoning) > 0 ||
		len(s.Robustness) > 0 ||
		len(s.PrivacySecurity) > 0 ||
		len(s.Framework) > 0
}
