package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DifficultyTiers are the fixed tiers used to split pass-rate metrics
// when difficulty mode is enabled.
var DifficultyTiers = []string{"Easy", "Medium", "Hard"}

// RawRecord is one evaluation outcome for a (model, task, example)
// triple, exactly as emitted by a benchmark runner. Records are loaded
// once per run and never mutated.
type RawRecord struct {
	// Model is the runner's spelling of the model identifier,
	// unnormalized. Canonicalization happens at aggregation time.
	Model string `json:"model_name"`

	// TaskID is the owning task identifier. It is assigned by the
	// loader from the directory a record came from, not read from the
	// record itself; the record-level "task" field is a sub-task tag
	// (see SubTask).
	TaskID string `json:"-"`

	// SubTask is the record's own task tag. For web generation this
	// carries the sub-task (Webpage, Chart, SVG).
	SubTask string `json:"task,omitempty"`

	Dataset    string `json:"dataset,omitempty"`
	Lang       string `json:"lang,omitempty"`
	Domain     string `json:"domain,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Knowledge  string `json:"knowledge,omitempty"`
	Method     string `json:"method,omitempty"`
	Framework  string `json:"framework,omitempty"`

	// PromptCategory holds reasoning-style tags (e.g. "CoT").
	PromptCategory []string `json:"prompt_category,omitempty"`

	// Metrics maps metric name to its value. The value shape is fixed
	// per task: scalar summaries, per-sample lists, or per-judge maps.
	Metrics map[string]MetricValue `json:"metrics"`
}

// Metric returns the named metric value. An absent metric comes back
// as the MetricNone zero value, which consumers treat as "no data".
func (r *RawRecord) Metric(name string) MetricValue {
	return r.Metrics[name]
}

// ScalarMetrics returns the subset of Metrics that hold scalar values,
// as a plain name-to-float map. Sample lists and judge maps are
// omitted.
func (r *RawRecord) ScalarMetrics() map[string]float64 {
	out := make(map[string]float64, len(r.Metrics))
	for name, v := range r.Metrics {
		if v.Kind == MetricScalar {
			out[name] = v.Scalar
		}
	}
	return out
}

// MetricKind discriminates the wire shapes a metric value can take.
type MetricKind int

const (
	// MetricNone marks a value that did not parse as any supported
	// shape. Consumers treat it as "no data", never as an error.
	MetricNone MetricKind = iota
	// MetricScalar is a single numeric value.
	MetricScalar
	// MetricSamples is a list of per-example numeric samples.
	MetricSamples
	// MetricJudges is a map from judge name to that judge's score.
	MetricJudges
)

// MetricValue is the tagged union of metric wire shapes: a number, a
// numeric or percent string, a list of sample numbers, or an object
// keyed by judge name. Unparseable input degrades to MetricNone rather
// than failing the record.
type MetricValue struct {
	Kind    MetricKind
	Scalar  float64
	Samples []float64
	Judges  map[string]float64

	// Percent records that a scalar arrived as a "91.2%"-style string
	// and is therefore already on the 0-100 scale.
	Percent bool
}

// Scalarf returns a scalar MetricValue. Fixture helper.
func Scalarf(v float64) MetricValue {
	return MetricValue{Kind: MetricScalar, Scalar: v}
}

// Samplesf returns a sample-list MetricValue. Fixture helper.
func Samplesf(vs ...float64) MetricValue {
	return MetricValue{Kind: MetricSamples, Samples: vs}
}

// Judgesf returns a per-judge MetricValue. Fixture helper.
func Judgesf(scores map[string]float64) MetricValue {
	return MetricValue{Kind: MetricJudges, Judges: scores}
}

// UnmarshalJSON accepts any of the supported wire shapes. Numeric
// strings are parsed; a trailing "%" marks the value as already
// percent-scaled. Entries inside lists or judge maps that are not
// numeric are dropped.
func (m *MetricValue) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 || string(data) == "null" {
		*m = MetricValue{}
		return nil
	}

	switch data[0] {
	case '[':
		var raw []json.Number
		if err := json.Unmarshal(data, &raw); err != nil {
			// Mixed-type lists: salvage the numeric entries.
			var items []any
			if err := json.Unmarshal(data, &items); err != nil {
				*m = MetricValue{}
				return nil
			}
			samples := make([]float64, 0, len(items))
			for _, item := range items {
				if f, ok := coerceNumber(item); ok {
					samples = append(samples, f)
				}
			}
			*m = MetricValue{Kind: MetricSamples, Samples: samples}
			return nil
		}
		samples := make([]float64, 0, len(raw))
		for _, n := range raw {
			if f, err := n.Float64(); err == nil {
				samples = append(samples, f)
			}
		}
		*m = MetricValue{Kind: MetricSamples, Samples: samples}
		return nil

	case '{':
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			*m = MetricValue{}
			return nil
		}
		judges := make(map[string]float64, len(raw))
		for judge, v := range raw {
			if f, ok := coerceNumber(v); ok {
				judges[judge] = f
			}
		}
		*m = MetricValue{Kind: MetricJudges, Judges: judges}
		return nil

	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*m = MetricValue{}
			return nil
		}
		s = strings.TrimSpace(s)
		percent := strings.HasSuffix(s, "%")
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			*m = MetricValue{}
			return nil
		}
		*m = MetricValue{Kind: MetricScalar, Scalar: f, Percent: percent}
		return nil

	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			*m = MetricValue{}
			return nil
		}
		*m = MetricValue{Kind: MetricScalar, Scalar: f}
		return nil
	}
}

// MarshalJSON writes the value back in its natural wire shape.
func (m MetricValue) MarshalJSON() ([]byte, error) {
	switch m.Kind {
	case MetricScalar:
		if m.Percent {
			return json.Marshal(strconv.FormatFloat(m.Scalar, 'f', -1, 64) + "%")
		}
		return json.Marshal(m.Scalar)
	case MetricSamples:
		if m.Samples == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(m.Samples)
	case MetricJudges:
		return json.Marshal(m.Judges)
	default:
		return []byte("null"), nil
	}
}

// NormalizedPercent maps a scalar onto the canonical 0-100 scale:
// percent strings are taken as-is, fractions (<= 1.0 in magnitude) are
// multiplied by 100, and anything larger passes through unchanged.
// Non-scalar values are returned untouched; sample lists and judge
// ratings keep their source scale for the aggregator.
func (m MetricValue) NormalizedPercent() MetricValue {
	if m.Kind != MetricScalar {
		return m
	}
	if m.Percent {
		return MetricValue{Kind: MetricScalar, Scalar: m.Scalar}
	}
	v := m.Scalar
	if v >= -1.0 && v <= 1.0 {
		v *= 100
	}
	return MetricValue{Kind: MetricScalar, Scalar: v}
}

func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "%"), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
