package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMetricValue_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want MetricValue
	}{
		{name: "number", in: `0.912`, want: MetricValue{Kind: MetricScalar, Scalar: 0.912}},
		{name: "integer", in: `85`, want: MetricValue{Kind: MetricScalar, Scalar: 85}},
		{name: "numeric_string", in: `"0.75"`, want: MetricValue{Kind: MetricScalar, Scalar: 0.75}},
		{name: "percent_string", in: `"91.2%"`, want: MetricValue{Kind: MetricScalar, Scalar: 91.2, Percent: true}},
		{name: "samples", in: `[1.0, 1.0, 0.0]`, want: MetricValue{Kind: MetricSamples, Samples: []float64{1, 1, 0}}},
		{name: "judges", in: `{"GPT-4o": 4.5, "Claude-3.5-Sonnet": 4.0}`, want: MetricValue{Kind: MetricJudges, Judges: map[string]float64{"GPT-4o": 4.5, "Claude-3.5-Sonnet": 4.0}}},
		{name: "null", in: `null`, want: MetricValue{}},
		{name: "garbage_string", in: `"n/a"`, want: MetricValue{}},
		{name: "boolean", in: `true`, want: MetricValue{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got MetricValue
			if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
				t.Fatalf("Unmarshal(%s) returned error: %v", tt.in, err)
			}
			if got.Kind != tt.want.Kind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.want.Kind)
			}
			switch got.Kind {
			case MetricScalar:
				if got.Scalar != tt.want.Scalar || got.Percent != tt.want.Percent {
					t.Errorf("scalar = (%f, percent=%v), want (%f, percent=%v)", got.Scalar, got.Percent, tt.want.Scalar, tt.want.Percent)
				}
			case MetricSamples:
				if len(got.Samples) != len(tt.want.Samples) {
					t.Fatalf("samples = %v, want %v", got.Samples, tt.want.Samples)
				}
				for i := range got.Samples {
					if got.Samples[i] != tt.want.Samples[i] {
						t.Errorf("samples[%d] = %f, want %f", i, got.Samples[i], tt.want.Samples[i])
					}
				}
			case MetricJudges:
				if len(got.Judges) != len(tt.want.Judges) {
					t.Fatalf("judges = %v, want %v", got.Judges, tt.want.Judges)
				}
				for judge, score := range tt.want.Judges {
					if got.Judges[judge] != score {
						t.Errorf("judges[%q] = %f, want %f", judge, got.Judges[judge], score)
					}
				}
			}
		})
	}
}

func TestMetricValue_MixedListSalvagesNumbers(t *testing.T) {
	var got MetricValue
	if err := json.Unmarshal([]byte(`[1.0, "0.5", "bad", null, 0.0]`), &got); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if got.Kind != MetricSamples {
		t.Fatalf("Kind = %v, want MetricSamples", got.Kind)
	}
	want := []float64{1.0, 0.5, 0.0}
	if len(got.Samples) != len(want) {
		t.Fatalf("samples = %v, want %v", got.Samples, want)
	}
	for i := range want {
		if got.Samples[i] != want[i] {
			t.Errorf("samples[%d] = %f, want %f", i, got.Samples[i], want[i])
		}
	}
}

func TestMetricValue_NormalizedPercent(t *testing.T) {
	tests := []struct {
		name string
		in   MetricValue
		want float64
	}{
		{name: "fraction_scales", in: Scalarf(0.912), want: 91.2},
		{name: "one_scales", in: Scalarf(1.0), want: 100.0},
		{name: "zero_stays", in: Scalarf(0.0), want: 0.0},
		{name: "percent_already_scaled", in: MetricValue{Kind: MetricScalar, Scalar: 91.2, Percent: true}, want: 91.2},
		{name: "large_passes_through", in: Scalarf(85.0), want: 85.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.NormalizedPercent()
			if got.Kind != MetricScalar {
				t.Fatalf("Kind = %v, want MetricScalar", got.Kind)
			}
			if math.Abs(got.Scalar-tt.want) > 1e-9 {
				t.Errorf("NormalizedPercent() = %f, want %f", got.Scalar, tt.want)
			}
			if got.Percent {
				t.Errorf("normalized value should clear the Percent flag")
			}
		})
	}
}

func TestMetricValue_NormalizedPercentLeavesSamplesAlone(t *testing.T) {
	in := Samplesf(1.0, 0.0, 1.0)
	got := in.NormalizedPercent()
	if got.Kind != MetricSamples {
		t.Fatalf("Kind = %v, want MetricSamples", got.Kind)
	}
	for i, v := range []float64{1.0, 0.0, 1.0} {
		if got.Samples[i] != v {
			t.Errorf("samples[%d] = %f, want %f", i, got.Samples[i], v)
		}
	}
}

func TestRawRecord_ScalarMetrics(t *testing.T) {
	rec := RawRecord{
		Model: "gpt-4o",
		Metrics: map[string]MetricValue{
			"accuracy": Scalarf(91.2),
			"pass@1":   Samplesf(1, 0),
			"judge":    Judgesf(map[string]float64{"GPT-4o": 4.0}),
		},
	}
	scalars := rec.ScalarMetrics()
	if len(scalars) != 1 {
		t.Fatalf("ScalarMetrics() = %v, want one entry", scalars)
	}
	if scalars["accuracy"] != 91.2 {
		t.Errorf("accuracy = %f, want 91.2", scalars["accuracy"])
	}
}
