package aggregate

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rostrum-dev/rostrum/internal/metrics"
	"github.com/rostrum-dev/rostrum/internal/models"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

// strategyFunc computes the available column values for one model's
// record group. Columns with no contributing data are simply absent
// from the result; the caller renders those as unavailable.
type strategyFunc func(group []models.RawRecord, task tasks.Descriptor, spec models.FilterSpec, showByDifficulty bool) map[string]float64

var strategies = map[tasks.Family]strategyFunc{
	tasks.FamilyPassRate:       passRateValues,
	tasks.FamilyLLMJudge:       judgeValues,
	tasks.FamilyClassification: classificationValues,
	tasks.FamilySimilarity:     scalarMeanValues,
	tasks.FamilyRobustness:     scalarMeanValues,
}

func strategyFor(family tasks.Family) strategyFunc {
	if fn, ok := strategies[family]; ok {
		return fn
	}
	return func([]models.RawRecord, tasks.Descriptor, models.FilterSpec, bool) map[string]float64 {
		return nil
	}
}

// metricValues collects every observation for the named metric across
// the group. Sample lists contribute each element, scalars contribute
// one value, judge maps and absent metrics contribute nothing.
func metricValues(group []models.RawRecord, name string) []float64 {
	var vals []float64
	for _, rec := range group {
		switch v := rec.Metric(name); v.Kind {
		case models.MetricSamples:
			vals = append(vals, v.Samples...)
		case models.MetricScalar:
			vals = append(vals, v.Scalar)
		}
	}
	return vals
}

// passRateValues pools binary samples and averages them to a
// percentage. With the difficulty split on, tiered metrics are
// computed from tier-matching records only, while metrics outside the
// tier set (codebleu in translation) stay pooled across the group.
func passRateValues(group []models.RawRecord, task tasks.Descriptor, _ models.FilterSpec, showByDifficulty bool) map[string]float64 {
	out := make(map[string]float64)
	if showByDifficulty && task.HasDifficulty {
		for _, tier := range models.DifficultyTiers {
			var tierRecs []models.RawRecord
			for _, rec := range group {
				if strings.EqualFold(rec.Difficulty, tier) {
					tierRecs = append(tierRecs, rec)
				}
			}
			for _, m := range task.TierMetrics {
				if vals := metricValues(tierRecs, m); len(vals) > 0 {
					out[tasks.TierColumn(tier, m)] = metrics.Mean(vals) * 100
				}
			}
		}
		for _, m := range task.Metrics {
			if slices.Contains(task.TierMetrics, m) {
				continue
			}
			if vals := metricValues(group, m); len(vals) > 0 {
				out[m] = metrics.Mean(vals) * 100
			}
		}
		return out
	}
	for _, m := range task.Metrics {
		if vals := metricValues(group, m); len(vals) > 0 {
			out[m] = metrics.Mean(vals) * 100
		}
	}
	return out
}

// judgeValues averages 1-5 judge scores and rescales to 0-100. When
// the llmJudges facet is set, only scores from the named judges
// contribute; flat sample or scalar records carry no judge identity
// and are counted only for the unrestricted view.
func judgeValues(group []models.RawRecord, task tasks.Descriptor, spec models.FilterSpec, _ bool) map[string]float64 {
	restricted := make(map[string]struct{}, len(spec.LLMJudges))
	for _, j := range spec.LLMJudges {
		restricted[strings.ToLower(j)] = struct{}{}
	}
	out := make(map[string]float64)
	for _, m := range task.Metrics {
		var vals []float64
		for _, rec := range group {
			switch v := rec.Metric(m); v.Kind {
			case models.MetricJudges:
				for judge, score := range v.Judges {
					if len(restricted) > 0 {
						if _, ok := restricted[strings.ToLower(judge)]; !ok {
							continue
						}
					}
					vals = append(vals, score)
				}
			case models.MetricSamples:
				if len(restricted) == 0 {
					vals = append(vals, v.Samples...)
				}
			case models.MetricScalar:
				if len(restricted) == 0 {
					vals = append(vals, v.Scalar)
				}
			}
		}
		if len(vals) > 0 {
			out[m] = metrics.Mean(vals) * 20
		}
	}
	return out
}

// classificationValues averages detection statistics that arrive
// already on their display scale. Records whose metric bag cannot be
// decoded are skipped with a warning rather than failing the group.
func classificationValues(group []models.RawRecord, _ tasks.Descriptor, _ models.FilterSpec, _ bool) map[string]float64 {
	acc := make(map[string][]float64)
	for _, rec := range group {
		var v *struct {
			Accuracy   *float64 `mapstructure:"accuracy"`
			Precision  *float64 `mapstructure:"precision"`
			Recall     *float64 `mapstructure:"recall"`
			F1Score    *float64 `mapstructure:"f1_score"`
			PredClean  *float64 `mapstructure:"P-C"`
			PredVuln   *float64 `mapstructure:"P-V"`
			PredBenign *float64 `mapstructure:"P-B"`
			PredRefuse *float64 `mapstructure:"P-R"`
		}
		if err := mapstructure.Decode(rec.ScalarMetrics(), &v); err != nil {
			slog.Warn("skipping record with undecodable classification metrics", "model", rec.Model, "error", err)
			continue
		}
		if v == nil {
			continue
		}
		for col, p := range map[string]*float64{
			"accuracy":  v.Accuracy,
			"precision": v.Precision,
			"recall":    v.Recall,
			"f1_score":  v.F1Score,
			"P-C":       v.PredClean,
			"P-V":       v.PredVuln,
			"P-B":       v.PredBenign,
			"P-R":       v.PredRefuse,
		} {
			if p != nil {
				acc[col] = append(acc[col], *p)
			}
		}
	}
	out := make(map[string]float64, len(acc))
	for col, vals := range acc {
		out[col] = metrics.Mean(vals)
	}
	return out
}

// scalarMeanValues averages per-record scalars with no rescaling.
// Similarity and robustness scores were normalized to the 0-100 range
// when the records were read.
func scalarMeanValues(group []models.RawRecord, task tasks.Descriptor, _ models.FilterSpec, _ bool) map[string]float64 {
	out := make(map[string]float64)
	for _, m := range task.Metrics {
		if vals := metricValues(group, m); len(vals) > 0 {
			out[m] = metrics.Mean(vals)
		}
	}
	return out
}
