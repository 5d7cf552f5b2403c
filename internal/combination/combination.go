// Package combination enumerates every precomputable filter
// combination for a task. The space is the cross product over the
// task's declared facet domains where each facet is either
// unconstrained or pinned to a single value, doubled by the difficulty
// split where the task supports it.
package combination

import (
	"strings"

	"github.com/rostrum-dev/rostrum/internal/models"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

// axis is one facet dimension of the combination space: its declared
// value domain and how a pinned value lands in a filter spec.
type axis struct {
	values []string
	assign func(spec *models.FilterSpec, value string)
}

func axes(task tasks.Descriptor) []axis {
	return []axis{
		{task.Datasets, func(s *models.FilterSpec, v string) { s.Dataset = []string{v} }},
		{task.Modalities, func(s *models.FilterSpec, v string) { s.Modality = []string{v} }},
		{task.Knowledge, func(s *models.FilterSpec, v string) { s.Knowledge = []string{v} }},
		{task.Reasoning, func(s *models.FilterSpec, v string) { s.Reasoning = []string{v} }},
		{task.Robustness, func(s *models.FilterSpec, v string) { s.Robustness = []string{v} }},
		{task.PrivacySecurity, func(s *models.FilterSpec, v string) { s.PrivacySecurity = []string{v} }},
		{task.Judges, func(s *models.FilterSpec, v string) { s.LLMJudges = []string{v} }},
		{task.Frameworks, func(s *models.FilterSpec, v string) { s.Framework = []string{v} }},
	}
}

// filterSpecs expands the facet cross product in declaration order.
// The unconstrained choice comes before the pinned values on every
// axis, so the first spec overall is the empty one.
func filterSpecs(task tasks.Descriptor) []models.FilterSpec {
	specs := []models.FilterSpec{{}}
	for _, ax := range axes(task) {
		if len(ax.values) == 0 {
			continue
		}
		expanded := make([]models.FilterSpec, 0, len(specs)*(len(ax.values)+1))
		for _, base := range specs {
			expanded = append(expanded, base)
			for _, v := range ax.values {
				next := base
				ax.assign(&next, v)
				expanded = append(expanded, next)
			}
		}
		specs = expanded
	}
	return specs
}

// Enumerate lists every combination for the task in deterministic
// order: filter specs in cross-product order, each with the plain view
// first and the difficulty view second where the task supports one.
func Enumerate(task tasks.Descriptor) []models.CombinationDescriptor {
	modes := []bool{false}
	if task.HasDifficulty {
		modes = append(modes, true)
	}
	specs := filterSpecs(task)
	out := make([]models.CombinationDescriptor, 0, len(specs)*len(modes))
	for _, spec := range specs {
		for _, mode := range modes {
			out = append(out, models.CombinationDescriptor{
				Task:             task.ID,
				Filters:          spec,
				ShowByDifficulty: mode,
				Filename:         Filename(task, spec, mode),
			})
		}
	}
	return out
}

// Filename derives the artifact file name for one combination:
// the task identifier, a slug per pinned facet value in axis order,
// then a difficulty suffix, joined with underscores.
func Filename(task tasks.Descriptor, spec models.FilterSpec, showByDifficulty bool) string {
	parts := []string{task.ID}
	for _, vals := range [][]string{
		spec.Dataset,
		spec.Modality,
		spec.Knowledge,
		spec.Reasoning,
		spec.Robustness,
		spec.PrivacySecurity,
		spec.LLMJudges,
		spec.Framework,
	} {
		for _, v := range vals {
			parts = append(parts, Slug(v))
		}
	}
	if showByDifficulty {
		parts = append(parts, "difficulty")
	}
	return strings.Join(parts, "_") + ".json"
}

// Slug renders a facet value filesystem-safe: lowercased, the C
// language spellings folded to their ASCII names, every other
// non-alphanumeric run collapsed to a single dash.
func Slug(value string) string {
	s := strings.ToLower(value)
	s = strings.ReplaceAll(s, "c++", "cpp")
	s = strings.ReplaceAll(s, "c#", "csharp")
	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
