// Package aggregate turns filtered raw records into per-model summary
// rows under task-specific rules. Grouping is by canonical model;
// denylisted models are dropped before any metric is computed.
package aggregate

import (
	"github.com/rostrum-dev/rostrum/internal/canonical"
	"github.com/rostrum-dev/rostrum/internal/metrics"
	"github.com/rostrum-dev/rostrum/internal/models"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

// Aggregator computes per-model summary rows. It is pure over the
// injected canonicalizer tables and safe for concurrent use.
type Aggregator struct {
	canon *canonical.Canonicalizer
}

// New creates an Aggregator backed by the given canonicalizer.
func New(canon *canonical.Canonicalizer) *Aggregator {
	return &Aggregator{canon: canon}
}

// Aggregate groups records by canonical model and computes the task's
// declared column set. Every row exposes exactly the same columns;
// a metric with no contributing data renders as "-", never as zero or
// a missing key. Rank is a placeholder here, the ranker assigns it.
//
// spec is consulted only for the llmJudges facet, which restricts
// which per-judge nested scores contribute for judge-family tasks.
func (a *Aggregator) Aggregate(records []models.RawRecord, task tasks.Descriptor, spec models.FilterSpec, showByDifficulty bool) []models.Row {
	var order []string
	groups := make(map[string][]models.RawRecord)
	for _, rec := range records {
		if a.canon.IsExcluded(rec.Model) {
			continue
		}
		name := a.canon.Canonicalize(rec.Model)
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], rec)
	}

	strategy := strategyFor(task.Family)
	columns := task.Columns(showByDifficulty)

	rows := make([]models.Row, 0, len(order))
	for _, name := range order {
		values := strategy(groups[name], task, spec, showByDifficulty)
		cols := make(map[string]string, len(columns))
		for _, col := range columns {
			if v, ok := values[col]; ok {
				cols[col] = metrics.FormatScore(v)
			} else {
				cols[col] = metrics.Unavailable
			}
		}
		rows = append(rows, models.Row{
			Model:    name,
			ModelURL: a.canon.ModelURL(name),
			Columns:  cols,
		})
	}
	return rows
}
