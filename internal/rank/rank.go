// Package rank orders aggregated rows by a task's primary metric and
// assigns display ranks.
package rank

import (
	"math"
	"slices"
	"sort"

	"github.com/rostrum-dev/rostrum/internal/metrics"
	"github.com/rostrum-dev/rostrum/internal/models"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

// Rank returns the rows ordered by the task's primary metric, best
// first, with 1-based sequential ranks assigned. Rows whose primary
// column is unavailable sort after every scored row. Ties keep their
// aggregation order, and the input slice is left untouched.
func Rank(rows []models.Row, task tasks.Descriptor, showByDifficulty bool) []models.Row {
	primary := task.PrimaryMetric(showByDifficulty)
	ranked := slices.Clone(rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return primaryScore(ranked[i], primary) > primaryScore(ranked[j], primary)
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func primaryScore(row models.Row, primary string) float64 {
	v, ok := metrics.ParseScore(row.Columns[primary])
	if !ok {
		return math.Inf(-1)
	}
	return v
}
