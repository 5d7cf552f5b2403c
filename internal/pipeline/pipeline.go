// Package pipeline drives a full precompute run: enumerate every
// combination, persist the run metadata, execute
// filter -> aggregate -> rank per combination with bounded
// parallelism, then consolidate and index the output directory.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rostrum-dev/rostrum/internal/aggregate"
	"github.com/rostrum-dev/rostrum/internal/artifacts"
	"github.com/rostrum-dev/rostrum/internal/canonical"
	"github.com/rostrum-dev/rostrum/internal/combination"
	"github.com/rostrum-dev/rostrum/internal/consolidate"
	"github.com/rostrum-dev/rostrum/internal/dataset"
	"github.com/rostrum-dev/rostrum/internal/filter"
	"github.com/rostrum-dev/rostrum/internal/models"
	"github.com/rostrum-dev/rostrum/internal/rank"
	"github.com/rostrum-dev/rostrum/internal/tasks"
)

const defaultWorkers = 4

// EventType tags a progress event.
type EventType string

const (
	EventRunStart        EventType = "run_start"
	EventTaskStart       EventType = "task_start"
	EventCombinationDone EventType = "combination_done"
	EventRunComplete     EventType = "run_complete"
)

// Event is one progress update emitted while the pipeline runs.
type Event struct {
	Type        EventType
	Task        string
	Combination string
	Total       int
	Err         error
}

// ProgressListener receives progress events. Listeners may be called
// from multiple goroutines and must be safe for that.
type ProgressListener func(Event)

// TaskSummary tallies one task's combination outcomes.
type TaskSummary struct {
	Task      string
	Total     int
	Succeeded int
	Failed    int

	// Preview holds the top rows of the task's unfiltered view, for
	// the end-of-run report.
	Preview []models.Row
}

// RunSummary is the final report of one pipeline invocation.
type RunSummary struct {
	Tasks        []TaskSummary
	TotalCount   int
	Succeeded    int
	Failed       int
	DryRun       bool
	Duration     time.Duration
	Consolidated []string
}

// Failures returns the total failed-combination count.
func (s *RunSummary) Failures() int {
	return s.Failed
}

// Runner executes precompute runs. Construct with New; zero value is
// not usable.
type Runner struct {
	loader *dataset.Loader
	agg    *aggregate.Aggregator
	canon  *canonical.Canonicalizer
	store  *artifacts.Store

	tasks   []tasks.Descriptor
	workers int
	dryRun  bool
	now     func() time.Time

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// Option configures a Runner.
type Option func(*Runner)

// WithTasks restricts the run to the given tasks. Default is every
// registered task.
func WithTasks(ds []tasks.Descriptor) Option {
	return func(r *Runner) {
		r.tasks = ds
	}
}

// WithWorkers sets how many combinations run concurrently.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithDryRun makes Run enumerate and report without writing anything.
func WithDryRun(dry bool) Option {
	return func(r *Runner) {
		r.dryRun = dry
	}
}

// New creates a pipeline Runner.
func New(loader *dataset.Loader, agg *aggregate.Aggregator, canon *canonical.Canonicalizer, store *artifacts.Store, opts ...Option) *Runner {
	r := &Runner{
		loader:  loader,
		agg:     agg,
		canon:   canon,
		store:   store,
		workers: defaultWorkers,
		now:     time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener.
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notify(event Event) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run executes the pipeline. Combination failures are isolated and
// tallied, never fatal; the returned error covers cancellation and
// output-directory problems only.
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {
	start := r.now()
	taskList := r.tasks
	if len(taskList) == 0 {
		taskList = tasks.All()
	}

	// The combination space is materialized before any aggregation so
	// the writer and the consolidator share one source of truth.
	runMeta := models.RunMetadata{
		GeneratedAt: start.UTC(),
		Tasks:       make(map[string]models.TaskCombinations, len(taskList)),
	}
	runCount := 0
	for _, task := range taskList {
		combos := combination.Enumerate(task)
		runMeta.Tasks[task.ID] = models.TaskCombinations{Count: len(combos), Combinations: combos}
		runCount += len(combos)
	}

	summary := &RunSummary{DryRun: r.dryRun, TotalCount: runCount}
	if r.dryRun {
		for _, task := range taskList {
			summary.Tasks = append(summary.Tasks, TaskSummary{Task: task.ID, Total: runMeta.Tasks[task.ID].Count})
		}
		return summary, nil
	}

	if err := r.writeMergedMetadata(runMeta); err != nil {
		return nil, err
	}

	r.notify(Event{Type: EventRunStart, Total: runCount})

	for _, task := range taskList {
		r.notify(Event{Type: EventTaskStart, Task: task.ID, Total: runMeta.Tasks[task.ID].Count})
		ts, err := r.runTask(ctx, task, runMeta.Tasks[task.ID].Combinations)
		if err != nil {
			return nil, err
		}
		summary.Tasks = append(summary.Tasks, ts)
		summary.Succeeded += ts.Succeeded
		summary.Failed += ts.Failed
	}

	taskIDs := make([]string, len(taskList))
	for i, task := range taskList {
		taskIDs[i] = task.ID
	}
	consolidated, err := consolidate.New(r.store, r.canon).Run(taskIDs)
	if err != nil {
		return nil, err
	}
	summary.Consolidated = consolidated

	idx, err := BuildIndex(r.store, r.now())
	if err != nil {
		return nil, err
	}
	if err := r.store.WriteIndex(idx); err != nil {
		return nil, err
	}

	summary.Duration = r.now().Sub(start)
	r.notify(Event{Type: EventRunComplete})
	return summary, nil
}

// writeMergedMetadata persists the run's combination metadata, keeping
// entries for tasks outside this run so a --task subset re-run leaves
// the rest of the output directory consistent.
func (r *Runner) writeMergedMetadata(meta models.RunMetadata) error {
	existing, err := r.store.ReadRunMetadata()
	switch {
	case err == nil:
		for id, tc := range existing.Tasks {
			if _, ours := meta.Tasks[id]; !ours {
				meta.Tasks[id] = tc
			}
		}
	case errors.Is(err, artifacts.ErrNoRunMetadata):
	default:
		slog.Warn("existing combination metadata unreadable, rewriting", "error", err)
	}

	meta.TotalCount = 0
	for _, tc := range meta.Tasks {
		meta.TotalCount += tc.Count
	}
	return r.store.WriteRunMetadata(meta)
}

// runTask loads the task's records once and fans the combinations out
// across the worker pool. The returned error is cancellation only.
func (r *Runner) runTask(ctx context.Context, task tasks.Descriptor, combos []models.CombinationDescriptor) (TaskSummary, error) {
	ts := TaskSummary{Task: task.ID, Total: len(combos)}

	records, err := r.loader.LoadTask(task)
	if err != nil {
		slog.Error("loading task records failed", "task", task.ID, "error", err)
		ts.Failed = len(combos)
		return ts, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, combo := range combos {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := r.runCombination(task, combo, records)
			mu.Lock()
			if err != nil {
				ts.Failed++
			} else {
				ts.Succeeded++
			}
			mu.Unlock()
			r.notify(Event{Type: EventCombinationDone, Task: task.ID, Combination: combo.Filename, Err: err})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ts, err
	}

	if len(combos) > 0 && combos[0].Filters.IsZero() && !combos[0].ShowByDifficulty {
		if artifact, err := r.store.ReadArtifact(task.ID, combos[0].Filename); err == nil {
			ts.Preview = artifact.Results[:min(3, len(artifact.Results))]
		}
	}
	return ts, nil
}

// runCombination materializes one artifact. A panic inside
// aggregation is contained here so one combination cannot take down
// the run.
func (r *Runner) runCombination(task tasks.Descriptor, combo models.CombinationDescriptor, records []models.RawRecord) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("combination %s panicked: %v", combo.Key(), rec)
			slog.Error("combination aggregation panicked", "task", task.ID, "combination", combo.Key(), "panic", rec)
		}
	}()

	filtered := filter.Apply(records, task, combo.Filters)
	rows := rank.Rank(r.agg.Aggregate(filtered, task, combo.Filters, combo.ShowByDifficulty), task, combo.ShowByDifficulty)
	if rows == nil {
		rows = []models.Row{}
	}

	artifact := models.Artifact{
		Task:             task.ID,
		Filters:          combo.Filters,
		ShowByDifficulty: combo.ShowByDifficulty,
		GeneratedAt:      r.now().UTC(),
		Results:          rows,
		Metadata:         models.ArtifactMetadata{ResultCount: len(rows), HasResults: len(rows) > 0},
	}
	if err := r.store.WriteArtifact(combo.Filename, artifact); err != nil {
		slog.Error("writing combination artifact failed", "task", task.ID, "combination", combo.Key(), "error", err)
		return err
	}
	return nil
}

// BuildIndex assembles the index document from the run metadata and
// the artifacts actually present on disk. Callers decide whether to
// persist it.
func BuildIndex(store *artifacts.Store, now time.Time) (models.Index, error) {
	meta, err := store.ReadRunMetadata()
	if err != nil {
		return models.Index{}, err
	}
	idx := models.Index{
		GeneratedAt: now.UTC(),
		Tasks:       make(map[string]models.TaskIndex, len(meta.Tasks)),
	}
	for id, tc := range meta.Tasks {
		entry := models.TaskIndex{CombinationCount: tc.Count, Artifacts: []string{}}
		for _, combo := range tc.Combinations {
			if store.ArtifactExists(id, combo.Filename) {
				entry.Artifacts = append(entry.Artifacts, artifacts.ArtifactRef(id, combo.Filename))
			}
		}
		idx.Tasks[id] = entry
	}
	return idx, nil
}
