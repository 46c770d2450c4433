// Package engine expands file groups into jobs and runs the two-stage
// question and answer generation for every job.
//
// Jobs run on an outer worker pool. Within a job, question tasks run on an
// inner pool; answer tasks are scheduled only after every question task of
// that job has resolved. Workers return results over channels and the
// coordinating goroutine assembles them, so no result map is shared.
//
// A task that exhausts its provider retries is logged and skipped. A job
// whose templates cannot be resolved, or whose files yield no content, is
// aborted without affecting other jobs.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/qagen/ai"
	"github.com/poiesic/qagen/cache"
	"github.com/poiesic/qagen/catalog"
	"github.com/poiesic/qagen/core"
	"github.com/poiesic/qagen/source"
)

// Deps are the components an Engine composes.
type Deps struct {
	Catalog   *catalog.Catalog
	Assembler *source.Assembler
	Questions ai.Caller
	Answers   ai.Caller
	Store     cache.Store
}

// Engine runs every job of a configuration.
type Engine struct {
	groups      map[string]*core.FileGroup
	deps        Deps
	threads     int
	taskThreads int
	hashQs      bool
	progress    io.Writer
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreads sets the outer pool width, the number of concurrent jobs.
// Default is runtime.NumCPU().
func WithThreads(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.threads = n
	}
}

// WithTaskThreads sets the inner pool width, the number of concurrent tasks
// within one job. Default is the outer pool width.
func WithTaskThreads(n int) Option {
	return func(e *Engine) {
		e.taskThreads = n
	}
}

// WithHashedQuestions applies the content hash policy to question artifacts.
// By default any existing question artifact is reused.
func WithHashedQuestions(enabled bool) Option {
	return func(e *Engine) {
		e.hashQs = enabled
	}
}

// WithProgress reports job progress to w.
func WithProgress(w io.Writer) Option {
	return func(e *Engine) {
		e.progress = w
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// New creates an engine for the given file groups.
func New(groups map[string]*core.FileGroup, deps Deps, opts ...Option) (*Engine, error) {
	if deps.Catalog == nil {
		return nil, ErrCatalogRequired
	}
	if deps.Assembler == nil {
		return nil, ErrAssemblerRequired
	}
	if deps.Questions == nil || deps.Answers == nil {
		return nil, ErrCallerRequired
	}
	if deps.Store == nil {
		return nil, ErrStoreRequired
	}

	e := &Engine{
		groups:  groups,
		deps:    deps,
		threads: max(runtime.NumCPU(), 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.taskThreads < 1 {
		e.taskThreads = e.threads
	}
	e.logger = e.logger.With("component", "engine")
	return e, nil
}

func (e *Engine) scheduler() *scheduler {
	return &scheduler{
		catalog:       e.deps.Catalog,
		assembler:     e.deps.Assembler,
		questions:     e.deps.Questions,
		answers:       e.deps.Answers,
		store:         e.deps.Store,
		hashQuestions: e.hashQs,
		taskThreads:   e.taskThreads,
		logger:        e.logger,
	}
}

// Jobs returns the expanded jobs in submission order.
func (e *Engine) Jobs() []*core.Job {
	return SortedJobs(Expand(e.groups))
}

type jobOutcome struct {
	index  int
	report JobReport
}

// Run expands all jobs, runs them and returns the aggregated report.
// Job failures are recorded in the report; the error return is reserved for
// failures to start the run.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	jobs := e.Jobs()
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		JobsTotal: len(jobs),
		Jobs:      make([]JobReport, len(jobs)),
	}
	logger := e.logger.With("run_id", report.RunID)
	logger.Info("starting generation", "jobs", len(jobs), "threads", e.threads, "task_threads", e.taskThreads)

	pool, err := ants.NewPool(e.threads)
	if err != nil {
		return nil, fmt.Errorf("creating job pool: %w", err)
	}
	defer pool.Release()

	var progress *ProgressTracker
	if e.progress != nil {
		progress = NewProgressTracker(e.progress, len(jobs), 1)
		progress.Start()
	}

	sched := e.scheduler()
	sched.logger = logger
	results := make(chan jobOutcome, len(jobs))
	for i, job := range jobs {
		err := pool.Submit(func() {
			out := jobOutcome{index: i, report: JobReport{ID: job.ID}}
			start := time.Now()
			defer func() {
				if r := recover(); r != nil {
					out.report.Err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
				}
				out.report.Elapsed = time.Since(start)
				results <- out
			}()
			out.report, out.report.Err = sched.run(ctx, job)
		})
		if err != nil {
			results <- jobOutcome{index: i, report: JobReport{ID: job.ID, Err: fmt.Errorf("submitting job: %w", err)}}
		}
	}

	for range jobs {
		out := <-results
		report.Jobs[out.index] = out.report
		failed := out.report.Err != nil
		if failed {
			report.JobsFailed++
			logger.Error("job aborted", "job", string(out.report.ID), "err", out.report.Err)
		} else {
			report.JobsCompleted++
		}
		report.Questions.add(out.report.QuestionRun)
		report.Answers.add(out.report.AnswerRun)
		if progress != nil {
			progress.Done(failed)
		}
	}
	if progress != nil {
		progress.Finish()
	}

	report.Elapsed = time.Since(report.StartedAt)
	logger.Info("generation finished",
		"completed", report.JobsCompleted,
		"failed", report.JobsFailed,
		"answers_generated", report.Answers.Generated,
		"answers_cached", report.Answers.Cached,
		"elapsed", report.Elapsed)
	return report, nil
}

// JobPlan describes the fan-out of one job without running it.
type JobPlan struct {
	ID                   core.JobID
	Files                int
	Seeds                int
	QuestionInstructions int
	AnswerInstructions   int
	// Err is set when the job would abort at template resolution.
	Err error
}

// QuestionTasks returns the number of question tasks the job would run.
func (p JobPlan) QuestionTasks() int {
	return p.Seeds * p.QuestionInstructions
}

// Plan resolves every job's bindings without touching files or providers.
func (e *Engine) Plan() []JobPlan {
	return PlanJobs(e.groups, e.deps.Catalog, e.logger)
}

// PlanJobs resolves the bindings of every job of groups against cat.
// It needs no cache, assembler or provider.
func PlanJobs(groups map[string]*core.FileGroup, cat *catalog.Catalog, logger *slog.Logger) []JobPlan {
	if logger == nil {
		logger = slog.Default()
	}
	sched := &scheduler{catalog: cat, logger: logger}
	jobs := SortedJobs(Expand(groups))
	plans := make([]JobPlan, 0, len(jobs))
	for _, job := range jobs {
		plan := JobPlan{ID: job.ID, Files: len(job.Config.Files)}
		b, err := sched.resolve(job, logger.With("job", string(job.ID)))
		if err != nil {
			plan.Err = err
		} else {
			plan.Seeds = len(b.seeds)
			plan.QuestionInstructions = len(b.questionInstructions)
			plan.AnswerInstructions = len(b.answerInstructions)
		}
		plans = append(plans, plan)
	}
	return plans
}
