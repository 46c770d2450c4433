package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/qagen/ai"
	"github.com/poiesic/qagen/cache"
	"github.com/poiesic/qagen/catalog"
	"github.com/poiesic/qagen/core"
	"github.com/poiesic/qagen/extract"
	"github.com/poiesic/qagen/source"
)

// scheduler runs the question and answer stages of one job.
type scheduler struct {
	catalog       *catalog.Catalog
	assembler     *source.Assembler
	questions     ai.Caller
	answers       ai.Caller
	store         cache.Store
	hashQuestions bool
	taskThreads   int
	logger        *slog.Logger
}

// bindings are the resolved templates and lists of one job.
type bindings struct {
	header               catalog.Template
	questionPrompt       catalog.Template
	answerPrompt         catalog.Template
	seeds                []string
	questionInstructions []string
	answerInstructions   []string
}

// questionTask is a question task with its fully rendered prompt.
type questionTask struct {
	core.QuestionTask
	prompt string
}

type questionResult struct {
	key       core.QuestionKey
	outcome   Outcome
	seeded    bool
	questions []string
}

// answerTask is an answer task with its fully rendered prompt.
type answerTask struct {
	core.AnswerTask
	prompt string
}

type answerResult struct {
	outcome Outcome
	seeded  bool
}

// resolve looks up every template and list the group names.
// A missing file header or list is logged and skipped; a missing question or
// answer prompt is an error.
func (s *scheduler) resolve(job *core.Job, logger *slog.Logger) (*bindings, error) {
	group := job.Config
	if err := core.ValidateFileGroup(job.Group, group); err != nil {
		return nil, err
	}

	b := &bindings{}
	header, err := s.catalog.Resolve(catalog.KindFileHeader, group.FileHeader)
	if err != nil {
		logger.Warn("file header not found, using empty header", "name", group.FileHeader)
	} else {
		b.header = header
	}

	if b.questionPrompt, err = s.catalog.Resolve(catalog.KindQuestionPrompt, group.QuestionPrompt); err != nil {
		return nil, err
	}
	if b.answerPrompt, err = s.catalog.Resolve(catalog.KindAnswerPrompt, group.AnswerPrompt); err != nil {
		return nil, err
	}

	b.questionInstructions = s.collect(catalog.KindQuestionInstructions, group.QuestionInstructionList, logger)
	b.seeds = s.collect(catalog.KindQuestionSeeds, group.GenerateQuestionList, logger)
	b.answerInstructions = dedupe(s.collect(catalog.KindAnswerInstructions, group.AnswerInstructionList, logger))
	return b, nil
}

func (s *scheduler) collect(kind catalog.ListKind, names []string, logger *slog.Logger) []string {
	var out []string
	for _, name := range names {
		items, err := s.catalog.List(kind, name)
		if err != nil {
			logger.Warn("list not found, skipping", "kind", kind.String(), "name", name)
			continue
		}
		out = append(out, items...)
	}
	return out
}

// dedupe drops repeated answer instructions: identical text hashes to the
// same artifact path.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// run executes one job. The returned error aborts only this job.
// Elapsed is filled in by the caller.
func (s *scheduler) run(ctx context.Context, job *core.Job) (JobReport, error) {
	start := time.Now()
	logger := s.logger.With("job", string(job.ID))
	report := JobReport{ID: job.ID}

	b, err := s.resolve(job, logger)
	if err != nil {
		return report, err
	}
	if len(b.seeds) == 0 || len(b.questionInstructions) == 0 {
		logger.Warn("no question seeds or instructions found")
		report.Skipped = true
		return report, nil
	}

	content, err := s.assembler.BuildContent(job.Config.Files, b.header)
	if err != nil {
		return report, err
	}
	if content == "" {
		return report, fmt.Errorf("%w: %s", core.ErrNoContent, job.ID)
	}

	pool, err := ants.NewPool(s.taskThreads)
	if err != nil {
		return report, err
	}
	defer pool.Release()

	qTasks, err := s.questionTasks(job, b, content)
	if err != nil {
		return report, err
	}
	logger.Info("starting question stage", "tasks", len(qTasks))
	collected := runStage(pool, logger.With("stage", "questions"), qTasks, func(t questionTask) questionResult {
		return s.runQuestion(ctx, t, logger)
	}, func(t questionTask) questionResult {
		return questionResult{key: t.Key(), outcome: OutcomeFailed}
	})

	// Every question task has resolved; assemble by task identity.
	lists := make(map[core.QuestionKey][]string, len(collected))
	for _, r := range collected {
		report.QuestionRun.record(r.outcome, r.seeded)
		lists[r.key] = r.questions
		report.Questions += len(r.questions)
	}

	aTasks, err := s.answerTasks(job, b, content, qTasks, lists)
	if err != nil {
		return report, err
	}
	logger.Info("starting answer stage", "tasks", len(aTasks))
	for _, r := range runStage(pool, logger.With("stage", "answers"), aTasks, func(t answerTask) answerResult {
		return s.runAnswer(ctx, t, logger)
	}, func(answerTask) answerResult {
		return answerResult{outcome: OutcomeFailed}
	}) {
		report.AnswerRun.record(r.outcome, r.seeded)
	}

	logger.Info("job complete",
		"questions", report.Questions,
		"answers_generated", report.AnswerRun.Generated,
		"answers_cached", report.AnswerRun.Cached,
		"answers_failed", report.AnswerRun.Failed,
		"elapsed", time.Since(start))
	return report, nil
}

// questionTasks renders one prompt per (seed, instruction) pair, indexes 1-based.
func (s *scheduler) questionTasks(job *core.Job, b *bindings, content string) ([]questionTask, error) {
	fileList := strings.Join(job.Config.Files, ", ")
	tasks := make([]questionTask, 0, len(b.seeds)*len(b.questionInstructions))
	for si, seed := range b.seeds {
		for ii, instruction := range b.questionInstructions {
			prompt, err := b.questionPrompt.Render(catalog.Vars{
				catalog.FieldFileContent:      content,
				catalog.FieldGenerateQuestion: seed,
				catalog.FieldInstruction:      instruction,
				catalog.FieldFileNameList:     fileList,
			})
			if err != nil {
				return nil, fmt.Errorf("question prompt %q: %w", b.questionPrompt.Name, err)
			}
			tasks = append(tasks, questionTask{
				QuestionTask: core.QuestionTask{Job: job.ID, Seed: si + 1, Instruction: ii + 1},
				prompt:       prompt,
			})
		}
	}
	return tasks, nil
}

// answerTasks crosses every extracted question with every answer instruction.
// qTasks fixes the iteration order; lists holds the extracted questions.
func (s *scheduler) answerTasks(job *core.Job, b *bindings, content string, qTasks []questionTask, lists map[core.QuestionKey][]string) ([]answerTask, error) {
	var tasks []answerTask
	for _, qt := range qTasks {
		for qi, question := range lists[qt.Key()] {
			for _, instruction := range b.answerInstructions {
				prompt, err := b.answerPrompt.Render(catalog.Vars{
					catalog.FieldFileContent: content,
					catalog.FieldInstruction: instruction,
					catalog.FieldQuestion:    question,
				})
				if err != nil {
					return nil, fmt.Errorf("answer prompt %q: %w", b.answerPrompt.Name, err)
				}
				tasks = append(tasks, answerTask{
					AnswerTask: core.AnswerTask{
						Job:             job.ID,
						Seed:            qt.Seed,
						Instruction:     qt.Instruction,
						Question:        qi + 1,
						InstructionHash: core.ShortHash(instruction),
					},
					prompt: prompt,
				})
			}
		}
	}
	return tasks, nil
}

// runStage submits every task to pool and blocks until all results arrive.
// Each worker sends exactly one result; a panicking or rejected task
// contributes failed(task).
func runStage[T, R any](pool *ants.Pool, logger *slog.Logger, tasks []T, work func(T) R, failed func(T) R) []R {
	results := make(chan R, len(tasks))
	for _, task := range tasks {
		err := pool.Submit(func() {
			res := failed(task)
			defer func() {
				if r := recover(); r != nil {
					logger.Error("task panicked", "panic", r)
				}
				results <- res
			}()
			res = work(task)
		})
		if err != nil {
			logger.Error("task rejected by pool", "err", err)
			results <- failed(task)
		}
	}

	out := make([]R, 0, len(tasks))
	for range tasks {
		out = append(out, <-results)
	}
	return out
}

func (s *scheduler) runQuestion(ctx context.Context, t questionTask, logger *slog.Logger) questionResult {
	paths := t.Paths()
	logger = logger.With("seed", t.Seed, "instruction", t.Instruction)
	result := questionResult{key: t.Key(), outcome: OutcomeFailed}

	var (
		hash   string
		cached cache.Result
		err    error
	)
	if s.hashQuestions {
		hash = core.ContentHash(t.prompt)
		cached, err = s.store.ReadIfFresh(ctx, paths, hash)
	} else {
		cached, err = s.store.ReadIfExists(ctx, paths)
	}
	if err != nil {
		logger.Error("question cache lookup failed", "artifact", paths.Artifact, "err", err)
		return result
	}

	text := strings.TrimSpace(cached.Text)
	if cached.Hit() {
		logger.Info("using existing questions", "artifact", paths.Artifact, "seeded", cached.Seeded)
		result.outcome = OutcomeCached
		result.seeded = cached.Seeded
	} else {
		if cached.Status == cache.StatusStale {
			logger.Info("question prompt changed, regenerating", "artifact", paths.Artifact)
		}
		text, err = s.generate(ctx, s.questions, paths, t.prompt, hash)
		if err != nil {
			logger.Error("failed to generate questions", "err", err)
			return result
		}
		result.outcome = OutcomeGenerated
	}

	result.questions = extract.QuestionList(text)
	logger.Debug("questions extracted", "count", len(result.questions))
	return result
}

func (s *scheduler) runAnswer(ctx context.Context, t answerTask, logger *slog.Logger) answerResult {
	paths := t.Paths()
	logger = logger.With("seed", t.Seed, "instruction", t.Instruction, "question", t.Question)
	hash := core.ContentHash(t.prompt)

	cached, err := s.store.ReadIfFresh(ctx, paths, hash)
	if err != nil {
		logger.Error("answer cache lookup failed", "artifact", paths.Artifact, "err", err)
		return answerResult{outcome: OutcomeFailed}
	}
	switch cached.Status {
	case cache.StatusFresh:
		logger.Debug("answer is up to date", "artifact", paths.Artifact, "seeded", cached.Seeded)
		return answerResult{outcome: OutcomeCached, seeded: cached.Seeded}
	case cache.StatusStale:
		logger.Info("answer prompt changed, regenerating", "artifact", paths.Artifact)
	}

	if _, err := s.generate(ctx, s.answers, paths, t.prompt, hash); err != nil {
		logger.Error("failed to generate answer", "err", err)
		return answerResult{outcome: OutcomeFailed}
	}
	logger.Info("saved answer", "artifact", paths.Artifact)
	return answerResult{outcome: OutcomeGenerated}
}

// generate calls the provider and persists a non-empty result.
// An empty hash stores the artifact under the existence policy.
func (s *scheduler) generate(ctx context.Context, caller ai.Caller, paths core.ArtifactPaths, prompt, hash string) (string, error) {
	text, err := caller.Call(ctx, prompt)
	if err != nil {
		if errors.Is(err, ai.ErrExhausted) {
			return "", fmt.Errorf("no result: %w", err)
		}
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	entry := core.CacheEntry{Text: text, Hash: hash, Prompt: prompt, UpdatedAt: time.Now().UTC()}
	if err := s.store.Write(ctx, paths, entry); err != nil {
		return "", fmt.Errorf("writing %s: %w", paths.Artifact, err)
	}
	return text, nil
}
