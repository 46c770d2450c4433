package engine

import (
	"time"

	"github.com/poiesic/qagen/core"
)

// Outcome is the terminal state of one generation task.
type Outcome int

const (
	// OutcomeFailed means no artifact was produced (exhausted retries,
	// empty response or a cache error).
	OutcomeFailed Outcome = iota
	// OutcomeGenerated means the provider was called and the artifact written.
	OutcomeGenerated
	// OutcomeCached means a fresh artifact was reused.
	OutcomeCached
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGenerated:
		return "generated"
	case OutcomeCached:
		return "cached"
	default:
		return "failed"
	}
}

// StageStats counts task outcomes for one stage.
type StageStats struct {
	Generated int
	Cached    int
	// Seeded counts cached legacy artifacts whose hash was stored this run.
	Seeded int
	Failed int
}

// Total returns the number of tasks counted.
func (s StageStats) Total() int {
	return s.Generated + s.Cached + s.Failed
}

func (s *StageStats) record(o Outcome, seeded bool) {
	switch o {
	case OutcomeGenerated:
		s.Generated++
	case OutcomeCached:
		s.Cached++
		if seeded {
			s.Seeded++
		}
	default:
		s.Failed++
	}
}

func (s *StageStats) add(o StageStats) {
	s.Generated += o.Generated
	s.Cached += o.Cached
	s.Seeded += o.Seeded
	s.Failed += o.Failed
}

// JobReport summarizes one job.
type JobReport struct {
	ID core.JobID
	// Skipped is true when the job had no question seeds or instructions.
	Skipped bool
	// Questions is the number of questions extracted across all question tasks.
	Questions   int
	QuestionRun StageStats
	AnswerRun   StageStats
	Elapsed     time.Duration
	// Err is set when the job was aborted.
	Err error
}

// Report summarizes an engine run.
type Report struct {
	RunID         string
	StartedAt     time.Time
	Elapsed       time.Duration
	JobsTotal     int
	JobsCompleted int
	JobsFailed    int
	Questions     StageStats
	Answers       StageStats
	// Jobs holds one entry per job in submission order.
	Jobs []JobReport
}

// Errors returns the abort error of every failed job.
func (r *Report) Errors() map[core.JobID]error {
	out := make(map[core.JobID]error)
	for _, j := range r.Jobs {
		if j.Err != nil {
			out[j.ID] = j.Err
		}
	}
	return out
}
