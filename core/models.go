package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"time"

	"gopkg.in/yaml.v3"
)

// Output subdirectories under the output root.
const (
	QuestionsDir = "questions"
	AnswersDir   = "answers"
	DebugDir     = "debug"
)

// ContentHash returns the hex encoded SHA-256 digest of text.
// Artifact names and .meta sidecars written by earlier generator versions
// use the same digest, so their output directories are reused as caches.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ShortHash returns the first 8 hex characters of ContentHash(text).
func ShortHash(text string) string {
	return ContentHash(text)[:8]
}

// FileGroup is a declared group of source files plus the names of the
// templates, instruction lists and question seed lists used to generate
// questions and answers about them. It is never mutated after loading.
type FileGroup struct {
	Files                   []string `yaml:"files"`
	Iterations              int      `yaml:"iterations"`
	FileHeader              string   `yaml:"file_header"`
	QuestionPrompt          string   `yaml:"question_prompt"`
	AnswerPrompt            string   `yaml:"answer_prompt"`
	QuestionInstructionList []string `yaml:"question_instruction_list"`
	AnswerInstructionList   []string `yaml:"answer_instruction_list"`
	GenerateQuestionList    []string `yaml:"generate_question_list"`
}

// UnmarshalYAML decodes a file group, defaulting Iterations to 1 when the
// key is omitted.
func (g *FileGroup) UnmarshalYAML(node *yaml.Node) error {
	type plain FileGroup
	p := plain{Iterations: 1}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*g = FileGroup(p)
	return nil
}

// JobID uniquely identifies one expanded iteration of a file group.
type JobID string

// NewJobID builds the "{group}_{iteration}" identity of a job.
func NewJobID(group string, iteration int) JobID {
	return JobID(fmt.Sprintf("%s_%d", group, iteration))
}

// Job is one expanded iteration of a file group.
// All jobs of a group share the same read-only *FileGroup.
type Job struct {
	ID        JobID
	Group     string
	Iteration int
	Config    *FileGroup
}

// ArtifactPaths locates the persisted outputs of a single generation task,
// relative to the output root.
type ArtifactPaths struct {
	Artifact string // generated text
	Meta     string // content hash sidecar
	Debug    string // exact prompt sent to the provider
}

// QuestionTask generates the question list for one (seed, instruction) pair.
// Seed and Instruction are 1-based indexes into the job's collected lists.
type QuestionTask struct {
	Job         JobID
	Seed        int
	Instruction int
}

// Key returns the stable identity of the task within its job.
func (t QuestionTask) Key() QuestionKey {
	return QuestionKey{Seed: t.Seed, Instruction: t.Instruction}
}

// Paths returns the deterministic artifact locations for the task.
func (t QuestionTask) Paths() ArtifactPaths {
	base := fmt.Sprintf("questions_%s_seed%d_instr%d", t.Job, t.Seed, t.Instruction)
	return ArtifactPaths{
		Artifact: path.Join(QuestionsDir, base+".txt"),
		Meta:     path.Join(QuestionsDir, base+".meta"),
		Debug:    path.Join(DebugDir, fmt.Sprintf("debug_%s_seed%d_instr%d_questions.txt", t.Job, t.Seed, t.Instruction)),
	}
}

// QuestionKey identifies a question task inside a job.
type QuestionKey struct {
	Seed        int
	Instruction int
}

// AnswerTask generates one answer for one extracted question under one
// answer instruction. Question is the 1-based position of the question in
// the extracted list; InstructionHash is ShortHash of the answer instruction.
type AnswerTask struct {
	Job             JobID
	Seed            int
	Instruction     int
	Question        int
	InstructionHash string
}

// Paths returns the deterministic artifact locations for the task.
func (t AnswerTask) Paths() ArtifactPaths {
	suffix := fmt.Sprintf("seed%d_instr%d_q%d_%s", t.Seed, t.Instruction, t.Question, t.InstructionHash)
	base := fmt.Sprintf("answer_%s_%s", t.Job, suffix)
	return ArtifactPaths{
		Artifact: path.Join(AnswersDir, base+".txt"),
		Meta:     path.Join(AnswersDir, base+".meta"),
		Debug:    path.Join(DebugDir, fmt.Sprintf("debug_%s_answer_%s.txt", t.Job, suffix)),
	}
}

// CacheEntry is a persisted generation result.
// Hash is the ContentHash of Prompt at the time Text was generated.
type CacheEntry struct {
	Text      string
	Hash      string
	Prompt    string
	UpdatedAt time.Time
}
