package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/qagen/ai"
	"github.com/poiesic/qagen/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
global:
  base_dir: src
  threads: 2
providers:
  question:
    provider: openai
    model: gpt-4o-mini
    requests_per_minute: 120
  answer:
    provider: ollama
    model: llama3
    timeout_seconds: 30
FileHeaders:
  - name: DefaultFileHeader
    description: "File: {file_name}"
QuestionPrompt:
  - name: DefaultQuestionPrompt
    description: "{file_content}\n{instruction}\n{generate_question}"
AnswerPrompt:
  - name: DefaultAnswerPrompt
    description: "{file_content}\n{instruction}\n{question}"
QuestionInstructionList:
  - name: CasualAndFormal
    instruction:
      - "Use a casual tone."
      - "Use a formal tone."
AnswerInstructionList:
  - name: Default
    instruction:
      - ""
GenerateQuestionLists:
  - name: DefaultFileQuestions
    questions:
      - "Ask about {file_name_list}."
file_groups:
  README:
    iterations: 3
    files: [README.md]
    file_header: DefaultFileHeader
    question_prompt: DefaultQuestionPrompt
    answer_prompt: DefaultAnswerPrompt
    question_instruction_list: [CasualAndFormal]
    answer_instruction_list: [Default]
    generate_question_list: [DefaultFileQuestions]
  Docs:
    files: [docs/guide.md]
  Empty:
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), "/project")
	require.NoError(t, err)

	t.Run("defaults and normalization", func(t *testing.T) {
		assert.Equal(t, filepath.Join("/project", "src"), cfg.Global.BaseDir)
		assert.Equal(t, filepath.Join("/project", DefaultOutputDir), cfg.Global.OutputDir)
		assert.Equal(t, DefaultOllamaURL, cfg.Global.OllamaURL)
		assert.Equal(t, CacheBackendFiles, cfg.Global.CacheBackend)
		assert.Equal(t, QuestionCacheExistence, cfg.Global.QuestionCache)
		assert.Equal(t, 2, cfg.Global.Threads)
		assert.Equal(t, 2, cfg.TaskThreads())
		assert.Equal(t, "/project", cfg.Dir)
	})

	t.Run("file groups", func(t *testing.T) {
		require.Len(t, cfg.FileGroups, 3)
		readme := cfg.FileGroups["README"]
		assert.Equal(t, 3, readme.Iterations)
		assert.Equal(t, []string{"README.md"}, readme.Files)
		assert.Equal(t, "DefaultQuestionPrompt", readme.QuestionPrompt)
		assert.Equal(t, []string{"CasualAndFormal"}, readme.QuestionInstructionList)

		assert.Equal(t, 1, cfg.FileGroups["Docs"].Iterations, "omitted iterations default to 1")
		assert.Equal(t, 1, cfg.FileGroups["Empty"].Iterations)
	})

	t.Run("catalog sources", func(t *testing.T) {
		cat := catalog.New(cfg.Sources())
		tmpl, err := cat.Resolve(catalog.KindFileHeader, "DefaultFileHeader")
		require.NoError(t, err)
		assert.Equal(t, "File: {file_name}", tmpl.Text)

		list, err := cat.List(catalog.KindQuestionInstructions, "CasualAndFormal")
		require.NoError(t, err)
		assert.Len(t, list, 2)

		seeds, err := cat.List(catalog.KindQuestionSeeds, "DefaultFileQuestions")
		require.NoError(t, err)
		assert.Equal(t, []string{"Ask about {file_name_list}."}, seeds)
	})
}

func TestParse_ExplicitZeroIterations(t *testing.T) {
	doc := `
providers:
  question: {provider: ollama, model: m}
  answer: {provider: ollama, model: m}
file_groups:
  G:
    iterations: 0
`
	cfg, err := Parse([]byte(doc), "")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.FileGroups["G"].Iterations)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "missing question provider",
			doc:     "providers:\n  answer: {provider: ollama, model: m}\n",
			wantErr: ErrMissingProvider,
		},
		{
			name:    "missing answer provider",
			doc:     "providers:\n  question: {provider: ollama, model: m}\n",
			wantErr: ErrMissingProvider,
		},
		{
			name:    "unknown provider",
			doc:     "providers:\n  question: {provider: bard, model: m}\n  answer: {provider: ollama, model: m}\n",
			wantErr: ai.ErrUnknownProvider,
		},
		{
			name:    "missing model",
			doc:     "providers:\n  question: {provider: ollama}\n  answer: {provider: ollama, model: m}\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "unknown cache backend",
			doc:     "global: {cache_backend: redis}\nproviders:\n  question: {provider: ollama, model: m}\n  answer: {provider: ollama, model: m}\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "unknown question cache policy",
			doc:     "global: {question_cache: never}\nproviders:\n  question: {provider: ollama, model: m}\n  answer: {provider: ollama, model: m}\n",
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("global: [unterminated"), "")
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.Global.BaseDir)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProviderConfig(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), "/project")
	require.NoError(t, err)
	assert.True(t, cfg.NeedsAPIKey())

	q, err := cfg.ProviderConfig(RoleQuestion, "sk-test")
	require.NoError(t, err)
	assert.Equal(t, ai.KindRemoteCompletion, q.Kind)
	assert.Equal(t, "gpt-4o-mini", q.Model)
	assert.Equal(t, "sk-test", q.APIKey)
	assert.Equal(t, 120.0, q.RequestsPerMinute)
	require.NoError(t, q.Validate())

	a, err := cfg.ProviderConfig(RoleAnswer, "sk-test")
	require.NoError(t, err)
	assert.Equal(t, ai.KindLocalCompletion, a.Kind)
	assert.Equal(t, DefaultOllamaURL, a.Host)
	assert.Equal(t, 30*time.Second, a.Timeout)
	assert.Empty(t, a.APIKey)

	noKey, err := cfg.ProviderConfig(RoleQuestion, "")
	require.NoError(t, err)
	assert.ErrorIs(t, noKey.Validate(), ai.ErrMissingAPIKey)
}
