// Package config loads the generation configuration document.
//
// The document is YAML. Loading applies defaults, resolves relative paths
// against the directory holding the file, and validates the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/qagen/ai"
	"github.com/poiesic/qagen/catalog"
	"github.com/poiesic/qagen/core"
	"gopkg.in/yaml.v3"
)

// Defaults applied to omitted global settings.
const (
	DefaultOutputDir = "qa_generation_output"
	DefaultOllamaURL = ai.DefaultLocalHost
	DefaultThreads   = 4
)

// Cache backends.
const (
	CacheBackendFiles  = "files"
	CacheBackendBadger = "badger"
)

// Question cache policies.
const (
	// QuestionCacheExistence treats any existing question artifact as fresh.
	QuestionCacheExistence = "existence"
	// QuestionCacheHash applies the content hash policy to questions too.
	QuestionCacheHash = "hash"
)

// Role names the two provider bindings.
type Role string

const (
	RoleQuestion Role = "question"
	RoleAnswer   Role = "answer"
)

// Global holds run-wide settings.
type Global struct {
	BaseDir       string `yaml:"base_dir"`
	OutputDir     string `yaml:"output_dir"`
	OllamaURL     string `yaml:"ollama_url"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	CacheBackend  string `yaml:"cache_backend"`
	QuestionCache string `yaml:"question_cache"`
	Threads       int    `yaml:"threads"`
	TaskThreads   int    `yaml:"task_threads"`
}

// Provider binds a role to a provider variant and model.
type Provider struct {
	Provider          string  `yaml:"provider"`
	Model             string  `yaml:"model"`
	RequestsPerMinute float64 `yaml:"requests_per_minute"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
}

// Providers holds the question and answer bindings.
type Providers struct {
	Question *Provider `yaml:"question"`
	Answer   *Provider `yaml:"answer"`
}

// Config is the parsed configuration document.
type Config struct {
	Global    Global    `yaml:"global"`
	Providers Providers `yaml:"providers"`

	FileHeaders              []catalog.Entry           `yaml:"FileHeaders"`
	QuestionPrompts          []catalog.Entry           `yaml:"QuestionPrompt"`
	AnswerPrompts            []catalog.Entry           `yaml:"AnswerPrompt"`
	QuestionInstructionLists []catalog.InstructionList `yaml:"QuestionInstructionList"`
	AnswerInstructionLists   []catalog.InstructionList `yaml:"AnswerInstructionList"`
	QuestionSeedLists        []catalog.SeedList        `yaml:"GenerateQuestionLists"`

	FileGroups map[string]*core.FileGroup `yaml:"file_groups"`

	// Dir is the directory relative paths were resolved against.
	Dir string `yaml:"-"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document. Relative paths resolve against dir.
func Parse(data []byte, dir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	for name, g := range cfg.FileGroups {
		if g == nil {
			cfg.FileGroups[name] = &core.FileGroup{Iterations: 1}
		}
	}

	cfg.applyDefaults()
	cfg.normalize(dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	g := &c.Global
	if g.OutputDir == "" {
		g.OutputDir = DefaultOutputDir
	}
	if g.OllamaURL == "" {
		g.OllamaURL = DefaultOllamaURL
	}
	if g.CacheBackend == "" {
		g.CacheBackend = CacheBackendFiles
	}
	if g.QuestionCache == "" {
		g.QuestionCache = QuestionCacheExistence
	}
	if g.Threads <= 0 {
		g.Threads = DefaultThreads
	}
}

func (c *Config) normalize(dir string) {
	c.Dir = dir
	g := &c.Global
	g.BaseDir = resolve(dir, strings.TrimSpace(g.BaseDir))
	g.OutputDir = resolve(dir, strings.TrimSpace(g.OutputDir))
	g.CacheBackend = strings.ToLower(strings.TrimSpace(g.CacheBackend))
	g.QuestionCache = strings.ToLower(strings.TrimSpace(g.QuestionCache))
	g.OllamaURL = strings.TrimSpace(g.OllamaURL)
	g.OpenAIBaseURL = strings.TrimSpace(g.OpenAIBaseURL)
}

func resolve(dir, p string) string {
	if dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks run-wide settings and provider bindings.
// File group contents are checked per job when the job runs.
func (c *Config) Validate() error {
	if c.Providers.Question == nil {
		return fmt.Errorf("%w: providers.question", ErrMissingProvider)
	}
	if c.Providers.Answer == nil {
		return fmt.Errorf("%w: providers.answer", ErrMissingProvider)
	}
	for _, role := range []Role{RoleQuestion, RoleAnswer} {
		p := c.provider(role)
		if _, err := ai.ParseProviderKind(p.Provider); err != nil {
			return fmt.Errorf("providers.%s: %w", role, err)
		}
		if strings.TrimSpace(p.Model) == "" {
			return fmt.Errorf("%w: providers.%s.model is required", ErrInvalidConfig, role)
		}
		if p.RequestsPerMinute < 0 || p.TimeoutSeconds < 0 {
			return fmt.Errorf("%w: providers.%s limits must not be negative", ErrInvalidConfig, role)
		}
	}

	switch c.Global.CacheBackend {
	case CacheBackendFiles, CacheBackendBadger:
	default:
		return fmt.Errorf("%w: cache_backend %q", ErrInvalidConfig, c.Global.CacheBackend)
	}
	switch c.Global.QuestionCache {
	case QuestionCacheExistence, QuestionCacheHash:
	default:
		return fmt.Errorf("%w: question_cache %q", ErrInvalidConfig, c.Global.QuestionCache)
	}
	if c.Global.Threads < 1 {
		return fmt.Errorf("%w: threads must be >= 1", ErrInvalidConfig)
	}
	if c.Global.TaskThreads < 0 {
		return fmt.Errorf("%w: task_threads must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) provider(role Role) *Provider {
	if role == RoleQuestion {
		return c.Providers.Question
	}
	return c.Providers.Answer
}

// TaskThreads returns the inner pool width, which defaults to Threads.
func (c *Config) TaskThreads() int {
	if c.Global.TaskThreads > 0 {
		return c.Global.TaskThreads
	}
	return c.Global.Threads
}

// Sources returns the catalog sections of the document.
func (c *Config) Sources() catalog.Sources {
	return catalog.Sources{
		FileHeaders:          c.FileHeaders,
		QuestionPrompts:      c.QuestionPrompts,
		AnswerPrompts:        c.AnswerPrompts,
		QuestionInstructions: c.QuestionInstructionLists,
		AnswerInstructions:   c.AnswerInstructionLists,
		QuestionSeeds:        c.QuestionSeedLists,
	}
}

// ProviderConfig builds the provider configuration for role.
// apiKey is used by remote providers only.
func (c *Config) ProviderConfig(role Role, apiKey string) (*ai.ProviderConfig, error) {
	p := c.provider(role)
	if p == nil {
		return nil, fmt.Errorf("%w: providers.%s", ErrMissingProvider, role)
	}
	kind, err := ai.ParseProviderKind(p.Provider)
	if err != nil {
		return nil, fmt.Errorf("providers.%s: %w", role, err)
	}

	opts := []ai.ProviderOption{
		ai.WithKind(kind),
		ai.WithModel(strings.TrimSpace(p.Model)),
		ai.WithRequestsPerMinute(p.RequestsPerMinute),
		ai.WithTimeout(time.Duration(p.TimeoutSeconds) * time.Second),
	}
	switch kind {
	case ai.KindRemoteCompletion:
		opts = append(opts, ai.WithHost(c.Global.OpenAIBaseURL), ai.WithAPIKey(apiKey))
	case ai.KindLocalCompletion:
		opts = append(opts, ai.WithHost(c.Global.OllamaURL))
	}
	return ai.NewProviderConfig(opts...), nil
}

// NeedsAPIKey reports whether any role uses a remote provider.
func (c *Config) NeedsAPIKey() bool {
	for _, role := range []Role{RoleQuestion, RoleAnswer} {
		p := c.provider(role)
		if p == nil {
			continue
		}
		if kind, err := ai.ParseProviderKind(p.Provider); err == nil && kind == ai.KindRemoteCompletion {
			return true
		}
	}
	return false
}
