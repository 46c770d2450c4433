// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package qagen generates synthetic question and answer datasets from
// source files using LLM providers.
//
// A Generator wires a loaded configuration to its components: the template
// catalog, the source file assembler, one provider gateway per role, the
// artifact cache and the engine that runs every job.
package qagen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/qagen/ai"
	"github.com/poiesic/qagen/ai/provider"
	"github.com/poiesic/qagen/cache"
	"github.com/poiesic/qagen/cache/badger"
	"github.com/poiesic/qagen/cache/files"
	"github.com/poiesic/qagen/catalog"
	"github.com/poiesic/qagen/config"
	"github.com/poiesic/qagen/core"
	"github.com/poiesic/qagen/engine"
	"github.com/poiesic/qagen/source"
	"github.com/spf13/afero"
)

// ErrNoCache indicates there is no badger cache to export.
var ErrNoCache = errors.New("no cache to export")

// BadgerDir is the cache directory created under the output directory when
// the badger backend is selected.
const BadgerDir = "cache"

// Generator runs the jobs of one configuration.
type Generator struct {
	cfg    *config.Config
	engine *engine.Engine
	store  cache.Store
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*generatorOptions)

type generatorOptions struct {
	threads      int
	taskThreads  int
	cacheBackend string
	progress     io.Writer
	fs           afero.Fs
	gatewayOpts  []ai.GatewayOption
	logger       *slog.Logger
}

// WithThreads overrides the configured number of concurrent jobs.
func WithThreads(n int) Option {
	return func(o *generatorOptions) {
		o.threads = n
	}
}

// WithTaskThreads overrides the configured number of concurrent tasks per job.
func WithTaskThreads(n int) Option {
	return func(o *generatorOptions) {
		o.taskThreads = n
	}
}

// WithCacheBackend overrides the configured cache backend.
func WithCacheBackend(backend string) Option {
	return func(o *generatorOptions) {
		o.cacheBackend = backend
	}
}

// WithProgress reports job progress to w.
func WithProgress(w io.Writer) Option {
	return func(o *generatorOptions) {
		o.progress = w
	}
}

// WithFs sets the filesystem source files and file cache artifacts live on.
// Default is the OS filesystem. The badger backend always uses the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *generatorOptions) {
		o.fs = fs
	}
}

// WithGatewayOptions passes options to both provider gateways.
func WithGatewayOptions(opts ...ai.GatewayOption) Option {
	return func(o *generatorOptions) {
		o.gatewayOpts = append(o.gatewayOpts, opts...)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *generatorOptions) {
		o.logger = logger
	}
}

// NewGenerator builds every component named by cfg. apiKey is required only
// when a role uses the remote provider; a missing key is reported here,
// before any job starts.
func NewGenerator(cfg *config.Config, apiKey string, opts ...Option) (*Generator, error) {
	options := &generatorOptions{
		threads:      cfg.Global.Threads,
		taskThreads:  cfg.TaskThreads(),
		cacheBackend: cfg.Global.CacheBackend,
		fs:           afero.NewOsFs(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	questions, err := newGateway(cfg, config.RoleQuestion, apiKey, options, logger)
	if err != nil {
		return nil, err
	}
	answers, err := newGateway(cfg, config.RoleAnswer, apiKey, options, logger)
	if err != nil {
		return nil, err
	}

	store, err := openStore(options.fs, options.cacheBackend, cfg.Global.OutputDir)
	if err != nil {
		return nil, err
	}

	assembler := source.NewAssembler(options.fs, source.NewLocator(options.fs, cfg.Global.BaseDir), logger)
	eng, err := engine.New(cfg.FileGroups, engine.Deps{
		Catalog:   catalog.New(cfg.Sources()),
		Assembler: assembler,
		Questions: questions,
		Answers:   answers,
		Store:     store,
	},
		engine.WithThreads(options.threads),
		engine.WithTaskThreads(options.taskThreads),
		engine.WithHashedQuestions(cfg.Global.QuestionCache == config.QuestionCacheHash),
		engine.WithProgress(options.progress),
		engine.WithLogger(logger),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Generator{
		cfg:    cfg,
		engine: eng,
		store:  store,
		logger: logger.With("component", "generator"),
	}, nil
}

func newGateway(cfg *config.Config, role config.Role, apiKey string, options *generatorOptions, logger *slog.Logger) (*ai.Gateway, error) {
	pc, err := cfg.ProviderConfig(role, apiKey)
	if err != nil {
		return nil, err
	}
	gatewayOpts := append([]ai.GatewayOption{ai.WithLogger(logger.With("component", "gateway", "role", string(role)))}, options.gatewayOpts...)
	gw, err := provider.NewGateway(pc, gatewayOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", role, err)
	}
	return gw, nil
}

func openStore(fs afero.Fs, backend, outputDir string) (cache.Store, error) {
	switch backend {
	case config.CacheBackendBadger:
		return badger.NewStore(filepath.Join(outputDir, BadgerDir))
	case config.CacheBackendFiles, "":
		if err := fs.MkdirAll(outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		return files.NewStore(afero.NewBasePathFs(fs, outputDir))
	default:
		return nil, fmt.Errorf("%w: cache_backend %q", config.ErrInvalidConfig, backend)
	}
}

// Plan returns the fan-out of every job in cfg. It opens no cache and calls
// no provider, so it leaves the output directory untouched.
func Plan(cfg *config.Config) []engine.JobPlan {
	return engine.PlanJobs(cfg.FileGroups, catalog.New(cfg.Sources()), slog.Default())
}

// Export writes every artifact held in the badger cache of cfg to the
// questions/, answers/ and debug/ layout under the output directory and
// returns the number of artifacts written. Only WithFs and WithLogger apply.
func Export(ctx context.Context, cfg *config.Config, opts ...Option) (int, error) {
	options := &generatorOptions{fs: afero.NewOsFs(), logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	cacheDir := filepath.Join(cfg.Global.OutputDir, BadgerDir)
	if info, err := os.Stat(cacheDir); err != nil || !info.IsDir() {
		return 0, fmt.Errorf("%w: no badger cache at %s", ErrNoCache, cacheDir)
	}
	src, err := badger.NewStore(cacheDir)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := openStore(options.fs, config.CacheBackendFiles, cfg.Global.OutputDir)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	walker, ok := src.(cache.Walker)
	if !ok {
		return 0, fmt.Errorf("%w: badger store cannot be walked", ErrNoCache)
	}
	n, err := cache.Export(ctx, walker, dst)
	if err != nil {
		return n, err
	}
	options.logger.Info("exported cache", "component", "generator", "artifacts", n, "output_dir", cfg.Global.OutputDir)
	return n, nil
}

// Run executes every job and returns the run report.
func (g *Generator) Run(ctx context.Context) (*engine.Report, error) {
	g.logger.Info("starting run",
		"base_dir", g.cfg.Global.BaseDir,
		"output_dir", g.cfg.Global.OutputDir,
		"groups", len(g.cfg.FileGroups))
	return g.engine.Run(ctx)
}

// Plan returns the fan-out of every job without calling any provider.
func (g *Generator) Plan() []engine.JobPlan {
	return g.engine.Plan()
}

// Jobs returns the expanded jobs in submission order.
func (g *Generator) Jobs() []*core.Job {
	return g.engine.Jobs()
}

// Close releases the artifact cache.
func (g *Generator) Close() error {
	if err := g.store.Close(); err != nil {
		g.logger.Error("error closing cache", "err", err)
		return err
	}
	return nil
}
