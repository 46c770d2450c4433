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


package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/qagen"
	"github.com/poiesic/qagen/config"
	"github.com/poiesic/qagen/engine"
	"github.com/urfave/cli/v2"
)

// APIKeyEnv names the environment variable holding the remote provider key.
const APIKeyEnv = "OPENAI_API_KEY"

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "qagen",
		Usage: "Generate synthetic question and answer data from source files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Generate questions and answers for every file group",
				Action: generateCommand,
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:    "threads",
						Aliases: []string{"t"},
						Usage:   "Number of jobs to run concurrently (overrides global.threads)",
					},
					&cli.IntFlag{
						Name:  "task-threads",
						Usage: "Number of tasks to run concurrently within a job (overrides global.task_threads)",
					},
					&cli.StringFlag{
						Name:  "cache-backend",
						Usage: "Artifact cache backend (files, badger); overrides global.cache_backend",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report job progress on stderr",
						Value: true,
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Write artifacts held in the badger cache to the questions/, answers/ and debug/ layout",
				Action: exportCommand,
				Flags:  []cli.Flag{configFlag()},
			},
			{
				Name:   "jobs",
				Usage:  "List expanded jobs and their task fan-out without calling any provider",
				Action: jobsCommand,
				Flags:  []cli.Flag{configFlag()},
			},
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "Path to the YAML configuration file",
		Required: true,
	}
}

func generateCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	var opts []qagen.Option
	if n := c.Int("threads"); n != 0 {
		if n < 1 {
			return fmt.Errorf("threads must be >= 1, got %d", n)
		}
		opts = append(opts, qagen.WithThreads(n))
	}
	if n := c.Int("task-threads"); n != 0 {
		if n < 1 {
			return fmt.Errorf("task-threads must be >= 1, got %d", n)
		}
		opts = append(opts, qagen.WithTaskThreads(n))
	}
	if backend := c.String("cache-backend"); backend != "" {
		opts = append(opts, qagen.WithCacheBackend(strings.ToLower(backend)))
	}
	if c.Bool("progress") {
		opts = append(opts, qagen.WithProgress(c.App.ErrWriter))
	}

	gen, err := qagen.NewGenerator(cfg, os.Getenv(APIKeyEnv), opts...)
	if err != nil {
		return err
	}
	defer gen.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := gen.Run(ctx)
	if err != nil {
		return err
	}
	printReport(c.App.Writer, report)
	return nil
}

func printReport(w io.Writer, report *engine.Report) {
	fmt.Fprintf(w, "Run %s finished in %s\n", report.RunID, report.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "  Jobs:      %d total, %d completed, %d failed\n",
		report.JobsTotal, report.JobsCompleted, report.JobsFailed)
	fmt.Fprintf(w, "  Questions: %d generated, %d cached, %d failed\n",
		report.Questions.Generated, report.Questions.Cached, report.Questions.Failed)
	fmt.Fprintf(w, "  Answers:   %d generated, %d cached, %d failed\n",
		report.Answers.Generated, report.Answers.Cached, report.Answers.Failed)
	for _, job := range report.Jobs {
		if job.Err != nil {
			fmt.Fprintf(w, "  %s: %v\n", job.ID, job.Err)
		}
	}
}

func jobsCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tFILES\tSEEDS\tQ-INSTR\tA-INSTR\tQ-TASKS\tSTATUS")
	for _, plan := range qagen.Plan(cfg) {
		status := "ok"
		if plan.Err != nil {
			status = plan.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			plan.ID, plan.Files, plan.Seeds, plan.QuestionInstructions,
			plan.AnswerInstructions, plan.QuestionTasks(), status)
	}
	return tw.Flush()
}

func exportCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	n, err := qagen.Export(c.Context, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Exported %d artifacts to %s\n", n, cfg.Global.OutputDir)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
