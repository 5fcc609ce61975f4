package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/urfave/cli/v3"
)

const (
	itersKey    = "iters"
	repeatsKey  = "repeats"
	profileKey  = "profile"
	markdownKey = "markdown"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "benchmark",
		Usage: "Benchmark scoped signals",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:    itersKey,
				Usage:   "Number of writes timed per propagation case",
				Value:   100,
				Sources: cli.EnvVars("SCOPED_BENCH_ITERS"),
			},
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Number of repeats per construction case, the best one is reported",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file, empty to disable",
				Value: "default.pgo",
			},
			&cli.StringFlag{
				Name:  markdownKey,
				Usage: "Also write the results as a markdown report to this file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "propagate",
				Usage: "Time writes through grids of dependent func signals",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return run(cmd, benchmarkPropagate)
				},
			},
			{
				Name:  "scopes",
				Usage: "Time building and discarding scopes and signals",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return run(cmd, benchmarkScopes)
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(cmd, benchmarkPropagate, benchmarkScopes)
		},
	}
}

type settings struct {
	iters   int
	repeats int
}

type suite func(cfg settings) ([]result, error)

func run(cmd *cli.Command, suites ...suite) error {
	start := time.Now()
	log.Printf("Benchmark started")
	defer func() {
		log.Printf("Benchmark finished in %v", time.Since(start))
	}()

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	cfg := settings{
		iters:   max(1, int(cmd.Uint(itersKey))),
		repeats: max(1, int(cmd.Uint(repeatsKey))),
	}

	var results []result
	for _, s := range suites {
		rr, err := s(cfg)
		if err != nil {
			return err
		}
		results = append(results, rr...)
	}

	if path := cmd.String(markdownKey); path != "" {
		if err := os.WriteFile(path, []byte(markdown(results)), 0644); err != nil {
			return fmt.Errorf("writing markdown report: %w", err)
		}
		log.Printf("Markdown report written to %s", path)
	}
	return nil
}
