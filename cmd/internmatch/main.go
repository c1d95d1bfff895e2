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
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/internmatch"
	"github.com/poiesic/internmatch/ai"
	"github.com/poiesic/internmatch/core"
	"github.com/poiesic/internmatch/rank"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "internmatch",
		Usage:  "Hybrid semantic ranking for internship catalogs",
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
				Name:      "rank",
				Usage:     "Rank catalog items against a free-text query",
				ArgsUsage: "QUERY...",
				Action:    rankCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "location",
						Usage: "Preferred location (substring match, \"any\" disables)",
						Value: core.AnyFilter,
					},
					&cli.StringFlag{
						Name:  "duration",
						Usage: "Preferred duration (substring match, \"any\" disables)",
						Value: core.AnyFilter,
					},
					&cli.IntFlag{
						Name:  "stipend-min",
						Usage: "Minimum acceptable stipend (0 with --stipend-max 0 selects unpaid)",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "stipend-max",
						Usage: "Maximum acceptable stipend",
						Value: 999999,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of results to return",
						Value: rank.DefaultTopK,
					},
				),
			},
			{
				Name:   "warm",
				Usage:  "Build the embedding cache ahead of the first query",
				Action: warmCommand,
				Flags:  commonFlags(),
			},
			{
				Name:   "rebuild",
				Usage:  "Drop the embedding cache and embed the whole catalog again",
				Action: rebuildCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "audit",
				Usage:  "Report cache drift against the catalog without changing anything",
				Action: auditCommand,
				Flags:  commonFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// commonFlags are shared by every subcommand that opens a recommender.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "catalog",
			Aliases:  []string{"c"},
			Usage:    "Path to the catalog JSON file",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB cache directory (empty keeps the cache in memory)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout for embedding calls (0 disables)",
		},
	}
}

// openRecommender builds a recommender from the shared flags.
func openRecommender(c *cli.Context, extra ...internmatch.RecommenderOption) (*internmatch.Recommender, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithTimeout(c.Duration("timeout")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := append([]internmatch.RecommenderOption{internmatch.WithAIConfig(aiConfig)}, extra...)
	rec, err := internmatch.NewRecommender(c.String("catalog"), c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open recommender: %w", err)
	}
	return rec, nil
}

func rankCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a query is required, e.g.: internmatch rank -c internships.json data science")
	}

	rec, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer rec.Close()

	criteria := core.FilterCriteria{
		Location:   c.String("location"),
		Duration:   c.String("duration"),
		StipendMin: c.Int("stipend-min"),
		StipendMax: c.Int("stipend-max"),
	}

	outcome, err := rec.Rank(context.Background(), query, criteria, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	renderOutcome(os.Stdout, outcome)
	return nil
}

func warmCommand(c *cli.Context) error {
	rec, err := openRecommender(c, internmatch.WithProgress(os.Stderr))
	if err != nil {
		return err
	}
	defer rec.Close()

	start := time.Now()
	if err := rec.Warm(context.Background()); err != nil {
		return fmt.Errorf("cache warm failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Cache warm for %d items in %v\n",
		len(rec.Catalog()), time.Since(start).Round(time.Millisecond))
	return nil
}

func rebuildCommand(c *cli.Context) error {
	if c.Int("max-retries") <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	rec, err := openRecommender(c,
		internmatch.WithProgress(os.Stderr),
		internmatch.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	)
	if err != nil {
		return err
	}
	defer rec.Close()

	fmt.Fprintf(os.Stderr, "Catalog: %s\n", c.String("catalog"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := rec.Rebuild(context.Background()); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	return nil
}

func auditCommand(c *cli.Context) error {
	rec, err := openRecommender(c)
	if err != nil {
		return err
	}
	defer rec.Close()

	report, err := rec.Audit(context.Background())
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	fmt.Printf("Fresh entries: %d\n", report.Fresh)
	printIDList("Missing", report.Missing)
	printIDList("Stale (content changed)", report.Stale)
	printIDList("Model changed", report.ModelChanged)
	printIDList("Orphaned (not in catalog)", report.Orphaned)

	if report.Clean() {
		fmt.Println("Cache is up to date.")
		return nil
	}
	fmt.Println("Cache has drift; run rebuild (or warm for additions only).")
	return nil
}

func printIDList(label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Printf("%s (%d): %s\n", label, len(ids), strings.Join(ids, ", "))
}

// renderOutcome writes a human-readable result listing.
func renderOutcome(w io.Writer, outcome *core.RankingOutcome) {
	switch outcome.Tier {
	case core.TierNoResults:
		fmt.Fprintln(w, "No internships found matching your query. Try a different title or broader filters.")
		return
	case core.TierSuggestion:
		fmt.Fprintln(w, "No strong matches. Closest alternatives:")
	default:
		fmt.Fprintln(w, "Top matches:")
	}

	for i, scored := range outcome.Items {
		item := scored.Internship
		fmt.Fprintf(w, "%d. %s at %s (score %.3f)\n", i+1, item.Title, item.Organization, scored.Score)
		fmt.Fprintf(w, "   Location: %s | Duration: %s | Apply by: %s\n",
			item.Location, item.Duration, item.ApplyBy)
		fmt.Fprintf(w, "   Stipend: %s\n", stipendLabel(item.Stipend))
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// stipendLabel renders the stipend with a paid/unpaid marker.
func stipendLabel(s core.Stipend) string {
	if rank.NormalizeStipend(s) > 0 {
		return fmt.Sprintf("%s (paid)", s.String())
	}
	display := s.String()
	if display == "" {
		display = "not listed"
	}
	return fmt.Sprintf("%s (unpaid)", display)
}
