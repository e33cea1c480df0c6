package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/ecomsight/reviewlens/config"
	"github.com/ecomsight/reviewlens/internal/dataset"
	"github.com/ecomsight/reviewlens/internal/logging"
	"github.com/ecomsight/reviewlens/internal/sentiment"
)

// An offline lexical pass over the reviews table. No generation service is
// involved, so it runs on the full dataset in seconds and its output is a
// useful sanity check against the AI summaries.
func main() {
	output := flag.String("output", "data/processed/lexical_sentiment.csv", "destination for the per-product tallies")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.FromEnv()

	groups, err := dataset.ReadGroupedReviews(cfg.ReviewsCSV)
	if err != nil {
		slog.Error("[Lexical] Could not read reviews",
			slog.String("path", cfg.ReviewsCSV),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	stats := make([]sentiment.ProductLexical, 0, len(groups))
	for _, group := range groups {
		stats = append(stats, sentiment.AggregateProduct(group.ProductID, group.Reviews))
	}

	if err := dataset.WriteLexical(*output, stats); err != nil {
		slog.Error("[Lexical] Could not write tallies",
			slog.String("path", *output),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Lexical] Done",
		slog.Int("products", len(stats)),
		slog.String("output", *output))
}
