package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecomsight/reviewlens/config"
	"github.com/ecomsight/reviewlens/internal/cache"
	"github.com/ecomsight/reviewlens/internal/clients"
	"github.com/ecomsight/reviewlens/internal/logging"
	"github.com/ecomsight/reviewlens/internal/pipeline"
	"github.com/ecomsight/reviewlens/internal/summarizer"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	cfg := config.FromEnv()

	client, err := clients.NewOpenAIClient(cfg)
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			slog.Error("[Analyzer] OPENAI_API_KEY is not set, aborting before any processing")
		} else {
			slog.Error("[Analyzer] Client init failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	var summaryCache cache.SummaryCache
	if cfg.ValkeyAddress != "" {
		vc, err := cache.NewValkeyCache(cfg)
		if err != nil {
			slog.Warn("[Analyzer] Summary cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			summaryCache = vc
			defer vc.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(summarizer.New(client, cfg), client, summaryCache, cfg)

	summaries, err := p.Run(ctx)
	if err != nil {
		slog.Error("[Analyzer] Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Analyzer] Done",
		slog.Int("products", len(summaries)),
		slog.String("output", cfg.SummariesCSV))
}
