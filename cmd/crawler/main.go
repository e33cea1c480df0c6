package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ecomsight/reviewlens/config"
	"github.com/ecomsight/reviewlens/internal/crawler"
	"github.com/ecomsight/reviewlens/internal/logging"
)

func main() {
	linksPath := flag.String("links", "data/raw/product_links.txt", "file with one product page URL per line")
	productID := flag.String("product", "", "product_id recorded for every harvested review")
	cardClass := flag.String("card-class", "review-card", "CSS class of a review card")
	textClass := flag.String("text-class", "review-text", "CSS class of the review text inside a card")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	if *productID == "" {
		slog.Error("[Crawler] -product is required")
		os.Exit(1)
	}

	urls, err := readLinks(*linksPath)
	if err != nil {
		slog.Error("[Crawler] Could not read links file",
			slog.String("path", *linksPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(urls) == 0 {
		slog.Warn("[Crawler] Links file is empty, nothing to do")
		return
	}

	cfg := config.FromEnv()

	extractor := crawler.ClassExtractor{
		ProductID: *productID,
		CardClass: *cardClass,
		TextClass: *textClass,
	}
	h := crawler.NewHarvester(crawler.NewHTTPFetcher(cfg), extractor, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	total, err := h.Harvest(ctx, urls)
	if err != nil {
		slog.Error("[Crawler] Harvest aborted",
			slog.Int("reviews", total),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("[Crawler] Done",
		slog.Int("pages", len(urls)),
		slog.Int("reviews", total),
		slog.String("output", cfg.ReviewsCSV))
}

func readLinks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
