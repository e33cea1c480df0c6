package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/ecomsight/reviewlens/config"
	"github.com/ecomsight/reviewlens/internal/dataset"
	"github.com/ecomsight/reviewlens/internal/models"
	"github.com/ecomsight/reviewlens/internal/retry"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// PageFetcher retrieves the raw HTML of a review listing page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) ([]byte, error)
}

// CardExtractor pulls review rows out of a parsed listing page. Site-specific
// layouts each get their own implementation.
type CardExtractor interface {
	ExtractCards(doc *html.Node) []models.Review
}

// HTTPFetcher is the default PageFetcher: a rate-limited HTTP GET with the
// shared retry policy on top.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	policy  retry.Policy
}

func NewHTTPFetcher(cfg config.Config) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: cfg.CrawlerTimeout},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		policy: retry.Policy{
			MaxAttempts:    cfg.MaxAttempts,
			InitialBackoff: cfg.InitialBackoff,
			MaxBackoff:     cfg.MaxBackoff,
			Multiplier:     2,
			Cooldown:       cfg.RateLimitCooldown,
			Classify:       classifyHTTPError,
		},
	}
}

type httpStatusError struct {
	status int
	url    string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.status, e.url)
}

func classifyHTTPError(err error) retry.Class {
	if statusErr, ok := err.(*httpStatusError); ok {
		switch {
		case statusErr.status == http.StatusTooManyRequests:
			return retry.RateLimited
		case statusErr.status >= 500:
			return retry.Transient
		default:
			return retry.Fatal
		}
	}
	// Network-level errors (timeouts, resets) are worth another attempt.
	return retry.Transient
}

func (f *HTTPFetcher) FetchPage(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	var body []byte
	err := f.policy.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9")

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &httpStatusError{status: resp.StatusCode, url: url}
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading %s: %w", url, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Harvester drives a fetcher/extractor pair over a list of product pages and
// appends the harvested rows to the reviews dataset.
type Harvester struct {
	fetcher   PageFetcher
	extractor CardExtractor
	output    string
	pause     time.Duration
	sleep     func(time.Duration)
}

func NewHarvester(fetcher PageFetcher, extractor CardExtractor, cfg config.Config) *Harvester {
	return &Harvester{
		fetcher:   fetcher,
		extractor: extractor,
		output:    cfg.ReviewsCSV,
		pause:     cfg.ChunkPacing,
		sleep:     time.Sleep,
	}
}

// Harvest processes the URLs in order. One page's failure is logged and
// skipped; the remaining pages still run. Returns the total row count.
func (h *Harvester) Harvest(ctx context.Context, urls []string) (int, error) {
	total := 0

	for _, url := range urls {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		default:
		}

		page, err := h.fetcher.FetchPage(ctx, url)
		if err != nil {
			slog.Warn("[Harvester] Page fetch failed, skipping",
				slog.String("url", url),
				slog.String("error", err.Error()))
			continue
		}

		doc, err := html.Parse(bytes.NewReader(page))
		if err != nil {
			slog.Warn("[Harvester] Page parse failed, skipping",
				slog.String("url", url),
				slog.String("error", err.Error()))
			continue
		}

		reviews := h.extractor.ExtractCards(doc)
		if len(reviews) == 0 {
			slog.Info("[Harvester] No review cards on page", slog.String("url", url))
			continue
		}

		if err := dataset.AppendReviews(h.output, reviews); err != nil {
			return total, fmt.Errorf("appending reviews: %w", err)
		}

		total += len(reviews)
		slog.Info("[Harvester] Page harvested",
			slog.String("url", url),
			slog.Int("reviews", len(reviews)))

		h.sleep(h.pause)
	}

	return total, nil
}
