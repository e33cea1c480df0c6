package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecomsight/reviewlens/config"
	"github.com/ecomsight/reviewlens/internal/cache"
	"github.com/ecomsight/reviewlens/internal/clients"
	"github.com/ecomsight/reviewlens/internal/dataset"
	"github.com/ecomsight/reviewlens/internal/models"
)

// Text templates of the terminal summary shapes. The dashboard classifies
// summaries by literal substring matching, so these must not drift.
const (
	emptySummaryText   = "Yeterli yorum bulunamadı."
	errorSummaryPrefix = "Analiz hatası: "
)

// ReviewSummarizer is the chunk-processor/aggregator pair the orchestrator
// drives per product.
type ReviewSummarizer interface {
	ProcessChunks(ctx context.Context, reviews []string) []string
	Aggregate(ctx context.Context, chunkSummaries []string) (models.AggregateResult, error)
}

// UsageReporter exposes the generation client's cumulative usage for the
// end-of-run report.
type UsageReporter interface {
	Usage() models.UsageStats
}

// Pipeline iterates all products in input order and produces exactly one
// ReviewSummary per product; one product's failure never aborts the run.
type Pipeline struct {
	summarizer ReviewSummarizer
	usage      UsageReporter     // optional
	cache      cache.SummaryCache // optional
	cfg        config.Config
}

func New(s ReviewSummarizer, usage UsageReporter, summaryCache cache.SummaryCache, cfg config.Config) *Pipeline {
	return &Pipeline{
		summarizer: s,
		usage:      usage,
		cache:      summaryCache,
		cfg:        cfg,
	}
}

// SummarizeProduct runs the per-product state machine. Every exit is a
// well-formed ReviewSummary; unexpected failures are converted into the
// error shape at this boundary.
func (p *Pipeline) SummarizeProduct(ctx context.Context, productID string, reviews []string) (summary models.ReviewSummary) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[Pipeline] Panic during product analysis",
				slog.String("product_id", productID),
				slog.Any("panic", r))
			summary = errorSummary(productID, fmt.Errorf("%v", r))
		}
	}()

	if len(reviews) == 0 {
		slog.Info("[Pipeline] No reviews, emitting placeholder",
			slog.String("product_id", productID))
		return emptySummary(productID)
	}

	slog.Info("[Pipeline] Analyzing product",
		slog.String("product_id", productID),
		slog.Int("reviews", len(reviews)))

	chunkSummaries := p.summarizer.ProcessChunks(ctx, reviews)
	if len(chunkSummaries) == 0 {
		// Indistinguishable from the no-reviews case by design; the output
		// carries reviews_analyzed = 0 either way.
		slog.Info("[Pipeline] No chunk summaries survived, emitting placeholder",
			slog.String("product_id", productID))
		return emptySummary(productID)
	}

	result, err := p.summarizer.Aggregate(ctx, chunkSummaries)
	if err != nil {
		slog.Error("[Pipeline] Aggregation failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()))
		return errorSummary(productID, err)
	}

	return models.ReviewSummary{
		ProductID:        productID,
		OverallSummary:   result.OverallSummary,
		PositiveAspects:  result.PositiveAspects,
		NegativeAspects:  result.NegativeAspects,
		PricePerformance: result.PricePerformance,
		PackagingQuality: result.PackagingQuality,
		ShippingSpeed:    result.ShippingSpeed,
		Sentiment:        models.SentimentFromString(result.Sentiment),
		ReviewsAnalyzed:  len(reviews),
	}
}

// Run reads the reviews dataset, summarizes every product in input order,
// persists the output table, and reports cumulative usage.
func (p *Pipeline) Run(ctx context.Context) ([]models.ReviewSummary, error) {
	groups, err := dataset.ReadGroupedReviews(p.cfg.ReviewsCSV)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ReviewSummary, 0, len(groups))
	for i, group := range groups {
		slog.Info("[Pipeline] Processing product",
			slog.Int("position", i+1),
			slog.Int("of", len(groups)),
			slog.String("product_id", group.ProductID))

		if p.cache != nil {
			if cached, ok := p.cache.Get(ctx, group.ProductID); ok {
				slog.Info("[Pipeline] Cache hit, skipping generation",
					slog.String("product_id", group.ProductID))
				summaries = append(summaries, cached)
				continue
			}
		}

		summary := p.SummarizeProduct(ctx, group.ProductID, group.Reviews)
		summaries = append(summaries, summary)

		if p.cache != nil {
			if err := p.cache.Put(ctx, summary); err != nil {
				slog.Warn("[Pipeline] Failed to cache summary",
					slog.String("product_id", group.ProductID),
					slog.String("error", err.Error()))
			}
		}
	}

	if err := dataset.WriteSummaries(p.cfg.SummariesCSV, summaries); err != nil {
		return nil, err
	}

	if p.usage != nil {
		stats := p.usage.Usage()
		slog.Info("[Pipeline] Run complete",
			slog.Int("products", len(summaries)),
			slog.Int("total_requests", stats.TotalRequests),
			slog.Int("total_tokens", stats.TotalTokens))
	}

	return summaries, nil
}

func emptySummary(productID string) models.ReviewSummary {
	return models.ReviewSummary{
		ProductID:        productID,
		OverallSummary:   emptySummaryText,
		PositiveAspects:  []string{},
		NegativeAspects:  []string{},
		PricePerformance: models.FieldUnknown,
		PackagingQuality: models.FieldUnknown,
		ShippingSpeed:    models.FieldUnknown,
		Sentiment:        models.SentimentNeutral,
		ReviewsAnalyzed:  0,
	}
}

func errorSummary(productID string, err error) models.ReviewSummary {
	return models.ReviewSummary{
		ProductID:        productID,
		OverallSummary:   errorSummaryPrefix + clients.FormatServiceError(err),
		PositiveAspects:  []string{},
		NegativeAspects:  []string{},
		PricePerformance: models.FieldUnknown,
		PackagingQuality: models.FieldUnknown,
		ShippingSpeed:    models.FieldUnknown,
		Sentiment:        models.SentimentNeutral,
		ReviewsAnalyzed:  0,
	}
}
