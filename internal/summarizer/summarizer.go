package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ecomsight/reviewlens/config"
	"github.com/ecomsight/reviewlens/internal/clients"
	"github.com/ecomsight/reviewlens/internal/models"
	"github.com/ecomsight/reviewlens/internal/textnorm"
)

// Summarizer turns an unbounded review list into chunk summaries and merges
// them into one structured result. All calls are strictly sequential; the
// pacing delay between chunk calls keeps the run under the shared external
// rate limit.
type Summarizer struct {
	gen             clients.Generator
	chunkSize       int
	chunkTokens     int
	aggregateTokens int
	pacing          time.Duration

	// sleep is swapped out in tests; nil means time.Sleep.
	sleep func(time.Duration)
}

func New(gen clients.Generator, cfg config.Config) *Summarizer {
	return &Summarizer{
		gen:             gen,
		chunkSize:       cfg.ChunkSize,
		chunkTokens:     cfg.ChunkTokens,
		aggregateTokens: cfg.AggregateTokens,
		pacing:          cfg.ChunkPacing,
		sleep:           time.Sleep,
	}
}

// ProcessChunks partitions reviews into contiguous chunks of at most
// chunkSize, in input order, and obtains one natural-language summary per
// chunk. A chunk whose generation call fails terminally is logged and
// skipped; it contributes nothing to the output. The returned slice is empty
// when the input was empty or every chunk failed — the caller treats both
// the same way.
func (s *Summarizer) ProcessChunks(ctx context.Context, reviews []string) []string {
	chunks := chunkReviews(reviews, s.chunkSize)

	var summaries []string
	for idx, chunk := range chunks {
		prompt := fmt.Sprintf(chunkPromptTemplate, joinReviews(chunk))

		result, err := s.gen.Generate(ctx, prompt, s.chunkTokens)
		if err != nil {
			slog.Warn("[Summarizer] Chunk failed, skipping",
				slog.Int("chunk", idx+1),
				slog.Int("of", len(chunks)),
				slog.String("error", err.Error()))
			continue
		}
		summaries = append(summaries, result)

		slog.Debug("[Summarizer] Chunk done",
			slog.Int("chunk", idx+1),
			slog.Int("of", len(chunks)))
		s.sleep(s.pacing)
	}

	return summaries
}

// Aggregate merges the chunk summaries into a single structured result via
// one generation call. The reply is parsed defensively and never fails to
// produce a result shape; only the generation call itself can error, and
// that error propagates to the orchestrator.
func (s *Summarizer) Aggregate(ctx context.Context, chunkSummaries []string) (models.AggregateResult, error) {
	combined := strings.Join(chunkSummaries, chunkSeparator)
	prompt := fmt.Sprintf(finalPromptTemplate, combined)

	raw, err := s.gen.Generate(ctx, prompt, s.aggregateTokens)
	if err != nil {
		return models.AggregateResult{}, fmt.Errorf("aggregation call: %w", err)
	}

	return ParseAggregateReply(raw), nil
}

// chunkReviews splits reviews into ⌈n/size⌉ contiguous, non-overlapping
// slices preserving input order; the last chunk holds the remainder.
func chunkReviews(reviews []string, size int) [][]string {
	if size < 1 || len(reviews) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(reviews)+size-1)/size)
	for i := 0; i < len(reviews); i += size {
		end := i + size
		if end > len(reviews) {
			end = len(reviews)
		}
		chunks = append(chunks, reviews[i:end])
	}
	return chunks
}

func joinReviews(chunk []string) string {
	normalized := make([]string, 0, len(chunk))
	for _, review := range chunk {
		normalized = append(normalized, textnorm.Flatten(review))
	}
	return strings.Join(normalized, "\n")
}
