package summarizer

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/ecomsight/reviewlens/internal/models"
)

// degradedSummaryLimit caps how much of an unparseable reply is carried into
// the degraded result.
const degradedSummaryLimit = 500

// CleanResponse strips surrounding whitespace and, when the reply is wrapped
// in a Markdown code fence ("```json\n{...}\n```" or "```\n{...}\n```"),
// removes the fence and the optional language tag. Cleaning an already-clean
// reply is a no-op, so the operation is idempotent.
func CleanResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}

	return strings.TrimSpace(cleaned)
}

// ParseAggregateReply parses the aggregation reply strictly as JSON after
// fence cleaning. Keys absent from a valid reply default to empty values and
// a Nötr sentiment. An unparseable reply yields the degraded result instead:
// the raw text (truncated) as the overall summary and the quality fields
// marked unanalyzable. This path never fails.
func ParseAggregateReply(raw string) models.AggregateResult {
	cleaned := CleanResponse(raw)

	var result models.AggregateResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		slog.Warn("[Aggregator] JSON parse failed, using raw text",
			slog.String("error", err.Error()))
		return models.AggregateResult{
			OverallSummary:   truncate(raw, degradedSummaryLimit),
			PositiveAspects:  []string{},
			NegativeAspects:  []string{},
			PricePerformance: models.FieldUnanalyzable,
			PackagingQuality: models.FieldUnanalyzable,
			ShippingSpeed:    models.FieldUnanalyzable,
			Sentiment:        models.SentimentNeutral.String(),
		}
	}

	// Aspect lists are part of the output shape: empty, never absent.
	if result.PositiveAspects == nil {
		result.PositiveAspects = []string{}
	}
	if result.NegativeAspects == nil {
		result.NegativeAspects = []string{}
	}
	if result.Sentiment == "" {
		result.Sentiment = models.SentimentNeutral.String()
	}

	return result
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
