package models

import "strconv"

// Placeholder values shared by the terminal summary shapes. These literals
// are part of the downstream contract: the dashboard classifies summaries by
// substring matching, so they must not drift.
const (
	FieldUnknown      = "—"
	FieldUnanalyzable = "Analiz edilemedi"
)

// AggregateResult is the structured reply of the aggregation call, minus the
// fields the orchestrator fills in (product_id, reviews_analyzed). The JSON
// tags are the exact key set demanded from the generation service.
type AggregateResult struct {
	OverallSummary   string   `json:"overall_summary"`
	PositiveAspects  []string `json:"positive_aspects"`
	NegativeAspects  []string `json:"negative_aspects"`
	PricePerformance string   `json:"price_performance"`
	PackagingQuality string   `json:"packaging_quality"`
	ShippingSpeed    string   `json:"shipping_speed"`
	Sentiment        string   `json:"sentiment"`
}

// ReviewSummary is the unit of output: one per product per run, never
// mutated after construction.
type ReviewSummary struct {
	ProductID        string    `json:"product_id"`
	OverallSummary   string    `json:"overall_summary"`
	PositiveAspects  []string  `json:"positive_aspects"`
	NegativeAspects  []string  `json:"negative_aspects"`
	PricePerformance string    `json:"price_performance"`
	PackagingQuality string    `json:"packaging_quality"`
	ShippingSpeed    string    `json:"shipping_speed"`
	Sentiment        Sentiment `json:"sentiment"`
	ReviewsAnalyzed  int       `json:"reviews_analyzed"`
}

// SummaryHeader is the column order of the output dataset.
var SummaryHeader = []string{
	"product_id",
	"ai_summary",
	"positive_points",
	"negative_points",
	"price_performance",
	"packaging",
	"shipping",
	"sentiment",
	"reviews_count",
}

// Record renders the summary as one output row, aspects joined with the
// dashboard's " | " delimiter.
func (s ReviewSummary) Record() []string {
	return []string{
		s.ProductID,
		s.OverallSummary,
		joinAspects(s.PositiveAspects),
		joinAspects(s.NegativeAspects),
		s.PricePerformance,
		s.PackagingQuality,
		s.ShippingSpeed,
		s.Sentiment.String(),
		strconv.Itoa(s.ReviewsAnalyzed),
	}
}

func joinAspects(aspects []string) string {
	out := ""
	for i, a := range aspects {
		if i > 0 {
			out += " | "
		}
		out += a
	}
	return out
}

// UsageStats is a read-only snapshot of cumulative generation-service usage.
type UsageStats struct {
	TotalRequests int `json:"total_requests"`
	TotalTokens   int `json:"total_tokens"`
}
