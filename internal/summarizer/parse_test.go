package summarizer

import (
	"strings"
	"testing"

	"github.com/ecomsight/reviewlens/internal/models"
)

const validReply = `{
  "overall_summary": "Genel olarak beğenilen bir ürün.",
  "positive_aspects": ["kaliteli", "hızlı kargo"],
  "negative_aspects": ["pahalı"],
  "price_performance": "İyi",
  "packaging_quality": "Sağlam",
  "shipping_speed": "Hızlı",
  "sentiment": "Olumlu"
}`

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n ", `{"a":1}`},
		{"fence with language tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without tag", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence no newline", "```json{\"a\":1}```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanResponse(tt.input); got != tt.want {
				t.Errorf("CleanResponse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAggregateReplyValid(t *testing.T) {
	result := ParseAggregateReply(validReply)

	if result.OverallSummary != "Genel olarak beğenilen bir ürün." {
		t.Errorf("OverallSummary = %q", result.OverallSummary)
	}
	if len(result.PositiveAspects) != 2 || result.PositiveAspects[0] != "kaliteli" {
		t.Errorf("PositiveAspects = %v", result.PositiveAspects)
	}
	if len(result.NegativeAspects) != 1 {
		t.Errorf("NegativeAspects = %v", result.NegativeAspects)
	}
	if result.Sentiment != "Olumlu" {
		t.Errorf("Sentiment = %q", result.Sentiment)
	}
}

func TestParseAggregateReplyFencedMatchesUnfenced(t *testing.T) {
	fenced := "```json\n" + validReply + "\n```"

	plain := ParseAggregateReply(validReply)
	fromFence := ParseAggregateReply(fenced)

	if plain.OverallSummary != fromFence.OverallSummary ||
		plain.Sentiment != fromFence.Sentiment ||
		len(plain.PositiveAspects) != len(fromFence.PositiveAspects) ||
		plain.PricePerformance != fromFence.PricePerformance {
		t.Errorf("fenced parse %+v differs from plain parse %+v", fromFence, plain)
	}
}

func TestParseAggregateReplyDefaultsForAbsentKeys(t *testing.T) {
	result := ParseAggregateReply(`{"overall_summary": "kısa özet"}`)

	if result.OverallSummary != "kısa özet" {
		t.Errorf("OverallSummary = %q", result.OverallSummary)
	}
	if result.PositiveAspects == nil || len(result.PositiveAspects) != 0 {
		t.Errorf("PositiveAspects = %v, want empty non-nil", result.PositiveAspects)
	}
	if result.NegativeAspects == nil || len(result.NegativeAspects) != 0 {
		t.Errorf("NegativeAspects = %v, want empty non-nil", result.NegativeAspects)
	}
	if result.PricePerformance != "" || result.PackagingQuality != "" || result.ShippingSpeed != "" {
		t.Errorf("scalar fields should default empty: %+v", result)
	}
	if result.Sentiment != models.SentimentNeutral.String() {
		t.Errorf("Sentiment = %q, want Nötr", result.Sentiment)
	}
}

func TestParseAggregateReplyDegradedOnPlainText(t *testing.T) {
	raw := "Bu ürün harika ama kargo yavaştı."
	result := ParseAggregateReply(raw)

	if result.OverallSummary != raw {
		t.Errorf("OverallSummary = %q, want raw reply", result.OverallSummary)
	}
	if len(result.PositiveAspects) != 0 || len(result.NegativeAspects) != 0 {
		t.Errorf("aspect lists should be empty: %+v", result)
	}
	for _, field := range []string{result.PricePerformance, result.PackagingQuality, result.ShippingSpeed} {
		if field != models.FieldUnanalyzable {
			t.Errorf("quality field = %q, want %q", field, models.FieldUnanalyzable)
		}
	}
	if result.Sentiment != models.SentimentNeutral.String() {
		t.Errorf("Sentiment = %q, want Nötr", result.Sentiment)
	}
}

func TestParseAggregateReplyDegradedTruncates(t *testing.T) {
	raw := strings.Repeat("ç", 600)
	result := ParseAggregateReply(raw)

	if got := len([]rune(result.OverallSummary)); got != 500 {
		t.Errorf("truncated length = %d runes, want 500", got)
	}
	if !strings.HasPrefix(raw, result.OverallSummary) {
		t.Errorf("truncation is not a prefix of the raw reply")
	}
}
