package sentiment

import (
	"testing"

	"github.com/ecomsight/reviewlens/internal/models"
)

func TestLabelForCutoffs(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Sentiment
	}{
		{0.9, models.SentimentVeryPositive},
		{0.5, models.SentimentVeryPositive},
		{0.2, models.SentimentPositive},
		{0.05, models.SentimentPositive},
		{0.0, models.SentimentNeutral},
		{-0.04, models.SentimentNeutral},
		{-0.05, models.SentimentNegative},
		{-0.3, models.SentimentNegative},
		{-0.5, models.SentimentVeryNegative},
		{-0.95, models.SentimentVeryNegative},
	}

	for _, tt := range tests {
		if got := labelFor(tt.score); got != tt.want {
			t.Errorf("labelFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestAnalyzeLabelsStayInClosedSet(t *testing.T) {
	inputs := []string{
		"This product is absolutely amazing, I love it",
		"Terrible quality, broke after one day, awful",
		"It is a product",
		"",
	}

	valid := map[models.Sentiment]bool{
		models.SentimentVeryPositive: true,
		models.SentimentPositive:     true,
		models.SentimentNeutral:      true,
		models.SentimentNegative:     true,
		models.SentimentVeryNegative: true,
	}

	for _, in := range inputs {
		if _, label := Analyze(in); !valid[label] {
			t.Errorf("Analyze(%q) produced out-of-set label %q", in, label)
		}
	}
}

func TestAggregateProductEmpty(t *testing.T) {
	stats := AggregateProduct("P1", nil)
	if stats.ReviewCount != 0 {
		t.Errorf("ReviewCount = %d, want 0", stats.ReviewCount)
	}
	if stats.Label != models.SentimentNeutral {
		t.Errorf("Label = %v, want Nötr", stats.Label)
	}
	if stats.MeanCompound != 0 {
		t.Errorf("MeanCompound = %v, want 0", stats.MeanCompound)
	}
}

func TestAggregateProductTalliesEveryReview(t *testing.T) {
	reviews := []string{
		"great product, works perfectly, very happy",
		"horrible, worst purchase ever, do not buy",
		"arrived on tuesday",
	}

	stats := AggregateProduct("P1", reviews)
	if stats.ReviewCount != 3 {
		t.Fatalf("ReviewCount = %d, want 3", stats.ReviewCount)
	}

	total := stats.VeryPositive + stats.Positive + stats.Neutral + stats.Negative + stats.VeryNegative
	if total != 3 {
		t.Errorf("label tallies sum to %d, want 3", total)
	}
}
