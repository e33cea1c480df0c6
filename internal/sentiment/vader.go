package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/ecomsight/reviewlens/internal/models"
	"github.com/ecomsight/reviewlens/internal/textnorm"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

// Compound-score cutoffs mapping VADER onto the five-value label set.
const (
	veryPositiveCutoff = 0.50
	positiveCutoff     = 0.05
	negativeCutoff     = -0.05
	veryNegativeCutoff = -0.50
)

// Analyze runs the lexical (no generation calls) sentiment pass over one
// review and maps the compound polarity onto the closed label set.
func Analyze(text string) (float64, models.Sentiment) {
	plain := textnorm.Flatten(text)

	score := analyzer.PolarityScores(plain).Compound
	return score, labelFor(score)
}

func labelFor(score float64) models.Sentiment {
	switch {
	case score >= veryPositiveCutoff:
		return models.SentimentVeryPositive
	case score >= positiveCutoff:
		return models.SentimentPositive
	case score <= veryNegativeCutoff:
		return models.SentimentVeryNegative
	case score <= negativeCutoff:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// ProductLexical is the offline per-product tally produced without any
// generation calls: counts per label plus the mean compound score.
type ProductLexical struct {
	ProductID    string
	ReviewCount  int
	MeanCompound float64
	Label        models.Sentiment

	VeryPositive int
	Positive     int
	Neutral      int
	Negative     int
	VeryNegative int
}

// AggregateProduct scores every review of one product and tallies the
// labels. The product-level label is derived from the mean compound score.
func AggregateProduct(productID string, reviews []string) ProductLexical {
	stats := ProductLexical{ProductID: productID, ReviewCount: len(reviews)}
	if len(reviews) == 0 {
		stats.Label = models.SentimentNeutral
		return stats
	}

	var sum float64
	for _, review := range reviews {
		score, label := Analyze(review)
		sum += score
		switch label {
		case models.SentimentVeryPositive:
			stats.VeryPositive++
		case models.SentimentPositive:
			stats.Positive++
		case models.SentimentNegative:
			stats.Negative++
		case models.SentimentVeryNegative:
			stats.VeryNegative++
		default:
			stats.Neutral++
		}
	}

	stats.MeanCompound = sum / float64(len(reviews))
	stats.Label = labelFor(stats.MeanCompound)
	return stats
}
