package models

import "strings"

// Sentiment is the closed set of product tone labels. The Turkish literals
// are the wire values the dashboard consumes; nothing outside this set may
// reach the output sink.
type Sentiment string

const (
	SentimentVeryPositive Sentiment = "Çok Olumlu"
	SentimentPositive     Sentiment = "Olumlu"
	SentimentNeutral      Sentiment = "Nötr"
	SentimentNegative     Sentiment = "Olumsuz"
	SentimentVeryNegative Sentiment = "Çok Olumsuz"
)

// SentimentFromString clamps free-form model output onto the closed set.
// Anything unrecognized becomes Nötr.
func SentimentFromString(s string) Sentiment {
	switch Sentiment(strings.TrimSpace(s)) {
	case SentimentVeryPositive:
		return SentimentVeryPositive
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	case SentimentVeryNegative:
		return SentimentVeryNegative
	case SentimentNeutral:
		return SentimentNeutral
	default:
		return SentimentNeutral
	}
}

func (s Sentiment) String() string { return string(s) }
