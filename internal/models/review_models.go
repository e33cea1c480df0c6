package models

// Review is one harvested customer review. Immutable once read from the
// input dataset.
type Review struct {
	ProductID string `json:"product_id"`
	Text      string `json:"review"`
}

// ProductReviews holds one product's reviews in input-row order. The order
// is significant: it determines chunk contents downstream.
type ProductReviews struct {
	ProductID string
	Reviews   []string
}
