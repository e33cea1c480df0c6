package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ecomsight/reviewlens/internal/models"
	"github.com/ecomsight/reviewlens/internal/sentiment"
)

// ReadGroupedReviews reads the crawler-produced reviews table and groups the
// rows by product_id. Products appear in first-seen row order and reviews
// keep their row order within each group; both orders are significant
// downstream.
func ReadGroupedReviews(path string) ([]models.ProductReviews, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reviews dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	productCol := columnIndex(header, "product_id")
	reviewCol := columnIndex(header, "review")
	if productCol < 0 || reviewCol < 0 {
		return nil, fmt.Errorf("reviews dataset %s is missing product_id/review columns", path)
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	var groups []models.ProductReviews
	position := make(map[string]int)

	for i, record := range records {
		if len(record) <= productCol || len(record) <= reviewCol {
			slog.Warn("[Dataset] Skipping short row", slog.Int("row", i+2))
			continue
		}
		productID := record[productCol]
		if productID == "" {
			slog.Warn("[Dataset] Skipping row without product_id", slog.Int("row", i+2))
			continue
		}

		idx, seen := position[productID]
		if !seen {
			idx = len(groups)
			position[productID] = idx
			groups = append(groups, models.ProductReviews{ProductID: productID})
		}
		groups[idx].Reviews = append(groups[idx].Reviews, record[reviewCol])
	}

	slog.Info("[Dataset] Reviews loaded",
		slog.String("path", path),
		slog.Int("rows", len(records)),
		slog.Int("products", len(groups)))
	return groups, nil
}

// WriteSummaries persists one output row per product, in the order given.
func WriteSummaries(path string, summaries []models.ReviewSummary) error {
	f, err := createWithDirs(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.SummaryHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, summary := range summaries {
		if err := w.Write(summary.Record()); err != nil {
			return fmt.Errorf("writing summary for %s: %w", summary.ProductID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing summaries: %w", err)
	}

	slog.Info("[Dataset] Summaries saved",
		slog.String("path", path),
		slog.Int("products", len(summaries)))
	return nil
}

var lexicalHeader = []string{
	"product_id",
	"reviews_count",
	"mean_compound",
	"label",
	"very_positive",
	"positive",
	"neutral",
	"negative",
	"very_negative",
}

// WriteLexical persists the offline lexical sentiment tallies.
func WriteLexical(path string, stats []sentiment.ProductLexical) error {
	f, err := createWithDirs(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(lexicalHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, s := range stats {
		record := []string{
			s.ProductID,
			strconv.Itoa(s.ReviewCount),
			strconv.FormatFloat(s.MeanCompound, 'f', 4, 64),
			s.Label.String(),
			strconv.Itoa(s.VeryPositive),
			strconv.Itoa(s.Positive),
			strconv.Itoa(s.Neutral),
			strconv.Itoa(s.Negative),
			strconv.Itoa(s.VeryNegative),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing lexical row for %s: %w", s.ProductID, err)
		}
	}

	w.Flush()
	return w.Error()
}

// AppendReviews adds harvested rows to the reviews dataset, writing the
// header first when the file does not exist yet.
func AppendReviews(path string, reviews []models.Review) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dataset dir: %w", err)
	}

	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening reviews dataset: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write([]string{"product_id", "review"}); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for _, review := range reviews {
		if err := w.Write([]string{review.ProductID, review.Text}); err != nil {
			return fmt.Errorf("writing review row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func createWithDirs(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating dataset dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}
