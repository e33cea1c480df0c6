package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ecomsight/reviewlens/config"
)

type scriptedReply struct {
	text string
	err  error
}

type fakeGenerator struct {
	replies   []scriptedReply
	prompts   []string
	maxTokens []int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, maxTokens int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.maxTokens = append(f.maxTokens, maxTokens)

	if len(f.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply.text, reply.err
}

func testSummarizer(gen *fakeGenerator, chunkSize int) *Summarizer {
	cfg := config.Config{
		ChunkSize:       chunkSize,
		ChunkTokens:     500,
		AggregateTokens: 800,
		ChunkPacing:     1500 * time.Millisecond,
	}
	s := New(gen, cfg)
	s.sleep = func(time.Duration) {}
	return s
}

func TestChunkReviewsPartition(t *testing.T) {
	for n := 0; n <= 25; n++ {
		for size := 1; size <= 7; size++ {
			reviews := make([]string, n)
			for i := range reviews {
				reviews[i] = fmt.Sprintf("yorum %d", i)
			}

			chunks := chunkReviews(reviews, size)

			wantCount := (n + size - 1) / size
			if len(chunks) != wantCount {
				t.Fatalf("n=%d size=%d: got %d chunks, want %d", n, size, len(chunks), wantCount)
			}

			// Concatenating the chunks must reproduce the input exactly.
			var flat []string
			for i, c := range chunks {
				if i < len(chunks)-1 && len(c) != size {
					t.Fatalf("n=%d size=%d: chunk %d has len %d, want %d", n, size, i, len(c), size)
				}
				flat = append(flat, c...)
			}
			if len(flat) != n {
				t.Fatalf("n=%d size=%d: chunks cover %d reviews", n, size, len(flat))
			}
			for i := range flat {
				if flat[i] != reviews[i] {
					t.Fatalf("n=%d size=%d: order broken at %d", n, size, i)
				}
			}

			// The last chunk holds the remainder.
			if n > 0 {
				wantLast := n - size*(wantCount-1)
				if len(chunks[len(chunks)-1]) != wantLast {
					t.Fatalf("n=%d size=%d: last chunk len %d, want %d",
						n, size, len(chunks[len(chunks)-1]), wantLast)
				}
			}
		}
	}
}

func TestProcessChunksOrderAndBudget(t *testing.T) {
	gen := &fakeGenerator{replies: []scriptedReply{
		{text: "özet bir"},
		{text: "özet iki"},
	}}
	s := testSummarizer(gen, 2)

	summaries := s.ProcessChunks(context.Background(), []string{"Harika ürün", "Fena değil", "Kötü paketleme"})

	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0] != "özet bir" || summaries[1] != "özet iki" {
		t.Errorf("summaries out of order: %v", summaries)
	}
	if len(gen.prompts) != 2 {
		t.Fatalf("got %d generation calls, want 2", len(gen.prompts))
	}
	for _, tokens := range gen.maxTokens {
		if tokens != 500 {
			t.Errorf("chunk call used %d tokens, want 500", tokens)
		}
	}

	// First chunk carries the first two reviews, second chunk the remainder.
	if !strings.Contains(gen.prompts[0], "Harika ürün") || !strings.Contains(gen.prompts[0], "Fena değil") {
		t.Errorf("first chunk prompt missing reviews: %q", gen.prompts[0])
	}
	if strings.Contains(gen.prompts[0], "Kötü paketleme") {
		t.Errorf("first chunk prompt leaked third review")
	}
	if !strings.Contains(gen.prompts[1], "Kötü paketleme") {
		t.Errorf("second chunk prompt missing third review")
	}
}

func TestProcessChunksSkipsFailedChunks(t *testing.T) {
	gen := &fakeGenerator{replies: []scriptedReply{
		{err: errors.New("rate limit exhausted")},
		{text: "sağ kalan özet"},
	}}
	s := testSummarizer(gen, 1)

	summaries := s.ProcessChunks(context.Background(), []string{"bir", "iki"})

	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0] != "sağ kalan özet" {
		t.Errorf("unexpected summary %q", summaries[0])
	}
}

func TestProcessChunksAllFailedReturnsEmpty(t *testing.T) {
	gen := &fakeGenerator{replies: []scriptedReply{
		{err: errors.New("down")},
		{err: errors.New("down")},
		{err: errors.New("down")},
	}}
	s := testSummarizer(gen, 2)

	summaries := s.ProcessChunks(context.Background(), []string{"a", "b", "c", "d", "e"})
	if len(summaries) != 0 {
		t.Fatalf("got %d summaries, want 0", len(summaries))
	}
}

func TestProcessChunksEmptyInputMakesNoCalls(t *testing.T) {
	gen := &fakeGenerator{}
	s := testSummarizer(gen, 2)

	summaries := s.ProcessChunks(context.Background(), nil)
	if len(summaries) != 0 {
		t.Fatalf("got %d summaries, want 0", len(summaries))
	}
	if len(gen.prompts) != 0 {
		t.Errorf("expected no generation calls, got %d", len(gen.prompts))
	}
}

func TestProcessChunksPacingBetweenCalls(t *testing.T) {
	gen := &fakeGenerator{replies: []scriptedReply{
		{text: "bir"},
		{text: "iki"},
	}}
	s := testSummarizer(gen, 1)

	var slept []time.Duration
	s.sleep = func(d time.Duration) { slept = append(slept, d) }

	s.ProcessChunks(context.Background(), []string{"a", "b"})

	if len(slept) != 2 {
		t.Fatalf("expected pacing after each successful chunk, got %v", slept)
	}
	for _, d := range slept {
		if d != 1500*time.Millisecond {
			t.Errorf("pacing = %v, want 1.5s", d)
		}
	}
}

func TestProcessChunksNormalizesReviewText(t *testing.T) {
	gen := &fakeGenerator{replies: []scriptedReply{{text: "özet"}}}
	s := testSummarizer(gen, 5)

	s.ProcessChunks(context.Background(), []string{"**harika** ürün https://example.com/p/9"})

	if len(gen.prompts) != 1 {
		t.Fatalf("expected 1 call, got %d", len(gen.prompts))
	}
	if strings.Contains(gen.prompts[0], "**") || strings.Contains(gen.prompts[0], "https://") {
		t.Errorf("prompt not normalized: %q", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], "harika ürün") {
		t.Errorf("prompt lost review text: %q", gen.prompts[0])
	}
}

func TestAggregateJoinsWithSeparatorAndBudget(t *testing.T) {
	gen := &fakeGenerator{replies: []scriptedReply{
		{text: `{"overall_summary":"iyi ürün","sentiment":"Olumlu"}`},
	}}
	s := testSummarizer(gen, 2)

	result, err := s.Aggregate(context.Background(), []string{"özet bir", "özet iki"})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if len(gen.maxTokens) != 1 || gen.maxTokens[0] != 800 {
		t.Errorf("aggregate call budget = %v, want [800]", gen.maxTokens)
	}
	if !strings.Contains(gen.prompts[0], "özet bir\n\n---\n\nözet iki") {
		t.Errorf("prompt missing separated summaries: %q", gen.prompts[0])
	}
	if result.OverallSummary != "iyi ürün" {
		t.Errorf("OverallSummary = %q", result.OverallSummary)
	}
	if result.Sentiment != "Olumlu" {
		t.Errorf("Sentiment = %q", result.Sentiment)
	}
}

func TestAggregatePropagatesGenerationError(t *testing.T) {
	genErr := errors.New("service down")
	gen := &fakeGenerator{replies: []scriptedReply{{err: genErr}}}
	s := testSummarizer(gen, 2)

	_, err := s.Aggregate(context.Background(), []string{"özet"})
	if !errors.Is(err, genErr) {
		t.Fatalf("expected wrapped generation error, got %v", err)
	}
}
