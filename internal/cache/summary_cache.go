package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/ecomsight/reviewlens/config"
	"github.com/ecomsight/reviewlens/internal/models"
)

const (
	summaryKeyPrefix  = "reviewlens:summary:"
	summaryTTLSeconds = 86400
	commandRetries    = 3
	commandRetryDelay = 250 * time.Millisecond
)

// SummaryCache lets a run skip products that were already summarized. The
// pipeline accepts a nil cache, in which case every product is processed.
type SummaryCache interface {
	Get(ctx context.Context, productID string) (models.ReviewSummary, bool)
	Put(ctx context.Context, summary models.ReviewSummary) error
}

// ValkeyCache stores serialized summaries in valkey with a 24h TTL.
type ValkeyCache struct {
	client valkey.Client
}

// NewValkeyCache connects and pings; an unreachable cache is an error the
// caller may choose to treat as "run without cache".
func NewValkeyCache(cfg config.Config) (*ValkeyCache, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.ValkeyAddress},
		Password:         cfg.ValkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.ValkeyTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("creating valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging valkey: %w", err)
	}

	slog.Info("[SummaryCache] Connected to valkey",
		slog.String("address", cfg.ValkeyAddress))
	return &ValkeyCache{client: client}, nil
}

func (c *ValkeyCache) Get(ctx context.Context, productID string) (models.ReviewSummary, bool) {
	res := c.doWithRetry(ctx, func() valkey.Completed {
		return c.client.B().Get().Key(summaryKeyPrefix + productID).Build()
	})
	if res.Error() != nil {
		return models.ReviewSummary{}, false
	}

	raw, err := res.AsBytes()
	if err != nil {
		return models.ReviewSummary{}, false
	}

	var summary models.ReviewSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		slog.Warn("[SummaryCache] Corrupt cache entry, ignoring",
			slog.String("product_id", productID),
			slog.String("error", err.Error()))
		return models.ReviewSummary{}, false
	}

	return summary, true
}

func (c *ValkeyCache) Put(ctx context.Context, summary models.ReviewSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	res := c.doWithRetry(ctx, func() valkey.Completed {
		return c.client.B().Set().
			Key(summaryKeyPrefix + summary.ProductID).
			Value(string(raw)).
			ExSeconds(summaryTTLSeconds).
			Build()
	})
	if err := res.Error(); err != nil {
		return fmt.Errorf("storing summary for %s: %w", summary.ProductID, err)
	}
	return nil
}

func (c *ValkeyCache) Close() {
	c.client.Close()
}

// doWithRetry rebuilds the command per attempt; built commands are
// single-use in valkey-go.
func (c *ValkeyCache) doWithRetry(ctx context.Context, build func() valkey.Completed) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < commandRetries; i++ {
		result = c.client.Do(ctx, build())
		if result.Error() == nil {
			break
		}
		if valkey.IsValkeyNil(result.Error()) {
			break
		}

		slog.Warn("[SummaryCache] Command failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))
		time.Sleep(commandRetryDelay)
	}
	return result
}
