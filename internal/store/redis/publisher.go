// Package redis publishes enrichment output and evaluation reports for
// downstream consumers (charting UIs, report collectors). Publishing is
// best-effort: the evaluation run itself never depends on Redis being up.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"forecast-systemv1/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

const (
	// Stream trimming: roughly two years of daily bars per symbol.
	enrichedStreamMaxLen = 800

	reportTTL = 24 * time.Hour
)

// PublisherConfig configures the Redis publisher.
type PublisherConfig struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
}

// Publisher writes enriched bars and evaluation reports to Redis.
type Publisher struct {
	client *goredis.Client
}

// Client returns the underlying Redis client for health checks.
func (p *Publisher) Client() *goredis.Client { return p.client }

// New creates a new Publisher and pings the server.
func New(cfg PublisherConfig) (*Publisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return &Publisher{client: client}, nil
}

// PublishEnrichedBars appends enriched bars to per-symbol capped streams
// (stream:enriched:<symbol>) for charting consumers.
func (p *Publisher) PublishEnrichedBars(ctx context.Context, bars []model.EnrichedBar) error {
	pipe := p.client.Pipeline()
	for _, eb := range bars {
		data, err := json.Marshal(eb)
		if err != nil {
			return fmt.Errorf("marshal enriched bar: %w", err)
		}
		pipe.XAdd(ctx, &goredis.XAddArgs{
			Stream: "stream:enriched:" + eb.Symbol,
			MaxLen: enrichedStreamMaxLen,
			Approx: true,
			Values: map[string]interface{}{
				"ts":   eb.TS.Unix(),
				"data": string(data),
			},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis xadd enriched: %w", err)
	}
	return nil
}

// PublishReport stores the latest evaluation report for a split mode under
// report:latest:<mode> (with TTL) and announces it on pub:report:<mode>.
func (p *Publisher) PublishReport(ctx context.Context, mode string, report interface{}) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	key := "report:latest:" + mode
	if err := p.client.Set(ctx, key, data, reportTTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	if err := p.client.Publish(ctx, "pub:report:"+mode, data).Err(); err != nil {
		return fmt.Errorf("redis publish report: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
