// Package gateway executes search queries with pacing, caching, and
// rate-limit handling. Search failures never surface as errors: a query
// that cannot be answered yields zero results so the pipeline keeps
// moving.
package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/connectsphere/connect-cli/internal/model"
	"github.com/connectsphere/connect-cli/internal/store"
	"github.com/connectsphere/connect-cli/pkg/google"
)

// Config controls pacing and caching.
type Config struct {
	// PriorityInterval spaces colleague and school queries.
	PriorityInterval time.Duration
	// StandardInterval spaces broad and executive queries.
	StandardInterval time.Duration
	// RateLimitBackoff is the extra pause after the API returns 429.
	RateLimitBackoff time.Duration
	// CacheTTL is how long cached search results stay fresh.
	CacheTTL time.Duration
}

// DefaultConfig returns the pacing used in production.
func DefaultConfig() Config {
	return Config{
		PriorityInterval: 2 * time.Second,
		StandardInterval: 1500 * time.Millisecond,
		RateLimitBackoff: 10 * time.Second,
		CacheTTL:         24 * time.Hour,
	}
}

// Gateway paces queries against the search API and caches answers.
type Gateway struct {
	search   google.Client
	cache    store.Store
	cfg      Config
	priority *rate.Limiter
	standard *rate.Limiter
}

// New creates a gateway. The cache may be nil, in which case every
// query goes to the API.
func New(search google.Client, cache store.Store, cfg Config) *Gateway {
	if cfg.PriorityInterval <= 0 {
		cfg.PriorityInterval = DefaultConfig().PriorityInterval
	}
	if cfg.StandardInterval <= 0 {
		cfg.StandardInterval = DefaultConfig().StandardInterval
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	return &Gateway{
		search:   search,
		cache:    cache,
		cfg:      cfg,
		priority: rate.NewLimiter(rate.Every(cfg.PriorityInterval), 1),
		standard: rate.NewLimiter(rate.Every(cfg.StandardInterval), 1),
	}
}

// Execute runs one query and returns whatever results it can get.
// Cached answers skip the API entirely and do not consume pacing
// budget. A rate-limited query triggers an extended pause so the
// remaining queries in the run stand a chance.
func (g *Gateway) Execute(ctx context.Context, query model.SearchQuery, maxResults int) []model.RawResult {
	key := store.QueryHash(query.Text)

	if g.cache != nil {
		cached, ok, err := g.cache.GetCachedSearch(ctx, key)
		if err != nil {
			zap.L().Warn("search cache read failed", zap.Error(err))
		} else if ok {
			zap.L().Debug("search cache hit",
				zap.String("intent", string(query.Intent)),
				zap.Int("results", len(cached)),
			)
			return cached
		}
	}

	if err := g.limiter(query.Intent).Wait(ctx); err != nil {
		return nil
	}

	items, err := g.search.Search(ctx, query.Text, maxResults)
	if err != nil {
		if google.IsRateLimited(err) {
			zap.L().Warn("search rate limited, backing off",
				zap.String("intent", string(query.Intent)),
				zap.Duration("backoff", g.cfg.RateLimitBackoff),
			)
			g.pause(ctx)
		} else {
			zap.L().Warn("search query failed",
				zap.String("intent", string(query.Intent)),
				zap.Error(err),
			)
		}
		return nil
	}

	results := make([]model.RawResult, len(items))
	for i, it := range items {
		results[i] = model.RawResult{Title: it.Title, Snippet: it.Snippet, Link: it.Link}
	}

	if g.cache != nil {
		if err := g.cache.SetCachedSearch(ctx, key, results, g.cfg.CacheTTL); err != nil {
			zap.L().Warn("search cache write failed", zap.Error(err))
		}
	}

	zap.L().Debug("search query executed",
		zap.String("intent", string(query.Intent)),
		zap.Int("results", len(results)),
	)
	return results
}

func (g *Gateway) limiter(intent model.QueryIntent) *rate.Limiter {
	if intent.IsPriority() {
		return g.priority
	}
	return g.standard
}

func (g *Gateway) pause(ctx context.Context) {
	if g.cfg.RateLimitBackoff <= 0 {
		return
	}
	timer := time.NewTimer(g.cfg.RateLimitBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
