package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/connectsphere/connect-cli/internal/classify"
	"github.com/connectsphere/connect-cli/internal/gateway"
	"github.com/connectsphere/connect-cli/internal/pipeline"
	"github.com/connectsphere/connect-cli/internal/resilience"
	"github.com/connectsphere/connect-cli/internal/store"
	anthropicpkg "github.com/connectsphere/connect-cli/pkg/anthropic"
	"github.com/connectsphere/connect-cli/pkg/google"
	"github.com/connectsphere/connect-cli/pkg/openai"
	"github.com/connectsphere/connect-cli/pkg/verifier"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// initStore opens and migrates the local run/cache database. A blank path
// disables persistence.
func initStore(ctx context.Context) (store.Store, error) {
	if cfg.Cache.Path == "" {
		return nil, nil
	}
	st, err := store.NewSQLite(cfg.Cache.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

func newGateway(st store.Store) *gateway.Gateway {
	search := google.NewClient(cfg.Search.Key, cfg.Search.EngineID,
		google.WithBaseURL(cfg.Search.BaseURL))
	return gateway.New(search, st, gateway.Config{
		PriorityInterval: time.Duration(cfg.Search.PriorityDelayMs) * time.Millisecond,
		StandardInterval: time.Duration(cfg.Search.StandardDelayMs) * time.Millisecond,
		RateLimitBackoff: time.Duration(cfg.Search.RateLimitBackoffMs) * time.Millisecond,
		CacheTTL:         time.Duration(cfg.Cache.TTLHours) * time.Hour,
	})
}

// newClassifier selects the completion provider. "none" classifies with
// the deterministic fallback only.
func newClassifier() *classify.Classifier {
	switch cfg.LLM.Provider {
	case "anthropic":
		model := cfg.LLM.Model
		if model == "" {
			model = defaultAnthropicModel
		}
		return classify.New(&classify.AnthropicDriver{
			Client: anthropicpkg.NewClient(cfg.LLM.Key),
			Model:  model,
		})
	case "none":
		return classify.New(nil)
	default:
		opts := []openai.Option{}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.LLM.BaseURL))
		}
		if cfg.LLM.Model != "" {
			opts = append(opts, openai.WithModel(cfg.LLM.Model))
		}
		return classify.New(&classify.OpenAIDriver{
			Client: openai.NewClient(cfg.LLM.Key, opts...),
			Model:  cfg.LLM.Model,
		})
	}
}

func newPipeline(st store.Store) *pipeline.Pipeline {
	return pipeline.New(cfg, newGateway(st), newClassifier(), st)
}

func newVerifier() verifier.Client {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("verifier", "validate")
	if cfg.Verifier.Retries > 0 {
		retry.MaxAttempts = cfg.Verifier.Retries
	}
	return verifier.NewClient(
		verifier.WithBaseURL(cfg.Verifier.BaseURL),
		verifier.WithRetryConfig(retry),
	)
}
