// Package store persists discovery runs and cached search results.
package store

import (
	"context"
	"time"

	"github.com/connectsphere/connect-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status        model.RunStatus `json:"status,omitempty"`
	TargetCompany string          `json:"target_company,omitempty"`
	Limit         int             `json:"limit,omitempty"`
	Offset        int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the discovery pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, params model.RunParams) (*model.DiscoveryRun, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*model.DiscoveryRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.DiscoveryRun, error)

	// Search cache
	GetCachedSearch(ctx context.Context, queryHash string) ([]model.RawResult, bool, error)
	SetCachedSearch(ctx context.Context, queryHash string, results []model.RawResult, ttl time.Duration) error
	DeleteExpiredSearches(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
