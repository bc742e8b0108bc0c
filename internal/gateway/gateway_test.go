package gateway

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/connectsphere/connect-cli/internal/model"
	"github.com/connectsphere/connect-cli/internal/store"
	"github.com/connectsphere/connect-cli/pkg/google"
	"github.com/connectsphere/connect-cli/pkg/google/mocks"
)

func fastConfig() Config {
	return Config{
		PriorityInterval: time.Millisecond,
		StandardInterval: time.Millisecond,
		RateLimitBackoff: 5 * time.Millisecond,
		CacheTTL:         time.Hour,
	}
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func colleagueQuery() model.SearchQuery {
	return model.SearchQuery{
		Text:   `site:linkedin.com/in/ "Acme" "formerly Globex"`,
		Intent: model.IntentColleague,
	}
}

func TestExecute_ReturnsResults(t *testing.T) {
	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, colleagueQuery().Text, 10).Return([]google.Result{
		{Title: "John Smith - Engineer", Snippet: "at Acme", Link: "https://linkedin.com/in/johnsmith"},
	}, nil)

	g := New(search, nil, fastConfig())
	results := g.Execute(context.Background(), colleagueQuery(), 10)

	require.Len(t, results, 1)
	assert.Equal(t, "John Smith - Engineer", results[0].Title)
	assert.Equal(t, "https://linkedin.com/in/johnsmith", results[0].Link)
}

func TestExecute_FailureYieldsEmpty(t *testing.T) {
	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	g := New(search, nil, fastConfig())
	results := g.Execute(context.Background(), colleagueQuery(), 10)

	assert.Empty(t, results)
}

func TestExecute_CacheHitSkipsAPI(t *testing.T) {
	st := newTestStore(t)
	query := colleagueQuery()
	cached := []model.RawResult{{Title: "Cached Person", Link: "https://linkedin.com/in/cached"}}
	require.NoError(t, st.SetCachedSearch(context.Background(), store.QueryHash(query.Text), cached, time.Hour))

	search := mocks.NewMockClient(t) // no expectations: any call fails the test

	g := New(search, st, fastConfig())
	results := g.Execute(context.Background(), query, 10)

	require.Len(t, results, 1)
	assert.Equal(t, "Cached Person", results[0].Title)
}

func TestExecute_WritesCache(t *testing.T) {
	st := newTestStore(t)
	query := colleagueQuery()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, query.Text, 10).Return([]google.Result{
		{Title: "Fresh Result", Link: "https://linkedin.com/in/fresh"},
	}, nil).Once()

	g := New(search, st, fastConfig())

	first := g.Execute(context.Background(), query, 10)
	require.Len(t, first, 1)

	// Second execution must come from the cache: Search is Once().
	second := g.Execute(context.Background(), query, 10)
	require.Len(t, second, 1)
	assert.Equal(t, "Fresh Result", second[0].Title)
}

func TestExecute_EmptyAnswerIsCached(t *testing.T) {
	st := newTestStore(t)
	query := colleagueQuery()

	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, query.Text, 10).Return([]google.Result{}, nil).Once()

	g := New(search, st, fastConfig())

	assert.Empty(t, g.Execute(context.Background(), query, 10))
	// Cached empty answer, no second API call.
	assert.Empty(t, g.Execute(context.Background(), query, 10))
}

func TestExecute_RateLimitBacksOff(t *testing.T) {
	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &google.APIError{StatusCode: http.StatusTooManyRequests, Body: "slow down"})

	cfg := fastConfig()
	cfg.RateLimitBackoff = 30 * time.Millisecond

	g := New(search, nil, cfg)

	start := time.Now()
	results := g.Execute(context.Background(), colleagueQuery(), 10)
	elapsed := time.Since(start)

	assert.Empty(t, results)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestExecute_ContextCancelDuringBackoff(t *testing.T) {
	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &google.APIError{StatusCode: http.StatusTooManyRequests, Body: "slow down"})

	cfg := fastConfig()
	cfg.RateLimitBackoff = 10 * time.Second

	g := New(search, nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	results := g.Execute(ctx, colleagueQuery(), 10)

	assert.Empty(t, results)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExecute_PacesConsecutiveQueries(t *testing.T) {
	search := mocks.NewMockClient(t)
	search.On("Search", mock.Anything, mock.Anything, mock.Anything).Return([]google.Result{}, nil)

	cfg := fastConfig()
	cfg.StandardInterval = 20 * time.Millisecond

	g := New(search, nil, cfg)
	broad := model.SearchQuery{Text: "query", Intent: model.IntentBroad}

	start := time.Now()
	g.Execute(context.Background(), broad, 10)
	g.Execute(context.Background(), broad, 10)

	// The second call waits for the pacing interval.
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestLimiterSelection(t *testing.T) {
	t.Parallel()

	g := New(mocks.NewMockClient(t), nil, fastConfig())

	assert.Same(t, g.priority, g.limiter(model.IntentColleague))
	assert.Same(t, g.priority, g.limiter(model.IntentSchool))
	assert.Same(t, g.standard, g.limiter(model.IntentBroad))
	assert.Same(t, g.standard, g.limiter(model.IntentExecutive))
}
