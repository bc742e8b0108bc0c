package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectsphere/connect-cli/internal/model"
	"github.com/connectsphere/connect-cli/internal/pipeline"
	"github.com/connectsphere/connect-cli/internal/store"
)

type stubRunner struct {
	result *pipeline.Result
	err    error
	params model.RunParams
	calls  int
}

func (s *stubRunner) Run(ctx context.Context, params model.RunParams) (*pipeline.Result, error) {
	s.calls++
	s.params = params
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func validBody() string {
	return `{"userName":"Jane Doe","targetCompany":"Acme","previousCompany":"Globex","school":"State University"}`
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := New(0, &stubRunner{}, nil)
	rec := doRequest(t, s.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDiscover_Success(t *testing.T) {
	runner := &stubRunner{result: &pipeline.Result{
		RunID: "run-1",
		Connections: []model.FinalConnection{{
			EnrichedContact: model.EnrichedContact{
				ProfileCandidate: model.ProfileCandidate{Name: "John Smith"},
				ConnectionType:   model.WorkAlumni,
			},
			PrimaryEmail: "john.smith@acme.com",
		}},
		Stats: model.RunStats{ContactsReturned: 1},
	}}

	s := New(0, runner, nil)
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/discover", validBody())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "Acme", runner.params.TargetCompany)

	var resp discoverResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.RunID)
	require.Len(t, resp.Connections, 1)
	assert.Equal(t, "John Smith", resp.Connections[0].Name)
	assert.Equal(t, "john.smith@acme.com", resp.Connections[0].PrimaryEmail)
}

func TestDiscover_MissingField(t *testing.T) {
	runner := &stubRunner{}
	s := New(0, runner, nil)

	body := `{"userName":"Jane Doe","targetCompany":"Acme","previousCompany":"Globex"}`
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/discover", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "school")
	assert.Zero(t, runner.calls)
}

func TestDiscover_InvalidBody(t *testing.T) {
	s := New(0, &stubRunner{}, nil)
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/discover", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestDiscover_PipelineError(t *testing.T) {
	s := New(0, &stubRunner{err: assert.AnError}, nil)
	rec := doRequest(t, s.Handler(), http.MethodPost, "/api/discover", validBody())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "discovery failed")
}

func TestListRuns(t *testing.T) {
	st := newTestStore(t)
	params := model.RunParams{
		UserName:        "Jane Doe",
		TargetCompany:   "Acme",
		PreviousCompany: "Globex",
		School:          "State University",
	}
	run, err := st.CreateRun(context.Background(), params)
	require.NoError(t, err)

	s := New(0, &stubRunner{}, st)
	rec := doRequest(t, s.Handler(), http.MethodGet, "/api/runs?company=Acme", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Runs []model.DiscoveryRun `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, run.ID, resp.Runs[0].ID)
}

func TestListRuns_BadLimit(t *testing.T) {
	s := New(0, &stubRunner{}, newTestStore(t))
	rec := doRequest(t, s.Handler(), http.MethodGet, "/api/runs?limit=zero", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRuns_StorageDisabled(t *testing.T) {
	s := New(0, &stubRunner{}, nil)
	rec := doRequest(t, s.Handler(), http.MethodGet, "/api/runs", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "run storage disabled")
}

func TestGetRun(t *testing.T) {
	st := newTestStore(t)
	run, err := st.CreateRun(context.Background(), model.RunParams{
		UserName: "Jane Doe", TargetCompany: "Acme",
		PreviousCompany: "Globex", School: "State University",
	})
	require.NoError(t, err)

	s := New(0, &stubRunner{}, st)

	rec := doRequest(t, s.Handler(), http.MethodGet, "/api/runs/"+run.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.DiscoveryRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, run.ID, got.ID)

	rec = doRequest(t, s.Handler(), http.MethodGet, "/api/runs/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := New(0, &stubRunner{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/discover", strings.NewReader(""))
	req.Header.Set("Origin", "https://widget.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
