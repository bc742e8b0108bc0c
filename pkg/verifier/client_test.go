package verifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectsphere/connect-cli/internal/resilience"
)

func noRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxAttempts: 1}
}

func TestValidate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/validate", r.URL.Path)
		assert.Equal(t, "john.smith@acme.com", r.URL.Query().Get("email"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"john.smith@acme.com","is_valid":true,"is_disposable":false,"has_mx_record":true}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetryConfig(noRetry()))
	v, err := client.Validate(context.Background(), "john.smith@acme.com")

	require.NoError(t, err)
	assert.Equal(t, "john.smith@acme.com", v.Email)
	assert.True(t, v.Deliverable())
	assert.True(t, v.HasMXRecord)
	assert.True(t, v.Checked)
}

func TestValidate_DisposableNotDeliverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"x@mailinator.com","is_valid":true,"is_disposable":true}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetryConfig(noRetry()))
	v, err := client.Validate(context.Background(), "x@mailinator.com")

	require.NoError(t, err)
	assert.False(t, v.Deliverable())
}

func TestValidate_Suggestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"a@gmial.com","is_valid":false,"suggestion":"a@gmail.com"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetryConfig(noRetry()))
	v, err := client.Validate(context.Background(), "a@gmial.com")

	require.NoError(t, err)
	assert.False(t, v.Deliverable())
	assert.Equal(t, "a@gmail.com", v.Suggestion)
}

func TestValidate_FillsMissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"is_valid":true}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetryConfig(noRetry()))
	v, err := client.Validate(context.Background(), "pat.lee@globex.com")

	require.NoError(t, err)
	assert.Equal(t, "pat.lee@globex.com", v.Email)
}

func TestValidate_RetriesTransient(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"a@b.com","is_valid":true}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetryConfig(resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1,
	}))
	v, err := client.Validate(context.Background(), "a@b.com")

	require.NoError(t, err)
	assert.True(t, v.Deliverable())
	assert.Equal(t, int32(2), attempts.Load())
}

func TestValidate_ReportsRetries(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"a@b.com","is_valid":true}`))
	}))
	defer srv.Close()

	var notified []int
	client := NewClient(WithBaseURL(srv.URL), WithRetryConfig(resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1,
		OnRetry: func(attempt int, err error) {
			notified = append(notified, attempt)
			assert.Error(t, err)
		},
	}))
	v, err := client.Validate(context.Background(), "a@b.com")

	require.NoError(t, err)
	assert.True(t, v.Deliverable())
	assert.Equal(t, []int{1, 2}, notified)
}

func TestValidate_NoRetryOn400(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"missing email"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetryConfig(resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1,
	}))
	_, err := client.Validate(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestValidateBatch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/validate/batch", r.URL.Path)

		var req batchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a@acme.com", "b@acme.com"}, req.Emails)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"email":"a@acme.com","is_valid":true,"has_mx_record":true},
			{"email":"b@acme.com","is_valid":false}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	results, err := client.ValidateBatch(context.Background(), []string{"a@acme.com", "b@acme.com"})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Deliverable())
	assert.True(t, results[0].Checked)
	assert.False(t, results[1].Deliverable())
}

func TestValidateBatch_Empty(t *testing.T) {
	client := NewClient()
	results, err := client.ValidateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestValidateBatch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	results, err := client.ValidateBatch(context.Background(), []string{"a@acme.com"})

	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "500")
}

func TestValidateAll_UsesBatch(t *testing.T) {
	var singleCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/validate" {
			singleCalls.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"email":"a@acme.com","is_valid":true}]}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	results := ValidateAll(context.Background(), client, []string{"a@acme.com"})

	require.Len(t, results, 1)
	assert.True(t, results[0].Deliverable())
	assert.Zero(t, singleCalls.Load())
}

func TestValidateAll_FallsBackToSingles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/validate/batch" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		email := r.URL.Query().Get("email")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Validation{
			Email:   email,
			IsValid: email != "bad@acme.com",
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetryConfig(noRetry()))
	results := ValidateAll(context.Background(), client, []string{"good@acme.com", "bad@acme.com"})

	require.Len(t, results, 2)
	assert.Equal(t, "good@acme.com", results[0].Email)
	assert.True(t, results[0].Deliverable())
	assert.Equal(t, "bad@acme.com", results[1].Email)
	assert.False(t, results[1].Deliverable())
}

func TestValidateAll_SingleFailureYieldsUnchecked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetryConfig(noRetry()))
	results := ValidateAll(context.Background(), client, []string{"x@acme.com"})

	require.Len(t, results, 1)
	assert.Equal(t, "x@acme.com", results[0].Email)
	assert.False(t, results[0].Checked)
	assert.False(t, results[0].Deliverable())
}

func TestValidateAll_Empty(t *testing.T) {
	client := NewClient()
	assert.Nil(t, ValidateAll(context.Background(), client, nil))
}
