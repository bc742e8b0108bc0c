// Package verifier wraps the Rapid Email Verifier API.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/connectsphere/connect-cli/internal/resilience"
)

const defaultBaseURL = "https://rapid-email-verifier.fly.dev/api"

// Client performs email validation operations.
type Client interface {
	Validate(ctx context.Context, email string) (*Validation, error)
	ValidateBatch(ctx context.Context, emails []string) ([]Validation, error)
}

// Validation is the verdict for a single address.
type Validation struct {
	Email        string `json:"email"`
	IsValid      bool   `json:"is_valid"`
	IsDisposable bool   `json:"is_disposable"`
	HasMXRecord  bool   `json:"has_mx_record"`
	Suggestion   string `json:"suggestion,omitempty"`
	// Checked is false when the verdict is a placeholder for an
	// address the API could not be reached for.
	Checked bool `json:"checked"`
}

// Deliverable reports whether the address passed validation.
func (v Validation) Deliverable() bool {
	return v.IsValid && !v.IsDisposable
}

type batchRequest struct {
	Emails []string `json:"emails"`
}

type batchResponse struct {
	Results []Validation `json:"results"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetryConfig overrides the retry policy for single validations.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	retry   resilience.RetryConfig
}

// NewClient creates a verifier client. The API requires no key.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
		retry: resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Validate checks one address. Transient failures are retried.
func (c *httpClient) Validate(ctx context.Context, email string) (*Validation, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*Validation, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/validate?email="+url.QueryEscape(email), nil)
		if err != nil {
			return nil, eris.Wrap(err, "verifier: create request")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "verifier: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "verifier: read response")
		}

		if resp.StatusCode != http.StatusOK {
			reqErr := eris.Errorf("verifier: unexpected status %d: %s", resp.StatusCode, string(respBody))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(reqErr, resp.StatusCode)
			}
			return nil, reqErr
		}

		var result Validation
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, eris.Wrap(err, "verifier: unmarshal response")
		}
		if result.Email == "" {
			result.Email = email
		}
		result.Checked = true
		return &result, nil
	})
}

// ValidateBatch checks many addresses in one call. Order of results is
// not guaranteed by the API.
func (c *httpClient) ValidateBatch(ctx context.Context, emails []string) ([]Validation, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(batchRequest{Emails: emails})
	if err != nil {
		return nil, eris.Wrap(err, "verifier: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/validate/batch", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "verifier: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "verifier: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "verifier: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("verifier: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result batchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "verifier: unmarshal response")
	}

	for i := range result.Results {
		result.Results[i].Checked = true
	}
	return result.Results, nil
}

// maxConcurrentValidations bounds the per-address fallback fan-out.
const maxConcurrentValidations = 5

// ValidateAll checks addresses via the batch endpoint, falling back to
// bounded concurrent single validations when the batch call fails.
// Addresses that fail even the single check are reported unchecked
// rather than dropped.
func ValidateAll(ctx context.Context, c Client, emails []string) []Validation {
	if len(emails) == 0 {
		return nil
	}

	if results, err := c.ValidateBatch(ctx, emails); err == nil {
		return results
	}

	results := make([]Validation, len(emails))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentValidations)

	for i, email := range emails {
		i, email := i, email
		g.Go(func() error {
			v, err := c.Validate(ctx, email)
			if err != nil {
				results[i] = Validation{Email: email}
				return nil
			}
			results[i] = *v
			return nil
		})
	}
	_ = g.Wait()

	return results
}
