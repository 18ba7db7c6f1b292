/*
Copyright 2025-2026 the Taskmesh Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:err113,revive // dynamic errors and naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
)

//go:generate mockgen -destination=../mocks/doer.go -package=mocks github.com/taskmesh/api-validation/test/api Doer

// Doer abstracts the transport so the client can be unit tested against a
// mock without a network.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type APIClient struct {
	baseURL   string
	client    Doer
	authToken string
	config    *TestConfig
	endpoints *Endpoints
	validator *SchemaValidator
}

// NewAPIClientWithConfig builds a client from a loaded test configuration.
func NewAPIClientWithConfig(config *TestConfig) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		authToken: config.AuthToken,
		config:    config,
		endpoints: NewEndpoints(),
	}

	if config.ValidateSchema {
		validator, err := NewSchemaValidator()
		if err != nil {
			ginkgo.GinkgoWriter.Printf("WARNING: schema validation disabled: %v\n", err)
		} else {
			c.validator = validator
		}
	}

	return c
}

// NewAPIClientWithDoer builds a client with a custom transport, for unit tests.
func NewAPIClientWithDoer(config *TestConfig, doer Doer) *APIClient {
	c := NewAPIClientWithConfig(config)
	c.client = doer

	return c
}

func (c *APIClient) SetAuthToken(token string) {
	c.authToken = token
}

// WithAuthToken returns a copy of the client using a different bearer token.
// Pass an empty string to exercise unauthenticated request paths.
func (c *APIClient) WithAuthToken(token string) *APIClient {
	clone := *c
	clone.authToken = token

	return &clone
}

// Endpoints exposes the path builders, mostly for raw request tests.
func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// APIResponse captures everything the suites assert on: the status code, the
// response headers and the (possibly non-JSON) body. The trace ID of the
// originating request rides along so failures can be matched to server logs.
type APIResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	TraceID    string

	decoded map[string]any
}

// StatusError reports a response that did not carry the status a fixture
// required, with the body and trace ID attached for diagnosis.
type StatusError struct {
	Expected   int
	StatusCode int
	Body       []byte
	TraceID    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: expected %d, got %d, body: %s (trace ID: %s)",
		e.Expected, e.StatusCode, string(e.Body), e.TraceID)
}

// ExpectStatus returns a StatusError when the response status differs from
// expected. Fixtures use it to fail fast with the trace ID in the message.
func (r *APIResponse) ExpectStatus(expected int) error {
	if r.StatusCode == expected {
		return nil
	}

	return &StatusError{
		Expected:   expected,
		StatusCode: r.StatusCode,
		Body:       r.Body,
		TraceID:    r.TraceID,
	}
}

// ContentType returns the response content type header value.
func (r *APIResponse) ContentType() string {
	return r.Header.Get("Content-Type")
}

// IsJSON reports whether the response declares a JSON content type.
func (r *APIResponse) IsJSON() bool {
	return strings.Contains(r.ContentType(), "application/json")
}

// JSON decodes the body as a JSON object. Returns nil when the body is empty,
// not JSON, or a JSON array rather than an object.
func (r *APIResponse) JSON() map[string]any {
	if r.decoded == nil {
		var obj map[string]any
		if err := json.Unmarshal(r.Body, &obj); err == nil {
			r.decoded = obj
		}
	}

	return r.decoded
}

// Property returns a top-level body field by name.
func (r *APIResponse) Property(name string) (any, bool) {
	obj := r.JSON()
	if obj == nil {
		return nil, false
	}

	value, ok := obj[name]

	return value, ok
}

// HasProperty reports presence of a top-level body field.
func (r *APIResponse) HasProperty(name string) bool {
	_, ok := r.Property(name)
	return ok
}

// StringProperty returns a top-level body field as a string, or empty.
func (r *APIResponse) StringProperty(name string) string {
	value, ok := r.Property(name)
	if !ok {
		return ""
	}

	s, _ := value.(string)

	return s
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// we are using this to create a new trace ID for each request so if an error occurs we can find the request in the logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	traceID := generateTraceID()
	spanID := generateSpanID()

	return fmt.Sprintf("00-%s-%s-01", traceID, spanID)
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

func (c *APIClient) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*APIResponse, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")

	if body != nil {
		if contentType == "" {
			contentType = "application/json"
		}

		req.Header.Set("Content-Type", contentType)
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(method, path, duration, traceParent, err, "reading response body")
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.config.LogRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode, duration, traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(respBody))
	}

	if c.validator != nil {
		if err := c.validator.ValidateResponse(method, path, resp.StatusCode, resp.Header, respBody); err != nil {
			ginkgo.GinkgoWriter.Printf("[%s %s] SCHEMA MISMATCH status=%d traceparent=%s error=%v\n", method, path, resp.StatusCode, traceParent, err)
		}
	}

	return &APIResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: respBody, TraceID: extractTraceID(traceParent)}, nil
}

func (c *APIClient) doJSON(ctx context.Context, method, path string, query url.Values, payload any) (*APIResponse, error) {
	var body io.Reader

	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = bytes.NewReader(encoded)
	}

	return c.doRequest(ctx, method, path, query, body, "application/json")
}

// RawRequest sends an arbitrary body with an arbitrary content type. Used to
// exercise malformed JSON and wrong content-type handling.
func (c *APIClient) RawRequest(ctx context.Context, method, path, contentType string, body []byte) (*APIResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	return c.doRequest(ctx, method, path, nil, reader, contentType)
}

// RawRequestWithHeader sends a request with a single caller-controlled header
// in place of the usual bearer token. Used to exercise malformed
// authorization schemes.
func (c *APIClient) RawRequestWithHeader(ctx context.Context, method, path, headerName, headerValue string) (*APIResponse, error) {
	fullURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set(headerName, headerValue)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &APIResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: respBody, TraceID: extractTraceID(traceParent)}, nil
}

// Schedule operations.

func (c *APIClient) CreateSchedule(ctx context.Context, payload map[string]any) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, c.endpoints.CreateSchedule(), nil, payload)
}

func (c *APIClient) ListSchedules(ctx context.Context, params url.Values) (*APIResponse, error) {
	return c.doRequest(ctx, http.MethodGet, c.endpoints.ListSchedules(), params, nil, "")
}

func (c *APIClient) GetSchedule(ctx context.Context, scheduleID string) (*APIResponse, error) {
	return c.doRequest(ctx, http.MethodGet, c.endpoints.GetSchedule(scheduleID), nil, nil, "")
}

func (c *APIClient) UpdateSchedule(ctx context.Context, scheduleID string, payload map[string]any) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPut, c.endpoints.UpdateSchedule(scheduleID), nil, payload)
}

func (c *APIClient) DeleteSchedule(ctx context.Context, scheduleID string) (*APIResponse, error) {
	return c.doRequest(ctx, http.MethodDelete, c.endpoints.DeleteSchedule(scheduleID), nil, nil, "")
}

func (c *APIClient) ActivateSchedule(ctx context.Context, scheduleID string) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, c.endpoints.ActivateSchedule(scheduleID), nil, nil)
}

func (c *APIClient) DeactivateSchedule(ctx context.Context, scheduleID string) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, c.endpoints.DeactivateSchedule(scheduleID), nil, nil)
}

// Environment variable operations.

func (c *APIClient) ListEnvVars(ctx context.Context, projectRef, env string) (*APIResponse, error) {
	return c.doRequest(ctx, http.MethodGet, c.endpoints.ListEnvVars(projectRef, env), nil, nil, "")
}

func (c *APIClient) ImportEnvVars(ctx context.Context, projectRef, env string, payload map[string]any) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, c.endpoints.ImportEnvVars(projectRef, env), nil, payload)
}

func (c *APIClient) GetEnvVar(ctx context.Context, projectRef, env, name string) (*APIResponse, error) {
	return c.doRequest(ctx, http.MethodGet, c.endpoints.GetEnvVar(projectRef, env, name), nil, nil, "")
}

func (c *APIClient) UpdateEnvVar(ctx context.Context, projectRef, env, name string, payload map[string]any) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPut, c.endpoints.UpdateEnvVar(projectRef, env, name), nil, payload)
}

func (c *APIClient) DeleteEnvVar(ctx context.Context, projectRef, env, name string) (*APIResponse, error) {
	return c.doRequest(ctx, http.MethodDelete, c.endpoints.DeleteEnvVar(projectRef, env, name), nil, nil, "")
}

// Task operations.

func (c *APIClient) TriggerTask(ctx context.Context, taskIdentifier string, payload map[string]any) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, c.endpoints.TriggerTask(taskIdentifier), nil, payload)
}

func (c *APIClient) BatchTriggerTasks(ctx context.Context, payload map[string]any) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, c.endpoints.BatchTriggerTasks(), nil, payload)
}

// Run operations.

func (c *APIClient) ListProjectRuns(ctx context.Context, projectRef string, params url.Values) (*APIResponse, error) {
	return c.doRequest(ctx, http.MethodGet, c.endpoints.ListProjectRuns(projectRef), params, nil, "")
}

func (c *APIClient) GetRun(ctx context.Context, runID string) (*APIResponse, error) {
	return c.doRequest(ctx, http.MethodGet, c.endpoints.GetRun(runID), nil, nil, "")
}

func (c *APIClient) CancelRun(ctx context.Context, runID string) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, c.endpoints.CancelRun(runID), nil, nil)
}

func (c *APIClient) ReplayRun(ctx context.Context, runID string) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, c.endpoints.ReplayRun(runID), nil, nil)
}

func (c *APIClient) RescheduleRun(ctx context.Context, runID string, payload map[string]any) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPost, c.endpoints.RescheduleRun(runID), nil, payload)
}

func (c *APIClient) UpdateRunMetadata(ctx context.Context, runID string, payload map[string]any) (*APIResponse, error) {
	return c.doJSON(ctx, http.MethodPut, c.endpoints.UpdateRunMetadata(runID), nil, payload)
}

// Metadata operations.

func (c *APIClient) ListTimezones(ctx context.Context, params url.Values) (*APIResponse, error) {
	return c.doRequest(ctx, http.MethodGet, c.endpoints.ListTimezones(), params, nil, "")
}
