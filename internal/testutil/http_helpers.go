package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

// NewRequestWithURLParams creates an HTTP request with chi URL parameters.
// This helper simplifies testing chi handlers that use chi.URLParam() to extract path parameters.
//
// Example:
//
//	req := testutil.NewRequestWithURLParams(
//	    http.MethodGet,
//	    "/api/portfolio/123-456",
//	    map[string]string{"uuid": "123-456"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	return withURLParams(httptest.NewRequest(method, path, nil), params)
}

// NewJSONRequestWithURLParams creates an HTTP request carrying body encoded as JSON, with chi URL
// parameters. A string or []byte body is sent as is, which allows testing malformed payloads.
//
// Example:
//
//	req := testutil.NewJSONRequestWithURLParams(t,
//	    http.MethodPost,
//	    "/api/portfolio/123-456/transactions",
//	    map[string]string{"uuid": "123-456"},
//	    request.CreateTransactionRequest{Symbol: "AAPL"},
//	)
func NewJSONRequestWithURLParams(t *testing.T, method, path string, params map[string]string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewBuffer(b)
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return withURLParams(req, params)
}

// NewRequestWithQueryParams creates an HTTP request with query parameters.
// This helper simplifies testing handlers that use r.URL.Query() to extract query string parameters.
//
// Example:
//
//	req := testutil.NewRequestWithQueryParams(
//	    http.MethodGet,
//	    "/api/portfolio/123-456/performance",
//	    map[string]string{
//	        "start_date": "2024-01-01",
//	        "end_date": "2024-12-31",
//	    },
//	)
func NewRequestWithQueryParams(method, path string, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	setQuery(req, queryParams)
	return req
}

// NewRequestWithURLAndQueryParams combines NewRequestWithURLParams and NewRequestWithQueryParams.
func NewRequestWithURLAndQueryParams(method, path string, params, queryParams map[string]string) *http.Request {
	req := NewRequestWithURLParams(method, path, params)
	setQuery(req, queryParams)
	return req
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	if len(params) == 0 {
		return req
	}

	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func setQuery(req *http.Request, queryParams map[string]string) {
	if len(queryParams) == 0 {
		return
	}

	q := req.URL.Query()
	for key, value := range queryParams {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()
}

// DecodeJSON decodes the recorded response body into a T, failing the test on malformed JSON.
func DecodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v (body: %s)", err, w.Body.String())
	}
	return v
}
