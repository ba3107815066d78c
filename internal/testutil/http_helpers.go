package testutil

import (
	"bytes"
	"context"
	"encoding/json"
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
//	    "/api/favorite/161725",
//	    map[string]string{"code": "161725"},
//	)
func NewRequestWithURLParams(method, path string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req
}

// NewRequestWithQueryParams creates an HTTP request with query parameters.
// This helper simplifies testing handlers that use r.URL.Query() to extract query string parameters.
//
// Example:
//
//	req := testutil.NewRequestWithQueryParams(
//	    http.MethodGet,
//	    "/api/fund",
//	    map[string]string{"page": "2", "limit": "10"},
//	)
func NewRequestWithQueryParams(method, path string, queryParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, nil)

	if len(queryParams) > 0 {
		q := req.URL.Query()
		for key, value := range queryParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req
}

// NewJSONRequest creates an HTTP request with a JSON-encoded body.
//
// Example:
//
//	req := testutil.NewJSONRequest(http.MethodPost, "/api/rule", payload)
func NewJSONRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}
