package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/cache"
	"github.com/fundwatch/fund-monitor-backend/internal/config"
)

// newGatewayServer fakes the token, detail, and push endpoints. tokenCalls
// counts token requests so tests can assert the cache is doing its job.
func newGatewayServer(t *testing.T, tokenCalls *int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("grant_type") != "client_credentials" || r.PostForm.Get("client_id") != "cid" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/fund/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path == "/fund/999999" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code":         "161725",
			"name":         "招商中证白酒",
			"type":         "指数型",
			"netWorth":     1.234,
			"expectWorth":  1.25,
			"dayGrowth":    -3.5,
			"netWorthDate": "2024-05-31",
		})
	})
	mux.HandleFunc("/push", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["webhookUrl"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return httptest.NewServer(mux)
}

func newTestClient(srv *httptest.Server, c *cache.Cache) *HTTPClient {
	return NewHTTPClient(config.GatewayConfig{
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/token",
		ClientID:     "cid",
		ClientSecret: "secret",
		Scope:        "fund",
	}, c)
}

func TestHTTPClient_FundDetail(t *testing.T) {
	t.Run("fetches detail with a bearer token", func(t *testing.T) {
		var tokenCalls int32
		srv := newGatewayServer(t, &tokenCalls)
		defer srv.Close()

		client := newTestClient(srv, cache.New())
		detail, err := client.FundDetail(context.Background(), "161725")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if detail.Code != "161725" || detail.ActualDayGrowth != -3.5 {
			t.Errorf("unexpected detail: %+v", detail)
		}
	})

	t.Run("reuses the cached token across calls", func(t *testing.T) {
		var tokenCalls int32
		srv := newGatewayServer(t, &tokenCalls)
		defer srv.Close()

		client := newTestClient(srv, cache.New())
		for i := 0; i < 3; i++ {
			if _, err := client.FundDetail(context.Background(), "161725"); err != nil {
				t.Fatalf("call %d failed: %v", i, err)
			}
		}

		if got := atomic.LoadInt32(&tokenCalls); got != 1 {
			t.Errorf("expected 1 token request, got %d", got)
		}
	})

	t.Run("refetches the token after expiry", func(t *testing.T) {
		var tokenCalls int32
		srv := newGatewayServer(t, &tokenCalls)
		defer srv.Close()

		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		c := cache.NewWithClock(func() time.Time { return now })

		client := newTestClient(srv, c)
		if _, err := client.FundDetail(context.Background(), "161725"); err != nil {
			t.Fatalf("first call failed: %v", err)
		}

		now = now.Add(cache.TTLToken + time.Minute)
		if _, err := client.FundDetail(context.Background(), "161725"); err != nil {
			t.Fatalf("second call failed: %v", err)
		}

		if got := atomic.LoadInt32(&tokenCalls); got != 2 {
			t.Errorf("expected 2 token requests, got %d", got)
		}
	})

	t.Run("maps 404 to ErrFundNotFound", func(t *testing.T) {
		var tokenCalls int32
		srv := newGatewayServer(t, &tokenCalls)
		defer srv.Close()

		client := newTestClient(srv, cache.New())
		_, err := client.FundDetail(context.Background(), "999999")
		if !errors.Is(err, apperrors.ErrFundNotFound) {
			t.Errorf("expected ErrFundNotFound, got %v", err)
		}
	})

	t.Run("surfaces auth failure as ErrGatewayAuth", func(t *testing.T) {
		var tokenCalls int32
		srv := newGatewayServer(t, &tokenCalls)
		defer srv.Close()

		client := NewHTTPClient(config.GatewayConfig{
			BaseURL:  srv.URL,
			TokenURL: srv.URL + "/token",
			ClientID: "wrong",
		}, cache.New())

		_, err := client.FundDetail(context.Background(), "161725")
		if !errors.Is(err, apperrors.ErrGatewayAuth) {
			t.Errorf("expected ErrGatewayAuth, got %v", err)
		}
	})
}

func TestHTTPClient_Push(t *testing.T) {
	t.Run("delivers the payload", func(t *testing.T) {
		var tokenCalls int32
		srv := newGatewayServer(t, &tokenCalls)
		defer srv.Close()

		client := newTestClient(srv, cache.New())
		err := client.Push(context.Background(), "https://oapi.dingtalk.com/robot/send?access_token=x", "基金提醒", "**text**")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("maps rejection to ErrPushFailed", func(t *testing.T) {
		var tokenCalls int32
		srv := newGatewayServer(t, &tokenCalls)
		defer srv.Close()

		client := newTestClient(srv, cache.New())
		err := client.Push(context.Background(), "", "t", "m")
		if !errors.Is(err, apperrors.ErrPushFailed) {
			t.Errorf("expected ErrPushFailed, got %v", err)
		}
	})
}
