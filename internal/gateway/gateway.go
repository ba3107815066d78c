// Package gateway wraps the OAuth2/messaging gateway: a client-credentials
// token endpoint, a richer per-fund detail endpoint, and the push delivery
// endpoint that fans out to DingTalk/WeChat webhooks.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/cache"
	"github.com/fundwatch/fund-monitor-backend/internal/config"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
)

const tokenCacheKey = "gateway:token"

// Client defines the interface for the gateway operations used by the
// services. This interface enables dependency injection and testing with
// mock implementations.
type Client interface {
	FundDetail(ctx context.Context, code string) (*model.FundDetail, error)
	Push(ctx context.Context, webhookURL, title, markdown string) error
}

// HTTPClient talks to the gateway over HTTP. Bearer tokens are fetched
// with the client-credentials grant and memoized in the shared TTL cache
// for an hour.
type HTTPClient struct {
	cfg        config.GatewayConfig
	cache      *cache.Cache
	httpClient *http.Client
}

// NewHTTPClient creates a gateway client. The cache is shared with the
// rest of the process; only the token key is used here.
func NewHTTPClient(cfg config.GatewayConfig, c *cache.Cache) *HTTPClient {
	return &HTTPClient{
		cfg:   cfg,
		cache: c,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FundDetail fetches the gateway's richer per-fund view, used for rule
// evaluation and the fund detail endpoint.
func (c *HTTPClient) FundDetail(ctx context.Context, code string) (*model.FundDetail, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/fund/"+url.PathEscape(code), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSnapshotUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.ErrFundNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrSnapshotUnavailable, resp.StatusCode)
	}

	var payload detailPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSnapshotUnavailable, err)
	}

	return payload.toModel(), nil
}

// Push delivers a formatted notification through the gateway to the given
// webhook. The markdown body is rendered by the caller; the gateway owns
// the channel-specific envelope.
func (c *HTTPClient) Push(ctx context.Context, webhookURL, title, markdown string) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(pushRequest{
		Title:      title,
		Text:       markdown,
		WebhookURL: webhookURL,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/push", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPushFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, body: %s", apperrors.ErrPushFailed, resp.StatusCode, string(respBody))
	}

	return nil
}

// token returns a bearer token, reusing the cached one while it lives.
// Two concurrent misses both hit the token endpoint; acceptable at this
// request volume.
func (c *HTTPClient) token(ctx context.Context) (string, error) {
	if cached, ok := c.cache.Get(tokenCacheKey); ok {
		if token, ok := cached.(string); ok {
			return token, nil
		}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("scope", c.cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrGatewayAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", apperrors.ErrGatewayAuth, resp.StatusCode)
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrGatewayAuth, err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token", apperrors.ErrGatewayAuth)
	}

	c.cache.Set(tokenCacheKey, payload.AccessToken, cache.TTLToken)

	return payload.AccessToken, nil
}
