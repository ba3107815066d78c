// Package eastmoney wraps the public fund-data endpoints: the full fund
// directory (a JS assignment statement) and the per-fund live NAV estimate
// (a jsonpgz envelope).
package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
)

// Client defines the interface for fetching fund data from the upstream
// source. This interface enables dependency injection and testing with
// mock implementations.
type Client interface {
	FetchDirectory(ctx context.Context) ([]model.DirectoryEntry, error)
	FetchNav(ctx context.Context, code string) (*NavSnapshot, error)
}

// FundClient provides methods for fetching fund data from the public
// eastmoney endpoints. It wraps an HTTP client and the two endpoint URLs.
type FundClient struct {
	directoryURL   string
	navURLTemplate string
	httpClient     *http.Client
}

// NewFundClient creates a new fund data client.
// navURLTemplate is a fmt template taking the fund code, e.g.
// "http://fundgz.1234567.com.cn/js/%s.js".
func NewFundClient(directoryURL, navURLTemplate string) *FundClient {
	return &FundClient{
		directoryURL:   directoryURL,
		navURLTemplate: navURLTemplate,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// directoryPattern matches the array literal in `var r = [...]`.
var directoryPattern = regexp.MustCompile(`var\s+r\s*=\s*(\[.*\])`)

// FetchDirectory fetches the full fund directory. The response body is a
// JavaScript assignment statement; the array literal is extracted and
// parsed as JSON. Each tuple is (code, shortName, fullName, type, pinyin).
//
// A payload that does not match the expected shape yields
// apperrors.ErrUpstreamParse. Callers must treat a failed fetch as
// "temporarily unavailable", not "zero funds exist".
func (c *FundClient) FetchDirectory(ctx context.Context) ([]model.DirectoryEntry, error) {
	body, err := c.get(ctx, c.directoryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fund directory: %w", err)
	}

	match := directoryPattern.FindSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("%w: directory payload is not a JS assignment", apperrors.ErrUpstreamParse)
	}

	var tuples [][]string
	if err := json.Unmarshal(match[1], &tuples); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamParse, err)
	}

	entries := make([]model.DirectoryEntry, 0, len(tuples))
	for _, t := range tuples {
		if len(t) < 5 {
			// Short tuples do occur in the wild; skip rather than fail
			// the whole directory.
			continue
		}
		entries = append(entries, model.DirectoryEntry{
			Code:      t[0],
			ShortName: t[1],
			Name:      t[2],
			Type:      t[3],
			Pinyin:    t[4],
		})
	}

	return entries, nil
}

// FetchNav fetches one fund's live NAV estimate. The response body is
// `jsonpgz({...})`; the JSON object between the outer call parens is
// extracted and parsed. Numeric fields that fail to parse yield 0 and set
// Incomplete instead of failing the call; upstream omits fields for
// suspended funds. EstimatedChange is always derived as gsz - dwjz.
//
// Network failures, non-2xx responses, and unparseable envelopes return an
// error; callers degrade that one fund to a zero-filled record.
func (c *FundClient) FetchNav(ctx context.Context, code string) (*NavSnapshot, error) {
	body, err := c.get(ctx, fmt.Sprintf(c.navURLTemplate, code))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nav for %s: %w", code, err)
	}

	raw := extractJSONP(string(body))
	if raw == "" {
		return nil, fmt.Errorf("%w: nav payload for %s is not a jsonpgz envelope", apperrors.ErrUpstreamParse, code)
	}

	var payload navPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamParse, err)
	}

	netWorth, okNet := parseDecimal(payload.Dwjz)
	expectWorth, okExpect := parseDecimal(payload.Gsz)
	expectGrowth, okGrowth := parseDecimal(payload.Gszzl)

	snapshot := &NavSnapshot{
		Code:            payload.FundCode,
		Name:            decodeName(payload.Name),
		NetWorth:        netWorth,
		NetWorthDate:    payload.Jzrq,
		ExpectWorth:     expectWorth,
		ExpectGrowth:    expectGrowth,
		ExpectWorthDate: payload.Gztime,
		Incomplete:      !okNet || !okExpect || !okGrowth,
	}
	snapshot.EstimatedChange, _ = decimal.NewFromFloat(expectWorth).
		Sub(decimal.NewFromFloat(netWorth)).Float64()

	return snapshot, nil
}

// extractJSONP returns the JSON object between the outer braces of a
// jsonpgz(...) envelope, or "" when no object is present.
func extractJSONP(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || start >= end {
		return ""
	}
	return raw[start : end+1]
}

// parseDecimal parses an upstream numeric string. Empty or malformed
// values yield (0, false) rather than an error.
func parseDecimal(s string) (float64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}

// decodeName percent-decodes a fund name, falling back to the raw string
// when the value is not valid URI encoding.
func decodeName(name string) string {
	decoded, err := url.QueryUnescape(name)
	if err != nil {
		return name
	}
	return decoded
}

// get executes a GET request and returns the body for 2xx responses.
// A browser User-Agent is required; the endpoints reject default Go clients.
func (c *FundClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
