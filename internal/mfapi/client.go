// Package mfapi is a thin client for the public AMFI mutual fund quote
// API (api.mfapi.in): scheme metadata, NAV history and scheme search.
package mfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	quoteCacheTTL  = 1 * time.Hour
	navCacheTTL    = 6 * time.Hour
	searchCacheTTL = 12 * time.Hour
)

// NAVPoint is one day of NAV history. The API reports both fields as
// strings ("17-01-2025", "45.1230").
type NAVPoint struct {
	Date string `json:"date"`
	NAV  string `json:"nav"`
}

type SchemeMeta struct {
	FundHouse      string `json:"fund_house"`
	SchemeType     string `json:"scheme_type"`
	SchemeCategory string `json:"scheme_category"`
	SchemeCode     int    `json:"scheme_code"`
	SchemeName     string `json:"scheme_name"`
}

// SchemeHistory is the full /mf/{code} response: metadata plus the NAV
// series, newest first.
type SchemeHistory struct {
	Meta   SchemeMeta `json:"meta"`
	Data   []NAVPoint `json:"data"`
	Status string     `json:"status"`
}

// SchemeMatch is one /mf/search result.
type SchemeMatch struct {
	SchemeCode int    `json:"schemeCode"`
	SchemeName string `json:"schemeName"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *redis.Client // nil disables caching
}

func NewClient(baseURL string, cache *redis.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache,
	}
}

// SchemeQuote fetches the latest NAV and metadata for a scheme code.
func (c *Client) SchemeQuote(ctx context.Context, schemeCode string) (*SchemeHistory, error) {
	var quote SchemeHistory
	key := "mfapi:quote:" + schemeCode
	if err := c.getJSON(ctx, fmt.Sprintf("%s/mf/%s/latest", c.baseURL, url.PathEscape(schemeCode)), key, quoteCacheTTL, &quote); err != nil {
		return nil, err
	}
	if quote.Status != "SUCCESS" || quote.Meta.SchemeName == "" {
		return nil, fmt.Errorf("scheme %s not found", schemeCode)
	}
	return &quote, nil
}

// SchemeHistory fetches the full NAV history for a scheme code.
func (c *Client) SchemeHistory(ctx context.Context, schemeCode string) (*SchemeHistory, error) {
	var history SchemeHistory
	key := "mfapi:history:" + schemeCode
	if err := c.getJSON(ctx, fmt.Sprintf("%s/mf/%s", c.baseURL, url.PathEscape(schemeCode)), key, navCacheTTL, &history); err != nil {
		return nil, err
	}
	if len(history.Data) == 0 {
		return nil, fmt.Errorf("no NAV history for scheme %s", schemeCode)
	}
	return &history, nil
}

// SearchSchemes returns up to limit schemes whose names match the query.
func (c *Client) SearchSchemes(ctx context.Context, query string, limit int) ([]SchemeMatch, error) {
	var matches []SchemeMatch
	key := "mfapi:search:" + query
	endpoint := fmt.Sprintf("%s/mf/search?q=%s", c.baseURL, url.QueryEscape(query))
	if err := c.getJSON(ctx, endpoint, key, searchCacheTTL, &matches); err != nil {
		return nil, err
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// getJSON fetches endpoint into dest, going through the Redis cache
// when one is configured. Cache failures fall back to a live fetch.
func (c *Client) getJSON(ctx context.Context, endpoint, cacheKey string, ttl time.Duration, dest any) error {
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			if json.Unmarshal(cached, dest) == nil {
				return nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mfapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mfapi returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read mfapi response: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode mfapi response: %w", err)
	}

	if c.cache != nil {
		c.cache.Set(ctx, cacheKey, body, ttl)
	}

	return nil
}
