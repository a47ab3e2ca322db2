package branding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/balazs-web/smoky-fish-sub000/pkg/logger"
)

// HTTPClient reads the site display name from the branding collaborator.
// The name only decorates notification templates, so the client caches it and
// falls back to a configured default instead of ever failing a checkout
type HTTPClient struct {
	baseURL  string
	fallback string
	client   *http.Client
	cacheTTL time.Duration

	mu        sync.Mutex
	cached    string
	fetchedAt time.Time
}

func NewHTTPClient(baseURL, fallback string, timeout, cacheTTL time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:  baseURL,
		fallback: fallback,
		client:   &http.Client{Timeout: timeout},
		cacheTTL: cacheTTL,
	}
}

// SiteName returns the branded site name, the cached value within its TTL,
// or the fallback when the collaborator is unreachable
func (c *HTTPClient) SiteName(ctx context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != "" && time.Since(c.fetchedAt) < c.cacheTTL {
		return c.cached
	}

	name, err := c.fetch(ctx)
	if err != nil {
		logger.GetOrCreateLoggerFromCtx(ctx).Warn(ctx, "couldn't fetch site branding, using fallback",
			zap.Error(err))
		if c.cached != "" {
			return c.cached
		}
		return c.fallback
	}

	c.cached = name
	c.fetchedAt = time.Now()
	return name
}

func (c *HTTPClient) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/branding", nil)
	if err != nil {
		return "", fmt.Errorf("couldn't build branding request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling branding: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("branding returned status %d", resp.StatusCode)
	}

	var dto struct {
		SiteName string `json:"siteName"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return "", fmt.Errorf("error decoding branding response: %w", err)
	}
	if dto.SiteName == "" {
		return "", fmt.Errorf("branding returned an empty site name")
	}

	return dto.SiteName, nil
}
