// Package external proxies the third-party product catalog.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopline/shop-api/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// CatalogClient fetches the upstream catalog document as raw JSON.
type CatalogClient struct {
	url    string
	client *http.Client
}

func NewCatalogClient(url string, timeout time.Duration) *CatalogClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CatalogClient{url: url, client: &http.Client{Timeout: timeout}}
}

// Fetch GETs the configured URL. Transport failures, non-2xx responses and
// bodies that are not JSON are reported as domain.ErrUpstream.
func (c *CatalogClient) Fetch(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrUpstream, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", domain.ErrUpstream)
	}
	return json.RawMessage(body), nil
}
