package offer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Template is a raw offer URL that may still contain placeholder
// tokens. It must never be parsed as a URL before expansion; the
// tokens would not survive a strict parser.
type Template string

// Fetcher retrieves the templated offer URL for an app. No retries
// here; the caller owns retry policy.
type Fetcher struct {
	base   string
	client *http.Client
}

func NewFetcher(base string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

func (f *Fetcher) FetchTemplate(ctx context.Context, platform, appID string) (Template, error) {
	endpoint := fmt.Sprintf("%s/api/v1/offers/%s/%s", f.base, url.PathEscape(platform), url.PathEscape(appID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build offer request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch offer: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &APIStatusError{Code: resp.StatusCode}
	}

	var dto struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil || dto.URL == "" {
		return "", ErrDecodeFailed
	}
	return Template(dto.URL), nil
}
