package offer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// RedirectResolver follows a URL through its redirect chain to the
// terminal, directly-loadable URL. It issues HEAD to avoid pulling
// response bodies and leans on the transport's own redirect bound
// (ten hops) rather than re-implementing loop detection.
type RedirectResolver struct {
	client *http.Client
}

func NewRedirectResolver(timeout time.Duration) *RedirectResolver {
	return &RedirectResolver{client: &http.Client{Timeout: timeout}}
}

func (r *RedirectResolver) ResolveFinal(ctx context.Context, start *url.URL) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, start.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build redirect request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolve redirects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FinalStatusError{Code: resp.StatusCode}
	}

	// The transport reports the terminal URL on the final request;
	// fall back to the start URL if it doesn't.
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL, nil
	}
	return start, nil
}
