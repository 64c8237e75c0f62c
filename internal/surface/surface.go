package surface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNoSurface reports that no display surface is attached; the
// caller treats it as a presentation problem, not a resolution one.
var ErrNoSurface = errors.New("no display surface available")

// Surface presents a resolved offer URL in a full-screen browser.
type Surface interface {
	Present(ctx context.Context, url string) error
}

// Webhook pushes resolved URLs to a companion device endpoint that
// owns the actual in-app browser.
type Webhook struct {
	endpoint string
	client   *http.Client
}

func NewWebhook(endpoint string, timeout time.Duration) *Webhook {
	return &Webhook{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

func (w *Webhook) Present(ctx context.Context, url string) error {
	if w.endpoint == "" {
		return ErrNoSurface
	}

	body, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return fmt.Errorf("encode present payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build present request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("present offer: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("present offer: status %d", resp.StatusCode)
	}
	return nil
}

// Disabled always reports that no surface is attached.
type Disabled struct{}

func (Disabled) Present(context.Context, string) error { return ErrNoSurface }
