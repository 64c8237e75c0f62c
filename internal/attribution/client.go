package attribution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Bootstrapper is the one-shot attribution-SDK collaborator. The
// consent gate guarantees InitSession fires at most once per process,
// and only after the permission flow has resolved and persisted.
type Bootstrapper interface {
	InitSession(ctx context.Context, launchOptions map[string]string) error
}

// Client boots an attribution backend over HTTP.
type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

func (c *Client) InitSession(ctx context.Context, launchOptions map[string]string) error {
	if c.endpoint == "" {
		log.Debug().Msg("attribution endpoint not configured; skipping init")
		return nil
	}

	body, err := json.Marshal(map[string]any{"launch_options": launchOptions})
	if err != nil {
		return fmt.Errorf("encode init payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build init request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("attribution init: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("attribution init: status %d", resp.StatusCode)
	}

	log.Info().Msg("attribution session initialized")
	return nil
}
