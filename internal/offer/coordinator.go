package offer

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"offerlink/internal/analytics"
	"offerlink/internal/cache"
	"offerlink/internal/consent"
	"offerlink/internal/identity"
	"offerlink/internal/observability"
	"offerlink/internal/session"
	"offerlink/internal/surface"
)

// ResolvedOffer is the redirect-terminated URL. Cached for the
// process lifetime after first success; there is no TTL or refetch.
type ResolvedOffer struct {
	URL        string    `json:"url"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Coordinator owns the Fetch -> Expand -> Resolve chain. At most one
// chain is in flight; concurrent callers share its outcome via
// singleflight, and a successful result short-circuits every later
// call.
type Coordinator struct {
	fetcher   *Fetcher
	redirects *RedirectResolver
	ids       *identity.Provider
	consent   *consent.Store
	sink      analytics.Sink
	surface   surface.Surface
	sessions  *session.Accountant

	platform string
	appID    string
	now      func() time.Time

	resolved cache.Snapshot[*ResolvedOffer]
	flight   singleflight.Group

	mu      sync.Mutex
	lastErr error
}

type CoordinatorConfig struct {
	Fetcher   *Fetcher
	Redirects *RedirectResolver
	IDs       *identity.Provider
	Consent   *consent.Store
	Sink      analytics.Sink
	Surface   surface.Surface
	Sessions  *session.Accountant
	Platform  string
	AppID     string
}

func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	return &Coordinator{
		fetcher:   cfg.Fetcher,
		redirects: cfg.Redirects,
		ids:       cfg.IDs,
		consent:   cfg.Consent,
		sink:      cfg.Sink,
		surface:   cfg.Surface,
		sessions:  cfg.Sessions,
		platform:  cfg.Platform,
		appID:     cfg.AppID,
		now:       time.Now,
	}
}

// Cached returns the resolved offer, if the chain has succeeded.
func (c *Coordinator) Cached() (*ResolvedOffer, bool) {
	return c.resolved.Load()
}

// Err returns the error from the most recent failed chain, cleared on
// success.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Resolve returns the cached offer or runs one resolution chain.
// Failures are terminal for the attempt; the next call starts over.
func (c *Coordinator) Resolve(ctx context.Context) (*ResolvedOffer, error) {
	if ro, ok := c.resolved.Load(); ok {
		return ro, nil
	}

	v, err, _ := c.flight.Do("offer", func() (any, error) {
		// A queued caller may arrive after the winning flight stored
		// its result.
		if ro, ok := c.resolved.Load(); ok {
			return ro, nil
		}

		ro, err := c.runChain(ctx)
		if err != nil {
			c.setErr(err)
			c.sink.Capture(analytics.EventOfferResolveFail, analytics.Properties{
				"error": err.Error(),
			})
			observability.OfferResolutions.WithLabelValues("fail").Inc()
			return nil, err
		}

		c.resolved.Store(ro)
		c.setErr(nil)
		c.sink.Capture(analytics.EventOfferResolveSuccess, analytics.Properties{
			"url": ro.URL,
		})
		observability.OfferResolutions.WithLabelValues("success").Inc()
		return ro, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ResolvedOffer), nil
}

// ResolveAndPresent resolves (or reuses the cache) and opens the
// browser surface. A missing surface is reported but does not fail
// the resolution; the offer stays cached.
func (c *Coordinator) ResolveAndPresent(ctx context.Context) (*ResolvedOffer, error) {
	if ro, ok := c.resolved.Load(); ok {
		c.present(ctx, ro, true)
		return ro, nil
	}

	ro, err := c.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	c.present(ctx, ro, false)
	return ro, nil
}

func (c *Coordinator) runChain(ctx context.Context) (*ResolvedOffer, error) {
	tpl, err := c.fetcher.FetchTemplate(ctx, c.platform, c.appID)
	if err != nil {
		return nil, err
	}

	status := c.consent.Current(ctx)
	id, idType, err := c.ids.Resolve(ctx, status == consent.StatusAuthorized)
	if err != nil {
		return nil, err
	}

	u, err := ExpandTemplate(tpl, ExpandParams{
		Identifier:     id,
		IdentifierType: idType,
		Platform:       c.platform,
		AppID:          c.appID,
	})
	if err != nil {
		return nil, err
	}

	final, err := c.redirects.ResolveFinal(ctx, u)
	if err != nil {
		return nil, err
	}

	return &ResolvedOffer{URL: final.String(), ResolvedAt: c.now()}, nil
}

func (c *Coordinator) present(ctx context.Context, ro *ResolvedOffer, fromCache bool) {
	if fromCache {
		c.sink.Capture(analytics.EventWebViewOpenedFromCache, analytics.Properties{
			"url": ro.URL,
		})
	}

	if err := c.surface.Present(ctx, ro.URL); err != nil {
		reason := "surface_error"
		if errors.Is(err, surface.ErrNoSurface) {
			reason = "no_display_surface"
		}
		c.sink.Capture(analytics.EventWebViewPresentationFailed, analytics.Properties{
			"reason": reason,
		})
		return
	}

	if !fromCache {
		c.sink.Capture(analytics.EventWebViewOpened, nil)
	}
	c.sessions.StartWebViewSession(ro.URL)
}

func (c *Coordinator) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
