package consent

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"offerlink/internal/analytics"
	"offerlink/internal/attribution"
	"offerlink/internal/identity"
	"offerlink/internal/observability"
)

// Gate runs the one-shot tracking-permission flow: prompt, persist
// the outcome, bootstrap attribution once, then unblock offer
// resolution. Denial still unblocks resolution; the coordinator just
// resolves with the fallback identifier.
type Gate struct {
	store    *Store
	prompter Prompter
	adSource identity.Source
	sink     analytics.Sink
	boot     attribution.Bootstrapper

	// resolveOffer decouples the gate from the coordinator; it is
	// invoked only after the result is persisted.
	resolveOffer func(ctx context.Context)

	promptDelay time.Duration

	mu       sync.Mutex
	bootOnce sync.Once
}

type GateConfig struct {
	Store        *Store
	Prompter     Prompter
	AdSource     identity.Source
	Sink         analytics.Sink
	Bootstrapper attribution.Bootstrapper
	ResolveOffer func(ctx context.Context)
	PromptDelay  time.Duration
}

func NewGate(cfg GateConfig) *Gate {
	return &Gate{
		store:        cfg.Store,
		prompter:     cfg.Prompter,
		adSource:     cfg.AdSource,
		sink:         cfg.Sink,
		boot:         cfg.Bootstrapper,
		resolveOffer: cfg.ResolveOffer,
		promptDelay:  cfg.PromptDelay,
	}
}

// RequestPermission drives the prompt flow to completion and returns
// the resulting status. Safe to call repeatedly; an already-determined
// OS status resolves immediately and the dialog is not shown again.
func (g *Gate) RequestPermission(ctx context.Context) Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	current := g.prompter.Status(ctx)
	alreadyDetermined := current.Determined()

	g.sink.Capture(analytics.EventRequestTrackingPermission, analytics.Properties{
		"already_determined": alreadyDetermined,
		"current_status":     string(current),
	})

	// Short pause so the prompt never races an in-flight screen
	// transition on the device side.
	if g.promptDelay > 0 {
		t := time.NewTimer(g.promptDelay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return g.store.Current(ctx)
		}
	}

	result := g.prompter.Request(ctx)

	g.sink.Capture(analytics.EventRequestTrackingPermissionResult, analytics.Properties{
		"result":       string(result),
		"dialog_shown": !alreadyDetermined,
	})
	observability.ConsentResults.WithLabelValues(string(result)).Inc()

	if result == StatusAuthorized {
		if id, err := g.adSource.AdvertisingID(ctx); err == nil && id != "" && id != identity.ZeroAdvertisingID {
			g.sink.Identify(id)
		}
	}

	if err := g.store.Set(ctx, result); err != nil {
		log.Error().Err(err).Msg("persist consent result")
	}

	// Attribution init must observe a settled consent value; install
	// matching degrades when it runs before the identifier is known.
	g.bootOnce.Do(func() {
		if g.boot == nil {
			return
		}
		if err := g.boot.InitSession(ctx, map[string]string{"consent": string(result)}); err != nil {
			log.Error().Err(err).Msg("attribution bootstrap")
		}
	})

	if g.resolveOffer != nil {
		g.resolveOffer(ctx)
	}

	return result
}
