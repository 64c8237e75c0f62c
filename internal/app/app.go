package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"offerlink/internal/analytics"
	"offerlink/internal/api"
	"offerlink/internal/attribution"
	"offerlink/internal/config"
	"offerlink/internal/consent"
	"offerlink/internal/identity"
	"offerlink/internal/offer"
	"offerlink/internal/session"
	"offerlink/internal/storage"
	"offerlink/internal/surface"
)

func Run(cfg config.Config) {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	var kv storage.KV
	switch cfg.Storage.Driver {
	case "postgres":
		pg, err := storage.NewPostgres(rootCtx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("init storage")
		}
		defer pg.Close()
		kv = pg
	default:
		kv = storage.NewMemory()
	}

	// Analytics
	var sink analytics.Sink
	if cfg.Analytics.Sink == "http" {
		httpSink := analytics.NewHTTPSink(cfg.Analytics.Endpoint, cfg.Analytics.APIKey, cfg.Analytics.BufferSize, cfg.HTTPTimeout())
		defer httpSink.Close()
		sink = httpSink
	} else {
		sink = analytics.LogSink{}
	}

	adSource := identity.StaticSource{ID: cfg.Identity.AdvertisingID}
	ids := identity.NewProvider(adSource, kv)

	// Identify with the stable vendor identifier at launch; the
	// advertising identifier only links up post-consent.
	if id, idType, err := ids.Resolve(rootCtx, false); err == nil && idType == identity.TypeIDFV {
		sink.Identify(id)
	}

	sessions := session.NewAccountant(sink)
	consentStore := consent.NewStore(kv)

	var surf surface.Surface
	if cfg.Surface.Endpoint != "" {
		surf = surface.NewWebhook(cfg.Surface.Endpoint, cfg.HTTPTimeout())
	} else {
		surf = surface.Disabled{}
	}

	coord := offer.NewCoordinator(offer.CoordinatorConfig{
		Fetcher:   offer.NewFetcher(cfg.Offer.APIBase, cfg.HTTPTimeout()),
		Redirects: offer.NewRedirectResolver(cfg.HTTPTimeout()),
		IDs:       ids,
		Consent:   consentStore,
		Sink:      sink,
		Surface:   surf,
		Sessions:  sessions,
		Platform:  cfg.Offer.Platform,
		AppID:     cfg.Offer.AppID,
	})

	gate := consent.NewGate(consent.GateConfig{
		Store:        consentStore,
		Prompter:     consent.NewStaticPrompter(consent.ParseStatus(cfg.Consent.PromptStatus)),
		AdSource:     adSource,
		Sink:         sink,
		Bootstrapper: attribution.NewClient(cfg.Attribution.Endpoint, cfg.HTTPTimeout()),
		ResolveOffer: func(ctx context.Context) {
			if _, err := coord.ResolveAndPresent(ctx); err != nil {
				log.Warn().Err(err).Msg("post-consent offer resolution failed")
			}
		},
		PromptDelay: cfg.PromptDelay(),
	})

	// HTTP
	h := api.NewHandler(gate, coord, sessions, kv)
	r := api.Router(h)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server crashed")
		}
	}()

	waitForSignal()
	log.Info().Msg("shutdown...")

	// Close out any open session so the final durations are emitted.
	sessions.EndAppSession()

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	cancel()
	_ = srv.Shutdown(shCtx)
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
