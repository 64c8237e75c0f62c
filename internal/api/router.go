package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"offerlink/internal/observability"
)

func Router(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.Measure)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Resolution walks a redirect chain; give it room.
	r.Use(middleware.Timeout(30 * time.Second))

	r.Post("/v1/onboarding/complete", h.CompleteOnboarding)
	r.Post("/v1/consent/request", h.RequestConsent)
	r.Post("/v1/offer/resolve", h.ResolveOffer)
	r.Get("/v1/offer", h.GetOffer)
	r.Post("/v1/lifecycle", h.Lifecycle)
	r.Post("/v1/webview/close", h.CloseWebView)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.MetricsHandler())
	return r
}
