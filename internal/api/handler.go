package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"offerlink/internal/consent"
	"offerlink/internal/offer"
	"offerlink/internal/session"
	"offerlink/internal/storage"
)

// Handler exposes the pipeline over HTTP, mirroring the lifecycle
// callbacks a device would deliver.
type Handler struct {
	gate     *consent.Gate
	coord    *offer.Coordinator
	sessions *session.Accountant
	kv       storage.KV
}

func NewHandler(gate *consent.Gate, coord *offer.Coordinator, sessions *session.Accountant, kv storage.KV) *Handler {
	return &Handler{gate: gate, coord: coord, sessions: sessions, kv: kv}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// CompleteOnboarding persists the flag and kicks the consent flow,
// detached the way the mobile onboarding screen does.
func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := h.kv.SetBool(r.Context(), storage.KeyOnboardingComplete, true); err != nil {
		log.Error().Err(err).Msg("persist onboarding flag")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "persist failed"})
		return
	}

	go h.gate.RequestPermission(context.Background())

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// RequestConsent runs the permission flow synchronously and reports
// the outcome.
func (h *Handler) RequestConsent(w http.ResponseWriter, r *http.Request) {
	status := h.gate.RequestPermission(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// ResolveOffer runs (or reuses) the resolution chain and presents the
// result.
func (h *Handler) ResolveOffer(w http.ResponseWriter, r *http.Request) {
	ro, err := h.coord.ResolveAndPresent(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ro)
}

// GetOffer returns the cached resolution without triggering one.
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	if ro, ok := h.coord.Cached(); ok {
		writeJSON(w, http.StatusOK, ro)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

// Lifecycle maps device foreground/background transitions onto the
// session accountant.
func (h *Handler) Lifecycle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phase string `json:"phase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	switch strings.ToLower(req.Phase) {
	case "foreground":
		h.sessions.StartAppSession()
	case "background":
		h.sessions.EndAppSession()
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown phase"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CloseWebView reports that the browser surface was dismissed.
func (h *Handler) CloseWebView(w http.ResponseWriter, r *http.Request) {
	h.sessions.EndWebViewSession()
	w.WriteHeader(http.StatusNoContent)
}
