package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offerlink/internal/analytics"
	"offerlink/internal/consent"
	"offerlink/internal/identity"
	"offerlink/internal/offer"
	"offerlink/internal/session"
	"offerlink/internal/storage"
	"offerlink/internal/surface"
)

type nopSink struct {
	mu     sync.Mutex
	events []string
}

func (s *nopSink) Capture(event string, _ analytics.Properties) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *nopSink) Identify(string) {}

func newTestHandler(t *testing.T, offerStatus int) (*Handler, storage.KV, string) {
	t.Helper()

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/final", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(target.Close)

	offerAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if offerStatus != http.StatusOK {
			w.WriteHeader(offerStatus)
			return
		}
		fmt.Fprintf(w, `{"url":"%s/start?u={t1}"}`, target.URL)
	}))
	t.Cleanup(offerAPI.Close)

	kv := storage.NewMemory()
	sink := &nopSink{}
	sessions := session.NewAccountant(sink)
	store := consent.NewStore(kv)

	coord := offer.NewCoordinator(offer.CoordinatorConfig{
		Fetcher:   offer.NewFetcher(offerAPI.URL, time.Second),
		Redirects: offer.NewRedirectResolver(time.Second),
		IDs:       identity.NewProvider(identity.StaticSource{}, kv),
		Consent:   store,
		Sink:      sink,
		Surface:   surface.Disabled{},
		Sessions:  sessions,
		Platform:  "ios",
		AppID:     "com.app.test",
	})

	gate := consent.NewGate(consent.GateConfig{
		Store:        store,
		Prompter:     consent.NewStaticPrompter(consent.StatusDenied),
		AdSource:     identity.StaticSource{},
		Sink:         sink,
		ResolveOffer: func(context.Context) {},
		PromptDelay:  time.Millisecond,
	})

	return NewHandler(gate, coord, sessions, kv), kv, target.URL + "/final"
}

func TestHandler_Lifecycle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"foreground", `{"phase":"foreground"}`, http.StatusNoContent},
		{"background", `{"phase":"background"}`, http.StatusNoContent},
		{"unknown phase", `{"phase":"sideways"}`, http.StatusBadRequest},
		{"garbage body", `{{{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := newTestHandler(t, http.StatusOK)

			req := httptest.NewRequest(http.MethodPost, "/v1/lifecycle", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.Lifecycle(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandler_ResolveOffer(t *testing.T) {
	h, _, finalURL := newTestHandler(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/v1/offer/resolve", nil)
	w := httptest.NewRecorder()
	h.ResolveOffer(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var ro offer.ResolvedOffer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ro))
	assert.Equal(t, finalURL, ro.URL)
	assert.False(t, ro.ResolvedAt.IsZero())
}

func TestHandler_ResolveOfferFailure(t *testing.T) {
	h, _, _ := newTestHandler(t, http.StatusNotFound)

	req := httptest.NewRequest(http.MethodPost, "/v1/offer/resolve", nil)
	w := httptest.NewRecorder()
	h.ResolveOffer(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandler_GetOffer(t *testing.T) {
	h, _, _ := newTestHandler(t, http.StatusOK)

	w := httptest.NewRecorder()
	h.GetOffer(w, httptest.NewRequest(http.MethodGet, "/v1/offer", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "nothing cached before first resolve")

	h.ResolveOffer(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/offer/resolve", nil))

	w = httptest.NewRecorder()
	h.GetOffer(w, httptest.NewRequest(http.MethodGet, "/v1/offer", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_CompleteOnboarding(t *testing.T) {
	h, kv, _ := newTestHandler(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/v1/onboarding/complete", nil)
	w := httptest.NewRecorder()
	h.CompleteOnboarding(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	done, err := kv.GetBool(context.Background(), storage.KeyOnboardingComplete)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestRouter_Healthz(t *testing.T) {
	h, _, _ := newTestHandler(t, http.StatusOK)

	ts := httptest.NewServer(Router(h))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_CloseWebView(t *testing.T) {
	h, _, _ := newTestHandler(t, http.StatusOK)

	w := httptest.NewRecorder()
	h.CloseWebView(w, httptest.NewRequest(http.MethodPost, "/v1/webview/close", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
