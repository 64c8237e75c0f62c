package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"offerlink/internal/observability"
)

type envelope struct {
	APIKey     string     `json:"api_key"`
	Event      string     `json:"event"`
	DistinctID string     `json:"distinct_id,omitempty"`
	Properties Properties `json:"properties,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// HTTPSink ships events to a capture endpoint from a background
// goroutine. Delivery is best-effort: a full buffer drops the event
// rather than stalling the pipeline.
type HTTPSink struct {
	endpoint string
	apiKey   string
	client   *http.Client

	mu         sync.Mutex
	distinctID string

	ch   chan envelope
	done chan struct{}
}

func NewHTTPSink(endpoint, apiKey string, bufferSize int, timeout time.Duration) *HTTPSink {
	s := &HTTPSink{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		ch:       make(chan envelope, bufferSize),
		done:     make(chan struct{}),
	}
	go s.dispatch()
	return s
}

func (s *HTTPSink) Capture(event string, props Properties) {
	observability.EventsEmitted.WithLabelValues(event).Inc()
	s.enqueue(envelope{
		APIKey:     s.apiKey,
		Event:      event,
		DistinctID: s.currentDistinctID(),
		Properties: props,
		Timestamp:  time.Now().UTC(),
	})
}

func (s *HTTPSink) Identify(distinctID string) {
	s.mu.Lock()
	s.distinctID = distinctID
	s.mu.Unlock()
	s.enqueue(envelope{
		APIKey:     s.apiKey,
		Event:      "$identify",
		DistinctID: distinctID,
		Timestamp:  time.Now().UTC(),
	})
}

// Close flushes queued events and stops the dispatcher.
func (s *HTTPSink) Close() {
	close(s.ch)
	<-s.done
}

func (s *HTTPSink) currentDistinctID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distinctID
}

func (s *HTTPSink) enqueue(ev envelope) {
	select {
	case s.ch <- ev:
	default:
		log.Warn().Str("event", ev.Event).Msg("analytics buffer full; dropping event")
	}
}

func (s *HTTPSink) dispatch() {
	defer close(s.done)
	for ev := range s.ch {
		s.post(ev)
	}
}

func (s *HTTPSink) post(ev envelope) {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event", ev.Event).Msg("encode analytics event")
		return
	}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.endpoint+"/capture", bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("build analytics request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("event", ev.Event).Msg("deliver analytics event")
		return
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("event", ev.Event).Msg("analytics endpoint rejected event")
	}
}
