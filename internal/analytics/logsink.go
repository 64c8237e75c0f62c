package analytics

import (
	"github.com/rs/zerolog/log"

	"offerlink/internal/observability"
)

// LogSink writes events to the process log. Default sink for dev.
type LogSink struct{}

func (LogSink) Capture(event string, props Properties) {
	observability.EventsEmitted.WithLabelValues(event).Inc()
	log.Info().Str("event", event).Fields(map[string]any(props)).Msg("analytics capture")
}

func (LogSink) Identify(distinctID string) {
	log.Info().Str("distinct_id", distinctID).Msg("analytics identify")
}
