package events

import (
	"context"

	"github.com/jonesrussell/companion-safety/internal/logger"
	"github.com/jonesrussell/companion-safety/internal/telemetry"
)

// LogSink logs each event and bumps the matching Prometheus counter.
// This is the default sink; a product analytics forwarder can replace it
// behind the Emitter interface.
type LogSink struct {
	log       logger.Logger
	telemetry *telemetry.Provider
}

// NewLogSink creates the default sink. The telemetry provider may be nil.
func NewLogSink(log logger.Logger, tp *telemetry.Provider) *LogSink {
	return &LogSink{log: log, telemetry: tp}
}

// Emit records the event. Never fails the caller.
func (s *LogSink) Emit(_ context.Context, event Event) {
	fields := []logger.Field{
		logger.String("event_id", event.EventID.String()),
		logger.String("event", string(event.Name)),
	}
	for key, val := range event.Properties {
		fields = append(fields, logger.Any(key, val))
	}
	s.log.Info("pipeline event", fields...)

	if s.telemetry == nil {
		return
	}

	severity, _ := event.Properties["severity"].(string)
	country, _ := event.Properties["country"].(string)

	switch event.Name {
	case CrisisDetected:
		s.telemetry.Metrics.CrisisDetected.WithLabelValues(severity, country).Inc()
	case CrisisFallback:
		s.telemetry.Metrics.CrisisFallbacks.Inc()
	case CrisisError:
		phase, _ := event.Properties["phase"].(string)
		s.telemetry.Metrics.CrisisErrors.WithLabelValues(phase).Inc()
	case ThirdPartyDetected:
		s.telemetry.Metrics.ThirdPartyDetected.Inc()
	}
}
