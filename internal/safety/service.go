// Package safety is the public entry point of the crisis screening
// pipeline. It sequences classification, location resolution, resource
// selection, admission, and composition, and converts every unexpected
// failure into a safe fallback response.
package safety

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/companion-safety/internal/composer"
	"github.com/jonesrussell/companion-safety/internal/crisis"
	"github.com/jonesrussell/companion-safety/internal/domain"
	"github.com/jonesrussell/companion-safety/internal/events"
	"github.com/jonesrussell/companion-safety/internal/guard"
	"github.com/jonesrussell/companion-safety/internal/logger"
	"github.com/jonesrussell/companion-safety/internal/resources"
	"github.com/jonesrussell/companion-safety/internal/telemetry"
)

// LocationResolver resolves the caller's region. It must always succeed.
type LocationResolver interface {
	Resolve(ctx context.Context) domain.Location
}

// IdentityHasher produces the stable non-reversible user token.
type IdentityHasher interface {
	Hash(userID string) string
}

// ScreenRequest is one message to screen.
type ScreenRequest struct {
	Text string `json:"text" binding:"required"`
	// UserID is the raw user identifier; only its hash is retained.
	UserID string `json:"user_id" binding:"required"`
	// SupporterName is the companion persona's display name.
	SupporterName string `json:"supporter_name,omitempty"`
	// Recent is the conversation history, oldest first.
	Recent []domain.Message `json:"recent,omitempty"`
}

// ScreenResponse carries the composed response. ResponseText is empty for
// non-crisis messages.
type ScreenResponse struct {
	ResponseText   string                      `json:"response_text,omitempty"`
	Classification domain.ClassificationResult `json:"classification"`
}

// Service orchestrates the screening pipeline.
type Service struct {
	screener  *crisis.Screener
	resolver  LocationResolver
	guard     *guard.Guard
	hasher    IdentityHasher
	emitter   events.Emitter
	telemetry *telemetry.Provider
	log       logger.Logger
	now       func() time.Time
}

// NewService wires the pipeline. The telemetry provider may be nil.
func NewService(
	log logger.Logger,
	screener *crisis.Screener,
	resolver LocationResolver,
	g *guard.Guard,
	hasher IdentityHasher,
	emitter events.Emitter,
	tp *telemetry.Provider,
) *Service {
	return &Service{
		screener:  screener,
		resolver:  resolver,
		guard:     g,
		hasher:    hasher,
		emitter:   emitter,
		telemetry: tp,
		log:       log,
		now:       time.Now,
	}
}

// WithClock replaces the time source for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// HandleMessage screens one user message. It never returns an error to the
// caller: any unexpected failure, including a panic anywhere in the
// pipeline, yields the hardcoded safe fallback response.
func (s *Service) HandleMessage(ctx context.Context, req ScreenRequest) (resp ScreenResponse) {
	start := s.now()

	var span trace.Span
	if s.telemetry != nil {
		ctx, span = s.telemetry.Tracer.Start(ctx, "safety.HandleMessage")
		defer span.End()
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("screening pipeline panicked",
				logger.Any("panic", r))
			s.emit(ctx, events.New(events.CrisisError, map[string]any{
				"phase": "pipeline",
				"kind":  fmt.Sprintf("panic: %v", r),
			}))
			resp = ScreenResponse{
				ResponseText: composer.SafeFallback(),
				Classification: domain.ClassificationResult{
					IsCrisis: true,
					Severity: domain.SeverityHigh,
				},
			}
		}
		if s.telemetry != nil {
			s.telemetry.RecordScreening(s.now().Sub(start))
		}
	}()

	result := s.screener.Classify(req.Text, req.Recent)
	if !result.IsCrisis {
		if s.telemetry != nil {
			s.telemetry.Metrics.NonCrisisScreened.Inc()
		}
		return ScreenResponse{Classification: result}
	}

	if span != nil {
		span.SetAttributes(
			attribute.String("severity", string(result.Severity)),
			attribute.Bool("third_party", result.IsThirdParty),
		)
	}

	geoStart := s.now()
	loc := s.resolver.Resolve(ctx)
	if s.telemetry != nil {
		s.telemetry.RecordGeoLookup(s.now().Sub(geoStart))
	}

	set := resources.For(loc)
	hashed := s.hasher.Hash(req.UserID)
	force := crisis.IsForceOverride(req.Text)

	admission := s.guard.Admit(hashed, force)
	s.publishGuardSizes()

	switch {
	case admission.LimitReached:
		if s.telemetry != nil {
			s.telemetry.Metrics.QuotaLimited.Inc()
		}
		s.log.Info("crisis response suppressed by session quota",
			logger.String("severity", string(result.Severity)))
		return ScreenResponse{
			ResponseText:   composer.LimitNotice(),
			Classification: result,
		}

	case !admission.Allowed:
		if s.telemetry != nil {
			s.telemetry.Metrics.CooldownSuppressed.Inc()
		}
		return ScreenResponse{
			ResponseText:   composer.WithCooldownSuffix(admission.CachedText),
			Classification: result,
		}
	}

	if admission.BypassConsumed && s.telemetry != nil {
		s.telemetry.Metrics.ForceBypasses.Inc()
	}

	text := composer.Compose(result, set, loc)
	if result.IsThirdParty {
		text = text + "\n\n" + pickFollowUp(req.UserID, s.now())
	}
	s.guard.Record(hashed, text)

	s.log.Info("crisis response composed",
		logger.String("severity", string(result.Severity)),
		logger.String("country", set.CountryCode),
		logger.String("supporter", req.SupporterName),
		logger.Bool("offline", loc.IsOffline))

	s.emitOutcome(ctx, result, set, loc)

	return ScreenResponse{
		ResponseText:   text,
		Classification: result,
	}
}

// emitOutcome publishes the telemetry events for an admitted response.
func (s *Service) emitOutcome(ctx context.Context, result domain.ClassificationResult, set domain.ResourceSet, loc domain.Location) {
	props := map[string]any{
		"severity":    string(result.Severity),
		"country":     set.CountryCode,
		"has_primary": set.Primary != nil,
	}

	s.emit(ctx, events.New(events.CrisisDetected, props))

	if result.IsThirdParty {
		s.emit(ctx, events.New(events.ThirdPartyDetected, props))
	}
	if loc.IsOffline {
		s.emit(ctx, events.New(events.CrisisFallback, map[string]any{
			"country": set.CountryCode,
		}))
	}
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.emitter != nil {
		s.emitter.Emit(ctx, event)
	}
}

func (s *Service) publishGuardSizes() {
	if s.telemetry == nil {
		return
	}
	cooldowns, sessions := s.guard.Stats()
	s.telemetry.SetGuardSizes(cooldowns, sessions)
}
