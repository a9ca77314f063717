// internal/safety/service_test.go
//
//nolint:testpackage // Exercises the follow-up selection internals
package safety

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/companion-safety/internal/composer"
	"github.com/jonesrussell/companion-safety/internal/crisis"
	"github.com/jonesrussell/companion-safety/internal/domain"
	"github.com/jonesrussell/companion-safety/internal/events"
	"github.com/jonesrussell/companion-safety/internal/guard"
	"github.com/jonesrussell/companion-safety/internal/logger"
	"github.com/jonesrussell/companion-safety/internal/testhelpers"
)

type fixture struct {
	service  *Service
	resolver *testhelpers.StubResolver
	emitter  *testhelpers.RecordingEmitter
	clock    *testhelpers.FakeClock
}

func newFixture(t *testing.T, guardCfg guard.Config) *fixture {
	t.Helper()

	clock := testhelpers.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := logger.NewNop()

	resolver := &testhelpers.StubResolver{
		Location: domain.Location{CountryCode: "CA", ProvinceCode: "ON", City: "Toronto"},
	}
	emitter := &testhelpers.RecordingEmitter{}

	g := guard.New(log, guardCfg).WithClock(clock.Now)
	screener := crisis.NewScreener(log, crisis.Config{})

	service := NewService(log, screener, resolver, g, testhelpers.StaticHasher{}, emitter, nil).
		WithClock(clock.Now)

	return &fixture{service: service, resolver: resolver, emitter: emitter, clock: clock}
}

func screen(f *fixture, text string) ScreenResponse {
	return f.service.HandleMessage(context.Background(), ScreenRequest{
		Text:   text,
		UserID: "user-42",
	})
}

func TestService_CrisisProducesFullResponse(t *testing.T) {
	f := newFixture(t, guard.Config{})

	resp := screen(f, "I want to die")

	require.True(t, resp.Classification.IsCrisis)
	assert.Equal(t, domain.SeverityHigh, resp.Classification.Severity)
	assert.Contains(t, resp.ResponseText, "988 Suicide Crisis Helpline")
	assert.Contains(t, resp.ResponseText, "ONTX")
	assert.Contains(t, resp.ResponseText, "call 911")

	assert.True(t, f.emitter.Has(events.CrisisDetected))
	assert.False(t, f.emitter.Has(events.CrisisFallback))
	assert.Equal(t, 1, f.resolver.CallCount())
}

func TestService_NonCrisisStaysSilent(t *testing.T) {
	f := newFixture(t, guard.Config{})

	resp := screen(f, "lovely weather today")

	assert.False(t, resp.Classification.IsCrisis)
	assert.Empty(t, resp.ResponseText)
	assert.Empty(t, f.emitter.Events)
	assert.Zero(t, f.resolver.CallCount(), "non-crisis messages skip geolocation")
}

func TestService_CooldownReplaysWithSuffix(t *testing.T) {
	f := newFixture(t, guard.Config{CooldownWindow: 5 * time.Minute})

	first := screen(f, "I want to die")
	require.NotEmpty(t, first.ResponseText)

	f.clock.Advance(5 * time.Second)
	second := screen(f, "I want to die")

	assert.Equal(t, first.ResponseText+"\n\n"+composer.CooldownSuffix, second.ResponseText)

	// The replay is not a new detection.
	detected := 0
	for _, name := range f.emitter.Names() {
		if name == events.CrisisDetected {
			detected++
		}
	}
	assert.Equal(t, 1, detected)
}

func TestService_SessionQuotaLimitNotice(t *testing.T) {
	f := newFixture(t, guard.Config{
		CooldownWindow: time.Minute,
		SessionWindow:  time.Hour,
		MaxPerSession:  3,
	})

	for i := 0; i < 3; i++ {
		resp := screen(f, "I want to die")
		require.Contains(t, resp.ResponseText, "988", "admission %d", i+1)
		f.clock.Advance(2 * time.Minute)
	}

	limited := screen(f, "I want to die")
	assert.Equal(t, composer.LimitNotice(), limited.ResponseText)
	assert.True(t, limited.Classification.IsCrisis, "classification is reported even when limited")
}

func TestService_ForceOverrideBypassesCooldownOnce(t *testing.T) {
	f := newFixture(t, guard.Config{
		CooldownWindow: 5 * time.Minute,
		MaxPerSession:  10,
	})

	first := screen(f, "I want to die")
	require.NotEmpty(t, first.ResponseText)

	f.clock.Advance(time.Minute)
	bypass := screen(f, "I will kill myself")
	assert.NotContains(t, bypass.ResponseText, composer.CooldownSuffix,
		"imminent-intent wording must get a fresh response")
	assert.Contains(t, bypass.ResponseText, "988 Suicide Crisis Helpline")

	// The bypass is single use inside one cooldown period.
	f.clock.Advance(time.Minute)
	again := screen(f, "I will kill myself")
	assert.Contains(t, again.ResponseText, composer.CooldownSuffix)
}

func TestService_OfflineFallbackResources(t *testing.T) {
	f := newFixture(t, guard.Config{})
	f.resolver.Location = domain.Location{CountryCode: "CA", IsOffline: true}

	resp := screen(f, "I want to die")

	assert.Contains(t, resp.ResponseText, "couldn't check your location")
	assert.Contains(t, resp.ResponseText, "988 Suicide Crisis Helpline")
	assert.True(t, f.emitter.Has(events.CrisisFallback))
}

func TestService_ThirdPartyPath(t *testing.T) {
	f := newFixture(t, guard.Config{})

	resp := screen(f, "my friend is suicidal and I don't know what to do")

	require.True(t, resp.Classification.IsThirdParty)
	assert.Equal(t, domain.SeverityThirdParty, resp.Classification.Severity)
	assert.Contains(t, resp.ResponseText, "worried about someone")
	assert.True(t, f.emitter.Has(events.ThirdPartyDetected))
	assert.True(t, f.emitter.Has(events.CrisisDetected))

	// Exactly one follow-up prompt is appended, chosen deterministically.
	found := ""
	for _, prompt := range followUpPrompts {
		if strings.Contains(resp.ResponseText, prompt) {
			found = prompt
			break
		}
	}
	require.NotEmpty(t, found, "third-party response must end with a follow-up prompt")
	assert.True(t, strings.HasSuffix(resp.ResponseText, found))
}

func TestService_PanicYieldsSafeFallback(t *testing.T) {
	f := newFixture(t, guard.Config{})
	service := NewService(
		logger.NewNop(),
		crisis.NewScreener(logger.NewNop(), crisis.Config{}),
		panickingResolver{},
		guard.New(logger.NewNop(), guard.Config{}),
		testhelpers.StaticHasher{},
		f.emitter,
		nil,
	)

	resp := service.HandleMessage(context.Background(), ScreenRequest{
		Text:   "I want to die",
		UserID: "user-42",
	})

	assert.Equal(t, composer.SafeFallback(), resp.ResponseText)
	assert.True(t, resp.Classification.IsCrisis)
	assert.Equal(t, domain.SeverityHigh, resp.Classification.Severity)
	assert.True(t, f.emitter.Has(events.CrisisError))
}

func TestService_EventProperties(t *testing.T) {
	f := newFixture(t, guard.Config{})

	screen(f, "I want to die")

	require.Len(t, f.emitter.Events, 1)
	event := f.emitter.Events[0]
	assert.Equal(t, events.CrisisDetected, event.Name)
	assert.Equal(t, string(domain.SeverityHigh), event.Properties["severity"])
	assert.Equal(t, "CA", event.Properties["country"])
	assert.Equal(t, true, event.Properties["has_primary"])
	assert.NotZero(t, event.EventID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestPickFollowUp_Deterministic(t *testing.T) {
	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	first := pickFollowUp("user-42", day)
	assert.Equal(t, first, pickFollowUp("user-42", day.Add(3*time.Hour)),
		"same user and day selects the same prompt")
	assert.Contains(t, followUpPrompts, first)
}

// panickingResolver simulates an unexpected downstream failure.
type panickingResolver struct{}

func (panickingResolver) Resolve(context.Context) domain.Location {
	panic("resolver exploded")
}
