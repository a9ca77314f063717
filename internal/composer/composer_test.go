// internal/composer/composer_test.go
//
//nolint:testpackage // Asserts on unexported fragment constants
package composer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/companion-safety/internal/domain"
	"github.com/jonesrussell/companion-safety/internal/resources"
)

func caLocation() domain.Location {
	return domain.Location{CountryCode: "CA", ProvinceCode: "ON"}
}

func TestCompose_FullResponse(t *testing.T) {
	loc := caLocation()
	set := resources.For(loc)
	result := domain.ClassificationResult{IsCrisis: true, Severity: domain.SeverityHigh}

	text := Compose(result, set, loc)

	assert.True(t, strings.HasPrefix(text, safetyHeader))
	assert.Contains(t, text, "988 Suicide Crisis Helpline")
	assert.Contains(t, text, "Kids Help Phone")
	assert.Contains(t, text, "ONTX")
	assert.Contains(t, text, "call 911")
	assert.Contains(t, text, closings[domain.SeverityHigh])

	// Priority order: primary before specials before provincial.
	primaryAt := strings.Index(text, "988 Suicide Crisis Helpline")
	specialAt := strings.Index(text, "Kids Help Phone")
	provincialAt := strings.Index(text, "ONTX")
	assert.Less(t, primaryAt, specialAt)
	assert.Less(t, specialAt, provincialAt)
}

func TestCompose_ClosingVariesBySeverity(t *testing.T) {
	loc := caLocation()
	set := resources.For(loc)

	seen := map[string]bool{}
	for _, sev := range []domain.Severity{
		domain.SeverityLow,
		domain.SeverityMedium,
		domain.SeverityHigh,
		domain.SeverityEscalating,
	} {
		text := Compose(domain.ClassificationResult{IsCrisis: true, Severity: sev}, set, loc)
		assert.Contains(t, text, closings[sev])
		seen[closings[sev]] = true
	}
	assert.Len(t, seen, 4, "each tier should have a distinct closing")
}

func TestCompose_EmergencyNumberByCountry(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{country: "CA", want: "call 911"},
		{country: "GB", want: "call 999"},
		{country: "AU", want: "call 000"},
		{country: "NZ", want: "call 111"},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			loc := domain.Location{CountryCode: tt.country}
			text := Compose(domain.ClassificationResult{IsCrisis: true, Severity: domain.SeverityHigh}, resources.For(loc), loc)
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestCompose_UnsupportedCountry(t *testing.T) {
	loc := domain.Location{CountryCode: "DE"}
	text := Compose(domain.ClassificationResult{IsCrisis: true, Severity: domain.SeverityMedium}, resources.For(loc), loc)

	assert.Contains(t, text, "Find a Helpline")
	assert.Contains(t, text, genericEmergencyLine)
	assert.NotContains(t, text, "call 911")
}

func TestCompose_OfflineWarningLeads(t *testing.T) {
	loc := domain.Location{CountryCode: "CA", IsOffline: true}
	text := Compose(domain.ClassificationResult{IsCrisis: true, Severity: domain.SeverityHigh}, resources.For(loc), loc)

	assert.True(t, strings.HasPrefix(text, offlineWarning))
	assert.Contains(t, text, "988 Suicide Crisis Helpline")
}

func TestCompose_ThirdParty(t *testing.T) {
	loc := caLocation()
	result := domain.ClassificationResult{
		IsCrisis:     true,
		Severity:     domain.SeverityThirdParty,
		IsThirdParty: true,
	}

	text := Compose(result, resources.For(loc), loc)

	assert.True(t, strings.HasPrefix(text, thirdPartyHeader))
	assert.Contains(t, text, thirdPartyGuidance)
	assert.Contains(t, text, "988 Suicide Crisis Helpline")
	assert.NotContains(t, text, safetyHeader)
	for _, closing := range closings {
		assert.NotContains(t, text, closing)
	}
}

func TestWithCooldownSuffix(t *testing.T) {
	assert.Equal(t, "cached body\n\n"+CooldownSuffix, WithCooldownSuffix("cached body"))

	// A reservation admitted before its text was recorded replays empty.
	assert.Equal(t, CooldownSuffix, WithCooldownSuffix(""))
}

func TestLimitNotice(t *testing.T) {
	text := LimitNotice()

	assert.Contains(t, text, "emergency")
	assert.NotContains(t, text, "988", "limit notice must not repeat the resource list")
}

func TestSafeFallback(t *testing.T) {
	text := SafeFallback()

	assert.Contains(t, text, "988")
	assert.Contains(t, text, "findahelpline.com")
	assert.Contains(t, text, genericEmergencyLine)
}

func TestBullet_FieldDegradation(t *testing.T) {
	tests := []struct {
		name     string
		resource domain.Resource
		want     string
	}{
		{
			name: "all fields",
			resource: domain.Resource{
				Name:             "Line",
				Phone:            "988",
				TextInstruction:  "Text 988",
				SiteURL:          "https://example.org",
				HoursDescription: "24/7",
			},
			want: "- Line - call 988, Text 988, https://example.org (24/7)",
		},
		{
			name:     "phone only",
			resource: domain.Resource{Name: "Line", Phone: "988"},
			want:     "- Line - call 988",
		},
		{
			name:     "chat url preferred over site url",
			resource: domain.Resource{Name: "Line", ChatURL: "https://chat.example.org", SiteURL: "https://example.org"},
			want:     "- Line - https://chat.example.org",
		},
		{
			name:     "name only",
			resource: domain.Resource{Name: "Line"},
			want:     "- Line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bullet(tt.resource))
		})
	}
}

func TestCompose_EmptyResourceSetStillSpeaks(t *testing.T) {
	loc := domain.Location{CountryCode: "DE"}
	set := domain.ResourceSet{CountryCode: "DE"}

	text := Compose(domain.ClassificationResult{IsCrisis: true, Severity: domain.SeverityHigh}, set, loc)

	require.NotEmpty(t, text)
	assert.Contains(t, text, safetyHeader)
	assert.Contains(t, text, genericEmergencyLine)
}
