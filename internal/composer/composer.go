// Package composer assembles the user-facing crisis response from a
// classification and a resource set. Composition never fails; missing
// resource fields just produce fewer lines.
package composer

import (
	"strings"

	"github.com/jonesrussell/companion-safety/internal/domain"
)

// Fixed message fragments.
const (
	safetyHeader = "It sounds like you're going through something really difficult right now. " +
		"You don't have to face this alone - there are people ready to listen:"

	thirdPartyHeader = "It sounds like you're worried about someone you care about. " +
		"That matters, and there is support for both of you:"

	thirdPartyGuidance = "Supporting someone in crisis is hard. Stay with them if you can, " +
		"listen without judgment, and encourage them to reach out to one of the lines above. " +
		"You can also call any of these numbers yourself for advice on how to help."

	offlineWarning = "(I couldn't check your location, so some of these resources may not match your region.)"

	// CooldownSuffix is appended when a cached response is replayed
	// inside the cooldown window.
	CooldownSuffix = "I'm here if you need to talk more."

	// limitNotice replaces the full resource list once the session quota
	// is exhausted.
	limitNotice = "I've shared crisis resources a few times recently. " +
		"If you are in immediate danger, please contact your local emergency services directly, " +
		"or go to the nearest emergency department. I'm still here to listen."
)

// closings vary the final empathy line by severity tier.
var closings = map[domain.Severity]string{
	domain.SeverityHigh: "Please reach out to one of these right now - you deserve immediate support, " +
		"and there are people who want to help you through this moment.",
	domain.SeverityMedium: "Talking to someone about these feelings can really help. " +
		"You deserve care and support.",
	domain.SeverityLow: "Whatever you're carrying right now, you don't have to carry it alone. " +
		"These people are there whenever you're ready.",
	domain.SeverityEscalating: "I've noticed things have been heavy for a while. " +
		"Please consider reaching out to one of these today - it can make a real difference.",
}

// emergencyNumbers maps supported countries to their emergency dial code.
var emergencyNumbers = map[string]string{
	"CA": "911",
	"US": "911",
	"GB": "999",
	"AU": "000",
	"NZ": "111",
}

const genericEmergencyLine = "If you are in immediate danger, contact your local emergency services."

// Compose builds the full tiered response. The third-party path is
// entirely separate: resources plus guidance on supporting someone else,
// without the generic empathy closer.
func Compose(result domain.ClassificationResult, set domain.ResourceSet, loc domain.Location) string {
	var sections []string

	if loc.IsOffline {
		sections = append(sections, offlineWarning)
	}

	if result.IsThirdParty {
		sections = append(sections, thirdPartyHeader)
		if bullets := resourceBullets(set); bullets != "" {
			sections = append(sections, bullets)
		}
		sections = append(sections, emergencyLine(set.CountryCode))
		sections = append(sections, thirdPartyGuidance)
		return strings.Join(sections, "\n\n")
	}

	sections = append(sections, safetyHeader)
	if bullets := resourceBullets(set); bullets != "" {
		sections = append(sections, bullets)
	}
	sections = append(sections, emergencyLine(set.CountryCode))
	if closing, ok := closings[result.Severity]; ok {
		sections = append(sections, closing)
	}

	return strings.Join(sections, "\n\n")
}

// WithCooldownSuffix appends the continuation line to a replayed response.
func WithCooldownSuffix(cached string) string {
	if cached == "" {
		return CooldownSuffix
	}
	return cached + "\n\n" + CooldownSuffix
}

// LimitNotice is the short-circuit response for an exhausted session quota.
func LimitNotice() string {
	return limitNotice
}

// SafeFallback is the hardcoded, location-agnostic response used when the
// pipeline fails unexpectedly. A user in crisis must never see a raw error.
func SafeFallback() string {
	return strings.Join([]string{
		safetyHeader,
		"- 988 Suicide Crisis Helpline - call or text 988 (24/7)\n" +
			"- Find a Helpline - https://findahelpline.com (crisis lines by country)",
		genericEmergencyLine,
	}, "\n\n")
}

// resourceBullets renders tiers in priority order, skipping absent ones.
func resourceBullets(set domain.ResourceSet) string {
	var bullets []string

	if set.Primary != nil {
		bullets = append(bullets, bullet(*set.Primary))
	}
	for _, special := range set.Specials {
		bullets = append(bullets, bullet(special))
	}
	if set.Provincial != nil {
		bullets = append(bullets, bullet(*set.Provincial))
	}
	if set.Directory != nil {
		bullets = append(bullets, bullet(*set.Directory))
	}

	return strings.Join(bullets, "\n")
}

// bullet renders one resource line from whatever fields are present.
func bullet(r domain.Resource) string {
	parts := []string{"- " + r.Name}

	var details []string
	if r.Phone != "" {
		details = append(details, "call "+r.Phone)
	}
	if r.TextInstruction != "" {
		details = append(details, r.TextInstruction)
	}
	if r.ChatURL != "" {
		details = append(details, r.ChatURL)
	} else if r.SiteURL != "" {
		details = append(details, r.SiteURL)
	}
	if len(details) > 0 {
		parts = append(parts, "- "+strings.Join(details, ", "))
	}
	if r.HoursDescription != "" {
		parts = append(parts, "("+r.HoursDescription+")")
	}

	return strings.Join(parts, " ")
}

// emergencyLine selects the emergency-number footer by country.
func emergencyLine(countryCode string) string {
	if number, ok := emergencyNumbers[strings.ToUpper(countryCode)]; ok {
		return "If you are in immediate danger, call " + number + "."
	}
	return genericEmergencyLine
}
