// Package domain defines the shared types for the crisis screening pipeline.
package domain

import "time"

// Severity is the tier assigned to a crisis-indicative message.
type Severity string

const (
	// SeverityLow is a generic crisis phrase with no explicit method or intent.
	SeverityLow Severity = "low"
	// SeverityMedium covers self-harm and overdose phrasing.
	SeverityMedium Severity = "medium"
	// SeverityHigh covers explicit suicide or ending-life phrasing.
	SeverityHigh Severity = "high"
	// SeverityEscalating is a low-tier message following recent crisis messages.
	SeverityEscalating Severity = "escalating"
	// SeverityThirdParty marks concern for someone else rather than the speaker.
	SeverityThirdParty Severity = "third_party"
)

// ClassificationResult represents the outcome of screening one message.
// Computed fresh per message and never persisted.
type ClassificationResult struct {
	IsCrisis     bool     `json:"is_crisis"`
	Severity     Severity `json:"severity,omitempty"`
	IsThirdParty bool     `json:"is_third_party"`

	// MatchedPhrase is the lexicon phrase that triggered the result.
	// Used for telemetry and tests only; never shown to users.
	MatchedPhrase string `json:"matched_phrase,omitempty"`
}

// Message is one prior message from the conversation history.
// Only the text and author role matter to screening.
type Message struct {
	Text     string    `json:"text"`
	FromUser bool      `json:"from_user"`
	SentAt   time.Time `json:"sent_at"`
}

// Location is a caller's resolved region. Empty fields mean unknown.
// Re-resolved on every screening request; staleness is tolerated.
type Location struct {
	CountryCode  string `json:"country_code"`
	ProvinceCode string `json:"province_code,omitempty"`
	City         string `json:"city,omitempty"`
	IsOffline    bool   `json:"is_offline"`
}

// Resource is one crisis contact. Any field other than Name may be empty.
type Resource struct {
	Name             string `json:"name"`
	Phone            string `json:"phone,omitempty"`
	TextInstruction  string `json:"text_instruction,omitempty"`
	ChatURL          string `json:"chat_url,omitempty"`
	HoursDescription string `json:"hours_description,omitempty"`
	SiteURL          string `json:"site_url,omitempty"`
}

// ResourceSet is the tiered set of contacts selected for a location.
// Derived purely from Location via the static catalog; a value type with
// no identity of its own.
type ResourceSet struct {
	CountryCode string     `json:"country_code"`
	Primary     *Resource  `json:"primary,omitempty"`
	Specials    []Resource `json:"specials,omitempty"`
	Provincial  *Resource  `json:"provincial,omitempty"`
	Directory   *Resource  `json:"directory,omitempty"`
	IsOffline   bool       `json:"is_offline"`
}

// HasAnyContact reports whether the set carries at least one reachable tier.
func (s ResourceSet) HasAnyContact() bool {
	return s.Primary != nil || len(s.Specials) > 0 || s.Provincial != nil || s.Directory != nil
}
