// Package crisis decides whether a user message indicates self-harm risk
// and at what severity. Matching is lexical: an Aho-Corasick pass over
// versioned phrase tables, with negation and context suppression layered on
// top and a narrow set of force-override patterns that bypass both.
package crisis

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/companion-safety/internal/domain"
	"github.com/jonesrussell/companion-safety/internal/logger"
)

// Default number of recent user messages consulted for escalation.
const defaultRecentWindow = 5

// Config holds screener configuration.
type Config struct {
	// RecentWindow is how many of the user's most recent messages are
	// re-screened when deciding between low and escalating severity.
	RecentWindow int
}

// Screener classifies messages against the bundled bilingual lexicon.
// Safe for concurrent use; all state is built once at construction.
type Screener struct {
	matcher      *ahocorasick.Matcher
	phrases      []string
	tiers        []domain.Severity
	recentWindow int
	log          logger.Logger
}

// NewScreener builds the phrase matcher from the lexicon tables.
func NewScreener(log logger.Logger, cfg Config) *Screener {
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = defaultRecentWindow
	}

	phrases := make([]string, 0, len(highTierPhrases)+len(mediumTierPhrases)+len(lowTierPhrases))
	tiers := make([]domain.Severity, 0, cap(phrases))
	for _, p := range highTierPhrases {
		phrases = append(phrases, p)
		tiers = append(tiers, domain.SeverityHigh)
	}
	for _, p := range mediumTierPhrases {
		phrases = append(phrases, p)
		tiers = append(tiers, domain.SeverityMedium)
	}
	for _, p := range lowTierPhrases {
		phrases = append(phrases, p)
		tiers = append(tiers, domain.SeverityLow)
	}

	s := &Screener{
		matcher:      ahocorasick.NewStringMatcher(phrases),
		phrases:      phrases,
		tiers:        tiers,
		recentWindow: cfg.RecentWindow,
		log:          log,
	}

	if log != nil {
		log.Info("crisis screener initialized",
			logger.String("lexicon_version", LexiconVersion),
			logger.Int("phrases", len(phrases)))
	}

	return s
}

// Classify screens a single message. It never fails: unparseable or empty
// input yields a non-crisis result.
func (s *Screener) Classify(text string, recent []domain.Message) domain.ClassificationResult {
	result := s.classifyOnce(text)
	if !result.IsCrisis {
		return result
	}

	// A run of crisis messages upgrades a low-tier match to escalating.
	if result.Severity == domain.SeverityLow && s.recentlyInCrisis(recent) {
		result.Severity = domain.SeverityEscalating
	}

	return result
}

// classifyOnce runs the full pipeline except the escalation check, so it
// can also re-screen history without recursing into it.
func (s *Screener) classifyOnce(text string) domain.ClassificationResult {
	normalized := NormalizeMessage(text)
	if normalized == "" {
		return domain.ClassificationResult{}
	}

	// Force-override patterns win over every suppression layer.
	if phrase, ok := matchForceOverride(normalized); ok {
		return domain.ClassificationResult{
			IsCrisis:      true,
			Severity:      domain.SeverityHigh,
			MatchedPhrase: phrase,
		}
	}

	tier, phrase, ok := s.matchLexicon(normalized)
	if !ok {
		return domain.ClassificationResult{}
	}

	tokens := tokenize(normalized)

	if s.negated(normalized, tokens) {
		return domain.ClassificationResult{}
	}

	if hasContextMarker(normalized, tokens) {
		return domain.ClassificationResult{}
	}

	if indicator, third := matchThirdParty(normalized); third {
		return domain.ClassificationResult{
			IsCrisis:      true,
			Severity:      domain.SeverityThirdParty,
			IsThirdParty:  true,
			MatchedPhrase: indicator + " + " + phrase,
		}
	}

	return domain.ClassificationResult{
		IsCrisis:      true,
		Severity:      tier,
		MatchedPhrase: phrase,
	}
}

// matchLexicon finds the highest-tier phrase present in the text.
func (s *Screener) matchLexicon(normalized string) (domain.Severity, string, bool) {
	hits := s.matcher.Match([]byte(normalized))
	if len(hits) == 0 {
		return "", "", false
	}

	best := -1
	for _, hit := range hits {
		if hit >= len(s.tiers) {
			continue
		}
		if best == -1 || tierRank(s.tiers[hit]) > tierRank(s.tiers[best]) {
			best = hit
		}
	}
	if best == -1 {
		return "", "", false
	}

	return s.tiers[best], s.phrases[best], true
}

func tierRank(sev domain.Severity) int {
	switch sev {
	case domain.SeverityHigh:
		return 3
	case domain.SeverityMedium:
		return 2
	case domain.SeverityLow:
		return 1
	default:
		return 0
	}
}

// negated reports whether a crisis phrase sits inside the forward window of
// a negation token, or the message matches a fixed negation template.
func (s *Screener) negated(normalized string, tokens []string) bool {
	for _, re := range negationTemplates {
		if re.MatchString(normalized) {
			return true
		}
	}

	for i, tok := range tokens {
		if !negationTokens[tok] {
			continue
		}
		end := i + 1 + negationWindow
		if end > len(tokens) {
			end = len(tokens)
		}
		window := strings.Join(tokens[i+1:end], " ")
		if window == "" {
			continue
		}
		if len(s.matcher.Match([]byte(window))) > 0 {
			return true
		}
	}

	return false
}

// hasContextMarker reports hypothetical, academic, or media framing.
func hasContextMarker(normalized string, tokens []string) bool {
	for _, marker := range contextMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	for _, tok := range tokens {
		if contextMarkerTokens[tok] {
			return true
		}
	}
	return false
}

// IsForceOverride reports whether the raw message matches a force-override
// pattern. The guard uses this to decide bypass eligibility.
func IsForceOverride(text string) bool {
	_, ok := matchForceOverride(NormalizeMessage(text))
	return ok
}

// matchForceOverride checks the high-precision first-person patterns.
func matchForceOverride(normalized string) (string, bool) {
	for _, re := range forceOverridePatterns {
		if loc := re.FindString(normalized); loc != "" {
			return loc, true
		}
	}
	return "", false
}

// matchThirdParty checks for concern-for-other indicators.
func matchThirdParty(normalized string) (string, bool) {
	for _, indicator := range thirdPartyIndicators {
		if strings.Contains(normalized, indicator) {
			return indicator, true
		}
	}
	return "", false
}

// recentlyInCrisis re-screens the newest messages from the user, oldest
// last, and reports whether any was independently crisis-indicative.
func (s *Screener) recentlyInCrisis(recent []domain.Message) bool {
	checked := 0
	for i := len(recent) - 1; i >= 0 && checked < s.recentWindow; i-- {
		msg := recent[i]
		if !msg.FromUser {
			continue
		}
		checked++
		if s.classifyOnce(msg.Text).IsCrisis {
			return true
		}
	}
	return false
}
