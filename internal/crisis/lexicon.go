// internal/crisis/lexicon.go
package crisis

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LexiconVersion identifies the phrase tables below. Bump when the tables
// change so telemetry can distinguish rule generations.
const LexiconVersion = "2025-06"

// Phrase tiers. Entries are stored in normalized form (lowercase, accents
// folded, apostrophes removed) so they match the output of NormalizeMessage.
// English and French are both bundled; French entries are written without
// accents because normalization strips them.

// highTierPhrases map to SeverityHigh: explicit suicide or ending-life intent.
var highTierPhrases = []string{
	"kill myself",
	"killing myself",
	"end my life",
	"ending my life",
	"end it all",
	"take my own life",
	"want to die",
	"wanna die",
	"wish i was dead",
	"wish i were dead",
	"better off dead",
	"suicidal",
	"commit suicide",
	"suicide",
	// French
	"me suicider",
	"me tuer",
	"mettre fin a ma vie",
	"mettre fin a mes jours",
	"veux mourir",
	"envie de mourir",
	"suicidaire",
}

// mediumTierPhrases map to SeverityMedium: self-harm and overdose phrasing.
var mediumTierPhrases = []string{
	"hurt myself",
	"hurting myself",
	"harm myself",
	"harming myself",
	"cut myself",
	"cutting myself",
	"self harm",
	"overdose",
	"overdosing",
	// French
	"me faire du mal",
	"me mutiler",
	"me blesser",
	"surdose",
	"automutilation",
}

// lowTierPhrases map to SeverityLow, or SeverityEscalating when recent
// messages from the same user were also crisis-indicative.
var lowTierPhrases = []string{
	"no reason to live",
	"nothing to live for",
	"cant go on",
	"cant do this anymore",
	"give up on life",
	"tired of living",
	"whats the point of living",
	"life is pointless",
	"dont want to be here anymore",
	// French
	"plus de raison de vivre",
	"jen peux plus",
	"a quoi bon vivre",
	"fatigue de vivre",
	"je veux disparaitre",
}

// negationTokens suppress a crisis phrase found within the next
// negationWindow tokens. Apostrophes are already stripped by normalization,
// so "don't" appears here as "dont".
var negationTokens = map[string]bool{
	"not":      true,
	"never":    true,
	"dont":     true,
	"wont":     true,
	"wouldnt":  true,
	"isnt":     true,
	"no":       true,
	// French
	"pas":    true,
	"jamais": true,
	"aucune": true,
}

// negationWindow is how many tokens after a negation token are inspected
// for a crisis phrase.
const negationWindow = 6

// negationTemplates are fixed sentence shapes that always read as
// non-crisis. Matched against normalized text.
var negationTemplates = []*regexp.Regexp{
	regexp.MustCompile(`\bi( a)?m not (feeling )?suicidal\b`),
	regexp.MustCompile(`\bi am not going to (kill|hurt) myself\b`),
	regexp.MustCompile(`\bi would never (kill|hurt) myself\b`),
	regexp.MustCompile(`\bi dont want to (die|kill myself)\b`),
	regexp.MustCompile(`\bje ne suis pas suicidaire\b`),
	regexp.MustCompile(`\bje ne veux pas (mourir|me tuer|me suicider)\b`),
}

// contextMarkers downgrade a lexical match to non-crisis when the message
// reads as hypothetical, academic, or about media/history. Deliberately
// coarse: token or substring presence, no syntax.
var contextMarkers = []string{
	"research",
	"documentary",
	"movie",
	"film",
	"book",
	"article",
	"essay",
	"homework",
	"school project",
	"history",
	"historical",
	"statistics",
	"hypothetically",
	"used to",
	"song",
	"lyrics",
	"news story",
	// French
	"recherche",
	"documentaire",
	"autrefois",
	"statistiques",
}

// contextMarkerTokens are single words checked at token level so short
// markers don't fire inside longer words.
var contextMarkerTokens = map[string]bool{
	"if": true,
	"si": true,
}

// forceOverridePatterns are narrow first-person declarations of imminent
// self-harm. A match always yields SeverityHigh and bypasses negation and
// context suppression. Precise phrase shapes, not bare risk words, to keep
// false positives down. Matched against normalized text (no apostrophes).
var forceOverridePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(i will|i am going to|im going to|i am about to|im about to) kill myself\b`),
	regexp.MustCompile(`\b(i am|im) gonna kill myself\b`),
	regexp.MustCompile(`\b(i will|i am going to|im going to|i am about to|im about to) end (it all|my life)\b`),
	regexp.MustCompile(`\b(i am|im) gonna end (it all|my life)\b`),
	regexp.MustCompile(`\btonight i (die|end it|end it all)\b`),
	regexp.MustCompile(`\bthis is goodbye forever\b`),
	// French
	regexp.MustCompile(`\bje vais me tuer\b`),
	regexp.MustCompile(`\bje vais me suicider\b`),
	regexp.MustCompile(`\bje vais en finir\b`),
}

// thirdPartyIndicators signal concern for someone else rather than the
// speaker. Checked only when a crisis phrase is present.
var thirdPartyIndicators = []string{
	"my friend",
	"my best friend",
	"my sister",
	"my brother",
	"my mom",
	"my mother",
	"my dad",
	"my father",
	"my son",
	"my daughter",
	"my partner",
	"my roommate",
	"my family",
	"someone i know",
	"a friend of mine",
	// French
	"mon ami",
	"mon amie",
	"ma soeur",
	"mon frere",
	"ma mere",
	"mon pere",
	"quelquun que je connais",
}

// foldAccents strips combining marks so accented and unaccented French
// spellings normalize to the same form.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeMessage lowercases, folds accents, drops apostrophes, and
// collapses remaining punctuation to single spaces.
func NormalizeMessage(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}

	if folded, _, err := transform.String(foldAccents, text); err == nil {
		text = folded
	}

	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range text {
		switch {
		case r == '\'' || r == '’':
			// "don't" -> "dont", "j'en" -> "jen"
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// tokenize splits normalized text into words.
func tokenize(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
