// internal/geo/provinces.go
package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// provinceNames maps full region names, as geolocation providers return
// them, to two-letter codes. English and French spellings are both listed;
// lookups fold accents first so either accented or plain forms match.
var provinceNames = map[string]string{
	// Canada
	"ontario":                   "ON",
	"quebec":                    "QC",
	"british columbia":          "BC",
	"colombie britannique":      "BC",
	"alberta":                   "AB",
	"manitoba":                  "MB",
	"saskatchewan":              "SK",
	"nova scotia":               "NS",
	"nouvelle ecosse":           "NS",
	"new brunswick":             "NB",
	"nouveau brunswick":         "NB",
	"newfoundland":              "NL",
	"newfoundland and labrador": "NL",
	"terre neuve et labrador":   "NL",
	"prince edward island":      "PE",
	"ile du prince edouard":     "PE",
	"northwest territories":     "NT",
	"territoires du nord ouest": "NT",
	"yukon":                     "YT",
	"nunavut":                   "NU",
}

var foldRegion = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeRegionName lowercases, folds accents, and collapses punctuation
// so provider spellings like "Québec" or "Terre-Neuve-et-Labrador" hit the
// table above.
func normalizeRegionName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if folded, _, err := transform.String(foldRegion, name); err == nil {
		name = folded
	}

	var b strings.Builder
	b.Grow(len(name))
	lastSpace := true
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeProvince maps a provider's region code or name to a two-letter
// province code. Exact two-letter codes pass through uppercased; a "CC-XX"
// composite has its country prefix stripped; full names go through the
// lookup table. Anything unrecognized yields the empty string.
func NormalizeProvince(countryCode, region, regionName string) string {
	region = strings.TrimSpace(region)

	if len(region) == 2 {
		return strings.ToUpper(region)
	}

	// ISO 3166-2 composite like "CA-ON".
	if len(region) == 5 && region[2] == '-' {
		prefix := strings.ToUpper(region[:2])
		if prefix == strings.ToUpper(countryCode) || countryCode == "" {
			return strings.ToUpper(region[3:])
		}
	}

	if code, ok := provinceNames[normalizeRegionName(region)]; ok {
		return code
	}
	if code, ok := provinceNames[normalizeRegionName(regionName)]; ok {
		return code
	}

	return ""
}
