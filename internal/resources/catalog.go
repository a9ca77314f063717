// Package resources maps resolved locations to crisis contacts. Selection
// is a pure function over static tables; nothing here touches the network.
package resources

import (
	"strings"

	"github.com/jonesrussell/companion-safety/internal/domain"
)

// countryEntry holds the national resources for one supported country.
type countryEntry struct {
	primary  domain.Resource
	specials []domain.Resource
}

// catalog lists the supported countries. Anything else falls back to the
// international directory below.
var catalog = map[string]countryEntry{
	"CA": {
		primary: domain.Resource{
			Name:             "988 Suicide Crisis Helpline",
			Phone:            "988",
			TextInstruction:  "Text 988",
			HoursDescription: "24/7, bilingual",
			SiteURL:          "https://988.ca",
		},
		specials: []domain.Resource{
			{
				Name:             "Kids Help Phone",
				Phone:            "1-800-668-6868",
				TextInstruction:  "Text CONNECT to 686868",
				HoursDescription: "24/7, ages 5-29",
				SiteURL:          "https://kidshelpphone.ca",
			},
			{
				Name:             "Hope for Wellness Helpline",
				Phone:            "1-855-242-3310",
				ChatURL:          "https://www.hopeforwellness.ca",
				HoursDescription: "24/7, for Indigenous peoples",
			},
		},
	},
	"US": {
		primary: domain.Resource{
			Name:             "988 Suicide & Crisis Lifeline",
			Phone:            "988",
			HoursDescription: "24/7",
			SiteURL:          "https://988lifeline.org",
		},
		specials: []domain.Resource{
			{
				Name:            "Crisis Text Line",
				TextInstruction: "Text HOME to 741741",
				SiteURL:         "https://www.crisistextline.org",
			},
		},
	},
	"GB": {
		primary: domain.Resource{
			Name:             "Samaritans",
			Phone:            "116 123",
			HoursDescription: "24/7",
			SiteURL:          "https://www.samaritans.org",
		},
		specials: []domain.Resource{
			{
				Name:            "Shout",
				TextInstruction: "Text SHOUT to 85258",
				SiteURL:         "https://giveusashout.org",
			},
		},
	},
	"AU": {
		primary: domain.Resource{
			Name:             "Lifeline Australia",
			Phone:            "13 11 14",
			HoursDescription: "24/7",
			SiteURL:          "https://www.lifeline.org.au",
		},
		specials: []domain.Resource{
			{
				Name:             "Kids Helpline",
				Phone:            "1800 55 1800",
				HoursDescription: "24/7, ages 5-25",
				SiteURL:          "https://kidshelpline.com.au",
			},
		},
	},
	"NZ": {
		primary: domain.Resource{
			Name:             "1737 Need to Talk?",
			Phone:            "1737",
			TextInstruction:  "Text 1737",
			HoursDescription: "24/7",
			SiteURL:          "https://1737.org.nz",
		},
	},
}

// provincialCA lists province-specific lines included alongside, never
// instead of, the national primary.
var provincialCA = map[string]domain.Resource{
	"ON": {
		Name:             "ONTX Ontario Online & Text Crisis Service",
		TextInstruction:  "Text SUPPORT to 258258",
		HoursDescription: "2pm-2am ET daily",
	},
	"QC": {
		Name:             "Suicide.ca (Quebec)",
		Phone:            "1-866-277-3553",
		ChatURL:          "https://suicide.ca",
		HoursDescription: "24/7, French and English",
	},
	"BC": {
		Name:             "Crisis Centre BC",
		Phone:            "1-800-784-2433",
		HoursDescription: "24/7",
		SiteURL:          "https://crisiscentre.bc.ca",
	},
	"AB": {
		Name:             "Distress Centre Calgary",
		Phone:            "403-266-4357",
		HoursDescription: "24/7",
		SiteURL:          "https://www.distresscentre.com",
	},
	"NS": {
		Name:             "Nova Scotia Provincial Crisis Line",
		Phone:            "1-888-429-8167",
		HoursDescription: "24/7",
	},
	"MB": {
		Name:             "Klinic Crisis Line (Manitoba)",
		Phone:            "1-888-322-3019",
		HoursDescription: "24/7",
	},
}

// internationalDirectory is the fallback for unsupported countries: a
// pointer to a helpline-finder service rather than a direct hotline.
var internationalDirectory = domain.Resource{
	Name:             "Find a Helpline",
	ChatURL:          "https://findahelpline.com",
	HoursDescription: "Directory of crisis lines by country",
}

// For selects the resource set for a location. Pure; never fails. The
// IsOffline flag is threaded through so the composer can warn that the
// selection may be generic.
func For(loc domain.Location) domain.ResourceSet {
	country := strings.ToUpper(strings.TrimSpace(loc.CountryCode))

	set := domain.ResourceSet{
		CountryCode: country,
		IsOffline:   loc.IsOffline,
	}

	entry, ok := catalog[country]
	if !ok {
		directory := internationalDirectory
		set.Directory = &directory
		return set
	}

	primary := entry.primary
	set.Primary = &primary
	set.Specials = append(set.Specials, entry.specials...)

	if country == "CA" {
		if provincial, ok := provincialCA[strings.ToUpper(loc.ProvinceCode)]; ok {
			set.Provincial = &provincial
		}
	}

	return set
}

// Supported reports whether a country has a dedicated entry.
func Supported(countryCode string) bool {
	_, ok := catalog[strings.ToUpper(strings.TrimSpace(countryCode))]
	return ok
}
