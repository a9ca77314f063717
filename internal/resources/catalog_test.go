// internal/resources/catalog_test.go
//
//nolint:testpackage // Asserts against the package tables directly
package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/companion-safety/internal/domain"
)

func TestFor_CanadaWithProvince(t *testing.T) {
	set := For(domain.Location{CountryCode: "CA", ProvinceCode: "ON"})

	require.NotNil(t, set.Primary)
	assert.Equal(t, "988 Suicide Crisis Helpline", set.Primary.Name)
	assert.Equal(t, "988", set.Primary.Phone)

	require.Len(t, set.Specials, 2)
	assert.Equal(t, "Kids Help Phone", set.Specials[0].Name)
	assert.Equal(t, "Hope for Wellness Helpline", set.Specials[1].Name)

	require.NotNil(t, set.Provincial)
	assert.Contains(t, set.Provincial.Name, "ONTX")

	assert.Nil(t, set.Directory)
	assert.True(t, set.HasAnyContact())
}

func TestFor_CanadaWithoutProvince(t *testing.T) {
	set := For(domain.Location{CountryCode: "CA"})

	require.NotNil(t, set.Primary)
	assert.Nil(t, set.Provincial)
}

func TestFor_ProvinceOutsideCanadaIgnored(t *testing.T) {
	// A US location with a province code that happens to collide with a
	// Canadian table key never picks up Canadian provincial lines.
	set := For(domain.Location{CountryCode: "US", ProvinceCode: "ON"})

	require.NotNil(t, set.Primary)
	assert.Equal(t, "988 Suicide & Crisis Lifeline", set.Primary.Name)
	assert.Nil(t, set.Provincial)
}

func TestFor_SupportedCountries(t *testing.T) {
	tests := []struct {
		country     string
		wantPrimary string
	}{
		{country: "US", wantPrimary: "988 Suicide & Crisis Lifeline"},
		{country: "GB", wantPrimary: "Samaritans"},
		{country: "AU", wantPrimary: "Lifeline Australia"},
		{country: "NZ", wantPrimary: "1737 Need to Talk?"},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			set := For(domain.Location{CountryCode: tt.country})
			require.NotNil(t, set.Primary)
			assert.Equal(t, tt.wantPrimary, set.Primary.Name)
			assert.Nil(t, set.Directory)
		})
	}
}

func TestFor_UnsupportedCountryFallsBackToDirectory(t *testing.T) {
	set := For(domain.Location{CountryCode: "DE"})

	assert.Nil(t, set.Primary)
	assert.Empty(t, set.Specials)
	require.NotNil(t, set.Directory)
	assert.Equal(t, "Find a Helpline", set.Directory.Name)
	assert.True(t, set.HasAnyContact())
}

func TestFor_NormalizesCountryCode(t *testing.T) {
	set := For(domain.Location{CountryCode: " ca "})

	assert.Equal(t, "CA", set.CountryCode)
	require.NotNil(t, set.Primary)
}

func TestFor_ThreadsOfflineFlag(t *testing.T) {
	set := For(domain.Location{CountryCode: "CA", IsOffline: true})
	assert.True(t, set.IsOffline)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("CA"))
	assert.True(t, Supported("nz"))
	assert.False(t, Supported("DE"))
	assert.False(t, Supported(""))
}

func TestCatalog_EveryEntryDialable(t *testing.T) {
	for country, entry := range catalog {
		assert.NotEmpty(t, entry.primary.Name, "country %s", country)
		if entry.primary.Phone == "" && entry.primary.TextInstruction == "" && entry.primary.ChatURL == "" {
			t.Errorf("country %s primary has no contact method", country)
		}
	}
	for province, resource := range provincialCA {
		if resource.Phone == "" && resource.TextInstruction == "" && resource.ChatURL == "" {
			t.Errorf("province %s resource has no contact method", province)
		}
	}
}
