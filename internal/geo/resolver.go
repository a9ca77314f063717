// Package geo resolves a caller's country and province from a single
// IP-geolocation lookup, degrading to a default country whenever the
// network cannot be consulted. Resolution never fails from the caller's
// point of view.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/companion-safety/internal/domain"
	"github.com/jonesrussell/companion-safety/internal/logger"
)

// Default lookup settings.
const (
	defaultTimeout       = 2500 * time.Millisecond
	defaultCountry       = "CA"
	defaultLookupsPerSec = 10
	defaultLookupBurst   = 20
	probeAddress         = "1.1.1.1:53"
	probeTimeout         = 500 * time.Millisecond
)

// Config holds resolver configuration.
type Config struct {
	// Endpoint is the IP-geolocation URL, queried with a single GET.
	Endpoint string
	// Timeout bounds the one network call. No retries are made.
	Timeout time.Duration
	// DefaultCountry is returned whenever resolution degrades.
	DefaultCountry string
	// LookupsPerSec and LookupBurst cap outbound lookups. A denied token
	// degrades to the offline default rather than queueing.
	LookupsPerSec int
	LookupBurst   int
}

// lookupResponse is the provider's JSON shape (ip-api.com compatible).
type lookupResponse struct {
	Status      string `json:"status"`
	CountryCode string `json:"countryCode"`
	Region      string `json:"region"`
	RegionName  string `json:"regionName"`
	City        string `json:"city"`
}

// Resolver performs at most one geolocation lookup per Resolve call.
type Resolver struct {
	endpoint       string
	defaultCountry string
	client         *http.Client
	limiter        *rate.Limiter
	online         func() bool
	log            logger.Logger
}

// NewResolver creates a resolver with the given configuration.
func NewResolver(log logger.Logger, cfg Config) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.DefaultCountry == "" {
		cfg.DefaultCountry = defaultCountry
	}
	if cfg.LookupsPerSec <= 0 {
		cfg.LookupsPerSec = defaultLookupsPerSec
	}
	if cfg.LookupBurst <= 0 {
		cfg.LookupBurst = defaultLookupBurst
	}

	return &Resolver{
		endpoint:       cfg.Endpoint,
		defaultCountry: cfg.DefaultCountry,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.LookupsPerSec), cfg.LookupBurst),
		online:         probeConnectivity,
		log:            log,
	}
}

// WithHTTPClient replaces the HTTP client. Used by tests and by callers
// that need custom transports.
func (r *Resolver) WithHTTPClient(client *http.Client) *Resolver {
	r.client = client
	return r
}

// WithConnectivityProbe replaces the connectivity check.
func (r *Resolver) WithConnectivityProbe(online func() bool) *Resolver {
	r.online = online
	return r
}

// offlineDefault is the degraded result used on every failure path.
func (r *Resolver) offlineDefault() domain.Location {
	return domain.Location{CountryCode: r.defaultCountry, IsOffline: true}
}

// Resolve determines the caller's location. It always succeeds: timeouts,
// non-2xx responses, and decode failures all degrade to the default
// country with IsOffline set.
func (r *Resolver) Resolve(ctx context.Context) domain.Location {
	if !r.online() {
		return r.offlineDefault()
	}

	if !r.limiter.Allow() {
		r.log.Warn("geolocation lookup rate limited, using offline default")
		return r.offlineDefault()
	}

	loc, err := r.lookup(ctx)
	if err != nil {
		r.log.Warn("geolocation lookup failed, using offline default", logger.Error(err))
		return r.offlineDefault()
	}

	return loc
}

// lookup performs the single bounded network call.
func (r *Resolver) lookup(ctx context.Context) (domain.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("build geolocation request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("geolocation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.Location{}, fmt.Errorf("geolocation provider returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Location{}, fmt.Errorf("decode geolocation response: %w", err)
	}
	if body.Status != "" && body.Status != "success" {
		return domain.Location{}, fmt.Errorf("geolocation provider status %q", body.Status)
	}
	if body.CountryCode == "" {
		return domain.Location{}, fmt.Errorf("geolocation response missing country")
	}

	return domain.Location{
		CountryCode:  body.CountryCode,
		ProvinceCode: NormalizeProvince(body.CountryCode, body.Region, body.RegionName),
		City:         body.City,
	}, nil
}

// probeConnectivity checks for a usable network path without issuing an
// HTTP request. A failed dial means offline.
func probeConnectivity() bool {
	conn, err := net.DialTimeout("udp", probeAddress, probeTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
