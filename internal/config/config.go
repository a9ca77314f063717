package config

import (
	"time"
)

// Default configuration values.
const (
	defaultServiceName      = "companion-safety"
	defaultServiceVersion   = "1.0.0"
	defaultServicePort      = 8074
	defaultGeoEndpoint      = "http://ip-api.com/json"
	defaultGeoTimeout       = 2500 * time.Millisecond
	defaultGeoLookupsPerSec = 10
	defaultGeoLookupBurst   = 20
	defaultDefaultCountry   = "CA"
	defaultCooldownWindow   = 5 * time.Minute
	defaultSessionWindow    = time.Hour
	defaultMaxPerSession    = 3
	defaultMaxTrackedUsers  = 5000
	defaultSweepInterval    = 10 * time.Minute
	defaultRecentWindow     = 5
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultReadTimeoutSec   = 30
	defaultWriteTimeoutSec  = 60
)

// Config holds all configuration for the safety service.
type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	Geolocation GeolocationConfig `yaml:"geolocation"`
	Guard       GuardConfig       `yaml:"guard"`
	Screening   ScreeningConfig   `yaml:"screening"`
	Logging     LoggingConfig     `yaml:"logging"`
	Auth        AuthConfig        `yaml:"auth"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Port         int           `env:"SAFETY_PORT" yaml:"port"`
	Debug        bool          `env:"APP_DEBUG"   yaml:"debug"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// GeolocationConfig holds IP-geolocation lookup configuration.
type GeolocationConfig struct {
	Endpoint       string        `env:"GEO_ENDPOINT" yaml:"endpoint"`
	Timeout        time.Duration `yaml:"timeout"`
	DefaultCountry string        `yaml:"default_country"`
	LookupsPerSec  int           `yaml:"lookups_per_sec"`
	LookupBurst    int           `yaml:"lookup_burst"`
}

// GuardConfig holds cooldown and session quota configuration.
type GuardConfig struct {
	CooldownWindow  time.Duration `yaml:"cooldown_window"`
	SessionWindow   time.Duration `yaml:"session_window"`
	MaxPerSession   int           `yaml:"max_per_session"`
	MaxTrackedUsers int           `yaml:"max_tracked_users"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
}

// ScreeningConfig holds message screening settings.
type ScreeningConfig struct {
	// RecentWindow is how many recent user messages are consulted when
	// deciding whether a low-severity message is part of an escalating run.
	RecentWindow int `yaml:"recent_window"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret    string `env:"AUTH_JWT_SECRET"      yaml:"jwt_secret"`
	IdentitySalt string `env:"IDENTITY_HASH_SECRET" yaml:"identity_salt"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	setDefaults(cfg)

	// Re-apply env overrides after defaults (env always wins)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setGeolocationDefaults(&cfg.Geolocation)
	setGuardDefaults(&cfg.Guard)
	setScreeningDefaults(&cfg.Screening)
	setLoggingDefaults(&cfg.Logging)
	// Auth defaults are handled by env tags - no explicit defaults needed
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = defaultReadTimeoutSec * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = defaultWriteTimeoutSec * time.Second
	}
}

func setGeolocationDefaults(g *GeolocationConfig) {
	if g.Endpoint == "" {
		g.Endpoint = defaultGeoEndpoint
	}
	if g.Timeout == 0 {
		g.Timeout = defaultGeoTimeout
	}
	if g.DefaultCountry == "" {
		g.DefaultCountry = defaultDefaultCountry
	}
	if g.LookupsPerSec == 0 {
		g.LookupsPerSec = defaultGeoLookupsPerSec
	}
	if g.LookupBurst == 0 {
		g.LookupBurst = defaultGeoLookupBurst
	}
}

func setGuardDefaults(g *GuardConfig) {
	if g.CooldownWindow == 0 {
		g.CooldownWindow = defaultCooldownWindow
	}
	if g.SessionWindow == 0 {
		g.SessionWindow = defaultSessionWindow
	}
	if g.MaxPerSession == 0 {
		g.MaxPerSession = defaultMaxPerSession
	}
	if g.MaxTrackedUsers == 0 {
		g.MaxTrackedUsers = defaultMaxTrackedUsers
	}
	if g.SweepInterval == 0 {
		g.SweepInterval = defaultSweepInterval
	}
}

func setScreeningDefaults(s *ScreeningConfig) {
	if s.RecentWindow == 0 {
		s.RecentWindow = defaultRecentWindow
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}
