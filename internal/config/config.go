// Package config loads the service settings from the environment. Every
// variable has a default; values that are set but malformed are errors, not
// silently replaced, and Load reports all problems at once.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type CORSConfig struct {
	AllowedOrigins []string // CORS_ALLOWED_ORIGINS, comma separated; empty allows any origin
}

type SecurityConfig struct {
	EnableHSTS bool          // ENABLE_HSTS
	HSTSMaxAge time.Duration // HSTS_MAX_AGE
}

// AuthConfig signs and verifies bearer tokens.
type AuthConfig struct {
	JWTSecret string        // JWT_SECRET, required
	TokenTTL  time.Duration // JWT_TTL
}

// MailConfig is the outbound SMTP relay. An empty Host selects the log-only
// sender used in local development.
type MailConfig struct {
	Host     string // SMTP_HOST
	Port     int    // SMTP_PORT
	Username string // SMTP_USERNAME
	Password string // SMTP_PASSWORD
	From     string // MAIL_FROM
}

// PlacesConfig points the directory client at Google Places.
type PlacesConfig struct {
	APIKey  string        // GOOGLE_PLACES_API_KEY; lookups fail with 503 when empty
	BaseURL string        // PLACES_BASE_URL
	Timeout time.Duration // PLACES_TIMEOUT
}

// OutreachConfig tunes review request dispatch.
type OutreachConfig struct {
	ReviewBaseURL   string // REVIEW_BASE_URL; generic review links are <base>/review/<id>
	BulkConcurrency int    // BULK_SEND_CONCURRENCY; 1 sends in request order
	BulkMaxIDs      int    // BULK_SEND_MAX_IDS
}

// OTELConfig drives trace export.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT, host:port of the collector
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	Environment string  // DEPLOY_ENV, recorded on every span
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG
}

// Config is the full set of service settings.
type Config struct {
	Port              string        // PORT
	ReadTimeout       time.Duration // READ_TIMEOUT
	ReadHeaderTimeout time.Duration // READ_HEADER_TIMEOUT
	WriteTimeout      time.Duration // WRITE_TIMEOUT
	IdleTimeout       time.Duration // IDLE_TIMEOUT
	MaxHeaderBytes    int           // MAX_HEADER_BYTES
	GinMode           string        // GIN_MODE; unknown values fall back to release

	LogLevel       string // LOG_LEVEL; "warning" is accepted for warn
	LogPretty      bool   // LOG_PRETTY, console output for development
	LogRedact      bool   // LOG_REDACT, scrub emails, phones and ids from access logs
	SwaggerEnabled bool   // SWAGGER_ENABLED
	APIBasePath    string // API_BASE_PATH, normalized to a leading and no trailing slash

	DBDriver    string // DB_DRIVER: sqlite or postgres
	DBPath      string // DB_PATH, SQLite file
	DatabaseURL string // DATABASE_URL, Postgres DSN

	Auth     AuthConfig
	Mail     MailConfig
	Places   PlacesConfig
	Outreach OutreachConfig

	// RateRPS and RateBurst apply per account on authenticated routes,
	// AuthRateRPS and AuthRateBurst per client IP on login and registration.
	RateRPS       float64 // RATE_RPS
	RateBurst     int     // RATE_BURST
	AuthRateRPS   float64 // AUTH_RATE_RPS
	AuthRateBurst int     // AUTH_RATE_BURST

	CORS     CORSConfig
	Security SecurityConfig

	IdempotencyTTL time.Duration // IDEMPOTENCY_TTL, how long a stored send result replays

	OTEL OTELConfig
}

// MustLoad is Load for main: it panics on any error.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the environment, fills in defaults and validates the result.
// The returned error joins every malformed or invalid setting.
func Load() (Config, error) {
	e := &env{}
	cfg := Config{
		Port:              e.str("PORT", "8080"),
		ReadTimeout:       e.duration("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: e.duration("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      e.duration("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       e.duration("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    e.integer("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(e.str("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(e.str("LOG_LEVEL", "info")),
		LogPretty:      e.flag("LOG_PRETTY", false),
		LogRedact:      e.flag("LOG_REDACT", true),
		SwaggerEnabled: e.flag("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(e.str("API_BASE_PATH", "/api/v1")),

		DBDriver:    strings.ToLower(e.str("DB_DRIVER", "sqlite")),
		DBPath:      e.str("DB_PATH", "app.db"),
		DatabaseURL: e.str("DATABASE_URL", ""),

		Auth: AuthConfig{
			JWTSecret: e.str("JWT_SECRET", ""),
			TokenTTL:  e.duration("JWT_TTL", 24*time.Hour),
		},
		Mail: MailConfig{
			Host:     e.str("SMTP_HOST", ""),
			Port:     e.integer("SMTP_PORT", 587),
			Username: e.str("SMTP_USERNAME", ""),
			Password: e.str("SMTP_PASSWORD", ""),
			From:     e.str("MAIL_FROM", "noreply@bonrate.pro"),
		},
		Places: PlacesConfig{
			APIKey:  e.str("GOOGLE_PLACES_API_KEY", ""),
			BaseURL: strings.TrimRight(e.str("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"), "/"),
			Timeout: e.duration("PLACES_TIMEOUT", 10*time.Second),
		},
		Outreach: OutreachConfig{
			ReviewBaseURL:   strings.TrimRight(e.str("REVIEW_BASE_URL", "https://bonrate.pro"), "/"),
			BulkConcurrency: e.integer("BULK_SEND_CONCURRENCY", 1),
			BulkMaxIDs:      e.integer("BULK_SEND_MAX_IDS", 500),
		},

		RateRPS:       e.float("RATE_RPS", 5),
		RateBurst:     e.integer("RATE_BURST", 10),
		AuthRateRPS:   e.float("AUTH_RATE_RPS", 0.2),
		AuthRateBurst: e.integer("AUTH_RATE_BURST", 5),

		CORS: CORSConfig{AllowedOrigins: e.list("CORS_ALLOWED_ORIGINS")},
		Security: SecurityConfig{
			EnableHSTS: e.flag("ENABLE_HSTS", false),
			HSTSMaxAge: e.duration("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: e.duration("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     e.flag("OTEL_ENABLED", false),
			Endpoint:    e.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    e.flag("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: e.str("OTEL_SERVICE_NAME", "review-outreach"),
			Environment: e.str("DEPLOY_ENV", "development"),
			SampleRatio: e.float("OTEL_TRACES_SAMPLER_ARG", 1),
		},
	}

	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	errs := append(e.errs, cfg.validate()...)
	return cfg, errors.Join(errs...)
}

// validate checks ranges and cross-field rules on already parsed values.
func (cfg Config) validate() []error {
	var errs []error
	require := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q: want debug, info, warn, error, fatal or panic", cfg.LogLevel))
	}
	require(strings.TrimSpace(cfg.Port) != "", "PORT must not be empty")
	for name, d := range map[string]time.Duration{
		"READ_TIMEOUT":        cfg.ReadTimeout,
		"READ_HEADER_TIMEOUT": cfg.ReadHeaderTimeout,
		"WRITE_TIMEOUT":       cfg.WriteTimeout,
		"IDLE_TIMEOUT":        cfg.IdleTimeout,
	} {
		require(d > 0, "%s must be positive, got %s", name, d)
	}
	require(cfg.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")

	switch cfg.DBDriver {
	case "sqlite":
		require(strings.TrimSpace(cfg.DBPath) != "", "DB_PATH must not be empty")
	case "postgres":
		require(strings.TrimSpace(cfg.DatabaseURL) != "", "DATABASE_URL must be set when DB_DRIVER=postgres")
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q: want sqlite or postgres", cfg.DBDriver))
	}

	require(strings.TrimSpace(cfg.Auth.JWTSecret) != "", "JWT_SECRET must not be empty")
	require(cfg.Auth.TokenTTL > 0, "JWT_TTL must be > 0")

	if cfg.Mail.Host != "" {
		require(cfg.Mail.Port > 0 && cfg.Mail.Port <= 65535, "SMTP_PORT %d out of range", cfg.Mail.Port)
	}
	require(strings.TrimSpace(cfg.Mail.From) != "", "MAIL_FROM must not be empty")
	require(cfg.Places.Timeout > 0, "PLACES_TIMEOUT must be > 0")
	require(isHTTPURL(cfg.Outreach.ReviewBaseURL), "REVIEW_BASE_URL %q must be an absolute http(s) URL", cfg.Outreach.ReviewBaseURL)
	require(cfg.Outreach.BulkConcurrency >= 1, "BULK_SEND_CONCURRENCY must be >= 1")
	require(cfg.Outreach.BulkMaxIDs >= 1, "BULK_SEND_MAX_IDS must be >= 1")

	require(cfg.RateRPS >= 0, "RATE_RPS must be >= 0")
	require(cfg.RateBurst >= 1, "RATE_BURST must be >= 1")
	require(cfg.AuthRateRPS >= 0, "AUTH_RATE_RPS must be >= 0")
	require(cfg.AuthRateBurst >= 1, "AUTH_RATE_BURST must be >= 1")

	require(cfg.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	require(cfg.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	require(cfg.OTEL.SampleRatio >= 0 && cfg.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	return errs
}

// env reads typed variables. Unset or empty variables take the default; a
// value that does not parse is recorded and the default used in its place.
type env struct {
	errs []error
}

func (e *env) lookup(k string) (string, bool) {
	v, ok := os.LookupEnv(k)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *env) bad(k, v, want string) {
	e.errs = append(e.errs, fmt.Errorf("%s=%q: want %s", k, v, want))
}

func (e *env) str(k, def string) string {
	if v, ok := e.lookup(k); ok {
		return v
	}
	return def
}

func (e *env) integer(k string, def int) int {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.bad(k, v, "an integer")
		return def
	}
	return n
}

func (e *env) float(k string, def float64) float64 {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.bad(k, v, "a number")
		return def
	}
	return f
}

func (e *env) flag(k string, def bool) bool {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	e.bad(k, v, "a boolean")
	return def
}

func (e *env) duration(k string, def time.Duration) time.Duration {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.bad(k, v, "a duration such as 30s or 2h")
		return def
	}
	return d
}

// list splits a comma separated variable, dropping blank entries.
func (e *env) list(k string) []string {
	v, ok := e.lookup(k)
	if !ok {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// normalizeBasePath yields "/" or a path with a leading and no trailing slash.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
