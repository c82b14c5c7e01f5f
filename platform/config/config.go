// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	IsMetricsEnabled() bool
}

// ProviderConfig provides settings for the upstream mapping provider.
// The API key is the single server-side credential; it may be empty, in
// which case every proxied request fails with a configuration error.
type ProviderConfig interface {
	GetGoogleAPIKey() string
	GetProviderBaseURL() string
	GetProviderTimeout() time.Duration
}

// RateLimitConfig provides settings for the per-client rate limiter.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
	GetRedisURL() string
	IsRateLimitEnabled() bool
}

// LookupConfig provides settings for the interactive lookup client.
type LookupConfig interface {
	GetLookupProxyURL() string
	GetLookupTransport() string
	GetLookupDebounce() time.Duration
	GetLookupMinChars() int
	GetLookupBlurGrace() time.Duration
}

// Transport modes for the lookup client.
const (
	TransportProxy  = "proxy"
	TransportDirect = "direct"
)

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env             string
	HTTPAddr        string
	CORSAllowAll    bool
	CORSOrigins     []string
	MetricsEnabled  bool
	GoogleAPIKey    string
	ProviderBaseURL string
	ProviderTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	RedisURL        string
	LookupProxyURL  string
	LookupTransport string
	LookupDebounce  time.Duration
	LookupMinChars  int
	LookupBlurGrace time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) IsMetricsEnabled() bool   { return c.MetricsEnabled }

// ProviderConfig implementation
func (c *Config) GetGoogleAPIKey() string           { return c.GoogleAPIKey }
func (c *Config) GetProviderBaseURL() string        { return c.ProviderBaseURL }
func (c *Config) GetProviderTimeout() time.Duration { return c.ProviderTimeout }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }
func (c *Config) GetRedisURL() string      { return c.RedisURL }
func (c *Config) IsRateLimitEnabled() bool {
	return c.RateLimitRPS > 0 && c.RateLimitBurst > 0
}

// LookupConfig implementation
func (c *Config) GetLookupProxyURL() string         { return c.LookupProxyURL }
func (c *Config) GetLookupTransport() string        { return c.LookupTransport }
func (c *Config) GetLookupDebounce() time.Duration  { return c.LookupDebounce }
func (c *Config) GetLookupMinChars() int            { return c.LookupMinChars }
func (c *Config) GetLookupBlurGrace() time.Duration { return c.LookupBlurGrace }

// Load reads configuration from environment variables.
// A missing GOOGLE_API_KEY is not an error here: the proxy still starts and
// reports the misconfiguration on every request.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := containsWildcard(corsOrigins) || len(corsOrigins) == 0
	if corsAllowAll {
		corsOrigins = nil
	}

	env := &envParser{}
	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:    corsAllowAll,
		CORSOrigins:     corsOrigins,
		MetricsEnabled:  strings.EqualFold(getEnv("METRICS_ENABLED", "true"), "true"),
		GoogleAPIKey:    strings.TrimSpace(getEnv("GOOGLE_API_KEY", "")),
		ProviderBaseURL: strings.TrimRight(getEnv("GOOGLE_MAPS_BASE_URL", "https://maps.googleapis.com/maps/api"), "/"),
		ProviderTimeout: env.duration("PROVIDER_TIMEOUT", "10s"),
		RateLimitRPS:    env.float("RATE_LIMIT_RPS", "10"),
		RateLimitBurst:  env.int("RATE_LIMIT_BURST", "20"),
		RedisURL:        getEnv("REDIS_URL", ""),
		LookupProxyURL:  strings.TrimRight(getEnv("LOOKUP_PROXY_URL", "http://localhost:8080/api"), "/"),
		LookupTransport: strings.ToLower(getEnv("LOOKUP_TRANSPORT", TransportProxy)),
		LookupDebounce:  env.duration("LOOKUP_DEBOUNCE", "300ms"),
		LookupMinChars:  env.int("LOOKUP_MIN_CHARS", "3"),
		LookupBlurGrace: env.duration("LOOKUP_BLUR_GRACE", "200ms"),
	}

	if env.err != nil {
		return nil, env.err
	}
	if cfg.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT must be a positive duration")
	}
	if cfg.LookupTransport != TransportProxy && cfg.LookupTransport != TransportDirect {
		return nil, fmt.Errorf("LOOKUP_TRANSPORT must be %q or %q", TransportProxy, TransportDirect)
	}
	if cfg.LookupDebounce <= 0 {
		return nil, fmt.Errorf("LOOKUP_DEBOUNCE must be a positive duration")
	}
	if cfg.LookupMinChars < 1 {
		return nil, fmt.Errorf("LOOKUP_MIN_CHARS must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// envParser reads typed variables and keeps the first parse failure, so a
// typo is reported instead of silently becoming zero.
type envParser struct {
	err error
}

func (p *envParser) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: invalid value %q", key, value)
	}
}

func (p *envParser) duration(key, fallback string) time.Duration {
	value := strings.TrimSpace(getEnv(key, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value)
		return 0
	}
	return d
}

func (p *envParser) int(key, fallback string) int {
	value := strings.TrimSpace(getEnv(key, fallback))
	result, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value)
		return 0
	}
	return result
}

func (p *envParser) float(key, fallback string) float64 {
	value := strings.TrimSpace(getEnv(key, fallback))
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value)
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
