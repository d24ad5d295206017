package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	SDKVersion        = "1.0.0"
	DefaultAPIVersion = "2020-03-02"

	defaultTransportTimeout          = 30 * time.Second
	defaultMaxResponseBodyBytes      = int64(10 << 20)
	defaultBreakerMaxRequests        = uint32(1)
	defaultBreakerInterval           = 60 * time.Second
	defaultBreakerTimeout            = 30 * time.Second
	defaultBreakerConsecutiveFailure = uint32(5)
)

type AppInfoConfig struct {
	Name      string `koanf:"name" mapstructure:"name"`
	Version   string `koanf:"version" mapstructure:"version"`
	URL       string `koanf:"url" mapstructure:"url"`
	PartnerID string `koanf:"partner_id" mapstructure:"partner_id"`
}

func (c AppInfoConfig) IsZero() bool {
	return strings.TrimSpace(c.Name) == "" &&
		strings.TrimSpace(c.Version) == "" &&
		strings.TrimSpace(c.URL) == "" &&
		strings.TrimSpace(c.PartnerID) == ""
}

// BreakerConfig.Enabled is a pointer so an upper config layer can switch a
// lower layer's breaker off. Nil means disabled.
type BreakerConfig struct {
	Enabled             *bool         `koanf:"enabled" mapstructure:"enabled"`
	MaxRequests         uint32        `koanf:"max_requests" mapstructure:"max_requests"`
	Interval            time.Duration `koanf:"interval" mapstructure:"interval"`
	Timeout             time.Duration `koanf:"timeout" mapstructure:"timeout"`
	ConsecutiveFailures uint32        `koanf:"consecutive_failures" mapstructure:"consecutive_failures"`
}

type TransportConfig struct {
	Timeout              time.Duration `koanf:"timeout" mapstructure:"timeout"`
	MaxResponseBodyBytes int64         `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
	Breaker              BreakerConfig `koanf:"breaker" mapstructure:"breaker"`
}

type Config struct {
	ClientName      string          `koanf:"client_name" mapstructure:"client_name"`
	APIHost         string          `koanf:"api_host" mapstructure:"api_host"`
	APIVersion      string          `koanf:"api_version" mapstructure:"api_version"`
	SDKVersion      string          `koanf:"sdk_version" mapstructure:"sdk_version"`
	IdempotencyKeys *bool           `koanf:"idempotency_keys" mapstructure:"idempotency_keys"`
	AppInfo         AppInfoConfig   `koanf:"app_info" mapstructure:"app_info"`
	Transport       TransportConfig `koanf:"transport" mapstructure:"transport"`
}

func DefaultConfig() Config {
	return Config{
		ClientName:      "consumers",
		APIHost:         DefaultAPIHost,
		APIVersion:      DefaultAPIVersion,
		SDKVersion:      SDKVersion,
		IdempotencyKeys: Bool(true),
		Transport: TransportConfig{
			Timeout:              defaultTransportTimeout,
			MaxResponseBodyBytes: defaultMaxResponseBodyBytes,
			Breaker: BreakerConfig{
				Enabled:             Bool(false),
				MaxRequests:         defaultBreakerMaxRequests,
				Interval:            defaultBreakerInterval,
				Timeout:             defaultBreakerTimeout,
				ConsecutiveFailures: defaultBreakerConsecutiveFailure,
			},
		},
	}
}

// Bool returns a pointer to v, for the optional switches in Config.
func Bool(v bool) *bool {
	return &v
}

func (c BreakerConfig) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}

// IdempotencyKeysEnabled reports whether the request factory generates an
// Idempotency-Key when the caller supplies none. Nil means enabled.
func (c Config) IdempotencyKeysEnabled() bool {
	return c.IdempotencyKeys == nil || *c.IdempotencyKeys
}

// clone copies the optional switches so decoding into the copy never writes
// through to c.
func (c Config) clone() Config {
	out := c
	if c.IdempotencyKeys != nil {
		out.IdempotencyKeys = Bool(*c.IdempotencyKeys)
	}
	if c.Transport.Breaker.Enabled != nil {
		out.Transport.Breaker.Enabled = Bool(*c.Transport.Breaker.Enabled)
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ClientName) == "" {
		return fmt.Errorf("core: client_name is required")
	}
	host := strings.TrimSpace(c.APIHost)
	if host == "" {
		return fmt.Errorf("core: api_host is required")
	}
	parsed, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("core: api_host is invalid: %w", err)
	}
	if (parsed.Scheme != "https" && parsed.Scheme != "http") || parsed.Host == "" {
		return fmt.Errorf("core: api_host must be an absolute http(s) url")
	}
	if strings.TrimSpace(c.APIVersion) == "" {
		return fmt.Errorf("core: api_version is required")
	}
	if strings.TrimSpace(c.SDKVersion) == "" {
		return fmt.Errorf("core: sdk_version is required")
	}
	if c.Transport.Timeout < 0 {
		return fmt.Errorf("core: transport.timeout must not be negative")
	}
	if c.Transport.MaxResponseBodyBytes < 0 {
		return fmt.Errorf("core: transport.max_response_body_bytes must not be negative")
	}
	if c.Transport.Breaker.IsEnabled() && c.Transport.Breaker.ConsecutiveFailures == 0 {
		return fmt.Errorf("core: transport.breaker.consecutive_failures is required when the breaker is enabled")
	}
	return nil
}
