package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	LLM      LLMConfig      `yaml:"llm"`
	Weather  WeatherConfig  `yaml:"weather"`
	Places   PlacesConfig   `yaml:"places"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Activity ActivityConfig `yaml:"activity"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Location LocationConfig `yaml:"location"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Session        SessionConfig   `yaml:"session"`
}

// RateLimitConfig drives the inbound request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// SessionConfig shapes the browser session cookie.
type SessionConfig struct {
	CookieName string        `yaml:"cookieName"`
	MaxAge     time.Duration `yaml:"maxAge"`
	Secure     bool          `yaml:"secure"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// WeatherConfig points at the OpenWeatherMap API.
type WeatherConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Units   string        `yaml:"units"`
	Timeout time.Duration `yaml:"timeout"`
}

// PlacesConfig points at the Google Places API.
type PlacesConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// UpstreamConfig bounds retries for every third-party call.
type UpstreamConfig struct {
	MaxRetries int           `yaml:"maxRetries"`
	Backoff    time.Duration `yaml:"backoff"`
}

// ActivityConfig tunes candidate generation and filtering.
type ActivityConfig struct {
	Prompt            string        `yaml:"prompt"`
	BatchSize         int           `yaml:"batchSize"`
	Timezone          string        `yaml:"timezone"`
	LookupConcurrency int           `yaml:"lookupConcurrency"`
	HoursCacheTTL     time.Duration `yaml:"hoursCacheTtl"`
	SessionTTL        time.Duration `yaml:"sessionTtl"`
}

// ValkeyConfig contains connection information for shared state.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// LocationConfig feeds the location page.
type LocationConfig struct {
	MapsAPIKey string `yaml:"mapsApiKey"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Session.Secure, "SESSION_COOKIE_SECURE")

	// WEATHER_API_KEY and GOOGLE_API_KEY match the names the original deployment used.
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT")

	setString(&cfg.Weather.APIKey, "WEATHER_API_KEY")
	setString(&cfg.Weather.BaseURL, "WEATHER_BASE_URL")
	setDuration(&cfg.Weather.Timeout, "WEATHER_TIMEOUT")

	setString(&cfg.Places.APIKey, "GOOGLE_API_KEY")
	setString(&cfg.Places.BaseURL, "PLACES_BASE_URL")
	setDuration(&cfg.Places.Timeout, "PLACES_TIMEOUT")

	setInt(&cfg.Upstream.MaxRetries, "UPSTREAM_MAX_RETRIES")
	setDuration(&cfg.Upstream.Backoff, "UPSTREAM_BACKOFF")

	setString(&cfg.Activity.Prompt, "ACTIVITY_PROMPT")
	setInt(&cfg.Activity.BatchSize, "ACTIVITY_BATCH_SIZE")
	setString(&cfg.Activity.Timezone, "ACTIVITY_TIMEZONE")
	setInt(&cfg.Activity.LookupConcurrency, "ACTIVITY_LOOKUP_CONCURRENCY")
	setDuration(&cfg.Activity.HoursCacheTTL, "ACTIVITY_HOURS_CACHE_TTL")
	setDuration(&cfg.Activity.SessionTTL, "ACTIVITY_SESSION_TTL")

	setBool(&cfg.Valkey.Enabled, "VALKEY_ENABLED")
	setString(&cfg.Valkey.Addr, "VALKEY_ADDR")
	setString(&cfg.Valkey.Prefix, "VALKEY_PREFIX")

	// Rendered into the public location page, so it never defaults to the
	// server-side places key.
	setString(&cfg.Location.MapsAPIKey, "MAPS_API_KEY")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 90 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
			Session: SessionConfig{
				CookieName: "session_id",
				MaxAge:     24 * time.Hour,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			Timeout:     30 * time.Second,
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5",
			Units:   "metric",
			Timeout: 10 * time.Second,
		},
		Places: PlacesConfig{
			BaseURL: "https://maps.googleapis.com/maps/api/place",
			Timeout: 10 * time.Second,
		},
		Upstream: UpstreamConfig{
			MaxRetries: 1,
			Backoff:    250 * time.Millisecond,
		},
		Activity: ActivityConfig{
			Prompt:            "You are a friendly local guide. Recommend real venues close to the user that suit the weather and the time of day, mixing indoor and outdoor options.",
			BatchSize:         10,
			Timezone:          "Local",
			LookupConcurrency: 4,
			HoursCacheTTL:     6 * time.Hour,
			SessionTTL:        24 * time.Hour,
		},
		Valkey: ValkeyConfig{
			Prefix: "activity",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.HTTP.Session.CookieName) == "" {
		return errors.New("http.session.cookieName cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Weather.APIKey) == "" {
		return errors.New("weather.apiKey cannot be empty")
	}
	if strings.TrimSpace(c.Places.APIKey) == "" {
		return errors.New("places.apiKey cannot be empty")
	}
	if c.Upstream.MaxRetries < 0 {
		return errors.New("upstream.maxRetries cannot be negative")
	}
	if c.LLM.Timeout <= 0 || c.Weather.Timeout <= 0 || c.Places.Timeout <= 0 {
		return errors.New("upstream timeouts must be positive")
	}
	if c.Activity.BatchSize <= 0 {
		return errors.New("activity.batchSize must be positive")
	}
	if c.Activity.LookupConcurrency <= 0 {
		return errors.New("activity.lookupConcurrency must be positive")
	}
	if c.Activity.HoursCacheTTL < 0 {
		return errors.New("activity.hoursCacheTtl cannot be negative")
	}
	if _, err := c.Activity.Location(); err != nil {
		return fmt.Errorf("activity.timezone: %w", err)
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	return nil
}

// Location resolves the configured fallback timezone.
func (a ActivityConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
