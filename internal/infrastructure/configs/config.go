package configs

import (
	"fmt"
	"time"

	"github.com/fuseroom/fuseroom/internal/infrastructure/env"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	RateLimiter RateLimiterConfig `koanf:"rateLimiter"`
	Rooms       RoomsConfig       `koanf:"rooms"`
	Messages    MessagesConfig    `koanf:"messages"`
	Payments    PaymentsConfig    `koanf:"payments"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	AllowedHeaders []string      `koanf:"allowed_headers"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type RateLimiterConfig struct {
	MaxRatePerSecond int           `koanf:"maxRatePerSecond"`
	MaxBurst         int           `koanf:"maxBurst"`
	CacheTTL         time.Duration `koanf:"cacheTTL"`
	SourceHeaderKey  string        `koanf:"sourceHeaderKey"`
}

type RoomsConfig struct {
	// MaxCodeAttempts bounds the generate-then-check retry loop.
	MaxCodeAttempts int `koanf:"max_code_attempts"`
	// MaxInitialDuration caps the initial window, in seconds.
	MaxInitialDuration int `koanf:"max_initial_duration"`
}

type MessagesConfig struct {
	// DefaultListLimit is applied when a list request carries no limit.
	DefaultListLimit int `koanf:"default_list_limit"`
	MaxContentLength int `koanf:"max_content_length"`
}

type PaymentsConfig struct {
	APIKey   string `koanf:"api_key"`
	Currency string `koanf:"currency"`
	// ReturnURL is the checkout redirect target; the order id is appended
	// as a query parameter.
	ReturnURL string `koanf:"return_url"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load from YAML file if it exists
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})
	setDefault(k, "http.allowed_headers", []string{"Content-Type", "Authorization"})

	// Rate limiter defaults
	setDefault(k, "rateLimiter.maxRatePerSecond", 10)
	setDefault(k, "rateLimiter.maxBurst", 20)
	setDefault(k, "rateLimiter.cacheTTL", 5*time.Minute)
	setDefault(k, "rateLimiter.sourceHeaderKey", "X-Forwarded-For")

	// Room defaults
	setDefault(k, "rooms.max_code_attempts", 10)
	setDefault(k, "rooms.max_initial_duration", 24*60*60)

	// Message defaults
	setDefault(k, "messages.default_list_limit", 100)
	setDefault(k, "messages.max_content_length", 5000)

	// Payment defaults
	setDefault(k, "payments.currency", "usd")
	setDefault(k, "payments.return_url", "http://localhost:3000/payment-success")
}

func applyEnvOverrides(k *koanf.Koanf) {
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}

	if maxRate := env.GetInt("RATE_LIMIT_MAX_RATE_PER_SECOND", 0); maxRate > 0 {
		k.Set("rateLimiter.maxRatePerSecond", maxRate)
	}
	if maxBurst := env.GetInt("RATE_LIMIT_MAX_BURST", 0); maxBurst > 0 {
		k.Set("rateLimiter.maxBurst", maxBurst)
	}
	if cacheTTL := env.GetInt("RATE_LIMIT_CACHE_TTL_MINUTES", 0); cacheTTL > 0 {
		k.Set("rateLimiter.cacheTTL", time.Duration(cacheTTL)*time.Minute)
	}
	if sourceKey := env.GetString("RATE_LIMIT_SOURCE_HEADER_KEY", ""); sourceKey != "" {
		k.Set("rateLimiter.sourceHeaderKey", sourceKey)
	}

	if attempts := env.GetInt("ROOM_MAX_CODE_ATTEMPTS", 0); attempts > 0 {
		k.Set("rooms.max_code_attempts", attempts)
	}
	if maxDuration := env.GetInt("ROOM_MAX_INITIAL_DURATION_SECONDS", 0); maxDuration > 0 {
		k.Set("rooms.max_initial_duration", maxDuration)
	}

	if limit := env.GetInt("MESSAGE_DEFAULT_LIST_LIMIT", 0); limit > 0 {
		k.Set("messages.default_list_limit", limit)
	}

	if apiKey := env.GetString("PAYMENTS_API_KEY", ""); apiKey != "" {
		k.Set("payments.api_key", apiKey)
	}
	if currency := env.GetString("PAYMENTS_CURRENCY", ""); currency != "" {
		k.Set("payments.currency", currency)
	}
	if returnURL := env.GetString("PAYMENTS_RETURN_URL", ""); returnURL != "" {
		k.Set("payments.return_url", returnURL)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
