// Package config loads server settings from defaults, an optional YAML file
// and the environment, in that order of precedence (lowest first).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar names the environment variable pointing at a YAML config file.
const PathEnvVar = "CONFIG_PATH"

type Config struct {
	Port           string        `koanf:"port" validate:"required,numeric"`
	BackendURL     string        `koanf:"backend_url" validate:"required,http_url"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`
	SearchDebounce time.Duration `koanf:"search_debounce" validate:"gte=0"`
	LogLevel       string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	CORSOrigins    []string      `koanf:"cors_origins" validate:"min=1,dive,required"`

	// RefreshInterval re-fetches the collection in the background; 0 leaves
	// fetching to page visits and mutations.
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`

	BreakerFailures uint32        `koanf:"breaker_failures" validate:"gte=1"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout" validate:"gt=0"`

	MutationRPS   float64 `koanf:"mutation_rps" validate:"gt=0"`
	MutationBurst int     `koanf:"mutation_burst" validate:"gte=1"`

	// APIRateLimit caps /api requests per client IP per minute; 0 disables it.
	APIRateLimit int `koanf:"api_rate_limit" validate:"gte=0"`

	// RandomOrder is the list order when a visit does not choose one.
	RandomOrder bool `koanf:"random_order"`
}

func Default() *Config {
	return &Config{
		Port:            "8080",
		BackendURL:      "http://localhost:8000",
		RequestTimeout:  10 * time.Second,
		SearchDebounce:  300 * time.Millisecond,
		LogLevel:        "info",
		CORSOrigins:     []string{"*"},
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
		MutationRPS:     5,
		MutationBurst:   10,
		APIRateLimit:    300,
		RandomOrder:     true,
	}
}

// envKeys maps supported environment variables to config keys. Anything
// else in the environment is ignored.
var envKeys = map[string]string{
	"PORT":             "port",
	"BACKEND_URL":      "backend_url",
	"REQUEST_TIMEOUT":  "request_timeout",
	"SEARCH_DEBOUNCE":  "search_debounce",
	"REFRESH_INTERVAL": "refresh_interval",
	"LOG_LEVEL":        "log_level",
	"CORS_ORIGINS":     "cors_origins",
	"BREAKER_FAILURES": "breaker_failures",
	"BREAKER_TIMEOUT":  "breaker_timeout",
	"MUTATION_RPS":     "mutation_rps",
	"MUTATION_BURST":   "mutation_burst",
	"API_RATE_LIMIT":   "api_rate_limit",
	"RANDOM_ORDER":     "random_order",
}

func Load() (*Config, error) {
	return load(os.Getenv(PathEnvVar))
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(key string) string { return envKeys[key] }), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitList(k, "cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(cfg.BackendURL), "/")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList turns a comma-separated env value into a slice; values loaded
// from YAML already are slices.
func splitList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		parts = Default().CORSOrigins
	}
	if err := k.Set(path, parts); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) Addr() string { return ":" + c.Port }
