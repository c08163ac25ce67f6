package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g. EXTGUARD_DENYLIST_PATH.
const EnvPrefix = "EXTGUARD_"

// AppConfig holds configuration values parsed from defaults, environment and flags.
type AppConfig struct {
	// DenylistPath is the newline-delimited extension list to load.
	DenylistPath string `koanf:"denylist_path" validate:"required"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// CacheSize bounds the decision cache. Zero disables caching.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// BloomFPRate is the target false-positive rate of the prefilter.
	BloomFPRate float64 `koanf:"bloom_fp_rate" validate:"gt=0,lt=1"`

	// IndexPath, when set, stores the loaded denylist in a bbolt index at this path
	// instead of in memory.
	IndexPath string `koanf:"index_path"`
}

// DEFAULT_APP_CONFIG defines the defaults applied before env and flag overrides.
var DEFAULT_APP_CONFIG = AppConfig{
	DenylistPath: "malicious_extensions.txt",
	Env:          "prod",
	LogLevel:     "warn",
	CacheSize:    1024,
	BloomFPRate:  0.01,
	IndexPath:    "",
}

// envLoader loads environment variables with the prefix "EXTGUARD_".
// Keys are lowercased with the prefix removed. Can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// overrideLoader applies explicit overrides (command line flags) on top of everything else.
var overrideLoader = func(k *koanf.Koanf, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	return k.Load(confmap.Provider(overrides, "."), nil)
}

// Load builds an AppConfig from defaults, then EXTGUARD_* environment variables,
// then the given overrides, and validates the result.
func Load(overrides map[string]any) (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	if err := overrideLoader(k, overrides); err != nil {
		return nil, fmt.Errorf("error loading overrides: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
