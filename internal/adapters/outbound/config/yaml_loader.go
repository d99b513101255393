package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/abdidvp/taxes/internal/domain"
)

const (
	fileName    = ".taxes.yaml"
	envFileName = ".env"
	envPrefix   = "TAXES"
)

// Keys understood in .env and as TAXES_* environment variables.
const (
	keyAPIURL   = "api_url"
	keyUser     = "api_user"
	keyToken    = "api_token"
	keyZipcodes = "zipcodes"
	keyTimeout  = "timeout"
	keyLogLevel = "log_level"
)

var envKeys = []string{keyAPIURL, keyUser, keyToken, keyZipcodes, keyTimeout, keyLogLevel}

// YAMLLoader implements domain.ConfigLoader. Values are layered: defaults,
// then .taxes.yaml, then .env, then the process environment.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads configuration for the tool from dir.
// Missing .taxes.yaml and .env files are not errors.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	// 1. .taxes.yaml
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	switch {
	case err == nil:
		var fileCfg domain.Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", fileName, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return domain.Config{}, err
	}

	// 2. .env, read without touching the process environment
	dotenv, err := godotenv.Read(filepath.Join(dir, envFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", envFileName, err)
	}
	if err := applyEnv(&cfg, func(key string) (string, bool) {
		v, ok := dotenv[envPrefix+"_"+strings.ToUpper(key)]
		return v, ok && v != ""
	}); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", envFileName, err)
	}

	// 3. TAXES_* environment variables
	if err := applyEnv(&cfg, envLookup()); err != nil {
		return domain.Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// envLookup binds every key to its TAXES_* variable and returns a lookup
// that only reports keys whose variable is set and non-empty.
func envLookup() func(string) (string, bool) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return func(key string) (string, bool) {
		if !v.IsSet(key) {
			return "", false
		}
		return v.GetString(key), true
	}
}

// applyEnv overlays the env-style keys found by lookup onto cfg.
func applyEnv(cfg *domain.Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(keyAPIURL); ok {
		cfg.APIURL = v
	}
	if v, ok := lookup(keyUser); ok {
		cfg.Username = v
	}
	if v, ok := lookup(keyToken); ok {
		cfg.Password = v
	}
	if v, ok := lookup(keyZipcodes); ok {
		cfg.Zipcodes = splitList(v)
	}
	if v, ok := lookup(keyTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s_%s: %w", envPrefix, strings.ToUpper(keyTimeout), err)
		}
		cfg.Timeout = d
	}
	if v, ok := lookup(keyLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	return nil
}

// mergeConfig overlays explicit file values on top of the defaults.
// Explicit (non-zero) values always win.
func mergeConfig(base, override domain.Config) domain.Config {
	result := base

	if override.APIURL != "" {
		result.APIURL = override.APIURL
	}
	if override.Username != "" {
		result.Username = override.Username
	}
	if override.Password != "" {
		result.Password = override.Password
	}
	// An explicit allow-list replaces the built-in one entirely.
	if len(override.Zipcodes) > 0 {
		result.Zipcodes = override.Zipcodes
	}
	if override.Timeout != 0 {
		result.Timeout = override.Timeout
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}

	return result
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
