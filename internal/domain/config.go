package domain

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultAPIURL is the tax service the tool talks to when nothing else is configured.
const DefaultAPIURL = "https://deft-cove-227620.appspot.com/api"

// DefaultZipcodes is the allow-list shipped with the tool.
var DefaultZipcodes = []string{
	"20500", "20748", "34248", "37312", "46523",
	"75093", "75876", "84111", "95361",
}

// ValidLogLevels enumerates the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds everything the tool needs at startup. It is loaded from
// .taxes.yaml, .env and TAXES_* environment variables.
type Config struct {
	APIURL   string        `yaml:"api_url"   json:"api_url"`
	Username string        `yaml:"username"  json:"username,omitempty"`
	Password string        `yaml:"password"  json:"-"`
	Zipcodes []string      `yaml:"zipcodes"  json:"zipcodes"`
	Timeout  time.Duration `yaml:"timeout"   json:"timeout,omitempty"`
	LogLevel string        `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns the built-in configuration. Credentials are left
// empty; they must come from the environment or a config file.
func DefaultConfig() Config {
	zips := make([]string, len(DefaultZipcodes))
	copy(zips, DefaultZipcodes)
	return Config{
		APIURL:   DefaultAPIURL,
		Zipcodes: zips,
		LogLevel: "warn",
	}
}

// HasCredentials reports whether both halves of the basic auth pair are set.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	// 1. api_url must be an absolute http(s) URL
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url %q: %w", c.APIURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url %q (must be an absolute http or https URL)", c.APIURL)
	}

	// 2. the allow-list cannot be empty
	if len(c.Zipcodes) == 0 {
		return fmt.Errorf("zipcodes must list at least one zipcode")
	}

	// 3. timeout is optional but never negative
	if c.Timeout < 0 {
		return fmt.Errorf("timeout %s must not be negative", c.Timeout)
	}

	// 4. log_level must be known or empty
	if c.LogLevel != "" && !contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
