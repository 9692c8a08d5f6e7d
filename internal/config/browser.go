package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cpjust/shopcheck/internal/browser"
)

// Driver names accepted by SHOPCHECK_DRIVER.
const (
	DriverPlaywright = "playwright"
	DriverChromedp   = "chromedp"
)

// BrowserConfig holds configuration for the browser launcher
type BrowserConfig struct {
	Driver  string
	Options browser.Options
}

// LoadBrowserConfig loads browser configuration from environment variables
func LoadBrowserConfig(getenv func(string) string) (*BrowserConfig, error) {
	config := &BrowserConfig{
		Driver: getenv("SHOPCHECK_DRIVER"),
		Options: browser.Options{
			Headless:       true,
			StartMaximized: true,
			ImplicitWait:   browser.DefaultImplicitWait,
		},
	}

	if config.Driver == "" {
		config.Driver = DriverPlaywright
	}
	if err := ValidateDriver(config.Driver); err != nil {
		return nil, err
	}

	var err error
	if config.Options.Headless, err = parseBool(getenv, "SHOPCHECK_HEADLESS", true); err != nil {
		return nil, err
	}
	if config.Options.StartMaximized, err = parseBool(getenv, "SHOPCHECK_START_MAXIMIZED", true); err != nil {
		return nil, err
	}
	if config.Options.ImplicitWait, err = parseDuration(getenv, "SHOPCHECK_IMPLICIT_WAIT", browser.DefaultImplicitWait); err != nil {
		return nil, err
	}
	if config.Options.SlowMo, err = parseDuration(getenv, "SHOPCHECK_SLOWMO", 0); err != nil {
		return nil, err
	}

	return config, nil
}

// ValidateDriver reports whether name is a supported driver.
func ValidateDriver(name string) error {
	switch name {
	case DriverPlaywright, DriverChromedp:
		return nil
	default:
		return fmt.Errorf("SHOPCHECK_DRIVER must be %q or %q, got %q", DriverPlaywright, DriverChromedp, name)
	}
}

func parseBool(getenv func(string) string, key string, def bool) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}

func parseDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return v, nil
}
