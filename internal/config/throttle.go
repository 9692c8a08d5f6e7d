package config

import (
	"fmt"
	"strconv"

	"github.com/cpjust/shopcheck/internal/throttle"
)

// LoadThrottleConfig loads the network conditions applied after page load.
// SHOPCHECK_THROTTLE_PROFILE picks the base (slow-network by default) and the
// individual variables override single fields of it.
func LoadThrottleConfig(getenv func(string) string) (throttle.Conditions, error) {
	profile := getenv("SHOPCHECK_THROTTLE_PROFILE")
	if profile == "" {
		profile = throttle.ProfileSlowNetwork
	}
	c, err := throttle.Profile(profile)
	if err != nil {
		return throttle.Conditions{}, fmt.Errorf("SHOPCHECK_THROTTLE_PROFILE: %w", err)
	}

	if raw := getenv("SHOPCHECK_THROTTLE_DOWNLOAD"); raw != "" {
		v, err := parseThroughput("SHOPCHECK_THROTTLE_DOWNLOAD", raw)
		if err != nil {
			return throttle.Conditions{}, err
		}
		c.DownloadThroughput = throttle.Int(v)
	}
	if raw := getenv("SHOPCHECK_THROTTLE_UPLOAD"); raw != "" {
		v, err := parseThroughput("SHOPCHECK_THROTTLE_UPLOAD", raw)
		if err != nil {
			return throttle.Conditions{}, err
		}
		c.UploadThroughput = throttle.Int(v)
	}
	if getenv("SHOPCHECK_THROTTLE_LATENCY") != "" {
		v, err := parseDuration(getenv, "SHOPCHECK_THROTTLE_LATENCY", 0)
		if err != nil {
			return throttle.Conditions{}, err
		}
		c.Latency = throttle.Duration(v)
	}
	if getenv("SHOPCHECK_THROTTLE_OFFLINE") != "" {
		v, err := parseBool(getenv, "SHOPCHECK_THROTTLE_OFFLINE", false)
		if err != nil {
			return throttle.Conditions{}, err
		}
		c.Offline = throttle.Bool(v)
	}

	return c, nil
}

// parseThroughput accepts bytes per second; -1 disables throttling.
func parseThroughput(key, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if v < -1 {
		return 0, fmt.Errorf("%s must be -1 or greater, got %d", key, v)
	}
	return v, nil
}
