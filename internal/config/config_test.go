package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpjust/shopcheck/internal/browser"
	"github.com/cpjust/shopcheck/internal/throttle"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadBrowserConfig(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    *BrowserConfig
		wantErr string
	}{
		{
			name: "defaults",
			vars: map[string]string{},
			want: &BrowserConfig{
				Driver: DriverPlaywright,
				Options: browser.Options{
					Headless:       true,
					StartMaximized: true,
					ImplicitWait:   30 * time.Second,
				},
			},
		},
		{
			name: "overrides",
			vars: map[string]string{
				"SHOPCHECK_DRIVER":          "chromedp",
				"SHOPCHECK_HEADLESS":        "false",
				"SHOPCHECK_START_MAXIMIZED": "0",
				"SHOPCHECK_IMPLICIT_WAIT":   "5s",
				"SHOPCHECK_SLOWMO":          "250ms",
			},
			want: &BrowserConfig{
				Driver: DriverChromedp,
				Options: browser.Options{
					ImplicitWait: 5 * time.Second,
					SlowMo:       250 * time.Millisecond,
				},
			},
		},
		{
			name:    "unknown driver",
			vars:    map[string]string{"SHOPCHECK_DRIVER": "selenium"},
			wantErr: "SHOPCHECK_DRIVER",
		},
		{
			name:    "bad boolean",
			vars:    map[string]string{"SHOPCHECK_HEADLESS": "maybe"},
			wantErr: "SHOPCHECK_HEADLESS",
		},
		{
			name:    "negative wait",
			vars:    map[string]string{"SHOPCHECK_IMPLICIT_WAIT": "-1s"},
			wantErr: "SHOPCHECK_IMPLICIT_WAIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadBrowserConfig(env(tt.vars))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadThrottleConfig(t *testing.T) {
	t.Run("empty environment uses the slow network profile", func(t *testing.T) {
		c, err := LoadThrottleConfig(env(nil))
		require.NoError(t, err)
		assert.Equal(t, throttle.SlowNetwork(), c)
		assert.Len(t, c.Payload(), 4)
	})

	t.Run("none profile with partial overrides stays sparse", func(t *testing.T) {
		c, err := LoadThrottleConfig(env(map[string]string{
			"SHOPCHECK_THROTTLE_PROFILE":  "none",
			"SHOPCHECK_THROTTLE_DOWNLOAD": "10000",
			"SHOPCHECK_THROTTLE_LATENCY":  "5s",
		}))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"downloadThroughput": 10000, "latency": int64(5000)}, c.Payload())
	})

	t.Run("individual variables override the profile", func(t *testing.T) {
		c, err := LoadThrottleConfig(env(map[string]string{
			"SHOPCHECK_THROTTLE_UPLOAD":  "2048",
			"SHOPCHECK_THROTTLE_OFFLINE": "true",
		}))
		require.NoError(t, err)
		assert.Equal(t, throttle.Conditions{
			DownloadThroughput: throttle.Int(10000),
			UploadThroughput:   throttle.Int(2048),
			Latency:            throttle.Duration(5 * time.Second),
			Offline:            throttle.Bool(true),
		}, c)
	})

	t.Run("all fields", func(t *testing.T) {
		c, err := LoadThrottleConfig(env(map[string]string{
			"SHOPCHECK_THROTTLE_PROFILE":  "none",
			"SHOPCHECK_THROTTLE_DOWNLOAD": "-1",
			"SHOPCHECK_THROTTLE_UPLOAD":   "2048",
			"SHOPCHECK_THROTTLE_LATENCY":  "150ms",
			"SHOPCHECK_THROTTLE_OFFLINE":  "true",
		}))
		require.NoError(t, err)
		assert.Equal(t, throttle.Conditions{
			DownloadThroughput: throttle.Int(-1),
			UploadThroughput:   throttle.Int(2048),
			Latency:            throttle.Duration(150 * time.Millisecond),
			Offline:            throttle.Bool(true),
		}, c)
	})

	invalid := map[string]string{
		"SHOPCHECK_THROTTLE_DOWNLOAD": "fast",
		"SHOPCHECK_THROTTLE_UPLOAD":   "-5",
		"SHOPCHECK_THROTTLE_LATENCY":  "5",
		"SHOPCHECK_THROTTLE_OFFLINE":  "nope",
		"SHOPCHECK_THROTTLE_PROFILE":  "dial-up",
	}
	for key, value := range invalid {
		t.Run("invalid "+key, func(t *testing.T) {
			_, err := LoadThrottleConfig(env(map[string]string{key: value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	assert.Equal(t, "8080", LoadServerConfig(env(nil)).Port)
	assert.Equal(t, "9090", LoadServerConfig(env(map[string]string{"PORT": "9090"})).Port)
}

func TestLoadPostgresConfig(t *testing.T) {
	complete := map[string]string{
		"POSTGRES_USER":     "shop",
		"POSTGRES_PASSWORD": "secret",
		"POSTGRES_DB":       "shopcheck",
		"POSTGRES_HOSTNAME": "db",
	}

	cfg, err := LoadPostgresConfig(env(complete))
	require.NoError(t, err)
	assert.Equal(t, "host=db user=shop password=secret dbname=shopcheck sslmode=disable", cfg.ConnectionString())

	for key := range complete {
		t.Run("missing "+key, func(t *testing.T) {
			vars := make(map[string]string, len(complete))
			for k, v := range complete {
				vars[k] = v
			}
			delete(vars, key)

			_, err := LoadPostgresConfig(env(vars))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestPostgresConfigured(t *testing.T) {
	assert.False(t, PostgresConfigured(env(nil)))
	assert.True(t, PostgresConfigured(env(map[string]string{"POSTGRES_HOSTNAME": "db"})))
}
