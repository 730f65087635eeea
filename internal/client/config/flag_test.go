package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectPanic bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "overrides defaults",
			args: []string{"cmd", "-a", "https://api.example.com", "-i", "10", "-p", "50"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
				assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
				assert.Equal(t, 50, cfg.PageSize)
			},
		},
		{
			name: "cache and token paths",
			args: []string{"cmd", "-d", "/tmp/j.db", "-t", "/tmp/token"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/j.db", cfg.CacheDSN)
				assert.Equal(t, "/tmp/token", cfg.TokenFile)
				// untouched flags keep defaults
				assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
			},
		},
		{
			name:        "incorrect check interval",
			args:        []string{"cmd", "-i", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args)

			cfg := &Config{}
			cfg.LoadDefaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			parseFlags(cfg)
			tt.check(t, cfg)
		})
	}
}
