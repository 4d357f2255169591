package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartintruesdell/CubeCobra/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		wantErr bool
		check   func(*testing.T, *config.Config)
	}{
		{
			name:    "missing jwt secret",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name: "defaults",
			env:  map[string]string{"JWT_SECRET": "secret"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "8080", cfg.Port)
				assert.Equal(t, 8, cfg.Draft.DefaultSeats)
				assert.Equal(t, 3, cfg.Draft.DefaultRounds)
				assert.Equal(t, 15, cfg.Draft.DefaultPackSize)
				assert.Equal(t, 4.0, cfg.Analytics.EloKFactor)
				assert.Equal(t, 10*time.Second, cfg.RecommenderTimeout)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"JWT_SECRET":                  "secret",
				"PORT":                        "9000",
				"RECOMMENDER_URL":             "http://recommender:8000",
				"RECOMMENDER_TIMEOUT_SECONDS": "3",
			},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "9000", cfg.Port)
				assert.Equal(t, "http://recommender:8000", cfg.RecommenderURL)
				assert.Equal(t, 3*time.Second, cfg.RecommenderTimeout)
			},
		},
		{
			name: "toml overlay",
			env:  map[string]string{"JWT_SECRET": "secret"},
			file: "[draft]\ndefault_seats = 6\ndefault_pack_size = 9\n\n[analytics]\nelo_k_factor = 8.5\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 6, cfg.Draft.DefaultSeats)
				assert.Equal(t, 9, cfg.Draft.DefaultPackSize)
				assert.Equal(t, 3, cfg.Draft.DefaultRounds)
				assert.Equal(t, 8.5, cfg.Analytics.EloKFactor)
			},
		},
		{
			name:    "toml overlay fails validation",
			env:     map[string]string{"JWT_SECRET": "secret"},
			file:    "[draft]\ndefault_seats = 40\n",
			wantErr: true,
		},
		{
			name:    "invalid environment name",
			env:     map[string]string{"JWT_SECRET": "secret", "ENVIRONMENT": "staging"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"JWT_SECRET", "PORT", "ENVIRONMENT", "RECOMMENDER_URL", "RECOMMENDER_TIMEOUT_SECONDS", "CONFIG_FILE"} {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				path := filepath.Join(t.TempDir(), "config.toml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
				t.Setenv("CONFIG_FILE", path)
			}

			cfg, err := config.Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
