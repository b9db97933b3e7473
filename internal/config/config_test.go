package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_UnmarshalTOML(t *testing.T) {
	t.Parallel()

	tomlData := `
[server]
port = "9000"
public_base_url = "https://echo.example"
rate_limit_window = "30s"

[speech]
synthesis_timeout_seconds = 15

[[speech.voice_profiles]]
username = "narrator"
voice_id = "voice-abc"
stability = 0.9

[storage]
bucket = "VOICE_NOTES"
`

	cfg := Default()
	require.NoError(t, toml.Unmarshal([]byte(tomlData), cfg))

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "https://echo.example", cfg.Server.PublicBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RateWindow())
	assert.Equal(t, 15, cfg.Speech.SynthesisTimeoutS)
	assert.Equal(t, 60, cfg.Speech.TranscriptionTimeoutS, "untouched defaults survive")
	assert.Equal(t, "VOICE_NOTES", cfg.Storage.Bucket)

	require.Len(t, cfg.Speech.VoiceProfiles, 1)
	profile := cfg.Speech.VoiceProfiles[0]
	assert.Equal(t, "narrator", profile.Username)
	assert.Equal(t, "voice-abc", profile.VoiceID)
	require.NotNil(t, profile.Stability)
	assert.InEpsilon(t, 0.9, *profile.Stability, 0.001)
	assert.Nil(t, profile.Expressiveness)
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"PORT":                   "8080",
		"DATABASE_URL":           "postgres://x@y/z",
		"JWT_SECRET":             "s3cret",
		"CORS_ALLOWED_ORIGINS":   "https://a.example, https://b.example,",
		"UPLOAD_TIMEOUT_SECONDS": "45",
		"TOKEN_TTL_HOURS":        "not-a-number",
	}

	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres://x@y/z", cfg.Database.URL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 45, cfg.Storage.UploadTimeoutS)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours, "invalid integers keep the previous value")
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: ErrMissingJWTSecret,
		},
		{
			name: "missing database url",
			mutate: func(c *Config) {
				c.Database.URL = ""
			},
			wantErr: ErrMissingDatabaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.JWTSecret = "secret"
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}

	t.Run("incomplete voice profile", func(t *testing.T) {
		cfg := Default()
		cfg.Auth.JWTSecret = "secret"
		cfg.Speech.VoiceProfiles = []VoiceProfile{{Username: "alice"}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad rate window", func(t *testing.T) {
		cfg := Default()
		cfg.Auth.JWTSecret = "secret"
		cfg.Server.RateLimitWindow = "soon"
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echo.toml")
	require.NoError(t, os.WriteFile(path, []byte("[auth]\njwt_secret = \"from-file\"\n"), 0o600))

	t.Setenv(EnvConfigPath, path)
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)

	t.Setenv(EnvConfigPath, filepath.Join(dir, "missing.toml"))
	_, err = Load()
	assert.Error(t, err)
}
