package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "STORE_DRIVER", "SUPABASE_URL", "SUPABASE_ANON_KEY", "DB_DSN", "STORE_TIMEOUT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_BODY_BYTES", "CORS_ALLOWED_ORIGINS", "ENABLE_HSTS", "TRUSTED_PROXIES",
}

// isolate clears every config key and runs the test from an empty directory
// so no .env file leaks in.
func isolate(t *testing.T) {
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, DriverSupabase, cfg.Driver)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, int64(1<<20), cfg.MaxBody)
	assert.Equal(t, 20.0, cfg.RateLimit.RPS)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.CORSOrigins)
	assert.False(t, cfg.EnableHSTS)
}

func TestLoad_Overrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/books")
	t.Setenv("STORE_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("ENABLE_HSTS", "true")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.7")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.EnableHSTS)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.7"}, cfg.RateLimit.TrustedProxies)
}

func TestLoad_RequiredPerDriver(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "supabase without url", env: map[string]string{"SUPABASE_ANON_KEY": "anon"}, wantErr: "SUPABASE_URL"},
		{name: "supabase without key", env: map[string]string{"SUPABASE_URL": "https://x.supabase.co"}, wantErr: "SUPABASE_ANON_KEY"},
		{name: "postgres without dsn", env: map[string]string{"STORE_DRIVER": "postgres"}, wantErr: "DB_DSN"},
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "mysql"}, wantErr: "STORE_DRIVER"},
		{name: "bad trusted proxy", env: map[string]string{"STORE_DRIVER": "postgres", "DB_DSN": "x", "TRUSTED_PROXIES": "10.0.0.1,lb.local"}, wantErr: "lb.local"},
		{name: "bad timeout", env: map[string]string{"STORE_DRIVER": "postgres", "DB_DSN": "x", "STORE_TIMEOUT": "soon"}, wantErr: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_EnvFileDoesNotOverrideExistingEnv(t *testing.T) {
	isolate(t)
	content := "STORE_DRIVER=postgres\nDB_DSN=from_file\nPORT=9000\n"
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte(content), 0o644))
	t.Setenv("DB_DSN", "from_env")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.DSN)
	assert.Equal(t, 9000, cfg.Port)
}
