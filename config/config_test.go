package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"API_PORT", "DB_DRIVER", "SESSION_SECRET", "DIRECTOR_PASSWORD", "UPLOAD_MAX_MB", "STORE_TIMEOUT", "REDIS_HOST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.Len(t, cfg.Warnings(), 2)
}

func TestLoad_FromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("SESSION_SECRET", "s3cr3t")
	t.Setenv("DIRECTOR_PASSWORD", "otra-clave")
	t.Setenv("UPLOAD_MAX_MB", "2")
	t.Setenv("STORE_TIMEOUT", "750ms")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, int64(2<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 750*time.Millisecond, cfg.StoreTimeout)
	assert.True(t, cfg.Redis.Enabled())
	assert.Empty(t, cfg.Warnings())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
