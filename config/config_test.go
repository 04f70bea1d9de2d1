package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Defaults()

	require.Equal(t, "8080", c.AppPort)
	require.Equal(t, []string{"*"}, c.AllowedOrigins)
	require.Equal(t, "sqlite", c.DBDriver)
	require.Equal(t, filepath.Join("instance", "exhibition.db"), c.DBPath)
	require.Equal(t, filepath.Join("static", "uploads"), c.UploadDir)
	require.Equal(t, "exhibition_session", c.SessionName)
	require.Equal(t, 7*86400, c.SessionMaxAge)
	require.Equal(t, 10, c.CommentRatePerMinute)
	require.False(t, c.MetricsDisabled)
	require.Empty(t, c.SecretKey)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("SESSION_MAX_AGE", "3600")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("METRICS_DISABLED", "true")

	c := Defaults()
	require.NoError(t, applyEnvOverrides(&c))

	require.Equal(t, "9000", c.AppPort)
	require.Equal(t, "s3cret", c.SecretKey)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	require.Equal(t, "mysql", c.DBDriver)
	require.Equal(t, 3600, c.SessionMaxAge)
	require.True(t, c.CookieSecure)
	require.True(t, c.MetricsDisabled)
}

func TestEnvOverridesRejectBadInteger(t *testing.T) {
	t.Setenv("COMMENT_RATE_PER_MINUTE", "lots")

	c := Defaults()
	err := applyEnvOverrides(&c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "COMMENT_RATE_PER_MINUTE")
}

func TestLoadJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"AppPort": "7000", "SecretKey": "from-file", "AllowedOrigins": ["https://x.example"]},
		"database": {"Driver": "sqlite", "Path": "data/app.db"},
		"uploads": {"UploadDir": "media"},
		"session": {"Name": "sid", "MaxAge": 60, "Secure": true},
		"log": {"Level": "debug", "MaxBackups": 9}
	}`), 0o600))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))
	applyDefaults(&c)

	require.Equal(t, "7000", c.AppPort)
	require.Equal(t, "from-file", c.SecretKey)
	require.Equal(t, []string{"https://x.example"}, c.AllowedOrigins)
	require.Equal(t, "data/app.db", c.DBPath)
	require.Equal(t, "media", c.UploadDir)
	require.Equal(t, "static", c.StaticDir)
	require.Equal(t, "sid", c.SessionName)
	require.Equal(t, 60, c.SessionMaxAge)
	require.True(t, c.CookieSecure)
	require.Equal(t, "debug", c.LogLevel)
	require.Equal(t, 9, c.LogMaxBackups)
	require.Equal(t, 100, c.LogMaxSizeMB)
}

func TestLoadJSONConfigMissingOrInvalid(t *testing.T) {
	var c AppConfig
	require.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &c))

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	require.Error(t, loadJSONConfig(path, &c))
}

func TestOpenDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDatabase(AppConfig{DBDriver: "postgres"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpenDatabaseCreatesSqliteDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")
	db, err := OpenDatabase(AppConfig{DBDriver: "sqlite", DBPath: path, LogLevel: "silent"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)
}
