package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// The session secret has no default inside code and must be provided via config.json or the environment.
type AppConfig struct {
	AppPort        string
	SecretKey      string
	AllowedOrigins []string
	// Database
	DBDriver    string // sqlite | mysql
	DBPath      string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Files
	StaticDir string
	UploadDir string
	// Session cookie
	SessionName   string
	SessionMaxAge int
	CookieSecure  bool
	// Comments posted per minute per client IP
	CommentRatePerMinute int
	MetricsDisabled      bool
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> environment variable overrides
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		log.Fatalf("invalid config/config.json: %v", err)
	}
	applyDefaults(&cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.SecretKey == "" {
		log.Fatal("SECRET_KEY must be set in config.json or environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Defaults returns a configuration with every default applied and no file or env input.
func Defaults() AppConfig {
	var c AppConfig
	applyDefaults(&c)
	return c
}

// loadJSONConfig reads grouped JSON sections into out. A missing file is not an error.
func loadJSONConfig(path string, out *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if s, ok := m[key].(string); ok {
			return s
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if f, ok := m[key].(float64); ok {
			return int(f)
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		b, _ := m[key].(bool)
		return b
	}
	getStringSlice := func(m map[string]any, key string) []string {
		arr, ok := m[key].([]any)
		if !ok {
			return nil
		}
		res := make([]string, 0, len(arr))
		for _, it := range arr {
			if s, ok := it.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}

	if app, ok := raw["app"]; ok {
		out.AppPort = getString(app, "AppPort")
		out.SecretKey = getString(app, "SecretKey")
		out.AllowedOrigins = getStringSlice(app, "AllowedOrigins")
		out.CommentRatePerMinute = getInt(app, "CommentRatePerMinute")
		out.MetricsDisabled = getBool(app, "MetricsDisabled")
	}

	if dbs, ok := raw["database"]; ok {
		out.DBDriver = getString(dbs, "Driver")
		out.DBPath = getString(dbs, "Path")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if up, ok := raw["uploads"]; ok {
		out.StaticDir = getString(up, "StaticDir")
		out.UploadDir = getString(up, "UploadDir")
	}

	if ss, ok := raw["session"]; ok {
		out.SessionName = getString(ss, "Name")
		out.SessionMaxAge = getInt(ss, "MaxAge")
		out.CookieSecure = getBool(ss, "Secure")
	}

	if g, ok := raw["gin"]; ok {
		out.GinMode = getString(g, "Mode")
		out.GinPath = getString(g, "LogPath")
	}

	if lg, ok := raw["log"]; ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBDriver == "" {
		c.DBDriver = "sqlite"
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join("instance", "exhibition.db")
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "exhibition"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join(c.StaticDir, "uploads")
	}
	if c.SessionName == "" {
		c.SessionName = "exhibition_session"
	}
	if c.SessionMaxAge == 0 {
		c.SessionMaxAge = 86400 * 7
	}
	if c.CommentRatePerMinute == 0 {
		c.CommentRatePerMinute = 10
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		*dst = i
		return nil
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			*dst = v == "true"
		}
	}

	setString("APP_PORT", &c.AppPort)
	setString("SECRET_KEY", &c.SecretKey)
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	setString("DB_DRIVER", &c.DBDriver)
	setString("DB_PATH", &c.DBPath)
	setString("DATABASE_URI", &c.DatabaseURI)
	setString("DB_HOST", &c.DBHost)
	setString("DB_PORT", &c.DBPort)
	setString("DB_USER", &c.DBUser)
	setString("DB_PASSWORD", &c.DBPassword)
	setString("DB_NAME", &c.DBName)
	setString("STATIC_DIR", &c.StaticDir)
	setString("UPLOAD_DIR", &c.UploadDir)
	setString("SESSION_NAME", &c.SessionName)
	setBool("COOKIE_SECURE", &c.CookieSecure)
	setBool("METRICS_DISABLED", &c.MetricsDisabled)
	setString("GIN_MODE", &c.GinMode)
	setString("GIN_PATH", &c.GinPath)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_PATH", &c.LogPath)
	setBool("LOG_COMPRESS", &c.LogCompress)

	for key, dst := range map[string]*int{
		"SESSION_MAX_AGE":         &c.SessionMaxAge,
		"COMMENT_RATE_PER_MINUTE": &c.CommentRatePerMinute,
		"LOG_MAX_SIZE_MB":         &c.LogMaxSizeMB,
		"LOG_MAX_BACKUPS":         &c.LogMaxBackups,
		"LOG_MAX_AGE_DAYS":        &c.LogMaxAgeDays,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
