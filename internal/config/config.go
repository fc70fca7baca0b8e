// Package config loads ogpix settings from environment variables, an
// optional config file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Render RenderConfig `mapstructure:"render"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Redis  RedisConfig  `mapstructure:"redis"`
	MinIO  MinIOConfig  `mapstructure:"minio"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RenderConfig bounds the render engine.
type RenderConfig struct {
	Workers      int           `mapstructure:"workers"`
	LogoTimeout  time.Duration `mapstructure:"logo_timeout"`
	LogoMaxBytes int64         `mapstructure:"logo_max_bytes"`
	FontPath     string        `mapstructure:"font_path"`
}

// AuthConfig lists the API keys accepted by the server. An empty list
// disables key checks.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

// RedisConfig configures the rendered-image cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MinIOConfig configures snapshot storage. An empty Endpoint disables it.
type MinIOConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Bucket          string        `mapstructure:"bucket"`
	PresignTTL      time.Duration `mapstructure:"presign_ttl"`
}

// Enabled reports whether a cache address is configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// Enabled reports whether a storage endpoint is configured.
func (m MinIOConfig) Enabled() bool { return m.Endpoint != "" }

// SlogLevel maps Level to a slog level. Unknown values select info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads configuration from the environment and, when path is not
// empty, from the file at path. Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("ogpix")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Auth.APIKeys = splitKeys(cfg.Auth.APIKeys)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("render.workers", 0)
	v.SetDefault("render.logo_timeout", 3*time.Second)
	v.SetDefault("render.logo_max_bytes", 2<<20)
	v.SetDefault("render.font_path", "")
	v.SetDefault("auth.api_keys", []string{})
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "ogpix")
	v.SetDefault("minio.presign_ttl", 24*time.Hour)
}

// bindEnv maps the conventional unprefixed variable names used by
// container deployments.
func bindEnv(v *viper.Viper) error {
	mappings := map[string][]string{
		"server.addr":             {"OGPIX_ADDR"},
		"log.level":               {"OGPIX_LOG_LEVEL"},
		"auth.api_keys":           {"OGPIX_API_KEYS"},
		"redis.addr":              {"OGPIX_REDIS_ADDR", "REDIS_ADDR"},
		"redis.password":          {"OGPIX_REDIS_PASSWORD", "REDIS_PASSWORD"},
		"minio.endpoint":          {"OGPIX_MINIO_ENDPOINT", "MINIO_ENDPOINT"},
		"minio.access_key_id":     {"OGPIX_MINIO_ACCESS_KEY_ID", "MINIO_ACCESS_KEY_ID"},
		"minio.secret_access_key": {"OGPIX_MINIO_SECRET_ACCESS_KEY", "MINIO_SECRET_ACCESS_KEY"},
		"minio.use_ssl":           {"OGPIX_MINIO_USE_SSL", "MINIO_USE_SSL"},
		"minio.bucket":            {"OGPIX_MINIO_BUCKET", "MINIO_BUCKET"},
	}

	for key, envs := range mappings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("bind %s to %v: %w", key, envs, err)
		}
	}
	return nil
}

// splitKeys accepts both a list and a single comma-separated string, which
// is how a list arrives from an environment variable.
func splitKeys(in []string) []string {
	var out []string
	for _, item := range in {
		for _, k := range strings.Split(item, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}

func validate(cfg Config) error {
	if cfg.Server.Addr == "" {
		return errors.New("server addr is required")
	}
	if cfg.Render.Workers < 0 {
		return errors.New("render workers must not be negative")
	}
	if cfg.Render.LogoTimeout <= 0 {
		return errors.New("render logo timeout must be positive")
	}
	if cfg.Render.LogoMaxBytes <= 0 {
		return errors.New("render logo max bytes must be positive")
	}
	if cfg.Redis.Enabled() && cfg.Redis.TTL <= 0 {
		return errors.New("redis ttl must be positive")
	}
	if cfg.MinIO.Enabled() {
		if cfg.MinIO.AccessKeyID == "" {
			return errors.New("minio access key id is required")
		}
		if cfg.MinIO.SecretAccessKey == "" {
			return errors.New("minio secret access key is required")
		}
		if cfg.MinIO.Bucket == "" {
			return errors.New("minio bucket is required")
		}
		if cfg.MinIO.PresignTTL <= 0 {
			return errors.New("minio presign ttl must be positive")
		}
	}
	return nil
}
