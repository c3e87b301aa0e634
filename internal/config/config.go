// Package config loads Artbridge settings from a YAML file, ARTBRIDGE_*
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/edumarques81/stellar-artbridge/internal/domain/artwork"
	"github.com/edumarques81/stellar-artbridge/internal/infra/cache"
)

// EnvPrefix is prepended to every environment override, e.g. ARTBRIDGE_MPD_HOST.
const EnvPrefix = "ARTBRIDGE"

// Config holds all application configuration.
type Config struct {
	LogLevel         string    `mapstructure:"log_level"`
	HTTPPort         int       `mapstructure:"http_port"`
	MPD              MPDConfig `mapstructure:"mpd"`
	MusicDir         string    `mapstructure:"music_dir"`
	CacheDir         string    `mapstructure:"cache_dir"` // empty selects the per-user cache directory
	DBPath           string    `mapstructure:"db_path"`
	RetentionDays    int       `mapstructure:"retention_days"`
	DebounceMS       int       `mapstructure:"debounce_ms"`
	MaxRemoteClients int       `mapstructure:"max_remote_clients"` // 0 for unlimited
}

// MPDConfig holds the player connection settings.
type MPDConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_port", 3001)
	v.SetDefault("mpd.host", "localhost")
	v.SetDefault("mpd.port", 6600)
	v.SetDefault("mpd.password", "")
	v.SetDefault("music_dir", "/var/lib/mpd/music")
	v.SetDefault("cache_dir", "")
	v.SetDefault("db_path", cache.DefaultDBPath)
	v.SetDefault("retention_days", int(artwork.DefaultRetention/(24*time.Hour)))
	v.SetDefault("debounce_ms", 150)
	v.SetDefault("max_remote_clients", 0)
}

// Load reads configuration into a new Config. configFile may be empty, in
// which case config.yaml is looked up in ~/.config/artbridge and the working
// directory; a missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "artbridge"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// expandPaths resolves a leading ~ in configured paths.
func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.MusicDir, &c.CacheDir, &c.DBPath} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand path %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	level := strings.ToLower(c.LogLevel)
	valid := false
	for _, l := range logLevels {
		if level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid log_level %q: must be one of %s", c.LogLevel, strings.Join(logLevels, ", "))
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port %d", c.HTTPPort)
	}
	if c.MPD.Port <= 0 || c.MPD.Port > 65535 {
		return fmt.Errorf("invalid mpd.port %d", c.MPD.Port)
	}
	if c.MPD.Host == "" {
		return errors.New("mpd.host must not be empty")
	}
	if c.RetentionDays <= 0 {
		return fmt.Errorf("invalid retention_days %d: must be positive", c.RetentionDays)
	}
	if c.DebounceMS < 0 {
		return fmt.Errorf("invalid debounce_ms %d", c.DebounceMS)
	}
	if c.MaxRemoteClients < 0 {
		return fmt.Errorf("invalid max_remote_clients %d", c.MaxRemoteClients)
	}
	return nil
}

// Retention returns the janitor retention window.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// DebounceWindow returns the broadcast debounce window.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ResolveCacheDir returns CacheDir, or the per-user default when unset.
func (c *Config) ResolveCacheDir() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	return artwork.DefaultCacheDir()
}
