// Package config loads sftpwire configuration.
//
// Sources, highest priority first:
//  1. CLI flags (applied by the caller)
//  2. Environment variables (SFTPBRIDGE_*, e.g. SFTPBRIDGE_LOGGING_LEVEL)
//  3. Configuration file (YAML)
//  4. Defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/marmos91/sftpbridge/internal/bytesize"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SFTPBRIDGE"

// Config is the full configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Codec   CodecConfig   `mapstructure:"codec" yaml:"codec"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is DEBUG, INFO, WARN or ERROR; normalised to upper case.
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR" yaml:"level"`

	// Format is text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is stdout, stderr or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// MetricsConfig controls the Prometheus endpoint. Disabled metrics cost a
// nil check per record.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port for /metrics. Default: 9090
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// CodecConfig tunes record decoding.
type CodecConfig struct {
	// MaxPacketSize bounds a single payload. Accepts "34000", "256KiB" ...
	// Default: 256KiB
	MaxPacketSize bytesize.ByteSize `mapstructure:"max_packet_size" validate:"gte=64" yaml:"max_packet_size"`

	// DecodeMetadata keeps the meta@sftp.ws ATTRS extension. When false it
	// is dropped like any other extension.
	DecodeMetadata bool `mapstructure:"decode_metadata" yaml:"decode_metadata"`
}

// Cache backend types.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheBadger = "badger"
)

// CacheConfig selects the attribute cache.
type CacheConfig struct {
	// Type is none, memory or badger.
	Type string `mapstructure:"type" validate:"required,oneof=none memory badger" yaml:"type"`

	// Path is the badger directory. Required for badger.
	Path string `mapstructure:"path" validate:"required_if=Type badger" yaml:"path,omitempty"`

	// TTL bounds entry age. Zero keeps entries until evicted.
	TTL time.Duration `mapstructure:"ttl" validate:"gte=0" yaml:"ttl"`

	// MaxEntries bounds the memory backend. Zero uses a default bound.
	MaxEntries int `mapstructure:"max_entries" validate:"gte=0" yaml:"max_entries"`
}

// Load reads configuration from configPath (or the default location when
// empty), the environment and defaults, then validates it. A missing file
// is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}
	return decode(v)
}

// decode unmarshals v, fills defaults and validates.
func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for an explicit path that has to exist.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = GetDefaultConfigPath()
	}
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Create one with:\n"+
			"  sftpwire config init --config %s", configPath, configPath)
	}
	return Load(configPath)
}

// SaveConfig writes cfg as YAML, creating parent directories.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// setupViper wires env overrides, defaults and the file location.
// Defaults are registered with viper so every key has an env binding even
// without a file.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// readConfigFile reports whether a file was read. Missing files are fine.
func readConfigFile(v *viper.Viper) (bool, error) {
	err := v.ReadInConfig()
	if err == nil {
		return true, nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("read config file: %w", err)
}

func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
	)
}

// byteSizeDecodeHook accepts "256KiB" style strings and plain numbers.
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	target := reflect.TypeOf(bytesize.ByteSize(0))
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != target {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return bytesize.Parse(v)
		case int:
			if v < 0 {
				return nil, fmt.Errorf("negative byte size %d", v)
			}
			return bytesize.ByteSize(v), nil
		case int64:
			if v < 0 {
				return nil, fmt.Errorf("negative byte size %d", v)
			}
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			if v < 0 {
				return nil, fmt.Errorf("negative byte size %v", v)
			}
			return bytesize.ByteSize(v), nil
		}
		return data, nil
	}
}

// durationDecodeHook accepts "30s" style strings; bare numbers are seconds.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	target := reflect.TypeOf(time.Duration(0))
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != target {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		}
		return data, nil
	}
}

// getConfigDir is $XDG_CONFIG_HOME/sftpbridge, ~/.config/sftpbridge, or ".".
func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sftpbridge")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "sftpbridge")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
