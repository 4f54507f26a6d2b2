package config

import (
	"strings"

	"github.com/marmos91/sftpbridge/internal/bytesize"
	"github.com/spf13/viper"
)

const (
	DefaultMetricsPort    = 9090
	DefaultMaxPacketSize  = 256 * bytesize.KiB
	DefaultCacheMaxEntries = 10000
)

// ApplyDefaults fills zero values and normalises case.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applyCodecDefaults(&cfg.Codec)
	applyCacheDefaults(&cfg.Cache)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
	if cfg.Level == "WARNING" {
		cfg.Level = "WARN"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = DefaultMetricsPort
	}
}

func applyCodecDefaults(cfg *CodecConfig) {
	if cfg.MaxPacketSize == 0 {
		cfg.MaxPacketSize = DefaultMaxPacketSize
	}
}

func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Type == "" {
		cfg.Type = CacheMemory
	}
	cfg.Type = strings.ToLower(cfg.Type)
	if cfg.Type == CacheMemory && cfg.MaxEntries == 0 {
		cfg.MaxEntries = DefaultCacheMaxEntries
	}
}

// registerDefaults seeds viper with every key. DecodeMetadata defaults to
// true, which a zero-value fill cannot express.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", DefaultMetricsPort)
	v.SetDefault("codec.max_packet_size", DefaultMaxPacketSize.String())
	v.SetDefault("codec.decode_metadata", true)
	v.SetDefault("cache.type", CacheMemory)
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.ttl", "0s")
	v.SetDefault("cache.max_entries", DefaultCacheMaxEntries)
}

// GetDefaultConfig returns the configuration used when nothing is set.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Codec: CodecConfig{DecodeMetadata: true},
	}
	ApplyDefaults(cfg)
	return cfg
}
