// Package config loads the layered application configuration.
//
// Precedence, lowest to highest: built-in defaults, an optional YAML config
// file, environment variables prefixed WORDFETCHER_ (dots become
// underscores, e.g. WORDFETCHER_SERVER_PORT).
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the root configuration document.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Data      DataConfig      `mapstructure:"data"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	Converter ConverterConfig `mapstructure:"converter"`
	Upload    UploadConfig    `mapstructure:"upload"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig configures logger construction.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// DataConfig locates on-disk state.
type DataConfig struct {
	// Root holds jobs/ and dicts/ subdirectories.
	Root string `mapstructure:"root"`

	// LexiconSeed is an optional YAML manifest used to seed the stopword
	// set and custom dictionary when the flat files do not exist yet.
	LexiconSeed string `mapstructure:"lexicon_seed"`
}

// AnalyzerConfig selects and tunes the analyzer backends.
type AnalyzerConfig struct {
	// Endpoint is the base URL of the remote joint segmenter/tagger/NER
	// service. Empty disables the remote backend; the statistical backend
	// is used for the process lifetime.
	Endpoint string `mapstructure:"endpoint"`

	// ProbeTimeout bounds the one-time availability probe at startup.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`

	// RequestTimeout bounds each remote analyze call.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ConverterConfig configures the external document converter.
type ConverterConfig struct {
	// SofficePath overrides binary resolution. Empty means consult
	// $SOFFICE_PATH, then PATH.
	SofficePath string `mapstructure:"soffice_path"`

	// Timeout bounds one conversion. The converter is the most
	// failure-prone external dependency, so it is never unbounded.
	Timeout time.Duration `mapstructure:"timeout"`
}

// UploadConfig bounds document uploads.
type UploadConfig struct {
	// MaxBytes caps the accepted request body size.
	MaxBytes int64 `mapstructure:"max_bytes"`

	// RatePerSecond limits upload requests. Zero disables limiting.
	RatePerSecond float64 `mapstructure:"rate_per_second"`

	// RateBurst is the limiter burst when RatePerSecond is set.
	RateBurst int `mapstructure:"rate_burst"`
}

// JobsDir returns the directory holding per-job state.
func (c *Config) JobsDir() string {
	return filepath.Join(c.Data.Root, "jobs")
}

// DictsDir returns the directory holding lexicon flat files.
func (c *Config) DictsDir() string {
	return filepath.Join(c.Data.Root, "dicts")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "STRUCTURED")

	v.SetDefault("data.root", "data")
	v.SetDefault("data.lexicon_seed", "")

	v.SetDefault("analyzer.endpoint", "")
	v.SetDefault("analyzer.probe_timeout", 3*time.Second)
	v.SetDefault("analyzer.request_timeout", 30*time.Second)

	v.SetDefault("converter.soffice_path", "")
	v.SetDefault("converter.timeout", 2*time.Minute)

	v.SetDefault("upload.max_bytes", int64(64<<20))
	v.SetDefault("upload.rate_per_second", 0.0)
	v.SetDefault("upload.rate_burst", 4)
}

// Load reads configuration from defaults, an optional file, and the
// environment. configFile may be empty.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WORDFETCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if cfg.Data.Root == "" {
		return nil, fmt.Errorf("data.root is required")
	}
	return &cfg, nil
}
