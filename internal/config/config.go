package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultURLPrefix is the URL prefix used when none is configured.
const DefaultURLPrefix = "/flaskstore"

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	S3      S3Config      `mapstructure:"s3"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// Address returns the HTTP listen address
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig holds file store configuration
type StoreConfig struct {
	Provider    string `mapstructure:"provider"` // local, s3
	BasePath    string `mapstructure:"base_path"`
	URLPrefix   string `mapstructure:"url_prefix"`
	Domain      string `mapstructure:"domain"`      // optional scheme+host for absolute URLs
	Destination string `mapstructure:"destination"` // optional sub-namespace under base_path
}

// ApplyDefaults fills unset store settings. Values the host application
// set explicitly are never overwritten, so calling it repeatedly is safe.
func (s *StoreConfig) ApplyDefaults() error {
	if s.BasePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		s.BasePath = cwd
	}
	if s.URLPrefix == "" {
		s.URLPrefix = DefaultURLPrefix
	}

	// Base path is always absolute before any join happens downstream.
	abs, err := filepath.Abs(s.BasePath)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}
	s.BasePath = abs

	return nil
}

// IsLocal returns true if the store provider is the local filesystem
func (s *StoreConfig) IsLocal() bool {
	return strings.ToLower(s.Provider) == "local" || s.Provider == ""
}

// IsS3 returns true if the store provider is S3
func (s *StoreConfig) IsS3() bool {
	return strings.ToLower(s.Provider) == "s3"
}

// S3Config holds S3 provider configuration
type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	Endpoint     string `mapstructure:"endpoint"`       // For S3-compatible services
	UsePathStyle bool   `mapstructure:"use_path_style"` // For MinIO and friends
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"` // debug, info, warn, error
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"` // stdout or a file path
}

// Load reads configuration from file and environment variables
// It supports loading from:
// 1. Explicit file path (if provided and exists on filesystem)
// 2. Common filesystem locations
// 3. Environment variables (always applied as overrides)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")

	v.SetEnvPrefix("GOSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configLoaded := false

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			configLoaded = true
		}
	}

	if !configLoaded {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/gostore")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// Config file not found; rely on defaults and env vars
		}
	}

	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Store.ApplyDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	// Store defaults; base_path defaults to the working directory at
	// startup, applied in StoreConfig.ApplyDefaults
	v.SetDefault("store.provider", "local")
	v.SetDefault("store.url_prefix", DefaultURLPrefix)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// overrideFromEnv handles special environment variable overrides
func overrideFromEnv(v *viper.Viper) {
	// S3 credentials from env
	if accessKey := os.Getenv("GOSTORE_S3_ACCESS_KEY"); accessKey != "" {
		v.Set("s3.access_key", accessKey)
	}
	if secretKey := os.Getenv("GOSTORE_S3_SECRET_KEY"); secretKey != "" {
		v.Set("s3.secret_key", secretKey)
	}
}

// Validate checks the configuration for missing or inconsistent settings
func (c *Config) Validate() error {
	if !c.Store.IsLocal() && !c.Store.IsS3() {
		return fmt.Errorf("unsupported store provider: %s", c.Store.Provider)
	}

	if c.Store.IsLocal() && c.Store.BasePath == "" {
		return fmt.Errorf("base_path is required for the local store")
	}

	if c.Store.IsS3() {
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required for the s3 store")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("s3.region is required for the s3 store")
		}
	}

	return nil
}
