package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Server settings
	Server ServerConfig `mapstructure:"server"`

	// Focus controller settings
	Focus FocusConfig `mapstructure:"focus"`

	// Default values for client commands
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// ServerConfig holds the control endpoint settings
type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	RefreshTimeout string `mapstructure:"refresh_timeout"`
	PollInterval   string `mapstructure:"poll_interval"`
	BufferCapacity int    `mapstructure:"buffer_capacity"`
}

// FocusConfig identifies the host application window for focus switching
type FocusConfig struct {
	AppName     string `mapstructure:"app_name"`
	BundlePath  string `mapstructure:"bundle_path"`
	WindowTitle string `mapstructure:"window_title"`
	Disabled    bool   `mapstructure:"disabled"`
}

// DefaultsConfig holds default values for client commands
type DefaultsConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Count    int    `mapstructure:"count"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Quiet:   false,
		Verbose: false,
		Server: ServerConfig{
			Port:           7788,
			RefreshTimeout: "30s",
			PollInterval:   "100ms",
			BufferCapacity: 500,
		},
		Defaults: DefaultsConfig{
			Endpoint: "http://127.0.0.1:7788",
			Count:    50,
		},
	}
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("editorctl")
	v.SetConfigType("yaml")

	// Config paths in order of precedence, lowest first
	v.AddConfigPath("/etc/editorctl/")
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "editorctl"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".editorctl")
	}
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("EDITORCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.BindEnv("format", "EDITORCTL_FORMAT")
	v.BindEnv("quiet", "EDITORCTL_QUIET")
	v.BindEnv("verbose", "EDITORCTL_VERBOSE")
	v.BindEnv("server.port", "EDITORCTL_PORT")
	v.BindEnv("server.refresh_timeout", "EDITORCTL_REFRESH_TIMEOUT")
	v.BindEnv("focus.app_name", "EDITORCTL_FOCUS_APP")
	v.BindEnv("defaults.endpoint", "EDITORCTL_ENDPOINT")

	// Set defaults
	cfg := Default()
	v.SetDefault("format", cfg.Format)
	v.SetDefault("quiet", cfg.Quiet)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.refresh_timeout", cfg.Server.RefreshTimeout)
	v.SetDefault("server.poll_interval", cfg.Server.PollInterval)
	v.SetDefault("server.buffer_capacity", cfg.Server.BufferCapacity)
	v.SetDefault("defaults.endpoint", cfg.Defaults.Endpoint)
	v.SetDefault("defaults.count", cfg.Defaults.Count)

	// Try to read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that was loaded
func ConfigFile() string {
	v := viper.New()

	v.SetConfigName("editorctl")
	v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	v.SetConfigName(".editorctl")
	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	return ""
}
