// Package conf loads and validates the application configuration.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/cityfix/cityfix-go/internal/errors"
)

// Settings contains all application settings
type Settings struct {
	Main struct {
		Name    string `mapstructure:"name"`    // instance name, used in logs
		DataDir string `mapstructure:"datadir"` // directory for durable data
		LogDir  string `mapstructure:"logdir"`  // directory for service log files
		Debug   bool   `mapstructure:"debug"`   // enable debug logging
	} `mapstructure:"main"`

	Store struct {
		Backend string `mapstructure:"backend"` // "jsonfile" or "sqlite"
		JSONFile struct {
			Path string `mapstructure:"path"` // reports document, relative to datadir if not absolute
		} `mapstructure:"jsonfile"`
		SQLite struct {
			Path string `mapstructure:"path"` // database file, relative to datadir if not absolute
		} `mapstructure:"sqlite"`
	} `mapstructure:"store"`

	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`

	Geocode struct {
		Enabled   bool          `mapstructure:"enabled"`
		BaseURL   string        `mapstructure:"baseurl"`
		Timeout   time.Duration `mapstructure:"timeout"`
		CacheTTL  time.Duration `mapstructure:"cachettl"`
		UserAgent string        `mapstructure:"useragent"`
	} `mapstructure:"geocode"`

	Security struct {
		// AdminSecret is compared verbatim against the admin login
		// password. This is not a real authentication mechanism: the
		// secret is visible to anyone with access to the config file
		// and exists only to gate the admin surface of a single-device
		// deployment.
		AdminSecret string `mapstructure:"adminsecret"`
	} `mapstructure:"security"`
}

// Backend names accepted by Store.Backend.
const (
	StoreBackendJSONFile = "jsonfile"
	StoreBackendSQLite   = "sqlite"
)

// Load reads the configuration file and environment into a Settings
// struct. The result is passed down to every component that needs it;
// there is no process-wide instance.
func Load() (*Settings, error) {
	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	viper.SetEnvPrefix("cityfix")
	viper.AutomaticEnv()

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the default config file to the first default
// config path and re-reads it.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := os.MkdirAll(configPaths[0], 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	return viper.ReadInConfig()
}

// GetDefaultConfigPaths returns the candidate directories for config.yaml,
// most specific first: the working directory, then the user config dir.
func GetDefaultConfigPaths() ([]string, error) {
	paths := []string{"."}
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "cityfix"))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "cityfix"))
	}
	if len(paths) == 0 {
		return nil, errors.Newf("no usable config paths").
			Category(errors.CategoryConfiguration).
			Component("conf").
			Build()
	}
	return paths, nil
}

// ResolveDataPath joins path with the configured data directory unless it
// is already absolute.
func (s *Settings) ResolveDataPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Main.DataDir, path)
}

// ResolveLogPath joins path with the configured log directory unless it
// is already absolute.
func (s *Settings) ResolveLogPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Main.LogDir, path)
}
