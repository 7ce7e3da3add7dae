package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Harvest Media web service credentials
	HarvestMedia HarvestMediaConfig

	// Path of the SQLite mutation journal
	// Default: ~/.local/share/harvestmedia/journal.db
	JournalPath string

	// Log settings
	LogLevel string
	LogFile  string
}

// HarvestMediaConfig holds web service specific configuration
type HarvestMediaConfig struct {
	APIKey        string
	WebServiceURL string
	MemberID      string

	// Timeout bounds each HTTP request
	Timeout time.Duration

	// RateLimit is the maximum number of requests per second (0 = unlimited)
	RateLimit float64
}

// Load reads configuration from file and environment.
//
// A .env file in the working directory is loaded first, so its values are
// visible through the HARVESTMEDIA_ environment variables. Variables that
// are already set are not overridden.
func Load() (*Config, error) {
	return load(getConfigDir(), ".env")
}

func load(configDir, envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetDefault("timeout", "30s")
	v.SetDefault("rate_limit", 0)
	v.SetDefault("journal_path", filepath.Join(getDataDir(), "journal.db"))
	v.SetDefault("log_level", "info")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("HARVESTMEDIA")
	v.AutomaticEnv()

	cfg := &Config{
		HarvestMedia: HarvestMediaConfig{
			APIKey:        v.GetString("api_key"),
			WebServiceURL: v.GetString("webservice_url"),
			MemberID:      v.GetString("member_id"),
			Timeout:       v.GetDuration("timeout"),
			RateLimit:     v.GetFloat64("rate_limit"),
		},
		JournalPath: v.GetString("journal_path"),
		LogLevel:    v.GetString("log_level"),
		LogFile:     v.GetString("log_file"),
	}

	return cfg, nil
}

// Validate reports whether the settings required to reach the web service
// are present.
func (c *Config) Validate() error {
	if c.HarvestMedia.APIKey == "" {
		return errors.New("api_key is not set (HARVESTMEDIA_API_KEY)")
	}
	if c.HarvestMedia.WebServiceURL == "" {
		return errors.New("webservice_url is not set (HARVESTMEDIA_WEBSERVICE_URL)")
	}
	if c.HarvestMedia.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.HarvestMedia.Timeout)
	}
	if c.HarvestMedia.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", c.HarvestMedia.RateLimit)
	}
	return nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "harvestmedia")
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// getDataDir returns the directory holding the journal database
func getDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share", "harvestmedia")
}

// Save writes configuration to file
func (c *Config) Save() error {
	return c.saveTo(getConfigDir())
}

func (c *Config) saveTo(configDir string) error {
	v := viper.New()

	configFile := filepath.Join(configDir, "config.yaml")

	v.Set("api_key", c.HarvestMedia.APIKey)
	v.Set("webservice_url", c.HarvestMedia.WebServiceURL)
	v.Set("member_id", c.HarvestMedia.MemberID)
	v.Set("timeout", c.HarvestMedia.Timeout.String())
	v.Set("rate_limit", c.HarvestMedia.RateLimit)
	v.Set("journal_path", c.JournalPath)
	v.Set("log_level", c.LogLevel)
	v.Set("log_file", c.LogFile)

	return v.WriteConfigAs(configFile)
}
