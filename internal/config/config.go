package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Log verbosity: debug, info, warn, error
	LogLevel string

	// Telegram bot credentials and admin list
	Telegram TelegramConfig

	// Catalog API settings
	Catalog CatalogConfig

	// Delay between sequential sends in a batch download (in milliseconds)
	SendDelayMS int

	// Delay between broadcast recipients (in milliseconds)
	BroadcastDelayMS int
}

// TelegramConfig holds Telegram specific configuration
type TelegramConfig struct {
	Token    string
	AdminIDs []int64
}

// CatalogConfig holds catalog API specific configuration
type CatalogConfig struct {
	BaseURL string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("send_delay_ms", 1000)
	v.SetDefault("broadcast_delay_ms", 50)

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("GROOVIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		LogLevel: v.GetString("log_level"),
		Telegram: TelegramConfig{
			Token:    v.GetString("telegram.token"),
			AdminIDs: toInt64s(v.GetIntSlice("telegram.admin_ids")),
		},
		Catalog: CatalogConfig{
			BaseURL: v.GetString("catalog.base_url"),
		},
		SendDelayMS:      v.GetInt("send_delay_ms"),
		BroadcastDelayMS: v.GetInt("broadcast_delay_ms"),
	}

	return cfg, nil
}

// Validate checks that the configuration is usable for running the bot
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram.token is required (or set GROOVIA_TELEGRAM_TOKEN)")
	}
	return nil
}

func toInt64s(in []int) []int64 {
	out := make([]int64, len(in))
	for i, n := range in {
		out[i] = int64(n)
	}
	return out
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "groovia")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	// Set config file path
	configDir := getConfigDir()
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("log_level", c.LogLevel)
	v.Set("telegram.token", c.Telegram.Token)
	v.Set("telegram.admin_ids", c.Telegram.AdminIDs)
	v.Set("catalog.base_url", c.Catalog.BaseURL)
	v.Set("send_delay_ms", c.SendDelayMS)
	v.Set("broadcast_delay_ms", c.BroadcastDelayMS)

	// Write to file
	return v.WriteConfigAs(configFile)
}
