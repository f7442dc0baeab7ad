package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the scraper.
type Config struct {
	// Account credentials for fresh logins
	Account AccountConfig `yaml:"account" json:"account"`

	// Collection and pacing settings
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// AccountConfig holds the credentials used for fresh credentialed logins.
// Username and Password are required; Email is only needed when the remote
// service raises an email challenge during login.
type AccountConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	Email    string `yaml:"email" json:"email"`
}

// ScrapeConfig holds collection bounds, login retry policy and pacing delays.
type ScrapeConfig struct {
	MaxTweets       int           `yaml:"max_tweets" json:"max_tweets"`
	MaxLoginRetries int           `yaml:"max_login_retries" json:"max_login_retries"`
	RetryDelay      time.Duration `yaml:"retry_delay" json:"retry_delay"`
	MinDelay        time.Duration `yaml:"min_delay" json:"min_delay"`
	MaxDelay        time.Duration `yaml:"max_delay" json:"max_delay"`
	RequestTimeout  time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory       string `yaml:"base_directory" json:"base_directory"`
	CreateHandleFolders bool   `yaml:"create_handle_folders" json:"create_handle_folders"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			MaxTweets:       10000,
			MaxLoginRetries: 5,
			RetryDelay:      3 * time.Second,
			MinDelay:        1 * time.Second,
			MaxDelay:        3 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory:       "./tweets",
			CreateHandleFolders: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("XSCRAPER_USERNAME"); v != "" {
		c.Account.Username = v
	}
	if v := os.Getenv("XSCRAPER_PASSWORD"); v != "" {
		c.Account.Password = v
	}
	if v := os.Getenv("XSCRAPER_EMAIL"); v != "" {
		c.Account.Email = v
	}
	if v := os.Getenv("XSCRAPER_MAX_TWEETS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Scrape.MaxTweets = n
		}
	}
	if v := os.Getenv("XSCRAPER_MAX_LOGIN_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Scrape.MaxLoginRetries = n
		}
	}
	if v := os.Getenv("XSCRAPER_RETRY_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Scrape.RetryDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("XSCRAPER_MIN_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Scrape.MinDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("XSCRAPER_MAX_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Scrape.MaxDelay = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("XSCRAPER_OUTPUT_DIR"); v != "" {
		c.Output.BaseDirectory = v
	}
	if v := os.Getenv("XSCRAPER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".xscraper.yaml",
		".xscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "xscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "xscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".xscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Missing credentials are a
// hard failure: the run must abort before any network activity.
func (c *Config) Validate() error {
	var errs []error

	if c.Account.Username == "" {
		errs = append(errs, errors.New("account username is required"))
	}
	if c.Account.Password == "" {
		errs = append(errs, errors.New("account password is required"))
	}

	if c.Scrape.MaxTweets <= 0 {
		errs = append(errs, errors.New("max tweets must be positive"))
	}
	if c.Scrape.MaxLoginRetries <= 0 {
		errs = append(errs, errors.New("max login retries must be positive"))
	}
	if c.Scrape.RetryDelay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}
	if c.Scrape.MinDelay < 0 || c.Scrape.MaxDelay < 0 {
		errs = append(errs, errors.New("pacing delays cannot be negative"))
	}
	if c.Scrape.MaxDelay < c.Scrape.MinDelay {
		errs = append(errs, errors.New("max delay must not be smaller than min delay"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file may hold credentials.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["username"].(string); ok && v != "" {
		c.Account.Username = v
	}
	if v, ok := flags["password"].(string); ok && v != "" {
		c.Account.Password = v
	}
	if v, ok := flags["email"].(string); ok && v != "" {
		c.Account.Email = v
	}
	if v, ok := flags["max-tweets"].(int); ok && v > 0 {
		c.Scrape.MaxTweets = v
	}
	if v, ok := flags["max-login-retries"].(int); ok && v > 0 {
		c.Scrape.MaxLoginRetries = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.BaseDirectory = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: command line flags > environment variables > .env file >
// config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".xscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
