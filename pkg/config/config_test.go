package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)

	assert.Equal(t, 10000, cfg.Scrape.MaxTweets)
	assert.Equal(t, 5, cfg.Scrape.MaxLoginRetries)
	assert.Equal(t, 3*time.Second, cfg.Scrape.RetryDelay)
	assert.Equal(t, 1*time.Second, cfg.Scrape.MinDelay)
	assert.Equal(t, 3*time.Second, cfg.Scrape.MaxDelay)
	assert.Equal(t, 30*time.Second, cfg.Scrape.RequestTimeout)

	assert.Equal(t, "./tweets", cfg.Output.BaseDirectory)
	assert.True(t, cfg.Output.CreateHandleFolders)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)

	// Credentials are never defaulted.
	assert.Empty(t, cfg.Account.Username)
	assert.Empty(t, cfg.Account.Password)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("XSCRAPER_USERNAME", "env_user")
	t.Setenv("XSCRAPER_PASSWORD", "env_pass")
	t.Setenv("XSCRAPER_EMAIL", "env@example.com")
	t.Setenv("XSCRAPER_MAX_TWEETS", "500")
	t.Setenv("XSCRAPER_MAX_LOGIN_RETRIES", "7")
	t.Setenv("XSCRAPER_RETRY_DELAY_MS", "1500")
	t.Setenv("XSCRAPER_MIN_DELAY_MS", "200")
	t.Setenv("XSCRAPER_MAX_DELAY_MS", "800")
	t.Setenv("XSCRAPER_OUTPUT_DIR", "/tmp/corpora")
	t.Setenv("XSCRAPER_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env_user", cfg.Account.Username)
	assert.Equal(t, "env_pass", cfg.Account.Password)
	assert.Equal(t, "env@example.com", cfg.Account.Email)
	assert.Equal(t, 500, cfg.Scrape.MaxTweets)
	assert.Equal(t, 7, cfg.Scrape.MaxLoginRetries)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scrape.RetryDelay)
	assert.Equal(t, 200*time.Millisecond, cfg.Scrape.MinDelay)
	assert.Equal(t, 800*time.Millisecond, cfg.Scrape.MaxDelay)
	assert.Equal(t, "/tmp/corpora", cfg.Output.BaseDirectory)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("XSCRAPER_MAX_TWEETS", "not-a-number")
	t.Setenv("XSCRAPER_MAX_LOGIN_RETRIES", "-3")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 10000, cfg.Scrape.MaxTweets)
	assert.Equal(t, 5, cfg.Scrape.MaxLoginRetries)
}

func TestLoadFromFile(t *testing.T) {
	content := `
account:
  username: fileuser
  password: filepass
scrape:
  max_tweets: 250
  retry_delay: 2000000000
output:
  base_directory: ./from-file
logging:
  level: warn
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "fileuser", cfg.Account.Username)
	assert.Equal(t, "filepass", cfg.Account.Password)
	assert.Equal(t, 250, cfg.Scrape.MaxTweets)
	assert.Equal(t, 2*time.Second, cfg.Scrape.RetryDelay)
	assert.Equal(t, "./from-file", cfg.Output.BaseDirectory)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Unset keys keep their defaults.
	assert.Equal(t, 5, cfg.Scrape.MaxLoginRetries)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account: [not a map"), 0600))

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(path))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Account.Username = "user"
		cfg.Account.Password = "pass"
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing username", func(t *testing.T) {
		cfg := valid()
		cfg.Account.Username = ""
		assert.ErrorContains(t, cfg.Validate(), "username")
	})

	t.Run("missing password", func(t *testing.T) {
		cfg := valid()
		cfg.Account.Password = ""
		assert.ErrorContains(t, cfg.Validate(), "password")
	})

	t.Run("non-positive max tweets", func(t *testing.T) {
		cfg := valid()
		cfg.Scrape.MaxTweets = 0
		assert.ErrorContains(t, cfg.Validate(), "max tweets")
	})

	t.Run("max delay below min delay", func(t *testing.T) {
		cfg := valid()
		cfg.Scrape.MinDelay = 5 * time.Second
		cfg.Scrape.MaxDelay = time.Second
		assert.ErrorContains(t, cfg.Validate(), "delay")
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Level = "loud"
		assert.ErrorContains(t, cfg.Validate(), "log level")
	})

	t.Run("multiple errors joined", func(t *testing.T) {
		cfg := valid()
		cfg.Account.Username = ""
		cfg.Account.Password = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorContains(t, err, "username")
		assert.ErrorContains(t, err, "password")
	})
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Account.Username = "original"

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"username":   "flaguser",
		"max-tweets": 42,
		"output":     "./flagged",
		"log-level":  "error",
	})

	assert.Equal(t, "flaguser", cfg.Account.Username)
	assert.Equal(t, 42, cfg.Scrape.MaxTweets)
	assert.Equal(t, "./flagged", cfg.Output.BaseDirectory)
	assert.Equal(t, "error", cfg.Logging.Level)

	// Empty or zero flag values never clobber existing settings.
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"username":   "",
		"max-tweets": 0,
	})
	assert.Equal(t, "flaguser", cfg.Account.Username)
	assert.Equal(t, 42, cfg.Scrape.MaxTweets)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Account.Username = "saved"
	cfg.Account.Password = "secret"
	cfg.Scrape.MaxTweets = 123
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "saved", loaded.Account.Username)
	assert.Equal(t, 123, loaded.Scrape.MaxTweets)
}

func TestLoadPrecedence(t *testing.T) {
	content := `
account:
  username: fileuser
  password: filepass
scrape:
  max_tweets: 100
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("XSCRAPER_MAX_TWEETS", "200")

	cfg, err := Load(path, map[string]interface{}{"max-tweets": 300})
	require.NoError(t, err)

	// Flags beat environment, environment beats file.
	assert.Equal(t, 300, cfg.Scrape.MaxTweets)
	assert.Equal(t, "fileuser", cfg.Account.Username)
}
