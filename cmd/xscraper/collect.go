package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"xscraper/pkg/auth"
	"xscraper/pkg/collector"
	"xscraper/pkg/config"
	"xscraper/pkg/logger"
	"xscraper/pkg/models"
	"xscraper/pkg/scraper"
	"xscraper/pkg/twitter"
)

var (
	// Collect command flags
	outputDir       string
	maxTweets       int
	accountName     string
	maxLoginRetries int
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect <handle>",
	Short: "Collect posts from an X user's timeline",
	Long: `Collect posts from an X user's timeline into a JSON corpus with an
engagement analytics report.

This command requires valid X credentials, configured through:
  - Stored credentials (use 'xscraper auth login' to store)
  - Environment variables (XSCRAPER_USERNAME and XSCRAPER_PASSWORD)
  - Configuration file

The collector writes tweets.json and report.json into a directory named
after the handle, reusing a persisted session when one is still valid.`,
	Example: `  # Collect using default settings
  xscraper collect jack

  # Collect at most 500 posts into a specific directory
  xscraper collect jack --max-tweets 500 --output ./corpora

  # Use a specific stored account
  xscraper collect jack --account myaccount`,
	Args: cobra.ExactArgs(1),
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for collected posts")
	collectCmd.Flags().IntVar(&maxTweets, "max-tweets", 0, "maximum number of posts to collect")
	collectCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	collectCmd.Flags().IntVar(&maxLoginRetries, "max-login-retries", 0, "maximum login attempts before giving up")
}

// apiClient adapts the concrete client's cursor to the pipeline's source
// interface.
type apiClient struct {
	*twitter.Client
}

func (c apiClient) SearchTweets(ctx context.Context, handle string) collector.TweetSource {
	return c.Client.SearchTweets(ctx, handle)
}

func runCollect(cmd *cobra.Command, args []string) error {
	handle := strings.TrimSpace(args[0])
	if !twitter.IsValidHandle(handle) {
		return fmt.Errorf("invalid handle: %q", handle)
	}

	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if maxTweets > 0 {
		flags["max-tweets"] = maxTweets
	}
	if maxLoginRetries > 0 {
		flags["max-login-retries"] = maxLoginRetries
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	// Fill missing credentials from the secure stores before validating.
	if cfg.Account.Username == "" || cfg.Account.Password == "" {
		fillStoredCredentials(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w\nRun 'xscraper auth login' to store credentials", err)
	}

	if err := logger.Initialize(logger.Options{Level: cfg.Logging.Level, File: firstNonEmpty(logFile, cfg.Logging.File)}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("handle", handle).Info("Starting collection run")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := twitter.NewClient(cfg.Scrape.RequestTimeout, log)
	s, err := scraper.New(apiClient{client}, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize scraper: %w", err)
	}

	report, err := s.Run(ctx, handle)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	printReport(handle, report)
	return nil
}

// loadConfig layers defaults, file, environment and flags without requiring
// credentials yet; credential validation happens after the stores are tried.
func loadConfig(flags map[string]interface{}) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg.MergeCommandLineFlags(flags)
	return cfg, nil
}

func fillStoredCredentials(cfg *config.Config) {
	manager, err := auth.NewManager()
	if err != nil {
		return
	}

	var cred *auth.Credential
	if accountName != "" {
		cred, err = manager.Retrieve(accountName)
	} else {
		cred, err = manager.RetrieveDefault()
	}
	if err != nil || cred == nil {
		return
	}

	cfg.Account.Username = cred.Username
	cfg.Account.Password = cred.Password
	if cfg.Account.Email == "" {
		cfg.Account.Email = cred.Email
	}
}

func printReport(handle string, report models.AnalyticsReport) {
	fmt.Printf("\nCollection complete for @%s\n", handle)
	fmt.Printf("  Total posts:   %d (%d direct, %d replies, %d retweets)\n",
		report.TotalTweets, report.DirectTweets, report.Replies, report.Retweets)
	fmt.Printf("  Engagement:    %d likes, %d retweets, %d replies (avg %s likes)\n",
		report.Engagement.TotalLikes, report.Engagement.TotalRetweets,
		report.Engagement.TotalReplies, report.Engagement.AverageLikes)
	fmt.Printf("  Time range:    %s to %s\n", report.TimeRange.Oldest, report.TimeRange.Newest)
	if len(report.TopTweets) > 0 {
		fmt.Println("  Top posts by likes:")
		for _, top := range report.TopTweets {
			fmt.Printf("    %6d  %s\n", top.Likes, top.Text)
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
