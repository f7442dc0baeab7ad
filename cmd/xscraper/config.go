package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"xscraper/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage xscraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (XSCRAPER_ prefix)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created as '.xscraper.yaml' in the current directory unless a
different path is given with the --config flag.`,
	RunE: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration assembled from all sources.

Sensitive values like the account password are masked.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".xscraper.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	cfg := config.DefaultConfig()
	cfg.Account.Username = "YOUR_USERNAME"
	cfg.Account.Password = "YOUR_PASSWORD"

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("Edit the account section or store credentials with 'xscraper auth login'.")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	// Never print the real password.
	shown := *cfg
	if shown.Account.Password != "" {
		shown.Account.Password = "********"
	}

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	fmt.Print(string(data))
	return nil
}
