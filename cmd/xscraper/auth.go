package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"xscraper/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage X credentials",
	Long: `Manage stored X credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store X credentials securely",
	Long: `Store X credentials securely in the system keychain or encrypted file.

You will be prompted for:
  - X username (if not provided)
  - Password (hidden as you type)
  - Email (optional, used when login raises an email challenge)`,
	Example: `  # Interactive login
  xscraper auth login

  # Login with username
  xscraper auth login myusername`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogin,
}

// removeCmd represents the auth remove command
var removeCmd = &cobra.Command{
	Use:   "remove <username>",
	Short: "Remove stored credentials",
	Long:  `Remove stored X credentials for a specific account.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored X accounts with passwords masked.`,
	RunE:  runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(removeCmd)
	authCmd.AddCommand(listCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	var username string
	if len(args) > 0 {
		username = args[0]
	}
	if username == "" {
		fmt.Print("X username: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(input)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	if existing, _ := manager.Retrieve(username); existing != nil {
		fmt.Printf("Account '%s' already exists. Update credentials? (y/N): ", username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Print("Password (hidden): ")
	password, err := readPassword()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	fmt.Print("Email for login challenges (optional): ")
	emailInput, _ := reader.ReadString('\n')
	email := strings.TrimSpace(emailInput)

	cred := &auth.Credential{
		Username: username,
		Password: password,
		Email:    email,
	}
	if err := manager.Store(cred); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	fmt.Printf("Credentials stored for '%s'\n", username)
	return nil
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	username := args[0]
	if err := manager.Delete(username); err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}

	fmt.Printf("Removed credentials for '%s'\n", username)
	return nil
}

func runAuthList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	creds, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}
	if len(creds) == 0 {
		fmt.Println("No stored accounts. Run 'xscraper auth login' to add one.")
		return nil
	}

	fmt.Println("Stored accounts:")
	for _, cred := range creds {
		masked := auth.Sanitize(cred)
		fmt.Printf("  %-20s password: %s", masked.Username, masked.Password)
		if masked.Email != "" {
			fmt.Printf("  email: %s", masked.Email)
		}
		fmt.Println()
	}
	return nil
}

// readPassword reads a line without echoing it to the terminal.
func readPassword() (string, error) {
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
