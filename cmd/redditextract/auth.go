package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"redditextract/pkg/auth"
	"redditextract/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Reddit API credentials",
	Long: `Manage stored Reddit API credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

To get credentials, create a "script" type application at
https://www.reddit.com/prefs/apps and copy its client ID and secret.`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store Reddit API credentials securely",
	Long: `Store Reddit API credentials in the system keychain or an encrypted file.

You will be prompted for:
  - An account name (a local label, if not provided)
  - Client ID (shown under the app name at reddit.com/prefs/apps)
  - Client secret (entered without echo)
  - User agent (optional, press Enter for the default)`,
	Example: `  # Interactive login
  redditextract auth login

  # Login with a name
  redditextract auth login research`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored accounts",
	Long:  `List all stored accounts with sanitized credential information.`,
	Run:   runStatus,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored credentials",
	Long: `Remove stored Reddit API credentials.

If no name is provided and exactly one account is stored, that account
is removed after confirmation.`,
	Example: `  # Remove the only stored account
  redditextract auth logout

  # Remove a specific account
  redditextract auth logout research`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if name == "" {
		fmt.Print("Account name: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read account name", err.Error())
			os.Exit(1)
		}
		name = strings.TrimSpace(input)
	}

	if name == "" {
		ui.PrintError("Account name is required", "")
		os.Exit(1)
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("Account '%s' already exists. Update credentials? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("Client ID: ")
	input, err := reader.ReadString('\n')
	if err != nil {
		ui.PrintError("Failed to read client ID", err.Error())
		os.Exit(1)
	}
	clientID := strings.TrimSpace(input)
	if clientID == "" {
		ui.PrintError("Client ID is required", "")
		os.Exit(1)
	}

	fmt.Print("Client secret (hidden): ")
	secret, err := readSecret()
	if err != nil {
		ui.PrintError("Failed to read client secret", err.Error())
		os.Exit(1)
	}
	if secret == "" {
		ui.PrintError("Client secret is required", "")
		os.Exit(1)
	}

	fmt.Print("User agent (press Enter for default): ")
	userAgent, _ := reader.ReadString('\n')
	userAgent = strings.TrimSpace(userAgent)

	account := &auth.Account{
		Name:         name,
		ClientID:     clientID,
		ClientSecret: secret,
		UserAgent:    userAgent,
		LastModified: time.Now(),
	}

	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Account saved: " + name)
	fmt.Println("\nRun an extraction with this account:")
	fmt.Printf("  redditextract extract <term> --account %s\n", name)
}

func runStatus(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'redditextract auth login' to add one")
		return
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Name: %s\n", i+1, sanitized.Name)
		fmt.Printf("   Client ID: %s\n", sanitized.ClientID)
		fmt.Printf("   Client Secret: %s\n", sanitized.ClientSecret)
		if sanitized.UserAgent != "" {
			fmt.Printf("   User Agent: %s\n", sanitized.UserAgent)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		accounts, err := manager.List()
		if err != nil || len(accounts) == 0 {
			ui.PrintError("No stored accounts found", "")
			return
		}
		if len(accounts) > 1 {
			ui.PrintError("Multiple accounts stored", "specify one by name")
			fmt.Println("\nUse 'redditextract auth status' to see stored accounts.")
			os.Exit(1)
		}

		name = accounts[0].Name
		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("Remove account '%s'? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	if err := manager.Delete(name); err != nil {
		ui.PrintError("Failed to remove account", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Account removed: " + name)
}

// readSecret reads a secret from stdin without echoing
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
