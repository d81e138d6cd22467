package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/crmlink/internal/connectors/hubspot"
)

var (
	settingsClientID     string
	settingsClientSecret string
	settingsRedirectURI  string
)

var settingsCmd = &cobra.Command{
	Use:         "settings",
	Short:       "Manage application settings",
	Long:        `View the effective configuration and set the HubSpot app credentials.`,
	Annotations: map[string]string{annotationSetup: setupConfig},
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: map[string]string{annotationSetup: setupConfig},
	RunE:        runSettingsShow,
}

var settingsClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Set the HubSpot app client id and secret",
	Long: `Store the HubSpot app credentials in config.toml.

Missing values are prompted for; the secret is read without echo.

Examples:
  crmlink settings client
  crmlink settings client --client-id abc --client-secret xyz`,
	Annotations: map[string]string{annotationSetup: setupConfig},
	RunE:        runSettingsClient,
}

func init() {
	settingsClientCmd.Flags().StringVar(&settingsClientID, "client-id", "", "HubSpot app client id")
	settingsClientCmd.Flags().StringVar(&settingsClientSecret, "client-secret", "", "HubSpot app client secret")
	settingsClientCmd.Flags().StringVar(&settingsRedirectURI, "redirect-uri", "", "OAuth redirect URI")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsClientCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cfg := appConfig

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[HubSpot]")
	cmd.Printf("  Client ID: %s\n", orNotSet(cfg.HubSpot.ClientID))
	if cfg.HubSpot.ClientSecret != "" {
		cmd.Printf("  Client Secret: %s\n", maskSecret(cfg.HubSpot.ClientSecret))
	} else {
		cmd.Printf("  Client Secret: (not set)\n")
	}
	cmd.Printf("  Redirect URI: %s\n", cfg.HubSpot.RedirectURI)
	cmd.Printf("  Scopes: %s\n", strings.Join(cfg.HubSpot.Scopes, " "))
	cmd.Printf("  API: %s\n", cfg.HubSpot.APIBaseURL)
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s\n", cfg.Store.Backend)
	cmd.Printf("  Credential TTL: %s\n", cfg.Store.CredentialTTL)
	cmd.Printf("  State TTL: %s\n", cfg.Store.StateTTL)
	cmd.Println()

	cmd.Println("[Auth]")
	cmd.Printf("  Tenant Policy: %s\n", cfg.Auth.TenantPolicy)
	cmd.Printf("  State Check: %s\n", cfg.Auth.StateCheck)
	cmd.Println()

	if err := cfg.Validate(); err != nil {
		cmd.Printf("Status: %v\n", err)
		cmd.Println(hubspot.SetupHint())
		return nil
	}
	cmd.Println("Status: configured")
	return nil
}

func runSettingsClient(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	id := settingsClientID
	if id == "" {
		cmd.Print("Client ID: ")
		id = readLine(reader)
	}
	secret := settingsClientSecret
	if secret == "" {
		cmd.Print("Client Secret: ")
		secret = readSecret(cmd.InOrStdin(), reader)
		cmd.Println()
	}
	if id == "" || secret == "" {
		return errors.New("client id and secret are required")
	}

	if err := configStore.Set("hubspot.client_id", id); err != nil {
		return fmt.Errorf("saving client id: %w", err)
	}
	if err := configStore.Set("hubspot.client_secret", secret); err != nil {
		return fmt.Errorf("saving client secret: %w", err)
	}
	if settingsRedirectURI != "" {
		if err := configStore.Set("hubspot.redirect_uri", settingsRedirectURI); err != nil {
			return fmt.Errorf("saving redirect uri: %w", err)
		}
	}

	cmd.Printf("Saved to %s\n", configStore.Path())
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n') //nolint:errcheck // EOF yields what was read
	return strings.TrimSpace(input)
}

// readSecret reads without echo when in is a terminal.
func readSecret(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
