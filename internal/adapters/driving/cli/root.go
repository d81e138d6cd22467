// Package cli provides the cobra command tree for crmlink.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/crmlink/internal/adapters/driven/config/file"
	"github.com/custodia-labs/crmlink/internal/app"
	"github.com/custodia-labs/crmlink/internal/config"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
	"github.com/custodia-labs/crmlink/internal/core/ports/driving"
	"github.com/custodia-labs/crmlink/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// annotationSetup marks how much of the application a command needs.
const (
	annotationSetup = "setup"
	setupNone       = "none"
	setupConfig     = "config"
)

var (
	configDir string
	verbose   bool
)

// Services consumed by the commands. Set by bootstrap or injected with
// SetServices.
var (
	appConfig   config.Config
	configStore driven.ConfigStore
	authService driving.AuthService
	itemService driving.ItemService
	appLog      = logger.NewSilent()
	closeApp    func() error
)

var rootCmd = &cobra.Command{
	Use:   "crmlink",
	Short: "Connect HubSpot CRM accounts and list their records",
	Long: `crmlink runs the HubSpot OAuth 2.0 authorization flow for each tenant,
keeps the stored tokens fresh and lists contacts, companies and deals as
uniform integration items.

Configuration is read from ~/.crmlink/config.toml (or --config-dir) and the
HUBSPOT_CLIENT_ID, HUBSPOT_CLIENT_SECRET, HUBSPOT_REDIRECT_URI, REDIS_URL,
FRONTEND_BASE_URL and CRMLINK_STORE environment variables.`,
	SilenceUsage:       true,
	PersistentPreRunE:  bootstrap,
	PersistentPostRunE: shutdown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.crmlink)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// SetServices injects the services commands use, bypassing bootstrap.
func SetServices(cfg config.Config, store driven.ConfigStore, auth driving.AuthService, items driving.ItemService) {
	appConfig = cfg
	configStore = store
	authService = auth
	itemService = items
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	setup := cmd.Annotations[annotationSetup]
	if setup == setupNone {
		return nil
	}

	if configStore == nil {
		store, err := file.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		configStore = store

		cfg, err := config.Load(store)
		if err != nil {
			return err
		}
		if cfg.Store.SQLiteDir == "" && configDir != "" {
			cfg.Store.SQLiteDir = filepath.Join(configDir, "data")
		}
		appConfig = cfg
		appLog = logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	}

	if setup == setupConfig || authService != nil {
		return nil
	}

	a, err := app.New(cmd.Context(), appConfig, appLog)
	if err != nil {
		return err
	}
	authService = a.Auth
	itemService = a.Items
	closeApp = a.Close
	return nil
}

func shutdown(_ *cobra.Command, _ []string) error {
	if closeApp == nil {
		return nil
	}
	err := closeApp()
	closeApp = nil
	return err
}

func requireServices() error {
	if authService == nil || itemService == nil {
		return errors.New("services not configured")
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
