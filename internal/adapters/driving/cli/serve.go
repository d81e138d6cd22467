package cli

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/crmlink/internal/adapters/driving/http"
	"github.com/custodia-labs/crmlink/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Serve the authorization, callback and item endpoints:

  GET    /integrations/hubspot/authorize
  GET    /integrations/hubspot/oauth2callback
  GET    /integrations/hubspot/items
  GET    /integrations/hubspot/status
  DELETE /integrations/hubspot/credentials
  GET    /healthz

The HubSpot redirect URI must point at the oauth2callback route.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := appConfig.Validate(); err != nil {
		return err
	}
	if err := requireServices(); err != nil {
		return err
	}

	if !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := serveAddr
	if addr == "" {
		addr = appConfig.Server.Addr
	}

	handler := http.NewHandler(authService, itemService, appConfig.SuccessRedirect(), appLog)
	server := http.NewServer(addr, handler, appConfig.Server.AllowedOrigins, appLog)

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Listening on %s\n", addr)
	return server.Run(ctx)
}
