package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	statusTenant     tenantFlags
	disconnectTenant tenantFlags
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a tenant is connected",
	RunE:  runStatus,
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Delete a tenant's stored HubSpot credentials",
	RunE:  runDisconnect,
}

func init() {
	statusTenant.register(statusCmd)
	disconnectTenant.register(disconnectCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(disconnectCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	tenant := statusTenant.tenant()
	status, err := authService.Status(commandContext(cmd), tenant)
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	cmd.Printf("Tenant:    %s\n", tenant)
	if !status.Connected {
		cmd.Println("Connected: no")
		cmd.Println()
		cmd.Println("Run 'crmlink authorize' to connect this tenant.")
		return nil
	}

	cmd.Println("Connected: yes")
	cmd.Printf("Expires:   %s\n", status.ExpiresAt.Local().Format(time.RFC3339))
	if status.NeedsRefresh {
		cmd.Println("           (refreshed on next use)")
	}
	if status.HubDomain != "" {
		cmd.Printf("Account:   %s\n", status.HubDomain)
	}
	if status.Scope != "" {
		cmd.Printf("Scopes:    %s\n", status.Scope)
	}
	return nil
}

func runDisconnect(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	tenant := disconnectTenant.tenant()
	if err := authService.Disconnect(commandContext(cmd), tenant); err != nil {
		return fmt.Errorf("disconnecting: %w", err)
	}

	cmd.Printf("Disconnected %s\n", tenant)
	return nil
}
