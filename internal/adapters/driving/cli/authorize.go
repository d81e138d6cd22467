package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	authorizeTenant tenantFlags
	authorizeOpen   bool
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Start the HubSpot authorization flow for a tenant",
	Long: `Print the HubSpot consent URL for a tenant.

The user approves access in the browser and HubSpot redirects to the
configured redirect URI, which must be served by 'crmlink serve'.

Examples:
  crmlink authorize --user u1 --org o1
  crmlink authorize --user u1 --org o1 --open`,
	RunE: runAuthorize,
}

func init() {
	authorizeTenant.register(authorizeCmd)
	authorizeCmd.Flags().BoolVar(&authorizeOpen, "open", false, "open the URL in the default browser")
	rootCmd.AddCommand(authorizeCmd)
}

func runAuthorize(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	url, err := authService.AuthorizationURL(commandContext(cmd), authorizeTenant.tenant())
	if err != nil {
		return fmt.Errorf("building authorization url: %w", err)
	}

	cmd.Println(url)

	if authorizeOpen {
		if err := openBrowser(url); err != nil {
			cmd.PrintErrf("Could not open browser: %v\n", err)
		}
	}
	return nil
}
