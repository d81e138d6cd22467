package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

type tenantFlags struct {
	userID string
	orgID  string
	domain string
}

func (f *tenantFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.userID, "user", "", "user id (user_org tenant policy)")
	cmd.Flags().StringVar(&f.orgID, "org", "", "organization id (user_org tenant policy)")
	cmd.Flags().StringVar(&f.domain, "domain", "", "HubSpot account domain (domain tenant policy)")
}

func (f *tenantFlags) tenant() domain.TenantID {
	return domain.TenantID{UserID: f.userID, OrgID: f.orgID, Domain: f.domain}
}

func (f *tenantFlags) reset() {
	*f = tenantFlags{}
}
