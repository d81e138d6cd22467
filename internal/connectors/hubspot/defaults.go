package hubspot

import (
	"time"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

// HubSpot endpoints.
const (
	DefaultAuthURL    = "https://app.hubspot.com/oauth/authorize"
	DefaultTokenURL   = "https://api.hubapi.com/oauth/v1/token"
	DefaultAPIBaseURL = "https://api.hubapi.com"
)

const (
	// PageSize is the number of records requested per object type.
	PageSize = 50

	// DefaultTimeout bounds every API call.
	DefaultTimeout = 30 * time.Second
)

// DefaultScopes are the read scopes for the three supported object types.
var DefaultScopes = []string{
	"crm.objects.contacts.read",
	"crm.objects.companies.read",
	"crm.objects.deals.read",
}

// DefaultProperties returns the property projection for each object type.
func DefaultProperties() map[domain.ObjectType][]string {
	return map[domain.ObjectType][]string{
		domain.ObjectContacts:  {"email", "firstname", "lastname", "company"},
		domain.ObjectCompanies: {"name", "domain"},
		domain.ObjectDeals:     {"dealname", "amount", "dealstage"},
	}
}

// SetupHint returns guidance for registering a HubSpot app.
func SetupHint() string {
	return "Create an app at developers.hubspot.com, add the redirect URL and " +
		"the crm.objects.{contacts,companies,deals}.read scopes, then copy the " +
		"client id and secret into config.toml or HUBSPOT_CLIENT_ID / HUBSPOT_CLIENT_SECRET"
}
