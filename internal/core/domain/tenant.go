package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Key policy names accepted in configuration.
const (
	KeyPolicyUserOrg = "user_org"
	KeyPolicyDomain  = "domain"
)

// TenantID identifies one installation of the integration.
// Which fields are meaningful depends on the KeyPolicy in use.
type TenantID struct {
	// UserID and OrgID identify the installation under the user_org policy.
	UserID string `json:"user_id,omitempty"`
	OrgID  string `json:"org_id,omitempty"`

	// Domain is the remote-assigned account domain (e.g. "acme.hubspot.com").
	Domain string `json:"domain,omitempty"`
}

// IsZero reports whether no identifying field is set.
func (t TenantID) IsZero() bool {
	return t.UserID == "" && t.OrgID == "" && t.Domain == ""
}

// String renders the tenant for logs.
func (t TenantID) String() string {
	if t.Domain != "" {
		return t.Domain
	}
	return t.UserID + "@" + t.OrgID
}

// KeyPolicy derives the storage key segment for a tenant.
type KeyPolicy interface {
	// Name returns the configuration name of the policy.
	Name() string

	// Key returns the key segment, or ErrInvalidTenant if the tenant
	// lacks the fields this policy needs.
	Key(t TenantID) (string, error)
}

// UserOrgPolicy keys tenants by (user id, organization id).
type UserOrgPolicy struct{}

// Name returns "user_org".
func (UserOrgPolicy) Name() string { return KeyPolicyUserOrg }

// Key returns "user:org" with both parts query-escaped so a colon inside
// either id cannot collide with another pair.
func (UserOrgPolicy) Key(t TenantID) (string, error) {
	if t.UserID == "" || t.OrgID == "" {
		return "", fmt.Errorf("%w: user_id and org_id are required", ErrInvalidTenant)
	}
	return url.QueryEscape(t.UserID) + ":" + url.QueryEscape(t.OrgID), nil
}

// DomainPolicy keys tenants by the remote account domain.
type DomainPolicy struct{}

// Name returns "domain".
func (DomainPolicy) Name() string { return KeyPolicyDomain }

// Key returns the lower-cased domain.
func (DomainPolicy) Key(t TenantID) (string, error) {
	d := strings.ToLower(strings.TrimSpace(t.Domain))
	if d == "" {
		return "", fmt.Errorf("%w: domain is required", ErrInvalidTenant)
	}
	return url.QueryEscape(d), nil
}

// KeyPolicyByName returns the policy registered under name.
func KeyPolicyByName(name string) (KeyPolicy, error) {
	switch name {
	case KeyPolicyUserOrg, "":
		return UserOrgPolicy{}, nil
	case KeyPolicyDomain:
		return DomainPolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tenant policy %q", ErrConfiguration, name)
	}
}
