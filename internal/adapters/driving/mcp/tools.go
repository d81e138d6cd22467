package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

// TenantInput identifies the installation a tool acts on.
type TenantInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user id (user_org tenant policy)"`
	OrgID  string `json:"org_id,omitempty" jsonschema:"organization id (user_org tenant policy)"`
	Domain string `json:"domain,omitempty" jsonschema:"HubSpot account domain (domain tenant policy)"`
}

func (in TenantInput) tenant() domain.TenantID {
	return domain.TenantID{UserID: in.UserID, OrgID: in.OrgID, Domain: in.Domain}
}

// AuthorizeOutput is the output schema for hubspot_authorize_url.
type AuthorizeOutput struct {
	URL string `json:"url"`
}

// ItemOutput is a single normalised item.
type ItemOutput struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

// FailureOutput is an object type that could not be fetched.
type FailureOutput struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// ListItemsOutput is the output schema for hubspot_list_items.
type ListItemsOutput struct {
	Items    []ItemOutput    `json:"items"`
	Failures []FailureOutput `json:"failures,omitempty"`
	Count    int             `json:"count"`
}

// StatusOutput is the output schema for hubspot_status.
type StatusOutput struct {
	Connected    bool   `json:"connected"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	Scope        string `json:"scope,omitempty"`
	HubDomain    string `json:"hub_domain,omitempty"`
	NeedsRefresh bool   `json:"needs_refresh"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hubspot_authorize_url",
		Description: "Build the HubSpot consent URL the user must open to connect their account",
	}, s.handleAuthorizeURL)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hubspot_list_items",
		Description: "List contacts, companies and deals from the connected HubSpot account",
	}, s.handleListItems)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hubspot_status",
		Description: "Report whether a HubSpot account is connected and when its token expires",
	}, s.handleStatus)
}

func (s *Server) handleAuthorizeURL(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TenantInput,
) (*mcp.CallToolResult, AuthorizeOutput, error) {
	url, err := s.ports.Auth.AuthorizationURL(ctx, input.tenant())
	if err != nil {
		return nil, AuthorizeOutput{}, err
	}
	return nil, AuthorizeOutput{URL: url}, nil
}

func (s *Server) handleListItems(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TenantInput,
) (*mcp.CallToolResult, ListItemsOutput, error) {
	list, err := s.ports.Items.ListItems(ctx, input.tenant())
	if err != nil {
		return nil, ListItemsOutput{}, err
	}

	output := ListItemsOutput{
		Items: make([]ItemOutput, len(list.Items)),
		Count: len(list.Items),
	}
	for i, item := range list.Items {
		output.Items[i] = ItemOutput{
			ID:         item.ID,
			Title:      item.Title,
			Type:       string(item.Type),
			Parameters: item.Parameters,
		}
	}
	for _, f := range list.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		output.Failures = append(output.Failures, FailureOutput{Type: string(f.Type), Error: msg})
	}

	return nil, output, nil
}

func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TenantInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status, err := s.ports.Auth.Status(ctx, input.tenant())
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, statusOutput(status), nil
}

func statusOutput(status *domain.CredentialStatus) StatusOutput {
	out := StatusOutput{
		Connected:    status.Connected,
		Scope:        status.Scope,
		HubDomain:    status.HubDomain,
		NeedsRefresh: status.NeedsRefresh,
	}
	if status.Connected {
		out.ExpiresAt = status.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return out
}
