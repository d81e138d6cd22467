package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/crmlink/internal/connectors/hubspot"
	"github.com/custodia-labs/crmlink/internal/core/domain"
)

const uriScheme = "crmlink://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "object-types",
		Name:        "object-types",
		Description: "CRM object types fetched for every tenant and the properties requested for each",
		MIMEType:    "application/json",
	}, s.handleObjectTypesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tenants/{userId}/{orgId}/status",
		Name:        "tenant-status",
		Description: "Connection status of a HubSpot installation",
		MIMEType:    "application/json",
	}, s.handleTenantStatusResource)
}

func (s *Server) handleObjectTypesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type objectTypeInfo struct {
		Name       string   `json:"name"`
		ItemType   string   `json:"item_type"`
		Properties []string `json:"properties"`
	}

	props := hubspot.DefaultProperties()
	types := domain.SupportedObjectTypes()
	infos := make([]objectTypeInfo, len(types))
	for i, t := range types {
		infos[i] = objectTypeInfo{
			Name:       string(t),
			ItemType:   string(t.ItemType()),
			Properties: props[t],
		}
	}

	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleTenantStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	tenant, ok := extractTenant(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	status, err := s.ports.Auth.Status(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	return jsonResource(req.Params.URI, statusOutput(status))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTenant parses crmlink://tenants/{userId}/{orgId}/status.
func extractTenant(uri string) (domain.TenantID, bool) {
	const prefix = uriScheme + "tenants/"
	const suffix = "/status"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return domain.TenantID{}, false
	}

	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix), "/")
	if len(parts) != 2 {
		return domain.TenantID{}, false
	}

	userID, err1 := url.PathUnescape(parts[0])
	orgID, err2 := url.PathUnescape(parts[1])
	if err1 != nil || err2 != nil || userID == "" || orgID == "" {
		return domain.TenantID{}, false
	}

	return domain.TenantID{UserID: userID, OrgID: orgID}, true
}
