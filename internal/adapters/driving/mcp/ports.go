package mcp

import (
	"github.com/custodia-labs/crmlink/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Auth starts authorizations and reports connection status.
	Auth driving.AuthService

	// Items lists normalised CRM items.
	Items driving.ItemService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Auth == nil {
		return ErrMissingAuthService
	}
	if p.Items == nil {
		return ErrMissingItemService
	}
	return nil
}
