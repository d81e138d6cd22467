// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants start the HubSpot authorization flow and read
// normalised CRM items.
package mcp

import "errors"

var (
	// ErrMissingAuthService is returned when the auth service is not provided.
	ErrMissingAuthService = errors.New("mcp: auth service is required")

	// ErrMissingItemService is returned when the item service is not provided.
	ErrMissingItemService = errors.New("mcp: item service is required")
)
