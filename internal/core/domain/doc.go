// Package domain defines the core business entities for crmlink.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TenantID: One CRM installation, keyed through a KeyPolicy
//   - TokenRecord: An installation's current OAuth grant
//   - RawRecord: An unmodified object from the CRM list endpoint
//   - IntegrationItem: The normalised output unit
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
