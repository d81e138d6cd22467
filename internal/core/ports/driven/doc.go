// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - KeyValueStore: Generic get/set/expire persistence (memory, SQLite, Redis)
//   - TokenIssuer: OAuth authorization URL, code exchange and refresh
//   - ObjectClient: CRM object-list calls
//   - Normaliser: Raw record to integration item
//   - ConfigStore: Application configuration
//
// CredentialsStore and StateStore are implemented in core/services on top
// of KeyValueStore; they are ports so driving adapters and tests can swap them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
