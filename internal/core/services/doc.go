// Package services implements the driving port interfaces.
//
// CredentialStore and StateStore lay token records and pending
// authorizations out in a driven.KeyValueStore. AuthService runs the
// authorization-code flow and refreshes tokens before they expire.
// ItemService fetches the supported CRM object types concurrently and
// normalises the records.
package services
