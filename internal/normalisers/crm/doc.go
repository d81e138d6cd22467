// Package crm maps raw CRM records onto integration items.
//
// When the record's object type is known it selects the mapping directly.
// Otherwise the type is inferred from which properties are present using an
// ordered rule table where the first match wins.
package crm
