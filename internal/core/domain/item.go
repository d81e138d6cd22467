package domain

import "encoding/json"

// ItemType is the normalised type of an IntegrationItem.
type ItemType string

// Item types.
const (
	ItemContact ItemType = "contact"
	ItemCompany ItemType = "company"
	ItemDeal    ItemType = "deal"
	ItemUnknown ItemType = "unknown"
)

// ObjectType is a CRM object-list endpoint name.
type ObjectType string

// Supported CRM object types.
const (
	ObjectContacts  ObjectType = "contacts"
	ObjectCompanies ObjectType = "companies"
	ObjectDeals     ObjectType = "deals"
)

// SupportedObjectTypes lists the object types fetched for every tenant, in
// the order their items are returned.
func SupportedObjectTypes() []ObjectType {
	return []ObjectType{ObjectContacts, ObjectCompanies, ObjectDeals}
}

// ItemType maps an object endpoint to the item type its records produce.
func (o ObjectType) ItemType() ItemType {
	switch o {
	case ObjectContacts:
		return ItemContact
	case ObjectCompanies:
		return ItemCompany
	case ObjectDeals:
		return ItemDeal
	default:
		return ItemUnknown
	}
}

// RawRecord is an unmodified object from the CRM list endpoint.
type RawRecord struct {
	// ID is the remote id, rendered as a string whether the API sent a
	// string or a number.
	ID string `json:"id"`

	// Properties holds the projected properties. Values are usually strings
	// but may be null or other JSON scalars.
	Properties map[string]any `json:"properties"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	Archived  bool   `json:"archived,omitempty"`
}

// TaggedRecord pairs a raw record with the endpoint it was fetched from.
type TaggedRecord struct {
	Type   ObjectType
	Record RawRecord
}

// IntegrationItem is the uniform output unit.
type IntegrationItem struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Type       ItemType       `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

// ObjectFailure records a per-type fetch failure that was skipped.
type ObjectFailure struct {
	Type ObjectType `json:"type"`
	Err  error      `json:"-"`
}

// Error returns the failure message.
func (f ObjectFailure) Error() string {
	if f.Err == nil {
		return string(f.Type)
	}
	return string(f.Type) + ": " + f.Err.Error()
}

// Unwrap returns the underlying fetch error.
func (f ObjectFailure) Unwrap() error {
	return f.Err
}

// MarshalJSON renders the failure as {"type": ..., "error": ...}.
func (f ObjectFailure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Type  ObjectType `json:"type"`
		Error string     `json:"error"`
	}{f.Type, msg})
}

// ItemList is the result of listing items for a tenant.
// Failures is non-empty when some object types could not be fetched.
type ItemList struct {
	Items    []IntegrationItem `json:"items"`
	Failures []ObjectFailure   `json:"failures,omitempty"`
}
