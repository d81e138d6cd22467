package crm

import (
	"fmt"
	"maps"
	"strings"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// rule infers an item type from record properties.
type rule struct {
	itemType domain.ItemType
	keys     []string
}

// matches reports whether any of the rule's keys is present with a
// non-null value.
func (r rule) matches(props map[string]any) bool {
	for _, k := range r.keys {
		if has(props, k) {
			return true
		}
	}
	return false
}

// inferenceRules is evaluated in order. A record with both dealname and
// firstname is a deal.
var inferenceRules = []rule{
	{itemType: domain.ItemDeal, keys: []string{"dealname"}},
	{itemType: domain.ItemContact, keys: []string{"firstname", "lastname"}},
	{itemType: domain.ItemCompany, keys: []string{"name", "domain"}},
}

// mapper builds the title and parameters for one item type.
type mapper func(id string, props map[string]any) (string, map[string]any)

var mappers = map[domain.ItemType]mapper{
	domain.ItemContact: mapContact,
	domain.ItemCompany: mapCompany,
	domain.ItemDeal:    mapDeal,
	domain.ItemUnknown: mapUnknown,
}

// Normaliser turns raw CRM records into integration items.
type Normaliser struct{}

// New creates a CRM normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Infer returns the item type for props using the ordered rule table.
func Infer(props map[string]any) domain.ItemType {
	for _, r := range inferenceRules {
		if r.matches(props) {
			return r.itemType
		}
	}
	return domain.ItemUnknown
}

// Normalise maps record to an item. An empty known type is inferred.
func (n *Normaliser) Normalise(record domain.RawRecord, known domain.ItemType) domain.IntegrationItem {
	itemType := known
	if itemType == "" {
		itemType = Infer(record.Properties)
	}

	m, ok := mappers[itemType]
	if !ok {
		itemType = domain.ItemUnknown
		m = mapUnknown
	}

	title, params := m(record.ID, record.Properties)
	return domain.IntegrationItem{
		ID:         ItemID(itemType, record.ID),
		Title:      title,
		Type:       itemType,
		Parameters: params,
	}
}

// ItemID qualifies a raw id with its item type so equal raw ids of
// different types never collide.
func ItemID(itemType domain.ItemType, rawID string) string {
	return string(itemType) + ":" + rawID
}

func mapContact(id string, props map[string]any) (string, map[string]any) {
	var parts []string
	for _, k := range []string{"firstname", "lastname"} {
		if s := str(props, k); s != "" {
			parts = append(parts, s)
		}
	}

	title := strings.Join(parts, " ")
	if title == "" {
		title = str(props, "email")
	}
	if title == "" {
		title = "Contact " + id
	}

	return title, map[string]any{
		"email":      props["email"],
		"first_name": props["firstname"],
		"last_name":  props["lastname"],
		"company":    props["company"],
	}
}

func mapCompany(id string, props map[string]any) (string, map[string]any) {
	title := firstNonEmpty(str(props, "name"), str(props, "domain"), "Company "+id)
	return title, map[string]any{
		"name":   props["name"],
		"domain": props["domain"],
	}
}

func mapDeal(id string, props map[string]any) (string, map[string]any) {
	title := firstNonEmpty(str(props, "dealname"), "Deal "+id)
	return title, map[string]any{
		"amount":    props["amount"],
		"dealstage": props["dealstage"],
	}
}

func mapUnknown(id string, props map[string]any) (string, map[string]any) {
	title := firstNonEmpty(str(props, "name"), "Item "+id)
	params := maps.Clone(props)
	if params == nil {
		params = map[string]any{}
	}
	return title, params
}

func has(props map[string]any, key string) bool {
	v, ok := props[key]
	return ok && v != nil
}

// str renders a property as text. Missing and null values are empty.
func str(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return fmt.Sprint(v)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
