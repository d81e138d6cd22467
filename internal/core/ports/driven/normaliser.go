package driven

import "github.com/custodia-labs/crmlink/internal/core/domain"

// Normaliser maps raw CRM records to integration items.
// Implementations must be pure and deterministic.
type Normaliser interface {
	// Normalise maps record to an item. An empty known type means the
	// type is inferred from the record's properties.
	Normalise(record domain.RawRecord, known domain.ItemType) domain.IntegrationItem
}
