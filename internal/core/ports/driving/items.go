package driving

import (
	"context"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

// ItemService lists normalised CRM items for a tenant.
type ItemService interface {
	// ListItems fetches every supported object type and normalises the
	// results. Per-type failures are reported in the list, not returned.
	ListItems(ctx context.Context, tenant domain.TenantID) (*domain.ItemList, error)
}
