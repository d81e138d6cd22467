package driven

import (
	"context"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

// ObjectClient lists CRM objects with a bearer token.
type ObjectClient interface {
	// ListObjects returns the first page of objectType projected onto
	// properties. Non-success responses wrap domain.ErrObjectFetchFailed.
	ListObjects(
		ctx context.Context,
		accessToken string,
		objectType domain.ObjectType,
		properties []string,
	) ([]domain.RawRecord, error)
}
