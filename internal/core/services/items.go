package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
	"github.com/custodia-labs/crmlink/internal/core/ports/driving"
	"github.com/custodia-labs/crmlink/internal/logger"
)

// Ensure ItemService implements the interface.
var _ driving.ItemService = (*ItemService)(nil)

// CredentialSource yields credentials valid for at least the near-expiry window.
type CredentialSource interface {
	Credentials(ctx context.Context, tenant domain.TenantID) (*domain.TokenRecord, error)
}

// Projections maps each object type to the properties requested for it.
type Projections map[domain.ObjectType][]string

// ItemService fetches CRM objects and normalises them into items.
type ItemService struct {
	credentials CredentialSource
	client      driven.ObjectClient
	normaliser  driven.Normaliser
	projections Projections
	log         *logger.Logger
}

// NewItemService creates an item service.
func NewItemService(
	credentials CredentialSource,
	client driven.ObjectClient,
	normaliser driven.Normaliser,
	projections Projections,
	log *logger.Logger,
) *ItemService {
	if log == nil {
		log = logger.NewSilent()
	}
	return &ItemService{
		credentials: credentials,
		client:      client,
		normaliser:  normaliser,
		projections: projections,
		log:         log.Component("items"),
	}
}

// ListItems fetches every supported object type for tenant and normalises
// the records. Failed types are reported in the result.
func (s *ItemService) ListItems(ctx context.Context, tenant domain.TenantID) (*domain.ItemList, error) {
	creds, err := s.credentials.Credentials(ctx, tenant)
	if err != nil {
		return nil, err
	}

	records, failures := s.FetchAll(ctx, creds)

	items := make([]domain.IntegrationItem, 0, len(records))
	for _, r := range records {
		items = append(items, s.normaliser.Normalise(r.Record, r.Type.ItemType()))
	}

	s.log.Debug().
		Str("tenant", tenant.String()).
		Int("items", len(items)).
		Int("failures", len(failures)).
		Msg("listed items")

	return &domain.ItemList{Items: items, Failures: failures}, nil
}

// FetchObjects lists one object type projected onto properties.
func (s *ItemService) FetchObjects(
	ctx context.Context,
	creds *domain.TokenRecord,
	objectType domain.ObjectType,
	properties []string,
) ([]domain.RawRecord, error) {
	if creds == nil || creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token", domain.ErrNoCredentials)
	}
	return s.client.ListObjects(ctx, creds.AccessToken, objectType, properties)
}

// FetchAll lists every supported object type concurrently. A failing type
// is logged and reported without affecting the others. Records are
// returned grouped in SupportedObjectTypes order.
func (s *ItemService) FetchAll(
	ctx context.Context,
	creds *domain.TokenRecord,
) ([]domain.TaggedRecord, []domain.ObjectFailure) {
	types := domain.SupportedObjectTypes()
	results := make([][]domain.RawRecord, len(types))
	errs := make([]error, len(types))

	var wg sync.WaitGroup
	for i, objectType := range types {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.FetchObjects(ctx, creds, objectType, s.projections[objectType])
		}()
	}
	wg.Wait()

	var tagged []domain.TaggedRecord
	var failures []domain.ObjectFailure
	for i, objectType := range types {
		if errs[i] != nil {
			s.log.Warn().Err(errs[i]).Str("object_type", string(objectType)).Msg("skipping object type")
			failures = append(failures, domain.ObjectFailure{Type: objectType, Err: errs[i]})
			continue
		}
		for _, r := range results[i] {
			tagged = append(tagged, domain.TaggedRecord{Type: objectType, Record: r})
		}
	}
	return tagged, failures
}
