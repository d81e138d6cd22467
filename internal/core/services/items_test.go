package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/normalisers/crm"
)

var testProjections = Projections{
	domain.ObjectContacts:  {"email", "firstname", "lastname", "company"},
	domain.ObjectCompanies: {"name", "domain"},
	domain.ObjectDeals:     {"dealname", "amount", "dealstage"},
}

func newItemFixture(client *mockObjectClient) *ItemService {
	creds := &mockCredentials{record: &domain.TokenRecord{AccessToken: "t1"}}
	return NewItemService(creds, client, crm.New(), testProjections, nil)
}

func allRecords() map[domain.ObjectType][]domain.RawRecord {
	return map[domain.ObjectType][]domain.RawRecord{
		domain.ObjectContacts: {
			{ID: "1", Properties: map[string]any{"firstname": "Ann", "lastname": "Lee"}},
		},
		domain.ObjectCompanies: {
			{ID: "2", Properties: map[string]any{"name": "Acme"}},
		},
		domain.ObjectDeals: {
			{ID: "3", Properties: map[string]any{"dealname": "Renewal"}},
			{ID: "4", Properties: map[string]any{"dealname": "Upsell"}},
		},
	}
}

func TestItemService_ListItems(t *testing.T) {
	client := &mockObjectClient{records: allRecords()}
	svc := newItemFixture(client)

	list, err := svc.ListItems(context.Background(), tenantA)

	require.NoError(t, err)
	assert.Empty(t, list.Failures)
	require.Len(t, list.Items, 4)

	ids := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"contact:1", "company:2", "deal:3", "deal:4"}, ids)
	assert.Equal(t, "Ann Lee", list.Items[0].Title)
}

func TestItemService_ListItems_PassesProjectionsAndToken(t *testing.T) {
	client := &mockObjectClient{records: allRecords()}
	svc := newItemFixture(client)

	_, err := svc.ListItems(context.Background(), tenantA)
	require.NoError(t, err)

	assert.Equal(t, []string{"t1", "t1", "t1"}, client.tokens)
	assert.Equal(t, testProjections[domain.ObjectDeals], client.properties[domain.ObjectDeals])
	assert.Equal(t, testProjections[domain.ObjectCompanies], client.properties[domain.ObjectCompanies])
}

func TestItemService_ListItems_IsolatesFailures(t *testing.T) {
	client := &mockObjectClient{
		records: allRecords(),
		errs: map[domain.ObjectType]error{
			domain.ObjectCompanies: fmt.Errorf("%w: status 500", domain.ErrObjectFetchFailed),
		},
	}
	svc := newItemFixture(client)

	list, err := svc.ListItems(context.Background(), tenantA)

	require.NoError(t, err)
	require.NotEmpty(t, list.Items)
	for _, item := range list.Items {
		assert.Contains(t, []domain.ItemType{domain.ItemContact, domain.ItemDeal}, item.Type)
	}
	assert.Len(t, list.Items, 3)

	require.Len(t, list.Failures, 1)
	assert.Equal(t, domain.ObjectCompanies, list.Failures[0].Type)
	assert.ErrorIs(t, list.Failures[0], domain.ErrObjectFetchFailed)
}

func TestItemService_ListItems_AllFail(t *testing.T) {
	boom := errors.New("boom")
	client := &mockObjectClient{errs: map[domain.ObjectType]error{
		domain.ObjectContacts:  boom,
		domain.ObjectCompanies: boom,
		domain.ObjectDeals:     boom,
	}}
	svc := newItemFixture(client)

	list, err := svc.ListItems(context.Background(), tenantA)

	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Len(t, list.Failures, 3)
}

func TestItemService_ListItems_CredentialErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"no credentials", domain.ErrNoCredentials},
		{"refresh failed", &domain.IssuerError{Kind: domain.ErrTokenRefreshFailed}},
		{"store unavailable", domain.ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockObjectClient{records: allRecords()}
			svc := NewItemService(&mockCredentials{err: tt.err}, client, crm.New(), testProjections, nil)

			_, err := svc.ListItems(context.Background(), tenantA)

			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, client.tokens, "no fetch without credentials")
		})
	}
}

func TestItemService_FetchObjects_NoToken(t *testing.T) {
	svc := newItemFixture(&mockObjectClient{})

	_, err := svc.FetchObjects(context.Background(), &domain.TokenRecord{}, domain.ObjectContacts, nil)

	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}

func TestItemService_FetchAll_TagsRecords(t *testing.T) {
	svc := newItemFixture(&mockObjectClient{records: allRecords()})

	tagged, failures := svc.FetchAll(context.Background(), &domain.TokenRecord{AccessToken: "t1"})

	assert.Empty(t, failures)
	require.Len(t, tagged, 4)
	assert.Equal(t, domain.ObjectContacts, tagged[0].Type)
	assert.Equal(t, domain.ObjectCompanies, tagged[1].Type)
	assert.Equal(t, domain.ObjectDeals, tagged[2].Type)
	assert.Equal(t, domain.ObjectDeals, tagged[3].Type)
}

func TestItemService_KnownTypeBeatsInference(t *testing.T) {
	client := &mockObjectClient{records: map[domain.ObjectType][]domain.RawRecord{
		domain.ObjectCompanies: {{ID: "1", Properties: map[string]any{"name": "Acme", "dealname": "odd"}}},
	}}
	svc := newItemFixture(client)

	list, err := svc.ListItems(context.Background(), tenantA)

	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, domain.ItemCompany, list.Items[0].Type)
}
