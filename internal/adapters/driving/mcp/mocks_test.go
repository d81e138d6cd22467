package mcp

import (
	"context"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

// mockAuthService is a mock implementation of driving.AuthService.
type mockAuthService struct {
	url    string
	status *domain.CredentialStatus
	err    error

	lastTenant domain.TenantID
}

func (m *mockAuthService) AuthorizationURL(_ context.Context, tenant domain.TenantID) (string, error) {
	m.lastTenant = tenant
	return m.url, m.err
}

func (m *mockAuthService) HandleCallback(_ context.Context, _, _ string) (domain.TenantID, error) {
	return domain.TenantID{}, m.err
}

func (m *mockAuthService) ExchangeCode(
	_ context.Context,
	_ string,
	_ domain.TenantID,
) (*domain.TokenRecord, error) {
	return nil, m.err
}

func (m *mockAuthService) Credentials(_ context.Context, _ domain.TenantID) (*domain.TokenRecord, error) {
	return nil, m.err
}

func (m *mockAuthService) Status(_ context.Context, tenant domain.TenantID) (*domain.CredentialStatus, error) {
	m.lastTenant = tenant
	return m.status, m.err
}

func (m *mockAuthService) Disconnect(_ context.Context, _ domain.TenantID) error {
	return m.err
}

// mockItemService is a mock implementation of driving.ItemService.
type mockItemService struct {
	list *domain.ItemList
	err  error
}

func (m *mockItemService) ListItems(_ context.Context, _ domain.TenantID) (*domain.ItemList, error) {
	return m.list, m.err
}
