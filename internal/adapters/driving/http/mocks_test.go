package http

import (
	"context"

	"github.com/custodia-labs/crmlink/internal/core/domain"
)

type mockAuthService struct {
	url    string
	tenant domain.TenantID
	status *domain.CredentialStatus
	err    error

	lastTenant    domain.TenantID
	callbackCalls int
	disconnected  bool
}

func (m *mockAuthService) AuthorizationURL(_ context.Context, tenant domain.TenantID) (string, error) {
	m.lastTenant = tenant
	return m.url, m.err
}

func (m *mockAuthService) HandleCallback(_ context.Context, _, _ string) (domain.TenantID, error) {
	m.callbackCalls++
	return m.tenant, m.err
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

func (m *mockAuthService) Disconnect(_ context.Context, tenant domain.TenantID) error {
	m.lastTenant = tenant
	m.disconnected = m.err == nil
	return m.err
}

type mockItemService struct {
	list *domain.ItemList
	err  error
}

func (m *mockItemService) ListItems(_ context.Context, _ domain.TenantID) (*domain.ItemList, error) {
	return m.list, m.err
}
