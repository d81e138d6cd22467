package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/custodia-labs/crmlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/crmlink/internal/config"
	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/logger"
)

type mockAuthService struct {
	url    string
	status *domain.CredentialStatus
	err    error

	lastTenant   domain.TenantID
	disconnected bool
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

type testServices struct {
	auth  *mockAuthService
	items *mockItemService
	store *memory.ConfigStore
}

// setupTestServices injects mocks and returns a cleanup that restores
// package state.
func setupTestServices() (*testServices, func()) {
	store := memory.NewConfigStore()
	_ = store.Set("hubspot.client_id", "abc")
	_ = store.Set("hubspot.client_secret", "secret-value-1234")
	_ = store.Set("store.backend", "memory")
	cfg, _ := config.LoadWithEnv(store, nil)

	ts := &testServices{
		auth: &mockAuthService{
			url: "https://app.hubspot.com/oauth/authorize?client_id=abc&state=s1",
			status: &domain.CredentialStatus{
				Connected: true,
				ExpiresAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
				HubDomain: "acme.hubspot.com",
				Scope:     "crm.objects.contacts.read",
			},
		},
		items: &mockItemService{list: &domain.ItemList{
			Items: []domain.IntegrationItem{
				{ID: "contact:1", Title: "Ada Lovelace", Type: domain.ItemContact, Parameters: map[string]any{"email": "ada@x.io"}},
				{ID: "deal:7", Title: "Big", Type: domain.ItemDeal, Parameters: map[string]any{"dealstage": "won"}},
			},
		}},
		store: store,
	}
	SetServices(cfg, store, ts.auth, ts.items)

	return ts, resetState
}

func resetState() {
	appConfig = config.Config{}
	configStore = nil
	authService = nil
	itemService = nil
	closeApp = nil
	appLog = logger.NewSilent()
	configDir = ""
	verbose = false
	itemsJSON = false
	authorizeOpen = false
	serveAddr = ""
	settingsClientID = ""
	settingsClientSecret = ""
	settingsRedirectURI = ""
	authorizeTenant.reset()
	itemsTenant.reset()
	statusTenant.reset()
	disconnectTenant.reset()
	rootCmd.SetArgs(nil)
	rootCmd.SetIn(nil)
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
}

func run(args ...string) (string, string, error) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
