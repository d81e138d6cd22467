package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
	"github.com/custodia-labs/crmlink/internal/core/ports/driving"
	"github.com/custodia-labs/crmlink/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// Default lifetimes.
const (
	DefaultStateTTL      = 5 * time.Minute
	DefaultCredentialTTL = 30 * 24 * time.Hour
)

// AuthSettings tunes the token lifecycle.
type AuthSettings struct {
	// StateTTL is how long a pending authorization survives.
	StateTTL time.Duration
	// CredentialTTL is applied to a record after every write.
	// Zero leaves records without expiry.
	CredentialTTL time.Duration
	// StateCheck selects strict or advisory callback validation.
	StateCheck domain.StateCheck
}

// AuthService builds authorization URLs, exchanges codes and keeps stored
// credentials fresh.
type AuthService struct {
	issuer      driven.TokenIssuer
	credentials driven.CredentialsStore
	states      driven.StateStore
	policy      domain.KeyPolicy
	settings    AuthSettings
	log         *logger.Logger

	now      func() time.Time
	newState func() string

	refreshes singleflight.Group
}

// NewAuthService creates an auth service.
func NewAuthService(
	issuer driven.TokenIssuer,
	credentials driven.CredentialsStore,
	states driven.StateStore,
	policy domain.KeyPolicy,
	settings AuthSettings,
	log *logger.Logger,
) *AuthService {
	if policy == nil {
		policy = domain.UserOrgPolicy{}
	}
	if settings.StateTTL <= 0 {
		settings.StateTTL = DefaultStateTTL
	}
	if settings.StateCheck == "" {
		settings.StateCheck = domain.StateCheckStrict
	}
	if log == nil {
		log = logger.NewSilent()
	}
	return &AuthService{
		issuer:      issuer,
		credentials: credentials,
		states:      states,
		policy:      policy,
		settings:    settings,
		log:         log.Component("auth"),
		now:         time.Now,
		newState:    uuid.NewString,
	}
}

// AuthorizationURL records a state token for tenant and returns the
// consent-screen URL carrying it.
func (s *AuthService) AuthorizationURL(ctx context.Context, tenant domain.TenantID) (string, error) {
	if err := s.checkClient(); err != nil {
		return "", err
	}
	if err := s.checkTenant(tenant); err != nil {
		return "", err
	}

	pending := domain.PendingAuthorization{
		State:     s.newState(),
		Tenant:    tenant,
		CreatedAt: s.now(),
	}
	if err := s.states.Save(ctx, pending, s.settings.StateTTL); err != nil {
		return "", err
	}

	s.log.Debug().Str("tenant", tenant.String()).Msg("issued authorization state")
	return s.issuer.AuthCodeURL(pending.State), nil
}

// HandleCallback consumes state, exchanges code and stores the tokens.
func (s *AuthService) HandleCallback(ctx context.Context, code, state string) (domain.TenantID, error) {
	if code == "" {
		return domain.TenantID{}, fmt.Errorf("%w: missing code", domain.ErrMalformedCallback)
	}
	if state == "" {
		return domain.TenantID{}, fmt.Errorf("%w: missing state", domain.ErrMalformedCallback)
	}

	var tenant domain.TenantID
	pending, err := s.states.Consume(ctx, state)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if s.settings.StateCheck != domain.StateCheckAdvisory {
			return domain.TenantID{}, fmt.Errorf("%w: unknown or expired state", domain.ErrInvalidState)
		}
		// Only the domain policy can recover the tenant from the issuer.
		if s.policy.Name() != domain.KeyPolicyDomain {
			return domain.TenantID{}, fmt.Errorf("%w: unknown state and no tenant to resolve", domain.ErrInvalidState)
		}
		s.log.Warn().Msg("callback state has no pending authorization, continuing in advisory mode")
	case err != nil:
		return domain.TenantID{}, err
	default:
		tenant = pending.Tenant
	}

	_, resolved, err := s.exchange(ctx, code, tenant)
	if err != nil {
		return domain.TenantID{}, err
	}
	return resolved, nil
}

// ExchangeCode trades code for tokens and stores them under tenant.
func (s *AuthService) ExchangeCode(
	ctx context.Context,
	code string,
	tenant domain.TenantID,
) (*domain.TokenRecord, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing code", domain.ErrMalformedCallback)
	}
	record, _, err := s.exchange(ctx, code, tenant)
	return record, err
}

func (s *AuthService) exchange(
	ctx context.Context,
	code string,
	tenant domain.TenantID,
) (*domain.TokenRecord, domain.TenantID, error) {
	if err := s.checkClient(); err != nil {
		return nil, tenant, err
	}

	issued, err := s.issuer.Exchange(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Str("tenant", tenant.String()).Msg("authorization code exchange failed")
		return nil, tenant, issuerError(domain.ErrTokenExchangeFailed, err)
	}

	if tenant.Domain == "" && issued.HubDomain != "" && s.policy.Name() == domain.KeyPolicyDomain {
		tenant.Domain = issued.HubDomain
	}

	now := s.now()
	record := domain.TokenRecord{
		AccessToken:  issued.AccessToken,
		RefreshToken: issued.RefreshToken,
		TokenType:    issued.TokenType,
		ExpiresAt:    now.Add(issued.ExpiresIn),
		Scope:        issued.Scope,
		HubDomain:    issued.HubDomain,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store(ctx, tenant, record); err != nil {
		return nil, tenant, err
	}

	s.log.Info().
		Str("tenant", tenant.String()).
		Time("expires_at", record.ExpiresAt).
		Msg("stored credentials")
	return &record, tenant, nil
}

// Credentials returns the tenant's record, refreshing it first when it
// is within the near-expiry window.
func (s *AuthService) Credentials(ctx context.Context, tenant domain.TenantID) (*domain.TokenRecord, error) {
	key, err := s.policy.Key(tenant)
	if err != nil {
		return nil, err
	}

	record, err := s.credentials.Get(ctx, tenant)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: tenant %s", domain.ErrNoCredentials, tenant)
	}
	if err != nil {
		return nil, err
	}

	if !record.NeedsRefresh(s.now()) {
		return record, nil
	}

	// Joined callers share this flight, so one caller's cancellation must
	// not fail the rest. The issuer timeout still bounds it.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.refreshes.Do(key, func() (any, error) {
		// Another caller may have refreshed or disconnected since our read.
		latest, err := s.credentials.Get(flightCtx, tenant)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: tenant %s", domain.ErrNoCredentials, tenant)
		}
		if err != nil {
			return nil, err
		}
		if !latest.NeedsRefresh(s.now()) {
			return latest, nil
		}
		return s.refresh(flightCtx, tenant, latest)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.Debug().Str("tenant", tenant.String()).Msg("joined in-flight refresh")
	}

	refreshed := *v.(*domain.TokenRecord)
	return &refreshed, nil
}

// refresh exchanges the stored refresh token. The stored record is only
// written once the issuer has answered successfully.
func (s *AuthService) refresh(
	ctx context.Context,
	tenant domain.TenantID,
	current *domain.TokenRecord,
) (*domain.TokenRecord, error) {
	if current.RefreshToken == "" {
		return nil, &domain.IssuerError{
			Kind: domain.ErrTokenRefreshFailed,
			Err:  errors.New("no refresh token stored"),
		}
	}

	s.log.Debug().Str("tenant", tenant.String()).Msg("refreshing access token")

	issued, err := s.issuer.Refresh(ctx, current.RefreshToken)
	if err != nil {
		s.log.Warn().Err(err).Str("tenant", tenant.String()).Msg("token refresh failed")
		return nil, issuerError(domain.ErrTokenRefreshFailed, err)
	}

	now := s.now()
	updated := *current
	updated.AccessToken = issued.AccessToken
	if issued.RefreshToken != "" {
		updated.RefreshToken = issued.RefreshToken
	}
	if issued.TokenType != "" {
		updated.TokenType = issued.TokenType
	}
	if issued.Scope != "" {
		updated.Scope = issued.Scope
	}
	if issued.HubDomain != "" {
		updated.HubDomain = issued.HubDomain
	}
	updated.ExpiresAt = now.Add(issued.ExpiresIn)
	updated.UpdatedAt = now

	if err := s.store(ctx, tenant, updated); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tenant", tenant.String()).
		Time("expires_at", updated.ExpiresAt).
		Msg("refreshed credentials")
	return &updated, nil
}

// Status describes the tenant's connection without refreshing.
func (s *AuthService) Status(ctx context.Context, tenant domain.TenantID) (*domain.CredentialStatus, error) {
	record, err := s.credentials.Get(ctx, tenant)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.CredentialStatus{Tenant: tenant}, nil
	}
	if err != nil {
		return nil, err
	}

	return &domain.CredentialStatus{
		Tenant:       tenant,
		Connected:    true,
		ExpiresAt:    record.ExpiresAt,
		Scope:        record.Scope,
		HubDomain:    record.HubDomain,
		NeedsRefresh: record.NeedsRefresh(s.now()),
	}, nil
}

// Disconnect deletes the tenant's stored credentials.
func (s *AuthService) Disconnect(ctx context.Context, tenant domain.TenantID) error {
	if err := s.credentials.Delete(ctx, tenant); err != nil {
		return err
	}
	s.log.Info().Str("tenant", tenant.String()).Msg("deleted credentials")
	return nil
}

func (s *AuthService) store(ctx context.Context, tenant domain.TenantID, record domain.TokenRecord) error {
	if err := s.credentials.Put(ctx, tenant, record); err != nil {
		return err
	}
	if s.settings.CredentialTTL > 0 {
		if err := s.credentials.Expire(ctx, tenant, s.settings.CredentialTTL); err != nil {
			return err
		}
	}
	return nil
}

func (s *AuthService) checkClient() error {
	if s.issuer == nil || s.issuer.ClientID() == "" {
		return fmt.Errorf("%w: client id is not configured", domain.ErrConfiguration)
	}
	return nil
}

// checkTenant accepts a tenant the key policy can derive a key for. Under
// the domain policy an empty tenant is accepted at authorize time since the
// domain is learned from the issuer at callback.
func (s *AuthService) checkTenant(tenant domain.TenantID) error {
	if s.policy.Name() == domain.KeyPolicyDomain && tenant.Domain == "" {
		return nil
	}
	_, err := s.policy.Key(tenant)
	return err
}

// issuerError classifies err under kind unless the issuer already did.
func issuerError(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	var ie *domain.IssuerError
	if errors.As(err, &ie) {
		return &domain.IssuerError{Kind: kind, StatusCode: ie.StatusCode, Body: ie.Body, Err: ie.Err}
	}
	return &domain.IssuerError{Kind: kind, Err: err}
}
