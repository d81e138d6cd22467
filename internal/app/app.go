// Package app wires configuration, storage, the OAuth issuer and the CRM
// client into the core services shared by every driving adapter.
package app

import (
	"context"
	"fmt"

	"github.com/custodia-labs/crmlink/internal/adapters/driven/oauth"
	"github.com/custodia-labs/crmlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/crmlink/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/crmlink/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/crmlink/internal/config"
	"github.com/custodia-labs/crmlink/internal/connectors/hubspot"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
	"github.com/custodia-labs/crmlink/internal/core/services"
	"github.com/custodia-labs/crmlink/internal/logger"
	"github.com/custodia-labs/crmlink/internal/normalisers/crm"
)

// App holds the initialised stores, clients and services.
type App struct {
	Config config.Config
	Log    *logger.Logger

	KV          driven.KeyValueStore
	Credentials *services.CredentialStore
	States      *services.StateStore
	Issuer      *oauth.Issuer
	Client      *hubspot.Client

	Auth  *services.AuthService
	Items *services.ItemService
}

// Option customises New.
type Option func(*options)

type options struct {
	kv     driven.KeyValueStore
	client *hubspot.Client
}

// WithKeyValueStore uses kv instead of opening the configured backend.
func WithKeyValueStore(kv driven.KeyValueStore) Option {
	return func(o *options) { o.kv = kv }
}

// WithClient uses c instead of building a client from configuration.
func WithClient(c *hubspot.Client) Option {
	return func(o *options) { o.client = c }
}

// New opens the configured store and builds the services. Client
// credentials are not validated here; callers that need them call
// cfg.Validate first.
func New(ctx context.Context, cfg config.Config, log *logger.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = logger.NewSilent()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	kv := o.kv
	if kv == nil {
		var err error
		kv, err = OpenStore(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
	}

	client := o.client
	if client == nil {
		client = hubspot.NewClient(cfg.HubSpot.APIBaseURL, hubspot.WithTimeout(cfg.HubSpot.Timeout))
	}

	policy := cfg.KeyPolicy()
	credentials := services.NewCredentialStore(kv, policy)
	states := services.NewStateStore(kv)

	issuer := oauth.NewIssuer(oauth.Config{
		ClientID:     cfg.HubSpot.ClientID,
		ClientSecret: cfg.HubSpot.ClientSecret,
		AuthURL:      cfg.HubSpot.AuthURL,
		TokenURL:     cfg.HubSpot.TokenURL,
		RedirectURI:  cfg.HubSpot.RedirectURI,
		Scopes:       cfg.HubSpot.Scopes,
		Timeout:      cfg.HubSpot.Timeout,
	})

	auth := services.NewAuthService(issuer, credentials, states, policy, services.AuthSettings{
		StateTTL:      cfg.Store.StateTTL,
		CredentialTTL: cfg.Store.CredentialTTL,
		StateCheck:    cfg.StateCheck(),
	}, log)

	items := services.NewItemService(auth, client, crm.New(), hubspot.DefaultProperties(), log)

	log.Debug().
		Str("store", cfg.Store.Backend).
		Str("tenant_policy", policy.Name()).
		Msg("application initialised")

	return &App{
		Config:      cfg,
		Log:         log,
		KV:          kv,
		Credentials: credentials,
		States:      states,
		Issuer:      issuer,
		Client:      client,
		Auth:        auth,
		Items:       items,
	}, nil
}

// OpenStore opens the key-value backend named in cfg.
func OpenStore(ctx context.Context, cfg config.Store) (driven.KeyValueStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewKVStore(), nil
	case config.BackendRedis:
		return redis.NewStore(ctx, cfg.RedisURL)
	case config.BackendSQLite, "":
		s, err := sqlite.NewStore(cfg.SQLiteDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Close releases the store.
func (a *App) Close() error {
	if a.KV == nil {
		return nil
	}
	return a.KV.Close()
}
