// Package config maps the TOML config store and environment overrides into a
// typed Config.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/crmlink/internal/connectors/hubspot"
	"github.com/custodia-labs/crmlink/internal/core/domain"
	"github.com/custodia-labs/crmlink/internal/core/ports/driven"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Defaults.
const (
	DefaultRedirectURI   = "http://localhost:8000/integrations/hubspot/oauth2callback"
	DefaultAddr          = ":8000"
	DefaultCredentialTTL = 30 * 24 * time.Hour
	DefaultStateTTL      = 5 * time.Minute
)

// Environment overrides.
const (
	EnvClientID     = "HUBSPOT_CLIENT_ID"
	EnvClientSecret = "HUBSPOT_CLIENT_SECRET"
	EnvRedirectURI  = "HUBSPOT_REDIRECT_URI"
	EnvRedisURL     = "REDIS_URL"
	EnvFrontendURL  = "FRONTEND_BASE_URL"
	EnvStore        = "CRMLINK_STORE"
)

// HubSpot holds the OAuth client registration and API endpoints.
type HubSpot struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
	Timeout      time.Duration
}

// Store selects and configures the key-value backend.
type Store struct {
	Backend       string
	RedisURL      string
	SQLiteDir     string
	CredentialTTL time.Duration
	StateTTL      time.Duration
}

// Server configures the inbound HTTP surface.
type Server struct {
	Addr           string
	FrontendURL    string
	AllowedOrigins []string
}

// Auth selects tenant keying and callback validation.
type Auth struct {
	TenantPolicy string
	StateCheck   string
}

// Log configures the logger.
type Log struct {
	Level  string
	Format string
}

// Config contains runtime configuration values.
type Config struct {
	HubSpot HubSpot
	Store   Store
	Server  Server
	Auth    Auth
	Log     Log
}

// LookupEnv matches os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// Load reads configuration from store, applies environment overrides from
// os.LookupEnv and fills defaults. It does not validate client credentials.
func Load(store driven.ConfigStore) (Config, error) {
	return LoadWithEnv(store, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(store driven.ConfigStore, env LookupEnv) (Config, error) {
	cfg := Config{
		HubSpot: HubSpot{
			ClientID:     store.GetString("hubspot.client_id"),
			ClientSecret: store.GetString("hubspot.client_secret"),
			RedirectURI:  store.GetString("hubspot.redirect_uri"),
			Scopes:       store.GetStringSlice("hubspot.scopes"),
			AuthURL:      store.GetString("hubspot.auth_url"),
			TokenURL:     store.GetString("hubspot.token_url"),
			APIBaseURL:   store.GetString("hubspot.api_base_url"),
			Timeout:      store.GetDuration("hubspot.timeout"),
		},
		Store: Store{
			Backend:       store.GetString("store.backend"),
			RedisURL:      store.GetString("store.redis_url"),
			SQLiteDir:     store.GetString("store.sqlite_dir"),
			CredentialTTL: store.GetDuration("store.credential_ttl"),
			StateTTL:      store.GetDuration("store.state_ttl"),
		},
		Server: Server{
			Addr:           store.GetString("server.addr"),
			FrontendURL:    store.GetString("server.frontend_url"),
			AllowedOrigins: store.GetStringSlice("server.allowed_origins"),
		},
		Auth: Auth{
			TenantPolicy: store.GetString("auth.tenant_policy"),
			StateCheck:   store.GetString("auth.state_check"),
		},
		Log: Log{
			Level:  store.GetString("log.level"),
			Format: store.GetString("log.format"),
		},
	}

	override(&cfg.HubSpot.ClientID, env, EnvClientID)
	override(&cfg.HubSpot.ClientSecret, env, EnvClientSecret)
	override(&cfg.HubSpot.RedirectURI, env, EnvRedirectURI)
	override(&cfg.Store.RedisURL, env, EnvRedisURL)
	override(&cfg.Server.FrontendURL, env, EnvFrontendURL)
	override(&cfg.Store.Backend, env, EnvStore)

	// A Redis URL in the environment selects Redis unless a backend is named.
	if cfg.Store.Backend == "" && cfg.Store.RedisURL != "" {
		cfg.Store.Backend = BackendRedis
	}

	cfg.applyDefaults()

	if err := cfg.check(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func override(dst *string, env LookupEnv, key string) {
	if env == nil {
		return
	}
	if v, ok := env(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func (c *Config) applyDefaults() {
	if c.HubSpot.RedirectURI == "" {
		c.HubSpot.RedirectURI = DefaultRedirectURI
	}
	if len(c.HubSpot.Scopes) == 0 {
		c.HubSpot.Scopes = append([]string(nil), hubspot.DefaultScopes...)
	}
	if c.HubSpot.AuthURL == "" {
		c.HubSpot.AuthURL = hubspot.DefaultAuthURL
	}
	if c.HubSpot.TokenURL == "" {
		c.HubSpot.TokenURL = hubspot.DefaultTokenURL
	}
	if c.HubSpot.APIBaseURL == "" {
		c.HubSpot.APIBaseURL = hubspot.DefaultAPIBaseURL
	}
	if c.HubSpot.Timeout <= 0 {
		c.HubSpot.Timeout = hubspot.DefaultTimeout
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendSQLite
	}
	if c.Store.CredentialTTL <= 0 {
		c.Store.CredentialTTL = DefaultCredentialTTL
	}
	if c.Store.StateTTL <= 0 {
		c.Store.StateTTL = DefaultStateTTL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	c.Server.FrontendURL = strings.TrimRight(c.Server.FrontendURL, "/")
	if c.Auth.TenantPolicy == "" {
		c.Auth.TenantPolicy = domain.KeyPolicyUserOrg
	}
	if c.Auth.StateCheck == "" {
		c.Auth.StateCheck = string(domain.StateCheckStrict)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// check rejects values that can never work, independent of credentials.
func (c *Config) check() error {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown store backend %q", domain.ErrConfiguration, c.Store.Backend)
	}
	if _, err := domain.KeyPolicyByName(c.Auth.TenantPolicy); err != nil {
		return err
	}
	if _, err := domain.ParseStateCheck(c.Auth.StateCheck); err != nil {
		return err
	}
	return nil
}

// Validate returns domain.ErrConfiguration if the OAuth client is not
// fully configured.
func (c Config) Validate() error {
	var missing []string
	if c.HubSpot.ClientID == "" {
		missing = append(missing, "hubspot.client_id ("+EnvClientID+")")
	}
	if c.HubSpot.ClientSecret == "" {
		missing = append(missing, "hubspot.client_secret ("+EnvClientSecret+")")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// KeyPolicy returns the configured tenant key policy.
func (c Config) KeyPolicy() domain.KeyPolicy {
	p, err := domain.KeyPolicyByName(c.Auth.TenantPolicy)
	if err != nil {
		return domain.UserOrgPolicy{}
	}
	return p
}

// StateCheck returns the configured state check mode.
func (c Config) StateCheck() domain.StateCheck {
	m, err := domain.ParseStateCheck(c.Auth.StateCheck)
	if err != nil {
		return domain.StateCheckStrict
	}
	return m
}

// SuccessRedirect returns where a completed callback sends the browser,
// or "" when no front-end is configured.
func (c Config) SuccessRedirect() string {
	if c.Server.FrontendURL == "" {
		return ""
	}
	return c.Server.FrontendURL + "/?integrations=hubspot_connected"
}
