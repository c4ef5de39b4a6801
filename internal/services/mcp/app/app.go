// Package app wires configuration into the storage, upstream, and MCP
// layers and runs the server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/adsbridge/internal/ads"
	"github.com/louisbranch/adsbridge/internal/ads/rest"
	"github.com/louisbranch/adsbridge/internal/adsclient"
	"github.com/louisbranch/adsbridge/internal/services/mcp/service"
	"github.com/louisbranch/adsbridge/internal/storage"
	"github.com/louisbranch/adsbridge/internal/storage/sqlite"
)

// Config carries everything needed to stand the bridge up.
type Config struct {
	DBPath          string
	Transport       string
	HTTPAddr        string
	CacheEnabled    bool
	CacheTTL        time.Duration
	SweepInterval   time.Duration
	DeveloperToken  string
	AccessToken     string
	LoginCustomerID string
	// Endpoint overrides the Ads API base URL, mainly for tests.
	Endpoint string

	// Upstream overrides the REST adapter, mainly for tests.
	Upstream ads.Client
}

// Run opens the cache store, connects the upstream adapter, and serves MCP
// until the context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("database path is required")
	}

	store, err := sqlite.OpenWithOptions(cfg.DBPath, sqlite.Options{SweepInterval: cfg.SweepInterval})
	if err != nil {
		return fmt.Errorf("open cache store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close cache store: %v", err)
		}
	}()

	applyStoredConfig(ctx, store, &cfg)

	upstream := cfg.Upstream
	if upstream == nil {
		upstream, err = rest.New(rest.Config{
			Endpoint:        cfg.Endpoint,
			DeveloperToken:  cfg.DeveloperToken,
			AccessToken:     cfg.AccessToken,
			LoginCustomerID: cfg.LoginCustomerID,
		})
		if err != nil {
			return fmt.Errorf("build ads client: %w", err)
		}
	}

	client := adsclient.New(upstream, store, store, adsclient.Options{
		CacheEnabled: cfg.CacheEnabled,
		CacheTTL:     cfg.CacheTTL,
	})

	return service.Run(ctx, service.Config{
		Transport: service.TransportKind(cfg.Transport),
		HTTPAddr:  cfg.HTTPAddr,
	}, service.Deps{
		Ads:   client,
		Cache: store,
		Calls: store,
		Users: store,
	})
}

// cacheConfigKey is the global config row operators can set through the
// maintenance CLI to tune caching without redeploying.
const cacheConfigKey = "cache"

// applyStoredConfig fills unset cache settings from the global config row.
// Explicit configuration always wins; a missing row is not an error.
func applyStoredConfig(ctx context.Context, store *sqlite.Store, cfg *Config) {
	stored, err := store.GetConfig(ctx, cacheConfigKey, "")
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("read stored cache config: %v", err)
		}
		return
	}
	if cfg.CacheTTL <= 0 {
		if raw, ok := stored["ttl"].(string); ok {
			if ttl, err := time.ParseDuration(raw); err == nil && ttl > 0 {
				cfg.CacheTTL = ttl
			} else {
				log.Printf("stored cache ttl %q is not a duration", raw)
			}
		}
	}
	if enabled, ok := stored["enabled"].(bool); ok && !enabled {
		cfg.CacheEnabled = false
	}
}
