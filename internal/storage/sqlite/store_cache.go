package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
	"github.com/louisbranch/adsbridge/internal/storage/cachekey"
)

// cacheTables maps each namespace to its backing table. Table names are
// compiled in, never derived from input, so they are safe to interpolate.
var cacheTables = map[storage.Namespace]string{
	storage.NamespaceAPI:        "api_cache",
	storage.NamespaceCampaign:   "campaign_cache",
	storage.NamespaceKeyword:    "keyword_cache",
	storage.NamespaceSearchTerm: "search_term_cache",
	storage.NamespaceBudget:     "budget_cache",
	storage.NamespaceAccountKPI: "account_kpi_cache",
}

func cacheTable(namespace storage.Namespace) (string, error) {
	table, ok := cacheTables[namespace]
	if !ok {
		return "", platformerrors.WithMetadata(
			platformerrors.CodeNamespaceUnknown,
			fmt.Sprintf("unknown cache namespace %q", namespace),
			map[string]string{"namespace": string(namespace)},
		)
	}
	return table, nil
}

// PutResponse stores a serialized value under the derived key, replacing any
// previous entry for that key.
func (s *Store) PutResponse(ctx context.Context, namespace storage.Namespace, customerID string, params map[string]any, value any, ttl time.Duration, metadata map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", errNotConfigured
	}
	table, err := cacheTable(namespace)
	if err != nil {
		return "", err
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return "", platformerrors.New(platformerrors.CodeCustomerIDInvalid, "customer id is required")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return "", platformerrors.Wrap(platformerrors.CodeStorageFailure, "encode cache payload", err)
	}
	var metadataJSON any
	if metadata != nil {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			return "", platformerrors.Wrap(platformerrors.CodeStorageFailure, "encode cache metadata", err)
		}
		metadataJSON = string(encoded)
	}

	s.maybeSweep(ctx)

	key := cachekey.Derive(string(namespace), customerID, params)
	now := s.now()
	expiresAt := now.Add(ttl + expiryGrace)
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO `+table+` (
		   cache_key,
		   customer_id,
		   params,
		   payload,
		   metadata,
		   created_at,
		   expires_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key,
		customerID,
		cachekey.Canonical(params),
		string(payload),
		metadataJSON,
		toMillis(now),
		toMillis(expiresAt),
	)
	if err != nil {
		return "", platformerrors.Wrap(platformerrors.CodeStorageFailure, "put cache entry", err)
	}
	return key, nil
}

// GetResponse decodes the live entry for the derived key into out. Missing,
// expired, and undecodable entries report a miss; read failures degrade to a
// miss as well so callers can fall through to the upstream.
func (s *Store) GetResponse(ctx context.Context, namespace storage.Namespace, customerID string, params map[string]any, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, errNotConfigured
	}
	table, err := cacheTable(namespace)
	if err != nil {
		return false, err
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return false, platformerrors.New(platformerrors.CodeCustomerIDInvalid, "customer id is required")
	}

	s.maybeSweep(ctx)

	key := cachekey.Derive(string(namespace), customerID, params)
	var payload string
	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT payload FROM `+table+` WHERE cache_key = ? AND expires_at > ?`,
		key,
		toMillis(s.now()),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Printf("cache read %s/%s degraded to miss: %v", namespace, key, err)
		return false, nil
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		log.Printf("cache entry %s/%s undecodable, treating as miss: %v", namespace, key, err)
		return false, nil
	}
	return true, nil
}

// Sweep deletes every expired entry across all namespaces.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, errNotConfigured
	}
	removed, err := s.sweepExpired(ctx)
	if err != nil {
		return removed, err
	}
	s.mu.Lock()
	s.lastSweep = s.now()
	s.mu.Unlock()
	return removed, nil
}

func (s *Store) sweepExpired(ctx context.Context) (int64, error) {
	cutoff := toMillis(s.now())
	var removed int64
	for _, namespace := range storage.Namespaces() {
		table := cacheTables[namespace]
		res, err := s.sqlDB.ExecContext(
			ctx,
			`DELETE FROM `+table+` WHERE expires_at <= ?`,
			cutoff,
		)
		if err != nil {
			return removed, platformerrors.Wrap(platformerrors.CodeStorageFailure, "sweep "+table, err)
		}
		if count, err := res.RowsAffected(); err == nil {
			removed += count
		}
	}
	return removed, nil
}

// maybeSweep runs an expiry sweep when the configured interval has elapsed
// since the last one. Failures are logged; the triggering operation proceeds.
func (s *Store) maybeSweep(ctx context.Context) {
	if !s.autoSweep {
		return
	}
	now := s.now()
	s.mu.Lock()
	due := s.lastSweep.IsZero() || now.Sub(s.lastSweep) >= s.sweepInterval
	if due {
		s.lastSweep = now
	}
	s.mu.Unlock()
	if !due {
		return
	}
	if _, err := s.sweepExpired(ctx); err != nil {
		log.Printf("auto sweep failed: %v", err)
	}
}

// Invalidate deletes entries matching the filters, expired or not. An empty
// namespace matches all namespaces; an empty customerID matches all
// customers.
func (s *Store) Invalidate(ctx context.Context, namespace storage.Namespace, customerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, errNotConfigured
	}

	targets := storage.Namespaces()
	if namespace != "" {
		if _, err := cacheTable(namespace); err != nil {
			return 0, err
		}
		targets = []storage.Namespace{namespace}
	}

	customerID = strings.TrimSpace(customerID)
	var removed int64
	for _, target := range targets {
		table := cacheTables[target]
		var (
			res sql.Result
			err error
		)
		if customerID == "" {
			res, err = s.sqlDB.ExecContext(ctx, `DELETE FROM `+table)
		} else {
			res, err = s.sqlDB.ExecContext(ctx, `DELETE FROM `+table+` WHERE customer_id = ?`, customerID)
		}
		if err != nil {
			return removed, platformerrors.Wrap(platformerrors.CodeStorageFailure, "invalidate "+table, err)
		}
		if count, err := res.RowsAffected(); err == nil {
			removed += count
		}
	}
	return removed, nil
}

// Stats returns the row count per namespace, including empty namespaces.
func (s *Store) Stats(ctx context.Context) (map[storage.Namespace]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}

	stats := make(map[storage.Namespace]int64, len(cacheTables))
	for _, namespace := range storage.Namespaces() {
		table := cacheTables[namespace]
		var count int64
		if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
			return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "count "+table, err)
		}
		stats[namespace] = count
	}
	return stats, nil
}
