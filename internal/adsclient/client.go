// Package adsclient wraps the upstream ads API with response caching, call
// tracking, and batched mutations.
package adsclient

import (
	"context"
	"crypto/md5"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/louisbranch/adsbridge/internal/ads"
	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL applies to namespaces without an explicit override.
const DefaultCacheTTL = time.Hour

// DefaultMaxBatchSize caps the operations submitted in one mutate call.
const DefaultMaxBatchSize = 1000

// DefaultChunkDelay spaces consecutive mutate calls within a batch.
const DefaultChunkDelay = time.Second

var customerIDPattern = regexp.MustCompile(`^[0-9]{10}$`)

// Options tune client behavior.
type Options struct {
	// CacheEnabled turns response caching on. When false every read is a
	// passthrough and call-log entries record status N/A.
	CacheEnabled bool
	// CacheTTL applies to namespaces without an override. Zero uses
	// DefaultCacheTTL.
	CacheTTL time.Duration
	// TTLOverrides sets per-namespace TTLs.
	TTLOverrides map[storage.Namespace]time.Duration
	// MaxBatchSize caps operations per mutate call. Zero uses
	// DefaultMaxBatchSize.
	MaxBatchSize int
	// ChunkDelay spaces consecutive mutate calls. Zero uses
	// DefaultChunkDelay; negative disables the delay.
	ChunkDelay time.Duration
}

// Client is the cache-aware upstream API client.
type Client struct {
	upstream ads.Client
	cache    storage.CacheStore
	calls    storage.APICallLog

	cacheEnabled bool
	cacheTTL     time.Duration
	ttlOverrides map[storage.Namespace]time.Duration
	maxBatchSize int
	chunkDelay   time.Duration

	flight singleflight.Group
	now    func() time.Time
}

// New builds a client. cache and calls may be nil; a nil cache behaves as
// caching disabled and a nil call log skips tracking.
func New(upstream ads.Client, cache storage.CacheStore, calls storage.APICallLog, opts Options) *Client {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	maxBatch := opts.MaxBatchSize
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatchSize
	}
	delay := opts.ChunkDelay
	if delay == 0 {
		delay = DefaultChunkDelay
	}
	if delay < 0 {
		delay = 0
	}
	return &Client{
		upstream:     upstream,
		cache:        cache,
		calls:        calls,
		cacheEnabled: opts.CacheEnabled && cache != nil,
		cacheTTL:     ttl,
		ttlOverrides: opts.TTLOverrides,
		maxBatchSize: maxBatch,
		chunkDelay:   delay,
		now:          time.Now,
	}
}

func (c *Client) ttlFor(namespace storage.Namespace) time.Duration {
	if ttl, ok := c.ttlOverrides[namespace]; ok && ttl > 0 {
		return ttl
	}
	return c.cacheTTL
}

// CleanCustomerID strips dashes from a customer ID and validates the
// remaining ten digits.
func CleanCustomerID(customerID string) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(customerID), "-", "")
	if !customerIDPattern.MatchString(cleaned) {
		return "", platformerrors.WithMetadata(
			platformerrors.CodeCustomerIDInvalid,
			fmt.Sprintf("customer id %q is not a ten digit account number", customerID),
			map[string]string{"customer_id": customerID},
		)
	}
	return cleaned, nil
}

// FormatCustomerID renders a cleaned customer ID in the 123-456-7890 display
// form.
func FormatCustomerID(cleaned string) string {
	if len(cleaned) != 10 {
		return cleaned
	}
	return cleaned[:3] + "-" + cleaned[3:6] + "-" + cleaned[6:]
}

func queryHash(query string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(query)))
}

// searchAll follows pagination until the result set is exhausted.
func (c *Client) searchAll(ctx context.Context, customerID, query string) ([]ads.Row, error) {
	var rows []ads.Row
	token := ""
	for {
		page, err := c.upstream.SearchPage(ctx, customerID, query, token)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page.Rows...)
		if page.NextPageToken == "" {
			return rows, nil
		}
		token = page.NextPageToken
	}
}
