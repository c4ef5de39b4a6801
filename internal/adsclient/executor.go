package adsclient

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/louisbranch/adsbridge/internal/ads"
	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
	"github.com/louisbranch/adsbridge/internal/storage/cachekey"
)

// runQuery wraps one upstream read with cache semantics and call tracking.
//
// Hit: serve from the cache, no upstream contact. Miss: call the upstream
// once, store the parsed result, and return it; concurrent misses for the
// same key share one upstream call. Upstream failures are never cached.
// Caching disabled: passthrough, logged with status N/A. A failure to cache
// is logged and swallowed; it never fails a successful upstream read.
func runQuery[T any](ctx context.Context, c *Client, method, customerID string, namespace storage.Namespace, query string, keyParams map[string]any, parse func([]ads.Row) (T, error)) (T, error) {
	var zero T

	params := map[string]any{"query": query}
	for k, v := range keyParams {
		params[k] = v
	}

	if !c.cacheEnabled {
		start := c.now()
		rows, err := c.searchAll(ctx, customerID, query)
		if err != nil {
			c.logCall(ctx, method, customerID, storage.CacheDisabled, c.now().Sub(start), query, 0, err)
			return zero, platformerrors.Wrap(platformerrors.CodeUpstreamFailure, method+": upstream call failed", ads.FromError(err))
		}
		result, err := parse(rows)
		if err != nil {
			c.logCall(ctx, method, customerID, storage.CacheDisabled, c.now().Sub(start), query, 0, err)
			return zero, platformerrors.Wrap(platformerrors.CodeUpstreamFailure, method+": decode response", err)
		}
		c.logCall(ctx, method, customerID, storage.CacheDisabled, c.now().Sub(start), query, resultSize(result), nil)
		return result, nil
	}

	start := c.now()
	var cached T
	found, err := c.cache.GetResponse(ctx, namespace, customerID, params, &cached)
	if err != nil {
		return zero, err
	}
	if found {
		c.logCall(ctx, method, customerID, storage.CacheHit, c.now().Sub(start), query, resultSize(cached), nil)
		return cached, nil
	}

	key := cachekey.Derive(string(namespace), customerID, params)
	value, err, shared := c.flight.Do(key, func() (any, error) {
		// A concurrent caller may have populated the entry while this
		// request waited its turn.
		var again T
		if found, err := c.cache.GetResponse(ctx, namespace, customerID, params, &again); err == nil && found {
			c.logCall(ctx, method, customerID, storage.CacheHit, c.now().Sub(start), query, resultSize(again), nil)
			return again, nil
		}

		fetchStart := c.now()
		rows, err := c.searchAll(ctx, customerID, query)
		if err != nil {
			c.logCall(ctx, method, customerID, storage.CacheMiss, c.now().Sub(fetchStart), query, 0, err)
			return zero, platformerrors.Wrap(platformerrors.CodeUpstreamFailure, method+": upstream call failed", ads.FromError(err))
		}
		result, err := parse(rows)
		if err != nil {
			c.logCall(ctx, method, customerID, storage.CacheMiss, c.now().Sub(fetchStart), query, 0, err)
			return zero, platformerrors.Wrap(platformerrors.CodeUpstreamFailure, method+": decode response", err)
		}

		if _, err := c.cache.PutResponse(ctx, namespace, customerID, params, result, c.ttlFor(namespace), nil); err != nil {
			log.Printf("%s: caching response failed: %v", method, err)
		}
		c.logCall(ctx, method, customerID, storage.CacheMiss, c.now().Sub(fetchStart), query, resultSize(result), nil)
		return result, nil
	})
	if err != nil {
		return zero, err
	}
	result, ok := value.(T)
	if !ok {
		return zero, platformerrors.New(platformerrors.CodeUpstreamFailure, method+": unexpected shared result type")
	}
	if shared {
		c.logCall(ctx, method, customerID, storage.CacheHit, c.now().Sub(start), query, resultSize(result), nil)
	}
	return result, nil
}

// resultSize reports the serialized size of a result for call tracking.
func resultSize(value any) int64 {
	data, err := json.Marshal(value)
	if err != nil {
		return 0
	}
	return int64(len(data))
}

// logCall appends one call-log entry. Tracking is observational; failures are
// logged and swallowed.
func (c *Client) logCall(ctx context.Context, method, customerID string, status storage.CacheStatus, elapsed time.Duration, query string, responseSize int64, callErr error) {
	if c.calls == nil {
		return
	}
	call := storage.APICall{
		Timestamp:     c.now(),
		Method:        method,
		CustomerID:    customerID,
		CacheStatus:   status,
		ExecutionTime: elapsed,
		QueryHash:     queryHash(query),
		QuerySize:     int64(len(query)),
		ResponseSize:  responseSize,
		Success:       callErr == nil,
	}
	if callErr != nil {
		call.ErrorMessage = callErr.Error()
	}
	if err := c.calls.AppendAPICall(ctx, call); err != nil {
		log.Printf("%s: call tracking failed: %v", method, err)
	}
}
