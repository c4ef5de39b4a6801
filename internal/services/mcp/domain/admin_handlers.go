package domain

import (
	"context"
	"time"

	"github.com/louisbranch/adsbridge/internal/adsclient"
	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CacheStatsHandler reports stored entry counts per namespace.
func CacheStatsHandler(cache storage.CacheStore) mcp.ToolHandlerFor[CacheStatsInput, CacheStatsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CacheStatsInput) (*mcp.CallToolResult, CacheStatsResult, error) {
		stats, err := cache.Stats(ctx)
		if err != nil {
			return nil, CacheStatsResult{}, toolError("cache_stats", err)
		}
		result := CacheStatsResult{Namespaces: make(map[string]int64, len(stats))}
		for namespace, count := range stats {
			result.Namespaces[string(namespace)] = count
			result.Total += count
		}
		return nil, result, nil
	}
}

// CacheClearHandler removes cached responses. An account filter requires
// admin access on that account when a user id is supplied; namespace-wide
// clears are left to transport-level authorization.
func CacheClearHandler(cache storage.CacheStore, users storage.UserStore) mcp.ToolHandlerFor[CacheClearInput, CacheClearResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CacheClearInput) (*mcp.CallToolResult, CacheClearResult, error) {
		if input.Namespace != "" && !storage.Namespace(input.Namespace).Valid() {
			return nil, CacheClearResult{}, toolError("cache_clear", platformerrors.WithMetadata(
				platformerrors.CodeNamespaceUnknown,
				"unknown cache namespace "+input.Namespace,
				map[string]string{"namespace": input.Namespace},
			))
		}
		customerID := input.CustomerID
		if customerID != "" {
			cleaned, err := adsclient.CleanCustomerID(customerID)
			if err != nil {
				return nil, CacheClearResult{}, toolError("cache_clear", err)
			}
			if err := checkAccess(ctx, users, input.UserID, cleaned, storage.AccessAdmin); err != nil {
				return nil, CacheClearResult{}, toolError("cache_clear", err)
			}
			customerID = cleaned
		}
		removed, err := cache.Invalidate(ctx, storage.Namespace(input.Namespace), customerID)
		if err != nil {
			return nil, CacheClearResult{}, toolError("cache_clear", err)
		}
		return nil, CacheClearResult{Removed: removed}, nil
	}
}

// CacheSweepHandler drops expired cached responses.
func CacheSweepHandler(cache storage.CacheStore) mcp.ToolHandlerFor[CacheSweepInput, CacheSweepResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CacheSweepInput) (*mcp.CallToolResult, CacheSweepResult, error) {
		removed, err := cache.Sweep(ctx)
		if err != nil {
			return nil, CacheSweepResult{}, toolError("cache_sweep", err)
		}
		return nil, CacheSweepResult{Removed: removed}, nil
	}
}

// CallLogHandler lists recent upstream API calls, newest first.
func CallLogHandler(calls storage.APICallLog) mcp.ToolHandlerFor[CallLogInput, CallLogResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CallLogInput) (*mcp.CallToolResult, CallLogResult, error) {
		sinceHours := input.SinceHours
		if sinceHours <= 0 {
			sinceHours = 24
		}
		limit := input.Limit
		if limit <= 0 {
			limit = 100
		}
		since := time.Now().Add(-time.Duration(sinceHours) * time.Hour)

		logged, err := calls.ListAPICalls(ctx, since, limit)
		if err != nil {
			return nil, CallLogResult{}, toolError("call_log", err)
		}
		entries := make([]CallLogEntry, len(logged))
		for i, call := range logged {
			entries[i] = CallLogEntry{
				CalledAt:        call.Timestamp.UTC().Format(time.RFC3339),
				Method:          call.Method,
				CustomerID:      call.CustomerID,
				CacheStatus:     string(call.CacheStatus),
				ExecutionTimeMS: call.ExecutionTime.Milliseconds(),
				QueryHash:       call.QueryHash,
				ResponseSize:    call.ResponseSize,
				Success:         call.Success,
				Error:           call.ErrorMessage,
			}
		}
		return nil, CallLogResult{Calls: entries}, nil
	}
}
