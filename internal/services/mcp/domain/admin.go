package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// CacheStatsInput represents the MCP tool input for cache statistics.
type CacheStatsInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// CacheStatsResult reports stored entry counts per cache namespace.
type CacheStatsResult struct {
	Namespaces map[string]int64 `json:"namespaces" jsonschema:"entry count per cache namespace"`
	Total      int64            `json:"total"`
}

// CacheClearInput represents the MCP tool input for cache invalidation.
type CacheClearInput struct {
	Namespace  string `json:"namespace,omitempty" jsonschema:"optional namespace to clear, all when omitted"`
	CustomerID string `json:"customer_id,omitempty" jsonschema:"optional account filter, dashes allowed"`
	UserID     string `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// CacheClearResult reports how many cached entries were removed.
type CacheClearResult struct {
	Removed int64 `json:"removed"`
}

// CacheSweepInput represents the MCP tool input for an expiry sweep.
type CacheSweepInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// CacheSweepResult reports how many expired entries were removed.
type CacheSweepResult struct {
	Removed int64 `json:"removed"`
}

// CallLogInput represents the MCP tool input for recent API call listings.
type CallLogInput struct {
	SinceHours int    `json:"since_hours,omitempty" jsonschema:"look-back window in hours, 24 when omitted"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum entries to return, 100 when omitted"`
	UserID     string `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// CallLogEntry is one recorded upstream API call.
type CallLogEntry struct {
	CalledAt        string `json:"called_at"`
	Method          string `json:"method"`
	CustomerID      string `json:"customer_id,omitempty"`
	CacheStatus     string `json:"cache_status"`
	ExecutionTimeMS int64  `json:"execution_time_ms"`
	QueryHash       string `json:"query_hash,omitempty"`
	ResponseSize    int64  `json:"response_size"`
	Success         bool   `json:"success"`
	Error           string `json:"error,omitempty"`
}

// CallLogResult represents the MCP tool output for call listings.
type CallLogResult struct {
	Calls []CallLogEntry `json:"calls"`
}

// CacheStatsTool defines the MCP tool for cache statistics.
func CacheStatsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "cache_stats",
		Description: "Reports stored response counts per cache namespace",
	}
}

// CacheClearTool defines the MCP tool for cache invalidation.
func CacheClearTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "cache_clear",
		Description: "Removes cached responses, optionally limited to one namespace or account",
	}
}

// CacheSweepTool defines the MCP tool for expired entry removal.
func CacheSweepTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "cache_sweep",
		Description: "Removes expired cached responses and reports how many were dropped",
	}
}

// CallLogTool defines the MCP tool for API call history.
func CallLogTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "call_log",
		Description: "Lists recent upstream API calls with cache status and timings",
	}
}
