// Package ads defines the upstream Google Ads surface the bridge depends on.
//
// The bridge never talks to the reporting API directly; it goes through the
// Client interface so the caching layer and batch manager can be exercised
// against fakes. A production implementation adapts the official gRPC
// transport behind this interface.
package ads

import (
	"context"
	"strconv"
)

// Row is one search result row keyed by GAQL field path, for example
// "campaign.id" or "metrics.clicks". Values are the decoded JSON scalars.
type Row map[string]any

// Str returns the string value at the field path, or "" when absent.
func (r Row) Str(path string) string {
	switch v := r[path].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// Int64 returns the integer value at the field path, or 0 when absent. The
// reporting API serializes int64 metrics as strings; both forms decode.
func (r Row) Int64(path string) int64 {
	switch v := r[path].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}

// Float64 returns the float value at the field path, or 0 when absent.
func (r Row) Float64(path string) float64 {
	switch v := r[path].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}

// SearchPage is one page of search results.
type SearchPage struct {
	Rows          []Row
	NextPageToken string
}

// MutateResult reports the outcome of one operation in a mutate call, in
// submission order.
type MutateResult struct {
	ResourceName string
}

// MutateResponse is the outcome of one grouped mutate call. When the call ran
// in partial-failure mode, Results holds an empty ResourceName at each failed
// position and PartialFailure carries the combined error detail.
type MutateResponse struct {
	Results        []MutateResult
	PartialFailure *APIError
}

// Client is the upstream API surface.
type Client interface {
	// SearchPage runs a GAQL query and returns one page of rows. An empty
	// pageToken requests the first page; an empty NextPageToken on the
	// response means the result set is exhausted.
	SearchPage(ctx context.Context, customerID, query, pageToken string) (SearchPage, error)

	// Mutate submits one group of same-kind operations for a customer with
	// partial-failure mode enabled.
	Mutate(ctx context.Context, customerID string, kind MutationKind, ops []Operation) (MutateResponse, error)

	// ListAccessibleCustomers returns the customer IDs reachable with the
	// configured credentials.
	ListAccessibleCustomers(ctx context.Context) ([]string, error)
}
