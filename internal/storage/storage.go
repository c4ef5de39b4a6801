package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Namespace identifies a logical cache partition. Each namespace is stored
// in its own table so invalidation and stats stay cheap per entity class.
type Namespace string

const (
	NamespaceAPI        Namespace = "api"
	NamespaceCampaign   Namespace = "campaign"
	NamespaceKeyword    Namespace = "keyword"
	NamespaceSearchTerm Namespace = "search_term"
	NamespaceBudget     Namespace = "budget"
	NamespaceAccountKPI Namespace = "account_kpi"
)

// Namespaces returns every known namespace in stable order.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceAPI,
		NamespaceCampaign,
		NamespaceKeyword,
		NamespaceSearchTerm,
		NamespaceBudget,
		NamespaceAccountKPI,
	}
}

// Valid reports whether n is a known namespace.
func (n Namespace) Valid() bool {
	for _, known := range Namespaces() {
		if n == known {
			return true
		}
	}
	return false
}

// CacheStore persists upstream responses with per-entry expiry.
type CacheStore interface {
	// PutResponse stores value under the key derived from (namespace,
	// customerID, params) and returns that key. The entry expires ttl plus a
	// small fixed grace period after the write; storing under an existing
	// key replaces the entry. The optional metadata travels with the entry
	// but does not affect the key.
	PutResponse(ctx context.Context, namespace Namespace, customerID string, params map[string]any, value any, ttl time.Duration, metadata map[string]any) (string, error)

	// GetResponse looks up the entry for (namespace, customerID, params) and
	// decodes it into out. It reports false for missing, expired, or
	// undecodable entries; backend read failures also degrade to a miss so
	// callers can always fall through to the upstream.
	GetResponse(ctx context.Context, namespace Namespace, customerID string, params map[string]any, out any) (bool, error)

	// Sweep deletes every expired entry across all namespaces and returns
	// the number of rows removed.
	Sweep(ctx context.Context) (int64, error)

	// Invalidate deletes entries matching the filters, expired or not. An
	// empty namespace matches all namespaces; an empty customerID matches
	// all customers. It returns the number of rows removed.
	Invalidate(ctx context.Context, namespace Namespace, customerID string) (int64, error)

	// Stats reports the row count per namespace. Every known namespace
	// appears in the result, including empty ones.
	Stats(ctx context.Context) (map[Namespace]int64, error)
}

// CacheStatus records how a call interacted with the cache.
type CacheStatus string

const (
	CacheHit      CacheStatus = "HIT"
	CacheMiss     CacheStatus = "MISS"
	CacheDisabled CacheStatus = "N/A"
)

// APICall is one entry in the append-only upstream call log.
type APICall struct {
	Timestamp     time.Time
	Method        string
	CustomerID    string
	CacheStatus   CacheStatus
	ExecutionTime time.Duration
	QueryHash     string
	QuerySize     int64
	ResponseSize  int64
	Success       bool
	ErrorMessage  string
}

// APICallLog records upstream call outcomes for offline inspection.
type APICallLog interface {
	AppendAPICall(ctx context.Context, call APICall) error
	// ListAPICalls returns calls logged at or after since, newest first,
	// capped at limit (0 means no cap).
	ListAPICalls(ctx context.Context, since time.Time, limit int) ([]APICall, error)
}

// AccessLevel orders account permissions from weakest to strongest.
type AccessLevel string

const (
	AccessRead  AccessLevel = "read"
	AccessWrite AccessLevel = "write"
	AccessAdmin AccessLevel = "admin"
)

// rank returns the ordering of an access level; unknown levels rank lowest.
func (l AccessLevel) rank() int {
	switch l {
	case AccessRead:
		return 1
	case AccessWrite:
		return 2
	case AccessAdmin:
		return 3
	}
	return 0
}

// AtLeast reports whether l grants at least the min level.
func (l AccessLevel) AtLeast(min AccessLevel) bool {
	return l.rank() >= min.rank()
}

// AccountAccess links a user to an ads account with a permission level.
type AccountAccess struct {
	UserID     string
	CustomerID string
	Level      AccessLevel
	GrantedAt  time.Time
}

// UserStore persists user profiles and their account grants.
type UserStore interface {
	PutUser(ctx context.Context, userID string, profile map[string]any) error
	GetUser(ctx context.Context, userID string) (map[string]any, error)
	GrantAccountAccess(ctx context.Context, userID, customerID string, level AccessLevel) error
	ListAccountAccess(ctx context.Context, userID string) ([]AccountAccess, error)
	// HasAccountAccess reports whether the user holds at least min access to
	// the account.
	HasAccountAccess(ctx context.Context, userID, customerID string, min AccessLevel) (bool, error)
}

// ConfigStore persists layered key/value configuration. A record with an
// empty user ID is a global default; per-user records shadow it.
type ConfigStore interface {
	PutConfig(ctx context.Context, key, userID string, value map[string]any) error
	// GetConfig resolves key for the user, falling back to the global value
	// when the user has no override. It returns ErrNotFound when neither
	// exists.
	GetConfig(ctx context.Context, key, userID string) (map[string]any, error)
}
