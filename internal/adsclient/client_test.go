package adsclient

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/adsbridge/internal/ads"
	"github.com/louisbranch/adsbridge/internal/storage/sqlite"
)

// fakeUpstream scripts upstream responses and records calls.
type fakeUpstream struct {
	mu sync.Mutex

	pages       []ads.SearchPage
	searchErr   error
	searchCalls int

	mutateFn    func(customerID string, kind ads.MutationKind, ops []ads.Operation) (ads.MutateResponse, error)
	mutateCalls []mutateCall

	accounts     []string
	accountCalls int
}

type mutateCall struct {
	customerID string
	kind       ads.MutationKind
	ops        []ads.Operation
}

func (f *fakeUpstream) SearchPage(ctx context.Context, customerID, query, pageToken string) (ads.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return ads.SearchPage{}, f.searchErr
	}
	index := 0
	if pageToken != "" {
		for i, page := range f.pages {
			if page.NextPageToken == pageToken {
				index = i + 1
				break
			}
		}
	}
	if index >= len(f.pages) {
		return ads.SearchPage{}, nil
	}
	return f.pages[index], nil
}

func (f *fakeUpstream) Mutate(ctx context.Context, customerID string, kind ads.MutationKind, ops []ads.Operation) (ads.MutateResponse, error) {
	f.mu.Lock()
	f.mutateCalls = append(f.mutateCalls, mutateCall{customerID: customerID, kind: kind, ops: ops})
	fn := f.mutateFn
	f.mu.Unlock()
	if fn != nil {
		return fn(customerID, kind, ops)
	}
	results := make([]ads.MutateResult, len(ops))
	for i, op := range ops {
		results[i] = ads.MutateResult{ResourceName: op.ResourceName}
	}
	return ads.MutateResponse{Results: results}, nil
}

func (f *fakeUpstream) ListAccessibleCustomers(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountCalls++
	return f.accounts, nil
}

func (f *fakeUpstream) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls
}

func (f *fakeUpstream) mutations() []mutateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mutateCall(nil), f.mutateCalls...)
}

func campaignPages() []ads.SearchPage {
	return []ads.SearchPage{{
		Rows: []ads.Row{{
			"campaign.id":               "101",
			"campaign.name":             "Brand",
			"campaign.status":           "ENABLED",
			"metrics.impressions":       "1000",
			"metrics.clicks":            "100",
			"metrics.cost_micros":       "2500000",
			"metrics.conversions":       5.0,
			"metrics.conversions_value": 120.5,
		}},
	}}
}

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.OpenWithOptions(
		filepath.Join(t.TempDir(), "adsbridge.db"),
		sqlite.Options{DisableAutoSweep: true},
	)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func newTestClient(t *testing.T, upstream *fakeUpstream, enabled bool) (*Client, *sqlite.Store) {
	t.Helper()

	store := openTestStore(t)
	client := New(upstream, store, store, Options{
		CacheEnabled: enabled,
		CacheTTL:     time.Minute,
		ChunkDelay:   -1,
	})
	return client, store
}
