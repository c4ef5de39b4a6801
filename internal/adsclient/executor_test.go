package adsclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/adsbridge/internal/ads"
	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
	"github.com/louisbranch/adsbridge/internal/storage/sqlite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const testCustomerID = "1234567890"

func TestSecondReadServedFromCache(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{pages: campaignPages()}
	client, store := newTestClient(t, upstream, true)
	ctx := context.Background()

	first, err := client.GetCampaigns(ctx, testCustomerID, "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := client.GetCampaigns(ctx, testCustomerID, "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}

	if upstream.searchCount() != 1 {
		t.Fatalf("upstream search calls = %d, want 1", upstream.searchCount())
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("row counts = %d, %d, want 1, 1", len(first), len(second))
	}
	if second[0].ID != 101 || second[0].Clicks != 100 {
		t.Fatalf("cached row = %+v", second[0])
	}

	calls, err := store.ListAPICalls(ctx, time.Time{}, 0)
	if err != nil {
		t.Fatalf("list calls: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("logged %d calls, want 2", len(calls))
	}
	// Newest first.
	if calls[0].CacheStatus != storage.CacheHit || calls[1].CacheStatus != storage.CacheMiss {
		t.Fatalf("call statuses = %s, %s, want HIT, MISS", calls[0].CacheStatus, calls[1].CacheStatus)
	}
	if !calls[1].Success || calls[1].QuerySize == 0 {
		t.Fatalf("miss entry = %+v", calls[1])
	}
}

func TestDistinctParamsDoNotShareEntries(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{pages: campaignPages()}
	client, _ := newTestClient(t, upstream, true)
	ctx := context.Background()

	if _, err := client.GetCampaigns(ctx, testCustomerID, "2026-01-01", "2026-01-31"); err != nil {
		t.Fatalf("first range: %v", err)
	}
	if _, err := client.GetCampaigns(ctx, testCustomerID, "2026-02-01", "2026-02-28"); err != nil {
		t.Fatalf("second range: %v", err)
	}
	if upstream.searchCount() != 2 {
		t.Fatalf("upstream search calls = %d, want 2 for distinct ranges", upstream.searchCount())
	}
}

func TestPagingMaterializesFullResult(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{pages: []ads.SearchPage{
		{Rows: []ads.Row{{"campaign_budget.id": "1"}}, NextPageToken: "page-2"},
		{Rows: []ads.Row{{"campaign_budget.id": "2"}, {"campaign_budget.id": "3"}}},
	}}
	client, _ := newTestClient(t, upstream, true)

	budgets, err := client.GetBudgets(context.Background(), testCustomerID, "", nil)
	if err != nil {
		t.Fatalf("get budgets: %v", err)
	}
	if len(budgets) != 3 {
		t.Fatalf("budgets = %d, want 3 across pages", len(budgets))
	}
	if upstream.searchCount() != 2 {
		t.Fatalf("page fetches = %d, want 2", upstream.searchCount())
	}
}

func TestUpstreamFailureIsNeverCached(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{
		pages:     campaignPages(),
		searchErr: status.Error(codes.Unavailable, "backend flake"),
	}
	client, store := newTestClient(t, upstream, true)
	ctx := context.Background()

	_, err := client.GetCampaigns(ctx, testCustomerID, "2026-01-01", "2026-01-31")
	if err == nil {
		t.Fatal("expected upstream failure")
	}
	if platformerrors.CodeOf(err) != platformerrors.CodeUpstreamFailure {
		t.Fatalf("error code = %s, want %s", platformerrors.CodeOf(err), platformerrors.CodeUpstreamFailure)
	}
	var apiErr *ads.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != codes.Unavailable {
		t.Fatalf("cause = %v, want wrapped Unavailable APIError", err)
	}

	upstream.mu.Lock()
	upstream.searchErr = nil
	upstream.mu.Unlock()

	campaigns, err := client.GetCampaigns(ctx, testCustomerID, "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("read after recovery: %v", err)
	}
	if len(campaigns) != 1 {
		t.Fatalf("campaigns = %d, want 1 (failure was not cached)", len(campaigns))
	}
	if upstream.searchCount() != 2 {
		t.Fatalf("upstream search calls = %d, want 2", upstream.searchCount())
	}

	calls, err := store.ListAPICalls(ctx, time.Time{}, 0)
	if err != nil {
		t.Fatalf("list calls: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("logged %d calls, want 2", len(calls))
	}
	failed := calls[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Fatalf("failure entry = %+v, want success=false with message", failed)
	}
}

func TestCachingDisabledIsPassthrough(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{pages: campaignPages()}
	client, store := newTestClient(t, upstream, false)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.GetCampaigns(ctx, testCustomerID, "2026-01-01", "2026-01-31"); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
	}
	if upstream.searchCount() != 2 {
		t.Fatalf("upstream search calls = %d, want 2 with caching disabled", upstream.searchCount())
	}

	calls, err := store.ListAPICalls(ctx, time.Time{}, 0)
	if err != nil {
		t.Fatalf("list calls: %v", err)
	}
	for _, call := range calls {
		if call.CacheStatus != storage.CacheDisabled {
			t.Fatalf("call status = %s, want %s", call.CacheStatus, storage.CacheDisabled)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for namespace, count := range stats {
		if count != 0 {
			t.Fatalf("%s rows = %d, want 0 with caching disabled", namespace, count)
		}
	}
}

func TestCacheWriteFailureDoesNotFailRead(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{pages: campaignPages()}
	cache := &failingCache{}
	client := New(upstream, cache, nil, Options{CacheEnabled: true})

	campaigns, err := client.GetCampaigns(context.Background(), testCustomerID, "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("read with broken cache: %v", err)
	}
	if len(campaigns) != 1 {
		t.Fatalf("campaigns = %d, want 1", len(campaigns))
	}
	if !cache.putAttempted {
		t.Fatal("cache write was never attempted")
	}
}

func TestInvalidCustomerIDRejectedBeforeUpstream(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{pages: campaignPages()}
	client, _ := newTestClient(t, upstream, true)

	_, err := client.GetCampaigns(context.Background(), "12345", "2026-01-01", "2026-01-31")
	if platformerrors.CodeOf(err) != platformerrors.CodeCustomerIDInvalid {
		t.Fatalf("error code = %s, want %s", platformerrors.CodeOf(err), platformerrors.CodeCustomerIDInvalid)
	}
	if upstream.searchCount() != 0 {
		t.Fatal("upstream contacted for invalid customer id")
	}

	if _, err := client.GetCampaigns(context.Background(), "123-456-7890", "2026-01-01", "2026-01-31"); err != nil {
		t.Fatalf("dashed customer id rejected: %v", err)
	}
}

func TestListAccessibleAccountsCached(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{accounts: []string{"1234567890", "2345678901"}}
	client, _ := newTestClient(t, upstream, true)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		accounts, err := client.ListAccessibleAccounts(ctx)
		if err != nil {
			t.Fatalf("list accounts %d: %v", i, err)
		}
		if len(accounts) != 2 {
			t.Fatalf("accounts = %d, want 2", len(accounts))
		}
	}
	upstream.mu.Lock()
	calls := upstream.accountCalls
	upstream.mu.Unlock()
	if calls != 1 {
		t.Fatalf("upstream account calls = %d, want 1", calls)
	}
}

func TestRacedCacheFillLogsHit(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{pages: campaignPages()}
	store := openTestStore(t)
	cache := &racingCache{Store: store}
	client := New(upstream, cache, store, Options{
		CacheEnabled: true,
		CacheTTL:     time.Minute,
		ChunkDelay:   -1,
	})
	ctx := context.Background()

	campaigns, err := client.GetCampaigns(ctx, testCustomerID, "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("get campaigns: %v", err)
	}
	if upstream.searchCount() != 0 {
		t.Fatalf("upstream search calls = %d, want 0 when the entry was filled mid-flight", upstream.searchCount())
	}
	if len(campaigns) != 1 || campaigns[0].Name != "Filled" {
		t.Fatalf("campaigns = %+v, want the mid-flight entry", campaigns)
	}

	calls, err := store.ListAPICalls(ctx, time.Time{}, 0)
	if err != nil {
		t.Fatalf("list calls: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("logged %d calls, want 1", len(calls))
	}
	if calls[0].CacheStatus != storage.CacheHit || !calls[0].Success {
		t.Fatalf("call entry = %+v, want a successful HIT", calls[0])
	}
}

// racingCache misses the first lookup and fills the entry behind the caller's
// back, standing in for a concurrent writer landing between the outer cache
// check and the deduplicated fetch.
type racingCache struct {
	*sqlite.Store

	mu      sync.Mutex
	lookups int
}

func (c *racingCache) GetResponse(ctx context.Context, namespace storage.Namespace, customerID string, params map[string]any, out any) (bool, error) {
	c.mu.Lock()
	c.lookups++
	first := c.lookups == 1
	c.mu.Unlock()
	if first {
		filled := []Campaign{{ID: 7, Name: "Filled"}}
		if _, err := c.Store.PutResponse(ctx, namespace, customerID, params, filled, time.Minute, nil); err != nil {
			return false, err
		}
		return false, nil
	}
	return c.Store.GetResponse(ctx, namespace, customerID, params, out)
}

// failingCache misses every read and fails every write.
type failingCache struct {
	putAttempted bool
}

func (f *failingCache) PutResponse(ctx context.Context, namespace storage.Namespace, customerID string, params map[string]any, value any, ttl time.Duration, metadata map[string]any) (string, error) {
	f.putAttempted = true
	return "", errors.New("disk full")
}

func (f *failingCache) GetResponse(ctx context.Context, namespace storage.Namespace, customerID string, params map[string]any, out any) (bool, error) {
	return false, nil
}

func (f *failingCache) Sweep(ctx context.Context) (int64, error) { return 0, nil }

func (f *failingCache) Invalidate(ctx context.Context, namespace storage.Namespace, customerID string) (int64, error) {
	return 0, nil
}

func (f *failingCache) Stats(ctx context.Context) (map[storage.Namespace]int64, error) {
	return map[storage.Namespace]int64{}, nil
}
