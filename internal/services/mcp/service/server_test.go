package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/adsbridge/internal/ads"
	"github.com/louisbranch/adsbridge/internal/adsclient"
	"github.com/louisbranch/adsbridge/internal/storage/sqlite"
)

type stubAds struct{}

func (stubAds) SearchPage(context.Context, string, string, string) (ads.SearchPage, error) {
	return ads.SearchPage{}, nil
}

func (stubAds) Mutate(context.Context, string, ads.MutationKind, []ads.Operation) (ads.MutateResponse, error) {
	return ads.MutateResponse{}, nil
}

func (stubAds) ListAccessibleCustomers(context.Context) ([]string, error) {
	return nil, nil
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	store, err := sqlite.OpenWithOptions(filepath.Join(t.TempDir(), "bridge.db"), sqlite.Options{DisableAutoSweep: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	client := adsclient.New(stubAds{}, store, store, adsclient.Options{CacheEnabled: true})
	return Deps{Ads: client, Cache: store, Calls: store, Users: store}
}

func TestNewRegistersAllTools(t *testing.T) {
	t.Parallel()
	server, err := New(testDeps(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if server == nil || server.mcpServer == nil {
		t.Fatal("expected configured server")
	}
}

func TestNewRequiresBackends(t *testing.T) {
	t.Parallel()
	if _, err := New(Deps{}); err == nil {
		t.Fatal("expected error for missing backends")
	}
	deps := testDeps(t)
	deps.Cache = nil
	if _, err := New(deps); err == nil {
		t.Fatal("expected error for missing cache store")
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	t.Parallel()
	err := Run(context.Background(), Config{Transport: TransportKind("carrier-pigeon")}, testDeps(t))
	if err == nil {
		t.Fatal("expected error for unsupported transport")
	}
}

func TestServeHTTPStopsOnContextCancel(t *testing.T) {
	t.Parallel()
	server, err := New(testDeps(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.serveHTTP(ctx, "localhost:0")
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serveHTTP returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serveHTTP did not stop after cancellation")
	}
}
