package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/adsbridge/internal/ads"
	"google.golang.org/grpc/codes"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{
		Endpoint:       server.URL,
		DeveloperToken: "dev-token",
		AccessToken:    "access-token",
		HTTPClient:     server.Client(),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewRequiresCredentials(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{AccessToken: "x"}); err == nil {
		t.Fatal("expected error without developer token")
	}
	if _, err := New(Config{DeveloperToken: "x"}); err == nil {
		t.Fatal("expected error without access token")
	}
}

func TestSearchPageFlattensRows(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers/1234567890/googleAds:search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("developer-token") != "dev-token" {
			t.Errorf("developer-token header = %q", r.Header.Get("developer-token"))
		}
		if r.Header.Get("Authorization") != "Bearer access-token" {
			t.Errorf("authorization header = %q", r.Header.Get("Authorization"))
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "SELECT campaign.id FROM campaign" {
			t.Errorf("query = %q", req.Query)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{
				"campaign": map[string]any{
					"id":                     "11",
					"advertisingChannelType": "SEARCH",
				},
				"metrics": map[string]any{"costMicros": "2500000"},
			}},
			"nextPageToken": "page-2",
		})
	}))

	page, err := client.SearchPage(context.Background(), "1234567890", "SELECT campaign.id FROM campaign", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.NextPageToken != "page-2" {
		t.Errorf("NextPageToken = %q, want page-2", page.NextPageToken)
	}
	if len(page.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(page.Rows))
	}
	row := page.Rows[0]
	if row.Int64("campaign.id") != 11 {
		t.Errorf("campaign.id = %d, want 11", row.Int64("campaign.id"))
	}
	if row.Str("campaign.advertising_channel_type") != "SEARCH" {
		t.Errorf("channel type = %q", row.Str("campaign.advertising_channel_type"))
	}
	if row.Int64("metrics.cost_micros") != 2500000 {
		t.Errorf("cost = %d", row.Int64("metrics.cost_micros"))
	}
}

func TestMutateEncodesOperationsAndPartialFailure(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers/1234567890/campaignBudgets:mutate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req mutateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !req.PartialFailure {
			t.Error("expected partialFailure to be set")
		}
		if len(req.Operations) != 1 {
			t.Fatalf("len(Operations) = %d, want 1", len(req.Operations))
		}
		update, ok := req.Operations[0]["update"].(map[string]any)
		if !ok {
			t.Fatalf("operation missing update body: %+v", req.Operations[0])
		}
		if update["amountMicros"] != float64(5_000_000) {
			t.Errorf("amountMicros = %v", update["amountMicros"])
		}
		if req.Operations[0]["updateMask"] != "amount_micros" {
			t.Errorf("updateMask = %v", req.Operations[0]["updateMask"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"resourceName": "customers/1234567890/campaignBudgets/500"}},
			"partialFailureError": map[string]any{
				"code":    3,
				"message": "one operation failed",
			},
		})
	}))

	op, err := ads.UpdateOperation("customers/1234567890/campaignBudgets/500", map[string]any{"amount_micros": int64(5_000_000)})
	if err != nil {
		t.Fatalf("build operation: %v", err)
	}
	resp, err := client.Mutate(context.Background(), "1234567890", ads.MutateBudget, []ads.Operation{op})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ResourceName == "" {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.PartialFailure == nil || resp.PartialFailure.Code != codes.InvalidArgument {
		t.Fatalf("partial failure = %+v", resp.PartialFailure)
	}
}

func TestListAccessibleCustomersStripsPrefix(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"resourceNames": []string{"customers/1234567890", "customers/2345678901"},
		})
	}))

	ids, err := client.ListAccessibleCustomers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "1234567890" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestErrorBodyBecomesAPIError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("request-id", "req-1")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    7,
				"message": "developer token is not approved",
			},
		})
	}))

	_, err := client.SearchPage(context.Background(), "1234567890", "SELECT campaign.id FROM campaign", "")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *ads.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *ads.APIError", err)
	}
	if apiErr.Code != codes.PermissionDenied {
		t.Errorf("code = %s, want PermissionDenied", apiErr.Code)
	}
	if apiErr.RequestID != "req-1" {
		t.Errorf("request id = %q, want req-1", apiErr.RequestID)
	}
}
