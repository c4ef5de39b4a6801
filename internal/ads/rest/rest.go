// Package rest adapts the Google Ads REST surface to the ads.Client
// interface. It covers the search, mutate, and accessible-customer endpoints
// the bridge uses; deployments with generated gRPC stubs can swap in their
// own adapter behind the same interface.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/adsbridge/internal/ads"
	"google.golang.org/grpc/codes"
)

const defaultEndpoint = "https://googleads.googleapis.com/v21"

// Config carries the credentials the Ads REST API requires.
type Config struct {
	// Endpoint overrides the API base URL, mainly for tests.
	Endpoint string
	// DeveloperToken is the Ads API developer token.
	DeveloperToken string
	// AccessToken is an OAuth2 bearer token. Token refresh is the
	// caller's concern; the adapter sends whatever it is handed.
	AccessToken string
	// LoginCustomerID is the manager account header, optional.
	LoginCustomerID string
	// HTTPClient overrides the transport, optional.
	HTTPClient *http.Client
}

// Client talks to the Ads REST API.
type Client struct {
	endpoint        string
	developerToken  string
	accessToken     string
	loginCustomerID string
	httpClient      *http.Client
}

// New builds a REST client. DeveloperToken and AccessToken are required.
func New(cfg Config) (*Client, error) {
	if cfg.DeveloperToken == "" {
		return nil, fmt.Errorf("developer token is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		endpoint:        endpoint,
		developerToken:  cfg.DeveloperToken,
		accessToken:     cfg.AccessToken,
		loginCustomerID: cfg.LoginCustomerID,
		httpClient:      httpClient,
	}, nil
}

type searchRequest struct {
	Query     string `json:"query"`
	PageToken string `json:"pageToken,omitempty"`
}

type searchResponse struct {
	Results       []map[string]any `json:"results"`
	NextPageToken string           `json:"nextPageToken"`
}

// SearchPage runs a GAQL query and returns one page of rows.
func (c *Client) SearchPage(ctx context.Context, customerID, query, pageToken string) (ads.SearchPage, error) {
	url := fmt.Sprintf("%s/customers/%s/googleAds:search", c.endpoint, customerID)
	var resp searchResponse
	if err := c.post(ctx, url, searchRequest{Query: query, PageToken: pageToken}, &resp); err != nil {
		return ads.SearchPage{}, err
	}
	page := ads.SearchPage{NextPageToken: resp.NextPageToken}
	page.Rows = make([]ads.Row, len(resp.Results))
	for i, result := range resp.Results {
		page.Rows[i] = flattenRow(result)
	}
	return page, nil
}

type mutateRequest struct {
	Operations     []map[string]any `json:"operations"`
	PartialFailure bool             `json:"partialFailure"`
}

type mutateResponse struct {
	Results []struct {
		ResourceName string `json:"resourceName"`
	} `json:"results"`
	PartialFailureError *restStatus `json:"partialFailureError"`
}

// Mutate submits one group of same-kind operations with partial failure
// enabled, so independent operations in the group land even when others are
// rejected.
func (c *Client) Mutate(ctx context.Context, customerID string, kind ads.MutationKind, ops []ads.Operation) (ads.MutateResponse, error) {
	url := fmt.Sprintf("%s/customers/%s/%s:mutate", c.endpoint, customerID, mutatePath(kind))
	req := mutateRequest{PartialFailure: true}
	req.Operations = make([]map[string]any, len(ops))
	for i, op := range ops {
		req.Operations[i] = encodeOperation(kind, op)
	}
	var resp mutateResponse
	if err := c.post(ctx, url, req, &resp); err != nil {
		return ads.MutateResponse{}, err
	}
	out := ads.MutateResponse{}
	out.Results = make([]ads.MutateResult, len(resp.Results))
	for i, result := range resp.Results {
		out.Results[i] = ads.MutateResult{ResourceName: result.ResourceName}
	}
	if resp.PartialFailureError != nil {
		out.PartialFailure = resp.PartialFailureError.toAPIError()
	}
	return out, nil
}

// ListAccessibleCustomers returns the customer IDs reachable with the
// configured credentials.
func (c *Client) ListAccessibleCustomers(ctx context.Context) ([]string, error) {
	url := c.endpoint + "/customers:listAccessibleCustomers"
	var resp struct {
		ResourceNames []string `json:"resourceNames"`
	}
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.ResourceNames))
	for _, name := range resp.ResourceNames {
		ids = append(ids, strings.TrimPrefix(name, "customers/"))
	}
	return ids, nil
}

func mutatePath(kind ads.MutationKind) string {
	switch kind {
	case ads.MutateBudget:
		return "campaignBudgets"
	case ads.MutateAdGroup:
		return "adGroups"
	case ads.MutateAdGroupCriterion:
		return "adGroupCriteria"
	}
	return string(kind)
}

// encodeOperation renders an update operation in the REST shape: a camelCase
// resource body plus a comma-joined updateMask.
func encodeOperation(kind ads.MutationKind, op ads.Operation) map[string]any {
	body := map[string]any{"resourceName": op.ResourceName}
	for field, value := range op.Fields {
		body[snakeToCamel(field)] = value
	}
	update := map[string]any{"update": body}
	if op.UpdateMask != nil {
		update["updateMask"] = strings.Join(op.UpdateMask.Paths, ",")
	}
	return update
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("developer-token", c.developerToken)
	if c.loginCustomerID != "" {
		req.Header.Set("login-customer-id", c.loginCustomerID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ads.APIError{Code: codes.Unavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ads.APIError{Code: codes.Unavailable, Message: fmt.Sprintf("read response: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return decodeErrorBody(resp.StatusCode, resp.Header.Get("request-id"), data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ads.APIError{Code: codes.Internal, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// restStatus mirrors the google.rpc.Status JSON shape returned by the API.
type restStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details []struct {
		Errors []struct {
			Message  string `json:"message"`
			Location struct {
				FieldPathElements []struct {
					FieldName string `json:"fieldName"`
					Index     *int   `json:"index"`
				} `json:"fieldPathElements"`
			} `json:"location"`
		} `json:"errors"`
	} `json:"details"`
}

func (s *restStatus) toAPIError() *ads.APIError {
	apiErr := &ads.APIError{Code: codes.Code(s.Code), Message: s.Message}
	for _, detail := range s.Details {
		for _, entry := range detail.Errors {
			index := -1
			var path []string
			for _, element := range entry.Location.FieldPathElements {
				path = append(path, element.FieldName)
				if element.FieldName == "operations" && element.Index != nil {
					index = *element.Index
				}
			}
			apiErr.Details = append(apiErr.Details, ads.ErrorDetail{
				Index:     index,
				Message:   entry.Message,
				FieldPath: strings.Join(path, "."),
			})
		}
	}
	return apiErr
}

func decodeErrorBody(httpStatus int, requestID string, data []byte) error {
	var wrapper struct {
		Error restStatus `json:"error"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Error.Message != "" {
		apiErr := wrapper.Error.toAPIError()
		if apiErr.Code == codes.OK {
			apiErr.Code = codeForHTTPStatus(httpStatus)
		}
		apiErr.RequestID = requestID
		return apiErr
	}
	return &ads.APIError{
		Code:      codeForHTTPStatus(httpStatus),
		Message:   strings.TrimSpace(string(data)),
		RequestID: requestID,
	}
}

func codeForHTTPStatus(status int) codes.Code {
	switch status {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	}
	return codes.Unknown
}

// flattenRow converts the nested camelCase result object into the dotted
// snake_case paths GAQL reports use, e.g. {"campaign":{"id":"1"}} becomes
// {"campaign.id":"1"}.
func flattenRow(result map[string]any) ads.Row {
	row := make(ads.Row)
	flattenInto(row, "", result)
	return row
}

func flattenInto(row ads.Row, prefix string, value map[string]any) {
	for key, entry := range value {
		path := camelToSnake(key)
		if prefix != "" {
			path = prefix + "." + path
		}
		if nested, ok := entry.(map[string]any); ok {
			flattenInto(row, path, nested)
			continue
		}
		row[path] = entry
	}
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
