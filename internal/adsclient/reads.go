package adsclient

import (
	"context"
	"log"

	"github.com/louisbranch/adsbridge/internal/ads"
	"github.com/louisbranch/adsbridge/internal/ads/gaql"
	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
)

// accountsScope is the cache scope for credential-wide lookups that are not
// tied to a single customer.
const accountsScope = "accessible_accounts"

// Campaign is one row of the campaign performance report.
type Campaign struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Status           string  `json:"status"`
	ChannelType      string  `json:"channel_type"`
	Impressions      int64   `json:"impressions"`
	Clicks           int64   `json:"clicks"`
	CostMicros       int64   `json:"cost_micros"`
	Conversions      float64 `json:"conversions"`
	ConversionsValue float64 `json:"conversions_value"`
}

// AccountSummary aggregates account-wide metrics over a date range.
type AccountSummary struct {
	CustomerID        string  `json:"customer_id"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	Impressions       int64   `json:"impressions"`
	Clicks            int64   `json:"clicks"`
	CostMicros        int64   `json:"cost_micros"`
	Conversions       float64 `json:"conversions"`
	ConversionsValue  float64 `json:"conversions_value"`
	CTR               float64 `json:"ctr"`
	AverageCPC        float64 `json:"average_cpc"`
	ConversionRate    float64 `json:"conversion_rate"`
	CostPerConversion float64 `json:"cost_per_conversion"`
}

// AdGroup is one row of the ad group report.
type AdGroup struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	CampaignID   int64   `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	Impressions  int64   `json:"impressions"`
	Clicks       int64   `json:"clicks"`
	CostMicros   int64   `json:"cost_micros"`
	Conversions  float64 `json:"conversions"`
}

// Keyword is one row of the keyword report.
type Keyword struct {
	CriterionID      int64   `json:"criterion_id"`
	Text             string  `json:"text"`
	MatchType        string  `json:"match_type"`
	Status           string  `json:"status"`
	AdGroupID        int64   `json:"ad_group_id"`
	AdGroupName      string  `json:"ad_group_name"`
	CampaignID       int64   `json:"campaign_id"`
	CampaignName     string  `json:"campaign_name"`
	Impressions      int64   `json:"impressions"`
	Clicks           int64   `json:"clicks"`
	CostMicros       int64   `json:"cost_micros"`
	Conversions      float64 `json:"conversions"`
	ConversionsValue float64 `json:"conversions_value"`
	AverageCPC       float64 `json:"average_cpc"`
}

// SearchTerm is one row of the search term report.
type SearchTerm struct {
	Term         string  `json:"term"`
	Status       string  `json:"status"`
	AdGroupID    int64   `json:"ad_group_id"`
	AdGroupName  string  `json:"ad_group_name"`
	CampaignID   int64   `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	Impressions  int64   `json:"impressions"`
	Clicks       int64   `json:"clicks"`
	CostMicros   int64   `json:"cost_micros"`
	Conversions  float64 `json:"conversions"`
}

// Budget is one campaign budget record.
type Budget struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	AmountMicros   int64  `json:"amount_micros"`
	DeliveryMethod string `json:"delivery_method"`
	Period         string `json:"period"`
}

// ListAccessibleAccounts returns the customer IDs reachable with the
// configured credentials. The listing is cached under a fixed scope since it
// is credential-wide rather than per-customer.
func (c *Client) ListAccessibleAccounts(ctx context.Context) ([]string, error) {
	method := "list_accessible_accounts"
	params := map[string]any{"method": method}

	if c.cacheEnabled {
		var cached []string
		found, err := c.cache.GetResponse(ctx, storage.NamespaceAPI, accountsScope, params, &cached)
		if err != nil {
			return nil, err
		}
		if found {
			c.logCall(ctx, method, "", storage.CacheHit, 0, "", resultSize(cached), nil)
			return cached, nil
		}
	}

	start := c.now()
	accounts, err := c.upstream.ListAccessibleCustomers(ctx)
	elapsed := c.now().Sub(start)
	if err != nil {
		c.logCall(ctx, method, "", cacheStatusFor(c.cacheEnabled, storage.CacheMiss), elapsed, "", 0, err)
		return nil, platformerrors.Wrap(platformerrors.CodeUpstreamFailure, method+": upstream call failed", ads.FromError(err))
	}
	if c.cacheEnabled {
		if _, err := c.cache.PutResponse(ctx, storage.NamespaceAPI, accountsScope, params, accounts, c.ttlFor(storage.NamespaceAPI), nil); err != nil {
			log.Printf("%s: caching response failed: %v", method, err)
		}
	}
	c.logCall(ctx, method, "", cacheStatusFor(c.cacheEnabled, storage.CacheMiss), elapsed, "", resultSize(accounts), nil)
	return accounts, nil
}

func cacheStatusFor(enabled bool, status storage.CacheStatus) storage.CacheStatus {
	if !enabled {
		return storage.CacheDisabled
	}
	return status
}

// RunGAQL executes a caller-supplied GAQL statement and returns the raw rows.
// Results land in the generic api namespace.
func (c *Client) RunGAQL(ctx context.Context, customerID, query string) ([]ads.Row, error) {
	customerID, err := CleanCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	return runQuery(ctx, c, "run_gaql", customerID, storage.NamespaceAPI, query, nil, func(rows []ads.Row) ([]ads.Row, error) {
		return rows, nil
	})
}

// GetCampaigns returns campaign performance for the date range.
func (c *Client) GetCampaigns(ctx context.Context, customerID, startDate, endDate string) ([]Campaign, error) {
	customerID, err := CleanCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	query, err := gaql.CampaignPerformance(startDate, endDate)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeDateRangeInvalid, "get_campaigns: invalid date range", err)
	}
	return runQuery(ctx, c, "get_campaigns", customerID, storage.NamespaceCampaign, query, nil, func(rows []ads.Row) ([]Campaign, error) {
		campaigns := make([]Campaign, 0, len(rows))
		for _, row := range rows {
			campaigns = append(campaigns, Campaign{
				ID:               row.Int64("campaign.id"),
				Name:             row.Str("campaign.name"),
				Status:           row.Str("campaign.status"),
				ChannelType:      row.Str("campaign.advertising_channel_type"),
				Impressions:      row.Int64("metrics.impressions"),
				Clicks:           row.Int64("metrics.clicks"),
				CostMicros:       row.Int64("metrics.cost_micros"),
				Conversions:      row.Float64("metrics.conversions"),
				ConversionsValue: row.Float64("metrics.conversions_value"),
			})
		}
		return campaigns, nil
	})
}

// GetAccountSummary aggregates account-wide KPIs for the date range.
func (c *Client) GetAccountSummary(ctx context.Context, customerID, startDate, endDate string) (AccountSummary, error) {
	customerID, err := CleanCustomerID(customerID)
	if err != nil {
		return AccountSummary{}, err
	}
	query, err := gaql.AccountSummary(startDate, endDate)
	if err != nil {
		return AccountSummary{}, platformerrors.Wrap(platformerrors.CodeDateRangeInvalid, "get_account_summary: invalid date range", err)
	}
	return runQuery(ctx, c, "get_account_summary", customerID, storage.NamespaceAccountKPI, query, nil, func(rows []ads.Row) (AccountSummary, error) {
		summary := AccountSummary{
			CustomerID: customerID,
			StartDate:  startDate,
			EndDate:    endDate,
		}
		for _, row := range rows {
			summary.Impressions += row.Int64("metrics.impressions")
			summary.Clicks += row.Int64("metrics.clicks")
			summary.CostMicros += row.Int64("metrics.cost_micros")
			summary.Conversions += row.Float64("metrics.conversions")
			summary.ConversionsValue += row.Float64("metrics.conversions_value")
		}
		if summary.Impressions > 0 {
			summary.CTR = float64(summary.Clicks) / float64(summary.Impressions) * 100
		}
		if summary.Clicks > 0 {
			summary.AverageCPC = float64(summary.CostMicros) / float64(summary.Clicks)
			summary.ConversionRate = summary.Conversions / float64(summary.Clicks) * 100
		}
		if summary.Conversions > 0 {
			summary.CostPerConversion = float64(summary.CostMicros) / summary.Conversions
		}
		return summary, nil
	})
}

// GetAdGroups returns ad groups for the date range, optionally limited to one
// campaign. Ad group structure is campaign data, so results share the
// campaign namespace for invalidation purposes.
func (c *Client) GetAdGroups(ctx context.Context, customerID, startDate, endDate, campaignID string) ([]AdGroup, error) {
	customerID, err := CleanCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	query, err := gaql.AdGroups(startDate, endDate, campaignID)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeFieldInvalid, "get_ad_groups: invalid filter", err)
	}
	keyParams := map[string]any{"campaign_id": campaignID}
	return runQuery(ctx, c, "get_ad_groups", customerID, storage.NamespaceCampaign, query, keyParams, func(rows []ads.Row) ([]AdGroup, error) {
		groups := make([]AdGroup, 0, len(rows))
		for _, row := range rows {
			groups = append(groups, AdGroup{
				ID:           row.Int64("ad_group.id"),
				Name:         row.Str("ad_group.name"),
				Status:       row.Str("ad_group.status"),
				CampaignID:   row.Int64("campaign.id"),
				CampaignName: row.Str("campaign.name"),
				Impressions:  row.Int64("metrics.impressions"),
				Clicks:       row.Int64("metrics.clicks"),
				CostMicros:   row.Int64("metrics.cost_micros"),
				Conversions:  row.Float64("metrics.conversions"),
			})
		}
		return groups, nil
	})
}

// GetKeywords returns keyword performance for the date range, optionally
// limited to one campaign or ad group.
func (c *Client) GetKeywords(ctx context.Context, customerID, startDate, endDate, campaignID, adGroupID string) ([]Keyword, error) {
	customerID, err := CleanCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	query, err := gaql.Keywords(startDate, endDate, campaignID, adGroupID)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeFieldInvalid, "get_keywords: invalid filter", err)
	}
	keyParams := map[string]any{"campaign_id": campaignID, "ad_group_id": adGroupID}
	return runQuery(ctx, c, "get_keywords", customerID, storage.NamespaceKeyword, query, keyParams, func(rows []ads.Row) ([]Keyword, error) {
		keywords := make([]Keyword, 0, len(rows))
		for _, row := range rows {
			keywords = append(keywords, Keyword{
				CriterionID:      row.Int64("ad_group_criterion.criterion_id"),
				Text:             row.Str("ad_group_criterion.keyword.text"),
				MatchType:        row.Str("ad_group_criterion.keyword.match_type"),
				Status:           row.Str("ad_group_criterion.status"),
				AdGroupID:        row.Int64("ad_group.id"),
				AdGroupName:      row.Str("ad_group.name"),
				CampaignID:       row.Int64("campaign.id"),
				CampaignName:     row.Str("campaign.name"),
				Impressions:      row.Int64("metrics.impressions"),
				Clicks:           row.Int64("metrics.clicks"),
				CostMicros:       row.Int64("metrics.cost_micros"),
				Conversions:      row.Float64("metrics.conversions"),
				ConversionsValue: row.Float64("metrics.conversions_value"),
				AverageCPC:       row.Float64("metrics.average_cpc"),
			})
		}
		return keywords, nil
	})
}

// GetSearchTerms returns the search terms that triggered ads in the range.
func (c *Client) GetSearchTerms(ctx context.Context, customerID, startDate, endDate, campaignID, adGroupID string) ([]SearchTerm, error) {
	customerID, err := CleanCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	query, err := gaql.SearchTerms(startDate, endDate, campaignID, adGroupID)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeFieldInvalid, "get_search_terms: invalid filter", err)
	}
	keyParams := map[string]any{"campaign_id": campaignID, "ad_group_id": adGroupID}
	return runQuery(ctx, c, "get_search_terms", customerID, storage.NamespaceSearchTerm, query, keyParams, func(rows []ads.Row) ([]SearchTerm, error) {
		terms := make([]SearchTerm, 0, len(rows))
		for _, row := range rows {
			terms = append(terms, SearchTerm{
				Term:         row.Str("search_term_view.search_term"),
				Status:       row.Str("search_term_view.status"),
				AdGroupID:    row.Int64("ad_group.id"),
				AdGroupName:  row.Str("ad_group.name"),
				CampaignID:   row.Int64("campaign.id"),
				CampaignName: row.Str("campaign.name"),
				Impressions:  row.Int64("metrics.impressions"),
				Clicks:       row.Int64("metrics.clicks"),
				CostMicros:   row.Int64("metrics.cost_micros"),
				Conversions:  row.Float64("metrics.conversions"),
			})
		}
		return terms, nil
	})
}

// GetBudgets returns campaign budgets, optionally filtered by status or
// narrowed to specific budget IDs.
func (c *Client) GetBudgets(ctx context.Context, customerID, statusFilter string, budgetIDs []string) ([]Budget, error) {
	customerID, err := CleanCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	query, err := gaql.Budgets(statusFilter, budgetIDs)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeFieldInvalid, "get_budgets: invalid filter", err)
	}
	return runQuery(ctx, c, "get_budgets", customerID, storage.NamespaceBudget, query, nil, func(rows []ads.Row) ([]Budget, error) {
		budgets := make([]Budget, 0, len(rows))
		for _, row := range rows {
			budgets = append(budgets, Budget{
				ID:             row.Int64("campaign_budget.id"),
				Name:           row.Str("campaign_budget.name"),
				Status:         row.Str("campaign_budget.status"),
				AmountMicros:   row.Int64("campaign_budget.amount_micros"),
				DeliveryMethod: row.Str("campaign_budget.delivery_method"),
				Period:         row.Str("campaign_budget.period"),
			})
		}
		return budgets, nil
	})
}
