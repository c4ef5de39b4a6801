package domain

import (
	"context"

	"github.com/louisbranch/adsbridge/internal/adsclient"
	"github.com/louisbranch/adsbridge/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// readAccess validates the customer id and enforces read grants.
func readAccess(ctx context.Context, users storage.UserStore, userID, customerID string) (string, error) {
	cleaned, err := adsclient.CleanCustomerID(customerID)
	if err != nil {
		return "", err
	}
	if err := checkAccess(ctx, users, userID, cleaned, storage.AccessRead); err != nil {
		return "", err
	}
	return cleaned, nil
}

// CampaignListHandler reports campaign performance for a date range.
func CampaignListHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[ReportInput, CampaignListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, CampaignListResult, error) {
		customerID, err := readAccess(ctx, users, input.UserID, input.CustomerID)
		if err != nil {
			return nil, CampaignListResult{}, toolError("campaign_list", err)
		}
		campaigns, err := client.GetCampaigns(ctx, customerID, input.StartDate, input.EndDate)
		if err != nil {
			return nil, CampaignListResult{}, toolError("campaign_list", err)
		}
		entries := make([]CampaignEntry, len(campaigns))
		for i, campaign := range campaigns {
			entries[i] = CampaignEntry(campaign)
		}
		return nil, CampaignListResult{Campaigns: entries}, nil
	}
}

// AdGroupListHandler reports ad groups for a date range.
func AdGroupListHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[ReportInput, AdGroupListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, AdGroupListResult, error) {
		customerID, err := readAccess(ctx, users, input.UserID, input.CustomerID)
		if err != nil {
			return nil, AdGroupListResult{}, toolError("ad_group_list", err)
		}
		groups, err := client.GetAdGroups(ctx, customerID, input.StartDate, input.EndDate, input.CampaignID)
		if err != nil {
			return nil, AdGroupListResult{}, toolError("ad_group_list", err)
		}
		entries := make([]AdGroupEntry, len(groups))
		for i, group := range groups {
			entries[i] = AdGroupEntry(group)
		}
		return nil, AdGroupListResult{AdGroups: entries}, nil
	}
}

// KeywordListHandler reports keyword performance for a date range.
func KeywordListHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[ReportInput, KeywordListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, KeywordListResult, error) {
		customerID, err := readAccess(ctx, users, input.UserID, input.CustomerID)
		if err != nil {
			return nil, KeywordListResult{}, toolError("keyword_list", err)
		}
		keywords, err := client.GetKeywords(ctx, customerID, input.StartDate, input.EndDate, input.CampaignID, input.AdGroupID)
		if err != nil {
			return nil, KeywordListResult{}, toolError("keyword_list", err)
		}
		entries := make([]KeywordEntry, len(keywords))
		for i, keyword := range keywords {
			entries[i] = KeywordEntry(keyword)
		}
		return nil, KeywordListResult{Keywords: entries}, nil
	}
}

// SearchTermListHandler reports triggering search queries for a date range.
func SearchTermListHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[ReportInput, SearchTermListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, SearchTermListResult, error) {
		customerID, err := readAccess(ctx, users, input.UserID, input.CustomerID)
		if err != nil {
			return nil, SearchTermListResult{}, toolError("search_term_list", err)
		}
		terms, err := client.GetSearchTerms(ctx, customerID, input.StartDate, input.EndDate, input.CampaignID, input.AdGroupID)
		if err != nil {
			return nil, SearchTermListResult{}, toolError("search_term_list", err)
		}
		entries := make([]SearchTermEntry, len(terms))
		for i, term := range terms {
			entries[i] = SearchTermEntry(term)
		}
		return nil, SearchTermListResult{SearchTerms: entries}, nil
	}
}

// BudgetListHandler lists campaign budgets.
func BudgetListHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[BudgetListInput, BudgetListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BudgetListInput) (*mcp.CallToolResult, BudgetListResult, error) {
		customerID, err := readAccess(ctx, users, input.UserID, input.CustomerID)
		if err != nil {
			return nil, BudgetListResult{}, toolError("budget_list", err)
		}
		budgets, err := client.GetBudgets(ctx, customerID, input.StatusFilter, input.BudgetIDs)
		if err != nil {
			return nil, BudgetListResult{}, toolError("budget_list", err)
		}
		entries := make([]BudgetEntry, len(budgets))
		for i, budget := range budgets {
			entries[i] = BudgetEntry(budget)
		}
		return nil, BudgetListResult{Budgets: entries}, nil
	}
}

// GAQLHandler executes a raw GAQL statement.
func GAQLHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[GAQLInput, GAQLResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GAQLInput) (*mcp.CallToolResult, GAQLResult, error) {
		customerID, err := readAccess(ctx, users, input.UserID, input.CustomerID)
		if err != nil {
			return nil, GAQLResult{}, toolError("run_gaql", err)
		}
		rows, err := client.RunGAQL(ctx, customerID, input.Query)
		if err != nil {
			return nil, GAQLResult{}, toolError("run_gaql", err)
		}
		out := make([]map[string]any, len(rows))
		for i, row := range rows {
			out[i] = map[string]any(row)
		}
		return nil, GAQLResult{Rows: out}, nil
	}
}
