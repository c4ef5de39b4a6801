package domain

import (
	"context"

	"github.com/louisbranch/adsbridge/internal/adsclient"
	"github.com/louisbranch/adsbridge/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AccountListHandler lists accessible accounts, filtered to the caller's
// grants when a user id is supplied.
func AccountListHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[AccountListInput, AccountListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AccountListInput) (*mcp.CallToolResult, AccountListResult, error) {
		accounts, err := client.ListAccessibleAccounts(ctx)
		if err != nil {
			return nil, AccountListResult{}, toolError("account_list", err)
		}

		entries := make([]AccountEntry, 0, len(accounts))
		for _, customerID := range accounts {
			if input.UserID != "" && users != nil {
				ok, err := users.HasAccountAccess(ctx, input.UserID, customerID, storage.AccessRead)
				if err != nil {
					return nil, AccountListResult{}, toolError("account_list", err)
				}
				if !ok {
					continue
				}
			}
			entries = append(entries, AccountEntry{
				CustomerID: customerID,
				Display:    adsclient.FormatCustomerID(customerID),
			})
		}
		return nil, AccountListResult{Accounts: entries}, nil
	}
}

// AccountSummaryHandler aggregates account KPIs for a date range.
func AccountSummaryHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[AccountSummaryInput, AccountSummaryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AccountSummaryInput) (*mcp.CallToolResult, AccountSummaryResult, error) {
		customerID, err := adsclient.CleanCustomerID(input.CustomerID)
		if err != nil {
			return nil, AccountSummaryResult{}, toolError("account_summary", err)
		}
		if err := checkAccess(ctx, users, input.UserID, customerID, storage.AccessRead); err != nil {
			return nil, AccountSummaryResult{}, toolError("account_summary", err)
		}

		summary, err := client.GetAccountSummary(ctx, customerID, input.StartDate, input.EndDate)
		if err != nil {
			return nil, AccountSummaryResult{}, toolError("account_summary", err)
		}
		return nil, AccountSummaryResult{
			CustomerID:        summary.CustomerID,
			StartDate:         summary.StartDate,
			EndDate:           summary.EndDate,
			Impressions:       summary.Impressions,
			Clicks:            summary.Clicks,
			CostMicros:        summary.CostMicros,
			Conversions:       summary.Conversions,
			ConversionsValue:  summary.ConversionsValue,
			CTR:               summary.CTR,
			AverageCPC:        summary.AverageCPC,
			ConversionRate:    summary.ConversionRate,
			CostPerConversion: summary.CostPerConversion,
		}, nil
	}
}
