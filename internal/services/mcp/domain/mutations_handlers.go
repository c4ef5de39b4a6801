package domain

import (
	"context"

	"github.com/louisbranch/adsbridge/internal/adsclient"
	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// writeAccess validates the customer id and enforces write grants.
func writeAccess(ctx context.Context, users storage.UserStore, userID, customerID string) (string, error) {
	cleaned, err := adsclient.CleanCustomerID(customerID)
	if err != nil {
		return "", err
	}
	if err := checkAccess(ctx, users, userID, cleaned, storage.AccessWrite); err != nil {
		return "", err
	}
	return cleaned, nil
}

func mutationEntries(results []adsclient.BatchResult) []MutationEntry {
	entries := make([]MutationEntry, len(results))
	for i, result := range results {
		entries[i] = MutationEntry{
			OperationID:  result.OperationID,
			Kind:         string(result.Kind),
			CustomerID:   result.CustomerID,
			Status:       string(result.Status),
			ResourceName: result.ResourceName,
			Error:        result.Error,
		}
	}
	return entries
}

// BudgetUpdateHandler applies campaign budget changes as one batch.
func BudgetUpdateHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[BudgetUpdateInput, MutationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BudgetUpdateInput) (*mcp.CallToolResult, MutationResult, error) {
		customerID, err := writeAccess(ctx, users, input.UserID, input.CustomerID)
		if err != nil {
			return nil, MutationResult{}, toolError("budget_update", err)
		}
		if len(input.Updates) == 0 {
			return nil, MutationResult{}, toolError("budget_update",
				platformerrors.New(platformerrors.CodePayloadRequired, "at least one update is required"))
		}

		batch := client.NewBatch()
		for _, update := range input.Updates {
			err := batch.AddBudgetUpdate(update.OperationID, customerID, update.BudgetID, update.AmountMicros, update.Name)
			if err != nil {
				return nil, MutationResult{}, toolError("budget_update", err)
			}
		}
		results, err := batch.Execute(ctx)
		if err != nil {
			return nil, MutationResult{}, toolError("budget_update", err)
		}
		return nil, MutationResult{Results: mutationEntries(results)}, nil
	}
}

// AdGroupUpdateHandler applies ad group changes as one batch.
func AdGroupUpdateHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[AdGroupUpdateInput, MutationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AdGroupUpdateInput) (*mcp.CallToolResult, MutationResult, error) {
		customerID, err := writeAccess(ctx, users, input.UserID, input.CustomerID)
		if err != nil {
			return nil, MutationResult{}, toolError("ad_group_update", err)
		}
		if len(input.Updates) == 0 {
			return nil, MutationResult{}, toolError("ad_group_update",
				platformerrors.New(platformerrors.CodePayloadRequired, "at least one update is required"))
		}

		batch := client.NewBatch()
		for _, update := range input.Updates {
			err := batch.AddAdGroupUpdate(update.OperationID, customerID, update.AdGroupID, update.Status, update.CPCBidMicros)
			if err != nil {
				return nil, MutationResult{}, toolError("ad_group_update", err)
			}
		}
		results, err := batch.Execute(ctx)
		if err != nil {
			return nil, MutationResult{}, toolError("ad_group_update", err)
		}
		return nil, MutationResult{Results: mutationEntries(results)}, nil
	}
}

// KeywordUpdateHandler applies keyword criterion changes as one batch.
func KeywordUpdateHandler(client *adsclient.Client, users storage.UserStore) mcp.ToolHandlerFor[KeywordUpdateInput, MutationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input KeywordUpdateInput) (*mcp.CallToolResult, MutationResult, error) {
		customerID, err := writeAccess(ctx, users, input.UserID, input.CustomerID)
		if err != nil {
			return nil, MutationResult{}, toolError("keyword_update", err)
		}
		if len(input.Updates) == 0 {
			return nil, MutationResult{}, toolError("keyword_update",
				platformerrors.New(platformerrors.CodePayloadRequired, "at least one update is required"))
		}

		batch := client.NewBatch()
		for _, update := range input.Updates {
			err := batch.AddKeywordUpdate(update.OperationID, customerID, update.AdGroupID, update.CriterionID, update.Status, update.CPCBidMicros)
			if err != nil {
				return nil, MutationResult{}, toolError("keyword_update", err)
			}
		}
		results, err := batch.Execute(ctx)
		if err != nil {
			return nil, MutationResult{}, toolError("keyword_update", err)
		}
		return nil, MutationResult{Results: mutationEntries(results)}, nil
	}
}
