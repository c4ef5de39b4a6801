package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// BudgetUpdate is one queued campaign budget change.
type BudgetUpdate struct {
	OperationID  string `json:"operation_id" jsonschema:"caller-chosen id echoed back in results"`
	BudgetID     string `json:"budget_id" jsonschema:"campaign budget id"`
	AmountMicros int64  `json:"amount_micros" jsonschema:"new budget amount in micros, must be positive"`
	Name         string `json:"name,omitempty" jsonschema:"optional new budget name"`
}

// BudgetUpdateInput represents the MCP tool input for budget mutations.
type BudgetUpdateInput struct {
	CustomerID string         `json:"customer_id" jsonschema:"ads account number, dashes allowed"`
	Updates    []BudgetUpdate `json:"updates" jsonschema:"budget changes to apply as one batch"`
	UserID     string         `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// AdGroupUpdate is one queued ad group change.
type AdGroupUpdate struct {
	OperationID  string `json:"operation_id" jsonschema:"caller-chosen id echoed back in results"`
	AdGroupID    string `json:"ad_group_id" jsonschema:"ad group id"`
	Status       string `json:"status,omitempty" jsonschema:"new status (ENABLED, PAUSED, REMOVED)"`
	CPCBidMicros int64  `json:"cpc_bid_micros,omitempty" jsonschema:"new default CPC bid in micros"`
}

// AdGroupUpdateInput represents the MCP tool input for ad group mutations.
type AdGroupUpdateInput struct {
	CustomerID string          `json:"customer_id" jsonschema:"ads account number, dashes allowed"`
	Updates    []AdGroupUpdate `json:"updates" jsonschema:"ad group changes to apply as one batch"`
	UserID     string          `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// KeywordUpdate is one queued keyword criterion change.
type KeywordUpdate struct {
	OperationID  string `json:"operation_id" jsonschema:"caller-chosen id echoed back in results"`
	AdGroupID    string `json:"ad_group_id" jsonschema:"ad group owning the keyword"`
	CriterionID  string `json:"criterion_id" jsonschema:"keyword criterion id"`
	Status       string `json:"status,omitempty" jsonschema:"new status (ENABLED, PAUSED, REMOVED)"`
	CPCBidMicros int64  `json:"cpc_bid_micros,omitempty" jsonschema:"new CPC bid in micros"`
}

// KeywordUpdateInput represents the MCP tool input for keyword mutations.
type KeywordUpdateInput struct {
	CustomerID string          `json:"customer_id" jsonschema:"ads account number, dashes allowed"`
	Updates    []KeywordUpdate `json:"updates" jsonschema:"keyword changes to apply as one batch"`
	UserID     string          `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// MutationEntry reports the outcome of one queued operation.
type MutationEntry struct {
	OperationID  string `json:"operation_id"`
	Kind         string `json:"kind"`
	CustomerID   string `json:"customer_id"`
	Status       string `json:"status"`
	ResourceName string `json:"resource_name,omitempty"`
	Error        string `json:"error,omitempty"`
}

// MutationResult represents the MCP tool output for mutation batches.
type MutationResult struct {
	Results []MutationEntry `json:"results"`
}

// BudgetUpdateTool defines the MCP tool for campaign budget mutations.
func BudgetUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "budget_update",
		Description: "Applies campaign budget changes as one batch and reports per-operation outcomes",
	}
}

// AdGroupUpdateTool defines the MCP tool for ad group mutations.
func AdGroupUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ad_group_update",
		Description: "Applies ad group status and bid changes as one batch and reports per-operation outcomes",
	}
}

// KeywordUpdateTool defines the MCP tool for keyword mutations.
func KeywordUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "keyword_update",
		Description: "Applies keyword status and bid changes as one batch and reports per-operation outcomes",
	}
}
