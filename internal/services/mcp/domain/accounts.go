package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// AccountListInput represents the MCP tool input for listing accounts.
type AccountListInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"optional caller identity for access filtering"`
}

// AccountListResult represents the MCP tool output for listing accounts.
type AccountListResult struct {
	Accounts []AccountEntry `json:"accounts" jsonschema:"accessible ads accounts"`
}

// AccountEntry is one accessible account.
type AccountEntry struct {
	CustomerID string `json:"customer_id" jsonschema:"ten digit account number"`
	Display    string `json:"display" jsonschema:"dashed display form (123-456-7890)"`
}

// AccountSummaryInput represents the MCP tool input for account KPIs.
type AccountSummaryInput struct {
	CustomerID string `json:"customer_id" jsonschema:"ads account number, dashes allowed"`
	StartDate  string `json:"start_date" jsonschema:"range start (YYYY-MM-DD)"`
	EndDate    string `json:"end_date" jsonschema:"range end (YYYY-MM-DD)"`
	UserID     string `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// AccountSummaryResult represents the MCP tool output for account KPIs.
type AccountSummaryResult struct {
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

// AccountListTool defines the MCP tool for listing accessible accounts.
func AccountListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "account_list",
		Description: "Lists the ads accounts reachable with the configured credentials",
	}
}

// AccountSummaryTool defines the MCP tool for account-wide KPIs.
func AccountSummaryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "account_summary",
		Description: "Aggregates account-wide performance metrics over a date range",
	}
}
