package domain

import "github.com/modelcontextprotocol/go-sdk/mcp"

// ReportInput is the shared input shape for date-ranged report tools.
type ReportInput struct {
	CustomerID string `json:"customer_id" jsonschema:"ads account number, dashes allowed"`
	StartDate  string `json:"start_date" jsonschema:"range start (YYYY-MM-DD)"`
	EndDate    string `json:"end_date" jsonschema:"range end (YYYY-MM-DD)"`
	CampaignID string `json:"campaign_id,omitempty" jsonschema:"optional campaign filter"`
	AdGroupID  string `json:"ad_group_id,omitempty" jsonschema:"optional ad group filter"`
	UserID     string `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// CampaignListResult represents the MCP tool output for campaign reports.
type CampaignListResult struct {
	Campaigns []CampaignEntry `json:"campaigns"`
}

// CampaignEntry is one campaign performance row.
type CampaignEntry struct {
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

// AdGroupListResult represents the MCP tool output for ad group reports.
type AdGroupListResult struct {
	AdGroups []AdGroupEntry `json:"ad_groups"`
}

// AdGroupEntry is one ad group row.
type AdGroupEntry struct {
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

// KeywordListResult represents the MCP tool output for keyword reports.
type KeywordListResult struct {
	Keywords []KeywordEntry `json:"keywords"`
}

// KeywordEntry is one keyword row.
type KeywordEntry struct {
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

// SearchTermListResult represents the MCP tool output for search term reports.
type SearchTermListResult struct {
	SearchTerms []SearchTermEntry `json:"search_terms"`
}

// SearchTermEntry is one search term row.
type SearchTermEntry struct {
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

// BudgetListInput represents the MCP tool input for budget listings.
type BudgetListInput struct {
	CustomerID   string   `json:"customer_id" jsonschema:"ads account number, dashes allowed"`
	StatusFilter string   `json:"status_filter,omitempty" jsonschema:"optional status filter (ENABLED, REMOVED, UNKNOWN)"`
	BudgetIDs    []string `json:"budget_ids,omitempty" jsonschema:"optional budget id filter"`
	UserID       string   `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// BudgetListResult represents the MCP tool output for budget listings.
type BudgetListResult struct {
	Budgets []BudgetEntry `json:"budgets"`
}

// BudgetEntry is one campaign budget record.
type BudgetEntry struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	AmountMicros   int64  `json:"amount_micros"`
	DeliveryMethod string `json:"delivery_method"`
	Period         string `json:"period"`
}

// GAQLInput represents the MCP tool input for raw GAQL queries.
type GAQLInput struct {
	CustomerID string `json:"customer_id" jsonschema:"ads account number, dashes allowed"`
	Query      string `json:"query" jsonschema:"GAQL statement to execute"`
	UserID     string `json:"user_id,omitempty" jsonschema:"optional caller identity for access checks"`
}

// GAQLResult represents the MCP tool output for raw GAQL queries.
type GAQLResult struct {
	Rows []map[string]any `json:"rows" jsonschema:"result rows keyed by GAQL field path"`
}

// CampaignListTool defines the MCP tool for campaign performance reports.
func CampaignListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_list",
		Description: "Reports active campaigns with traffic in a date range",
	}
}

// AdGroupListTool defines the MCP tool for ad group reports.
func AdGroupListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ad_group_list",
		Description: "Reports ad groups in a date range, optionally limited to one campaign",
	}
}

// KeywordListTool defines the MCP tool for keyword reports.
func KeywordListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "keyword_list",
		Description: "Reports keyword performance in a date range",
	}
}

// SearchTermListTool defines the MCP tool for search term reports.
func SearchTermListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_term_list",
		Description: "Reports the search queries that triggered ads in a date range",
	}
}

// BudgetListTool defines the MCP tool for budget listings.
func BudgetListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "budget_list",
		Description: "Lists campaign budgets with optional status and id filters",
	}
}

// GAQLTool defines the MCP tool for raw GAQL queries.
func GAQLTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "run_gaql",
		Description: "Executes a raw GAQL statement and returns the result rows",
	}
}
