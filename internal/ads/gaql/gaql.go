// Package gaql renders the Google Ads Query Language statements the bridge
// issues. Builders validate their inputs before interpolation; callers never
// pass raw user text into a query.
package gaql

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var idPattern = regexp.MustCompile(`^[0-9]+$`)

// ValidateDate checks a YYYY-MM-DD date string.
func ValidateDate(value string) error {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return nil
}

// ValidateDateRange checks both dates and their ordering.
func ValidateDateRange(startDate, endDate string) error {
	if err := ValidateDate(startDate); err != nil {
		return err
	}
	if err := ValidateDate(endDate); err != nil {
		return err
	}
	if startDate > endDate {
		return fmt.Errorf("start date %s is after end date %s", startDate, endDate)
	}
	return nil
}

// ValidateID checks a numeric resource ID (campaign, ad group, budget).
func ValidateID(value string) error {
	if !idPattern.MatchString(value) {
		return fmt.Errorf("invalid id %q, want digits only", value)
	}
	return nil
}

// CampaignPerformance reports active campaigns with traffic in the range,
// busiest first.
func CampaignPerformance(startDate, endDate string) (string, error) {
	if err := ValidateDateRange(startDate, endDate); err != nil {
		return "", err
	}
	return fmt.Sprintf(`SELECT
  campaign.id,
  campaign.name,
  campaign.status,
  campaign.advertising_channel_type,
  metrics.impressions,
  metrics.clicks,
  metrics.cost_micros,
  metrics.conversions,
  metrics.conversions_value
FROM campaign
WHERE segments.date BETWEEN '%s' AND '%s'
  AND campaign.status != 'REMOVED'
  AND metrics.impressions > 0
ORDER BY metrics.impressions DESC`, startDate, endDate), nil
}

// AccountSummary reports account-wide metrics for the range; the caller
// aggregates the per-day rows.
func AccountSummary(startDate, endDate string) (string, error) {
	if err := ValidateDateRange(startDate, endDate); err != nil {
		return "", err
	}
	return fmt.Sprintf(`SELECT
  metrics.impressions,
  metrics.clicks,
  metrics.cost_micros,
  metrics.conversions,
  metrics.conversions_value
FROM customer
WHERE segments.date BETWEEN '%s' AND '%s'`, startDate, endDate), nil
}

// AdGroups lists non-removed ad groups, optionally limited to one campaign.
func AdGroups(startDate, endDate, campaignID string) (string, error) {
	if err := ValidateDateRange(startDate, endDate); err != nil {
		return "", err
	}
	conditions := []string{
		fmt.Sprintf("segments.date BETWEEN '%s' AND '%s'", startDate, endDate),
		"ad_group.status != 'REMOVED'",
	}
	if campaignID != "" {
		if err := ValidateID(campaignID); err != nil {
			return "", err
		}
		conditions = append(conditions, fmt.Sprintf("campaign.id = %s", campaignID))
	}
	return fmt.Sprintf(`SELECT
  ad_group.id,
  ad_group.name,
  ad_group.status,
  campaign.id,
  campaign.name,
  metrics.impressions,
  metrics.clicks,
  metrics.cost_micros,
  metrics.conversions
FROM ad_group
WHERE %s
ORDER BY metrics.impressions DESC`, strings.Join(conditions, "\n  AND ")), nil
}

// Keywords lists non-removed keywords with metrics, optionally limited to one
// campaign or ad group.
func Keywords(startDate, endDate, campaignID, adGroupID string) (string, error) {
	if err := ValidateDateRange(startDate, endDate); err != nil {
		return "", err
	}
	conditions := []string{
		fmt.Sprintf("segments.date BETWEEN '%s' AND '%s'", startDate, endDate),
	}
	if campaignID != "" {
		if err := ValidateID(campaignID); err != nil {
			return "", err
		}
		conditions = append(conditions, fmt.Sprintf("campaign.id = %s", campaignID))
	}
	if adGroupID != "" {
		if err := ValidateID(adGroupID); err != nil {
			return "", err
		}
		conditions = append(conditions, fmt.Sprintf("ad_group.id = %s", adGroupID))
	}
	conditions = append(conditions, "ad_group_criterion.status != 'REMOVED'")
	return fmt.Sprintf(`SELECT
  ad_group_criterion.criterion_id,
  ad_group_criterion.keyword.text,
  ad_group_criterion.keyword.match_type,
  ad_group_criterion.status,
  ad_group.id,
  ad_group.name,
  campaign.id,
  campaign.name,
  metrics.impressions,
  metrics.clicks,
  metrics.cost_micros,
  metrics.conversions,
  metrics.conversions_value,
  metrics.average_cpc
FROM keyword_view
WHERE %s
ORDER BY metrics.impressions DESC`, strings.Join(conditions, "\n  AND ")), nil
}

// SearchTerms reports the queries that triggered ads in the range, optionally
// limited to one campaign or ad group.
func SearchTerms(startDate, endDate, campaignID, adGroupID string) (string, error) {
	if err := ValidateDateRange(startDate, endDate); err != nil {
		return "", err
	}
	conditions := []string{
		fmt.Sprintf("segments.date BETWEEN '%s' AND '%s'", startDate, endDate),
	}
	if campaignID != "" {
		if err := ValidateID(campaignID); err != nil {
			return "", err
		}
		conditions = append(conditions, fmt.Sprintf("campaign.id = %s", campaignID))
	}
	if adGroupID != "" {
		if err := ValidateID(adGroupID); err != nil {
			return "", err
		}
		conditions = append(conditions, fmt.Sprintf("ad_group.id = %s", adGroupID))
	}
	return fmt.Sprintf(`SELECT
  search_term_view.search_term,
  search_term_view.status,
  ad_group.id,
  ad_group.name,
  campaign.id,
  campaign.name,
  metrics.impressions,
  metrics.clicks,
  metrics.cost_micros,
  metrics.conversions
FROM search_term_view
WHERE %s
ORDER BY metrics.impressions DESC`, strings.Join(conditions, "\n  AND ")), nil
}

// Budgets lists campaign budgets, optionally filtered by status or narrowed
// to specific budget IDs.
func Budgets(statusFilter string, budgetIDs []string) (string, error) {
	var conditions []string
	if statusFilter != "" {
		switch statusFilter {
		case "ENABLED", "REMOVED", "UNKNOWN":
		default:
			return "", fmt.Errorf("invalid budget status filter %q", statusFilter)
		}
		conditions = append(conditions, fmt.Sprintf("campaign_budget.status = '%s'", statusFilter))
	}
	if len(budgetIDs) > 0 {
		for _, id := range budgetIDs {
			if err := ValidateID(id); err != nil {
				return "", err
			}
		}
		conditions = append(conditions, fmt.Sprintf("campaign_budget.id IN (%s)", strings.Join(budgetIDs, ", ")))
	}
	where := ""
	if len(conditions) > 0 {
		where = "\nWHERE " + strings.Join(conditions, "\n  AND ")
	}
	return fmt.Sprintf(`SELECT
  campaign_budget.id,
  campaign_budget.name,
  campaign_budget.status,
  campaign_budget.amount_micros,
  campaign_budget.delivery_method,
  campaign_budget.period
FROM campaign_budget%s`, where), nil
}
