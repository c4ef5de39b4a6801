package gaql

import (
	"strings"
	"testing"
)

func TestValidateDateRange(t *testing.T) {
	t.Parallel()

	if err := ValidateDateRange("2026-01-01", "2026-01-31"); err != nil {
		t.Fatalf("valid range rejected: %v", err)
	}
	if err := ValidateDateRange("2026-02-01", "2026-01-01"); err == nil {
		t.Fatal("inverted range accepted")
	}
	if err := ValidateDateRange("01/01/2026", "2026-01-31"); err == nil {
		t.Fatal("malformed date accepted")
	}
}

func TestCampaignPerformanceQuery(t *testing.T) {
	t.Parallel()

	query, err := CampaignPerformance("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	for _, want := range []string{
		"FROM campaign",
		"segments.date BETWEEN '2026-01-01' AND '2026-01-31'",
		"campaign.status != 'REMOVED'",
		"metrics.impressions > 0",
		"ORDER BY metrics.impressions DESC",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query missing %q:\n%s", want, query)
		}
	}
}

func TestKeywordsQueryFilters(t *testing.T) {
	t.Parallel()

	query, err := Keywords("2026-01-01", "2026-01-31", "123", "456")
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if !strings.Contains(query, "campaign.id = 123") {
		t.Errorf("query missing campaign filter:\n%s", query)
	}
	if !strings.Contains(query, "ad_group.id = 456") {
		t.Errorf("query missing ad group filter:\n%s", query)
	}

	if _, err := Keywords("2026-01-01", "2026-01-31", "123; DROP TABLE", ""); err == nil {
		t.Fatal("non-numeric campaign id accepted")
	}
}

func TestBudgetsQuery(t *testing.T) {
	t.Parallel()

	query, err := Budgets("", nil)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if strings.Contains(query, "WHERE") {
		t.Errorf("unfiltered query has WHERE clause:\n%s", query)
	}

	query, err = Budgets("ENABLED", []string{"11", "22"})
	if err != nil {
		t.Fatalf("build filtered query: %v", err)
	}
	if !strings.Contains(query, "campaign_budget.status = 'ENABLED'") {
		t.Errorf("query missing status filter:\n%s", query)
	}
	if !strings.Contains(query, "campaign_budget.id IN (11, 22)") {
		t.Errorf("query missing id filter:\n%s", query)
	}

	if _, err := Budgets("PAUSED", nil); err == nil {
		t.Fatal("invalid status filter accepted")
	}
}
