package ads

import (
	"fmt"
	"sort"

	"google.golang.org/protobuf/types/known/fieldmaskpb"
)

// MutationKind names the single resource type a grouped mutate call touches.
type MutationKind string

const (
	MutateBudget           MutationKind = "campaign_budget"
	MutateAdGroup          MutationKind = "ad_group"
	MutateAdGroupCriterion MutationKind = "ad_group_criterion"
)

// Valid reports whether k is a known mutation kind.
func (k MutationKind) Valid() bool {
	switch k {
	case MutateBudget, MutateAdGroup, MutateAdGroupCriterion:
		return true
	}
	return false
}

// Operation is one update within a grouped mutate call. Fields holds the new
// values keyed by API field path; UpdateMask restricts the write to exactly
// those paths.
type Operation struct {
	ResourceName string
	Fields       map[string]any
	UpdateMask   *fieldmaskpb.FieldMask
}

// UpdateOperation builds an update for the named resource. The mask paths are
// derived from the field map so the upstream only writes what changed.
func UpdateOperation(resourceName string, fields map[string]any) (Operation, error) {
	if resourceName == "" {
		return Operation{}, fmt.Errorf("resource name is required")
	}
	if len(fields) == 0 {
		return Operation{}, fmt.Errorf("update for %s carries no fields", resourceName)
	}
	paths := make([]string, 0, len(fields))
	for path := range fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return Operation{
		ResourceName: resourceName,
		Fields:       fields,
		UpdateMask:   &fieldmaskpb.FieldMask{Paths: paths},
	}, nil
}

// BudgetResourceName renders the campaign budget resource path.
func BudgetResourceName(customerID, budgetID string) string {
	return fmt.Sprintf("customers/%s/campaignBudgets/%s", customerID, budgetID)
}

// AdGroupResourceName renders the ad group resource path.
func AdGroupResourceName(customerID, adGroupID string) string {
	return fmt.Sprintf("customers/%s/adGroups/%s", customerID, adGroupID)
}

// CriterionResourceName renders the ad group criterion resource path. The
// criterion segment is the composite "adGroupID~criterionID" key.
func CriterionResourceName(customerID, adGroupID, criterionID string) string {
	return fmt.Sprintf("customers/%s/adGroupCriteria/%s~%s", customerID, adGroupID, criterionID)
}
