package ads

import (
	"errors"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestUpdateOperationMaskMatchesFields(t *testing.T) {
	t.Parallel()

	op, err := UpdateOperation(BudgetResourceName("111", "22"), map[string]any{
		"amount_micros": int64(5000000),
		"name":          "spring push",
	})
	if err != nil {
		t.Fatalf("build operation: %v", err)
	}
	if op.ResourceName != "customers/111/campaignBudgets/22" {
		t.Fatalf("resource name = %q", op.ResourceName)
	}
	paths := op.UpdateMask.GetPaths()
	if len(paths) != 2 || paths[0] != "amount_micros" || paths[1] != "name" {
		t.Fatalf("mask paths = %v, want sorted field names", paths)
	}
}

func TestUpdateOperationRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := UpdateOperation("", map[string]any{"x": 1}); err == nil {
		t.Fatal("empty resource name accepted")
	}
	if _, err := UpdateOperation("customers/1/adGroups/2", nil); err == nil {
		t.Fatal("empty field map accepted")
	}
}

func TestFromErrorKeepsGRPCCode(t *testing.T) {
	t.Parallel()

	apiErr := FromError(status.Error(codes.ResourceExhausted, "quota exceeded"))
	if apiErr.Code != codes.ResourceExhausted {
		t.Fatalf("code = %v, want %v", apiErr.Code, codes.ResourceExhausted)
	}
	if !apiErr.Retryable() {
		t.Fatal("quota error not retryable")
	}

	plain := FromError(errors.New("boom"))
	if plain.Code != codes.Unknown {
		t.Fatalf("plain error code = %v, want %v", plain.Code, codes.Unknown)
	}

	original := &APIError{Code: codes.InvalidArgument, Message: "bad field"}
	if got := FromError(original); got != original {
		t.Fatal("existing APIError not passed through")
	}
}

func TestFromErrorExtractsFieldViolations(t *testing.T) {
	t.Parallel()

	st, err := status.New(codes.InvalidArgument, "request rejected").WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{
			{Field: "operations.update.amount_micros", Description: "must be positive"},
		},
	})
	if err != nil {
		t.Fatalf("build status: %v", err)
	}

	apiErr := FromError(st.Err())
	if len(apiErr.Details) != 1 {
		t.Fatalf("len(Details) = %d, want 1", len(apiErr.Details))
	}
	detail := apiErr.Details[0]
	if detail.FieldPath != "operations.update.amount_micros" {
		t.Errorf("field path = %q", detail.FieldPath)
	}
	if detail.Message != "must be positive" {
		t.Errorf("message = %q", detail.Message)
	}
	if detail.Index != -1 {
		t.Errorf("index = %d, want -1 for non-positional detail", detail.Index)
	}
}
