package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeStorageFailure, "store cache row", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause in chain, got %v", err)
	}
	if err.Error() != "store cache row" {
		t.Fatalf("message = %q, want %q", err.Error(), "store cache row")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeStorageFailure, "write failed")
	target := New(CodeStorageFailure, "different message")

	if !errors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(err, New(CodeConfigInvalid, "write failed")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestCodeOfUnwrapsChain(t *testing.T) {
	inner := New(CodeTTLInvalid, "ttl must be positive")
	outer := fmt.Errorf("put: %w", inner)

	if got := CodeOf(outer); got != CodeTTLInvalid {
		t.Fatalf("CodeOf = %q, want %q", got, CodeTTLInvalid)
	}
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf plain error = %q, want %q", got, CodeUnknown)
	}
}

func TestIsValidationPartitionsTaxonomy(t *testing.T) {
	if !IsValidation(New(CodeCustomerIDInvalid, "bad customer id")) {
		t.Fatal("customer id errors are validation errors")
	}
	if IsValidation(New(CodeStorageFailure, "db gone")) {
		t.Fatal("storage errors are not validation errors")
	}
	if IsValidation(errors.New("plain")) {
		t.Fatal("plain errors are not validation errors")
	}
}
