// Package errors provides structured error handling for adsbridge services.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Validation errors (caller's fault, safe to surface verbatim)
	CodeCustomerIDInvalid   Code = "CUSTOMER_ID_INVALID"
	CodeNamespaceUnknown    Code = "NAMESPACE_UNKNOWN"
	CodeTTLInvalid          Code = "TTL_INVALID"
	CodeOperationIDRequired Code = "OPERATION_ID_REQUIRED"
	CodePayloadRequired     Code = "PAYLOAD_REQUIRED"
	CodeFieldInvalid        Code = "FIELD_INVALID"
	CodeDateRangeInvalid    Code = "DATE_RANGE_INVALID"
	CodeAccessDenied        Code = "ACCESS_DENIED"

	// Configuration errors (raised at construction, never deferred)
	CodeConfigInvalid Code = "CONFIG_INVALID"

	// Infrastructure errors (log-and-generalize)
	CodeStorageFailure  Code = "STORAGE_FAILURE"
	CodeUpstreamFailure Code = "UPSTREAM_FAILURE"
)

// validationCodes lists the codes that describe caller mistakes rather than
// infrastructure faults.
var validationCodes = map[Code]bool{
	CodeCustomerIDInvalid:   true,
	CodeNamespaceUnknown:    true,
	CodeTTLInvalid:          true,
	CodeOperationIDRequired: true,
	CodePayloadRequired:     true,
	CodeFieldInvalid:        true,
	CodeDateRangeInvalid:    true,
	CodeAccessDenied:        true,
}

// IsValidationCode reports whether the code describes invalid caller input.
func IsValidationCode(code Code) bool {
	return validationCodes[code]
}
