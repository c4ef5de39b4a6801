package ads

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDetail is one failure within an upstream call. Grouped mutate calls
// can carry several, one per failed operation.
type ErrorDetail struct {
	// Index is the position of the failed operation within its mutate call,
	// or -1 when the failure is not positional.
	Index   int
	Code    string
	Message string
	// FieldPath locates the offending request field when the API reports one.
	FieldPath string
}

// APIError is a failure reported by the upstream API.
type APIError struct {
	Code      codes.Code
	Message   string
	RequestID string
	Details   []ErrorDetail
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ads api error (%s): %s", e.Code, e.Message)
	for _, detail := range e.Details {
		b.WriteString("; ")
		if detail.Code != "" {
			b.WriteString(detail.Code)
			b.WriteString(": ")
		}
		b.WriteString(detail.Message)
	}
	return b.String()
}

// Retryable reports whether the failure is transient.
func (e *APIError) Retryable() bool {
	switch e.Code {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	}
	return false
}

// FromError normalizes an upstream failure into an APIError. gRPC status
// errors keep their code; anything else maps to codes.Unknown.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if st, ok := status.FromError(err); ok {
		apiErr := &APIError{
			Code:    st.Code(),
			Message: st.Message(),
		}
		for _, detail := range st.Details() {
			switch d := detail.(type) {
			case *errdetails.BadRequest:
				for _, violation := range d.GetFieldViolations() {
					apiErr.Details = append(apiErr.Details, ErrorDetail{
						Index:     -1,
						Message:   violation.GetDescription(),
						FieldPath: violation.GetField(),
					})
				}
			case *errdetails.ErrorInfo:
				apiErr.Details = append(apiErr.Details, ErrorDetail{
					Index:   -1,
					Code:    d.GetReason(),
					Message: apiErr.Message,
				})
			}
		}
		return apiErr
	}
	return &APIError{
		Code:    codes.Unknown,
		Message: err.Error(),
	}
}
