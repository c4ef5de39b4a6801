package domain

import (
	"context"
	"fmt"
	"log"

	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
)

// toolError shapes an error for the tool boundary. Validation failures are
// the caller's fault and surface verbatim; infrastructure failures are
// logged and replaced with a generic message so internals never leak into
// tool output.
func toolError(toolName string, err error) error {
	if platformerrors.IsValidation(err) {
		return err
	}
	log.Printf("%s failed: %v", toolName, err)
	return fmt.Errorf("%s failed, see server logs", toolName)
}

// checkAccess enforces account grants when a user identity is supplied.
// Requests without a user id pass through; deployments that want mandatory
// identity enforce it at the transport.
func checkAccess(ctx context.Context, users storage.UserStore, userID, customerID string, min storage.AccessLevel) error {
	if users == nil || userID == "" {
		return nil
	}
	ok, err := users.HasAccountAccess(ctx, userID, customerID, min)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodeStorageFailure, "check account access", err)
	}
	if !ok {
		return platformerrors.WithMetadata(
			platformerrors.CodeAccessDenied,
			fmt.Sprintf("user %s does not hold %s access to account %s", userID, min, customerID),
			map[string]string{"user_id": userID, "customer_id": customerID},
		)
	}
	return nil
}
