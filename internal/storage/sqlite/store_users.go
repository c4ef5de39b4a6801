package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
)

// PutUser upserts a user profile.
func (s *Store) PutUser(ctx context.Context, userID string, profile map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return platformerrors.New(platformerrors.CodeFieldInvalid, "user id is required")
	}
	if profile == nil {
		profile = map[string]any{}
	}
	encoded, err := json.Marshal(profile)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodeStorageFailure, "encode user profile", err)
	}

	now := toMillis(s.now())
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (user_id, profile, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   profile = excluded.profile,
		   updated_at = excluded.updated_at`,
		userID,
		string(encoded),
		now,
		now,
	)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodeStorageFailure, "put user", err)
	}
	return nil
}

// GetUser returns a user profile by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, platformerrors.New(platformerrors.CodeFieldInvalid, "user id is required")
	}

	var encoded string
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT profile FROM users WHERE user_id = ?`,
		userID,
	).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "get user", err)
	}

	var profile map[string]any
	if err := json.Unmarshal([]byte(encoded), &profile); err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "decode user profile", err)
	}
	return profile, nil
}

// GrantAccountAccess upserts an account grant for a user.
func (s *Store) GrantAccountAccess(ctx context.Context, userID, customerID string, level storage.AccessLevel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	userID = strings.TrimSpace(userID)
	customerID = strings.TrimSpace(customerID)
	if userID == "" {
		return platformerrors.New(platformerrors.CodeFieldInvalid, "user id is required")
	}
	if customerID == "" {
		return platformerrors.New(platformerrors.CodeCustomerIDInvalid, "customer id is required")
	}
	switch level {
	case storage.AccessRead, storage.AccessWrite, storage.AccessAdmin:
	default:
		return platformerrors.New(platformerrors.CodeFieldInvalid, fmt.Sprintf("unknown access level %q", level))
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO account_access (user_id, customer_id, access_level, granted_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, customer_id) DO UPDATE SET
		   access_level = excluded.access_level,
		   granted_at = excluded.granted_at`,
		userID,
		customerID,
		string(level),
		toMillis(s.now()),
	)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodeStorageFailure, "grant account access", err)
	}
	return nil
}

// ListAccountAccess returns a user's account grants ordered by customer ID.
func (s *Store) ListAccountAccess(ctx context.Context, userID string) ([]storage.AccountAccess, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, platformerrors.New(platformerrors.CodeFieldInvalid, "user id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT user_id, customer_id, access_level, granted_at
		   FROM account_access
		  WHERE user_id = ?
		  ORDER BY customer_id`,
		userID,
	)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "list account access", err)
	}
	defer rows.Close()

	var grants []storage.AccountAccess
	for rows.Next() {
		var (
			grant     storage.AccountAccess
			level     string
			grantedAt int64
		)
		if err := rows.Scan(&grant.UserID, &grant.CustomerID, &level, &grantedAt); err != nil {
			return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "scan account access", err)
		}
		grant.Level = storage.AccessLevel(level)
		grant.GrantedAt = fromMillis(grantedAt)
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "iterate account access", err)
	}
	return grants, nil
}

// HasAccountAccess reports whether the user holds at least min access to the
// account.
func (s *Store) HasAccountAccess(ctx context.Context, userID, customerID string, min storage.AccessLevel) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, errNotConfigured
	}

	var level string
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT access_level FROM account_access WHERE user_id = ? AND customer_id = ?`,
		strings.TrimSpace(userID),
		strings.TrimSpace(customerID),
	).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, platformerrors.Wrap(platformerrors.CodeStorageFailure, "check account access", err)
	}
	return storage.AccessLevel(level).AtLeast(min), nil
}
