package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
)

// PutConfig upserts a config value. An empty userID writes the global
// default; a non-empty userID writes a per-user override.
func (s *Store) PutConfig(ctx context.Context, key, userID string, value map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return platformerrors.New(platformerrors.CodeFieldInvalid, "config key is required")
	}
	if value == nil {
		value = map[string]any{}
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodeStorageFailure, "encode config value", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO config_entries (config_key, user_id, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (config_key, user_id) DO UPDATE SET
		   value = excluded.value,
		   updated_at = excluded.updated_at`,
		key,
		strings.TrimSpace(userID),
		string(encoded),
		toMillis(s.now()),
	)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodeStorageFailure, "put config", err)
	}
	return nil
}

// GetConfig resolves key for the user, falling back to the global value when
// the user has no override.
func (s *Store) GetConfig(ctx context.Context, key, userID string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, platformerrors.New(platformerrors.CodeFieldInvalid, "config key is required")
	}
	userID = strings.TrimSpace(userID)

	var encoded string
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT value FROM config_entries WHERE config_key = ? AND user_id = ?`,
		key,
		userID,
	).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) && userID != "" {
		// Fall back to the global default.
		err = s.sqlDB.QueryRowContext(
			ctx,
			`SELECT value FROM config_entries WHERE config_key = ? AND user_id = ''`,
			key,
		).Scan(&encoded)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "get config", err)
	}

	var value map[string]any
	if err := json.Unmarshal([]byte(encoded), &value); err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "decode config value", err)
	}
	return value, nil
}
