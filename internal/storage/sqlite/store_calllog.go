package sqlite

import (
	"context"
	"strings"
	"time"

	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/storage"
)

// AppendAPICall records one upstream call outcome.
func (s *Store) AppendAPICall(ctx context.Context, call storage.APICall) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	method := strings.TrimSpace(call.Method)
	if method == "" {
		return platformerrors.New(platformerrors.CodeFieldInvalid, "method name is required")
	}
	calledAt := call.Timestamp
	if calledAt.IsZero() {
		calledAt = s.now()
	}
	status := call.CacheStatus
	if status == "" {
		status = storage.CacheDisabled
	}

	success := 0
	if call.Success {
		success = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO api_call_logs (
		   called_at,
		   method_name,
		   customer_id,
		   cache_status,
		   execution_time_ms,
		   query_hash,
		   query_size,
		   response_size,
		   success,
		   error_message
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		toMillis(calledAt),
		method,
		strings.TrimSpace(call.CustomerID),
		string(status),
		call.ExecutionTime.Milliseconds(),
		call.QueryHash,
		call.QuerySize,
		call.ResponseSize,
		success,
		call.ErrorMessage,
	)
	if err != nil {
		return platformerrors.Wrap(platformerrors.CodeStorageFailure, "append api call", err)
	}
	return nil
}

// ListAPICalls returns calls logged at or after since, newest first.
func (s *Store) ListAPICalls(ctx context.Context, since time.Time, limit int) ([]storage.APICall, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT called_at, method_name, customer_id, cache_status,
		        execution_time_ms, query_hash, query_size, response_size,
		        success, error_message
		   FROM api_call_logs
		  WHERE called_at >= ?
		  ORDER BY called_at DESC, id DESC
		  LIMIT ?`,
		toMillis(since),
		limit,
	)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "list api calls", err)
	}
	defer rows.Close()

	var calls []storage.APICall
	for rows.Next() {
		var (
			calledAt  int64
			elapsedMS int64
			success   int
			call      storage.APICall
		)
		var status string
		if err := rows.Scan(
			&calledAt,
			&call.Method,
			&call.CustomerID,
			&status,
			&elapsedMS,
			&call.QueryHash,
			&call.QuerySize,
			&call.ResponseSize,
			&success,
			&call.ErrorMessage,
		); err != nil {
			return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "scan api call", err)
		}
		call.Timestamp = fromMillis(calledAt)
		call.CacheStatus = storage.CacheStatus(status)
		call.ExecutionTime = time.Duration(elapsedMS) * time.Millisecond
		call.Success = success != 0
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "iterate api calls", err)
	}
	return calls, nil
}
