package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const countOperationsByAccountQuery = `
SELECT count() AS total
FROM steem_operations FINAL
WHERE actor = ? OR effected = ?`

// CountOperationsByAccount returns the number of operations touching account, for pagination.
func (r *Repository) CountOperationsByAccount(ctx context.Context, account string) (total uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("count_operations_by_account", err, start)
	}()

	if account == "" {
		return 0, errors.New("account is required")
	}

	return r.scanUint64(ctx, "operations count", countOperationsByAccountQuery, account, account)
}

func (r *Repository) scanUint64(ctx context.Context, what, query string, args ...any) (value uint64, err error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", what, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, fmt.Errorf("%s not found", what)
	}
	if err = rows.Scan(&value); err != nil {
		return 0, fmt.Errorf("scan %s: %w", what, err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate %s: %w", what, err)
	}
	return value, nil
}
