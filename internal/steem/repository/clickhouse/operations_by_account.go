package clickhouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/model"
)

const operationsByAccountQuery = `
SELECT
	tx_id,
	op_index,
	block_num,
	type,
	raw,
	actor,
	effected,
	created_at
FROM steem_operations FINAL
WHERE actor = ? OR effected = ?
ORDER BY created_at DESC, block_num DESC, op_index DESC
LIMIT ? OFFSET ?`

// OperationsByAccount returns the operations where account is the actor or the effected party,
// newest first.
func (r *Repository) OperationsByAccount(ctx context.Context, account string, offset, limit uint64) (ops []model.Operation, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("operations_by_account", err, start)
	}()

	if account == "" {
		return nil, errors.New("account is required")
	}
	if limit == 0 {
		return nil, nil
	}

	rows, err := r.conn.Query(ctx, operationsByAccountQuery, account, account, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query operations by account: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var (
			op  model.Operation
			raw string
		)
		if err = rows.Scan(
			&op.TxID,
			&op.OpIndex,
			&op.BlockNum,
			&op.Type,
			&raw,
			&op.Actor,
			&op.Effected,
			&op.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.Raw = json.RawMessage(raw)
		ops = append(ops, op)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}

	return ops, nil
}
