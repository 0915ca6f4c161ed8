package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/model"
)

const insertOperationsQuery = `
INSERT INTO steem_operations (
	tx_id,
	op_index,
	block_num,
	type,
	raw,
	actor,
	effected,
	created_at,
	ingested_at
) VALUES`

// InsertOperations upserts operation rows keyed by (tx_id, op_index).
func (r *Repository) InsertOperations(ctx context.Context, ops []model.Operation) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_operations", err, start)
	}()

	if len(ops) == 0 {
		return nil
	}

	ingestedAt := time.Now().UTC()
	return r.sendBatch(ctx, insertOperationsQuery, "operations", len(ops), func(batch driver.Batch, i int) error {
		op := ops[i]
		return batch.Append(
			op.TxID,
			op.OpIndex,
			op.BlockNum,
			op.Type,
			string(op.Raw),
			op.Actor,
			op.Effected,
			op.CreatedAt,
			ingestedAt,
		)
	})
}
