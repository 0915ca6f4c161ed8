package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/model"
)

const insertTransactionsQuery = `
INSERT INTO steem_transactions (
	tx_id,
	block_num,
	raw,
	ingested_at
) VALUES`

// InsertTransactions upserts transaction rows.
func (r *Repository) InsertTransactions(ctx context.Context, txs []model.Transaction) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_transactions", err, start)
	}()

	if len(txs) == 0 {
		return nil
	}

	ingestedAt := time.Now().UTC()
	return r.sendBatch(ctx, insertTransactionsQuery, "transactions", len(txs), func(batch driver.Batch, i int) error {
		tx := txs[i]
		return batch.Append(
			tx.ID,
			tx.BlockNum,
			string(tx.Raw),
			ingestedAt,
		)
	})
}
