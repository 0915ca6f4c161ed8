package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/model"
)

const insertBlocksQuery = `
INSERT INTO steem_blocks (
	block_num,
	block_id,
	timestamp,
	witness,
	raw,
	ingested_at
) VALUES`

// InsertBlocks upserts block rows.
func (r *Repository) InsertBlocks(ctx context.Context, blocks []model.Block) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("insert_blocks", err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	ingestedAt := time.Now().UTC()
	return r.sendBatch(ctx, insertBlocksQuery, "blocks", len(blocks), func(batch driver.Batch, i int) error {
		b := blocks[i]
		return batch.Append(
			b.Num,
			b.ID,
			b.Timestamp,
			b.Witness,
			string(b.Raw),
			ingestedAt,
		)
	})
}
