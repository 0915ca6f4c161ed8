package clickhouse

import (
	"context"
	"time"
)

const maxBlockNumQuery = `
SELECT coalesce(max(block_num), toUInt64(0)) AS max_block_num
FROM steem_blocks`

// MaxBlockNum returns the highest stored block number, or 0 for an empty table.
func (r *Repository) MaxBlockNum(ctx context.Context) (num uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_block_num", err, start)
	}()

	return r.scanUint64(ctx, "max block num", maxBlockNumQuery)
}
