package ingester

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/steemrocks-backend/internal/clock"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/model"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/operation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const virtualTxPrefix = "vop-"

// virtualTxNamespace seeds the UUIDv5 ids of virtual operations.
var virtualTxNamespace = uuid.MustParse("6f1f5e0c-3b0a-4d6e-9a53-5b1d2f8c7e41")

type blockProcessor struct {
	source       ChainSource
	repo         Repository
	dispatcher   Dispatcher
	metrics      IngesterMetrics
	logger       *zap.Logger
	writeRetries int
	retryDelay   time.Duration
	sleep        clock.SleepFunc
}

// Process fetches block num and its operations and hands every write to the dispatcher.
// It returns once the writes are queued, not once they are stored.
func (p *blockProcessor) Process(ctx context.Context, num uint64) error {
	logger := p.logger.With(zap.Uint64("block_num", num))

	block, err := p.source.FetchBlock(ctx, num)
	if err != nil {
		return err
	}
	if !block.HasTransactions {
		logger.Debug("block carries no transactions, skipping")
		return nil
	}

	ops, err := p.source.OperationsInBlock(ctx, num)
	if err != nil {
		return err
	}

	row := model.Block{
		ID:        block.ID,
		Num:       block.Num,
		Timestamp: block.Timestamp,
		Witness:   block.Witness,
		Raw:       block.Raw,
	}
	if err := p.dispatch(ctx, "block", num, func(ctx context.Context) error {
		return p.repo.InsertBlocks(ctx, []model.Block{row})
	}); err != nil {
		return err
	}

	seen := make(map[string]struct{})
	var decoded, dropped, failed int
	for i, op := range ops {
		variant, err := operation.Decode(op.Type, op.Payload, "")
		if err != nil {
			failed++
			logger.Error("decode operation failed",
				zap.String("trx_id", op.TrxID),
				zap.String("type", op.Type),
				zap.Error(err),
			)
			continue
		}
		if variant == nil {
			dropped++
			if operation.Supported(op.Type) {
				logger.Debug("operation carries nothing to store", zap.String("trx_id", op.TrxID), zap.String("type", op.Type))
			} else {
				logger.Debug("unsupported operation type", zap.String("type", op.Type))
			}
			continue
		}
		decoded++

		tx, opIndex := p.transactionFor(block, op, i)
		if _, ok := seen[tx.ID]; !ok {
			seen[tx.ID] = struct{}{}
			if err := p.dispatch(ctx, "transaction", num, func(ctx context.Context) error {
				return p.repo.InsertTransactions(ctx, []model.Transaction{tx})
			}); err != nil {
				return err
			}
		}

		opRow := model.Operation{
			TxID:      tx.ID,
			BlockNum:  num,
			OpIndex:   opIndex,
			Type:      string(variant.Kind()),
			Raw:       rawOrEmpty(op.Payload),
			Actor:     model.StringPtr(variant.Actor()),
			Effected:  model.StringPtr(variant.Effected()),
			CreatedAt: block.Timestamp,
		}
		if err := p.dispatch(ctx, "operation", num, func(ctx context.Context) error {
			return p.repo.InsertOperations(ctx, []model.Operation{opRow})
		}); err != nil {
			return err
		}
	}

	p.metrics.ObserveOperations(decoded, dropped, failed)
	logger.Debug("block dispatched",
		zap.Int("operations", len(ops)),
		zap.Int("decoded", decoded),
		zap.Int("transactions", len(seen)),
	)
	return nil
}

// transactionFor returns the transaction row an operation belongs to and the operation's
// index within it. Virtual operations get a synthetic transaction of their own.
func (p *blockProcessor) transactionFor(block *model.ChainBlock, op model.AppliedOperation, index int) (model.Transaction, uint32) {
	if op.Virtual {
		return model.Transaction{
			ID:       virtualTxID(block.Num, index),
			BlockNum: block.Num,
			Raw:      rawOrEmpty(op.Raw),
		}, 0
	}

	raw, ok := block.TransactionBody(op.TrxID)
	if !ok {
		p.logger.Warn("transaction body missing from block",
			zap.Uint64("block_num", block.Num),
			zap.String("trx_id", op.TrxID),
		)
		raw = op.Raw
	}
	return model.Transaction{ID: op.TrxID, BlockNum: block.Num, Raw: rawOrEmpty(raw)}, op.OpInTrx
}

// virtualTxID derives a stable id from the block number and the operation's position,
// so a replayed block overwrites the same rows.
func virtualTxID(num uint64, index int) string {
	name := fmt.Sprintf("%d/%d", num, index)
	return virtualTxPrefix + uuid.NewSHA1(virtualTxNamespace, []byte(name)).String()
}

func (p *blockProcessor) dispatch(ctx context.Context, what string, num uint64, write func(context.Context) error) error {
	err := p.dispatcher.Submit(ctx, func(taskCtx context.Context) error {
		return p.writeWithRetries(taskCtx, what, num, write)
	})
	if err != nil {
		return fmt.Errorf("dispatch %s write for block %d: %w", what, num, err)
	}
	return nil
}

func (p *blockProcessor) writeWithRetries(ctx context.Context, what string, num uint64, write func(context.Context) error) error {
	attempts := p.writeRetries + 1
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = write(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil || attempt == attempts {
			break
		}
		p.logger.Warn("persist failed, retrying",
			zap.String("entity", what),
			zap.Uint64("block_num", num),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if sleepErr := p.sleep(ctx, p.retryDelay); sleepErr != nil {
			break
		}
	}
	p.logger.Error("persist failed, giving up",
		zap.String("entity", what),
		zap.Uint64("block_num", num),
		zap.Error(err),
	)
	return fmt.Errorf("persist %s of block %d: %w", what, num, err)
}

// rawOrEmpty keeps NOT NULL raw columns valid for payloads the node omitted.
func rawOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}
