// Package source reads chain data from steemd with the retry policy the ingester relies on.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goodnatureofminers/steemrocks-backend/internal/clock"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/model"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/operation"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/rpc"
	"go.uber.org/zap"
)

const (
	// DefaultRetries is the number of retries after the first failed block fetch.
	DefaultRetries = 3
	// DefaultRetryDelay is the pause between attempts.
	DefaultRetryDelay = time.Second
	// DefaultBlockInterval is used when the node config carries no interval.
	DefaultBlockInterval = 3 * time.Second

	zeroTrxID = "0000000000000000000000000000000000000000"
)

// ErrBlockUnavailable is returned when a block could not be read within the retry budget.
var ErrBlockUnavailable = errors.New("block unavailable")

var blockIntervalKeys = []string{"STEEM_BLOCK_INTERVAL", "STEEMIT_BLOCK_INTERVAL"}

// Source wraps the RPC client.
type Source struct {
	rpc        RPCClient
	logger     *zap.Logger
	retries    int
	retryDelay time.Duration
	sleep      clock.SleepFunc

	mu       sync.Mutex
	interval time.Duration
}

// NewSource creates a Source. retries < 0 falls back to DefaultRetries.
func NewSource(client RPCClient, retries int, retryDelay time.Duration, logger *zap.Logger) (*Source, error) {
	if client == nil {
		return nil, errors.New("rpc client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if retries < 0 {
		retries = DefaultRetries
	}
	return &Source{
		rpc:        client,
		logger:     logger.Named("source"),
		retries:    retries,
		retryDelay: retryDelay,
		sleep:      clock.SleepWithContext,
	}, nil
}

// DynamicProperties returns the dynamic global properties, retrying until the node answers
// or ctx is canceled.
func (s *Source) DynamicProperties(ctx context.Context) (*model.Properties, error) {
	for attempt := 1; ; attempt++ {
		props, err := s.dynamicProperties(ctx)
		if err == nil {
			return props, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("could not get dynamic global properties, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if err := s.sleep(ctx, s.retryDelay); err != nil {
			return nil, err
		}
	}
}

func (s *Source) dynamicProperties(ctx context.Context) (*model.Properties, error) {
	raw, err := s.rpc.GetDynamicGlobalProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("get dynamic global properties: %w", err)
	}
	return model.ParseProperties(raw)
}

// HeadBlockNumber returns the current head block number.
func (s *Source) HeadBlockNumber(ctx context.Context) (uint64, error) {
	props, err := s.DynamicProperties(ctx)
	if err != nil {
		return 0, err
	}
	return props.HeadBlockNumber, nil
}

// BlockInterval returns the chain block interval. The first successful lookup is cached;
// a failed lookup yields DefaultBlockInterval without caching it.
func (s *Source) BlockInterval(ctx context.Context) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.interval > 0 {
		return s.interval
	}

	cfg, err := s.rpc.GetConfig(ctx)
	if err != nil {
		s.logger.Warn("could not get chain config, using default block interval",
			zap.Duration("interval", DefaultBlockInterval),
			zap.Error(err),
		)
		return DefaultBlockInterval
	}

	s.interval = DefaultBlockInterval
	for _, key := range blockIntervalKeys {
		raw, ok := cfg[key]
		if !ok {
			continue
		}
		var seconds uint32
		if err := json.Unmarshal(raw, &seconds); err != nil || seconds == 0 {
			s.logger.Warn("invalid block interval in chain config", zap.String("key", key), zap.ByteString("value", raw))
			continue
		}
		s.interval = time.Duration(seconds) * time.Second
		break
	}
	return s.interval
}

// FetchBlock reads block num, trying once and then up to retries more times.
// After the budget is spent it returns ErrBlockUnavailable.
func (s *Source) FetchBlock(ctx context.Context, num uint64) (*model.ChainBlock, error) {
	var block *model.ChainBlock
	err := s.withRetries(ctx, "block", num, func() error {
		src, err := s.rpc.GetBlock(ctx, num)
		if err != nil {
			return err
		}
		block, err = convertBlock(num, src)
		return err
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// OperationsInBlock reads every applied operation of block num, virtual ones included,
// with the same retry budget as FetchBlock.
func (s *Source) OperationsInBlock(ctx context.Context, num uint64) ([]model.AppliedOperation, error) {
	var ops []model.AppliedOperation
	err := s.withRetries(ctx, "operations", num, func() error {
		src, err := s.rpc.GetOpsInBlock(ctx, num, false)
		if err != nil {
			return err
		}
		ops, err = convertOperations(num, src)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ops, nil
}

func (s *Source) withRetries(ctx context.Context, what string, num uint64, fn func() error) error {
	attempts := s.retries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if attempt == attempts {
			break
		}
		s.logger.Warn("could not read "+what+", retrying",
			zap.Uint64("block_num", num),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if err := s.sleep(ctx, s.retryDelay); err != nil {
			return err
		}
	}
	return fmt.Errorf("read %s of block %d after %d attempts: %w: %w", what, num, attempts, ErrBlockUnavailable, lastErr)
}

func convertBlock(num uint64, src *rpc.Block) (*model.ChainBlock, error) {
	if src == nil {
		return nil, rpc.ErrEmptyResult
	}
	ts, err := model.ParseTime(src.Timestamp)
	if err != nil {
		return nil, err
	}
	if len(src.Transactions) > 0 && len(src.Transactions) != len(src.TransactionIDs) {
		return nil, fmt.Errorf("block %d has %d transactions and %d transaction ids",
			num, len(src.Transactions), len(src.TransactionIDs))
	}

	return &model.ChainBlock{
		Num:             num,
		ID:              src.BlockID,
		Timestamp:       ts,
		Witness:         src.Witness,
		TransactionIDs:  src.TransactionIDs,
		Transactions:    src.Transactions,
		HasTransactions: hasKey(src.Raw, "transactions"),
		Raw:             src.Raw,
	}, nil
}

func hasKey(raw json.RawMessage, key string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	_, ok := fields[key]
	return ok
}

func convertOperations(num uint64, src []rpc.AppliedOperation) ([]model.AppliedOperation, error) {
	ops := make([]model.AppliedOperation, 0, len(src))
	for i, op := range src {
		opType, payload, err := splitOperation(op.Op)
		if err != nil {
			return nil, fmt.Errorf("op %d in block %d: %w", i, num, err)
		}
		var ts time.Time
		if op.Timestamp != "" {
			if ts, err = model.ParseTime(op.Timestamp); err != nil {
				return nil, err
			}
		}
		blockNum := op.Block
		if blockNum == 0 {
			blockNum = num
		}
		ops = append(ops, model.AppliedOperation{
			TrxID:      op.TrxID,
			BlockNum:   blockNum,
			TrxInBlock: op.TrxInBlock,
			OpInTrx:    op.OpInTrx,
			Virtual:    isVirtual(op),
			Timestamp:  ts,
			Type:       operation.NormalizeType(opType),
			Payload:    payload,
			Raw:        op.Raw,
		})
	}
	return ops, nil
}

// splitOperation accepts both the legacy ["type", {...}] pair and the
// {"type": "x_operation", "value": {...}} object.
func splitOperation(raw json.RawMessage) (string, json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil {
			return "", nil, fmt.Errorf("decode op pair: %w", err)
		}
		if len(pair) != 2 {
			return "", nil, fmt.Errorf("op pair has %d elements", len(pair))
		}
		var opType string
		if err := json.Unmarshal(pair[0], &opType); err != nil {
			return "", nil, fmt.Errorf("decode op type: %w", err)
		}
		return opType, pair[1], nil
	}

	var obj struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", nil, fmt.Errorf("decode op object: %w", err)
	}
	if obj.Type == "" {
		return "", nil, errors.New("op without type")
	}
	return obj.Type, obj.Value, nil
}

func isVirtual(op rpc.AppliedOperation) bool {
	if op.TrxID == zeroTrxID {
		return true
	}
	switch strings.TrimSpace(string(op.VirtualOp)) {
	case "", "0", "false", "null":
		return false
	default:
		return true
	}
}
