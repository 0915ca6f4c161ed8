package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/model"
	"github.com/goodnatureofminers/steemrocks-backend/pkg/workerpool"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ChainSource interface {
		DynamicProperties(ctx context.Context) (*model.Properties, error)
		HeadBlockNumber(ctx context.Context) (uint64, error)
		BlockInterval(ctx context.Context) time.Duration
		FetchBlock(ctx context.Context, num uint64) (*model.ChainBlock, error)
		OperationsInBlock(ctx context.Context, num uint64) ([]model.AppliedOperation, error)
	}
	StateStore interface {
		LoadCheckpoint(fallback uint64) (uint64, error)
		SaveCheckpoint(num uint64) error
		LoadProperties(fallback *model.Properties) (*model.Properties, error)
		SaveProperties(props *model.Properties) error
	}
	Repository interface {
		InsertBlocks(ctx context.Context, blocks []model.Block) error
		InsertTransactions(ctx context.Context, txs []model.Transaction) error
		InsertOperations(ctx context.Context, ops []model.Operation) error
	}
	Dispatcher interface {
		Submit(ctx context.Context, task workerpool.Task) error
	}
	BlockProcessor interface {
		Process(ctx context.Context, num uint64) error
	}
	IngesterMetrics interface {
		ObservePoll(err error, head uint64)
		ObserveProcessBlock(err error, skipped bool, started time.Time)
		ObserveOperations(decoded, dropped, failed int)
		SetCheckpoint(num uint64)
	}
)
