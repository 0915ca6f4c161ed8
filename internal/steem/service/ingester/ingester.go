package ingester

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/steemrocks-backend/internal/clock"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/source"
	"go.uber.org/zap"
)

// State is the phase the ingestion loop is in.
type State int32

const (
	StateIdle State = iota
	StatePolling
	StateProcessingBlock
	StateSleeping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateProcessingBlock:
		return "processing_block"
	case StateSleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// IngesterService walks the chain block by block from the checkpoint to the head.
type IngesterService struct {
	logger         *zap.Logger
	source         ChainSource
	store          StateStore
	metrics        IngesterMetrics
	blockProcessor BlockProcessor
	sleep          clock.SleepFunc
	startFrom      *uint64
	state          atomic.Int32
}

// NewIngesterService builds an IngesterService. startFrom, when set, replaces the stored
// checkpoint as the resume point: block startFrom+1 is processed first.
func NewIngesterService(
	src ChainSource,
	store StateStore,
	repo Repository,
	dispatcher Dispatcher,
	metrics IngesterMetrics,
	logger *zap.Logger,
	startFrom *uint64,
) (*IngesterService, error) {
	if src == nil {
		return nil, errors.New("chain source is required")
	}
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if metrics == nil {
		return nil, errors.New("ingester metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IngesterService{
		logger:    logger,
		source:    src,
		store:     store,
		metrics:   metrics,
		sleep:     clock.SleepWithContext,
		startFrom: startFrom,
		blockProcessor: &blockProcessor{
			source:       src,
			repo:         repo,
			dispatcher:   dispatcher,
			metrics:      metrics,
			logger:       logger.Named("blockProcessor"),
			writeRetries: writeRetries,
			retryDelay:   writeRetryDelay,
			sleep:        clock.SleepWithContext,
		},
	}, nil
}

// State reports the current loop phase.
func (s *IngesterService) State() State {
	return State(s.state.Load())
}

func (s *IngesterService) setState(state State) {
	if prev := State(s.state.Swap(int32(state))); prev != state {
		s.logger.Debug("state changed", zap.Stringer("from", prev), zap.Stringer("to", state))
	}
}

// Run ingests until ctx is canceled or the local state files can no longer be written.
// Upstream failures are retried or skipped and never end the loop.
func (s *IngesterService) Run(ctx context.Context) error {
	s.setState(StateIdle)
	defer s.setState(StateIdle)

	checkpoint, err := s.resumePoint(ctx)
	if err != nil {
		return err
	}
	s.metrics.SetCheckpoint(checkpoint)
	s.logger.Info("last processed block", zap.Uint64("block_num", checkpoint))

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if checkpoint, err = s.run(ctx, checkpoint); err != nil {
			return err
		}
	}
}

func (s *IngesterService) resumePoint(ctx context.Context) (uint64, error) {
	props, err := s.source.DynamicProperties(ctx)
	if err != nil {
		return 0, err
	}
	if _, err := s.store.LoadProperties(props); err != nil {
		return 0, fmt.Errorf("load properties: %w", err)
	}

	if s.startFrom != nil {
		s.logger.Info("starting from configured block", zap.Uint64("block_num", *s.startFrom))
		return *s.startFrom, nil
	}
	checkpoint, err := s.store.LoadCheckpoint(props.HeadBlockNumber)
	if err != nil {
		return 0, fmt.Errorf("load checkpoint: %w", err)
	}
	return checkpoint, nil
}

// run is one Polling pass: fetch the head, process every block up to it, then sleep one
// block interval. The properties refreshed after each block move the head along.
func (s *IngesterService) run(ctx context.Context, checkpoint uint64) (uint64, error) {
	s.setState(StatePolling)
	head, err := s.source.HeadBlockNumber(ctx)
	s.metrics.ObservePoll(err, head)
	if err != nil {
		return checkpoint, err
	}

	for head > checkpoint {
		next := checkpoint + 1
		s.setState(StateProcessingBlock)
		if err := s.processBlock(ctx, next); err != nil {
			return checkpoint, err
		}

		props, err := s.source.DynamicProperties(ctx)
		if err != nil {
			return checkpoint, err
		}
		if err := s.store.SaveProperties(props); err != nil {
			return checkpoint, fmt.Errorf("save properties: %w", err)
		}
		if err := s.store.SaveCheckpoint(next); err != nil {
			return checkpoint, fmt.Errorf("save checkpoint: %w", err)
		}
		checkpoint = next
		head = props.HeadBlockNumber
		s.metrics.SetCheckpoint(checkpoint)
	}

	s.setState(StateSleeping)
	interval := s.source.BlockInterval(ctx)
	s.logger.Debug("sleeping", zap.Duration("interval", interval), zap.Uint64("checkpoint", checkpoint))
	if err := s.sleep(ctx, interval); err != nil {
		return checkpoint, err
	}
	return checkpoint, nil
}

// processBlock swallows unavailable blocks so the loop moves past them.
func (s *IngesterService) processBlock(ctx context.Context, num uint64) error {
	started := time.Now()
	s.logger.Info("processing block", zap.Uint64("block_num", num))

	err := s.blockProcessor.Process(ctx, num)
	switch {
	case err == nil:
		s.metrics.ObserveProcessBlock(nil, false, started)
		return nil
	case errors.Is(err, source.ErrBlockUnavailable):
		s.metrics.ObserveProcessBlock(err, true, started)
		s.logger.Error("block unavailable after retries, skipping", zap.Uint64("block_num", num), zap.Error(err))
		return nil
	default:
		s.metrics.ObserveProcessBlock(err, false, started)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("process block %d: %w", num, err)
	}
}

