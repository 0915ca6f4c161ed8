package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/steemrocks-backend/internal/metrics"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/checkpoint"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/model"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/operation"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/repository/clickhouse"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	ClickhouseDSN string `long:"clickhouse-dsn" env:"STEEM_HISTORY_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	Account       string `long:"account" env:"STEEM_HISTORY_ACCOUNT" description:"account name without @" required:"true"`
	Offset        uint64 `long:"offset" env:"STEEM_HISTORY_OFFSET" description:"number of newest operations to skip" default:"0"`
	Limit         uint64 `long:"limit" env:"STEEM_HISTORY_LIMIT" description:"page size" default:"50"`
	StateDir      string `long:"state-dir" env:"STEEM_HISTORY_STATE_DIR" description:"ingester state directory, used to show VESTS as SP" default:"~/.steem_rocks"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, os.Stdout, logger); err != nil {
		logger.Fatal("account history failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, out io.Writer, logger *zap.Logger) error {
	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close repository", zap.Error(err))
		}
	}()

	props := loadProperties(cfg.StateDir, logger)

	total, err := repo.CountOperationsByAccount(ctx, cfg.Account)
	if err != nil {
		return err
	}
	ops, err := repo.OperationsByAccount(ctx, cfg.Account, cfg.Offset, cfg.Limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "@%s: %d operations, showing %d from offset %d\n", cfg.Account, total, len(ops), cfg.Offset)
	for _, op := range ops {
		line, err := describe(op, cfg.Account, props)
		if err != nil {
			logger.Warn("could not decode stored operation",
				zap.String("tx_id", op.TxID),
				zap.Uint32("op_index", op.OpIndex),
				zap.String("type", op.Type),
				zap.Error(err),
			)
			continue
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// loadProperties returns the last chain properties stored by the ingester, or nil when
// there are none yet.
func loadProperties(dir string, logger *zap.Logger) *model.Properties {
	store, err := checkpoint.NewFileStore(dir)
	if err != nil {
		logger.Warn("could not open state directory, VESTS shown as is", zap.Error(err))
		return nil
	}
	props, err := store.LoadProperties(nil)
	if err != nil {
		logger.Warn("could not load chain properties, VESTS shown as is", zap.String("dir", store.Dir()), zap.Error(err))
		return nil
	}
	return props
}

func describe(op model.Operation, account string, props *model.Properties) (string, error) {
	variant, err := operation.Decode(operation.SourceType(operation.Kind(op.Type)), op.Raw, account)
	if err != nil {
		return "", err
	}
	if variant == nil {
		return "", fmt.Errorf("stored type %q no longer decodes", op.Type)
	}
	line := fmt.Sprintf("%s  #%d  %s", op.CreatedAt.UTC().Format(time.DateTime), op.BlockNum, variant.Action())
	if sp := steemPower(variant, props); sp != "" {
		line += "  (" + sp + ")"
	}
	return line, nil
}

// steemPower renders the VESTS carried by a variant as Steem Power.
func steemPower(variant operation.Variant, props *model.Properties) string {
	if props == nil {
		return ""
	}

	var vests model.Amount
	switch v := variant.(type) {
	case operation.DelegateVestingShares:
		vests = v.VestingShares
	case operation.ReturnVestingDelegation:
		vests = v.VestingShares
	case operation.ClaimRewardBalance:
		vests = v.RewardVests
	case operation.AuthorReward:
		vests = v.VestingPayout
	case operation.CurationReward:
		vests = v.Reward
	case operation.AccountCreateWithDelegation:
		vests = v.Delegation
	default:
		return ""
	}
	if vests.Symbol != model.SymbolVests {
		return ""
	}

	sp, err := props.VestsToSP(vests)
	if err != nil {
		return ""
	}
	return sp.StringFixed(3) + " SP"
}
