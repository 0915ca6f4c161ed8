package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/steemrocks-backend/internal/metrics"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/checkpoint"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/repository/clickhouse"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/rpc"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/service/ingester"
	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/source"
	"github.com/goodnatureofminers/steemrocks-backend/pkg/workerpool"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"STEEM_INGESTER_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	RPCURLs       []string      `long:"rpc-url" env:"STEEM_INGESTER_RPC_URL" env-delim:"," description:"steemd JSON-RPC URL, repeat for failover" default:"https://api.steemit.com"`
	HTTPTimeout   time.Duration `long:"http-timeout" env:"STEEM_INGESTER_HTTP_TIMEOUT" description:"HTTP timeout for RPC requests" default:"30s"`
	RPCRPS        int           `long:"rpc-rps" env:"STEEM_INGESTER_RPC_RPS" description:"max RPC requests per second, 0 disables the limit" default:"0"`
	RetryDelay    time.Duration `long:"retry-delay" env:"STEEM_INGESTER_RETRY_DELAY" description:"pause between failed RPC attempts" default:"1s"`
	StateDir      string        `long:"state-dir" env:"STEEM_INGESTER_STATE_DIR" description:"directory for the checkpoint and state files" default:"~/.steem_rocks"`
	Workers       int           `long:"workers" env:"STEEM_INGESTER_WORKERS" description:"number of persistence workers" default:"8"`
	QueueSize     int           `long:"queue-size" env:"STEEM_INGESTER_QUEUE_SIZE" description:"pending writes before block processing waits" default:"8"`
	StartFrom     *uint64       `long:"start-from" env:"STEEM_INGESTER_START_FROM" description:"resume after this block instead of the stored checkpoint"`
	MetricsAddr   string        `long:"metrics-addr" env:"STEEM_INGESTER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
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

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("steem ingester failed", zap.Error(err))
	}
	logger.Info("steem ingester stopped")
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close repository", zap.Error(err))
		}
	}()

	if stored, err := repo.MaxBlockNum(ctx); err != nil {
		logger.Warn("could not read highest stored block", zap.Error(err))
	} else {
		logger.Info("highest stored block", zap.Uint64("block_num", stored))
	}

	rpcClient, err := rpc.NewClient(cfg.RPCURLs, cfg.HTTPTimeout, cfg.RPCRPS, metrics.NewRPCClient(), logger.Named("rpc"))
	if err != nil {
		return fmt.Errorf("init steem rpc client: %w", err)
	}
	src, err := source.NewSource(rpcClient, source.DefaultRetries, cfg.RetryDelay, logger)
	if err != nil {
		return fmt.Errorf("init chain source: %w", err)
	}

	store, err := checkpoint.NewFileStore(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("init state store: %w", err)
	}
	logger.Info("using state directory", zap.String("dir", store.Dir()))

	// Failed writes are logged by the block processor when it gives up on them.
	pool, err := workerpool.New(cfg.Workers, cfg.QueueSize, metrics.NewWorkerPool("persistence"), nil)
	if err != nil {
		return fmt.Errorf("init worker pool: %w", err)
	}
	// Queued writes must still reach ClickHouse after a shutdown signal.
	pool.Start(context.WithoutCancel(ctx))
	defer pool.Stop()

	svc, err := ingester.NewIngesterService(
		src,
		store,
		repo,
		pool,
		metrics.NewIngester(),
		logger.Named("ingester"),
		cfg.StartFrom,
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
