package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingesterPollTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingester",
		Name:      "poll_total",
		Help:      "Count of head block polls.",
	}, []string{"status"})

	ingesterProcessBlockTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingester",
		Name:      "process_block_total",
		Help:      "Count of processed blocks by outcome.",
	}, []string{"status"})

	ingesterProcessBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ingester",
		Name:      "process_block_duration_seconds",
		Help:      "Duration of fetching, decoding and dispatching one block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	ingesterOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ingester",
		Name:      "operations_total",
		Help:      "Count of chain operations seen, by decode result.",
	}, []string{"result"})

	ingesterCheckpoint = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ingester",
		Name:      "checkpoint_block_num",
		Help:      "Last block number saved as checkpoint.",
	})

	ingesterHeadBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ingester",
		Name:      "head_block_num",
		Help:      "Last head block number reported by the node.",
	})
)

// Ingester tracks metrics for the ingestion loop.
type Ingester struct{}

// NewIngester creates an Ingester metrics collector.
func NewIngester() *Ingester {
	return &Ingester{}
}

func (m Ingester) ObservePoll(err error, head uint64) {
	ingesterPollTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		ingesterHeadBlock.Set(float64(head))
	}
}

// ObserveProcessBlock records a block outcome. skipped marks a block given up after retries.
func (m Ingester) ObserveProcessBlock(err error, skipped bool, started time.Time) {
	s := status(err)
	if skipped {
		s = "skipped"
	}
	ingesterProcessBlockTotal.WithLabelValues(s).Inc()
	ingesterProcessBlockDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
}

func (m Ingester) ObserveOperations(decoded, dropped, failed int) {
	ingesterOperationsTotal.WithLabelValues("decoded").Add(float64(decoded))
	ingesterOperationsTotal.WithLabelValues("dropped").Add(float64(dropped))
	ingesterOperationsTotal.WithLabelValues("failed").Add(float64(failed))
}

func (m Ingester) SetCheckpoint(num uint64) {
	ingesterCheckpoint.Set(float64(num))
}
