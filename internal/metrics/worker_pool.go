package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	workerPoolTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker_pool",
		Name:      "tasks_total",
		Help:      "Count of executed pool tasks.",
	}, []string{"pool", "status"})

	workerPoolTaskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "worker_pool",
		Name:      "task_duration_seconds",
		Help:      "Duration of pool tasks including retries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"pool", "status"})

	workerPoolQueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "worker_pool",
		Name:      "queue_depth",
		Help:      "Tasks waiting for a worker.",
	}, []string{"pool"})
)

// WorkerPool tracks metrics for a named worker pool.
type WorkerPool struct {
	pool string
}

// NewWorkerPool creates a WorkerPool metrics collector.
func NewWorkerPool(pool string) *WorkerPool {
	return &WorkerPool{pool: orUnknown(pool)}
}

func (m WorkerPool) ObserveTask(err error, started time.Time) {
	s := status(err)
	workerPoolTasksTotal.WithLabelValues(m.pool, s).Inc()
	workerPoolTaskDuration.WithLabelValues(m.pool, s).Observe(time.Since(started).Seconds())
}

func (m WorkerPool) SetQueueDepth(depth int) {
	workerPoolQueueDepth.WithLabelValues(m.pool).Set(float64(depth))
}
