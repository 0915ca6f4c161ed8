package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operations_total",
		Help:      "Count of steemd RPC operations.",
	}, []string{"operation", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of steemd RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// RPCClient tracks metrics for calls to steemd nodes.
type RPCClient struct{}

// NewRPCClient constructs a metrics collector for RPC calls.
func NewRPCClient() *RPCClient {
	return &RPCClient{}
}

// Observe records a single RPC call outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	operation = orUnknown(operation)
	s := status(err)

	rpcRequestsTotal.WithLabelValues(operation, s).Inc()
	rpcRequestDuration.WithLabelValues(operation, s).Observe(time.Since(started).Seconds())
}
