package source

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"encoding/json"

	"github.com/goodnatureofminers/steemrocks-backend/internal/steem/rpc"
)

// RPCClient is the subset of the steemd client used by Source.
type RPCClient interface {
	GetDynamicGlobalProperties(ctx context.Context) (json.RawMessage, error)
	GetConfig(ctx context.Context) (map[string]json.RawMessage, error)
	GetBlock(ctx context.Context, num uint64) (*rpc.Block, error)
	GetOpsInBlock(ctx context.Context, num uint64, onlyVirtual bool) ([]rpc.AppliedOperation, error)
}
