package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyResult is returned when the node answers with a null result.
var ErrEmptyResult = errors.New("empty rpc result")

type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC error object returned by steemd.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Block is the condenser_api.get_block result.
type Block struct {
	BlockID        string            `json:"block_id"`
	Previous       string            `json:"previous"`
	Timestamp      string            `json:"timestamp"`
	Witness        string            `json:"witness"`
	TransactionIDs []string          `json:"transaction_ids"`
	Transactions   []json.RawMessage `json:"transactions"`
	Raw            json.RawMessage   `json:"-"`
}

// AppliedOperation is one entry of condenser_api.get_ops_in_block.
type AppliedOperation struct {
	TrxID      string          `json:"trx_id"`
	Block      uint64          `json:"block"`
	TrxInBlock uint32          `json:"trx_in_block"`
	OpInTrx    uint32          `json:"op_in_trx"`
	VirtualOp  json.RawMessage `json:"virtual_op"`
	Timestamp  string          `json:"timestamp"`
	Op         json.RawMessage `json:"op"`
	Raw        json.RawMessage `json:"-"`
}
