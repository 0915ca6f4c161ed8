package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// GetDynamicGlobalProperties returns the raw dynamic global properties object.
func (c *Client) GetDynamicGlobalProperties(ctx context.Context) (props json.RawMessage, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_dynamic_global_properties", err, started)
	}()

	return c.call(ctx, "condenser_api.get_dynamic_global_properties", nil)
}

// GetConfig returns the chain configuration constants.
func (c *Client) GetConfig(ctx context.Context) (cfg map[string]json.RawMessage, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_config", err, started)
	}()

	result, err := c.call(ctx, "condenser_api.get_config", nil)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(result, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// GetBlock returns the block at num. A block the node does not have yet yields ErrEmptyResult.
func (c *Client) GetBlock(ctx context.Context, num uint64) (block *Block, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_block", err, started)
	}()

	result, err := c.call(ctx, "condenser_api.get_block", []any{num})
	if err != nil {
		return nil, err
	}
	block = &Block{}
	if err = json.Unmarshal(result, block); err != nil {
		return nil, fmt.Errorf("decode block %d: %w", num, err)
	}
	block.Raw = result
	return block, nil
}

// GetOpsInBlock returns every operation applied in block num, virtual ones included unless onlyVirtual.
func (c *Client) GetOpsInBlock(ctx context.Context, num uint64, onlyVirtual bool) (ops []AppliedOperation, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("get_ops_in_block", err, started)
	}()

	result, err := c.call(ctx, "condenser_api.get_ops_in_block", []any{num, onlyVirtual})
	if err != nil {
		return nil, err
	}

	var raws []json.RawMessage
	if err = json.Unmarshal(result, &raws); err != nil {
		return nil, fmt.Errorf("decode ops in block %d: %w", num, err)
	}
	ops = make([]AppliedOperation, 0, len(raws))
	for i, raw := range raws {
		var op AppliedOperation
		if err = json.Unmarshal(raw, &op); err != nil {
			return nil, fmt.Errorf("decode op %d in block %d: %w", i, num, err)
		}
		op.Raw = raw
		ops = append(ops, op)
	}
	return ops, nil
}
