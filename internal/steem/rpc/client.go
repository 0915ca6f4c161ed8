// Package rpc implements a JSON-RPC client for steemd condenser_api.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

type (
	// Metrics records metrics for RPC calls.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Client talks to one of several steemd nodes, moving to the next node on transport failures.
type Client struct {
	httpClient *http.Client
	urls       []string
	current    atomic.Uint32
	requestID  atomic.Int64
	limiter    ratelimit.Limiter
	metrics    Metrics
	logger     *zap.Logger
}

// NewClient builds a Client. rps <= 0 disables throttling.
func NewClient(urls []string, timeout time.Duration, rps int, metrics Metrics, logger *zap.Logger) (*Client, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one rpc url is required")
	}
	if metrics == nil {
		return nil, errors.New("rpc metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		urls:       append([]string(nil), urls...),
		limiter:    limiter,
		metrics:    metrics,
		logger:     logger,
	}, nil
}

// URL returns the node currently in use.
func (c *Client) URL() string {
	return c.urls[int(c.current.Load())%len(c.urls)]
}

func (c *Client) rotate(failed string) {
	if len(c.urls) < 2 {
		return
	}
	next := (c.current.Add(1)) % uint32(len(c.urls))
	c.logger.Warn("switching rpc node", zap.String("failed", failed), zap.String("next", c.urls[next]))
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(Request{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	c.limiter.Take()

	url := c.URL()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == nil {
			c.rotate(url)
		}
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			c.rotate(url)
		}
		return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp Response
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	if len(rpcResp.Result) == 0 || bytes.Equal(rpcResp.Result, []byte("null")) {
		return nil, ErrEmptyResult
	}

	return rpcResp.Result, nil
}
