// Package model defines domain models for Steem ingestion.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the timestamp format used by steemd (UTC without zone suffix).
const TimeLayout = "2006-01-02T15:04:05"

// Block represents a chain block persisted to ClickHouse.
type Block struct {
	ID        string
	Num       uint64
	Timestamp time.Time
	Witness   string
	Raw       json.RawMessage
}

// Transaction represents a real or synthesized transaction persisted to ClickHouse.
type Transaction struct {
	ID       string
	BlockNum uint64
	Raw      json.RawMessage
}

// Operation is a decoded, user-meaningful operation row.
type Operation struct {
	TxID      string
	BlockNum  uint64
	OpIndex   uint32
	Type      string
	Raw       json.RawMessage
	Actor     *string
	Effected  *string
	CreatedAt time.Time
}

// ChainBlock is a block as returned by the node, with per-transaction bodies split out.
type ChainBlock struct {
	Num            uint64
	ID             string
	Timestamp      time.Time
	Witness        string
	TransactionIDs []string
	Transactions   []json.RawMessage
	// HasTransactions is false when the node omitted the transactions key entirely.
	HasTransactions bool
	Raw             json.RawMessage
}

// TransactionBody returns the raw transaction body for a tx id, if the block carries it.
func (b ChainBlock) TransactionBody(id string) (json.RawMessage, bool) {
	for i, txID := range b.TransactionIDs {
		if txID == id && i < len(b.Transactions) {
			return b.Transactions[i], true
		}
	}
	return nil, false
}

// AppliedOperation is one entry of the flattened per-block operation list.
type AppliedOperation struct {
	TrxID      string
	BlockNum   uint64
	TrxInBlock uint32
	OpInTrx    uint32
	Virtual    bool
	Timestamp  time.Time
	Type       string
	Payload    json.RawMessage
	Raw        json.RawMessage
}

// ParseTime parses a steemd timestamp.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSuffix(s, "Z")
	t, err := time.ParseInLocation(TimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse chain time %q: %w", s, err)
	}
	return t, nil
}

// StringPtr returns nil for empty strings.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
