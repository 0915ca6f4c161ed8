package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var million = decimal.NewFromInt(1_000_000)

// Properties is a snapshot of the chain's dynamic global properties.
// Raw mirrors the node response and is what gets persisted.
type Properties struct {
	HeadBlockNumber       uint64
	HeadBlockID           string
	LastIrreversibleBlock uint64
	TotalVestingFundSteem Amount
	TotalVestingShares    Amount
	Raw                   json.RawMessage
}

type propertiesFields struct {
	HeadBlockNumber       uint64 `json:"head_block_number"`
	HeadBlockID           string `json:"head_block_id"`
	LastIrreversibleBlock uint64 `json:"last_irreversible_block_num"`
	TotalVestingFundSteem Amount `json:"total_vesting_fund_steem"`
	TotalVestingShares    Amount `json:"total_vesting_shares"`
}

// ParseProperties decodes a dynamic global properties object.
func ParseProperties(raw json.RawMessage) (*Properties, error) {
	var f propertiesFields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode dynamic global properties: %w", err)
	}
	return &Properties{
		HeadBlockNumber:       f.HeadBlockNumber,
		HeadBlockID:           f.HeadBlockID,
		LastIrreversibleBlock: f.LastIrreversibleBlock,
		TotalVestingFundSteem: f.TotalVestingFundSteem,
		TotalVestingShares:    f.TotalVestingShares,
		Raw:                   append(json.RawMessage(nil), raw...),
	}, nil
}

// SteemPerMVests returns how many STEEM one million VESTS are worth.
func (p Properties) SteemPerMVests() (decimal.Decimal, error) {
	if p.TotalVestingShares.Value.IsZero() {
		return decimal.Zero, errors.New("total vesting shares is zero")
	}
	return p.TotalVestingFundSteem.Value.Div(p.TotalVestingShares.Value.Div(million)), nil
}

// VestsToSP converts a VESTS amount into Steem Power.
func (p Properties) VestsToSP(vests Amount) (decimal.Decimal, error) {
	if vests.Symbol != SymbolVests {
		return decimal.Zero, fmt.Errorf("expected %s amount, got %s", SymbolVests, vests.Symbol)
	}
	perMVests, err := p.SteemPerMVests()
	if err != nil {
		return decimal.Zero, err
	}
	return vests.Value.Div(million).Mul(perMVests), nil
}

// JSON returns the raw node mirror, or the typed fields when no raw copy exists.
func (p Properties) JSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(propertiesFields{
		HeadBlockNumber:       p.HeadBlockNumber,
		HeadBlockID:           p.HeadBlockID,
		LastIrreversibleBlock: p.LastIrreversibleBlock,
		TotalVestingFundSteem: p.TotalVestingFundSteem,
		TotalVestingShares:    p.TotalVestingShares,
	})
}
